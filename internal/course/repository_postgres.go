package course

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"
)

// PostgresRepository reads the catalog from the `courses` table. The table
// is populated by the offline embedding job; this service only reads it.
type PostgresRepository struct {
	db *sql.DB
}

const listCoursesQuery = `
		SELECT course_code, url, useful_percentage, easy_percentage, liked_percentage, course_description, reviews, embedding
		FROM courses
		ORDER BY course_code
	`

const createCoursesTable = `
		CREATE TABLE IF NOT EXISTS courses (
			course_code        TEXT PRIMARY KEY,
			url                TEXT,
			useful_percentage  DOUBLE PRECISION,
			easy_percentage    DOUBLE PRECISION,
			liked_percentage   DOUBLE PRECISION,
			course_description TEXT,
			reviews            TEXT[] NOT NULL DEFAULT '{}',
			embedding          DOUBLE PRECISION[]
		)
	`

const insertCourseQuery = `
		INSERT INTO courses (course_code, url, useful_percentage, easy_percentage, liked_percentage, course_description, reviews, embedding)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (course_code) DO NOTHING
	`

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// EnsureSchema creates the courses table when it does not exist yet.
func (r *PostgresRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, createCoursesTable); err != nil {
		return fmt.Errorf("create courses table: %w", err)
	}
	return nil
}

func (r *PostgresRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM courses`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count courses: %w", err)
	}
	return n, nil
}

// Seed inserts records in one transaction. Existing codes are left as they are.
func (r *PostgresRepository) Seed(ctx context.Context, records []Course) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin seed: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, c := range records {
		reviews := c.Reviews
		if reviews == nil {
			reviews = []string{}
		}
		var embedding any
		if c.HasEmbedding() {
			embedding = pq.Array(c.Embedding)
		}
		if _, err := tx.ExecContext(ctx, insertCourseQuery,
			Canonical(c.Code),
			nullString(c.URL),
			toNull(c.Useful),
			toNull(c.Easy),
			toNull(c.Liked),
			nullString(c.Description),
			pq.Array(reviews),
			embedding,
		); err != nil {
			return fmt.Errorf("insert %s: %w", c.Code, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit seed: %w", err)
	}
	return nil
}

func (r *PostgresRepository) Load(ctx context.Context) ([]Course, error) {
	rows, err := r.db.QueryContext(ctx, listCoursesQuery)
	if err != nil {
		return nil, fmt.Errorf("query courses: %w", err)
	}
	defer rows.Close()

	out := make([]Course, 0)
	for rows.Next() {
		c, err := scanCourse(rows)
		if err != nil {
			// a half-read catalog must never be served
			return nil, fmt.Errorf("%w: %v", ErrMalformedCatalog, err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate courses: %w", err)
	}
	return out, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCourse(scanner rowScanner) (Course, error) {
	var (
		code      string
		url       sql.NullString
		useful    sql.NullFloat64
		easy      sql.NullFloat64
		liked     sql.NullFloat64
		desc      sql.NullString
		reviews   []string
		embedding []float64
	)
	if err := scanner.Scan(
		&code,
		&url,
		&useful,
		&easy,
		&liked,
		&desc,
		pq.Array(&reviews),
		pq.Array(&embedding),
	); err != nil {
		return Course{}, err
	}

	return Course{
		Code:        code,
		URL:         url.String,
		Useful:      fromNull(useful),
		Easy:        fromNull(easy),
		Liked:       fromNull(liked),
		Description: desc.String,
		Reviews:     reviews,
		Embedding:   embedding,
	}, nil
}

func fromNull(v sql.NullFloat64) Percentage {
	return Percentage{Value: v.Float64, Valid: v.Valid}
}

func toNull(p Percentage) sql.NullFloat64 {
	return sql.NullFloat64{Float64: p.Value, Valid: p.Valid}
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
