package main

import (
	"context"
	"database/sql"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/wichananm65/course-recommender/internal/auth"
	"github.com/wichananm65/course-recommender/internal/config"
	"github.com/wichananm65/course-recommender/internal/course"
	"github.com/wichananm65/course-recommender/internal/logging"
	"github.com/wichananm65/course-recommender/internal/recommend"
	"github.com/wichananm65/course-recommender/internal/transcript"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger := logging.Logger()
		logger.Fatal().Err(err).Msg("invalid configuration")
	}
	logging.Init(logging.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})
	log := logging.Logger()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	repo, closeRepo := mustOpenCatalogRepository(ctx, cfg, log)
	defer closeRepo()

	// the process must not serve anything against a bad catalog
	catalogService, err := course.NewService(ctx, repo, cfg.Recommend.DepartmentPrefixLen, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load course catalog")
	}

	engine, err := recommend.NewEngine(catalogService.Store(), cfg.Recommend, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to build recommendation engine")
	}

	var cache recommend.Cache
	if cfg.RedisAddr != "" {
		client, err := recommend.ConnectRedis(ctx, cfg.RedisAddr)
		if err != nil {
			log.Warn().Err(err).Msg("recommendation cache disabled")
		} else {
			defer client.Close()
			cache = recommend.NewRedisCache(client)
		}
	}
	recommendService := recommend.NewService(engine, cache, cfg.CacheTTL, log)

	app := fiber.New(fiber.Config{
		AppName:     "course-recommender",
		JSONEncoder: json.Marshal,
		JSONDecoder: json.Unmarshal,
		BodyLimit:   4 << 20,
	})
	app.Use(logging.Middleware())
	setupCORS(app)

	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"message": "Course recommender is running", "status": "healthy"})
	})
	app.Get("/health", func(c *fiber.Ctx) error {
		cat := catalogService.Store().Catalog()
		return c.JSON(fiber.Map{
			"status":          "healthy",
			"service":         "course-recommender",
			"catalog_version": cat.Version(),
			"courses":         cat.Len(),
		})
	})
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	recommend.NewHandler(recommendService).RegisterPublicRoutes(app)
	transcript.NewHandler(recommendService).RegisterPublicRoutes(app)

	courseHandler := course.NewHandler(catalogService)
	courseHandler.RegisterPublicRoutes(app)

	authService := auth.NewService(cfg.AdminUsername, cfg.AdminPassword, cfg.JWTSecret)
	auth.NewHandler(authService).RegisterPublicRoutes(app)
	if !authService.Enabled() {
		log.Warn().Msg("JWT_SECRET or ADMIN_PASSWORD not set, admin endpoints are disabled")
	}

	admin := app.Group("/admin", authService.Middleware(), auth.RequireAdmin)
	courseHandler.RegisterProtectedRoutes(admin)

	go func() {
		<-ctx.Done()
		log.Info().Msg("shutting down")
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			log.Error().Err(err).Msg("shutdown failed")
		}
	}()

	log.Info().Str("addr", cfg.Addr).Msg("starting server")
	if err := app.Listen(cfg.Addr); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}

func setupCORS(app *fiber.App) {
	app.Use(cors.New(cors.Config{
		AllowOrigins:  "*",
		AllowMethods:  "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders:  "*",
		ExposeHeaders: logging.RequestIDHeader,
	}))
}

//nolint:gocritic // zerolog.Logger is designed to be passed by value
func mustOpenCatalogRepository(ctx context.Context, cfg config.Config, log zerolog.Logger) (course.Repository, func()) {
	if cfg.CatalogSource != config.SourcePostgres {
		return course.NewJSONRepository(cfg.CatalogPath), func() {}
	}

	db, err := sql.Open("pgx", cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open database")
	}
	if err := db.PingContext(ctx); err != nil {
		log.Fatal().Err(err).Msg("failed to reach database")
	}

	repo := course.NewPostgresRepository(db)
	if err := repo.EnsureSchema(ctx); err != nil {
		log.Fatal().Err(err).Msg("failed to prepare courses table")
	}
	seedEmptyTable(ctx, repo, cfg.CatalogPath, log)
	return repo, func() { _ = db.Close() }
}

// seedEmptyTable fills an empty courses table from the catalog file, when
// one is present. Seed problems are logged and the table is left as is.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func seedEmptyTable(ctx context.Context, repo *course.PostgresRepository, path string, log zerolog.Logger) {
	n, err := repo.Count(ctx)
	if err != nil || n > 0 {
		return
	}
	if _, err := os.Stat(path); err != nil {
		return
	}
	records, err := course.NewJSONRepository(path).Load(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("catalog seed skipped")
		return
	}
	if err := repo.Seed(ctx, records); err != nil {
		log.Warn().Err(err).Msg("catalog seed failed")
		return
	}
	log.Info().Int("courses", len(records)).Str("path", path).Msg("seeded courses table")
}
