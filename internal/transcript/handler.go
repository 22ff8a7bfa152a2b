package transcript

import (
	"context"
	"errors"
	"io"
	"net/http"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/gofiber/fiber/v2"

	"github.com/wichananm65/course-recommender/internal/logging"
	"github.com/wichananm65/course-recommender/internal/recommend"
)

// maxTranscriptBytes caps the upload we are willing to scan.
const maxTranscriptBytes = 2 << 20

// Recommender is the part of the recommend service the handler needs.
type Recommender interface {
	Recommend(ctx context.Context, completed []string) recommend.Result
}

type Handler struct {
	recommender Recommender
}

func NewHandler(r Recommender) *Handler {
	return &Handler{recommender: r}
}

func (h *Handler) RegisterPublicRoutes(app fiber.Router) {
	app.Post("/upload-pdf", h.uploadPDF)
	app.Post("/upload-transcript", h.upload)
}

// uploadPDF accepts a PDF transcript as the multipart "file", reads its
// text layer and recommends courses from what it finds.
func (h *Handler) uploadPDF(c *fiber.Ctx) error {
	name, b, err := readFormFile(c)
	if err != nil {
		return writeError(c, err)
	}
	if !strings.EqualFold(filepath.Ext(name), ".pdf") {
		return writeError(c, fiber.NewError(fiber.StatusUnsupportedMediaType, "File must be a PDF"))
	}

	text, err := PDFText(b)
	if err != nil {
		logger := logging.FromCtx(c)
		logger.Warn().Err(err).Str("filename", name).Msg("pdf extraction failed")
		return writeError(c, fiber.NewError(fiber.StatusUnprocessableEntity, "Error processing PDF: "+err.Error()))
	}
	return h.respond(c, name, len(b), "PDF processed successfully", text)
}

// upload accepts a plain-text transcript, either as a multipart "file" or
// as the raw request body, and recommends courses from what it finds.
func (h *Handler) upload(c *fiber.Ctx) error {
	name, text, err := readTranscript(c)
	if err != nil {
		return writeError(c, err)
	}
	return h.respond(c, name, len(text), "Transcript processed successfully", text)
}

func (h *Handler) respond(c *fiber.Ctx, name string, size int, message, text string) error {
	found := Extract(text)
	full := found.Full()

	recs := []recommend.Recommendation{}
	if len(full) > 0 {
		res := h.recommender.Recommend(c.UserContext(), full)
		if res.Error != "" {
			logger := logging.FromCtx(c)
			logger.Error().Str("error", res.Error).Msg("transcript recommendation failed")
		} else {
			recs = res.Recommendations
		}
	}

	return c.JSON(fiber.Map{
		"filename":              name,
		"size":                  size,
		"message":               message,
		"status":                "processed",
		"extracted_courses":     full,
		"course_codes":          found.Codes,
		"course_numbers":        found.Numbers,
		"grades":                ExtractGrades(text),
		"raw_text_length":       utf8.RuneCountInString(text),
		"recommendations":       recs,
		"total_courses_found":   len(full),
		"total_recommendations": len(recs),
	})
}

func writeError(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	var fe *fiber.Error
	if errors.As(err, &fe) {
		status = fe.Code
	}
	return c.Status(status).JSON(fiber.Map{"error": err.Error()})
}

func readFormFile(c *fiber.Ctx) (string, []byte, error) {
	file, err := c.FormFile("file")
	if err != nil {
		return "", nil, fiber.NewError(fiber.StatusBadRequest, "file is required")
	}
	if file.Size > maxTranscriptBytes {
		return "", nil, fiber.NewError(fiber.StatusRequestEntityTooLarge, "transcript is too large")
	}
	f, err := file.Open()
	if err != nil {
		return "", nil, err
	}
	defer f.Close()
	b, err := io.ReadAll(io.LimitReader(f, maxTranscriptBytes))
	if err != nil {
		return "", nil, err
	}
	return file.Filename, b, nil
}

func readTranscript(c *fiber.Ctx) (string, string, error) {
	if strings.HasPrefix(c.Get(fiber.HeaderContentType), fiber.MIMEMultipartForm) {
		name, b, err := readFormFile(c)
		if err != nil {
			return "", "", err
		}
		if !isText(name, b) {
			return "", "", fiber.NewError(fiber.StatusUnsupportedMediaType, "File must be a plain-text transcript")
		}
		return name, string(b), nil
	}

	b := c.Body()
	if len(b) > maxTranscriptBytes {
		return "", "", fiber.NewError(fiber.StatusRequestEntityTooLarge, "transcript is too large")
	}
	if !isText("", b) {
		return "", "", fiber.NewError(fiber.StatusUnsupportedMediaType, "File must be a plain-text transcript")
	}
	return "", string(b), nil
}

func isText(filename string, b []byte) bool {
	switch strings.ToLower(filepath.Ext(filename)) {
	case "", ".txt", ".text":
	default:
		return false
	}
	if !utf8.Valid(b) {
		return false
	}
	return strings.HasPrefix(http.DetectContentType(b), "text/")
}
