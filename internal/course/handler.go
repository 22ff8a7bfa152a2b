package course

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/wichananm65/course-recommender/internal/logging"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterPublicRoutes(app fiber.Router) {
	app.Get("/api/v1/courses", h.listCourses)
	app.Get("/api/v1/courses/:code", h.getCourse)
	app.Get("/api/v1/departments", h.getDepartments)
}

func (h *Handler) RegisterProtectedRoutes(app fiber.Router) {
	app.Post("/catalog/reload", h.reload)
}

// courseResponse hides the raw embedding from API clients.
type courseResponse struct {
	Code         string     `json:"course_code"`
	URL          string     `json:"url"`
	Useful       Percentage `json:"useful_percentage"`
	Easy         Percentage `json:"easy_percentage"`
	Liked        Percentage `json:"liked_percentage"`
	Description  string     `json:"course_description"`
	Reviews      []string   `json:"reviews"`
	HasEmbedding bool       `json:"has_embedding"`
}

func toResponse(rec Course) courseResponse {
	return courseResponse{
		Code:         rec.Code,
		URL:          rec.URL,
		Useful:       rec.Useful,
		Easy:         rec.Easy,
		Liked:        rec.Liked,
		Description:  rec.Description,
		Reviews:      rec.Reviews,
		HasEmbedding: rec.HasEmbedding(),
	}
}

// listCourses pages through the catalog: ?limit=12&offset=0
func (h *Handler) listCourses(c *fiber.Ctx) error {
	limit := 12
	offset := 0
	if l := c.Query("limit"); l != "" {
		if v, err := strconv.Atoi(l); err == nil && v > 0 && v <= 100 {
			limit = v
		}
	}
	if o := c.Query("offset"); o != "" {
		if v, err := strconv.Atoi(o); err == nil && v >= 0 {
			offset = v
		}
	}
	courses := h.service.List(limit, offset)
	out := make([]courseResponse, 0, len(courses))
	for _, rec := range courses {
		out = append(out, toResponse(rec))
	}
	return c.JSON(out)
}

func (h *Handler) getCourse(c *fiber.Ctx) error {
	rec, err := h.service.GetByCode(c.Params("code"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "Course not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
	}
	return c.JSON(toResponse(rec))
}

func (h *Handler) getDepartments(c *fiber.Ctx) error {
	return c.JSON(h.service.Departments())
}

func (h *Handler) reload(c *fiber.Ctx) error {
	cat, err := h.service.Reload(c.UserContext())
	if err != nil {
		logger := logging.FromCtx(c)
		logger.Error().Err(err).Msg("catalog reload rejected")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
	}
	return c.JSON(fiber.Map{
		"message":  "catalog reloaded",
		"version":  cat.Version(),
		"courses":  cat.Len(),
		"embedded": len(cat.EmbeddedCodes()),
	})
}
