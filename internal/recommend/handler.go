package recommend

import (
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"

	"github.com/wichananm65/course-recommender/internal/logging"
)

var validate = validator.New()

type Handler struct {
	service *Service
}

func NewHandler(s *Service) *Handler {
	return &Handler{service: s}
}

func (h *Handler) RegisterPublicRoutes(app fiber.Router) {
	app.Post("/recommend", h.recommendCodes)
	app.Post("/recommend-from-courses", h.recommendFromCourses)
}

// parseRequest decodes and validates a recommendation body.
func parseRequest(body []byte) (Request, error) {
	var req Request
	if err := json.Unmarshal(body, &req); err != nil {
		return Request{}, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}
	if err := validate.Struct(req); err != nil {
		return Request{}, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}
	return req, nil
}

// recommendCodes returns only the recommended course codes.
func (h *Handler) recommendCodes(c *fiber.Ctx) error {
	req, err := parseRequest(c.Body())
	if err != nil {
		return c.JSON(fiber.Map{"recommendations": []string{}, "error": err.Error()})
	}
	res := h.service.Recommend(c.UserContext(), req.CompletedCourses)
	if res.Error != "" {
		logger := logging.FromCtx(c)
		logger.Error().Str("error", res.Error).Msg("recommendation failed")
		return c.JSON(fiber.Map{"recommendations": []string{}, "error": res.Error})
	}
	return c.JSON(fiber.Map{"recommendations": res.Codes()})
}

func (h *Handler) recommendFromCourses(c *fiber.Ctx) error {
	req, err := parseRequest(c.Body())
	if err != nil {
		return c.JSON(fiber.Map{"recommendations": []Recommendation{}, "error": err.Error()})
	}
	res := h.service.Recommend(c.UserContext(), req.CompletedCourses)
	if res.Error != "" {
		logger := logging.FromCtx(c)
		logger.Error().Str("error", res.Error).Msg("recommendation failed")
		return c.JSON(fiber.Map{"recommendations": []Recommendation{}, "error": "Error getting recommendations: " + res.Error})
	}

	completed := req.CompletedCourses
	if completed == nil {
		completed = []string{}
	}
	return c.JSON(fiber.Map{
		"completed_courses":     completed,
		"recommendations":       res.Recommendations,
		"total_recommendations": len(res.Recommendations),
	})
}
