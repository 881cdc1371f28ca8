package handler

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/answerly/scoring-api/internal/dto"
	"github.com/answerly/scoring-api/internal/service"
	"github.com/answerly/scoring-api/internal/utils"
)

// EvaluationHandler manages the answer evaluation endpoints.
type EvaluationHandler struct {
	service   service.EvaluationService
	validator *validator.Validate
	logger    zerolog.Logger
}

// NewEvaluationHandler builds an evaluation handler instance.
func NewEvaluationHandler(service service.EvaluationService, validate *validator.Validate, logger zerolog.Logger) *EvaluationHandler {
	return &EvaluationHandler{
		service:   service,
		validator: validate,
		logger:    logger.With().Str("component", "evaluation_handler").Logger(),
	}
}

// Register attaches the routes to the provided router group.
func (h *EvaluationHandler) Register(router fiber.Router) {
	router.Post("", h.evaluate)
	router.Post("/batch", h.evaluateBatch)
}

func (h *EvaluationHandler) evaluate(c *fiber.Ctx) error {
	var payload dto.EvaluationRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, string(dto.ErrorKindValidation), "invalid request body")
	}

	result, err := h.service.Evaluate(c.Context(), payload)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "evaluation completed", result)
}

func (h *EvaluationHandler) evaluateBatch(c *fiber.Ctx) error {
	var payload dto.BatchEvaluationRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, string(dto.ErrorKindValidation), "invalid request body")
	}

	result, err := h.service.EvaluateBatch(c.Context(), payload)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "batch evaluation completed", result)
}

func (h *EvaluationHandler) handleError(c *fiber.Ctx, err error) error {
	return sendEvaluationError(c, h.logger, err)
}
