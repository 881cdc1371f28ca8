package handler

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/answerly/scoring-api/internal/dto"
	"github.com/answerly/scoring-api/internal/middleware"
	"github.com/answerly/scoring-api/internal/service"
	"github.com/answerly/scoring-api/internal/utils"
)

func requestLogger(base zerolog.Logger, c *fiber.Ctx) *zerolog.Logger {
	logger := base
	if c != nil {
		if correlation := middleware.GetCorrelationID(c); correlation != "" {
			logger = base.With().Str("correlation_id", correlation).Logger()
		}
	}
	return &logger
}

// sendEvaluationError maps an evaluation failure to the HTTP status and
// error-kind contract: validation and empty-text problems are the caller's
// fault (400), backend failures surface as bad gateway (502) and timeouts as
// gateway timeout (504).
func sendEvaluationError(c *fiber.Ctx, logger zerolog.Logger, err error) error {
	failure := service.ClassifyError(err)

	switch failure.Kind {
	case dto.ErrorKindValidation, dto.ErrorKindEmptyText:
		return utils.SendError(c, fiber.StatusBadRequest, string(failure.Kind), failure.Message)
	case dto.ErrorKindTimeout:
		requestLogger(logger, c).Warn().Err(err).Msg("embedding backend timed out")
		return utils.SendError(c, fiber.StatusGatewayTimeout, string(failure.Kind), failure.Message)
	default:
		requestLogger(logger, c).Warn().Err(err).Msg("backend failure")
		return utils.SendError(c, fiber.StatusBadGateway, string(failure.Kind), failure.Message)
	}
}

func parseFormFloat(c *fiber.Ctx, key string) (float64, error) {
	value := strings.TrimSpace(c.FormValue(key))
	if value == "" {
		return 0, nil
	}
	return strconv.ParseFloat(value, 64)
}
