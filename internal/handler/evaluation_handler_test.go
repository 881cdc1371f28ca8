package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/answerly/scoring-api/internal/config"
	"github.com/answerly/scoring-api/internal/dto"
	"github.com/answerly/scoring-api/internal/handler"
	"github.com/answerly/scoring-api/internal/router"
	"github.com/answerly/scoring-api/internal/service"
	"github.com/answerly/scoring-api/internal/similarity"
	"github.com/answerly/scoring-api/pkg/embedding"
)

type failingEmbedder struct{}

func (failingEmbedder) Embed(context.Context, string) ([]float32, error) {
	return nil, errors.New("provider unreachable")
}

func setupApp(t *testing.T, embedder embedding.Embedder, allowFallback bool) *fiber.App {
	t.Helper()

	validate := validator.New(validator.WithRequiredStructEnabled())
	logger := zerolog.New(io.Discard)
	normalizer := similarity.NewNormalizer(similarity.NormalizerConfig{})

	evaluationService := service.NewEvaluationService(normalizer, embedder, validate, logger, service.EvaluationConfig{
		DefaultBackend: dto.BackendLexical,
		AllowFallback:  allowFallback,
	})

	app := fiber.New()
	router.Register(app, config.Config{AppName: "Test"}, router.Dependencies{
		EvaluationHandler: handler.NewEvaluationHandler(evaluationService, validate, logger),
	})

	return app
}

func postJSON(t *testing.T, app *fiber.App, path string, payload interface{}) *http.Response {
	t.Helper()
	body, err := json.Marshal(payload)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decodeResponse(t *testing.T, resp *http.Response, target interface{}) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(target))
}

type evaluationEnvelope struct {
	Success   bool                 `json:"success"`
	Data      dto.EvaluationResult `json:"data"`
	Message   string               `json:"message"`
	ErrorKind string               `json:"error_kind"`
}

func TestEvaluateLexicalFullMarks(t *testing.T) {
	app := setupApp(t, nil, false)

	resp := postJSON(t, app, "/api/v1/evaluations", map[string]interface{}{
		"reference_text": "the cat sat on the mat",
		"candidate_text": "the cat sat on the mat",
		"backend":        "lexical",
	})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var envelope evaluationEnvelope
	decodeResponse(t, resp, &envelope)
	require.True(t, envelope.Success)
	require.Equal(t, "evaluation completed", envelope.Message)
	require.Equal(t, 1.0, envelope.Data.SimilarityScore)
	require.Equal(t, 100.0, envelope.Data.MarksObtained)
	require.Equal(t, dto.BackendLexical, envelope.Data.BackendUsed)
	require.False(t, envelope.Data.Degraded)
}

func TestEvaluateCustomMaxMarks(t *testing.T) {
	app := setupApp(t, nil, false)

	resp := postJSON(t, app, "/api/v1/evaluations", map[string]interface{}{
		"reference_text": "A B C D",
		"candidate_text": "A B X Y",
		"backend":        "lexical",
		"max_marks":      100,
	})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var envelope evaluationEnvelope
	decodeResponse(t, resp, &envelope)
	require.Equal(t, 33.0, envelope.Data.MarksObtained)
}

func TestEvaluateEmptyCandidateRejected(t *testing.T) {
	app := setupApp(t, nil, false)

	resp := postJSON(t, app, "/api/v1/evaluations", map[string]interface{}{
		"reference_text": "the cat sat on the mat",
		"candidate_text": "   ",
		"backend":        "lexical",
	})
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	var envelope evaluationEnvelope
	decodeResponse(t, resp, &envelope)
	require.False(t, envelope.Success)
	require.Equal(t, string(dto.ErrorKindEmptyText), envelope.ErrorKind)
}

func TestEvaluateUnknownBackendRejected(t *testing.T) {
	app := setupApp(t, nil, false)

	resp := postJSON(t, app, "/api/v1/evaluations", map[string]interface{}{
		"reference_text": "a",
		"candidate_text": "b",
		"backend":        "quantum",
	})
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	var envelope evaluationEnvelope
	decodeResponse(t, resp, &envelope)
	require.Equal(t, string(dto.ErrorKindValidation), envelope.ErrorKind)
}

func TestEvaluateMissingFieldsRejected(t *testing.T) {
	app := setupApp(t, nil, false)

	resp := postJSON(t, app, "/api/v1/evaluations", map[string]interface{}{
		"candidate_text": "only a candidate",
	})
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestEvaluateFallbackVisibleToCaller(t *testing.T) {
	app := setupApp(t, failingEmbedder{}, true)

	resp := postJSON(t, app, "/api/v1/evaluations", map[string]interface{}{
		"reference_text": "the cat sat on the mat",
		"candidate_text": "the cat sat on the mat",
		"backend":        "embedding",
	})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var envelope evaluationEnvelope
	decodeResponse(t, resp, &envelope)
	require.True(t, envelope.Data.Degraded)
	require.Equal(t, dto.BackendLexical, envelope.Data.BackendUsed)
}

func TestEvaluateBackendFailureWithoutFallback(t *testing.T) {
	app := setupApp(t, failingEmbedder{}, false)

	resp := postJSON(t, app, "/api/v1/evaluations", map[string]interface{}{
		"reference_text": "the cat sat on the mat",
		"candidate_text": "the cat sat on the mat",
		"backend":        "embedding",
	})
	require.Equal(t, fiber.StatusBadGateway, resp.StatusCode)

	var envelope evaluationEnvelope
	decodeResponse(t, resp, &envelope)
	require.False(t, envelope.Success)
	require.Equal(t, string(dto.ErrorKindBackend), envelope.ErrorKind)
}

func TestEvaluateInvalidBody(t *testing.T) {
	app := setupApp(t, nil, false)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/evaluations", bytes.NewReader([]byte("not json")))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestEvaluateBatch(t *testing.T) {
	app := setupApp(t, nil, false)

	resp := postJSON(t, app, "/api/v1/evaluations/batch", map[string]interface{}{
		"reference_text": "the cat sat on the mat",
		"candidate_texts": []string{
			"the cat sat on the mat",
			"dogs run in parks",
			"  ",
		},
		"backend": "lexical",
	})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var envelope struct {
		Success bool                      `json:"success"`
		Data    dto.BatchEvaluationResult `json:"data"`
	}
	decodeResponse(t, resp, &envelope)
	require.True(t, envelope.Success)
	require.Len(t, envelope.Data.Results, 3)
	require.Equal(t, 2, envelope.Data.Succeeded)
	require.Equal(t, 1, envelope.Data.Failed)
	require.Equal(t, 100.0, envelope.Data.Results[0].Result.MarksObtained)
	require.Equal(t, dto.ErrorKindEmptyText, envelope.Data.Results[2].Error.Kind)
}

func TestEvaluateBatchWithoutCandidatesRejected(t *testing.T) {
	app := setupApp(t, nil, false)

	resp := postJSON(t, app, "/api/v1/evaluations/batch", map[string]interface{}{
		"reference_text":  "reference",
		"candidate_texts": []string{},
	})
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestHealthEndpoint(t *testing.T) {
	app := setupApp(t, nil, false)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/health", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var envelope struct {
		Success bool                   `json:"success"`
		Data    handler.HealthResponse `json:"data"`
	}
	decodeResponse(t, resp, &envelope)
	require.True(t, envelope.Success)
	require.Equal(t, "ok", envelope.Data.Status)
	require.Equal(t, "Test", envelope.Data.Service)
}
