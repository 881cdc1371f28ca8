package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/answerly/scoring-api/internal/dto"
	"github.com/answerly/scoring-api/internal/observability"
	"github.com/answerly/scoring-api/internal/similarity"
	"github.com/answerly/scoring-api/pkg/embedding"
)

// EvaluationService scores candidate answers against reference answers.
type EvaluationService interface {
	Evaluate(ctx context.Context, req dto.EvaluationRequest) (dto.EvaluationResult, error)
	EvaluateBatch(ctx context.Context, req dto.BatchEvaluationRequest) (dto.BatchEvaluationResult, error)
}

// ErrEmptyText indicates one of the texts normalized to zero tokens.
var ErrEmptyText = similarity.ErrEmptyText

// ErrBackendUnavailable indicates the embedding backend was requested but no
// provider is configured.
var ErrBackendUnavailable = errors.New("embedding backend unavailable")

// BackendError wraps a similarity backend failure so callers can distinguish
// it from validation problems.
type BackendError struct {
	Backend dto.Backend
	Err     error
}

func (e *BackendError) Error() string {
	return fmt.Sprintf("%s backend: %v", e.Backend, e.Err)
}

func (e *BackendError) Unwrap() error { return e.Err }

// EvaluationConfig carries the static scoring policy. It is loaded once at
// startup and read-only afterwards.
type EvaluationConfig struct {
	DefaultBackend   dto.Backend
	AllowFallback    bool
	DefaultMaxMarks  float64
	EmbeddingTimeout time.Duration
	MaxInputChars    int
	BatchConcurrency int
}

type evaluationService struct {
	normalizer *similarity.Normalizer
	embedder   embedding.Embedder
	validator  *validator.Validate
	logger     zerolog.Logger
	config     EvaluationConfig
}

// NewEvaluationService constructs the scoring orchestrator. The embedder may
// be nil, in which case embedding requests fail fast or fall back to the
// lexical scorer depending on the fallback policy.
func NewEvaluationService(normalizer *similarity.Normalizer, embedder embedding.Embedder, validate *validator.Validate, logger zerolog.Logger, cfg EvaluationConfig) EvaluationService {
	if cfg.DefaultBackend == "" {
		cfg.DefaultBackend = dto.BackendEmbedding
	}
	if cfg.DefaultMaxMarks <= 0 {
		cfg.DefaultMaxMarks = 100
	}
	if cfg.EmbeddingTimeout <= 0 {
		cfg.EmbeddingTimeout = 10 * time.Second
	}
	if cfg.MaxInputChars <= 0 {
		cfg.MaxInputChars = 8192
	}
	if cfg.BatchConcurrency <= 0 {
		cfg.BatchConcurrency = 4
	}

	return &evaluationService{
		normalizer: normalizer,
		embedder:   embedder,
		validator:  validate,
		logger:     logger.With().Str("component", "evaluation_service").Logger(),
		config:     cfg,
	}
}

func (s *evaluationService) Evaluate(ctx context.Context, req dto.EvaluationRequest) (dto.EvaluationResult, error) {
	if err := s.validator.Struct(req); err != nil {
		return dto.EvaluationResult{}, err
	}

	backend := req.Backend
	if backend == "" {
		backend = s.config.DefaultBackend
	}
	maxMarks := req.MaxMarks
	if maxMarks == 0 {
		maxMarks = s.config.DefaultMaxMarks
	}

	reference, err := s.normalizer.Normalize(req.ReferenceText)
	if err != nil {
		return dto.EvaluationResult{}, fmt.Errorf("reference text: %w", err)
	}
	candidate, err := s.normalizer.Normalize(req.CandidateText)
	if err != nil {
		return dto.EvaluationResult{}, fmt.Errorf("candidate text: %w", err)
	}

	start := time.Now()
	raw, used, degraded, truncated, err := s.score(ctx, backend, reference, candidate)
	if err != nil {
		observability.Evaluations().WithLabelValues(string(backend), "error").Inc()
		return dto.EvaluationResult{}, err
	}

	raw = clamp01(raw)
	marks := roundHalfUp(raw * maxMarks)
	if marks > maxMarks {
		marks = maxMarks
	}

	result := dto.EvaluationResult{
		SimilarityScore: raw,
		MarksObtained:   marks,
		BackendUsed:     used,
		Degraded:        degraded,
		Truncated:       truncated,
		ElapsedMS:       time.Since(start).Milliseconds(),
	}

	observability.Evaluations().WithLabelValues(string(used), "success").Inc()
	observability.EvaluationDuration().WithLabelValues(string(used)).Observe(time.Since(start).Seconds())
	if degraded {
		observability.Fallbacks().Inc()
	}

	return result, nil
}

// score computes raw similarity via the selected backend, applying the
// fallback policy on embedding failures. Returns the backend actually used.
func (s *evaluationService) score(ctx context.Context, backend dto.Backend, reference, candidate similarity.NormalizedText) (raw float64, used dto.Backend, degraded, truncated bool, err error) {
	if backend == dto.BackendLexical {
		return similarity.Jaccard(reference, candidate), dto.BackendLexical, false, false, nil
	}

	if s.embedder == nil {
		if !s.config.AllowFallback {
			return 0, "", false, false, ErrBackendUnavailable
		}
		s.logger.Warn().Msg("embedding backend not configured, falling back to lexical scorer")
		return similarity.Jaccard(reference, candidate), dto.BackendLexical, true, false, nil
	}

	raw, truncated, degenerate, embedErr := s.scoreEmbedding(ctx, reference, candidate)
	if embedErr == nil {
		return raw, dto.BackendEmbedding, degenerate, truncated, nil
	}

	if !s.config.AllowFallback {
		return 0, "", false, false, &BackendError{Backend: dto.BackendEmbedding, Err: embedErr}
	}

	s.logger.Warn().Err(embedErr).Msg("embedding backend failed, falling back to lexical scorer")
	observability.Evaluations().WithLabelValues(string(dto.BackendEmbedding), "fallback").Inc()
	return similarity.Jaccard(reference, candidate), dto.BackendLexical, true, false, nil
}

func (s *evaluationService) scoreEmbedding(ctx context.Context, reference, candidate similarity.NormalizedText) (raw float64, truncated, degenerate bool, err error) {
	ctx, cancel := context.WithTimeout(ctx, s.config.EmbeddingTimeout)
	defer cancel()

	refText, refTruncated := truncate(reference.Joined(), s.config.MaxInputChars)
	candText, candTruncated := truncate(candidate.Joined(), s.config.MaxInputChars)
	truncated = refTruncated || candTruncated

	refVector, err := s.embedder.Embed(ctx, refText)
	if err != nil {
		return 0, truncated, false, fmt.Errorf("embed reference: %w", err)
	}
	candVector, err := s.embedder.Embed(ctx, candText)
	if err != nil {
		return 0, truncated, false, fmt.Errorf("embed candidate: %w", err)
	}

	// A zero-norm or mismatched vector makes cosine undefined; the result is
	// reported as 0 with the degraded flag instead of failing the request.
	if isDegenerate(refVector, candVector) {
		s.logger.Warn().Int("reference_dims", len(refVector)).Int("candidate_dims", len(candVector)).Msg("degenerate embedding vectors")
		return 0, truncated, true, nil
	}

	// Cosine can be negative for unrelated embeddings; negative similarity
	// is treated as zero relatedness for marking.
	return clamp01(similarity.Cosine(refVector, candVector)), truncated, false, nil
}

func isDegenerate(a, b []float32) bool {
	if len(a) == 0 || len(a) != len(b) {
		return true
	}
	return isZeroVector(a) || isZeroVector(b)
}

func isZeroVector(v []float32) bool {
	for _, x := range v {
		if x != 0 {
			return false
		}
	}
	return true
}

func (s *evaluationService) EvaluateBatch(ctx context.Context, req dto.BatchEvaluationRequest) (dto.BatchEvaluationResult, error) {
	if err := s.validator.Struct(req); err != nil {
		return dto.BatchEvaluationResult{}, err
	}

	results := make([]dto.BatchItemResult, len(req.CandidateTexts))
	semaphore := make(chan struct{}, s.config.BatchConcurrency)
	var wg sync.WaitGroup

	for i, candidate := range req.CandidateTexts {
		wg.Add(1)
		go func(index int, text string) {
			defer wg.Done()
			semaphore <- struct{}{}
			defer func() { <-semaphore }()

			item := dto.EvaluationRequest{
				ReferenceText: req.ReferenceText,
				CandidateText: text,
				Backend:       req.Backend,
				MaxMarks:      req.MaxMarks,
			}

			result, err := s.Evaluate(ctx, item)
			if err != nil {
				failure := ClassifyError(err)
				results[index] = dto.BatchItemResult{Index: index, Error: &failure}
				return
			}
			results[index] = dto.BatchItemResult{Index: index, Result: &result}
		}(i, candidate)
	}
	wg.Wait()

	batch := dto.BatchEvaluationResult{Results: results}
	for _, item := range results {
		if item.Error != nil {
			batch.Failed++
		} else {
			batch.Succeeded++
		}
	}

	return batch, nil
}

// ClassifyError maps an evaluation failure to its API error kind.
func ClassifyError(err error) dto.EvaluationError {
	var validationErrors validator.ValidationErrors
	switch {
	case errors.Is(err, ErrEmptyText):
		return dto.EvaluationError{Kind: dto.ErrorKindEmptyText, Message: err.Error()}
	case errors.As(err, &validationErrors):
		return dto.EvaluationError{Kind: dto.ErrorKindValidation, Message: validationErrors.Error()}
	case errors.Is(err, context.DeadlineExceeded):
		return dto.EvaluationError{Kind: dto.ErrorKindTimeout, Message: "embedding backend timed out"}
	case errors.Is(err, ErrBackendUnavailable):
		return dto.EvaluationError{Kind: dto.ErrorKindBackend, Message: err.Error()}
	default:
		var backendErr *BackendError
		if errors.As(err, &backendErr) {
			return dto.EvaluationError{Kind: dto.ErrorKindBackend, Message: backendErr.Error()}
		}
		return dto.EvaluationError{Kind: dto.ErrorKindBackend, Message: "internal error"}
	}
}

// roundHalfUp rounds to the nearest integer with ties going up, so marks are
// deterministic across runs and platforms.
func roundHalfUp(x float64) float64 {
	return math.Floor(x + 0.5)
}

func clamp01(x float64) float64 {
	switch {
	case x < 0:
		return 0
	case x > 1:
		return 1
	default:
		return x
	}
}

func truncate(text string, limit int) (string, bool) {
	if limit <= 0 || len(text) <= limit {
		return text, false
	}
	return text[:limit], true
}
