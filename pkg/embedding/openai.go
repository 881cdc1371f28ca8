package embedding

import (
	"context"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
	openai "github.com/sashabaranov/go-openai"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var (
	embedDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "answerly",
		Subsystem: "embedding",
		Name:      "request_duration_seconds",
		Help:      "Duration of embedding provider requests",
	}, []string{"model"})

	embedFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "answerly",
		Subsystem: "embedding",
		Name:      "request_failures_total",
		Help:      "Number of failed embedding provider requests",
	}, []string{"model"})
)

// OpenAIConfig defines configuration options for the OpenAI embedder.
type OpenAIConfig struct {
	APIKey  string
	BaseURL string
	Model   string
	Logger  zerolog.Logger
}

// OpenAIEmbedder implements Embedder against the OpenAI embeddings API. It
// stands in for the fine-tuned sentence-embedding service the product scores
// with; any OpenAI-compatible endpoint works via BaseURL.
type OpenAIEmbedder struct {
	client *openai.Client
	model  string
	tracer trace.Tracer
	logger zerolog.Logger
}

// NewOpenAIEmbedder builds a new embedder using the provided configuration.
func NewOpenAIEmbedder(cfg OpenAIConfig) (*OpenAIEmbedder, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("openai api key is required")
	}

	if cfg.Model == "" {
		cfg.Model = string(openai.SmallEmbedding3)
	}

	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}

	return &OpenAIEmbedder{
		client: openai.NewClientWithConfig(clientCfg),
		model:  cfg.Model,
		tracer: otel.Tracer("github.com/answerly/scoring-api/pkg/embedding"),
		logger: cfg.Logger.With().Str("component", "openai_embedder").Logger(),
	}, nil
}

// Embed requests an embedding vector for the given text.
func (e *OpenAIEmbedder) Embed(parent context.Context, text string) ([]float32, error) {
	ctx, span := e.tracer.Start(parent, "openai.embed", trace.WithAttributes(
		attribute.String("model", e.model),
	))
	defer span.End()

	start := time.Now()
	resp, err := e.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Input: []string{text},
		Model: openai.EmbeddingModel(e.model),
	})
	embedDuration.WithLabelValues(e.model).Observe(time.Since(start).Seconds())
	if err != nil {
		embedFailures.WithLabelValues(e.model).Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("openai embed: %w", err)
	}

	if len(resp.Data) == 0 || len(resp.Data[0].Embedding) == 0 {
		err := fmt.Errorf("openai embed: empty embedding returned")
		embedFailures.WithLabelValues(e.model).Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	vector := resp.Data[0].Embedding
	span.SetAttributes(attribute.Int("dimensions", len(vector)))
	e.logger.Debug().Int("dimensions", len(vector)).Msg("embedding computed")

	return vector, nil
}
