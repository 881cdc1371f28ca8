package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/answerly/scoring-api/internal/config"
	"github.com/answerly/scoring-api/internal/dto"
	"github.com/answerly/scoring-api/internal/handler"
	"github.com/answerly/scoring-api/internal/middleware"
	"github.com/answerly/scoring-api/internal/router"
	"github.com/answerly/scoring-api/internal/service"
	"github.com/answerly/scoring-api/internal/similarity"
	"github.com/answerly/scoring-api/pkg/embedding"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	var embedder embedding.Embedder
	if cfg.OpenAIAPIKey != "" {
		openAIEmbedder, err := embedding.NewOpenAIEmbedder(embedding.OpenAIConfig{
			APIKey:  cfg.OpenAIAPIKey,
			BaseURL: cfg.OpenAIBaseURL,
			Model:   cfg.EmbeddingModel,
			Logger:  logger,
		})
		if err != nil {
			log.Fatalf("failed to create embedding client: %v", err)
		}
		embedder = openAIEmbedder
	} else {
		logger.Warn().Msg("no embedding provider configured, embedding backend subject to fallback policy")
	}

	validate := validator.New(validator.WithRequiredStructEnabled())
	normalizer := similarity.NewNormalizer(similarity.NormalizerConfig{})

	evaluationService := service.NewEvaluationService(normalizer, embedder, validate, logger, service.EvaluationConfig{
		DefaultBackend:   dto.Backend(cfg.DefaultBackend),
		AllowFallback:    cfg.AllowFallback,
		DefaultMaxMarks:  cfg.DefaultMaxMarks,
		EmbeddingTimeout: cfg.EmbeddingTimeout,
		MaxInputChars:    cfg.MaxInputChars,
		BatchConcurrency: cfg.BatchConcurrency,
	})

	evaluationHandler := handler.NewEvaluationHandler(evaluationService, validate, logger)
	documentHandler := handler.NewDocumentHandler(evaluationService, nil, logger)

	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ServerHeader: cfg.AppName,
	})

	middleware.Register(app, middleware.Config{Logger: &logger})
	router.Register(app, cfg, router.Dependencies{
		EvaluationHandler: evaluationHandler,
		DocumentHandler:   documentHandler,
	})

	go func() {
		if err := app.Listen(cfg.HTTPAddress()); err != nil {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	waitForShutdown(app)
}

func waitForShutdown(app *fiber.App) {
	shutdownCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-shutdownCtx.Done()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
	}

	log.Println("server stopped")
}
