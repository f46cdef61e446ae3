// Package app wires the application together and exposes its run modes:
//
//   - API mode: HTTP interface for review submission, retrieval and batch
//     task management
//   - Worker mode: background processing of queued batch analysis tasks
//
// Both modes share the health/metrics server and the analysis pipeline.
package app

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/feedbacklab/review-insight/internal/analysis"
	"github.com/feedbacklab/review-insight/internal/api"
	"github.com/feedbacklab/review-insight/internal/batch"
	"github.com/feedbacklab/review-insight/internal/config"
	"github.com/feedbacklab/review-insight/internal/nlp/aspects"
	"github.com/feedbacklab/review-insight/internal/nlp/langdetect"
	"github.com/feedbacklab/review-insight/internal/nlp/phrases"
	"github.com/feedbacklab/review-insight/internal/nlp/sentiment"
	"github.com/feedbacklab/review-insight/internal/platform/observability"
	db "github.com/feedbacklab/review-insight/internal/storage"
)

const providerOpenAI = "openai"

type App struct {
	cfg      *config.Config
	db       *db.DB
	logger   *zerolog.Logger
	pipeline *analysis.Pipeline
	runner   *batch.Runner
}

func New(cfg *config.Config, database *db.DB, logger *zerolog.Logger) *App {
	classifier := newClassifier(cfg, logger)
	pipeline := analysis.NewPipeline(
		database,
		classifier,
		aspects.NewExtractor(logger),
		phrases.NewExtractor(),
		logger,
	)

	return &App{
		cfg:      cfg,
		db:       database,
		logger:   logger,
		pipeline: pipeline,
		runner:   batch.NewRunner(pipeline, logger),
	}
}

// newClassifier builds the sentiment classifier with the configured primary
// model provider. Models are loaded once here and shared read-only across
// all requests. With no provider configured the classifier runs on the
// lexicon fallback alone.
func newClassifier(cfg *config.Config, logger *zerolog.Logger) *sentiment.Classifier {
	var opts []sentiment.Option

	switch {
	case !cfg.UsePrimaryModel:
		// Fallback-only mode requested explicitly.

	case cfg.ModelProvider == providerOpenAI && cfg.OpenAIAPIKey != "":
		model := sentiment.NewOpenAIModel(cfg.OpenAIAPIKey, cfg.OpenAIModel, logger)
		opts = append(opts,
			sentiment.WithModel(langdetect.LangRussian, model),
			sentiment.WithModel(langdetect.LangEnglish, model),
		)

	case cfg.InferenceBaseURL != "":
		opts = append(opts,
			sentiment.WithModel(langdetect.LangRussian, sentiment.NewHTTPModel(sentiment.HTTPModelConfig{
				BaseURL: cfg.InferenceBaseURL,
				ModelID: cfg.RussianModelID,
				Timeout: cfg.InferenceTimeout,
				RPS:     cfg.InferenceRPS,
			}, logger)),
			sentiment.WithModel(langdetect.LangEnglish, sentiment.NewHTTPModel(sentiment.HTTPModelConfig{
				BaseURL: cfg.InferenceBaseURL,
				ModelID: cfg.EnglishModelID,
				Timeout: cfg.InferenceTimeout,
				RPS:     cfg.InferenceRPS,
			}, logger)),
		)

	default:
		logger.Warn().Msg("no primary model configured, running on lexicon fallback")
	}

	return sentiment.NewClassifier(cfg.UsePrimaryModel, cfg.FallbackToLexicon, logger, opts...)
}

// RunAPI serves the HTTP API until the context is canceled.
func (a *App) RunAPI(ctx context.Context) error {
	server := api.NewServer(a.cfg, a.db, a.pipeline, a.logger)

	return server.Run(ctx)
}

// RunWorker processes queued batch tasks until the context is canceled.
func (a *App) RunWorker(ctx context.Context) error {
	workerCfg := batch.WorkerConfig{
		PollInterval: a.cfg.WorkerPollInterval,
		MaxAttempts:  a.cfg.BatchMaxAttempts,
		RetryDelay:   a.cfg.BatchRetryDelay,
	}

	return batch.NewWorker(workerCfg, a.db, a.runner, a.logger).Run(ctx)
}

// StartHealthServer serves /healthz, /readyz and /metrics.
func (a *App) StartHealthServer(ctx context.Context) error {
	return observability.NewServer(a.db, a.cfg.HealthPort, a.logger).Start(ctx)
}
