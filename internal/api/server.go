// Package api exposes the HTTP interface: review submission and retrieval,
// batch task management and sentiment analytics.
package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/feedbacklab/review-insight/internal/analysis"
	"github.com/feedbacklab/review-insight/internal/config"
	db "github.com/feedbacklab/review-insight/internal/storage"
)

const (
	serviceName    = "review-insight"
	serviceVersion = "1.0.0"

	shutdownTimeout   = 5 * time.Second
	readHeaderTimeout = 10 * time.Second
)

// Store is the persistence surface the API needs.
type Store interface {
	CreateReview(ctx context.Context, review *db.Review) error
	GetReview(ctx context.Context, id int64) (*db.Review, error)
	ListReviews(ctx context.Context, limit, offset int) ([]db.Review, error)
	SoftDeleteReview(ctx context.Context, id int64) (bool, error)
	GetLatestAnalysis(ctx context.Context, reviewID int64) (*db.AnalysisResult, error)
	ListAnalysisForReview(ctx context.Context, reviewID int64) ([]db.AnalysisResult, error)
	SentimentBreakdown(ctx context.Context) (map[string]int64, error)
	SubmitBatchTask(ctx context.Context, reviewIDs []int64) (string, error)
	GetBatchTask(ctx context.Context, taskID string) (*db.BatchTask, error)
}

type Server struct {
	cfg      *config.Config
	store    Store
	pipeline *analysis.Pipeline
	logger   *zerolog.Logger
}

func NewServer(cfg *config.Config, store Store, pipeline *analysis.Pipeline, logger *zerolog.Logger) *Server {
	return &Server{
		cfg:      cfg,
		store:    store,
		pipeline: pipeline,
		logger:   logger,
	}
}

// Router builds the gin engine with all routes registered.
func (s *Server) Router() *gin.Engine {
	if s.cfg.AppEnv != "local" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())

	router.GET("/health", s.health)

	v1 := router.Group("/api/v1")
	{
		reviews := v1.Group("/reviews")
		reviews.POST("", s.createReview)
		reviews.GET("", s.listReviews)
		reviews.GET("/:id", s.getReview)
		reviews.DELETE("/:id", s.deleteReview)
		reviews.GET("/:id/analysis", s.listAnalysis)
		reviews.POST("/:id/analyze", s.analyzeReview)

		tasks := v1.Group("/tasks")
		tasks.POST("/batch", s.submitBatch)
		tasks.GET("/:id", s.taskStatus)

		v1.GET("/analytics/sentiment", s.sentimentAnalytics)
	}

	return router
}

// Run serves the API until the context is canceled.
func (s *Server) Run(ctx context.Context) error {
	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", s.cfg.APIPort),
		Handler:           s.Router(),
		ReadHeaderTimeout: readHeaderTimeout,
	}

	errCh := make(chan error, 1)

	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	s.logger.Info().Int("port", s.cfg.APIPort).Msg("api server started")

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		return server.Shutdown(shutdownCtx)
	}
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"service":   serviceName,
		"version":   serviceVersion,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
