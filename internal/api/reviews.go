package api

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/araddon/dateparse"
	"github.com/gin-gonic/gin"

	"github.com/feedbacklab/review-insight/internal/platform/observability"
	db "github.com/feedbacklab/review-insight/internal/storage"
)

type createReviewRequest struct {
	Text        string `json:"text" binding:"required"`
	Source      string `json:"source"`
	SubmittedAt string `json:"submitted_at"`
}

type reviewResponse struct {
	ID          int64     `json:"id"`
	UUID        string    `json:"uuid"`
	Text        string    `json:"text"`
	Source      string    `json:"source,omitempty"`
	Language    string    `json:"language,omitempty"`
	SubmittedAt time.Time `json:"submitted_at"`
	CreatedAt   time.Time `json:"created_at"`
}

func toReviewResponse(review *db.Review) reviewResponse {
	return reviewResponse{
		ID:          review.ID,
		UUID:        review.UUID,
		Text:        review.Text,
		Source:      review.Source,
		Language:    review.Language,
		SubmittedAt: review.SubmittedAt,
		CreatedAt:   review.CreatedAt,
	}
}

func (s *Server) createReview(c *gin.Context) {
	var req createReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})

		return
	}

	text := sanitizeText(req.Text)
	if text == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "text must not be empty"})

		return
	}

	if len(text) > s.cfg.MaxReviewLength {
		c.JSON(http.StatusBadRequest, gin.H{"error": "text exceeds maximum length"})

		return
	}

	review := &db.Review{Text: text, Source: req.Source}

	// Reviews arrive from heterogeneous sources with free-form timestamps.
	if req.SubmittedAt != "" {
		submittedAt, err := dateparse.ParseAny(req.SubmittedAt)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unparseable submitted_at"})

			return
		}

		review.SubmittedAt = submittedAt
	}

	if err := s.store.CreateReview(c.Request.Context(), review); err != nil {
		s.logger.Error().Err(err).Msg("review creation failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create review"})

		return
	}

	observability.ReviewsSubmitted.WithLabelValues(review.Source).Inc()

	// Analysis runs out-of-band; the caller polls for the stored result.
	go s.pipeline.AnalyzeAndSave(context.WithoutCancel(c.Request.Context()), review.ID)

	c.JSON(http.StatusCreated, toReviewResponse(review))
}

func (s *Server) listReviews(c *gin.Context) {
	limit := s.cfg.ListPageLimit
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid limit"})

			return
		}

		if parsed < limit {
			limit = parsed
		}
	}

	offset := 0
	if raw := c.Query("offset"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid offset"})

			return
		}

		offset = parsed
	}

	reviews, err := s.store.ListReviews(c.Request.Context(), limit, offset)
	if err != nil {
		s.logger.Error().Err(err).Msg("review listing failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list reviews"})

		return
	}

	responses := make([]reviewResponse, 0, len(reviews))
	for i := range reviews {
		responses = append(responses, toReviewResponse(&reviews[i]))
	}

	c.JSON(http.StatusOK, responses)
}

func (s *Server) getReview(c *gin.Context) {
	id, ok := reviewIDParam(c)
	if !ok {
		return
	}

	review, err := s.store.GetReview(c.Request.Context(), id)
	if err != nil {
		s.logger.Error().Err(err).Int64("review_id", id).Msg("review fetch failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch review"})

		return
	}

	if review == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "review not found"})

		return
	}

	latest, err := s.store.GetLatestAnalysis(c.Request.Context(), id)
	if err != nil {
		s.logger.Error().Err(err).Int64("review_id", id).Msg("analysis fetch failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch analysis"})

		return
	}

	c.JSON(http.StatusOK, gin.H{
		"review":   toReviewResponse(review),
		"analysis": latest,
	})
}

func (s *Server) deleteReview(c *gin.Context) {
	id, ok := reviewIDParam(c)
	if !ok {
		return
	}

	deleted, err := s.store.SoftDeleteReview(c.Request.Context(), id)
	if err != nil {
		s.logger.Error().Err(err).Int64("review_id", id).Msg("review deletion failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete review"})

		return
	}

	if !deleted {
		c.JSON(http.StatusNotFound, gin.H{"error": "review not found"})

		return
	}

	c.Status(http.StatusNoContent)
}

func (s *Server) listAnalysis(c *gin.Context) {
	id, ok := reviewIDParam(c)
	if !ok {
		return
	}

	results, err := s.store.ListAnalysisForReview(c.Request.Context(), id)
	if err != nil {
		s.logger.Error().Err(err).Int64("review_id", id).Msg("analysis listing failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list analysis"})

		return
	}

	c.JSON(http.StatusOK, results)
}

// analyzeReview triggers a synchronous re-analysis. The result is appended
// to the review's analysis history.
func (s *Server) analyzeReview(c *gin.Context) {
	id, ok := reviewIDParam(c)
	if !ok {
		return
	}

	outcome := s.pipeline.AnalyzeAndSave(c.Request.Context(), id)

	c.JSON(http.StatusAccepted, gin.H{"review_id": id, "outcome": outcome.String()})
}

func reviewIDParam(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid review id"})

		return 0, false
	}

	return id, true
}
