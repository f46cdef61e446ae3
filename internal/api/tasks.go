package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/feedbacklab/review-insight/internal/batch"
)

const maxBatchSize = 1000

type submitBatchRequest struct {
	ReviewIDs []int64 `json:"review_ids" binding:"required"`
}

func (s *Server) submitBatch(c *gin.Context) {
	var req submitBatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})

		return
	}

	if len(req.ReviewIDs) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "review_ids must not be empty"})

		return
	}

	if len(req.ReviewIDs) > maxBatchSize {
		c.JSON(http.StatusBadRequest, gin.H{"error": "batch exceeds maximum size"})

		return
	}

	taskID, err := s.store.SubmitBatchTask(c.Request.Context(), req.ReviewIDs)
	if err != nil {
		s.logger.Error().Err(err).Msg("batch submission failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to submit batch"})

		return
	}

	c.JSON(http.StatusAccepted, gin.H{"task_id": taskID, "total": len(req.ReviewIDs)})
}

func (s *Server) taskStatus(c *gin.Context) {
	taskID := c.Param("id")

	task, err := s.store.GetBatchTask(c.Request.Context(), taskID)
	if err != nil {
		s.logger.Error().Err(err).Str("task_id", taskID).Msg("task fetch failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch task"})

		return
	}

	if task == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "task not found"})

		return
	}

	status, err := batch.StatusFromTask(task)
	if err != nil {
		s.logger.Error().Err(err).Str("task_id", taskID).Msg("task status decoding failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to decode task result"})

		return
	}

	c.JSON(http.StatusOK, status)
}
