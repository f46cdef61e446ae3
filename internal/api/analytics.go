package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/feedbacklab/review-insight/internal/nlp/sentiment"
)

// sentimentAnalytics reports how many reviews currently resolve to each
// sentiment label, based on each review's latest analysis.
func (s *Server) sentimentAnalytics(c *gin.Context) {
	breakdown, err := s.store.SentimentBreakdown(c.Request.Context())
	if err != nil {
		s.logger.Error().Err(err).Msg("sentiment breakdown failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to compute breakdown"})

		return
	}

	// All three classes are always present in the response.
	for _, label := range []string{sentiment.LabelPositive, sentiment.LabelNegative, sentiment.LabelNeutral} {
		if _, ok := breakdown[label]; !ok {
			breakdown[label] = 0
		}
	}

	c.JSON(http.StatusOK, breakdown)
}
