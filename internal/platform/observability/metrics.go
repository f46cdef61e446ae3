package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ReviewsSubmitted = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "review_insight_reviews_submitted_total",
		Help: "The total number of submitted reviews",
	}, []string{"source"})

	ReviewsAnalyzed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "review_insight_reviews_analyzed_total",
		Help: "The total number of reviews run through the analysis pipeline by outcome",
	}, []string{"outcome"})

	SentimentLabels = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "review_insight_sentiment_labels_total",
		Help: "Sentiment labels produced by the classifier, by label and source path",
	}, []string{"label", "source"})

	ModelRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "review_insight_model_requests_total",
		Help: "Primary sentiment model requests by language and status",
	}, []string{"language", "status"})

	AnalysisDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "review_insight_analysis_duration_seconds",
		Help:    "Duration of a single review analysis",
		Buckets: prometheus.DefBuckets,
	})

	BatchTasksProcessed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "review_insight_batch_tasks_total",
		Help: "Batch tasks processed by terminal status",
	}, []string{"status"})

	BatchBacklog = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "review_insight_batch_backlog_size",
		Help: "Number of pending or retrying batch tasks",
	})
)
