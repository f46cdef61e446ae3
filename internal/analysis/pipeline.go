// Package analysis composes language detection, sentiment classification,
// aspect extraction and key-phrase extraction into one analysis run per
// review, and persists the assembled result.
package analysis

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/feedbacklab/review-insight/internal/nlp/aspects"
	"github.com/feedbacklab/review-insight/internal/nlp/langdetect"
	"github.com/feedbacklab/review-insight/internal/nlp/sentiment"
	"github.com/feedbacklab/review-insight/internal/nlp/textutil"
	"github.com/feedbacklab/review-insight/internal/platform/observability"
	db "github.com/feedbacklab/review-insight/internal/storage"
)

// Outcome is the tagged result of one pipeline run. The single-review entry
// point never returns an error: failures are logged and reported through the
// outcome so callers can account for them without control-flow coupling.
type Outcome int

const (
	// OutcomeAnalyzed means a new analysis result was persisted.
	OutcomeAnalyzed Outcome = iota
	// OutcomeSkipped means the review does not exist; a terminal no-op.
	OutcomeSkipped
	// OutcomeFailed means a pipeline or persistence error occurred; nothing
	// was persisted.
	OutcomeFailed
)

func (o Outcome) String() string {
	switch o {
	case OutcomeAnalyzed:
		return "analyzed"
	case OutcomeSkipped:
		return "skipped"
	case OutcomeFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Store is the persistence surface the pipeline needs.
type Store interface {
	GetReview(ctx context.Context, id int64) (*db.Review, error)
	SaveAnalysis(ctx context.Context, language string, result *db.AnalysisResult) error
}

// KeyPhraseExtractor is pluggable: any deterministic extractor returning
// phrases from the input text keyed by polarity bucket is conformant.
type KeyPhraseExtractor interface {
	Extract(text, language, overallSentiment string) map[string][]string
}

// Pipeline is the review analysis orchestrator. All components are loaded
// once and read-only during inference, so one Pipeline is safely shared
// across concurrent requests.
type Pipeline struct {
	store      Store
	classifier *sentiment.Classifier
	aspects    *aspects.Extractor
	phrases    KeyPhraseExtractor
	logger     *zerolog.Logger
}

func NewPipeline(store Store, classifier *sentiment.Classifier, aspectExtractor *aspects.Extractor, phraseExtractor KeyPhraseExtractor, logger *zerolog.Logger) *Pipeline {
	return &Pipeline{
		store:      store,
		classifier: classifier,
		aspects:    aspectExtractor,
		phrases:    phraseExtractor,
		logger:     logger,
	}
}

// AnalyzeAndSave runs the full analysis for one review and persists the
// result atomically together with the detected language. A missing review is
// a logged no-op, not a failure. Errors never propagate to the caller; a
// failed run leaves the stored analysis history unchanged.
func (p *Pipeline) AnalyzeAndSave(ctx context.Context, reviewID int64) Outcome {
	started := time.Now()

	outcome := p.analyze(ctx, reviewID)

	observability.ReviewsAnalyzed.WithLabelValues(outcome.String()).Inc()
	observability.AnalysisDuration.Observe(time.Since(started).Seconds())

	return outcome
}

func (p *Pipeline) analyze(ctx context.Context, reviewID int64) Outcome {
	review, err := p.store.GetReview(ctx, reviewID)
	if err != nil {
		p.logger.Error().Err(err).Int64("review_id", reviewID).Msg("review fetch failed")

		return OutcomeFailed
	}

	if review == nil {
		p.logger.Warn().Int64("review_id", reviewID).Msg("review not found")

		return OutcomeSkipped
	}

	text := textutil.Normalize(review.Text)
	language := langdetect.Detect(text)

	sentimentResult, err := p.classifier.Analyze(ctx, text, language)
	if err != nil {
		p.logger.Error().Err(err).Int64("review_id", reviewID).Msg("sentiment analysis failed")

		return OutcomeFailed
	}

	aspectSentences := p.aspects.Extract(text, language)

	aspectSentiments := make(map[string]db.AspectSentiment, len(aspectSentences))
	for aspect, sentences := range aspectSentences {
		classified := p.aspects.ClassifySentiment(ctx, sentences, p.classifier)
		aspectSentiments[aspect] = db.AspectSentiment{
			Sentiment:  classified.Sentiment,
			Confidence: classified.Confidence,
		}
	}

	keyPhrases := p.phrases.Extract(text, language, sentimentResult.Sentiment)

	result := &db.AnalysisResult{
		ReviewID:         reviewID,
		Sentiment:        sentimentResult.Sentiment,
		Confidence:       sentimentResult.Confidence,
		Aspects:          aspectSentiments,
		KeyPhrases:       keyPhrases,
		EmotionIntensity: sentimentResult.EmotionIntensity,
	}

	if err := p.store.SaveAnalysis(ctx, language, result); err != nil {
		p.logger.Error().Err(err).Int64("review_id", reviewID).Msg("analysis persistence failed")

		return OutcomeFailed
	}

	observability.SentimentLabels.WithLabelValues(sentimentResult.Sentiment, sentimentResult.Source).Inc()

	p.logger.Info().
		Int64("review_id", reviewID).
		Str("language", language).
		Str("sentiment", sentimentResult.Sentiment).
		Str("source", sentimentResult.Source).
		Int("aspects", len(aspectSentiments)).
		Msg("analysis completed")

	return OutcomeAnalyzed
}

// AnalyzeBatch sequentially analyzes the given review ids in input order.
// Individual failures do not short-circuit the batch; aggregate accounting
// is the batch runner's concern.
func (p *Pipeline) AnalyzeBatch(ctx context.Context, reviewIDs []int64) {
	p.logger.Info().Int("reviews", len(reviewIDs)).Msg("starting batch analysis")

	for _, id := range reviewIDs {
		p.AnalyzeAndSave(ctx, id)
	}

	p.logger.Info().Int("reviews", len(reviewIDs)).Msg("batch analysis completed")
}
