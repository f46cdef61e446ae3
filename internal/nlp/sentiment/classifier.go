package sentiment

import (
	"context"
	"fmt"
	"math"

	"github.com/rs/zerolog"

	"github.com/feedbacklab/review-insight/internal/nlp/langdetect"
	"github.com/feedbacklab/review-insight/internal/nlp/textutil"
	"github.com/feedbacklab/review-insight/internal/platform/observability"
)

const (
	polarityThreshold  = 0.1
	confidenceBase     = 0.5
	neutralConfidence  = 0.5
	neutralScoreActive = 0.5
	neutralScoreOther  = 0.2
)

// Classifier routes analysis to per-language primary models with a lexicon
// fallback. Models are loaded once and are read-only afterwards, so one
// Classifier is safely shared across concurrent requests.
type Classifier struct {
	models     map[string]Model
	usePrimary bool
	fallback   bool
	logger     *zerolog.Logger
}

// Option configures a Classifier.
type Option func(*Classifier)

// WithModel registers a primary model for a language.
func WithModel(language string, model Model) Option {
	return func(c *Classifier) {
		c.models[language] = model
	}
}

// NewClassifier builds a classifier. usePrimary gates the statistical model
// path; fallback permits degrading to the lexicon scorer on model failure.
func NewClassifier(usePrimary, fallback bool, logger *zerolog.Logger, opts ...Option) *Classifier {
	c := &Classifier{
		models:     make(map[string]Model),
		usePrimary: usePrimary,
		fallback:   fallback,
		logger:     logger,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Analyze classifies the text. Language is detected when empty. The returned
// error is non-nil only when the primary model fails and fallback is
// disabled; with fallback enabled Analyze never fails, for any input.
func (c *Classifier) Analyze(ctx context.Context, text, language string) (Result, error) {
	if language == "" {
		language = langdetect.Detect(text)
	}

	model, hasModel := c.models[language]

	if c.usePrimary && hasModel {
		result, err := c.analyzeWithModel(ctx, model, text, language)
		if err == nil {
			return result, nil
		}

		c.logger.Error().Err(err).Str("language", language).Msg("primary model analysis failed")
		observability.ModelRequests.WithLabelValues(language, "error").Inc()

		if !c.fallback {
			return Result{}, err
		}
	}

	return c.analyzeWithLexicon(text, language), nil
}

func (c *Classifier) analyzeWithModel(ctx context.Context, model Model, text, language string) (Result, error) {
	scores, err := model.Predict(ctx, text)
	if err != nil {
		return Result{}, err
	}

	if err := validateDistribution(scores); err != nil {
		return Result{}, err
	}

	observability.ModelRequests.WithLabelValues(language, "ok").Inc()

	label, confidence := scores.Dominant()

	return Result{
		Sentiment:        label,
		Confidence:       confidence,
		Scores:           scores,
		EmotionIntensity: emotionIntensity(text),
		Language:         language,
		Source:           SourceModel,
	}, nil
}

// analyzeWithLexicon is the deterministic fallback path. It cannot fail:
// degenerate input (nothing tokenizable) yields the fixed neutral default.
func (c *Classifier) analyzeWithLexicon(text, language string) Result {
	if len(textutil.Tokens(text)) == 0 {
		return defaultResult(language)
	}

	p := polarity(text, language)

	var (
		label      string
		confidence float64
	)

	switch {
	case p > polarityThreshold:
		label = LabelPositive
		confidence = math.Min(1.0, p+confidenceBase)
	case p < -polarityThreshold:
		label = LabelNegative
		confidence = math.Min(1.0, math.Abs(p)+confidenceBase)
	default:
		label = LabelNeutral
		confidence = neutralConfidence
	}

	neutralScore := neutralScoreOther
	if label == LabelNeutral {
		neutralScore = neutralScoreActive
	}

	return Result{
		Sentiment:  label,
		Confidence: confidence,
		Scores: Scores{
			Negative: math.Max(0, -p),
			Neutral:  neutralScore,
			Positive: math.Max(0, p),
		},
		EmotionIntensity: map[string]float64{},
		Language:         language,
		Source:           SourceLexicon,
	}
}

const distributionTolerance = 1e-6

// validateDistribution rejects model outputs that are not a probability
// distribution; such outputs degrade to the fallback path.
func validateDistribution(s Scores) error {
	if s.Negative < 0 || s.Neutral < 0 || s.Positive < 0 {
		return fmt.Errorf("%w: negative probability", ErrModelInference)
	}

	if math.Abs(s.Negative+s.Neutral+s.Positive-1.0) > distributionTolerance {
		return fmt.Errorf("%w: probabilities sum to %f", ErrModelInference, s.Negative+s.Neutral+s.Positive)
	}

	return nil
}
