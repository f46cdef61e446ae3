// Package sentiment classifies review text into three polarity classes.
//
// The classifier wraps per-language statistical models behind the Model
// interface with a deterministic lexicon fallback, so analysis never fails
// when the fallback is permitted.
package sentiment

import "errors"

// Sentiment labels. These three classes are exhaustive.
const (
	LabelPositive = "positive"
	LabelNegative = "negative"
	LabelNeutral  = "neutral"
)

// Result sources, recorded for observability: which path produced the
// classification.
const (
	SourceModel   = "model"
	SourceLexicon = "lexicon"
	SourceDefault = "default"
)

// ErrModelInference marks a primary-model failure. It propagates only when
// the lexicon fallback is disabled.
var ErrModelInference = errors.New("model inference failed")

// Scores is the 3-way probability distribution over sentiment classes in
// fixed order: negative, neutral, positive. Model output order is preserved
// exactly. Lexicon-derived scores are non-negative but do not necessarily
// sum to 1.
type Scores struct {
	Negative float64 `json:"negative"`
	Neutral  float64 `json:"neutral"`
	Positive float64 `json:"positive"`
}

// Dominant returns the argmax label and its probability. Ties break
// deterministically: neutral is preferred, then negative before positive.
func (s Scores) Dominant() (string, float64) {
	if s.Neutral >= s.Negative && s.Neutral >= s.Positive {
		return LabelNeutral, s.Neutral
	}

	if s.Negative >= s.Positive {
		return LabelNegative, s.Negative
	}

	return LabelPositive, s.Positive
}

// Result is the outcome of one sentiment analysis.
type Result struct {
	Sentiment        string
	Confidence       float64
	Scores           Scores
	EmotionIntensity map[string]float64
	Language         string
	// Source reports which path produced the result: model, lexicon, or the
	// last-resort default.
	Source string
}

// defaultResult is the last-resort neutral outcome used when no path can
// produce a meaningful classification.
func defaultResult(language string) Result {
	return Result{
		Sentiment:        LabelNeutral,
		Confidence:       0.5,
		Scores:           Scores{Negative: 0.3, Neutral: 0.4, Positive: 0.3},
		EmotionIntensity: map[string]float64{},
		Language:         language,
		Source:           SourceDefault,
	}
}
