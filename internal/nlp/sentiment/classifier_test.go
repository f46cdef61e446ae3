package sentiment

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testLogger = zerolog.Nop()

// stubModel returns a fixed distribution or a fixed error.
type stubModel struct {
	scores Scores
	err    error
}

func (m *stubModel) Predict(_ context.Context, _ string) (Scores, error) {
	if m.err != nil {
		return Scores{}, m.err
	}

	return m.scores, nil
}

func fallbackOnlyClassifier() *Classifier {
	return NewClassifier(false, true, &testLogger)
}

func TestAnalyze_FallbackRussianPositive(t *testing.T) {
	c := fallbackOnlyClassifier()

	result, err := c.Analyze(context.Background(), "Отличный продукт! Быстрая доставка.", "")
	require.NoError(t, err)

	assert.Equal(t, LabelPositive, result.Sentiment)
	assert.GreaterOrEqual(t, result.Confidence, 0.5)
	assert.Equal(t, "ru", result.Language)
	assert.Equal(t, SourceLexicon, result.Source)
	assert.Empty(t, result.EmotionIntensity)
}

func TestAnalyze_FallbackNegative(t *testing.T) {
	c := fallbackOnlyClassifier()

	result, err := c.Analyze(context.Background(), "Ужасный товар, очень плохо.", "ru")
	require.NoError(t, err)

	assert.Equal(t, LabelNegative, result.Sentiment)
	assert.GreaterOrEqual(t, result.Confidence, 0.5)
	assert.LessOrEqual(t, result.Confidence, 1.0)
}

func TestAnalyze_EmptyTextReturnsLastResortDefault(t *testing.T) {
	c := fallbackOnlyClassifier()

	result, err := c.Analyze(context.Background(), "", "")
	require.NoError(t, err)

	assert.Equal(t, LabelNeutral, result.Sentiment)
	assert.Equal(t, 0.5, result.Confidence)
	assert.Equal(t, Scores{Negative: 0.3, Neutral: 0.4, Positive: 0.3}, result.Scores)
	assert.Empty(t, result.EmotionIntensity)
	assert.Equal(t, "ru", result.Language)
	assert.Equal(t, SourceDefault, result.Source)
}

func TestAnalyze_NeverFailsWithFallbackEnabled(t *testing.T) {
	c := NewClassifier(true, true, &testLogger,
		WithModel("ru", &stubModel{err: errors.New("model server unavailable")}),
		WithModel("en", &stubModel{err: errors.New("model server unavailable")}),
	)

	inputs := []string{
		"",
		"   \t\n",
		"👍👍👍",
		"製品はとても良いです",
		"Отличный продукт",
		"terrible product",
		"ні те ні се",
	}

	for _, text := range inputs {
		result, err := c.Analyze(context.Background(), text, "")
		require.NoError(t, err, "input %q", text)

		assert.Contains(t, []string{LabelPositive, LabelNegative, LabelNeutral}, result.Sentiment)
		assert.GreaterOrEqual(t, result.Confidence, 0.0)
		assert.LessOrEqual(t, result.Confidence, 1.0)
	}
}

func TestAnalyze_FallbackScoresNonNegative(t *testing.T) {
	c := fallbackOnlyClassifier()

	for _, text := range []string{"Отличный продукт", "Ужасный товар", "обычный день"} {
		result, err := c.Analyze(context.Background(), text, "ru")
		require.NoError(t, err)

		assert.GreaterOrEqual(t, result.Scores.Negative, 0.0)
		assert.GreaterOrEqual(t, result.Scores.Neutral, 0.0)
		assert.GreaterOrEqual(t, result.Scores.Positive, 0.0)
	}
}

func TestAnalyze_PrimaryModelPath(t *testing.T) {
	c := NewClassifier(true, true, &testLogger,
		WithModel("en", &stubModel{scores: Scores{Negative: 0.1, Neutral: 0.2, Positive: 0.7}}),
	)

	result, err := c.Analyze(context.Background(), "great quality, happy with it", "en")
	require.NoError(t, err)

	assert.Equal(t, LabelPositive, result.Sentiment)
	assert.InDelta(t, 0.7, result.Confidence, 1e-9)
	assert.Equal(t, SourceModel, result.Source)
	assert.InDelta(t, 1.0, result.Scores.Negative+result.Scores.Neutral+result.Scores.Positive, 1e-6)

	// "great" and "happy" are joy keywords, so the emotion mass concentrates
	// on joy and sums to 1.
	var total float64
	for _, v := range result.EmotionIntensity {
		total += v
	}

	assert.InDelta(t, 1.0, total, 1e-6)
	assert.Equal(t, 1.0, result.EmotionIntensity["joy"])
}

func TestAnalyze_ModelErrorFallsBack(t *testing.T) {
	c := NewClassifier(true, true, &testLogger,
		WithModel("ru", &stubModel{err: errors.New("inference timeout")}),
	)

	result, err := c.Analyze(context.Background(), "Отличный продукт", "ru")
	require.NoError(t, err)

	assert.Equal(t, LabelPositive, result.Sentiment)
	assert.Equal(t, SourceLexicon, result.Source)
}

func TestAnalyze_ModelErrorPropagatesWithoutFallback(t *testing.T) {
	c := NewClassifier(true, false, &testLogger,
		WithModel("ru", &stubModel{err: ErrModelInference}),
	)

	_, err := c.Analyze(context.Background(), "Отличный продукт", "ru")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrModelInference)
}

func TestAnalyze_InvalidDistributionFallsBack(t *testing.T) {
	c := NewClassifier(true, true, &testLogger,
		WithModel("en", &stubModel{scores: Scores{Negative: 0.3, Neutral: 0.3, Positive: 0.3}}),
	)

	result, err := c.Analyze(context.Background(), "great product", "en")
	require.NoError(t, err)

	assert.Equal(t, SourceLexicon, result.Source)
}

func TestAnalyze_NoModelForLanguageUsesFallback(t *testing.T) {
	c := NewClassifier(true, true, &testLogger,
		WithModel("en", &stubModel{scores: Scores{Negative: 0.1, Neutral: 0.2, Positive: 0.7}}),
	)

	result, err := c.Analyze(context.Background(), "Отличный продукт", "ru")
	require.NoError(t, err)

	assert.Equal(t, SourceLexicon, result.Source)
	assert.Equal(t, LabelPositive, result.Sentiment)
}

func TestScoresDominant_TieBreaks(t *testing.T) {
	tests := []struct {
		name     string
		scores   Scores
		expected string
	}{
		{"neutral preferred on three-way tie", Scores{Negative: 1.0 / 3, Neutral: 1.0 / 3, Positive: 1.0 / 3}, LabelNeutral},
		{"negative before positive on two-way tie", Scores{Negative: 0.4, Neutral: 0.2, Positive: 0.4}, LabelNegative},
		{"clear positive", Scores{Negative: 0.1, Neutral: 0.2, Positive: 0.7}, LabelPositive},
		{"clear negative", Scores{Negative: 0.8, Neutral: 0.1, Positive: 0.1}, LabelNegative},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			label, confidence := tt.scores.Dominant()
			assert.Equal(t, tt.expected, label)
			assert.False(t, math.IsNaN(confidence))
		})
	}
}

func TestEmotionIntensity(t *testing.T) {
	t.Run("normalized when keywords match", func(t *testing.T) {
		intensities := emotionIntensity("Это удивительно, но доставка ужасно медленная. Боюсь заказывать снова.")

		var total float64
		for _, v := range intensities {
			total += v
		}

		assert.InDelta(t, 1.0, total, 1e-6)
		assert.Greater(t, intensities["surprise"], 0.0)
		assert.Greater(t, intensities["anger"], 0.0)
		assert.Greater(t, intensities["fear"], 0.0)
	})

	t.Run("all zero without keywords", func(t *testing.T) {
		intensities := emotionIntensity("обычная посылка пришла вовремя")

		for emotion, v := range intensities {
			assert.Zero(t, v, "emotion %s", emotion)
		}
	})
}

func TestPolarity_Negation(t *testing.T) {
	assert.Greater(t, Polarity("very good product", "en"), 0.1)
	assert.Less(t, Polarity("not good at all", "en"), 0.0)
	assert.Less(t, Polarity("Плохой сервис", "ru"), -0.1)
	assert.Zero(t, Polarity("посылка пришла в среду", "ru"))
}
