package phrases

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/feedbacklab/review-insight/internal/nlp/sentiment"
)

func TestExtract_BucketsByPolarity(t *testing.T) {
	e := NewExtractor()

	text := "Отличный продукт! Ужасная доставка. Посылка пришла в среду."

	buckets := e.Extract(text, "ru", sentiment.LabelNeutral)

	assert.Equal(t, []string{"Отличный продукт"}, buckets[BucketPositive])
	assert.Equal(t, []string{"Ужасная доставка"}, buckets[BucketNegative])
}

func TestExtract_BothBucketsAlwaysPresent(t *testing.T) {
	e := NewExtractor()

	buckets := e.Extract("Посылка пришла в среду.", "ru", sentiment.LabelNeutral)

	require.Contains(t, buckets, BucketPositive)
	require.Contains(t, buckets, BucketNegative)
	assert.Empty(t, buckets[BucketPositive])
	assert.Empty(t, buckets[BucketNegative])
}

func TestExtract_CapsPhrasesPerBucket(t *testing.T) {
	e := NewExtractor()

	var sentences []string
	for i := 0; i < 8; i++ {
		sentences = append(sentences, fmt.Sprintf("Отличный вариант номер %d!", i))
	}

	buckets := e.Extract(strings.Join(sentences, " "), "ru", sentiment.LabelPositive)

	assert.Len(t, buckets[BucketPositive], 5)
	// Text order is preserved.
	assert.Equal(t, "Отличный вариант номер 0", buckets[BucketPositive][0])
}

func TestExtract_WeaklyPolarFollowsOverallSentiment(t *testing.T) {
	e := NewExtractor()

	// Polarity averages to 0.05: above zero but inside the weak band, so the
	// sentence follows the overall review sentiment.
	text := "Быстрая но дорогая доставка."

	buckets := e.Extract(text, "ru", sentiment.LabelNegative)
	assert.Equal(t, []string{"Быстрая но дорогая доставка"}, buckets[BucketNegative])
	assert.Empty(t, buckets[BucketPositive])

	buckets = e.Extract(text, "ru", sentiment.LabelPositive)
	assert.Equal(t, []string{"Быстрая но дорогая доставка"}, buckets[BucketPositive])

	// With a neutral overall sentiment the weak sentence is dropped.
	buckets = e.Extract(text, "ru", sentiment.LabelNeutral)
	assert.Empty(t, buckets[BucketPositive])
	assert.Empty(t, buckets[BucketNegative])
}

func TestExtract_EmptyText(t *testing.T) {
	e := NewExtractor()

	buckets := e.Extract("", "ru", sentiment.LabelNeutral)

	assert.Empty(t, buckets[BucketPositive])
	assert.Empty(t, buckets[BucketNegative])
}

func TestTrimPhrase(t *testing.T) {
	assert.Equal(t, "Отличный продукт", trimPhrase("Отличный продукт!"))
	assert.Equal(t, "Never again", trimPhrase("  Never again?!  "))
	assert.Equal(t, "так себе", trimPhrase("так себе…"))
}
