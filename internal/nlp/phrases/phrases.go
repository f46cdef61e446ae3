// Package phrases extracts representative key phrases from review text,
// bucketed by polarity.
package phrases

import (
	"strings"

	"github.com/feedbacklab/review-insight/internal/nlp/sentiment"
	"github.com/feedbacklab/review-insight/internal/nlp/textutil"
)

// Polarity buckets used as keys in the extracted phrase map.
const (
	BucketPositive = "positive"
	BucketNegative = "negative"
)

const (
	sentenceThreshold  = 0.1
	maxPhrasesPerLabel = 5
)

// Extractor is the default deterministic key-phrase extractor: sentences are
// scored with the polarity lexicon and attached to the matching bucket, in
// text order.
type Extractor struct{}

func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract returns key phrases keyed by polarity bucket, in text order. Both
// buckets are always present; either may be empty. The overall review
// sentiment decides where weakly polar sentences land.
func (e *Extractor) Extract(text, language, overallSentiment string) map[string][]string {
	buckets := map[string][]string{
		BucketPositive: {},
		BucketNegative: {},
	}

	for _, raw := range textutil.Sentences(text) {
		p := sentiment.Polarity(raw, language)

		var bucket string

		switch {
		case p > sentenceThreshold:
			bucket = BucketPositive
		case p < -sentenceThreshold:
			bucket = BucketNegative
		case p != 0 && (overallSentiment == BucketPositive || overallSentiment == BucketNegative):
			// Weakly polar sentences follow the overall review sentiment.
			bucket = overallSentiment
		default:
			// Neutral sentences are not representative of either polarity.
			continue
		}

		if len(buckets[bucket]) >= maxPhrasesPerLabel {
			continue
		}

		buckets[bucket] = append(buckets[bucket], trimPhrase(raw))
	}

	return buckets
}

// trimPhrase strips terminal punctuation and surrounding whitespace so the
// stored phrase reads as a fragment of the review.
func trimPhrase(s string) string {
	return strings.TrimSpace(strings.TrimRight(s, ".!?… "))
}
