// Package aspects extracts domain aspect mentions (price, delivery, ...)
// from review text and classifies per-aspect sentiment.
package aspects

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"github.com/feedbacklab/review-insight/internal/nlp/sentiment"
	"github.com/feedbacklab/review-insight/internal/nlp/textutil"
)

// patternGroup is one named aspect matched by a closed keyword set.
type patternGroup struct {
	Name     string
	Keywords []string
}

var aspectPatterns = map[string][]patternGroup{
	"ru": {
		{Name: "quality", Keywords: []string{"качество", "продукт", "товар"}},
		{Name: "service", Keywords: []string{"сервис", "обслуживание", "помощь"}},
		{Name: "price", Keywords: []string{"цена", "стоимость", "дорого", "дешево"}},
		{Name: "delivery", Keywords: []string{"доставка", "отправка", "прибытие"}},
		{Name: "packaging", Keywords: []string{"упаковка", "пакет", "коробка"}},
	},
	"en": {
		{Name: "quality", Keywords: []string{"quality", "product", "item"}},
		{Name: "service", Keywords: []string{"service", "support", "help"}},
		{Name: "price", Keywords: []string{"price", "cost", "expensive", "cheap"}},
		{Name: "delivery", Keywords: []string{"delivery", "shipping", "arrival"}},
		{Name: "packaging", Keywords: []string{"packaging", "package", "box"}},
	},
}

// AspectSentiment is the classification for one extracted aspect.
type AspectSentiment struct {
	Sentiment  string
	Confidence float64
}

// Extractor matches aspect keywords per language. Matchers are compiled once
// at construction and read-only afterwards.
type Extractor struct {
	matchers map[string]map[string]string // language -> keyword -> group name
	logger   *zerolog.Logger
}

func NewExtractor(logger *zerolog.Logger) *Extractor {
	matchers := make(map[string]map[string]string, len(aspectPatterns))

	for language, groups := range aspectPatterns {
		matcher := make(map[string]string)

		for _, group := range groups {
			for _, keyword := range group.Keywords {
				matcher[keyword] = group.Name
			}
		}

		matchers[language] = matcher
	}

	return &Extractor{matchers: matchers, logger: logger}
}

// Extract returns the sentences containing each matched aspect keyword,
// keyed by the literal lower-cased matched token. A sentence appears under
// every aspect key it matches. Extraction is best-effort and never fails:
// unknown languages and degenerate input yield an empty map.
func (e *Extractor) Extract(text, language string) map[string][]string {
	matcher, ok := e.matchers[language]
	if !ok {
		e.logger.Warn().Str("language", language).Msg("no aspect matcher for language")

		return map[string][]string{}
	}

	found := make(map[string][]string)

	for _, sentence := range textutil.Sentences(text) {
		seen := make(map[string]struct{})

		for _, token := range textutil.Tokens(sentence) {
			if _, isAspect := matcher[token]; !isAspect {
				continue
			}

			// One sentence is attached at most once per aspect key even if
			// the keyword repeats within it.
			if _, dup := seen[token]; dup {
				continue
			}

			seen[token] = struct{}{}
			found[token] = append(found[token], sentence)
		}
	}

	return found
}

// ClassifySentiment concatenates the sentences attached to one aspect and
// delegates to the sentiment classifier. On failure it returns the fixed
// neutral default rather than an error.
func (e *Extractor) ClassifySentiment(ctx context.Context, sentences []string, classifier *sentiment.Classifier) AspectSentiment {
	combined := strings.Join(sentences, " ")

	result, err := classifier.Analyze(ctx, combined, "")
	if err != nil {
		e.logger.Error().Err(err).Msg("aspect sentiment classification failed")

		return AspectSentiment{Sentiment: sentiment.LabelNeutral, Confidence: 0.5}
	}

	return AspectSentiment{Sentiment: result.Sentiment, Confidence: result.Confidence}
}
