package sentiment

import "strings"

// The five fixed emotions and their language-mixed keyword sets. This is a
// heuristic signal layered on top of the model output, not a model output
// itself.
var emotionKeywords = map[string][]string{
	"joy":      {"хорошо", "отлично", "прекрасно", "рад", "счастлив", "good", "great", "excellent", "happy", "joy"},
	"anger":    {"плохо", "ужасно", "злой", "разочарован", "ненавижу", "bad", "terrible", "angry", "hate", "disappointed"},
	"sadness":  {"грустно", "печально", "разочарование", "sad", "disappointed", "unhappy"},
	"surprise": {"удивительно", "неожиданно", "шокирован", "surprising", "unexpected", "shocked"},
	"fear":     {"беспокоюсь", "боюсь", "опасаюсь", "worry", "fear", "concerned"},
}

const emotionKeywordWeight = 0.2

// emotionIntensity counts keyword occurrences per emotion in the lower-cased
// text, scales each count by 0.2 capped at 1.0, then normalizes so the five
// values sum to 1. All values are zero when nothing matched.
func emotionIntensity(text string) map[string]float64 {
	textLower := strings.ToLower(text)

	intensities := make(map[string]float64, len(emotionKeywords))

	var total float64

	for emotion, keywords := range emotionKeywords {
		count := 0

		for _, keyword := range keywords {
			if strings.Contains(textLower, keyword) {
				count++
			}
		}

		intensity := clamp(float64(count)*emotionKeywordWeight, 0, 1)
		intensities[emotion] = intensity
		total += intensity
	}

	if total > 0 {
		for emotion := range intensities {
			intensities[emotion] /= total
		}
	}

	return intensities
}
