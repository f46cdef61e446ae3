package sentiment

import (
	"github.com/feedbacklab/review-insight/internal/nlp/textutil"
)

// lexicon holds polarity stems for one language. Stems are matched against
// progressively shortened tokens so inflected forms resolve to their stem
// ("отличный", "отличная" -> "отличн").
type lexicon struct {
	stems        map[string]float64
	negators     map[string]struct{}
	intensifiers map[string]float64
}

const (
	minStemLength   = 3
	negationWindow  = 2
	maxIntensifying = 1.8
)

var lexicons = map[string]*lexicon{
	"ru": {
		stems: map[string]float64{
			"отличн":      0.9,
			"прекрасн":    0.9,
			"замечательн": 0.9,
			"супер":       0.9,
			"хорош":       0.7,
			"довол":       0.7,
			"доволен":     0.7,
			"качествен":   0.7,
			"рекоменду":   0.8,
			"нрав":        0.7,
			"любл":        0.8,
			"удобн":       0.6,
			"быстр":       0.5,
			"рад":         0.6,
			"плох":        -0.7,
			"ужасн":       -0.9,
			"отвратительн": -1.0,
			"кошмар":      -0.9,
			"разочарован": -0.8,
			"обман":       -0.9,
			"брак":        -0.8,
			"сломал":      -0.7,
			"хуж":         -0.6,
			"грязн":       -0.6,
			"медлен":      -0.5,
			"дорог":       -0.4,
		},
		negators: map[string]struct{}{
			"не": {}, "нет": {}, "ни": {},
		},
		intensifiers: map[string]float64{
			"очень": 1.5, "крайне": 1.6, "совершенно": 1.4,
		},
	},
	"en": {
		stems: map[string]float64{
			"excellent": 0.9,
			"amazing":   0.9,
			"awesome":   0.9,
			"perfect":   0.9,
			"great":     0.8,
			"love":      0.8,
			"recommend": 0.8,
			"good":      0.7,
			"happy":     0.7,
			"satisf":    0.7,
			"nice":      0.6,
			"fast":      0.5,
			"bad":       -0.7,
			"terribl":   -0.9,
			"awful":     -0.9,
			"horribl":   -0.9,
			"hate":      -0.9,
			"worst":     -1.0,
			"scam":      -0.9,
			"disappoint": -0.8,
			"waste":     -0.8,
			"broken":    -0.7,
			"poor":      -0.6,
			"slow":      -0.5,
		},
		negators: map[string]struct{}{
			"not": {}, "no": {}, "never": {}, "dont": {}, "don": {},
		},
		intensifiers: map[string]float64{
			"very": 1.5, "really": 1.3, "extremely": 1.8,
		},
	},
}

// Polarity scores text in [-1, 1] using the language lexicon. It backs the
// fallback classification path and the key-phrase bucketing.
func Polarity(text, language string) float64 {
	return polarity(text, language)
}

// polarity scores text in [-1, 1] using the language lexicon. Negators flip
// the sign of the next sentiment-bearing token, intensifiers scale it. The
// score is the average over sentiment-bearing tokens; zero when none match.
func polarity(text, language string) float64 {
	lex, ok := lexicons[language]
	if !ok {
		lex = lexicons["ru"]
	}

	tokens := textutil.Tokens(text)

	var (
		sum       float64
		matched   int
		negateFor int
		scale     = 1.0
	)

	for _, token := range tokens {
		if _, isNegator := lex.negators[token]; isNegator {
			negateFor = negationWindow

			continue
		}

		if factor, isIntensifier := lex.intensifiers[token]; isIntensifier {
			scale = factor

			continue
		}

		score, found := lex.lookup(token)
		if found {
			score *= scale
			if negateFor > 0 {
				score = -score
			}

			sum += score
			matched++
		}

		scale = 1.0

		if negateFor > 0 {
			negateFor--
		}
	}

	if matched == 0 {
		return 0
	}

	return clamp(sum/float64(matched), -1, 1)
}

// lookup matches a token against the stem map, trying the full token first
// and then progressively shorter prefixes.
func (l *lexicon) lookup(token string) (float64, bool) {
	runes := []rune(token)

	for end := len(runes); end >= minStemLength; end-- {
		if score, ok := l.stems[string(runes[:end])]; ok {
			return score, true
		}
	}

	return 0, false
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}

	if v > hi {
		return hi
	}

	return v
}
