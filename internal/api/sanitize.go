package api

import (
	"regexp"
	"strings"

	"github.com/feedbacklab/review-insight/internal/nlp/textutil"
)

var (
	htmlTagPattern   = regexp.MustCompile(`<[^>]*>`)
	unsafeCharFilter = strings.NewReplacer(
		"<", "", ">", "", "{", "", "}", "", "[", "", "]", "", "(", "", ")", "",
	)
)

// sanitizeText strips HTML tags and bracket characters from submitted review
// text and normalizes it for analysis.
func sanitizeText(text string) string {
	text = htmlTagPattern.ReplaceAllString(text, "")
	text = unsafeCharFilter.Replace(text)

	return textutil.Normalize(text)
}
