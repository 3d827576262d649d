package pipeline

import (
	"regexp"
	"strings"

	"ngo-campaign-pipeline/internal/model"
)

// PlaceholderWords are stripped from free text and treated as stopwords
var PlaceholderWords = []string{"nan", "none", "0", "null", "undefined"}

var placeholderPattern = buildPlaceholderPattern(PlaceholderWords)

func buildPlaceholderPattern(words []string) *regexp.Regexp {
	quoted := make([]string, len(words))
	for i, w := range words {
		quoted[i] = regexp.QuoteMeta(w)
	}
	return regexp.MustCompile(`(?i)\b(?:` + strings.Join(quoted, "|") + `)\b`)
}

// BuildIssueText concatenates the issue slots of every record into one blob.
func BuildIssueText(t *model.RecordTable) string {
	if t == nil {
		return ""
	}
	parts := make([]string, 0, t.Len())
	for _, rec := range t.Records {
		for i := 0; i < rec.IssueNames.Len(); i++ {
			if v, ok := rec.IssueNames.At(i).Get(); ok {
				parts = append(parts, v)
			}
		}
	}
	return strings.Join(parts, " ")
}

// CleanIssueText removes whole-word placeholder tokens and collapses whitespace.
func CleanIssueText(text string) string {
	text = placeholderPattern.ReplaceAllString(text, "")
	return strings.Join(strings.Fields(text), " ")
}
