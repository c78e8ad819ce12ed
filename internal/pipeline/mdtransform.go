package pipeline

import (
	"regexp"
	"strings"
)

// Highlight placeholders use Unicode Private Use Area characters. They pass
// through goldmark unchanged and become <mark> tags afterwards.
const (
	MarkStartPlaceholder = "\uE000"
	MarkEndPlaceholder   = "\uE001"
)

var (
	crlfOrCR           = regexp.MustCompile(`\r\n?`)
	multipleBlankLines = regexp.MustCompile(`\n{3,}`)
	highlightPattern   = regexp.MustCompile(`==(.*?)==`)
)

// TextPreprocessor normalizes free text typed into a form before Markdown
// conversion.
type TextPreprocessor struct{}

// Preprocess normalizes line endings, marks ==highlights== and collapses
// runs of blank lines.
func (p *TextPreprocessor) Preprocess(content string) string {
	content = normalizeLineEndings(content)
	content = stripPlaceholders(content)
	content = convertHighlights(content)
	content = compressBlankLines(content)
	return content
}

func normalizeLineEndings(content string) string {
	return crlfOrCR.ReplaceAllString(content, "\n")
}

func compressBlankLines(content string) string {
	return multipleBlankLines.ReplaceAllString(content, "\n\n")
}

// stripPlaceholders removes placeholder runes typed by the user so they
// cannot produce unbalanced <mark> tags.
func stripPlaceholders(content string) string {
	return strings.NewReplacer(MarkStartPlaceholder, "", MarkEndPlaceholder, "").Replace(content)
}

func convertHighlights(content string) string {
	return highlightPattern.ReplaceAllString(content, MarkStartPlaceholder+"$1"+MarkEndPlaceholder)
}

// ConvertMarkPlaceholders converts placeholder markers to <mark> tags.
func ConvertMarkPlaceholders(content string) string {
	return strings.ReplaceAll(
		strings.ReplaceAll(content, MarkStartPlaceholder, "<mark>"),
		MarkEndPlaceholder, "</mark>",
	)
}
