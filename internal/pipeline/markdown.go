package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

// ErrHTMLConversion indicates Markdown conversion failed.
var ErrHTMLConversion = errors.New("HTML conversion failed")

// HTMLConverter abstracts Markdown to HTML fragment conversion.
type HTMLConverter interface {
	ToHTML(ctx context.Context, content string) (string, error)
}

// MarkdownConverter converts Markdown text to an HTML fragment with goldmark.
type MarkdownConverter struct {
	md  goldmark.Markdown
	pre *TextPreprocessor
}

// NewMarkdownConverter creates a converter with GFM and inline-styled code
// highlighting. Raw HTML in the input is dropped.
func NewMarkdownConverter() *MarkdownConverter {
	md := goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,
			highlighting.NewHighlighting(
				highlighting.WithStyle("github"),
				highlighting.WithFormatOptions(
					chromahtml.WithClasses(false), // printed pages carry no chroma stylesheet
				),
			),
		),
		goldmark.WithRendererOptions(
			html.WithHardWraps(),
		),
	)
	return &MarkdownConverter{md: md, pre: &TextPreprocessor{}}
}

// ToHTML converts content to an HTML fragment. Empty or blank input
// yields an empty string.
func (c *MarkdownConverter) ToHTML(ctx context.Context, content string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if strings.TrimSpace(content) == "" {
		return "", nil
	}

	src := c.pre.Preprocess(content)

	var buf bytes.Buffer
	if err := c.md.Convert([]byte(src), &buf); err != nil {
		return "", fmt.Errorf("%w: %v", ErrHTMLConversion, err)
	}

	return strings.TrimSpace(ConvertMarkPlaceholders(buf.String())), nil
}

var _ HTMLConverter = (*MarkdownConverter)(nil)
