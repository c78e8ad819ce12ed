package docbuilder

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"
)

// BlockKind identifies how a content block is printed.
type BlockKind string

// Block kinds understood by the content template.
const (
	BlockTitle     BlockKind = "title"
	BlockField     BlockKind = "field"
	BlockHeading   BlockKind = "heading"
	BlockParagraph BlockKind = "paragraph"
	BlockList      BlockKind = "list"
	BlockPricing   BlockKind = "pricing"
	BlockRichText  BlockKind = "richtext"
	BlockSignature BlockKind = "signature"
)

// Block is one element of a generated document body.
type Block struct {
	Kind    BlockKind
	Level   int           // headings: 2 or 3
	Label   string        // fields: bold label such as "תאריך:"
	Text    string        // escaped on output
	Items   []string      // lists
	Pricing *PricingTable // pricing
	HTML    template.HTML // rich text, already sanitized
}

// PricingTable is the two-column price summary of a quote.
type PricingTable struct {
	DescriptionLabel string
	AmountLabel      string
	Rows             []PricingRow
}

// PricingRow is one line of a PricingTable. Total rows are emphasized.
type PricingRow struct {
	Label  string
	Amount string
	Total  bool
}

// Content is the structured body of a generated document. It is rendered
// through a single html/template, so every text value is escaped.
type Content struct {
	Lang   Language
	Blocks []Block
}

// Dir is the direction attribute of the body wrapper.
func (c *Content) Dir() string {
	return c.Lang.Dir()
}

// Align is the text alignment of amount cells: the side opposite the
// reading direction.
func (c *Content) Align() string {
	if c.Lang.IsRTL() {
		return "left"
	}
	return "right"
}

func newContent(lang Language) *Content {
	return &Content{Lang: lang.Canonical()}
}

func (c *Content) title(text string) *Content {
	c.Blocks = append(c.Blocks, Block{Kind: BlockTitle, Text: text})
	return c
}

// field adds a "label value" line; empty values are skipped.
func (c *Content) field(label, value string) *Content {
	if strings.TrimSpace(value) == "" {
		return c
	}
	c.Blocks = append(c.Blocks, Block{Kind: BlockField, Label: label, Text: value})
	return c
}

func (c *Content) heading(level int, text string) *Content {
	c.Blocks = append(c.Blocks, Block{Kind: BlockHeading, Level: level, Text: text})
	return c
}

func (c *Content) para(text string) *Content {
	c.Blocks = append(c.Blocks, Block{Kind: BlockParagraph, Text: text})
	return c
}

func (c *Content) list(items ...string) *Content {
	c.Blocks = append(c.Blocks, Block{Kind: BlockList, Items: items})
	return c
}

func (c *Content) pricing(table *PricingTable) *Content {
	if table == nil {
		return c
	}
	c.Blocks = append(c.Blocks, Block{Kind: BlockPricing, Pricing: table})
	return c
}

// rich adds sanitized HTML; empty fragments are skipped.
func (c *Content) rich(fragment template.HTML) *Content {
	if strings.TrimSpace(string(fragment)) == "" {
		return c
	}
	c.Blocks = append(c.Blocks, Block{Kind: BlockRichText, HTML: fragment})
	return c
}

func (c *Content) signature(text string) *Content {
	c.Blocks = append(c.Blocks, Block{Kind: BlockSignature, Text: text})
	return c
}

// Render executes tmpl with the content.
func (c *Content) Render(tmpl *template.Template) (string, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, c); err != nil {
		return "", fmt.Errorf("%w: %v", ErrContentRender, err)
	}
	return buf.String(), nil
}
