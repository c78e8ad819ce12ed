package docbuilder

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/ortam/docbuilder/internal/assets"
)

// Backend turns a prepared request into an HTML document body.
// TemplateBackend is the built-in implementation; a generative backend can
// consume the prompt instead.
type Backend interface {
	Compose(ctx context.Context, req ComposeRequest) (string, error)
}

// ComposeRequest carries the metadata and everything derived from it.
type ComposeRequest struct {
	Metadata Metadata
	DocType  DocType
	Prompt   string
	Price    *PriceBreakdown // nil when no price was given
	Date     time.Time
}

// Generator produces HTML document bodies from metadata.
type Generator struct {
	backend Backend
	loader  AssetLoader
	brand   Brand
	clock   func() time.Time
}

// GeneratorOption configures a Generator.
type GeneratorOption func(*Generator)

// WithClock sets the time source used for document dates.
func WithClock(now func() time.Time) GeneratorOption {
	return func(g *Generator) {
		if now != nil {
			g.clock = now
		}
	}
}

// WithBackend replaces the template backend.
func WithBackend(b Backend) GeneratorOption {
	return func(g *Generator) {
		g.backend = b
	}
}

// WithBrand sets the company identity used in signatures and prompts.
func WithBrand(b Brand) GeneratorOption {
	return func(g *Generator) {
		g.brand = b
	}
}

// WithGeneratorAssets sets the loader for the content template.
func WithGeneratorAssets(loader AssetLoader) GeneratorOption {
	return func(g *Generator) {
		if loader != nil {
			g.loader = loader
		}
	}
}

// NewGenerator creates a Generator. Without WithBackend it uses a
// TemplateBackend built from the configured assets and brand.
func NewGenerator(opts ...GeneratorOption) (*Generator, error) {
	g := &Generator{
		loader: assets.NewEmbeddedLoader(),
		brand:  DefaultBrand(),
		clock:  time.Now,
	}
	for _, opt := range opts {
		opt(g)
	}

	if g.backend == nil {
		tb, err := NewTemplateBackend(g.loader, g.brand)
		if err != nil {
			return nil, err
		}
		g.backend = tb
	}

	return g, nil
}

// Generate produces the HTML body for meta. Optional fields may be empty;
// only an empty document type is rejected.
func (g *Generator) Generate(ctx context.Context, meta Metadata) (string, error) {
	if err := meta.Validate(); err != nil {
		return "", err
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	req := ComposeRequest{
		Metadata: meta,
		DocType:  ParseDocType(meta.DocType),
		Prompt:   buildPrompt(meta, g.brand),
		Date:     g.clock(),
	}
	if net, ok := meta.Price(); ok {
		p := NewPriceBreakdown(net)
		req.Price = &p
	}

	html, err := g.backend.Compose(ctx, req)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrGeneration, err)
	}
	return html, nil
}

var defaultGenerator = sync.OnceValues(func() (*Generator, error) {
	return NewGenerator()
})

// Generate produces an HTML body with the default generator and the
// current date.
func Generate(meta Metadata) (string, error) {
	g, err := defaultGenerator()
	if err != nil {
		return "", err
	}
	return g.Generate(context.Background(), meta)
}
