package docbuilder

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"

	"github.com/ortam/docbuilder/internal/assets"
	"github.com/ortam/docbuilder/internal/fileutil"
	"github.com/ortam/docbuilder/internal/process"
)

// pdfRenderer abstracts PDF rendering from an HTML file to enable testing without a browser.
type pdfRenderer interface {
	RenderFromFile(ctx context.Context, filePath string, opts *pdfOptions) ([]byte, error)
}

var _ pdfRenderer = (*rodEngine)(nil)

// pdfOptions holds the native header and footer printed on every page.
type pdfOptions struct {
	Header string
	Footer string
}

// A4 page dimensions and 2cm margins, in inches.
const (
	paperWidthInches  = 8.27
	paperHeightInches = 11.69
	marginInches      = 0.7874
)

// DefaultRenderTimeout bounds page load and printing.
const DefaultRenderTimeout = 60 * time.Second

// rodEngine implements pdfRenderer with go-rod. Every call launches its own
// browser and tears it down before returning; nothing is shared between calls.
type rodEngine struct {
	timeout    time.Duration
	noSandbox  bool
	browserBin string
}

// RenderFromFile opens a local HTML file in a fresh headless Chrome and prints it.
func (e *rodEngine) RenderFromFile(ctx context.Context, filePath string, opts *pdfOptions) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	l := launcher.New().Headless(true).NoSandbox(e.noSandbox)
	if e.browserBin != "" {
		l = l.Bin(e.browserBin)
	}
	// Cleanup blocks until the process exits, so it only runs once one was started.
	defer func() {
		if pid := l.PID(); pid > 0 {
			process.KillProcessGroup(pid)
			l.Kill()
			l.Cleanup()
		}
	}()

	u, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBrowserLaunch, err)
	}

	browser := rod.New().ControlURL(u)
	if err := browser.Connect(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBrowserConnect, err)
	}
	defer func() { _ = browser.Close() }()

	page, err := browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPageCreate, err)
	}
	defer func() { _ = page.Close() }()

	p := page.Context(ctx).Timeout(e.timeout)

	// Web fonts are only available once the network is idle.
	wait := p.WaitNavigation(proto.PageLifecycleEventNameNetworkIdle)
	if err := p.Navigate("file://" + filePath); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPageLoad, err)
	}
	wait()
	if err := p.WaitLoad(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPageLoad, err)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	reader, err := p.PDF(buildPDFOptions(opts))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPDFGeneration, err)
	}

	pdfBuf, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("%w: reading PDF stream: %v", ErrPDFGeneration, err)
	}
	return pdfBuf, nil
}

// buildPDFOptions constructs A4 print settings with the native header and footer.
func buildPDFOptions(opts *pdfOptions) *proto.PagePrintToPDF {
	pdfOpts := &proto.PagePrintToPDF{
		PaperWidth:      floatPtr(paperWidthInches),
		PaperHeight:     floatPtr(paperHeightInches),
		MarginTop:       floatPtr(marginInches),
		MarginBottom:    floatPtr(marginInches),
		MarginLeft:      floatPtr(marginInches),
		MarginRight:     floatPtr(marginInches),
		PrintBackground: true,
	}
	if opts != nil {
		pdfOpts.DisplayHeaderFooter = true
		pdfOpts.HeaderTemplate = opts.Header
		pdfOpts.FooterTemplate = opts.Footer
	}
	return pdfOpts
}

func floatPtr(v float64) *float64 {
	return &v
}

// Renderer turns stored documents into PDF bytes.
type Renderer struct {
	engine pdfRenderer
	shell  *shellBuilder
	pool   *RenderPool
	brand  Brand
	clock  func() time.Time
}

type rendererConfig struct {
	timeout    time.Duration
	noSandbox  bool
	browserBin string
	loader     AssetLoader
	brand      Brand
	clock      func() time.Time
	pool       *RenderPool
}

// RendererOption configures a Renderer.
type RendererOption func(*rendererConfig)

// WithTimeout sets the page load and print timeout.
func WithTimeout(d time.Duration) RendererOption {
	return func(c *rendererConfig) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithNoSandbox controls Chrome's sandbox. Containers usually need it disabled.
func WithNoSandbox(v bool) RendererOption {
	return func(c *rendererConfig) {
		c.noSandbox = v
	}
}

// WithBrowserBin uses a pre-installed Chrome instead of rod's managed download.
func WithBrowserBin(path string) RendererOption {
	return func(c *rendererConfig) {
		c.browserBin = path
	}
}

// WithRendererAssets sets the loader for the page shell and stylesheets.
func WithRendererAssets(loader AssetLoader) RendererOption {
	return func(c *rendererConfig) {
		if loader != nil {
			c.loader = loader
		}
	}
}

// WithRendererBrand sets the identity printed in page headers and footers.
func WithRendererBrand(b Brand) RendererOption {
	return func(c *rendererConfig) {
		c.brand = b
	}
}

// WithRendererClock sets the time source for the header date.
func WithRendererClock(now func() time.Time) RendererOption {
	return func(c *rendererConfig) {
		if now != nil {
			c.clock = now
		}
	}
}

// WithPool bounds concurrent renders with p.
func WithPool(p *RenderPool) RendererOption {
	return func(c *rendererConfig) {
		c.pool = p
	}
}

// NewRenderer creates a Renderer. The sandbox is disabled unless
// WithNoSandbox(false) is given.
func NewRenderer(opts ...RendererOption) (*Renderer, error) {
	cfg := rendererConfig{
		timeout:   DefaultRenderTimeout,
		noSandbox: true,
		loader:    assets.NewEmbeddedLoader(),
		brand:     DefaultBrand(),
		clock:     time.Now,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	shell, err := newShellBuilder(cfg.loader)
	if err != nil {
		return nil, err
	}

	return &Renderer{
		engine: &rodEngine{
			timeout:    cfg.timeout,
			noSandbox:  cfg.noSandbox,
			browserBin: cfg.browserBin,
		},
		shell: shell,
		pool:  cfg.pool,
		brand: cfg.brand,
		clock: cfg.clock,
	}, nil
}

// BuildHTML returns the printable page for doc without launching a browser.
func (r *Renderer) BuildHTML(doc RenderableDocument) (string, error) {
	return r.shell.Build(doc, doc.ResolveContent())
}

// Render prints doc to PDF. Each call uses its own browser, which is
// released before Render returns whatever the outcome.
func (r *Renderer) Render(ctx context.Context, doc RenderableDocument) ([]byte, error) {
	if r.pool != nil {
		if err := r.pool.Acquire(ctx); err != nil {
			return nil, err
		}
		defer r.pool.Release()
	}

	page, err := r.BuildHTML(doc)
	if err != nil {
		return nil, err
	}

	tmpPath, cleanup, err := fileutil.WriteTempFile(page, "html")
	if err != nil {
		return nil, err
	}
	defer cleanup()

	opts := &pdfOptions{
		Header: buildHeaderTemplate(doc, r.brand, r.clock()),
		Footer: buildFooterTemplate(doc, r.brand),
	}
	return r.engine.RenderFromFile(ctx, tmpPath, opts)
}
