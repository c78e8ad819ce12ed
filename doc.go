// Package docbuilder composes bilingual (Hebrew/English) business documents
// and prints them to PDF with headless Chrome.
//
// # Generating Content
//
// A Generator turns document metadata into an HTML body. The built-in
// TemplateBackend picks a layout by document type and language:
//
//	gen, err := docbuilder.NewGenerator()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	body, err := gen.Generate(ctx, docbuilder.Metadata{
//	    DocType:    docbuilder.DocTypeQuote,
//	    Language:   docbuilder.Hebrew,
//	    ClientName: "Acme",
//	})
//
// Prices are given before VAT; the 18% VAT and the total are derived and
// formatted per locale. Free-text instructions are rendered as Markdown with
// raw HTML disabled.
//
// BuildPrompt returns the same metadata as a Hebrew instruction block for a
// language model. Plug a generative Backend in with WithBackend.
//
// # Rendering PDFs
//
// A Renderer wraps a body in the printable page and prints it on A4 with a
// branded header and a numbered footer:
//
//	r, err := docbuilder.NewRenderer(docbuilder.WithTimeout(time.Minute))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	pdf, err := r.Render(ctx, docbuilder.RenderableDocument{
//	    DocType:       docbuilder.DocTypeQuote,
//	    Language:      docbuilder.Hebrew,
//	    GeneratedBody: body,
//	})
//
// Every Render launches its own browser and releases it before returning.
// Use a RenderPool to bound how many run at once:
//
//	pool := docbuilder.NewRenderPool(docbuilder.ResolvePoolSize(0))
//	r, err := docbuilder.NewRenderer(docbuilder.WithPool(pool))
//
// # Custom Assets
//
// Override the built-in theme and templates with an AssetLoader:
//
//	loader, err := docbuilder.NewAssetLoader("/path/to/assets")
//	r, err := docbuilder.NewRenderer(docbuilder.WithRendererAssets(loader))
//
// Asset directory structure:
//
//	assets/
//	├── styles/
//	│   └── classic.css
//	└── templates/
//	    ├── content.html
//	    └── shell.html
//
// # Browser Requirements
//
// PDF rendering requires Chrome/Chromium. The go-rod library downloads a
// managed Chromium on first run (~/.cache/rod/browser/). The sandbox is
// disabled by default for containers; use WithBrowserBin for a system Chrome.
package docbuilder
