package docbuilder

import (
	"bytes"
	"fmt"
	"html"
	"html/template"
	"time"

	"github.com/ortam/docbuilder/internal/assets"
	"github.com/ortam/docbuilder/internal/pipeline"
)

// webFontsURL loads Heebo (Hebrew) and Inter (Latin) from Google Fonts.
const webFontsURL = "https://fonts.googleapis.com/css2?family=Heebo:wght@300;400;500;700&family=Inter:wght@300;400;500;700&display=swap"

// Header and footer colors.
const (
	brandColor  = "#06B6D4"
	mutedColor  = "#6B7280"
	borderColor = "#E5E7EB"
)

// fontFamily returns the body font stack for a language.
func fontFamily(lang Language) string {
	if lang.IsRTL() {
		return "'Heebo', sans-serif"
	}
	return "'Inter', sans-serif"
}

// buildDirectionCSS generates the rules that depend on reading direction:
// font, direction, list indentation side and cell alignment.
func buildDirectionCSS(lang Language) string {
	side := "left"
	if lang.IsRTL() {
		side = "right"
	}
	return fmt.Sprintf(`
/* Direction */
body {
  font-family: %s;
  direction: %s;
}

ul, ol {
  padding-%s: 30px;
}

th, td {
  text-align: %s;
}
`, fontFamily(lang), lang.Dir(), side, side)
}

// shellData is the input of the shell template.
type shellData struct {
	Lang    Language
	Dir     string
	Title   string
	FontURL string
	Style   template.CSS
	Content template.HTML
}

// shellBuilder wraps a document body in the printable HTML page.
type shellBuilder struct {
	tmpl   *template.Template
	styles AssetLoader
}

func newShellBuilder(loader AssetLoader) (*shellBuilder, error) {
	src, err := loader.LoadTemplate(assets.ShellTemplateName)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTemplateLoad, err)
	}
	tmpl, err := template.New(assets.ShellTemplateName).Parse(src)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTemplateLoad, err)
	}
	return &shellBuilder{tmpl: tmpl, styles: loader}, nil
}

// Build returns the complete HTML page for doc with body as its content.
// The body is sanitized; the theme is chosen by the document's template id.
func (s *shellBuilder) Build(doc RenderableDocument, body string) (string, error) {
	lang := doc.Language.Canonical()

	theme, err := s.styles.LoadStyle(assets.StyleForTemplate(doc.TemplateID))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrStyleNotFound, err)
	}

	clean, err := pipeline.SanitizeFragment(body)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrShellRender, err)
	}

	data := shellData{
		Lang:    lang,
		Dir:     lang.Dir(),
		Title:   doc.Title(),
		FontURL: webFontsURL,
		Style:   template.CSS(theme + buildDirectionCSS(lang)), // #nosec G203 -- trusted theme assets
		Content: template.HTML(clean),                         // #nosec G203 -- sanitized above
	}

	var buf bytes.Buffer
	if err := s.tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("%w: %v", ErrShellRender, err)
	}
	return buf.String(), nil
}

// buildHeaderTemplate generates Chrome's native page header: brand name,
// document type and print date. Only inline styles apply in this context.
func buildHeaderTemplate(doc RenderableDocument, brand Brand, printed time.Time) string {
	lang := doc.Language.Canonical()
	return fmt.Sprintf(`<div style="width: 100%%; font-size: 10px; padding: 10px 20px; color: %s; border-bottom: 1px solid %s; direction: %s; font-family: %s;">`+
		`<div style="display: flex; justify-content: space-between; align-items: center;">`+
		`<span style="color: %s; font-weight: bold; font-size: 14px;">%s</span>`+
		`<span>%s</span>`+
		`<span>%s</span>`+
		`</div></div>`,
		mutedColor, borderColor, lang.Dir(), fontFamily(lang),
		brandColor, html.EscapeString(brand.Name),
		html.EscapeString(doc.DocType),
		html.EscapeString(FormatDate(printed, lang)))
}

// buildFooterTemplate generates Chrome's native page footer: the contact
// line and "Page N of M" using the pageNumber and totalPages classes.
func buildFooterTemplate(doc RenderableDocument, brand Brand) string {
	lang := doc.Language.Canonical()
	page, of := "Page", "of"
	if lang.IsRTL() {
		page, of = "עמוד", "מתוך"
	}
	return fmt.Sprintf(`<div style="width: 100%%; font-size: 9px; padding: 10px 20px; color: %s; border-top: 1px solid %s; direction: %s; font-family: %s;">`+
		`<div style="display: flex; justify-content: space-between; align-items: center;">`+
		`<span>%s</span>`+
		`<span>%s <span class="pageNumber"></span> %s <span class="totalPages"></span></span>`+
		`</div></div>`,
		mutedColor, borderColor, lang.Dir(), fontFamily(lang),
		html.EscapeString(brand.Contact),
		page, of)
}
