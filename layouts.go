package docbuilder

import (
	"context"
	"fmt"
	"html/template"

	"github.com/ortam/docbuilder/internal/assets"
	"github.com/ortam/docbuilder/internal/pipeline"
)

// TemplateBackend composes documents from fixed per-kind layouts. It ignores
// the prompt and is the default Backend until a generative one is wired in.
type TemplateBackend struct {
	tmpl     *template.Template
	markdown pipeline.HTMLConverter
	brand    Brand
}

// NewTemplateBackend parses the content template from loader.
func NewTemplateBackend(loader AssetLoader, brand Brand) (*TemplateBackend, error) {
	src, err := loader.LoadTemplate(assets.ContentTemplateName)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTemplateLoad, err)
	}
	tmpl, err := template.New(assets.ContentTemplateName).Parse(src)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTemplateLoad, err)
	}
	return &TemplateBackend{
		tmpl:     tmpl,
		markdown: pipeline.NewMarkdownConverter(),
		brand:    brand,
	}, nil
}

// Compose builds the layout for the request's kind and language and renders it.
func (b *TemplateBackend) Compose(ctx context.Context, req ComposeRequest) (string, error) {
	notes, err := b.markdown.ToHTML(ctx, req.Metadata.UserPrompt)
	if err != nil {
		return "", err
	}

	in := layoutInput{
		meta:  req.Metadata,
		date:  FormatDate(req.Date, req.Metadata.Language),
		price: req.Price,
		notes: template.HTML(notes), // #nosec G203 -- goldmark output without raw HTML
		brand: b.brand,
	}
	if !req.Metadata.ShowsPrice() {
		in.price = nil
	}

	return layoutFor(req.DocType, req.Metadata.Language)(in).Render(b.tmpl)
}

// layoutInput is everything a layout needs, already formatted.
type layoutInput struct {
	meta  Metadata
	date  string
	price *PriceBreakdown // nil when absent or hidden
	notes template.HTML   // converted user instructions, may be empty
	brand Brand
}

type layout func(layoutInput) *Content

// layoutFor selects the layout for a kind and language. Kinds without a
// layout in the requested language use the generic one.
func layoutFor(dt DocType, lang Language) layout {
	he := lang.IsRTL()
	switch dt.Kind {
	case KindQuote:
		if he {
			return quoteHebrew
		}
		return quoteEnglish
	case KindMarketerAgreement:
		if he {
			return marketerHebrew
		}
	case KindOfficialLetter:
		if he {
			return letterHebrew
		}
	case KindOther:
	}
	return func(in layoutInput) *Content { return generic(in, dt.Name) }
}

func quoteHebrew(in layoutInput) *Content {
	subject := in.meta.Subject
	if subject == "" {
		subject = "השירותים המבוקשים"
	}

	c := newContent(Hebrew).
		title("הצעת מחיר").
		field("תאריך:", in.date).
		field("לכבוד:", in.meta.ClientName).
		field("איש קשר:", in.meta.ClientContactPerson).
		field("טלפון:", in.meta.ClientContactPhone).
		heading(2, "שלום רב,").
		para("להלן הצעת המחיר עבור "+subject+":").
		heading(3, "פירוט השירות").
		list(
			"ייעוץ ותכנון אסטרטגי",
			"פיתוח ויישום פתרון מותאם אישית",
			"ליווי והדרכה",
			"תמיכה שוטפת",
		)

	if in.price != nil {
		c.heading(3, "תמחור").pricing(&PricingTable{
			DescriptionLabel: "פירוט",
			AmountLabel:      "סכום",
			Rows:             priceRows(*in.price, Hebrew, "מחיר לפני מע״מ", fmt.Sprintf("מע״מ (%d%%)", VATPercent), "סה״כ לתשלום"),
		})
	}
	if in.notes != "" {
		c.heading(3, "פרטים נוספים").rich(in.notes)
	}

	c.heading(3, "תנאי תשלום").
		para("התשלום יבוצע לפי הסכמה.").
		heading(3, "תוקף ההצעה").
		para("הצעה זו בתוקף ל-30 יום מתאריך הנפקתה.").
		para("נשמח לעמוד לשירותכם,")

	return signOff(c, in, "צוות "+in.brand.Name)
}

func quoteEnglish(in layoutInput) *Content {
	subject := in.meta.Subject
	if subject == "" {
		subject = "the requested services"
	}

	c := newContent(English).
		title("Price Quotation").
		field("Date:", in.date).
		field("To:", in.meta.ClientName).
		field("Contact Person:", in.meta.ClientContactPerson).
		field("Phone:", in.meta.ClientContactPhone).
		heading(2, "Dear Sir/Madam,").
		para("Please find below our quotation for "+subject+":").
		heading(3, "Service Details").
		list(
			"Strategic consulting and planning",
			"Custom solution development and implementation",
			"Training and guidance",
			"Ongoing support",
		)

	if in.price != nil {
		c.heading(3, "Pricing").pricing(&PricingTable{
			DescriptionLabel: "Description",
			AmountLabel:      "Amount",
			Rows:             priceRows(*in.price, English, "Price before VAT", fmt.Sprintf("VAT (%d%%)", VATPercent), "Total"),
		})
	}
	if in.notes != "" {
		c.heading(3, "Additional Details").rich(in.notes)
	}

	c.para("We look forward to working with you,")

	return signOff(c, in, in.brand.Name+" Team")
}

func marketerHebrew(in layoutInput) *Content {
	c := newContent(Hebrew).
		title("הסכם שיווק").
		field("תאריך:", in.date).
		field("שם המשווק:", in.meta.ClientName).
		heading(2, "הגדרות").
		para("הסכם זה מגדיר את תנאי שיתוף הפעולה בין "+in.brand.Name+" לבין המשווק.").
		heading(2, "תחומי אחריות").
		list(
			"קידום וקידום מכירות של מוצרי ושירותי החברה",
			"יצירת קשרים עם לקוחות פוטנציאליים",
			"דיווח שוטף על פעילות השיווק",
		)

	if in.notes != "" {
		c.heading(3, "תנאים מיוחדים").rich(in.notes)
	}

	return signOff(c, in, "צוות "+in.brand.Name)
}

func letterHebrew(in layoutInput) *Content {
	subject := in.meta.Subject
	if subject == "" {
		subject = "בהתייחס לנושא שבכותרת"
	}

	c := newContent(Hebrew).
		title("מכתב רשמי").
		field("תאריך:", in.date).
		field("לכבוד:", in.meta.ClientName).
		field("איש קשר:", in.meta.ClientContactPerson).
		field("טלפון:", in.meta.ClientContactPhone).
		heading(2, "שלום רב,").
		para(subject).
		rich(in.notes).
		para("בכבוד רב,")

	return signOff(c, in, "צוות "+in.brand.Name)
}

// generic is the layout for every kind and language without a dedicated one.
func generic(in layoutInput, docType string) *Content {
	lang := in.meta.Language.Canonical()
	dateLabel, toLabel, placeholder, team := "Date:", "To:", "Document content will be generated here.", in.brand.Name+" Team"
	if lang.IsRTL() {
		dateLabel, toLabel, placeholder, team = "תאריך:", "לכבוד:", "תוכן המסמך יופק כאן.", "צוות "+in.brand.Name
	}

	c := newContent(lang).
		title(docType).
		field(dateLabel, in.date).
		field(toLabel, in.meta.ClientName)

	if in.meta.Subject != "" {
		c.heading(2, in.meta.Subject)
	}
	if in.notes != "" {
		c.rich(in.notes)
	} else {
		c.para(placeholder)
	}

	return signOff(c, in, team)
}

// signOff adds the sender's name, when given, above the team signature.
func signOff(c *Content, in layoutInput, team string) *Content {
	if in.meta.Sender != "" {
		c.para(in.meta.Sender)
	}
	return c.signature(team)
}

func priceRows(p PriceBreakdown, lang Language, netLabel, vatLabel, totalLabel string) []PricingRow {
	return []PricingRow{
		{Label: netLabel, Amount: FormatCurrency(p.Net, lang)},
		{Label: vatLabel, Amount: FormatCurrency(p.VAT, lang)},
		{Label: totalLabel, Amount: FormatCurrency(p.Total, lang), Total: true},
	}
}
