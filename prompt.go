package docbuilder

import "strings"

// BuildPrompt returns the Hebrew instruction block describing meta for a
// language model. It is pure and independent of the template layouts.
func BuildPrompt(meta Metadata) string {
	return buildPrompt(meta, DefaultBrand())
}

func buildPrompt(meta Metadata, brand Brand) string {
	var b strings.Builder

	b.WriteString("אתה כותב תוכן עסקי מקצועי עבור חברת " + brand.Name + ".\n\n")

	line := func(label, value string) {
		if value != "" {
			b.WriteString(label + ": " + value + "\n")
		}
	}

	line("סוג מסמך", meta.DocType)
	line("שפה", string(meta.Language))
	line("כותרת", meta.Subject)
	line("שם לקוח", meta.ClientName)
	line("איש קשר", meta.ClientContactPerson)
	line("טלפון", meta.ClientContactPhone)
	if net, ok := meta.Price(); ok && meta.ShowsPrice() {
		p := NewPriceBreakdown(net)
		line("מחיר לפני מע״מ", FormatCurrency(p.Net, Hebrew))
		line("מחיר כולל מע״מ", FormatCurrency(p.Total, Hebrew))
	}
	line("שולח", meta.Sender)

	if meta.UserPrompt != "" {
		b.WriteString("\nהנחיות מיוחדות: " + meta.UserPrompt + "\n")
	}

	b.WriteString("\nהפק טיוטה עניינית עם כותרות משנה ורשימות נקודות בשפה מקצועית.")
	return b.String()
}
