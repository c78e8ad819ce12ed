package docbuilder

import (
	"strings"
	"time"
)

// Language selects the boilerplate and text direction of a document.
type Language string

// Supported languages. Any other value renders as English.
const (
	Hebrew  Language = "he"
	English Language = "en"
)

// IsRTL reports whether the language is written right-to-left.
func (l Language) IsRTL() bool {
	return l == Hebrew
}

// Dir returns the HTML dir attribute value for the language.
func (l Language) Dir() string {
	if l.IsRTL() {
		return "rtl"
	}
	return "ltr"
}

// Canonical maps unknown languages onto English.
func (l Language) Canonical() Language {
	if l == Hebrew {
		return Hebrew
	}
	return English
}

// Status is the lifecycle state of a stored document.
type Status string

// Document statuses.
const (
	StatusDraft    Status = "DRAFT"
	StatusExported Status = "EXPORTED"
	StatusLocked   Status = "LOCKED"
)

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	switch s {
	case StatusDraft, StatusExported, StatusLocked:
		return true
	}
	return false
}

// Editable reports whether document fields may change in this status.
// Locked documents can still be exported.
func (s Status) Editable() bool {
	return s != StatusLocked
}

// AfterExport returns the status a document moves to after a successful
// PDF export. Locked documents stay locked.
func (s Status) AfterExport() Status {
	if s == StatusLocked {
		return StatusLocked
	}
	return StatusExported
}

// Metadata is the structured input to content generation.
type Metadata struct {
	DocType             string   `json:"docType" yaml:"docType"`
	Language            Language `json:"language" yaml:"language"`
	ClientName          string   `json:"clientName,omitempty" yaml:"clientName"`
	ClientContactPerson string   `json:"clientContactPerson,omitempty" yaml:"clientContactPerson"`
	ClientContactPhone  string   `json:"clientContactPhone,omitempty" yaml:"clientContactPhone"`
	Subject             string   `json:"subject,omitempty" yaml:"subject"`
	PriceAmount         *float64 `json:"priceAmount,omitempty" yaml:"priceAmount"` // pre-VAT, ILS
	ShowPrice           *bool    `json:"showPrice,omitempty" yaml:"showPrice"`     // nil means true
	UserPrompt          string   `json:"userPrompt,omitempty" yaml:"userPrompt"`
	Sender              string   `json:"sender,omitempty" yaml:"sender"`
}

// ShowsPrice reports whether pricing should appear, defaulting to true.
func (m Metadata) ShowsPrice() bool {
	return m.ShowPrice == nil || *m.ShowPrice
}

// Validate checks the fields Generate depends on.
func (m Metadata) Validate() error {
	if m.DocType == "" {
		return ErrMissingDocType
	}
	return ValidatePrice(m.PriceAmount)
}

// Price returns the pre-VAT amount and whether one was given.
// A zero amount counts as absent, as does one rejected by ValidatePrice.
func (m Metadata) Price() (Money, bool) {
	if m.PriceAmount == nil || *m.PriceAmount == 0 || ValidatePrice(m.PriceAmount) != nil {
		return 0, false
	}
	return MoneyFromFloat(*m.PriceAmount), true
}

// NoContentPlaceholder is printed when a document has no body yet.
const NoContentPlaceholder = "<p>No content available</p>"

// RenderableDocument is the input to the PDF renderer.
type RenderableDocument struct {
	DocType       string    `json:"docType" yaml:"docType"`
	Language      Language  `json:"language" yaml:"language"`
	TemplateID    string    `json:"templateId" yaml:"templateId"`
	ClientName    string    `json:"clientName,omitempty" yaml:"clientName"`
	Subject       string    `json:"subject,omitempty" yaml:"subject"`
	EditedBody    string    `json:"editedBody,omitempty" yaml:"editedBody"`
	GeneratedBody string    `json:"generatedBody,omitempty" yaml:"generatedBody"`
	CreatedAt     time.Time `json:"createdAt" yaml:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt" yaml:"updatedAt"`
}

// ResolveContent returns the edited body, else the generated body, else
// NoContentPlaceholder. Whitespace-only bodies count as empty.
func (d RenderableDocument) ResolveContent() string {
	if strings.TrimSpace(d.EditedBody) != "" {
		return d.EditedBody
	}
	if strings.TrimSpace(d.GeneratedBody) != "" {
		return d.GeneratedBody
	}
	return NoContentPlaceholder
}

// Title is the printed document title: "<docType> - <client or Document>".
func (d RenderableDocument) Title() string {
	client := d.ClientName
	if client == "" {
		client = "Document"
	}
	return d.DocType + " - " + client
}

// Filename is the download name: "<docType>-<client or document>.pdf".
func (d RenderableDocument) Filename() string {
	client := d.ClientName
	if client == "" {
		client = "document"
	}
	return d.DocType + "-" + client + ".pdf"
}

// Brand is the company identity printed in page headers and footers and
// signed under generated documents.
type Brand struct {
	Name    string
	Contact string
}

// DefaultBrand returns the built-in company identity.
func DefaultBrand() Brand {
	return Brand{
		Name:    "ORTAM AI",
		Contact: "ORTAM AI | info@ortam.ai | www.ortam.ai",
	}
}
