package store

import (
	"encoding/json"
	"time"

	"github.com/jmoiron/sqlx/types"

	"github.com/ortam/docbuilder"
)

// Role is a user's permission level.
type Role string

// Roles.
const (
	RoleAdmin  Role = "ADMIN"
	RoleEditor Role = "EDITOR"
)

// ParseRole maps a role name to a Role; anything but "EDITOR" is ADMIN.
func ParseRole(s string) Role {
	if Role(s) == RoleEditor {
		return RoleEditor
	}
	return RoleAdmin
}

// User is an account that can sign in.
type User struct {
	ID           string    `db:"id" json:"id"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password_hash" json:"-"`
	Name         string    `db:"name" json:"name"`
	Role         Role      `db:"role" json:"role"`
	CreatedAt    time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt    time.Time `db:"updated_at" json:"updatedAt"`
}

// UserSummary is the owner information embedded in documents.
type UserSummary struct {
	ID    string `db:"id" json:"id"`
	Name  string `db:"name" json:"name"`
	Email string `db:"email" json:"email"`
}

// Document is a stored business document and its bodies.
type Document struct {
	ID                  string              `db:"id" json:"id"`
	DocType             string              `db:"doc_type" json:"docType"`
	Language            docbuilder.Language `db:"language" json:"language"`
	TemplateID          string              `db:"template_id" json:"templateId"`
	ClientName          string              `db:"client_name" json:"clientName"`
	ClientContactPerson string              `db:"client_contact_person" json:"clientContactPerson"`
	ClientContactPhone  string              `db:"client_contact_phone" json:"clientContactPhone"`
	Subject             string              `db:"subject" json:"subject"`
	PriceAmount         *float64            `db:"price_amount" json:"priceAmount"`
	PriceCurrency       string              `db:"price_currency" json:"priceCurrency"`
	VATPercent          int                 `db:"vat_percent" json:"vatPercent"`
	ShowPrice           bool                `db:"show_price" json:"showPrice"`
	UserPrompt          string              `db:"user_prompt" json:"userPrompt"`
	Sender              string              `db:"sender" json:"sender"`
	GeneratedBody       string              `db:"generated_body" json:"generatedBody"`
	EditedBody          string              `db:"edited_body" json:"editedBody"`
	Status              docbuilder.Status   `db:"status" json:"status"`
	CreatedBy           string              `db:"created_by" json:"createdBy"`
	CreatedAt           time.Time           `db:"created_at" json:"createdAt"`
	UpdatedAt           time.Time           `db:"updated_at" json:"updatedAt"`
	User                UserSummary         `db:"user" json:"user"`
}

// Metadata returns the generation input stored on the document.
func (d *Document) Metadata() docbuilder.Metadata {
	show := d.ShowPrice
	return docbuilder.Metadata{
		DocType:             d.DocType,
		Language:            d.Language,
		ClientName:          d.ClientName,
		ClientContactPerson: d.ClientContactPerson,
		ClientContactPhone:  d.ClientContactPhone,
		Subject:             d.Subject,
		PriceAmount:         d.PriceAmount,
		ShowPrice:           &show,
		UserPrompt:          d.UserPrompt,
		Sender:              d.Sender,
	}
}

// Renderable returns the renderer input for the document.
func (d *Document) Renderable() docbuilder.RenderableDocument {
	return docbuilder.RenderableDocument{
		DocType:       d.DocType,
		Language:      d.Language,
		TemplateID:    d.TemplateID,
		ClientName:    d.ClientName,
		Subject:       d.Subject,
		EditedBody:    d.EditedBody,
		GeneratedBody: d.GeneratedBody,
		CreatedAt:     d.CreatedAt,
		UpdatedAt:     d.UpdatedAt,
	}
}

// DocumentPatch lists the fields a document update may change.
// Nil fields are left untouched.
type DocumentPatch struct {
	EditedBody          *string            `json:"editedBody"`
	Status              *docbuilder.Status `json:"status"`
	ClientName          *string            `json:"clientName"`
	ClientContactPerson *string            `json:"clientContactPerson"`
	ClientContactPhone  *string            `json:"clientContactPhone"`
	Subject             *string            `json:"subject"`
	PriceAmount         OptionalPrice      `json:"priceAmount"`
	ShowPrice           *bool              `json:"showPrice"`
	UserPrompt          *string            `json:"userPrompt"`
	Sender              *string            `json:"sender"`
	TemplateID          *string            `json:"templateId"`
}

// OptionalPrice tells an absent priceAmount apart from an explicit null.
// Set with a nil Value clears the stored price.
type OptionalPrice struct {
	Set   bool
	Value *float64
}

// UnmarshalJSON marks the field as set, including for null.
func (o *OptionalPrice) UnmarshalJSON(data []byte) error {
	o.Set = true
	return json.Unmarshal(data, &o.Value)
}

// DocumentVersion is an immutable snapshot taken at each generation.
type DocumentVersion struct {
	ID            string         `db:"id" json:"id"`
	DocumentID    string         `db:"document_id" json:"documentId"`
	VersionNumber int            `db:"version_number" json:"versionNumber"`
	Content       string         `db:"content" json:"content"`
	Snapshot      types.JSONText `db:"snapshot" json:"snapshot"`
	CreatedAt     time.Time      `db:"created_at" json:"createdAt"`
}

// Template is a header, footer and style theme record.
type Template struct {
	ID          string    `db:"id" json:"id"`
	Name        string    `db:"name" json:"name"`
	Description string    `db:"description" json:"description"`
	Code        string    `db:"code" json:"code"`
	HeaderHTML  string    `db:"header_html" json:"headerHtml"`
	FooterHTML  string    `db:"footer_html" json:"footerHtml"`
	Styles      string    `db:"styles" json:"styles"`
	IsActive    bool      `db:"is_active" json:"isActive"`
	CreatedAt   time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time `db:"updated_at" json:"updatedAt"`
}

// TemplatePatch lists the template fields an update may change.
type TemplatePatch struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	HeaderHTML  *string `json:"headerHtml"`
	FooterHTML  *string `json:"footerHtml"`
	Styles      *string `json:"styles"`
	IsActive    *bool   `json:"isActive"`
}

// Sender is a person documents can be sent on behalf of.
type Sender struct {
	ID        string    `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Email     string    `db:"email" json:"email"`
	Phone     string    `db:"phone" json:"phone"`
	Title     string    `db:"title" json:"title"`
	IsActive  bool      `db:"is_active" json:"isActive"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}

// SenderPatch lists the sender fields an update may change.
type SenderPatch struct {
	Name     *string `json:"name"`
	Email    *string `json:"email"`
	Phone    *string `json:"phone"`
	Title    *string `json:"title"`
	IsActive *bool   `json:"isActive"`
}
