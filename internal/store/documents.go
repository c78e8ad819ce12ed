package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/jmoiron/sqlx/types"

	"github.com/ortam/docbuilder"
	"github.com/ortam/docbuilder/internal/assets"
)

// Defaults applied to new documents.
const (
	DefaultCurrency   = "ILS"
	DefaultVATPercent = docbuilder.VATPercent
)

// MaxVersionsShown is how many versions accompany a single document.
const MaxVersionsShown = 10

const documentSelect = `SELECT d.id, d.doc_type, d.language, d.template_id, d.client_name,
	d.client_contact_person, d.client_contact_phone, d.subject, d.price_amount,
	d.price_currency, d.vat_percent, d.show_price, d.user_prompt, d.sender,
	d.generated_body, d.edited_body, d.status, d.created_by, d.created_at, d.updated_at,
	u.id AS "user.id", u.name AS "user.name", u.email AS "user.email"
	FROM documents d JOIN users u ON u.id = d.created_by`

const versionColumns = `id, document_id, version_number, content, snapshot, created_at`

// CreateDocument inserts d. Unset language, template, currency, VAT and
// status take their defaults; ID and timestamps are assigned.
func (s *Store) CreateDocument(ctx context.Context, d *Document) error {
	now := s.now()
	d.ID = uuid.NewString()
	d.CreatedAt, d.UpdatedAt = now, now
	if d.Language == "" {
		d.Language = docbuilder.Hebrew
	}
	if d.TemplateID == "" {
		d.TemplateID = assets.DefaultTemplateID
	}
	if d.PriceCurrency == "" {
		d.PriceCurrency = DefaultCurrency
	}
	if d.VATPercent == 0 {
		d.VATPercent = DefaultVATPercent
	}
	if d.Status == "" {
		d.Status = docbuilder.StatusDraft
	}

	query := s.db.Rebind(`INSERT INTO documents (id, doc_type, language, template_id, client_name,
		client_contact_person, client_contact_phone, subject, price_amount, price_currency,
		vat_percent, show_price, user_prompt, sender, generated_body, edited_body, status,
		created_by, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	_, err := s.db.ExecContext(ctx, query,
		d.ID, d.DocType, d.Language, d.TemplateID, d.ClientName,
		d.ClientContactPerson, d.ClientContactPhone, d.Subject, d.PriceAmount, d.PriceCurrency,
		d.VATPercent, d.ShowPrice, d.UserPrompt, d.Sender, d.GeneratedBody, d.EditedBody, d.Status,
		d.CreatedBy, d.CreatedAt, d.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create document: %w", err)
	}

	created, err := s.GetDocument(ctx, d.ID)
	if err != nil {
		return err
	}
	*d = *created
	return nil
}

// GetDocument returns the document with its owner.
func (s *Store) GetDocument(ctx context.Context, id string) (*Document, error) {
	return getDocument(ctx, s.db, id)
}

func getDocument(ctx context.Context, q sqlx.ExtContext, id string) (*Document, error) {
	d := &Document{}
	query := q.Rebind(documentSelect + ` WHERE d.id = ?`)
	if err := sqlx.GetContext(ctx, q, d, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("document %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get document: %w", err)
	}
	return d, nil
}

// ListDocuments returns documents newest first. An empty ownerID lists
// every document; otherwise only those created by ownerID.
func (s *Store) ListDocuments(ctx context.Context, ownerID string) ([]Document, error) {
	docs := []Document{}
	query := documentSelect
	var args []any
	if ownerID != "" {
		query += ` WHERE d.created_by = ?`
		args = append(args, ownerID)
	}
	query += ` ORDER BY d.updated_at DESC`

	if err := s.db.SelectContext(ctx, &docs, s.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}
	return docs, nil
}

// UpdateDocument applies the non-nil fields of p and returns the result.
func (s *Store) UpdateDocument(ctx context.Context, id string, p DocumentPatch) (*Document, error) {
	var set updateSet
	if p.EditedBody != nil {
		set.add("edited_body", *p.EditedBody)
	}
	if p.Status != nil {
		set.add("status", *p.Status)
	}
	if p.ClientName != nil {
		set.add("client_name", *p.ClientName)
	}
	if p.ClientContactPerson != nil {
		set.add("client_contact_person", *p.ClientContactPerson)
	}
	if p.ClientContactPhone != nil {
		set.add("client_contact_phone", *p.ClientContactPhone)
	}
	if p.Subject != nil {
		set.add("subject", *p.Subject)
	}
	if p.PriceAmount.Set {
		set.add("price_amount", p.PriceAmount.Value)
	}
	if p.ShowPrice != nil {
		set.add("show_price", *p.ShowPrice)
	}
	if p.UserPrompt != nil {
		set.add("user_prompt", *p.UserPrompt)
	}
	if p.Sender != nil {
		set.add("sender", *p.Sender)
	}
	if p.TemplateID != nil {
		set.add("template_id", *p.TemplateID)
	}
	set.add("updated_at", s.now())

	if err := s.update(ctx, "documents", id, set); err != nil {
		return nil, err
	}
	return s.GetDocument(ctx, id)
}

// SetStatus changes only the document status.
func (s *Store) SetStatus(ctx context.Context, id string, status docbuilder.Status) error {
	query := s.db.Rebind(`UPDATE documents SET status = ?, updated_at = ? WHERE id = ?`)
	res, err := s.db.ExecContext(ctx, query, status, s.now(), id)
	if err != nil {
		return fmt.Errorf("failed to set document status: %w", err)
	}
	return requireRow(res, "document", id)
}

// SaveGeneration stores a freshly generated body and snapshots it as the
// next version in one transaction. The edited body is initialized only
// when it is still empty.
func (s *Store) SaveGeneration(ctx context.Context, id, body string) (*Document, *DocumentVersion, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	// The UPDATE row lock is held until commit, so concurrent generations
	// of one document count their versions one after the other.
	now := s.now()
	res, err := tx.ExecContext(ctx, tx.Rebind(`UPDATE documents
		SET generated_body = ?,
		    edited_body = CASE WHEN edited_body = '' THEN ? ELSE edited_body END,
		    updated_at = ?
		WHERE id = ?`), body, body, now, id)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to store generated body: %w", err)
	}
	if err := requireRow(res, "document", id); err != nil {
		return nil, nil, err
	}

	doc, err := getDocument(ctx, tx, id)
	if err != nil {
		return nil, nil, err
	}

	var count int
	if err := tx.GetContext(ctx, &count, tx.Rebind(`SELECT COUNT(*) FROM document_versions WHERE document_id = ?`), id); err != nil {
		return nil, nil, fmt.Errorf("failed to count versions: %w", err)
	}

	snapshot, err := json.Marshal(doc)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to snapshot document: %w", err)
	}

	v := &DocumentVersion{
		ID:            uuid.NewString(),
		DocumentID:    id,
		VersionNumber: count + 1,
		Content:       body,
		Snapshot:      types.JSONText(snapshot),
		CreatedAt:     now,
	}
	_, err = tx.ExecContext(ctx, tx.Rebind(`INSERT INTO document_versions (`+versionColumns+`) VALUES (?, ?, ?, ?, ?, ?)`),
		v.ID, v.DocumentID, v.VersionNumber, v.Content, string(snapshot), v.CreatedAt)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create version: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, nil, fmt.Errorf("failed to commit generation: %w", err)
	}
	return doc, v, nil
}

// ListVersions returns up to limit versions of a document, newest first.
func (s *Store) ListVersions(ctx context.Context, documentID string, limit int) ([]DocumentVersion, error) {
	versions := []DocumentVersion{}
	query := s.db.Rebind(`SELECT ` + versionColumns + ` FROM document_versions
		WHERE document_id = ? ORDER BY version_number DESC LIMIT ?`)
	if err := s.db.SelectContext(ctx, &versions, query, documentID, limit); err != nil {
		return nil, fmt.Errorf("failed to list versions: %w", err)
	}
	return versions, nil
}

// DeleteDocument removes a document and its versions.
func (s *Store) DeleteDocument(ctx context.Context, id string) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, tx.Rebind(`DELETE FROM document_versions WHERE document_id = ?`), id); err != nil {
		return fmt.Errorf("failed to delete versions: %w", err)
	}
	res, err := tx.ExecContext(ctx, tx.Rebind(`DELETE FROM documents WHERE id = ?`), id)
	if err != nil {
		return fmt.Errorf("failed to delete document: %w", err)
	}
	if err := requireRow(res, "document", id); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit delete: %w", err)
	}
	return nil
}

// requireRow turns a zero-row result into ErrNotFound.
func requireRow(res sql.Result, entity, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%s %s: %w", entity, id, ErrNotFound)
	}
	return nil
}
