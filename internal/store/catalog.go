package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

const templateColumns = `id, name, description, code, header_html, footer_html, styles, is_active, created_at, updated_at`

const senderColumns = `id, name, email, phone, title, is_active, created_at, updated_at`

// ListTemplates returns active templates ordered by code.
func (s *Store) ListTemplates(ctx context.Context) ([]Template, error) {
	templates := []Template{}
	query := s.db.Rebind(`SELECT ` + templateColumns + ` FROM templates WHERE is_active = ? ORDER BY code ASC`)
	if err := s.db.SelectContext(ctx, &templates, query, true); err != nil {
		return nil, fmt.Errorf("failed to list templates: %w", err)
	}
	return templates, nil
}

// GetTemplate returns a template by ID, active or not.
func (s *Store) GetTemplate(ctx context.Context, id string) (*Template, error) {
	t := &Template{}
	query := s.db.Rebind(`SELECT ` + templateColumns + ` FROM templates WHERE id = ?`)
	if err := s.db.GetContext(ctx, t, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("template %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get template: %w", err)
	}
	return t, nil
}

// CreateTemplate inserts an active template. Codes are unique.
func (s *Store) CreateTemplate(ctx context.Context, t *Template) error {
	now := s.now()
	t.ID = uuid.NewString()
	t.IsActive = true
	t.CreatedAt, t.UpdatedAt = now, now

	query := s.db.Rebind(`INSERT INTO templates (` + templateColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	_, err := s.db.ExecContext(ctx, query,
		t.ID, t.Name, t.Description, t.Code, t.HeaderHTML, t.FooterHTML, t.Styles, t.IsActive, t.CreatedAt, t.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("template code %s: %w", t.Code, ErrAlreadyExists)
		}
		return fmt.Errorf("failed to create template: %w", err)
	}
	return nil
}

// UpdateTemplate applies the non-nil fields of p. The code cannot change.
func (s *Store) UpdateTemplate(ctx context.Context, id string, p TemplatePatch) (*Template, error) {
	var set updateSet
	if p.Name != nil {
		set.add("name", *p.Name)
	}
	if p.Description != nil {
		set.add("description", *p.Description)
	}
	if p.HeaderHTML != nil {
		set.add("header_html", *p.HeaderHTML)
	}
	if p.FooterHTML != nil {
		set.add("footer_html", *p.FooterHTML)
	}
	if p.Styles != nil {
		set.add("styles", *p.Styles)
	}
	if p.IsActive != nil {
		set.add("is_active", *p.IsActive)
	}
	set.add("updated_at", s.now())

	if err := s.update(ctx, "templates", id, set); err != nil {
		return nil, err
	}
	return s.GetTemplate(ctx, id)
}

// ListSenders returns active senders ordered by name.
func (s *Store) ListSenders(ctx context.Context) ([]Sender, error) {
	senders := []Sender{}
	query := s.db.Rebind(`SELECT ` + senderColumns + ` FROM senders WHERE is_active = ? ORDER BY name ASC`)
	if err := s.db.SelectContext(ctx, &senders, query, true); err != nil {
		return nil, fmt.Errorf("failed to list senders: %w", err)
	}
	return senders, nil
}

// GetSender returns a sender by ID, active or not.
func (s *Store) GetSender(ctx context.Context, id string) (*Sender, error) {
	snd := &Sender{}
	query := s.db.Rebind(`SELECT ` + senderColumns + ` FROM senders WHERE id = ?`)
	if err := s.db.GetContext(ctx, snd, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("sender %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get sender: %w", err)
	}
	return snd, nil
}

// CreateSender inserts an active sender.
func (s *Store) CreateSender(ctx context.Context, snd *Sender) error {
	now := s.now()
	snd.ID = uuid.NewString()
	snd.IsActive = true
	snd.CreatedAt, snd.UpdatedAt = now, now

	query := s.db.Rebind(`INSERT INTO senders (` + senderColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	_, err := s.db.ExecContext(ctx, query,
		snd.ID, snd.Name, snd.Email, snd.Phone, snd.Title, snd.IsActive, snd.CreatedAt, snd.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create sender: %w", err)
	}
	return nil
}

// UpdateSender applies the non-nil fields of p.
func (s *Store) UpdateSender(ctx context.Context, id string, p SenderPatch) (*Sender, error) {
	var set updateSet
	if p.Name != nil {
		set.add("name", *p.Name)
	}
	if p.Email != nil {
		set.add("email", *p.Email)
	}
	if p.Phone != nil {
		set.add("phone", *p.Phone)
	}
	if p.Title != nil {
		set.add("title", *p.Title)
	}
	if p.IsActive != nil {
		set.add("is_active", *p.IsActive)
	}
	set.add("updated_at", s.now())

	if err := s.update(ctx, "senders", id, set); err != nil {
		return nil, err
	}
	return s.GetSender(ctx, id)
}

// update runs a partial UPDATE on table by id.
func (s *Store) update(ctx context.Context, table, id string, set updateSet) error {
	query := s.db.Rebind(`UPDATE ` + table + ` SET ` + set.clause() + ` WHERE id = ?`)
	res, err := s.db.ExecContext(ctx, query, append(set.args, id)...)
	if err != nil {
		return fmt.Errorf("failed to update %s: %w", table, err)
	}
	return requireRow(res, table, id)
}
