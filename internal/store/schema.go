package store

import (
	"context"
	"fmt"
	"strings"
)

// schema is written for SQLite; postgresTypes adapts it for PostgreSQL.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id            TEXT PRIMARY KEY,
		email         TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		name          TEXT NOT NULL,
		role          TEXT NOT NULL DEFAULT 'EDITOR',
		created_at    TIMESTAMP NOT NULL,
		updated_at    TIMESTAMP NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS documents (
		id                    TEXT PRIMARY KEY,
		doc_type              TEXT NOT NULL,
		language              TEXT NOT NULL DEFAULT 'he',
		template_id           TEXT NOT NULL DEFAULT 'A',
		client_name           TEXT NOT NULL DEFAULT '',
		client_contact_person TEXT NOT NULL DEFAULT '',
		client_contact_phone  TEXT NOT NULL DEFAULT '',
		subject               TEXT NOT NULL DEFAULT '',
		price_amount          REAL,
		price_currency        TEXT NOT NULL DEFAULT 'ILS',
		vat_percent           INTEGER NOT NULL DEFAULT 18,
		show_price            BOOLEAN NOT NULL DEFAULT 1,
		user_prompt           TEXT NOT NULL DEFAULT '',
		sender                TEXT NOT NULL DEFAULT '',
		generated_body        TEXT NOT NULL DEFAULT '',
		edited_body           TEXT NOT NULL DEFAULT '',
		status                TEXT NOT NULL DEFAULT 'DRAFT',
		created_by            TEXT NOT NULL REFERENCES users(id),
		created_at            TIMESTAMP NOT NULL,
		updated_at            TIMESTAMP NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_documents_created_by ON documents(created_by)`,
	`CREATE TABLE IF NOT EXISTS document_versions (
		id             TEXT PRIMARY KEY,
		document_id    TEXT NOT NULL REFERENCES documents(id) ON DELETE CASCADE,
		version_number INTEGER NOT NULL,
		content        TEXT NOT NULL,
		snapshot       TEXT NOT NULL,
		created_at     TIMESTAMP NOT NULL,
		UNIQUE (document_id, version_number)
	)`,
	`CREATE TABLE IF NOT EXISTS templates (
		id          TEXT PRIMARY KEY,
		name        TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		code        TEXT NOT NULL UNIQUE,
		header_html TEXT NOT NULL DEFAULT '',
		footer_html TEXT NOT NULL DEFAULT '',
		styles      TEXT NOT NULL DEFAULT '',
		is_active   BOOLEAN NOT NULL DEFAULT 1,
		created_at  TIMESTAMP NOT NULL,
		updated_at  TIMESTAMP NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS senders (
		id         TEXT PRIMARY KEY,
		name       TEXT NOT NULL,
		email      TEXT NOT NULL DEFAULT '',
		phone      TEXT NOT NULL DEFAULT '',
		title      TEXT NOT NULL DEFAULT '',
		is_active  BOOLEAN NOT NULL DEFAULT 1,
		created_at TIMESTAMP NOT NULL,
		updated_at TIMESTAMP NOT NULL
	)`,
}

var postgresTypes = strings.NewReplacer(
	"TIMESTAMP", "TIMESTAMPTZ",
	"REAL", "DOUBLE PRECISION",
	"DEFAULT 1", "DEFAULT TRUE",
)

// EnsureSchema creates missing tables and indexes. Existing tables are
// left as they are.
func (s *Store) EnsureSchema(ctx context.Context) error {
	for _, stmt := range schema {
		if s.db.DriverName() == DriverPostgres {
			stmt = postgresTypes.Replace(stmt)
		}
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to create schema: %w", err)
		}
	}
	return nil
}
