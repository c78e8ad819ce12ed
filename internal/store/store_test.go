package store

// Notes:
// - SQLite tests run against a real database file in t.TempDir().
// - PostgreSQL query shapes are checked with go-sqlmock in postgres_test.go.
// - The store clock is replaced by a ticking clock so ordering by
//   updated_at is deterministic.

import (
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/ortam/docbuilder"
)

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

// tickingClock returns a clock that advances one second per call.
func tickingClock() func() time.Time {
	var mu sync.Mutex
	t := time.Date(2025, 3, 7, 9, 0, 0, 0, time.UTC)
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		t = t.Add(time.Second)
		return t
	}
}

func newTestStore(t *testing.T) *Store {
	t.Helper()

	s, err := Open(context.Background(), DriverSQLite, filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	s.now = tickingClock()
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func createUser(t *testing.T, s *Store, email string, role Role) *User {
	t.Helper()

	u := &User{Email: email, PasswordHash: "hash", Name: "User " + email, Role: role}
	if err := s.CreateUser(context.Background(), u); err != nil {
		t.Fatalf("CreateUser() error = %v", err)
	}
	return u
}

func createDocument(t *testing.T, s *Store, owner *User, docType string) *Document {
	t.Helper()

	d := &Document{DocType: docType, CreatedBy: owner.ID, ShowPrice: true}
	if err := s.CreateDocument(context.Background(), d); err != nil {
		t.Fatalf("CreateDocument() error = %v", err)
	}
	return d
}

func strPtr(s string) *string { return &s }

// ---------------------------------------------------------------------------
// Open
// ---------------------------------------------------------------------------

func TestOpen_UnsupportedDriver(t *testing.T) {
	t.Parallel()

	_, err := Open(context.Background(), "mysql", "x")
	if !errors.Is(err, ErrUnsupportedDriver) {
		t.Errorf("Open() error = %v, want ErrUnsupportedDriver", err)
	}
}

func TestEnsureSchema_Idempotent(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	for range 2 {
		if err := s.EnsureSchema(context.Background()); err != nil {
			t.Fatalf("EnsureSchema() error = %v", err)
		}
	}
	if s.DriverName() != DriverSQLite {
		t.Errorf("DriverName() = %q", s.DriverName())
	}
}

func TestClose_Nil(t *testing.T) {
	t.Parallel()

	var s *Store
	if err := s.Close(); err != nil {
		t.Errorf("Close() on nil store = %v", err)
	}
}

// ---------------------------------------------------------------------------
// Users
// ---------------------------------------------------------------------------

func TestUsers(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	ctx := context.Background()

	u := createUser(t, s, "admin@ortam.ai", RoleAdmin)
	if u.ID == "" || u.CreatedAt.IsZero() {
		t.Fatalf("CreateUser() did not assign ID and timestamps: %+v", u)
	}

	byEmail, err := s.GetUserByEmail(ctx, "admin@ortam.ai")
	if err != nil {
		t.Fatalf("GetUserByEmail() error = %v", err)
	}
	if byEmail.ID != u.ID || byEmail.Role != RoleAdmin || byEmail.PasswordHash != "hash" {
		t.Errorf("GetUserByEmail() = %+v", byEmail)
	}

	byID, err := s.GetUserByID(ctx, u.ID)
	if err != nil {
		t.Fatalf("GetUserByID() error = %v", err)
	}
	if byID.Email != u.Email {
		t.Errorf("GetUserByID().Email = %q", byID.Email)
	}

	t.Run("duplicate email", func(t *testing.T) {
		err := s.CreateUser(ctx, &User{Email: "admin@ortam.ai", PasswordHash: "x", Name: "x"})
		if !errors.Is(err, ErrAlreadyExists) {
			t.Errorf("CreateUser() error = %v, want ErrAlreadyExists", err)
		}
	})

	t.Run("default role", func(t *testing.T) {
		e := createUser(t, s, "editor@ortam.ai", "")
		if e.Role != RoleEditor {
			t.Errorf("Role = %q, want EDITOR", e.Role)
		}
	})

	t.Run("missing", func(t *testing.T) {
		if _, err := s.GetUserByEmail(ctx, "nobody@ortam.ai"); !errors.Is(err, ErrNotFound) {
			t.Errorf("GetUserByEmail() error = %v, want ErrNotFound", err)
		}
	})
}

func TestParseRole(t *testing.T) {
	t.Parallel()

	tests := map[string]Role{"EDITOR": RoleEditor, "ADMIN": RoleAdmin, "": RoleAdmin, "editor": RoleAdmin}
	for in, want := range tests {
		if got := ParseRole(in); got != want {
			t.Errorf("ParseRole(%q) = %q, want %q", in, got, want)
		}
	}
}

// ---------------------------------------------------------------------------
// Documents
// ---------------------------------------------------------------------------

func TestCreateDocument_Defaults(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	owner := createUser(t, s, "a@ortam.ai", RoleEditor)
	d := createDocument(t, s, owner, docbuilder.DocTypeQuote)

	if d.Language != docbuilder.Hebrew {
		t.Errorf("Language = %q, want he", d.Language)
	}
	if d.TemplateID != "A" || d.PriceCurrency != "ILS" || d.VATPercent != 18 {
		t.Errorf("defaults = template %q currency %q vat %d", d.TemplateID, d.PriceCurrency, d.VATPercent)
	}
	if d.Status != docbuilder.StatusDraft || !d.ShowPrice {
		t.Errorf("Status = %q ShowPrice = %v", d.Status, d.ShowPrice)
	}
	if d.PriceAmount != nil {
		t.Errorf("PriceAmount = %v, want nil", *d.PriceAmount)
	}
	if d.User.ID != owner.ID || d.User.Email != owner.Email {
		t.Errorf("User = %+v, want owner", d.User)
	}
}

func TestCreateDocument_UnknownOwner(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	err := s.CreateDocument(context.Background(), &Document{DocType: "Auto", CreatedBy: "missing"})
	if err == nil {
		t.Fatal("CreateDocument() with unknown owner should fail")
	}
}

func TestListDocuments(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	ctx := context.Background()
	alice := createUser(t, s, "alice@ortam.ai", RoleEditor)
	bob := createUser(t, s, "bob@ortam.ai", RoleEditor)

	first := createDocument(t, s, alice, "Auto")
	createDocument(t, s, bob, "Auto")
	third := createDocument(t, s, alice, docbuilder.DocTypeQuote)

	all, err := s.ListDocuments(ctx, "")
	if err != nil {
		t.Fatalf("ListDocuments() error = %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("len(all) = %d, want 3", len(all))
	}
	if all[0].ID != third.ID {
		t.Errorf("newest first: got %s, want %s", all[0].ID, third.ID)
	}

	// Touching the oldest document moves it to the front.
	if _, err := s.UpdateDocument(ctx, first.ID, DocumentPatch{Subject: strPtr("bumped")}); err != nil {
		t.Fatalf("UpdateDocument() error = %v", err)
	}
	own, err := s.ListDocuments(ctx, alice.ID)
	if err != nil {
		t.Fatalf("ListDocuments(owner) error = %v", err)
	}
	if len(own) != 2 {
		t.Fatalf("len(own) = %d, want 2", len(own))
	}
	if own[0].ID != first.ID {
		t.Errorf("owner list starts with %s, want %s", own[0].ID, first.ID)
	}
}

func TestUpdateDocument(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	ctx := context.Background()
	owner := createUser(t, s, "a@ortam.ai", RoleEditor)
	d := createDocument(t, s, owner, docbuilder.DocTypeQuote)

	price := 1234.5
	hide := false
	locked := docbuilder.StatusLocked
	got, err := s.UpdateDocument(ctx, d.ID, DocumentPatch{
		ClientName:  strPtr("Acme"),
		PriceAmount: OptionalPrice{Set: true, Value: &price},
		ShowPrice:   &hide,
		EditedBody:  strPtr("<p>x</p>"),
		Status:      &locked,
		TemplateID:  strPtr("B"),
	})
	if err != nil {
		t.Fatalf("UpdateDocument() error = %v", err)
	}

	if got.ClientName != "Acme" || got.EditedBody != "<p>x</p>" || got.TemplateID != "B" {
		t.Errorf("fields not updated: %+v", got)
	}
	if got.PriceAmount == nil || *got.PriceAmount != 1234.5 || got.ShowPrice {
		t.Errorf("price = %v show = %v", got.PriceAmount, got.ShowPrice)
	}
	if got.Status != docbuilder.StatusLocked {
		t.Errorf("Status = %q, want LOCKED", got.Status)
	}
	if got.Subject != "" {
		t.Errorf("untouched Subject = %q", got.Subject)
	}
	if !got.UpdatedAt.After(d.UpdatedAt) {
		t.Errorf("UpdatedAt not advanced: %v <= %v", got.UpdatedAt, d.UpdatedAt)
	}

	if _, err := s.UpdateDocument(ctx, "missing", DocumentPatch{}); !errors.Is(err, ErrNotFound) {
		t.Errorf("UpdateDocument(missing) error = %v, want ErrNotFound", err)
	}
}


func TestUpdateDocument_ClearPrice(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	ctx := context.Background()
	owner := createUser(t, s, "a@ortam.ai", RoleEditor)
	d := createDocument(t, s, owner, docbuilder.DocTypeQuote)

	price := 500.0
	if _, err := s.UpdateDocument(ctx, d.ID, DocumentPatch{PriceAmount: OptionalPrice{Set: true, Value: &price}}); err != nil {
		t.Fatalf("UpdateDocument(set) error = %v", err)
	}

	got, err := s.UpdateDocument(ctx, d.ID, DocumentPatch{Subject: strPtr("s")})
	if err != nil {
		t.Fatalf("UpdateDocument(unset) error = %v", err)
	}
	if got.PriceAmount == nil || *got.PriceAmount != 500 {
		t.Fatalf("absent price changed stored value: %v", got.PriceAmount)
	}

	got, err = s.UpdateDocument(ctx, d.ID, DocumentPatch{PriceAmount: OptionalPrice{Set: true}})
	if err != nil {
		t.Fatalf("UpdateDocument(null) error = %v", err)
	}
	if got.PriceAmount != nil {
		t.Errorf("PriceAmount = %v, want nil after explicit null", *got.PriceAmount)
	}
}

func TestDocumentPatch_PriceJSON(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		body      string
		wantSet   bool
		wantValue *float64
	}{
		{"absent", `{"subject":"x"}`, false, nil},
		{"null", `{"priceAmount":null}`, true, nil},
		{"value", `{"priceAmount":12.5}`, true, func() *float64 { v := 12.5; return &v }()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var p DocumentPatch
			if err := json.Unmarshal([]byte(tt.body), &p); err != nil {
				t.Fatalf("Unmarshal() error = %v", err)
			}
			if p.PriceAmount.Set != tt.wantSet {
				t.Errorf("Set = %v, want %v", p.PriceAmount.Set, tt.wantSet)
			}
			switch {
			case tt.wantValue == nil && p.PriceAmount.Value != nil:
				t.Errorf("Value = %v, want nil", *p.PriceAmount.Value)
			case tt.wantValue != nil && (p.PriceAmount.Value == nil || *p.PriceAmount.Value != *tt.wantValue):
				t.Errorf("Value = %v, want %v", p.PriceAmount.Value, *tt.wantValue)
			}
		})
	}
}

func TestSetStatus(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	ctx := context.Background()
	d := createDocument(t, s, createUser(t, s, "a@ortam.ai", RoleEditor), "Auto")

	if err := s.SetStatus(ctx, d.ID, docbuilder.StatusExported); err != nil {
		t.Fatalf("SetStatus() error = %v", err)
	}
	got, err := s.GetDocument(ctx, d.ID)
	if err != nil {
		t.Fatalf("GetDocument() error = %v", err)
	}
	if got.Status != docbuilder.StatusExported {
		t.Errorf("Status = %q, want EXPORTED", got.Status)
	}
	if err := s.SetStatus(ctx, "missing", docbuilder.StatusDraft); !errors.Is(err, ErrNotFound) {
		t.Errorf("SetStatus(missing) error = %v, want ErrNotFound", err)
	}
}

func TestSaveGeneration(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	ctx := context.Background()
	d := createDocument(t, s, createUser(t, s, "a@ortam.ai", RoleEditor), docbuilder.DocTypeQuote)

	doc, v1, err := s.SaveGeneration(ctx, d.ID, "<p>one</p>")
	if err != nil {
		t.Fatalf("SaveGeneration() error = %v", err)
	}
	if doc.GeneratedBody != "<p>one</p>" || doc.EditedBody != "<p>one</p>" {
		t.Errorf("first generation: generated %q edited %q", doc.GeneratedBody, doc.EditedBody)
	}
	if v1.VersionNumber != 1 || v1.Content != "<p>one</p>" {
		t.Errorf("v1 = %+v", v1)
	}

	// A user edit survives the next generation.
	if _, err := s.UpdateDocument(ctx, d.ID, DocumentPatch{EditedBody: strPtr("<p>mine</p>")}); err != nil {
		t.Fatalf("UpdateDocument() error = %v", err)
	}
	doc, v2, err := s.SaveGeneration(ctx, d.ID, "<p>two</p>")
	if err != nil {
		t.Fatalf("SaveGeneration() error = %v", err)
	}
	if doc.GeneratedBody != "<p>two</p>" || doc.EditedBody != "<p>mine</p>" {
		t.Errorf("second generation: generated %q edited %q", doc.GeneratedBody, doc.EditedBody)
	}
	if v2.VersionNumber != 2 {
		t.Errorf("v2.VersionNumber = %d, want 2", v2.VersionNumber)
	}

	versions, err := s.ListVersions(ctx, d.ID, MaxVersionsShown)
	if err != nil {
		t.Fatalf("ListVersions() error = %v", err)
	}
	if len(versions) != 2 || versions[0].VersionNumber != 2 {
		t.Fatalf("versions = %+v, want 2 newest first", versions)
	}

	var snap Document
	if err := versions[0].Snapshot.Unmarshal(&snap); err != nil {
		t.Fatalf("snapshot is not valid JSON: %v", err)
	}
	if snap.ID != d.ID || snap.GeneratedBody != "<p>two</p>" {
		t.Errorf("snapshot = %+v", snap)
	}

	if _, _, err := s.SaveGeneration(ctx, "missing", "x"); !errors.Is(err, ErrNotFound) {
		t.Errorf("SaveGeneration(missing) error = %v, want ErrNotFound", err)
	}
}


func TestSaveGeneration_Concurrent(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	owner := createUser(t, s, "a@ortam.ai", RoleEditor)
	d := createDocument(t, s, owner, docbuilder.DocTypeQuote)

	const n = 8
	var wg sync.WaitGroup
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _, err := s.SaveGeneration(context.Background(), d.ID, "<p>x</p>")
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		if err != nil {
			t.Fatalf("SaveGeneration() error = %v", err)
		}
	}

	versions, err := s.ListVersions(context.Background(), d.ID, n)
	if err != nil {
		t.Fatalf("ListVersions() error = %v", err)
	}
	if len(versions) != n {
		t.Fatalf("len(versions) = %d, want %d", len(versions), n)
	}
	seen := make(map[int]bool, n)
	for _, v := range versions {
		if seen[v.VersionNumber] || v.VersionNumber < 1 || v.VersionNumber > n {
			t.Errorf("unexpected version number %d", v.VersionNumber)
		}
		seen[v.VersionNumber] = true
	}
}

func TestListVersions_Limit(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	ctx := context.Background()
	d := createDocument(t, s, createUser(t, s, "a@ortam.ai", RoleEditor), "Auto")

	for range 12 {
		if _, _, err := s.SaveGeneration(ctx, d.ID, "<p>x</p>"); err != nil {
			t.Fatalf("SaveGeneration() error = %v", err)
		}
	}

	versions, err := s.ListVersions(ctx, d.ID, MaxVersionsShown)
	if err != nil {
		t.Fatalf("ListVersions() error = %v", err)
	}
	if len(versions) != MaxVersionsShown {
		t.Errorf("len(versions) = %d, want %d", len(versions), MaxVersionsShown)
	}
	if versions[0].VersionNumber != 12 || versions[len(versions)-1].VersionNumber != 3 {
		t.Errorf("range = %d..%d, want 12..3", versions[0].VersionNumber, versions[len(versions)-1].VersionNumber)
	}
}

func TestDeleteDocument(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	ctx := context.Background()
	d := createDocument(t, s, createUser(t, s, "a@ortam.ai", RoleEditor), "Auto")
	if _, _, err := s.SaveGeneration(ctx, d.ID, "<p>x</p>"); err != nil {
		t.Fatalf("SaveGeneration() error = %v", err)
	}

	if err := s.DeleteDocument(ctx, d.ID); err != nil {
		t.Fatalf("DeleteDocument() error = %v", err)
	}
	if _, err := s.GetDocument(ctx, d.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetDocument() after delete = %v, want ErrNotFound", err)
	}
	versions, err := s.ListVersions(ctx, d.ID, MaxVersionsShown)
	if err != nil {
		t.Fatalf("ListVersions() error = %v", err)
	}
	if len(versions) != 0 {
		t.Errorf("versions left after delete: %d", len(versions))
	}
	if err := s.DeleteDocument(ctx, d.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("second DeleteDocument() = %v, want ErrNotFound", err)
	}
}

func TestDocument_Conversions(t *testing.T) {
	t.Parallel()

	price := 100.0
	d := &Document{
		DocType:       docbuilder.DocTypeQuote,
		Language:      docbuilder.English,
		TemplateID:    "A",
		ClientName:    "Acme",
		PriceAmount:   &price,
		ShowPrice:     false,
		EditedBody:    "<p>e</p>",
		GeneratedBody: "<p>g</p>",
	}

	meta := d.Metadata()
	if meta.ShowsPrice() {
		t.Error("Metadata().ShowsPrice() = true, want false")
	}
	if p, ok := meta.Price(); !ok || p != docbuilder.MoneyFromFloat(100) {
		t.Errorf("Metadata().Price() = %d, %v", p, ok)
	}

	r := d.Renderable()
	if r.ResolveContent() != "<p>e</p>" || r.ClientName != "Acme" || r.TemplateID != "A" {
		t.Errorf("Renderable() = %+v", r)
	}
}
