package server

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ortam/docbuilder"
	"github.com/ortam/docbuilder/internal/logging"
	"github.com/ortam/docbuilder/internal/metrics"
	"github.com/ortam/docbuilder/internal/store"
)

const (
	documentNotFound = "Document not found"
	invalidPrice     = "Invalid price amount"
)

type createDocumentRequest struct {
	DocType             string              `json:"docType"`
	Language            docbuilder.Language `json:"language"`
	TemplateID          string              `json:"templateId"`
	ClientName          string              `json:"clientName"`
	ClientContactPerson string              `json:"clientContactPerson"`
	ClientContactPhone  string              `json:"clientContactPhone"`
	Subject             string              `json:"subject"`
	PriceAmount         *float64            `json:"priceAmount"`
	ShowPrice           *bool               `json:"showPrice"`
	UserPrompt          string              `json:"userPrompt"`
	Sender              string              `json:"sender"`
}

// documentDetail is a document with its latest versions.
type documentDetail struct {
	*store.Document
	Versions []store.DocumentVersion `json:"versions"`
}

// loadDocument fetches the :id document and checks that the caller may
// access it. Editors only reach their own documents.
func (s *Server) loadDocument(c *gin.Context) (*store.Document, error) {
	doc, err := s.store.GetDocument(c.Request.Context(), c.Param("id"))
	if err != nil {
		return nil, err
	}
	claims, _ := claimsFrom(c)
	if claims.Role != store.RoleAdmin && doc.CreatedBy != claims.ID {
		return nil, forbidden("Access denied")
	}
	return doc, nil
}

func (s *Server) listDocuments(c *gin.Context) {
	claims, _ := claimsFrom(c)
	owner := claims.ID
	if claims.Role == store.RoleAdmin {
		owner = ""
	}

	docs, err := s.store.ListDocuments(c.Request.Context(), owner)
	if err != nil {
		s.failWith(c, err, documentNotFound)
		return
	}
	respond(c, http.StatusOK, gin.H{"documents": docs})
}

func (s *Server) getDocument(c *gin.Context) {
	doc, err := s.loadDocument(c)
	if err != nil {
		s.failWith(c, err, documentNotFound)
		return
	}

	versions, err := s.store.ListVersions(c.Request.Context(), doc.ID, store.MaxVersionsShown)
	if err != nil {
		s.failWith(c, err, documentNotFound)
		return
	}
	respond(c, http.StatusOK, gin.H{"document": documentDetail{Document: doc, Versions: versions}})
}

func (s *Server) createDocument(c *gin.Context) {
	var req createDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if strings.TrimSpace(req.DocType) == "" {
		fail(c, http.StatusBadRequest, "Document type is required")
		return
	}
	if docbuilder.ValidatePrice(req.PriceAmount) != nil {
		fail(c, http.StatusBadRequest, invalidPrice)
		return
	}

	claims, _ := claimsFrom(c)
	showPrice := req.ShowPrice == nil || *req.ShowPrice
	doc := &store.Document{
		DocType:             strings.TrimSpace(req.DocType),
		TemplateID:          req.TemplateID,
		ClientName:          req.ClientName,
		ClientContactPerson: req.ClientContactPerson,
		ClientContactPhone:  req.ClientContactPhone,
		Subject:             req.Subject,
		PriceAmount:         req.PriceAmount,
		ShowPrice:           showPrice,
		UserPrompt:          req.UserPrompt,
		Sender:              req.Sender,
		CreatedBy:           claims.ID,
	}
	if req.Language != "" {
		doc.Language = req.Language.Canonical()
	}

	if err := s.store.CreateDocument(c.Request.Context(), doc); err != nil {
		s.failWith(c, err, documentNotFound)
		return
	}
	respond(c, http.StatusCreated, gin.H{"document": doc})
}

func (s *Server) updateDocument(c *gin.Context) {
	doc, err := s.loadDocument(c)
	if err != nil {
		s.failWith(c, err, documentNotFound)
		return
	}
	if !doc.Status.Editable() {
		fail(c, http.StatusBadRequest, "Cannot edit locked document")
		return
	}

	var patch store.DocumentPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		fail(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if patch.Status != nil && !patch.Status.Valid() {
		fail(c, http.StatusBadRequest, fmt.Sprintf("Invalid status %q", *patch.Status))
		return
	}
	if docbuilder.ValidatePrice(patch.PriceAmount.Value) != nil {
		fail(c, http.StatusBadRequest, invalidPrice)
		return
	}

	updated, err := s.store.UpdateDocument(c.Request.Context(), doc.ID, patch)
	if err != nil {
		s.failWith(c, err, documentNotFound)
		return
	}
	respond(c, http.StatusOK, gin.H{"document": updated})
}

func (s *Server) generateDocument(c *gin.Context) {
	doc, err := s.loadDocument(c)
	if err != nil {
		s.failWith(c, err, documentNotFound)
		return
	}

	meta := doc.Metadata()
	body, genErr := s.generator.Generate(c.Request.Context(), meta)
	metrics.ObserveGeneration(docbuilder.ParseDocType(doc.DocType).Kind.String(), string(meta.Language.Canonical()), genErr)
	if genErr != nil {
		s.logger.Error("Content generation failed",
			logging.String("document_id", doc.ID),
			logging.Err(genErr),
		)
		fail(c, http.StatusInternalServerError, "Failed to generate content")
		return
	}

	updated, version, err := s.store.SaveGeneration(c.Request.Context(), doc.ID, body)
	if err != nil {
		s.failWith(c, err, documentNotFound)
		return
	}
	respond(c, http.StatusOK, gin.H{
		"document":         updated,
		"generatedContent": body,
		"version":          version,
	})
}

func (s *Server) exportPDF(c *gin.Context) {
	doc, err := s.loadDocument(c)
	if err != nil {
		s.failWith(c, err, documentNotFound)
		return
	}

	renderable := doc.Renderable()
	metrics.RendersInFlight.Inc()
	start := time.Now()
	pdf, err := s.renderer.Render(c.Request.Context(), renderable)
	metrics.RendersInFlight.Dec()
	if err != nil {
		metrics.RenderFailuresTotal.WithLabelValues(renderStage(err)).Inc()
		s.logger.Error("PDF export failed",
			logging.String("document_id", doc.ID),
			logging.Err(err),
		)
		fail(c, http.StatusInternalServerError, "Failed to generate PDF")
		return
	}
	metrics.RenderDuration.Observe(time.Since(start).Seconds())

	if next := doc.Status.AfterExport(); next != doc.Status {
		if err := s.store.SetStatus(c.Request.Context(), doc.ID, next); err != nil {
			s.failWith(c, err, documentNotFound)
			return
		}
	}

	c.Header("Content-Disposition", contentDisposition(renderable.Filename()))
	c.Data(http.StatusOK, "application/pdf", pdf)
}

func (s *Server) deleteDocument(c *gin.Context) {
	if err := s.store.DeleteDocument(c.Request.Context(), c.Param("id")); err != nil {
		s.failWith(c, err, documentNotFound)
		return
	}
	respondMessage(c, http.StatusOK, "Document deleted")
}

// contentDisposition builds an attachment header. Non-ASCII names get an
// ASCII fallback plus an RFC 5987 filename* parameter.
func contentDisposition(filename string) string {
	var fallback strings.Builder
	ascii := true
	for _, r := range filename {
		switch {
		case r == '"' || r == '\\' || r < 0x20 || r == 0x7f:
			fallback.WriteByte('_')
		case r > 0x7e:
			ascii = false
			fallback.WriteByte('_')
		default:
			fallback.WriteRune(r)
		}
	}

	header := fmt.Sprintf(`attachment; filename="%s"`, fallback.String())
	if !ascii {
		header += "; filename*=UTF-8''" + url.PathEscape(filename)
	}
	return header
}

// renderStage labels a render failure for metrics.
func renderStage(err error) string {
	switch {
	case errors.Is(err, docbuilder.ErrBrowserLaunch):
		return "launch"
	case errors.Is(err, docbuilder.ErrBrowserConnect):
		return "connect"
	case errors.Is(err, docbuilder.ErrPageCreate):
		return "page"
	case errors.Is(err, docbuilder.ErrPageLoad):
		return "load"
	case errors.Is(err, docbuilder.ErrPDFGeneration):
		return "print"
	case errors.Is(err, docbuilder.ErrShellRender), errors.Is(err, docbuilder.ErrStyleNotFound):
		return "shell"
	default:
		return "other"
	}
}
