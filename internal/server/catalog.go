package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/ortam/docbuilder/internal/store"
)

const (
	templateNotFound = "Template not found"
	senderNotFound   = "Sender not found"
)

type createTemplateRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Code        string `json:"code"`
	HeaderHTML  string `json:"headerHtml"`
	FooterHTML  string `json:"footerHtml"`
	Styles      string `json:"styles"`
}

type createSenderRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
	Title string `json:"title"`
}

func (s *Server) listTemplates(c *gin.Context) {
	templates, err := s.store.ListTemplates(c.Request.Context())
	if err != nil {
		s.failWith(c, err, templateNotFound)
		return
	}
	respond(c, http.StatusOK, gin.H{"templates": templates})
}

func (s *Server) getTemplate(c *gin.Context) {
	t, err := s.store.GetTemplate(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.failWith(c, err, templateNotFound)
		return
	}
	respond(c, http.StatusOK, gin.H{"template": t})
}

func (s *Server) createTemplate(c *gin.Context) {
	var req createTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if strings.TrimSpace(req.Name) == "" || strings.TrimSpace(req.Code) == "" {
		fail(c, http.StatusBadRequest, "Name and code are required")
		return
	}

	t := &store.Template{
		Name:        req.Name,
		Description: req.Description,
		Code:        req.Code,
		HeaderHTML:  req.HeaderHTML,
		FooterHTML:  req.FooterHTML,
		Styles:      req.Styles,
	}
	if err := s.store.CreateTemplate(c.Request.Context(), t); err != nil {
		s.failWith(c, err, templateNotFound)
		return
	}
	respond(c, http.StatusCreated, gin.H{"template": t})
}

func (s *Server) updateTemplate(c *gin.Context) {
	var patch store.TemplatePatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		fail(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	t, err := s.store.UpdateTemplate(c.Request.Context(), c.Param("id"), patch)
	if err != nil {
		s.failWith(c, err, templateNotFound)
		return
	}
	respond(c, http.StatusOK, gin.H{"template": t})
}

func (s *Server) listSenders(c *gin.Context) {
	senders, err := s.store.ListSenders(c.Request.Context())
	if err != nil {
		s.failWith(c, err, senderNotFound)
		return
	}
	respond(c, http.StatusOK, gin.H{"senders": senders})
}

func (s *Server) getSender(c *gin.Context) {
	snd, err := s.store.GetSender(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.failWith(c, err, senderNotFound)
		return
	}
	respond(c, http.StatusOK, gin.H{"sender": snd})
}

func (s *Server) createSender(c *gin.Context) {
	var req createSenderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		fail(c, http.StatusBadRequest, "Name is required")
		return
	}

	snd := &store.Sender{Name: req.Name, Email: req.Email, Phone: req.Phone, Title: req.Title}
	if err := s.store.CreateSender(c.Request.Context(), snd); err != nil {
		s.failWith(c, err, senderNotFound)
		return
	}
	respond(c, http.StatusCreated, gin.H{"sender": snd})
}

func (s *Server) updateSender(c *gin.Context) {
	var patch store.SenderPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		fail(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	snd, err := s.store.UpdateSender(c.Request.Context(), c.Param("id"), patch)
	if err != nil {
		s.failWith(c, err, senderNotFound)
		return
	}
	respond(c, http.StatusOK, gin.H{"sender": snd})
}
