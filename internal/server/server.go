// Package server exposes documents, templates and senders over a JSON HTTP
// API built on gin.
//
// Every /api response uses the envelope {"status":"success","data":{...}}
// or {"status":"error","message":"..."}.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ortam/docbuilder"
	"github.com/ortam/docbuilder/internal/auth"
	"github.com/ortam/docbuilder/internal/logging"
	"github.com/ortam/docbuilder/internal/store"
)

// Server limits.
const (
	MaxBodyBytes           = 10 << 20 // 10 MB, edited bodies can be large
	DefaultShutdownTimeout = 10 * time.Second
	readHeaderTimeout      = 10 * time.Second
)

// ContentGenerator produces the HTML body of a document.
type ContentGenerator interface {
	Generate(ctx context.Context, meta docbuilder.Metadata) (string, error)
}

// DocumentRenderer prints a document to PDF.
type DocumentRenderer interface {
	Render(ctx context.Context, doc docbuilder.RenderableDocument) ([]byte, error)
}

// Config holds HTTP-level settings.
type Config struct {
	CORSOrigins     []string
	ShutdownTimeout time.Duration
}

// Deps are the collaborators the handlers call.
type Deps struct {
	Store     *store.Store
	Auth      *auth.Service
	Generator ContentGenerator
	Renderer  DocumentRenderer
	Logger    logging.Logger
}

// Server is the HTTP API.
type Server struct {
	cfg       Config
	store     *store.Store
	auth      *auth.Service
	generator ContentGenerator
	renderer  DocumentRenderer
	logger    logging.Logger
	engine    *gin.Engine
	now       func() time.Time
}

// New builds the server and registers all routes.
func New(cfg Config, deps Deps) *Server {
	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = DefaultShutdownTimeout
	}
	logger := deps.Logger
	if logger == nil {
		logger = logging.NewNop()
	}

	s := &Server{
		cfg:       cfg,
		store:     deps.Store,
		auth:      deps.Auth,
		generator: deps.Generator,
		renderer:  deps.Renderer,
		logger:    logger,
		now:       time.Now,
	}
	s.engine = s.routes()
	return s
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.engine
}

func (s *Server) routes() *gin.Engine {
	r := gin.New()
	r.Use(
		s.recovery(),
		requestLogger(s.logger),
		metricsMiddleware(),
		corsMiddleware(s.cfg.CORSOrigins),
		bodyLimit(MaxBodyBytes),
	)

	r.GET("/health", s.health)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api")

	authGroup := api.Group("/auth")
	authGroup.POST("/login", s.login)
	authGroup.GET("/me", s.authenticate(), s.me)

	docs := api.Group("/docs", s.authenticate())
	docs.GET("", s.listDocuments)
	docs.POST("", s.createDocument)
	docs.GET("/:id", s.getDocument)
	docs.PUT("/:id", s.updateDocument)
	docs.POST("/:id/generate", s.generateDocument)
	docs.POST("/:id/export/pdf", s.exportPDF)
	docs.DELETE("/:id", requireAdmin(), s.deleteDocument)

	templates := api.Group("/templates", s.authenticate())
	templates.GET("", s.listTemplates)
	templates.GET("/:id", s.getTemplate)
	templates.POST("", requireAdmin(), s.createTemplate)
	templates.PUT("/:id", requireAdmin(), s.updateTemplate)

	senders := api.Group("/senders", s.authenticate())
	senders.GET("", s.listSenders)
	senders.GET("/:id", s.getSender)
	senders.POST("", requireAdmin(), s.createSender)
	senders.PUT("/:id", requireAdmin(), s.updateSender)

	r.NoRoute(func(c *gin.Context) {
		fail(c, http.StatusNotFound, "Route not found")
	})
	return r
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"timestamp": s.now().UTC().Format(time.RFC3339),
	})
}

// Run serves on addr until ctx is canceled, then shuts down gracefully
// within the configured timeout.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.engine,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("HTTP server listening", logging.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("listen on %s: %w", addr, err)
		}
		return nil
	case <-ctx.Done():
	}

	s.logger.Info("Shutting down HTTP server", logging.Duration("timeout", s.cfg.ShutdownTimeout))
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
