package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ortam/docbuilder/internal/auth"
	"github.com/ortam/docbuilder/internal/logging"
	"github.com/ortam/docbuilder/internal/store"
)

const (
	statusSuccess = "success"
	statusError   = "error"
)

type envelope struct {
	Status  string `json:"status"`
	Data    any    `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
}

func respond(c *gin.Context, code int, data gin.H) {
	c.JSON(code, envelope{Status: statusSuccess, Data: data})
}

func respondMessage(c *gin.Context, code int, message string) {
	c.JSON(code, envelope{Status: statusSuccess, Message: message})
}

func fail(c *gin.Context, code int, message string) {
	c.AbortWithStatusJSON(code, envelope{Status: statusError, Message: message})
}

// httpError carries a status and a client-facing message.
type httpError struct {
	code    int
	message string
}

func (e *httpError) Error() string { return e.message }

func forbidden(msg string) error { return &httpError{http.StatusForbidden, msg} }

// failWith maps err to a response. Unexpected errors are logged and hidden
// behind a generic 500.
func (s *Server) failWith(c *gin.Context, err error, notFoundMsg string) {
	var he *httpError
	switch {
	case errors.As(err, &he):
		fail(c, he.code, he.message)
	case errors.Is(err, store.ErrNotFound):
		fail(c, http.StatusNotFound, notFoundMsg)
	case errors.Is(err, store.ErrAlreadyExists):
		fail(c, http.StatusConflict, "Resource already exists")
	case errors.Is(err, auth.ErrInvalidCredentials):
		fail(c, http.StatusUnauthorized, "Invalid credentials")
	default:
		s.logger.Error("Request failed",
			logging.String("method", c.Request.Method),
			logging.String("path", c.FullPath()),
			logging.Err(err),
		)
		fail(c, http.StatusInternalServerError, "Internal server error")
	}
}
