package server

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ortam/docbuilder/internal/logging"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type userResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"createdAt,omitzero"`
}

func (s *Server) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	req.Email = strings.TrimSpace(req.Email)
	if req.Email == "" || req.Password == "" {
		fail(c, http.StatusBadRequest, "Email and password required")
		return
	}

	token, u, err := s.auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		s.logger.Warn("Login attempt failed", logging.String("email", req.Email))
		s.failWith(c, err, "Invalid credentials")
		return
	}

	respond(c, http.StatusOK, gin.H{
		"token": token,
		"user": userResponse{
			ID:    u.ID,
			Email: u.Email,
			Name:  u.Name,
			Role:  string(u.Role),
		},
	})
}

func (s *Server) me(c *gin.Context) {
	claims, _ := claimsFrom(c)
	u, err := s.store.GetUserByID(c.Request.Context(), claims.ID)
	if err != nil {
		s.failWith(c, err, "User not found")
		return
	}

	respond(c, http.StatusOK, gin.H{
		"user": userResponse{
			ID:        u.ID,
			Email:     u.Email,
			Name:      u.Name,
			Role:      string(u.Role),
			CreatedAt: u.CreatedAt,
		},
	})
}
