package handler

import (
	"crypto/sha256"
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"signally/internal/identity"
)

// AuthHandler signs the single admin operator in and out. Credentials are
// compared in constant time against the configured pair.
type AuthHandler struct {
	Session       *identity.JWT
	AdminEmail    string
	AdminPassword string
}

func (h *AuthHandler) Register(r *gin.Engine) {
	group := r.Group("/api/auth")
	group.POST("/login", h.login)
	group.POST("/logout", h.logout)
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *AuthHandler) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Error(c, http.StatusBadRequest, "invalid body", nil)
		return
	}
	email := strings.TrimSpace(req.Email)
	if !credentialsMatch(email, req.Password, h.AdminEmail, h.AdminPassword) {
		Error(c, http.StatusUnauthorized, "invalid credentials", nil)
		return
	}

	h.Session.SetIdentity(&identity.Identity{SubjectID: "admin", Email: email})
	token, err := h.Session.FreshToken(c.Request.Context(), true)
	if err != nil {
		Error(c, http.StatusInternalServerError, "token mint failed", nil)
		return
	}
	Ok(c, gin.H{"token": token}, nil)
}

func (h *AuthHandler) logout(c *gin.Context) {
	h.Session.SetIdentity(nil)
	Ok(c, gin.H{"success": true}, nil)
}

func credentialsMatch(email, password, wantEmail, wantPassword string) bool {
	if wantEmail == "" || wantPassword == "" {
		return false
	}
	// Hash both sides so length differences leak nothing.
	e1, e2 := sha256.Sum256([]byte(email)), sha256.Sum256([]byte(wantEmail))
	p1, p2 := sha256.Sum256([]byte(password)), sha256.Sum256([]byte(wantPassword))
	return subtle.ConstantTimeCompare(e1[:], e2[:]) == 1 &&
		subtle.ConstantTimeCompare(p1[:], p2[:]) == 1
}
