package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"signally/internal/identity"
)

func TestCredentialsMatch(t *testing.T) {
	tests := []struct {
		email, password string
		want            bool
	}{
		{"admin@example.com", "hunter2", true},
		{"admin@example.com", "wrong", false},
		{"other@example.com", "hunter2", false},
		{"", "", false},
	}
	for _, tt := range tests {
		got := credentialsMatch(tt.email, tt.password, "admin@example.com", "hunter2")
		if got != tt.want {
			t.Fatalf("credentialsMatch(%q, %q) = %v, want %v", tt.email, tt.password, got, tt.want)
		}
	}
}

func TestCredentialsMatchRefusesEmptyConfig(t *testing.T) {
	if credentialsMatch("", "", "", "") {
		t.Fatalf("empty configured credentials must never match")
	}
}

func TestLoginIssuesVerifiableToken(t *testing.T) {
	provider := identity.NewJWT("secret", time.Hour)
	h := &AuthHandler{Session: provider, AdminEmail: "admin@example.com", AdminPassword: "hunter2"}

	gin.SetMode(gin.TestMode)
	r := gin.New()
	h.Register(r)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login",
		strings.NewReader(`{"email":"admin@example.com","password":"hunter2"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", w.Code, w.Body.String())
	}
	var resp struct {
		Data struct {
			Token string `json:"token"`
		} `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	claims, err := provider.Verify(req.Context(), resp.Data.Token)
	if err != nil {
		t.Fatalf("issued token does not verify: %v", err)
	}
	if claims.Email != "admin@example.com" {
		t.Fatalf("claims = %+v", claims)
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	provider := identity.NewJWT("secret", time.Hour)
	h := &AuthHandler{Session: provider, AdminEmail: "admin@example.com", AdminPassword: "hunter2"}

	gin.SetMode(gin.TestMode)
	r := gin.New()
	h.Register(r)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login",
		strings.NewReader(`{"email":"admin@example.com","password":"nope"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", w.Code)
	}
	if provider.Current() != nil {
		t.Fatalf("failed login must not establish an identity")
	}
}

func TestLogoutClearsIdentity(t *testing.T) {
	provider := identity.NewJWT("secret", time.Hour)
	provider.SetIdentity(&identity.Identity{SubjectID: "admin"})
	h := &AuthHandler{Session: provider, AdminEmail: "a", AdminPassword: "b"}

	gin.SetMode(gin.TestMode)
	r := gin.New()
	h.Register(r)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/auth/logout", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if provider.Current() != nil {
		t.Fatalf("logout must clear the identity")
	}
}
