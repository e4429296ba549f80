package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"signally/internal/identity"
)

type stubVerifier struct {
	claims *identity.Claims
	err    error
	calls  int
}

func (v *stubVerifier) Verify(ctx context.Context, token string) (*identity.Claims, error) {
	v.calls++
	if v.err != nil {
		return nil, v.err
	}
	return v.claims, nil
}

func authedEngine(v identity.Verifier, invoked *bool) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/guarded", WithAuth(v), func(c *gin.Context) {
		*invoked = true
		Ok(c, gin.H{"ok": true}, nil)
	})
	return r
}

func TestWithAuthMissingToken(t *testing.T) {
	var invoked bool
	r := authedEngine(&stubVerifier{}, &invoked)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/guarded", strings.NewReader(`{}`))
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
	if invoked {
		t.Fatalf("handler must not run without a token")
	}
	if !strings.Contains(w.Body.String(), "missing token") {
		t.Fatalf("body = %s", w.Body.String())
	}
}

func TestWithAuthInvalidToken(t *testing.T) {
	var invoked bool
	v := &stubVerifier{err: identity.ErrInvalidToken}
	r := authedEngine(v, &invoked)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/guarded?token=bogus", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
	if invoked {
		t.Fatalf("handler must not run on a bad token")
	}
	if !strings.Contains(w.Body.String(), "invalid token") {
		t.Fatalf("body = %s", w.Body.String())
	}
}

func TestWithAuthTokenFromQuery(t *testing.T) {
	var invoked bool
	v := &stubVerifier{claims: &identity.Claims{SubjectID: "u1", Email: "a@b.com"}}
	gin.SetMode(gin.TestMode)
	r := gin.New()
	var gotSubject, gotEmail string
	r.POST("/guarded", WithAuth(v), func(c *gin.Context) {
		invoked = true
		gotSubject = c.GetString(CtxSubjectID)
		gotEmail = c.GetString(CtxEmail)
		Ok(c, nil, nil)
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/guarded?token=abc", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK || !invoked {
		t.Fatalf("status = %d invoked = %v", w.Code, invoked)
	}
	if gotSubject != "u1" || gotEmail != "a@b.com" {
		t.Fatalf("context identity = %q %q", gotSubject, gotEmail)
	}
}

func TestWithAuthTokenFromBodyStillBindable(t *testing.T) {
	var invoked bool
	v := &stubVerifier{claims: &identity.Claims{SubjectID: "u1"}}
	gin.SetMode(gin.TestMode)
	r := gin.New()
	var bound struct {
		Token string `json:"token"`
		Name  string `json:"name"`
	}
	r.POST("/guarded", WithAuth(v), func(c *gin.Context) {
		invoked = true
		if err := c.ShouldBindJSON(&bound); err != nil {
			t.Fatalf("body should be restored for binding: %v", err)
		}
		Ok(c, nil, nil)
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/guarded", strings.NewReader(`{"token":"abc","name":"x"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	if !invoked {
		t.Fatalf("handler did not run: %d %s", w.Code, w.Body.String())
	}
	if bound.Token != "abc" || bound.Name != "x" {
		t.Fatalf("bound = %+v", bound)
	}
}

func flagEngine(invoked *bool, value *bool) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/flagged", RequireBoolFlag("live_mode"), func(c *gin.Context) {
		*invoked = true
		*value = c.GetBool("live_mode")
		Ok(c, nil, nil)
	})
	return r
}

func TestRequireBoolFlagCoercion(t *testing.T) {
	tests := []struct {
		name       string
		url        string
		body       string
		wantStatus int
		wantValue  bool
	}{
		{"query string true", "/flagged?live_mode=true", "", http.StatusOK, true},
		{"query string false", "/flagged?live_mode=false", "", http.StatusOK, false},
		{"body bool true", "/flagged", `{"live_mode":true}`, http.StatusOK, true},
		{"body string false", "/flagged", `{"live_mode":"false"}`, http.StatusOK, false},
		{"missing", "/flagged", `{}`, http.StatusBadRequest, false},
		{"out of set", "/flagged", `{"live_mode":"yes"}`, http.StatusBadRequest, false},
		{"numeric", "/flagged", `{"live_mode":1}`, http.StatusBadRequest, false},
	}
	for _, tt := range tests {
		var invoked, value bool
		r := flagEngine(&invoked, &value)
		w := httptest.NewRecorder()
		var req *http.Request
		if tt.body != "" {
			req = httptest.NewRequest(http.MethodPost, tt.url, strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")
		} else {
			req = httptest.NewRequest(http.MethodPost, tt.url, nil)
		}
		r.ServeHTTP(w, req)

		if w.Code != tt.wantStatus {
			t.Fatalf("%s: status = %d, want %d (%s)", tt.name, w.Code, tt.wantStatus, w.Body.String())
		}
		if tt.wantStatus == http.StatusOK {
			if !invoked {
				t.Fatalf("%s: handler not invoked", tt.name)
			}
			if value != tt.wantValue {
				t.Fatalf("%s: value = %v, want %v", tt.name, value, tt.wantValue)
			}
		} else if invoked {
			t.Fatalf("%s: handler must not run", tt.name)
		}
	}
}
