package handler

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"signally/internal/identity"
)

// Context keys set by the guards for downstream handlers.
const (
	CtxSubjectID = "subjectId"
	CtxEmail     = "email"
)

// WithAuth guards privileged routes: the identity token is taken from the
// `token` query parameter or JSON body field, verified, and the resulting
// subject id and email are attached to the request context. Missing or
// unverifiable tokens abort with 400 before the wrapped handler runs.
func WithAuth(verifier identity.Verifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := strings.TrimSpace(c.Query("token"))
		if token == "" {
			if s, ok := bodyField(c, "token").(string); ok {
				token = strings.TrimSpace(s)
			}
		}
		if token == "" {
			Error(c, http.StatusBadRequest, "missing token", nil)
			c.Abort()
			return
		}
		claims, err := verifier.Verify(c.Request.Context(), token)
		if err != nil {
			Error(c, http.StatusBadRequest, "invalid token", nil)
			c.Abort()
			return
		}
		c.Set(CtxSubjectID, claims.SubjectID)
		c.Set(CtxEmail, claims.Email)
		c.Next()
	}
}

// RequireBoolFlag normalizes a caller-supplied boolean-like flag (query or
// body; real boolean or the strings "true"/"false") into a strict bool on
// the context, rejecting absent or out-of-set values. Composable with
// WithAuth.
func RequireBoolFlag(name string) gin.HandlerFunc {
	return func(c *gin.Context) {
		var raw any
		if q, ok := c.GetQuery(name); ok {
			raw = q
		} else {
			raw = bodyField(c, name)
		}
		if raw == nil {
			Error(c, http.StatusBadRequest, "missing "+name, nil)
			c.Abort()
			return
		}
		value, ok := coerceBool(raw)
		if !ok {
			Error(c, http.StatusBadRequest, "invalid "+name, nil)
			c.Abort()
			return
		}
		c.Set(name, value)
		c.Next()
	}
}

// coerceBool accepts exactly {true, false, "true", "false"}.
func coerceBool(v any) (bool, bool) {
	switch t := v.(type) {
	case bool:
		return t, true
	case string:
		switch t {
		case "true":
			return true, true
		case "false":
			return false, true
		}
	}
	return false, false
}

// bodyField peeks one field out of a JSON body, restoring the body so the
// handler can still bind it.
func bodyField(c *gin.Context, key string) any {
	if c.Request == nil || c.Request.Body == nil {
		return nil
	}
	raw, err := io.ReadAll(io.LimitReader(c.Request.Body, 1<<20))
	if err != nil {
		return nil
	}
	c.Request.Body = io.NopCloser(bytes.NewReader(raw))
	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil
	}
	return m[key]
}
