package notify

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestClientDispatchPostsPayload(t *testing.T) {
	var got dispatchRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Fatalf("method = %s", r.Method)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Fatalf("content-type = %s", ct)
		}
		body, _ := io.ReadAll(r.Body)
		if err := json.Unmarshal(body, &got); err != nil {
			t.Fatalf("bad payload: %v", err)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := &Client{EndpointURL: srv.URL}
	if err := c.Dispatch(context.Background(), "Signal", "New signal added", "abc"); err != nil {
		t.Fatalf("dispatch: %v", err)
	}
	if got.Title != "Signal" || got.Body != "New signal added" || got.Token != "abc" {
		t.Fatalf("payload = %+v", got)
	}
}

func TestClientDispatchReportsHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusBadGateway)
	}))
	defer srv.Close()

	c := &Client{EndpointURL: srv.URL}
	if err := c.Dispatch(context.Background(), "t", "b", "tok"); err == nil {
		t.Fatalf("expected error on non-2xx response")
	}
}

func TestClientDispatchEmptyEndpoint(t *testing.T) {
	c := &Client{}
	if err := c.Dispatch(context.Background(), "t", "b", "tok"); err == nil {
		t.Fatalf("expected error for empty endpoint")
	}
}

func TestGatewaySenderPostsMessage(t *testing.T) {
	var got gatewayMessage
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		if err := json.Unmarshal(body, &got); err != nil {
			t.Fatalf("bad payload: %v", err)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	g := &GatewaySender{GatewayURL: srv.URL}
	if err := g.Send(context.Background(), "device1", "Signal", "New signal added"); err != nil {
		t.Fatalf("send: %v", err)
	}
	if got.To != "device1" || got.Title != "Signal" || got.Body != "New signal added" {
		t.Fatalf("payload = %+v", got)
	}
}

func TestMemoryRegistry(t *testing.T) {
	reg := NewMemoryRegistry()
	ctx := context.Background()

	if err := reg.Register(ctx, "a"); err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := reg.Register(ctx, "b"); err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := reg.Register(ctx, "a"); err != nil {
		t.Fatalf("re-register: %v", err)
	}

	tokens, err := reg.Tokens(ctx)
	if err != nil {
		t.Fatalf("tokens: %v", err)
	}
	if len(tokens) != 2 {
		t.Fatalf("tokens = %v, want 2 distinct", tokens)
	}

	if err := reg.Remove(ctx, "a"); err != nil {
		t.Fatalf("remove: %v", err)
	}
	tokens, _ = reg.Tokens(ctx)
	if len(tokens) != 1 || tokens[0] != "b" {
		t.Fatalf("tokens after remove = %v", tokens)
	}
}
