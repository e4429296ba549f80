// Package notify carries push notifications: the client-half dispatcher that
// calls the fan-out endpoint after a successful write, and the server-half
// gateway sender plus device-token registry behind that endpoint.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Dispatcher is what the mutation pipeline needs: best-effort delivery of one
// notification carrying the caller's identity token.
type Dispatcher interface {
	Dispatch(ctx context.Context, title, body, token string) error
}

// Client posts to the notification fan-out endpoint. Failures are for the
// caller to log, never to retry: dispatch is an at-most-once side effect.
type Client struct {
	EndpointURL string
	HTTP        *http.Client
	Timeout     time.Duration
}

type dispatchRequest struct {
	Title string `json:"title"`
	Body  string `json:"body"`
	Token string `json:"token"`
}

func (c *Client) Dispatch(ctx context.Context, title, body, token string) error {
	endpoint := strings.TrimSpace(c.EndpointURL)
	if endpoint == "" {
		return errors.New("notify: endpoint url is empty")
	}
	timeout := c.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	payload, err := json.Marshal(dispatchRequest{Title: title, Body: body, Token: token})
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient().Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
		return fmt.Errorf("notify: dispatch http %d: %s", resp.StatusCode, strings.TrimSpace(string(b)))
	}
	return nil
}

func (c *Client) httpClient() *http.Client {
	if c.HTTP != nil {
		return c.HTTP
	}
	return http.DefaultClient
}

// Sender delivers one message to one device through the push gateway.
type Sender interface {
	Send(ctx context.Context, deviceToken, title, body string) error
}

// GatewaySender is the HTTP push-gateway client used by the fan-out handler.
type GatewaySender struct {
	GatewayURL string
	HTTP       *http.Client
}

type gatewayMessage struct {
	To    string `json:"to"`
	Title string `json:"title"`
	Body  string `json:"body"`
}

func (g *GatewaySender) Send(ctx context.Context, deviceToken, title, body string) error {
	endpoint := strings.TrimSpace(g.GatewayURL)
	if endpoint == "" {
		return errors.New("notify: gateway url is empty")
	}
	payload, err := json.Marshal(gatewayMessage{To: deviceToken, Title: title, Body: body})
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	client := g.HTTP
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("notify: gateway http %d", resp.StatusCode)
	}
	return nil
}
