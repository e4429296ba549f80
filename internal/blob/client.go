// Package blob uploads files to the storage gateway and returns public
// download URLs, used for announcement images.
package blob

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

type Client struct {
	BaseURL string
	Bucket  string
	HTTP    *http.Client
	Timeout time.Duration
}

type uploadResponse struct {
	URL string `json:"url"`
}

// Upload streams the file to the gateway and returns the download URL.
func (c *Client) Upload(ctx context.Context, filename, contentType string, r io.Reader) (string, error) {
	base := strings.TrimRight(strings.TrimSpace(c.BaseURL), "/")
	if base == "" {
		return "", errors.New("blob: base url is empty")
	}
	timeout := c.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	endpoint := fmt.Sprintf("%s/upload?bucket=%s&name=%s",
		base, url.QueryEscape(c.Bucket), url.QueryEscape(filename))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, r)
	if err != nil {
		return "", err
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	client := c.HTTP
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return "", err
	}
	defer func() { _ = resp.Body.Close() }()
	b, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("blob: upload http %d: %s", resp.StatusCode, strings.TrimSpace(string(b)))
	}
	var ur uploadResponse
	if err := json.Unmarshal(b, &ur); err != nil {
		return "", err
	}
	if ur.URL == "" {
		return "", errors.New("blob: gateway returned no url")
	}
	return ur.URL, nil
}
