package httpclient

import (
	"bytes"
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

const (
	DefaultTimeout = 10 * time.Second

	// maxBody acota lo que se lee de una respuesta.
	maxBody = 1 << 20
)

// Client envuelve *http.Client para hablar JSON con un `moltmon web`.
type Client struct {
	HTTP      *http.Client
	BaseURL   string
	UserAgent string
}

// New crea un Client contra baseURL (absoluta).
func New(baseURL string, timeout time.Duration) (*Client, error) {
	return NewWithTransport(baseURL, timeout, nil)
}

// NewWithTransport permite inyectar un Transport (p.ej. para tests).
func NewWithTransport(baseURL string, timeout time.Duration, tr http.RoundTripper) (*Client, error) {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if tr == nil {
		tr = http.DefaultTransport
	}

	baseURL = strings.TrimSpace(baseURL)
	u, err := url.ParseRequestURI(baseURL)
	if err != nil || u.Host == "" {
		return nil, fmt.Errorf("invalid base url %q", baseURL)
	}

	return &Client{
		HTTP: &http.Client{
			Timeout:   timeout,
			Transport: tr,
		},
		BaseURL:   strings.TrimRight(baseURL, "/"),
		UserAgent: "moltmon-cli",
	}, nil
}

// HTTPError representa una respuesta no-2xx. Body es el texto que
// http.Error mandó, sin el salto de línea final.
type HTTPError struct {
	StatusCode int
	Body       string
}

func (e *HTTPError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("http error: status=%d", e.StatusCode)
	}
	return fmt.Sprintf("http error: status=%d body=%s", e.StatusCode, e.Body)
}

// DoJSON hace un request JSON contra BaseURL+path.
// in nil = sin body. out nil = se ignora la respuesta.
// Un status fuera de 2xx vuelve como *HTTPError.
func (c *Client) DoJSON(ctx context.Context, method, path string, in, out any) error {
	if c == nil || c.HTTP == nil {
		return errors.New("httpclient: nil client")
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}

	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("httpclient: marshal json: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, body)
	if err != nil {
		return fmt.Errorf("httpclient: new request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.UserAgent != "" {
		req.Header.Set("User-Agent", c.UserAgent)
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return fmt.Errorf("httpclient: do request: %w", err)
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxBody))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &HTTPError{
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(raw)),
		}
	}

	if out == nil || len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("httpclient: unmarshal json: %w", err)
	}
	return nil
}
