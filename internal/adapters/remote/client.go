package remote

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"moltmon/internal/domain/care"
	"moltmon/internal/domain/pet"
	"moltmon/internal/platform/httpclient"
)

var (
	ErrNotConfigured = errors.New("remote client not configured")
	ErrUpstream      = errors.New("moltmon server error")
)

// Config del cliente remoto. BaseURL apunta a un `moltmon web`.
type Config struct {
	BaseURL string
	Timeout time.Duration

	// Transport opcional (tests).
	Transport http.RoundTripper
}

// Client habla con la API HTTP de care y devuelve los mismos errores
// centinela que care.Service, así el CLI no distingue local de remoto.
type Client struct {
	http *httpclient.Client
}

func NewClient(cfg Config) (*Client, error) {
	if strings.TrimSpace(cfg.BaseURL) == "" {
		return nil, ErrNotConfigured
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	hc, err := httpclient.NewWithTransport(cfg.BaseURL, timeout, cfg.Transport)
	if err != nil {
		return nil, err
	}
	return &Client{http: hc}, nil
}

func (c *Client) Feed(ctx context.Context) (care.Receipt, error) {
	return c.command(ctx, "/api/feed", nil)
}

func (c *Client) Clean(ctx context.Context) (care.Receipt, error) {
	return c.command(ctx, "/api/clean", nil)
}

func (c *Client) Heal(ctx context.Context) (care.Receipt, error) {
	return c.command(ctx, "/api/heal", nil)
}

func (c *Client) Hatch(ctx context.Context, personality string) (care.Receipt, error) {
	return c.command(ctx, "/api/hatch", map[string]string{"personality": personality})
}

func (c *Client) State(ctx context.Context) (pet.StateData, error) {
	var out pet.StateData
	return out, c.get(ctx, "/api/state", &out)
}

func (c *Client) Status(ctx context.Context) (care.Status, error) {
	var out care.Status
	return out, c.get(ctx, "/api/status", &out)
}

func (c *Client) History(ctx context.Context) (pet.History, error) {
	var out pet.History
	return out, c.get(ctx, "/api/history", &out)
}

func (c *Client) CurrentSummary(ctx context.Context) (pet.Summary, error) {
	var out pet.Summary
	return out, c.get(ctx, "/api/summary", &out)
}

func (c *Client) command(ctx context.Context, path string, body any) (care.Receipt, error) {
	var rec care.Receipt
	if err := c.http.DoJSON(ctx, http.MethodPost, path, body, &rec); err != nil {
		return care.Receipt{}, translate(err)
	}
	return rec, nil
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	if err := c.http.DoJSON(ctx, http.MethodGet, path, nil, out); err != nil {
		return translate(err)
	}
	return nil
}

// known son los errores que el servidor manda tal cual en el cuerpo.
var known = []error{
	care.ErrPetNotFound,
	care.ErrSickCannotFeed,
	care.ErrNotHungry,
	care.ErrNothingToClean,
	care.ErrNotSick,
	care.ErrNotEgg,
	care.ErrInvalidPersonality,
}

// translate convierte la respuesta de error en el centinela de care que
// corresponda, conservando el detalle ("(current state: IDLE)").
func translate(err error) error {
	var he *httpclient.HTTPError
	if !errors.As(err, &he) {
		return fmt.Errorf("%w: %v", ErrUpstream, err)
	}

	switch he.StatusCode {
	case http.StatusNotFound, http.StatusConflict, http.StatusBadRequest:
		for _, k := range known {
			if rest, ok := strings.CutPrefix(he.Body, k.Error()); ok {
				return fmt.Errorf("%w%s", k, rest)
			}
		}
	}
	return fmt.Errorf("%w: status=%d %s", ErrUpstream, he.StatusCode, he.Body)
}
