// Package client talks to the carwash REST API on behalf of the booking CLI.
package client

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

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"carwash-backend/config"
	"carwash-backend/internal/api/dto"
)

// ErrNotFound is matched by any *APIError carrying a 404.
var ErrNotFound = errors.New("not found")

// APIError is a non-2xx answer from the server.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api returned status %d", e.StatusCode)
	}
	return fmt.Sprintf("api returned status %d: %s", e.StatusCode, e.Message)
}

func (e *APIError) Is(target error) bool {
	return target == ErrNotFound && e.StatusCode == http.StatusNotFound
}

// Client is a rate-limited JSON client for the /api routes.
type Client struct {
	baseURL *url.URL
	http    *http.Client
	limiter *rate.Limiter
	log     *zap.Logger
}

// New builds a client from configuration. An invalid proxy is logged and ignored.
func New(cfg config.ClientConfig, log *zap.Logger) (*Client, error) {
	base, err := url.Parse(strings.TrimRight(cfg.BaseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid base url %q: %w", cfg.BaseURL, err)
	}

	transport := http.DefaultTransport.(*http.Transport).Clone()
	if cfg.HTTPProxy != "" {
		proxyURL, err := url.Parse(cfg.HTTPProxy)
		if err != nil {
			log.Warn("invalid proxy url, client will not use a proxy", zap.String("proxy", cfg.HTTPProxy), zap.Error(err))
		} else {
			transport.Proxy = http.ProxyURL(proxyURL)
		}
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	limit := rate.Limit(cfg.RequestsPerSec)
	if cfg.RequestsPerSec <= 0 {
		limit = rate.Inf
	}

	return &Client{
		baseURL: base,
		http:    &http.Client{Transport: transport, Timeout: timeout},
		limiter: rate.NewLimiter(limit, 1),
		log:     log,
	}, nil
}

func (c *Client) ListOutlets(ctx context.Context) ([]dto.Outlet, error) {
	var out []dto.Outlet
	err := c.do(ctx, http.MethodGet, "/api/outlets", nil, nil, &out)
	return out, err
}

func (c *Client) GetOutlet(ctx context.Context, id string) (*dto.Outlet, error) {
	var out dto.Outlet
	if err := c.do(ctx, http.MethodGet, "/api/outlets/"+url.PathEscape(id), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ListVehicles(ctx context.Context, ownerID string) ([]dto.Vehicle, error) {
	var out []dto.Vehicle
	err := c.do(ctx, http.MethodGet, "/api/vehicles", url.Values{"owner_id": {ownerID}}, nil, &out)
	return out, err
}

func (c *Client) CreateVehicle(ctx context.Context, req dto.CreateVehicleRequest) (*dto.Vehicle, error) {
	var out dto.Vehicle
	if err := c.do(ctx, http.MethodPost, "/api/vehicles", nil, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CreateWashRequest(ctx context.Context, req dto.CreateWashRequest) (*dto.WashRequest, error) {
	var out dto.WashRequest
	if err := c.do(ctx, http.MethodPost, "/api/wash-requests", nil, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ListWashRequests(ctx context.Context, ownerID string) ([]dto.WashRequest, error) {
	var out []dto.WashRequest
	err := c.do(ctx, http.MethodGet, "/api/wash-requests", url.Values{"owner_id": {ownerID}}, nil, &out)
	return out, err
}

func (c *Client) GetWashRequest(ctx context.Context, id string) (*dto.WashRequest, error) {
	var out dto.WashRequest
	if err := c.do(ctx, http.MethodGet, "/api/wash-requests/"+url.PathEscape(id), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CancelWashRequest(ctx context.Context, id string) (*dto.WashRequest, error) {
	var out dto.WashRequest
	if err := c.do(ctx, http.MethodPost, "/api/wash-requests/"+url.PathEscape(id)+"/cancel", nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// do sends one request and decodes a JSON answer into out (if non-nil).
func (c *Client) do(ctx context.Context, method, path string, query url.Values, in, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter: %w", err)
	}

	u := *c.baseURL
	u.Path = c.baseURL.Path + path
	if query != nil {
		u.RawQuery = query.Encode()
	}

	var body io.Reader
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to marshal request payload: %w", err)
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("http request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}
	c.log.Debug("api call", zap.String("method", method), zap.String("path", path), zap.Int("status", resp.StatusCode))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		var e dto.ErrorResponse
		if json.Unmarshal(raw, &e) == nil {
			apiErr.Message = e.Error
		}
		return apiErr
	}

	if out == nil || len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("failed to unmarshal api response: %w", err)
	}
	return nil
}
