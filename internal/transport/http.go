package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/wizzomafizzo/beakersync/internal/constants"
	"github.com/wizzomafizzo/beakersync/internal/settings"
)

// maxErrorBody bounds how much of an error response is kept in StatusError.
const maxErrorBody = 4096

// HTTP talks to a notebook server's /beakerx/settings endpoint.
type HTTP struct {
	client   *http.Client
	endpoint string
	token    string
}

// HTTPOption configures an HTTP transport.
type HTTPOption func(*HTTP)

// WithToken sends a Jupyter API token with every request.
func WithToken(token string) HTTPOption {
	return func(h *HTTP) { h.token = token }
}

// WithTimeout bounds each request. Zero leaves requests unbounded.
func WithTimeout(timeout time.Duration) HTTPOption {
	return func(h *HTTP) { h.client.Timeout = timeout }
}

// WithHTTPClient replaces the underlying client.
func WithHTTPClient(client *http.Client) HTTPOption {
	return func(h *HTTP) { h.client = client }
}

// NewHTTP creates a transport for the notebook server at baseURL.
func NewHTTP(baseURL string, opts ...HTTPOption) (*HTTP, error) {
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base url %q: %w", baseURL, err)
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return nil, fmt.Errorf("invalid base url %q: scheme and host are required", baseURL)
	}

	h := &HTTP{
		client:   &http.Client{},
		endpoint: strings.TrimSuffix(parsed.String(), "/") + constants.SettingsPath,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h, nil
}

// Endpoint returns the full settings URL.
func (h *HTTP) Endpoint() string {
	return h.endpoint
}

// LoadSettings fetches the current record.
func (h *HTTP) LoadSettings(ctx context.Context) (*settings.Record, error) {
	req, err := h.newRequest(ctx, http.MethodGet, nil)
	if err != nil {
		return nil, err
	}

	body, err := h.do(ctx, req)
	if err != nil {
		return nil, err
	}

	var record settings.Record
	if err := json.Unmarshal(body, &record); err != nil {
		return nil, fmt.Errorf("failed to decode settings response: %w", err)
	}
	return &record, nil
}

// SaveSettings posts the wrapped record.
func (h *HTTP) SaveSettings(ctx context.Context, payload settings.Envelope) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode settings payload: %w", err)
	}

	req, err := h.newRequest(ctx, http.MethodPost, bytes.NewReader(data))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	_, err = h.do(ctx, req)
	return err
}

func (h *HTTP) newRequest(ctx context.Context, method string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, h.endpoint, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create %s request: %w", method, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set(constants.RequestIDHeader, uuid.New().String())
	if h.token != "" {
		req.Header.Set("Authorization", constants.TokenScheme+" "+h.token)
	}
	return req, nil
}

func (h *HTTP) do(ctx context.Context, req *http.Request) ([]byte, error) {
	logger := zerolog.Ctx(ctx).With().
		Str("method", req.Method).
		Str("url", h.endpoint).
		Str("request_id", req.Header.Get(constants.RequestIDHeader)).
		Logger()

	start := time.Now()
	resp, err := h.client.Do(req)
	if err != nil {
		logger.Error().Err(err).Msg("settings request failed")
		return nil, fmt.Errorf("settings request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read settings response: %w", err)
	}

	logger.Debug().
		Int("status", resp.StatusCode).
		Dur("elapsed", time.Since(start)).
		Msg("settings request completed")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		if len(body) > maxErrorBody {
			body = body[:maxErrorBody]
		}
		return nil, &StatusError{Code: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}

	return body, nil
}
