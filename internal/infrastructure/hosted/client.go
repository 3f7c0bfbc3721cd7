// Package hosted talks to the hosted backend: a password auth API and a
// PostgREST-style table API sharing one base URL and project key.
package hosted

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

	"github.com/rs/zerolog"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/listasy/grocery-api/internal/core/domain"
)

const defaultTimeout = 10 * time.Second

// Config captures the settings for reaching the hosted backend.
type Config struct {
	BaseURL string
	AnonKey string
	Timeout time.Duration
	// Transport overrides the base round tripper wrapped by tracing.
	Transport http.RoundTripper
}

// Client performs authenticated JSON requests against the hosted backend.
type Client struct {
	base    *url.URL
	anonKey string
	http    *http.Client
	log     zerolog.Logger
}

// NewClient validates cfg and builds a traced client.
func NewClient(cfg Config, log zerolog.Logger) (*Client, error) {
	if cfg.BaseURL == "" || cfg.AnonKey == "" {
		return nil, errors.New("hosted backend url and key are required")
	}
	base, err := url.Parse(strings.TrimRight(cfg.BaseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse hosted url: %w", err)
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	transport := cfg.Transport
	if transport == nil {
		transport = http.DefaultTransport
	}
	return &Client{
		base:    base,
		anonKey: cfg.AnonKey,
		http: &http.Client{
			Timeout: timeout,
			Transport: otelhttp.NewTransport(transport,
				otelhttp.WithSpanNameFormatter(func(_ string, r *http.Request) string {
					return "hosted " + r.Method + " " + r.URL.Path
				}),
			),
		},
		log: log.With().Str("component", "hosted").Logger(),
	}, nil
}

type request struct {
	method  string
	path    string
	query   url.Values
	token   string
	body    any
	headers map[string]string
}

// do sends req and decodes a JSON response into out when out is non-nil.
func (c *Client) do(ctx context.Context, req request, out any) error {
	u := *c.base
	u.Path += req.path
	if len(req.query) > 0 {
		u.RawQuery = req.query.Encode()
	}

	var body io.Reader
	if req.body != nil {
		buf, err := json.Marshal(req.body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(buf)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.method, u.String(), body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	token := req.token
	if token == "" {
		token = c.anonKey
	}
	httpReq.Header.Set("apikey", c.anonKey)
	httpReq.Header.Set("Authorization", "Bearer "+token)
	httpReq.Header.Set("Accept", "application/json")
	if body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	for k, v := range req.headers {
		httpReq.Header.Set(k, v)
	}

	start := time.Now()
	resp, err := c.http.Do(httpReq)
	if err != nil {
		return fmt.Errorf("%w: %s %s: %v", domain.ErrBackend, req.method, req.path, err)
	}
	defer resp.Body.Close()

	c.log.Debug().
		Str("method", req.method).
		Str("path", req.path).
		Int("status", resp.StatusCode).
		Dur("elapsed", time.Since(start)).
		Msg("hosted request")

	if resp.StatusCode >= http.StatusBadRequest {
		return decodeAPIError(resp)
	}
	if out == nil || resp.StatusCode == http.StatusNoContent {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decode %s response: %v", domain.ErrBackend, req.path, err)
	}
	return nil
}

// APIError is an error reported by the hosted backend.
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("backend request failed with status %d", e.Status)
}

// Unwrap maps the backend error to the closest domain sentinel.
func (e *APIError) Unwrap() error {
	switch e.Code {
	case "invalid_grant", "invalid_credentials":
		return domain.ErrInvalidCredentials
	case "user_already_exists", "email_exists":
		return domain.ErrUserExists
	case "42501":
		return domain.ErrForbidden
	case "23505":
		return domain.ErrInvalidInput
	}
	switch e.Status {
	case http.StatusUnauthorized:
		return domain.ErrUnauthenticated
	case http.StatusForbidden:
		return domain.ErrForbidden
	case http.StatusUnprocessableEntity:
		if strings.Contains(strings.ToLower(e.Message), "already registered") {
			return domain.ErrUserExists
		}
	}
	return domain.ErrBackend
}

type errorBody struct {
	Code             any    `json:"code"`
	ErrorCode        string `json:"error_code"`
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
	Msg              string `json:"msg"`
	Message          string `json:"message"`
}

func decodeAPIError(resp *http.Response) error {
	apiErr := &APIError{Status: resp.StatusCode}
	var body errorBody
	if err := json.NewDecoder(io.LimitReader(resp.Body, 64<<10)).Decode(&body); err != nil {
		return apiErr
	}
	apiErr.Code = firstNonEmpty(body.ErrorCode, codeString(body.Code), body.Error)
	apiErr.Message = firstNonEmpty(body.Message, body.Msg, body.ErrorDescription)
	return apiErr
}

// codeString renders the code field, which is a string for the table API
// and an HTTP status number for the auth API.
func codeString(v any) string {
	s, _ := v.(string)
	return s
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// Ping checks that the auth API answers its health endpoint.
func (c *Client) Ping(ctx context.Context) error {
	return c.do(ctx, request{method: http.MethodGet, path: "/auth/v1/health"}, nil)
}
