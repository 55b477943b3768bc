package crmapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/xavierca1/ligue-crm/internal/infra/metrics"
	"github.com/xavierca1/ligue-crm/pkg/logger"
)

// TokenSource yields the bearer token of the current operator session.
// An empty token with a nil error means "no session": the request goes out
// unauthenticated and the backend decides.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// TokenFunc adapts a function to TokenSource.
type TokenFunc func(ctx context.Context) (string, error)

func (f TokenFunc) Token(ctx context.Context) (string, error) { return f(ctx) }

// StaticToken always returns the same token.
type StaticToken string

func (s StaticToken) Token(context.Context) (string, error) { return string(s), nil }

// HTTPDoer is the part of *http.Client the adapter needs.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// HTTPError is returned for any non-2xx answer. It is the only backend
// error kind; bodies are kept for display, never parsed for codes.
type HTTPError struct {
	Method     string
	Path       string
	StatusCode int
	Body       string
}

func (e *HTTPError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("crm api %s %s: status %d", e.Method, e.Path, e.StatusCode)
	}
	return fmt.Sprintf("crm api %s %s: status %d: %s", e.Method, e.Path, e.StatusCode, e.Body)
}

// StatusCode extracts the HTTP status from err, or 0 when err is not an HTTPError.
func StatusCode(err error) int {
	var he *HTTPError
	if errors.As(err, &he) {
		return he.StatusCode
	}
	return 0
}

const maxErrorBody = 4 << 10

// Client is the adaptation layer between the CRM vocabulary used by the
// views and the backend's lead/task REST API.
type Client struct {
	baseURL string
	http    HTTPDoer
	tokens  TokenSource
	log     *logger.Logger
}

func NewClient(baseURL string, timeout time.Duration, tokens TokenSource, log *logger.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		tokens:  tokens,
		log:     log.Component("crmapi"),
	}
}

// WithHTTPDoer swaps the transport. Used by tests and by callers that share
// an instrumented client.
func (c *Client) WithHTTPDoer(d HTTPDoer) *Client {
	c.http = d
	return c
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body any, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode %s %s: %w", method, path, err)
		}
		reader = bytes.NewReader(payload)
	}

	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return fmt.Errorf("build %s %s: %w", method, path, err)
	}
	c.addHeaders(ctx, req)

	endpoint := endpointLabel(path)
	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		metrics.RecordBackendRequest(method, endpoint, "error", time.Since(start).Seconds())
		metrics.RecordIntegrationError("crm_backend")
		return fmt.Errorf("crm api %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()
	metrics.RecordBackendRequest(method, endpoint, strconv.Itoa(resp.StatusCode), time.Since(start).Seconds())

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		c.log.Warn().
			Str("method", method).
			Str("path", path).
			Int("status", resp.StatusCode).
			Msg("crm backend returned an error")
		return &HTTPError{
			Method:     method,
			Path:       path,
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(b)),
		}
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read %s %s: %w", method, path, err)
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	return nil
}

func (c *Client) addHeaders(ctx context.Context, req *http.Request) {
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())

	if c.tokens == nil {
		return
	}
	token, err := c.tokens.Token(ctx)
	if err != nil {
		c.log.Warn().Err(err).Msg("could not read session token, sending unauthenticated request")
		return
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
}

// endpointLabel collapses numeric path segments so metrics stay low-cardinality.
func endpointLabel(path string) string {
	parts := strings.Split(path, "/")
	for i, p := range parts {
		if _, err := strconv.ParseInt(p, 10, 64); err == nil {
			parts[i] = ":id"
		}
	}
	return strings.Join(parts, "/")
}

func idPath(prefix string, id int64, suffix ...string) string {
	p := prefix + "/" + strconv.FormatInt(id, 10)
	for _, s := range suffix {
		p += "/" + s
	}
	return p
}

func (c *Client) warnSkipped(list string, skipped []error) {
	for _, err := range skipped {
		c.log.Warn().Err(err).Str("list", list).Msg("skipping malformed record")
	}
}
