// Package client is the single chokepoint for calls to the PharmaLink REST
// service. Every call carries the session's bearer token, every failure comes
// back as a typed error from the domain package, and a 401 clears the session.
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

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/pharmalink/pharmalink/internal/api/metrics"
	"github.com/pharmalink/pharmalink/internal/core/domain"
	"github.com/pharmalink/pharmalink/internal/core/ports"
	"github.com/pharmalink/pharmalink/internal/infrastructure/httpclient"
)

const (
	headerAuthorization = "Authorization"
	headerContentType   = "Content-Type"
	headerAccept        = "Accept"
	headerRequestID     = "X-Request-ID"
	headerUserAgent     = "User-Agent"

	mimeJSON         = "application/json"
	defaultUserAgent = "pharmalink-client"
)

var (
	_ ports.AuthAPI       = (*Client)(nil)
	_ ports.PatientAPI    = (*Client)(nil)
	_ ports.PharmacistAPI = (*Client)(nil)
	_ ports.AdminAPI      = (*Client)(nil)
)

// Client talks to one PharmaLink service instance.
type Client struct {
	baseURL   string
	http      *http.Client
	session   ports.Session
	log       zerolog.Logger
	limiter   *rate.Limiter
	userAgent string
}

// Option configures a Client at construction.
type Option func(*Client)

// WithHTTPClient replaces the pooled default client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// WithLogger sets the logger used for per-request debug lines.
func WithLogger(l zerolog.Logger) Option {
	return func(c *Client) { c.log = l }
}

// WithRateLimit caps outbound requests per second. rps <= 0 disables it.
func WithRateLimit(rps float64) Option {
	return func(c *Client) {
		if rps > 0 {
			c.limiter = rate.NewLimiter(rate.Limit(rps), 1)
		}
	}
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) { c.userAgent = ua }
}

// New returns a Client for the service at baseURL, e.g. http://host:5000/api.
func New(baseURL string, session ports.Session, opts ...Option) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("client: invalid base url %q", baseURL)
	}

	c := &Client{
		baseURL:   strings.TrimRight(u.String(), "/"),
		http:      httpclient.New(0),
		session:   session,
		log:       zerolog.Nop(),
		userAgent: defaultUserAgent,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// BaseURL returns the service address the client was built with.
func (c *Client) BaseURL() string {
	return c.baseURL
}

type requestOptions struct {
	header    http.Header
	query     url.Values
	anonymous bool
}

// RequestOption adjusts a single call.
type RequestOption func(*requestOptions)

// WithHeader adds a header to the call. Authorization cannot be set this way.
func WithHeader(key, value string) RequestOption {
	return func(o *requestOptions) { o.header.Add(key, value) }
}

// WithQuery merges q into the call's query string.
func WithQuery(q url.Values) RequestOption {
	return func(o *requestOptions) {
		for k, vs := range q {
			for _, v := range vs {
				o.query.Add(k, v)
			}
		}
	}
}

// withoutToken sends the call without a bearer token; used by login and register.
func withoutToken() RequestOption {
	return func(o *requestOptions) { o.anonymous = true }
}

// Do issues method path against the service and returns the JSON payload
// unchanged. body, when non-nil, is JSON-encoded.
//
// Failures:
//   - *domain.UnauthenticatedError on 401; the session is cleared first
//   - *domain.APIError on any other non-2xx status, with the server's message
//   - *domain.NetworkError when no response was received
func (c *Client) Do(ctx context.Context, method, path string, body any, opts ...RequestOption) (json.RawMessage, error) {
	o := requestOptions{header: make(http.Header), query: make(url.Values)}
	for _, opt := range opts {
		opt(&o)
	}

	req, err := c.newRequest(ctx, method, path, body, o)
	if err != nil {
		return nil, err
	}
	requestID := req.Header.Get(headerRequestID)

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			metrics.RequestsTotal.WithLabelValues(method, metrics.OutcomeNetworkError).Inc()
			return nil, &domain.NetworkError{Method: method, Path: path, Err: err}
		}
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		metrics.RequestsTotal.WithLabelValues(method, metrics.OutcomeNetworkError).Inc()
		c.log.Debug().Err(err).Str("method", method).Str("path", path).Str("request_id", requestID).Msg("request failed")
		return nil, &domain.NetworkError{Method: method, Path: path, Err: err}
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	metrics.RequestDuration.WithLabelValues(method).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.RequestsTotal.WithLabelValues(method, metrics.OutcomeNetworkError).Inc()
		return nil, &domain.NetworkError{Method: method, Path: path, Err: fmt.Errorf("read body: %w", err)}
	}

	c.log.Debug().
		Str("method", method).
		Str("path", path).
		Int("status", resp.StatusCode).
		Str("request_id", requestID).
		Dur("duration", time.Since(start)).
		Msg("request settled")

	if resp.StatusCode == http.StatusUnauthorized {
		return nil, c.unauthenticated(ctx, method, path, payload)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		metrics.RequestsTotal.WithLabelValues(method, metrics.OutcomeAPIError).Inc()
		return nil, &domain.APIError{
			Status:  resp.StatusCode,
			Message: errorMessage(payload, resp.StatusCode),
			Method:  method,
			Path:    path,
		}
	}

	payload = bytes.TrimSpace(payload)
	if len(payload) == 0 {
		metrics.RequestsTotal.WithLabelValues(method, metrics.OutcomeSuccess).Inc()
		return nil, nil
	}
	if !json.Valid(payload) {
		metrics.RequestsTotal.WithLabelValues(method, metrics.OutcomeAPIError).Inc()
		return nil, &domain.APIError{
			Status:  resp.StatusCode,
			Message: "response is not valid JSON",
			Method:  method,
			Path:    path,
		}
	}

	metrics.RequestsTotal.WithLabelValues(method, metrics.OutcomeSuccess).Inc()
	return json.RawMessage(payload), nil
}

func (c *Client) newRequest(ctx context.Context, method, path string, body any, o requestOptions) (*http.Request, error) {
	target := c.baseURL + "/" + strings.TrimLeft(path, "/")
	if len(o.query) > 0 {
		target += "?" + o.query.Encode()
	}

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("%s %s: encode body: %w", method, path, err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return nil, fmt.Errorf("%s %s: build request: %w", method, path, err)
	}

	req.Header.Set(headerContentType, mimeJSON)
	req.Header.Set(headerAccept, mimeJSON)
	req.Header.Set(headerUserAgent, c.userAgent)
	req.Header.Set(headerRequestID, uuid.NewString())
	for k, vs := range o.header {
		req.Header.Del(k)
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}

	// Authorization always comes from the session, never from the caller.
	req.Header.Del(headerAuthorization)
	if !o.anonymous && c.session != nil {
		if token, ok := c.session.AccessToken(ctx); ok {
			req.Header.Set(headerAuthorization, "Bearer "+token)
		}
	}
	return req, nil
}

// unauthenticated forces the session to Anonymous and builds the outcome.
func (c *Client) unauthenticated(ctx context.Context, method, path string, payload []byte) error {
	metrics.RequestsTotal.WithLabelValues(method, metrics.OutcomeUnauthenticated).Inc()
	metrics.ForcedLogoutsTotal.WithLabelValues("unauthorized").Inc()

	if c.session != nil {
		if err := c.session.ClearIdentity(ctx); err != nil {
			c.log.Error().Err(err).Str("path", path).Msg("failed to clear session after 401")
		}
	}

	msg, _ := serverMessage(payload)
	return &domain.UnauthenticatedError{Method: method, Path: path, Message: msg}
}

// errorMessage prefers the server's message field, then its error field,
// then a generic message for the status.
func errorMessage(payload []byte, status int) string {
	if msg, ok := serverMessage(payload); ok {
		return msg
	}
	if text := http.StatusText(status); text != "" {
		return "request failed: " + strings.ToLower(text)
	}
	return "request failed"
}

func serverMessage(payload []byte) (string, bool) {
	var envelope struct {
		Message *string `json:"message"`
		Error   *string `json:"error"`
	}
	if err := json.Unmarshal(payload, &envelope); err != nil {
		return "", false
	}
	if envelope.Message != nil && *envelope.Message != "" {
		return *envelope.Message, true
	}
	if envelope.Error != nil && *envelope.Error != "" {
		return *envelope.Error, true
	}
	return "", false
}

// Decode unmarshals a payload returned by Do into a typed view.
func Decode[T any](raw json.RawMessage) (T, error) {
	var out T
	if len(raw) == 0 {
		return out, errors.New("decode: empty payload")
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return out, fmt.Errorf("decode %T: %w", out, err)
	}
	return out, nil
}
