package client

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

	"github.com/dmitrijs2005/euem/internal/client/models"
	"github.com/dmitrijs2005/euem/internal/common"
	"github.com/dmitrijs2005/euem/internal/logging"
	"github.com/google/uuid"
)

// maxBodySize caps how much of a response body is read.
const maxBodySize = 1 << 20

type HTTPClient struct {
	baseURL string
	http    *http.Client
	log     logging.Logger
	newID   func() string
}

var _ Client = (*HTTPClient)(nil)

type Option func(*HTTPClient)

// WithHTTPClient replaces the underlying *http.Client (tests, proxies).
func WithHTTPClient(h *http.Client) Option {
	return func(c *HTTPClient) { c.http = h }
}

func WithLogger(l logging.Logger) Option {
	return func(c *HTTPClient) { c.log = l }
}

// NewHTTPClient returns a client for the account service at baseURL,
// e.g. "https://euem.net/api". A zero timeout means no client-side limit.
func NewHTTPClient(baseURL string, timeout time.Duration, opts ...Option) *HTTPClient {
	c := &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		log:     logging.NewNop(),
		newID:   uuid.NewString,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

func (c *HTTPClient) Login(ctx context.Context, email, password string) (*models.AuthSession, error) {
	body := map[string]string{"email": email, "password": password}
	data, err := c.request(ctx, http.MethodPost, "/auth/login", body, "")
	if err != nil {
		return nil, err
	}
	return decode[models.AuthSession](data), nil
}

func (c *HTTPClient) RegisterUser(ctx context.Context, payload models.RegisterPayload) (*models.AuthUser, error) {
	data, err := c.request(ctx, http.MethodPost, "/auth/register", payload, "")
	if err != nil {
		return nil, err
	}
	return decode[models.AuthUser](data), nil
}

func (c *HTTPClient) VerifyEmail(ctx context.Context, code string) (*models.StatusMessage, error) {
	body := map[string]string{"otpCode": code}
	data, err := c.request(ctx, http.MethodPost, "/auth/verify-email", body, "")
	if err != nil {
		return nil, err
	}
	return decode[models.StatusMessage](data), nil
}

func (c *HTTPClient) ResendVerificationCode(ctx context.Context, email string) (*models.StatusMessage, error) {
	data, err := c.request(ctx, http.MethodPost, "/auth/resend-otp?email="+url.QueryEscape(email), nil, "")
	if err != nil {
		return nil, err
	}
	return decode[models.StatusMessage](data), nil
}

func (c *HTTPClient) GetProfile(ctx context.Context, token string) (*models.AuthUser, error) {
	data, err := c.request(ctx, http.MethodGet, "/users/profile", nil, token)
	if err != nil {
		return nil, err
	}
	return decode[models.AuthUser](data), nil
}

// request performs one call and returns the raw body, or nil when the body
// is empty or not valid JSON. Every non-2xx status becomes an *AuthError.
func (c *HTTPClient) request(ctx context.Context, method, path string, body any, token string) ([]byte, error) {
	requestID := c.newID()

	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, &AuthError{Message: "Unable to encode request", RequestID: requestID, Err: err}
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, &AuthError{Message: "Unable to build request", RequestID: requestID, Err: err}
	}
	req.Header.Set(common.ContentTypeHeader, common.JSONContentType)
	req.Header.Set(common.AcceptHeader, common.JSONContentType)
	req.Header.Set(common.RequestIDHeader, requestID)
	if token != "" {
		req.Header.Set(common.AuthorizationHeader, "Bearer "+token)
	}

	log := c.log.With("request_id", requestID, "method", method, "path", routeOf(path))

	started := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		log.Warn(ctx, "request failed", "error", err)
		return nil, &AuthError{Message: "Unable to reach the server", RequestID: requestID, Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		log.Warn(ctx, "reading response body failed", "status", resp.StatusCode, "error", err)
		raw = nil
	}
	data := jsonOrNil(raw)

	log.Debug(ctx, "request finished", "status", resp.StatusCode, "elapsed", time.Since(started))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &AuthError{
			Status:    resp.StatusCode,
			Message:   errorMessage(data, resp.StatusCode),
			RequestID: requestID,
		}
	}
	return data, nil
}

// routeOf strips the query so that emails never reach the logs.
func routeOf(path string) string {
	route, _, _ := strings.Cut(path, "?")
	return route
}

func jsonOrNil(raw []byte) []byte {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || !json.Valid(trimmed) {
		return nil
	}
	return trimmed
}

// decode never fails: a body that does not fit T yields the zero value.
func decode[T any](data []byte) *T {
	var v T
	if data == nil {
		return &v
	}
	if err := json.Unmarshal(data, &v); err != nil {
		var zero T
		return &zero
	}
	return &v
}

// errorMessage picks message, then error, then details from an error body.
func errorMessage(data []byte, status int) string {
	fallback := fmt.Sprintf("Request failed with status %d", status)

	var fields map[string]json.RawMessage
	if data == nil || json.Unmarshal(data, &fields) != nil {
		return fallback
	}

	for _, key := range []string{"message", "error"} {
		var s string
		if json.Unmarshal(fields[key], &s) == nil && s != "" {
			return s
		}
	}

	if d := detailsText(fields["details"]); d != "" {
		return d
	}
	return fallback
}

func detailsText(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}

	var s string
	if json.Unmarshal(raw, &s) == nil {
		return s
	}

	var list []any
	if json.Unmarshal(raw, &list) == nil {
		parts := make([]string, 0, len(list))
		for _, item := range list {
			if str, ok := item.(string); ok {
				parts = append(parts, str)
				continue
			}
			parts = append(parts, fmt.Sprint(item))
		}
		return strings.Join(parts, ", ")
	}
	return ""
}
