// ABOUTME: Authenticated HTTP transport for the secuone backend
// ABOUTME: Attaches bearer token and cookies, classifies failures, clears session on 401

package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/polarisoffice/secuone-console/internal/session"
	"github.com/tidwall/gjson"
)

// Transport issues requests against a single backend origin. A bearer
// token from the credential store is attached when present; the cookie
// mirror rides along in the jar so either auth transport works.
type Transport struct {
	base       *url.URL
	basePath   string
	httpClient *http.Client
	store      *session.Store
}

// NewTransport builds a transport for the given origin. basePath is
// prepended to every request path for sub-path deployments.
func NewTransport(baseURL, basePath string, store *session.Store, timeout time.Duration) (*Transport, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid backend URL %q: %w", baseURL, err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("backend URL %q must include scheme and host", baseURL)
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create cookie jar: %w", err)
	}
	if store != nil {
		if cookies := store.Cookies(base); len(cookies) > 0 {
			jar.SetCookies(base, cookies)
		}
	}

	return &Transport{
		base:     base,
		basePath: basePath,
		httpClient: &http.Client{
			Timeout: timeout,
			Jar:     jar,
		},
		store: store,
	}, nil
}

// Response is the outcome of a successful (2xx) request.
type Response struct {
	Status int
	Header http.Header
	Body   []byte
}

// IsJSON reports whether the response content type indicates JSON.
func (r *Response) IsJSON() bool {
	ct := strings.ToLower(r.Header.Get("Content-Type"))
	return strings.Contains(ct, "application/json")
}

// Decode unmarshals a JSON body into v. Empty bodies decode to the
// zero value rather than erroring, matching backends that 200 with no
// content.
func (r *Response) Decode(v any) error {
	if len(r.Body) == 0 {
		return nil
	}
	if err := json.Unmarshal(r.Body, v); err != nil {
		return fmt.Errorf("invalid response from backend: %w", err)
	}
	return nil
}

// Text returns the body as a string, for text/plain endpoints.
func (r *Response) Text() string {
	return strings.TrimSpace(string(r.Body))
}

// Do issues one request. path is origin-relative (the configured base
// path is prepended). body, when non-nil, is JSON-encoded. Non-2xx
// statuses come back as typed errors per the taxonomy in errors.go.
func (t *Transport) Do(ctx context.Context, method, path string, query url.Values, body any, extra http.Header) (*Response, error) {
	// Parse the joined path so percent-escapes in ids survive intact.
	rel, err := url.Parse(joinPath(t.basePath, path))
	if err != nil {
		return nil, fmt.Errorf("invalid request path %q: %w", path, err)
	}
	u := *t.base.ResolveReference(rel)
	if query != nil {
		u.RawQuery = query.Encode()
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if t.store != nil {
		if token := t.store.Token(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}
	for k, vs := range extra {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}

	resp, err := t.httpClient.Do(req)
	if err != nil {
		return nil, t.classifyTransportError(ctx, u.String(), err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &NetworkError{URL: u.String(), Err: err}
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return &Response{Status: resp.StatusCode, Header: resp.Header, Body: data}, nil
	}
	return nil, t.classifyStatus(resp.StatusCode, data)
}

// classifyTransportError distinguishes timeouts from plain
// connectivity failures.
func (t *Transport) classifyTransportError(ctx context.Context, url string, err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return &NetworkError{URL: url, Timeout: true, Err: err}
	}
	var uerr interface{ Timeout() bool }
	if errors.As(err, &uerr) && uerr.Timeout() {
		return &NetworkError{URL: url, Timeout: true, Err: err}
	}
	if errors.Is(ctx.Err(), context.Canceled) {
		return fmt.Errorf("request canceled")
	}
	return &NetworkError{URL: url, Err: err}
}

// classifyStatus maps non-2xx statuses onto the error taxonomy. 401
// invalidates the stored session: authentication state is global, so
// no amount of retrying elsewhere would help.
func (t *Transport) classifyStatus(status int, body []byte) error {
	switch status {
	case http.StatusUnauthorized:
		if t.store != nil {
			if err := t.store.Clear(); err != nil {
				slog.Warn("failed to clear session after 401", "error", err)
			}
		}
		return ErrUnauthorized
	case http.StatusForbidden:
		return ErrForbidden
	case http.StatusBadRequest:
		return &ValidationError{Message: serverMessage(body)}
	case http.StatusConflict:
		return &ConflictError{Message: serverMessage(body)}
	default:
		return &StatusError{Status: status, Message: serverMessage(body), Body: body}
	}
}

// serverMessage extracts the {message} (or {error}) field the backend
// puts in error bodies, falling back to the raw text.
func serverMessage(body []byte) string {
	if len(body) == 0 {
		return ""
	}
	if msg := gjson.GetBytes(body, "message"); msg.Exists() {
		return msg.String()
	}
	if msg := gjson.GetBytes(body, "error"); msg.Exists() {
		return msg.String()
	}
	return strings.TrimSpace(string(body))
}

// joinPath joins the deployment base path and the request path without
// doubling slashes.
func joinPath(basePath, path string) string {
	if basePath == "" {
		return path
	}
	return strings.TrimSuffix(basePath, "/") + "/" + strings.TrimPrefix(path, "/")
}
