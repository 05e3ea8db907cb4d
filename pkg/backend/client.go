package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/cafesol/cafeapp/pkg/config"
	pkgerrors "github.com/cafesol/cafeapp/pkg/errors"
	"github.com/cafesol/cafeapp/pkg/metrics"
)

const responseBodyReadLimit int64 = 2048

var errBaseURLRequired = errors.New("backend base url is required")

// Client talks to the cafe REST API that owns catalog, orders, payments and
// inventory. It carries no retry policy; callers see one attempt per call.
type Client struct {
	httpClient *http.Client
	baseURL    string
	token      string
	metrics    *metrics.CheckoutMetrics
}

// Option configures optional client behavior.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithMetrics wires call-duration observation.
func WithMetrics(m *metrics.CheckoutMetrics) Option {
	return func(c *Client) {
		c.metrics = m
	}
}

// NewClient builds the cafe API client from config.
func NewClient(cfg config.BackendConfig, opts ...Option) (*Client, error) {
	baseURL := strings.TrimSpace(cfg.BaseURL)
	if baseURL == "" {
		return nil, errBaseURLRequired
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	client := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		token:      strings.TrimSpace(cfg.ServiceToken),
		httpClient: &http.Client{Timeout: timeout},
	}

	for _, opt := range opts {
		if opt != nil {
			opt(client)
		}
	}

	if client.httpClient == nil {
		client.httpClient = &http.Client{Timeout: timeout}
	}

	return client, nil
}

// do executes one request and decodes the JSON body into dest when non-nil.
// HTTP failures come back as typed errors; statusMap lets an operation
// override the default code for specific statuses.
func (c *Client) do(ctx context.Context, operation, method, path string, payload, dest any, statusMap map[int]pkgerrors.Code) error {
	if c == nil {
		return pkgerrors.New(pkgerrors.CodeInternal, "backend client not configured")
	}

	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, fmt.Sprintf("marshal %s request", operation))
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.buildURL(path), body)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, fmt.Sprintf("build %s request", operation))
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	c.metrics.ObserveBackendCall(operation, time.Since(start))
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeNetworkUnavailable, err, fmt.Sprintf("execute %s request", operation))
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return c.statusError(operation, resp, statusMap)
	}

	if dest == nil {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, responseBodyReadLimit))
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeNetworkUnavailable, err, fmt.Sprintf("decode %s response", operation))
	}
	return nil
}

func (c *Client) statusError(operation string, resp *http.Response, statusMap map[int]pkgerrors.Code) error {
	msg, _ := io.ReadAll(io.LimitReader(resp.Body, responseBodyReadLimit))
	cause := fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(msg)))

	code, ok := statusMap[resp.StatusCode]
	if !ok {
		code = defaultCodeFor(resp.StatusCode)
	}
	return pkgerrors.Wrap(code, cause, fmt.Sprintf("%s request failed", operation))
}

func defaultCodeFor(status int) pkgerrors.Code {
	switch {
	case status == http.StatusNotFound:
		return pkgerrors.CodeNotFound
	case status == http.StatusUnauthorized, status == http.StatusForbidden:
		return pkgerrors.CodeUnauthorized
	case status == http.StatusPaymentRequired:
		return pkgerrors.CodePaymentDeclined
	case status >= 400 && status < 500:
		return pkgerrors.CodeValidation
	default:
		return pkgerrors.CodeNetworkUnavailable
	}
}

func (c *Client) buildURL(path string) string {
	return c.baseURL + "/" + strings.TrimLeft(path, "/")
}
