// Package costapi is a small client for the cost manager REST API.
//
// Every call returns the raw response for any HTTP status so callers can
// assert on it. An error is returned only when no response was obtained.
package costapi

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	apperrors "costcheck/pkg/errors"
)

const (
	PathAbout  = "/api/about"
	PathAdd    = "/api/add"
	PathReport = "/api/report"
	PathUser   = "/api/users/{id}"
	PathDelete = "/delete-item/{id}"
)

type Client struct {
	BaseURL string

	httpClient *resty.Client
}

type Option func(*resty.Client)

// WithTimeout bounds each request. Zero keeps the transport default (none).
func WithTimeout(d time.Duration) Option {
	return func(c *resty.Client) {
		if d > 0 {
			c.SetTimeout(d)
		}
	}
}

func WithUserAgent(ua string) Option {
	return func(c *resty.Client) {
		if ua != "" {
			c.SetHeader("User-Agent", ua)
		}
	}
}

func WithLogger(logger *zap.Logger) Option {
	return func(c *resty.Client) {
		if logger != nil {
			c.SetLogger(logger.Sugar())
		}
	}
}

func NewClient(baseURL string, opts ...Option) *Client {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")

	client := resty.New()
	client.SetBaseURL(baseURL)
	client.SetHeader("Accept", "application/json")
	client.SetRetryCount(0)
	client.SetLogger(zap.NewNop().Sugar())
	for _, opt := range opts {
		opt(client)
	}

	return &Client{BaseURL: baseURL, httpClient: client}
}

// Response is a fully read HTTP answer.
type Response struct {
	Method     string
	Path       string
	StatusCode int
	Body       []byte
	Header     http.Header
	Elapsed    time.Duration
}

// Endpoint renders "METHOD /path" for messages.
func (r *Response) Endpoint() string {
	return r.Method + " " + r.Path
}

// Decode unmarshals the body into v.
func (r *Response) Decode(v any) error {
	if err := json.Unmarshal(r.Body, v); err != nil {
		return apperrors.WrapWithDetail(apperrors.CodeDecode, apperrors.ErrDecode.Message, r.Endpoint(), err)
	}
	return nil
}

// About calls GET /api/about.
func (c *Client) About(ctx context.Context) (*Response, error) {
	return c.do(ctx, http.MethodGet, PathAbout, c.httpClient.R())
}

// AddCost calls POST /api/add with entry as JSON body.
func (c *Client) AddCost(ctx context.Context, entry CostEntry) (*Response, error) {
	req := c.httpClient.R().
		SetHeader("Content-Type", "application/json").
		SetBody(entry)
	return c.do(ctx, http.MethodPost, PathAdd, req)
}

// MonthlyReport calls GET /api/report?id=&year=&month=.
func (c *Client) MonthlyReport(ctx context.Context, q ReportQuery) (*Response, error) {
	req := c.httpClient.R().SetQueryParams(map[string]string{
		"id":    strconv.Itoa(q.UserID),
		"year":  strconv.Itoa(q.Year),
		"month": strconv.Itoa(q.Month),
	})
	return c.do(ctx, http.MethodGet, PathReport, req)
}

// UserDetails calls GET /api/users/:id.
func (c *Client) UserDetails(ctx context.Context, userID int) (*Response, error) {
	req := c.httpClient.R().SetPathParam("id", strconv.Itoa(userID))
	return c.do(ctx, http.MethodGet, PathUser, req)
}

// DeleteCost calls DELETE /delete-item/:id.
func (c *Client) DeleteCost(ctx context.Context, costID string) (*Response, error) {
	req := c.httpClient.R().SetPathParam("id", costID)
	return c.do(ctx, http.MethodDelete, PathDelete, req)
}

func (c *Client) do(ctx context.Context, method, path string, req *resty.Request) (*Response, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	resp, err := req.SetContext(ctx).Execute(method, path)
	if err != nil {
		return nil, apperrors.WrapWithDetail(apperrors.CodeTransport, apperrors.ErrTransport.Message, method+" "+path, err)
	}

	return &Response{
		Method:     method,
		Path:       path,
		StatusCode: resp.StatusCode(),
		Body:       resp.Body(),
		Header:     resp.Header(),
		Elapsed:    resp.Time(),
	}, nil
}
