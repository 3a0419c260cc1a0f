package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"
)

// Client talks to the cloud provider's v4 REST API.
type Client struct {
	baseURL   *url.URL
	http      *http.Client
	token     string
	userAgent string
	limiter   *rate.Limiter
}

const (
	defaultBaseURL   = "https://api.linode.com/v4"
	defaultUserAgent = "cirrus/0.1"
	defaultTimeout   = 30 * time.Second
	defaultRate      = 10
	defaultBurst     = 20

	// RequestIDHeader carries a per-request id so log lines can be matched
	// with API-side traces.
	RequestIDHeader = "X-Request-ID"
	filterHeader    = "X-Filter"
)

// Options configure a Client. Zero values use defaults.
type Options struct {
	BaseURL        string
	Token          string
	Timeout        time.Duration
	RequestsPerSec float64
	Burst          int
	HTTPClient     *http.Client
}

// NewClient builds a Client.
func NewClient(opts Options) (*Client, error) {
	base, err := parseBaseURL(opts.BaseURL)
	if err != nil {
		return nil, err
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = defaultTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	rps := opts.RequestsPerSec
	if rps <= 0 {
		rps = defaultRate
	}
	burst := opts.Burst
	if burst <= 0 {
		burst = defaultBurst
	}
	return &Client{
		baseURL:   base,
		http:      httpClient,
		token:     strings.TrimSpace(opts.Token),
		userAgent: defaultUserAgent,
		limiter:   rate.NewLimiter(rate.Limit(rps), burst),
	}, nil
}

// PageOptions select one page of a collection.
type PageOptions struct {
	Page     int
	PageSize int
}

func (o PageOptions) values() url.Values {
	values := url.Values{}
	if o.Page > 0 {
		values.Set("page", strconv.Itoa(o.Page))
	}
	if o.PageSize > 0 {
		values.Set("page_size", strconv.Itoa(o.PageSize))
	}
	return values
}

// Filter is an X-Filter document.
type Filter map[string]any

// request describes one API call.
type request struct {
	method string
	path   string
	query  url.Values
	filter Filter
	body   any
}

func (c *Client) do(ctx context.Context, req request, dest any) error {
	if c == nil {
		return fmt.Errorf("client is nil")
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit: %w", err)
	}

	rel := &url.URL{Path: strings.TrimPrefix(req.path, "/")}
	if len(req.query) > 0 {
		rel.RawQuery = req.query.Encode()
	}
	reqURL := c.baseURL.ResolveReference(rel)

	var body io.Reader
	if req.body != nil {
		payload, err := json.Marshal(req.body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(payload)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.method, reqURL.String(), body)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("User-Agent", c.userAgent)
	httpReq.Header.Set(RequestIDHeader, uuid.NewString())
	if body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.token)
	}
	if req.filter != nil {
		encoded, err := json.Marshal(req.filter)
		if err != nil {
			return fmt.Errorf("encode filter: %w", err)
		}
		httpReq.Header.Set(filterHeader, string(encoded))
	}

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 400 {
		return decodeError(req.method, req.path, resp)
	}
	if dest == nil {
		return nil
	}
	decoder := json.NewDecoder(resp.Body)
	if err := decoder.Decode(dest); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func (c *Client) get(ctx context.Context, path string, dest any) error {
	return c.do(ctx, request{method: http.MethodGet, path: path}, dest)
}

func (c *Client) del(ctx context.Context, path string) error {
	return c.do(ctx, request{method: http.MethodDelete, path: path}, nil)
}

// listPage fetches one page of a collection.
func listPage[T any](ctx context.Context, c *Client, path string, opts PageOptions, filter Filter) (Page[T], error) {
	var page Page[T]
	err := c.do(ctx, request{method: http.MethodGet, path: path, query: opts.values(), filter: filter}, &page)
	if err != nil {
		return Page[T]{}, err
	}
	return page, nil
}

// PageFunc fetches one page of a collection.
type PageFunc[T any] func(ctx context.Context, opts PageOptions) (Page[T], error)

// ListAll walks every page of a collection, calling onPage after each one.
// It returns the collected items and the server-reported total.
func ListAll[T any](ctx context.Context, fetch PageFunc[T], pageSize int, onPage func(Page[T])) ([]T, int, error) {
	var items []T
	for page := 1; ; page++ {
		resp, err := fetch(ctx, PageOptions{Page: page, PageSize: pageSize})
		if err != nil {
			return nil, 0, err
		}
		items = append(items, resp.Data...)
		if onPage != nil {
			onPage(resp)
		}
		if resp.Pages <= page || len(resp.Data) == 0 {
			return items, resp.Results, nil
		}
	}
}

func parseBaseURL(raw string) (*url.URL, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		trimmed = defaultBaseURL
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "https://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse api url %q: %w", raw, err)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("parse api url %q: missing host", raw)
	}
	u.Path = strings.TrimSuffix(u.Path, "/") + "/"
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}
