package client

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/pkg/errors"
)

// DefaultBaseURL is the address of a locally running Fuego API gateway.
const DefaultBaseURL = "http://127.0.0.1:8787/v1"

// Doer sends a single HTTP request. *http.Client implements it.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Options configure a client. Zero fields are replaced with defaults.
type Options struct {
	BaseURL string
	// Client is used as is and shared by every call. If nil, a new *http.Client is created.
	Client Doer
	// Timeout limits a whole round trip of the default transport. Zero means no limit,
	// in that case only the context passed to a call bounds it.
	Timeout time.Duration
}

var defaultOptions = Options{
	BaseURL: DefaultBaseURL,
}

func mergeOptions(options []Options) (Options, error) {
	if len(options) > 1 {
		return Options{}, errors.New("too many options provided. Expects no or just one item")
	}
	opts := defaultOptions
	if len(options) == 1 {
		option := options[0]
		if option.BaseURL != "" {
			opts.BaseURL = option.BaseURL
		}
		if option.Client != nil {
			opts.Client = option.Client
		}
		if option.Timeout != 0 {
			opts.Timeout = option.Timeout
		}
	}
	if opts.Client == nil {
		opts.Client = &http.Client{Timeout: opts.Timeout}
	}
	return opts, nil
}

// Client gives access to both the node and the wallet sections of the gateway API.
type Client struct {
	Node   *NodeClient
	Wallet *WalletClient

	base *baseClient
}

// NewClient creates new client instance.
// If no options provided will use default.
func NewClient(options ...Options) (*Client, error) {
	opts, err := mergeOptions(options)
	if err != nil {
		return nil, err
	}
	base, err := newBaseClient(opts)
	if err != nil {
		return nil, err
	}
	return &Client{
		Node:   &NodeClient{base: base},
		Wallet: &WalletClient{base: base},
		base:   base,
	}, nil
}

// BaseURL returns the normalized base address the client resolves request paths against.
func (c *Client) BaseURL() string {
	return c.base.baseURL()
}

type Response struct {
	*http.Response
}

func newResponse(response *http.Response) *Response {
	return &Response{
		Response: response,
	}
}

// baseClient is immutable after construction and safe for concurrent use.
type baseClient struct {
	base *url.URL
	doer Doer
}

func newBaseClient(opts Options) (*baseClient, error) {
	base, err := normalizeBaseURL(opts.BaseURL)
	if err != nil {
		return nil, err
	}
	return &baseClient{base: base, doer: opts.Client}, nil
}

// normalizeBaseURL parses an absolute URL and makes its path end with a slash,
// so relative paths are appended to the base path instead of replacing its last segment.
func normalizeBaseURL(raw string) (*url.URL, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return nil, newURLError(raw, err)
	}
	if !u.IsAbs() || u.Host == "" {
		return nil, newURLError(raw, errors.New("base URL must be absolute"))
	}
	if !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
		if u.RawPath != "" {
			u.RawPath += "/"
		}
	}
	return u, nil
}

func (c *baseClient) baseURL() string {
	return c.base.String()
}

func (c *baseClient) resolve(path string) (*url.URL, error) {
	rel, err := url.Parse(path)
	if err != nil {
		return nil, newURLError(path, err)
	}
	if rel.IsAbs() {
		return nil, newURLError(path, errors.New("path must be relative URL"))
	}
	return c.base.ResolveReference(rel), nil
}

type routeKey struct{}

// withRoute marks requests made with ctx as calls of the endpoint template route.
func withRoute(ctx context.Context, route string) context.Context {
	return context.WithValue(ctx, routeKey{}, route)
}

// routeFromContext returns the endpoint template set by withRoute, if any.
func routeFromContext(ctx context.Context) (string, bool) {
	route, ok := ctx.Value(routeKey{}).(string)
	return route, ok
}

// ensureRoute defaults the endpoint template to the path itself.
func ensureRoute(ctx context.Context, path string) context.Context {
	if _, ok := routeFromContext(ctx); ok {
		return ctx
	}
	return withRoute(ctx, path)
}

func (c *baseClient) getJSON(ctx context.Context, path string, out any) (*Response, error) {
	ctx = ensureRoute(ctx, path)
	u, err := c.resolve(path)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, newURLError(u.String(), err)
	}
	return doHTTP(ctx, c.doer, req, out)
}

func (c *baseClient) postJSON(ctx context.Context, path string, body, out any) (*Response, error) {
	ctx = ensureRoute(ctx, path)
	u, err := c.resolve(path)
	if err != nil {
		return nil, err
	}
	bts, err := json.Marshal(body)
	if err != nil {
		// The request never leaves the client, so there is no status code.
		return nil, newRequestError(errors.Wrap(err, "failed to marshal request body"), 0, "")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.String(), bytes.NewReader(bts))
	if err != nil {
		return nil, newURLError(u.String(), err)
	}
	req.Header.Set("Content-Type", "application/json")
	return doHTTP(ctx, c.doer, req, out)
}

func doHTTP(ctx context.Context, doer Doer, req *http.Request, out any) (*Response, error) {
	if req.Header.Get("Accept") == "" {
		req.Header.Set("Accept", "application/json")
	}

	resp, err := doer.Do(req)
	if err != nil {
		return nil, newRequestError(err, 0, "")
	}
	defer func(Body io.ReadCloser) {
		_ = Body.Close() // No error handling intentionally
	}(resp.Body)

	response := newResponse(resp)

	if response.StatusCode < http.StatusOK || response.StatusCode >= http.StatusMultipleChoices {
		body, _ := io.ReadAll(response.Body)
		return response, newRequestError(
			errors.Wrapf(ErrUnexpectedStatus, "expect 2xx got %d", response.StatusCode),
			response.StatusCode,
			string(body),
		)
	}

	select {
	case <-ctx.Done():
		return response, newRequestError(ctx.Err(), response.StatusCode, "")
	default:
	}

	if out != nil {
		dec := json.NewDecoder(response.Body)
		if err := dec.Decode(out); err != nil {
			return response, newParseError(err)
		}
		// The body must hold exactly one JSON value.
		switch err := dec.Decode(&struct{}{}); {
		case errors.Is(err, io.EOF):
		case err == nil:
			return response, newParseError(errors.New("unexpected data after JSON value"))
		default:
			return response, newParseError(errors.Wrap(err, "unexpected data after JSON value"))
		}
	}
	return response, nil
}
