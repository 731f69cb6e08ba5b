package pipeline

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
)

// Request describes a call relative to the API base URL.
type Request struct {
	Method      string
	Path        string
	Query       url.Values
	Header      http.Header
	Body        []byte
	ContentType string
	// Anonymous requests are sent without credentials and never refresh.
	Anonymous bool
}

// NewJSONRequest builds a request with a JSON encoded payload, a nil payload sends no body.
func NewJSONRequest(method, path string, payload any) (Request, error) {
	req := Request{Method: method, Path: path}
	if payload == nil {
		return req, nil
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return Request{}, err
	}
	req.Body = body
	req.ContentType = "application/json"
	return req, nil
}

// Client sends requests relative to the API base URL through a chain of middlewares.
type Client struct {
	baseURL     *url.URL
	httpClient  *http.Client
	middlewares []Middleware
	doer        Doer
}

type ClientOption func(*Client) error

func WithBaseURL(baseURL *url.URL) ClientOption {
	return func(c *Client) error {
		if baseURL == nil {
			return fmt.Errorf("the base url cannot be nil")
		}
		c.baseURL = baseURL
		return nil
	}
}

func WithHTTPClient(httpClient *http.Client) ClientOption {
	return func(c *Client) error {
		c.httpClient = httpClient
		return nil
	}
}

// WithTimeout bounds every single attempt of a request.
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) error {
		if timeout <= 0 {
			return fmt.Errorf("invalid client timeout (%v)", timeout)
		}
		if c.httpClient == nil {
			c.httpClient = &http.Client{}
		}
		c.httpClient.Timeout = timeout
		return nil
	}
}

func WithMiddlewares(middlewares ...Middleware) ClientOption {
	return func(c *Client) error {
		c.middlewares = append(c.middlewares, middlewares...)
		return nil
	}
}

func NewClient(options ...ClientOption) (*Client, error) {
	c := Client{}
	for _, opt := range options {
		err := opt(&c)
		if err != nil {
			return &Client{}, err
		}
	}
	if c.baseURL == nil {
		return &Client{}, fmt.Errorf("base url not initialized")
	}
	if c.httpClient == nil {
		c.httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	c.doer = Chain(c.httpClient, c.middlewares...)
	return &c, nil
}

func (c *Client) BaseURL() *url.URL {
	output := *c.baseURL
	return &output
}

// Send issues the request. Non-2xx responses are returned as they are, the caller
// owns the response body.
func (c *Client) Send(ctx context.Context, request Request) (*http.Response, error) {
	req, err := c.newHTTPRequest(ctx, request)
	if err != nil {
		return nil, err
	}
	return c.doer.Do(req)
}

// Do sends a prepared request through the middleware chain.
func (c *Client) Do(req *http.Request) (*http.Response, error) {
	return c.doer.Do(req)
}

func (c *Client) newHTTPRequest(ctx context.Context, request Request) (*http.Request, error) {
	if request.Anonymous {
		ctx = Anonymous(ctx)
	}
	method := request.Method
	if method == "" {
		method = http.MethodGet
	}
	target := c.baseURL.JoinPath(strings.TrimPrefix(request.Path, "/"))
	if len(request.Query) > 0 {
		target.RawQuery = request.Query.Encode()
	}
	var body io.Reader
	if request.Body != nil {
		body = bytes.NewReader(request.Body)
	}
	req, err := http.NewRequestWithContext(ctx, method, target.String(), body)
	if err != nil {
		return nil, err
	}
	for k, values := range request.Header {
		for _, v := range values {
			req.Header.Add(k, v)
		}
	}
	if request.ContentType != "" {
		req.Header.Set("Content-Type", request.ContentType)
	}
	if req.Header.Get("Accept") == "" {
		req.Header.Set("Accept", "application/json")
	}
	return req, nil
}
