package ajax

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/dghubble/sling"
	"go.uber.org/zap"

	"github.com/pfrederiksen/webutils/internal/logger"
	"github.com/pfrederiksen/webutils/internal/metrics"
)

const (
	// DefaultTimeout bounds a single request unless Options says otherwise
	DefaultTimeout = 30 * time.Second

	// ContentType is sent with every request
	ContentType = "application/json;charset=utf-8"

	// Accept asks for a JSON reply
	Accept = "application/json, text/javascript, */*; q=0.01"
)

// Method is an HTTP verb supported by the client
type Method string

const (
	MethodGet    Method = http.MethodGet
	MethodPost   Method = http.MethodPost
	MethodPut    Method = http.MethodPut
	MethodDelete Method = http.MethodDelete
)

var (
	// ErrNoErrorHandler is returned when a call is made without an error handler
	ErrNoErrorHandler = errors.New("ajax: error handler is required")

	// ErrUnsupportedMethod is returned for verbs other than GET, POST, PUT and DELETE
	ErrUnsupportedMethod = errors.New("ajax: unsupported method")

	// ErrRelativeURL is returned when a relative URL cannot be resolved
	ErrRelativeURL = errors.New("ajax: relative url without base url")
)

// ParseMethod converts a verb such as "post" to a Method
func ParseMethod(name string) (Method, error) {
	m := Method(strings.ToUpper(strings.TrimSpace(name)))
	if !m.valid() {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedMethod, name)
	}
	return m, nil
}

func (m Method) valid() bool {
	switch m {
	case MethodGet, MethodPost, MethodPut, MethodDelete:
		return true
	}
	return false
}

// Options configures a Client
type Options struct {
	// BaseURL resolves relative request URLs, like a page origin
	BaseURL string

	// Timeout bounds each request; zero uses DefaultTimeout
	Timeout time.Duration

	// Jar stores cookies across requests
	Jar http.CookieJar

	// HTTPClient replaces the client built from Timeout and Jar
	HTTPClient *http.Client

	Logger  *zap.Logger
	Metrics *metrics.Collector
}

// Client sends JSON requests
type Client struct {
	base    *sling.Sling
	logger  *zap.Logger
	metrics *metrics.Collector
}

// NewClient creates a Client
func NewClient(opts Options) (*Client, error) {
	httpClient := opts.HTTPClient
	if httpClient == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = DefaultTimeout
		}
		httpClient = &http.Client{
			Timeout: timeout,
			Jar:     opts.Jar,
		}
	}

	base := sling.New().
		Client(httpClient).
		Set("Content-Type", ContentType).
		Set("Accept", Accept).
		ResponseDecoder(rawDecoder{})

	if opts.BaseURL != "" {
		u, err := url.Parse(opts.BaseURL)
		if err != nil {
			return nil, fmt.Errorf("parsing base url: %w", err)
		}
		if !u.IsAbs() || u.Host == "" {
			return nil, fmt.Errorf("base url must be absolute: %q", opts.BaseURL)
		}
		base = base.Base(opts.BaseURL)
	}

	return &Client{
		base:    base,
		logger:  logger.OrNop(opts.Logger),
		metrics: opts.Metrics,
	}, nil
}

// Do sends one request and waits for the reply. A failed request returns an
// *Error; any other error means the request was never sent.
func (c *Client) Do(ctx context.Context, method Method, rawURL string, payload any) (*Response, error) {
	req, err := c.prepare(ctx, method, rawURL, payload)
	if err != nil {
		return nil, err
	}

	resp, ajaxErr := c.execute(req, method)
	if ajaxErr != nil {
		return nil, ajaxErr
	}
	return resp, nil
}

// Get sends a GET request with payload encoded in the query string
func (c *Client) Get(ctx context.Context, rawURL string, payload any, h Handlers) error {
	return c.dispatch(ctx, MethodGet, rawURL, payload, h)
}

// Post sends a POST request with a JSON body
func (c *Client) Post(ctx context.Context, rawURL string, payload any, h Handlers) error {
	return c.dispatch(ctx, MethodPost, rawURL, payload, h)
}

// Put sends a PUT request with a JSON body
func (c *Client) Put(ctx context.Context, rawURL string, payload any, h Handlers) error {
	return c.dispatch(ctx, MethodPut, rawURL, payload, h)
}

// Delete sends a DELETE request with a JSON body
func (c *Client) Delete(ctx context.Context, rawURL string, payload any, h Handlers) error {
	return c.dispatch(ctx, MethodDelete, rawURL, payload, h)
}

// dispatch sends the request and calls exactly one handler with the outcome.
// The returned error reports a request that could not be sent.
func (c *Client) dispatch(ctx context.Context, method Method, rawURL string, payload any, h Handlers) error {
	if h.Error == nil {
		return ErrNoErrorHandler
	}

	req, err := c.prepare(ctx, method, rawURL, payload)
	if err != nil {
		return err
	}

	resp, ajaxErr := c.execute(req, method)
	if ajaxErr != nil {
		h.Error(ajaxErr)
		return nil
	}
	if h.Success != nil {
		h.Success(resp)
	}
	return nil
}

// prepare builds the HTTP request for method, rawURL and payload
func (c *Client) prepare(ctx context.Context, method Method, rawURL string, payload any) (*http.Request, error) {
	if !method.valid() {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedMethod, method)
	}
	ref, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("parsing url: %w", err)
	}

	// The query is kept out of sling so it is sent exactly as given.
	rawQuery := ref.RawQuery
	ref.RawQuery = ""
	ref.ForceQuery = false
	ref.Fragment = ""
	ref.RawFragment = ""
	target := ref.String()

	s := c.base.New()
	if method == MethodGet {
		q, err := encodeQuery(payload)
		if err != nil {
			return nil, err
		}
		rawQuery = joinQuery(rawQuery, q)
	} else {
		body, err := encodeBody(payload)
		if err != nil {
			return nil, err
		}
		if body != nil {
			s = s.Body(body)
		}
	}

	switch method {
	case MethodGet:
		s = s.Get(target)
	case MethodPost:
		s = s.Post(target)
	case MethodPut:
		s = s.Put(target)
	case MethodDelete:
		s = s.Delete(target)
	}

	req, err := s.Request()
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	if !req.URL.IsAbs() || req.URL.Host == "" {
		return nil, fmt.Errorf("%w: %q", ErrRelativeURL, rawURL)
	}
	req.URL.RawQuery = rawQuery
	return req.WithContext(ctx), nil
}

// execute sends req and classifies the reply
func (c *Client) execute(req *http.Request, method Method) (*Response, *Error) {
	start := time.Now()

	var success, failure []byte
	httpResp, err := c.base.Do(req, &success, &failure)

	var (
		resp    *Response
		ajaxErr *Error
	)
	switch {
	case err != nil:
		ajaxErr = newTransportError(method, req.URL.String(), httpResp, err)
	case httpResp.StatusCode < 200 || httpResp.StatusCode > 299:
		ajaxErr = newStatusError(method, req.URL.String(), httpResp, failure)
	default:
		resp, ajaxErr = newResponse(method, req.URL.String(), httpResp, success)
	}

	duration := time.Since(start)
	if ajaxErr != nil {
		c.metrics.ObserveRequest(string(method), metrics.OutcomeError, duration)
		c.logger.Warn("ajax request failed",
			zap.String("method", string(method)),
			zap.String("url", req.URL.String()),
			zap.Int("status", ajaxErr.StatusCode),
			zap.Duration("duration", duration),
			zap.String("message", ajaxErr.Message))
		return nil, ajaxErr
	}

	c.metrics.ObserveRequest(string(method), metrics.OutcomeSuccess, duration)
	c.logger.Debug("ajax request",
		zap.String("method", string(method)),
		zap.String("url", req.URL.String()),
		zap.Int("status", resp.StatusCode),
		zap.Duration("duration", duration))
	return resp, nil
}
