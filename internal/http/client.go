// Package http is the transport layer of the Gerrit client. It resolves
// endpoints against the server URL, applies credentials and standard
// headers, and returns raw responses for the decoder.
package http

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync/atomic"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/fivetwenty-io/gerrit-client/internal/auth"
	"github.com/fivetwenty-io/gerrit-client/internal/constants"
	"github.com/fivetwenty-io/gerrit-client/pkg/gerrit"
)

const tracerName = "github.com/fivetwenty-io/gerrit-client"

// Request describes one call to the server.
type Request struct {
	Method string
	// Path is resolved against the base URL; see ResolveURL.
	Path  string
	Query url.Values
	// Body is JSON encoded when set.
	Body interface{}
	// Form is sent as an application/x-www-form-urlencoded body when set and
	// Body is nil.
	Form    url.Values
	Headers map[string]string
}

// Response is the raw result of a call. Any status code is a valid response.
type Response struct {
	StatusCode int
	Headers    http.Header
	Body       []byte
}

type loggerBox struct {
	logger gerrit.Logger
}

// Client sends requests to one Gerrit server.
type Client struct {
	baseURL      *url.URL
	baseErr      error
	httpClient   *retryablehttp.Client
	credentials  auth.CredentialsProvider
	logger       atomic.Pointer[loggerBox]
	debug        bool
	userAgent    string
	interceptors *gerrit.InterceptorChain
	tracer       trace.Tracer
}

// Option configures a Client.
type Option func(*Client)

// WithLogger sets the logger.
func WithLogger(logger gerrit.Logger) Option {
	return func(c *Client) {
		c.SetLogger(logger)
	}
}

// WithDebug enables request and response logging and marks every request
// with the debug metadata flag.
func WithDebug(debug bool) Option {
	return func(c *Client) {
		c.debug = debug
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(userAgent string) Option {
	return func(c *Client) {
		if userAgent != "" {
			c.userAgent = userAgent
		}
	}
}

// WithRetryConfig sets the retry configuration of the transport.
func WithRetryConfig(maxRetries int, minWait, maxWait time.Duration) Option {
	return func(c *Client) {
		c.httpClient.RetryMax = maxRetries
		c.httpClient.RetryWaitMin = minWait
		c.httpClient.RetryWaitMax = maxWait
	}
}

// WithTimeout bounds every request. Zero leaves requests unbounded.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.httpClient.HTTPClient.Timeout = timeout
		}
	}
}

// WithInterceptors runs chain around every request.
func WithInterceptors(chain *gerrit.InterceptorChain) Option {
	return func(c *Client) {
		c.interceptors = chain
	}
}

// WithTracerProvider starts a client span per request from provider.
func WithTracerProvider(provider trace.TracerProvider) Option {
	return func(c *Client) {
		if provider != nil {
			c.tracer = provider.Tracer(tracerName)
		}
	}
}

// NewClient creates a client for the server at baseURL. credentials may be
// nil for anonymous access.
func NewClient(baseURL string, credentials auth.CredentialsProvider, opts ...Option) *Client {
	retryClient := retryablehttp.NewClient()
	retryClient.RetryMax = 0
	retryClient.RetryWaitMin = constants.DefaultRetryWaitMin
	retryClient.RetryWaitMax = constants.DefaultRetryWaitMax
	// Every status code is handed back to the caller.
	retryClient.ErrorHandler = retryablehttp.PassthroughErrorHandler

	client := &Client{
		httpClient:  retryClient,
		credentials: credentials,
		userAgent:   constants.DefaultUserAgent,
		tracer:      noop.NewTracerProvider().Tracer(tracerName),
	}
	client.logger.Store(&loggerBox{logger: gerrit.NoOpLogger{}})
	retryClient.Logger = &leveledLogger{client: client}

	client.baseURL, client.baseErr = url.Parse(NormalizeBaseURL(baseURL))

	for _, opt := range opts {
		opt(client)
	}

	return client
}

// SetLogger replaces the logger. A nil logger discards everything.
func (c *Client) SetLogger(logger gerrit.Logger) {
	if logger == nil {
		logger = gerrit.NoOpLogger{}
	}

	c.logger.Store(&loggerBox{logger: logger})
}

// Logger returns the current logger.
func (c *Client) Logger() gerrit.Logger {
	return c.logger.Load().logger
}

// BaseURL returns the normalized server URL.
func (c *Client) BaseURL() string {
	if c.baseURL == nil {
		return ""
	}

	return c.baseURL.String()
}

// Do sends req and returns the raw response. An error is returned only when
// no response was received or the request could not be built.
func (c *Client) Do(ctx context.Context, req *Request) (*Response, error) {
	intercepted, err := c.buildRequest(req)
	if err != nil {
		return nil, err
	}

	err = c.interceptors.ExecuteRequestInterceptors(ctx, intercepted)
	if err != nil {
		return nil, err
	}

	ctx, span := c.tracer.Start(ctx, "gerrit "+intercepted.Method,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.request.method", intercepted.Method),
			attribute.String("url.full", redactURL(intercepted.URL)),
		),
	)
	defer span.End()

	resp, sendErr := c.send(ctx, intercepted)

	interceptedResp := &gerrit.Response{Error: sendErr}
	if resp != nil {
		interceptedResp.StatusCode = resp.StatusCode
		interceptedResp.Headers = resp.Headers
		interceptedResp.Body = resp.Body

		span.SetAttributes(attribute.Int("http.response.status_code", resp.StatusCode))
	}

	if sendErr != nil {
		span.RecordError(sendErr)
		span.SetStatus(codes.Error, sendErr.Error())
	}

	err = c.interceptors.ExecuteResponseInterceptors(ctx, intercepted, interceptedResp)
	if err != nil {
		return nil, err
	}

	if sendErr != nil {
		return nil, sendErr
	}

	return resp, nil
}

// Get performs a GET request.
func (c *Client) Get(ctx context.Context, path string, query url.Values) (*Response, error) {
	return c.Do(ctx, &Request{
		Method: http.MethodGet,
		Path:   path,
		Query:  query,
	})
}

// Post performs a POST request with a JSON body.
func (c *Client) Post(ctx context.Context, path string, body interface{}) (*Response, error) {
	return c.Do(ctx, &Request{
		Method: http.MethodPost,
		Path:   path,
		Body:   body,
	})
}

// PostForm performs a POST request with a form-encoded body.
func (c *Client) PostForm(ctx context.Context, path string, form url.Values) (*Response, error) {
	return c.Do(ctx, &Request{
		Method: http.MethodPost,
		Path:   path,
		Form:   form,
	})
}

// Put performs a PUT request with a JSON body.
func (c *Client) Put(ctx context.Context, path string, body interface{}) (*Response, error) {
	return c.Do(ctx, &Request{
		Method: http.MethodPut,
		Path:   path,
		Body:   body,
	})
}

// Delete performs a DELETE request.
func (c *Client) Delete(ctx context.Context, path string) (*Response, error) {
	return c.Do(ctx, &Request{
		Method: http.MethodDelete,
		Path:   path,
	})
}

func (c *Client) buildRequest(req *Request) (*gerrit.Request, error) {
	if c.baseErr != nil {
		return nil, fmt.Errorf("parsing base URL: %w", c.baseErr)
	}

	target, err := ResolveURL(c.baseURL, req.Path)
	if err != nil {
		return nil, err
	}

	if len(req.Query) > 0 {
		query := target.Query()

		for key, values := range req.Query {
			for _, value := range values {
				query.Add(key, value)
			}
		}

		target.RawQuery = query.Encode()
	}

	headers := make(http.Header)
	headers.Set(constants.HeaderAccept, constants.ContentTypeJSON)
	headers.Set(constants.HeaderAcceptEncoding, constants.EncodingGzip)
	headers.Set(constants.HeaderUserAgent, c.userAgent)

	var body []byte

	switch {
	case req.Body != nil:
		body, err = json.Marshal(req.Body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}

		headers.Set(constants.HeaderContentType, constants.ContentTypeJSON)
	case req.Form != nil:
		body = []byte(req.Form.Encode())

		headers.Set(constants.HeaderContentType, constants.ContentTypeForm)
	}

	for key, value := range req.Headers {
		headers.Set(key, value)
	}

	metadata := make(map[string]interface{})
	if c.debug {
		metadata[gerrit.MetadataDebug] = true
	}

	return &gerrit.Request{
		Method:   req.Method,
		URL:      target.String(),
		Headers:  headers,
		Body:     body,
		Metadata: metadata,
	}, nil
}

func (c *Client) send(ctx context.Context, req *gerrit.Request) (*Response, error) {
	var rawBody interface{}
	if len(req.Body) > 0 {
		rawBody = req.Body
	}

	httpReq, err := retryablehttp.NewRequestWithContext(ctx, req.Method, req.URL, rawBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	httpReq.Header = req.Headers.Clone()

	if c.credentials != nil {
		err = c.credentials.Apply(httpReq.Request)
		if err != nil {
			return nil, fmt.Errorf("applying credentials: %w", err)
		}
	}

	logger := c.Logger()

	if c.debug {
		logger.Debug("HTTP Request", map[string]interface{}{
			"method": req.Method,
			"url":    redactURL(req.URL),
		})
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, &gerrit.TransportError{Method: req.Method, URL: redactURL(req.URL), Err: err}
	}

	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &gerrit.TransportError{Method: req.Method, URL: redactURL(req.URL), Err: err}
	}

	if c.debug {
		logger.Debug("HTTP Response", map[string]interface{}{
			"status_code": resp.StatusCode,
			"url":         redactURL(req.URL),
			"size":        len(respBody),
		})
	}

	return &Response{
		StatusCode: resp.StatusCode,
		Headers:    resp.Header,
		Body:       respBody,
	}, nil
}

// redactURL drops any password embedded in raw.
func redactURL(raw string) string {
	parsed, err := url.Parse(raw)
	if err != nil {
		return raw
	}

	return parsed.Redacted()
}

// leveledLogger forwards transport warnings and errors to the client logger.
type leveledLogger struct {
	client *Client
}

func (l *leveledLogger) Error(msg string, keysAndValues ...interface{}) {
	l.client.Logger().Error(msg, toFields(keysAndValues))
}

func (l *leveledLogger) Warn(msg string, keysAndValues ...interface{}) {
	l.client.Logger().Warn(msg, toFields(keysAndValues))
}

func (l *leveledLogger) Info(string, ...interface{}) {}

func (l *leveledLogger) Debug(string, ...interface{}) {}

func toFields(keysAndValues []interface{}) map[string]interface{} {
	fields := make(map[string]interface{}, len(keysAndValues)/2)

	for i := 0; i+1 < len(keysAndValues); i += 2 {
		key := fmt.Sprint(keysAndValues[i])
		fields[key] = keysAndValues[i+1]
	}

	return fields
}

var _ retryablehttp.LeveledLogger = (*leveledLogger)(nil)
