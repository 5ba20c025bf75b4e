package gerrit

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metadata keys set by the client on every Request.
const (
	MetadataDebug     = "debug"
	MetadataStartTime = "start_time"
)

// Request represents an HTTP request that can be intercepted.
type Request struct {
	Method string
	// URL is the fully resolved request URL.
	URL      string
	Headers  http.Header
	Body     []byte
	Metadata map[string]interface{}
}

// Response represents an HTTP response that can be intercepted.
type Response struct {
	StatusCode int
	Headers    http.Header
	Body       []byte
	Error      error
}

// RequestInterceptor is called before a request is sent.
type RequestInterceptor func(ctx context.Context, req *Request) error

// ResponseInterceptor is called after a response is received.
type ResponseInterceptor func(ctx context.Context, req *Request, resp *Response) error

// InterceptorChain manages a chain of interceptors.
type InterceptorChain struct {
	requestInterceptors  []RequestInterceptor
	responseInterceptors []ResponseInterceptor
}

// NewInterceptorChain creates a new interceptor chain.
func NewInterceptorChain() *InterceptorChain {
	return &InterceptorChain{
		requestInterceptors:  make([]RequestInterceptor, 0),
		responseInterceptors: make([]ResponseInterceptor, 0),
	}
}

// AddRequestInterceptor adds a request interceptor to the chain.
func (c *InterceptorChain) AddRequestInterceptor(interceptor RequestInterceptor) {
	c.requestInterceptors = append(c.requestInterceptors, interceptor)
}

// AddResponseInterceptor adds a response interceptor to the chain.
func (c *InterceptorChain) AddResponseInterceptor(interceptor ResponseInterceptor) {
	c.responseInterceptors = append(c.responseInterceptors, interceptor)
}

// ExecuteRequestInterceptors runs all request interceptors.
func (c *InterceptorChain) ExecuteRequestInterceptors(ctx context.Context, req *Request) error {
	if c == nil {
		return nil
	}

	for _, interceptor := range c.requestInterceptors {
		err := interceptor(ctx, req)
		if err != nil {
			return fmt.Errorf("request interceptor failed: %w", err)
		}
	}

	return nil
}

// ExecuteResponseInterceptors runs all response interceptors.
func (c *InterceptorChain) ExecuteResponseInterceptors(ctx context.Context, req *Request, resp *Response) error {
	if c == nil {
		return nil
	}

	for _, interceptor := range c.responseInterceptors {
		err := interceptor(ctx, req, resp)
		if err != nil {
			return fmt.Errorf("response interceptor failed: %w", err)
		}
	}

	return nil
}

// LoggingInterceptor logs requests.
func LoggingInterceptor(logger Logger) RequestInterceptor {
	return func(ctx context.Context, req *Request) error {
		logger.Debug("API Request", map[string]interface{}{
			"method": req.Method,
			"url":    req.URL,
		})

		return nil
	}
}

// LoggingResponseInterceptor logs responses.
func LoggingResponseInterceptor(logger Logger) ResponseInterceptor {
	return func(ctx context.Context, req *Request, resp *Response) error {
		fields := map[string]interface{}{
			"method":      req.Method,
			"url":         req.URL,
			"status_code": resp.StatusCode,
		}

		if resp.Error != nil {
			fields["error"] = resp.Error.Error()
			logger.Error("API Response Error", fields)
		} else {
			logger.Debug("API Response", fields)
		}

		return nil
	}
}

// HeaderInterceptor adds custom headers to requests.
func HeaderInterceptor(headers map[string]string) RequestInterceptor {
	return func(ctx context.Context, req *Request) error {
		if req.Headers == nil {
			req.Headers = make(http.Header)
		}

		for key, value := range headers {
			req.Headers.Set(key, value)
		}

		return nil
	}
}

// Metrics records request counts and latencies in Prometheus.
type Metrics struct {
	requests *prometheus.CounterVec
	latency  *prometheus.HistogramVec
}

// NewMetrics creates the collectors and registers them with registerer.
func NewMetrics(registerer prometheus.Registerer) (*Metrics, error) {
	metrics := &Metrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "gerrit_client",
			Name:      "requests_total",
			Help:      "Requests sent to the Gerrit server by method and status code.",
		}, []string{"method", "code"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "gerrit_client",
			Name:      "request_duration_seconds",
			Help:      "Latency of requests sent to the Gerrit server.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method"}),
	}

	for _, collector := range []prometheus.Collector{metrics.requests, metrics.latency} {
		err := registerer.Register(collector)
		if err != nil {
			return nil, fmt.Errorf("registering gerrit client metrics: %w", err)
		}
	}

	return metrics, nil
}

// Install adds the metrics interceptors to chain.
func (m *Metrics) Install(chain *InterceptorChain) {
	chain.AddRequestInterceptor(m.RequestInterceptor())
	chain.AddResponseInterceptor(m.ResponseInterceptor())
}

// RequestInterceptor records the request start time.
func (m *Metrics) RequestInterceptor() RequestInterceptor {
	return func(ctx context.Context, req *Request) error {
		if req.Metadata == nil {
			req.Metadata = make(map[string]interface{})
		}

		req.Metadata[MetadataStartTime] = time.Now()

		return nil
	}
}

// ResponseInterceptor counts the response and observes its latency.
func (m *Metrics) ResponseInterceptor() ResponseInterceptor {
	return func(ctx context.Context, req *Request, resp *Response) error {
		code := strconv.Itoa(resp.StatusCode)
		if resp.Error != nil {
			code = "error"
		}

		m.requests.WithLabelValues(req.Method, code).Inc()

		if startTime, ok := req.Metadata[MetadataStartTime].(time.Time); ok {
			m.latency.WithLabelValues(req.Method).Observe(time.Since(startTime).Seconds())
		}

		return nil
	}
}
