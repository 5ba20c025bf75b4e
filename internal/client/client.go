package client

import (
	"context"
	nethttp "net/http"
	"net/url"
	"sync/atomic"

	"github.com/fivetwenty-io/gerrit-client/internal/auth"
	"github.com/fivetwenty-io/gerrit-client/internal/constants"
	"github.com/fivetwenty-io/gerrit-client/internal/http"
	"github.com/fivetwenty-io/gerrit-client/pkg/gerrit"
)

// Client implements the gerrit.Client interface.
type Client struct {
	httpClient *http.Client
	policy     gerrit.ReadOnlyPolicy
	readOnly   atomic.Bool
	// lastStatus is the status code of the most recent completed request.
	lastStatus atomic.Int32

	authenticatedDeletePath bool

	// Resource clients
	branches *BranchesClient
	accounts *AccountsClient
	commits  *CommitsClient
}

var _ gerrit.Client = (*Client)(nil)

// createHTTPClientOptions builds HTTP client options from config.
func createHTTPClientOptions(config *gerrit.Config) ([]http.Option, error) {
	httpOpts := []http.Option{
		http.WithLogger(config.Logger),
		http.WithDebug(config.Debug),
		http.WithUserAgent(config.UserAgent),
		http.WithTimeout(config.HTTPTimeout),
		http.WithTracerProvider(config.TracerProvider),
	}

	if config.RetryMax > 0 {
		retryWaitMin := constants.DefaultRetryWaitMin
		retryWaitMax := constants.DefaultRetryWaitMax

		if config.RetryWaitMin > 0 {
			retryWaitMin = config.RetryWaitMin
		}

		if config.RetryWaitMax > 0 {
			retryWaitMax = config.RetryWaitMax
		}

		httpOpts = append(httpOpts, http.WithRetryConfig(config.RetryMax, retryWaitMin, retryWaitMax))
	}

	chain, err := createInterceptorChain(config)
	if err != nil {
		return nil, err
	}

	if chain != nil {
		httpOpts = append(httpOpts, http.WithInterceptors(chain))
	}

	return httpOpts, nil
}

// createInterceptorChain runs the caller's interceptors first and the
// metrics interceptors last.
func createInterceptorChain(config *gerrit.Config) (*gerrit.InterceptorChain, error) {
	if config.MetricsRegisterer == nil {
		return config.Interceptors, nil
	}

	metrics, err := gerrit.NewMetrics(config.MetricsRegisterer)
	if err != nil {
		return nil, err
	}

	chain := gerrit.NewInterceptorChain()

	if config.Interceptors != nil {
		chain.AddRequestInterceptor(config.Interceptors.ExecuteRequestInterceptors)
		chain.AddResponseInterceptor(config.Interceptors.ExecuteResponseInterceptors)
	}

	metrics.Install(chain)

	return chain, nil
}

// New creates a Gerrit client from config. config.URL must already be
// normalized.
func New(config *gerrit.Config) (*Client, error) {
	if config == nil {
		return nil, gerrit.ErrConfigRequired
	}

	if config.URL == "" {
		return nil, gerrit.ErrURLRequired
	}

	httpOpts, err := createHTTPClientOptions(config)
	if err != nil {
		return nil, err
	}

	var credentials auth.CredentialsProvider
	if basic := auth.NewBasicAuth(config.Username, config.Password); basic != nil {
		credentials = basic
	}

	httpClient := http.NewClient(config.URL, credentials, httpOpts...)

	client := newClient(httpClient, config.ReadOnlyPolicy, config.AuthenticatedDeletePath)
	if config.ReadOnly {
		client.SetReadOnly()
	}

	return client, nil
}

func newClient(httpClient *http.Client, policy gerrit.ReadOnlyPolicy, authenticatedDeletePath bool) *Client {
	client := &Client{
		httpClient:              httpClient,
		policy:                  policy,
		authenticatedDeletePath: authenticatedDeletePath,
	}

	client.branches = NewBranchesClient(client)
	client.accounts = NewAccountsClient(client)
	client.commits = NewCommitsClient(client)

	return client
}

// Branches implements gerrit.Client.Branches.
func (c *Client) Branches() gerrit.BranchesClient {
	return c.branches
}

// Accounts implements gerrit.Client.Accounts.
func (c *Client) Accounts() gerrit.AccountsClient {
	return c.accounts
}

// Commits implements gerrit.Client.Commits.
func (c *Client) Commits() gerrit.CommitsClient {
	return c.commits
}

// SetReadOnly implements gerrit.Client.SetReadOnly.
func (c *Client) SetReadOnly() {
	c.readOnly.Store(true)
}

// ReadOnly implements gerrit.Client.ReadOnly.
func (c *Client) ReadOnly() bool {
	return c.readOnly.Load()
}

// SetLogger implements gerrit.Client.SetLogger.
func (c *Client) SetLogger(logger gerrit.Logger) {
	c.httpClient.SetLogger(logger)
}

func (c *Client) logger() gerrit.Logger {
	return c.httpClient.Logger()
}

// Get implements gerrit.RESTClient.Get.
func (c *Client) Get(ctx context.Context, endpoint string) (*gerrit.Value, error) {
	return c.get(ctx, endpoint, nil)
}

func (c *Client) get(ctx context.Context, endpoint string, query url.Values) (*gerrit.Value, error) {
	resp, err := c.do(c.httpClient.Get(ctx, endpoint, query))
	if err != nil {
		return nil, err
	}

	return c.decode(resp)
}

// Put implements gerrit.RESTClient.Put.
func (c *Client) Put(ctx context.Context, endpoint string, body interface{}) (bool, error) {
	resp, skipped, err := c.put(ctx, endpoint, body)
	if err != nil {
		return false, err
	}

	if skipped {
		if c.policy == gerrit.ReadOnlyStrict {
			return false, nil
		}

		return c.lastStatus.Load() == constants.HTTPStatusCreated, nil
	}

	return resp.StatusCode == constants.HTTPStatusCreated, nil
}

func (c *Client) put(ctx context.Context, endpoint string, body interface{}) (*http.Response, bool, error) {
	if c.skip(nethttp.MethodPut, endpoint) {
		return nil, true, nil
	}

	resp, err := c.do(c.httpClient.Put(ctx, endpoint, body))
	if err != nil {
		return nil, false, err
	}

	return resp, false, nil
}

// Post implements gerrit.RESTClient.Post.
func (c *Client) Post(ctx context.Context, endpoint string, params url.Values) (*gerrit.Value, error) {
	if c.skip(nethttp.MethodPost, endpoint) {
		return http.DecodeResponse(nil)
	}

	if params == nil {
		params = url.Values{}
	}

	resp, err := c.do(c.httpClient.PostForm(ctx, endpoint, params))
	if err != nil {
		return nil, err
	}

	return c.decode(resp)
}

// PostJSON implements gerrit.RESTClient.PostJSON.
func (c *Client) PostJSON(ctx context.Context, endpoint string, body interface{}) (*gerrit.Value, error) {
	if c.skip(nethttp.MethodPost, endpoint) {
		return http.DecodeResponse(nil)
	}

	resp, err := c.do(c.httpClient.Post(ctx, endpoint, body))
	if err != nil {
		return nil, err
	}

	return c.decode(resp)
}

// Delete implements gerrit.RESTClient.Delete.
func (c *Client) Delete(ctx context.Context, endpoint string) (bool, error) {
	if c.policy == gerrit.ReadOnlyStrict && c.skip(nethttp.MethodDelete, endpoint) {
		return false, nil
	}

	resp, err := c.do(c.httpClient.Delete(ctx, endpoint))
	if err != nil {
		return false, err
	}

	return resp.StatusCode == constants.HTTPStatusNoContent, nil
}

// IsActive implements gerrit.Client.IsActive.
func (c *Client) IsActive(ctx context.Context, accountID string) (bool, error) {
	return c.accounts.IsActive(ctx, accountID)
}

// skip reports whether a mutating call must be suppressed and logs it.
func (c *Client) skip(method, endpoint string) bool {
	if !c.ReadOnly() {
		return false
	}

	c.logger().Debug("skipping "+method, map[string]interface{}{
		"endpoint": endpoint,
		"policy":   c.policy.String(),
	})

	return true
}

// do records the status of a completed request.
func (c *Client) do(resp *http.Response, err error) (*http.Response, error) {
	if err != nil {
		return nil, err
	}

	c.lastStatus.Store(int32(resp.StatusCode)) //nolint:gosec // HTTP status codes fit in int32

	return resp, nil
}

func (c *Client) decode(resp *http.Response) (*gerrit.Value, error) {
	value, err := http.DecodeResponse(resp)
	if err != nil {
		return nil, err
	}

	c.logger().Debug("decoded response", map[string]interface{}{
		"status":           value.StatusCode,
		"content_type":     value.ContentType.MediaType,
		"charset":          value.ContentType.Charset,
		"content_encoding": value.Encoding,
	})

	return value, nil
}
