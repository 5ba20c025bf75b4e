package gerrit

import (
	"context"
	"net/url"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel/trace"
)

// RESTClient provides the low-level verbs of the Gerrit REST API.
// Endpoints are resolved against the configured server URL.
type RESTClient interface {
	// Get issues a GET and returns the decoded body regardless of status code.
	Get(ctx context.Context, endpoint string) (*Value, error)
	// Put issues a PUT with a JSON body and reports whether the status was 201.
	Put(ctx context.Context, endpoint string, body interface{}) (bool, error)
	// Post issues a form-encoded POST and returns the decoded body.
	Post(ctx context.Context, endpoint string, params url.Values) (*Value, error)
	// PostJSON issues a POST with a JSON body and returns the decoded body.
	PostJSON(ctx context.Context, endpoint string, body interface{}) (*Value, error)
	// Delete issues a DELETE and reports whether the status was 204.
	Delete(ctx context.Context, endpoint string) (bool, error)
}

// BranchesClient provides access to the branches of a project.
type BranchesClient interface {
	List(ctx context.Context, project string, opts *BranchListOptions) (*OrderedMap[*BranchInfo], error)
	Get(ctx context.Context, project, ref string) (*BranchInfo, error)
	Create(ctx context.Context, project string, input *BranchInput) (*BranchInfo, error)
	CreateRef(ctx context.Context, project, ref string) (*BranchInfo, error)
	Delete(ctx context.Context, project, ref string) (bool, error)
	DeleteMany(ctx context.Context, project string, refs []string) error
}

// CommitsClient provides access to commit level endpoints of a project.
type CommitsClient interface {
	ListFiles(ctx context.Context, project, commit string) (*Value, error)
	ListFileInfos(ctx context.Context, project, commit string) (*OrderedMap[*FileInfo], error)
}

// AccountsClient provides access to account endpoints.
type AccountsClient interface {
	IsActive(ctx context.Context, accountID string) (bool, error)
}

// Client is the Gerrit REST API facade.
type Client interface {
	RESTClient

	Branches() BranchesClient
	Accounts() AccountsClient
	Commits() CommitsClient

	// IsActive reports whether the account's active endpoint answered 200.
	IsActive(ctx context.Context, accountID string) (bool, error)

	// SetReadOnly switches the client to read-only mode. There is no way back.
	SetReadOnly()
	ReadOnly() bool

	SetLogger(logger Logger)
}

// Logger interface for logging.
type Logger interface {
	Debug(msg string, fields map[string]interface{})
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, fields map[string]interface{})
}

// NoOpLogger discards everything.
type NoOpLogger struct{}

func (NoOpLogger) Debug(string, map[string]interface{}) {}
func (NoOpLogger) Info(string, map[string]interface{})  {}
func (NoOpLogger) Warn(string, map[string]interface{})  {}
func (NoOpLogger) Error(string, map[string]interface{}) {}

// ReadOnlyPolicy selects which verbs the read-only gate suppresses.
type ReadOnlyPolicy int

const (
	// ReadOnlyCompat gates PUT and POST only. DELETE still goes out, and a
	// skipped PUT reports whether the previous request of the client answered
	// 201.
	ReadOnlyCompat ReadOnlyPolicy = iota

	// ReadOnlyStrict gates PUT, POST, and DELETE. Skipped calls always report
	// false or an empty Value.
	ReadOnlyStrict
)

// String returns the policy name.
func (p ReadOnlyPolicy) String() string {
	switch p {
	case ReadOnlyCompat:
		return "compat"
	case ReadOnlyStrict:
		return "strict"
	default:
		return "unknown"
	}
}

// Config represents client configuration for building a gerrit.Client.
//
// # Authentication
//
// When Username is set, every request carries HTTP Basic credentials built
// from Username and Password. Gerrit expects the account's generated HTTP
// password here, not the login password.
//
// # Timeouts and retries
//
// The client performs no retries of its own: RetryMax defaults to 0. The
// retry knobs only tune the underlying transport for callers that want it.
// Per-request deadlines should be set through the context passed to each
// call; HTTPTimeout, when non-zero, bounds every request.
type Config struct {
	// URL: base URL of the Gerrit server including any path prefix
	// (e.g., "https://gerrit.example.com/r"). gerritclient.New adds
	// "https://" when no scheme is present and normalises the value to end
	// with exactly one "/".
	URL string

	// Username and Password for HTTP Basic authentication.
	Username string
	Password string

	// ReadOnly starts the client in read-only mode.
	ReadOnly bool
	// ReadOnlyPolicy selects the verbs gated by read-only mode.
	ReadOnlyPolicy ReadOnlyPolicy
	// Debug mirrors a debug flag into request metadata and enables request
	// and response logging.
	Debug bool

	// AuthenticatedDeletePath makes single-branch deletion use the
	// authenticated "/a/projects/..." path like every other call. It is off
	// by default, which keeps the historical "/projects/..." path.
	AuthenticatedDeletePath bool

	// Logger receives client logs. Defaults to NoOpLogger.
	Logger Logger
	// UserAgent overrides the default User-Agent header.
	UserAgent string

	HTTPTimeout  time.Duration
	RetryMax     int
	RetryWaitMin time.Duration
	RetryWaitMax time.Duration

	// Interceptors run around every request.
	Interceptors *InterceptorChain
	// MetricsRegisterer, when set, receives request counters and latency
	// histograms.
	MetricsRegisterer prometheus.Registerer
	// TracerProvider, when set, is used to start one client span per request.
	TracerProvider trace.TracerProvider
}
