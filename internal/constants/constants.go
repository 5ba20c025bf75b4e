package constants

import "time"

// File and directory permissions.
const (
	// ConfigDirPerm is the permission for configuration directories.
	ConfigDirPerm = 0750

	// ConfigFilePerm is the permission for configuration files.
	ConfigFilePerm = 0600
)

// HTTP and network timeouts.
const (
	// DefaultRetryWaitMin is the minimum wait between transport retries.
	DefaultRetryWaitMin = 1 * time.Second

	// DefaultRetryWaitMax is the maximum wait time between retries.
	DefaultRetryWaitMax = 30 * time.Second
)

// HTTP status codes the client compares against.
const (
	// HTTPStatusOK is returned by the account active endpoint for active accounts.
	HTTPStatusOK = 200

	// HTTPStatusCreated is returned by a successful PUT.
	HTTPStatusCreated = 201

	// HTTPStatusNoContent is returned by a successful DELETE.
	HTTPStatusNoContent = 204
)

// Request headers.
const (
	HeaderAccept          = "Accept"
	HeaderAcceptEncoding  = "Accept-Encoding"
	HeaderContentType     = "Content-Type"
	HeaderContentEncoding = "Content-Encoding"
	HeaderUserAgent       = "User-Agent"

	ContentTypeJSON = "application/json"
	ContentTypeForm = "application/x-www-form-urlencoded"
	EncodingGzip    = "gzip"

	DefaultUserAgent = "gerrit-client-go"
)

// Endpoint templates. Project names and refs are query-escaped before use.
const (
	// EndpointBranches lists the branches of a project.
	EndpointBranches = "/a/projects/%s/branches/"

	// EndpointBranch addresses one branch of a project.
	EndpointBranch = "/a/projects/%s/branches/%s"

	// EndpointBranchUnauthenticated addresses one branch without the "/a/" prefix.
	EndpointBranchUnauthenticated = "/projects/%s/branches/%s"

	// EndpointBranchesDelete deletes several branches at once.
	EndpointBranchesDelete = "/a/projects/%s/branches:delete"

	// EndpointAccountActive reports whether an account is active.
	EndpointAccountActive = "/a/accounts/%s/active"

	// EndpointCommitFiles lists the files touched by a commit.
	EndpointCommitFiles = "/a/projects/%s/commits/%s/files/"
)

// Branch listing query parameters.
const (
	QueryParamMatch = "m"
	QueryParamRegex = "r"
)

// Output formats.
const (
	FormatJSON  = "json"
	FormatYAML  = "yaml"
	FormatTable = "table"
)

// CLI argument counts.
const (
	// MinimumArgumentCount is used by commands taking a key and a value.
	MinimumArgumentCount = 2
)

// CLI configuration.
const (
	// ConfigDirName is the directory under $HOME holding the CLI config.
	ConfigDirName = ".gerrit"

	// ConfigFileName is the config file name without extension.
	ConfigFileName = "config"

	// EnvPrefix prefixes environment variables read by the CLI.
	EnvPrefix = "GERRIT"

	// LogFileMaxSizeMB is the size at which the CLI log file is rotated.
	LogFileMaxSizeMB = 10

	// LogFileMaxBackups is the number of rotated log files kept.
	LogFileMaxBackups = 3

	// LogFileMaxAgeDays is the age after which rotated log files are removed.
	LogFileMaxAgeDays = 28
)
