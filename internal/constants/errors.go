package constants

import "errors"

// Configuration errors.
var (
	ErrNoURLConfigured  = errors.New("no Gerrit URL configured, use 'gerrit config set url <URL>' or --url")
	ErrUnknownConfigKey = errors.New("unknown configuration key")
	ErrInvalidBool      = errors.New("invalid boolean value")
	ErrInvalidPolicy    = errors.New("read-only policy must be 'compat' or 'strict'")
)

// Output errors.
var (
	ErrUnsupportedOutput = errors.New("unsupported output format")
)

// Command errors.
var (
	ErrBranchNotDeleted = errors.New("branch was not deleted")
	ErrBranchNotCreated = errors.New("branch was not created")
	ErrAccountInactive  = errors.New("account is not active")
)
