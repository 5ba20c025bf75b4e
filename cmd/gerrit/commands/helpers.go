package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"syscall"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"
	"gopkg.in/yaml.v3"

	"github.com/fivetwenty-io/gerrit-client/internal/constants"
	"github.com/fivetwenty-io/gerrit-client/pkg/gerrit"
	"github.com/fivetwenty-io/gerrit-client/pkg/gerritclient"
)

// Common string constants used throughout the commands package.
const (
	NotAvailable = "N/A"
	Yes          = "yes"
	No           = "no"
	Masked       = "***"

	defaultJSONIndent = 2
)

// Viper keys shared by flags and the config file.
const (
	keyURL                     = "url"
	keyUsername                = "username"
	keyPassword                = "password"
	keyOutput                  = "output"
	keyVerbose                 = "verbose"
	keyDebug                   = "debug"
	keyReadOnly                = "read_only"
	keyReadOnlyPolicy          = "read_only_policy"
	keyAuthenticatedDeletePath = "authenticated_delete_path"
	keyLogFile                 = "log_file"
)

// createClient builds a Gerrit client from flags, environment, and the
// config file, prompting for a password when only a username is known.
func createClient(cmd *cobra.Command) (gerrit.Client, error) {
	serverURL := viper.GetString(keyURL)
	if serverURL == "" {
		return nil, constants.ErrNoURLConfigured
	}

	policy, err := parseReadOnlyPolicy(viper.GetString(keyReadOnlyPolicy))
	if err != nil {
		return nil, err
	}

	username := viper.GetString(keyUsername)
	password := viper.GetString(keyPassword)

	if username != "" && password == "" {
		password, err = promptPassword(cmd.ErrOrStderr())
		if err != nil {
			return nil, err
		}
	}

	logger := NewCLILogger(viper.GetBool(keyVerbose), viper.GetString(keyLogFile))

	client, err := gerritclient.New(&gerrit.Config{
		URL:                     serverURL,
		Username:                username,
		Password:                password,
		ReadOnly:                viper.GetBool(keyReadOnly),
		ReadOnlyPolicy:          policy,
		Debug:                   viper.GetBool(keyDebug),
		AuthenticatedDeletePath: viper.GetBool(keyAuthenticatedDeletePath),
		Logger:                  NewLogrusLogger(logger),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create client: %w", err)
	}

	return client, nil
}

func promptPassword(out io.Writer) (string, error) {
	if !term.IsTerminal(int(syscall.Stdin)) { //nolint:unconvert // syscall.Stdin is not an int on every platform
		return "", nil
	}

	_, _ = fmt.Fprint(out, "HTTP password: ")

	passwordBytes, err := term.ReadPassword(int(syscall.Stdin)) //nolint:unconvert // syscall.Stdin is not an int on every platform
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}

	_, _ = fmt.Fprintln(out)

	return string(passwordBytes), nil
}

func parseReadOnlyPolicy(value string) (gerrit.ReadOnlyPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", gerrit.ReadOnlyCompat.String():
		return gerrit.ReadOnlyCompat, nil
	case gerrit.ReadOnlyStrict.String():
		return gerrit.ReadOnlyStrict, nil
	default:
		return gerrit.ReadOnlyCompat, fmt.Errorf("%w: %s", constants.ErrInvalidPolicy, value)
	}
}

// outputFormat returns the selected output format, defaulting to table.
func outputFormat() (string, error) {
	format := strings.ToLower(viper.GetString(keyOutput))

	switch format {
	case "", constants.FormatTable:
		return constants.FormatTable, nil
	case constants.FormatJSON, constants.FormatYAML:
		return format, nil
	default:
		return "", fmt.Errorf("%w: %s", constants.ErrUnsupportedOutput, format)
	}
}

// render writes data as JSON or YAML, or calls table for the table format.
func render(out io.Writer, data interface{}, table func(*tablewriter.Table)) error {
	format, err := outputFormat()
	if err != nil {
		return err
	}

	switch format {
	case constants.FormatJSON:
		return writeJSON(out, data)
	case constants.FormatYAML:
		return writeYAML(out, data)
	default:
		writer := tablewriter.NewWriter(out)
		table(writer)

		err := writer.Render()
		if err != nil {
			return fmt.Errorf("failed to render table: %w", err)
		}

		return nil
	}
}

func writeJSON(out io.Writer, data interface{}) error {
	encoder := json.NewEncoder(out)
	encoder.SetIndent("", strings.Repeat(" ", defaultJSONIndent))

	err := encoder.Encode(data)
	if err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}

	return nil
}

func writeYAML(out io.Writer, data interface{}) error {
	encoder := yaml.NewEncoder(out)
	defer func() { _ = encoder.Close() }()

	err := encoder.Encode(data)
	if err != nil {
		return fmt.Errorf("failed to encode YAML: %w", err)
	}

	return nil
}

func yesNo(value bool) string {
	if value {
		return Yes
	}

	return No
}

func valueOrNA(value string) string {
	if value == "" {
		return NotAvailable
	}

	return value
}

// notice prints a message to stderr so it never mixes with JSON or YAML output.
func notice(cmd *cobra.Command, format string, args ...interface{}) {
	_, _ = fmt.Fprintf(cmd.ErrOrStderr(), format+"\n", args...)
}
