package commands

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/spf13/cobra"

	"github.com/fivetwenty-io/gerrit-client/internal/constants"
)

// NewQueryCommand creates the query command.
func NewQueryCommand() *cobra.Command {
	var params []string

	cmd := &cobra.Command{
		Use:   "query ENDPOINT",
		Short: "Issue a raw GET against any endpoint",
		Long: `Issue a GET against any REST endpoint and print the decoded body.

The endpoint is resolved against the configured URL, so it keeps any path
prefix such as "/r". Responses that are not JSON are printed as-is.`,
		Example: `  gerrit query '/changes/?q=owner:self'
  gerrit query /a/projects/ --param d --param n=25`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := createClient(cmd)
			if err != nil {
				return err
			}

			endpoint, err := withParams(args[0], params)
			if err != nil {
				return err
			}

			value, err := client.Get(cmd.Context(), endpoint)
			if err != nil {
				return fmt.Errorf("failed to query %s: %w", endpoint, err)
			}

			if value.IsEmpty() {
				_, err = cmd.OutOrStdout().Write(value.Body)

				return err
			}

			format, err := outputFormat()
			if err != nil {
				return err
			}

			if format == constants.FormatYAML {
				return writeYAML(cmd.OutOrStdout(), value.Data)
			}

			return writeJSON(cmd.OutOrStdout(), value.Data)
		},
	}

	cmd.Flags().StringArrayVarP(&params, "param", "p", nil, "query parameter as KEY=VALUE or KEY (repeatable)")

	return cmd
}

// withParams appends KEY=VALUE and bare KEY parameters to the endpoint's
// query string, leaving what the caller wrote untouched.
func withParams(endpoint string, params []string) (string, error) {
	if len(params) == 0 {
		return endpoint, nil
	}

	parsed, err := url.Parse(endpoint)
	if err != nil {
		return "", fmt.Errorf("invalid endpoint %q: %w", endpoint, err)
	}

	pairs := make([]string, 0, len(params))

	for _, param := range params {
		key, value, hasValue := strings.Cut(param, "=")

		pair := url.QueryEscape(key)
		if hasValue {
			pair += "=" + url.QueryEscape(value)
		}

		pairs = append(pairs, pair)
	}

	if parsed.RawQuery != "" {
		parsed.RawQuery += "&"
	}

	parsed.RawQuery += strings.Join(pairs, "&")

	return parsed.String(), nil
}
