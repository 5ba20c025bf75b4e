package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fivetwenty-io/gerrit-client/internal/constants"
)

// NewAccountsCommand creates the accounts command group.
func NewAccountsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "accounts",
		Aliases: []string{"account"},
		Short:   "Inspect accounts",
	}

	cmd.AddCommand(newAccountsActiveCommand())

	return cmd
}

func newAccountsActiveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "active ACCOUNT",
		Short: "Check whether an account is active",
		Long: `Check whether an account is active. ACCOUNT may be a numeric ID, a
username, an email address, or "self". Exits non-zero when inactive.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := createClient(cmd)
			if err != nil {
				return err
			}

			active, err := client.IsActive(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("failed to check account: %w", err)
			}

			result := map[string]interface{}{
				"account": args[0],
				"active":  active,
			}

			format, err := outputFormat()
			if err != nil {
				return err
			}

			switch format {
			case constants.FormatJSON:
				err = writeJSON(cmd.OutOrStdout(), result)
			case constants.FormatYAML:
				err = writeYAML(cmd.OutOrStdout(), result)
			default:
				_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", args[0], yesNo(active))
			}

			if err != nil {
				return err
			}

			if !active {
				return fmt.Errorf("%w: %s", constants.ErrAccountInactive, args[0])
			}

			return nil
		},
	}
}
