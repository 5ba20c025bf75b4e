package commands

import (
	"fmt"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/fivetwenty-io/gerrit-client/internal/constants"
	"github.com/fivetwenty-io/gerrit-client/pkg/gerrit"
)

// NewBranchesCommand creates the branches command group.
func NewBranchesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "branches",
		Aliases: []string{"branch", "br"},
		Short:   "Manage project branches",
		Long:    "List, inspect, create, and delete the branches of a Gerrit project",
	}

	cmd.AddCommand(newBranchesListCommand())
	cmd.AddCommand(newBranchesGetCommand())
	cmd.AddCommand(newBranchesCreateCommand())
	cmd.AddCommand(newBranchesDeleteCommand())

	return cmd
}

func newBranchesListCommand() *cobra.Command {
	var match, regex string

	cmd := &cobra.Command{
		Use:   "list PROJECT",
		Short: "List branches",
		Long:  "List the branches of a project in the order the server returns them",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := createClient(cmd)
			if err != nil {
				return err
			}

			var opts *gerrit.BranchListOptions
			if match != "" || regex != "" {
				opts = &gerrit.BranchListOptions{Match: match, Regex: regex}
			}

			branches, err := client.Branches().List(cmd.Context(), args[0], opts)
			if err != nil {
				return fmt.Errorf("failed to list branches: %w", err)
			}

			if branches.Len() == 0 {
				notice(cmd, "No branches found in %s", args[0])
			}

			return render(cmd.OutOrStdout(), branches, func(table *tablewriter.Table) {
				table.Header("Ref", "Revision", "Can Delete")

				for ref, branch := range branches.All() {
					_ = table.Append(ref, branch.Revision, yesNo(branch.CanDelete))
				}
			})
		},
	}

	cmd.Flags().StringVarP(&match, "match", "m", "", "only list refs containing this substring")
	cmd.Flags().StringVarP(&regex, "regex", "r", "", "only list refs matching this regular expression")

	return cmd
}

func newBranchesGetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get PROJECT REF",
		Short: "Get branch details",
		Long:  "Display the revision and links of a single branch",
		Args:  cobra.ExactArgs(constants.MinimumArgumentCount),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := createClient(cmd)
			if err != nil {
				return err
			}

			branch, err := client.Branches().Get(cmd.Context(), args[0], args[1])
			if err != nil {
				return fmt.Errorf("failed to get branch: %w", err)
			}

			return renderBranch(cmd, branch)
		},
	}
}

func newBranchesCreateCommand() *cobra.Command {
	var revision, message string

	cmd := &cobra.Command{
		Use:   "create PROJECT REF",
		Short: "Create a branch",
		Long:  "Create a branch, optionally starting at a revision other than HEAD",
		Args:  cobra.ExactArgs(constants.MinimumArgumentCount),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := createClient(cmd)
			if err != nil {
				return err
			}

			branch, err := client.Branches().Create(cmd.Context(), args[0], &gerrit.BranchInput{
				Ref:      args[1],
				Revision: revision,
				Message:  message,
			})
			if err != nil {
				return fmt.Errorf("failed to create branch: %w", err)
			}

			if branch == nil {
				notice(cmd, "Read-only mode: branch %s was not created", args[1])

				return nil
			}

			return renderBranch(cmd, branch)
		},
	}

	cmd.Flags().StringVar(&revision, "revision", "", "base revision of the new branch")
	cmd.Flags().StringVar(&message, "message", "", "message of the reflog entry")

	return cmd
}

func newBranchesDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete PROJECT REF [REF...]",
		Short: "Delete branches",
		Long: `Delete one or more branches. A single branch is deleted with one DELETE
request; several branches are deleted together in one request.`,
		Args: cobra.MinimumNArgs(constants.MinimumArgumentCount),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := createClient(cmd)
			if err != nil {
				return err
			}

			project, refs := args[0], args[1:]

			if len(refs) > 1 {
				err = client.Branches().DeleteMany(cmd.Context(), project, refs)
				if err != nil {
					return fmt.Errorf("failed to delete branches: %w", err)
				}

				if client.ReadOnly() {
					notice(cmd, "Read-only mode: %d branches were not deleted", len(refs))

					return nil
				}

				notice(cmd, "Deleted %d branches from %s", len(refs), project)

				return nil
			}

			deleted, err := client.Branches().Delete(cmd.Context(), project, refs[0])
			if err != nil {
				return fmt.Errorf("failed to delete branch: %w", err)
			}

			if !deleted {
				if client.ReadOnly() && viper.GetString(keyReadOnlyPolicy) == gerrit.ReadOnlyStrict.String() {
					notice(cmd, "Read-only mode: branch %s was not deleted", refs[0])

					return nil
				}

				return fmt.Errorf("%w: %s", constants.ErrBranchNotDeleted, refs[0])
			}

			notice(cmd, "Deleted branch %s from %s", refs[0], project)

			return nil
		},
	}
}

func renderBranch(cmd *cobra.Command, branch *gerrit.BranchInfo) error {
	return render(cmd.OutOrStdout(), branch, func(table *tablewriter.Table) {
		table.Header("Property", "Value")
		_ = table.Append("Ref", branch.Ref)
		_ = table.Append("Revision", branch.Revision)
		_ = table.Append("Can Delete", yesNo(branch.CanDelete))

		for _, link := range branch.WebLinks {
			_ = table.Append("Link: "+link.Name, link.URL)
		}
	})
}
