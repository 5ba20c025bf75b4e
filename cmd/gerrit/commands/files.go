package commands

import (
	"fmt"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/fivetwenty-io/gerrit-client/internal/constants"
)

// statusModified is what Gerrit means when a file entry has no status.
const statusModified = "M"

// NewFilesCommand creates the files command.
func NewFilesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "files PROJECT COMMIT",
		Short: "List files touched by a commit",
		Long:  "List the files modified, added, or deleted by a commit of a project",
		Args:  cobra.ExactArgs(constants.MinimumArgumentCount),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := createClient(cmd)
			if err != nil {
				return err
			}

			files, err := client.Commits().ListFileInfos(cmd.Context(), args[0], args[1])
			if err != nil {
				return fmt.Errorf("failed to list files: %w", err)
			}

			return render(cmd.OutOrStdout(), files, func(table *tablewriter.Table) {
				table.Header("Path", "Status", "Inserted", "Deleted", "Size Delta")

				for path, file := range files.All() {
					status := file.Status
					if status == "" {
						status = statusModified
					}

					_ = table.Append(
						path,
						status,
						strconv.Itoa(file.LinesInserted),
						strconv.Itoa(file.LinesDeleted),
						strconv.FormatInt(file.SizeDelta, 10),
					)
				}
			})
		},
	}
}
