package version

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lumishop/shopadmin/internal/shared/version"
)

func NewCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "shopadmin %s (commit %s)\n", version.Current(), version.Commit)
		},
	}
}
