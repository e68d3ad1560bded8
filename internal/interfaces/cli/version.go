package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/turtacn/sabdamanthan/internal/inference"
)

// NewVersionCmd creates the version command.
func NewVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			info := BuildInfo{
				Version:       Version,
				Commit:        GitCommit,
				BuildDate:     BuildDate,
				ClientVersion: inference.Version,
			}
			if cliCtx, err := GetCLIContext(cmd); err == nil && cliCtx.OutputFormat == OutputJSON {
				return printJSON(cmd, info)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "sabdamanthan %s (commit: %s, built: %s, inference client %s)\n",
				info.Version, info.Commit, info.BuildDate, info.ClientVersion)
			return nil
		},
	}
}
