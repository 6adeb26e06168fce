package app

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
)

// Version is the build version, set with
// -ldflags "-X github.com/tsingmaoai/xw-tune/cmd/xw-tune/app.Version=v1.2.3"
var Version = "dev"

// NewVersionCommand creates the version command
func NewVersionCommand(globalOpts *GlobalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Display version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintf(cmd.OutOrStdout(), "xw-tune %s (%s, %s/%s)\n",
				Version, runtime.Version(), runtime.GOOS, runtime.GOARCH)
			return nil
		},
	}
}
