package cmd

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/nexusroot/nexus/pkg/core/version"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("Nexus Root v%s\n", version.Platform)
		fmt.Printf("  Engine:      %s\n", version.Engine)
		fmt.Printf("  NexusScript: %s\n", version.Language)
		fmt.Printf("  Git Commit:  %s\n", version.Commit)
		fmt.Printf("  Build Date:  %s\n", version.BuildDate)
		fmt.Printf("  Go Version:  %s\n", runtime.Version())
		fmt.Printf("  OS/Arch:     %s/%s\n", runtime.GOOS, runtime.GOARCH)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
