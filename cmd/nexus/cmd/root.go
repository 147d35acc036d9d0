package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "nexus",
	Short: "Nexus Root - hacker simulation and NexusScript engine",
	Long: `Nexus Root is a terminal hacking game. Players explore a virtual
filesystem, discover knowledge fragments that unlock commands and
automate their work with NexusScript modules.

Surfaces:
  shell   - interactive terminal for one player
  exec    - run a single command line
  script  - run a NexusScript file
  serve   - HTTP and WebSocket game server`,
	SilenceUsage: true,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./configs/config.toml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
}

func printError(msg string, err error) {
	fmt.Fprintf(os.Stderr, "Error: %s: %v\n", msg, err)
}
