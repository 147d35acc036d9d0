package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/nexusroot/nexus/internal/tui/shell"
)

var (
	shellCreate bool
	shellVIP    bool
)

var shellCmd = &cobra.Command{
	Use:   "shell <player>",
	Short: "Start the interactive game shell",
	Long: `Start the interactive terminal as <player>.

Keys:
  Enter       run the command line
  Up/Down     browse history
  PgUp/PgDn   scroll
  Ctrl+C      quit (or type exit)`,
	Args: cobra.ExactArgs(1),
	RunE: runShell,
}

func init() {
	rootCmd.AddCommand(shellCmd)
	shellCmd.Flags().BoolVar(&shellCreate, "create", false, "create the player if it does not exist")
	shellCmd.Flags().BoolVar(&shellVIP, "vip", false, "create the player with VIP access")
}

func runShell(cmd *cobra.Command, args []string) error {
	a, err := newApp(true)
	if err != nil {
		printError("startup failed", err)
		return err
	}
	defer a.Close()

	ctx := context.Background()
	p, err := a.player(ctx, args[0], shellCreate, shellVIP)
	if err != nil {
		printError("cannot open player", err)
		return err
	}
	if err := a.players.Login(ctx, p); err != nil {
		a.logger.Warn("Login failed", "player", p.Name, "error", err)
	}
	defer a.players.Logout(ctx, p)

	return shell.Run(shell.Config{Engine: a.engine, Player: p})
}
