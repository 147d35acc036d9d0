package cmd

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	nxerror "github.com/nexusroot/nexus/foundation/core/error"
)

var (
	playerVIP        bool
	historyLimit     int
	leaderboardLimit int
)

var playerCmd = &cobra.Command{
	Use:   "player",
	Short: "Manage players",
}

var playerCreateCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "Create a player",
	Args:  cobra.ExactArgs(1),
	RunE: withApp(func(ctx context.Context, a *app, args []string) error {
		p, err := a.players.Create(ctx, args[0], playerVIP)
		if err != nil {
			return err
		}
		fmt.Printf("Player %s created (id %s, %d C)\n", p.Name, p.ID, p.Credits())
		return nil
	}),
}

var playerListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all players",
	RunE: withApp(func(ctx context.Context, a *app, args []string) error {
		list, err := a.players.List(ctx)
		if err != nil {
			return err
		}
		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "NAME\tLEVEL\tCREDITS\tVIP\tONLINE\tCOMMANDS")
		for _, s := range list {
			fmt.Fprintf(w, "%s\t%d\t%d\t%v\t%v\t%d\n", s.Name, s.Level, s.Credits, s.VIP, s.Online, s.Commands)
		}
		return w.Flush()
	}),
}

var playerShowCmd = &cobra.Command{
	Use:   "show <name>",
	Short: "Show a player's progress and commands",
	Args:  cobra.ExactArgs(1),
	RunE: withApp(func(ctx context.Context, a *app, args []string) error {
		p, err := a.players.GetByName(ctx, args[0])
		if err != nil {
			return err
		}
		s := p.Stats()
		fmt.Printf("Player:   %s (%s)\n", p.Name, p.ID)
		fmt.Printf("Level:    %d (XP %d/%d)\n", s.Level, s.Experience, s.RequiredXP())
		fmt.Printf("Credits:  %d C\n", s.Credits)
		fmt.Printf("VIP:      %v\n", p.VIP)
		fmt.Printf("Theme:    %s\n", p.Settings().Theme)
		fmt.Println("Commands:")
		for _, c := range a.engine.GetAvailableCommands(p) {
			mark := " "
			if !c.Available {
				mark = "x"
			}
			line := fmt.Sprintf("  [%s] %-15s %s", mark, c.Name, c.Syntax)
			if c.Reason != "" {
				line += "  (" + c.Reason + ")"
			}
			fmt.Println(line)
		}
		return nil
	}),
}

var playerDeleteCmd = &cobra.Command{
	Use:   "delete <name>",
	Short: "Delete a player and its history",
	Args:  cobra.ExactArgs(1),
	RunE: withApp(func(ctx context.Context, a *app, args []string) error {
		if err := a.players.Delete(ctx, args[0]); err != nil {
			return err
		}
		fmt.Printf("Player %s deleted\n", args[0])
		return nil
	}),
}

var playerHistoryCmd = &cobra.Command{
	Use:   "history <name>",
	Short: "Show the latest commands of a player",
	Args:  cobra.ExactArgs(1),
	RunE: withApp(func(ctx context.Context, a *app, args []string) error {
		if a.store == nil {
			return nxerror.New("history needs a database (database.path is :memory:)", nxerror.CodeConfig)
		}
		p, err := a.players.GetByName(ctx, args[0])
		if err != nil {
			return err
		}
		entries, err := a.store.History(ctx, p.ID, historyLimit)
		if err != nil {
			return err
		}
		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "TIME\tCOMMAND\tOK\tMS\tERROR")
		for _, e := range entries {
			fmt.Fprintf(w, "%s\t%s\t%v\t%s\t%s\n", e.ExecutedAt.Local().Format("2006-01-02 15:04:05"),
				e.Command, e.Success, strconv.FormatFloat(e.DurationMS, 'f', 1, 64), e.Error)
		}
		return w.Flush()
	}),
}

var playerLeaderboardCmd = &cobra.Command{
	Use:   "leaderboard",
	Short: "Show the top players by level and credits",
	RunE: withApp(func(ctx context.Context, a *app, args []string) error {
		if a.store == nil {
			return nxerror.New("leaderboard needs a database (database.path is :memory:)", nxerror.CodeConfig)
		}
		top, err := a.store.Leaderboard(ctx, leaderboardLimit)
		if err != nil {
			return err
		}
		for i, r := range top {
			fmt.Printf("%2d. %-20s L%-3d %d C\n", i+1, r.Name, r.Stats.Level, r.Stats.Credits)
		}
		return nil
	}),
}

func init() {
	rootCmd.AddCommand(playerCmd)
	playerCmd.AddCommand(playerCreateCmd, playerListCmd, playerShowCmd, playerDeleteCmd,
		playerHistoryCmd, playerLeaderboardCmd)

	playerCreateCmd.Flags().BoolVar(&playerVIP, "vip", false, "grant VIP access")
	playerHistoryCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "number of entries")
	playerLeaderboardCmd.Flags().IntVarP(&leaderboardLimit, "limit", "n", 10, "number of players")
}

// withApp wires the game for a one-shot subcommand
func withApp(fn func(ctx context.Context, a *app, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		a, err := newApp(false)
		if err != nil {
			printError("startup failed", err)
			return err
		}
		defer a.Close()

		if err := fn(cmd.Context(), a, args); err != nil {
			printError(cmd.Name(), err)
			return err
		}
		return nil
	}
}
