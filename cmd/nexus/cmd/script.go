package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	nxerror "github.com/nexusroot/nexus/foundation/core/error"
	"github.com/nexusroot/nexus/foundation/nexusscript/parser"
)

var scriptParseOnly bool

var scriptCmd = &cobra.Command{
	Use:   "script <player> <file> [args...]",
	Short: "Run a NexusScript file as a player",
	Long: `Run a NexusScript file in the player's session. Arguments are bound
to $1..$n. With --parse the file is only parsed and printed back in
canonical form.`,
	Args: cobra.MinimumNArgs(2),
	RunE: runScript,
}

func init() {
	rootCmd.AddCommand(scriptCmd)
	scriptCmd.Flags().BoolVar(&scriptParseOnly, "parse", false, "parse and print the program without running it")
}

func runScript(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[1])
	if err != nil {
		printError("cannot read script", err)
		return err
	}
	source := string(data)

	if scriptParseOnly {
		program, errs := parser.Parse(source, parser.Options{})
		if len(errs) > 0 {
			fmt.Fprintln(os.Stderr, parser.FormatErrors(errs))
			return nxerror.New("script does not parse", nxerror.CodeParse)
		}
		fmt.Println(program.String())
		return nil
	}

	a, err := newApp(false)
	if err != nil {
		printError("startup failed", err)
		return err
	}
	defer a.Close()

	ctx := context.Background()
	p, err := a.players.GetByName(ctx, args[0])
	if err != nil {
		printError("cannot open player", err)
		return err
	}

	r := a.engine.Sessions().Session(p).RunModule(ctx, source, args[2:])
	if text := r.Text(); text != "" {
		if r.Failed() {
			fmt.Fprintln(os.Stderr, text)
		} else {
			fmt.Println(text)
		}
	}
	if r.Failed() {
		return nxerror.New("script failed", nxerror.CodeScriptExecution)
	}
	return nil
}
