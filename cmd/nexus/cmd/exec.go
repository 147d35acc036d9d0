package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	nxerror "github.com/nexusroot/nexus/foundation/core/error"
)

var execJSON bool

var execCmd = &cobra.Command{
	Use:   "exec <player> <command line...>",
	Short: "Run one command line as a player",
	Example: `  nexus exec neo ls -la
  nexus exec neo cat log.txt
  nexus exec neo --json scan 10.0.0.1`,
	Args: cobra.MinimumNArgs(2),
	RunE: runExec,
}

func init() {
	rootCmd.AddCommand(execCmd)
	execCmd.Flags().BoolVar(&execJSON, "json", false, "print the full result as JSON")
	execCmd.Flags().SetInterspersed(false)
}

func runExec(cmd *cobra.Command, args []string) error {
	a, err := newApp(false)
	if err != nil {
		printError("startup failed", err)
		return err
	}
	defer a.Close()

	res := a.engine.Execute(context.Background(), args[0], strings.Join(args[1:], " "))
	if execJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		enc.Encode(res)
	} else if res.Success {
		fmt.Println(res.Output)
	} else {
		fmt.Fprintln(os.Stderr, res.Error)
	}
	if !res.Success {
		return nxerror.New(res.Error, nxerror.Code(res.Code))
	}
	return nil
}
