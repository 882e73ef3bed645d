package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/float-ritual-stack/float-liner/internal/commands"
)

var shCmd = &cobra.Command{
	Use:   "sh <block-id> <command...>",
	Short: "Run a shell command for a block and ingest its output",
	Long: `Run a command via the configured interpreter, rewrite the block as a
sh:: block with the exit status, and attach stdout/stderr as child block
trees. The new snapshot is written before the state is printed.`,
	Args: cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		msg := commands.ExecuteShellCommand{
			BlockID: args[0],
			Command: strings.Join(args[1:], " "),
		}
		if err := app.ShellHandler().Execute(cmd.Context(), msg); err != nil {
			return err
		}
		if err := persist(); err != nil {
			return err
		}
		state, err := app.InitialState()
		if err != nil {
			return err
		}
		fmt.Println(state)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(shCmd)
}
