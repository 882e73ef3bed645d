package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/float-ritual-stack/float-liner/internal/commands"
)

var importCmd = &cobra.Command{
	Use:   "import <path>",
	Short: "Ingest a markdown file as a block tree under the document root",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		msg := commands.ImportFileCommand{Path: args[0]}
		if err := app.ImportHandler().Execute(cmd.Context(), msg); err != nil {
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
	rootCmd.AddCommand(importCmd)
}
