package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

var stateCmd = &cobra.Command{
	Use:   "state",
	Short: "Print the full document state as text",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		state, err := app.InitialState()
		if err != nil {
			return err
		}
		fmt.Println(state)
		return nil
	},
}

var jsonCmd = &cobra.Command{
	Use:   "json",
	Short: "Print the document as JSON (block map plus root ids)",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		snapshot, err := app.StateJSON()
		if err != nil {
			return err
		}
		out, err := json.MarshalIndent(snapshot, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(out))
		return nil
	},
}

var saveCmd = &cobra.Command{
	Use:   "save",
	Short: "Write the snapshot file",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := app.Save()
		if err != nil {
			return err
		}
		fmt.Println(path)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(stateCmd)
	rootCmd.AddCommand(jsonCmd)
	rootCmd.AddCommand(saveCmd)
}
