package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var vectorCmd = &cobra.Command{
	Use:   "vector",
	Short: "Print this replica's state vector as text",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		vector, err := app.StateVector()
		if err != nil {
			return err
		}
		fmt.Println(vector)
		return nil
	},
}

var diffCmd = &cobra.Command{
	Use:   "diff <state-vector>",
	Short: "Print the update a remote replica with the given vector is missing",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		diff, err := app.Diff(args[0])
		if err != nil {
			return err
		}
		fmt.Println(diff)
		return nil
	},
}

var applyCmd = &cobra.Command{
	Use:   "apply <update>",
	Short: "Merge a remote update and print the new full state",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		state, err := app.ApplyUpdate(args[0])
		if err != nil {
			return err
		}
		if err := persist(); err != nil {
			return err
		}
		fmt.Println(state)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(vectorCmd)
	rootCmd.AddCommand(diffCmd)
	rootCmd.AddCommand(applyCmd)
}
