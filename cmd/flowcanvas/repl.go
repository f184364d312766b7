package main

import (
	"github.com/aretw0/flowcanvas/internal/cli"
	"github.com/spf13/cobra"
)

var replCmd = &cobra.Command{
	Use:   "repl",
	Short: "Edit a canvas interactively from the terminal",
	Long: `Reads one gesture per line (shorthand or a JSON event) and applies it to a
fresh canvas. Type 'help' for the list of gestures.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := bootstrap(cmd)
		if err != nil {
			return err
		}
		return cli.RunRepl(env)
	},
}

func init() {
	rootCmd.AddCommand(replCmd)

	// No subcommand means an interactive console.
	rootCmd.RunE = replCmd.RunE
}
