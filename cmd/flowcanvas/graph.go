package main

import (
	"context"
	"os"

	"github.com/aretw0/flowcanvas/internal/cli"
	"github.com/spf13/cobra"
)

// graphCmd represents the graph command
var graphCmd = &cobra.Command{
	Use:   "graph [script]",
	Short: "Export the canvas visualization",
	Long: `Prints a Mermaid diagram (graph LR) or an SVG drawing of the canvas a script
produces. Without a script the welcome flow is drawn.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := bootstrap(cmd)
		if err != nil {
			return err
		}
		output, _ := cmd.Flags().GetString("output")
		format, err := cli.ParseFormat(output)
		if err != nil {
			return err
		}

		if len(args) == 0 {
			env.Demo = true
			ed, err := env.NewEditor()
			if err != nil {
				return err
			}
			defer ed.Close()
			return cli.Printer{Format: format, Viewport: env.Config.Viewport()}.Print(os.Stdout, ed.Snapshot())
		}
		return cli.Play(context.Background(), env, cli.PlayOptions{ScriptPath: args[0], Format: format}, os.Stdout)
	},
}

func init() {
	rootCmd.AddCommand(graphCmd)
	graphCmd.Flags().StringP("output", "o", "mermaid", "Output format: mermaid or svg")
}
