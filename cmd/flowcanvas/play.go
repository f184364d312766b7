package main

import (
	"github.com/aretw0/flowcanvas/internal/cli"
	"github.com/spf13/cobra"
)

var playCmd = &cobra.Command{
	Use:   "play <script>",
	Short: "Replay a gesture script and print the resulting canvas",
	Long: `Feeds every event of a YAML or JSON script through a fresh editor and prints
the final canvas as a summary, Mermaid diagram, SVG or JSON snapshot.`,
	Args: cobra.ExactArgs(1),
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
		trace, _ := cmd.Flags().GetBool("trace")
		quiet, _ := cmd.Flags().GetBool("quiet")

		return cli.RunPlay(env, cli.PlayOptions{
			ScriptPath: args[0],
			Format:     format,
			Trace:      trace,
			Quiet:      quiet,
		})
	},
}

func init() {
	rootCmd.AddCommand(playCmd)

	playCmd.Flags().StringP("output", "o", "summary", "Output format: summary, mermaid, svg, json")
	playCmd.Flags().Bool("trace", false, "Print the diff of every step as a JSON line")
	playCmd.Flags().BoolP("quiet", "q", false, "Suppress system messages")
}
