package main

import (
	"fmt"
	"os"

	"github.com/aretw0/flowcanvas/internal/cli"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "flowcanvas",
	Short: "flowcanvas is the headless core of a visual message-flow editor",
	Long: `flowcanvas keeps a canvas of message nodes and the connections between them,
driven by the same gestures a drag-and-drop editor produces. Replay gesture
scripts, edit interactively, or serve canvases over HTTP and MCP.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().String("config", "", "Config file (default ./flowcanvas.yaml when present)")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().String("log-format", "", "Log format: text or json")
	rootCmd.PersistentFlags().Bool("demo", false, "Start new canvases with the welcome flow")
}

// bootstrap builds the environment from the persistent flags.
func bootstrap(cmd *cobra.Command) (*cli.Env, error) {
	configPath, _ := cmd.Flags().GetString("config")
	level, _ := cmd.Flags().GetString("log-level")
	format, _ := cmd.Flags().GetString("log-format")
	demo, _ := cmd.Flags().GetBool("demo")

	return cli.Bootstrap(cli.Options{
		ConfigPath: configPath,
		LogLevel:   level,
		LogFormat:  format,
		Demo:       demo,
	})
}
