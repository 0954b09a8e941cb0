package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/cuemby/ecsgo/pkg/ecslog"
)

var (
	Version = "dev"
	Commit  = "unknown"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "ecsdemo",
	Short: "ecsdemo runs and serves the ecs runtime's example scenarios",
	Long: `ecsdemo is a runnable harness around pkg/ecs: it builds a World,
registers systems, and drives the tick scheduler through a handful
of example scenarios, either as a one-shot bench report or as a
long-running HTTP service.`,
	Version: Version,
}

func init() {
	rootCmd.SetVersionTemplate(fmt.Sprintf("ecsdemo version %s (%s)\n", Version, Commit))

	rootCmd.PersistentFlags().String("log-level", "info", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().Bool("log-json", false, "Output logs in JSON format")

	cobra.OnInitialize(initLogging)

	rootCmd.AddCommand(benchCmd)
	rootCmd.AddCommand(serveCmd)
}

func initLogging() {
	level, _ := rootCmd.PersistentFlags().GetString("log-level")
	jsonOutput, _ := rootCmd.PersistentFlags().GetBool("log-json")

	ecslog.Init(ecslog.Config{
		Level:      ecslog.Level(level),
		JSONOutput: jsonOutput,
	})
}
