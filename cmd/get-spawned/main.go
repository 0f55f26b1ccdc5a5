// Command get-spawned extracts the builds spawned during a Jenkins pipeline
// run from its plain-text console log.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/temurin-build/pipeline-tools/internal/logging"
	"github.com/temurin-build/pipeline-tools/internal/report"
	"github.com/temurin-build/pipeline-tools/internal/spawned"
)

var (
	inputPath  string
	outputPath string
)

var rootCmd = &cobra.Command{
	Use:   "get-spawned",
	Short: "Extract spawned pipeline builds from Jenkins console output",
	Example: `  get-spawned -i console_output.txt -o spawned_jobs.json
  get-spawned --input /path/to/console.txt --output /path/to/output.json`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return run()
	},
}

func init() {
	rootCmd.Flags().StringVarP(&inputPath, "input", "i", "", "path to the Jenkins console output file")
	rootCmd.Flags().StringVarP(&outputPath, "output", "o", "", "path for the output JSON file")
	rootCmd.MarkFlagRequired("input")
	rootCmd.MarkFlagRequired("output")
}

func run() error {
	logging.Init(logging.ParseLevel(os.Getenv("PIPELINE_TOOLS_LOG_LEVEL")))

	data, err := os.ReadFile(inputPath)
	if err != nil {
		return fmt.Errorf("read input: %w", err)
	}

	result := spawned.Parse(string(data))
	slog.Info("console output parsed", "spawned_builds", len(result.SpawnedBuilds))

	if err := report.Write(outputPath, result); err != nil {
		return err
	}
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
