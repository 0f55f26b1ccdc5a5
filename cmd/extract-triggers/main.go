// Command extract-triggers extracts remote trigger records from a Jenkins
// HTML console log and writes them to a JSON file.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/temurin-build/pipeline-tools/internal/htmltext"
	"github.com/temurin-build/pipeline-tools/internal/logging"
	"github.com/temurin-build/pipeline-tools/internal/report"
	"github.com/temurin-build/pipeline-tools/internal/trigger"
)

var (
	inputPath  string
	outputPath string
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:   "extract-triggers",
	Short: "Extract remote trigger records from a Jenkins HTML log",
	Long: `Parses a Jenkins HTML console log for remote trigger events (detailed
Parameterized Remote Trigger configuration blocks, bare remote-trigger
directives, and Eclipse Temurin AQA announcements) and writes the records
as a JSON document. Finding no triggers is a valid result, not an error.`,
	Example: `  extract-triggers -i jenkins.html.log -o triggers.json
  extract-triggers --input /path/to/log.html --output /path/to/triggers.json -V`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return run()
	},
}

func init() {
	rootCmd.Flags().StringVarP(&inputPath, "input", "i", "", "path to the Jenkins HTML log file")
	rootCmd.Flags().StringVarP(&outputPath, "output", "o", "", "path for the output JSON file")
	rootCmd.Flags().BoolVarP(&verbose, "verbose", "V", false, "enable verbose logging")
	rootCmd.MarkFlagRequired("input")
	rootCmd.MarkFlagRequired("output")
}

func run() error {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	logging.Init(level)

	slog.Debug("reading HTML log file", "path", inputPath)
	f, err := os.Open(inputPath)
	if err != nil {
		return fmt.Errorf("open input: %w", err)
	}
	defer f.Close()

	lines, err := htmltext.Lines(f)
	if err != nil {
		return fmt.Errorf("read %s: %w", inputPath, err)
	}

	slog.Debug("scanning transcript", "lines", len(lines))
	result := trigger.Extract(lines)

	// The summary goes out before the write so a failed write does not
	// swallow the result.
	slog.Info("extraction complete", "triggers", result.TotalTriggers)

	if err := report.Write(outputPath, result); err != nil {
		return err
	}

	slog.Debug("wrote results", "path", outputPath)
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
