// Command get-console pulls the console log for a Jenkins pipeline run and
// saves it to a file.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/temurin-build/pipeline-tools/internal/config"
	"github.com/temurin-build/pipeline-tools/internal/jenkins"
	"github.com/temurin-build/pipeline-tools/internal/logging"
)

var (
	serverURL    string
	username     string
	token        string
	tokenFile    string
	pipelineName string
	runNumber    int
	outputPath   string
)

var rootCmd = &cobra.Command{
	Use:   "get-console",
	Short: "Pull the console log for a Jenkins pipeline run",
	Example: `  get-console --token-file token.txt --pipeline-name "release-openjdk21-pipeline" --run-number 48 --output console.log
  get-console --token "api-token" --username jenkins-user --url https://ci.adoptium.net/ \
    --pipeline-name "build-scripts/release-openjdk21-pipeline" --run-number 48 --output logs/console_48.log`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return run(cmd.Context())
	},
}

func init() {
	cfg := config.Load()

	rootCmd.Flags().StringVar(&serverURL, "url", cfg.Jenkins.URL, "Jenkins server URL")
	rootCmd.Flags().StringVar(&username, "username", cfg.Jenkins.Username, "Jenkins username")
	rootCmd.Flags().StringVar(&token, "token", "", "Jenkins API token")
	rootCmd.Flags().StringVar(&tokenFile, "token-file", "", "path to file containing the Jenkins API token")
	rootCmd.Flags().StringVar(&pipelineName, "pipeline-name", "", `pipeline name, e.g. "release-openjdk21-pipeline" or "build-scripts/release-openjdk21-pipeline"`)
	rootCmd.Flags().IntVar(&runNumber, "run-number", 0, "pipeline run number")
	rootCmd.Flags().StringVar(&outputPath, "output", "", "output file path for the console log")
	rootCmd.MarkFlagRequired("pipeline-name")
	rootCmd.MarkFlagRequired("run-number")
	rootCmd.MarkFlagRequired("output")
	rootCmd.MarkFlagsOneRequired("token", "token-file")
	rootCmd.MarkFlagsMutuallyExclusive("token", "token-file")
}

func run(ctx context.Context) error {
	logging.Init(logging.ParseLevel(os.Getenv("PIPELINE_TOOLS_LOG_LEVEL")))

	apiToken := token
	if tokenFile != "" {
		var err error
		apiToken, err = config.ReadToken(tokenFile)
		if err != nil {
			return err
		}
	}
	if apiToken == "" {
		return fmt.Errorf("API token is empty")
	}
	if runNumber < 1 {
		return fmt.Errorf("run number must be a positive integer")
	}

	slog.Info("retrieving console log",
		"server", serverURL, "pipeline", pipelineName, "run", runNumber)

	client := jenkins.New(serverURL, username, apiToken, jenkins.WithTimeout(config.Load().Jenkins.Timeout))
	console, err := client.ConsoleText(ctx, pipelineName, runNumber)
	if err != nil {
		return err
	}

	if dir := filepath.Dir(outputPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create output directory: %w", err)
		}
	}
	if err := os.WriteFile(outputPath, []byte(console), 0644); err != nil {
		return fmt.Errorf("write output file %s: %w", outputPath, err)
	}

	slog.Info("console log written", "path", outputPath, "bytes", len(console))
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
