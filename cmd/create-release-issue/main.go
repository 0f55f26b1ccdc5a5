// Command create-release-issue files a release-tracking GitHub issue with
// the standard platform status table.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/temurin-build/pipeline-tools/internal/config"
	"github.com/temurin-build/pipeline-tools/internal/github"
	"github.com/temurin-build/pipeline-tools/internal/logging"
	"github.com/temurin-build/pipeline-tools/internal/model"
)

var (
	month         string
	year          string
	version       string
	repoOwner     string
	repoName      string
	token         string
	tokenFile     string
	labels        string
	platformsFile string
	dryRun        bool
	verbose       bool
)

var rootCmd = &cobra.Command{
	Use:   "create-release-issue",
	Short: "Create a GitHub release-tracking issue from the platform template",
	Example: `  create-release-issue --month July --year 2025 --version 21.0.4+7 \
    --repo-owner adoptium --repo-name adoptium --token "ghp_..."
  create-release-issue --month October --year 2025 --version 8u462-b06 \
    --repo-owner myorg --repo-name jdk-releases --token-file token.txt --labels "release,jdk8"`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return run(cmd.Context())
	},
}

func init() {
	rootCmd.Flags().StringVar(&month, "month", "", `release month name, e.g. "July"`)
	rootCmd.Flags().StringVar(&year, "year", "", `release year, e.g. "2025"`)
	rootCmd.Flags().StringVar(&version, "version", "", `JDK version, e.g. "21.0.4+7" or "8u462-b06"`)
	rootCmd.Flags().StringVar(&repoOwner, "repo-owner", "", "GitHub repository owner/organization")
	rootCmd.Flags().StringVar(&repoName, "repo-name", "", "GitHub repository name")
	rootCmd.Flags().StringVar(&token, "token", "", "GitHub personal access token")
	rootCmd.Flags().StringVar(&tokenFile, "token-file", "", "path to file containing the GitHub token")
	rootCmd.Flags().StringVar(&labels, "labels", "", "comma-separated list of labels for the issue")
	rootCmd.Flags().StringVar(&platformsFile, "platforms-file", "", "YAML file overriding the default platform table")
	rootCmd.Flags().BoolVar(&dryRun, "dry-run", false, "preview the issue without creating it")
	rootCmd.Flags().BoolVarP(&verbose, "verbose", "V", false, "enable verbose logging")
	for _, flag := range []string{"month", "year", "version", "repo-owner", "repo-name"} {
		rootCmd.MarkFlagRequired(flag)
	}
	rootCmd.MarkFlagsOneRequired("token", "token-file")
	rootCmd.MarkFlagsMutuallyExclusive("token", "token-file")
}

func run(ctx context.Context) error {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	logging.Init(level)

	githubToken := token
	if tokenFile != "" {
		var err error
		githubToken, err = config.ReadToken(tokenFile)
		if err != nil {
			return err
		}
	}
	if githubToken == "" {
		return fmt.Errorf("GitHub token is empty")
	}

	var labelList []string
	for _, l := range strings.Split(labels, ",") {
		if l = strings.TrimSpace(l); l != "" {
			labelList = append(labelList, l)
		}
	}

	var platforms []model.Platform
	if platformsFile != "" {
		var err error
		platforms, err = config.LoadPlatforms(platformsFile)
		if err != nil {
			return err
		}
	}

	tmpl := github.NewTemplate(platforms)
	title := tmpl.Title(month, year, version)
	body := tmpl.Body(version)

	slog.Debug("generated issue", "title", title)

	if dryRun {
		fmt.Println("=== DRY RUN: Preview of GitHub Issue ===")
		fmt.Printf("Repository: %s/%s\n", repoOwner, repoName)
		fmt.Printf("Title: %s\n", title)
		if len(labelList) > 0 {
			fmt.Printf("Labels: %s\n", strings.Join(labelList, ", "))
		}
		fmt.Printf("\nBody:\n%s\n", body)
		fmt.Println("=== End of Preview ===")
		return nil
	}

	client := github.NewClient(repoOwner, repoName, githubToken,
		github.WithAPIURL(config.Load().GitHub.APIURL))
	issue, err := client.CreateIssue(ctx, title, body, labelList)
	if err != nil {
		return err
	}

	fmt.Printf("Created issue #%d: %s\n", issue.Number, issue.Title)
	fmt.Printf("URL: %s\n", issue.HTMLURL)
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
