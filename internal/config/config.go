// Package config supplies environment-backed defaults for the pipeline
// tools and loads the optional YAML platform list.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/temurin-build/pipeline-tools/internal/model"
)

// Config holds shared tool configuration. Flag values take precedence over
// these environment-derived defaults.
type Config struct {
	Jenkins JenkinsConfig
	GitHub  GitHubConfig
}

// JenkinsConfig holds Jenkins server settings.
type JenkinsConfig struct {
	URL      string
	Username string
	Timeout  time.Duration
}

// GitHubConfig holds GitHub API settings.
type GitHubConfig struct {
	APIURL  string
	Timeout time.Duration
}

// Load reads configuration from environment variables with sensible defaults.
func Load() Config {
	return Config{
		Jenkins: JenkinsConfig{
			URL:      getenv("PIPELINE_TOOLS_JENKINS_URL", "https://ci.adoptium.net/"),
			Username: getenv("PIPELINE_TOOLS_JENKINS_USERNAME", "anonymous"),
			Timeout:  getenvDuration("PIPELINE_TOOLS_JENKINS_TIMEOUT", 60*time.Second),
		},
		GitHub: GitHubConfig{
			APIURL:  getenv("PIPELINE_TOOLS_GITHUB_API", "https://api.github.com"),
			Timeout: getenvDuration("PIPELINE_TOOLS_GITHUB_TIMEOUT", 30*time.Second),
		},
	}
}

// ReadToken reads an API token from a file, stripping surrounding
// whitespace. An empty file is an error: every caller requires a token.
func ReadToken(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read token file: %w", err)
	}
	token := strings.TrimSpace(string(data))
	if token == "" {
		return "", fmt.Errorf("token file %s is empty", path)
	}
	return token, nil
}

// LoadPlatforms reads a YAML platform list for the release issue table.
func LoadPlatforms(path string) ([]model.Platform, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read platforms file: %w", err)
	}

	var doc struct {
		Platforms []model.Platform `yaml:"platforms"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse platforms file %s: %w", path, err)
	}
	if len(doc.Platforms) == 0 {
		return nil, fmt.Errorf("platforms file %s lists no platforms", path)
	}
	return doc.Platforms, nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getenvDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}
