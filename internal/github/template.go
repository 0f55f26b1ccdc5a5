package github

import (
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/temurin-build/pipeline-tools/internal/model"
)

// DefaultPlatforms is the standard Temurin release platform set. A YAML
// platforms file can replace it per run.
var DefaultPlatforms = []model.Platform{
	{Name: "Alpine Linux aarch64", Major: true},
	{Name: "Alpine Linux x64"},
	{Name: "Linux aarch64", Major: true},
	{Name: "Linux armv7l"},
	{Name: "Linux ppc64le"},
	{Name: "Linux s390x"},
	{Name: "Linux x64", Major: true},
	{Name: "macOS aarch64", Major: true},
	{Name: "macOS x64", Major: true},
	{Name: "Windows aarch64"},
	{Name: "Windows x64", Major: true},
	{Name: "Windows x86-32"},
}

var majorVersionRE = regexp.MustCompile(`^(\d+)`)

// Template renders release-tracking issue titles and bodies.
type Template struct {
	platforms []model.Platform
}

// NewTemplate returns a template over the given platform set, or the
// default set when platforms is empty.
func NewTemplate(platforms []model.Platform) *Template {
	if len(platforms) == 0 {
		platforms = DefaultPlatforms
	}
	return &Template{platforms: platforms}
}

// Title renders the issue title, e.g. "July 2025 JDK: 21.0.4+7".
func (t *Template) Title(month, year, version string) string {
	return fmt.Sprintf("%s %s JDK: %s", month, year, version)
}

// Body renders the platform status table for the release.
func (t *Template) Body(version string) string {
	major := MajorVersion(version)

	rows := []string{
		fmt.Sprintf("| Platform            | JDK%s | Status :white_check_mark: | Jenkins job Owner | "+
			"Auto-manuals Owner | Interactives Owner | Build links | Results Comment Link |", major),
		"| ------------------- | ---------- | ----- | ----- | ----- | ----- | ----- | ----- |",
	}

	for _, p := range t.platforms {
		if p.Major {
			rows = append(rows, fmt.Sprintf("| **%s**       | All        |  |  |  | run | JDK / JRE | Results |", p.Name))
		} else {
			rows = append(rows, fmt.Sprintf("| %s         |   |  |  |  | skip | JDK / JRE | Results |", p.Name))
		}
	}

	return fmt.Sprintf("### JDK%s\n\n%s", major, strings.Join(rows, "\n"))
}

// MajorVersion extracts the leading major version number from strings like
// "21.0.4+7", "8u462-b06", or "11.0.24+8". Unparseable versions yield "X".
func MajorVersion(version string) string {
	if m := majorVersionRE.FindStringSubmatch(version); m != nil {
		return m[1]
	}
	slog.Warn("could not extract major version", "version", version)
	return "X"
}
