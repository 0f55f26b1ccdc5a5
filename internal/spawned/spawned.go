// Package spawned scans a plain-text Jenkins console log for builds spawned
// by the pipeline run, merging trigger, URL, and result lines into one
// record per downstream build.
package spawned

import (
	"regexp"
	"strings"

	"github.com/temurin-build/pipeline-tools/internal/model"
)

const unknownNumber = "unknown"

// Line patterns for the various formats Jenkins uses to report downstream
// builds. Compiled once at init; read-only afterwards.
var (
	triggerPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)Starting build job (\S+) #(\d+)`),
		regexp.MustCompile(`(?i)Triggering downstream project (\S+)`),
		regexp.MustCompile(`(?i)Scheduling project: (\S+)`),
		regexp.MustCompile(`(?i)Build (\S+) #(\d+) started`),
		regexp.MustCompile(`(?i)(\S+) #(\d+) started`),
	}

	urlPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(https?://\S+/job/[^/\s]+/\d+)/?`),
		regexp.MustCompile(`Console output: (https?://\S+/job/[^/\s]+/\d+)`),
	}

	resultPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)(\S+) #(\d+) completed: (\w+)`),
		regexp.MustCompile(`(?i)Build (\S+) #(\d+) completed with result (\w+)`),
		regexp.MustCompile(`(?i)(\S+) #(\d+): (\w+)`),
	}

	upstreamPattern = regexp.MustCompile(`(?i)Started by upstream project "([^"]+)" build number (\d+)`)
	nodePattern     = regexp.MustCompile(`(?i)Running on (.+)`)
	pipelinePattern = regexp.MustCompile(`(?i)Pipeline: (.+)`)

	jobFromURL = regexp.MustCompile(`/job/([^/]+)/(\d+)`)
)

// Parse extracts the parent pipeline description and every spawned build
// from the console text.
func Parse(console string) model.SpawnReport {
	lines := strings.Split(console, "\n")
	return model.SpawnReport{
		Parent:        parentInfo(lines),
		SpawnedBuilds: spawnedBuilds(lines),
	}
}

func parentInfo(lines []string) model.ParentPipeline {
	parent := model.ParentPipeline{
		Name:        "Unknown",
		BuildNumber: "Unknown",
	}
	for _, line := range lines {
		if m := upstreamPattern.FindStringSubmatch(line); m != nil {
			parent.Name = m[1]
			parent.BuildNumber = m[2]
		} else if m := nodePattern.FindStringSubmatch(line); m != nil {
			parent.Node = strings.TrimSpace(m[1])
		} else if m := pipelinePattern.FindStringSubmatch(line); m != nil {
			parent.Name = strings.TrimSpace(m[1])
		}
	}
	return parent
}

// spawnedBuilds merges trigger, URL, and result lines keyed by
// "name#number", preserving first-seen order.
func spawnedBuilds(lines []string) []model.SpawnedBuild {
	byKey := map[string]*model.SpawnedBuild{}
	var order []string

	get := func(name, number string) *model.SpawnedBuild {
		key := name + "#" + number
		if b, ok := byKey[key]; ok {
			return b
		}
		b := &model.SpawnedBuild{Name: name, BuildNumber: number}
		byKey[key] = b
		order = append(order, key)
		return b
	}

	for _, line := range lines {
		if name, number, ok := matchTrigger(line); ok {
			get(name, number)
		}

		if url, ok := matchURL(line); ok {
			if m := jobFromURL.FindStringSubmatch(url); m != nil {
				get(m[1], m[2]).URL = url
			}
		}

		if name, number, result, ok := matchResult(line); ok {
			get(name, number).Result = result
		}
	}

	// Builds seen only without a number are noise when a numbered record
	// exists for the same job.
	numbered := map[string]bool{}
	for _, key := range order {
		if b := byKey[key]; b.BuildNumber != unknownNumber {
			numbered[b.Name] = true
		}
	}

	var builds []model.SpawnedBuild
	for _, key := range order {
		b := byKey[key]
		if b.BuildNumber == unknownNumber && numbered[b.Name] {
			continue
		}
		builds = append(builds, *b)
	}
	return builds
}

func matchTrigger(line string) (name, number string, ok bool) {
	for _, p := range triggerPatterns {
		if m := p.FindStringSubmatch(line); m != nil {
			name = m[1]
			number = unknownNumber
			if len(m) > 2 && m[2] != "" {
				number = m[2]
			}
			return name, number, true
		}
	}
	return "", "", false
}

func matchURL(line string) (string, bool) {
	for _, p := range urlPatterns {
		if m := p.FindStringSubmatch(line); m != nil {
			return m[1], true
		}
	}
	return "", false
}

func matchResult(line string) (name, number, result string, ok bool) {
	for _, p := range resultPatterns {
		if m := p.FindStringSubmatch(line); m != nil {
			return m[1], m[2], m[3], true
		}
	}
	return "", "", "", false
}
