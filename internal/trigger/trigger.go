// Package trigger extracts remote-trigger records from the plain-text
// transcript of a Jenkins pipeline console log.
//
// Three record shapes are recognized: detailed Parameterized Remote Trigger
// configuration blocks, bare remote-trigger directive lines, and Eclipse
// Temurin AQA announcement lines. Extraction is best-effort: malformed lines
// are skipped, never fatal.
package trigger

import (
	"regexp"
	"strings"

	"github.com/temurin-build/pipeline-tools/internal/model"
)

// Markers that bracket a detailed trigger block in the transcript. The end
// marker line also carries the remote job URL.
const (
	blockStartMarker = "Parameterized Remote Trigger Configuration:"
	blockEndMarker   = "Triggering parameterized remote job"
)

// Patterns holds the compiled line patterns used by Scan. Compile once at
// process start (Default) and pass explicitly; Patterns carries no scan state.
type Patterns struct {
	// Simple matches a bare remote-trigger directive with a job name and an
	// optional target list.
	Simple *regexp.Regexp
	// Announcement matches a timestamped Eclipse Temurin AQA trigger
	// announcement line.
	Announcement *regexp.Regexp
	// Continuation matches an indented KEY=value line following an
	// announcement.
	Continuation *regexp.Regexp
	// KeyValue matches one KEY=value pair inside a line.
	KeyValue *regexp.Regexp
}

// Default is the pattern set matching Temurin pipeline console output.
var Default = &Patterns{
	Simple:       regexp.MustCompile(`Triggering remote job (\S+)(?:\s+with targets?[:\s]\s*(\S.*?))?\s*$`),
	Announcement: regexp.MustCompile(`^\s*(\d{4}-\d{2}-\d{2}[T ]\d{2}:\d{2}:\d{2}[0-9.:+Z-]*)\s+Eclipse Temurin AQA test trigger for job (\S+)\s*(.*)$`),
	Continuation: regexp.MustCompile(`^\s+([A-Za-z_][A-Za-z0-9_]*)=(\S.*?)\s*$`),
	KeyValue:     regexp.MustCompile(`([A-Za-z_][A-Za-z0-9_]*)=(\S+)`),
}

// Extract scans transcript lines with the default patterns.
func Extract(lines []string) *model.ExtractionResult {
	return Scan(lines, Default)
}

// Scan walks the transcript once and returns every trigger record in
// transcript order. The only scan state is whether the current line sits
// inside a detailed block: block content is consumed into the detailed
// record and never produces separate simple or announcement records, giving
// the precedence detailed > simple > announcement.
func Scan(lines []string, pats *Patterns) *model.ExtractionResult {
	res := model.NewExtractionResult()

	var block []string
	inBlock := false

	for i := 0; i < len(lines); i++ {
		line := lines[i]

		if inBlock {
			block = append(block, strings.TrimSpace(line))
			if strings.Contains(line, blockEndMarker) {
				if t, ok := parseDetailed(block); ok {
					res.Add(t)
				}
				block, inBlock = nil, false
			}
			continue
		}

		if idx := strings.Index(line, blockStartMarker); idx >= 0 {
			rest := strings.TrimSpace(line[idx+len(blockStartMarker):])
			block, inBlock = []string{rest}, true
			continue
		}

		if m := pats.Simple.FindStringSubmatch(line); m != nil {
			res.Add(parseSimple(m))
			continue
		}

		if m := pats.Announcement.FindStringSubmatch(line); m != nil {
			t, consumed := parseAnnouncement(m, lines[i+1:], pats)
			res.Add(t)
			i += consumed
		}
	}

	// A block left open at end of transcript is still reported when it named
	// a job; the run that produced the log was likely interrupted mid-trigger.
	if inBlock {
		if t, ok := parseDetailed(block); ok {
			res.Add(t)
		}
	}

	return res
}

func parseSimple(m []string) model.SimpleTrigger {
	t := model.SimpleTrigger{
		Type:    model.TypeSimple,
		JobName: m[1],
	}
	if m[2] != "" {
		for _, target := range strings.FieldsFunc(m[2], func(r rune) bool {
			return r == ',' || r == ' '
		}) {
			t.Targets = append(t.Targets, strings.TrimSpace(target))
		}
	}
	return t
}

// parseAnnouncement builds an announcement record from the matched line and
// any immediately following KEY=value continuation lines. Returns the record
// and the number of continuation lines consumed.
func parseAnnouncement(m []string, rest []string, pats *Patterns) (model.AnnouncementTrigger, int) {
	t := model.AnnouncementTrigger{
		Type:      model.TypeAnnouncement,
		JobName:   m[2],
		Timestamp: m[1],
	}

	params := map[string]string{}
	for _, kv := range pats.KeyValue.FindAllStringSubmatch(m[3], -1) {
		params[kv[1]] = strings.TrimSuffix(kv[2], ",")
	}

	consumed := 0
	for _, line := range rest {
		cm := pats.Continuation.FindStringSubmatch(line)
		if cm == nil {
			break
		}
		params[cm[1]] = cm[2]
		consumed++
	}

	if len(params) > 0 {
		t.Parameters = params
	}
	return t, consumed
}
