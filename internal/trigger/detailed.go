package trigger

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/temurin-build/pipeline-tools/internal/htmltext"
	"github.com/temurin-build/pipeline-tools/internal/model"
)

// Field prefixes printed by the Parameterized Remote Trigger plugin inside
// a configuration block.
const (
	fieldJob               = "- job:"
	fieldRemoteJenkinsName = "- remoteJenkinsName:"
	fieldParameters        = "- parameters:"
	fieldAuth              = "- auth:"
	fieldBlockBuild        = "- blockBuildUntilComplete:"
	fieldRetryLimit        = "- connectionRetryLimit:"
	fieldTrustCerts        = "- trustAllCertificates:"
	fieldCSRF              = "- csrfProtection:"
)

var (
	bracedParams = regexp.MustCompile(`\{(.+)\}`)
	nextKey      = regexp.MustCompile(`^[A-Z_][A-Z0-9_]*\s*=`)
	bareKV       = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*\s*=\S`)
)

// parseDetailed builds a detailed record from the lines of one block. A
// block without a job name yields no record; every other anomaly degrades
// to a raw string or a missing field.
func parseDetailed(lines []string) (model.DetailedTrigger, bool) {
	t := model.DetailedTrigger{Type: model.TypeDetailed}

	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		switch {
		case strings.Contains(line, fieldJob):
			t.JobName = valueAfter(line, fieldJob)

		case strings.Contains(line, fieldRemoteJenkinsName):
			t.RemoteJenkinsName = valueAfter(line, fieldRemoteJenkinsName)

		case strings.Contains(line, fieldParameters):
			merge(&t, parseParameters(valueAfter(line, fieldParameters)))

		case strings.Contains(line, fieldAuth):
			t.AuthenticationUser = authUser(valueAfter(line, fieldAuth))

		case strings.Contains(line, fieldBlockBuild):
			t.BlockBuildUntilComplete = boolOrRaw(valueAfter(line, fieldBlockBuild))

		case strings.Contains(line, fieldRetryLimit):
			t.ConnectionRetryLimit = intOrRaw(valueAfter(line, fieldRetryLimit))

		case strings.Contains(line, fieldTrustCerts):
			t.TrustAllCertificates = boolOrRaw(valueAfter(line, fieldTrustCerts))

		case strings.Contains(line, fieldCSRF):
			t.CSRFProtectionEnabled = boolOrRaw(valueAfter(line, fieldCSRF))

		case strings.Contains(line, blockEndMarker):
			rest := strings.TrimSpace(line[strings.Index(line, blockEndMarker)+len(blockEndMarker):])
			if href, ok := htmltext.FirstHref(rest); ok {
				t.RemoteJobURL = href
			} else {
				t.RemoteJobURL = htmltext.CleanValue(rest)
			}

		default:
			// A bare KEY=value line mid-block belongs to the parameter
			// block (the plugin also prints one pair per line).
			if bareKV.MatchString(line) {
				merge(&t, parseParameters(line))
			}
		}
	}

	return t, t.JobName != ""
}

func valueAfter(line, prefix string) string {
	_, after, _ := strings.Cut(line, prefix)
	return strings.TrimSpace(after)
}

func merge(t *model.DetailedTrigger, params map[string]string) {
	if len(params) == 0 {
		return
	}
	if t.Parameters == nil {
		t.Parameters = map[string]string{}
	}
	for k, v := range params {
		t.Parameters[k] = v
	}
}

// parseParameters splits a "KEY=value, KEY2=value2" list into a map. The
// list may be wrapped in braces. A comma only terminates a value when the
// text after it looks like the next key; commas inside URLs and free-text
// values are kept.
func parseParameters(s string) map[string]string {
	if m := bracedParams.FindStringSubmatch(s); m != nil {
		s = m[1]
	}

	params := map[string]string{}
	var key string
	var value strings.Builder

	flush := func() {
		if key != "" {
			params[key] = htmltext.CleanValue(value.String())
		}
		key = ""
		value.Reset()
	}

	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '=' && key == "":
			key = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(value.String()), ","))
			value.Reset()
		case c == ',' && key != "":
			if parameterEnds(s[i+1:]) {
				flush()
			} else {
				value.WriteByte(c)
			}
		default:
			value.WriteByte(c)
		}
	}
	flush()

	return params
}

// parameterEnds reports whether the text following a comma starts the next
// KEY= pair, i.e. the comma terminated the previous value.
func parameterEnds(rest string) bool {
	rest = strings.TrimLeft(rest, " \t")
	if rest == "" {
		return true
	}
	if len(rest) > 50 {
		rest = rest[:50]
	}
	return nextKey.MatchString(rest)
}

// authUser extracts the user from an auth descriptor such as
// "'jenkins-bot' (API token)" or a bare user name.
func authUser(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.Index(s, "("); i >= 0 {
		s = strings.TrimSpace(s[:i])
	}
	return strings.Trim(s, "'\"")
}

// boolOrRaw recognizes true/false case-insensitively, keeps anything else
// as the raw string, and drops empty values.
func boolOrRaw(s string) any {
	switch {
	case s == "":
		return nil
	case strings.EqualFold(s, "true"):
		return true
	case strings.EqualFold(s, "false"):
		return false
	}
	return s
}

// intOrRaw parses a decimal integer, keeping unparseable values as the raw
// string and dropping empty ones.
func intOrRaw(s string) any {
	if s == "" {
		return nil
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n
	}
	return s
}
