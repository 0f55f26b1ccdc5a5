package report

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/temurin-build/pipeline-tools/internal/model"
)

func TestWrite_CreatesParentDirectories(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "out", "result.json")

	result := model.NewExtractionResult()
	if err := Write(path, result); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	if _, err := os.Stat(path); err != nil {
		t.Fatalf("output file not created: %v", err)
	}
}

func TestWrite_EmptyResultSerializesAsArray(t *testing.T) {
	path := filepath.Join(t.TempDir(), "result.json")

	if err := Write(path, model.NewExtractionResult()); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}

	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if _, ok := raw["remote_triggers"].([]any); !ok {
		t.Errorf("remote_triggers should be a JSON array, got %T", raw["remote_triggers"])
	}
	if raw["total_triggers"] != float64(0) {
		t.Errorf("total_triggers = %v, want 0", raw["total_triggers"])
	}
}

func TestWrite_IndentedAndUnescaped(t *testing.T) {
	path := filepath.Join(t.TempDir(), "result.json")

	result := model.NewExtractionResult()
	result.Add(model.SimpleTrigger{
		Type:    model.TypeSimple,
		JobName: "Grinder",
		Targets: []string{"sanity.openjdk"},
	})

	if err := Write(path, result); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}

	text := string(data)
	if !strings.Contains(text, "\n  \"remote_triggers\"") {
		t.Errorf("output not indented:\n%s", text)
	}
	if strings.Contains(text, `<`) {
		t.Errorf("output should not escape HTML characters:\n%s", text)
	}
}

func TestWrite_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "spawned.json")

	report := model.SpawnReport{
		Parent: model.ParentPipeline{
			Name:        "release-openjdk21-pipeline",
			BuildNumber: "42",
			URL:         "https://ci.adoptium.net/job/release-openjdk21-pipeline/42/",
			Node:        "built-in",
		},
		SpawnedBuilds: []model.SpawnedBuild{
			{Name: "jdk21u-release-linux-x64-temurin", BuildNumber: "7", Result: "SUCCESS"},
		},
	}

	if err := Write(path, report); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}

	var got model.SpawnReport
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("unmarshal output: %v", err)
	}
	if got.Parent.Name != report.Parent.Name {
		t.Errorf("parent name = %q, want %q", got.Parent.Name, report.Parent.Name)
	}
	if len(got.SpawnedBuilds) != 1 || got.SpawnedBuilds[0].Result != "SUCCESS" {
		t.Errorf("spawned builds = %+v", got.SpawnedBuilds)
	}
}

func TestWrite_BadPath(t *testing.T) {
	dir := t.TempDir()
	// A directory where the file should be forces os.Create to fail.
	path := filepath.Join(dir, "out.json")
	if err := os.Mkdir(path, 0755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	if err := Write(path, model.NewExtractionResult()); err == nil {
		t.Fatal("expected error writing over a directory")
	}
}
