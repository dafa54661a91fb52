package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pinchtab/swiftcheck/internal/runner"
	"gopkg.in/yaml.v3"
)

const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// Run is the document written to a result file.
type Run struct {
	RunID      string              `json:"runId" yaml:"runId"`
	TargetURL  string              `json:"targetUrl" yaml:"targetUrl"`
	StartedAt  time.Time           `json:"startedAt" yaml:"startedAt"`
	FinishedAt time.Time           `json:"finishedAt" yaml:"finishedAt"`
	Summary    Summary             `json:"summary" yaml:"summary"`
	Results    []runner.CaseResult `json:"results" yaml:"results"`
}

// Encode renders run in the given format.
func Encode(run Run, format string) ([]byte, error) {
	switch format {
	case FormatJSON, "":
		return json.MarshalIndent(run, "", "  ")
	case FormatYAML, "yml":
		return yaml.Marshal(run)
	default:
		return nil, fmt.Errorf("unknown report format %q", format)
	}
}

// WriteFile writes run to dir as results-<runID>.<format> and returns the path.
func WriteFile(dir, format string, run Run) (string, error) {
	data, err := Encode(run, format)
	if err != nil {
		return "", err
	}
	ext := FormatJSON
	if format == FormatYAML || format == "yml" {
		ext = FormatYAML
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create results dir: %w", err)
	}
	path := filepath.Join(dir, fmt.Sprintf("results-%s.%s", run.RunID, ext))
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("write results: %w", err)
	}
	return path, nil
}

// ReadFile loads a result file written by WriteFile.
func ReadFile(path string) (Run, error) {
	var run Run
	data, err := os.ReadFile(path)
	if err != nil {
		return run, err
	}
	switch filepath.Ext(path) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &run)
	default:
		err = json.Unmarshal(data, &run)
	}
	if err != nil {
		return run, fmt.Errorf("parse %s: %w", path, err)
	}
	return run, nil
}
