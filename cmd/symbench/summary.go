package main

import (
	"encoding/json"
	"os"
	"runtime"
	"time"

	"github.com/pkg/errors"
)

// Result is the outcome of one benchmark scenario.
type Result struct {
	Name     string             `json:"name"`
	Category string             `json:"category"`
	Metrics  map[string]float64 `json:"metrics"`
}

// Summary is the JSON document written by run and read by compare.
type Summary struct {
	Timestamp string   `json:"timestamp"`
	CommitID  string   `json:"commit_id"`
	GoVersion string   `json:"go_version"`
	Results   []Result `json:"results"`
}

func newSummary(commit string, results []Result) Summary {
	return Summary{
		Timestamp: time.Now().Format(time.RFC3339),
		CommitID:  commit,
		GoVersion: runtime.Version(),
		Results:   results,
	}
}

func loadSummary(path string) (Summary, error) {
	var s Summary
	data, err := os.ReadFile(path)
	if err != nil {
		return s, errors.Wrap(err, "ReadFile")
	}
	if err := json.Unmarshal(data, &s); err != nil {
		return s, errors.Wrapf(err, "parse %v", path)
	}
	return s, nil
}

func writeJSON(path string, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return errors.Wrap(err, "json.MarshalIndent")
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.Wrapf(err, "write %v", path)
	}
	return nil
}
