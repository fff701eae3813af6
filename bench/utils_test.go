package symtable_test

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/pkg/errors"
)

// BenchmarkMetrics represents metrics for a single benchmark
type BenchmarkMetrics struct {
	Name       string             `json:"name"`
	Category   string             `json:"category"`
	Operations int                `json:"operations"`
	NsPerOp    float64            `json:"ns_per_op"`
	Metrics    map[string]float64 `json:"metrics"`
}

// BenchmarkSummary represents all benchmark results
type BenchmarkSummary struct {
	Timestamp string             `json:"timestamp"`
	CommitID  string             `json:"commit_id"`
	Branch    string             `json:"branch"`
	GoVersion string             `json:"go_version"`
	Results   []BenchmarkMetrics `json:"results"`
}

// allocatedMB returns the live heap in megabytes
func allocatedMB() float64 {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	return float64(m.Alloc) / (1024 * 1024)
}

// gitInfo reads the branch and short commit of the repository at root,
// falling back to "dev" and "local".
func gitInfo(root string) (branch, commit string) {
	branch, commit = "dev", "local"

	head, err := os.ReadFile(filepath.Join(root, ".git", "HEAD"))
	if err != nil {
		return branch, commit
	}
	ref := strings.TrimSpace(string(head))
	if !strings.HasPrefix(ref, "ref: ") {
		return branch, commit
	}
	ref = strings.TrimPrefix(ref, "ref: ")
	branch = strings.TrimPrefix(ref, "refs/heads/")

	if data, err := os.ReadFile(filepath.Join(root, ".git", ref)); err == nil {
		commit = strings.TrimSpace(string(data))
		if len(commit) >= 8 {
			commit = commit[:8]
		}
	}
	return branch, commit
}

// saveBenchmarkResult appends metrics to benchmark_history/<resultsFile> in
// the repository root.
func saveBenchmarkResult(metrics BenchmarkMetrics, resultsFile string) error {
	currentDir, err := os.Getwd()
	if err != nil {
		return errors.Wrap(err, "Getwd")
	}

	// Tests run in bench/, the history lives one level up.
	repoRoot := filepath.Dir(currentDir)
	historyDir := filepath.Join(repoRoot, "benchmark_history")
	if err := os.MkdirAll(historyDir, 0755); err != nil {
		return errors.Wrap(err, "MkdirAll")
	}

	branch, commit := gitInfo(repoRoot)
	summary := BenchmarkSummary{
		Timestamp: time.Now().Format(time.RFC3339),
		CommitID:  commit,
		Branch:    branch,
		GoVersion: runtime.Version(),
		Results:   []BenchmarkMetrics{metrics},
	}

	path := filepath.Join(historyDir, resultsFile)
	if existing, err := os.ReadFile(path); err == nil {
		var prev BenchmarkSummary
		if err := json.Unmarshal(existing, &prev); err == nil {
			summary.Results = append(prev.Results, metrics)
		}
	}

	data, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		return errors.Wrap(err, "json.MarshalIndent")
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.Wrapf(err, "write %v", path)
	}

	fmt.Printf("Benchmark results saved to: %s\n", path)
	return nil
}
