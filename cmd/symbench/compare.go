package main

import (
	"fmt"
	"io"
	"sort"
	"strings"
)

// significanceThreshold is the percent change at which a metric counts.
const significanceThreshold = 5.0

// MetricComparison represents a comparison between two metric values
type MetricComparison struct {
	Name          string  `json:"name"`
	BaseValue     float64 `json:"base_value"`
	CurrentValue  float64 `json:"current_value"`
	PercentChange float64 `json:"percent_change"`
	IsRegression  bool    `json:"is_regression"`
	IsImprovement bool    `json:"is_improvement"`
	IsSignificant bool    `json:"is_significant"`
}

// Comparison represents a comparison between two results of one scenario
type Comparison struct {
	Name           string             `json:"name"`
	Metrics        []MetricComparison `json:"metrics"`
	HasRegressions bool               `json:"has_regressions"`
	Score          float64            `json:"score"`
}

// ComparisonSummary represents the overall comparison result
type ComparisonSummary struct {
	BaseCommit             string       `json:"base_commit"`
	CurrentCommit          string       `json:"current_commit"`
	Improved               int          `json:"improved"`
	SignificantRegressions int          `json:"significant_regressions"`
	Comparisons            []Comparison `json:"comparisons"`
}

// compareSummaries pairs results by name and compares shared metrics.
// Results missing from base are skipped.
func compareSummaries(base, current Summary) ComparisonSummary {
	baseResults := make(map[string]Result, len(base.Results))
	for _, r := range base.Results {
		baseResults[r.Name] = r
	}

	summary := ComparisonSummary{
		BaseCommit:    base.CommitID,
		CurrentCommit: current.CommitID,
	}

	for _, cur := range current.Results {
		prev, ok := baseResults[cur.Name]
		if !ok {
			continue
		}

		c := Comparison{Name: cur.Name}
		for name, value := range cur.Metrics {
			baseValue, ok := prev.Metrics[name]
			if !ok {
				continue
			}
			m := compareMetric(name, baseValue, value)
			if m.IsRegression && m.IsSignificant {
				c.HasRegressions = true
			}
			switch {
			case m.IsImprovement:
				c.Score += abs(m.PercentChange)
			case m.IsRegression:
				c.Score -= abs(m.PercentChange)
			}
			c.Metrics = append(c.Metrics, m)
		}
		if len(c.Metrics) > 0 {
			c.Score /= float64(len(c.Metrics))
		}
		sort.Slice(c.Metrics, func(i, j int) bool {
			return abs(c.Metrics[i].PercentChange) > abs(c.Metrics[j].PercentChange)
		})

		if c.HasRegressions {
			summary.SignificantRegressions++
		} else if c.Score > 0 {
			summary.Improved++
		}
		summary.Comparisons = append(summary.Comparisons, c)
	}

	// Regressions first, then worst score.
	sort.Slice(summary.Comparisons, func(i, j int) bool {
		a, b := summary.Comparisons[i], summary.Comparisons[j]
		if a.HasRegressions != b.HasRegressions {
			return a.HasRegressions
		}
		return a.Score < b.Score
	})
	return summary
}

func compareMetric(name string, baseValue, currentValue float64) MetricComparison {
	m := MetricComparison{Name: name, BaseValue: baseValue, CurrentValue: currentValue}
	if baseValue != 0 {
		m.PercentChange = (currentValue - baseValue) / baseValue * 100
	}
	if isHigherBetterMetric(name) {
		m.IsRegression = m.PercentChange < 0
		m.IsImprovement = m.PercentChange > 0
	} else {
		m.IsRegression = m.PercentChange > 0
		m.IsImprovement = m.PercentChange < 0
	}
	m.IsSignificant = abs(m.PercentChange) >= significanceThreshold
	return m
}

// isHigherBetterMetric reports whether a larger value of the metric is better.
func isHigherBetterMetric(name string) bool {
	return strings.HasSuffix(name, "_rate") || name == "used_bucket_ratio"
}

func printComparison(w io.Writer, s ComparisonSummary) {
	fmt.Fprintf(w, "Comparison: %s vs %s\n", s.BaseCommit, s.CurrentCommit)
	fmt.Fprintf(w, "- compared: %d, improved: %d, significant regressions: %d\n",
		len(s.Comparisons), s.Improved, s.SignificantRegressions)

	for _, c := range s.Comparisons {
		mark := "ok"
		if c.HasRegressions {
			mark = "REGRESSION"
		}
		fmt.Fprintf(w, "\n%s [%s]\n", c.Name, mark)
		for _, m := range c.Metrics {
			if m.PercentChange == 0 {
				continue
			}
			fmt.Fprintf(w, "  %-24s %+8.2f%% (%g -> %g)\n",
				m.Name, m.PercentChange, m.BaseValue, m.CurrentValue)
		}
	}
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}
