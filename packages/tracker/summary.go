package tracker

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/abdul-hamid-achik/yhspec/packages/assertions"
	"go.uber.org/zap"
)

// TestRecord is the serialized form of a TestResult. Durations are seconds.
type TestRecord struct {
	Name         string               `json:"name"`
	Status       Status               `json:"status"`
	Duration     float64              `json:"duration"`
	ErrorMessage string               `json:"error_message,omitempty"`
	ErrorDetail  string               `json:"error_detail,omitempty"`
	StartTime    *time.Time           `json:"start_time"`
	EndTime      *time.Time           `json:"end_time"`
	TestData     map[string]any       `json:"test_data,omitempty"`
	Assertions   []assertions.Outcome `json:"assertions"`
	Extractions  []Extraction         `json:"extractions"`
}

// SuiteRecord is the serialized form of a Suite.
type SuiteRecord struct {
	Name         string       `json:"name"`
	StartTime    *time.Time   `json:"start_time"`
	EndTime      *time.Time   `json:"end_time"`
	Duration     float64      `json:"duration"`
	TotalCount   int          `json:"total_count"`
	PassedCount  int          `json:"passed_count"`
	FailedCount  int          `json:"failed_count"`
	SkippedCount int          `json:"skipped_count"`
	ErrorCount   int          `json:"error_count"`
	Tests        []TestRecord `json:"tests"`
}

// Summary holds the run aggregates and every suite record.
type Summary struct {
	RunID         string        `json:"run_id"`
	GeneratedAt   time.Time     `json:"generated_at"`
	TotalSuites   int           `json:"total_suites"`
	TotalTests    int           `json:"total_tests"`
	TotalPassed   int           `json:"total_passed"`
	TotalFailed   int           `json:"total_failed"`
	TotalSkipped  int           `json:"total_skipped"`
	TotalErrors   int           `json:"total_errors"`
	TotalDuration float64       `json:"total_duration"`
	SuccessRate   float64       `json:"success_rate"`
	Suites        []SuiteRecord `json:"suites"`
}

// Failed reports whether any test failed or errored.
func (s *Summary) Failed() bool {
	return s.TotalFailed > 0 || s.TotalErrors > 0
}

// Summary computes the aggregates over every suite.
func (t *Tracker) Summary() *Summary {
	suites := t.Suites()
	sum := &Summary{
		RunID:       t.runID,
		GeneratedAt: t.now(),
		TotalSuites: len(suites),
		Suites:      make([]SuiteRecord, 0, len(suites)),
	}

	for _, s := range suites {
		rec := s.Record()
		sum.TotalTests += rec.TotalCount
		sum.TotalPassed += rec.PassedCount
		sum.TotalFailed += rec.FailedCount
		sum.TotalSkipped += rec.SkippedCount
		sum.TotalErrors += rec.ErrorCount
		sum.TotalDuration += rec.Duration
		sum.Suites = append(sum.Suites, rec)
	}

	if sum.TotalTests > 0 {
		sum.SuccessRate = float64(sum.TotalPassed) / float64(sum.TotalTests) * 100
	}
	return sum
}

// ResultsPath is the default artifact path for a run finished at ts.
func (t *Tracker) ResultsPath(ts time.Time) string {
	return filepath.Join(t.resultsDir, fmt.Sprintf("results_%s.json", ts.Format("20060102_150405")))
}

// Save writes the summary as indented JSON and returns the path written.
// An empty path writes to the results directory under a timestamped name.
func (t *Tracker) Save(path string) (string, error) {
	sum := t.Summary()
	if path == "" {
		path = t.ResultsPath(sum.GeneratedAt)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return "", fmt.Errorf("failed to create results directory: %w", err)
	}

	data, err := json.MarshalIndent(sum, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode results: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write results: %w", err)
	}

	t.logger.Info("results saved", zap.String("path", path))
	return path, nil
}

// LoadSummary reads an artifact written by Save.
func LoadSummary(path string) (*Summary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read results: %w", err)
	}

	var sum Summary
	if err := json.Unmarshal(data, &sum); err != nil {
		return nil, fmt.Errorf("failed to parse results %s: %w", path, err)
	}
	return &sum, nil
}
