package tracker

import (
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/abdul-hamid-achik/yhspec/packages/assertions"
)

// Extraction is the audit record of one extracted value.
type Extraction struct {
	Name       string    `json:"name,omitempty"`
	Expression string    `json:"expression"`
	Value      any       `json:"value"`
	Timestamp  time.Time `json:"timestamp"`
}

// TestResult is the handle of one running or finished test.
type TestResult struct {
	mu sync.Mutex

	name         string
	status       Status
	duration     time.Duration
	errorMessage string
	errorDetail  string
	startTime    time.Time
	endTime      time.Time
	testData     map[string]any
	assertions   []assertions.Outcome
	extractions  []Extraction
}

func (r *TestResult) Name() string {
	return r.name
}

func (r *TestResult) Status() Status {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.status
}

func (r *TestResult) Duration() time.Duration {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.duration
}

func (r *TestResult) ErrorMessage() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.errorMessage
}

// Assertions returns a copy of the assertion audit trail.
func (r *TestResult) Assertions() []assertions.Outcome {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]assertions.Outcome(nil), r.assertions...)
}

// Extractions returns a copy of the extraction audit trail.
func (r *TestResult) Extractions() []Extraction {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Extraction(nil), r.extractions...)
}

func (r *TestResult) appendAssertion(o assertions.Outcome) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.status.Terminal() {
		return false
	}
	r.assertions = append(r.assertions, o)
	return true
}

func (r *TestResult) appendExtraction(e Extraction) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.status.Terminal() {
		return false
	}
	r.extractions = append(r.extractions, e)
	return true
}

// finish performs the single terminal transition. It reports false when the
// result had already finished.
func (r *TestResult) finish(status Status, err error, end time.Time) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.status.Terminal() {
		return false
	}
	r.status = status
	r.endTime = end
	r.duration = end.Sub(r.startTime)
	if err != nil {
		r.errorMessage = err.Error()
		r.errorDetail = errorChain(err)
	}
	return true
}

// Record returns a snapshot of the result.
func (r *TestResult) Record() TestRecord {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec := TestRecord{
		Name:         r.name,
		Status:       r.status,
		Duration:     r.duration.Seconds(),
		ErrorMessage: r.errorMessage,
		ErrorDetail:  r.errorDetail,
		StartTime:    timePtr(r.startTime),
		EndTime:      timePtr(r.endTime),
		TestData:     r.testData,
		Assertions:   append([]assertions.Outcome{}, r.assertions...),
		Extractions:  append([]Extraction{}, r.extractions...),
	}
	return rec
}

// errorChain renders every layer of a wrapped error, outermost first.
func errorChain(err error) string {
	var lines []string
	for e := err; e != nil; e = errors.Unwrap(e) {
		lines = append(lines, e.Error())
	}
	return strings.Join(lines, "\n")
}

func timePtr(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}
