package tracker

import (
	"sync"
	"time"
)

// Suite is an ordered, named collection of test results. Counts are derived
// from the recorded results on every call.
type Suite struct {
	mu sync.Mutex

	name      string
	tests     []*TestResult
	startTime time.Time
	endTime   time.Time
}

func (s *Suite) Name() string {
	return s.name
}

// Closed reports whether EndSuite has been called.
func (s *Suite) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return !s.endTime.IsZero()
}

// Tests returns the recorded results in start order.
func (s *Suite) Tests() []*TestResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*TestResult(nil), s.tests...)
}

func (s *Suite) add(r *TestResult) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.endTime.IsZero() {
		return false
	}
	s.tests = append(s.tests, r)
	return true
}

func (s *Suite) close(end time.Time) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.endTime.IsZero() {
		return false
	}
	s.endTime = end
	return true
}

func (s *Suite) count(status Status) int {
	n := 0
	for _, t := range s.Tests() {
		if t.Status() == status {
			n++
		}
	}
	return n
}

func (s *Suite) PassedCount() int  { return s.count(StatusPassed) }
func (s *Suite) FailedCount() int  { return s.count(StatusFailed) }
func (s *Suite) SkippedCount() int { return s.count(StatusSkipped) }
func (s *Suite) ErrorCount() int   { return s.count(StatusError) }

// RunningCount is the number of results not yet ended. Passed, failed,
// skipped and error counts add up to TotalCount once it reaches zero.
func (s *Suite) RunningCount() int { return s.count(StatusRunning) }

func (s *Suite) TotalCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.tests)
}

// Duration is end minus start for a closed suite, otherwise the sum of the
// recorded test durations.
func (s *Suite) Duration() time.Duration {
	s.mu.Lock()
	start, end := s.startTime, s.endTime
	s.mu.Unlock()

	if !start.IsZero() && !end.IsZero() {
		return end.Sub(start)
	}
	var total time.Duration
	for _, t := range s.Tests() {
		total += t.Duration()
	}
	return total
}

// Record returns a snapshot of the suite and its results.
func (s *Suite) Record() SuiteRecord {
	tests := s.Tests()
	rec := SuiteRecord{
		Name:     s.name,
		Duration: s.Duration().Seconds(),
		Tests:    make([]TestRecord, 0, len(tests)),
	}

	s.mu.Lock()
	rec.StartTime = timePtr(s.startTime)
	rec.EndTime = timePtr(s.endTime)
	s.mu.Unlock()

	for _, t := range tests {
		tr := t.Record()
		switch tr.Status {
		case StatusPassed:
			rec.PassedCount++
		case StatusFailed:
			rec.FailedCount++
		case StatusSkipped:
			rec.SkippedCount++
		case StatusError:
			rec.ErrorCount++
		}
		rec.Tests = append(rec.Tests, tr)
	}
	rec.TotalCount = len(rec.Tests)
	return rec
}
