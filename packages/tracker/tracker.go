package tracker

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/abdul-hamid-achik/yhspec/packages/assertions"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrNoActiveSuite is returned by StartTest when the suite is nil or closed.
var ErrNoActiveSuite = errors.New("no active suite")

const DefaultResultsDir = "test_results"

type Tracker struct {
	mu     sync.Mutex
	suites []*Suite

	runID      string
	logger     *zap.Logger
	resultsDir string
	now        func() time.Time
}

// Option is a functional option for configuring a Tracker.
type Option func(*Tracker)

func WithLogger(logger *zap.Logger) Option {
	return func(t *Tracker) {
		if logger != nil {
			t.logger = logger
		}
	}
}

// WithResultsDir sets the directory Save writes to when no path is given.
func WithResultsDir(dir string) Option {
	return func(t *Tracker) {
		if dir != "" {
			t.resultsDir = dir
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(t *Tracker) {
		if now != nil {
			t.now = now
		}
	}
}

func New(opts ...Option) *Tracker {
	t := &Tracker{
		runID:      uuid.NewString(),
		logger:     zap.NewNop(),
		resultsDir: DefaultResultsDir,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// RunID identifies this tracker's run in summaries.
func (t *Tracker) RunID() string {
	return t.runID
}

// Now reads the tracker's clock.
func (t *Tracker) Now() time.Time {
	return t.now()
}

func (t *Tracker) StartSuite(name string) *Suite {
	s := &Suite{
		name:      name,
		startTime: t.now(),
	}

	t.mu.Lock()
	t.suites = append(t.suites, s)
	t.mu.Unlock()

	t.logger.Info("suite started", zap.String("suite", name))
	return s
}

// EndSuite closes s and returns it. It returns nil when s is nil or was
// already closed.
func (t *Tracker) EndSuite(s *Suite) *Suite {
	if s == nil || !s.close(t.now()) {
		return nil
	}

	t.logger.Info("suite finished",
		zap.String("suite", s.name),
		zap.Int("total", s.TotalCount()),
		zap.Int("passed", s.PassedCount()),
		zap.Int("failed", s.FailedCount()),
		zap.Int("skipped", s.SkippedCount()),
		zap.Int("errors", s.ErrorCount()),
		zap.Duration("duration", s.Duration()),
	)
	return s
}

// StartTest records a new RUNNING result in s.
func (t *Tracker) StartTest(s *Suite, name string, testData map[string]any) (*TestResult, error) {
	if s == nil {
		return nil, fmt.Errorf("start test %q: %w", name, ErrNoActiveSuite)
	}

	r := &TestResult{
		name:      name,
		status:    StatusRunning,
		startTime: t.now(),
		testData:  testData,
	}
	if !s.add(r) {
		return nil, fmt.Errorf("start test %q: suite %q is closed: %w", name, s.name, ErrNoActiveSuite)
	}

	t.logger.Info("test started", zap.String("suite", s.name), zap.String("test", name))
	return r, nil
}

// EndTest moves r to a terminal status. An empty status means PASSED, or
// ERROR when err is set. It returns nil when r is nil, already ended, or the
// status is not terminal.
func (t *Tracker) EndTest(r *TestResult, status Status, err error) *TestResult {
	if r == nil {
		return nil
	}
	if status == "" {
		status = StatusPassed
		if err != nil {
			status = StatusError
		}
	}
	if !status.Terminal() {
		t.logger.Warn("ignoring non-terminal end status", zap.String("test", r.name), zap.Stringer("status", status))
		return nil
	}
	if !r.finish(status, err, t.now()) {
		return nil
	}

	fields := []zap.Field{
		zap.String("test", r.name),
		zap.Stringer("status", status),
		zap.Duration("duration", r.Duration()),
	}
	if err != nil {
		fields = append(fields, zap.Error(err))
	}
	t.logger.Info("test finished", fields...)
	return r
}

// AddAssertion appends an outcome to r's audit trail. Ended results are
// left unchanged.
func (t *Tracker) AddAssertion(r *TestResult, o *assertions.Outcome) {
	if r == nil || o == nil {
		return
	}
	if !r.appendAssertion(*o) {
		return
	}
	t.logger.Debug("assertion",
		zap.String("test", r.name),
		zap.String("expression", o.Expression),
		zap.Any("expected", o.Expected),
		zap.Any("actual", o.Actual),
		zap.Bool("passed", o.Passed),
	)
}

// AddExtraction appends an extracted value to r's audit trail. Ended
// results are left unchanged.
func (t *Tracker) AddExtraction(r *TestResult, name, expression string, value any) {
	if r == nil {
		return
	}
	e := Extraction{
		Name:       name,
		Expression: expression,
		Value:      value,
		Timestamp:  t.now(),
	}
	if !r.appendExtraction(e) {
		return
	}
	t.logger.Debug("extraction",
		zap.String("test", r.name),
		zap.String("name", name),
		zap.String("expression", expression),
		zap.Any("value", value),
	)
}

// Suites returns every suite started on this tracker, in start order.
func (t *Tracker) Suites() []*Suite {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]*Suite(nil), t.suites...)
}
