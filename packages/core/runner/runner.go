package runner

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/abdul-hamid-achik/yhspec/packages/assertions"
	"github.com/abdul-hamid-achik/yhspec/packages/core/env"
	"github.com/abdul-hamid-achik/yhspec/packages/extract"
	"github.com/abdul-hamid-achik/yhspec/packages/http"
	"github.com/abdul-hamid-achik/yhspec/packages/tracker"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	// DefaultConcurrency is the default number of concurrent cases in parallel mode
	DefaultConcurrency = 5
)

type Runner struct {
	transport Transport
	resolver  *env.Resolver
	tracker   *tracker.Tracker
	config    *Config
	logger    *zap.Logger
}

type Config struct {
	Bail        bool
	NameFilter  string
	TagsFilter  []string
	Parallel    bool
	Concurrency int
	SchemaDir   string
}

// Option is a functional option for configuring a Runner.
type Option func(*Runner)

// WithResolver shares a variable store between runners, or seeds one.
func WithResolver(r *env.Resolver) Option {
	return func(rn *Runner) {
		if r != nil {
			rn.resolver = r
		}
	}
}

func WithTracker(t *tracker.Tracker) Option {
	return func(rn *Runner) {
		if t != nil {
			rn.tracker = t
		}
	}
}

func WithLogger(logger *zap.Logger) Option {
	return func(rn *Runner) {
		if logger != nil {
			rn.logger = logger
		}
	}
}

func NewRunner(transport Transport, cfg *Config, opts ...Option) *Runner {
	if cfg == nil {
		cfg = &Config{}
	}

	r := &Runner{
		transport: transport,
		config:    cfg,
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.resolver == nil {
		r.resolver = env.NewResolver()
	}
	if r.tracker == nil {
		r.tracker = tracker.New(tracker.WithLogger(r.logger))
	}

	sugar := r.logger.Sugar()
	r.resolver.SetWarnFunc(func(format string, args ...any) {
		sugar.Warnf(format, args...)
	})
	return r
}

func (r *Runner) Resolver() *env.Resolver {
	return r.resolver
}

func (r *Runner) Tracker() *tracker.Tracker {
	return r.tracker
}

// RunSuite runs cases as one suite in dependency order and closes the suite.
// A dependency cycle is reported before the suite is started.
func (r *Runner) RunSuite(ctx context.Context, name string, cases []*TestCase) (*tracker.Suite, error) {
	sorted, err := r.topologicalSort(cases)
	if err != nil {
		return nil, err
	}

	suite := r.tracker.StartSuite(name)
	defer func() {
		r.tracker.EndSuite(suite)
		r.logger.Debug("bound variables", zap.String("suite", name), zap.Any("variables", r.resolver.Snapshot()))
	}()

	executed := make(map[string]tracker.Status)
	var runnable []*TestCase
	for _, tc := range sorted {
		if !r.shouldRun(tc) {
			if err := r.skip(suite, tc, "filtered out"); err != nil {
				return suite, err
			}
			continue
		}
		if tc.Skip != "" {
			if err := r.skip(suite, tc, tc.Skip); err != nil {
				return suite, err
			}
			if tc.Name != "" {
				executed[tc.Name] = tracker.StatusSkipped
			}
			continue
		}
		runnable = append(runnable, tc)
	}

	// Check if we can run in parallel (no dependencies between remaining cases)
	hasDependencies := false
	for _, tc := range runnable {
		if len(tc.DependsOn) > 0 {
			hasDependencies = true
			break
		}
	}

	if r.config.Parallel && !hasDependencies {
		return suite, r.runParallel(ctx, suite, runnable)
	}

	for _, tc := range runnable {
		if err := ctx.Err(); err != nil {
			return suite, err
		}

		if dep := failedDependency(tc, executed); dep != "" {
			reason := fmt.Sprintf("dependency %q did not pass", dep)
			if err := r.skip(suite, tc, reason); err != nil {
				return suite, err
			}
			if tc.Name != "" {
				executed[tc.Name] = tracker.StatusSkipped
			}
			continue
		}

		result, err := r.RunCase(ctx, suite, tc)
		if err != nil {
			return suite, err
		}
		status := result.Status()
		if tc.Name != "" {
			executed[tc.Name] = status
		}

		if r.config.Bail && (status == tracker.StatusFailed || status == tracker.StatusError) {
			r.logger.Info("bail: stopping after failure", zap.String("test", tc.Name))
			break
		}
	}

	return suite, nil
}

// failedDependency returns the first dependency of tc that ran without
// passing. Dependencies that never ran are ignored.
func failedDependency(tc *TestCase, executed map[string]tracker.Status) string {
	for _, dep := range tc.DependsOn {
		if status, ok := executed[dep]; ok && status != tracker.StatusPassed {
			return dep
		}
	}
	return ""
}

func (r *Runner) skip(suite *tracker.Suite, tc *TestCase, reason string) error {
	result, err := r.tracker.StartTest(suite, tc.Name, tc.TestData)
	if err != nil {
		return err
	}
	r.tracker.EndTest(result, tracker.StatusSkipped, errors.New(reason))
	return nil
}

func (r *Runner) runParallel(ctx context.Context, suite *tracker.Suite, cases []*TestCase) error {
	concurrency := r.config.Concurrency
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	for _, tc := range cases {
		tc := tc
		g.Go(func() error {
			_, err := r.RunCase(gctx, suite, tc)
			return err
		})
	}
	return g.Wait()
}

// RunCase runs one case in suite and returns its ended result. The error is
// non-nil only when the result could not be started.
func (r *Runner) RunCase(ctx context.Context, suite *tracker.Suite, tc *TestCase) (*tracker.TestResult, error) {
	result, err := r.tracker.StartTest(suite, tc.Name, tc.TestData)
	if err != nil {
		return nil, err
	}

	status, err := r.execute(ctx, result, tc)
	r.tracker.EndTest(result, status, err)
	return result, nil
}

// execute performs the request, extractions and assertions of tc and returns
// the terminal status to record.
func (r *Runner) execute(ctx context.Context, result *tracker.TestResult, tc *TestCase) (tracker.Status, error) {
	if tc.Request == nil {
		return tracker.StatusError, ErrNoRequest
	}
	if r.transport == nil {
		return tracker.StatusError, errors.New("no transport configured")
	}

	req := tc.Request.Substitute(r.resolver.Resolve)
	if unresolved := r.resolver.GetUnresolvedVariables(req.URL); len(unresolved) > 0 {
		r.logger.Debug("request has unresolved variables",
			zap.String("test", tc.Name),
			zap.Strings("variables", unresolved),
		)
	}

	carrier, err := r.transport.Do(ctx, req)
	if err != nil {
		return tracker.StatusError, fmt.Errorf("request failed: %w", err)
	}

	if err := r.extractAll(result, tc, carrier); err != nil {
		return tracker.StatusError, err
	}

	if len(tc.Assertions) == 0 {
		if resp, ok := carrier.(*http.Response); ok && resp != nil && !resp.OK() {
			return tracker.StatusFailed, fmt.Errorf("unexpected status %d", resp.StatusCode)
		}
		return tracker.StatusPassed, nil
	}

	evaluator := assertions.NewEvaluator(carrier,
		assertions.WithResolver(r.resolver),
		assertions.WithSchemaDir(r.config.SchemaDir),
		assertions.WithClock(r.tracker.Now),
	)

	failed := 0
	for _, spec := range tc.Assertions {
		outcome, err := evaluator.Evaluate(spec)
		if err != nil {
			return tracker.StatusError, fmt.Errorf("assertion %s: %w", spec.Type, err)
		}
		r.tracker.AddAssertion(result, outcome)
		if !outcome.Passed {
			failed++
		}
	}

	if failed > 0 {
		return tracker.StatusFailed, fmt.Errorf("%d of %d assertions failed", failed, len(tc.Assertions))
	}
	return tracker.StatusPassed, nil
}

// extractAll evaluates every extraction before binding any of them, so one
// malformed expression leaves the variable store untouched. Absent values
// are recorded but not bound.
func (r *Runner) extractAll(result *tracker.TestResult, tc *TestCase, carrier any) error {
	values := make([]extract.Result, len(tc.Extract))
	expressions := make([]string, len(tc.Extract))
	for i, ex := range tc.Extract {
		expressions[i] = r.resolver.Resolve(ex.Expression)
		res, err := extract.Extract(carrier, expressions[i])
		if err != nil {
			return fmt.Errorf("extract %q: %w", ex.Name, err)
		}
		values[i] = res
	}

	for i, ex := range tc.Extract {
		res := values[i]
		r.tracker.AddExtraction(result, ex.Name, expressions[i], res.Value)
		if !res.Found() {
			r.logger.Debug("extraction found nothing",
				zap.String("test", tc.Name),
				zap.String("name", ex.Name),
				zap.String("expression", expressions[i]),
			)
			continue
		}
		r.resolver.SetCapture(tc.Name, ex.Name, res.Value)
	}
	return nil
}

// topologicalSort returns cases in dependency-respecting order. Among cases
// that are ready at the same time the original order is kept.
func (r *Runner) topologicalSort(cases []*TestCase) ([]*TestCase, error) {
	index := make(map[string]int, len(cases))
	for i, tc := range cases {
		if tc.Name != "" {
			index[tc.Name] = i
		}
	}

	inDegree := make([]int, len(cases))
	dependents := make([][]int, len(cases))
	for i, tc := range cases {
		for _, dep := range tc.DependsOn {
			j, ok := index[dep]
			if !ok {
				r.logger.Warn("unknown dependency", zap.String("test", tc.Name), zap.String("depends_on", dep))
				continue
			}
			dependents[j] = append(dependents[j], i)
			inDegree[i]++
		}
	}

	// Kahn's algorithm; the ready set is kept sorted by original position
	var ready []int
	for i := range cases {
		if inDegree[i] == 0 {
			ready = append(ready, i)
		}
	}

	sorted := make([]*TestCase, 0, len(cases))
	for len(ready) > 0 {
		current := ready[0]
		ready = ready[1:]
		sorted = append(sorted, cases[current])

		for _, next := range dependents[current] {
			inDegree[next]--
			if inDegree[next] == 0 {
				ready = insertSorted(ready, next)
			}
		}
	}

	if len(sorted) != len(cases) {
		return nil, fmt.Errorf("circular dependency detected in test cases")
	}
	return sorted, nil
}

func insertSorted(list []int, v int) []int {
	i := 0
	for i < len(list) && list[i] < v {
		i++
	}
	list = append(list, 0)
	copy(list[i+1:], list[i:])
	list[i] = v
	return list
}

func (r *Runner) shouldRun(tc *TestCase) bool {
	if r.config.NameFilter != "" {
		if tc.Name == "" || !matchesPattern(tc.Name, r.config.NameFilter) {
			return false
		}
	}

	if len(r.config.TagsFilter) > 0 {
		if !hasAnyTag(tc.Tags, r.config.TagsFilter) {
			return false
		}
	}

	return true
}

func matchesPattern(name, pattern string) bool {
	if pattern == "" {
		return true
	}

	if pattern[0] == '*' && pattern[len(pattern)-1] == '*' && len(pattern) > 1 {
		return strings.Contains(name, pattern[1:len(pattern)-1])
	}

	if pattern[0] == '*' {
		return strings.HasSuffix(name, pattern[1:])
	}

	if pattern[len(pattern)-1] == '*' {
		return strings.HasPrefix(name, pattern[:len(pattern)-1])
	}

	return name == pattern
}

func hasAnyTag(tags []string, filters []string) bool {
	for _, filter := range filters {
		for _, tag := range tags {
			if tag == filter {
				return true
			}
		}
	}
	return false
}
