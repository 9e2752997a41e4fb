package tracker

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/abdul-hamid-achik/yhspec/packages/assertions"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func populate(t *testing.T, tr *Tracker, clock *fakeClock) {
	t.Helper()

	users := tr.StartSuite("users")
	r, err := tr.StartTest(users, "create", map[string]any{"name": "ada"})
	require.NoError(t, err)
	tr.AddExtraction(r, "user_id", "$.id", float64(7))
	tr.AddAssertion(r, &assertions.Outcome{Type: assertions.TypeStatusCode, Expression: "status_code", Expected: 201, Actual: 201, Passed: true})
	clock.Advance(time.Second)
	tr.EndTest(r, StatusPassed, nil)

	r, _ = tr.StartTest(users, "fetch", nil)
	clock.Advance(time.Second)
	tr.EndTest(r, StatusFailed, nil)
	tr.EndSuite(users)

	orders := tr.StartSuite("orders")
	r, _ = tr.StartTest(orders, "list", nil)
	clock.Advance(time.Second)
	tr.EndTest(r, StatusError, errors.New("not valid JSON"))
	r, _ = tr.StartTest(orders, "cancel", nil)
	tr.EndTest(r, StatusSkipped, errors.New(`dependency "list" did not pass`))
	tr.EndSuite(orders)
}

func TestSummary(t *testing.T) {
	clock := newFakeClock()
	tr := New(WithClock(clock.Now))
	populate(t, tr, clock)

	sum := tr.Summary()

	assert.Equal(t, tr.RunID(), sum.RunID)
	assert.NotEmpty(t, sum.RunID)
	assert.Equal(t, 2, sum.TotalSuites)
	assert.Equal(t, 4, sum.TotalTests)
	assert.Equal(t, 1, sum.TotalPassed)
	assert.Equal(t, 1, sum.TotalFailed)
	assert.Equal(t, 1, sum.TotalSkipped)
	assert.Equal(t, 1, sum.TotalErrors)
	assert.Equal(t, 3.0, sum.TotalDuration)
	assert.Equal(t, 25.0, sum.SuccessRate)
	assert.True(t, sum.Failed())

	require.Len(t, sum.Suites, 2)
	assert.Equal(t, "users", sum.Suites[0].Name)
	assert.Equal(t, 2, sum.Suites[0].TotalCount)
	assert.Equal(t, "not valid JSON", sum.Suites[1].Tests[0].ErrorMessage)
	assert.Equal(t, `dependency "list" did not pass`, sum.Suites[1].Tests[1].ErrorMessage)
}

func TestSummaryEmpty(t *testing.T) {
	sum := New().Summary()
	assert.Equal(t, 0, sum.TotalTests)
	assert.Equal(t, 0.0, sum.SuccessRate)
	assert.False(t, sum.Failed())
	assert.NotNil(t, sum.Suites)
}

func TestSave(t *testing.T) {
	clock := newFakeClock()

	t.Run("default timestamped path", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "nested", "results")
		tr := New(WithClock(clock.Now), WithResultsDir(dir))
		populate(t, tr, clock)

		path, err := tr.Save("")
		require.NoError(t, err)

		expected := filepath.Join(dir, "results_"+clock.Now().Format("20060102_150405")+".json")
		assert.Equal(t, expected, path)
		_, err = os.Stat(path)
		require.NoError(t, err)
	})

	t.Run("explicit path round trips", func(t *testing.T) {
		tr := New(WithClock(clock.Now))
		populate(t, tr, clock)

		path := filepath.Join(t.TempDir(), "out", "run.json")
		written, err := tr.Save(path)
		require.NoError(t, err)
		assert.Equal(t, path, written)

		loaded, err := LoadSummary(path)
		require.NoError(t, err)
		assert.Equal(t, tr.RunID(), loaded.RunID)
		assert.Equal(t, 4, loaded.TotalTests)
		assert.Equal(t, 25.0, loaded.SuccessRate)
		require.Len(t, loaded.Suites, 2)
		require.Len(t, loaded.Suites[0].Tests[0].Extractions, 1)
		assert.Equal(t, float64(7), loaded.Suites[0].Tests[0].Extractions[0].Value)
		assert.Equal(t, StatusSkipped, loaded.Suites[1].Tests[1].Status)
	})
}

func TestLoadSummaryErrors(t *testing.T) {
	_, err := LoadSummary(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)

	bad := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte("{"), 0644))
	_, err = LoadSummary(bad)
	assert.Error(t, err)
}
