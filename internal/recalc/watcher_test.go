package recalc

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rpgo/finplan/internal/calculation"
)

const planTemplate = `name: %s
debt:
  title: Car
  cost: 12000
  cat_annual: 12
  term_months: 24
`

func writePlan(t *testing.T, path, name string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(fmt.Sprintf(planTemplate, name)), 0644))
}

// waitFor reads results until match returns true.
func waitFor(t *testing.T, ch <-chan Result, match func(Result) bool) Result {
	t.Helper()
	deadline := time.After(5 * time.Second)
	for {
		select {
		case res, ok := <-ch:
			require.True(t, ok, "results channel closed")
			if match(res) {
				return res
			}
		case <-deadline:
			t.Fatal("timed out waiting for a matching result")
			return Result{}
		}
	}
}

func TestWatcherReloadsOnWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "plan.yaml")
	writePlan(t, path, "first")

	r := NewRecalculator(calculation.NewCalculationEngine(), nil)
	defer r.Close()

	w, err := NewWatcher(path, r, nil)
	require.NoError(t, err)
	w.SetDebounce(20 * time.Millisecond)
	require.NoError(t, w.Start(context.Background()))
	defer w.Stop()

	res := waitFor(t, r.Results(), func(res Result) bool {
		return res.Report != nil && res.Report.Name == "first"
	})
	require.NotNil(t, res.Report.Debt)
	assert.Equal(t, 24, res.Report.Debt.Summary.Months)

	writePlan(t, path, "second")
	waitFor(t, r.Results(), func(res Result) bool {
		return res.Report != nil && res.Report.Name == "second"
	})

	require.NoError(t, os.WriteFile(path, []byte("debt: [unclosed"), 0644))
	res = waitFor(t, r.Results(), func(res Result) bool {
		return res.Err != nil && strings.Contains(res.Err.Error(), "failed to parse YAML")
	})
	assert.Nil(t, res.Report)
}

func TestWatcherIgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "plan.yaml")
	writePlan(t, path, "only")

	r := NewRecalculator(calculation.NewCalculationEngine(), nil)
	defer r.Close()

	w, err := NewWatcher(path, r, nil)
	require.NoError(t, err)
	w.SetDebounce(10 * time.Millisecond)
	require.NoError(t, w.Start(context.Background()))

	waitFor(t, r.Results(), func(res Result) bool { return res.Report != nil })
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0644))

	select {
	case res := <-r.Results():
		t.Fatalf("unexpected recalculation %d", res.Seq)
	case <-time.After(150 * time.Millisecond):
	}
	w.Stop()
	w.Stop()
}

func TestWatcherStopsWithContext(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "plan.yaml")
	writePlan(t, path, "ctx")

	r := NewRecalculator(calculation.NewCalculationEngine(), nil)
	defer r.Close()
	w, err := NewWatcher(path, r, nil)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, w.Start(ctx))
	cancel()

	select {
	case <-w.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("watch loop did not exit after cancellation")
	}
	select {
	case _, ok := <-w.watcher.Events:
		assert.False(t, ok, "fsnotify watcher should be closed without Stop")
	case <-time.After(2 * time.Second):
		t.Fatal("fsnotify watcher was not closed")
	}
	w.Stop()
}

func TestNewWatcherMissingDirectory(t *testing.T) {
	r := NewRecalculator(calculation.NewCalculationEngine(), nil)
	defer r.Close()
	w, err := NewWatcher(filepath.Join(t.TempDir(), "missing", "plan.yaml"), r, nil)
	require.NoError(t, err)
	assert.Error(t, w.Start(context.Background()))
	w.Stop()
	select {
	case _, ok := <-w.watcher.Events:
		assert.False(t, ok)
	case <-time.After(2 * time.Second):
		t.Fatal("fsnotify watcher was not closed")
	}
}
