package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rpgo/finplan/internal/domain"
	"github.com/rpgo/finplan/pkg/dateutil"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestInvestSummary(t *testing.T) {
	out, err := execute(t, "invest", "--monthly", "1000", "--annual-return", "0", "--inflation", "0", "--format", "summary")
	require.NoError(t, err)
	assert.Contains(t, out, "Nominal value: MX$ 12,000.00")
	assert.Contains(t, out, "Total contributions: MX$ 12,000.00")
}

func TestInvestLocaleDecimalFlag(t *testing.T) {
	out, err := execute(t, "invest", "--monthly", "1000,5", "--annual-return", "0", "--inflation", "0", "--format", "copy")
	require.NoError(t, err)
	assert.Contains(t, out, "Total contributions: MX$ 12,006.00")
}

func TestInvestRejectsInvalidInput(t *testing.T) {
	_, err := execute(t, "invest", "--monthly", "1000", "--years", "0")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = execute(t, "invest", "--monthly", "abc")
	require.Error(t, err)
}

func TestDebtConsole(t *testing.T) {
	out, err := execute(t, "debt", "--title", "Car", "--cost", "12000", "--term", "12")
	require.NoError(t, err)
	assert.Contains(t, out, "LOAN AMORTIZATION: Car")
	assert.Contains(t, out, "Months: 12 (1.0 years)")
}

func TestDebtAllMonthsSkipped(t *testing.T) {
	out, err := execute(t, "debt", "--cost", "12000", "--term", "12", "--skip-months", "1,2,3,4,5,6,7,8,9,10,11,12")
	require.NoError(t, err)
	assert.Contains(t, out, "Months: 24 (2.0 years)")
}

func TestDebtNotLiquidated(t *testing.T) {
	_, err := execute(t, "debt", "--cost", "12000", "--term", "1200", "--cat", "100")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrNotLiquidated)
}

func TestMonteCarloCommand(t *testing.T) {
	out, err := execute(t, "montecarlo", "--monthly", "1000", "--years", "3", "--mc-runs", "100", "--seed", "9")
	require.NoError(t, err)
	assert.Contains(t, out, "Runs: 100 (seed 9)")
	assert.Contains(t, out, "P50: MX$ ")

	_, err = execute(t, "montecarlo", "--monthly", "1000", "--vol", "0")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestExampleConfigAndRun(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "plan.yaml")

	out, err := execute(t, "example-config", path)
	require.NoError(t, err)
	assert.Contains(t, out, path)

	out, err = execute(t, "run", path, "--format", "summary")
	require.NoError(t, err)
	assert.Contains(t, out, "Nominal value:")
	assert.Contains(t, out, "Car loan:")

	reports := filepath.Join(dir, "reports")
	require.NoError(t, os.Mkdir(reports, 0755))
	out, err = execute(t, "run", path, "--format", "all", "--output-dir", reports)
	require.NoError(t, err)
	assert.Len(t, strings.Split(strings.TrimSpace(out), "\n"), 3)
	entries, err := os.ReadDir(reports)
	require.NoError(t, err)
	assert.Len(t, entries, 3)
}

func TestExampleConfigStdout(t *testing.T) {
	out, err := execute(t, "example-config")
	require.NoError(t, err)
	assert.Contains(t, out, "investment:")
	assert.Contains(t, out, "extra_months: \"12\"")
}

func TestRunMissingFile(t *testing.T) {
	_, err := execute(t, "run", filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read file")
}

func TestMonthsCommand(t *testing.T) {
	out, err := execute(t, "months", "12, 6,6,x")
	require.NoError(t, err)
	assert.Equal(t, "12,6\n", out)
}

func TestLocaleFloatFlag(t *testing.T) {
	var v float64
	f := localeFloat{&v}
	require.NoError(t, f.Set("1234,5"))
	assert.Equal(t, 1234.5, v)
	assert.Equal(t, "1234.5", f.String())
	assert.Error(t, f.Set("x"))

	var m dateutil.MonthSet
	mf := monthsFlag{&m}
	require.NoError(t, mf.Set("12, 6, 99"))
	assert.Equal(t, "6,12", mf.String())
}
