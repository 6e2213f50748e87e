package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rpgo/finplan/internal/api"
	"github.com/rpgo/finplan/internal/calculation"
	"github.com/rpgo/finplan/internal/config"
	"github.com/rpgo/finplan/internal/domain"
	"github.com/rpgo/finplan/internal/output"
)

const localePlan = `name: locale
investment:
  initial: "10000,50"
  monthly: 1500,25
  annual_return: 8
  years: 3
  skip_months: "8"
  extra_months: 12, 6
  extra_amount: 2000
debt:
  title: Laptop
  cost: 30000
  cat_annual: 24,9
  term_months: 18
`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestExamplePlanEndToEnd(t *testing.T) {
	parser := config.NewInputParser()
	path := filepath.Join(t.TempDir(), "plan.yaml")
	require.NoError(t, config.SavePlan(parser.CreateExamplePlan(), path))

	plan, err := parser.LoadFromFile(path)
	require.NoError(t, err)

	engine := calculation.NewCalculationEngine()
	report, err := engine.RunPlan(context.Background(), plan)
	require.NoError(t, err)

	require.NotNil(t, report.Investment)
	assert.Len(t, report.Investment.Rows, 20)
	assert.Empty(t, calculation.CheckYearRows(report.Investment.Rows))
	require.NotNil(t, report.Investment.MonteCarlo)
	assert.Equal(t, 1000, report.Investment.MonteCarlo.Runs)

	require.NotNil(t, report.Debt)
	assert.Empty(t, report.DebtError)
	assert.InDelta(t, 0, report.Debt.Rows[len(report.Debt.Rows)-1].Balance, 1e-4)

	for _, name := range output.AvailableFormatterNames() {
		var buf bytes.Buffer
		require.NoError(t, output.Render(&buf, report, name), name)
		assert.NotEmpty(t, buf.String(), name)
	}
}

func TestLocalePlanFile(t *testing.T) {
	plan, err := config.NewInputParser().LoadFromFile(writeFile(t, "locale.yaml", localePlan))
	require.NoError(t, err)
	assert.Equal(t, 10000.5, plan.Investment.Initial)
	assert.Equal(t, 1500.25, plan.Investment.Monthly)
	assert.Equal(t, 24.9, plan.Debt.CATAnnual)
	assert.Equal(t, []int{6, 12}, plan.Investment.ExtraMonths.Months())

	report, err := calculation.NewCalculationEngine().RunPlan(context.Background(), plan)
	require.NoError(t, err)
	assert.Equal(t, "locale", report.Name)
	assert.Equal(t, 18, report.Debt.Summary.Months)

	// 11 contributing months plus two extras per year, three years.
	assert.InDelta(t, 10000.5+3*(11*1500.25+2*2000), report.Investment.TotalContrib, 1e-6)
}

func TestHTTPRoundTrip(t *testing.T) {
	cfg := &config.ServerConfig{Env: "test", CORSOrigins: []string{"*"}, MaxMCRuns: 200}
	srv := httptest.NewServer(api.NewServer(cfg, nil, nil).Handler())
	defer srv.Close()

	body := `{"name":"web","investment":{"monthly":2000,"years":2,"vol_annual":12,"mc_runs":50,"seed":3}}`
	resp, err := http.Post(srv.URL+"/api/v1/plan", "application/json", strings.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var report domain.PlanReport
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&report))
	assert.Equal(t, "web", report.Name)
	require.NotNil(t, report.Investment)
	assert.Len(t, report.Investment.Rows, 2)
	require.NotNil(t, report.Investment.MonteCarlo)
	assert.Equal(t, 50, report.Investment.MonteCarlo.Runs)
	assert.Equal(t, int64(3), report.Investment.MonteCarlo.Seed)
}
