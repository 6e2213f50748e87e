package metrics

import (
	"errors"
	"testing"
	"time"

	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func counterValue(t *testing.T, kind, status string) float64 {
	t.Helper()
	m := &dto.Metric{}
	require.NoError(t, Simulations.WithLabelValues(kind, status).Write(m))
	return m.GetCounter().GetValue()
}

func TestObserveSimulation(t *testing.T) {
	okBefore := counterValue(t, KindDebt, "ok")
	errBefore := counterValue(t, KindDebt, "error")

	ObserveSimulation(KindDebt, time.Now(), nil)
	ObserveSimulation(KindDebt, time.Now(), errors.New("boom"))
	ObserveSimulation(KindDebt, time.Now(), nil)

	assert.Equal(t, okBefore+2, counterValue(t, KindDebt, "ok"))
	assert.Equal(t, errBefore+1, counterValue(t, KindDebt, "error"))
}

func TestStatus(t *testing.T) {
	assert.Equal(t, "ok", Status(nil))
	assert.Equal(t, "error", Status(errors.New("x")))
}
