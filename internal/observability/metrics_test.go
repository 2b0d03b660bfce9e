package observability

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordTrade(t *testing.T) {
	before := testutil.ToFloat64(DefaultMetrics.TradesTotal.WithLabelValues("buy", "WHALE"))
	volBefore := testutil.ToFloat64(DefaultMetrics.TradeVolume.WithLabelValues("buy"))

	RecordTrade("buy", "WHALE", 12.5)

	assert.Equal(t, before+1, testutil.ToFloat64(DefaultMetrics.TradesTotal.WithLabelValues("buy", "WHALE")))
	assert.InDelta(t, volBefore+12.5, testutil.ToFloat64(DefaultMetrics.TradeVolume.WithLabelValues("buy")), 1e-9)
}

func TestRecordTick(t *testing.T) {
	before := testutil.ToFloat64(DefaultMetrics.TicksTotal)
	at := time.Unix(1_700_000_000, 0)

	RecordTick(150*time.Millisecond, at)
	SetActiveTokens(3)

	assert.Equal(t, before+1, testutil.ToFloat64(DefaultMetrics.TicksTotal))
	assert.Equal(t, float64(at.Unix()), testutil.ToFloat64(DefaultMetrics.LastSuccessfulTick))
	assert.Equal(t, 3.0, testutil.ToFloat64(DefaultMetrics.ActiveTokens))
}

func TestHandlerExposesMetrics(t *testing.T) {
	RecordTerminal("dead", "rug_pull")

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), "memesim_market_terminal_transitions_total"))
}

func TestAddUptime(t *testing.T) {
	before := testutil.ToFloat64(DefaultMetrics.UptimeSeconds)
	AddUptime(1500 * time.Millisecond)
	assert.InDelta(t, before+1.5, testutil.ToFloat64(DefaultMetrics.UptimeSeconds), 1e-9)
}
