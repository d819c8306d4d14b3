package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetrics_ObserveAllotment(t *testing.T) {
	t.Parallel()

	m := New()
	m.ObserveAllotment(4, 950, 12*time.Millisecond, nil)
	m.ObserveAllotment(4, 0, time.Millisecond, errors.New("boom"))

	assert.Equal(t, 1.0, testutil.ToFloat64(m.allotmentRuns.WithLabelValues(OutcomeSuccess)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.allotmentRuns.WithLabelValues(OutcomeError)))
	assert.Equal(t, 950.0, testutil.ToFloat64(m.sharesAllotted))
	assert.Equal(t, 4.0, testutil.ToFloat64(m.lastCompany))
}

func TestMetrics_SharesAllottedTracksLatestRunOnly(t *testing.T) {
	t.Parallel()

	m := New()
	for id := uint(1); id <= 50; id++ {
		m.ObserveAllotment(id, int64(id)*10, time.Millisecond, nil)
	}

	assert.Equal(t, 1, testutil.CollectAndCount(m.sharesAllotted, "ipo_shares_allotted"))
	assert.Equal(t, 500.0, testutil.ToFloat64(m.sharesAllotted))
	assert.Equal(t, 50.0, testutil.ToFloat64(m.lastCompany))
}

func TestMetrics_ObserveRefunds(t *testing.T) {
	t.Parallel()

	m := New()
	m.ObserveRefunds(time.Millisecond, nil)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.refundRuns.WithLabelValues(OutcomeSuccess)))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.refundRuns.WithLabelValues(OutcomeError)))
}

func TestMetrics_Handler(t *testing.T) {
	t.Parallel()

	m := New()
	m.ObserveRefunds(time.Millisecond, nil)

	w := httptest.NewRecorder()
	m.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "ipo_refund_runs_total")
}
