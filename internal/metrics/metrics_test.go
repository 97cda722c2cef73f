package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	return NewWith(reg, reg)
}

func TestRecordStart(t *testing.T) {
	m := newTestMetrics()

	m.RecordStart()
	m.RecordStart()

	assert.Equal(t, 2.0, testutil.ToFloat64(m.Starts))
}

func TestRecordAttempt(t *testing.T) {
	m := newTestMetrics()

	m.RecordAttempt(OutcomeWrong, 0)
	m.RecordAttempt(OutcomeWrong, 1)
	m.RecordAttempt(OutcomeUnknown, 2)
	m.RecordAttempt(OutcomeCorrect, 2)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.Attempts.WithLabelValues(OutcomeWrong)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Attempts.WithLabelValues(OutcomeUnknown)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Attempts.WithLabelValues(OutcomeCorrect)))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.Attempts.WithLabelValues(OutcomeInvalid)))
	assert.Equal(t, 1, testutil.CollectAndCount(m.SolvedAfter))
}

func TestNewRegistersRuntimeCollectors(t *testing.T) {
	m := New()
	m.CatalogSize.Set(42)

	families, err := m.gatherer.Gather()
	require.NoError(t, err)

	names := make(map[string]bool)
	for _, f := range families {
		names[f.GetName()] = true
	}
	assert.True(t, names["go_goroutines"])
	assert.True(t, names["nixdle_catalog_functions"])
}

func TestHandler(t *testing.T) {
	m := newTestMetrics()
	m.RecordStart()
	m.RecordAttempt(OutcomeCorrect, 3)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)

	for _, want := range []string{
		"# TYPE nixdle_starts_total counter",
		"nixdle_starts_total 1",
		`nixdle_attempts_total{outcome="correct"} 1`,
		"nixdle_solved_after_attempts_count 1",
	} {
		assert.True(t, strings.Contains(string(body), want), "missing %q", want)
	}
}
