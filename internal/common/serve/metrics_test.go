package serve

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricsMux(t *testing.T) {
	reg := prometheus.NewRegistry()
	counter := prometheus.NewCounter(prometheus.CounterOpts{Name: "test_rounds_total", Help: "Rounds."})
	reg.MustRegister(counter)
	counter.Add(3)

	tests := map[string]struct {
		path           string
		expectedStatus int
		expectedBody   string
	}{
		"metrics": {
			path:           "/metrics",
			expectedStatus: http.StatusOK,
			expectedBody:   "test_rounds_total 3",
		},
		"unknown path": {
			path:           "/foo",
			expectedStatus: http.StatusNotFound,
		},
	}
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			recorder := httptest.NewRecorder()
			MetricsMux(reg).ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, tc.path, nil))
			require.Equal(t, tc.expectedStatus, recorder.Code)
			assert.Contains(t, recorder.Body.String(), tc.expectedBody)
		})
	}
}
