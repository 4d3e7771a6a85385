package api_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tendant/fixture-content/pkg/fixturecontent/api"
)

func TestMetricsMiddleware(t *testing.T) {
	_, p := setupRouter(t)
	reg := prometheus.NewRegistry()
	metrics := api.NewMetrics(reg, p)

	router := chi.NewRouter()
	router.Use(api.MetricsMiddleware(metrics))
	router.Mount("/api/v1", api.NewItemHandler(p).Routes())

	do(t, router, http.MethodGet, "/api/v1/items/"+homeID.String(), nil)
	do(t, router, http.MethodGet, "/api/v1/items/"+contentID.String(), nil)
	do(t, router, http.MethodGet, "/api/v1/items/bogus", nil)

	families, err := reg.Gather()
	require.NoError(t, err)

	counts := map[string]float64{}
	for _, mf := range families {
		if mf.GetName() != "fixture_api_requests_total" {
			continue
		}
		for _, m := range mf.GetMetric() {
			labels := map[string]string{}
			for _, l := range m.GetLabel() {
				labels[l.GetName()] = l.GetValue()
			}
			assert.Equal(t, "/api/v1/items/{id}", labels["route"])
			counts[labels["status"]] += m.GetCounter().GetValue()
		}
	}
	assert.Equal(t, float64(2), counts["200"])
	assert.Equal(t, float64(1), counts["400"])

	n, err := testutil.GatherAndCount(reg, "fixture_store_items")
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	expected := `
# HELP fixture_store_items Number of items in the fixture store
# TYPE fixture_store_items gauge
fixture_store_items 3
`
	assert.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected), "fixture_store_items"))
}

func TestRecoveryMiddleware(t *testing.T) {
	h := api.RecoveryMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "internal_error")
}
