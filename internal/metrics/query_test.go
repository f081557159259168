package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRegisterQueryMetrics_Idempotent(t *testing.T) {
	RegisterQueryMetrics()
	RegisterQueryMetrics()
}

func TestQueryMetrics_Record(t *testing.T) {
	RegisterQueryMetrics()

	before := testutil.ToFloat64(QueriesTotal.WithLabelValues("text", "invalid"))
	QueriesTotal.WithLabelValues("text", "invalid").Inc()
	if got := testutil.ToFloat64(QueriesTotal.WithLabelValues("text", "invalid")); got != before+1 {
		t.Errorf("queries_total = %f, want %f", got, before+1)
	}

	QueryDuration.WithLabelValues("ids").Observe(0.01)
	if n := testutil.CollectAndCount(QueryDuration, "assetdex_query_duration_seconds"); n < 1 {
		t.Errorf("expected query_duration_seconds series, got %d", n)
	}

	QueryResults.Observe(3)
	if n := testutil.CollectAndCount(QueryResults); n != 1 {
		t.Errorf("expected one query_results series, got %d", n)
	}
}
