package metrics

import (
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecorderCounts(t *testing.T) {
	r := NewWithRegisterer(prometheus.NewRegistry())

	r.RecordMarketplaceCall("ebay", "search", 0.2, nil)
	r.RecordMarketplaceCall("ebay", "search", 0.4, errors.New("boom"))
	r.RecordAlertTriggered("pwcc")
	r.RecordError("normalize")

	if got := testutil.ToFloat64(r.marketplaceCalls.WithLabelValues("ebay", "search", "ok")); got != 1 {
		t.Fatalf("ok calls = %v", got)
	}
	if got := testutil.ToFloat64(r.marketplaceCalls.WithLabelValues("ebay", "search", "error")); got != 1 {
		t.Fatalf("error calls = %v", got)
	}
	if got := testutil.ToFloat64(r.alertsTriggered.WithLabelValues("pwcc")); got != 1 {
		t.Fatalf("alerts = %v", got)
	}
}
