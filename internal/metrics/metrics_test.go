package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecordHTTPRequest(t *testing.T) {
	// Reset metrics
	HTTPRequestsTotal.Reset()
	HTTPRequestDuration.Reset()

	RecordHTTPRequest("GET", "/play/SHOW/110342-012-A", "200", 0.123)

	counter := testutil.ToFloat64(HTTPRequestsTotal.WithLabelValues("GET", "/play/SHOW/110342-012-A", "200"))
	if counter != 1.0 {
		t.Errorf("Expected counter to be 1.0, got %f", counter)
	}
}

func TestRecordResolution(t *testing.T) {
	ResolutionsTotal.Reset()

	RecordResolution("SQ", "resolved")
	RecordResolution("SQ", "resolved")
	RecordResolution("HQ", "not_resolved")

	resolved := testutil.ToFloat64(ResolutionsTotal.WithLabelValues("SQ", "resolved"))
	if resolved != 2.0 {
		t.Errorf("Expected resolved counter to be 2.0, got %f", resolved)
	}

	missed := testutil.ToFloat64(ResolutionsTotal.WithLabelValues("HQ", "not_resolved"))
	if missed != 1.0 {
		t.Errorf("Expected not_resolved counter to be 1.0, got %f", missed)
	}
}

func TestRecordProgressSync(t *testing.T) {
	ProgressSyncsTotal.Reset()

	RecordProgressSync(200)
	RecordProgressSync(200)
	RecordProgressSync(502)

	ok := testutil.ToFloat64(ProgressSyncsTotal.WithLabelValues("200"))
	if ok != 2.0 {
		t.Errorf("Expected 200 counter to be 2.0, got %f", ok)
	}

	failed := testutil.ToFloat64(ProgressSyncsTotal.WithLabelValues("502"))
	if failed != 1.0 {
		t.Errorf("Expected 502 counter to be 1.0, got %f", failed)
	}
}

func TestRecordUpstreamRequest(t *testing.T) {
	UpstreamFailuresTotal.Reset()

	RecordUpstreamRequest("catalog_streams", 0.2, false)
	RecordUpstreamRequest("catalog_streams", 1.5, true)

	failures := testutil.ToFloat64(UpstreamFailuresTotal.WithLabelValues("catalog_streams"))
	if failures != 1.0 {
		t.Errorf("Expected failure counter to be 1.0, got %f", failures)
	}
}
