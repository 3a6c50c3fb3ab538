package metrics

import "strconv"

// RecordHTTPRequest records an API request with its latency
func RecordHTTPRequest(method, endpoint, status string, durationSeconds float64) {
	HTTPRequestsTotal.WithLabelValues(method, endpoint, status).Inc()
	HTTPRequestDuration.WithLabelValues(method, endpoint).Observe(durationSeconds)
}

// RecordResolution records a stream resolution attempt
func RecordResolution(quality, outcome string) {
	ResolutionsTotal.WithLabelValues(quality, outcome).Inc()
}

// RecordManifestWritten records a successful manifest synthesis
func RecordManifestWritten() {
	ManifestsWrittenTotal.Inc()
}

// RecordManifestFailure records an aborted manifest synthesis
func RecordManifestFailure() {
	ManifestWriteFailuresTotal.Inc()
}

// RecordProgressSync records one progress push by HTTP status
func RecordProgressSync(statusCode int) {
	ProgressSyncsTotal.WithLabelValues(strconv.Itoa(statusCode)).Inc()
}

// RecordUpstreamRequest records an upstream call with its latency
func RecordUpstreamRequest(scope string, durationSeconds float64, failed bool) {
	UpstreamRequestDuration.WithLabelValues(scope).Observe(durationSeconds)
	if failed {
		UpstreamFailuresTotal.WithLabelValues(scope).Inc()
	}
}
