package metrics

import (
	"time"

	"github.com/OFFIS-RIT/newsgraph/pkg/ai"
)

// RecordHTTPRequest records an HTTP request
func (r *Registry) RecordHTTPRequest(method, path, status string, duration time.Duration) {
	r.HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	r.HTTPRequestDuration.WithLabelValues(method, path, status).Observe(duration.Seconds())
}

// RecordArticle counts one article with the given pipeline outcome.
func (r *Registry) RecordArticle(outcome string) {
	r.ArticlesTotal.WithLabelValues(outcome).Inc()
}

// RecordExtracted adds count records of kind ("entity" or "relationship").
func (r *Registry) RecordExtracted(kind string, count int) {
	if count <= 0 {
		return
	}
	r.ExtractedTotal.WithLabelValues(kind).Add(float64(count))
}

func (r *Registry) RecordRunDuration(d time.Duration) {
	r.RunDuration.Observe(d.Seconds())
}

// RecordModelUsage adds the usage accumulated by an AI client since its
// last reset. Callers reset the client afterwards so usage is not counted twice.
func (r *Registry) RecordModelUsage(m ai.ModelMetrics) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.ModelRequestsTotal.Add(float64(m.Requests))
	r.ModelTokensTotal.WithLabelValues("input").Add(float64(m.InputTokens))
	r.ModelTokensTotal.WithLabelValues("output").Add(float64(m.OutputTokens))
}

// RecordJob counts an ingest job transition ("published", "done", "retried", "dead").
func (r *Registry) RecordJob(queue, status string) {
	r.JobsTotal.WithLabelValues(queue, status).Inc()
}
