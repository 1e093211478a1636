// Package metrics exposes server counters in the Prometheus text
// exposition format at GET /metrics. Values come straight from the
// monitor service's atomic counters, so the handler holds no state
// of its own.
package metrics
