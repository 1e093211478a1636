package metrics_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	dto "github.com/prometheus/client_model/go"
	"github.com/prometheus/common/expfmt"

	"github.com/hydrosense/hydrosense/internal/classify"
	"github.com/hydrosense/hydrosense/internal/metrics"
	"github.com/hydrosense/hydrosense/internal/monitor"
	"github.com/hydrosense/hydrosense/internal/registry"
)

func scrape(t *testing.T, h http.Handler) map[string]*dto.MetricFamily {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.Contains(ct, "text/plain") {
		t.Errorf("content type: got %q, want text/plain exposition", ct)
	}

	var parser expfmt.TextParser
	mfs, err := parser.TextToMetricFamilies(rec.Body)
	if err != nil {
		t.Fatalf("parse exposition: %v", err)
	}
	return mfs
}

func value(t *testing.T, mfs map[string]*dto.MetricFamily, name string) float64 {
	t.Helper()
	mf, ok := mfs[name]
	if !ok {
		t.Fatalf("metric %s missing from exposition", name)
	}
	if len(mf.GetMetric()) != 1 {
		t.Fatalf("metric %s: got %d samples, want 1", name, len(mf.GetMetric()))
	}
	m := mf.GetMetric()[0]
	switch {
	case m.Counter != nil:
		return m.Counter.GetValue()
	case m.Gauge != nil:
		return m.Gauge.GetValue()
	}
	t.Fatalf("metric %s: no counter or gauge value", name)
	return 0
}

func TestHandler_EmptyService(t *testing.T) {
	svc := monitor.New(registry.New())
	mfs := scrape(t, metrics.NewHandler(svc))

	for _, name := range []string{
		"hydrosense_readings_ingested_total",
		"hydrosense_alert_readings_total",
		"hydrosense_readings_rejected_total",
		"hydrosense_monitored_units",
	} {
		if got := value(t, mfs, name); got != 0 {
			t.Errorf("%s: got %v, want 0", name, got)
		}
	}
}

func TestHandler_CountersTrackService(t *testing.T) {
	svc := monitor.New(registry.New())
	base := time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)

	// Two healthy readings on one unit, one alert reading on another.
	for i, in := range []monitor.Input{
		{UnitID: "unit-a", Values: classify.Values{PH: 6.0, Temperature: 22, EC: 1.2}},
		{UnitID: "unit-a", Values: classify.Values{PH: 6.5, Temperature: 23, EC: 1.3}},
		{UnitID: "unit-b", Values: classify.Values{PH: 4.0, Temperature: 22, EC: 1.2}},
	} {
		in.Timestamp = base.Add(time.Duration(i) * time.Minute)
		if _, err := svc.Ingest(in); err != nil {
			t.Fatalf("Ingest: %v", err)
		}
	}

	// One rejected reading.
	_, err := svc.Ingest(monitor.Input{UnitID: " ", Timestamp: base})
	if err == nil {
		t.Fatal("expected validation error for blank unit id")
	}

	mfs := scrape(t, metrics.NewHandler(svc))

	if got := value(t, mfs, "hydrosense_readings_ingested_total"); got != 3 {
		t.Errorf("ingested: got %v, want 3", got)
	}
	if got := value(t, mfs, "hydrosense_alert_readings_total"); got != 1 {
		t.Errorf("alert readings: got %v, want 1", got)
	}
	if got := value(t, mfs, "hydrosense_readings_rejected_total"); got != 1 {
		t.Errorf("rejected: got %v, want 1", got)
	}
	if got := value(t, mfs, "hydrosense_monitored_units"); got != 2 {
		t.Errorf("monitored units: got %v, want 2", got)
	}
}

func TestHandler_MetricTypes(t *testing.T) {
	svc := monitor.New(registry.New())
	mfs := scrape(t, metrics.NewHandler(svc))

	if got := mfs["hydrosense_readings_ingested_total"].GetType(); got != dto.MetricType_COUNTER {
		t.Errorf("ingested type: got %v, want COUNTER", got)
	}
	if got := mfs["hydrosense_monitored_units"].GetType(); got != dto.MetricType_GAUGE {
		t.Errorf("units type: got %v, want GAUGE", got)
	}
}
