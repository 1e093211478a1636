package metrics

import (
	"log/slog"
	"net/http"

	dto "github.com/prometheus/client_model/go"
	"github.com/prometheus/common/expfmt"

	"github.com/hydrosense/hydrosense/internal/monitor"
)

// Handler serves the Prometheus text exposition for the monitor service.
type Handler struct {
	svc *monitor.Service
}

// NewHandler returns a metrics handler reading from svc.
func NewHandler(svc *monitor.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	format := expfmt.NewFormat(expfmt.TypeTextPlain)
	w.Header().Set("Content-Type", string(format))

	enc := expfmt.NewEncoder(w, format)
	for _, mf := range h.families() {
		if err := enc.Encode(mf); err != nil {
			slog.Error("metrics: encode family", "name", mf.GetName(), "error", err)
			return
		}
	}
}

func (h *Handler) families() []*dto.MetricFamily {
	return []*dto.MetricFamily{
		counter("hydrosense_readings_ingested_total",
			"Total sensor readings accepted across all units.",
			float64(h.svc.TotalIngested())),
		counter("hydrosense_alert_readings_total",
			"Total readings classified as Needs Attention.",
			float64(h.svc.TotalAlertReadings())),
		counter("hydrosense_readings_rejected_total",
			"Total readings rejected by validation.",
			float64(h.svc.TotalRejected())),
		gauge("hydrosense_monitored_units",
			"Number of units with at least one reading.",
			float64(h.svc.UnitCount())),
	}
}

func counter(name, help string, value float64) *dto.MetricFamily {
	return &dto.MetricFamily{
		Name: strPtr(name),
		Help: strPtr(help),
		Type: dto.MetricType_COUNTER.Enum(),
		Metric: []*dto.Metric{
			{Counter: &dto.Counter{Value: floatPtr(value)}},
		},
	}
}

func gauge(name, help string, value float64) *dto.MetricFamily {
	return &dto.MetricFamily{
		Name: strPtr(name),
		Help: strPtr(help),
		Type: dto.MetricType_GAUGE.Enum(),
		Metric: []*dto.Metric{
			{Gauge: &dto.Gauge{Value: floatPtr(value)}},
		},
	}
}

func strPtr(s string) *string     { return &s }
func floatPtr(f float64) *float64 { return &f }
