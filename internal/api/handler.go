package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/hydrosense/hydrosense/internal/alerts"
	"github.com/hydrosense/hydrosense/internal/classify"
	"github.com/hydrosense/hydrosense/internal/ledger"
	"github.com/hydrosense/hydrosense/internal/monitor"
)

// Physical plausibility limits enforced at the API boundary. Malfunctioning
// sensors report impossible values; rejecting them here keeps bad data out
// of the ledgers without making the core opinionated about sensor physics.
const (
	phPhysicalMin   = 0.0
	phPhysicalMax   = 14.0
	tempPhysicalMin = -10.0
	tempPhysicalMax = 60.0
)

// Handler is the HTTP handler for the REST API. It delegates everything to
// the monitor service and renders JSON responses.
type Handler struct {
	svc    *monitor.Service
	engine *alerts.Engine
	router *mux.Router
	now    func() time.Time // injectable for deterministic tests
}

// New creates a Handler wired to svc and registers all routes. engine may
// be nil when the rule engine is disabled; the active-alerts endpoint then
// returns an empty list.
func New(svc *monitor.Service, engine *alerts.Engine) *Handler {
	h := &Handler{
		svc:    svc,
		engine: engine,
		router: mux.NewRouter(),
		now:    time.Now,
	}

	h.router.HandleFunc("/api/v1/sensor", h.submitReading).Methods(http.MethodPost)
	h.router.HandleFunc("/api/v1/alerts", h.unitAlerts).Methods(http.MethodGet)
	h.router.HandleFunc("/api/v1/alerts/active", h.activeAlerts).Methods(http.MethodGet)
	h.router.HandleFunc("/api/v1/units", h.listUnits).Methods(http.MethodGet)
	h.router.HandleFunc("/healthcheck", h.healthcheck).Methods(http.MethodGet)

	h.router.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		jsonErr(w, http.StatusMethodNotAllowed, "method not allowed")
	})
	h.router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		jsonErr(w, http.StatusNotFound, "not found")
	})

	return h
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.router.ServeHTTP(w, r)
}

// --- route handlers ---------------------------------------------------------

// submitReading handles POST /api/v1/sensor.
func (h *Handler) submitReading(w http.ResponseWriter, r *http.Request) {
	var p SensorPayload
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(&p); err != nil {
		jsonErr(w, http.StatusBadRequest, "invalid request body: expected JSON with unitId, timestamp, readings")
		return
	}

	in, status, msg := h.toInput(p)
	if msg != "" {
		jsonErr(w, status, msg)
		return
	}

	label, err := h.svc.Ingest(in)
	if err != nil {
		var verr *classify.ValidationError
		if errors.As(err, &verr) {
			jsonErr(w, http.StatusUnprocessableEntity, verr.Error())
			return
		}
		slog.Error("api: ingest failed", "unit", in.UnitID, "err", err)
		jsonErr(w, http.StatusInternalServerError, "an unexpected error occurred while processing the sensor data")
		return
	}

	jsonResp(w, http.StatusOK, ClassificationResponse{
		Status:         "OK",
		Classification: string(label),
	})
}

// toInput validates the decoded payload and converts it to a monitor.Input.
// On failure it returns a client-error status code and message.
func (h *Handler) toInput(p SensorPayload) (monitor.Input, int, string) {
	switch {
	case p.UnitID == nil:
		return monitor.Input{}, http.StatusBadRequest, "unitId is required"
	case p.Timestamp == nil:
		return monitor.Input{}, http.StatusBadRequest, "timestamp is required"
	case p.Readings == nil:
		return monitor.Input{}, http.StatusBadRequest, "readings is required"
	case p.Readings.PH == nil:
		return monitor.Input{}, http.StatusBadRequest, "readings.pH is required"
	case p.Readings.Temp == nil:
		return monitor.Input{}, http.StatusBadRequest, "readings.temp is required"
	case p.Readings.EC == nil:
		return monitor.Input{}, http.StatusBadRequest, "readings.ec is required"
	}

	ts, err := time.Parse(time.RFC3339, *p.Timestamp)
	if err != nil {
		return monitor.Input{}, http.StatusBadRequest,
			fmt.Sprintf("timestamp %q is not a valid RFC 3339 instant", *p.Timestamp)
	}
	// Future timestamps indicate clock sync issues on the sensor device and
	// would corrupt trend analysis by appearing out of sequence.
	if now := h.now(); ts.After(now) {
		return monitor.Input{}, http.StatusBadRequest,
			fmt.Sprintf("timestamp %q is in the future (server time %s)", *p.Timestamp, now.UTC().Format(time.RFC3339))
	}

	ph, temp, ec := *p.Readings.PH, *p.Readings.Temp, *p.Readings.EC
	if ph < phPhysicalMin || ph > phPhysicalMax {
		return monitor.Input{}, http.StatusUnprocessableEntity,
			fmt.Sprintf("pH value %g is outside valid range (0-14)", ph)
	}
	if temp < tempPhysicalMin || temp > tempPhysicalMax {
		return monitor.Input{}, http.StatusUnprocessableEntity,
			fmt.Sprintf("temperature %g°C is outside valid range (-10 to 60°C)", temp)
	}
	if ec < 0 {
		return monitor.Input{}, http.StatusUnprocessableEntity,
			fmt.Sprintf("EC value %g cannot be negative", ec)
	}

	return monitor.Input{
		UnitID:    *p.UnitID,
		Timestamp: ts,
		Values:    classify.Values{PH: ph, Temperature: temp, EC: ec},
	}, 0, ""
}

// unitAlerts handles GET /api/v1/alerts?unitId=X.
func (h *Handler) unitAlerts(w http.ResponseWriter, r *http.Request) {
	unitID := r.URL.Query().Get("unitId")

	res, err := h.svc.AlertsFor(unitID)
	if err != nil {
		// The only failure is a blank identifier — a client fault.
		jsonErr(w, http.StatusBadRequest, "unitId query parameter is required and cannot be empty")
		return
	}

	out := AlertsResponse{
		UnitID:        res.UnitID,
		Alerts:        make([]ReadingResponse, 0, len(res.Alerts)),
		UnitExists:    res.UnitExists,
		TotalReadings: res.TotalReadings,
	}
	for _, a := range res.Alerts {
		out.Alerts = append(out.Alerts, toReadingResponse(a))
	}
	jsonResp(w, http.StatusOK, out)
}

// activeAlerts handles GET /api/v1/alerts/active — rule-engine alerts.
func (h *Handler) activeAlerts(w http.ResponseWriter, r *http.Request) {
	if h.engine == nil {
		jsonResp(w, http.StatusOK, []*alerts.Alert{})
		return
	}
	jsonResp(w, http.StatusOK, h.engine.Active())
}

// listUnits handles GET /api/v1/units.
func (h *Handler) listUnits(w http.ResponseWriter, r *http.Request) {
	jsonResp(w, http.StatusOK, BuildOverview(h.svc))
}

// healthcheck handles GET /healthcheck — a trivial liveness probe.
func (h *Handler) healthcheck(w http.ResponseWriter, r *http.Request) {
	jsonResp(w, http.StatusOK, map[string]string{"status": "Server is running!"})
}

// --- helpers ----------------------------------------------------------------

// BuildOverview renders the units overview from the service. The WebSocket
// hub reuses it so the stream and GET /api/v1/units always agree.
func BuildOverview(svc *monitor.Service) UnitsResponse {
	statuses := svc.Overview()
	out := UnitsResponse{
		Units:      make([]UnitStatusResponse, 0, len(statuses)),
		TotalUnits: len(statuses),
	}
	for _, st := range statuses {
		u := UnitStatusResponse{
			UnitID:        st.UnitID,
			TotalReadings: st.TotalReadings,
			AlertsCount:   st.AlertsCount,
			HealthStatus:  string(st.Health),
		}
		if st.LastReading != nil {
			rr := toReadingResponse(*st.LastReading)
			u.LastReading = &rr
		}
		out.Units = append(out.Units, u)
	}
	return out
}

// toReadingResponse maps a ledger.Reading to its JSON representation.
func toReadingResponse(r ledger.Reading) ReadingResponse {
	ph, temp, ec := r.Values.PH, r.Values.Temperature, r.Values.EC
	return ReadingResponse{
		UnitID:         r.UnitID,
		Timestamp:      r.Timestamp.UTC().Format(time.RFC3339Nano),
		Readings:       ReadingsBody{PH: &ph, Temp: &temp, EC: &ec},
		Classification: string(r.Classification),
	}
}

func jsonResp(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v) //nolint:errcheck
}

func jsonErr(w http.ResponseWriter, code int, msg string) {
	jsonResp(w, code, errorResponse{Error: msg})
}
