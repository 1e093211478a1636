package monitor

import (
	"sort"
	"strings"
	"sync/atomic"
	"time"

	"github.com/hydrosense/hydrosense/internal/classify"
	"github.com/hydrosense/hydrosense/internal/health"
	"github.com/hydrosense/hydrosense/internal/ledger"
	"github.com/hydrosense/hydrosense/internal/registry"
)

// maxAlertsReturned caps the alert listing per unit. Ten alerts give growers
// a day or so of problem history without overwhelming them.
const maxAlertsReturned = 10

// Input is one reading submitted for ingestion, before classification.
type Input struct {
	UnitID    string
	Timestamp time.Time
	Values    classify.Values
}

// AlertsResult answers "what are the recent problem readings for a unit".
// A never-seen unit yields UnitExists false with empty alerts — that is a
// documented non-error outcome.
type AlertsResult struct {
	UnitID        string
	Alerts        []ledger.Reading // Needs Attention only, newest first, capped
	UnitExists    bool
	TotalReadings int
}

// UnitStatus is one row of the overview listing.
type UnitStatus struct {
	UnitID        string
	LastReading   *ledger.Reading // nil only if the unit somehow has no readings
	TotalReadings int
	AlertsCount   int // cumulative, not windowed
	WindowAlerts  int // Needs Attention count in the rolling window
	Health        health.Status
}

// Service owns the registry and answers all core operations. Safe for
// concurrent use by any number of transport goroutines.
type Service struct {
	reg    *registry.Registry
	notify func(UnitStatus) // invoked after every successful ingestion, may be nil

	ingested      atomic.Int64
	alertReadings atomic.Int64
	rejected      atomic.Int64
}

// New creates a Service over reg.
func New(reg *registry.Registry) *Service {
	return &Service{reg: reg}
}

// OnIngest registers fn to be called with the unit's fresh status after each
// successful ingestion. Used to drive the alert rule engine. Must be set
// before the service starts receiving traffic.
func (s *Service) OnIngest(fn func(UnitStatus)) {
	s.notify = fn
}

// Ingest validates, classifies, and appends one reading, returning the
// classification so the adapter can echo it to the caller. On a validation
// failure no ledger is touched — ingestion is all-or-nothing.
func (s *Service) Ingest(in Input) (classify.Classification, error) {
	unitID := strings.TrimSpace(in.UnitID)
	if unitID == "" {
		s.rejected.Add(1)
		return "", &classify.ValidationError{Field: "unitId", Reason: "must not be empty"}
	}
	if in.Timestamp.IsZero() {
		s.rejected.Add(1)
		return "", &classify.ValidationError{Field: "timestamp", Reason: "is required"}
	}
	if err := classify.Validate(in.Values); err != nil {
		s.rejected.Add(1)
		return "", err
	}

	label := classify.Classify(in.Values)
	l := s.reg.GetOrCreate(unitID)
	l.Append(ledger.Reading{
		UnitID:         unitID,
		Timestamp:      in.Timestamp,
		Values:         in.Values,
		Classification: label,
	})

	s.ingested.Add(1)
	if label == classify.NeedsAttention {
		s.alertReadings.Add(1)
	}

	if s.notify != nil {
		s.notify(s.statusOf(unitID, l))
	}
	return label, nil
}

// AlertsFor returns the recent Needs Attention readings for unitID, newest
// first, capped at ten. The only error is a blank identifier; an unknown
// unit is reported via UnitExists.
func (s *Service) AlertsFor(unitID string) (AlertsResult, error) {
	unitID = strings.TrimSpace(unitID)
	if unitID == "" {
		return AlertsResult{}, &classify.ValidationError{Field: "unitId", Reason: "must not be empty"}
	}

	l, ok := s.reg.Get(unitID)
	if !ok {
		return AlertsResult{UnitID: unitID, Alerts: []ledger.Reading{}}, nil
	}
	// One snapshot so the listing and the total describe the same moment.
	snap := l.Snapshot(0, maxAlertsReturned)
	return AlertsResult{
		UnitID:        unitID,
		Alerts:        snap.RecentAlerts,
		UnitExists:    true,
		TotalReadings: snap.Total,
	}, nil
}

// Overview returns the status of every known unit, most severe health
// first, then by unit ID for a stable listing.
func (s *Service) Overview() []UnitStatus {
	ids := s.reg.IDs()
	out := make([]UnitStatus, 0, len(ids))
	for _, id := range ids {
		l, ok := s.reg.Get(id)
		if !ok {
			continue // ledgers are never deleted, but stay defensive on the snapshot
		}
		out = append(out, s.statusOf(id, l))
	}

	sort.Slice(out, func(i, j int) bool {
		ri, rj := health.Rank(out[i].Health), health.Rank(out[j].Health)
		if ri != rj {
			return ri < rj
		}
		return out[i].UnitID < out[j].UnitID
	})
	return out
}

// StatusFor returns the current status of a single unit.
func (s *Service) StatusFor(unitID string) (UnitStatus, bool) {
	l, ok := s.reg.Get(strings.TrimSpace(unitID))
	if !ok {
		return UnitStatus{}, false
	}
	return s.statusOf(strings.TrimSpace(unitID), l), true
}

// statusOf builds one status row from a single ledger snapshot, so the
// counters, window, and last reading all describe the same moment even
// while writers are appending.
func (s *Service) statusOf(unitID string, l *ledger.Ledger) UnitStatus {
	snap := l.Snapshot(health.Window, 0)
	st := UnitStatus{
		UnitID:        unitID,
		TotalReadings: snap.Total,
		AlertsCount:   snap.Alerts,
		WindowAlerts:  health.AlertCount(snap.Window),
		Health:        health.FromWindow(snap.Window),
	}
	if snap.HasLast {
		last := snap.Last
		st.LastReading = &last
	}
	return st
}

// Counter totals for the metrics endpoint.

// TotalIngested returns the number of readings accepted since startup.
func (s *Service) TotalIngested() int64 { return s.ingested.Load() }

// TotalAlertReadings returns the number of accepted readings classified
// Needs Attention since startup.
func (s *Service) TotalAlertReadings() int64 { return s.alertReadings.Load() }

// TotalRejected returns the number of readings rejected by validation since
// startup.
func (s *Service) TotalRejected() int64 { return s.rejected.Load() }

// UnitCount returns the number of known units.
func (s *Service) UnitCount() int { return s.reg.Len() }
