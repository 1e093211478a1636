package health

import (
	"github.com/hydrosense/hydrosense/internal/classify"
	"github.com/hydrosense/hydrosense/internal/ledger"
)

// Status is the unit-level rolling health indicator.
type Status string

const (
	StatusHealthy  Status = "healthy"
	StatusWarning  Status = "warning"
	StatusCritical Status = "critical"
)

// Window is the number of most-recent readings the status is derived from.
// Hydroponic systems typically cycle nutrients every 2–3 hours, so ten
// readings cover roughly a day of history at common reporting intervals.
const Window = 10

// Alert count thresholds within the window.
const (
	warningMin  = 1
	criticalMin = 4
)

// StatusOf computes the rolling status of l from its last Window readings
// (fewer if the unit has fewer). A ledger with zero readings reports
// healthy; callers should not surface units that have never reported, since
// ledgers only exist after a first ingestion.
func StatusOf(l *ledger.Ledger) Status {
	return FromWindow(l.LastN(Window))
}

// AlertsInWindow counts the Needs Attention readings among the last Window
// readings of l.
func AlertsInWindow(l *ledger.Ledger) int {
	return AlertCount(l.LastN(Window))
}

// FromWindow maps a trailing window of readings to a Status. Callers that
// already hold a consistent window (e.g. from a ledger snapshot) use this
// instead of StatusOf to avoid a second lock acquisition.
func FromWindow(window []ledger.Reading) Status {
	return fromAlertCount(AlertCount(window))
}

// AlertCount counts the Needs Attention readings in window.
func AlertCount(window []ledger.Reading) int {
	k := 0
	for _, r := range window {
		if r.Classification == classify.NeedsAttention {
			k++
		}
	}
	return k
}

// fromAlertCount maps an in-window alert count to a Status.
func fromAlertCount(k int) Status {
	switch {
	case k >= criticalMin:
		return StatusCritical
	case k >= warningMin:
		return StatusWarning
	default:
		return StatusHealthy
	}
}

// Rank orders statuses by severity, most severe first. The overview listing
// uses it to float the units that need attention to the top.
func Rank(s Status) int {
	switch s {
	case StatusCritical:
		return 0
	case StatusWarning:
		return 1
	default:
		return 2
	}
}
