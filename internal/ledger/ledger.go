package ledger

import (
	"sort"
	"sync"
	"time"

	"github.com/hydrosense/hydrosense/internal/classify"
)

// Reading is one immutable classified sensor sample. The classification is
// attached at ingestion and never recomputed.
type Reading struct {
	UnitID         string
	Timestamp      time.Time
	Values         classify.Values
	Classification classify.Classification
}

// Ledger is the ordered reading history and counters for one unit.
// The zero value is not usable; call New.
type Ledger struct {
	mu       sync.RWMutex
	readings []Reading // sorted by Timestamp ascending, ties in arrival order
	total    int
	alerts   int
}

// New returns an empty Ledger.
func New() *Ledger {
	return &Ledger{}
}

// Append inserts r at its timestamp-ordered position and bumps the counters.
// The insert is stable: a reading whose timestamp equals existing entries
// lands after them, preserving arrival order among ties. Counters are
// updated atomically with the insert — a concurrent reader never sees one
// without the other.
func (l *Ledger) Append(r Reading) {
	l.mu.Lock()
	defer l.mu.Unlock()

	// First index whose timestamp is strictly after r's. Everything at or
	// before r's timestamp stays to the left, which is what makes the
	// insert stable for equal timestamps.
	i := sort.Search(len(l.readings), func(i int) bool {
		return l.readings[i].Timestamp.After(r.Timestamp)
	})

	l.readings = append(l.readings, Reading{})
	copy(l.readings[i+1:], l.readings[i:])
	l.readings[i] = r

	l.total++
	if r.Classification == classify.NeedsAttention {
		l.alerts++
	}
}

// Total returns the count of all readings ever appended.
func (l *Ledger) Total() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.total
}

// Alerts returns the cumulative count of Needs Attention readings.
func (l *Ledger) Alerts() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.alerts
}

// Last returns the most recent reading by timestamp and whether one exists.
func (l *Ledger) Last() (Reading, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if len(l.readings) == 0 {
		return Reading{}, false
	}
	return l.readings[len(l.readings)-1], true
}

// LastN returns up to n of the most recent readings by timestamp, oldest
// first. The returned slice is a copy — the caller may hold or mutate it
// freely.
func (l *Ledger) LastN(n int) []Reading {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if n <= 0 {
		return nil
	}
	if n > len(l.readings) {
		n = len(l.readings)
	}
	out := make([]Reading, n)
	copy(out, l.readings[len(l.readings)-n:])
	return out
}

// Since returns all readings with a timestamp at or after t, oldest first.
func (l *Ledger) Since(t time.Time) []Reading {
	l.mu.RLock()
	defer l.mu.RUnlock()
	i := sort.Search(len(l.readings), func(i int) bool {
		return !l.readings[i].Timestamp.Before(t)
	})
	out := make([]Reading, len(l.readings)-i)
	copy(out, l.readings[i:])
	return out
}

// RecentAlerts returns up to max Needs Attention readings, newest first.
// Callers that also need the counters should take a Snapshot instead, so
// both come from the same point in time.
func (l *Ledger) RecentAlerts(max int) []Reading {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.recentAlertsLocked(max)
}

func (l *Ledger) recentAlertsLocked(max int) []Reading {
	if max <= 0 {
		return nil
	}
	out := make([]Reading, 0, max)
	for i := len(l.readings) - 1; i >= 0 && len(out) < max; i-- {
		if l.readings[i].Classification == classify.NeedsAttention {
			out = append(out, l.readings[i])
		}
	}
	return out
}

// Snapshot is a point-in-time view of one ledger. All fields are captured
// under a single lock acquisition, so they are mutually consistent even
// while writers are appending.
type Snapshot struct {
	Last    Reading
	HasLast bool
	Total   int
	Alerts  int

	// Window holds up to the requested number of most recent readings,
	// oldest first. Empty unless requested.
	Window []Reading

	// RecentAlerts holds up to the requested number of Needs Attention
	// readings, newest first. Nil unless requested.
	RecentAlerts []Reading
}

// Snapshot captures the counters, the last reading, the trailing window of
// up to window readings, and up to maxAlerts recent alerts in one lock
// acquisition. Pass zero for the slices that are not needed.
func (l *Ledger) Snapshot(window, maxAlerts int) Snapshot {
	l.mu.RLock()
	defer l.mu.RUnlock()

	s := Snapshot{Total: l.total, Alerts: l.alerts}
	if n := len(l.readings); n > 0 {
		s.Last = l.readings[n-1]
		s.HasLast = true
	}
	if window > 0 {
		n := window
		if n > len(l.readings) {
			n = len(l.readings)
		}
		s.Window = make([]Reading, n)
		copy(s.Window, l.readings[len(l.readings)-n:])
	}
	if maxAlerts > 0 {
		s.RecentAlerts = l.recentAlertsLocked(maxAlerts)
	}
	return s
}
