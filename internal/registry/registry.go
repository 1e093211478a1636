package registry

import (
	"sync"

	"github.com/hydrosense/hydrosense/internal/ledger"
)

// Registry is a thread-safe map of unit ID to Ledger.
type Registry struct {
	mu    sync.RWMutex
	units map[string]*ledger.Ledger
}

// New returns an empty Registry.
func New() *Registry {
	return &Registry{units: make(map[string]*ledger.Ledger)}
}

// GetOrCreate returns the ledger for unitID, creating it if this is the
// first time the unit has been seen. Creation is idempotent under
// concurrency: all racing callers get the same ledger.
func (r *Registry) GetOrCreate(unitID string) *ledger.Ledger {
	r.mu.RLock()
	l, ok := r.units[unitID]
	r.mu.RUnlock()
	if ok {
		return l
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	// Re-check: another goroutine may have created it between the locks.
	if l, ok := r.units[unitID]; ok {
		return l
	}
	l = ledger.New()
	r.units[unitID] = l
	return l
}

// Get returns the ledger for unitID without creating one.
func (r *Registry) Get(unitID string) (*ledger.Ledger, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	l, ok := r.units[unitID]
	return l, ok
}

// Exists reports whether unitID has a ledger. It never creates one.
func (r *Registry) Exists(unitID string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.units[unitID]
	return ok
}

// IDs returns a snapshot of all known unit identifiers, in no particular
// order.
func (r *Registry) IDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.units))
	for id := range r.units {
		out = append(out, id)
	}
	return out
}

// Len returns the number of known units.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.units)
}
