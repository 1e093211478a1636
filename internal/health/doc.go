// Package health derives a unit's rolling health status from the alert
// density in its most recent readings. The status is recomputed on every
// query rather than maintained incrementally — the window is bounded to ten
// readings, so recomputation is cheap and cannot drift from the ledger.
package health
