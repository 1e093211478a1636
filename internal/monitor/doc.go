// Package monitor is the single surface the transport adapters call into.
// Service composes the registry, classifier, and health evaluation behind
// three operations: Ingest a classified reading, AlertsFor a unit, and an
// Overview of every known unit.
//
// Validation always runs before any mutation — a rejected reading leaves no
// trace in any ledger. Querying an unknown unit is a normal result, not an
// error. Service also keeps process-lifetime ingestion counters that the
// metrics endpoint exposes.
package monitor
