// Package api implements the HTTP REST API for hydrosense-server.
//
// New(service, engine) returns a handler that serves:
//
//	POST /api/v1/sensor         — submit a reading, returns its classification
//	GET  /api/v1/alerts?unitId= — recent Needs Attention readings for a unit
//	GET  /api/v1/alerts/active  — rule-engine alerts currently firing
//	GET  /api/v1/units          — overview of every known unit with health status
//	GET  /healthcheck           — liveness probe
//
// All endpoints respond with Content-Type: application/json. Payloads are
// decoded into typed structs with pointer fields so that missing or
// non-numeric members are rejected before the core is touched. The adapter
// also enforces the physical-range and future-timestamp checks that the
// core deliberately leaves to its callers.
//
// JSON types are defined in types.go. Routing is gorilla/mux.
package api
