// Package registry maps unit identifiers to their ledgers. Ledgers are
// created lazily on first ingestion and live for the process lifetime —
// there is no deletion. GetOrCreate is race-safe: concurrent first arrivals
// for the same identifier resolve to exactly one ledger.
package registry
