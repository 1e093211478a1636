// Package ledger holds the per-unit reading history. A Ledger is an
// append-only sequence of classified readings kept sorted by timestamp —
// not arrival order — so that "last N" queries reflect temporal order even
// when the network delivers readings out of sequence. Alongside the sequence
// it maintains two monotonic counters: total readings ever appended and
// total readings classified Needs Attention.
//
// A Ledger is safe for concurrent use. Writes to the same ledger are
// serialized by a per-ledger mutex; readers always observe a consistent
// snapshot (sequence and counters from the same point in time). Ledgers for
// different units share nothing and never contend.
package ledger
