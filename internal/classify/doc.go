// Package classify implements the health classification of a single sensor
// reading. Classification is a pure function of the reading values: pH inside
// the 5.5–7.0 band (inclusive) is Healthy, anything outside is NeedsAttention.
// Temperature and electrical conductivity are recorded with every reading but
// do not participate in the decision.
//
// Validate enforces structural validity only — values must be finite and
// conductivity non-negative. Physical plausibility (a pH of 50, say) is the
// caller's concern; the API layer applies stricter physical-range checks
// before submitting a reading to the core.
package classify
