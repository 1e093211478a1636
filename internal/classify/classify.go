package classify

import (
	"fmt"
	"math"
)

// Classification is the health label attached to a reading at ingestion.
type Classification string

// The two classification outcomes. The wire spelling ("Needs Attention",
// with a space) is what sensors and the dashboard have always exchanged,
// so it is kept verbatim.
const (
	Healthy        Classification = "Healthy"
	NeedsAttention Classification = "Needs Attention"
)

// pH band considered healthy for a hydroponic nutrient solution. Outside
// this range essential nutrients become chemically unavailable to plants
// regardless of their concentration.
const (
	PHMin = 5.5
	PHMax = 7.0
)

// Values holds one sensor sample: pH, temperature in °C, and electrical
// conductivity in mS/cm.
type Values struct {
	PH          float64
	Temperature float64
	EC          float64
}

// ValidationError reports a structurally invalid input field. It is a client
// fault: the offending field and the reason are safe to echo back to the
// caller.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// Validate checks structural validity of v: every value must be a finite
// number and conductivity must not be negative. It returns a *ValidationError
// describing the first violation found, or nil.
func Validate(v Values) error {
	if !isFinite(v.PH) {
		return &ValidationError{Field: "pH", Reason: "must be a finite number"}
	}
	if !isFinite(v.Temperature) {
		return &ValidationError{Field: "temp", Reason: "must be a finite number"}
	}
	if !isFinite(v.EC) {
		return &ValidationError{Field: "ec", Reason: "must be a finite number"}
	}
	if v.EC < 0 {
		return &ValidationError{Field: "ec", Reason: "must not be negative"}
	}
	return nil
}

// Classify returns the health label for v. It is deterministic and has no
// side effects; callers must Validate first.
func Classify(v Values) Classification {
	if v.PH < PHMin || v.PH > PHMax {
		return NeedsAttention
	}
	return Healthy
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
