package alerts

import (
	"strconv"
	"strings"

	"github.com/hydrosense/hydrosense/internal/monitor"
)

// evalCondition evaluates a rule condition string against a unit status.
//
// Supported expressions (field operator value):
//
//	health == critical
//	health == warning
//	recent_alerts >= 4
//	alerts_count > 20
//	total_readings >= 100
//	ph < 5.5
//	ph > 7.0
//	temp > 35
//	ec > 3
//
// ph, temp, and ec refer to the unit's most recent reading.
//
// Returns (fires bool, triggering value float64).
// Returns (false, 0) if the expression cannot be parsed or the field is unknown.
func evalCondition(cond string, st monitor.UnitStatus) (bool, float64) {
	parts := strings.Fields(cond)
	if len(parts) != 3 {
		return false, 0
	}
	field, op, rhs := parts[0], parts[1], parts[2]

	if field == "health" {
		if op == "==" {
			return string(st.Health) == rhs, 0
		}
		return false, 0
	}

	v, ok := numericField(field, st)
	if !ok {
		return false, 0
	}
	threshold, err := strconv.ParseFloat(rhs, 64)
	if err != nil {
		return false, 0
	}
	return compareFloat(v, op, threshold), v
}

// numericField maps a field name to its value in the unit status.
func numericField(field string, st monitor.UnitStatus) (float64, bool) {
	switch field {
	case "recent_alerts":
		return float64(st.WindowAlerts), true
	case "alerts_count":
		return float64(st.AlertsCount), true
	case "total_readings":
		return float64(st.TotalReadings), true
	case "ph", "temp", "ec":
		if st.LastReading == nil {
			return 0, false
		}
		switch field {
		case "ph":
			return st.LastReading.Values.PH, true
		case "temp":
			return st.LastReading.Values.Temperature, true
		default:
			return st.LastReading.Values.EC, true
		}
	default:
		return 0, false
	}
}

// compareFloat applies a comparison operator to two float64 values.
func compareFloat(v float64, op string, threshold float64) bool {
	switch op {
	case ">":
		return v > threshold
	case ">=":
		return v >= threshold
	case "<":
		return v < threshold
	case "<=":
		return v <= threshold
	case "==":
		return v == threshold
	default:
		return false
	}
}
