package api

// ClassificationResponse is the payload for a successful POST /api/v1/sensor.
type ClassificationResponse struct {
	Status         string `json:"status"`
	Classification string `json:"classification"`
}

// ReadingsBody carries the three sensor values, both inbound and outbound.
// Inbound fields are pointers so a missing member is distinguishable from
// zero.
type ReadingsBody struct {
	PH   *float64 `json:"pH"`
	Temp *float64 `json:"temp"`
	EC   *float64 `json:"ec"`
}

// SensorPayload is the request body of POST /api/v1/sensor.
type SensorPayload struct {
	UnitID    *string       `json:"unitId"`
	Timestamp *string       `json:"timestamp"` // RFC 3339
	Readings  *ReadingsBody `json:"readings"`
}

// ReadingResponse is one classified reading as exposed to clients.
type ReadingResponse struct {
	UnitID         string       `json:"unitId"`
	Timestamp      string       `json:"timestamp"` // RFC 3339
	Readings       ReadingsBody `json:"readings"`
	Classification string       `json:"classification"`
}

// AlertsResponse is the payload for GET /api/v1/alerts.
type AlertsResponse struct {
	UnitID        string            `json:"unitId"`
	Alerts        []ReadingResponse `json:"alerts"`
	UnitExists    bool              `json:"unitExists"`
	TotalReadings int               `json:"totalReadings"`
}

// UnitStatusResponse is one unit entry in GET /api/v1/units.
type UnitStatusResponse struct {
	UnitID        string           `json:"unitId"`
	LastReading   *ReadingResponse `json:"lastReading"`
	TotalReadings int              `json:"totalReadings"`
	AlertsCount   int              `json:"alertsCount"`
	HealthStatus  string           `json:"healthStatus"`
}

// UnitsResponse is the payload for GET /api/v1/units and the WebSocket
// overview broadcast.
type UnitsResponse struct {
	Units      []UnitStatusResponse `json:"units"`
	TotalUnits int                  `json:"totalUnits"`
}

// errorResponse is a generic JSON error body.
type errorResponse struct {
	Error string `json:"error"`
}
