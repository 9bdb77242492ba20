package domain

// ClickPosition is a raw pointer click in screen coordinates.
type ClickPosition struct {
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	Timestamp int64   `json:"timestamp"` // Unix milliseconds
}

// TelemetryRecord is the behavioral record of one session's input phase.
// All durations are in milliseconds. SequentialAccuracy and
// TemporalOrderViolations are only meaningful once the collector finished.
type TelemetryRecord struct {
	FirstClickLatency       float64         `json:"first_click_latency"`
	InterClickIntervals     []float64       `json:"inter_click_intervals"`
	HesitationPeriods       []float64       `json:"hesitation_periods"`
	SpatialErrors           []float64       `json:"spatial_errors"`
	ClickPositions          []ClickPosition `json:"click_positions"`
	SequentialAccuracy      float64         `json:"sequential_accuracy"`
	TemporalOrderViolations int             `json:"temporal_order_violations"`
}
