package handler

// RecordReadingRequest is the write payload accepted from devices and
// gateways.
type RecordReadingRequest struct {
	DeviceID     string  `json:"device_id"`
	WeightKg     float64 `json:"weight_kg"`
	HeartRateBPM int     `json:"heart_rate_bpm"`
}
