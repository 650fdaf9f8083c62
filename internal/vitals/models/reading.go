// Package models holds the vital-monitoring domain entities. A VitalReading
// is only ever produced by NewReading so classification fields can never
// drift from the raw measurements.
package models

import (
	"math"
	"strings"
	"time"

	"github.com/google/uuid"

	dErrors "vitaledge/pkg/domain-errors"
)

// HeartRateStatus classifies a heart rate against medical thresholds.
type HeartRateStatus string

const (
	HeartRateLow    HeartRateStatus = "Low"    // bradycardia, < 60 BPM
	HeartRateNormal HeartRateStatus = "Normal" // 60-100 BPM
	HeartRateHigh   HeartRateStatus = "High"   // tachycardia, > 100 BPM
)

// WeightAlert classifies a weight measurement.
type WeightAlert string

const (
	WeightNormal     WeightAlert = "Normal"
	WeightOverweight WeightAlert = "Overweight" // > 80 kg
)

// Measurement bounds enforced at construction.
const (
	MaxDeviceIDLength = 100
	MinWeightKg       = 0.0
	MaxWeightKg       = 300.0
	MinHeartRateBPM   = 30
	MaxHeartRateBPM   = 220
)

// VitalReading is one timestamped vital-sign observation from a device.
// Treat it as immutable after construction; stores hand out copies.
type VitalReading struct {
	ReadingID       string          `json:"reading_id"`
	DeviceID        string          `json:"device_id"`
	WeightKg        float64         `json:"weight_kg"`
	HeartRateBPM    int             `json:"heart_rate_bpm"`
	HeartRateStatus HeartRateStatus `json:"heart_rate_status"`
	WeightAlert     WeightAlert     `json:"weight_alert"`
	Timestamp       time.Time       `json:"timestamp"`
	RecordedAt      time.Time       `json:"recorded_at"`
}

// ReadingOption overrides factory defaults, mainly for replayed or
// device-timestamped ingestion and for deterministic tests.
type ReadingOption func(*VitalReading)

// WithTimestamp sets when the physiological reading occurred.
func WithTimestamp(t time.Time) ReadingOption {
	return func(r *VitalReading) { r.Timestamp = t }
}

// WithRecordedAt sets when the system ingested the reading.
func WithRecordedAt(t time.Time) ReadingOption {
	return func(r *VitalReading) { r.RecordedAt = t }
}

// NewReading validates raw device inputs and returns a fully classified
// reading. The first violated rule is the one reported, as a
// CodeValidation error carrying the rule's message.
func NewReading(deviceID string, weightKg float64, heartRateBPM int, opts ...ReadingOption) (*VitalReading, error) {
	deviceID = strings.TrimSpace(deviceID)
	if deviceID == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "Device ID cannot be empty")
	}
	if len(deviceID) > MaxDeviceIDLength {
		return nil, dErrors.New(dErrors.CodeValidation, "Device ID exceeds maximum length (100 characters)")
	}
	if weightKg < MinWeightKg {
		return nil, dErrors.New(dErrors.CodeValidation, "Weight cannot be negative")
	}
	if weightKg > MaxWeightKg {
		return nil, dErrors.New(dErrors.CodeValidation, "Weight exceeds maximum realistic value (300kg)")
	}
	if heartRateBPM < MinHeartRateBPM {
		return nil, dErrors.New(dErrors.CodeValidation, "Heart rate too low (minimum: 30 BPM)")
	}
	if heartRateBPM > MaxHeartRateBPM {
		return nil, dErrors.New(dErrors.CodeValidation, "Heart rate too high (maximum: 220 BPM)")
	}

	// Scale readings jitter past one decimal; normalize after the bounds
	// checks so out-of-range raw values are still rejected.
	weightKg = math.Round(weightKg*10) / 10

	now := time.Now().UTC()
	r := &VitalReading{
		ReadingID:       uuid.NewString(),
		DeviceID:        deviceID,
		WeightKg:        weightKg,
		HeartRateBPM:    heartRateBPM,
		HeartRateStatus: classifyHeartRate(heartRateBPM),
		WeightAlert:     classifyWeight(weightKg),
		Timestamp:       now,
		RecordedAt:      now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(r)
		}
	}
	return r, nil
}

func classifyHeartRate(bpm int) HeartRateStatus {
	switch {
	case bpm < 60:
		return HeartRateLow
	case bpm > 100:
		return HeartRateHigh
	default:
		return HeartRateNormal
	}
}

func classifyWeight(kg float64) WeightAlert {
	if kg > 80 {
		return WeightOverweight
	}
	return WeightNormal
}

// IsCritical reports whether either classification falls outside the normal
// band. Pure function of the raw measurements.
func (r *VitalReading) IsCritical() bool {
	return r.HeartRateStatus != HeartRateNormal || r.WeightAlert == WeightOverweight
}

// RequiresMedicalAttention reports severe bradycardia (< 40 BPM) or severe
// tachycardia (> 120 BPM).
func (r *VitalReading) RequiresMedicalAttention() bool {
	return r.HeartRateBPM < 40 || r.HeartRateBPM > 120
}

// Clone returns a copy so callers can hold a reading without aliasing the
// store's canonical entry.
func (r *VitalReading) Clone() *VitalReading {
	if r == nil {
		return nil
	}
	clone := *r
	return &clone
}
