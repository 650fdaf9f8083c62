package handler

import (
	"time"

	"vitaledge/internal/vitals/models"
)

// readingPayload is the wire shape of a reading: every stored field plus the
// two derived predicates, enums as their labels, instants as RFC 3339.
type readingPayload struct {
	ReadingID                string  `json:"reading_id"`
	DeviceID                 string  `json:"device_id"`
	WeightKg                 float64 `json:"weight_kg"`
	HeartRateBPM             int     `json:"heart_rate_bpm"`
	HeartRateStatus          string  `json:"heart_rate_status"`
	WeightAlert              string  `json:"weight_alert"`
	IsCritical               bool    `json:"is_critical"`
	RequiresMedicalAttention bool    `json:"requires_medical_attention"`
	Timestamp                string  `json:"timestamp"`
	RecordedAt               string  `json:"recorded_at"`
}

func toReadingPayload(r *models.VitalReading) readingPayload {
	return readingPayload{
		ReadingID:                r.ReadingID,
		DeviceID:                 r.DeviceID,
		WeightKg:                 r.WeightKg,
		HeartRateBPM:             r.HeartRateBPM,
		HeartRateStatus:          string(r.HeartRateStatus),
		WeightAlert:              string(r.WeightAlert),
		IsCritical:               r.IsCritical(),
		RequiresMedicalAttention: r.RequiresMedicalAttention(),
		Timestamp:                r.Timestamp.Format(time.RFC3339Nano),
		RecordedAt:               r.RecordedAt.Format(time.RFC3339Nano),
	}
}

func toReadingPayloads(readings []*models.VitalReading) []readingPayload {
	payloads := make([]readingPayload, 0, len(readings))
	for _, r := range readings {
		payloads = append(payloads, toReadingPayload(r))
	}
	return payloads
}

type deviceStatusPayload struct {
	DeviceID      string         `json:"device_id"`
	IsActive      bool           `json:"is_active"`
	LastContact   string         `json:"last_contact"`
	TotalReadings int            `json:"total_readings"`
	LastReading   readingPayload `json:"last_reading"`
}

func toDeviceStatusPayload(s *models.DeviceStatus) deviceStatusPayload {
	return deviceStatusPayload{
		DeviceID:      s.DeviceID,
		IsActive:      s.IsActive,
		LastContact:   s.LastContact.Format(time.RFC3339Nano),
		TotalReadings: s.TotalReadings,
		LastReading:   toReadingPayload(s.LastReading),
	}
}

// envelope mirrors the success wrapper every query and command response uses.
type envelope struct {
	Success   bool   `json:"success"`
	Message   string `json:"message,omitempty"`
	Data      any    `json:"data,omitempty"`
	Timestamp string `json:"timestamp"`
}

func newEnvelope(message string, data any) envelope {
	return envelope{
		Success:   true,
		Message:   message,
		Data:      data,
		Timestamp: time.Now().UTC().Format(time.RFC3339Nano),
	}
}

type historyPayload struct {
	DeviceID      string           `json:"device_id"`
	ReadingsCount int              `json:"readings_count"`
	Readings      []readingPayload `json:"readings"`
}

type criticalPayload struct {
	DeviceID      string           `json:"device_id,omitempty"`
	ReadingsCount int              `json:"readings_count"`
	Readings      []readingPayload `json:"readings"`
}

type iotAcceptedPayload struct {
	Accepted  bool   `json:"accepted"`
	ReadingID string `json:"reading_id"`
	Message   string `json:"message"`
}
