package models

import "time"

// DeviceStatus summarizes a device from its most recent reading.
type DeviceStatus struct {
	DeviceID      string
	IsActive      bool
	LastContact   time.Time
	TotalReadings int
	LastReading   *VitalReading
}
