// Package store defines the persistence contract for vital readings.
// Implementations live in subpackages (memory, redis, postgres) and must all
// honor the same ordering and absence semantics.
package store

import (
	"context"
	"sort"

	"vitaledge/internal/vitals/models"
)

// Error Contract:
// All store methods follow this pattern:
// - FindByID and FindLatestByDevice return a wrapped sentinel.ErrNotFound
//   when no entity exists; device-scoped list/count queries return empty
//   results for unknown devices, never an error.
// - Save replaces any prior entry with the same reading id and keeps the
//   device index free of duplicate id references (overwrite-and-reindex).
// - Any other failure is an infrastructure fault, wrapped with context.

// CriticalScanLimit bounds how many of a scope's most recent readings a
// critical-readings scan inspects. Applied uniformly to device-scoped and
// global scans.
const CriticalScanLimit = 1000

// VitalStore is the capability interface the vitals services depend on.
type VitalStore interface {
	// Save persists the reading and indexes it under its device. Returns the
	// stored reading.
	Save(ctx context.Context, reading *models.VitalReading) (*models.VitalReading, error)
	// FindByID looks a reading up by its id.
	FindByID(ctx context.Context, readingID string) (*models.VitalReading, error)
	// FindByDevice returns up to limit readings for the device, most recent
	// first, ties broken by insertion order.
	FindByDevice(ctx context.Context, deviceID string, limit int) ([]*models.VitalReading, error)
	// FindLatestByDevice returns the device's most recent reading.
	FindLatestByDevice(ctx context.Context, deviceID string) (*models.VitalReading, error)
	// CountByDevice returns how many readings the device has recorded.
	CountByDevice(ctx context.Context, deviceID string) (int, error)
	// FindCriticalReadings returns critical readings most recent first,
	// scoped to deviceID when non-empty, across all devices otherwise.
	FindCriticalReadings(ctx context.Context, deviceID string) ([]*models.VitalReading, error)
}

// SortByTimestampDesc orders readings most recent first. The sort is stable
// so readings with equal timestamps keep their insertion order.
func SortByTimestampDesc(readings []*models.VitalReading) {
	sort.SliceStable(readings, func(i, j int) bool {
		return readings[i].Timestamp.After(readings[j].Timestamp)
	})
}
