// Package memory provides the in-memory VitalStore used for dev, tests, and
// edge deployments without a backing database.
package memory

import (
	"context"
	"fmt"
	"sync"

	"vitaledge/internal/vitals/models"
	"vitaledge/internal/vitals/store"
	"vitaledge/pkg/platform/sentinel"
)

// InMemoryStore keeps a primary reading map plus a per-device index of
// reading ids in insertion order. A single RWMutex guards both so a save is
// atomic to readers: either the reading and its index entry are both visible
// or neither is.
type InMemoryStore struct {
	mu             sync.RWMutex
	readings       map[string]*models.VitalReading
	deviceReadings map[string][]string
	insertionOrder []string
}

// New constructs an empty in-memory store.
func New() *InMemoryStore {
	return &InMemoryStore{
		readings:       make(map[string]*models.VitalReading),
		deviceReadings: make(map[string][]string),
	}
}

func (s *InMemoryStore) Save(_ context.Context, reading *models.VitalReading) (*models.VitalReading, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, existed := s.readings[reading.ReadingID]
	s.readings[reading.ReadingID] = reading.Clone()
	if !existed {
		// Append-once: a reused id overwrites the primary entry without
		// duplicating its index references.
		s.deviceReadings[reading.DeviceID] = append(s.deviceReadings[reading.DeviceID], reading.ReadingID)
		s.insertionOrder = append(s.insertionOrder, reading.ReadingID)
	}
	return reading.Clone(), nil
}

func (s *InMemoryStore) FindByID(_ context.Context, readingID string) (*models.VitalReading, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if reading, ok := s.readings[readingID]; ok {
		return reading.Clone(), nil
	}
	return nil, fmt.Errorf("reading %s: %w", readingID, sentinel.ErrNotFound)
}

func (s *InMemoryStore) FindByDevice(_ context.Context, deviceID string, limit int) ([]*models.VitalReading, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.findByDeviceLocked(deviceID, limit), nil
}

// findByDeviceLocked materializes the device's readings in insertion order,
// sorts most recent first, and truncates. Callers must hold at least a read
// lock.
func (s *InMemoryStore) findByDeviceLocked(deviceID string, limit int) []*models.VitalReading {
	readingIDs := s.deviceReadings[deviceID]
	readings := make([]*models.VitalReading, 0, len(readingIDs))
	for _, id := range readingIDs {
		if reading, ok := s.readings[id]; ok {
			readings = append(readings, reading.Clone())
		}
	}
	store.SortByTimestampDesc(readings)
	if limit >= 0 && len(readings) > limit {
		readings = readings[:limit]
	}
	return readings
}

func (s *InMemoryStore) FindLatestByDevice(_ context.Context, deviceID string) (*models.VitalReading, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	readings := s.findByDeviceLocked(deviceID, 1)
	if len(readings) == 0 {
		return nil, fmt.Errorf("device %s has no readings: %w", deviceID, sentinel.ErrNotFound)
	}
	return readings[0], nil
}

func (s *InMemoryStore) CountByDevice(_ context.Context, deviceID string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.deviceReadings[deviceID]), nil
}

func (s *InMemoryStore) FindCriticalReadings(_ context.Context, deviceID string) ([]*models.VitalReading, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var candidates []*models.VitalReading
	if deviceID != "" {
		candidates = s.findByDeviceLocked(deviceID, store.CriticalScanLimit)
	} else {
		candidates = make([]*models.VitalReading, 0, len(s.insertionOrder))
		for _, id := range s.insertionOrder {
			if reading, ok := s.readings[id]; ok {
				candidates = append(candidates, reading.Clone())
			}
		}
		store.SortByTimestampDesc(candidates)
		if len(candidates) > store.CriticalScanLimit {
			candidates = candidates[:store.CriticalScanLimit]
		}
	}

	critical := make([]*models.VitalReading, 0, len(candidates))
	for _, reading := range candidates {
		if reading.IsCritical() {
			critical = append(critical, reading)
		}
	}
	return critical, nil
}

var _ store.VitalStore = (*InMemoryStore)(nil)
