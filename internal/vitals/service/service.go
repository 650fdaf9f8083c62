// Package service implements the vital-monitoring commands and queries over
// the store contract. Handlers stay thin; orchestration lives here.
package service

import (
	"context"
	"errors"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"vitaledge/internal/audit"
	"vitaledge/internal/platform/metrics"
	"vitaledge/internal/vitals/models"
	"vitaledge/internal/vitals/store"
	dErrors "vitaledge/pkg/domain-errors"
	"vitaledge/pkg/platform/sentinel"
)

const (
	// DefaultHistoryLimit applies when a history query does not specify one.
	DefaultHistoryLimit = 50
	// MaxHistoryLimit caps caller-supplied history limits.
	MaxHistoryLimit = 1000
)

var tracer = otel.Tracer("vitaledge/internal/vitals/service")

// Service handles vital-reading commands and queries.
type Service struct {
	store   store.VitalStore
	audit   *audit.Publisher
	metrics *metrics.Metrics
	logger  *slog.Logger
}

// New constructs the vitals service. audit and metrics may be nil in tests.
func New(vitalStore store.VitalStore, auditPub *audit.Publisher, m *metrics.Metrics, logger *slog.Logger) *Service {
	return &Service{
		store:   vitalStore,
		audit:   auditPub,
		metrics: m,
		logger:  logger,
	}
}

// RecordReading validates and classifies the raw measurements, persists the
// resulting reading, and emits audit events. Validation failures surface as
// CodeValidation errors carrying the violated rule's message.
func (s *Service) RecordReading(ctx context.Context, deviceID string, weightKg float64, heartRateBPM int) (*models.VitalReading, error) {
	ctx, span := tracer.Start(ctx, "RecordReading", trace.WithAttributes(
		attribute.String("device_id", deviceID),
	))
	defer span.End()

	reading, err := models.NewReading(deviceID, weightKg, heartRateBPM)
	if err != nil {
		s.metrics.IncrementValidationFailures()
		return nil, err
	}

	saved, err := s.store.Save(ctx, reading)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to save reading",
			"device_id", reading.DeviceID,
			"reading_id", reading.ReadingID,
			"error", err.Error(),
		)
		return nil, dErrors.New(dErrors.CodeInternal, "failed to save reading")
	}
	span.SetAttributes(attribute.String("reading_id", saved.ReadingID))

	s.metrics.IncrementReadingsRecorded()
	s.audit.Emit(ctx, audit.Event{
		DeviceID:  saved.DeviceID,
		ReadingID: saved.ReadingID,
		Action:    audit.ActionReadingRecorded,
	})
	if saved.IsCritical() {
		s.metrics.IncrementCriticalReadings()
		s.audit.Emit(ctx, audit.Event{
			DeviceID:  saved.DeviceID,
			ReadingID: saved.ReadingID,
			Action:    audit.ActionReadingCritical,
			Detail:    string(saved.HeartRateStatus) + "/" + string(saved.WeightAlert),
		})
	}
	return saved, nil
}

// DeviceStatus returns the device's latest reading and total count. A device
// with no readings yields CodeNotFound.
func (s *Service) DeviceStatus(ctx context.Context, deviceID string) (*models.DeviceStatus, error) {
	ctx, span := tracer.Start(ctx, "DeviceStatus", trace.WithAttributes(
		attribute.String("device_id", deviceID),
	))
	defer span.End()

	latest, err := s.store.FindLatestByDevice(ctx, deviceID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "device "+deviceID+" not found or has no readings")
		}
		s.logger.ErrorContext(ctx, "failed to load latest reading",
			"device_id", deviceID,
			"error", err.Error(),
		)
		return nil, dErrors.New(dErrors.CodeInternal, "failed to load device status")
	}

	total, err := s.store.CountByDevice(ctx, deviceID)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to count readings",
			"device_id", deviceID,
			"error", err.Error(),
		)
		return nil, dErrors.New(dErrors.CodeInternal, "failed to load device status")
	}

	return &models.DeviceStatus{
		DeviceID:      deviceID,
		IsActive:      true,
		LastContact:   latest.Timestamp,
		TotalReadings: total,
		LastReading:   latest,
	}, nil
}

// History returns the device's readings most recent first. A non-positive
// limit falls back to the default; oversized limits are clamped. An unknown
// device yields an empty history, not an error.
func (s *Service) History(ctx context.Context, deviceID string, limit int) ([]*models.VitalReading, error) {
	ctx, span := tracer.Start(ctx, "History", trace.WithAttributes(
		attribute.String("device_id", deviceID),
		attribute.Int("limit", limit),
	))
	defer span.End()

	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	if limit > MaxHistoryLimit {
		limit = MaxHistoryLimit
	}

	readings, err := s.store.FindByDevice(ctx, deviceID, limit)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to load history",
			"device_id", deviceID,
			"error", err.Error(),
		)
		return nil, dErrors.New(dErrors.CodeInternal, "failed to load history")
	}
	return readings, nil
}

// CriticalReadings returns critical readings most recent first, scoped to
// deviceID when non-empty.
func (s *Service) CriticalReadings(ctx context.Context, deviceID string) ([]*models.VitalReading, error) {
	ctx, span := tracer.Start(ctx, "CriticalReadings", trace.WithAttributes(
		attribute.String("device_id", deviceID),
	))
	defer span.End()

	readings, err := s.store.FindCriticalReadings(ctx, deviceID)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to load critical readings",
			"device_id", deviceID,
			"error", err.Error(),
		)
		return nil, dErrors.New(dErrors.CodeInternal, "failed to load critical readings")
	}
	return readings, nil
}
