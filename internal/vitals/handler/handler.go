// Package handler exposes the vital-monitoring HTTP API. It is a thin
// adapter: decode, delegate to the service, encode.
package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"vitaledge/internal/platform/metrics"
	"vitaledge/internal/platform/middleware"
	"vitaledge/internal/vitals/models"
	dErrors "vitaledge/pkg/domain-errors"
	"vitaledge/pkg/platform/httputil"
)

// Service defines the interface for vital-monitoring operations.
type Service interface {
	RecordReading(ctx context.Context, deviceID string, weightKg float64, heartRateBPM int) (*models.VitalReading, error)
	DeviceStatus(ctx context.Context, deviceID string) (*models.DeviceStatus, error)
	History(ctx context.Context, deviceID string, limit int) ([]*models.VitalReading, error)
	CriticalReadings(ctx context.Context, deviceID string) ([]*models.VitalReading, error)
}

// Handler handles the vital-monitoring endpoints.
type Handler struct {
	logger  *slog.Logger
	vitals  Service
	metrics *metrics.Metrics
}

// New creates a new vitals Handler.
func New(vitals Service, logger *slog.Logger, m *metrics.Metrics) *Handler {
	return &Handler{
		logger:  logger,
		vitals:  vitals,
		metrics: m,
	}
}

// Register registers the vital-monitoring routes with the chi router.
func (h *Handler) Register(r chi.Router) {
	r.Route("/api/v1", func(api chi.Router) {
		api.Use(middleware.Recovery(h.logger))
		api.Use(middleware.RequestID)
		api.Use(middleware.Logger(h.logger))
		api.Use(middleware.Timeout(30 * time.Second))
		api.Use(middleware.Latency(h.metrics))

		api.With(middleware.ContentTypeJSON).
			Post("/vital-monitoring/readings", h.handleRecordReading)
		api.Get("/vital-monitoring/readings/critical", h.handleCriticalReadings)
		api.Get("/vital-monitoring/devices/{deviceID}/status", h.handleDeviceStatus)
		api.Get("/vital-monitoring/devices/{deviceID}/history", h.handleHistory)
		api.Post("/iot/vital-data", h.handleIoTData)
	})
}

// handleRecordReading records a reading submitted as JSON.
func (h *Handler) handleRecordReading(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetRequestID(ctx)

	var req RecordReadingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.WarnContext(ctx, "invalid record reading request",
			"request_id", requestID,
			"error", err.Error(),
		)
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	reading, err := h.vitals.RecordReading(ctx, req.DeviceID, req.WeightKg, req.HeartRateBPM)
	if err != nil {
		if dErrors.Is(err, dErrors.CodeValidation) {
			h.logger.WarnContext(ctx, "reading rejected",
				"request_id", requestID,
				"device_id", req.DeviceID,
				"error", err.Error(),
			)
			httputil.WriteError(w, err)
			return
		}
		h.logger.ErrorContext(ctx, "failed to record reading",
			"request_id", requestID,
			"device_id", req.DeviceID,
			"error", err.Error(),
		)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated,
		newEnvelope("Vital reading recorded successfully", toReadingPayload(reading)))
}

// handleIoTData is the simplified endpoint for constrained devices; it takes
// query parameters instead of a JSON body.
func (h *Handler) handleIoTData(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetRequestID(ctx)

	q := r.URL.Query()
	deviceID := q.Get("device_id")
	weight, werr := strconv.ParseFloat(q.Get("weight"), 64)
	heartRate, herr := strconv.Atoi(q.Get("heart_rate"))
	if werr != nil || herr != nil {
		h.logger.WarnContext(ctx, "invalid iot data submission",
			"request_id", requestID,
			"device_id", deviceID,
		)
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "weight and heart_rate must be numeric"))
		return
	}

	reading, err := h.vitals.RecordReading(ctx, deviceID, weight, heartRate)
	if err != nil {
		if dErrors.Is(err, dErrors.CodeValidation) {
			httputil.WriteError(w, err)
			return
		}
		h.logger.ErrorContext(ctx, "failed to record iot reading",
			"request_id", requestID,
			"device_id", deviceID,
			"error", err.Error(),
		)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusAccepted, iotAcceptedPayload{
		Accepted:  true,
		ReadingID: reading.ReadingID,
		Message:   "Data received and processed",
	})
}

// handleDeviceStatus returns the latest reading and total count for a device.
func (h *Handler) handleDeviceStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	deviceID := chi.URLParam(r, "deviceID")

	status, err := h.vitals.DeviceStatus(ctx, deviceID)
	if err != nil {
		if !dErrors.Is(err, dErrors.CodeNotFound) {
			h.logger.ErrorContext(ctx, "failed to load device status",
				"request_id", middleware.GetRequestID(ctx),
				"device_id", deviceID,
				"error", err.Error(),
			)
		}
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, newEnvelope("", toDeviceStatusPayload(status)))
}

// handleHistory returns a device's readings, most recent first.
func (h *Handler) handleHistory(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	deviceID := chi.URLParam(r, "deviceID")

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "limit must be an integer"))
			return
		}
		limit = parsed
	}

	readings, err := h.vitals.History(ctx, deviceID, limit)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to load history",
			"request_id", middleware.GetRequestID(ctx),
			"device_id", deviceID,
			"error", err.Error(),
		)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, newEnvelope("", historyPayload{
		DeviceID:      deviceID,
		ReadingsCount: len(readings),
		Readings:      toReadingPayloads(readings),
	}))
}

// handleCriticalReadings returns critical readings, optionally scoped to a
// device via ?device_id=.
func (h *Handler) handleCriticalReadings(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	deviceID := r.URL.Query().Get("device_id")

	readings, err := h.vitals.CriticalReadings(ctx, deviceID)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to load critical readings",
			"request_id", middleware.GetRequestID(ctx),
			"device_id", deviceID,
			"error", err.Error(),
		)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, newEnvelope("", criticalPayload{
		DeviceID:      deviceID,
		ReadingsCount: len(readings),
		Readings:      toReadingPayloads(readings),
	}))
}
