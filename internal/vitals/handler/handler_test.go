package handler_test

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"vitaledge/internal/vitals/handler"
	"vitaledge/internal/vitals/handler/mocks"
	"vitaledge/internal/vitals/models"
	dErrors "vitaledge/pkg/domain-errors"
	"vitaledge/pkg/testutil"
)

type HandlerSuite struct {
	suite.Suite
	ctrl   *gomock.Controller
	vitals *mocks.MockService
	router chi.Router
}

func TestHandlerSuite(t *testing.T) {
	suite.Run(t, new(HandlerSuite))
}

func (s *HandlerSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.vitals = mocks.NewMockService(s.ctrl)

	h := handler.New(s.vitals, slog.New(slog.NewTextHandler(io.Discard, nil)), nil)
	r := chi.NewRouter()
	h.Register(r)
	s.router = r
}

func (s *HandlerSuite) mustReading(deviceID string, weightKg float64, heartRateBPM int) *models.VitalReading {
	reading, err := models.NewReading(deviceID, weightKg, heartRateBPM,
		models.WithTimestamp(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)))
	s.Require().NoError(err)
	return reading
}

type envelope struct {
	Success   bool            `json:"success"`
	Message   string          `json:"message"`
	Data      json.RawMessage `json:"data"`
	Timestamp string          `json:"timestamp"`
}

func (s *HandlerSuite) TestRecordReading() {
	reading := s.mustReading("DEV-1", 75.5, 72)
	s.vitals.EXPECT().
		RecordReading(gomock.Any(), "DEV-1", 75.5, 72).
		Return(reading, nil)

	req := testutil.NewJSONRequest(s.T(), http.MethodPost, "/api/v1/vital-monitoring/readings", map[string]any{
		"device_id":      "DEV-1",
		"weight_kg":      75.5,
		"heart_rate_bpm": 72,
	})
	rr := testutil.DoRequest(s.router, req)

	testutil.AssertStatus(s.T(), rr, http.StatusCreated)
	resp := testutil.UnmarshalResponse[envelope](s.T(), rr)
	s.True(resp.Success)
	s.Equal("Vital reading recorded successfully", resp.Message)

	var data map[string]any
	s.Require().NoError(json.Unmarshal(resp.Data, &data))
	s.Equal(reading.ReadingID, data["reading_id"])
	s.Equal("Normal", data["heart_rate_status"])
	s.Equal(false, data["is_critical"])
}

func (s *HandlerSuite) TestRecordReadingValidationFailure() {
	s.vitals.EXPECT().
		RecordReading(gomock.Any(), "DEV-1", -5.0, 72).
		Return(nil, dErrors.New(dErrors.CodeValidation, "Weight cannot be negative"))

	req := testutil.NewJSONRequest(s.T(), http.MethodPost, "/api/v1/vital-monitoring/readings", map[string]any{
		"device_id":      "DEV-1",
		"weight_kg":      -5,
		"heart_rate_bpm": 72,
	})
	rr := testutil.DoRequest(s.router, req)

	testutil.AssertStatus(s.T(), rr, http.StatusBadRequest)
	testutil.AssertErrorCode(s.T(), rr, string(dErrors.CodeValidation))

	var body map[string]string
	s.Require().NoError(json.Unmarshal(testutil.ReadBody(s.T(), rr), &body))
	s.Equal("Weight cannot be negative", body["error_description"])
}

func (s *HandlerSuite) TestRecordReadingMalformedBody() {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/vital-monitoring/readings",
		strings.NewReader("{not json"))
	req.Header.Set("Content-Type", "application/json")
	rr := testutil.DoRequest(s.router, req)

	testutil.AssertStatus(s.T(), rr, http.StatusBadRequest)
	testutil.AssertErrorCode(s.T(), rr, string(dErrors.CodeBadRequest))
}

func (s *HandlerSuite) TestRecordReadingRejectsNonJSONContentType() {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/vital-monitoring/readings",
		strings.NewReader("device_id=DEV-1"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rr := testutil.DoRequest(s.router, req)

	testutil.AssertStatus(s.T(), rr, http.StatusUnsupportedMediaType)
}

func (s *HandlerSuite) TestRecordReadingInternalFailure() {
	s.vitals.EXPECT().
		RecordReading(gomock.Any(), "DEV-1", 70.0, 72).
		Return(nil, dErrors.New(dErrors.CodeInternal, "failed to save reading"))

	req := testutil.NewJSONRequest(s.T(), http.MethodPost, "/api/v1/vital-monitoring/readings", map[string]any{
		"device_id":      "DEV-1",
		"weight_kg":      70,
		"heart_rate_bpm": 72,
	})
	rr := testutil.DoRequest(s.router, req)

	testutil.AssertStatus(s.T(), rr, http.StatusInternalServerError)
	testutil.AssertErrorCode(s.T(), rr, string(dErrors.CodeInternal))
}

func (s *HandlerSuite) TestIoTData() {
	s.Run("accepted", func() {
		reading := s.mustReading("DEV-7", 82.5, 95)
		s.vitals.EXPECT().
			RecordReading(gomock.Any(), "DEV-7", 82.5, 95).
			Return(reading, nil)

		req := httptest.NewRequest(http.MethodPost,
			"/api/v1/iot/vital-data?device_id=DEV-7&weight=82.5&heart_rate=95", nil)
		rr := testutil.DoRequest(s.router, req)

		testutil.AssertStatus(s.T(), rr, http.StatusAccepted)
		var body map[string]any
		s.Require().NoError(json.Unmarshal(testutil.ReadBody(s.T(), rr), &body))
		s.Equal(true, body["accepted"])
		s.Equal(reading.ReadingID, body["reading_id"])
		s.Equal("Data received and processed", body["message"])
	})

	s.Run("non-numeric parameters rejected before the service", func() {
		req := httptest.NewRequest(http.MethodPost,
			"/api/v1/iot/vital-data?device_id=DEV-7&weight=heavy&heart_rate=95", nil)
		rr := testutil.DoRequest(s.router, req)

		testutil.AssertStatus(s.T(), rr, http.StatusBadRequest)
		testutil.AssertErrorCode(s.T(), rr, string(dErrors.CodeBadRequest))
	})

	s.Run("validation failures pass through", func() {
		s.vitals.EXPECT().
			RecordReading(gomock.Any(), "DEV-7", 70.0, 300).
			Return(nil, dErrors.New(dErrors.CodeValidation, "Heart rate too high (maximum: 220 BPM)"))

		req := httptest.NewRequest(http.MethodPost,
			"/api/v1/iot/vital-data?device_id=DEV-7&weight=70&heart_rate=300", nil)
		rr := testutil.DoRequest(s.router, req)

		testutil.AssertStatus(s.T(), rr, http.StatusBadRequest)
		testutil.AssertErrorCode(s.T(), rr, string(dErrors.CodeValidation))
	})
}

func (s *HandlerSuite) TestDeviceStatus() {
	s.Run("ok", func() {
		latest := s.mustReading("DEV-1", 85.0, 130)
		s.vitals.EXPECT().
			DeviceStatus(gomock.Any(), "DEV-1").
			Return(&models.DeviceStatus{
				DeviceID:      "DEV-1",
				IsActive:      true,
				LastContact:   latest.Timestamp,
				TotalReadings: 3,
				LastReading:   latest,
			}, nil)

		req := httptest.NewRequest(http.MethodGet, "/api/v1/vital-monitoring/devices/DEV-1/status", nil)
		rr := testutil.DoRequest(s.router, req)

		testutil.AssertStatus(s.T(), rr, http.StatusOK)
		resp := testutil.UnmarshalResponse[envelope](s.T(), rr)
		var data map[string]any
		s.Require().NoError(json.Unmarshal(resp.Data, &data))
		s.Equal("DEV-1", data["device_id"])
		s.Equal(true, data["is_active"])
		s.Equal(float64(3), data["total_readings"])
	})

	s.Run("unknown device", func() {
		s.vitals.EXPECT().
			DeviceStatus(gomock.Any(), "GHOST").
			Return(nil, dErrors.New(dErrors.CodeNotFound, "device GHOST not found or has no readings"))

		req := httptest.NewRequest(http.MethodGet, "/api/v1/vital-monitoring/devices/GHOST/status", nil)
		rr := testutil.DoRequest(s.router, req)

		testutil.AssertStatus(s.T(), rr, http.StatusNotFound)
		testutil.AssertErrorCode(s.T(), rr, string(dErrors.CodeNotFound))
	})
}

func (s *HandlerSuite) TestHistory() {
	s.Run("limit is forwarded", func() {
		readings := []*models.VitalReading{
			s.mustReading("DEV-1", 70, 72),
			s.mustReading("DEV-1", 71, 75),
		}
		s.vitals.EXPECT().
			History(gomock.Any(), "DEV-1", 25).
			Return(readings, nil)

		req := httptest.NewRequest(http.MethodGet, "/api/v1/vital-monitoring/devices/DEV-1/history?limit=25", nil)
		rr := testutil.DoRequest(s.router, req)

		testutil.AssertStatus(s.T(), rr, http.StatusOK)
		resp := testutil.UnmarshalResponse[envelope](s.T(), rr)
		var data struct {
			DeviceID      string           `json:"device_id"`
			ReadingsCount int              `json:"readings_count"`
			Readings      []map[string]any `json:"readings"`
		}
		s.Require().NoError(json.Unmarshal(resp.Data, &data))
		s.Equal("DEV-1", data.DeviceID)
		s.Equal(2, data.ReadingsCount)
		s.Len(data.Readings, 2)
	})

	s.Run("missing limit defaults to zero", func() {
		s.vitals.EXPECT().
			History(gomock.Any(), "DEV-1", 0).
			Return(nil, nil)

		req := httptest.NewRequest(http.MethodGet, "/api/v1/vital-monitoring/devices/DEV-1/history", nil)
		rr := testutil.DoRequest(s.router, req)

		testutil.AssertStatus(s.T(), rr, http.StatusOK)
	})

	s.Run("non-integer limit rejected", func() {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/vital-monitoring/devices/DEV-1/history?limit=ten", nil)
		rr := testutil.DoRequest(s.router, req)

		testutil.AssertStatus(s.T(), rr, http.StatusBadRequest)
		testutil.AssertErrorCode(s.T(), rr, string(dErrors.CodeBadRequest))
	})
}

func (s *HandlerSuite) TestCriticalReadings() {
	s.Run("scoped to a device", func() {
		s.vitals.EXPECT().
			CriticalReadings(gomock.Any(), "DEV-1").
			Return([]*models.VitalReading{s.mustReading("DEV-1", 70, 130)}, nil)

		req := httptest.NewRequest(http.MethodGet, "/api/v1/vital-monitoring/readings/critical?device_id=DEV-1", nil)
		rr := testutil.DoRequest(s.router, req)

		testutil.AssertStatus(s.T(), rr, http.StatusOK)
		resp := testutil.UnmarshalResponse[envelope](s.T(), rr)
		var data struct {
			DeviceID      string           `json:"device_id"`
			ReadingsCount int              `json:"readings_count"`
			Readings      []map[string]any `json:"readings"`
		}
		s.Require().NoError(json.Unmarshal(resp.Data, &data))
		s.Equal("DEV-1", data.DeviceID)
		s.Equal(1, data.ReadingsCount)
		s.Equal(true, data.Readings[0]["is_critical"])
	})

	s.Run("unscoped", func() {
		s.vitals.EXPECT().
			CriticalReadings(gomock.Any(), "").
			Return(nil, nil)

		req := httptest.NewRequest(http.MethodGet, "/api/v1/vital-monitoring/readings/critical", nil)
		rr := testutil.DoRequest(s.router, req)

		testutil.AssertStatus(s.T(), rr, http.StatusOK)
	})
}
