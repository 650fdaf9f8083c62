package httptransport

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/suite"

	"vitaledge/internal/vitals/handler"
	"vitaledge/internal/vitals/service"
	"vitaledge/internal/vitals/store/memory"
	"vitaledge/pkg/testutil"
)

type RouterSuite struct {
	suite.Suite
	router http.Handler
}

func TestRouterSuite(t *testing.T) {
	suite.Run(t, new(RouterSuite))
}

func (s *RouterSuite) SetupTest() {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := service.New(memory.New(), nil, nil, log)
	s.router = NewRouter(handler.New(svc, log, nil))
}

func (s *RouterSuite) TestRoot() {
	rr := testutil.DoRequest(s.router, httptest.NewRequest(http.MethodGet, "/", nil))
	testutil.AssertStatus(s.T(), rr, http.StatusOK)

	var body map[string]string
	s.Require().NoError(json.Unmarshal(testutil.ReadBody(s.T(), rr), &body))
	s.Equal("vitaledge", body["service"])
	s.Equal("operational", body["status"])
	s.NotEmpty(body["timestamp"])
}

func (s *RouterSuite) TestHealth() {
	rr := testutil.DoRequest(s.router, httptest.NewRequest(http.MethodGet, "/health", nil))
	testutil.AssertStatus(s.T(), rr, http.StatusOK)

	var body struct {
		Status     string            `json:"status"`
		Components map[string]string `json:"components"`
	}
	s.Require().NoError(json.Unmarshal(testutil.ReadBody(s.T(), rr), &body))
	s.Equal("healthy", body.Status)
	s.Equal("operational", body.Components["api"])
}

func (s *RouterSuite) TestMetricsEndpoint() {
	rr := testutil.DoRequest(s.router, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	testutil.AssertStatus(s.T(), rr, http.StatusOK)
}

func (s *RouterSuite) TestUnknownRoute() {
	rr := testutil.DoRequest(s.router, httptest.NewRequest(http.MethodGet, "/nope", nil))
	testutil.AssertStatus(s.T(), rr, http.StatusNotFound)
}

// TestReadingRoundTrip drives a reading through the mounted API and reads it
// back, covering the wiring between transport, handler, service, and store.
func (s *RouterSuite) TestReadingRoundTrip() {
	req := testutil.NewJSONRequest(s.T(), http.MethodPost, "/api/v1/vital-monitoring/readings", map[string]any{
		"device_id":      "DEV-1",
		"weight_kg":      85.0,
		"heart_rate_bpm": 130,
	})
	rr := testutil.DoRequest(s.router, req)
	testutil.AssertStatus(s.T(), rr, http.StatusCreated)

	rr = testutil.DoRequest(s.router,
		httptest.NewRequest(http.MethodGet, "/api/v1/vital-monitoring/devices/DEV-1/status", nil))
	testutil.AssertStatus(s.T(), rr, http.StatusOK)

	var resp struct {
		Data struct {
			TotalReadings int `json:"total_readings"`
			LastReading   struct {
				HeartRateBPM int  `json:"heart_rate_bpm"`
				IsCritical   bool `json:"is_critical"`
			} `json:"last_reading"`
		} `json:"data"`
	}
	s.Require().NoError(json.Unmarshal(testutil.ReadBody(s.T(), rr), &resp))
	s.Equal(1, resp.Data.TotalReadings)
	s.Equal(130, resp.Data.LastReading.HeartRateBPM)
	s.True(resp.Data.LastReading.IsCritical)
}
