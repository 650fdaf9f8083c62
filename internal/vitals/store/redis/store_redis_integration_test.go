//go:build integration

package redis

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"vitaledge/internal/vitals/models"
	"vitaledge/pkg/platform/sentinel"
	"vitaledge/pkg/testutil/containers"
)

type RedisStoreSuite struct {
	suite.Suite
	ctx       context.Context
	container *containers.RedisContainer
	store     *Store
}

func TestRedisStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(RedisStoreSuite))
}

func (s *RedisStoreSuite) SetupSuite() {
	s.ctx = context.Background()
	s.container = containers.NewRedisContainer(s.T())
	s.store = New(s.container.Client)
}

func (s *RedisStoreSuite) SetupTest() {
	s.Require().NoError(s.container.FlushAll(s.ctx))
}

func (s *RedisStoreSuite) mustReading(deviceID string, weightKg float64, heartRateBPM int, at time.Time) *models.VitalReading {
	reading, err := models.NewReading(deviceID, weightKg, heartRateBPM, models.WithTimestamp(at))
	s.Require().NoError(err)
	return reading
}

func (s *RedisStoreSuite) TestSaveAndFindByID() {
	reading := s.mustReading("DEV-1", 75.5, 72, time.Now().UTC())
	saved, err := s.store.Save(s.ctx, reading)
	s.Require().NoError(err)
	s.Equal(reading.ReadingID, saved.ReadingID)

	found, err := s.store.FindByID(s.ctx, reading.ReadingID)
	s.Require().NoError(err)
	s.Equal(reading.DeviceID, found.DeviceID)
	s.Equal(reading.WeightKg, found.WeightKg)
	s.Equal(reading.HeartRateBPM, found.HeartRateBPM)
	s.Equal(reading.HeartRateStatus, found.HeartRateStatus)
	s.True(reading.Timestamp.Equal(found.Timestamp))
}

func (s *RedisStoreSuite) TestFindByIDUnknown() {
	_, err := s.store.FindByID(s.ctx, "missing")
	s.Require().ErrorIs(err, sentinel.ErrNotFound)
}

func (s *RedisStoreSuite) TestReusedIDOverwritesWithoutDuplicateIndex() {
	first := s.mustReading("DEV-1", 70, 72, time.Now().UTC())
	_, err := s.store.Save(s.ctx, first)
	s.Require().NoError(err)

	updated := first.Clone()
	updated.WeightKg = 82
	_, err = s.store.Save(s.ctx, updated)
	s.Require().NoError(err)

	count, err := s.store.CountByDevice(s.ctx, "DEV-1")
	s.Require().NoError(err)
	s.Equal(1, count)

	found, err := s.store.FindByID(s.ctx, first.ReadingID)
	s.Require().NoError(err)
	s.Equal(82.0, found.WeightKg)
}

func (s *RedisStoreSuite) TestFindByDeviceOrderingAndLimit() {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	for _, offset := range []time.Duration{2 * time.Minute, 0, time.Minute} {
		_, err := s.store.Save(s.ctx, s.mustReading("DEV-1", 70, 72, base.Add(offset)))
		s.Require().NoError(err)
	}

	readings, err := s.store.FindByDevice(s.ctx, "DEV-1", 10)
	s.Require().NoError(err)
	s.Require().Len(readings, 3)
	for i := 1; i < len(readings); i++ {
		s.False(readings[i].Timestamp.After(readings[i-1].Timestamp))
	}

	limited, err := s.store.FindByDevice(s.ctx, "DEV-1", 2)
	s.Require().NoError(err)
	s.Len(limited, 2)
}

func (s *RedisStoreSuite) TestFindLatestByDevice() {
	_, err := s.store.FindLatestByDevice(s.ctx, "GHOST")
	s.Require().ErrorIs(err, sentinel.ErrNotFound)

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	_, err = s.store.Save(s.ctx, s.mustReading("DEV-1", 70, 72, base))
	s.Require().NoError(err)
	newest := s.mustReading("DEV-1", 71, 75, base.Add(time.Hour))
	_, err = s.store.Save(s.ctx, newest)
	s.Require().NoError(err)

	latest, err := s.store.FindLatestByDevice(s.ctx, "DEV-1")
	s.Require().NoError(err)
	s.Equal(newest.ReadingID, latest.ReadingID)
}

func (s *RedisStoreSuite) TestCriticalReadings() {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	for i, bpm := range []int{55, 72, 130} {
		_, err := s.store.Save(s.ctx, s.mustReading("DEV-1", 70, bpm, base.Add(time.Duration(i)*time.Minute)))
		s.Require().NoError(err)
	}
	_, err := s.store.Save(s.ctx, s.mustReading("DEV-2", 90, 72, base.Add(time.Hour)))
	s.Require().NoError(err)

	scoped, err := s.store.FindCriticalReadings(s.ctx, "DEV-1")
	s.Require().NoError(err)
	s.Require().Len(scoped, 2)
	s.Equal(130, scoped[0].HeartRateBPM)
	s.Equal(55, scoped[1].HeartRateBPM)

	all, err := s.store.FindCriticalReadings(s.ctx, "")
	s.Require().NoError(err)
	s.Require().Len(all, 3)
	s.Equal("DEV-2", all[0].DeviceID)
}
