// Package redis provides the Redis-backed VitalStore for deployments where
// several edge nodes share one reading set.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"vitaledge/internal/vitals/models"
	"vitaledge/internal/vitals/store"
	"vitaledge/pkg/platform/sentinel"
)

// Key layout. Device and global indexes are RPUSH lists of reading ids in
// insertion order, mirroring the in-memory store's index structure.
const (
	readingKeyPrefix = "vitals:reading:"
	deviceKeyPrefix  = "vitals:device:"
	globalIndexKey   = "vitals:readings"
)

// Store implements store.VitalStore on Redis. Readings are stored as JSON;
// ordering is resolved client-side after an MGET, the same stable
// timestamp-descending sort the memory store uses.
type Store struct {
	client *redis.Client
}

// New constructs a Redis-backed store. The client lifecycle is managed by the
// caller.
func New(client *redis.Client) *Store {
	return &Store{client: client}
}

func readingKey(readingID string) string { return readingKeyPrefix + readingID }
func deviceKey(deviceID string) string   { return deviceKeyPrefix + deviceID }

func (s *Store) Save(ctx context.Context, reading *models.VitalReading) (*models.VitalReading, error) {
	payload, err := json.Marshal(reading)
	if err != nil {
		return nil, fmt.Errorf("encode reading: %w", err)
	}

	// Reused ids overwrite the value without re-appending index entries.
	// Fresh ids are the overwhelmingly common case, so the existence probe
	// outside the transaction is acceptable.
	exists, err := s.client.Exists(ctx, readingKey(reading.ReadingID)).Result()
	if err != nil {
		return nil, fmt.Errorf("check reading existence: %w", err)
	}

	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, readingKey(reading.ReadingID), payload, 0)
		if exists == 0 {
			pipe.RPush(ctx, deviceKey(reading.DeviceID), reading.ReadingID)
			pipe.RPush(ctx, globalIndexKey, reading.ReadingID)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("save reading: %w", err)
	}
	return reading.Clone(), nil
}

func (s *Store) FindByID(ctx context.Context, readingID string) (*models.VitalReading, error) {
	payload, err := s.client.Get(ctx, readingKey(readingID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("reading %s: %w", readingID, sentinel.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("load reading: %w", err)
	}
	return decodeReading(payload)
}

func (s *Store) FindByDevice(ctx context.Context, deviceID string, limit int) ([]*models.VitalReading, error) {
	readings, err := s.readingsFromIndex(ctx, deviceKey(deviceID))
	if err != nil {
		return nil, err
	}
	store.SortByTimestampDesc(readings)
	if limit >= 0 && len(readings) > limit {
		readings = readings[:limit]
	}
	return readings, nil
}

func (s *Store) FindLatestByDevice(ctx context.Context, deviceID string) (*models.VitalReading, error) {
	readings, err := s.FindByDevice(ctx, deviceID, 1)
	if err != nil {
		return nil, err
	}
	if len(readings) == 0 {
		return nil, fmt.Errorf("device %s has no readings: %w", deviceID, sentinel.ErrNotFound)
	}
	return readings[0], nil
}

func (s *Store) CountByDevice(ctx context.Context, deviceID string) (int, error) {
	count, err := s.client.LLen(ctx, deviceKey(deviceID)).Result()
	if err != nil {
		return 0, fmt.Errorf("count readings: %w", err)
	}
	return int(count), nil
}

func (s *Store) FindCriticalReadings(ctx context.Context, deviceID string) ([]*models.VitalReading, error) {
	indexKey := globalIndexKey
	if deviceID != "" {
		indexKey = deviceKey(deviceID)
	}
	readings, err := s.readingsFromIndex(ctx, indexKey)
	if err != nil {
		return nil, err
	}
	store.SortByTimestampDesc(readings)
	if len(readings) > store.CriticalScanLimit {
		readings = readings[:store.CriticalScanLimit]
	}

	critical := make([]*models.VitalReading, 0, len(readings))
	for _, reading := range readings {
		if reading.IsCritical() {
			critical = append(critical, reading)
		}
	}
	return critical, nil
}

// readingsFromIndex materializes the readings referenced by an index list.
// Ids whose value has vanished (partial flush) are skipped, matching the
// memory store's tolerance for dangling index entries.
func (s *Store) readingsFromIndex(ctx context.Context, indexKey string) ([]*models.VitalReading, error) {
	ids, err := s.client.LRange(ctx, indexKey, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("load index %s: %w", indexKey, err)
	}
	if len(ids) == 0 {
		return []*models.VitalReading{}, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = readingKey(id)
	}
	values, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("load readings: %w", err)
	}

	readings := make([]*models.VitalReading, 0, len(values))
	for _, value := range values {
		raw, ok := value.(string)
		if !ok {
			continue
		}
		reading, err := decodeReading([]byte(raw))
		if err != nil {
			return nil, err
		}
		readings = append(readings, reading)
	}
	return readings, nil
}

func decodeReading(payload []byte) (*models.VitalReading, error) {
	var reading models.VitalReading
	if err := json.Unmarshal(payload, &reading); err != nil {
		return nil, fmt.Errorf("decode reading: %w", err)
	}
	return &reading, nil
}

var _ store.VitalStore = (*Store)(nil)
