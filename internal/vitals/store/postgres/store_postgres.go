// Package postgres provides the Postgres-backed VitalStore for deployments
// that need the trail to survive restarts.
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"vitaledge/internal/vitals/models"
	"vitaledge/internal/vitals/store"
	"vitaledge/pkg/platform/sentinel"
)

// seq records insertion order so the stable sort's tie-break survives the
// round trip: equal timestamps come back earliest-inserted first.
const schema = `
CREATE TABLE IF NOT EXISTS vital_readings (
	seq               BIGSERIAL,
	reading_id        TEXT PRIMARY KEY,
	device_id         TEXT NOT NULL,
	weight_kg         DOUBLE PRECISION NOT NULL,
	heart_rate_bpm    INTEGER NOT NULL,
	heart_rate_status TEXT NOT NULL,
	weight_alert      TEXT NOT NULL,
	taken_at          TIMESTAMPTZ NOT NULL,
	recorded_at       TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS vital_readings_device_idx ON vital_readings (device_id, taken_at DESC);
`

const readingColumns = `reading_id, device_id, weight_kg, heart_rate_bpm, heart_rate_status, weight_alert, taken_at, recorded_at`

// criticalPredicate mirrors VitalReading.IsCritical.
const criticalPredicate = `(heart_rate_status <> 'Normal' OR weight_alert = 'Overweight')`

// Store implements store.VitalStore on Postgres.
type Store struct {
	pool *pgxpool.Pool
}

// New connects to Postgres and ensures the schema exists.
func New(ctx context.Context, dsn string) (*Store, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	s := &Store{pool: pool}
	if err := s.ensureSchema(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return s, nil
}

// NewWithPool wraps an existing pool, for tests that manage containers.
func NewWithPool(ctx context.Context, pool *pgxpool.Pool) (*Store, error) {
	s := &Store{pool: pool}
	if err := s.ensureSchema(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Store) ensureSchema(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}

// Close releases the connection pool.
func (s *Store) Close() {
	s.pool.Close()
}

func (s *Store) Save(ctx context.Context, reading *models.VitalReading) (*models.VitalReading, error) {
	// Upsert keeps the original seq, so a reused id overwrites the row
	// without disturbing insertion order.
	_, err := s.pool.Exec(ctx, `
		INSERT INTO vital_readings (`+readingColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (reading_id) DO UPDATE SET
			device_id         = EXCLUDED.device_id,
			weight_kg         = EXCLUDED.weight_kg,
			heart_rate_bpm    = EXCLUDED.heart_rate_bpm,
			heart_rate_status = EXCLUDED.heart_rate_status,
			weight_alert      = EXCLUDED.weight_alert,
			taken_at          = EXCLUDED.taken_at,
			recorded_at       = EXCLUDED.recorded_at`,
		reading.ReadingID, reading.DeviceID, reading.WeightKg, reading.HeartRateBPM,
		string(reading.HeartRateStatus), string(reading.WeightAlert),
		reading.Timestamp, reading.RecordedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("save reading: %w", err)
	}
	return reading.Clone(), nil
}

func (s *Store) FindByID(ctx context.Context, readingID string) (*models.VitalReading, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT `+readingColumns+` FROM vital_readings WHERE reading_id = $1`, readingID)
	reading, err := scanReading(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("reading %s: %w", readingID, sentinel.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("load reading: %w", err)
	}
	return reading, nil
}

func (s *Store) FindByDevice(ctx context.Context, deviceID string, limit int) ([]*models.VitalReading, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT `+readingColumns+` FROM vital_readings
		WHERE device_id = $1
		ORDER BY taken_at DESC, seq ASC
		LIMIT $2`, deviceID, limit)
	if err != nil {
		return nil, fmt.Errorf("load device readings: %w", err)
	}
	return collectReadings(rows)
}

func (s *Store) FindLatestByDevice(ctx context.Context, deviceID string) (*models.VitalReading, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT `+readingColumns+` FROM vital_readings
		WHERE device_id = $1
		ORDER BY taken_at DESC, seq ASC
		LIMIT 1`, deviceID)
	reading, err := scanReading(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("device %s has no readings: %w", deviceID, sentinel.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("load latest reading: %w", err)
	}
	return reading, nil
}

func (s *Store) CountByDevice(ctx context.Context, deviceID string) (int, error) {
	var count int
	err := s.pool.QueryRow(ctx, `
		SELECT count(*) FROM vital_readings WHERE device_id = $1`, deviceID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count readings: %w", err)
	}
	return count, nil
}

func (s *Store) FindCriticalReadings(ctx context.Context, deviceID string) ([]*models.VitalReading, error) {
	// Scan the scope's most recent readings (bounded), then filter, keeping
	// the same semantics as the other backends.
	var (
		rows pgx.Rows
		err  error
	)
	if deviceID != "" {
		rows, err = s.pool.Query(ctx, `
			SELECT `+readingColumns+` FROM (
				SELECT seq, `+readingColumns+` FROM vital_readings
				WHERE device_id = $1
				ORDER BY taken_at DESC, seq ASC
				LIMIT $2
			) recent
			WHERE `+criticalPredicate+`
			ORDER BY taken_at DESC, seq ASC`, deviceID, store.CriticalScanLimit)
	} else {
		rows, err = s.pool.Query(ctx, `
			SELECT `+readingColumns+` FROM (
				SELECT seq, `+readingColumns+` FROM vital_readings
				ORDER BY taken_at DESC, seq ASC
				LIMIT $1
			) recent
			WHERE `+criticalPredicate+`
			ORDER BY taken_at DESC, seq ASC`, store.CriticalScanLimit)
	}
	if err != nil {
		return nil, fmt.Errorf("load critical readings: %w", err)
	}
	return collectReadings(rows)
}

func scanReading(row pgx.Row) (*models.VitalReading, error) {
	var (
		reading         models.VitalReading
		heartRateStatus string
		weightAlert     string
	)
	err := row.Scan(
		&reading.ReadingID, &reading.DeviceID, &reading.WeightKg, &reading.HeartRateBPM,
		&heartRateStatus, &weightAlert, &reading.Timestamp, &reading.RecordedAt,
	)
	if err != nil {
		return nil, err
	}
	reading.HeartRateStatus = models.HeartRateStatus(heartRateStatus)
	reading.WeightAlert = models.WeightAlert(weightAlert)
	return &reading, nil
}

func collectReadings(rows pgx.Rows) ([]*models.VitalReading, error) {
	defer rows.Close()
	readings := []*models.VitalReading{}
	for rows.Next() {
		reading, err := scanReading(rows)
		if err != nil {
			return nil, fmt.Errorf("scan reading: %w", err)
		}
		readings = append(readings, reading)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate readings: %w", err)
	}
	return readings, nil
}

var _ store.VitalStore = (*Store)(nil)
