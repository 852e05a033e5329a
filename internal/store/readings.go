package store

import (
	"context"
	"fmt"

	"github.com/angewomoon/masetero/internal/model"
)

// InsertReading appends a sensor reading and returns the row id.
// Readings are append-only; there is no update path.
func (s *Store) InsertReading(ctx context.Context, r *model.SensorReading) (int64, error) {
	if err := r.Validate(); err != nil {
		return 0, fmt.Errorf("invalid sensor reading: %w", err)
	}

	query := `
	INSERT INTO sensor_readings (
		id, plant_id,
		soil_humidity, temperature, ambient_humidity,
		uv_index, water_level, pest_count, timestamp
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	res, err := s.conn.ExecContext(ctx, query,
		idOrNull(r.ID),
		r.PlantID,
		r.SoilHumidity,
		r.Temperature,
		r.AmbientHumidity,
		r.UVIndex,
		r.WaterLevel,
		r.PestCount,
		r.Timestamp,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert reading for plant %d: %w", r.PlantID, err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read inserted reading id: %w", err)
	}
	r.ID = id
	return id, nil
}

const readingColumns = `
	id, plant_id,
	soil_humidity, temperature, ambient_humidity,
	uv_index, water_level, pest_count, timestamp
`

// ForEachReading streams all sensor readings in storage order through fn.
// Iteration stops at the first error fn returns.
func (s *Store) ForEachReading(ctx context.Context, fn func(*model.SensorReading) error) error {
	rows, err := s.conn.QueryContext(ctx, "SELECT "+readingColumns+" FROM sensor_readings")
	if err != nil {
		return fmt.Errorf("failed to query sensor readings: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var r model.SensorReading
		err := rows.Scan(
			&r.ID,
			&r.PlantID,
			&r.SoilHumidity,
			&r.Temperature,
			&r.AmbientHumidity,
			&r.UVIndex,
			&r.WaterLevel,
			&r.PestCount,
			&r.Timestamp,
		)
		if err != nil {
			return fmt.Errorf("failed to scan reading: %w", err)
		}
		if err := fn(&r); err != nil {
			return err
		}
	}

	if err := rows.Err(); err != nil {
		return fmt.Errorf("error iterating readings: %w", err)
	}
	return nil
}

// LatestReading returns the most recent reading for a plant, or
// sql.ErrNoRows when the plant has none.
func (s *Store) LatestReading(ctx context.Context, plantID int64) (*model.SensorReading, error) {
	query := "SELECT " + readingColumns + `
	FROM sensor_readings
	WHERE plant_id = ?
	ORDER BY CAST(timestamp AS INTEGER) DESC
	LIMIT 1
	`

	var r model.SensorReading
	err := s.conn.QueryRowContext(ctx, query, plantID).Scan(
		&r.ID,
		&r.PlantID,
		&r.SoilHumidity,
		&r.Temperature,
		&r.AmbientHumidity,
		&r.UVIndex,
		&r.WaterLevel,
		&r.PestCount,
		&r.Timestamp,
	)
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// CountReadings returns the total number of sensor readings.
func (s *Store) CountReadings(ctx context.Context) (int, error) {
	return s.CountRows(ctx, "sensor_readings")
}
