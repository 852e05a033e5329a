package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/angewomoon/masetero/internal/model"
)

// InsertPlant inserts a plant and returns the row id.
// A zero ID lets SQLite assign one; a non-zero ID is kept as-is.
func (s *Store) InsertPlant(ctx context.Context, p *model.Plant) (int64, error) {
	if err := p.Validate(); err != nil {
		return 0, fmt.Errorf("invalid plant: %w", err)
	}

	query := `
	INSERT INTO plants (
		id, user_id, name, type,
		species, scientific_name, image_url, connected,
		min_soil_humidity, max_soil_humidity,
		min_temperature, max_temperature,
		min_ambient_humidity, max_ambient_humidity,
		optimal_light, created_at, updated_at
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	res, err := s.conn.ExecContext(ctx, query,
		idOrNull(p.ID),
		p.UserID,
		p.Name,
		p.Type,
		textOrNull(p.Species),
		textOrNull(p.ScientificName),
		textOrNull(p.ImageURL),
		boolToInt(p.Connected),
		p.MinSoilHumidity,
		p.MaxSoilHumidity,
		p.MinTemperature,
		p.MaxTemperature,
		p.MinAmbientHumidity,
		p.MaxAmbientHumidity,
		p.OptimalLight,
		p.CreatedAt,
		p.UpdatedAt,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert plant %s: %w", p.Name, err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read inserted plant id: %w", err)
	}
	p.ID = id
	return id, nil
}

// UpdatePlant updates a plant by primary key and returns the number of rows
// affected.
func (s *Store) UpdatePlant(ctx context.Context, p *model.Plant) (int64, error) {
	if err := p.Validate(); err != nil {
		return 0, fmt.Errorf("invalid plant: %w", err)
	}

	query := `
	UPDATE plants SET
		user_id = ?,
		name = ?,
		type = ?,
		species = ?,
		scientific_name = ?,
		image_url = ?,
		connected = ?,
		min_soil_humidity = ?,
		max_soil_humidity = ?,
		min_temperature = ?,
		max_temperature = ?,
		min_ambient_humidity = ?,
		max_ambient_humidity = ?,
		optimal_light = ?,
		created_at = ?,
		updated_at = ?
	WHERE id = ?
	`

	res, err := s.conn.ExecContext(ctx, query,
		p.UserID,
		p.Name,
		p.Type,
		textOrNull(p.Species),
		textOrNull(p.ScientificName),
		textOrNull(p.ImageURL),
		boolToInt(p.Connected),
		p.MinSoilHumidity,
		p.MaxSoilHumidity,
		p.MinTemperature,
		p.MaxTemperature,
		p.MinAmbientHumidity,
		p.MaxAmbientHumidity,
		p.OptimalLight,
		p.CreatedAt,
		p.UpdatedAt,
		p.ID,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to update plant %d: %w", p.ID, err)
	}
	return res.RowsAffected()
}

const plantColumns = `
	id, user_id, name, type,
	species, scientific_name, image_url, connected,
	min_soil_humidity, max_soil_humidity,
	min_temperature, max_temperature,
	min_ambient_humidity, max_ambient_humidity,
	optimal_light, created_at, updated_at
`

// GetPlantByID retrieves a plant by primary key.
// Returns sql.ErrNoRows if the plant is not found.
func (s *Store) GetPlantByID(ctx context.Context, id int64) (*model.Plant, error) {
	row := s.conn.QueryRowContext(ctx, "SELECT "+plantColumns+" FROM plants WHERE id = ?", id)
	return scanPlant(row)
}

// ListPlantsByUser returns all plants belonging to a user.
func (s *Store) ListPlantsByUser(ctx context.Context, userID int64) ([]*model.Plant, error) {
	rows, err := s.conn.QueryContext(ctx, "SELECT "+plantColumns+" FROM plants WHERE user_id = ?", userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query plants for user %d: %w", userID, err)
	}
	defer rows.Close()

	var plants []*model.Plant
	for rows.Next() {
		p, err := scanPlant(rows)
		if err != nil {
			return nil, err
		}
		plants = append(plants, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating plants: %w", err)
	}
	return plants, nil
}

// ForEachPlant streams all plants in storage order through fn.
// Iteration stops at the first error fn returns.
func (s *Store) ForEachPlant(ctx context.Context, fn func(*model.Plant) error) error {
	rows, err := s.conn.QueryContext(ctx, "SELECT "+plantColumns+" FROM plants")
	if err != nil {
		return fmt.Errorf("failed to query plants: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		p, err := scanPlant(rows)
		if err != nil {
			return err
		}
		if err := fn(p); err != nil {
			return err
		}
	}

	if err := rows.Err(); err != nil {
		return fmt.Errorf("error iterating plants: %w", err)
	}
	return nil
}

// CountPlants returns the total number of plants.
func (s *Store) CountPlants(ctx context.Context) (int, error) {
	return s.CountRows(ctx, "plants")
}

func scanPlant(row scanner) (*model.Plant, error) {
	var p model.Plant
	var species, scientificName, imageURL sql.NullString
	var connected int64

	err := row.Scan(
		&p.ID,
		&p.UserID,
		&p.Name,
		&p.Type,
		&species,
		&scientificName,
		&imageURL,
		&connected,
		&p.MinSoilHumidity,
		&p.MaxSoilHumidity,
		&p.MinTemperature,
		&p.MaxTemperature,
		&p.MinAmbientHumidity,
		&p.MaxAmbientHumidity,
		&p.OptimalLight,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	p.Species = nullToText(species)
	p.ScientificName = nullToText(scientificName)
	p.ImageURL = nullToText(imageURL)
	p.Connected = connected != 0
	return &p, nil
}

// boolToInt stores booleans the way the schema declares them.
func boolToInt(b bool) int64 {
	if b {
		return 1
	}
	return 0
}
