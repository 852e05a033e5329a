package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/angewomoon/masetero/internal/model"
)

// InsertAlert appends an alert and returns the row id.
// Alerts are append-only; only the read flag is ever mutated afterwards.
func (s *Store) InsertAlert(ctx context.Context, a *model.Alert) (int64, error) {
	if err := a.Validate(); err != nil {
		return 0, fmt.Errorf("invalid alert: %w", err)
	}

	query := `
	INSERT INTO alerts (
		id, plant_id, type, title, message,
		severity, read, icon, timestamp
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	res, err := s.conn.ExecContext(ctx, query,
		idOrNull(a.ID),
		a.PlantID,
		a.Type,
		a.Title,
		a.Message,
		a.Severity,
		boolToInt(a.Read),
		textOrNull(a.Icon),
		a.Timestamp,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert alert %q: %w", a.Title, err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read inserted alert id: %w", err)
	}
	a.ID = id
	return id, nil
}

// MarkAlertRead sets the read flag on an alert.
func (s *Store) MarkAlertRead(ctx context.Context, id int64) error {
	_, err := s.conn.ExecContext(ctx, "UPDATE alerts SET read = 1 WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to mark alert %d read: %w", id, err)
	}
	return nil
}

const alertColumns = `
	id, plant_id, type, title, message,
	severity, read, icon, timestamp
`

// ForEachAlert streams all alerts in storage order through fn.
// Iteration stops at the first error fn returns.
func (s *Store) ForEachAlert(ctx context.Context, fn func(*model.Alert) error) error {
	rows, err := s.conn.QueryContext(ctx, "SELECT "+alertColumns+" FROM alerts")
	if err != nil {
		return fmt.Errorf("failed to query alerts: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		a, err := scanAlert(rows)
		if err != nil {
			return err
		}
		if err := fn(a); err != nil {
			return err
		}
	}

	if err := rows.Err(); err != nil {
		return fmt.Errorf("error iterating alerts: %w", err)
	}
	return nil
}

// CountUnreadAlerts returns the number of alerts with the read flag unset.
func (s *Store) CountUnreadAlerts(ctx context.Context) (int, error) {
	var count int
	err := s.conn.QueryRowContext(ctx, "SELECT COUNT(*) FROM alerts WHERE read = 0").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count unread alerts: %w", err)
	}
	return count, nil
}

// CountAlerts returns the total number of alerts.
func (s *Store) CountAlerts(ctx context.Context) (int, error) {
	return s.CountRows(ctx, "alerts")
}

func scanAlert(row scanner) (*model.Alert, error) {
	var a model.Alert
	var icon sql.NullString
	var read int64

	err := row.Scan(
		&a.ID,
		&a.PlantID,
		&a.Type,
		&a.Title,
		&a.Message,
		&a.Severity,
		&read,
		&icon,
		&a.Timestamp,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to scan alert: %w", err)
	}

	a.Read = read != 0
	a.Icon = nullToText(icon)
	return &a, nil
}
