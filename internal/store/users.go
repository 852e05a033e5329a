package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/angewomoon/masetero/internal/model"
)

// InsertUser inserts a user and returns the row id.
//
// A zero ID lets SQLite assign one; a non-zero ID (a record arriving from
// the remote tree) is kept as-is.
func (s *Store) InsertUser(ctx context.Context, u *model.User) (int64, error) {
	if err := u.Validate(); err != nil {
		return 0, fmt.Errorf("invalid user: %w", err)
	}

	query := `
	INSERT INTO users (
		id, name, email, password_hash,
		profile_image_url, external_auth_id,
		created_at, updated_at
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	res, err := s.conn.ExecContext(ctx, query,
		idOrNull(u.ID),
		u.Name,
		u.Email,
		u.PasswordHash,
		textOrNull(u.ProfileImageURL),
		textOrNull(u.ExternalAuthID),
		u.CreatedAt,
		u.UpdatedAt,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert user %s: %w", u.Email, err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read inserted user id: %w", err)
	}
	u.ID = id
	return id, nil
}

// UpdateUser updates a user by primary key and returns the number of rows
// affected (zero when no row has that id).
func (s *Store) UpdateUser(ctx context.Context, u *model.User) (int64, error) {
	if err := u.Validate(); err != nil {
		return 0, fmt.Errorf("invalid user: %w", err)
	}

	query := `
	UPDATE users SET
		name = ?,
		email = ?,
		password_hash = ?,
		profile_image_url = ?,
		external_auth_id = ?,
		created_at = ?,
		updated_at = ?
	WHERE id = ?
	`

	res, err := s.conn.ExecContext(ctx, query,
		u.Name,
		u.Email,
		u.PasswordHash,
		textOrNull(u.ProfileImageURL),
		textOrNull(u.ExternalAuthID),
		u.CreatedAt,
		u.UpdatedAt,
		u.ID,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to update user %d: %w", u.ID, err)
	}
	return res.RowsAffected()
}

const userColumns = `
	id, name, email, password_hash,
	profile_image_url, external_auth_id,
	created_at, updated_at
`

// GetUserByEmail retrieves a user by its natural key.
// Returns sql.ErrNoRows if no user has that email.
func (s *Store) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	row := s.conn.QueryRowContext(ctx, "SELECT "+userColumns+" FROM users WHERE email = ?", email)
	return scanUser(row)
}

// GetUserByID retrieves a user by primary key.
// Returns sql.ErrNoRows if the user is not found.
func (s *Store) GetUserByID(ctx context.Context, id int64) (*model.User, error) {
	row := s.conn.QueryRowContext(ctx, "SELECT "+userColumns+" FROM users WHERE id = ?", id)
	return scanUser(row)
}

// ForEachUser streams all users in storage order through fn.
// Iteration stops at the first error fn returns.
func (s *Store) ForEachUser(ctx context.Context, fn func(*model.User) error) error {
	rows, err := s.conn.QueryContext(ctx, "SELECT "+userColumns+" FROM users")
	if err != nil {
		return fmt.Errorf("failed to query users: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return err
		}
		if err := fn(u); err != nil {
			return err
		}
	}

	if err := rows.Err(); err != nil {
		return fmt.Errorf("error iterating users: %w", err)
	}
	return nil
}

// CountUsers returns the total number of users.
func (s *Store) CountUsers(ctx context.Context) (int, error) {
	return s.CountRows(ctx, "users")
}

// scanner abstracts sql.Row and sql.Rows for the scan helpers.
type scanner interface {
	Scan(dest ...any) error
}

func scanUser(row scanner) (*model.User, error) {
	var u model.User
	var profileImage, externalAuth sql.NullString

	err := row.Scan(
		&u.ID,
		&u.Name,
		&u.Email,
		&u.PasswordHash,
		&profileImage,
		&externalAuth,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	u.ProfileImageURL = nullToText(profileImage)
	u.ExternalAuthID = nullToText(externalAuth)
	return &u, nil
}
