package database

import (
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"boozetrack/model"
)

// GetUser fetches one account row. sql.ErrNoRows passes through; the auth
// gate maps it to the generic credential error.
func GetUser(db *sqlx.DB, username string) (*model.User, error) {
	var u model.User
	err := db.Get(&u, `SELECT username, password_hash, role, created_at FROM users WHERE username = ?`, username)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get user %q: %w", username, err)
	}
	return &u, nil
}

// UserExists reports whether an account with the given username is present.
func UserExists(db *sqlx.DB, username string) (bool, error) {
	var exists bool
	err := db.Get(&exists, `SELECT EXISTS(SELECT 1 FROM users WHERE username = ?)`, username)
	if err != nil {
		return false, fmt.Errorf("failed to check user %q: %w", username, err)
	}
	return exists, nil
}

// InsertUser creates a new account row.
func InsertUser(db *sqlx.DB, u *model.User) error {
	_, err := db.Exec(
		`INSERT INTO users (username, password_hash, role, created_at) VALUES (?, ?, ?, ?)`,
		u.Username, u.PasswordHash, u.Role, u.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert user %q: %w", u.Username, err)
	}
	return nil
}

// DeleteUser removes an account and reports whether a row was deleted.
func DeleteUser(db *sqlx.DB, username string) (bool, error) {
	res, err := db.Exec(`DELETE FROM users WHERE username = ?`, username)
	if err != nil {
		return false, fmt.Errorf("failed to delete user %q: %w", username, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read delete result for user %q: %w", username, err)
	}
	return n > 0, nil
}
