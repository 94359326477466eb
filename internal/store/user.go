package store

import (
	"database/sql"
	"log/slog"
	"time"

	"github.com/pavelanni/phonics/internal/model"
)

const userColumns = `id, username, display_name, password_hash, role, active, standard, parent_phone, created_at`

type scanner interface {
	Scan(dest ...any) error
}

func scanUser(row scanner, u *model.User) error {
	return row.Scan(&u.ID, &u.Username, &u.DisplayName, &u.PasswordHash, &u.Role, &u.Active,
		&u.Standard, &u.ParentPhone, &u.CreatedAt)
}

// CreateUser inserts a new user. It only writes the row: no auth session is
// created, so a teacher adding learners keeps their own login.
func (s *Store) CreateUser(u model.User) (int64, error) {
	res, err := s.db.Exec(
		`INSERT INTO users (username, display_name, password_hash, role, active, standard, parent_phone, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		u.Username, u.DisplayName, u.PasswordHash, u.Role, u.Active, u.Standard, u.ParentPhone, time.Now(),
	)
	if err != nil {
		slog.Error("failed to create user", "username", u.Username, "error", err)
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	slog.Info("created user", "id", id, "username", u.Username, "role", u.Role)
	return id, nil
}

// GetUserByUsername returns a user by username.
func (s *Store) GetUserByUsername(username string) (*model.User, error) {
	var u model.User
	err := scanUser(s.db.QueryRow(`SELECT `+userColumns+` FROM users WHERE username = ?`, username), &u)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// GetUserByID returns a user by ID.
func (s *Store) GetUserByID(id int64) (*model.User, error) {
	var u model.User
	err := scanUser(s.db.QueryRow(`SELECT `+userColumns+` FROM users WHERE id = ?`, id), &u)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// ListUsers returns all users, optionally restricted to one role.
func (s *Store) ListUsers(role model.UserRole) ([]model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users`
	var args []any
	if role != "" {
		query += ` WHERE role = ?`
		args = append(args, role)
	}
	rows, err := s.db.Query(query+` ORDER BY id`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var users []model.User
	for rows.Next() {
		var u model.User
		if err := scanUser(rows, &u); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// ToggleUserActive flips the active flag on a user. Deactivated users lose
// their sessions.
func (s *Store) ToggleUserActive(id int64) error {
	if _, err := s.db.Exec(`UPDATE users SET active = NOT active WHERE id = ?`, id); err != nil {
		return err
	}
	_, err := s.db.Exec(
		`DELETE FROM auth_sessions WHERE user_id = ? AND EXISTS (SELECT 1 FROM users WHERE id = ? AND NOT active)`,
		id, id,
	)
	return err
}

// DeleteUser removes a user together with their progress, attendance and
// sessions.
func (s *Store) DeleteUser(id int64) error {
	res, err := s.db.Exec(`DELETE FROM users WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	slog.Info("deleted user", "id", id)
	return nil
}

// UserCount returns the total number of users.
func (s *Store) UserCount() (int, error) {
	var count int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM users`).Scan(&count)
	return count, err
}
