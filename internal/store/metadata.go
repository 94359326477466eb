package store

import (
	"database/sql"

	"github.com/pavelanni/phonics/internal/model"
)

// SetMetadata upserts a key-value pair in the app_metadata table.
func (s *Store) SetMetadata(key, value string) error {
	_, err := s.db.Exec(
		`INSERT INTO app_metadata (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = ?`,
		key, value, value,
	)
	return err
}

// GetMetadata returns the value for a metadata key.
// Returns empty string and nil error if the key is missing.
func (s *Store) GetMetadata(key string) (string, error) {
	var value string
	err := s.db.QueryRow(`SELECT value FROM app_metadata WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", nil
	}
	return value, err
}

// SetClassInfo stores the class description. Empty fields leave the stored
// value alone.
func (s *Store) SetClassInfo(info model.ClassInfo) error {
	pairs := []struct{ k, v string }{
		{"school", info.School},
		{"class", info.Class},
		{"teacher", info.Teacher},
	}
	for _, p := range pairs {
		if p.v == "" {
			continue
		}
		if err := s.SetMetadata(p.k, p.v); err != nil {
			return err
		}
	}
	return nil
}

// GetClassInfo reads the class description.
func (s *Store) GetClassInfo() (model.ClassInfo, error) {
	var info model.ClassInfo
	var err error
	if info.School, err = s.GetMetadata("school"); err != nil {
		return info, err
	}
	if info.Class, err = s.GetMetadata("class"); err != nil {
		return info, err
	}
	if info.Teacher, err = s.GetMetadata("teacher"); err != nil {
		return info, err
	}
	return info, nil
}
