package store

import (
	"fmt"

	"github.com/pavelanni/phonics/internal/model"
)

// SetAttendance records a learner's status for a day, keeping the homework
// flag.
func (s *Store) SetAttendance(userID int64, day string, status model.AttendanceStatus) error {
	if !status.Valid() {
		return fmt.Errorf("invalid attendance status %q", status)
	}
	_, err := s.db.Exec(
		`INSERT INTO attendance (user_id, day, status) VALUES (?, ?, ?)
		 ON CONFLICT(user_id, day) DO UPDATE SET status = excluded.status`,
		userID, day, status,
	)
	return err
}

// SetHomework records whether a learner handed in homework on a day, keeping
// the attendance status.
func (s *Store) SetHomework(userID int64, day string, done bool) error {
	_, err := s.db.Exec(
		`INSERT INTO attendance (user_id, day, homework) VALUES (?, ?, ?)
		 ON CONFLICT(user_id, day) DO UPDATE SET homework = excluded.homework`,
		userID, day, done,
	)
	return err
}

// AttendanceForDay returns every record for a day keyed by user ID.
func (s *Store) AttendanceForDay(day string) (map[int64]model.Attendance, error) {
	rows, err := s.db.Query(`SELECT user_id, day, status, homework FROM attendance WHERE day = ?`, day)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make(map[int64]model.Attendance)
	for rows.Next() {
		var a model.Attendance
		if err := rows.Scan(&a.UserID, &a.Day, &a.Status, &a.Homework); err != nil {
			return nil, err
		}
		out[a.UserID] = a
	}
	return out, rows.Err()
}

// AttendanceStats counts a learner's attendance and homework records.
func (s *Store) AttendanceStats(userID int64) (model.AttendanceStats, error) {
	var st model.AttendanceStats
	err := s.db.QueryRow(
		`SELECT
			COUNT(*),
			COALESCE(SUM(status = 'present'), 0),
			COALESCE(SUM(status = 'absent'), 0),
			COALESCE(SUM(status = 'late'), 0),
			COALESCE(SUM(homework), 0)
		 FROM attendance WHERE user_id = ?`, userID,
	).Scan(&st.Days, &st.Present, &st.Absent, &st.Late, &st.Homework)
	return st, err
}
