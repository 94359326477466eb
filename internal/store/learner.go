package store

import (
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/pavelanni/phonics/internal/model"
)

const learnerColumns = userColumns + `, stars, max_level, screen_time_minutes`

func scanLearner(row scanner, l *model.Learner) error {
	u := &l.User
	return row.Scan(&u.ID, &u.Username, &u.DisplayName, &u.PasswordHash, &u.Role, &u.Active,
		&u.Standard, &u.ParentPhone, &u.CreatedAt, &l.Stars, &l.MaxLevel, &l.ScreenTimeMinutes)
}

// GetLearner returns a student with all progress, or nil if no student has
// that ID.
func (s *Store) GetLearner(id int64) (*model.Learner, error) {
	var l model.Learner
	err := scanLearner(s.db.QueryRow(
		`SELECT `+learnerColumns+` FROM users WHERE id = ? AND role = ?`, id, model.UserRoleStudent,
	), &l)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if err := s.loadProgress(&l); err != nil {
		return nil, fmt.Errorf("load progress for %d: %w", id, err)
	}
	return &l, nil
}

// ListLearners returns every student with progress, ordered by display name.
func (s *Store) ListLearners() ([]model.Learner, error) {
	rows, err := s.db.Query(
		`SELECT `+learnerColumns+` FROM users WHERE role = ? ORDER BY display_name, id`, model.UserRoleStudent,
	)
	if err != nil {
		return nil, err
	}
	var learners []model.Learner
	for rows.Next() {
		var l model.Learner
		if err := scanLearner(rows, &l); err != nil {
			rows.Close()
			return nil, err
		}
		learners = append(learners, l)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}
	// Progress queries run after the cursor closes: the pool holds a single
	// connection.
	for i := range learners {
		if err := s.loadProgress(&learners[i]); err != nil {
			return nil, fmt.Errorf("load progress for %d: %w", learners[i].ID, err)
		}
	}
	return learners, nil
}

func (s *Store) loadProgress(l *model.Learner) error {
	l.TestScores = []model.TestScore{}
	l.GameScores = []model.GameScore{}
	l.WrongAnswers = []model.WrongAnswer{}
	l.LessonsCompleted = []int{}

	rows, err := s.db.Query(
		`SELECT level, correct, total, passed, taken_at FROM test_scores WHERE user_id = ? ORDER BY level`, l.ID)
	if err != nil {
		return err
	}
	for rows.Next() {
		var ts model.TestScore
		if err := rows.Scan(&ts.Level, &ts.Correct, &ts.Total, &ts.Passed, &ts.TakenAt); err != nil {
			rows.Close()
			return err
		}
		l.TestScores = append(l.TestScores, ts)
	}
	rows.Close()

	rows, err = s.db.Query(
		`SELECT game, score, played_at FROM game_scores WHERE user_id = ? ORDER BY game`, l.ID)
	if err != nil {
		return err
	}
	for rows.Next() {
		var gs model.GameScore
		if err := rows.Scan(&gs.Game, &gs.Score, &gs.PlayedAt); err != nil {
			rows.Close()
			return err
		}
		l.GameScores = append(l.GameScores, gs)
	}
	rows.Close()

	rows, err = s.db.Query(
		`SELECT level, question, wrong_answer, correct_answer, at FROM wrong_answers WHERE user_id = ? ORDER BY id`, l.ID)
	if err != nil {
		return err
	}
	for rows.Next() {
		var w model.WrongAnswer
		if err := rows.Scan(&w.Level, &w.Question, &w.WrongAnswer, &w.CorrectAnswer, &w.At); err != nil {
			rows.Close()
			return err
		}
		l.WrongAnswers = append(l.WrongAnswers, w)
	}
	rows.Close()

	rows, err = s.db.Query(`SELECT level FROM lessons_completed WHERE user_id = ? ORDER BY level`, l.ID)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var level int
		if err := rows.Scan(&level); err != nil {
			return err
		}
		l.LessonsCompleted = append(l.LessonsCompleted, level)
	}
	return rows.Err()
}

// UpdateLearner applies a partial update in one transaction. Fields left nil
// in upd are untouched.
func (s *Store) UpdateLearner(id int64, upd model.LearnerUpdate) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var exists int
	err = tx.QueryRow(`SELECT COUNT(*) FROM users WHERE id = ? AND role = ?`, id, model.UserRoleStudent).Scan(&exists)
	if err != nil {
		return err
	}
	if exists == 0 {
		return fmt.Errorf("learner %d: %w", id, ErrNotFound)
	}

	set := func(column string, value any) error {
		_, err := tx.Exec(`UPDATE users SET `+column+` = ? WHERE id = ?`, value, id)
		return err
	}
	if upd.MaxLevel != nil {
		if err := set("max_level", *upd.MaxLevel); err != nil {
			return err
		}
	}
	if upd.Stars != nil {
		if err := set("stars", *upd.Stars); err != nil {
			return err
		}
	}
	if upd.AddStars != 0 {
		if _, err := tx.Exec(`UPDATE users SET stars = MAX(stars + ?, 0) WHERE id = ?`, upd.AddStars, id); err != nil {
			return err
		}
	}
	if upd.ScreenTimeMinutes != nil {
		if err := set("screen_time_minutes", *upd.ScreenTimeMinutes); err != nil {
			return err
		}
	}
	if upd.Standard != nil {
		if err := set("standard", *upd.Standard); err != nil {
			return err
		}
	}
	if upd.ParentPhone != nil {
		if err := set("parent_phone", *upd.ParentPhone); err != nil {
			return err
		}
	}
	if upd.DisplayName != nil {
		if err := set("display_name", *upd.DisplayName); err != nil {
			return err
		}
	}
	if ts := upd.TestScore; ts != nil {
		_, err := tx.Exec(
			`INSERT INTO test_scores (user_id, level, correct, total, passed, taken_at) VALUES (?, ?, ?, ?, ?, ?)
			 ON CONFLICT(user_id, level) DO UPDATE SET correct = excluded.correct, total = excluded.total,
			 passed = excluded.passed, taken_at = excluded.taken_at`,
			id, ts.Level, ts.Correct, ts.Total, ts.Passed, ts.TakenAt,
		)
		if err != nil {
			return fmt.Errorf("save test score: %w", err)
		}
	}
	if gs := upd.GameScore; gs != nil {
		_, err := tx.Exec(
			`INSERT INTO game_scores (user_id, game, score, played_at) VALUES (?, ?, ?, ?)
			 ON CONFLICT(user_id, game) DO UPDATE SET score = excluded.score, played_at = excluded.played_at`,
			id, gs.Game, gs.Score, gs.PlayedAt,
		)
		if err != nil {
			return fmt.Errorf("save game score: %w", err)
		}
	}
	for _, w := range upd.WrongAnswers {
		_, err := tx.Exec(
			`INSERT INTO wrong_answers (user_id, level, question, wrong_answer, correct_answer, at) VALUES (?, ?, ?, ?, ?, ?)`,
			id, w.Level, w.Question, w.WrongAnswer, w.CorrectAnswer, w.At,
		)
		if err != nil {
			return fmt.Errorf("save wrong answer: %w", err)
		}
	}
	if upd.LessonCompleted != nil {
		_, err := tx.Exec(`INSERT OR IGNORE INTO lessons_completed (user_id, level) VALUES (?, ?)`, id, *upd.LessonCompleted)
		if err != nil {
			return fmt.Errorf("save lesson: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	slog.Debug("updated learner", "id", id)
	return nil
}
