package model

import (
	"context"
	"time"
)

// UserRole represents a user's access level.
type UserRole string

const (
	// UserRoleStudent is a learner account.
	UserRoleStudent UserRole = "student"
	// UserRoleTeacher manages learners.
	UserRoleTeacher UserRole = "teacher"
	// UserRoleAdmin is a teacher that also manages teachers.
	UserRoleAdmin UserRole = "admin"
)

// User represents a system user.
type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	DisplayName  string    `json:"display_name"`
	PasswordHash string    `json:"-"`
	Role         UserRole  `json:"role"`
	Active       bool      `json:"active"`
	Standard     string    `json:"standard,omitempty"`
	ParentPhone  string    `json:"parent_phone,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// AuthSession represents an authentication session.
type AuthSession struct {
	ID        string
	UserID    int64
	CreatedAt time.Time
	ExpiresAt time.Time
}

// TestScore is the latest full test result for one level.
type TestScore struct {
	Level   int       `json:"level"`
	Correct int       `json:"correct"`
	Total   int       `json:"total"`
	Passed  bool      `json:"passed"`
	TakenAt time.Time `json:"taken_at"`
}

// Percent returns the share of correct answers in 0..100.
func (t TestScore) Percent() float64 {
	if t.Total == 0 {
		return 0
	}
	return float64(t.Correct) * 100 / float64(t.Total)
}

// GameScore is a learner's high score in one game.
type GameScore struct {
	Game     string    `json:"game"`
	Score    int       `json:"score"`
	PlayedAt time.Time `json:"played_at"`
}

// WrongAnswer is a missed question kept for review.
type WrongAnswer struct {
	Level         int       `json:"level"`
	Question      string    `json:"question"`
	WrongAnswer   string    `json:"wrong_answer"`
	CorrectAnswer string    `json:"correct_answer"`
	At            time.Time `json:"at"`
}

// Learner is a student account with its progress.
type Learner struct {
	User
	Stars             int           `json:"stars"`
	MaxLevel          int           `json:"max_level"`
	ScreenTimeMinutes int           `json:"screen_time_minutes"`
	TestScores        []TestScore   `json:"test_scores"`
	GameScores        []GameScore   `json:"game_scores"`
	WrongAnswers      []WrongAnswer `json:"wrong_answers"`
	LessonsCompleted  []int         `json:"lessons_completed"`
}

// TestScoreFor returns the score recorded for level, if any.
func (l *Learner) TestScoreFor(level int) (TestScore, bool) {
	for _, ts := range l.TestScores {
		if ts.Level == level {
			return ts, true
		}
	}
	return TestScore{}, false
}

// HighScore returns the recorded high score for game, or zero.
func (l *Learner) HighScore(game string) int {
	for _, gs := range l.GameScores {
		if gs.Game == game {
			return gs.Score
		}
	}
	return 0
}

// WrongAnswersFor returns the mistakes recorded at level.
func (l *Learner) WrongAnswersFor(level int) []WrongAnswer {
	var out []WrongAnswer
	for _, w := range l.WrongAnswers {
		if w.Level == level {
			out = append(out, w)
		}
	}
	return out
}

// AverageTestPercent averages the percent over every recorded level.
func (l *Learner) AverageTestPercent() (float64, bool) {
	if len(l.TestScores) == 0 {
		return 0, false
	}
	var sum float64
	for _, ts := range l.TestScores {
		sum += ts.Percent()
	}
	return sum / float64(len(l.TestScores)), true
}

// LearnerUpdate is a partial change to a learner. Nil fields are left alone.
type LearnerUpdate struct {
	MaxLevel          *int
	Stars             *int
	AddStars          int
	ScreenTimeMinutes *int
	TestScore         *TestScore
	GameScore         *GameScore
	WrongAnswers      []WrongAnswer
	LessonCompleted   *int
	Standard          *string
	ParentPhone       *string
	DisplayName       *string
}

// Empty reports whether the update changes nothing.
func (u LearnerUpdate) Empty() bool {
	return u.MaxLevel == nil && u.Stars == nil && u.AddStars == 0 &&
		u.ScreenTimeMinutes == nil && u.TestScore == nil && u.GameScore == nil &&
		len(u.WrongAnswers) == 0 && u.LessonCompleted == nil &&
		u.Standard == nil && u.ParentPhone == nil && u.DisplayName == nil
}

// AttendanceStatus is a learner's presence for one day.
type AttendanceStatus string

const (
	AttendancePresent AttendanceStatus = "present"
	AttendanceAbsent  AttendanceStatus = "absent"
	AttendanceLate    AttendanceStatus = "late"
)

// Valid reports whether s is a known status.
func (s AttendanceStatus) Valid() bool {
	switch s {
	case AttendancePresent, AttendanceAbsent, AttendanceLate:
		return true
	}
	return false
}

// Attendance is one learner's record for one day. Day is YYYY-MM-DD.
type Attendance struct {
	UserID   int64            `json:"user_id"`
	Day      string           `json:"day"`
	Status   AttendanceStatus `json:"status"`
	Homework bool             `json:"homework"`
}

// AttendanceStats summarizes a learner's attendance records.
type AttendanceStats struct {
	Present  int `json:"present"`
	Absent   int `json:"absent"`
	Late     int `json:"late"`
	Homework int `json:"homework"`
	Days     int `json:"days"`
}

// ClassInfo describes the class a deployment serves.
type ClassInfo struct {
	School  string `json:"school"`
	Class   string `json:"class"`
	Teacher string `json:"teacher"`
}

// AppConfig holds runtime parameters set via CLI flags.
type AppConfig struct {
	BasePath         string        // URL prefix for sub-path deployments
	SecureCookies    bool          // Set Secure flag on cookies (disable for local dev)
	QuickPassPercent float64       // quick quiz pass mark
	FullPassPercent  float64       // full test pass mark
	AutoAdvance      time.Duration // quick quiz auto-advance delay, zero disables
	DefaultLanguage  string        // instruction language when the request names none
}

type userCtxKey struct{}

// ContextWithUser stores a user in the request context.
func ContextWithUser(ctx context.Context, u *User) context.Context {
	return context.WithValue(ctx, userCtxKey{}, u)
}

// UserFromContext retrieves the authenticated user from context, or nil.
func UserFromContext(ctx context.Context) *User {
	u, _ := ctx.Value(userCtxKey{}).(*User)
	return u
}

type basePathCtxKey struct{}

// ContextWithBasePath stores the base path prefix in context.
func ContextWithBasePath(ctx context.Context, basePath string) context.Context {
	return context.WithValue(ctx, basePathCtxKey{}, basePath)
}

// BasePathFromContext retrieves the base path from context (empty string if not set).
func BasePathFromContext(ctx context.Context) string {
	bp, _ := ctx.Value(basePathCtxKey{}).(string)
	return bp
}

type csrfCtxKey struct{}

// ContextWithCSRFToken stores the CSRF token in context.
func ContextWithCSRFToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, csrfCtxKey{}, token)
}

// CSRFTokenFromContext retrieves the CSRF token from context.
func CSRFTokenFromContext(ctx context.Context) string {
	t, _ := ctx.Value(csrfCtxKey{}).(string)
	return t
}
