package progress

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/pavelanni/phonics/internal/curriculum"
	"github.com/pavelanni/phonics/internal/model"
	"github.com/pavelanni/phonics/internal/quiz"
)

func result(correct, total int) quiz.Result {
	at := time.Date(2026, 4, 1, 9, 30, 0, 0, time.UTC)
	r := quiz.Result{Correct: correct, Total: total, SubmittedAt: at, WrongAnswers: []quiz.WrongAnswer{}}
	for i := correct; i < total; i++ {
		r.WrongAnswers = append(r.WrongAnswers, quiz.WrongAnswer{
			Question: "q", WrongAnswer: "w", CorrectAnswer: "c", At: at,
		})
	}
	return r
}

func TestPolicyPassed(t *testing.T) {
	tests := []struct {
		name   string
		policy Policy
		r      quiz.Result
		want   bool
	}{
		{"full at mark", FullTestPolicy, result(70, 100), true},
		{"full below mark", FullTestPolicy, result(69, 100), false},
		{"quick at mark", QuickQuizPolicy, result(5, 10), true},
		{"quick below mark", QuickQuizPolicy, result(4, 10), false},
		{"empty result", QuickQuizPolicy, quiz.Result{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, tt.policy.Passed(tt.r))
		})
	}
}

func TestApplyFullTest(t *testing.T) {
	tests := []struct {
		name         string
		maxLevel     int
		level        curriculum.Level
		r            quiz.Result
		wantPassed   bool
		wantUnlocked int
	}{
		{"pass at top level unlocks next", 3, curriculum.LevelBlending, result(75, 100), true, 4},
		{"pass below top level", 5, curriculum.LevelBlending, result(90, 100), true, 0},
		{"pass at last level", 8, curriculum.LevelParagraphs, result(100, 100), true, 0},
		{"fail at top level", 3, curriculum.LevelBlending, result(50, 100), false, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := &model.Learner{MaxLevel: tt.maxLevel}
			out := ApplyFullTest(l, tt.level, tt.r, FullTestPolicy)
			require.Equal(t, tt.wantPassed, out.Passed)
			require.Equal(t, tt.wantUnlocked, out.Unlocked)

			require.NotNil(t, out.Update.TestScore)
			require.Equal(t, int(tt.level), out.Update.TestScore.Level)
			require.Equal(t, tt.r.Correct, out.Update.TestScore.Correct)
			require.Equal(t, tt.wantPassed, out.Update.TestScore.Passed)
			require.Len(t, out.Update.WrongAnswers, tt.r.Total-tt.r.Correct)
			for _, w := range out.Update.WrongAnswers {
				require.Equal(t, int(tt.level), w.Level)
			}
			if tt.wantUnlocked == 0 {
				require.Nil(t, out.Update.MaxLevel)
			} else {
				require.Equal(t, tt.wantUnlocked, *out.Update.MaxLevel)
			}
		})
	}
}

func TestApplyQuickQuiz(t *testing.T) {
	tests := []struct {
		name         string
		maxLevel     int
		level        curriculum.Level
		r            quiz.Result
		wantUnlocked int
	}{
		{"pass unlocks next", 1, curriculum.LevelAlphabet, result(5, 10), 2},
		{"pass below max keeps max", 6, curriculum.LevelBlending, result(10, 10), 0},
		{"pass at last level", 8, curriculum.LevelParagraphs, result(10, 10), 0},
		{"fail", 1, curriculum.LevelAlphabet, result(4, 10), 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := ApplyQuickQuiz(&model.Learner{MaxLevel: tt.maxLevel}, tt.level, tt.r, QuickQuizPolicy)
			require.Equal(t, tt.wantUnlocked, out.Unlocked)
			require.Nil(t, out.Update.TestScore)
			if tt.wantUnlocked == 0 {
				require.True(t, out.Update.Empty())
			} else {
				require.Equal(t, tt.wantUnlocked, *out.Update.MaxLevel)
			}
		})
	}
}

func TestApplyGameScore(t *testing.T) {
	at := time.Now()
	l := &model.Learner{GameScores: []model.GameScore{{Game: "memory-match", Score: 70}}}

	_, ok := ApplyGameScore(l, "memory-match", 70, at)
	require.False(t, ok)
	_, ok = ApplyGameScore(l, "memory-match", 65, at)
	require.False(t, ok)

	upd, ok := ApplyGameScore(l, "memory-match", 71, at)
	require.True(t, ok)
	require.Equal(t, 71, upd.GameScore.Score)

	upd, ok = ApplyGameScore(l, "speed-quiz", 15, at)
	require.True(t, ok)
	require.Equal(t, "speed-quiz", upd.GameScore.Game)
}
