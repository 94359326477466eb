package report

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/pavelanni/phonics/internal/curriculum"
	"github.com/pavelanni/phonics/internal/model"
)

var testClass = model.ClassInfo{School: "Sunrise Tuition Classes", Class: "Evening batch", Teacher: "Mrs. Patel"}

func fixedClock() time.Time { return time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC) }

func sampleLearner() *model.Learner {
	at := fixedClock()
	l := &model.Learner{
		User:     model.User{ID: 7, Username: "riya", DisplayName: "Riya Shah", Standard: "2nd", CreatedAt: at},
		Stars:    42,
		MaxLevel: 4,
		TestScores: []model.TestScore{
			{Level: 3, Correct: 71, Total: 100, Passed: true, TakenAt: at},
			{Level: 1, Correct: 95, Total: 100, Passed: true, TakenAt: at},
		},
		GameScores: []model.GameScore{{Game: "memory-match", Score: 80, PlayedAt: at}},
	}
	for i := range 7 {
		l.WrongAnswers = append(l.WrongAnswers, model.WrongAnswer{
			Level: 3, Question: fmt.Sprintf("Which word belongs to -at family? #%d", i),
			WrongAnswer: "dog", CorrectAnswer: "cat", At: at,
		})
	}
	l.WrongAnswers = append(l.WrongAnswers, model.WrongAnswer{Level: 1, Question: "What is B?", WrongAnswer: "Vowel", CorrectAnswer: "Consonant"})
	return l
}

func requirePDF(t *testing.T, buf *bytes.Buffer) {
	t.Helper()
	require.True(t, strings.HasPrefix(buf.String(), "%PDF-"), "output is not a PDF")
	require.Contains(t, buf.String(), "%%EOF")
}

func TestGrade(t *testing.T) {
	tests := []struct {
		pct  float64
		want string
	}{
		{100, "A+"}, {90, "A+"}, {89.9, "A"}, {80, "A"}, {70, "B"},
		{69.5, "C"}, {60, "C"}, {59.9, "D"}, {0, "D"},
	}
	for _, tt := range tests {
		require.Equal(t, tt.want, Grade(tt.pct), "Grade(%v)", tt.pct)
	}
}

func TestLearnerReport(t *testing.T) {
	var buf bytes.Buffer
	r := New(testClass, WithClock(fixedClock))
	require.NoError(t, r.LearnerReport(&buf, sampleLearner()))
	requirePDF(t, &buf)
}

func TestLearnerReportEmptyProgress(t *testing.T) {
	var buf bytes.Buffer
	l := &model.Learner{User: model.User{DisplayName: "નવો વિદ્યાર્થી"}, MaxLevel: 1}
	require.NoError(t, New(testClass).LearnerReport(&buf, l))
	requirePDF(t, &buf)
}

func TestMistakeRows(t *testing.T) {
	rows := mistakeRows(sampleLearner().WrongAnswers)
	require.Len(t, rows, 6)
	require.Equal(t, "Level 1", rows[0][0])
	for _, row := range rows[1:] {
		require.Equal(t, "Level 3", row[0])
		require.Equal(t, "Which word belongs to -at...", row[1])
	}
	require.Equal(t, "What is B?", rows[0][1])
}

func TestTruncate(t *testing.T) {
	require.Equal(t, "short", truncate("short", 15, "..."))
	require.Equal(t, "abc...", truncate("abcdef", 3, "..."))
	require.Equal(t, "બિલ", truncate("બિલાડી", 3, ""))
}

func TestClassReport(t *testing.T) {
	learners := []model.Learner{*sampleLearner(), {User: model.User{DisplayName: "Aarav"}, MaxLevel: 8, Stars: 3}}
	var buf bytes.Buffer
	require.NoError(t, New(testClass, WithClock(fixedClock)).ClassReport(&buf, learners))
	requirePDF(t, &buf)

	buf.Reset()
	require.NoError(t, New(testClass).ClassReport(&buf, nil))
	requirePDF(t, &buf)
}

func TestStats(t *testing.T) {
	st := Stats([]model.Learner{{Stars: 10, MaxLevel: 8}, {Stars: 5, MaxLevel: 3}})
	require.Equal(t, ClassStats{Students: 2, Stars: 15, AvgLevel: 5.5, CompletedAll: 1}, st)
	require.Equal(t, ClassStats{}, Stats(nil))
}

func TestCertificate(t *testing.T) {
	var buf bytes.Buffer
	r := New(testClass, WithClock(fixedClock))
	require.NoError(t, r.Certificate(&buf, sampleLearner(), curriculum.LevelCVC))
	requirePDF(t, &buf)

	require.ErrorIs(t, r.Certificate(&bytes.Buffer{}, sampleLearner(), 9), ErrInvalidLevel)
}

func TestFilename(t *testing.T) {
	require.Equal(t, "Riya_Shah_Report.pdf", Filename("Riya  Shah", "Report"))
	require.Equal(t, "Riya_Certificate_Level4.pdf", Filename("Riya", "Certificate_Level4"))
}

func gujaratiLearner() *model.Learner {
	l := sampleLearner()
	l.DisplayName = "રિયા શાહ"
	l.WrongAnswers = append(l.WrongAnswers, model.WrongAnswer{
		Level: 2, Question: "'ક' નો અવાજ કયો છે?", WrongAnswer: "ગ", CorrectAnswer: "ક",
	})
	return l
}

func TestReportsUseUnicodeFonts(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, New(testClass, WithClock(fixedClock)).LearnerReport(&buf, gujaratiLearner()))
	requirePDF(t, &buf)
	require.Contains(t, buf.String(), "/BaseFont /utf8body")
	require.NotContains(t, buf.String(), "/BaseFont /Helvetica")
	require.NotContains(t, buf.String(), "utf8script")
}

func TestScriptFontForIndicText(t *testing.T) {
	r := New(testClass, WithClock(fixedClock), WithScriptFont(bodyFont()))

	var buf bytes.Buffer
	require.NoError(t, r.Certificate(&buf, gujaratiLearner(), curriculum.LevelBarakhadi))
	requirePDF(t, &buf)
	require.Contains(t, buf.String(), "/BaseFont /utf8script")
}

func TestDocSwitchesFace(t *testing.T) {
	d := New(testClass, WithScriptFont(bodyFont())).newDoc("P", false)
	d.AddPage()
	d.font("B", 12)
	require.Equal(t, "रिया", d.tr("रिया"))
	require.Equal(t, scriptFamily, d.family)
	require.Equal(t, "B", d.style)
	d.tr("Riya")
	require.Equal(t, bodyFamily, d.family)

	plain := New(testClass).newDoc("P", false)
	plain.AddPage()
	plain.font("", 10)
	plain.tr("રિયા")
	require.Equal(t, bodyFamily, plain.family)
}

func TestLoadFont(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "face.ttf")
	require.NoError(t, os.WriteFile(path, bodyFont().Regular, 0o600))

	f, err := LoadFont(path, "")
	require.NoError(t, err)
	require.NotEmpty(t, f.Regular)
	require.Nil(t, f.Bold)
	require.Equal(t, f.Regular, f.style("B"))

	_, err = LoadFont(filepath.Join(dir, "missing.ttf"), "")
	require.Error(t, err)
	_, err = LoadFont(path, filepath.Join(dir, "missing.ttf"))
	require.Error(t, err)
}
