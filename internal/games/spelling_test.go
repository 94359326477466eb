package games

import (
	"math/rand/v2"
	"slices"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/pavelanni/phonics/internal/curriculum"
)

func TestSpellingPool(t *testing.T) {
	tests := []struct {
		level curriculum.Level
		want  []string
		size  int
	}{
		{curriculum.LevelAlphabet, []string{"apple", "jug"}, 10},
		{curriculum.LevelBarakhadi, []string{"ka", "pa"}, 10},
		{curriculum.LevelBlending, []string{"am", "or"}, 10},
		{curriculum.LevelCVC, []string{"cat", "bat", "cut", "hut"}, 2 * len(curriculum.CVCFamilies)},
		{curriculum.LevelSightWords, []string{"the", "to"}, 12},
		{curriculum.LevelGrammar, []string{"they", "from"}, 10},
		{curriculum.LevelSentences, []string{"what", "why", "of", "can"}, 15},
		{curriculum.LevelParagraphs, []string{"who"}, 15},
	}
	for _, tt := range tests {
		t.Run(tt.level.String(), func(t *testing.T) {
			pool := SpellingPool(tt.level)
			require.Len(t, pool, tt.size)
			for _, w := range tt.want {
				require.Contains(t, pool, w)
			}
		})
	}
}

func TestSpellingGame(t *testing.T) {
	g, err := NewSpellingGame(curriculum.LevelCVC, rand.New(rand.NewPCG(3, 5)))
	require.NoError(t, err)
	require.NotEmpty(t, g.ID())

	st := g.State()
	require.Equal(t, RoundWords, st.Total)
	require.Zero(t, st.Current)
	require.Empty(t, st.Attempts)

	_, err = g.Answer("   ")
	require.ErrorIs(t, err, ErrEmptyAnswer)

	seen := map[string]bool{}
	for i := range RoundWords {
		word, err := g.Word()
		require.NoError(t, err)
		require.True(t, slices.Contains(curriculum.AllCVCWords(), word), word)
		require.False(t, seen[word], "word %q asked twice", word)
		seen[word] = true

		answer := " " + strings.ToUpper(word) + " "
		if i%2 == 1 {
			answer = word + "x"
		}
		a, err := g.Answer(answer)
		require.NoError(t, err)
		require.Equal(t, word, a.Word)
		require.Equal(t, i%2 == 0, a.Correct)
	}

	st = g.State()
	require.True(t, st.Finished)
	require.Len(t, st.Attempts, RoundWords)
	require.Equal(t, RoundWords/2*WordPoints, st.Score)
	require.Equal(t, st.Score, g.Score())

	_, err = g.Word()
	require.ErrorIs(t, err, ErrGameFinished)
	_, err = g.Answer("cat")
	require.ErrorIs(t, err, ErrGameFinished)
}

func TestSpellingGameIgnoresCaseForI(t *testing.T) {
	g, err := NewSpellingGame(curriculum.LevelSightWords, rand.New(rand.NewPCG(1, 2)))
	require.NoError(t, err)
	for range RoundWords {
		word, err := g.Word()
		require.NoError(t, err)
		a, err := g.Answer(strings.ToLower(word))
		require.NoError(t, err)
		require.True(t, a.Correct, word)
	}
	require.Equal(t, RoundWords*WordPoints, g.Score())
}

func TestNewSpellingGameRejectsLevel(t *testing.T) {
	_, err := NewSpellingGame(curriculum.Level(0), rand.New(rand.NewPCG(1, 1)))
	require.ErrorIs(t, err, ErrInvalidLevel)
}
