package games

import (
	"math/rand/v2"
	"slices"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/pavelanni/phonics/internal/curriculum"
)

func letters(tiles []Tile) string {
	var sb strings.Builder
	for _, t := range tiles {
		sb.WriteString(t.Letter)
	}
	return sb.String()
}

// spell picks tray tiles that spell word in order.
func spell(t *testing.T, g *BuilderGame, word string) {
	t.Helper()
	for _, l := range strings.Split(word, "") {
		st := g.State()
		i := slices.IndexFunc(st.Tray, func(tile Tile) bool { return tile.Letter == l })
		require.GreaterOrEqual(t, i, 0, "letter %q missing from tray", l)
		require.NoError(t, g.Pick(st.Tray[i].ID))
	}
}

func TestBuilderDeal(t *testing.T) {
	g := NewBuilderGame(rand.New(rand.NewPCG(9, 4)))
	require.NotEmpty(t, g.ID())
	word, err := g.Word()
	require.NoError(t, err)
	require.True(t, slices.Contains(curriculum.AllCVCWords(), word), word)

	st := g.State()
	require.Equal(t, RoundWords, st.Total)
	require.Len(t, st.Tray, len(word)+ExtraLetters)
	require.Empty(t, st.Built)

	ids := map[string]bool{}
	for _, tile := range st.Tray {
		require.False(t, ids[tile.ID])
		ids[tile.ID] = true
	}
	tray := letters(st.Tray)
	for _, l := range strings.Split(word, "") {
		require.Contains(t, tray, l)
	}
}

func TestBuilderPickRemoveClear(t *testing.T) {
	g := NewBuilderGame(rand.New(rand.NewPCG(2, 8)))
	st := g.State()
	first, second := st.Tray[0], st.Tray[1]

	require.NoError(t, g.Pick(first.ID))
	require.NoError(t, g.Pick(second.ID))
	require.ErrorIs(t, g.Pick(first.ID), ErrTileUnavailable)

	st = g.State()
	require.Equal(t, []Tile{first, second}, st.Built)
	require.Len(t, st.Tray, len(g.words[0])+ExtraLetters-2)

	require.NoError(t, g.Remove(first.ID))
	require.ErrorIs(t, g.Remove(first.ID), ErrTileUnavailable)
	st = g.State()
	require.Equal(t, []Tile{second}, st.Built)
	require.Equal(t, first, st.Tray[len(st.Tray)-1])

	require.NoError(t, g.Clear())
	st = g.State()
	require.Empty(t, st.Built)
	require.Len(t, st.Tray, len(g.words[0])+ExtraLetters)

	_, err := g.Check()
	require.ErrorIs(t, err, ErrEmptyAnswer)
}

func TestBuilderGamePlaysThrough(t *testing.T) {
	g := NewBuilderGame(rand.New(rand.NewPCG(5, 5)))
	for i := range RoundWords {
		word, err := g.Word()
		require.NoError(t, err)
		if i < 7 {
			spell(t, g, word)
		} else {
			spell(t, g, word[:2])
		}
		a, err := g.Check()
		require.NoError(t, err)
		require.Equal(t, word, a.Word)
		require.Equal(t, i < 7, a.Correct, "word %q answered %q", word, a.Answer)
	}

	st := g.State()
	require.True(t, st.Finished)
	require.Empty(t, st.Tray)
	require.Len(t, st.Attempts, RoundWords)
	require.Equal(t, 7*WordPoints, g.Score())

	_, err := g.Check()
	require.ErrorIs(t, err, ErrGameFinished)
	require.ErrorIs(t, g.Clear(), ErrGameFinished)
	_, err = g.Word()
	require.ErrorIs(t, err, ErrGameFinished)
}
