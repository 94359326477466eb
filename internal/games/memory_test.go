package games

import (
	"math/rand/v2"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/pavelanni/phonics/internal/curriculum"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newTestBoard(t *testing.T, level curriculum.Level) (*MemoryBoard, *fakeClock) {
	t.Helper()
	clock := &fakeClock{now: time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)}
	b, err := NewMemoryBoard(level, curriculum.Gujarati, rand.New(rand.NewPCG(7, 11)), WithMemoryClock(clock.Now))
	require.NoError(t, err)
	return b, clock
}

// partners returns, for every word card, the id of a meaning card it matches,
// with each meaning card used once.
func partners(b *MemoryBoard) map[string]string {
	used := make(map[string]bool)
	out := make(map[string]string)
	for _, w := range b.cards {
		if w.Side != SideWord {
			continue
		}
		for _, m := range b.cards {
			if m.Side == SideMeaning && !used[m.ID] && m.meaning == w.meaning {
				used[m.ID] = true
				out[w.ID] = m.ID
				break
			}
		}
	}
	return out
}

func mismatchFor(b *MemoryBoard, wordID string) string {
	var meaning string
	for _, c := range b.cards {
		if c.ID == wordID {
			meaning = c.meaning
		}
	}
	for _, c := range b.cards {
		if c.Side == SideMeaning && c.meaning != meaning {
			return c.ID
		}
	}
	return ""
}

func TestNewMemoryBoardContent(t *testing.T) {
	tests := []struct {
		level     curriculum.Level
		wantWords []string
	}{
		{curriculum.LevelAlphabet, []string{"A", "B", "C", "D", "E", "F", "G", "H"}},
		{curriculum.LevelBarakhadi, []string{"A", "B", "C", "D", "E", "F", "G", "H"}},
		{curriculum.LevelCVC, []string{"cat", "bat", "man", "can", "bag", "rag", "ham", "jam"}},
	}
	for _, tt := range tests {
		t.Run(tt.level.String(), func(t *testing.T) {
			b, _ := newTestBoard(t, tt.level)
			require.Len(t, b.cards, 2*MemoryPairs)
			var words []string
			for _, c := range b.cards {
				if c.Side == SideWord {
					words = append(words, c.Content)
				}
			}
			require.ElementsMatch(t, tt.wantWords, words)
			require.Len(t, partners(b), MemoryPairs)
		})
	}
}

func TestNewMemoryBoardRejectsLanguage(t *testing.T) {
	_, err := NewMemoryBoard(curriculum.LevelAlphabet, curriculum.Language("tamil"), rand.New(rand.NewPCG(1, 1)))
	require.Error(t, err)
}

func TestMemoryCardIDsAreOpaque(t *testing.T) {
	b, _ := newTestBoard(t, curriculum.LevelCVC)
	seen := map[string]bool{}
	for _, c := range b.State().Cards {
		_, err := uuid.Parse(c.ID)
		require.NoError(t, err, "card id %q", c.ID)
		require.False(t, seen[c.ID], "duplicate card id %q", c.ID)
		seen[c.ID] = true
	}
}

func TestMemoryBoardSolve(t *testing.T) {
	b, clock := newTestBoard(t, curriculum.LevelCVC)
	pairs := partners(b)

	var last FlipOutcome
	for w, m := range pairs {
		clock.Advance(3 * time.Second)
		out, err := b.Flip(w)
		require.NoError(t, err)
		require.False(t, out.Pair)

		last, err = b.Flip(m)
		require.NoError(t, err)
		require.True(t, last.Pair)
		require.True(t, last.Match)
	}
	require.True(t, last.Finished)
	require.Equal(t, MemoryPairs, last.Moves)
	// 8 moves and 24 seconds: 100 - 16 - 4.
	require.Equal(t, 80, b.Score())

	_, err := b.Flip(b.cards[0].ID)
	require.ErrorIs(t, err, ErrBoardFinished)
}

func TestMemoryBoardMismatch(t *testing.T) {
	b, _ := newTestBoard(t, curriculum.LevelAlphabet)
	var word string
	for w := range partners(b) {
		word = w
		break
	}
	other := mismatchFor(b, word)

	_, err := b.Flip(word)
	require.NoError(t, err)
	out, err := b.Flip(other)
	require.NoError(t, err)
	require.True(t, out.Pair)
	require.False(t, out.Match)
	require.Equal(t, 1, out.Moves)

	st := b.State()
	require.True(t, st.Busy)

	_, err = b.Flip(partners(b)[word])
	require.ErrorIs(t, err, ErrBoardBusy)

	b.Conceal()
	st = b.State()
	require.False(t, st.Busy)
	for _, c := range st.Cards {
		require.False(t, c.FaceUp)
		require.Empty(t, c.Content, "face-down card %s leaks its content", c.ID)
	}

	// A second Conceal is harmless.
	b.Conceal()
	require.Zero(t, b.Score())
}

func TestMemoryBoardUnavailableCards(t *testing.T) {
	b, _ := newTestBoard(t, curriculum.LevelAlphabet)
	var word string
	for w := range partners(b) {
		word = w
		break
	}

	_, err := b.Flip("nope")
	require.ErrorIs(t, err, ErrCardUnavailable)

	_, err = b.Flip(word)
	require.NoError(t, err)
	_, err = b.Flip(word)
	require.ErrorIs(t, err, ErrCardUnavailable)

	_, err = b.Flip(partners(b)[word])
	require.NoError(t, err)
	_, err = b.Flip(word)
	require.ErrorIs(t, err, ErrCardUnavailable)
}

func TestMemoryScore(t *testing.T) {
	tests := []struct {
		moves   int
		elapsed time.Duration
		want    int
	}{
		{8, 0, 84},
		{8, 4 * time.Second, 84},
		{8, 5 * time.Second, 83},
		{10, 60 * time.Second, 68},
		{40, 0, 20},
		{60, 10 * time.Minute, MinMemoryScore},
	}
	for _, tt := range tests {
		require.Equal(t, tt.want, MemoryScore(tt.moves, tt.elapsed), "moves %d elapsed %v", tt.moves, tt.elapsed)
	}
}
