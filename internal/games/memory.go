// Package games implements the learner mini-games that sit beside quizzes.
package games

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/pavelanni/phonics/internal/curriculum"
	"github.com/pavelanni/phonics/internal/quiz"
)

// Names used when recording high scores.
const (
	MemoryMatch = "memory-match"
	SpeedQuiz   = "speed-quiz"
	SpellingBee = "spelling-bee"
	WordBuilder = "word-builder"
)

// Title turns a game name such as "memory-match" into "Memory Match".
func Title(game string) string {
	return cases.Title(language.English).String(strings.ReplaceAll(game, "-", " "))
}

const (
	// MemoryPairs is the number of pairs on a board.
	MemoryPairs = 8
	// ConcealDelay is how long a mismatched pair stays face up.
	ConcealDelay = time.Second
	// MinMemoryScore is the floor for a completed board.
	MinMemoryScore = 10
)

var (
	ErrBoardBusy       = errors.New("mismatched pair still showing")
	ErrCardUnavailable = errors.New("card cannot be flipped")
	ErrBoardFinished   = errors.New("board already solved")
)

// CardSide tells the word half of a pair from the meaning half.
type CardSide string

const (
	SideWord    CardSide = "word"
	SideMeaning CardSide = "meaning"
)

// Card is one tile on the board.
type Card struct {
	ID      string   `json:"id"`
	Content string   `json:"content"`
	Side    CardSide `json:"side"`
	FaceUp  bool     `json:"face_up"`
	Matched bool     `json:"matched"`

	meaning string
}

// FlipOutcome describes what a flip did to the board.
type FlipOutcome struct {
	Card     Card `json:"card"`
	Pair     bool `json:"pair"`     // second card of a move
	Match    bool `json:"match"`    // the pair matched
	Moves    int  `json:"moves"`    // moves so far
	Finished bool `json:"finished"` // every card matched
}

// MemoryBoard is a memory-match game for one learner.
type MemoryBoard struct {
	mu        sync.Mutex
	id        string
	cards     []Card
	up        []int
	moves     int
	matched   int
	busy      bool
	startedAt time.Time
	doneAt    time.Time
	now       func() time.Time
}

// MemoryOption configures a MemoryBoard.
type MemoryOption func(*MemoryBoard)

// WithMemoryClock replaces time.Now.
func WithMemoryClock(now func() time.Time) MemoryOption {
	return func(b *MemoryBoard) { b.now = now }
}

type memoryPair struct {
	word    string
	meaning string
}

// memoryPairs picks the content for a level: letters and their sounds for the
// first two levels, otherwise two words from each of the first CVC families
// with the family sound.
func memoryPairs(level curriculum.Level, lang curriculum.Language) []memoryPair {
	var pairs []memoryPair
	if level <= curriculum.LevelBarakhadi {
		for _, l := range curriculum.Letters[:MemoryPairs] {
			pairs = append(pairs, memoryPair{l.Letter, l.In(lang)})
		}
		return pairs
	}
	for _, f := range curriculum.CVCFamilies[:MemoryPairs/2] {
		for _, w := range f.Words[:2] {
			pairs = append(pairs, memoryPair{w, f.In(lang)})
		}
	}
	return pairs
}

// NewMemoryBoard deals a shuffled board of MemoryPairs pairs.
func NewMemoryBoard(level curriculum.Level, lang curriculum.Language, r *rand.Rand, opts ...MemoryOption) (*MemoryBoard, error) {
	if !lang.Valid() {
		return nil, fmt.Errorf("%w: %q", quiz.ErrUnknownLanguage, lang)
	}
	b := &MemoryBoard{id: uuid.NewString(), now: time.Now}
	for _, opt := range opts {
		opt(b)
	}
	for _, p := range memoryPairs(level, lang) {
		b.cards = append(b.cards,
			Card{ID: uuid.NewString(), Content: p.word, Side: SideWord, meaning: p.meaning},
			Card{ID: uuid.NewString(), Content: p.meaning, Side: SideMeaning, meaning: p.meaning},
		)
	}
	quiz.Shuffle(r, b.cards)
	b.startedAt = b.now()
	return b, nil
}

// ID is the board's unique identifier.
func (b *MemoryBoard) ID() string { return b.id }

// Flip turns a card face up. The second flip of a move settles it: a match
// stays up, a mismatch stays up until Conceal.
func (b *MemoryBoard) Flip(cardID string) (FlipOutcome, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.finished() {
		return FlipOutcome{}, ErrBoardFinished
	}
	if b.busy {
		return FlipOutcome{}, ErrBoardBusy
	}
	i := b.index(cardID)
	if i < 0 || b.cards[i].FaceUp || b.cards[i].Matched {
		return FlipOutcome{}, fmt.Errorf("%w: %q", ErrCardUnavailable, cardID)
	}
	b.cards[i].FaceUp = true
	b.up = append(b.up, i)

	out := FlipOutcome{Card: b.cards[i]}
	if len(b.up) == 2 {
		out.Pair = true
		b.moves++
		first, second := &b.cards[b.up[0]], &b.cards[b.up[1]]
		if first.Side != second.Side && first.meaning == second.meaning {
			out.Match = true
			first.Matched, second.Matched = true, true
			b.matched += 2
			b.up = b.up[:0]
			if b.finished() {
				b.doneAt = b.now()
			}
		} else {
			b.busy = true
		}
	}
	out.Moves = b.moves
	out.Finished = b.finished()
	return out, nil
}

// Conceal turns a mismatched pair face down again. It does nothing when no
// mismatch is showing.
func (b *MemoryBoard) Conceal() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.busy {
		return
	}
	for _, i := range b.up {
		b.cards[i].FaceUp = false
	}
	b.up = b.up[:0]
	b.busy = false
}

// Score is max(100 - 2*moves - seconds/5, 10) for a solved board and zero
// otherwise.
func (b *MemoryBoard) Score() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.finished() {
		return 0
	}
	return MemoryScore(b.moves, b.doneAt.Sub(b.startedAt))
}

// MemoryScore scores a board solved in moves over elapsed.
func MemoryScore(moves int, elapsed time.Duration) int {
	return max(100-2*moves-int(elapsed/(5*time.Second)), MinMemoryScore)
}

// MemoryState is the learner-visible board. Face-down cards hide their content.
type MemoryState struct {
	ID       string `json:"id"`
	Cards    []Card `json:"cards"`
	Moves    int    `json:"moves"`
	Busy     bool   `json:"busy"`
	Finished bool   `json:"finished"`
	Score    int    `json:"score,omitempty"`
}

// State returns the current view.
func (b *MemoryBoard) State() MemoryState {
	b.mu.Lock()
	defer b.mu.Unlock()
	st := MemoryState{
		ID:       b.id,
		Cards:    make([]Card, len(b.cards)),
		Moves:    b.moves,
		Busy:     b.busy,
		Finished: b.finished(),
	}
	for i, c := range b.cards {
		if !c.FaceUp && !c.Matched {
			c.Content = ""
		}
		st.Cards[i] = c
	}
	if st.Finished {
		st.Score = MemoryScore(b.moves, b.doneAt.Sub(b.startedAt))
	}
	return st
}

func (b *MemoryBoard) finished() bool {
	return len(b.cards) > 0 && b.matched == len(b.cards)
}

func (b *MemoryBoard) index(id string) int {
	for i, c := range b.cards {
		if c.ID == id {
			return i
		}
	}
	return -1
}
