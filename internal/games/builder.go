package games

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/pavelanni/phonics/internal/quiz"
)

// ExtraLetters is how many decoy letters join a word's own letters.
const ExtraLetters = 3

const decoyLetters = "bcdfghlmnprstvw"

var ErrTileUnavailable = errors.New("tile cannot be moved")

// Tile is one letter the learner can place. Equal letters have distinct ids.
type Tile struct {
	ID     string `json:"id"`
	Letter string `json:"letter"`
}

// BuilderGame is a word builder: the learner hears a CVC word and assembles
// it from its shuffled letters plus a few decoys.
type BuilderGame struct {
	mu       sync.Mutex
	id       string
	rng      *rand.Rand
	words    []string
	attempts []WordAttempt
	score    int
	tray     []Tile
	built    []Tile
}

// NewBuilderGame picks RoundWords CVC words and deals the first one.
func NewBuilderGame(r *rand.Rand) *BuilderGame {
	g := &BuilderGame{id: uuid.NewString(), rng: r, words: pickWords(r, cvcPairs())}
	g.deal()
	return g
}

// ID is the game's unique identifier.
func (g *BuilderGame) ID() string { return g.id }

// deal fills the tray for the current word.
func (g *BuilderGame) deal() {
	g.tray, g.built = nil, nil
	if g.finished() {
		return
	}
	for _, l := range strings.Split(g.words[len(g.attempts)], "") {
		g.tray = append(g.tray, Tile{ID: uuid.NewString(), Letter: l})
	}
	decoys := strings.Split(decoyLetters, "")
	quiz.Shuffle(g.rng, decoys)
	for _, l := range decoys[:ExtraLetters] {
		g.tray = append(g.tray, Tile{ID: uuid.NewString(), Letter: l})
	}
	quiz.Shuffle(g.rng, g.tray)
}

// Word returns the word being built, for the spoken hint.
func (g *BuilderGame) Word() (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.finished() {
		return "", ErrGameFinished
	}
	return g.words[len(g.attempts)], nil
}

// Pick moves a tile from the tray to the end of the word.
func (g *BuilderGame) Pick(tileID string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.finished() {
		return ErrGameFinished
	}
	i := tileIndex(g.tray, tileID)
	if i < 0 {
		return fmt.Errorf("%w: %q", ErrTileUnavailable, tileID)
	}
	g.built = append(g.built, g.tray[i])
	g.tray = append(g.tray[:i], g.tray[i+1:]...)
	return nil
}

// Remove puts a placed tile back at the end of the tray.
func (g *BuilderGame) Remove(tileID string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.finished() {
		return ErrGameFinished
	}
	i := tileIndex(g.built, tileID)
	if i < 0 {
		return fmt.Errorf("%w: %q", ErrTileUnavailable, tileID)
	}
	g.tray = append(g.tray, g.built[i])
	g.built = append(g.built[:i], g.built[i+1:]...)
	return nil
}

// Clear returns every placed tile to the tray.
func (g *BuilderGame) Clear() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.finished() {
		return ErrGameFinished
	}
	g.tray = append(g.tray, g.built...)
	g.built = nil
	return nil
}

// Check compares the placed letters with the word and deals the next one.
func (g *BuilderGame) Check() (WordAttempt, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.finished() {
		return WordAttempt{}, ErrGameFinished
	}
	if len(g.built) == 0 {
		return WordAttempt{}, ErrEmptyAnswer
	}
	var sb strings.Builder
	for _, t := range g.built {
		sb.WriteString(t.Letter)
	}
	word := g.words[len(g.attempts)]
	a := WordAttempt{Word: word, Answer: sb.String(), Correct: strings.EqualFold(sb.String(), word)}
	if a.Correct {
		g.score += WordPoints
	}
	g.attempts = append(g.attempts, a)
	g.deal()
	return a, nil
}

// Score is WordPoints for every correct word so far.
func (g *BuilderGame) Score() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.score
}

// BuilderState is the learner-visible game.
type BuilderState struct {
	ID       string        `json:"id"`
	Current  int           `json:"current"`
	Total    int           `json:"total"`
	Score    int           `json:"score"`
	Finished bool          `json:"finished"`
	Tray     []Tile        `json:"tray"`
	Built    []Tile        `json:"built"`
	Attempts []WordAttempt `json:"attempts"`
}

func (g *BuilderGame) State() BuilderState {
	g.mu.Lock()
	defer g.mu.Unlock()
	return BuilderState{
		ID:       g.id,
		Current:  len(g.attempts),
		Total:    len(g.words),
		Score:    g.score,
		Finished: g.finished(),
		Tray:     append([]Tile{}, g.tray...),
		Built:    append([]Tile{}, g.built...),
		Attempts: append([]WordAttempt(nil), g.attempts...),
	}
}

func (g *BuilderGame) finished() bool {
	return len(g.attempts) >= len(g.words)
}

func tileIndex(tiles []Tile, id string) int {
	for i, t := range tiles {
		if t.ID == id {
			return i
		}
	}
	return -1
}
