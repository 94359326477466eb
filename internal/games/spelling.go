package games

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/pavelanni/phonics/internal/curriculum"
	"github.com/pavelanni/phonics/internal/quiz"
)

const (
	// RoundWords is how many words a spelling bee or word builder game asks.
	RoundWords = 10
	// WordPoints is earned for each word spelled or built correctly.
	WordPoints = 10
)

var (
	ErrGameFinished = errors.New("game already finished")
	ErrEmptyAnswer  = errors.New("answer is empty")
	ErrInvalidLevel = errors.New("invalid level")
)

// Romanized sounds for the early levels, where the curriculum tables hold
// letters rather than spellable words.
var (
	barakhadiSpellings = []string{"ka", "kha", "ga", "gha", "cha", "ja", "ta", "da", "na", "pa"}
	blendSpellings     = []string{"am", "an", "at", "in", "it", "on", "up", "us", "if", "or"}
)

// SpellingPool returns the words a spelling bee may ask at level.
func SpellingPool(level curriculum.Level) []string {
	var words []string
	switch {
	case level == curriculum.LevelAlphabet:
		for _, l := range curriculum.Letters[:RoundWords] {
			words = append(words, l.Example)
		}
	case level == curriculum.LevelBarakhadi:
		words = append(words, barakhadiSpellings...)
	case level == curriculum.LevelBlending:
		words = append(words, blendSpellings...)
	case level == curriculum.LevelCVC:
		words = cvcPairs()
	case level == curriculum.LevelSightWords:
		words = sightWords(curriculum.SightWords[0].Words)
	case level == curriculum.LevelGrammar:
		words = sightWords(curriculum.SightWords[1].Words[:10])
	default:
		words = append(sightWords(curriculum.SightWords[2].Words), sightWords(curriculum.SightWords[1].Words[10:])...)
	}
	return words
}

// cvcPairs takes the first two words of every CVC family.
func cvcPairs() []string {
	var words []string
	for _, f := range curriculum.CVCFamilies {
		words = append(words, f.Words[:2]...)
	}
	return words
}

func sightWords(ws []curriculum.SightWord) []string {
	out := make([]string, len(ws))
	for i, w := range ws {
		out[i] = w.Word
	}
	return out
}

// pickWords shuffles pool and keeps at most RoundWords of it.
func pickWords(r *rand.Rand, pool []string) []string {
	quiz.Shuffle(r, pool)
	return pool[:min(len(pool), RoundWords)]
}

// WordAttempt is one answered word.
type WordAttempt struct {
	Word    string `json:"word"`
	Answer  string `json:"answer"`
	Correct bool   `json:"correct"`
}

// SpellingGame is a spelling bee: the learner hears a word and types it.
// Every word gets one attempt.
type SpellingGame struct {
	mu       sync.Mutex
	id       string
	words    []string
	attempts []WordAttempt
	score    int
}

// NewSpellingGame picks RoundWords words for level.
func NewSpellingGame(level curriculum.Level, r *rand.Rand) (*SpellingGame, error) {
	if !level.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidLevel, int(level))
	}
	return &SpellingGame{id: uuid.NewString(), words: pickWords(r, SpellingPool(level))}, nil
}

// ID is the game's unique identifier.
func (g *SpellingGame) ID() string { return g.id }

// Word returns the word to dictate.
func (g *SpellingGame) Word() (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.finished() {
		return "", ErrGameFinished
	}
	return g.words[len(g.attempts)], nil
}

// Answer checks typed against the current word, ignoring case and
// surrounding space, and moves on.
func (g *SpellingGame) Answer(typed string) (WordAttempt, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.finished() {
		return WordAttempt{}, ErrGameFinished
	}
	typed = strings.TrimSpace(typed)
	if typed == "" {
		return WordAttempt{}, ErrEmptyAnswer
	}
	word := g.words[len(g.attempts)]
	a := WordAttempt{Word: word, Answer: typed, Correct: strings.EqualFold(typed, word)}
	if a.Correct {
		g.score += WordPoints
	}
	g.attempts = append(g.attempts, a)
	return a, nil
}

// Score is WordPoints for every correct word so far.
func (g *SpellingGame) Score() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.score
}

// SpellingState is the learner-visible game. Words are only revealed once
// they have been answered.
type SpellingState struct {
	ID       string        `json:"id"`
	Current  int           `json:"current"`
	Total    int           `json:"total"`
	Score    int           `json:"score"`
	Finished bool          `json:"finished"`
	Attempts []WordAttempt `json:"attempts"`
}

func (g *SpellingGame) State() SpellingState {
	g.mu.Lock()
	defer g.mu.Unlock()
	return SpellingState{
		ID:       g.id,
		Current:  len(g.attempts),
		Total:    len(g.words),
		Score:    g.score,
		Finished: g.finished(),
		Attempts: append([]WordAttempt(nil), g.attempts...),
	}
}

func (g *SpellingGame) finished() bool {
	return len(g.attempts) >= len(g.words)
}
