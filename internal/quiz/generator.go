package quiz

import (
	"log/slog"
	"maps"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/pavelanni/phonics/internal/curriculum"
)

// Preset sizes.
const (
	QuickQuizSize  = 10
	FullTestSize   = 100
	SpeedRoundSize = 15
)

// Generator builds question sets. It is safe for concurrent use.
type Generator struct {
	mu         sync.Mutex
	rng        *rand.Rand
	phrases    Phrasebook
	strategies map[curriculum.Level]Strategy
}

// Option configures a Generator.
type Option func(*Generator)

// WithRand sets the random source, mostly for reproducible tests.
func WithRand(r *rand.Rand) Option {
	return func(g *Generator) { g.rng = r }
}

// WithPhrasebook sets the prompt renderer.
func WithPhrasebook(p Phrasebook) Option {
	return func(g *Generator) { g.phrases = p }
}

// WithStrategy registers or replaces the strategy for a level.
func WithStrategy(level curriculum.Level, s Strategy) Option {
	return func(g *Generator) { g.strategies[level] = s }
}

// NewGenerator returns a generator with the built-in level strategies.
func NewGenerator(opts ...Option) *Generator {
	g := &Generator{
		rng:        rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), rand.Uint64())),
		phrases:    EnglishPhrases,
		strategies: maps.Clone(defaultStrategies),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Generate returns exactly count questions for level in lang.
//
// The level's natural pool is built in a fixed kind order. A larger pool is
// sampled evenly across its length so every kind keeps its share; a smaller
// pool is repeated cyclically. Levels without a strategy use the letter-sound
// fallback.
func (g *Generator) Generate(level curriculum.Level, lang curriculum.Language, count int) ([]Question, error) {
	if count <= 0 {
		return nil, ErrInvalidCount
	}
	if !lang.Valid() {
		return nil, ErrUnknownLanguage
	}
	strategy, ok := g.strategies[level]
	if !ok {
		slog.Debug("no strategy for level, using fallback", "level", int(level))
		strategy = fallbackStrategy
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	pool := g.pool(strategy, lang)
	if len(pool) == 0 {
		pool = g.pool(fallbackStrategy, lang)
	}
	shuffleRuns(g.rng, pool)
	return g.assemble(pool, count, true), nil
}

// SpeedQuestions returns the question set for a speed round at level.
func (g *Generator) SpeedQuestions(level curriculum.Level, lang curriculum.Language) ([]Question, error) {
	if !lang.Valid() {
		return nil, ErrUnknownLanguage
	}
	g.mu.Lock()
	defer g.mu.Unlock()

	pool := g.pool(speedStrategy(level), lang)
	Shuffle(g.rng, pool)
	return g.assemble(pool, SpeedRoundSize, false), nil
}

func (g *Generator) pool(s Strategy, lang curriculum.Language) []Question {
	b := &Builder{rng: g.rng, lang: lang, phrases: g.phrases}
	s(b)
	return b.out
}

// assemble picks or repeats pool entries to reach count, then shuffles and
// renumbers them.
func (g *Generator) assemble(pool []Question, count int, spread bool) []Question {
	p := len(pool)
	out := make([]Question, 0, count)
	switch {
	case p >= count && spread:
		for i := range count {
			out = append(out, pool[i*p/count].clone())
		}
	case p >= count:
		for i := range count {
			out = append(out, pool[i].clone())
		}
	default:
		for i := range count {
			q := pool[i%p].clone()
			if i >= p {
				Shuffle(g.rng, q.Options)
			}
			out = append(out, q)
		}
	}
	Shuffle(g.rng, out)
	for i := range out {
		out[i].ID = i
	}
	return out
}

// shuffleRuns shuffles each run of same-kind questions in place, keeping the
// runs themselves in order.
func shuffleRuns(r *rand.Rand, qs []Question) {
	start := 0
	for i := 1; i <= len(qs); i++ {
		if i == len(qs) || qs[i].Kind != qs[start].Kind {
			Shuffle(r, qs[start:i])
			start = i
		}
	}
}
