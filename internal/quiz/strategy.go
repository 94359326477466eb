package quiz

import (
	"math/rand/v2"

	"github.com/pavelanni/phonics/internal/curriculum"
)

// Strategy appends the natural question pool of one level to b.
// Questions must be added grouped by kind.
type Strategy func(b *Builder)

// Builder collects the questions produced by a Strategy.
type Builder struct {
	rng     *rand.Rand
	lang    curriculum.Language
	phrases Phrasebook
	out     []Question
}

// Lang is the language the pool is built for.
func (b *Builder) Lang() curriculum.Language { return b.lang }

// Phrase renders a phrase in the builder's language.
func (b *Builder) Phrase(id string, data map[string]any) string {
	return b.phrases.Phrase(b.lang, id, data)
}

// Choice adds a question whose distractors are drawn from pool.
func (b *Builder) Choice(kind Kind, prompt, answer string, pool []string) {
	b.add(kind, prompt, answer, BuildOptions(b.rng, answer, pool, DefaultDistractors))
}

// Fixed adds a question with a closed, ordered option list.
func (b *Builder) Fixed(kind Kind, prompt, answer string, options ...string) {
	b.add(kind, prompt, answer, options)
}

// Shuffled adds a question with a closed option list in random order.
func (b *Builder) Shuffled(kind Kind, prompt, answer string, options ...string) {
	Shuffle(b.rng, options)
	b.add(kind, prompt, answer, options)
}

// TrueFalse adds a True/False question.
func (b *Builder) TrueFalse(prompt string, truth bool) {
	t, f := b.Phrase(OptionTrue, nil), b.Phrase(OptionFalse, nil)
	answer := f
	if truth {
		answer = t
	}
	b.Fixed(KindTrueFalse, prompt, answer, t, f)
}

// Len is the number of questions collected so far.
func (b *Builder) Len() int { return len(b.out) }

func (b *Builder) add(kind Kind, prompt, answer string, options []string) {
	b.out = append(b.out, Question{
		ID:      len(b.out),
		Prompt:  prompt,
		Answer:  answer,
		Options: options,
		Kind:    kind,
	})
}

var defaultStrategies = map[curriculum.Level]Strategy{
	curriculum.LevelAlphabet:   alphabetStrategy,
	curriculum.LevelBarakhadi:  barakhadiStrategy,
	curriculum.LevelBlending:   blendingStrategy,
	curriculum.LevelCVC:        cvcStrategy,
	curriculum.LevelSightWords: sightWordStrategy,
	curriculum.LevelGrammar:    grammarStrategy,
	curriculum.LevelSentences:  sentenceStrategy,
	curriculum.LevelParagraphs: paragraphStrategy,
}

// speedStrategy picks the pool used by speed rounds.
func speedStrategy(level curriculum.Level) Strategy {
	switch {
	case level <= curriculum.LevelBarakhadi:
		return fallbackStrategy
	case level <= curriculum.LevelCVC:
		return wordFamilyEndings
	default:
		return grammarMeanings
	}
}
