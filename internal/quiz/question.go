// Package quiz builds multiple-choice question sets from the curriculum and
// runs the learner through them.
package quiz

import (
	"errors"
	"slices"
)

// Kind tags what a question exercises.
type Kind string

const (
	KindLetterSound         Kind = "letter-sound"
	KindSoundLetter         Kind = "sound-letter"
	KindExample             Kind = "example"
	KindVowelConsonant      Kind = "vowel-consonant"
	KindBarakhadi           Kind = "barakhadi"
	KindReverse             Kind = "reverse"
	KindSyllable            Kind = "syllable"
	KindTrueFalse           Kind = "true-false"
	KindBlendMeaning        Kind = "blend-meaning"
	KindBlendWord           Kind = "blend-word"
	KindStartsWith          Kind = "starts-with"
	KindWordFamily          Kind = "word-family"
	KindFamilyWord          Kind = "family-word"
	KindSightMeaning        Kind = "sight-meaning"
	KindMeaningSight        Kind = "meaning-sight"
	KindIdentification      Kind = "identification"
	KindGrammarMeaning      Kind = "grammar-meaning"
	KindMeaningGrammar      Kind = "meaning-grammar"
	KindUsage               Kind = "usage"
	KindFirstWord           Kind = "first-word"
	KindLastWord            Kind = "last-word"
	KindWordCount           Kind = "word-count"
	KindCompletion          Kind = "completion"
	KindReadingCheck        Kind = "reading-check"
	KindWordOrder           Kind = "word-order"
	KindParagraphCompletion Kind = "paragraph-completion"
	KindDefault             Kind = "default"
)

// Question is a single multiple-choice item. Options holds Answer exactly once.
type Question struct {
	ID      int      `json:"id"`
	Prompt  string   `json:"prompt"`
	Answer  string   `json:"answer"`
	Options []string `json:"options"`
	Kind    Kind     `json:"kind"`
}

// Validate checks the option invariants.
func (q Question) Validate() error {
	if len(q.Options) == 0 {
		return errors.New("question has no options")
	}
	seen := make(map[string]bool, len(q.Options))
	found := 0
	for _, o := range q.Options {
		if seen[o] {
			return errors.New("duplicate option " + o)
		}
		seen[o] = true
		if o == q.Answer {
			found++
		}
	}
	if found != 1 {
		return errors.New("answer " + q.Answer + " missing from options")
	}
	return nil
}

func (q Question) clone() Question {
	q.Options = slices.Clone(q.Options)
	return q
}

// View is a question without its answer, safe to send to the learner.
type View struct {
	ID      int      `json:"id"`
	Prompt  string   `json:"prompt"`
	Options []string `json:"options"`
	Kind    Kind     `json:"kind"`
}

// View hides the answer.
func (q Question) View() View {
	return View{ID: q.ID, Prompt: q.Prompt, Options: slices.Clone(q.Options), Kind: q.Kind}
}
