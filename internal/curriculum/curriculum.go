// Package curriculum holds the static phonics content: letters, barakhadi,
// blends, word families, sight words, grammar words, sentences and paragraphs.
// Every table is loaded at process start and never mutated.
package curriculum

import (
	"fmt"
	"strings"
)

// Language is the medium of instruction used for localized meanings.
type Language string

const (
	Gujarati Language = "gujarati"
	Hindi    Language = "hindi"
)

// Languages lists the supported instruction languages.
var Languages = []Language{Gujarati, Hindi}

// ParseLanguage accepts a language name or its BCP-47 tag.
func ParseLanguage(s string) (Language, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "gujarati", "gu", "gu-in":
		return Gujarati, nil
	case "hindi", "hi", "hi-in":
		return Hindi, nil
	}
	return "", fmt.Errorf("unknown language %q", s)
}

// Valid reports whether l is one of the supported languages.
func (l Language) Valid() bool {
	return l == Gujarati || l == Hindi
}

// Tag returns the BCP-47 tag for the language.
func (l Language) Tag() string {
	if l == Hindi {
		return "hi"
	}
	return "gu"
}

// SpeechTag returns the regional tag used for speech synthesis.
func (l Language) SpeechTag() string {
	if l == Hindi {
		return "hi-IN"
	}
	return "gu-IN"
}

// Localized carries the Gujarati and Hindi renderings of an English item.
type Localized struct {
	Gujarati string `json:"gujarati"`
	Hindi    string `json:"hindi"`
}

// In returns the rendering for lang. Unknown languages get Gujarati.
func (l Localized) In(lang Language) string {
	if lang == Hindi {
		return l.Hindi
	}
	return l.Gujarati
}

// Level is a curriculum stage.
type Level int

const (
	LevelAlphabet Level = iota + 1
	LevelBarakhadi
	LevelBlending
	LevelCVC
	LevelSightWords
	LevelGrammar
	LevelSentences
	LevelParagraphs
)

// MaxLevel is the last curriculum stage.
const MaxLevel = LevelParagraphs

// LevelInfo describes a level for menus and reports.
type LevelInfo struct {
	ID   Level  `json:"id"`
	Name string `json:"name"`
}

var Levels = []LevelInfo{
	{LevelAlphabet, "Alphabet Sounds"},
	{LevelBarakhadi, "Barakhadi"},
	{LevelBlending, "2-Letter Blending"},
	{LevelCVC, "CVC Words"},
	{LevelSightWords, "Sight Words"},
	{LevelGrammar, "Grammar"},
	{LevelSentences, "Sentences"},
	{LevelParagraphs, "Paragraphs"},
}

// Valid reports whether l is within 1..MaxLevel.
func (l Level) Valid() bool {
	return l >= LevelAlphabet && l <= MaxLevel
}

// String returns the level name, or "Level N" outside the curriculum.
func (l Level) String() string {
	if l.Valid() {
		return Levels[l-1].Name
	}
	return fmt.Sprintf("Level %d", int(l))
}

// Standards are the school grades a learner can be enrolled in.
var Standards = []string{
	"Nursery", "LKG", "UKG",
	"1st", "2nd", "3rd", "4th", "5th",
	"6th", "7th", "8th", "9th", "10th",
	"11th", "12th",
}

// ValidStandard reports whether s is a known standard. Empty is allowed.
func ValidStandard(s string) bool {
	if s == "" {
		return true
	}
	for _, std := range Standards {
		if std == s {
			return true
		}
	}
	return false
}
