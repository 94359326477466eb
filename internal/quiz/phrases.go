package quiz

import (
	"bytes"
	"log/slog"
	"sync"
	"text/template"

	"github.com/pavelanni/phonics/internal/curriculum"
)

// Phrase IDs double as translation message IDs.
const (
	PhraseLetterSound    = "QuizLetterSound"
	PhraseSoundLetter    = "QuizSoundLetter"
	PhraseStartsWord     = "QuizStartsWord"
	PhraseWhatIs         = "QuizWhatIs"
	PhraseBarakhadi      = "QuizBarakhadi"
	PhraseExampleOf      = "QuizExampleOf"
	PhraseEquals         = "QuizEquals"
	PhrasePairTrueFalse  = "QuizPairTrueFalse"
	PhraseSpelling       = "QuizSpelling"
	PhraseStartsWith     = "QuizStartsWith"
	PhraseEndsWith       = "QuizEndsWith"
	PhraseBelongsTo      = "QuizBelongsTo"
	PhraseFamilyWord     = "QuizFamilyWord"
	PhraseIsSightWord    = "QuizIsSightWord"
	PhraseMeans          = "QuizMeans"
	PhraseInEnglish      = "QuizInEnglish"
	PhraseUseCorrectly   = "QuizUseCorrectly"
	PhraseIsGrammarWord  = "QuizIsGrammarWord"
	PhraseFirstWord      = "QuizFirstWord"
	PhraseLastWord       = "QuizLastWord"
	PhraseWordCount      = "QuizWordCount"
	PhraseCorrectEnglish = "QuizCorrectEnglish"
	PhraseComplete       = "QuizComplete"
	PhraseReadAloud      = "QuizReadAloud"
	PhraseComesAfter     = "QuizComesAfter"

	OptionTrue         = "OptionTrue"
	OptionFalse        = "OptionFalse"
	OptionYes          = "OptionYes"
	OptionNo           = "OptionNo"
	OptionNeedPractice = "OptionNeedPractice"
	OptionVowel        = "OptionVowel"
	OptionConsonant    = "OptionConsonant"
)

// Phrasebook renders prompt and option text for a language.
type Phrasebook interface {
	Phrase(lang curriculum.Language, id string, data map[string]any) string
}

// EnglishPhrases renders every phrase with built-in English templates.
var EnglishPhrases Phrasebook = englishPhrasebook{}

var englishSources = map[string]string{
	PhraseLetterSound:    `What is the sound of "{{.Letter}}"?`,
	PhraseSoundLetter:    `"{{.Sound}}" is the sound of which letter?`,
	PhraseStartsWord:     `Which word starts with "{{.Letter}}"?`,
	PhraseWhatIs:         `What is "{{.Letter}}"?`,
	PhraseBarakhadi:      `"{{.Letter}}" + "a" = ?`,
	PhraseExampleOf:      `Example of "{{.Letter}}"?`,
	PhraseEquals:         `"{{.Value}}" = ?`,
	PhrasePairTrueFalse:  `"{{.Letter}}" = "{{.Sound}}" - True or False?`,
	PhraseSpelling:       `Which spelling matches "{{.Value}}"?`,
	PhraseStartsWith:     `"{{.Word}}" starts with?`,
	PhraseEndsWith:       `"{{.Word}}" ends with?`,
	PhraseBelongsTo:      `"{{.Word}}" belongs to -{{.Family}} family?`,
	PhraseFamilyWord:     `Which word belongs to -{{.Family}} family?`,
	PhraseIsSightWord:    `Is "{{.Word}}" a sight word?`,
	PhraseMeans:          `"{{.Word}}" means?`,
	PhraseInEnglish:      `"{{.Meaning}}" in English?`,
	PhraseUseCorrectly:   `Use "{{.Word}}" correctly:`,
	PhraseIsGrammarWord:  `"{{.Word}}" is a grammar word?`,
	PhraseFirstWord:      `First word of: "{{.Sentence}}"?`,
	PhraseLastWord:       `Last word of: "{{.Sentence}}"?`,
	PhraseWordCount:      `How many words in: "{{.Sentence}}"?`,
	PhraseCorrectEnglish: `"{{.Sentence}}" is correct English?`,
	PhraseComplete:       `Complete: "{{.Partial}}"`,
	PhraseReadAloud:      `Read aloud: "{{.Sentence}}" - Can you read this?`,
	PhraseComesAfter:     `Which word comes after "{{.Word}}" in: "{{.Sentence}}"?`,

	OptionTrue:         "True",
	OptionFalse:        "False",
	OptionYes:          "Yes",
	OptionNo:           "No",
	OptionNeedPractice: "Need Practice",
	OptionVowel:        "Vowel",
	OptionConsonant:    "Consonant",
}

var (
	englishOnce      sync.Once
	englishTemplates map[string]*template.Template
)

func loadEnglish() {
	englishTemplates = make(map[string]*template.Template, len(englishSources))
	for id, src := range englishSources {
		englishTemplates[id] = template.Must(template.New(id).Parse(src))
	}
}

type englishPhrasebook struct{}

func (englishPhrasebook) Phrase(_ curriculum.Language, id string, data map[string]any) string {
	englishOnce.Do(loadEnglish)
	tmpl, ok := englishTemplates[id]
	if !ok {
		slog.Warn("missing phrase", "id", id)
		return id
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		slog.Warn("render phrase", "id", id, "error", err)
		return id
	}
	return buf.String()
}
