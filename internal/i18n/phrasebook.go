package i18n

import (
	"github.com/nicksnyder/go-i18n/v2/i18n"

	"github.com/pavelanni/phonics/internal/curriculum"
	"github.com/pavelanni/phonics/internal/quiz"
)

// Phrasebook renders quiz prompts and fixed options in the instruction
// language. Phrases missing from the bundle come from quiz.EnglishPhrases.
type Phrasebook struct{}

func (Phrasebook) Phrase(lang curriculum.Language, id string, data map[string]any) string {
	if bundle == nil {
		return quiz.EnglishPhrases.Phrase(lang, id, data)
	}
	s, err := NewLocalizer(lang.Tag()).Localize(&i18n.LocalizeConfig{MessageID: id, TemplateData: data})
	if err != nil {
		return quiz.EnglishPhrases.Phrase(lang, id, data)
	}
	return s
}

var _ quiz.Phrasebook = Phrasebook{}
