package quiz

import "errors"

var (
	ErrNoQuestions     = errors.New("quiz: no questions")
	ErrInvalidCount    = errors.New("quiz: question count must be positive")
	ErrUnknownLanguage = errors.New("quiz: unknown language")
	ErrCompleted       = errors.New("quiz: session already completed")
	ErrIndexOutOfRange = errors.New("quiz: question index out of range")
	ErrIncomplete      = errors.New("quiz: not every question is answered")
	ErrUnknownOption   = errors.New("quiz: option is not offered by the current question")
	ErrRoundFinished   = errors.New("quiz: speed round finished")
)
