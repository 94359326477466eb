package quiz

import (
	"errors"
	"math/rand/v2"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/pavelanni/phonics/internal/curriculum"
)

func TestGenerateShapeAllLevels(t *testing.T) {
	g := NewGenerator(WithRand(testRand()))
	for level := curriculum.Level(0); level <= curriculum.MaxLevel+1; level++ {
		for _, lang := range curriculum.Languages {
			for _, n := range []int{1, QuickQuizSize, FullTestSize, 250} {
				qs, err := g.Generate(level, lang, n)
				require.NoError(t, err)
				require.Len(t, qs, n, "level %d %s n=%d", level, lang, n)
				for i, q := range qs {
					require.Equal(t, i, q.ID)
					require.NoError(t, q.Validate(), "level %d %s: %+v", level, lang, q)
					require.GreaterOrEqual(t, len(q.Options), 2, "%+v", q)
					require.LessOrEqual(t, len(q.Options), 4, "%+v", q)
					require.NotEmpty(t, q.Prompt)
				}
			}
		}
	}
}

func TestGenerateInvalidInput(t *testing.T) {
	g := NewGenerator()
	_, err := g.Generate(curriculum.LevelAlphabet, curriculum.Gujarati, 0)
	require.True(t, errors.Is(err, ErrInvalidCount))
	_, err = g.Generate(curriculum.LevelAlphabet, curriculum.Language("english"), 10)
	require.True(t, errors.Is(err, ErrUnknownLanguage))
}

func TestGenerateFallbackForUnknownLevel(t *testing.T) {
	g := NewGenerator(WithRand(testRand()))
	qs, err := g.Generate(curriculum.Level(42), curriculum.Hindi, FullTestSize)
	require.NoError(t, err)
	require.Len(t, qs, FullTestSize)

	prompts := make(map[string]int)
	for _, q := range qs {
		require.Equal(t, KindDefault, q.Kind)
		prompts[q.Prompt]++
	}
	require.Len(t, prompts, len(curriculum.Letters))
	for p, n := range prompts {
		require.GreaterOrEqual(t, n, FullTestSize/len(curriculum.Letters), "prompt %q", p)
	}
}

func TestGeneratePadsSmallPoolCyclically(t *testing.T) {
	small := func(b *Builder) {
		b.Choice(KindDefault, "one", "1", []string{"2", "3"})
		b.Choice(KindDefault, "two", "2", []string{"1", "3"})
		b.Choice(KindDefault, "three", "3", []string{"1", "2"})
	}
	g := NewGenerator(WithRand(testRand()), WithStrategy(curriculum.Level(99), small))

	qs, err := g.Generate(curriculum.Level(99), curriculum.Gujarati, 10)
	require.NoError(t, err)
	require.Len(t, qs, 10)

	counts := make(map[string]int)
	for _, q := range qs {
		counts[q.Prompt]++
		require.NoError(t, q.Validate())
	}
	require.Len(t, counts, 3)
	for p, n := range counts {
		require.GreaterOrEqual(t, n, 10/3, "prompt %q", p)
	}
}

func TestGenerateKeepsKindShares(t *testing.T) {
	want := map[Kind]int{
		KindLetterSound:    3,
		KindSoundLetter:    3,
		KindExample:        2,
		KindVowelConsonant: 2,
	}
	for seed := uint64(1); seed <= 5; seed++ {
		g := NewGenerator(WithRand(rand.New(rand.NewPCG(seed, seed*31))))
		qs, err := g.Generate(curriculum.LevelAlphabet, curriculum.Gujarati, QuickQuizSize)
		require.NoError(t, err)
		got := make(map[Kind]int)
		for _, q := range qs {
			got[q.Kind]++
		}
		require.Equal(t, want, got, "seed %d", seed)
	}
}

func TestReverseQuestionsAvoidSharedSounds(t *testing.T) {
	sound := make(map[string]map[curriculum.Language]string)
	for _, l := range curriculum.Letters {
		sound[l.Letter] = map[curriculum.Language]string{
			curriculum.Gujarati: l.Gujarati,
			curriculum.Hindi:    l.Hindi,
		}
	}
	g := NewGenerator(WithRand(testRand()))
	for _, lang := range curriculum.Languages {
		for _, level := range []curriculum.Level{curriculum.LevelAlphabet, curriculum.LevelBarakhadi} {
			qs, err := g.Generate(level, lang, FullTestSize)
			require.NoError(t, err)
			for _, q := range qs {
				if q.Kind != KindSoundLetter && q.Kind != KindReverse {
					continue
				}
				for _, o := range q.Options {
					if o == q.Answer {
						continue
					}
					require.NotEqual(t, sound[q.Answer][lang], sound[o][lang],
						"%q offers %s and %s with the same sound", q.Prompt, q.Answer, o)
				}
			}
		}
	}
}

func TestMeaningQuestionsAvoidSharedMeanings(t *testing.T) {
	meaning := make(map[string]string)
	for _, gw := range curriculum.GrammarWords {
		meaning[gw.Word] = gw.Hindi
	}
	g := NewGenerator(WithRand(testRand()))
	qs, err := g.Generate(curriculum.LevelGrammar, curriculum.Hindi, FullTestSize)
	require.NoError(t, err)
	for _, q := range qs {
		if q.Kind != KindMeaningGrammar {
			continue
		}
		for _, o := range q.Options {
			if o != q.Answer {
				require.NotEqual(t, meaning[q.Answer], meaning[o], "%q", q.Prompt)
			}
		}
	}
}

func TestTrueFalseBalanced(t *testing.T) {
	g := NewGenerator(WithRand(testRand()))
	for _, level := range []curriculum.Level{
		curriculum.LevelBarakhadi, curriculum.LevelCVC, curriculum.LevelGrammar, curriculum.LevelSentences,
	} {
		pool := g.pool(g.strategies[level], curriculum.Gujarati)
		var yes, no int
		for _, q := range pool {
			if q.Kind != KindTrueFalse {
				continue
			}
			if q.Answer == "True" {
				yes++
			} else {
				no++
			}
		}
		require.Positive(t, yes, "level %d", level)
		require.InDelta(t, yes, no, 1, "level %d: %d true, %d false", level, yes, no)
	}
}

type taggedPhrases struct{}

func (taggedPhrases) Phrase(lang curriculum.Language, id string, _ map[string]any) string {
	return string(lang) + ":" + id
}

func TestGenerateUsesPhrasebook(t *testing.T) {
	g := NewGenerator(WithRand(testRand()), WithPhrasebook(taggedPhrases{}))
	qs, err := g.Generate(curriculum.LevelAlphabet, curriculum.Hindi, FullTestSize)
	require.NoError(t, err)
	for _, q := range qs {
		require.True(t, strings.HasPrefix(q.Prompt, "hindi:Quiz"), q.Prompt)
		if q.Kind == KindVowelConsonant {
			require.Contains(t, q.Options, "hindi:"+OptionVowel)
		}
	}
}

func TestSpeedQuestions(t *testing.T) {
	tests := []struct {
		level curriculum.Level
		kind  Kind
	}{
		{curriculum.LevelAlphabet, KindDefault},
		{curriculum.LevelBarakhadi, KindDefault},
		{curriculum.LevelBlending, KindWordFamily},
		{curriculum.LevelCVC, KindWordFamily},
		{curriculum.LevelSightWords, KindGrammarMeaning},
		{curriculum.LevelParagraphs, KindGrammarMeaning},
	}
	g := NewGenerator(WithRand(testRand()))
	for _, tt := range tests {
		t.Run(tt.level.String(), func(t *testing.T) {
			qs, err := g.SpeedQuestions(tt.level, curriculum.Gujarati)
			require.NoError(t, err)
			require.Len(t, qs, SpeedRoundSize)
			seen := make(map[string]bool)
			for _, q := range qs {
				require.Equal(t, tt.kind, q.Kind)
				require.NoError(t, q.Validate())
				require.False(t, seen[q.Prompt], "repeated prompt %q", q.Prompt)
				seen[q.Prompt] = true
			}
		})
	}
}

func TestEnglishPhrases(t *testing.T) {
	got := EnglishPhrases.Phrase(curriculum.Gujarati, PhraseBelongsTo, map[string]any{"Word": "cat", "Family": "at"})
	require.Equal(t, `"cat" belongs to -at family?`, got)
	require.Equal(t, "Need Practice", EnglishPhrases.Phrase(curriculum.Hindi, OptionNeedPractice, nil))
	require.Equal(t, "NoSuchPhrase", EnglishPhrases.Phrase(curriculum.Hindi, "NoSuchPhrase", nil))
}
