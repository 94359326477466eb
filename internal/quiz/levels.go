package quiz

import (
	"strconv"
	"strings"

	"github.com/pavelanni/phonics/internal/curriculum"
)

// fallbackStrategy asks for the localized sound of every letter. It serves
// levels without a registered strategy.
func fallbackStrategy(b *Builder) {
	lang := b.Lang()
	sounds := letterSounds(lang)
	for _, l := range curriculum.Letters {
		b.Choice(KindDefault, b.Phrase(PhraseEquals, map[string]any{"Value": l.Letter}), l.In(lang), sounds)
	}
}

func alphabetStrategy(b *Builder) {
	lang := b.Lang()
	sounds := letterSounds(lang)
	for _, l := range curriculum.Letters {
		b.Choice(KindLetterSound, b.Phrase(PhraseLetterSound, map[string]any{"Letter": l.Letter}), l.In(lang), sounds)
	}
	for _, l := range curriculum.Letters {
		sound := l.In(lang)
		b.Choice(KindSoundLetter, b.Phrase(PhraseSoundLetter, map[string]any{"Sound": sound}), l.Letter, lettersNotSounding(sound, lang))
	}
	examples := letterExamples()
	for _, l := range curriculum.Letters {
		b.Choice(KindExample, b.Phrase(PhraseStartsWord, map[string]any{"Letter": l.Letter}), l.Example, examples)
	}
	vowel, consonant := b.Phrase(OptionVowel, nil), b.Phrase(OptionConsonant, nil)
	for _, l := range curriculum.Letters[:22] {
		answer := consonant
		if l.IsVowel {
			answer = vowel
		}
		b.Fixed(KindVowelConsonant, b.Phrase(PhraseWhatIs, map[string]any{"Letter": l.Letter}), answer, vowel, consonant)
	}
}

func barakhadiStrategy(b *Builder) {
	lang := b.Lang()
	sounds := letterSounds(lang)
	for _, l := range curriculum.Letters {
		b.Choice(KindBarakhadi, b.Phrase(PhraseBarakhadi, map[string]any{"Letter": l.Letter}), l.In(lang), sounds)
	}
	examples := letterExamples()
	for _, l := range curriculum.Letters {
		b.Choice(KindExample, b.Phrase(PhraseExampleOf, map[string]any{"Letter": l.Letter}), l.Example, examples)
	}
	for _, l := range curriculum.Letters[:22] {
		sound := l.In(lang)
		b.Choice(KindReverse, b.Phrase(PhraseEquals, map[string]any{"Value": sound}), l.Letter, lettersNotSounding(sound, lang))
	}
	for i, root := range curriculum.BarakhadiRoots {
		syl := curriculum.MakeSyllable(root, curriculum.BarakhadiMatras[i%len(curriculum.BarakhadiMatras)])
		var spellings []string
		for _, m := range curriculum.BarakhadiMatras {
			spellings = append(spellings, curriculum.MakeSyllable(root, m).English)
		}
		b.Choice(KindSyllable, b.Phrase(PhraseSpelling, map[string]any{"Value": syl.In(lang)}), syl.English, spellings)
	}
	// Odd letters are paired with another letter's sound so half the answers are False.
	for i, l := range curriculum.Letters {
		sound := l.In(lang)
		truth := i%2 == 0
		if !truth {
			sound = nextDifferentSound(i, lang)
		}
		b.TrueFalse(b.Phrase(PhrasePairTrueFalse, map[string]any{"Letter": l.Letter, "Sound": sound}), truth)
	}
}

func blendingStrategy(b *Builder) {
	lang := b.Lang()
	all := curriculum.AllBlends()
	meanings := make([]string, len(all))
	for i, w := range all {
		meanings[i] = w.In(lang)
	}
	for _, g := range curriculum.Blends {
		for _, w := range g.Words {
			b.Choice(KindBlendMeaning, b.Phrase(PhraseEquals, map[string]any{"Value": w.Word}), w.In(lang), meanings)
		}
	}
	for _, g := range curriculum.Blends {
		words := make([]string, len(g.Words))
		for i, w := range g.Words {
			words[i] = w.Word
		}
		for _, w := range g.Words {
			b.Choice(KindBlendWord, b.Phrase(PhraseEquals, map[string]any{"Value": w.Blend}), w.Word, words)
		}
	}
	vowels := make([]string, len(curriculum.Blends))
	for i, g := range curriculum.Blends {
		vowels[i] = g.Vowel
	}
	for _, g := range curriculum.Blends {
		for _, w := range g.Words {
			b.Choice(KindStartsWith, b.Phrase(PhraseStartsWith, map[string]any{"Word": w.Word}), g.Vowel, vowels)
		}
	}
}

func cvcStrategy(b *Builder) {
	wordFamilyEndings(b)

	families := curriculum.CVCFamilies
	i := 0
	for fi, f := range families {
		for _, w := range f.Words {
			family, truth := f.Family, i%2 == 0
			if !truth {
				family = families[(fi+1)%len(families)].Family
			}
			b.TrueFalse(b.Phrase(PhraseBelongsTo, map[string]any{"Word": w, "Family": family}), truth)
			i++
		}
	}

	for fi, f := range families {
		var others []string
		for _, o := range families {
			if o.Family != f.Family {
				others = append(others, o.Words...)
			}
		}
		word := f.Words[fi%len(f.Words)]
		b.Choice(KindFamilyWord, b.Phrase(PhraseFamilyWord, map[string]any{"Family": f.Family}), word, others)
	}
}

func wordFamilyEndings(b *Builder) {
	lang := b.Lang()
	meanings := make([]string, len(curriculum.CVCFamilies))
	for i, f := range curriculum.CVCFamilies {
		meanings[i] = f.In(lang)
	}
	for _, f := range curriculum.CVCFamilies {
		for _, w := range f.Words {
			b.Choice(KindWordFamily, b.Phrase(PhraseEndsWith, map[string]any{"Word": w}), f.In(lang), meanings)
		}
	}
}

func sightWordStrategy(b *Builder) {
	lang := b.Lang()
	all := curriculum.AllSightWords()
	meanings := make([]string, len(all))
	for i, w := range all {
		meanings[i] = w.In(lang)
	}
	for _, w := range all {
		b.Choice(KindSightMeaning, b.Phrase(PhraseEquals, map[string]any{"Value": w.Word}), w.In(lang), meanings)
	}
	for _, tier := range curriculum.SightWords {
		for _, w := range tier.Words {
			var pool []string
			for _, o := range tier.Words {
				if o.In(lang) != w.In(lang) {
					pool = append(pool, o.Word)
				}
			}
			b.Choice(KindMeaningSight, b.Phrase(PhraseEquals, map[string]any{"Value": w.In(lang)}), w.Word, pool)
		}
	}
	yes, no := b.Phrase(OptionYes, nil), b.Phrase(OptionNo, nil)
	decoys := nonSightWords()
	for i, w := range all {
		word, answer := w.Word, yes
		if i%2 == 1 {
			word, answer = decoys[i%len(decoys)], no
		}
		b.Fixed(KindIdentification, b.Phrase(PhraseIsSightWord, map[string]any{"Word": word}), answer, yes, no)
	}
}

func grammarStrategy(b *Builder) {
	grammarMeanings(b)

	lang := b.Lang()
	for _, g := range curriculum.GrammarWords {
		var pool []string
		for _, o := range curriculum.GrammarWords {
			if o.In(lang) != g.In(lang) {
				pool = append(pool, o.Word)
			}
		}
		b.Choice(KindMeaningGrammar, b.Phrase(PhraseInEnglish, map[string]any{"Meaning": g.In(lang)}), g.Word, pool)
	}
	for _, g := range curriculum.GrammarWords {
		verb, ok := pronounVerb(g.Word)
		if !ok {
			continue
		}
		correct := g.Word + " " + verb + " here."
		b.Shuffled(KindUsage, b.Phrase(PhraseUseCorrectly, map[string]any{"Word": g.Word}), correct,
			correct, "Here "+g.Word+".", g.Word+" here "+verb+".", strings.ToUpper(verb[:1])+verb[1:]+" "+g.Word+" here.")
	}
	cvc := curriculum.AllCVCWords()
	for i, g := range curriculum.GrammarWords {
		word, truth := g.Word, i%2 == 0
		if !truth {
			word = cvc[(i*7)%len(cvc)]
		}
		b.TrueFalse(b.Phrase(PhraseIsGrammarWord, map[string]any{"Word": word}), truth)
	}
}

func grammarMeanings(b *Builder) {
	lang := b.Lang()
	meanings := make([]string, len(curriculum.GrammarWords))
	for i, g := range curriculum.GrammarWords {
		meanings[i] = g.In(lang)
	}
	for _, g := range curriculum.GrammarWords {
		b.Choice(KindGrammarMeaning, b.Phrase(PhraseMeans, map[string]any{"Word": g.Word}), g.In(lang), meanings)
	}
}

// pronounVerb returns the present form of "to be" that follows a subject word.
func pronounVerb(word string) (string, bool) {
	switch word {
	case "I":
		return "am", true
	case "You", "We", "They":
		return "are", true
	case "He", "She", "It", "This", "That":
		return "is", true
	}
	return "", false
}

func sentenceStrategy(b *Builder) {
	all := curriculum.AllSentences()
	var firsts, lasts []string
	for _, s := range all {
		words := curriculum.Words(s.English)
		firsts = append(firsts, words[0])
		lasts = append(lasts, curriculum.TrimPunct(words[len(words)-1]))
	}
	for _, s := range all {
		words := curriculum.Words(s.English)
		if len(words) < 2 {
			continue
		}
		b.Choice(KindFirstWord, b.Phrase(PhraseFirstWord, map[string]any{"Sentence": s.English}), words[0], firsts)
	}
	for _, s := range all {
		words := curriculum.Words(s.English)
		if len(words) < 2 {
			continue
		}
		last := curriculum.TrimPunct(words[len(words)-1])
		b.Choice(KindLastWord, b.Phrase(PhraseLastWord, map[string]any{"Sentence": s.English}), last, lasts)
	}
	for _, s := range all {
		n := len(curriculum.Words(s.English))
		var options []string
		for _, c := range []int{n, n + 1, n - 1, n + 2} {
			if c > 0 {
				options = append(options, strconv.Itoa(c))
			}
		}
		b.Shuffled(KindWordCount, b.Phrase(PhraseWordCount, map[string]any{"Sentence": s.English}), strconv.Itoa(n), options...)
	}
	for i, s := range all {
		sentence, truth := s.English, i%2 == 0
		if !truth {
			sentence = reversedWords(s.English)
		}
		b.TrueFalse(b.Phrase(PhraseCorrectEnglish, map[string]any{"Sentence": sentence}), truth)
	}
}

func paragraphStrategy(b *Builder) {
	all := curriculum.AllSentences()
	var lasts []string
	for _, s := range all {
		words := curriculum.Words(s.English)
		lasts = append(lasts, curriculum.TrimPunct(words[len(words)-1]))
	}
	for _, s := range all {
		words := curriculum.Words(s.English)
		if len(words) < 3 {
			continue
		}
		partial := strings.Join(words[:len(words)-1], " ") + " ___"
		b.Choice(KindCompletion, b.Phrase(PhraseComplete, map[string]any{"Partial": partial}),
			curriculum.TrimPunct(words[len(words)-1]), lasts)
	}
	yes, practice := b.Phrase(OptionYes, nil), b.Phrase(OptionNeedPractice, nil)
	for _, s := range all {
		b.Fixed(KindReadingCheck, b.Phrase(PhraseReadAloud, map[string]any{"Sentence": s.English}), yes, yes, practice)
	}
	for _, s := range all {
		words := curriculum.Words(s.English)
		if len(words) < 3 {
			continue
		}
		var pool []string
		for _, w := range words[2:] {
			if w != words[0] {
				pool = append(pool, w)
			}
		}
		b.Choice(KindWordOrder, b.Phrase(PhraseComesAfter, map[string]any{"Word": words[0], "Sentence": s.English}), words[1], pool)
	}

	var paraLasts []string
	var paraSentences []string
	for _, p := range curriculum.Paragraphs {
		for _, s := range p.Sentences() {
			words := curriculum.Words(s)
			paraLasts = append(paraLasts, curriculum.TrimPunct(words[len(words)-1]))
			paraSentences = append(paraSentences, s)
		}
	}
	for _, s := range paraSentences {
		words := curriculum.Words(s)
		if len(words) < 3 {
			continue
		}
		partial := strings.Join(words[:len(words)-1], " ") + " ___"
		b.Choice(KindParagraphCompletion, b.Phrase(PhraseComplete, map[string]any{"Partial": partial}),
			curriculum.TrimPunct(words[len(words)-1]), paraLasts)
	}
}

func letterSounds(lang curriculum.Language) []string {
	out := make([]string, len(curriculum.Letters))
	for i, l := range curriculum.Letters {
		out[i] = l.In(lang)
	}
	return out
}

func letterExamples() []string {
	out := make([]string, len(curriculum.Letters))
	for i, l := range curriculum.Letters {
		out[i] = l.Example
	}
	return out
}

// lettersNotSounding returns the letters whose localized sound differs from
// sound, so that C and K never both appear for "ક".
func lettersNotSounding(sound string, lang curriculum.Language) []string {
	var out []string
	for _, l := range curriculum.Letters {
		if l.In(lang) != sound {
			out = append(out, l.Letter)
		}
	}
	return out
}

func nextDifferentSound(i int, lang curriculum.Language) string {
	letters := curriculum.Letters
	own := letters[i].In(lang)
	for step := 1; step < len(letters); step++ {
		if s := letters[(i+step)%len(letters)].In(lang); s != own {
			return s
		}
	}
	return own
}

func nonSightWords() []string {
	var out []string
	for _, w := range curriculum.AllCVCWords() {
		if !curriculum.IsSightWord(w) {
			out = append(out, w)
		}
	}
	return out
}

func reversedWords(sentence string) string {
	words := curriculum.Words(sentence)
	for i, j := 0, len(words)-1; i < j; i, j = i+1, j-1 {
		words[i], words[j] = words[j], words[i]
	}
	return strings.Join(words, " ")
}
