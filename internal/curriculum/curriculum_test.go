package curriculum

import "testing"

func TestTableSizes(t *testing.T) {
	tests := []struct {
		name string
		got  int
		want int
	}{
		{"letters", len(Letters), 26},
		{"barakhadi roots", len(BarakhadiRoots), 21},
		{"matras", len(BarakhadiMatras), 10},
		{"blends", len(AllBlends()), 25},
		{"cvc families", len(CVCFamilies), 22},
		{"cvc words", len(AllCVCWords()), 106},
		{"sight words", len(AllSightWords()), 37},
		{"grammar words", len(GrammarWords), 16},
		{"sentences", len(AllSentences()), 48},
		{"paragraphs", len(Paragraphs), 3},
		{"levels", len(Levels), int(MaxLevel)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("got %d, want %d", tt.got, tt.want)
			}
		})
	}
}

func TestLettersComplete(t *testing.T) {
	seen := make(map[string]bool)
	vowels := 0
	for _, l := range Letters {
		if seen[l.Letter] {
			t.Errorf("duplicate letter %s", l.Letter)
		}
		seen[l.Letter] = true
		if l.Gujarati == "" || l.Hindi == "" || l.Example == "" {
			t.Errorf("letter %s has empty fields: %+v", l.Letter, l)
		}
		if l.IsVowel {
			vowels++
		}
	}
	if vowels != 5 {
		t.Errorf("expected 5 vowels, got %d", vowels)
	}
}

func TestParseLanguage(t *testing.T) {
	tests := []struct {
		in      string
		want    Language
		wantErr bool
	}{
		{"gujarati", Gujarati, false},
		{"GU", Gujarati, false},
		{"hindi", Hindi, false},
		{"hi-IN", Hindi, false},
		{"english", "", true},
		{"", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLanguage(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseLanguage(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseLanguage(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestLocalized(t *testing.T) {
	l := Letters[1]
	if got := l.In(Gujarati); got != "બ" {
		t.Errorf("In(Gujarati) = %q", got)
	}
	if got := l.In(Hindi); got != "ब" {
		t.Errorf("In(Hindi) = %q", got)
	}
}

func TestMakeSyllable(t *testing.T) {
	s := MakeSyllable(BarakhadiRoots[0], BarakhadiMatras[1])
	if s.English != "Kaa" {
		t.Errorf("English = %q, want Kaa", s.English)
	}
	if s.Gujarati != "કા" || s.Hindi != "का" {
		t.Errorf("localized = %q / %q", s.Gujarati, s.Hindi)
	}
}

func TestLevelString(t *testing.T) {
	if LevelCVC.String() != "CVC Words" {
		t.Errorf("LevelCVC = %q", LevelCVC.String())
	}
	if Level(42).String() != "Level 42" {
		t.Errorf("Level(42) = %q", Level(42).String())
	}
	if Level(0).Valid() || Level(9).Valid() {
		t.Error("levels outside 1..8 should be invalid")
	}
}

func TestParagraphSentences(t *testing.T) {
	got := Paragraphs[0].Sentences()
	if len(got) != 5 {
		t.Fatalf("expected 5 sentences, got %d: %q", len(got), got)
	}
	if got[1] != "His name is Tommy." {
		t.Errorf("second sentence = %q", got[1])
	}
}

func TestWordHelpers(t *testing.T) {
	if !IsSightWord("The") {
		t.Error("The should be a sight word")
	}
	if IsSightWord("cat") {
		t.Error("cat should not be a sight word")
	}
	if !IsGrammarWord("were") {
		t.Error("were should be a grammar word")
	}
	if TrimPunct("mat.") != "mat" {
		t.Error("TrimPunct should strip the full stop")
	}
	if !ValidStandard("UKG") || ValidStandard("13th") {
		t.Error("ValidStandard mismatch")
	}
}
