package curriculum

// Letter is an English letter with its sound and an example word.
type Letter struct {
	Letter  string `json:"letter"`
	Sound   string `json:"sound"`
	Example string `json:"example"`
	IsVowel bool   `json:"is_vowel"`
	Localized
}

var Letters = []Letter{
	{"A", "a", "apple", true, Localized{"અ", "अ"}},
	{"B", "b", "ball", false, Localized{"બ", "ब"}},
	{"C", "k", "cat", false, Localized{"ક", "क"}},
	{"D", "d", "dog", false, Localized{"ડ", "ड"}},
	{"E", "e", "egg", true, Localized{"એ", "ए"}},
	{"F", "f", "fan", false, Localized{"ફ", "फ"}},
	{"G", "g", "gun", false, Localized{"ગ", "ग"}},
	{"H", "h", "hat", false, Localized{"હ", "ह"}},
	{"I", "i", "ink", true, Localized{"ઇ", "इ"}},
	{"J", "j", "jug", false, Localized{"જ", "ज"}},
	{"K", "k", "kite", false, Localized{"ક", "क"}},
	{"L", "l", "lion", false, Localized{"લ", "ल"}},
	{"M", "m", "man", false, Localized{"મ", "म"}},
	{"N", "n", "net", false, Localized{"ન", "न"}},
	{"O", "o", "orange", true, Localized{"ઓ", "ओ"}},
	{"P", "p", "pen", false, Localized{"પ", "प"}},
	{"Q", "kw", "queen", false, Localized{"ક્વ", "क्व"}},
	{"R", "r", "rat", false, Localized{"ર", "र"}},
	{"S", "s", "sun", false, Localized{"સ", "स"}},
	{"T", "t", "tap", false, Localized{"ટ", "ट"}},
	{"U", "u", "umbrella", true, Localized{"ઉ", "उ"}},
	{"V", "v", "van", false, Localized{"વ", "व"}},
	{"W", "w", "watch", false, Localized{"વ", "व"}},
	{"X", "ks", "x-ray", false, Localized{"ક્સ", "क्स"}},
	{"Y", "y", "yak", false, Localized{"ય", "य"}},
	{"Z", "z", "zip", false, Localized{"ઝ", "ज़"}},
}

// BarakhadiRoot is a consonant used to build syllables.
type BarakhadiRoot struct {
	English string `json:"english"`
	Localized
}

// Matra is a vowel sign appended to a barakhadi root.
type Matra struct {
	English string `json:"english"`
	Localized
}

var BarakhadiRoots = []BarakhadiRoot{
	{"K", Localized{"ક", "क"}},
	{"Kh", Localized{"ખ", "ख"}},
	{"G", Localized{"ગ", "ग"}},
	{"Gh", Localized{"ઘ", "घ"}},
	{"Ch", Localized{"ચ", "च"}},
	{"Chh", Localized{"છ", "छ"}},
	{"J", Localized{"જ", "ज"}},
	{"T", Localized{"ટ", "ट"}},
	{"D", Localized{"ડ", "ड"}},
	{"N", Localized{"ણ", "ण"}},
	{"P", Localized{"પ", "प"}},
	{"Ph", Localized{"ફ", "फ"}},
	{"B", Localized{"બ", "ब"}},
	{"Bh", Localized{"ભ", "भ"}},
	{"M", Localized{"મ", "म"}},
	{"Y", Localized{"ય", "य"}},
	{"R", Localized{"ર", "र"}},
	{"L", Localized{"લ", "ल"}},
	{"V", Localized{"વ", "व"}},
	{"S", Localized{"સ", "स"}},
	{"H", Localized{"હ", "ह"}},
}

var BarakhadiMatras = []Matra{
	{"a", Localized{"", ""}},
	{"aa", Localized{"ા", "ा"}},
	{"i", Localized{"િ", "ि"}},
	{"ee", Localized{"ી", "ी"}},
	{"u", Localized{"ુ", "ु"}},
	{"oo", Localized{"ૂ", "ू"}},
	{"e", Localized{"ે", "े"}},
	{"ai", Localized{"ૈ", "ै"}},
	{"o", Localized{"ો", "ो"}},
	{"au", Localized{"ૌ", "ौ"}},
}

// Syllable joins a root and a matra, e.g. K + aa = "Kaa" / "કા".
type Syllable struct {
	English string
	Localized
}

// MakeSyllable builds the syllable for root and matra.
func MakeSyllable(root BarakhadiRoot, m Matra) Syllable {
	return Syllable{
		English: root.English + m.English,
		Localized: Localized{
			Gujarati: root.Gujarati + m.Gujarati,
			Hindi:    root.Hindi + m.Hindi,
		},
	}
}
