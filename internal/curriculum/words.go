package curriculum

// Blend is a two-letter word built from a vowel and a consonant.
type Blend struct {
	Word  string `json:"word"`
	Blend string `json:"blend"`
	Localized
}

// BlendGroup holds the blends that start with one vowel.
type BlendGroup struct {
	Vowel string  `json:"vowel"`
	Words []Blend `json:"words"`
}

var Blends = []BlendGroup{
	{"A", []Blend{
		{"am", "a + m", Localized{"એમ", "ऐम"}},
		{"an", "a + n", Localized{"એન", "ऐन"}},
		{"as", "a + s", Localized{"એસ", "ऐस"}},
		{"at", "a + t", Localized{"એટ", "ऐट"}},
		{"ab", "a + b", Localized{"એબ", "ऐब"}},
		{"ad", "a + d", Localized{"એડ", "ऐड"}},
		{"ag", "a + g", Localized{"એગ", "ऐग"}},
		{"ax", "a + x", Localized{"એક્સ", "ऐक्स"}},
	}},
	{"E", []Blend{
		{"ed", "e + d", Localized{"એડ", "एड"}},
		{"em", "e + m", Localized{"એમ", "एम"}},
		{"en", "e + n", Localized{"એન", "एन"}},
		{"es", "e + s", Localized{"એસ", "एस"}},
	}},
	{"I", []Blend{
		{"in", "i + n", Localized{"ઇન", "इन"}},
		{"it", "i + t", Localized{"ઇટ", "इट"}},
		{"is", "i + s", Localized{"ઇસ", "इस"}},
		{"if", "i + f", Localized{"ઇફ", "इफ"}},
		{"im", "i + m", Localized{"ઇમ", "इम"}},
		{"id", "i + d", Localized{"ઇડ", "इड"}},
	}},
	{"O", []Blend{
		{"on", "o + n", Localized{"ઓન", "ऑन"}},
		{"of", "o + f", Localized{"ઓફ", "ऑफ"}},
		{"or", "o + r", Localized{"ઓર", "ऑर"}},
		{"ox", "o + x", Localized{"ઓક્સ", "ऑक्स"}},
	}},
	{"U", []Blend{
		{"up", "u + p", Localized{"અપ", "अप"}},
		{"us", "u + s", Localized{"અસ", "अस"}},
		{"um", "u + m", Localized{"અમ", "अम"}},
	}},
}

// CVCFamily is a consonant-vowel-consonant word family such as -at.
type CVCFamily struct {
	Family string   `json:"family"`
	Words  []string `json:"words"`
	Localized
}

var CVCFamilies = []CVCFamily{
	{"at", []string{"cat", "bat", "rat", "mat", "hat", "sat", "fat", "pat"}, Localized{"એટ", "ऐट"}},
	{"an", []string{"man", "can", "fan", "pan", "ran", "tan", "van"}, Localized{"એન", "ऐन"}},
	{"ag", []string{"bag", "rag", "tag", "wag", "sag"}, Localized{"એગ", "ऐग"}},
	{"am", []string{"ham", "jam", "ram"}, Localized{"એમ", "ऐम"}},
	{"ap", []string{"cap", "map", "nap", "tap", "gap", "lap"}, Localized{"એપ", "ऐप"}},
	{"ad", []string{"dad", "sad", "mad", "pad", "lad"}, Localized{"એડ", "ऐड"}},
	{"en", []string{"pen", "hen", "ten", "men"}, Localized{"એન", "एन"}},
	{"et", []string{"jet", "pet", "vet", "get", "set", "let"}, Localized{"એટ", "एट"}},
	{"ed", []string{"bed", "red", "fed"}, Localized{"એડ", "एड"}},
	{"em", []string{"gem", "hem"}, Localized{"એમ", "एम"}},
	{"in", []string{"pin", "win", "bin", "fin", "tin", "kin"}, Localized{"ઇન", "इन"}},
	{"it", []string{"sit", "hit", "lit", "bit", "fit", "kit", "pit"}, Localized{"ઇટ", "इट"}},
	{"ig", []string{"pig", "wig", "dig", "big", "fig"}, Localized{"ઇગ", "इग"}},
	{"ip", []string{"sip", "dip", "lip", "tip", "rip"}, Localized{"ઇપ", "इप"}},
	{"ot", []string{"pot", "hot", "lot", "not", "dot", "cot"}, Localized{"ઓટ", "ऑट"}},
	{"op", []string{"top", "mop", "hop", "pop"}, Localized{"ઓપ", "ऑप"}},
	{"og", []string{"dog", "fog", "log"}, Localized{"ઓગ", "ऑग"}},
	{"ox", []string{"box", "fox"}, Localized{"ઓક્સ", "ऑक्स"}},
	{"ug", []string{"mug", "rug", "bug", "hug", "jug"}, Localized{"અગ", "अग"}},
	{"un", []string{"fun", "run", "sun", "bun", "nun", "gun"}, Localized{"અન", "अन"}},
	{"um", []string{"gum", "sum", "hum", "mum"}, Localized{"અમ", "अम"}},
	{"ut", []string{"cut", "hut", "nut", "gut"}, Localized{"અટ", "अट"}},
}

// SightWord is a high-frequency word learned by sight.
type SightWord struct {
	Word string `json:"word"`
	Localized
}

// SightWordTier groups sight words by difficulty.
type SightWordTier struct {
	Name  string      `json:"name"`
	Words []SightWord `json:"words"`
}

var SightWords = []SightWordTier{
	{"level1", []SightWord{
		{"the", Localized{"ધ", "द"}},
		{"is", Localized{"ઇસ", "इस"}},
		{"are", Localized{"આર", "आर"}},
		{"I", Localized{"આઈ", "आई"}},
		{"you", Localized{"યુ", "यू"}},
		{"we", Localized{"વી", "वी"}},
		{"he", Localized{"હી", "ही"}},
		{"she", Localized{"શી", "शी"}},
		{"it", Localized{"ઇટ", "इट"}},
		{"in", Localized{"ઇન", "इन"}},
		{"on", Localized{"ઓન", "ऑन"}},
		{"to", Localized{"ટુ", "टू"}},
	}},
	{"level2", []SightWord{
		{"they", Localized{"ધે", "दे"}},
		{"them", Localized{"ધેમ", "देम"}},
		{"his", Localized{"હિસ", "हिस"}},
		{"her", Localized{"હર", "हर"}},
		{"has", Localized{"હેસ", "हैस"}},
		{"have", Localized{"હેવ", "हैव"}},
		{"was", Localized{"વોસ", "वॉस"}},
		{"were", Localized{"વર", "वर"}},
		{"for", Localized{"ફોર", "फॉर"}},
		{"from", Localized{"ફ્રોમ", "फ्रॉम"}},
		{"of", Localized{"ઓફ", "ऑफ"}},
		{"but", Localized{"બટ", "बट"}},
		{"by", Localized{"બાય", "बाय"}},
		{"out", Localized{"આઉટ", "आउट"}},
		{"come", Localized{"કમ", "कम"}},
		{"some", Localized{"સમ", "सम"}},
		{"one", Localized{"વન", "वन"}},
		{"two", Localized{"ટુ", "टू"}},
		{"all", Localized{"ઓલ", "ऑल"}},
		{"can", Localized{"કેન", "कैन"}},
	}},
	{"level3", []SightWord{
		{"what", Localized{"વોટ", "व्हाट"}},
		{"where", Localized{"વેર", "व्हेर"}},
		{"who", Localized{"હુ", "हू"}},
		{"when", Localized{"વેન", "व्हेन"}},
		{"why", Localized{"વાય", "व्हाय"}},
	}},
}

// GrammarWord is a pronoun, verb form or demonstrative with its meaning.
type GrammarWord struct {
	Word string `json:"word"`
	Localized
}

var GrammarWords = []GrammarWord{
	{"I", Localized{"હું", "मैं"}},
	{"You", Localized{"તમે", "तुम"}},
	{"He", Localized{"તે", "वह"}},
	{"She", Localized{"તેણી", "वह"}},
	{"It", Localized{"તે", "यह"}},
	{"We", Localized{"અમે", "हम"}},
	{"They", Localized{"તેઓ", "वे"}},
	{"Is", Localized{"છે", "है"}},
	{"Am", Localized{"છું", "हूँ"}},
	{"Are", Localized{"છો/છીએ", "हो/हैं"}},
	{"Was", Localized{"હતો/હતી", "था/थी"}},
	{"Were", Localized{"હતા", "थे"}},
	{"This", Localized{"આ", "यह"}},
	{"That", Localized{"તે", "वह"}},
	{"Have", Localized{"પાસે છે", "के पास है"}},
	{"Has", Localized{"પાસે છે", "के पास है"}},
}

// AllBlends flattens Blends in vowel order.
func AllBlends() []Blend {
	var out []Blend
	for _, g := range Blends {
		out = append(out, g.Words...)
	}
	return out
}

// AllCVCWords flattens every family's words in family order.
func AllCVCWords() []string {
	var out []string
	for _, f := range CVCFamilies {
		out = append(out, f.Words...)
	}
	return out
}

// AllSightWords flattens the sight word tiers.
func AllSightWords() []SightWord {
	var out []SightWord
	for _, t := range SightWords {
		out = append(out, t.Words...)
	}
	return out
}

// IsSightWord reports whether word appears in any tier, ignoring case.
func IsSightWord(word string) bool {
	for _, sw := range AllSightWords() {
		if equalFold(sw.Word, word) {
			return true
		}
	}
	return false
}

// IsGrammarWord reports whether word is in GrammarWords, ignoring case.
func IsGrammarWord(word string) bool {
	for _, g := range GrammarWords {
		if equalFold(g.Word, word) {
			return true
		}
	}
	return false
}
