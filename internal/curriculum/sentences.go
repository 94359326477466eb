package curriculum

import "strings"

// Sentence is a short practice sentence. Family is set for word-family drills.
type Sentence struct {
	English string `json:"english"`
	Family  string `json:"family,omitempty"`
	Localized
}

// SentenceGroup is a themed set of sentences.
type SentenceGroup struct {
	Name      string     `json:"name"`
	Sentences []Sentence `json:"sentences"`
}

var Sentences = []SentenceGroup{
	{"theCVC", []Sentence{
		{"The cat is big.", "", Localized{"બિલાડી મોટી છે.", "बिल्ली बड़ी है।"}},
		{"The dog is sad.", "", Localized{"કૂતરો ઉદાસ છે.", "कुत्ता उदास है।"}},
		{"The sun is hot.", "", Localized{"સૂર્ય ગરમ છે.", "सूरज गरम है।"}},
		{"The man is mad.", "", Localized{"માણસ ગુસ્સે છે.", "आदमी गुस्से में है।"}},
		{"The pen is red.", "", Localized{"પેન લાલ છે.", "पेन लाल है।"}},
		{"The cup is on the mat.", "", Localized{"કપ ચાદર પર છે.", "कप चटाई पर है।"}},
	}},
	{"iAmHave", []Sentence{
		{"I am a boy.", "", Localized{"હું એક છોકરો છું.", "मैं एक लड़का हूँ।"}},
		{"I am a girl.", "", Localized{"હું એક છોકરી છું.", "मैं एक लड़की हूँ।"}},
		{"I have a pen.", "", Localized{"મારી પાસે પેન છે.", "मेरे पास पेन है।"}},
		{"I have a cup.", "", Localized{"મારી પાસે કપ છે.", "मेरे पास कप है।"}},
		{"I can run.", "", Localized{"હું દોડી શકું છું.", "मैं दौड़ सकता हूँ।"}},
		{"I can sit.", "", Localized{"હું બેસી શકું છું.", "मैं बैठ सकता हूँ।"}},
	}},
	{"heShe", []Sentence{
		{"He is big.", "", Localized{"તે મોટો છે.", "वह बड़ा है।"}},
		{"He is sad.", "", Localized{"તે ઉદાસ છે.", "वह उदास है।"}},
		{"She is happy.", "", Localized{"તે ખુશ છે.", "वह खुश है।"}},
		{"She is in the van.", "", Localized{"તે વેનમાં છે.", "वह वैन में है।"}},
		{"He is on the mat.", "", Localized{"તે ચાદર પર છે.", "वह चटाई पर है।"}},
	}},
	{"thisThat", []Sentence{
		{"This is a cat.", "", Localized{"આ બિલાડી છે.", "यह बिल्ली है।"}},
		{"This is a pen.", "", Localized{"આ પેન છે.", "यह पेन है।"}},
		{"This is my bag.", "", Localized{"આ મારી બેગ છે.", "यह मेरा बैग है।"}},
		{"That is a dog.", "", Localized{"તે કૂતરો છે.", "वह कुत्ता है।"}},
		{"That is a sun.", "", Localized{"તે સૂર્ય છે.", "वह सूरज है।"}},
	}},
	{"wordFamilySentences", []Sentence{
		{"The cat is fat.", "at", Localized{"બિલાડી જાડી છે.", "बिल्ली मोटी है।"}},
		{"The rat is on the mat.", "at", Localized{"ઉંદર ચાદર પર છે.", "चूहा चटाई पर है।"}},
		{"The man is sad.", "an", Localized{"માણસ ઉદાસ છે.", "आदमी उदास है।"}},
		{"The fan is on.", "an", Localized{"પંખો ચાલુ છે.", "पंखा चालू है।"}},
		{"I am in the van.", "in", Localized{"હું વેનમાં છું.", "मैं वैन में हूँ।"}},
		{"The pin is in the box.", "in", Localized{"પિન બોક્સમાં છે.", "पिन डब्बे में है।"}},
		{"I can sit.", "it", Localized{"હું બેસી શકું છું.", "मैं बैठ सकता हूँ।"}},
		{"The kit is in the bag.", "it", Localized{"કિટ બેગમાં છે.", "किट बैग में है।"}},
		{"The dog can run.", "og", Localized{"કૂતરો દોડી શકે છે.", "कुत्ता दौड़ सकता है।"}},
		{"The dog is on the log.", "og", Localized{"કૂતરો લાકડા પર છે.", "कुत्ता लकड़ी पर है।"}},
		{"The sun is hot.", "un", Localized{"સૂર્ય ગરમ છે.", "सूरज गरम है।"}},
		{"I can run.", "un", Localized{"હું દોડી શકું છું.", "मैं दौड़ सकता हूँ।"}},
		{"The bug is on the mug.", "ug", Localized{"જીવડું મગ પર છે.", "कीड़ा मग पर है।"}},
	}},
	{"whSentences", []Sentence{
		{"What is this? This is a pen.", "", Localized{"આ શું છે? આ પેન છે.", "यह क्या है? यह पेन है।"}},
		{"Where is the cat? The cat is on the mat.", "", Localized{"બિલાડી ક્યાં છે? બિલાડી ચાદર પર છે.", "बिल्ली कहाँ है? बिल्ली चटाई पर है।"}},
		{"Who are you? I am a boy/girl.", "", Localized{"તમે કોણ છો? હું છોકરો/છોકરી છું.", "तुम कौन हो? मैं लड़का/लड़की हूँ।"}},
		{"Why is he sad? He is sad.", "", Localized{"તે ઉદાસ કેમ છે? તે ઉદાસ છે.", "वह उदास क्यों है? वह उदास है।"}},
		{"How are you? I am fine.", "", Localized{"તમે કેમ છો? હું સારો છું.", "तुम कैसे हो? मैं ठीक हूँ।"}},
	}},
	{"mixedPractice", []Sentence{
		{"The man has a red pen.", "", Localized{"માણસ પાસે લાલ પેન છે.", "आदमी के पास लाल पेन है।"}},
		{"The dog is in the box.", "", Localized{"કૂતરો બોક્સમાં છે.", "कुत्ता डब्बे में है।"}},
		{"The cat is on the mat.", "", Localized{"બિલાડી ચાદર પર છે.", "बिल्ली चटाई पर है।"}},
		{"I have a map in the bag.", "", Localized{"મારી બેગમાં નકશો છે.", "मेरे बैग में नक्शा है।"}},
		{"The sun is big and hot.", "", Localized{"સૂર્ય મોટો અને ગરમ છે.", "सूरज बड़ा और गरम है।"}},
		{"We are in the van.", "", Localized{"અમે વેનમાં છીએ.", "हम वैन में हैं।"}},
		{"They are on the top.", "", Localized{"તેઓ ટોચ પર છે.", "वे ऊपर हैं।"}},
		{"She is in the hut.", "", Localized{"તે ઝૂંપડીમાં છે.", "वह झोपड़ी में है।"}},
	}},
}

// Paragraph is a short reading passage.
type Paragraph struct {
	ID    int    `json:"id"`
	Title string `json:"title"`
	Text  string `json:"text"`
	Localized
}

var Paragraphs = []Paragraph{
	{1, "My Pet", "I have a pet dog. His name is Tommy. He is brown. He can run fast. I love my pet.",
		Localized{
			"મારી પાસે કૂતરો છે. તેનું નામ ટોમી છે. તે બ્રાઉન છે. તે ઝડપથી દોડી શકે છે. મને મારો પાલતુ પ્રાણી ગમે છે.",
			"मेरे पास एक कुत्ता है। उसका नाम टॉमी है। वह भूरा है। वह तेज दौड़ सकता है। मुझे अपना पालतू जानवर पसंद है।",
		}},
	{2, "My School", "I go to school. My school is big. I have many friends. We read and write. I love my school.",
		Localized{
			"હું શાળાએ જાઉં છું. મારી શાળા મોટી છે. મારા ઘણા મિત્રો છે. અમે વાંચીએ અને લખીએ છીએ. મને મારી શાળા ગમે છે.",
			"मैं स्कूल जाता हूँ। मेरा स्कूल बड़ा है। मेरे बहुत सारे दोस्त हैं। हम पढ़ते और लिखते हैं। मुझे अपना स्कूल पसंद है।",
		}},
	{3, "The Sun", "The sun is in the sky. It is big and hot. It gives us light. We can see in the day. The sun is good.",
		Localized{
			"સૂર્ય આકાશમાં છે. તે મોટો અને ગરમ છે. તે અમને પ્રકાશ આપે છે. અમે દિવસે જોઈ શકીએ છીએ. સૂર્ય સારો છે.",
			"सूरज आकाश में है। वह बड़ा और गरम है। वह हमें रोशनी देता है। हम दिन में देख सकते हैं। सूरज अच्छा है।",
		}},
}

// AllSentences flattens Sentences in group order.
func AllSentences() []Sentence {
	var out []Sentence
	for _, g := range Sentences {
		out = append(out, g.Sentences...)
	}
	return out
}

// Words splits an English sentence on spaces.
func Words(sentence string) []string {
	return strings.Fields(sentence)
}

// TrimPunct strips trailing sentence punctuation from a word.
func TrimPunct(word string) string {
	return strings.TrimRight(word, ".!?")
}

// Sentences splits the paragraph text into its sentences, keeping the full stop.
func (p Paragraph) Sentences() []string {
	var out []string
	for _, part := range strings.SplitAfter(p.Text, ".") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

func equalFold(a, b string) bool {
	return strings.EqualFold(a, b)
}
