// Package translit converts Romanized Hindi to Devanagari using an
// ITRANS-style rule scheme.
//
// The conversion is rule-based script mapping, not phonetic ML: it picks the
// longest matching romanization token at each position and emits the
// corresponding Devanagari glyph, tracking consonant/vowel state so that
// matras and viramas land correctly. Chat-style spellings that fall outside
// the scheme (stray Latin words, digits, emoji) pass through unchanged, and
// the function as a whole is fail-soft — it always returns a string and
// never an error.
package translit

import "strings"

// glyphKind distinguishes how a matched romanization token combines with
// its neighbours.
type glyphKind int

const (
	kindConsonant glyphKind = iota
	kindVowel
	kindMark
)

// rule is one romanization token and its Devanagari rendering. Vowel rules
// carry both the independent form (word-initial or after another vowel) and
// the matra form (after a consonant).
type rule struct {
	kind  glyphKind
	glyph string // consonant body, independent vowel, or combining mark
	matra string // vowel sign form; empty for the inherent "a"
}

const virama = "्" // ्

// rules maps ITRANS tokens to Devanagari. Keys up to three characters long;
// matching always prefers the longest key at the current position.
var rules = map[string]rule{
	// Velar and palatal consonants.
	"k": {kindConsonant, "क", ""}, "kh": {kindConsonant, "ख", ""},
	"g": {kindConsonant, "ग", ""}, "gh": {kindConsonant, "घ", ""},
	"~N": {kindConsonant, "ङ", ""},
	"ch": {kindConsonant, "च", ""}, "Ch": {kindConsonant, "छ", ""},
	"chh": {kindConsonant, "छ", ""},
	"j": {kindConsonant, "ज", ""}, "jh": {kindConsonant, "झ", ""},
	"~n": {kindConsonant, "ञ", ""},

	// Retroflex and dental consonants. Case is significant: T/D/N are
	// retroflex, t/d/n dental.
	"T": {kindConsonant, "ट", ""}, "Th": {kindConsonant, "ठ", ""},
	"D": {kindConsonant, "ड", ""}, "Dh": {kindConsonant, "ढ", ""},
	"N": {kindConsonant, "ण", ""},
	"t": {kindConsonant, "त", ""}, "th": {kindConsonant, "थ", ""},
	"d": {kindConsonant, "द", ""}, "dh": {kindConsonant, "ध", ""},
	"n": {kindConsonant, "न", ""},

	// Labials.
	"p": {kindConsonant, "प", ""}, "ph": {kindConsonant, "फ", ""},
	"b": {kindConsonant, "ब", ""}, "bh": {kindConsonant, "भ", ""},
	"m": {kindConsonant, "म", ""},

	// Semivowels, sibilants, aspirate.
	"y": {kindConsonant, "य", ""}, "r": {kindConsonant, "र", ""},
	"l": {kindConsonant, "ल", ""}, "v": {kindConsonant, "व", ""},
	"w": {kindConsonant, "व", ""},
	"sh": {kindConsonant, "श", ""}, "Sh": {kindConsonant, "ष", ""},
	"s": {kindConsonant, "स", ""}, "h": {kindConsonant, "ह", ""},
	"L": {kindConsonant, "ळ", ""},

	// Conjuncts and nukta forms common in Hindi chat text.
	"x": {kindConsonant, "क्ष", ""}, "kSh": {kindConsonant, "क्ष", ""},
	"GY": {kindConsonant, "ज्ञ", ""},
	"q": {kindConsonant, "क़", ""}, "z": {kindConsonant, "ज़", ""},
	"f": {kindConsonant, "फ़", ""},
	".D": {kindConsonant, "ड़", ""}, ".Dh": {kindConsonant, "ढ़", ""},

	// Vowels: independent form plus matra.
	"a": {kindVowel, "अ", ""},
	"aa": {kindVowel, "आ", "ा"}, "A": {kindVowel, "आ", "ा"},
	"i": {kindVowel, "इ", "ि"},
	"ii": {kindVowel, "ई", "ी"}, "I": {kindVowel, "ई", "ी"}, "ee": {kindVowel, "ई", "ी"},
	"u": {kindVowel, "उ", "ु"},
	"uu": {kindVowel, "ऊ", "ू"}, "U": {kindVowel, "ऊ", "ू"}, "oo": {kindVowel, "ऊ", "ू"},
	"RRi": {kindVowel, "ऋ", "ृ"}, "R^i": {kindVowel, "ऋ", "ृ"},
	"e": {kindVowel, "ए", "े"}, "ai": {kindVowel, "ऐ", "ै"},
	"o": {kindVowel, "ओ", "ो"}, "au": {kindVowel, "औ", "ौ"},

	// Marks and punctuation.
	"M": {kindMark, "ं", ""}, ".m": {kindMark, "ं", ""}, ".n": {kindMark, "ं", ""},
	"H":  {kindMark, "ः", ""},
	".a": {kindMark, "ऽ", ""},
	"|":  {kindMark, "।", ""}, "||": {kindMark, "॥", ""},
	"OM": {kindMark, "ॐ", ""},
}

// maxToken is the longest romanization token length in the rule table.
const maxToken = 3

// Transliterator converts Romanized Hindi text to Devanagari. The zero
// value is ready to use and safe for concurrent use.
type Transliterator struct{}

// New returns a ready-to-use Transliterator.
func New() *Transliterator { return &Transliterator{} }

// ToDevanagari converts text from ITRANS-style romanization to Devanagari.
// Characters outside the scheme are copied through unchanged, so mixed input
// degrades gracefully instead of failing. A trailing consonant receives a
// virama, matching the strict ITRANS rendering.
func (t *Transliterator) ToDevanagari(text string) string {
	var sb strings.Builder
	sb.Grow(len(text) * 2)

	pendingConsonant := false
	i := 0
	for i < len(text) {
		token, r, ok := matchRule(text[i:])
		if !ok {
			// Outside the scheme: close any open consonant, copy the byte.
			// ASCII-only fallthrough is fine here because every rule key is
			// ASCII; multi-byte runes simply pass through byte by byte.
			if pendingConsonant {
				sb.WriteString(virama)
				pendingConsonant = false
			}
			sb.WriteByte(text[i])
			i++
			continue
		}

		switch r.kind {
		case kindConsonant:
			if pendingConsonant {
				sb.WriteString(virama)
			}
			sb.WriteString(r.glyph)
			pendingConsonant = true

		case kindVowel:
			if pendingConsonant {
				sb.WriteString(r.matra) // empty for the inherent "a"
				pendingConsonant = false
			} else {
				sb.WriteString(r.glyph)
			}

		case kindMark:
			// Anusvara and friends attach to the preceding syllable; a bare
			// consonant before a mark keeps its inherent vowel.
			pendingConsonant = false
			sb.WriteString(r.glyph)
		}
		i += len(token)
	}
	if pendingConsonant {
		sb.WriteString(virama)
	}
	return sb.String()
}

// matchRule finds the longest rule key that prefixes s.
func matchRule(s string) (string, rule, bool) {
	limit := maxToken
	if len(s) < limit {
		limit = len(s)
	}
	for l := limit; l >= 1; l-- {
		if r, ok := rules[s[:l]]; ok {
			return s[:l], r, true
		}
	}
	return "", rule{}, false
}
