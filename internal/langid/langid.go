// Package langid classifies the script and language of short code-mixed
// Hindi/English text.
//
// Detection is purely heuristic: script classification counts Devanagari
// versus Latin characters, and language classification measures the fraction
// of common English function words among the tokens. This works well for the
// short chat-style sentences the pipeline is built for, but it is not a
// trained classifier — very short inputs or sentences whose vocabulary
// overlaps both languages can be misclassified. Callers should treat the
// result as a routing hint, not ground truth.
package langid

import (
	"regexp"
	"strings"
)

// Script identifies the dominant writing system of a text.
type Script string

const (
	ScriptDevanagari Script = "Devanagari"
	ScriptLatin      Script = "Latin"
)

// Language identifies the detected (or requested target) language of a text.
type Language string

const (
	// LangHindi is Hindi written in Devanagari script.
	LangHindi Language = "Hindi"

	// LangEnglish is English written in Latin script.
	LangEnglish Language = "English"

	// LangHinglish is Romanized Hindi: Hindi lexical content carried in
	// Latin script ("main aaj bahut khush hoon").
	LangHinglish Language = "Hinglish"
)

// IsValid reports whether l is a recognised language.
func (l Language) IsValid() bool {
	switch l {
	case LangHindi, LangEnglish, LangHinglish:
		return true
	}
	return false
}

// Detection is the combined script/language classification for one input.
// It is produced once per translation call and never persisted.
type Detection struct {
	Script   Script
	Language Language
}

// functionWords is a fixed closed set of very common English function words.
// The fraction of input tokens found in this set separates English from
// Romanized Hindi.
var functionWords = map[string]struct{}{
	"the": {}, "be": {}, "to": {}, "of": {}, "and": {}, "a": {}, "in": {},
	"that": {}, "have": {}, "i": {}, "it": {}, "for": {}, "not": {}, "on": {},
	"with": {}, "he": {}, "as": {}, "you": {}, "do": {}, "at": {}, "this": {},
	"but": {}, "his": {}, "by": {}, "from": {}, "they": {}, "we": {},
	"say": {}, "her": {}, "she": {}, "is": {}, "are": {}, "was": {}, "were": {},
}

// hinglishRatio is the function-word fraction below which Latin-script text
// is classified as Hinglish rather than English.
const hinglishRatio = 0.2

// nonWord matches every rune that is neither a word character nor whitespace.
// Stripped before tokenizing for language detection.
var nonWord = regexp.MustCompile(`[^\w\s]`)

// Detector classifies input text. The zero value is ready to use and safe
// for concurrent use; Detector holds no mutable state.
type Detector struct{}

// NewDetector returns a ready-to-use Detector.
func NewDetector() *Detector { return &Detector{} }

// DetectScript reports whether text is predominantly Devanagari or Latin.
// Devanagari wins only when its character count strictly exceeds the Latin
// letter count, so empty or symbol-only text comes back as Latin.
func (d *Detector) DetectScript(text string) Script {
	var devanagari, latin int
	for _, r := range text {
		switch {
		case r >= 0x0900 && r <= 0x097F:
			devanagari++
		case (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z'):
			latin++
		}
	}
	if devanagari > latin {
		return ScriptDevanagari
	}
	return ScriptLatin
}

// DetectLanguage classifies text as Hindi, English, or Hinglish.
//
// Devanagari-script text is Hindi unconditionally. Latin-script text is
// tokenized (punctuation stripped, lowercased) and classified by its
// function-word fraction: below 0.2 means Hinglish, otherwise English.
// Text with no tokens at all defaults to English.
func (d *Detector) DetectLanguage(text string) Language {
	if d.DetectScript(text) == ScriptDevanagari {
		return LangHindi
	}

	cleaned := nonWord.ReplaceAllString(strings.ToLower(text), "")
	words := strings.Fields(cleaned)
	if len(words) == 0 {
		return LangEnglish
	}

	var hits int
	for _, w := range words {
		if _, ok := functionWords[w]; ok {
			hits++
		}
	}
	if float64(hits)/float64(len(words)) < hinglishRatio {
		return LangHinglish
	}
	return LangEnglish
}

// Detect runs both classifications and returns the combined result.
func (d *Detector) Detect(text string) Detection {
	return Detection{
		Script:   d.DetectScript(text),
		Language: d.DetectLanguage(text),
	}
}
