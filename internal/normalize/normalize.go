// Package normalize rewrites informal "chat style" tokens to their formal
// equivalents before translation.
//
// The slang map is loaded once at startup from a JSON file and is read-only
// afterwards, so lookups need no locking. A small inline default map keeps
// the pipeline functional when no file is configured.
package normalize

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"unicode"
	"unicode/utf8"
)

// defaultSlangMap is the built-in fallback used when no slang map file is
// available. Keys are lowercase informal tokens.
func defaultSlangMap() map[string]string {
	return map[string]string{
		"bindass": "carefree",
		"jugaad":  "hack",
		"sem":     "semester",
		"prof":    "professor",
	}
}

// trailingPunct is stripped from tokens before the map lookup. The original
// punctuation stays attached to tokens that are not replaced.
const trailingPunct = ".,!?"

// Normalizer replaces known slang tokens with formal replacements.
// It is safe for concurrent use once constructed.
type Normalizer struct {
	slang map[string]string
}

// New returns a Normalizer backed by the slang map at path. An empty path,
// a missing file, or malformed JSON all degrade to the inline default map
// with a warning — slang normalization is never a startup failure.
func New(path string) *Normalizer {
	if path == "" {
		return &Normalizer{slang: defaultSlangMap()}
	}
	m, err := loadSlangMap(path)
	if err != nil {
		slog.Warn("slang map unavailable, using inline default", "path", path, "err", err)
		return &Normalizer{slang: defaultSlangMap()}
	}
	slog.Debug("slang map loaded", "path", path, "entries", len(m))
	return &Normalizer{slang: m}
}

// NewWithMap returns a Normalizer over an explicit token map. Keys are
// lowercased on insertion. Intended for tests and embedding callers.
func NewWithMap(m map[string]string) *Normalizer {
	slang := make(map[string]string, len(m))
	for k, v := range m {
		slang[strings.ToLower(k)] = v
	}
	return &Normalizer{slang: slang}
}

// loadSlangMap reads a JSON object of informal → formal token mappings.
func loadSlangMap(path string) (map[string]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var m map[string]string
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse %q: %w", path, err)
	}
	lowered := make(map[string]string, len(m))
	for k, v := range m {
		lowered[strings.ToLower(k)] = v
	}
	return lowered, nil
}

// Len reports the number of entries in the active slang map.
func (n *Normalizer) Len() int { return len(n.slang) }

// NormalizeSlang replaces each slang token in text with its formal
// replacement. Matching is case-insensitive and ignores trailing
// punctuation; a replacement is capitalized when the original token started
// with an uppercase letter. Unmatched tokens are kept verbatim, punctuation
// included. Tokens are re-joined with single spaces.
func (n *Normalizer) NormalizeSlang(text string) string {
	words := strings.Fields(text)
	out := make([]string, 0, len(words))
	for _, word := range words {
		key := strings.ToLower(strings.TrimRight(word, trailingPunct))
		replacement, ok := n.slang[key]
		if !ok {
			out = append(out, word)
			continue
		}
		if first, _ := utf8.DecodeRuneInString(word); unicode.IsUpper(first) {
			replacement = capitalize(replacement)
		}
		out = append(out, replacement)
	}
	return strings.Join(out, " ")
}

// capitalize uppercases the first rune of s.
func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError && size <= 1 {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}
