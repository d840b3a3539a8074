// Package glossary loads a Source→Target term table and enforces it around
// translation.
//
// Enforcement is deliberately modest. Without token alignment between source
// and translation there is no reliable way to place a target term in the
// model output, so post-translation enforcement only recognises the
// degenerate "do not translate" case where source and target terms are the
// same string. The contract that matters to the orchestrator is stability:
// ApplyPre and ApplyPost never fail and always return a string.
package glossary

import (
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"regexp"
	"strings"
)

// Entry is one Source→Target term mapping in load order.
type Entry struct {
	Source string
	Target string
}

// Glossary holds the loaded term table. It is read-only after construction
// and safe for concurrent use.
type Glossary struct {
	entries []Entry
	// patterns[i] is the compiled whole-word case-insensitive matcher for
	// entries[i].Source.
	patterns []*regexp.Regexp
}

// New loads the glossary CSV at path. The file must have header columns
// named Source and Target; each row adds one mapping and later duplicate
// source terms overwrite earlier ones. Any load problem — missing file,
// missing columns, malformed CSV — logs a warning and yields an empty
// glossary rather than failing startup.
func New(path string) *Glossary {
	if path == "" {
		return &Glossary{}
	}
	g, err := load(path)
	if err != nil {
		slog.Warn("glossary unavailable, continuing without term enforcement", "path", path, "err", err)
		return &Glossary{}
	}
	slog.Debug("glossary loaded", "path", path, "terms", g.Len())
	return g
}

// NewWithEntries builds a Glossary directly from term pairs, keeping their
// order. Later duplicate source terms (case-insensitive) overwrite earlier
// ones. Intended for tests and programmatic construction.
func NewWithEntries(entries []Entry) *Glossary {
	g := &Glossary{}
	for _, e := range entries {
		g.put(e.Source, e.Target)
	}
	return g
}

func load(path string) (*Glossary, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("empty csv")
	}

	srcCol, tgtCol := -1, -1
	for i, name := range records[0] {
		switch strings.TrimSpace(name) {
		case "Source":
			srcCol = i
		case "Target":
			tgtCol = i
		}
	}
	if srcCol < 0 || tgtCol < 0 {
		return nil, fmt.Errorf("csv must have Source and Target columns, found %v", records[0])
	}

	g := &Glossary{}
	for _, row := range records[1:] {
		if srcCol >= len(row) || tgtCol >= len(row) {
			continue
		}
		src := strings.TrimSpace(row[srcCol])
		if src == "" {
			continue
		}
		g.put(src, strings.TrimSpace(row[tgtCol]))
	}
	return g, nil
}

// put inserts or overwrites one mapping, keeping first-seen order for
// overwritten terms.
func (g *Glossary) put(source, target string) {
	for i, e := range g.entries {
		if strings.EqualFold(e.Source, source) {
			g.entries[i] = Entry{Source: source, Target: target}
			g.patterns[i] = wholeWord(source)
			return
		}
	}
	g.entries = append(g.entries, Entry{Source: source, Target: target})
	g.patterns = append(g.patterns, wholeWord(source))
}

// wholeWord compiles a case-insensitive whole-word matcher for term.
func wholeWord(term string) *regexp.Regexp {
	return regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(term) + `\b`)
}

// Len reports the number of loaded term mappings.
func (g *Glossary) Len() int { return len(g.entries) }

// Entries returns the term mappings in load order. The returned slice must
// not be modified.
func (g *Glossary) Entries() []Entry { return g.entries }

// ApplyPre is the reserved pre-translation protection hook. The current
// contract is identity: the text is returned unchanged with an empty marker
// list. Future implementations may mask protected terms and return markers
// describing the masking; callers that ignore the markers stay correct.
func (g *Glossary) ApplyPre(text string) (string, []string) {
	return text, nil
}

// ApplyPost enforces glossary terms in translated output, using source (the
// original untouched input) as the alignment reference. For every term whose
// Source appears as a whole word in source, the Target term should appear in
// the output — but without word alignment the only case that can be honoured
// safely is the identity mapping ("bank" → "bank", meaning do not translate
// this term), and even there the model's rendering of the term cannot be
// located in the output, so no text is modified. ApplyPost never fails and
// always returns the (possibly unchanged) translation.
func (g *Glossary) ApplyPost(translated, source string) string {
	for i, e := range g.entries {
		if !g.patterns[i].MatchString(source) {
			continue
		}
		if strings.EqualFold(e.Source, e.Target) {
			// Do-not-translate term. Whatever the model produced for it is
			// unknown without alignment, so the output stays as-is.
			if !wholeWord(e.Target).MatchString(translated) {
				slog.Debug("glossary term missing from output", "term", e.Target)
			}
			continue
		}
		// Cross-language term pair: placement needs alignment we do not have.
	}
	return translated
}

// SimpleReplace performs an unconditional whole-word, case-insensitive
// replacement of every Source term with its Target term. It is a standalone
// utility for callers that want forced vocabulary; the orchestrator does not
// invoke it automatically.
func (g *Glossary) SimpleReplace(text string) string {
	for i, e := range g.entries {
		text = g.patterns[i].ReplaceAllString(text, e.Target)
	}
	return text
}
