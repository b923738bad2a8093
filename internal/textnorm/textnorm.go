// Package textnorm canonicalizes punctuation and whitespace in a single line.
package textnorm

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/width"
)

// DefaultFold is the set of full-width runes folded when none is configured.
const DefaultFold = "（）：．"

// Normalizer folds selected full-width punctuation to half-width, drops
// invisible format runes and collapses whitespace. The zero value folds
// nothing; use New.
type Normalizer struct {
	fold   map[rune]rune
	strip  transform.Transformer
	mapper transform.Transformer
}

// New returns a Normalizer folding every rune in fold.
func New(fold string) *Normalizer {
	n := &Normalizer{fold: make(map[rune]rune)}
	for _, r := range fold {
		if narrow := width.LookupRune(r).Narrow(); narrow != 0 {
			n.fold[r] = narrow
		}
	}
	// Zero-width joiners, BOMs and similar runes leak out of word processors.
	n.strip = runes.Remove(runes.In(unicode.Cf))
	n.mapper = runes.Map(func(r rune) rune {
		if to, ok := n.fold[r]; ok {
			return to
		}
		return r
	})
	return n
}

// Normalize returns the canonical form of line. It is idempotent.
func (n *Normalizer) Normalize(line string) string {
	if n.strip != nil {
		// Chain is stateful, so build one per call.
		if out, _, err := transform.String(transform.Chain(n.strip, n.mapper), line); err == nil {
			line = out
		}
	}
	return strings.Join(strings.Fields(line), " ")
}

// Lines normalizes every paragraph and drops the ones left empty.
func (n *Normalizer) Lines(paragraphs []string) []string {
	out := make([]string, 0, len(paragraphs))
	for _, p := range paragraphs {
		if line := n.Normalize(p); line != "" {
			out = append(out, line)
		}
	}
	return out
}
