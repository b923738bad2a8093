package bank

import (
	"sort"
	"strings"
	"unicode"

	"github.com/dhl1626/maogai-quiz/internal/dialect"
)

// Canonicalizer rewrites a finished question's answer into the form the quiz
// front-end expects for its type.
type Canonicalizer struct {
	Letters   string
	TrueFalse dialect.TrueFalseConfig
}

// NewCanonicalizer returns a canonicalizer configured from d.
func NewCanonicalizer(d *dialect.Dialect) Canonicalizer {
	return Canonicalizer{
		Letters:   d.Option.Letters,
		TrueFalse: d.TrueFalse,
	}
}

// Canonicalize updates q in place. It is called exactly once per question.
// missingType is true when q had no type and was defaulted to single.
func (c Canonicalizer) Canonicalize(q *Question) (missingType bool) {
	if q.Type == "" {
		q.Type = TypeSingle
		missingType = true
	}

	switch q.Type {
	case TypeMultiple:
		q.Answer = CanonicalMultiple(q.Answer, c.Letters)
	case TypeTrueFalse:
		ans, ok := CanonicalTrueFalse(q.Answer, c.TrueFalse)
		q.Answer = ans
		q.Unresolved = !ok
	case TypeMaterial:
		q.Question = strings.TrimSpace(q.Question)
		q.Answer = strings.TrimSpace(q.Answer)
	}
	return missingType
}

// CanonicalMultiple uppercases raw, keeps only runes in letters and sorts
// them. Repeated letters are kept: "b a a" becomes "AAB".
func CanonicalMultiple(raw, letters string) string {
	var kept []rune
	for _, r := range strings.ToUpper(raw) {
		if unicode.IsSpace(r) {
			continue
		}
		if strings.ContainsRune(letters, r) {
			kept = append(kept, r)
		}
	}
	sort.Slice(kept, func(i, j int) bool { return kept[i] < kept[j] })
	return string(kept)
}

// CanonicalTrueFalse maps raw onto the configured true/false values. False
// markers are checked first. ok is false when no marker matched, in which
// case raw is returned unchanged.
func CanonicalTrueFalse(raw string, cfg dialect.TrueFalseConfig) (answer string, ok bool) {
	if containsAny(raw, cfg.FalseMarkers) {
		return cfg.FalseValue, true
	}
	if containsAny(raw, cfg.TrueMarkers) {
		return cfg.TrueValue, true
	}
	return raw, false
}

func containsAny(s string, markers []string) bool {
	for _, m := range markers {
		if m != "" && strings.Contains(s, m) {
			return true
		}
	}
	return false
}
