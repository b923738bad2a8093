package bank

import (
	"strings"
	"unicode/utf8"

	"github.com/dhl1626/maogai-quiz/internal/dialect"
)

// LineKind is the structural role of a normalized line.
type LineKind int

const (
	KindContinuation LineKind = iota
	KindChapter
	KindSection
	KindAnswer
	KindMaterialItem
	KindQuestion
	KindOption
)

func (k LineKind) String() string {
	switch k {
	case KindChapter:
		return "chapter"
	case KindSection:
		return "section"
	case KindAnswer:
		return "answer"
	case KindMaterialItem:
		return "material_item"
	case KindQuestion:
		return "question"
	case KindOption:
		return "option"
	default:
		return "continuation"
	}
}

// Line is a classified line.
type Line struct {
	Kind    LineKind
	Text    string       // the whole normalized line
	Payload string       // answer remainder or option text
	Section QuestionType // target section for KindSection

	// Raw is set when an option line matched but its text group did not
	// capture; Payload then holds the whole line.
	Raw bool
}

// Classifier assigns a LineKind to normalized lines using a dialect.
type Classifier struct {
	d *dialect.Dialect
	c *dialect.Compiled
}

// NewClassifier returns a classifier for d.
func NewClassifier(d *dialect.Dialect) *Classifier {
	return &Classifier{d: d, c: d.Compiled()}
}

// Classify decides the role of line given the current section and whether a
// question is in progress. Rules are tried in a fixed order and the first
// match wins.
func (cl *Classifier) Classify(line string, section QuestionType, inProgress bool) Line {
	out := Line{Kind: KindContinuation, Text: line}

	if cl.IsChapter(line) {
		out.Kind = KindChapter
		return out
	}

	if t, ok := cl.sectionOf(line); ok {
		out.Kind = KindSection
		out.Section = t
		return out
	}

	if m := cl.c.Answer.FindStringSubmatch(line); m != nil {
		out.Kind = KindAnswer
		if len(m) > 1 {
			out.Payload = m[1]
		}
		return out
	}

	// An item heading also opens the material section when the bank has no
	// separate "四、材料分析题" header.
	if cl.isMaterialItem(line) {
		out.Kind = KindMaterialItem
		out.Section = TypeMaterial
		return out
	}
	if section == TypeMaterial {
		return out
	}

	if cl.c.Question.MatchString(line) {
		out.Kind = KindQuestion
		return out
	}

	// A missing section falls back to single, so options still attach.
	if (section.HasOptions() || section == "") && inProgress {
		if text, raw, ok := cl.option(line); ok {
			out.Kind = KindOption
			out.Payload = text
			out.Raw = raw
		}
	}
	return out
}

// IsChapter reports whether line is a chapter heading.
func (cl *Classifier) IsChapter(line string) bool {
	for _, re := range cl.c.Chapters {
		if re.MatchString(line) {
			return true
		}
	}
	return false
}

// sectionOf recognizes short headings like "一、单选题" or "判断题".
func (cl *Classifier) sectionOf(line string) (QuestionType, bool) {
	if utf8.RuneCountInString(line) >= cl.d.Sections.MaxRunes {
		return "", false
	}
	// "材料分析题(一)" names an item, not a section.
	if cl.isMaterialItem(line) {
		return "", false
	}
	listed := cl.c.ListMarker != nil && cl.c.ListMarker.MatchString(line)
	for _, kw := range cl.d.Sections.Keywords {
		if !strings.Contains(line, kw.Keyword) {
			continue
		}
		if listed || strings.HasPrefix(line, kw.Keyword) {
			return QuestionType(kw.Type), true
		}
	}
	return "", false
}

func (cl *Classifier) isMaterialItem(line string) bool {
	return cl.c.MaterialItem != nil && cl.c.MaterialItem.MatchString(line)
}

// option extracts the text of an option line. raw is true when the pattern
// matched without capturing the text group.
func (cl *Classifier) option(line string) (text string, raw bool, ok bool) {
	idx := cl.c.Option.FindStringSubmatchIndex(line)
	if idx == nil {
		return "", false, false
	}
	if len(idx) < 6 || idx[4] < 0 {
		return line, true, true
	}
	return strings.TrimSpace(line[idx[4]:idx[5]]), false, true
}

// SplitOptions breaks a line holding several options ("A. 民主 B. 法治")
// into one line per option. Embedded letters must ascend from the leading
// one, so "B. 缺乏维生素 A. 的症状" stays whole. A later letter inside the
// text, as in "A. 维生素 C. 片", is still taken as an option boundary.
// Lines that are not option lines are returned unchanged.
func (cl *Classifier) SplitOptions(line string) []string {
	lead := cl.c.Option.FindStringSubmatch(line)
	if lead == nil || len(lead) < 2 || lead[1] == "" || cl.c.InlineOption == nil {
		return []string{line}
	}
	last, _ := utf8.DecodeRuneInString(lead[1])

	var cuts []int
	for _, m := range cl.c.InlineOption.FindAllStringSubmatchIndex(line, -1) {
		letter, _ := utf8.DecodeRuneInString(line[m[2]:m[3]])
		if letter <= last {
			continue
		}
		cuts = append(cuts, m[2])
		last = letter
	}
	if len(cuts) == 0 {
		return []string{line}
	}

	parts := make([]string, 0, len(cuts)+1)
	start := 0
	for _, cut := range cuts {
		if p := strings.TrimSpace(line[start:cut]); p != "" {
			parts = append(parts, p)
		}
		start = cut
	}
	if p := strings.TrimSpace(line[start:]); p != "" {
		parts = append(parts, p)
	}
	return parts
}
