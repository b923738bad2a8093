package bank

import (
	"strings"

	"github.com/dhl1626/maogai-quiz/internal/dialect"
	"github.com/dhl1626/maogai-quiz/internal/textnorm"
)

// Parser is the line state machine. It owns the open chapter, the current
// section and the question being built. A Parser is used for one document.
type Parser struct {
	d     *dialect.Dialect
	norm  *textnorm.Normalizer
	cls   *Classifier
	canon Canonicalizer

	chapters []*Chapter
	chapter  *Chapter
	section  QuestionType
	current  *Question
	report   Report
	finished bool
}

// NewParser returns a parser for documents written in dialect d.
func NewParser(d *dialect.Dialect) *Parser {
	return &Parser{
		d:       d,
		norm:    textnorm.New(d.Fold),
		cls:     NewClassifier(d),
		canon:   NewCanonicalizer(d),
		section: QuestionType(d.DefaultSection),
	}
}

// Parse runs a parser over paragraphs and returns the chapters found,
// including empty ones, in document order.
func Parse(d *dialect.Dialect, paragraphs []string) ([]Chapter, Report) {
	p := NewParser(d)
	for _, para := range paragraphs {
		p.Feed(para)
	}
	return p.Finish()
}

// Feed normalizes one raw paragraph and applies it. Blank paragraphs are
// ignored.
func (p *Parser) Feed(raw string) {
	p.report.Paragraphs++
	line := p.norm.Normalize(raw)
	if line == "" {
		return
	}
	p.report.Lines++

	l := p.cls.Classify(line, p.section, p.current != nil)
	if l.Kind == KindOption && p.d.Option.SplitInline {
		if parts := p.cls.SplitOptions(line); len(parts) > 1 {
			p.report.SplitOptionLines++
			for _, part := range parts {
				p.Apply(p.cls.Classify(part, p.section, p.current != nil))
			}
			return
		}
	}
	p.Apply(l)
}

// Apply performs the transition for one classified line.
func (p *Parser) Apply(l Line) {
	if l.Kind == KindChapter {
		p.finalize()
		p.chapter = &Chapter{Title: l.Text, Questions: []Question{}}
		p.chapters = append(p.chapters, p.chapter)
		p.section = TypeSingle
		return
	}
	p.ensureChapter()

	switch l.Kind {
	case KindSection:
		p.finalize()
		p.section = l.Section

	case KindAnswer:
		if p.current == nil {
			p.report.UnattachedLines++
			return
		}
		if p.section == TypeMaterial {
			p.current.Answer += l.Payload + "\n"
			p.current.inAnswerBlock = true
		} else {
			p.current.Answer = strings.TrimSpace(l.Payload)
		}

	case KindMaterialItem:
		p.finalize()
		p.section = TypeMaterial
		p.current = newQuestion(TypeMaterial, l.Text+"\n")

	case KindQuestion:
		p.finalize()
		p.current = newQuestion(p.section, l.Text)

	case KindOption:
		if p.current == nil {
			p.report.UnattachedLines++
			return
		}
		if l.Raw {
			p.report.RawOptions++
		}
		p.current.Options = append(p.current.Options, l.Payload)

	default:
		p.continueLine(l.Text)
	}
}

// continueLine attaches a line to the most recently open field.
func (p *Parser) continueLine(text string) {
	q := p.current
	switch {
	case q == nil:
		if p.section == TypeMaterial && p.d.Material.ImplicitStart {
			p.current = newQuestion(TypeMaterial, text+"\n")
			return
		}
		p.report.UnattachedLines++
	case q.inAnswerBlock:
		q.Answer += text + "\n"
	case q.Type == TypeMaterial:
		q.Question += text + "\n"
	case len(q.Options) > 0:
		q.Options[len(q.Options)-1] += " " + text
	default:
		q.Question += "\n" + text
	}
}

// ensureChapter opens the unclassified bucket for content that precedes
// the first chapter heading.
func (p *Parser) ensureChapter() {
	if p.chapter != nil {
		return
	}
	p.chapter = &Chapter{Title: p.d.UnclassifiedTitle, Questions: []Question{}}
	p.chapters = append(p.chapters, p.chapter)
}

// finalize canonicalizes the question in progress and files it under the
// open chapter.
func (p *Parser) finalize() {
	q := p.current
	if q == nil {
		return
	}
	p.current = nil
	p.ensureChapter()

	if p.canon.Canonicalize(q) {
		p.report.MissingType++
	}
	if q.Unresolved {
		p.report.Unresolved++
	}
	q.inAnswerBlock = false
	p.chapter.Questions = append(p.chapter.Questions, *q)
}

// Finish finalizes the last question and returns every chapter seen.
// Further calls return the same result.
func (p *Parser) Finish() ([]Chapter, Report) {
	if !p.finished {
		p.finalize()
		p.finished = true
	}
	out := make([]Chapter, 0, len(p.chapters))
	for _, ch := range p.chapters {
		out = append(out, *ch)
	}
	return out, p.report
}

// Section returns the current section marker.
func (p *Parser) Section() QuestionType {
	return p.section
}
