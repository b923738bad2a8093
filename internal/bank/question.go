// Package bank turns a normalized paragraph stream into chapters of typed
// quiz questions. It is a single synchronous pass with no I/O; soft failures
// are counted in a Report instead of being returned as errors.
package bank

import "github.com/dhl1626/maogai-quiz/internal/dialect"

// QuestionType is the kind of a question and of the section it came from.
type QuestionType string

const (
	TypeSingle    QuestionType = dialect.TypeSingle
	TypeMultiple  QuestionType = dialect.TypeMultiple
	TypeTrueFalse QuestionType = dialect.TypeTrueFalse
	TypeMaterial  QuestionType = dialect.TypeMaterial
)

var typeRank = map[QuestionType]int{
	TypeSingle:    0,
	TypeMultiple:  1,
	TypeTrueFalse: 2,
	TypeMaterial:  3,
}

// Rank orders question types within a chapter. Unknown types sort last.
func (t QuestionType) Rank() int {
	if r, ok := typeRank[t]; ok {
		return r
	}
	return len(typeRank)
}

// HasOptions reports whether questions of this type carry lettered options.
func (t QuestionType) HasOptions() bool {
	return t == TypeSingle || t == TypeMultiple
}

// Question is one quiz item. Options are ordered by their source letter.
type Question struct {
	Type     QuestionType `json:"type"`
	Question string       `json:"question"`
	Options  []string     `json:"options"`
	Answer   string       `json:"answer"`

	// Unresolved marks a true/false answer that matched no marker and
	// needs manual review.
	Unresolved bool `json:"unresolved,omitempty"`

	// Internal: material questions switch to answer lines after "答案:".
	inAnswerBlock bool
}

func newQuestion(t QuestionType, text string) *Question {
	return &Question{
		Type:     t,
		Question: text,
		Options:  []string{},
	}
}

// Chapter is a titled group of questions.
type Chapter struct {
	Title     string     `json:"title"`
	Questions []Question `json:"questions"`
}
