package bank

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// Issue kinds reported by Validate.
const (
	IssueNoOptions     = "no_options"
	IssueNoAnswer      = "no_answer"
	IssueAnswerFormat  = "answer_format"
	IssueAnswerRange   = "answer_out_of_range"
	IssueUnresolvedTF  = "unresolved_true_false"
	issueExcerptLength = 30
)

// Issue is a data-quality finding worth a manual look. Issues never block
// output.
type Issue struct {
	Chapter  string       `json:"chapter"`
	Index    int          `json:"index"` // position within the chapter
	Type     QuestionType `json:"type"`
	Kind     string       `json:"kind"`
	Detail   string       `json:"detail"`
	Question string       `json:"question"` // leading excerpt
}

// Validate inspects finalized chapters. letters is the option lettering used
// to check choice answers.
func Validate(chapters []Chapter, letters string) []Issue {
	var issues []Issue
	for _, ch := range chapters {
		for i, q := range ch.Questions {
			add := func(kind, detail string) {
				issues = append(issues, Issue{
					Chapter:  ch.Title,
					Index:    i,
					Type:     q.Type,
					Kind:     kind,
					Detail:   detail,
					Question: excerpt(q.Question),
				})
			}

			if strings.TrimSpace(q.Answer) == "" {
				add(IssueNoAnswer, "answer is empty")
				continue
			}

			switch q.Type {
			case TypeSingle, TypeMultiple:
				if len(q.Options) == 0 {
					add(IssueNoOptions, "choice question has no options")
					continue
				}
				ans := strings.ToUpper(strings.TrimSpace(q.Answer))
				if q.Type == TypeSingle && (utf8.RuneCountInString(ans) != 1 || !strings.Contains(letters, ans)) {
					add(IssueAnswerFormat, fmt.Sprintf("single answer %q is not one option letter", q.Answer))
					continue
				}
				for _, r := range ans {
					pos := strings.IndexRune(letters, r)
					if pos >= len(q.Options) {
						add(IssueAnswerRange, fmt.Sprintf("answer %q refers to option %c of %d", q.Answer, r, len(q.Options)))
						break
					}
				}
			case TypeTrueFalse:
				if q.Unresolved {
					add(IssueUnresolvedTF, fmt.Sprintf("answer %q matched no true/false marker", q.Answer))
				}
			}
		}
	}
	return issues
}

func excerpt(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	if utf8.RuneCountInString(s) <= issueExcerptLength {
		return s
	}
	r := []rune(s)
	return string(r[:issueExcerptLength]) + "…"
}
