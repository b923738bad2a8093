package output

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/dhl1626/maogai-quiz/internal/bank"
)

// ReadChapter loads a chapter file written in the js or json format.
// Script files are unwrapped from their "window.X = ...;" assignment.
func ReadChapter(path string) (bank.Chapter, error) {
	var ch bank.Chapter
	data, err := os.ReadFile(path)
	if err != nil {
		return ch, fmt.Errorf("read chapter: %w", err)
	}
	if err := json.Unmarshal(unwrapAssignment(data), &ch); err != nil {
		return ch, fmt.Errorf("decode chapter %s: %w", path, err)
	}
	return ch, nil
}

// unwrapAssignment strips a leading "name = " and a trailing ";" from a
// script file. Plain JSON passes through.
func unwrapAssignment(data []byte) []byte {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && (data[0] == '{' || data[0] == '[') {
		return data
	}
	if i := bytes.IndexByte(data, '='); i >= 0 {
		data = data[i+1:]
	}
	data = bytes.TrimSpace(data)
	data = bytes.TrimSuffix(data, []byte(";"))
	return bytes.TrimSpace(data)
}

// Summary describes one chapter file for a quick sanity check.
type Summary struct {
	Title  string
	Total  int
	ByType map[bank.QuestionType]int

	// SingleNumbers are the leading numbers of single-choice questions,
	// sorted, so gaps in the source numbering stand out.
	SingleNumbers []int
}

// Summarize counts a chapter's questions by type.
func Summarize(ch bank.Chapter) Summary {
	s := Summary{
		Title:  ch.Title,
		Total:  len(ch.Questions),
		ByType: make(map[bank.QuestionType]int),
	}
	for _, q := range ch.Questions {
		s.ByType[q.Type]++
		if q.Type != bank.TypeSingle {
			continue
		}
		if n, ok := leadingNumber(q.Question); ok {
			s.SingleNumbers = append(s.SingleNumbers, n)
		}
	}
	sort.Ints(s.SingleNumbers)
	return s
}

// leadingNumber parses the "12" of "12. ..." or "12、...".
func leadingNumber(question string) (int, bool) {
	for _, sep := range []string{".", "、"} {
		head, _, found := strings.Cut(question, sep)
		if !found {
			continue
		}
		if n, err := strconv.Atoi(strings.TrimSpace(head)); err == nil {
			return n, true
		}
	}
	return 0, false
}

// maxGapSpan bounds how many numbers one jump may report as missing.
// Larger jumps come from stray numbers such as years in question text.
const maxGapSpan = 50

// Gaps returns the numbers missing between the first and last single
// choice number. A jump of more than maxGapSpan numbers is skipped.
func (s Summary) Gaps() []int {
	var gaps []int
	for i := 1; i < len(s.SingleNumbers); i++ {
		if s.SingleNumbers[i]-s.SingleNumbers[i-1]-1 > maxGapSpan {
			continue
		}
		for n := s.SingleNumbers[i-1] + 1; n < s.SingleNumbers[i]; n++ {
			gaps = append(gaps, n)
		}
	}
	return gaps
}
