// Package inspect helps tune a dialect against a new source document by
// listing the lines that look structural.
package inspect

import (
	"strings"
	"unicode/utf8"
)

// MaxHeaderRunes is the length below which a line may be a header.
const MaxHeaderRunes = 20

// DefaultMarkers are the substrings that flag a line as structural.
var DefaultMarkers = []string{"单选题", "多选题", "判断题", "简答题", "填空题", "材料分析", "一、", "二、", "三、", "四、"}

// Line is one line of the stream with its position.
type Line struct {
	Index int    `json:"index"`
	Text  string `json:"text"`
}

// Structure returns the short lines that contain any marker.
func Structure(lines, markers []string) []Line {
	var out []Line
	for i, line := range lines {
		text := strings.TrimSpace(line)
		if isShort(text) && containsAny(text, markers) {
			out = append(out, Line{Index: i, Text: text})
		}
	}
	return out
}

// Excerpt is a header together with the lines that follow it.
type Excerpt struct {
	Header Line   `json:"header"`
	Lines  []Line `json:"lines"`
}

// After finds the first short line containing keyword and returns it with
// up to n following lines. A later matching header restarts the window.
func After(lines []string, keyword string, n int) (Excerpt, bool) {
	var ex Excerpt
	found := false
	for i, line := range lines {
		text := strings.TrimSpace(line)
		if isShort(text) && strings.Contains(text, keyword) {
			ex = Excerpt{Header: Line{Index: i, Text: text}}
			found = true
			continue
		}
		if !found {
			continue
		}
		ex.Lines = append(ex.Lines, Line{Index: i, Text: text})
		if len(ex.Lines) >= n {
			break
		}
	}
	return ex, found
}

func isShort(s string) bool {
	return s != "" && utf8.RuneCountInString(s) < MaxHeaderRunes
}

func containsAny(s string, markers []string) bool {
	for _, m := range markers {
		if m != "" && strings.Contains(s, m) {
			return true
		}
	}
	return false
}
