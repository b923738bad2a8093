package bank

import (
	"fmt"
	"path"
	"sort"

	"github.com/dhl1626/maogai-quiz/internal/dialect"
)

// ManifestEntry tells the front-end how to load one chapter lazily.
type ManifestEntry struct {
	Index     int    `json:"index"`
	Title     string `json:"title"`
	File      string `json:"file"`
	GlobalVar string `json:"globalVar"`
}

// Naming controls chapter file names and load identifiers.
type Naming struct {
	Dir        string // directory prefix used in manifest file references
	FilePrefix string
	Ext        string
	VarPrefix  string
}

// DefaultNaming matches the quiz front-end: data/chapter_1.js loaded as
// window.chapterData_0.
func DefaultNaming() Naming {
	return Naming{
		Dir:        "data",
		FilePrefix: "chapter_",
		Ext:        "js",
		VarPrefix:  "chapterData_",
	}
}

// FileName is the chapter file name for position i (0-based). File numbers
// start at 1.
func (n Naming) FileName(i int) string {
	return fmt.Sprintf("%s%d.%s", n.FilePrefix, i+1, n.Ext)
}

// FileRef is the manifest file reference for position i.
func (n Naming) FileRef(i int) string {
	if n.Dir == "" {
		return n.FileName(i)
	}
	return path.Join(n.Dir, n.FileName(i))
}

// GlobalVar is the load identifier for position i.
func (n Naming) GlobalVar(i int) string {
	return fmt.Sprintf("%s%d", n.VarPrefix, i)
}

// Assemble drops chapters without questions, orders each chapter's
// questions by type (stable within a type) and builds the manifest. Indices
// refer to positions in the filtered list.
func Assemble(chapters []Chapter, naming Naming) (kept []Chapter, manifest []ManifestEntry, dropped int) {
	kept = make([]Chapter, 0, len(chapters))
	for _, ch := range chapters {
		if len(ch.Questions) == 0 {
			dropped++
			continue
		}
		qs := append([]Question(nil), ch.Questions...)
		SortQuestions(qs)
		kept = append(kept, Chapter{Title: ch.Title, Questions: qs})
	}

	manifest = make([]ManifestEntry, 0, len(kept))
	for i, ch := range kept {
		manifest = append(manifest, ManifestEntry{
			Index:     i,
			Title:     ch.Title,
			File:      naming.FileRef(i),
			GlobalVar: naming.GlobalVar(i),
		})
	}
	return kept, manifest, dropped
}

// SortQuestions stably orders qs single < multiple < true_false < material.
func SortQuestions(qs []Question) {
	sort.SliceStable(qs, func(i, j int) bool {
		return qs[i].Type.Rank() < qs[j].Type.Rank()
	})
}

// Book is the full result of converting one document.
type Book struct {
	Chapters []Chapter
	Manifest []ManifestEntry
	Report   Report
	Issues   []Issue
}

// QuestionCount returns the number of questions across all chapters.
func (b *Book) QuestionCount() int {
	n := 0
	for _, ch := range b.Chapters {
		n += len(ch.Questions)
	}
	return n
}

// Build parses paragraphs, assembles the chapters and checks them.
func Build(d *dialect.Dialect, paragraphs []string, naming Naming) *Book {
	chapters, report := Parse(d, paragraphs)
	kept, manifest, dropped := Assemble(chapters, naming)
	report.DroppedChapters = dropped
	return &Book{
		Chapters: kept,
		Manifest: manifest,
		Report:   report,
		Issues:   Validate(kept, d.Option.Letters),
	}
}
