package parser

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestForFile(t *testing.T) {
	tests := []struct {
		filename string
		wantErr  bool
	}{
		{"bank.docx", false},
		{"bank.DOCX", false},
		{"bank.txt", false},
		{"bank.md", false},
		{"bank.markdown", false},
		{"bank.html", false},
		{"bank.htm", false},
		{"bank.pdf", false},
		{"bank.csv", false},
		{"bank.doc", true},
		{"bank", true},
	}
	for _, tt := range tests {
		p, err := ForFile(tt.filename, Options{})
		if tt.wantErr {
			if err == nil {
				t.Errorf("%s: expected error", tt.filename)
			}
			continue
		}
		if err != nil || p == nil {
			t.Errorf("%s: unexpected error %v", tt.filename, err)
		}
		if IsSupportedExtension(tt.filename) == tt.wantErr {
			t.Errorf("%s: IsSupportedExtension disagrees with ForFile", tt.filename)
		}
	}
}

func TestForFile_PDFFallbackOption(t *testing.T) {
	p, err := ForFile("x.pdf", Options{PDFFallbackPdftotext: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	pdf, ok := p.(*PDFParser)
	if !ok || !pdf.FallbackPdftotext {
		t.Errorf("expected PDF parser with fallback enabled, got %#v", p)
	}
}

func TestHTMLParser(t *testing.T) {
	input := `<html><head><title>毛概题库</title><style>p{}</style></head>
<body>
<h2>第一章 总论</h2>
<p>一、单选题</p>
<p>1. 题干<br>A. 甲 B. 乙</p>
<ul><li><p>答案：A</p></li></ul>
<table><tr><td>2. 第二题</td><td></td></tr></table>
<script>var x = 1;</script>
</body></html>`

	p := &HTMLParser{}
	doc, err := p.Parse(strings.NewReader(input), "bank.html")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if doc.Title != "毛概题库" {
		t.Errorf("expected title from <title>, got %q", doc.Title)
	}
	assertParagraphs(t, trimAll(doc.Paragraphs), []string{
		"第一章 总论",
		"一、单选题",
		"1. 题干",
		"A. 甲 B. 乙",
		"答案：A",
		"2. 第二题",
	})
}

func TestHTMLParser_TitleFallsBackToFilename(t *testing.T) {
	p := &HTMLParser{}
	doc, err := p.Parse(strings.NewReader("<p>x</p>"), "bank.htm")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if doc.Title != "bank" {
		t.Errorf("expected %q, got %q", "bank", doc.Title)
	}
}

func TestCSVParser(t *testing.T) {
	input := "1. 题干,\"A. 甲\nB. 乙\"\n答案：A\n,\n"

	p := &CSVParser{}
	doc, err := p.Parse(strings.NewReader(input), "bank.csv")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assertParagraphs(t, trimAll(doc.Paragraphs), []string{"1. 题干", "A. 甲", "B. 乙", "答案：A"})
}

func TestAddTextLines_FormFeed(t *testing.T) {
	p := &TextParser{}
	doc, _ := p.Parse(strings.NewReader(""), "x.txt")
	addTextLines(doc, "第一页\r\n\f第二页\n\n")
	assertParagraphs(t, doc.Paragraphs, []string{"第一页", "第二页"})
}

func TestFindSource(t *testing.T) {
	dir := t.TempDir()
	other := t.TempDir()
	for _, name := range []string{"~$毛概期末.docx", "毛概期末.txt.bak", "notes.docx", "毛概期末题库.docx"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	// Directories with a matching name are not candidates.
	if err := os.Mkdir(filepath.Join(dir, "毛概期末.docx"), 0o755); err != nil {
		t.Fatal(err)
	}

	got, err := FindSource([]string{filepath.Join(other, "missing"), other, dir}, []string{"毛概", "期末"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want := filepath.Join(dir, "毛概期末题库.docx"); got != want {
		t.Errorf("expected %q, got %q", want, got)
	}

	got, err = FindSource([]string{dir}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if filepath.Base(got) != "notes.docx" {
		t.Errorf("expected first supported file by name, got %q", got)
	}
}

func TestFindSource_NoMatch(t *testing.T) {
	_, err := FindSource([]string{t.TempDir()}, []string{"毛概"})
	if !errors.Is(err, ErrNoSource) {
		t.Errorf("expected ErrNoSource, got %v", err)
	}
}

func trimAll(in []string) []string {
	out := make([]string, len(in))
	for i, s := range in {
		out[i] = strings.TrimSpace(s)
	}
	return out
}
