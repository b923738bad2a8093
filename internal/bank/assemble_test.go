package bank

import (
	"testing"

	"github.com/dhl1626/maogai-quiz/internal/dialect"
)

func TestAssemble_DropsEmptyAndIndexesFiltered(t *testing.T) {
	chapters := []Chapter{
		{Title: "绪论/未分类", Questions: []Question{}},
		{Title: "第一章", Questions: []Question{{Type: TypeSingle, Question: "1. a"}}},
		{Title: "第二章", Questions: nil},
		{Title: "第三章", Questions: []Question{{Type: TypeMaterial, Question: "m"}}},
	}
	kept, manifest, dropped := Assemble(chapters, DefaultNaming())

	if dropped != 2 {
		t.Errorf("expected 2 dropped chapters, got %d", dropped)
	}
	if len(kept) != 2 || len(manifest) != 2 {
		t.Fatalf("expected 2 chapters and 2 manifest entries, got %d and %d", len(kept), len(manifest))
	}
	for _, ch := range kept {
		if len(ch.Questions) == 0 {
			t.Errorf("chapter %q has no questions", ch.Title)
		}
	}

	want := []ManifestEntry{
		{Index: 0, Title: "第一章", File: "data/chapter_1.js", GlobalVar: "chapterData_0"},
		{Index: 1, Title: "第三章", File: "data/chapter_2.js", GlobalVar: "chapterData_1"},
	}
	for i, w := range want {
		if manifest[i] != w {
			t.Errorf("manifest[%d]: expected %+v, got %+v", i, w, manifest[i])
		}
		if kept[manifest[i].Index].Title != manifest[i].Title {
			t.Errorf("manifest[%d] title does not match chapter", i)
		}
	}
}

func TestAssemble_StableTypeOrder(t *testing.T) {
	qs := []Question{
		{Type: TypeMaterial, Question: "m1"},
		{Type: TypeTrueFalse, Question: "t1"},
		{Type: TypeSingle, Question: "s1"},
		{Type: TypeMultiple, Question: "x1"},
		{Type: TypeSingle, Question: "s2"},
		{Type: TypeTrueFalse, Question: "t2"},
		{Type: TypeSingle, Question: "s3"},
	}
	kept, _, _ := Assemble([]Chapter{{Title: "c", Questions: qs}}, DefaultNaming())
	got := kept[0].Questions

	wantOrder := []string{"s1", "s2", "s3", "x1", "t1", "t2", "m1"}
	for i, w := range wantOrder {
		if got[i].Question != w {
			t.Errorf("position %d: expected %q, got %q", i, w, got[i].Question)
		}
	}
	for i := 1; i < len(got); i++ {
		if got[i-1].Type.Rank() > got[i].Type.Rank() {
			t.Errorf("type order decreases at %d", i)
		}
	}
	// Input must not be reordered.
	if qs[0].Question != "m1" {
		t.Error("expected Assemble to leave its input untouched")
	}
}

func TestNaming(t *testing.T) {
	n := Naming{FilePrefix: "chapter_", Ext: "json", VarPrefix: "ch"}
	if n.FileRef(2) != "chapter_3.json" {
		t.Errorf("unexpected file ref %q", n.FileRef(2))
	}
	if n.GlobalVar(2) != "ch2" {
		t.Errorf("unexpected global var %q", n.GlobalVar(2))
	}
}

func TestBuild_EndToEnd(t *testing.T) {
	paragraphs := []string{
		"第一章 总论",
		"三、判断题",
		"1. 判断一",
		"答案：正确",
		"一、单选题",
		"1. 单选一",
		"A. 甲",
		"B. 乙",
		"答案：B",
		"第二章 空",
		"第三章 材料",
		"四、材料分析题",
		"材料分析题（一）",
		"材料内容",
		"答案：要点",
	}
	book := Build(dialect.Default(), paragraphs, DefaultNaming())

	if len(book.Chapters) != 2 {
		t.Fatalf("expected 2 chapters, got %d", len(book.Chapters))
	}
	if book.Report.DroppedChapters != 1 {
		t.Errorf("expected 1 dropped chapter, got %d", book.Report.DroppedChapters)
	}
	first := book.Chapters[0].Questions
	if first[0].Type != TypeSingle || first[1].Type != TypeTrueFalse {
		t.Errorf("expected single before true_false, got %s, %s", first[0].Type, first[1].Type)
	}
	if book.Manifest[1].Title != "第三章 材料" || book.Manifest[1].GlobalVar != "chapterData_1" {
		t.Errorf("unexpected manifest entry %+v", book.Manifest[1])
	}
	if book.QuestionCount() != 3 {
		t.Errorf("expected 3 questions, got %d", book.QuestionCount())
	}
	if len(book.Issues) != 0 {
		t.Errorf("expected no issues, got %+v", book.Issues)
	}
}
