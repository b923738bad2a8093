package bank

import (
	"reflect"
	"strings"
	"testing"

	"github.com/dhl1626/maogai-quiz/internal/dialect"
)

func parseLines(t *testing.T, lines ...string) ([]Chapter, Report) {
	t.Helper()
	return Parse(dialect.Default(), lines)
}

func TestParse_SingleChoiceScenario(t *testing.T) {
	chapters, report := parseLines(t,
		"第一章 总论",
		"一、单选题",
		"1. 中国特色社会主义的本质属性是?",
		"A. 民主",
		"B. 法治",
		"C. 共同富裕",
		"D. 改革",
		"答案：C",
	)

	if len(chapters) != 1 {
		t.Fatalf("expected 1 chapter, got %d", len(chapters))
	}
	ch := chapters[0]
	if ch.Title != "第一章 总论" {
		t.Errorf("expected title %q, got %q", "第一章 总论", ch.Title)
	}
	if len(ch.Questions) != 1 {
		t.Fatalf("expected 1 question, got %d", len(ch.Questions))
	}
	q := ch.Questions[0]
	if q.Type != TypeSingle {
		t.Errorf("expected type %q, got %q", TypeSingle, q.Type)
	}
	if q.Question != "1. 中国特色社会主义的本质属性是?" {
		t.Errorf("unexpected question text %q", q.Question)
	}
	wantOpts := []string{"民主", "法治", "共同富裕", "改革"}
	if !reflect.DeepEqual(q.Options, wantOpts) {
		t.Errorf("expected options %v, got %v", wantOpts, q.Options)
	}
	if q.Answer != "C" {
		t.Errorf("expected answer %q, got %q", "C", q.Answer)
	}
	if !report.Clean() {
		t.Errorf("expected clean report, got %+v", report)
	}
}

func TestParse_MultipleAndTrueFalse(t *testing.T) {
	chapters, _ := parseLines(t,
		"第二章 新民主主义革命",
		"二、多选题",
		"1、以下正确的有",
		"A、甲",
		"B、乙",
		"C、丙",
		"答案：c a",
		"三、判断题",
		"1. 这是对的。",
		"答案：√",
		"2. 这是错的。",
		"答案：×",
	)
	qs := chapters[0].Questions
	if len(qs) != 3 {
		t.Fatalf("expected 3 questions, got %d", len(qs))
	}
	if qs[0].Type != TypeMultiple || qs[0].Answer != "AC" {
		t.Errorf("expected multiple AC, got %s %q", qs[0].Type, qs[0].Answer)
	}
	if qs[1].Type != TypeTrueFalse || qs[1].Answer != "正确" {
		t.Errorf("expected true_false 正确, got %s %q", qs[1].Type, qs[1].Answer)
	}
	if qs[2].Answer != "错误" {
		t.Errorf("expected 错误, got %q", qs[2].Answer)
	}
	if len(qs[1].Options) != 0 {
		t.Errorf("expected no options for true_false, got %v", qs[1].Options)
	}
}

func TestParse_MaterialQuestion(t *testing.T) {
	chapters, report := parseLines(t,
		"第三章 社会主义改造",
		"四、材料分析题",
		"材料分析题（一）",
		"材料1：阅读以下材料。",
		"请回答问题。",
		"答案要点：第一点",
		"第二点",
		"第三点",
	)
	qs := chapters[0].Questions
	if len(qs) != 1 {
		t.Fatalf("expected 1 question, got %d", len(qs))
	}
	q := qs[0]
	if q.Type != TypeMaterial {
		t.Fatalf("expected material, got %s", q.Type)
	}
	wantQ := "材料分析题(一)\n材料1:阅读以下材料。\n请回答问题。"
	if q.Question != wantQ {
		t.Errorf("question:\n got %q\nwant %q", q.Question, wantQ)
	}
	wantA := "第一点\n第二点\n第三点"
	if q.Answer != wantA {
		t.Errorf("answer:\n got %q\nwant %q", q.Answer, wantA)
	}
	if report.UnattachedLines != 0 {
		t.Errorf("expected no unattached lines, got %d", report.UnattachedLines)
	}
}

func TestParse_MaterialItemsSplitQuestions(t *testing.T) {
	chapters, _ := parseLines(t,
		"第一章 总论",
		"四、材料分析题",
		"材料分析题(一)",
		"材料甲",
		"答案:要点甲",
		"材料分析题(二)",
		"材料乙",
		"答案:要点乙",
	)
	qs := chapters[0].Questions
	if len(qs) != 2 {
		t.Fatalf("expected 2 material questions, got %d", len(qs))
	}
	if qs[1].Question != "材料分析题(二)\n材料乙" || qs[1].Answer != "要点乙" {
		t.Errorf("unexpected second item %+v", qs[1])
	}
}

func TestParse_ContinuationLines(t *testing.T) {
	chapters, _ := parseLines(t,
		"第一章",
		"1. 题干第一行",
		"题干第二行",
		"A. 选项甲",
		"甲的续行",
		"B. 选项乙",
		"答案:A",
	)
	q := chapters[0].Questions[0]
	if q.Question != "1. 题干第一行\n题干第二行" {
		t.Errorf("unexpected question %q", q.Question)
	}
	want := []string{"选项甲 甲的续行", "选项乙"}
	if !reflect.DeepEqual(q.Options, want) {
		t.Errorf("expected %v, got %v", want, q.Options)
	}
}

func TestParse_TrueFalseContinuationGoesToQuestion(t *testing.T) {
	chapters, _ := parseLines(t,
		"第一章",
		"三、判断题",
		"1. 第一行",
		"A. 不是选项",
		"答案:对",
	)
	q := chapters[0].Questions[0]
	if q.Question != "1. 第一行\nA. 不是选项" {
		t.Errorf("unexpected question %q", q.Question)
	}
	if len(q.Options) != 0 {
		t.Errorf("expected no options, got %v", q.Options)
	}
}

func TestParse_UnclassifiedBucketAndEmptyChapters(t *testing.T) {
	chapters, _ := parseLines(t,
		"前言说明文字",
		"1. 章节之前的题",
		"答案:B",
		"第一章 空章",
		"第二章 有题",
		"1. 题",
		"答案:A",
	)
	if len(chapters) != 3 {
		t.Fatalf("expected 3 chapters before assembly, got %d", len(chapters))
	}
	if chapters[0].Title != "绪论/未分类" || len(chapters[0].Questions) != 1 {
		t.Errorf("unexpected bucket %+v", chapters[0])
	}
	if len(chapters[1].Questions) != 0 {
		t.Errorf("expected empty chapter, got %d questions", len(chapters[1].Questions))
	}
}

func TestParse_UnattachedLinesAreDropped(t *testing.T) {
	chapters, report := parseLines(t,
		"第一章",
		"一、单选题",
		"孤立的说明",
		"答案:A",
		"A. 孤立的选项",
		"四、材料分析题",
		"没有标题的材料",
	)
	if n := len(chapters[0].Questions); n != 0 {
		t.Errorf("expected no questions, got %d", n)
	}
	if report.UnattachedLines != 4 {
		t.Errorf("expected 4 unattached lines, got %d", report.UnattachedLines)
	}
}

func TestParse_MaterialItemWithoutSectionHeader(t *testing.T) {
	chapters, report := parseLines(t,
		"第一章 总论",
		"一、单选题",
		"1. 题一",
		"A. 甲",
		"B. 乙",
		"答案:A",
		"材料分析题(一)",
		"材料内容如下",
		"答案要点:要点一",
	)
	qs := chapters[0].Questions
	if len(qs) != 2 {
		t.Fatalf("expected 2 questions, got %d: %+v", len(qs), qs)
	}
	single := qs[0]
	if !reflect.DeepEqual(single.Options, []string{"甲", "乙"}) || single.Answer != "A" {
		t.Errorf("single question was changed by the material item: %+v", single)
	}
	m := qs[1]
	if m.Type != TypeMaterial {
		t.Fatalf("expected material, got %s", m.Type)
	}
	if m.Question != "材料分析题(一)\n材料内容如下" || m.Answer != "要点一" {
		t.Errorf("unexpected material question %+v", m)
	}
	if report.UnattachedLines != 0 {
		t.Errorf("expected no unattached lines, got %d", report.UnattachedLines)
	}
}

func TestParse_MaterialImplicitStart(t *testing.T) {
	d := dialect.Default()
	d.Material.ImplicitStart = true
	chapters, report := Parse(d, []string{
		"第一章",
		"四、材料分析题",
		"没有标题的材料",
		"答案:要点",
	})
	qs := chapters[0].Questions
	if len(qs) != 1 || qs[0].Question != "没有标题的材料" || qs[0].Answer != "要点" {
		t.Fatalf("unexpected questions %+v", qs)
	}
	if report.UnattachedLines != 0 {
		t.Errorf("expected no unattached lines, got %d", report.UnattachedLines)
	}
}

func TestParse_SectionResetsOnChapter(t *testing.T) {
	chapters, _ := parseLines(t,
		"第一章",
		"三、判断题",
		"1. 判断",
		"答案:T",
		"第二章",
		"1. 新章第一题",
		"A. 甲",
		"答案:A",
	)
	if chapters[1].Questions[0].Type != TypeSingle {
		t.Errorf("expected section reset to single, got %s", chapters[1].Questions[0].Type)
	}
}

func TestParse_SectionHeaderRules(t *testing.T) {
	chapters, _ := parseLines(t,
		"第一章",
		"多选题",
		"1. 题一",
		"答案:BA",
		"本题为多选题的说明文字，长度超过了二十个字符所以不是标题",
		"2. 题二",
		"答案:CA",
	)
	qs := chapters[0].Questions
	if len(qs) != 2 {
		t.Fatalf("expected 2 questions, got %d", len(qs))
	}
	// The long line is a continuation of question one, not a header.
	if !strings.Contains(qs[0].Question, "说明文字") {
		t.Errorf("expected long line appended to question, got %q", qs[0].Question)
	}
	if qs[1].Type != TypeMultiple || qs[1].Answer != "AC" {
		t.Errorf("expected multiple AC, got %s %q", qs[1].Type, qs[1].Answer)
	}
}

func TestParse_InlineOptionsSplit(t *testing.T) {
	chapters, report := parseLines(t,
		"第一章",
		"1. 题",
		"A. 民主 B. 法治 C. 共同富裕 D. 改革",
		"答案:C",
	)
	want := []string{"民主", "法治", "共同富裕", "改革"}
	if got := chapters[0].Questions[0].Options; !reflect.DeepEqual(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
	if report.SplitOptionLines != 1 {
		t.Errorf("expected 1 split line, got %d", report.SplitOptionLines)
	}
}

func TestParse_InlineSplitDisabled(t *testing.T) {
	d := dialect.Default()
	d.Option.SplitInline = false
	chapters, _ := Parse(d, []string{"第一章", "1. 题", "A. 民主 B. 法治", "答案:A"})
	if got := chapters[0].Questions[0].Options; len(got) != 1 || got[0] != "民主 B. 法治" {
		t.Errorf("expected one unsplit option, got %v", got)
	}
}

func TestParse_RawOptionFallback(t *testing.T) {
	src := `
chapter_patterns: ['^Unit']
answer: {labels: [Key]}
option:
  pattern: '^[A-D]\)'
true_false: {false_value: "F", true_value: "T"}
default_section: single
`
	d, err := dialect.Parse([]byte(src))
	if err != nil {
		t.Fatalf("dialect: %v", err)
	}
	chapters, report := Parse(d, []string{"Unit 1", "1. q", "A) one", "B) two", "Key: B"})
	q := chapters[0].Questions[0]
	want := []string{"A) one", "B) two"}
	if !reflect.DeepEqual(q.Options, want) {
		t.Errorf("expected raw options %v, got %v", want, q.Options)
	}
	if report.RawOptions != 2 {
		t.Errorf("expected 2 raw options, got %d", report.RawOptions)
	}
}

func TestParse_MissingTypeDefaultsToSingle(t *testing.T) {
	d := dialect.Default()
	d.DefaultSection = ""
	chapters, report := Parse(d, []string{"1. 没有题型的题", "A. 甲", "答案:A"})
	q := chapters[0].Questions[0]
	if q.Type != TypeSingle {
		t.Errorf("expected fallback type single, got %q", q.Type)
	}
	if !reflect.DeepEqual(q.Options, []string{"甲"}) || q.Answer != "A" {
		t.Errorf("expected option and answer kept, got %+v", q)
	}
	if report.MissingType != 1 {
		t.Errorf("expected MissingType=1, got %d", report.MissingType)
	}
}

func TestParse_UnresolvedTrueFalse(t *testing.T) {
	chapters, report := parseLines(t,
		"第一章",
		"三、判断题",
		"1. 判断",
		"答案:见教材",
	)
	q := chapters[0].Questions[0]
	if q.Answer != "见教材" || !q.Unresolved {
		t.Errorf("expected unresolved passthrough, got %q unresolved=%v", q.Answer, q.Unresolved)
	}
	if report.Unresolved != 1 {
		t.Errorf("expected Unresolved=1, got %d", report.Unresolved)
	}
}

func TestParser_FinishIsRepeatable(t *testing.T) {
	p := NewParser(dialect.Default())
	p.Feed("第一章")
	p.Feed("1. 题")
	p.Feed("答案:A")
	first, _ := p.Finish()
	second, _ := p.Finish()
	if len(first[0].Questions) != 1 || len(second[0].Questions) != 1 {
		t.Errorf("expected one question on both calls, got %d and %d",
			len(first[0].Questions), len(second[0].Questions))
	}
}

func TestParse_ReportCountsLines(t *testing.T) {
	_, report := parseLines(t, "第一章", "   ", "", "1. 题")
	if report.Paragraphs != 4 || report.Lines != 2 {
		t.Errorf("expected 4 paragraphs / 2 lines, got %d / %d", report.Paragraphs, report.Lines)
	}
}
