// Package dialect describes the line grammar of a question-bank document:
// chapter and section headings, answer labels, numbering separators and the
// true/false answer markers. Variation between source documents is handled
// by loading a different dialect file rather than by changing parser code.
package dialect

import (
	_ "embed"
	"fmt"
	"os"
	"regexp"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed default.yaml
var defaultYAML []byte

// Section types understood by the parser.
const (
	TypeSingle    = "single"
	TypeMultiple  = "multiple"
	TypeTrueFalse = "true_false"
	TypeMaterial  = "material"
)

var validTypes = map[string]bool{
	TypeSingle:    true,
	TypeMultiple:  true,
	TypeTrueFalse: true,
	TypeMaterial:  true,
}

// Dialect is the configuration for one family of source documents.
type Dialect struct {
	Name              string `yaml:"name" json:"name"`
	UnclassifiedTitle string `yaml:"unclassified_title" json:"unclassified_title"`
	DefaultSection    string `yaml:"default_section" json:"default_section"`

	// Fold lists full-width runes mapped to their half-width form.
	Fold string `yaml:"fold" json:"fold"`

	ChapterPatterns []string `yaml:"chapter_patterns" json:"chapter_patterns"`

	Sections  SectionConfig   `yaml:"sections" json:"sections"`
	Answer    AnswerConfig    `yaml:"answer" json:"answer"`
	Question  QuestionConfig  `yaml:"question" json:"question"`
	Option    OptionConfig    `yaml:"option" json:"option"`
	Material  MaterialConfig  `yaml:"material" json:"material"`
	TrueFalse TrueFalseConfig `yaml:"true_false" json:"true_false"`

	// Compiled patterns (populated after loading)
	compiled *Compiled
}

// SectionConfig controls section header recognition.
type SectionConfig struct {
	MaxRunes   int              `yaml:"max_runes" json:"max_runes"`
	ListMarker string           `yaml:"list_marker" json:"list_marker"`
	Keywords   []SectionKeyword `yaml:"keywords" json:"keywords"`
}

// SectionKeyword maps a heading keyword to a section type. Order matters:
// the first keyword found in a line wins.
type SectionKeyword struct {
	Keyword string `yaml:"keyword" json:"keyword"`
	Type    string `yaml:"type" json:"type"`
}

// AnswerConfig describes answer lines such as "答案:C" or "答案要点:...".
type AnswerConfig struct {
	Labels     []string `yaml:"labels" json:"labels"`
	Separators string   `yaml:"separators" json:"separators"`
}

// QuestionConfig describes numbered question lines such as "12. ...".
type QuestionConfig struct {
	Separators string `yaml:"separators" json:"separators"`
}

// OptionConfig describes lettered option lines such as "B. ...".
type OptionConfig struct {
	Letters    string `yaml:"letters" json:"letters"`
	Separators string `yaml:"separators" json:"separators"`

	// Pattern overrides the pattern derived from Letters and Separators.
	// Group 1 is the letter, group 2 the option text.
	Pattern string `yaml:"pattern,omitempty" json:"pattern,omitempty"`

	// SplitInline splits "A. x B. y" into one line per option.
	SplitInline bool `yaml:"split_inline" json:"split_inline"`
}

// MaterialConfig describes material-analysis items.
type MaterialConfig struct {
	ItemPattern string `yaml:"item_pattern" json:"item_pattern"`

	// ImplicitStart opens a material question from a stray line when no
	// item heading was seen.
	ImplicitStart bool `yaml:"implicit_start" json:"implicit_start"`
}

// TrueFalseConfig holds the markers used to canonicalize true/false answers.
type TrueFalseConfig struct {
	FalseMarkers []string `yaml:"false_markers" json:"false_markers"`
	TrueMarkers  []string `yaml:"true_markers" json:"true_markers"`
	FalseValue   string   `yaml:"false_value" json:"false_value"`
	TrueValue    string   `yaml:"true_value" json:"true_value"`
}

// Compiled holds the regular expressions built from a Dialect.
type Compiled struct {
	Chapters     []*regexp.Regexp
	ListMarker   *regexp.Regexp
	Answer       *regexp.Regexp // group 1: remainder after the separator
	Question     *regexp.Regexp
	Option       *regexp.Regexp // group 1: letter, group 2: text
	InlineOption *regexp.Regexp // group 1: letter of an embedded option
	MaterialItem *regexp.Regexp
}

// Default returns the embedded dialect.
func Default() *Dialect {
	d, err := Parse(defaultYAML)
	if err != nil {
		panic(fmt.Sprintf("dialect: embedded default is invalid: %v", err))
	}
	return d
}

// DefaultYAML returns the embedded dialect source, a starting point for
// custom dialect files.
func DefaultYAML() []byte {
	return append([]byte(nil), defaultYAML...)
}

// Load reads and compiles a dialect file. An empty path yields Default.
func Load(path string) (*Dialect, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read dialect: %w", err)
	}
	d, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("dialect %s: %w", path, err)
	}
	return d, nil
}

// Parse decodes, validates and compiles a YAML dialect.
func Parse(data []byte) (*Dialect, error) {
	var d Dialect
	if err := yaml.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("decode yaml: %w", err)
	}
	d.applyDefaults()
	if err := d.Validate(); err != nil {
		return nil, err
	}
	if err := d.Compile(); err != nil {
		return nil, err
	}
	return &d, nil
}

func (d *Dialect) applyDefaults() {
	if d.Sections.MaxRunes <= 0 {
		d.Sections.MaxRunes = 20
	}
	if d.Answer.Separators == "" {
		d.Answer.Separators = ":"
	}
	if d.Question.Separators == "" {
		d.Question.Separators = "."
	}
	if d.Option.Letters == "" {
		d.Option.Letters = "ABCDEF"
	}
	if d.Option.Separators == "" {
		d.Option.Separators = "."
	}
	if d.UnclassifiedTitle == "" {
		d.UnclassifiedTitle = "Unclassified"
	}
	if d.DefaultSection == "" {
		d.DefaultSection = TypeSingle
	}
}

// Validate checks the dialect for obviously broken settings.
func (d *Dialect) Validate() error {
	if len(d.ChapterPatterns) == 0 {
		return fmt.Errorf("at least one chapter pattern is required")
	}
	if len(d.Answer.Labels) == 0 {
		return fmt.Errorf("at least one answer label is required")
	}
	if d.DefaultSection != "" && !validTypes[d.DefaultSection] {
		return fmt.Errorf("default_section %q is not a known type", d.DefaultSection)
	}
	for i, kw := range d.Sections.Keywords {
		if kw.Keyword == "" {
			return fmt.Errorf("section keyword %d is empty", i)
		}
		if !validTypes[kw.Type] {
			return fmt.Errorf("section keyword %q has unknown type %q", kw.Keyword, kw.Type)
		}
	}
	for _, r := range d.Option.Letters {
		if r < 'A' || r > 'Z' {
			return fmt.Errorf("option letter %q is not an uppercase ASCII letter", r)
		}
	}
	if d.TrueFalse.FalseValue == "" || d.TrueFalse.TrueValue == "" {
		return fmt.Errorf("true_false values are required")
	}
	return nil
}

// Compile builds all regular expressions. It is called by Parse; callers
// constructing a Dialect by hand must call it before use.
func (d *Dialect) Compile() error {
	c := &Compiled{}

	for i, p := range d.ChapterPatterns {
		re, err := regexp.Compile(p)
		if err != nil {
			return fmt.Errorf("compiling chapter pattern %d %q: %w", i, p, err)
		}
		c.Chapters = append(c.Chapters, re)
	}

	if d.Sections.ListMarker != "" {
		re, err := regexp.Compile(d.Sections.ListMarker)
		if err != nil {
			return fmt.Errorf("compiling list marker %q: %w", d.Sections.ListMarker, err)
		}
		c.ListMarker = re
	}

	labels := append([]string(nil), d.Answer.Labels...)
	sort.SliceStable(labels, func(i, j int) bool { return len(labels[i]) > len(labels[j]) })
	for i, l := range labels {
		labels[i] = regexp.QuoteMeta(l)
	}
	answer := `^(?i:` + strings.Join(labels, "|") + `)\s*` + charClass(d.Answer.Separators) + `\s*(.*)$`
	re, err := regexp.Compile(answer)
	if err != nil {
		return fmt.Errorf("compiling answer pattern: %w", err)
	}
	c.Answer = re

	c.Question, err = regexp.Compile(`^\d+\s*` + charClass(d.Question.Separators))
	if err != nil {
		return fmt.Errorf("compiling question pattern: %w", err)
	}

	optPattern := d.Option.Pattern
	if optPattern == "" {
		optPattern = `^(` + charClass(d.Option.Letters) + `)\s*` + charClass(d.Option.Separators) + `\s*(.*)$`
	}
	c.Option, err = regexp.Compile(optPattern)
	if err != nil {
		return fmt.Errorf("compiling option pattern %q: %w", optPattern, err)
	}
	c.InlineOption, err = regexp.Compile(`\s(` + charClass(d.Option.Letters) + `)\s*` + charClass(d.Option.Separators))
	if err != nil {
		return fmt.Errorf("compiling inline option pattern: %w", err)
	}

	if d.Material.ItemPattern != "" {
		c.MaterialItem, err = regexp.Compile(d.Material.ItemPattern)
		if err != nil {
			return fmt.Errorf("compiling material item pattern %q: %w", d.Material.ItemPattern, err)
		}
	}

	d.compiled = c
	return nil
}

// Compiled returns the compiled patterns, compiling on first use.
func (d *Dialect) Compiled() *Compiled {
	if d.compiled == nil {
		if err := d.Compile(); err != nil {
			panic(fmt.Sprintf("dialect %q: %v", d.Name, err))
		}
	}
	return d.compiled
}

// IsCompiled reports whether Compile has run.
func (d *Dialect) IsCompiled() bool {
	return d.compiled != nil
}

// charClass turns a set of literal runes into a regexp character class.
func charClass(set string) string {
	var b strings.Builder
	b.WriteByte('[')
	for _, r := range set {
		if strings.ContainsRune(`\]^-[`, r) {
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	b.WriteByte(']')
	return b.String()
}
