package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"strings"
	"syscall"

	"github.com/dhl1626/maogai-quiz/internal/bank"
	"github.com/dhl1626/maogai-quiz/internal/dialect"
	"github.com/dhl1626/maogai-quiz/internal/document"
	"github.com/dhl1626/maogai-quiz/internal/inspect"
	"github.com/dhl1626/maogai-quiz/internal/output"
	"github.com/dhl1626/maogai-quiz/internal/parser"
	"github.com/dhl1626/maogai-quiz/internal/pipeline"
	"github.com/dhl1626/maogai-quiz/internal/textnorm"
	"github.com/spf13/cobra"
)

func (a *app) convertCmd() *cobra.Command {
	var (
		cleanText  string
		jsonOutput bool
		showIssues bool
	)

	cmd := &cobra.Command{
		Use:   "convert [source]",
		Short: "Convert a question bank into quiz data",
		Long: `Convert a question bank document into per-chapter quiz files.

When no source is given, the configured search directories are scanned
for a supported file whose name contains every QBANK_NAME_KEYWORDS entry.

Formats:
  js      data/chapter_N.js (window.chapterData_I = ...) plus manifest.js
  json    data/chapter_N.json plus manifest.json
  bundle  a single data.js (const quizData = ...)

Example:
  qbank convert 毛概期末练习题库.docx --out site
  qbank convert bank.txt --format json --clean-text clean.txt`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := output.ParseFormat(a.cfg.Format)
			if err != nil {
				return err
			}
			source, err := a.resolveSource(args)
			if err != nil {
				return err
			}
			d, err := dialect.Load(a.cfg.DialectPath)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			ctx, cancel := context.WithTimeout(ctx, a.cfg.Timeout)
			defer cancel()

			job := pipeline.NewJob(source, format, a.cfg.OutputDir)
			job.CleanTextPath = cleanText
			conv := pipeline.NewConverter(d, a.log, a.parserOptions(), a.cfg.MaxSourceBytes)
			book, err := conv.Run(ctx, job)
			if err != nil {
				return fmt.Errorf("convert %s: %w", source, err)
			}

			if jsonOutput {
				return printJSON(job.Snapshot())
			}
			printConversion(job.Snapshot(), book)
			if showIssues {
				printIssues(book.Issues)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&a.cfg.OutputDir, "out", "o", a.cfg.OutputDir, "output directory")
	cmd.Flags().StringVarP(&a.cfg.Format, "format", "f", a.cfg.Format, "output format: js, json, bundle")
	cmd.Flags().StringVar(&cleanText, "clean-text", "", "also write the normalized line stream to this file")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "print the job summary as JSON")
	cmd.Flags().BoolVar(&showIssues, "issues", false, "list questions that need a manual review")

	return cmd
}

func (a *app) normalizeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "normalize [source]",
		Short: "Print the normalized line stream of a document",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			lines, err := a.normalizedLines(args)
			if err != nil {
				return err
			}
			for _, line := range lines {
				fmt.Println(line)
			}
			return nil
		},
	}
}

func (a *app) inspectCmd() *cobra.Command {
	var (
		section string
		count   int
		markers []string
	)

	cmd := &cobra.Command{
		Use:   "inspect [source]",
		Short: "Show the structural lines of a document",
		Long: `Show short lines that look like chapter or section headings, to help
tune a dialect for a new document. With --section, print the lines that
follow the first heading containing the keyword instead.

Example:
  qbank inspect bank.docx
  qbank inspect bank.docx --section 判断题 --lines 10
  qbank inspect bank.docx --section 材料分析题 --lines 20`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			lines, err := a.normalizedLines(args)
			if err != nil {
				return err
			}

			if section != "" {
				ex, ok := inspect.After(lines, section, count)
				if !ok {
					return fmt.Errorf("no heading containing %q", section)
				}
				fmt.Printf("--- FOUND SECTION: [%d] %s ---\n", ex.Header.Index, ex.Header.Text)
				for _, l := range ex.Lines {
					fmt.Println(l.Text)
				}
				return nil
			}

			fmt.Printf("Total lines: %d\n", len(lines))
			for _, l := range inspect.Structure(lines, markers) {
				fmt.Printf("[%d] %s\n", l.Index, l.Text)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&section, "section", "", "print lines after the first heading containing this keyword")
	cmd.Flags().IntVarP(&count, "lines", "n", 10, "number of lines to print with --section")
	cmd.Flags().StringSliceVar(&markers, "markers", inspect.DefaultMarkers, "substrings that flag a structural line")

	return cmd
}

func (a *app) checkCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check <chapter-file>...",
		Short: "Summarize generated chapter files",
		Long: `Read chapter files written by convert (js or json) and print the
title, question counts by type and the single choice numbers found, so
gaps in the source numbering stand out.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			failed := 0
			for _, path := range args {
				ch, err := output.ReadChapter(path)
				if err != nil {
					a.log.Error("check failed", "file", path, "error", err)
					failed++
					continue
				}
				printSummary(path, output.Summarize(ch))
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d files could not be read", failed, len(args))
			}
			return nil
		},
	}
}

func (a *app) dialectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dialect",
		Short: "Print the built-in dialect YAML",
		Long: `Print the built-in dialect. Save it, edit keywords or patterns for a
differently formatted document, and pass it back with --dialect.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if a.cfg.DialectPath != "" {
				if _, err := dialect.Load(a.cfg.DialectPath); err != nil {
					return err
				}
				fmt.Printf("%s: ok\n", a.cfg.DialectPath)
				return nil
			}
			_, err := os.Stdout.Write(dialect.DefaultYAML())
			return err
		},
	}
}

func (a *app) parserOptions() parser.Options {
	return parser.Options{PDFFallbackPdftotext: a.cfg.PDFFallbackPdftotext}
}

// resolveSource returns the explicit source argument or discovers one.
func (a *app) resolveSource(args []string) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}
	source, err := parser.FindSource(a.cfg.SearchDirs, a.cfg.NameKeywords)
	if err != nil {
		return "", err
	}
	a.log.Info("discovered source", "path", source)
	return source, nil
}

// normalizedLines reads a document and applies the dialect's normalizer.
func (a *app) normalizedLines(args []string) ([]string, error) {
	source, err := a.resolveSource(args)
	if err != nil {
		return nil, err
	}
	d, err := dialect.Load(a.cfg.DialectPath)
	if err != nil {
		return nil, err
	}
	doc, err := a.readDocument(source)
	if err != nil {
		return nil, err
	}
	return textnorm.New(d.Fold).Lines(doc.Paragraphs), nil
}

func (a *app) readDocument(path string) (*document.Document, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if info.Size() > a.cfg.MaxSourceBytes {
		return nil, fmt.Errorf("%s exceeds %d bytes", path, a.cfg.MaxSourceBytes)
	}
	p, err := parser.ForFile(path, a.parserOptions())
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	doc, err := p.Parse(f, path)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return doc, nil
}

func printJSON(v any) error {
	data, err := output.Marshal(v)
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}

func printConversion(snap pipeline.JobSnapshot, book *bank.Book) {
	fmt.Printf("Converted %s (%s)\n", snap.Source, snap.Elapsed)
	fmt.Printf("  Chapters:  %d\n", len(book.Chapters))
	fmt.Printf("  Questions: %d\n", book.QuestionCount())
	if n := book.Report.DroppedChapters; n > 0 {
		fmt.Printf("  Empty chapters skipped: %d\n", n)
	}
	if n := len(book.Issues); n > 0 {
		fmt.Printf("  Questions to review: %d (use --issues)\n", n)
	}
	fmt.Println("Files:")
	for _, f := range snap.Files {
		fmt.Printf("  - %s\n", f)
	}
}

func printIssues(issues []bank.Issue) {
	if len(issues) == 0 {
		return
	}
	fmt.Println("Issues:")
	for _, is := range issues {
		fmt.Printf("  [%s #%d] %s: %s\n      %s\n", is.Chapter, is.Index+1, is.Kind, is.Detail, is.Question)
	}
}

func printSummary(path string, s output.Summary) {
	types := make([]string, 0, len(s.ByType))
	for t := range s.ByType {
		types = append(types, string(t))
	}
	sort.Slice(types, func(i, j int) bool {
		ri, rj := bank.QuestionType(types[i]).Rank(), bank.QuestionType(types[j]).Rank()
		if ri != rj {
			return ri < rj
		}
		return types[i] < types[j]
	})
	counts := make([]string, 0, len(types))
	for _, t := range types {
		counts = append(counts, fmt.Sprintf("%s=%d", t, s.ByType[bank.QuestionType(t)]))
	}

	fmt.Println(path)
	fmt.Printf("  Title: %s\n", s.Title)
	fmt.Printf("  Total questions: %d\n", s.Total)
	fmt.Printf("  Counts by type: %s\n", strings.Join(counts, ", "))
	fmt.Printf("  Single choice IDs found: %v\n", s.SingleNumbers)
	if gaps := s.Gaps(); len(gaps) > 0 {
		fmt.Printf("  Missing single choice IDs: %v\n", gaps)
	}
}
