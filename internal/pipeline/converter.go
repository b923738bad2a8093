package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/dhl1626/maogai-quiz/internal/bank"
	"github.com/dhl1626/maogai-quiz/internal/dialect"
	"github.com/dhl1626/maogai-quiz/internal/output"
	"github.com/dhl1626/maogai-quiz/internal/parser"
	"github.com/dhl1626/maogai-quiz/internal/textnorm"
)

// Converter runs the read, parse and write phases of a job.
type Converter struct {
	dialect *dialect.Dialect
	log     *slog.Logger
	opts    parser.Options

	maxSourceBytes int64
}

func NewConverter(d *dialect.Dialect, log *slog.Logger, opts parser.Options, maxSourceBytes int64) *Converter {
	return &Converter{
		dialect:        d,
		log:            log,
		opts:           opts,
		maxSourceBytes: maxSourceBytes,
	}
}

// Run converts job.Source and writes the result under job.OutputDir. The
// context is checked between phases. On failure the job is left in
// StatusFailed with the error recorded.
func (c *Converter) Run(ctx context.Context, job *Job) (*bank.Book, error) {
	log := c.log.With("source", job.Source, "format", job.Format)

	// Phase 1: Read
	job.SetStatus(StatusReading, "reading")
	data, err := c.readSource(job.Source)
	if err != nil {
		return nil, c.fail(log, job, "reading", err)
	}
	p, err := parser.ForFile(job.Source, c.opts)
	if err != nil {
		return nil, c.fail(log, job, "reading", err)
	}
	doc, err := p.Parse(bytes.NewReader(data), job.Source)
	if err != nil {
		return nil, c.fail(log, job, "reading", fmt.Errorf("parse: %w", err))
	}
	job.SetSource(doc.Title, ContentHashHex(data), doc.Len())
	log.Info("read source", "title", doc.Title, "paragraphs", doc.Len(), "content_hash", job.ContentHash)

	if err := ctx.Err(); err != nil {
		return nil, c.fail(log, job, "reading", err)
	}

	// Phase 2: Parse
	job.SetStatus(StatusParsing, "parsing")
	book := bank.Build(c.dialect, doc.Paragraphs, output.NamingFor(job.Format))
	job.SetBook(book)
	c.logReport(log, book)

	if err := ctx.Err(); err != nil {
		return nil, c.fail(log, job, "parsing", err)
	}

	// Phase 3: Write
	job.SetStatus(StatusWriting, "writing")
	if job.CleanTextPath != "" {
		lines := textnorm.New(c.dialect.Fold).Lines(doc.Paragraphs)
		if err := output.WriteLines(job.CleanTextPath, lines); err != nil {
			return nil, c.fail(log, job, "writing", err)
		}
		job.AddFiles(job.CleanTextPath)
	}
	files, err := output.Write(job.OutputDir, job.Format, book)
	job.AddFiles(files...)
	if err != nil {
		return nil, c.fail(log, job, "writing", err)
	}

	job.SetStatus(StatusCompleted, "done")
	log.Info("conversion complete",
		"chapters", len(book.Chapters),
		"questions", book.QuestionCount(),
		"files", len(job.Files()),
	)
	return book, nil
}

func (c *Converter) readSource(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open source: %w", err)
	}
	defer f.Close()

	limit := c.maxSourceBytes
	if limit <= 0 {
		return io.ReadAll(f)
	}
	data, err := io.ReadAll(io.LimitReader(f, limit+1))
	if err != nil {
		return nil, fmt.Errorf("read source: %w", err)
	}
	if int64(len(data)) > limit {
		return nil, fmt.Errorf("source exceeds %d bytes", limit)
	}
	return data, nil
}

func (c *Converter) fail(log *slog.Logger, job *Job, phase string, err error) error {
	log.Error("conversion failed", "phase", phase, "error", err)
	job.AddError(fmt.Sprintf("%s: %s", phase, err))
	job.SetStatus(StatusFailed, phase)
	return err
}

// logReport surfaces the soft failures of the parse. Each issue is logged
// at debug level so a full listing is one LOG_LEVEL away.
func (c *Converter) logReport(log *slog.Logger, book *bank.Book) {
	r := book.Report
	attrs := []any{
		"lines", r.Lines,
		"chapters", len(book.Chapters),
		"questions", book.QuestionCount(),
		"dropped_chapters", r.DroppedChapters,
		"split_option_lines", r.SplitOptionLines,
		"issues", len(book.Issues),
	}
	if r.Clean() {
		log.Info("parsed document", attrs...)
	} else {
		attrs = append(attrs,
			"unattached_lines", r.UnattachedLines,
			"missing_type", r.MissingType,
			"raw_options", r.RawOptions,
			"unresolved", r.Unresolved,
		)
		log.Warn("parsed document with soft failures", attrs...)
	}
	for _, is := range book.Issues {
		log.Debug("review question", "chapter", is.Chapter, "index", is.Index, "kind", is.Kind, "question", is.Question)
	}
}
