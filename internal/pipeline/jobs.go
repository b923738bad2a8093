package pipeline

import (
	"crypto/sha256"
	"fmt"
	"sync"
	"time"

	"github.com/dhl1626/maogai-quiz/internal/bank"
	"github.com/dhl1626/maogai-quiz/internal/output"
)

// JobStatus represents the state of a conversion job.
type JobStatus string

const (
	StatusQueued    JobStatus = "queued"
	StatusReading   JobStatus = "reading"
	StatusParsing   JobStatus = "parsing"
	StatusWriting   JobStatus = "writing"
	StatusCompleted JobStatus = "completed"
	StatusFailed    JobStatus = "failed"
)

// Job tracks the conversion of one source document.
type Job struct {
	mu sync.Mutex

	Source    string        `json:"source"`
	Format    output.Format `json:"format"`
	OutputDir string        `json:"output_dir"`

	// CleanTextPath, when set, receives the normalized line stream.
	CleanTextPath string `json:"clean_text_path,omitempty"`

	Status JobStatus `json:"status"`
	Phase  string    `json:"phase"`
	Title  string    `json:"title"`

	Progress Progress `json:"progress"`

	ContentHash string    `json:"content_hash,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// Internal: not serialized.
	files  []string
	errors []string
}

// Progress tracks conversion counters.
type Progress struct {
	Paragraphs int         `json:"paragraphs"`
	Chapters   int         `json:"chapters"`
	Questions  int         `json:"questions"`
	Issues     int         `json:"issues"`
	Report     bank.Report `json:"report"`
	Errors     []string    `json:"errors"`
}

// NewJob returns a queued job for source.
func NewJob(source string, format output.Format, outputDir string) *Job {
	now := time.Now()
	return &Job{
		Source:    source,
		Format:    format,
		OutputDir: outputDir,
		Status:    StatusQueued,
		Phase:     "queued",
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// SetStatus updates job status atomically.
func (j *Job) SetStatus(status JobStatus, phase string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Status = status
	j.Phase = phase
	j.UpdatedAt = time.Now()
}

// AddError records an error.
func (j *Job) AddError(err string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.errors = append(j.errors, err)
	j.Progress.Errors = j.errors
	j.UpdatedAt = time.Now()
}

// SetSource records what was read from the source document.
func (j *Job) SetSource(title, contentHash string, paragraphs int) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Title = title
	j.ContentHash = contentHash
	j.Progress.Paragraphs = paragraphs
	j.UpdatedAt = time.Now()
}

// SetBook records the outcome of the parsing phase.
func (j *Job) SetBook(book *bank.Book) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Progress.Chapters = len(book.Chapters)
	j.Progress.Questions = book.QuestionCount()
	j.Progress.Issues = len(book.Issues)
	j.Progress.Report = book.Report
	j.UpdatedAt = time.Now()
}

// AddFiles records output files written.
func (j *Job) AddFiles(paths ...string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.files = append(j.files, paths...)
	j.UpdatedAt = time.Now()
}

// Files returns a copy of the output files written so far.
func (j *Job) Files() []string {
	j.mu.Lock()
	defer j.mu.Unlock()
	return append([]string(nil), j.files...)
}

// JobSnapshot is a read-only, JSON-safe copy of job state.
type JobSnapshot struct {
	Source      string    `json:"source"`
	Status      JobStatus `json:"status"`
	Phase       string    `json:"phase"`
	Title       string    `json:"title"`
	ContentHash string    `json:"content_hash,omitempty"`
	Files       []string  `json:"files"`
	Progress    Progress  `json:"progress"`
	Elapsed     string    `json:"elapsed"`
}

// Snapshot returns a JSON-safe copy of the job state.
func (j *Job) Snapshot() JobSnapshot {
	j.mu.Lock()
	defer j.mu.Unlock()
	errs := append([]string{}, j.Progress.Errors...)
	files := append([]string{}, j.files...)
	progress := j.Progress
	progress.Errors = errs
	return JobSnapshot{
		Source:      j.Source,
		Status:      j.Status,
		Phase:       j.Phase,
		Title:       j.Title,
		ContentHash: j.ContentHash,
		Files:       files,
		Progress:    progress,
		Elapsed:     j.UpdatedAt.Sub(j.CreatedAt).Round(time.Millisecond).String(),
	}
}

// ContentHashHex computes SHA-256 of content and returns hex string.
func ContentHashHex(data []byte) string {
	h := sha256.Sum256(data)
	return fmt.Sprintf("%x", h[:])
}
