// Package output writes converted chapters in the layouts the quiz
// front-end loads, and reads chapter files back for checking.
package output

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dhl1626/maogai-quiz/internal/bank"
)

// Format selects the on-disk layout.
type Format string

const (
	FormatJS     Format = "js"     // one script per chapter plus manifest.js
	FormatJSON   Format = "json"   // one JSON document per chapter plus manifest.json
	FormatBundle Format = "bundle" // every chapter in a single data.js
)

const (
	manifestVar = "quizManifest"
	bundleVar   = "quizData"
	bundleFile  = "data.js"
)

// ParseFormat validates a format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatJS, FormatJSON, FormatBundle:
		return f, nil
	default:
		return "", fmt.Errorf("unknown output format %q", s)
	}
}

// NamingFor returns the chapter naming used by format f. Manifest file
// references are relative to the output directory.
func NamingFor(f Format) bank.Naming {
	n := bank.DefaultNaming()
	if f == FormatJSON {
		n.Ext = "json"
	}
	return n
}

// Write stores book under dir in format f and returns the files written,
// chapters first. The book's manifest must have been built with
// NamingFor(f).
func Write(dir string, f Format, book *bank.Book) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}

	switch f {
	case FormatBundle:
		path := filepath.Join(dir, bundleFile)
		if err := writeAssignment(path, "const "+bundleVar, book.Chapters); err != nil {
			return nil, err
		}
		return []string{path}, nil

	case FormatJS, FormatJSON:
		var written []string
		for i, ch := range book.Chapters {
			if i >= len(book.Manifest) {
				return written, fmt.Errorf("manifest has %d entries for %d chapters", len(book.Manifest), len(book.Chapters))
			}
			path := filepath.Join(dir, filepath.FromSlash(book.Manifest[i].File))
			if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
				return written, fmt.Errorf("create chapter dir: %w", err)
			}
			var err error
			if f == FormatJS {
				err = writeAssignment(path, "window."+book.Manifest[i].GlobalVar, ch)
			} else {
				err = writeJSON(path, ch)
			}
			if err != nil {
				return written, err
			}
			written = append(written, path)
		}

		var err error
		manifestPath := filepath.Join(dir, "manifest."+string(f))
		if f == FormatJS {
			err = writeAssignment(manifestPath, "const "+manifestVar, book.Manifest)
		} else {
			err = writeJSON(manifestPath, book.Manifest)
		}
		if err != nil {
			return written, err
		}
		return append(written, manifestPath), nil

	default:
		return nil, fmt.Errorf("unknown output format %q", f)
	}
}

// WriteLines stores lines one per row, the normalized "clean text" form
// of a source document.
func WriteLines(path string, lines []string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create dir: %w", err)
	}
	if err := os.WriteFile(path, []byte(strings.Join(lines, "\n")), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// Marshal encodes v as 2-space indented JSON with non-ASCII text and
// HTML characters left as-is.
func Marshal(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

func writeJSON(path string, v any) error {
	data, err := Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", filepath.Base(path), err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// writeAssignment writes "<lhs> = <json>;".
func writeAssignment(path, lhs string, v any) error {
	data, err := Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", filepath.Base(path), err)
	}
	var buf bytes.Buffer
	buf.Grow(len(lhs) + len(data) + 5)
	buf.WriteString(lhs)
	buf.WriteString(" = ")
	buf.Write(data)
	buf.WriteString(";")
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
