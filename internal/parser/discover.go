package parser

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ErrNoSource is returned when no directory holds a matching source file.
var ErrNoSource = errors.New("no source document found")

// FindSource returns the first supported file, in directory then name
// order, whose base name contains every keyword. Office lock files
// ("~$...") and directories are skipped. Missing directories are ignored.
func FindSource(dirs, keywords []string) (string, error) {
	for _, dir := range dirs {
		entries, err := os.ReadDir(dir)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				continue
			}
			return "", fmt.Errorf("read dir %s: %w", dir, err)
		}
		for _, e := range entries {
			name := e.Name()
			if e.IsDir() || strings.HasPrefix(name, "~$") || !IsSupportedExtension(name) {
				continue
			}
			if matchesAll(name, keywords) {
				return filepath.Join(dir, name), nil
			}
		}
	}
	return "", fmt.Errorf("%w (searched %s)", ErrNoSource, strings.Join(dirs, ", "))
}

func matchesAll(name string, keywords []string) bool {
	for _, kw := range keywords {
		if kw != "" && !strings.Contains(name, kw) {
			return false
		}
	}
	return true
}
