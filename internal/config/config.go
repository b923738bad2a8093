package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// Output
	OutputDir string
	Format    string

	// Dialect YAML path; empty selects the embedded default.
	DialectPath string

	// Source discovery
	SearchDirs   []string
	NameKeywords []string

	// Input limits
	MaxSourceBytes int64
	Timeout        time.Duration

	// PDF
	PDFFallbackPdftotext bool

	// Logging
	LogLevel  string
	LogFormat string
}

// Formats accepted for Format.
var Formats = []string{"js", "json", "bundle"}

// Load reads configuration from the environment. A .env file in the
// working directory is loaded first when present; real environment
// variables win over it.
func Load() Config {
	_ = godotenv.Load()

	cfg := Config{
		OutputDir: envOr("QBANK_OUTPUT_DIR", "out"),
		Format:    strings.ToLower(envOr("QBANK_FORMAT", "js")),

		DialectPath: os.Getenv("QBANK_DIALECT"),

		SearchDirs:   envList("QBANK_SEARCH_DIRS", []string{".", ".."}),
		NameKeywords: envList("QBANK_NAME_KEYWORDS", nil),

		MaxSourceBytes: envInt64("QBANK_MAX_SOURCE_BYTES", 52428800), // 50MB
		Timeout:        envDuration("QBANK_TIMEOUT", 2*time.Minute),

		PDFFallbackPdftotext: envBool("PDF_FALLBACK_PDFTOTEXT", true),

		LogLevel:  strings.ToLower(envOr("LOG_LEVEL", "info")),
		LogFormat: strings.ToLower(envOr("LOG_FORMAT", "json")),
	}

	if cfg.MaxSourceBytes <= 0 {
		cfg.MaxSourceBytes = 52428800
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 2 * time.Minute
	}
	if len(cfg.SearchDirs) == 0 {
		cfg.SearchDirs = []string{"."}
	}

	return cfg
}

func (c Config) Validate() error {
	if c.OutputDir == "" {
		return fmt.Errorf("QBANK_OUTPUT_DIR must not be empty")
	}
	if !validFormat(strings.ToLower(c.Format)) {
		return fmt.Errorf("QBANK_FORMAT must be one of %s, got %q", strings.Join(Formats, ", "), c.Format)
	}
	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("LOG_LEVEL must be debug, info, warn or error, got %q", c.LogLevel)
	}
	switch strings.ToLower(c.LogFormat) {
	case "json", "text":
	default:
		return fmt.Errorf("LOG_FORMAT must be json or text, got %q", c.LogFormat)
	}
	return nil
}

func validFormat(f string) bool {
	for _, known := range Formats {
		if f == known {
			return true
		}
	}
	return false
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// envList splits a comma-separated value, dropping empty items.
func envList(key string, fallback []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	var out []string
	for _, item := range strings.Split(v, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

func envInt64(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
