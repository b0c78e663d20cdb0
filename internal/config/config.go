package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
)

// PDF backends.
const (
	PDFBackendGo        = "go"
	PDFBackendPdftotext = "pdftotext"
)

type Config struct {
	// Locations
	InputDir  string
	OutputDir string
	RulesDir  string

	// PDF
	PDFBackend           string
	PDFFallbackPdftotext bool

	// Input limits
	MaxFileBytes int64

	// Output
	XLSXExport bool

	// Logging
	LogLevel  string
	LogFormat string
}

func Load() Config {
	cfg := Config{
		InputDir:  envOr("CDS_INPUT_DIR", "College-Data"),
		OutputDir: envOr("CDS_OUTPUT_DIR", "src/data/schools"),
		RulesDir:  os.Getenv("CDS_RULES_DIR"),

		PDFBackend:           strings.ToLower(envOr("PDF_BACKEND", PDFBackendGo)),
		PDFFallbackPdftotext: envBool("PDF_FALLBACK_PDFTOTEXT", true),

		MaxFileBytes: envInt64("CDS_MAX_FILE_BYTES", 52428800), // 50MB

		XLSXExport: envBool("CDS_XLSX_EXPORT", false),

		LogLevel:  envOr("LOG_LEVEL", "info"),
		LogFormat: envOr("LOG_FORMAT", "json"),
	}

	if cfg.MaxFileBytes <= 0 {
		cfg.MaxFileBytes = 52428800
	}

	return cfg
}

func (c Config) Validate() error {
	if c.InputDir == "" {
		return fmt.Errorf("CDS_INPUT_DIR is required")
	}
	if c.OutputDir == "" {
		return fmt.Errorf("CDS_OUTPUT_DIR is required")
	}
	if c.PDFBackend != PDFBackendGo && c.PDFBackend != PDFBackendPdftotext {
		return fmt.Errorf("PDF_BACKEND must be %q or %q, got %q", PDFBackendGo, PDFBackendPdftotext, c.PDFBackend)
	}
	if c.LogFormat != "json" && c.LogFormat != "text" {
		return fmt.Errorf("LOG_FORMAT must be json or text, got %q", c.LogFormat)
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	return nil
}

// Level parses LogLevel into a slog level.
func (c Config) Level() (slog.Level, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("LOG_LEVEL: %w", err)
	}
	return lvl, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
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
