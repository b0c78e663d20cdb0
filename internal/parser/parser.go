package parser

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/dgallion1/cdsgest/internal/document"
)

// Parser converts raw report bytes into a Document.
type Parser interface {
	Parse(r io.Reader, filename string) (*document.Document, error)
}

// Options tune format-specific behaviour.
type Options struct {
	PDFBackend        string // "go" or "pdftotext"
	FallbackPdftotext bool
}

// SupportedExtensions lists file extensions this tool can read.
var SupportedExtensions = map[string]bool{
	".pdf":      true,
	".xlsx":     true,
	".docx":     true,
	".html":     true,
	".htm":      true,
	".md":       true,
	".markdown": true,
	".csv":      true,
	".txt":      true,
}

// ForFile returns the appropriate parser for a filename.
func ForFile(filename string, opts Options) (Parser, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".pdf":
		return &PDFParser{Backend: opts.PDFBackend, FallbackPdftotext: opts.FallbackPdftotext}, nil
	case ".xlsx":
		return &XLSXParser{}, nil
	case ".docx":
		return &DOCXParser{}, nil
	case ".html", ".htm":
		return &HTMLParser{}, nil
	case ".md", ".markdown":
		return &MarkdownParser{}, nil
	case ".csv":
		return &CSVParser{}, nil
	case ".txt":
		return &TextParser{}, nil
	default:
		return nil, fmt.Errorf("unsupported file extension: %s", ext)
	}
}

// IsSupportedExtension checks if a file extension is supported.
func IsSupportedExtension(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	return SupportedExtensions[ext]
}

func titleOf(filename string) string {
	return strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
}
