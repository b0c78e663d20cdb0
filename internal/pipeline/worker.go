package pipeline

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"runtime/debug"
	"time"

	"github.com/dgallion1/cdsgest/internal/document"
	"github.com/dgallion1/cdsgest/internal/parser"
	"github.com/dgallion1/cdsgest/internal/record"
)

var (
	// ErrTooLarge is returned for report files above the configured size limit.
	ErrTooLarge = errors.New("file exceeds size limit")
	// ErrNoContent is returned when a report yields no text or tables.
	ErrNoContent = errors.New("no extractable content")
	// ErrPanic wraps a recovered panic from parsing or extraction.
	ErrPanic = errors.New("extraction panicked")
)

// Extractor turns a parsed report into a year record.
type Extractor interface {
	Extract(doc *document.Document) record.Year
}

// Worker processes a single report file.
type Worker struct {
	log      *slog.Logger
	opts     parser.Options
	maxBytes int64
	stats    *Stats
}

func NewWorker(log *slog.Logger, opts parser.Options, maxBytes int64, stats *Stats) *Worker {
	return &Worker{
		log:      log,
		opts:     opts,
		maxBytes: maxBytes,
		stats:    stats,
	}
}

// Process parses one report and extracts its year. A panic anywhere in
// parsing or extraction is recovered and returned as an error wrapping
// ErrPanic so the caller can continue with the next file.
func (w *Worker) Process(job *Job, ex Extractor) (year record.Year, err error) {
	log := w.log.With("institution", job.Institution, "file", job.Filename, "year", job.Year)
	start := time.Now()
	defer func() {
		job.Duration = time.Since(start)
		if r := recover(); r != nil {
			log.Error("extraction panicked", "panic", r, "stack", string(debug.Stack()))
			err = fmt.Errorf("%w: %v", ErrPanic, r)
			job.Fail(job.Phase, err)
		}
	}()

	// Phase 1: Parse
	job.SetStatus(StatusParsing, "parsing")
	data, err := readLimited(job.Path, w.maxBytes)
	if err != nil {
		job.Fail("parsing", err)
		return record.Year{}, err
	}
	job.ContentHash = ContentHashHex(data)

	p, err := parser.ForFile(job.Filename, w.opts)
	if err != nil {
		job.Fail("parsing", err)
		return record.Year{}, err
	}
	doc, err := p.Parse(bytes.NewReader(data), job.Filename)
	if err != nil {
		err = fmt.Errorf("parse %s: %w", job.Filename, err)
		job.Fail("parsing", err)
		return record.Year{}, err
	}
	if doc.Empty() {
		job.Fail("parsing", ErrNoContent)
		return record.Year{}, ErrNoContent
	}
	log.Debug("parsed report", "pages", len(doc.Pages), "tables", len(doc.Tables()))

	// Phase 2: Extract
	job.SetStatus(StatusExtracting, "extracting")
	year = ex.Extract(doc)

	w.stats.Record(time.Since(start).Milliseconds())
	job.SetStatus(StatusCompleted, "done")
	log.Info("extracted year", "missing", len(year.Missing), "elapsed_ms", time.Since(start).Milliseconds())
	return year, nil
}

// readLimited reads a whole file, refusing anything larger than limit bytes.
// A non-positive limit disables the limit.
func readLimited(path string, limit int64) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open report: %w", err)
	}
	defer f.Close()

	if limit <= 0 {
		return io.ReadAll(f)
	}
	data, err := io.ReadAll(io.LimitReader(f, limit+1))
	if err != nil {
		return nil, fmt.Errorf("read report: %w", err)
	}
	if int64(len(data)) > limit {
		return nil, fmt.Errorf("%w: %d bytes", ErrTooLarge, limit)
	}
	return data, nil
}
