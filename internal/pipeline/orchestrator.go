package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	"github.com/dgallion1/cdsgest/internal/extract"
	"github.com/dgallion1/cdsgest/internal/parser"
	"github.com/dgallion1/cdsgest/internal/record"
	"github.com/dgallion1/cdsgest/internal/rules"
)

// ErrNoInputDir is returned when an institution's input directory is absent.
var ErrNoInputDir = errors.New("input directory not found")

// Options configures a run.
type Options struct {
	InputDir     string
	MaxFileBytes int64
	Parser       parser.Options
}

// Orchestrator walks institutions and their report files one at a time.
type Orchestrator struct {
	opts   Options
	log    *slog.Logger
	stats  *Stats
	worker *Worker
}

func NewOrchestrator(opts Options, log *slog.Logger) *Orchestrator {
	stats := NewStats()
	return &Orchestrator{
		opts:   opts,
		log:    log,
		stats:  stats,
		worker: NewWorker(log, opts.Parser, opts.MaxFileBytes, stats),
	}
}

// Result is one institution's record together with its per-file outcomes.
type Result struct {
	Record *record.Institution
	Jobs   []JobSnapshot
}

// Failed counts files whose extraction failed.
func (r *Result) Failed() int {
	n := 0
	for _, j := range r.Jobs {
		if j.Status == StatusFailed {
			n++
		}
	}
	return n
}

// Run extracts every report of one institution. Per-file failures are logged
// and that year is omitted; the context is only checked between files.
func (o *Orchestrator) Run(ctx context.Context, in *rules.Institution) (*Result, error) {
	log := o.log.With("institution", in.Slug)
	dir := filepath.Join(o.opts.InputDir, in.InputDir())

	jobs, err := o.plan(log, dir, in)
	if err != nil {
		return nil, err
	}

	res := &Result{Record: record.New(in.Name, in.Slug)}
	ex := extract.New(in, log)
	seen := make(map[string]string)

	for _, job := range jobs {
		if err := ctx.Err(); err != nil {
			return res, fmt.Errorf("run %s: %w", in.Slug, err)
		}
		if _, dup := res.Record.Years[job.Year]; dup {
			log.Warn("duplicate year label, keeping first file", "file", job.Filename, "year", job.Year)
			job.SetStatus(StatusSkipped, "dedup")
			res.Jobs = append(res.Jobs, job.Snapshot())
			continue
		}

		year, err := o.worker.Process(job, ex)
		res.Jobs = append(res.Jobs, job.Snapshot())
		if err != nil {
			log.Error("file failed", "file", job.Filename, "year", job.Year, "error", err)
			continue
		}
		if prev, ok := seen[job.ContentHash]; ok {
			log.Warn("identical report content", "file", job.Filename, "same_as", prev)
		}
		seen[job.ContentHash] = job.Filename
		res.Record.Years[job.Year] = year
	}

	if len(res.Record.Years) == 0 {
		log.Warn("no years extracted", "files", len(jobs))
	}
	return res, nil
}

// Stats returns the extraction timings collected so far.
func (o *Orchestrator) Stats() StatsSnapshot {
	return o.stats.Snapshot()
}

// plan lists the report files of an institution with their year labels.
// Directory scans keep name order; explicit file maps are ordered by label,
// then name. Explicitly listed files that do not exist are warned about
// and skipped.
func (o *Orchestrator) plan(log *slog.Logger, dir string, in *rules.Institution) ([]*Job, error) {
	if _, err := os.Stat(dir); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNoInputDir, dir)
		}
		return nil, fmt.Errorf("stat input dir: %w", err)
	}

	var names []string
	if in.Years.Explicit() {
		for name := range in.Years.Files {
			if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
				log.Warn("input file not found", "file", name)
				continue
			}
			names = append(names, name)
		}
		// label order, so the earliest year's file wins a duplicate label
		sort.Slice(names, func(i, j int) bool {
			li, lj := in.Years.Label(names[i]), in.Years.Label(names[j])
			if li != lj {
				return li < lj
			}
			return names[i] < names[j]
		})
	} else {
		entries, err := os.ReadDir(dir)
		if err != nil {
			return nil, fmt.Errorf("read input dir: %w", err)
		}
		for _, e := range entries {
			if e.IsDir() || !parser.IsSupportedExtension(e.Name()) {
				continue
			}
			names = append(names, e.Name())
		}
	}

	var jobs []*Job
	for _, name := range names {
		if in.Years.Skipped(name) {
			log.Info("skipping file", "file", name)
			continue
		}
		jobs = append(jobs, NewJob(in.Slug, filepath.Join(dir, name), in.Years.Label(name)))
	}
	return jobs, nil
}
