package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"

	"github.com/dgallion1/cdsgest/internal/config"
	"github.com/dgallion1/cdsgest/internal/output"
	"github.com/dgallion1/cdsgest/internal/parser"
	"github.com/dgallion1/cdsgest/internal/pipeline"
	"github.com/dgallion1/cdsgest/internal/rules"
)

func main() {
	os.Exit(run())
}

func run() int {
	cfg := config.Load()
	flag.StringVar(&cfg.InputDir, "input", cfg.InputDir, "directory holding one sub-directory of reports per institution")
	flag.StringVar(&cfg.OutputDir, "output", cfg.OutputDir, "directory for <slug>.json output")
	flag.StringVar(&cfg.RulesDir, "rules", cfg.RulesDir, "extra rule file or directory of rule files")
	flag.BoolVar(&cfg.XLSXExport, "xlsx", cfg.XLSXExport, "also write <slug>.xlsx")
	flag.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "debug, info, warn or error")
	list := flag.Bool("list", false, "print known institutions and exit")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: cdsgest [flags] [institution-slug ...]\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	if err := cfg.Validate(); err != nil {
		slog.New(slog.NewJSONHandler(os.Stderr, nil)).Error("invalid configuration", "error", err)
		return 1
	}
	log := newLogger(cfg)

	if cfg.PDFBackend == config.PDFBackendPdftotext {
		if err := parser.CheckPdftotext(); err != nil {
			log.Error("pdf backend unavailable", "backend", cfg.PDFBackend, "error", err)
			return 1
		}
	}

	catalog, err := loadRules(cfg.RulesDir)
	if err != nil {
		log.Error("failed to load rules", "error", err)
		return 1
	}
	if *list {
		for _, slug := range catalog.Slugs() {
			in, _ := catalog.Get(slug)
			fmt.Printf("%s\t%s\n", slug, in.Name)
		}
		return 0
	}

	slugs := flag.Args()
	if len(slugs) == 0 {
		slugs = catalog.Slugs()
	}
	var selected []*rules.Institution
	for _, slug := range slugs {
		in, ok := catalog.Get(slug)
		if !ok {
			log.Error("unknown institution", "slug", slug, "known", catalog.Slugs())
			return 1
		}
		selected = append(selected, in)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log = log.With("run_id", uuid.NewString())
	orch := pipeline.NewOrchestrator(pipeline.Options{
		InputDir:     cfg.InputDir,
		MaxFileBytes: cfg.MaxFileBytes,
		Parser: parser.Options{
			PDFBackend:        cfg.PDFBackend,
			FallbackPdftotext: cfg.PDFFallbackPdftotext,
		},
	}, log)

	log.Info("starting cdsgest", "institutions", len(selected), "input", cfg.InputDir, "output", cfg.OutputDir)
	for _, in := range selected {
		if ctx.Err() != nil {
			break
		}
		process(ctx, log, orch, cfg, in)
	}

	if ctx.Err() != nil {
		log.Warn("interrupted, remaining institutions skipped")
	}
	snap := orch.Stats()
	log.Info("run complete",
		"files", snap.Count,
		"p50_ms", snap.P50Ms,
		"p95_ms", snap.P95Ms,
		"max_ms", snap.MaxMs,
	)
	return 0
}

// process extracts and writes one institution. Failures are logged and never
// change the exit status.
func process(ctx context.Context, log *slog.Logger, orch *pipeline.Orchestrator, cfg config.Config, in *rules.Institution) {
	log = log.With("institution", in.Slug)

	res, err := orch.Run(ctx, in)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			log.Warn("institution interrupted, output not written")
			return
		}
		log.Error("institution failed", "error", err)
		return
	}

	path, err := output.WriteJSON(cfg.OutputDir, res.Record)
	if err != nil {
		log.Error("write json failed", "error", err)
		return
	}
	log.Info("wrote institution", "path", path, "years", len(res.Record.Years), "files", len(res.Jobs), "failed", res.Failed())

	if cfg.XLSXExport {
		if p, err := output.WriteXLSX(cfg.OutputDir, res.Record); err != nil {
			log.Error("write xlsx failed", "error", err)
		} else {
			log.Info("wrote workbook", "path", p)
		}
	}
	if err := output.WriteSummary(os.Stderr, res.Record); err != nil {
		log.Warn("summary failed", "error", err)
	}
}

func newLogger(cfg config.Config) *slog.Logger {
	level := new(slog.LevelVar)
	if lvl, err := cfg.Level(); err == nil {
		level.Set(lvl)
	}
	opts := &slog.HandlerOptions{Level: level}
	if cfg.LogFormat == "text" {
		return slog.New(slog.NewTextHandler(os.Stderr, opts))
	}
	return slog.New(slog.NewJSONHandler(os.Stderr, opts))
}

// loadRules combines the built-in rule tables with an optional rule file or
// directory; rules from disk replace built-ins with the same slug.
func loadRules(extra string) (*rules.Catalog, error) {
	builtin, err := rules.Builtin()
	if err != nil {
		return nil, fmt.Errorf("builtin rules: %w", err)
	}
	if extra == "" {
		return rules.NewCatalog(builtin), nil
	}

	fi, err := os.Stat(extra)
	if err != nil {
		return nil, fmt.Errorf("rules path: %w", err)
	}
	var more []*rules.Institution
	if fi.IsDir() {
		more, err = rules.LoadDir(extra)
	} else {
		var in *rules.Institution
		in, err = rules.LoadFile(extra)
		more = []*rules.Institution{in}
	}
	if err != nil {
		return nil, err
	}
	return rules.NewCatalog(builtin, more), nil
}
