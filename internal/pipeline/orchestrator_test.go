package pipeline

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/dgallion1/cdsgest/internal/document"
	"github.com/dgallion1/cdsgest/internal/output"
	"github.com/dgallion1/cdsgest/internal/parser/pdftest"
	"github.com/dgallion1/cdsgest/internal/record"
	"github.com/dgallion1/cdsgest/internal/rules"
)

const exampleRules = `
name: Example University
slug: example
dir: Example
years:
  patterns: [span, single]
  skip: [CDS_2021-2022.txt]
admissions:
  applied:
    range: {min: 1000, max: 90000}
    total:
      - kind: line
        all: ["who applied"]
`

func writeReport(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write report: %v", err)
	}
}

func setupInput(t *testing.T) (string, *rules.Institution) {
	t.Helper()
	in, err := rules.Parse([]byte(exampleRules))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	root := t.TempDir()
	dir := filepath.Join(root, "Example")
	if err := os.Mkdir(dir, 0755); err != nil {
		t.Fatal(err)
	}
	writeReport(t, dir, "CDS_2020-2021.txt", "")
	writeReport(t, dir, "CDS_2021-2022.txt", "Total who applied 40,000\n")
	writeReport(t, dir, "CDS_2022-2023.txt", "Total first-time, first-year who applied 45,000\n")
	writeReport(t, dir, "CDS_2022_2023.txt", "Total who applied 12,000\n")
	writeReport(t, dir, "CDS_2023.txt", "Total first-time, first-year who applied 47,500\n")
	writeReport(t, dir, "notes.json", "{}")
	return root, in
}

func newTestOrchestrator(root string) *Orchestrator {
	return NewOrchestrator(Options{InputDir: root, MaxFileBytes: 1 << 20}, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestRun_YearsFromFiles(t *testing.T) {
	root, in := setupInput(t)
	o := newTestOrchestrator(root)

	res, err := o.Run(context.Background(), in)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	labels := res.Record.YearLabels()
	if len(labels) != 2 || labels[0] != "2022-2023" || labels[1] != "2023-2024" {
		t.Fatalf("year labels = %v", labels)
	}
	if got := res.Record.Years["2022-2023"].Admissions.Applied; got != 45000 {
		t.Errorf("2022-2023 applied = %d, want 45000 from the first file", got)
	}
	if got := res.Record.Years["2023-2024"].Admissions.Applied; got != 47500 {
		t.Errorf("2023-2024 applied = %d", got)
	}

	statuses := map[string]JobStatus{}
	for _, j := range res.Jobs {
		statuses[j.Filename] = j.Status
	}
	want := map[string]JobStatus{
		"CDS_2020-2021.txt": StatusFailed,
		"CDS_2022-2023.txt": StatusCompleted,
		"CDS_2022_2023.txt": StatusSkipped,
		"CDS_2023.txt":      StatusCompleted,
	}
	if len(statuses) != len(want) {
		t.Errorf("jobs = %v", statuses)
	}
	for name, st := range want {
		if statuses[name] != st {
			t.Errorf("%s status = %q, want %q", name, statuses[name], st)
		}
	}
	if res.Failed() != 1 {
		t.Errorf("Failed() = %d, want 1", res.Failed())
	}
	if o.Stats().Count != 2 {
		t.Errorf("timing samples = %d, want 2", o.Stats().Count)
	}
}

func TestRun_MissingInputDir(t *testing.T) {
	_, in := setupInput(t)
	o := newTestOrchestrator(t.TempDir())
	_, err := o.Run(context.Background(), in)
	if !errors.Is(err, ErrNoInputDir) {
		t.Fatalf("expected ErrNoInputDir, got %v", err)
	}
}

func TestRun_ExplicitFilesSkipMissing(t *testing.T) {
	root, in := setupInput(t)
	in.Years = rules.YearRules{Files: map[string]string{
		"CDS_2023.txt": "2023-2024",
		"gone.pdf":     "2019-2020",
	}}

	res, err := newTestOrchestrator(root).Run(context.Background(), in)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(res.Jobs) != 1 || res.Jobs[0].Filename != "CDS_2023.txt" {
		t.Fatalf("jobs = %+v", res.Jobs)
	}
	if _, ok := res.Record.Years["2023-2024"]; !ok {
		t.Error("expected explicitly listed year")
	}
}

func TestRun_ExplicitFilesOrderedByLabel(t *testing.T) {
	root, in := setupInput(t)
	dir := filepath.Join(root, "Example")
	writeReport(t, dir, "a-latest.txt", "Total first-time, first-year who applied 50,000\n")
	writeReport(t, dir, "z-early.txt", "Total first-time, first-year who applied 41,000\n")
	writeReport(t, dir, "m-dup.txt", "Total first-time, first-year who applied 42,000\n")
	in.Years = rules.YearRules{Files: map[string]string{
		"a-latest.txt": "2023-2024",
		"z-early.txt":  "2021-2022",
		"m-dup.txt":    "2021-2022",
	}}

	res, err := newTestOrchestrator(root).Run(context.Background(), in)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	var order []string
	for _, j := range res.Jobs {
		order = append(order, j.Filename)
	}
	want := []string{"m-dup.txt", "z-early.txt", "a-latest.txt"}
	if !slices.Equal(order, want) {
		t.Fatalf("job order = %v, want %v", order, want)
	}
	if got := res.Record.Years["2021-2022"].Admissions.Applied; got != 42000 {
		t.Errorf("2021-2022 applied = %d, want 42000 from m-dup.txt", got)
	}
	if res.Jobs[1].Status != StatusSkipped {
		t.Errorf("z-early.txt status = %q, want skipped", res.Jobs[1].Status)
	}
}

// cornellReport draws a one-page report the way producers that position every
// line with a relative text move do.
func cornellReport() []byte {
	runs := pdftest.Lines(50, 750, 14,
		"C1 First-time, first-year students",
		"Total first-time, first-year (degree-seeking) who applied 71,164",
		"Total first-time, first-year (degree-seeking) who were admitted 5,168",
		"Total first-time, first-year (degree-seeking) who enrolled 3,344",
		"C9 Percent and number of first-time, first-year students",
	)
	runs = append(runs,
		pdftest.Run{X: 50, Y: 670, S: "SAT Evidence-Based Reading and Writing"},
		pdftest.Run{X: 400, Y: 670, S: "690"},
		pdftest.Run{X: 450, Y: 670, S: "760"},
		pdftest.Run{X: 50, Y: 656, S: "SAT Math"},
		pdftest.Run{X: 400, Y: 656, S: "700"},
		pdftest.Run{X: 450, Y: 656, S: "790"},
	)
	return pdftest.Build(runs...)
}

func TestRun_PDFReport(t *testing.T) {
	sets, err := rules.Builtin()
	if err != nil {
		t.Fatalf("Builtin: %v", err)
	}
	in, ok := rules.NewCatalog(sets).Get("cornell")
	if !ok {
		t.Fatal("no builtin cornell rules")
	}
	root := t.TempDir()
	dir := filepath.Join(root, in.InputDir())
	if err := os.Mkdir(dir, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "CDS_UNL2_2023_2024-v11.pdf"), cornellReport(), 0644); err != nil {
		t.Fatal(err)
	}

	var outputs [][]byte
	for i := 0; i < 2; i++ {
		res, err := newTestOrchestrator(root).Run(context.Background(), in)
		if err != nil {
			t.Fatalf("Run: %v", err)
		}
		if res.Failed() != 0 {
			t.Fatalf("jobs = %+v", res.Jobs)
		}
		y, ok := res.Record.Years["2023-2024"]
		if !ok {
			t.Fatalf("year labels = %v", res.Record.YearLabels())
		}
		a := y.Admissions
		if a.Applied != 71164 || a.Admitted != 5168 || a.Enrolled != 3344 {
			t.Errorf("counts = %d/%d/%d, want 71164/5168/3344", a.Applied, a.Admitted, a.Enrolled)
		}
		sat := y.TestScores.SAT
		if sat == nil {
			t.Fatal("expected SAT block")
		}
		if sat.Composite.P25 != 1390 || sat.Composite.P75 != 1550 {
			t.Errorf("composite = %d-%d, want 1390-1550", sat.Composite.P25, sat.Composite.P75)
		}
		data, err := output.Marshal(res.Record)
		if err != nil {
			t.Fatalf("Marshal: %v", err)
		}
		outputs = append(outputs, data)
	}
	if !bytes.Equal(outputs[0], outputs[1]) {
		t.Errorf("runs differ:\n%s\n%s", outputs[0], outputs[1])
	}
}

func TestRun_StopsWhenCancelled(t *testing.T) {
	root, in := setupInput(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res, err := newTestOrchestrator(root).Run(ctx, in)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if len(res.Record.Years) != 0 {
		t.Errorf("no file should be processed after cancellation, got %v", res.Record.YearLabels())
	}
}

type panicExtractor struct{}

func (panicExtractor) Extract(*document.Document) record.Year {
	panic("index out of range")
}

func TestWorker_RecoversPanic(t *testing.T) {
	dir := t.TempDir()
	writeReport(t, dir, "CDS_2023.txt", "who applied 45,000\n")
	w := NewWorker(slog.New(slog.NewTextHandler(io.Discard, nil)), Options{}.Parser, 0, NewStats())

	job := NewJob("example", filepath.Join(dir, "CDS_2023.txt"), "2023-2024")
	_, err := w.Process(job, panicExtractor{})
	if !errors.Is(err, ErrPanic) {
		t.Fatalf("expected ErrPanic, got %v", err)
	}
	if job.Status != StatusFailed || job.Phase != "extracting" {
		t.Errorf("job = %q/%q, want failed/extracting", job.Status, job.Phase)
	}
}

func TestReadLimited(t *testing.T) {
	dir := t.TempDir()
	writeReport(t, dir, "big.txt", "0123456789")
	path := filepath.Join(dir, "big.txt")

	if _, err := readLimited(path, 5); !errors.Is(err, ErrTooLarge) {
		t.Errorf("expected ErrTooLarge, got %v", err)
	}
	data, err := readLimited(path, 10)
	if err != nil || string(data) != "0123456789" {
		t.Errorf("readLimited at limit = %q, %v", data, err)
	}
	if _, err := readLimited(filepath.Join(dir, "absent.txt"), 10); err == nil {
		t.Error("expected error for absent file")
	}
}
