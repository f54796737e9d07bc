package app

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"golang.org/x/sync/errgroup"

	"statlab/adapters/parse"
	domain "statlab/domain/analysis"
	"statlab/domain/sample"
	"statlab/internal/analysis"
	"statlab/ports"
)

// combinedLabel names the pooled sample appended when a batch holds
// two or more inputs.
const combinedLabel = "Combined"

// ReportService runs the analysis pipeline for batches of samples:
// parse, analyze in parallel, optionally persist, render.
type ReportService struct {
	engine   *analysis.Engine
	renderer ports.WorkbookRenderer
	reports  ports.ReportRepository // nil when persistence is disabled
}

// NewReportService wires the batch pipeline. reports may be nil.
func NewReportService(engine *analysis.Engine, renderer ports.WorkbookRenderer, reports ports.ReportRepository) *ReportService {
	return &ReportService{engine: engine, renderer: renderer, reports: reports}
}

// ParseMethods converts configured method names into the typed
// selector, ignoring unknown names with a warning.
func ParseMethods(names []string) []domain.OutlierMethod {
	known := make(map[domain.OutlierMethod]bool, len(domain.AllOutlierMethods))
	for _, m := range domain.AllOutlierMethods {
		known[m] = true
	}
	var methods []domain.OutlierMethod
	for _, name := range names {
		m := domain.OutlierMethod(name)
		if known[m] {
			methods = append(methods, m)
		} else {
			log.Printf("[ReportService] ignoring unknown outlier method %q", name)
		}
	}
	return methods
}

// AnalyzeBatch analyzes every sample concurrently. Samples are fully
// independent, so each worker owns its report triple and no
// synchronization beyond the group join is needed. One bad sample
// fails the whole batch; report order matches input order.
func (s *ReportService) AnalyzeBatch(ctx context.Context, samples []*sample.Sample) ([]*domain.Report, error) {
	if len(samples) == 0 {
		return nil, fmt.Errorf("no samples to analyze")
	}

	reports := make([]*domain.Report, len(samples))
	g, ctx := errgroup.WithContext(ctx)
	for i, smp := range samples {
		i, smp := i, smp
		g.Go(func() error {
			report, err := s.engine.Analyze(smp)
			if err != nil {
				return fmt.Errorf("sample %s: %w", smp.Label(), err)
			}
			reports[i] = report
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if s.reports != nil {
		for _, r := range reports {
			if err := s.reports.Save(ctx, r); err != nil {
				// Persistence is history, not correctness
				log.Printf("[ReportService] failed to persist report %s: %v", r.ID, err)
			}
		}
	}
	return reports, nil
}

// RunFiles parses the given input files, analyzes them (plus a pooled
// Combined sample when there are at least two inputs), and renders the
// workbook into outputPath. It returns the reports in render order.
func (s *ReportService) RunFiles(ctx context.Context, paths []string, outputPath string) ([]*domain.Report, error) {
	var samples []*sample.Sample
	for _, p := range paths {
		smp, err := parse.File(p)
		if err != nil {
			return nil, err
		}
		log.Printf("[ReportService] loaded %s (n=%d)", smp.Label(), smp.Len())
		samples = append(samples, smp)
	}

	if len(samples) >= 2 {
		combined, err := sample.Combine(combinedLabel, samples...)
		if err != nil {
			return nil, fmt.Errorf("combined sample: %w", err)
		}
		samples = append(samples, combined)
	}

	reports, err := s.AnalyzeBatch(ctx, samples)
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}
	if err := s.renderer.Render(reports, outputPath); err != nil {
		return nil, err
	}
	return reports, nil
}
