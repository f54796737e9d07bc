package ports

import "statlab/domain/analysis"

// WorkbookRenderer turns a batch of reports into a spreadsheet
// workbook on disk. Rendering consumes reports; it never computes.
type WorkbookRenderer interface {
	Render(reports []*analysis.Report, outputPath string) error
}

// SummaryRenderer produces a human-readable summary of one report.
type SummaryRenderer interface {
	Summary(report *analysis.Report) string
}
