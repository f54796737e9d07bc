package ports

import (
	"context"

	"statlab/domain/analysis"
	"statlab/domain/core"
)

// ReportRepository persists finished analysis reports for later
// retrieval (web history). Implementations must treat reports as
// immutable: save once, read many.
type ReportRepository interface {
	Save(ctx context.Context, report *analysis.Report) error
	GetByID(ctx context.Context, id core.ReportID) (*analysis.Report, error)
	List(ctx context.Context, limit int) ([]*analysis.Report, error)
}
