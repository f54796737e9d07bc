package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"statlab/domain/analysis"
	"statlab/domain/core"
	"statlab/ports"
)

// reportRepository implements ports.ReportRepository on PostgreSQL.
// Reports are immutable aggregates, so the payload is stored whole as
// JSONB with a few indexed columns alongside.
type reportRepository struct {
	db *sqlx.DB
}

// NewReportRepository creates a new report repository
func NewReportRepository(db *sqlx.DB) ports.ReportRepository {
	return &reportRepository{db: db}
}

// Migrate creates the reports table if it does not exist yet.
func Migrate(ctx context.Context, db *sqlx.DB) error {
	schema := `CREATE TABLE IF NOT EXISTS reports (
		id TEXT PRIMARY KEY,
		label TEXT NOT NULL,
		sample_size INT NOT NULL,
		alpha DOUBLE PRECISION NOT NULL,
		payload JSONB NOT NULL,
		created_at TIMESTAMPTZ NOT NULL
	)`
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to create reports table: %w", err)
	}
	return nil
}

// Save inserts a finished report.
func (r *reportRepository) Save(ctx context.Context, report *analysis.Report) error {
	payload, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}

	query := `INSERT INTO reports (id, label, sample_size, alpha, payload, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err = r.db.ExecContext(ctx, query,
		report.ID, report.Label, report.Descriptives.N, report.Alpha, payload, report.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save report: %w", err)
	}
	return nil
}

// GetByID retrieves one report by its ID.
func (r *reportRepository) GetByID(ctx context.Context, id core.ReportID) (*analysis.Report, error) {
	var payload []byte
	err := r.db.QueryRowContext(ctx, `SELECT payload FROM reports WHERE id = $1`, id).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", core.ErrReportNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load report %s: %w", id, err)
	}

	var report analysis.Report
	if err := json.Unmarshal(payload, &report); err != nil {
		return nil, fmt.Errorf("failed to unmarshal report %s: %w", id, err)
	}
	return &report, nil
}

// List returns the most recent reports, newest first.
func (r *reportRepository) List(ctx context.Context, limit int) ([]*analysis.Report, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := r.db.QueryContext(ctx,
		`SELECT payload FROM reports ORDER BY created_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list reports: %w", err)
	}
	defer rows.Close()

	var reports []*analysis.Report
	for rows.Next() {
		var payload []byte
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("failed to scan report row: %w", err)
		}
		var report analysis.Report
		if err := json.Unmarshal(payload, &report); err != nil {
			return nil, fmt.Errorf("failed to unmarshal report: %w", err)
		}
		reports = append(reports, &report)
	}
	return reports, rows.Err()
}
