package main

import (
	"context"
	"encoding/json"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	"statlab/adapters/postgres"
	"statlab/app"
	"statlab/domain/core"
	"statlab/domain/sample"
	"statlab/internal/analysis"
	"statlab/internal/config"
	"statlab/ports"
)

// statlab-api is the headless JSON counterpart of the web UI: it
// accepts raw values and returns the finished report, no workbook.
type apiServer struct {
	engine  *analysis.Engine
	reports ports.ReportRepository // nil when persistence is disabled
}

type analyzeRequest struct {
	Label  string    `json:"label"`
	Values []float64 `json:"values"`
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	srv := &apiServer{
		engine: analysis.NewEngine(analysis.Options{
			Alpha:         cfg.Analysis.Alpha,
			Methods:       app.ParseMethods(cfg.Analysis.Methods),
			IQRMultiplier: cfg.Analysis.IQRMultiplier,
			IrwinCritical: cfg.Analysis.IrwinCritical,
		}),
	}

	if cfg.Database.URL != "" {
		db, err := sqlx.Connect("postgres", cfg.Database.URL)
		if err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}
		defer db.Close()
		if err := postgres.Migrate(context.Background(), db); err != nil {
			log.Fatalf("Failed to migrate database: %v", err)
		}
		srv.reports = postgres.NewReportRepository(db)
	}

	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))

	r.Post("/analyze", srv.handleAnalyze)
	r.Get("/reports", srv.handleListReports)
	r.Get("/reports/{id}", srv.handleGetReport)
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	log.Printf("[API] listening on :%s", cfg.Server.Port)
	if err := http.ListenAndServe(":"+cfg.Server.Port, r); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}

func (s *apiServer) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req analyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if req.Label == "" {
		req.Label = "Sample"
	}

	smp, err := sample.New(req.Label, req.Values)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err)
		return
	}
	report, err := s.engine.Analyze(smp)
	if err != nil {
		status := http.StatusInternalServerError
		if core.IsDegenerateSample(err) || core.IsInvalidInput(err) {
			status = http.StatusUnprocessableEntity
		}
		writeError(w, status, err)
		return
	}

	if s.reports != nil {
		if err := s.reports.Save(r.Context(), report); err != nil {
			log.Printf("[API] failed to persist report %s: %v", report.ID, err)
		}
	}
	writeJSON(w, http.StatusOK, report)
}

func (s *apiServer) handleGetReport(w http.ResponseWriter, r *http.Request) {
	if s.reports == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "report persistence is disabled"})
		return
	}
	report, err := s.reports.GetByID(r.Context(), core.ReportID(chi.URLParam(r, "id")))
	if err != nil {
		writeError(w, http.StatusNotFound, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (s *apiServer) handleListReports(w http.ResponseWriter, r *http.Request) {
	if s.reports == nil {
		writeJSON(w, http.StatusOK, []any{})
		return
	}
	reports, err := s.reports.List(r.Context(), 50)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, reports)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("[API] failed to encode response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
