package main

import (
	"context"
	"log"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	"statlab/adapters/excel"
	"statlab/adapters/postgres"
	"statlab/app"
	"statlab/internal/analysis"
	"statlab/internal/config"
	"statlab/ports"
	"statlab/ui"
)

// initDatabase connects to PostgreSQL and prepares the reports table.
func initDatabase(cfg *config.Config) (*sqlx.DB, error) {
	db, err := sqlx.Connect("postgres", cfg.Database.URL)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		return nil, err
	}
	if err := postgres.Migrate(context.Background(), db); err != nil {
		return nil, err
	}
	return db, nil
}

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	gin.SetMode(cfg.Server.GinMode)

	// Report persistence is optional: without DATABASE_URL the server
	// runs stateless.
	var reports ports.ReportRepository
	if cfg.Database.URL != "" {
		db, err := initDatabase(cfg)
		if err != nil {
			log.Fatalf("Failed to initialize database: %v", err)
		}
		defer db.Close()
		reports = postgres.NewReportRepository(db)
		log.Println("[main] report persistence enabled")
	} else {
		log.Println("[main] DATABASE_URL not set, report persistence disabled")
	}

	engine := analysis.NewEngine(analysis.Options{
		Alpha:         cfg.Analysis.Alpha,
		Methods:       app.ParseMethods(cfg.Analysis.Methods),
		IQRMultiplier: cfg.Analysis.IQRMultiplier,
		IrwinCritical: cfg.Analysis.IrwinCritical,
	})

	renderer := excel.NewReportWriter()
	service := app.NewReportService(engine, renderer, reports)
	server := ui.NewServer(service, renderer, reports, cfg.Output.Dir)
	if err := server.Run(cfg.Server.Port); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
