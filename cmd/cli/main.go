package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"

	"statlab/adapters/excel"
	"statlab/adapters/markdown"
	"statlab/app"
	"statlab/internal/analysis"
	"statlab/internal/config"
)

// statlab-cli runs the full analysis battery over one or more input
// files and writes a workbook. With two or more inputs a pooled
// Combined sample is analyzed as well.
func main() {
	output := flag.String("o", "out/report.xlsx", "output workbook path")
	alpha := flag.Float64("alpha", 0, "significance level override (0 uses config)")
	printSummary := flag.Bool("summary", false, "print a markdown summary per sample")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [flags] <input-file> [input-file...]\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(2)
	}

	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if *alpha > 0 && *alpha < 1 {
		cfg.Analysis.Alpha = *alpha
	}

	engine := analysis.NewEngine(analysis.Options{
		Alpha:         cfg.Analysis.Alpha,
		Methods:       app.ParseMethods(cfg.Analysis.Methods),
		IQRMultiplier: cfg.Analysis.IQRMultiplier,
		IrwinCritical: cfg.Analysis.IrwinCritical,
	})
	service := app.NewReportService(engine, excel.NewReportWriter(), nil)

	reports, err := service.RunFiles(context.Background(), flag.Args(), *output)
	if err != nil {
		log.Fatalf("Analysis failed: %v", err)
	}

	for _, r := range reports {
		passed, total := r.NormalCount()
		log.Printf("[CLI] %s: n=%d mean=%.4f std=%.4f normality %d/%d",
			r.Label, r.Descriptives.N, r.Descriptives.Mean, r.Descriptives.Std, passed, total)
	}
	if *printSummary {
		renderer := markdown.NewSummaryRenderer()
		for _, r := range reports {
			fmt.Println(renderer.Summary(r))
		}
	}
	log.Printf("[CLI] workbook written to %s", *output)
}
