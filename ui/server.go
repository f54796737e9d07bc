// Package ui serves the web front-end: paste data, run the analysis,
// read the summary, download the workbook. It consumes finished
// reports only; all computation lives in the engine.
package ui

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"sync"

	"github.com/gin-gonic/gin"

	"statlab/adapters/markdown"
	"statlab/adapters/parse"
	"statlab/app"
	"statlab/domain/core"
	"statlab/domain/sample"
	"statlab/ports"
)

// Server is the gin web server for statlab.
type Server struct {
	router   *gin.Engine
	service  *app.ReportService
	summary  *markdown.SummaryRenderer
	reports  ports.ReportRepository // nil when persistence is disabled
	renderer ports.WorkbookRenderer
	workDir  string

	// Last rendered workbook per report ID, for downloads
	mu        sync.RWMutex
	workbooks map[core.ReportID]string
}

// NewServer creates a new web server instance
func NewServer(service *app.ReportService, renderer ports.WorkbookRenderer, reports ports.ReportRepository, workDir string) *Server {
	s := &Server{
		router:    gin.Default(),
		service:   service,
		summary:   markdown.NewSummaryRenderer(),
		reports:   reports,
		renderer:  renderer,
		workDir:   workDir,
		workbooks: make(map[core.ReportID]string),
	}
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	s.router.GET("/", s.handleIndex)
	s.router.POST("/analyze", s.handleAnalyze)
	s.router.GET("/reports/:id", s.handleGetReport)
	s.router.GET("/reports/:id/workbook", s.handleDownloadWorkbook)
	s.router.GET("/reports", s.handleListReports)
	s.router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
}

// Run starts the server on the given port.
func (s *Server) Run(port string) error {
	log.Printf("[Server] listening on :%s", port)
	return s.router.Run(":" + port)
}

const indexPage = `<!DOCTYPE html>
<html>
<head><title>statlab</title></head>
<body>
<h1>statlab</h1>
<p>Paste measurements below: one value per line, or "index value" pairs.
Decimal commas are accepted.</p>
<form method="POST" action="/analyze">
<input type="text" name="label" placeholder="Sample label" value="Sample"/><br/>
<textarea name="data" rows="20" cols="40"></textarea><br/>
<button type="submit">Analyze</button>
</form>
</body>
</html>`

func (s *Server) handleIndex(c *gin.Context) {
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(indexPage))
}

// handleAnalyze parses posted data, runs the full battery on it and
// responds with JSON or an HTML summary depending on the format query.
func (s *Server) handleAnalyze(c *gin.Context) {
	label := c.DefaultPostForm("label", "Sample")
	data := c.PostForm("data")

	smp, err := parse.Text(label, data)
	if err != nil {
		status := http.StatusBadRequest
		if core.IsInvalidInput(err) {
			status = http.StatusUnprocessableEntity
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	reports, err := s.service.AnalyzeBatch(c.Request.Context(), []*sample.Sample{smp})
	if err != nil {
		status := http.StatusInternalServerError
		if core.IsDegenerateSample(err) || core.IsInvalidInput(err) {
			status = http.StatusUnprocessableEntity
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}
	report := reports[0]

	// Render the workbook alongside so it is downloadable afterwards
	path := filepath.Join(s.workDir, fmt.Sprintf("report_%s.xlsx", report.ID))
	if err := os.MkdirAll(s.workDir, 0o755); err == nil {
		if err := s.renderer.Render(reports, path); err != nil {
			log.Printf("[Server] workbook render failed for %s: %v", report.ID, err)
		} else {
			s.mu.Lock()
			s.workbooks[report.ID] = path
			s.mu.Unlock()
		}
	}

	if c.DefaultQuery("format", "html") == "json" {
		c.JSON(http.StatusOK, report)
		return
	}

	md := s.summary.Summary(report)
	page := fmt.Sprintf(`<!DOCTYPE html><html><head><title>statlab: %s</title></head><body>%s
<p><a href="/reports/%s/workbook">Download workbook</a></p>
<p><a href="/">Back</a></p></body></html>`,
		report.Label, s.summary.HTML(md), report.ID)
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(page))
}

func (s *Server) handleGetReport(c *gin.Context) {
	if s.reports == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "report persistence is disabled"})
		return
	}
	report, err := s.reports.GetByID(c.Request.Context(), core.ReportID(c.Param("id")))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, report)
}

func (s *Server) handleListReports(c *gin.Context) {
	if s.reports == nil {
		c.JSON(http.StatusOK, []any{})
		return
	}
	reports, err := s.reports.List(c.Request.Context(), 50)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, reports)
}

// handleDownloadWorkbook serves the workbook rendered for a report.
func (s *Server) handleDownloadWorkbook(c *gin.Context) {
	id := core.ReportID(c.Param("id"))
	s.mu.RLock()
	path, ok := s.workbooks[id]
	s.mu.RUnlock()
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "no workbook for this report"})
		return
	}
	if _, err := os.Stat(path); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "workbook file missing"})
		return
	}
	c.FileAttachment(path, filepath.Base(path))
}
