// Package markdown renders an analysis report as a human-readable
// conclusion, in markdown for the web UI and plain terminals alike.
package markdown

import (
	"fmt"
	"strings"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"

	"statlab/domain/analysis"
)

// SummaryRenderer produces markdown summaries of reports.
type SummaryRenderer struct{}

func NewSummaryRenderer() *SummaryRenderer {
	return &SummaryRenderer{}
}

// Summary renders the report conclusion as markdown.
func (sr *SummaryRenderer) Summary(r *analysis.Report) string {
	d := r.Descriptives
	passed, total := r.NormalCount()

	var b strings.Builder
	fmt.Fprintf(&b, "## Analysis: %s (n=%d)\n\n", r.Label, d.N)
	fmt.Fprintf(&b, "| Statistic | Value |\n|---|---|\n")
	fmt.Fprintf(&b, "| Mean | %.4f |\n", d.Mean)
	fmt.Fprintf(&b, "| Std deviation (n-1) | %.4f |\n", d.Std)
	fmt.Fprintf(&b, "| Median | %.4f |\n", d.Median)
	fmt.Fprintf(&b, "| Q1 / Q3 | %.4f / %.4f |\n", d.Q1, d.Q3)
	fmt.Fprintf(&b, "| Skewness | %.4f |\n", d.Skewness)
	fmt.Fprintf(&b, "| Excess kurtosis | %.4f |\n", d.Kurtosis)
	if d.HarmonicMean != nil {
		fmt.Fprintf(&b, "| Harmonic mean | %.4f |\n", *d.HarmonicMean)
	} else {
		fmt.Fprintf(&b, "| Harmonic mean | N/A |\n")
	}
	if d.GeometricMean != nil {
		fmt.Fprintf(&b, "| Geometric mean | %.4f |\n", *d.GeometricMean)
	} else {
		fmt.Fprintf(&b, "| Geometric mean | N/A |\n")
	}

	fmt.Fprintf(&b, "\nAt significance level alpha=%.2f the confidence interval for the mean is "+
		"mu in [%.4f; %.4f] and for the standard deviation sigma in [%.4f; %.4f].\n\n",
		r.Alpha, d.CIMean.Lower, d.CIMean.Upper, d.CIStd.Lower, d.CIStd.Upper)

	fmt.Fprintf(&b, "### Normality\n\n")
	fmt.Fprintf(&b, "%d of %d completed criteria judge the sample normal.\n\n", passed, total)

	fmt.Fprintf(&b, "### Outliers\n\n")
	for _, m := range analysis.AllOutlierMethods {
		res, ok := r.Outliers[m]
		if !ok {
			continue
		}
		if res.HasOutliers {
			fmt.Fprintf(&b, "- **%s**: %d flagged %v\n", res.DisplayName, res.Count, res.Values)
		} else {
			fmt.Fprintf(&b, "- **%s**: none\n", res.DisplayName)
		}
	}
	return b.String()
}

// HTML converts a markdown summary into an HTML fragment for the web
// UI.
func (sr *SummaryRenderer) HTML(md string) string {
	p := parser.NewWithExtensions(parser.CommonExtensions | parser.Tables)
	renderer := html.NewRenderer(html.RendererOptions{Flags: html.CommonFlags})
	return string(markdown.ToHTML([]byte(md), p, renderer))
}
