// Package excel renders analysis reports into a formatted workbook.
// Cells that Excel can recompute carry live formulas over the data
// range; everything the engine alone can know (critical tables,
// p-values) is written as values.
package excel

import (
	"fmt"
	"log"
	"sort"

	"github.com/xuri/excelize/v2"

	"statlab/domain/analysis"
)

// ReportWriter renders batches of reports into workbooks. It is
// stateless across Render calls: each call builds a fresh workbook.
type ReportWriter struct{}

// NewReportWriter creates a workbook renderer.
func NewReportWriter() *ReportWriter {
	return &ReportWriter{}
}

// workbook carries the per-render excelize file and style palette.
type workbook struct {
	file   *excelize.File
	styles styleSet
}

type styleSet struct {
	title     int
	header    int
	subheader int
	normal    int
	number    int
	integer   int
	good      int
	bad       int
}

func newWorkbook() (*workbook, error) {
	w := &workbook{file: excelize.NewFile()}
	if err := w.createStyles(); err != nil {
		return nil, fmt.Errorf("failed to create styles: %w", err)
	}
	return w, nil
}

func (w *workbook) createStyles() error {
	var err error

	border := []excelize.Border{
		{Type: "left", Color: "000000", Style: 1},
		{Type: "right", Color: "000000", Style: 1},
		{Type: "top", Color: "000000", Style: 1},
		{Type: "bottom", Color: "000000", Style: 1},
	}
	fill := func(color string) excelize.Fill {
		return excelize.Fill{Type: "pattern", Color: []string{color}, Pattern: 1}
	}

	w.styles.title, err = w.file.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 14},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		Fill:      fill("D9E1F2"),
		Border:    border,
	})
	if err != nil {
		return err
	}
	w.styles.header, err = w.file.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Alignment: &excelize.Alignment{Horizontal: "center", WrapText: true},
		Fill:      fill("D9E1F2"),
		Border:    border,
	})
	if err != nil {
		return err
	}
	w.styles.subheader, err = w.file.NewStyle(&excelize.Style{
		Font:   &excelize.Font{Bold: true, Size: 11},
		Fill:   fill("B4C6E7"),
		Border: border,
	})
	if err != nil {
		return err
	}
	w.styles.normal, err = w.file.NewStyle(&excelize.Style{
		Font:   &excelize.Font{Size: 11},
		Border: border,
	})
	if err != nil {
		return err
	}
	numFmt := "0.0000"
	w.styles.number, err = w.file.NewStyle(&excelize.Style{
		Font:         &excelize.Font{Size: 11},
		Border:       border,
		CustomNumFmt: &numFmt,
	})
	if err != nil {
		return err
	}
	intFmt := "0"
	w.styles.integer, err = w.file.NewStyle(&excelize.Style{
		Font:         &excelize.Font{Size: 11},
		Border:       border,
		CustomNumFmt: &intFmt,
	})
	if err != nil {
		return err
	}
	w.styles.good, err = w.file.NewStyle(&excelize.Style{
		Font:   &excelize.Font{Bold: true, Size: 11, Color: "006100"},
		Fill:   fill("C6EFCE"),
		Border: border,
	})
	if err != nil {
		return err
	}
	w.styles.bad, err = w.file.NewStyle(&excelize.Style{
		Font:   &excelize.Font{Bold: true, Size: 11, Color: "9C0006"},
		Fill:   fill("FFC7CE"),
		Border: border,
	})
	return err
}

// Render writes every report plus a summary sheet and saves the
// workbook to outputPath.
func (rw *ReportWriter) Render(reports []*analysis.Report, outputPath string) error {
	w, err := newWorkbook()
	if err != nil {
		return err
	}
	defer w.file.Close()

	for _, r := range reports {
		dataRange, err := w.writeDataSheet(r)
		if err != nil {
			return fmt.Errorf("data sheet for %s: %w", r.Label, err)
		}
		if err := w.writeStatsSheet(r, dataRange); err != nil {
			return fmt.Errorf("stats sheet for %s: %w", r.Label, err)
		}
		if err := w.writeNormalitySheet(r); err != nil {
			return fmt.Errorf("normality sheet for %s: %w", r.Label, err)
		}
		if err := w.writeOutlierSheet(r); err != nil {
			return fmt.Errorf("outlier sheet for %s: %w", r.Label, err)
		}
	}
	if err := w.writeSummarySheet(reports); err != nil {
		return fmt.Errorf("summary sheet: %w", err)
	}

	// Drop the default sheet created by excelize
	if err := w.file.DeleteSheet("Sheet1"); err != nil {
		log.Printf("[ReportWriter] could not delete default sheet: %v", err)
	}

	if err := w.file.SaveAs(outputPath); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	log.Printf("[ReportWriter] workbook saved: %s (%d samples)", outputPath, len(reports))
	return nil
}

// writeDataSheet writes the raw observations and returns the absolute
// data range other sheets reference in formulas.
func (w *workbook) writeDataSheet(r *analysis.Report) (string, error) {
	name := "Data_" + r.Label
	if _, err := w.file.NewSheet(name); err != nil {
		return "", err
	}

	w.file.SetColWidth(name, "A", "A", 8)
	w.file.SetColWidth(name, "B", "B", 14)
	w.file.MergeCell(name, "A1", "B1")
	w.file.SetCellValue(name, "A1", "Input data: "+r.Label)
	w.file.SetCellStyle(name, "A1", "B1", w.styles.title)

	w.file.SetCellValue(name, "A2", "#")
	w.file.SetCellValue(name, "B2", "Xj")
	w.file.SetCellStyle(name, "A2", "B2", w.styles.header)

	for i, v := range r.Values {
		row := i + 3
		w.file.SetCellValue(name, fmt.Sprintf("A%d", row), i+1)
		w.file.SetCellValue(name, fmt.Sprintf("B%d", row), v)
	}
	last := len(r.Values) + 2
	w.file.SetCellStyle(name, "A3", fmt.Sprintf("A%d", last), w.styles.integer)
	w.file.SetCellStyle(name, "B3", fmt.Sprintf("B%d", last), w.styles.number)

	dataRange := fmt.Sprintf("'%s'!$B$3:$B$%d", name, last)
	return dataRange, nil
}

// writeStatsSheet writes descriptive statistics. Spreadsheet-native
// statistics are written as live formulas over the data range so the
// workbook recomputes when values change; engine results follow as
// values for cross-checking.
func (w *workbook) writeStatsSheet(r *analysis.Report, dataRange string) error {
	name := "Stats_" + r.Label
	if _, err := w.file.NewSheet(name); err != nil {
		return err
	}
	d := r.Descriptives

	w.file.SetColWidth(name, "A", "A", 32)
	w.file.SetColWidth(name, "B", "C", 15)
	w.file.MergeCell(name, "A1", "C1")
	w.file.SetCellValue(name, "A1", "DESCRIPTIVE STATISTICS: "+r.Label)
	w.file.SetCellStyle(name, "A1", "C1", w.styles.title)

	w.file.SetCellValue(name, "A2", "Statistic")
	w.file.SetCellValue(name, "B2", "Formula")
	w.file.SetCellValue(name, "C2", "Engine")
	w.file.SetCellStyle(name, "A2", "C2", w.styles.header)

	rows := []struct {
		label   string
		formula string
		value   interface{}
	}{
		{"Sample size n", fmt.Sprintf("COUNT(%s)", dataRange), d.N},
		{"Mean", fmt.Sprintf("AVERAGE(%s)", dataRange), d.Mean},
		{"Std deviation s (n-1)", fmt.Sprintf("STDEV.S(%s)", dataRange), d.Std},
		{"Std deviation (n)", fmt.Sprintf("STDEV.P(%s)", dataRange), d.StdPop},
		{"Variance (n-1)", fmt.Sprintf("VAR.S(%s)", dataRange), d.Variance},
		{"Variance (n)", fmt.Sprintf("VAR.P(%s)", dataRange), d.VariancePop},
		{"Minimum", fmt.Sprintf("MIN(%s)", dataRange), d.Min},
		{"Maximum", fmt.Sprintf("MAX(%s)", dataRange), d.Max},
		{"Range", fmt.Sprintf("MAX(%s)-MIN(%s)", dataRange, dataRange), d.Range},
		{"Median", fmt.Sprintf("MEDIAN(%s)", dataRange), d.Median},
		{"Quartile Q1", fmt.Sprintf("QUARTILE.INC(%s,1)", dataRange), d.Q1},
		{"Quartile Q3", fmt.Sprintf("QUARTILE.INC(%s,3)", dataRange), d.Q3},
		{"Skewness", fmt.Sprintf("SKEW(%s)", dataRange), d.Skewness},
		{"Excess kurtosis", fmt.Sprintf("KURT(%s)", dataRange), d.Kurtosis},
		{"Harmonic mean", fmt.Sprintf("HARMEAN(%s)", dataRange), optional(d.HarmonicMean)},
		{"Geometric mean", fmt.Sprintf("GEOMEAN(%s)", dataRange), optional(d.GeometricMean)},
		{"Standard error", fmt.Sprintf("STDEV.S(%s)/SQRT(COUNT(%s))", dataRange, dataRange), d.StdError},
		{"Coefficient of variation, %", fmt.Sprintf("STDEV.S(%s)/AVERAGE(%s)*100", dataRange, dataRange), d.CV},
	}

	for i, row := range rows {
		rn := i + 3
		w.file.SetCellValue(name, fmt.Sprintf("A%d", rn), row.label)
		w.file.SetCellStyle(name, fmt.Sprintf("A%d", rn), fmt.Sprintf("A%d", rn), w.styles.normal)
		w.file.SetCellFormula(name, fmt.Sprintf("B%d", rn), row.formula)
		w.file.SetCellStyle(name, fmt.Sprintf("B%d", rn), fmt.Sprintf("B%d", rn), w.styles.number)
		if row.value != nil {
			w.file.SetCellValue(name, fmt.Sprintf("C%d", rn), row.value)
		} else {
			w.file.SetCellValue(name, fmt.Sprintf("C%d", rn), "N/A")
		}
		w.file.SetCellStyle(name, fmt.Sprintf("C%d", rn), fmt.Sprintf("C%d", rn), w.styles.number)
	}

	ciRow := len(rows) + 4
	w.file.MergeCell(name, fmt.Sprintf("A%d", ciRow), fmt.Sprintf("C%d", ciRow))
	w.file.SetCellValue(name, fmt.Sprintf("A%d", ciRow), fmt.Sprintf("Confidence intervals (alpha=%.2f)", r.Alpha))
	w.file.SetCellStyle(name, fmt.Sprintf("A%d", ciRow), fmt.Sprintf("C%d", ciRow), w.styles.subheader)

	w.file.SetCellValue(name, fmt.Sprintf("A%d", ciRow+1), "Mean mu")
	w.file.SetCellValue(name, fmt.Sprintf("B%d", ciRow+1), fmt.Sprintf("[%.4f; %.4f]", d.CIMean.Lower, d.CIMean.Upper))
	w.file.SetCellValue(name, fmt.Sprintf("A%d", ciRow+2), "Std deviation sigma")
	w.file.SetCellValue(name, fmt.Sprintf("B%d", ciRow+2), fmt.Sprintf("[%.4f; %.4f]", d.CIStd.Lower, d.CIStd.Upper))
	w.file.SetCellStyle(name, fmt.Sprintf("A%d", ciRow+1), fmt.Sprintf("B%d", ciRow+2), w.styles.normal)

	return nil
}

func (w *workbook) writeNormalitySheet(r *analysis.Report) error {
	name := "Normality_" + r.Label
	if _, err := w.file.NewSheet(name); err != nil {
		return err
	}

	w.file.SetColWidth(name, "A", "A", 6)
	w.file.SetColWidth(name, "B", "B", 24)
	w.file.SetColWidth(name, "C", "F", 15)
	w.file.MergeCell(name, "A1", "F1")
	w.file.SetCellValue(name, "A1", "NORMALITY TESTS: "+r.Label)
	w.file.SetCellStyle(name, "A1", "F1", w.styles.title)

	headers := []string{"#", "Criterion", "Statistic", "p-value", "Critical", "Verdict"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 2)
		w.file.SetCellValue(name, cell, h)
	}
	w.file.SetCellStyle(name, "A2", "F2", w.styles.header)

	row := 3
	for i, crit := range orderedCriteria(r) {
		res := r.Normality[crit]
		w.file.SetCellValue(name, fmt.Sprintf("A%d", row), i+1)
		w.file.SetCellValue(name, fmt.Sprintf("B%d", row), res.DisplayName)
		w.file.SetCellValue(name, fmt.Sprintf("C%d", row), res.Statistic)
		if res.PValue != nil {
			w.file.SetCellValue(name, fmt.Sprintf("D%d", row), *res.PValue)
		} else {
			w.file.SetCellValue(name, fmt.Sprintf("D%d", row), "-")
		}
		if res.CriticalValue != nil {
			w.file.SetCellValue(name, fmt.Sprintf("E%d", row), *res.CriticalValue)
		} else {
			w.file.SetCellValue(name, fmt.Sprintf("E%d", row), r.Alpha)
		}
		w.file.SetCellStyle(name, fmt.Sprintf("A%d", row), fmt.Sprintf("E%d", row), w.styles.number)

		verdict, style := "Normal", w.styles.good
		if res.Inconclusive {
			verdict, style = "Inconclusive", w.styles.bad
		} else if !res.Normal {
			verdict, style = "Not normal", w.styles.bad
		}
		w.file.SetCellValue(name, fmt.Sprintf("F%d", row), verdict)
		w.file.SetCellStyle(name, fmt.Sprintf("F%d", row), fmt.Sprintf("F%d", row), style)
		row++
	}
	return nil
}

func (w *workbook) writeOutlierSheet(r *analysis.Report) error {
	name := "Outliers_" + r.Label
	if _, err := w.file.NewSheet(name); err != nil {
		return err
	}

	w.file.SetColWidth(name, "A", "A", 22)
	w.file.SetColWidth(name, "B", "G", 15)
	w.file.MergeCell(name, "A1", "G1")
	w.file.SetCellValue(name, "A1", "OUTLIER ANALYSIS: "+r.Label)
	w.file.SetCellStyle(name, "A1", "G1", w.styles.title)

	headers := []string{"Method", "Statistic", "Critical", "Lower bound", "Upper bound", "Count", "Verdict"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 2)
		w.file.SetCellValue(name, cell, h)
	}
	w.file.SetCellStyle(name, "A2", "G2", w.styles.header)

	row := 3
	for _, m := range analysis.AllOutlierMethods {
		res, ok := r.Outliers[m]
		if !ok {
			continue
		}
		w.file.SetCellValue(name, fmt.Sprintf("A%d", row), res.DisplayName)
		w.file.SetCellStyle(name, fmt.Sprintf("A%d", row), fmt.Sprintf("A%d", row), w.styles.subheader)
		writeOptional(w.file, name, fmt.Sprintf("B%d", row), res.Statistic)
		writeOptional(w.file, name, fmt.Sprintf("C%d", row), res.CriticalValue)
		writeOptional(w.file, name, fmt.Sprintf("D%d", row), res.LowerBound)
		writeOptional(w.file, name, fmt.Sprintf("E%d", row), res.UpperBound)
		w.file.SetCellValue(name, fmt.Sprintf("F%d", row), res.Count)
		w.file.SetCellStyle(name, fmt.Sprintf("B%d", row), fmt.Sprintf("F%d", row), w.styles.number)

		verdict, style := "No outliers", w.styles.good
		if res.HasOutliers {
			verdict, style = "OUTLIERS FOUND", w.styles.bad
		}
		w.file.SetCellValue(name, fmt.Sprintf("G%d", row), verdict)
		w.file.SetCellStyle(name, fmt.Sprintf("G%d", row), fmt.Sprintf("G%d", row), style)
		row++

		if len(res.Values) > 0 {
			w.file.SetCellValue(name, fmt.Sprintf("A%d", row), "Flagged values:")
			w.file.SetCellStyle(name, fmt.Sprintf("A%d", row), fmt.Sprintf("A%d", row), w.styles.normal)
			for i, v := range res.Values {
				if i >= 6 {
					break
				}
				cell, _ := excelize.CoordinatesToCellName(i+2, row)
				w.file.SetCellValue(name, cell, v)
				w.file.SetCellStyle(name, cell, cell, w.styles.number)
			}
			row++
		}
	}
	return nil
}

func (w *workbook) writeSummarySheet(reports []*analysis.Report) error {
	name := "Summary"
	if _, err := w.file.NewSheet(name); err != nil {
		return err
	}

	w.file.SetColWidth(name, "A", "A", 18)
	w.file.SetColWidth(name, "B", "G", 18)
	w.file.MergeCell(name, "A1", "G1")
	w.file.SetCellValue(name, "A1", "SUMMARY OF ALL SAMPLES")
	w.file.SetCellStyle(name, "A1", "G1", w.styles.title)

	headers := []string{"Sample", "n", "Mean", "Std dev", "CI for mu", "CI for sigma", "Normality passed"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 2)
		w.file.SetCellValue(name, cell, h)
	}
	w.file.SetCellStyle(name, "A2", "G2", w.styles.header)

	for i, r := range reports {
		row := i + 3
		d := r.Descriptives
		passed, total := r.NormalCount()
		w.file.SetCellValue(name, fmt.Sprintf("A%d", row), r.Label)
		w.file.SetCellValue(name, fmt.Sprintf("B%d", row), d.N)
		w.file.SetCellValue(name, fmt.Sprintf("C%d", row), d.Mean)
		w.file.SetCellValue(name, fmt.Sprintf("D%d", row), d.Std)
		w.file.SetCellValue(name, fmt.Sprintf("E%d", row), fmt.Sprintf("[%.4f; %.4f]", d.CIMean.Lower, d.CIMean.Upper))
		w.file.SetCellValue(name, fmt.Sprintf("F%d", row), fmt.Sprintf("[%.4f; %.4f]", d.CIStd.Lower, d.CIStd.Upper))
		w.file.SetCellValue(name, fmt.Sprintf("G%d", row), fmt.Sprintf("%d of %d", passed, total))
		w.file.SetCellStyle(name, fmt.Sprintf("A%d", row), fmt.Sprintf("G%d", row), w.styles.normal)
	}
	return nil
}

func writeOptional(f *excelize.File, sheet, cell string, v *float64) {
	if v != nil {
		f.SetCellValue(sheet, cell, *v)
	} else {
		f.SetCellValue(sheet, cell, "-")
	}
}

func optional(v *float64) interface{} {
	if v == nil {
		return nil
	}
	return *v
}

// orderedCriteria returns the report's normality criteria in a stable
// display order.
func orderedCriteria(r *analysis.Report) []analysis.NormalityCriterion {
	order := map[analysis.NormalityCriterion]int{
		analysis.CriterionShapiroFrancia: 0,
		analysis.CriterionRomanovsky:     1,
		analysis.CriterionChiSquare:      2,
		analysis.CriterionKolmogorov:     3,
		analysis.CriterionSmirnov:        4,
	}
	crits := make([]analysis.NormalityCriterion, 0, len(r.Normality))
	for c := range r.Normality {
		crits = append(crits, c)
	}
	sort.Slice(crits, func(i, j int) bool { return order[crits[i]] < order[crits[j]] })
	return crits
}
