// Package parse turns raw text inputs into measurement series. It is
// a boundary collaborator: the analysis engine itself never sees raw
// text, only validated samples.
package parse

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"statlab/domain/sample"
)

// regionAliases maps well-known input file stems to display labels.
var regionAliases = map[string]string{
	"dfo":     "DFO",
	"pfo":     "PFO",
	"full":    "Full",
	"region1": "Region1",
	"region2": "Region2",
}

// Values reads a measurement series from r. Accepted line formats:
//   - "<index> <value>" pairs (whitespace separated, value in column 2)
//   - a single value per line
//
// Decimal commas are normalized to dots. Blank lines and lines
// starting with '#' or '//' are skipped; unparsable lines are ignored
// rather than fatal, matching clipboard-paste tolerance.
func Values(r io.Reader) ([]float64, error) {
	var values []float64

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "//") {
			continue
		}
		line = strings.ReplaceAll(line, ",", ".")

		parts := strings.Fields(line)
		field := parts[0]
		if len(parts) >= 2 {
			field = parts[1]
		}

		v, err := strconv.ParseFloat(field, 64)
		if err != nil {
			continue
		}
		values = append(values, v)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read input: %w", err)
	}

	return values, nil
}

// File reads one input file and builds a labeled sample from it. The
// label derives from the file name, with region aliases applied.
func File(path string) (*sample.Sample, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open input %s: %w", path, err)
	}
	defer f.Close()

	values, err := Values(f)
	if err != nil {
		return nil, err
	}

	s, err := sample.New(Label(path), values)
	if err != nil {
		return nil, fmt.Errorf("input %s: %w", path, err)
	}
	return s, nil
}

// Label derives a display label from a file path.
func Label(path string) string {
	stem := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	lower := strings.ToLower(stem)
	for key, alias := range regionAliases {
		if strings.Contains(lower, key) {
			return alias
		}
	}
	return stem
}

// Text builds a labeled sample from pasted text (web/clipboard input).
func Text(label, text string) (*sample.Sample, error) {
	values, err := Values(strings.NewReader(text))
	if err != nil {
		return nil, err
	}
	return sample.New(label, values)
}
