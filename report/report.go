// Package report renders price records as a console table and a timestamped
// CSV artifact.
package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/olekukonko/tablewriter"
)

const timestampLayout = "20060102150405"

// Table renders headers and rows to w.
func Table(w io.Writer, headers []string, rows [][]string) {
	table := tablewriter.NewWriter(w)
	table.SetHeader(headers)
	for _, row := range rows {
		table.Append(row)
	}
	table.Render()
}

// CSVPath returns the output path for prefix in dir, stamped with now.
func CSVPath(dir, prefix string, now time.Time) string {
	return filepath.Join(dir, fmt.Sprintf("%s_%s.csv", prefix, now.Format(timestampLayout)))
}

// WriteCSV writes a header row plus one row per record to a timestamped CSV
// file in dir and returns the path. The file is only created once all rows
// are in hand, so a failed run leaves no partial artifact behind.
func WriteCSV(dir, prefix string, headers []string, rows [][]string) (string, error) {
	path := CSVPath(dir, prefix, time.Now())

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(headers); err != nil {
		return "", fmt.Errorf("writing csv header: %w", err)
	}
	for _, row := range rows {
		if err := w.Write(row); err != nil {
			return "", fmt.Errorf("writing csv row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", fmt.Errorf("flushing csv: %w", err)
	}

	return path, nil
}

// FormatPrice renders a unit price with six decimals, or "n/a" when absent.
func FormatPrice(v *float64) string {
	if v == nil {
		return "n/a"
	}
	return fmt.Sprintf("%.6f", *v)
}
