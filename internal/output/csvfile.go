package output

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/mktide/quakepick/internal/model"
)

// CSVWriter writes the pick table to a file, creating or truncating it.
type CSVWriter struct {
	path string
}

// NewCSV creates a CSVWriter for the given path.
func NewCSV(path string) *CSVWriter {
	return &CSVWriter{path: path}
}

func (c *CSVWriter) WritePicks(_ model.Stream, picks []model.Pick) error {
	f, err := os.Create(c.path)
	if err != nil {
		return fmt.Errorf("csv output: %w", err)
	}

	w := csv.NewWriter(f)
	rows := [][]string{{"phase", "time", "probability", "station", "sample"}}
	for _, p := range picks {
		rows = append(rows, []string{
			p.Phase,
			p.Time.UTC().Format(time.RFC3339Nano),
			strconv.FormatFloat(p.Probability, 'f', 4, 64),
			p.Source,
			strconv.Itoa(p.SampleIndex),
		})
	}
	if err := w.WriteAll(rows); err != nil {
		f.Close()
		return fmt.Errorf("csv output: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("csv output: %w", err)
	}
	return nil
}
