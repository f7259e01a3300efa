package output

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/mktide/quakepick/internal/model"
)

// timeLayout is the pick timestamp format in the report.
const timeLayout = "2006-01-02 15:04:05.000"

// TableWriter renders picks as a human-readable table with a summary line.
type TableWriter struct {
	w       io.Writer
	printer *message.Printer
}

// NewTable creates a TableWriter targeting w.
func NewTable(w io.Writer) *TableWriter {
	return &TableWriter{w: w, printer: message.NewPrinter(language.English)}
}

func (t *TableWriter) WritePicks(st model.Stream, picks []model.Pick) error {
	if len(picks) == 0 {
		if _, err := fmt.Fprintln(t.w, "no picks detected"); err != nil {
			return err
		}
		return t.summary(st, picks)
	}

	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row{"Phase", "Time (UTC)", "Probability", "Station", "Sample"})

	for _, p := range picks {
		tw.AppendRow(table.Row{
			p.Phase,
			p.Time.UTC().Format(timeLayout),
			fmt.Sprintf("%.3f", p.Probability),
			p.Source,
			p.SampleIndex,
		})
	}
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 3, Align: text.AlignRight, AlignHeader: text.AlignLeft},
		{Number: 5, Align: text.AlignRight, AlignHeader: text.AlignLeft},
	})

	if _, err := fmt.Fprintln(t.w, tw.Render()); err != nil {
		return err
	}
	return t.summary(st, picks)
}

func (t *TableWriter) summary(st model.Stream, picks []model.Pick) error {
	samples := 0
	if len(st) > 0 {
		samples = len(st[0].Data)
	}
	_, err := t.printer.Fprintf(t.w, "%d pick(s) from %d channel(s) of %d samples\n",
		len(picks), len(st), samples)
	return err
}
