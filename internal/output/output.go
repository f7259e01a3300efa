// Package output renders the final pick report.
package output

import "github.com/mktide/quakepick/internal/model"

// Writer receives the standardized stream and its extracted picks once,
// after the pipeline reaches Done. No writer is ever handed a partial
// result.
type Writer interface {
	WritePicks(st model.Stream, picks []model.Pick) error
}

// Multi fans a report out to several writers in order, stopping at the
// first failure.
func Multi(writers ...Writer) Writer {
	return multi(writers)
}

type multi []Writer

func (m multi) WritePicks(st model.Stream, picks []model.Pick) error {
	for _, w := range m {
		if err := w.WritePicks(st, picks); err != nil {
			return err
		}
	}
	return nil
}
