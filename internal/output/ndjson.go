package output

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/mktide/quakepick/internal/model"
)

// NDJSONWriter writes one JSON object per pick, for machine consumption.
type NDJSONWriter struct {
	enc *json.Encoder
}

// NewNDJSON creates an NDJSONWriter targeting w.
func NewNDJSON(w io.Writer) *NDJSONWriter {
	return &NDJSONWriter{enc: json.NewEncoder(w)}
}

type pickRecord struct {
	Phase       string  `json:"phase"`
	Time        string  `json:"time"`
	Probability float64 `json:"probability"`
	Station     string  `json:"station"`
	Sample      int     `json:"sample"`
}

func (n *NDJSONWriter) WritePicks(_ model.Stream, picks []model.Pick) error {
	for _, p := range picks {
		rec := pickRecord{
			Phase:       p.Phase,
			Time:        p.Time.UTC().Format(time.RFC3339Nano),
			Probability: p.Probability,
			Station:     p.Source,
			Sample:      p.SampleIndex,
		}
		if err := n.enc.Encode(rec); err != nil {
			return fmt.Errorf("ndjson output: %w", err)
		}
	}
	return nil
}
