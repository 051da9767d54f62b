package dataset

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/quartzlab/tephra/internal/series"
)

// Document is the JSON form of a single series, used by the export and
// convert commands.
type Document struct {
	ID        string    `json:"id,omitempty"`
	Name      string    `json:"name,omitempty"`
	TimeUnit  string    `json:"time_unit,omitempty"`
	TimeName  string    `json:"time_name,omitempty"`
	ValueName string    `json:"value_name,omitempty"`
	ValueUnit string    `json:"value_unit,omitempty"`
	Reordered bool      `json:"reordered,omitempty"`
	Time      []float64 `json:"time"`
	Values    []float64 `json:"values,omitempty"`
}

// WriteJSON writes a series as an indented JSON document. The reordered
// flag from a preceding conversion travels in the document so consumers
// of the file see the contract-level notification too.
func WriteJSON(w io.Writer, s series.Series, reordered bool) error {
	doc := Document{
		ID:        s.ID,
		Name:      s.Name,
		TimeUnit:  s.TimeUnit,
		TimeName:  s.TimeName,
		ValueName: s.ValueName,
		ValueUnit: s.ValueUnit,
		Reordered: reordered,
		Time:      s.Time,
		Values:    s.Values,
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encoding series %s: %w", s.ID, err)
	}
	return nil
}

// ReadJSON parses a series document written by WriteJSON.
func ReadJSON(r io.Reader) (series.Series, error) {
	var doc Document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return series.Series{}, fmt.Errorf("decoding series document: %w", err)
	}
	return series.Series{
		ID:        doc.ID,
		Name:      doc.Name,
		TimeUnit:  doc.TimeUnit,
		TimeName:  doc.TimeName,
		ValueName: doc.ValueName,
		ValueUnit: doc.ValueUnit,
		Time:      doc.Time,
		Values:    doc.Values,
	}, nil
}
