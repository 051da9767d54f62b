// Package dataset loads and writes the on-disk forms the CLI works
// with: CSV sample files, TOML collection manifests, and JSON series
// documents. It is a thin boundary layer; all unit semantics live in
// internal/timeunit, internal/axis and internal/series.
package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/quartzlab/tephra/internal/series"
)

// Report summarizes one file ingestion. Row-level problems are recorded
// here rather than aborting the load, so one bad line does not discard a
// whole core.
type Report struct {
	Total  int      // data rows seen
	Loaded int      // rows parsed into samples
	Failed int      // rows rejected
	Errors []string // one message per rejected row
}

// ReadCSV parses a two-column sample file into a series. The file needs
// a header naming a "time" and a "value" column (case-insensitive,
// extra columns ignored). Rows that fail to parse are counted in the
// report and skipped. The resulting series is sorted ascending by time,
// values permuted in lockstep.
//
// The series comes back without ID or unit label; callers attach those
// from the manifest, the catalog, or a flag.
func ReadCSV(r io.Reader) (series.Series, *Report, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	report := &Report{}

	header, err := reader.Read()
	if err == io.EOF {
		return series.Series{}, report, nil
	}
	if err != nil {
		return series.Series{}, nil, fmt.Errorf("reading csv header: %w", err)
	}

	cols := make(map[string]int, len(header))
	for i, h := range header {
		cols[strings.ToLower(strings.TrimSpace(h))] = i
	}
	timeCol, ok := cols["time"]
	if !ok {
		return series.Series{}, nil, fmt.Errorf("csv header has no %q column", "time")
	}
	valueCol, ok := cols["value"]
	if !ok {
		return series.Series{}, nil, fmt.Errorf("csv header has no %q column", "value")
	}

	var s series.Series
	line := 1 // header was line 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			report.Total++
			report.Failed++
			report.Errors = append(report.Errors, fmt.Sprintf("line %d: %v", line, err))
			continue
		}
		report.Total++

		tv, vv, err := parseRow(record, timeCol, valueCol)
		if err != nil {
			report.Failed++
			report.Errors = append(report.Errors, fmt.Sprintf("line %d: %v", line, err))
			continue
		}
		s.Time = append(s.Time, tv)
		s.Values = append(s.Values, vv)
		report.Loaded++
	}

	sorted, err := s.SortByTime()
	if err != nil {
		return series.Series{}, nil, err
	}
	return sorted, report, nil
}

func parseRow(record []string, timeCol, valueCol int) (float64, float64, error) {
	if timeCol >= len(record) || valueCol >= len(record) {
		return 0, 0, fmt.Errorf("row has %d fields", len(record))
	}
	tv, err := strconv.ParseFloat(strings.TrimSpace(record[timeCol]), 64)
	if err != nil {
		return 0, 0, fmt.Errorf("bad time %q", record[timeCol])
	}
	vv, err := strconv.ParseFloat(strings.TrimSpace(record[valueCol]), 64)
	if err != nil {
		return 0, 0, fmt.Errorf("bad value %q", record[valueCol])
	}
	return tv, vv, nil
}

// WriteCSV writes a series as a two-column CSV with a "time,value"
// header, in axis order.
func WriteCSV(w io.Writer, s series.Series) error {
	if len(s.Values) > 0 && len(s.Values) != len(s.Time) {
		return fmt.Errorf("series %s: %d values for %d time points", s.ID, len(s.Values), len(s.Time))
	}

	writer := csv.NewWriter(w)
	if err := writer.Write([]string{"time", "value"}); err != nil {
		return fmt.Errorf("writing csv header: %w", err)
	}
	for i, tv := range s.Time {
		value := ""
		if i < len(s.Values) {
			value = strconv.FormatFloat(s.Values[i], 'g', -1, 64)
		}
		row := []string{strconv.FormatFloat(tv, 'g', -1, 64), value}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("writing csv row %d: %w", i, err)
		}
	}
	writer.Flush()
	return writer.Error()
}
