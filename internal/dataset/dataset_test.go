package dataset

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/quartzlab/tephra/internal/series"
)

var approx = cmpopts.EquateApprox(0, 1e-9)

func TestReadCSV(t *testing.T) {
	t.Parallel()

	t.Run("Basic", func(t *testing.T) {
		t.Parallel()
		in := "time,value\n1950,0.4\n1871,0.25\n2003.92,1.9\n"
		s, report, err := ReadCSV(strings.NewReader(in))
		if err != nil {
			t.Fatalf("ReadCSV: %v", err)
		}
		if report.Total != 3 || report.Loaded != 3 || report.Failed != 0 {
			t.Errorf("report = %+v, want 3 loaded", report)
		}
		// Rows arrive unordered; the series must come back sorted with
		// values in lockstep.
		if diff := cmp.Diff([]float64{1871, 1950, 2003.92}, s.Time); diff != "" {
			t.Errorf("time mismatch (-want +got):\n%s", diff)
		}
		if diff := cmp.Diff([]float64{0.25, 0.4, 1.9}, s.Values); diff != "" {
			t.Errorf("values mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("ExtraColumnsAndCase", func(t *testing.T) {
		t.Parallel()
		in := "Site,TIME,Value\nGISP2,10,1\nGISP2,20,2\n"
		s, report, err := ReadCSV(strings.NewReader(in))
		if err != nil {
			t.Fatalf("ReadCSV: %v", err)
		}
		if report.Loaded != 2 {
			t.Errorf("loaded %d rows, want 2", report.Loaded)
		}
		if diff := cmp.Diff([]float64{10, 20}, s.Time); diff != "" {
			t.Errorf("time mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("BadRowsAreReportedNotFatal", func(t *testing.T) {
		t.Parallel()
		in := "time,value\n1871,0.25\nnot-a-number,1\n1950,\n2000,2.0\n"
		s, report, err := ReadCSV(strings.NewReader(in))
		if err != nil {
			t.Fatalf("ReadCSV: %v", err)
		}
		if report.Total != 4 || report.Loaded != 2 || report.Failed != 2 {
			t.Errorf("report = %+v, want 2 loaded 2 failed", report)
		}
		if len(report.Errors) != 2 {
			t.Errorf("got %d error messages, want 2: %v", len(report.Errors), report.Errors)
		}
		if len(s.Time) != 2 {
			t.Errorf("series has %d points, want 2", len(s.Time))
		}
	})

	t.Run("MissingColumn", func(t *testing.T) {
		t.Parallel()
		_, _, err := ReadCSV(strings.NewReader("time,depth\n1,2\n"))
		if err == nil {
			t.Error("ReadCSV without value column succeeded, want error")
		}
	})

	t.Run("Empty", func(t *testing.T) {
		t.Parallel()
		s, report, err := ReadCSV(strings.NewReader(""))
		if err != nil {
			t.Fatalf("ReadCSV: %v", err)
		}
		if report.Total != 0 || s.Len() != 0 {
			t.Errorf("empty input produced %+v, %+v", s, report)
		}
	})
}

func TestWriteCSVRoundTrip(t *testing.T) {
	t.Parallel()

	s := series.Series{
		ID:     "soi",
		Time:   []float64{1871, 1950, 2003.92},
		Values: []float64{0.25, 0.4, 1.9},
	}
	var buf bytes.Buffer
	if err := WriteCSV(&buf, s); err != nil {
		t.Fatalf("WriteCSV: %v", err)
	}
	got, _, err := ReadCSV(&buf)
	if err != nil {
		t.Fatalf("ReadCSV: %v", err)
	}
	if diff := cmp.Diff(s.Time, got.Time); diff != "" {
		t.Errorf("time mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(s.Values, got.Values); diff != "" {
		t.Errorf("values mismatch (-want +got):\n%s", diff)
	}
}

func TestJSONRoundTrip(t *testing.T) {
	t.Parallel()

	s := series.Series{
		ID:        "soi",
		Name:      "Southern Oscillation Index",
		TimeUnit:  "yrs BP",
		ValueName: "SOI",
		Time:      []float64{-53.92, 0, 79},
		Values:    []float64{1.9, 0.4, 0.25},
	}
	var buf bytes.Buffer
	if err := WriteJSON(&buf, s, true); err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}
	if !strings.Contains(buf.String(), `"reordered": true`) {
		t.Error("document does not carry the reordered flag")
	}
	got, err := ReadJSON(&buf)
	if err != nil {
		t.Fatalf("ReadJSON: %v", err)
	}
	if diff := cmp.Diff(s, got); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing %s: %v", path, err)
	}
}

func TestLoadCollection(t *testing.T) {
	t.Parallel()

	t.Run("ConvertsToSharedUnit", func(t *testing.T) {
		t.Parallel()
		dir := t.TempDir()
		writeFile(t, filepath.Join(dir, "ce.csv"), "time,value\n1871,1\n1950,2\n2003.92,3\n")
		writeFile(t, filepath.Join(dir, "bp.csv"), "time,value\n-53.92,30\n0,20\n79,10\n")
		writeFile(t, filepath.Join(dir, "collection.toml"), `
name = "demo"
time_unit = "years"

[[series]]
id = "ce"
file = "ce.csv"
time_unit = "years"

[[series]]
id = "bp"
file = "bp.csv"
time_unit = "yrs BP"
`)

		c, results, reports, err := LoadCollection(filepath.Join(dir, "collection.toml"))
		if err != nil {
			t.Fatalf("LoadCollection: %v", err)
		}
		if c.TimeUnit != "years" {
			t.Errorf("TimeUnit = %q, want %q", c.TimeUnit, "years")
		}
		if len(results) != 2 || len(reports) != 2 {
			t.Fatalf("got %d results, %d reports, want 2 and 2", len(results), len(reports))
		}
		for _, m := range c.Members {
			if m.TimeUnit != "years" {
				t.Errorf("member %s TimeUnit = %q, want years", m.ID, m.TimeUnit)
			}
		}
		// The BP member ends up on the same ascending CE axis.
		if diff := cmp.Diff(c.Members[0].Time, c.Members[1].Time, approx); diff != "" {
			t.Errorf("member axes differ (-ce +bp):\n%s", diff)
		}
	})

	t.Run("NoSharedUnitLeavesLabels", func(t *testing.T) {
		t.Parallel()
		dir := t.TempDir()
		writeFile(t, filepath.Join(dir, "a.csv"), "time,value\n1,1\n2,2\n")
		writeFile(t, filepath.Join(dir, "collection.toml"), `
name = "demo"

[[series]]
file = "a.csv"
time_unit = "ka"
`)
		c, results, _, err := LoadCollection(filepath.Join(dir, "collection.toml"))
		if err != nil {
			t.Fatalf("LoadCollection: %v", err)
		}
		if results != nil {
			t.Errorf("results = %v, want nil without a shared unit", results)
		}
		if c.Members[0].TimeUnit != "ka" {
			t.Errorf("member TimeUnit = %q, want ka", c.Members[0].TimeUnit)
		}
		if c.Members[0].ID == "" {
			t.Error("member without id did not get one minted")
		}
	})

	t.Run("MissingFile", func(t *testing.T) {
		t.Parallel()
		dir := t.TempDir()
		writeFile(t, filepath.Join(dir, "collection.toml"), `
[[series]]
id = "ghost"
file = "missing.csv"
`)
		_, _, _, err := LoadCollection(filepath.Join(dir, "collection.toml"))
		if err == nil {
			t.Error("LoadCollection with missing member file succeeded, want error")
		}
	})
}

func TestManifestRoundTrip(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "sub", "collection.toml")
	m := &Manifest{
		Name:     "demo",
		TimeUnit: "ky BP",
		Series: []ManifestEntry{
			{ID: "ngrip", Name: "NGRIP d18O", File: "ngrip.csv", TimeUnit: "yrs BP", ValueUnit: "permil"},
		},
	}
	if err := SaveManifest(path, m); err != nil {
		t.Fatalf("SaveManifest: %v", err)
	}
	got, err := LoadManifest(path)
	if err != nil {
		t.Fatalf("LoadManifest: %v", err)
	}
	if diff := cmp.Diff(m, got); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}
