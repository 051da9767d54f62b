package dataset

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	toml "github.com/pelletier/go-toml/v2"

	"github.com/quartzlab/tephra/internal/series"
)

// Manifest describes a collection on disk: a set of member sample files
// with their unit labels, and optionally a shared target unit every
// member is converted to on load.
type Manifest struct {
	Name     string          `toml:"name"`
	TimeUnit string          `toml:"time_unit,omitempty"`
	Series   []ManifestEntry `toml:"series"`
}

// ManifestEntry is one member of a manifest. File is resolved relative
// to the manifest's directory. An empty ID gets a fresh UUID on load.
type ManifestEntry struct {
	ID        string `toml:"id,omitempty"`
	Name      string `toml:"name,omitempty"`
	File      string `toml:"file"`
	TimeUnit  string `toml:"time_unit,omitempty"`
	TimeName  string `toml:"time_name,omitempty"`
	ValueName string `toml:"value_name,omitempty"`
	ValueUnit string `toml:"value_unit,omitempty"`
}

// LoadManifest reads a collection manifest from path.
func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading manifest: %w", err)
	}
	var m Manifest
	if err := toml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	for i, e := range m.Series {
		if e.File == "" {
			return nil, fmt.Errorf("%s: series entry %d has no file", path, i)
		}
	}
	return &m, nil
}

// SaveManifest writes a manifest to path, creating parent directories
// as needed.
func SaveManifest(path string, m *Manifest) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating directory: %w", err)
	}
	data, err := toml.Marshal(m)
	if err != nil {
		return fmt.Errorf("marshaling manifest: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// LoadCollection reads every member file named by the manifest at path
// and assembles the collection, converting all members to the
// manifest's shared time unit when one is set. Per-member reports are
// returned in manifest order; conversion results follow the collection
// coordinator's contract.
func LoadCollection(path string) (series.Collection, []series.MemberResult, []*Report, error) {
	m, err := LoadManifest(path)
	if err != nil {
		return series.Collection{}, nil, nil, err
	}
	dir := filepath.Dir(path)

	members := make([]series.Series, 0, len(m.Series))
	reports := make([]*Report, 0, len(m.Series))
	for _, e := range m.Series {
		file := e.File
		if !filepath.IsAbs(file) {
			file = filepath.Join(dir, file)
		}
		f, err := os.Open(file)
		if err != nil {
			return series.Collection{}, nil, nil, fmt.Errorf("member %s: %w", e.ID, err)
		}
		s, report, err := ReadCSV(f)
		f.Close()
		if err != nil {
			return series.Collection{}, nil, nil, fmt.Errorf("member %s: %w", e.ID, err)
		}

		s.ID = e.ID
		if s.ID == "" {
			s.ID = uuid.NewString()
		}
		s.Name = e.Name
		s.TimeUnit = e.TimeUnit
		s.TimeName = e.TimeName
		s.ValueName = e.ValueName
		s.ValueUnit = e.ValueUnit
		members = append(members, s)
		reports = append(reports, report)
	}

	c, results, err := series.New(members, m.TimeUnit)
	return c, results, reports, err
}
