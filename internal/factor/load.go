package factor

import (
	_ "embed"
	"fmt"
	"os"

	"github.com/Masterminds/semver/v3"
	"gopkg.in/yaml.v3"

	"github.com/rgoulet/carbonledger/internal/domain"
)

// SchemaConstraint is the range of factor-table schema versions this build
// can read. Tables outside the range are rejected rather than misread.
const SchemaConstraint = ">= 1.0.0, < 2.0.0"

//go:embed defaults.yaml
var defaultsYAML []byte

// tableFile is the YAML shape of a factor table.
type tableFile struct {
	SchemaVersion string `yaml:"schema_version"`
	Version       string `yaml:"version"`
	Reference     struct {
		NationalPerCapitaKg float64 `yaml:"national_per_capita_kg"`
		GlobalPerCapitaKg   float64 `yaml:"global_per_capita_kg"`
	} `yaml:"reference_averages"`
	Factors []factorEntry `yaml:"factors"`
}

type factorEntry struct {
	Category string  `yaml:"category"`
	Subtype  string  `yaml:"subtype"`
	Region   string  `yaml:"region"`
	Unit     string  `yaml:"unit"`
	Value    float64 `yaml:"value"`
	Source   string  `yaml:"source"`
}

// Default returns the snapshot built from the embedded factor table.
func Default() (*Snapshot, error) {
	return Parse(defaultsYAML)
}

// Load reads a factor table from path, falling back to the embedded default
// table when path is empty.
func Load(path string) (*Snapshot, error) {
	if path == "" {
		return Default()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading factor table: %w", err)
	}
	s, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("factor table %s: %w", path, err)
	}
	return s, nil
}

// Parse builds a snapshot from YAML, validating the schema version and every
// entry.
func Parse(data []byte) (*Snapshot, error) {
	var file tableFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parsing factor table: %w", err)
	}

	if err := checkSchema(file.SchemaVersion); err != nil {
		return nil, err
	}
	if file.Version == "" {
		return nil, fmt.Errorf("factor table missing data version")
	}

	factors := make([]Factor, 0, len(file.Factors))
	for i, e := range file.Factors {
		subtype, cat, err := domain.ParseSubtype(e.Subtype)
		if err != nil {
			return nil, fmt.Errorf("factor entry %d: %w", i, err)
		}
		declared, err := domain.ParseCategory(e.Category)
		if err != nil {
			return nil, fmt.Errorf("factor entry %d: %w", i, err)
		}
		if declared != cat {
			return nil, fmt.Errorf("factor entry %d: subtype %q is not in category %q", i, e.Subtype, e.Category)
		}
		factors = append(factors, Factor{
			Category: cat,
			Subtype:  subtype,
			Region:   e.Region,
			Value:    e.Value,
			Unit:     e.Unit,
			Source:   e.Source,
		})
	}

	return NewSnapshot(file.Version, Reference{
		NationalPerCapitaKg: file.Reference.NationalPerCapitaKg,
		GlobalPerCapitaKg:   file.Reference.GlobalPerCapitaKg,
	}, factors)
}

// checkSchema verifies the declared schema version against SchemaConstraint.
func checkSchema(version string) error {
	if version == "" {
		return fmt.Errorf("factor table missing schema_version")
	}
	v, err := semver.NewVersion(version)
	if err != nil {
		return fmt.Errorf("invalid schema_version %q: %w", version, err)
	}
	constraint, err := semver.NewConstraint(SchemaConstraint)
	if err != nil {
		return fmt.Errorf("parsing schema constraint: %w", err)
	}
	if !constraint.Check(v) {
		return fmt.Errorf("unsupported factor table schema %s (supported: %s)", version, SchemaConstraint)
	}
	return nil
}
