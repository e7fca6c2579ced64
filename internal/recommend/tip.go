// Package recommend selects reduction tips that apply to a computed
// footprint.
//
// Selection is a pure function over an immutable tip catalog: the catalog
// preserves insertion order so tied priorities break deterministically, and
// neither the catalog nor the result is ever mutated.
package recommend

import (
	_ "embed"
	"fmt"
	"os"

	"github.com/Masterminds/semver/v3"
	"gopkg.in/yaml.v3"

	"github.com/rgoulet/carbonledger/internal/domain"
)

// Basis selects which result metric a tip's threshold compares against.
type Basis string

const (
	// BasisPerCapita compares against the category's per-capita emissions.
	BasisPerCapita Basis = "per_capita"
	// BasisTotal compares against the category's total emissions.
	BasisTotal Basis = "total"
)

// Difficulty grades how hard a tip is to act on.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// Tip is one catalog entry.
type Tip struct {
	ID       string
	Title    string
	Guidance string

	// Category is the emission category the tip targets.
	Category domain.Category
	// Basis and ThresholdKg form the qualifying condition: the tip applies
	// when the category's emission on the basis meets or exceeds the
	// threshold.
	Basis       Basis
	ThresholdKg float64

	// Weight orders qualifying tips, highest first.
	Weight int

	Difficulty Difficulty
	// PotentialSavingsKg is the published annual saving of acting on the tip.
	PotentialSavingsKg float64
	Active             bool
}

// Catalog is an ordered, immutable tip collection.
type Catalog struct {
	tips []Tip
}

// NewCatalog builds a catalog preserving the given order. Tip IDs must be
// unique and categories known.
func NewCatalog(tips []Tip) (*Catalog, error) {
	seen := make(map[string]struct{}, len(tips))
	for i, tip := range tips {
		if tip.ID == "" {
			return nil, fmt.Errorf("tip %d: missing id", i)
		}
		if _, dup := seen[tip.ID]; dup {
			return nil, fmt.Errorf("tip %d: duplicate id %q", i, tip.ID)
		}
		seen[tip.ID] = struct{}{}
		switch tip.Basis {
		case BasisPerCapita, BasisTotal:
		default:
			return nil, fmt.Errorf("tip %q: unknown basis %q", tip.ID, tip.Basis)
		}
	}
	out := make([]Tip, len(tips))
	copy(out, tips)
	return &Catalog{tips: out}, nil
}

// Tips returns the catalog entries in insertion order.
func (c *Catalog) Tips() []Tip {
	out := make([]Tip, len(c.tips))
	copy(out, c.tips)
	return out
}

// Len returns the number of entries.
func (c *Catalog) Len() int { return len(c.tips) }

// Get returns the tip with the given id.
func (c *Catalog) Get(id string) (Tip, bool) {
	for _, tip := range c.tips {
		if tip.ID == id {
			return tip, true
		}
	}
	return Tip{}, false
}

// catalogSchemaConstraint is the range of tip catalog schemas this build reads.
const catalogSchemaConstraint = ">= 1.0.0, < 2.0.0"

//go:embed tips.yaml
var defaultTipsYAML []byte

type catalogFile struct {
	SchemaVersion string `yaml:"schema_version"`
	Tips          []struct {
		ID                 string  `yaml:"id"`
		Title              string  `yaml:"title"`
		Guidance           string  `yaml:"guidance"`
		Category           string  `yaml:"category"`
		Basis              string  `yaml:"basis"`
		ThresholdKg        float64 `yaml:"threshold_kg"`
		Weight             int     `yaml:"weight"`
		Difficulty         string  `yaml:"difficulty"`
		PotentialSavingsKg float64 `yaml:"potential_savings_kg"`
		Active             *bool   `yaml:"active"`
	} `yaml:"tips"`
}

// DefaultCatalog returns the catalog built from the embedded tip set.
func DefaultCatalog() (*Catalog, error) {
	return ParseCatalog(defaultTipsYAML)
}

// LoadCatalog reads a tip catalog from path, falling back to the embedded
// default when path is empty.
func LoadCatalog(path string) (*Catalog, error) {
	if path == "" {
		return DefaultCatalog()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading tip catalog: %w", err)
	}
	c, err := ParseCatalog(data)
	if err != nil {
		return nil, fmt.Errorf("tip catalog %s: %w", path, err)
	}
	return c, nil
}

// ParseCatalog builds a catalog from YAML.
func ParseCatalog(data []byte) (*Catalog, error) {
	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parsing tip catalog: %w", err)
	}

	if file.SchemaVersion == "" {
		return nil, fmt.Errorf("tip catalog missing schema_version")
	}
	v, err := semver.NewVersion(file.SchemaVersion)
	if err != nil {
		return nil, fmt.Errorf("invalid schema_version %q: %w", file.SchemaVersion, err)
	}
	constraint, err := semver.NewConstraint(catalogSchemaConstraint)
	if err != nil {
		return nil, fmt.Errorf("parsing schema constraint: %w", err)
	}
	if !constraint.Check(v) {
		return nil, fmt.Errorf("unsupported tip catalog schema %s (supported: %s)", file.SchemaVersion, catalogSchemaConstraint)
	}

	tips := make([]Tip, 0, len(file.Tips))
	for i, e := range file.Tips {
		cat, err := domain.ParseCategory(e.Category)
		if err != nil {
			return nil, fmt.Errorf("tip %d: %w", i, err)
		}
		basis := Basis(e.Basis)
		if basis == "" {
			basis = BasisPerCapita
		}
		active := true
		if e.Active != nil {
			active = *e.Active
		}
		tips = append(tips, Tip{
			ID:                 e.ID,
			Title:              e.Title,
			Guidance:           e.Guidance,
			Category:           cat,
			Basis:              basis,
			ThresholdKg:        e.ThresholdKg,
			Weight:             e.Weight,
			Difficulty:         Difficulty(e.Difficulty),
			PotentialSavingsKg: e.PotentialSavingsKg,
			Active:             active,
		})
	}
	return NewCatalog(tips)
}
