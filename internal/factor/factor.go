// Package factor provides the emission factor table: an immutable snapshot
// mapping (category, subtype, region) to kg CO2e per canonical unit.
//
// A snapshot is loaded once per calculation and treated as read-only for its
// whole duration, so concurrent factor updates can never leak a partially
// updated table into an in-flight calculation.
package factor

import (
	"fmt"
	"sort"

	"github.com/rgoulet/carbonledger/internal/domain"
)

// Factor is one emission factor entry.
type Factor struct {
	Category domain.Category
	Subtype  domain.Subtype
	// Region is empty for the default (global) factor of the subtype.
	Region string
	// Value is kg CO2e per canonical unit of the subtype.
	Value float64
	// Unit documents the canonical unit the value is expressed against.
	Unit string
	// Source cites where the value comes from.
	Source string
}

// Reference holds published per-capita averages used for comparison deltas.
type Reference struct {
	NationalPerCapitaKg float64
	GlobalPerCapitaKg   float64
}

type key struct {
	subtype domain.Subtype
	region  string
}

// Snapshot is an immutable emission factor table. Construct with NewSnapshot
// or Load; never mutate after construction.
type Snapshot struct {
	version   string
	reference Reference
	factors   map[key]Factor
}

// NewSnapshot builds a snapshot from a factor list. Entries must have
// positive values and known subtypes; a duplicate (subtype, region) pair is
// an error.
func NewSnapshot(version string, reference Reference, factors []Factor) (*Snapshot, error) {
	s := &Snapshot{
		version:   version,
		reference: reference,
		factors:   make(map[key]Factor, len(factors)),
	}
	for _, f := range factors {
		if !f.Subtype.Valid() {
			return nil, fmt.Errorf("factor table: unknown subtype %q", f.Subtype)
		}
		if cat, _ := f.Subtype.CategoryOf(); cat != f.Category {
			return nil, fmt.Errorf("factor table: subtype %q does not belong to category %q", f.Subtype, f.Category)
		}
		if f.Value < 0 {
			return nil, fmt.Errorf("factor table: negative value for subtype %q", f.Subtype)
		}
		k := key{subtype: f.Subtype, region: f.Region}
		if _, dup := s.factors[k]; dup {
			return nil, fmt.Errorf("factor table: duplicate entry for subtype %q region %q", f.Subtype, f.Region)
		}
		s.factors[k] = f
	}
	return s, nil
}

// Version returns the data version of the table (recorded on every result
// computed against this snapshot).
func (s *Snapshot) Version() string { return s.version }

// Reference returns the published comparison averages.
func (s *Snapshot) Reference() Reference { return s.reference }

// Len returns the number of factor entries.
func (s *Snapshot) Len() int { return len(s.factors) }

// Factors returns every entry sorted by (category, subtype, region).
func (s *Snapshot) Factors() []Factor {
	out := make([]Factor, 0, len(s.factors))
	for _, f := range s.factors {
		out = append(out, f)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Category != out[j].Category {
			return out[i].Category < out[j].Category
		}
		if out[i].Subtype != out[j].Subtype {
			return out[i].Subtype < out[j].Subtype
		}
		return out[i].Region < out[j].Region
	})
	return out
}

// Resolve finds the factor for a subtype: the region-specific entry first,
// falling back to the subtype's default entry. An unresolvable subtype is a
// data error surfaced as *MissingError, never a silent zero.
func (s *Snapshot) Resolve(subtype domain.Subtype, region string) (Factor, error) {
	if region != "" {
		if f, ok := s.factors[key{subtype: subtype, region: region}]; ok {
			return f, nil
		}
	}
	if f, ok := s.factors[key{subtype: subtype}]; ok {
		return f, nil
	}
	cat, _ := subtype.CategoryOf()
	return Factor{}, &MissingError{Category: cat, Subtype: subtype, Region: region}
}

// MissingError reports a subtype with neither a region-specific nor a
// default emission factor. It is fatal to the calculation that hit it.
type MissingError struct {
	Category domain.Category
	Subtype  domain.Subtype
	Region   string
}

func (e *MissingError) Error() string {
	if e.Region != "" {
		return fmt.Sprintf("no emission factor for subtype %q (region %q or default)", e.Subtype, e.Region)
	}
	return fmt.Sprintf("no emission factor for subtype %q", e.Subtype)
}
