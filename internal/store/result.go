package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/rgoulet/carbonledger/internal/domain"
	"github.com/rgoulet/carbonledger/internal/engine"
)

// SaveResult stores a footprint result, replacing any previous result for
// the same (household, period) inside one transaction so readers never see a
// partial write.
func (s *Store) SaveResult(ctx context.Context, result *engine.FootprintResult) error {
	if result.ID == "" {
		result.ID = ulid.Make().String()
	}
	if result.CalculatedAt.IsZero() {
		result.CalculatedAt = time.Now().UTC()
	}

	warnings, err := json.Marshal(result.Warnings)
	if err != nil {
		return fmt.Errorf("encoding warnings: %w", err)
	}
	unresolved, err := json.Marshal(result.Unresolved)
	if err != nil {
		return fmt.Errorf("encoding unresolved records: %w", err)
	}
	invalid, err := json.Marshal(result.Invalid)
	if err != nil {
		return fmt.Errorf("encoding invalid records: %w", err)
	}
	reference, err := json.Marshal(result.Reference)
	if err != nil {
		return fmt.Errorf("encoding reference comparison: %w", err)
	}
	var deltas any
	if result.Deltas != nil {
		encoded, derr := json.Marshal(deltasRow{
			TotalPct:      result.Deltas.TotalPct,
			ByCategoryPct: categoryMapToNames(result.Deltas.ByCategoryPct),
		})
		if derr != nil {
			return fmt.Errorf("encoding deltas: %w", derr)
		}
		deltas = string(encoded)
	}

	tx, err := s.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM footprint_results WHERE household_id = ? AND period = ?`,
		result.HouseholdID, result.Period.String(),
	); err != nil {
		return fmt.Errorf("replacing footprint result: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO footprint_results
			(id, household_id, period, energy_kg, transportation_kg, diet_kg,
			 total_kg, per_capita_kg, members, warnings, unresolved, invalid,
			 deltas, reference, factor_version, calculated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		result.ID, result.HouseholdID, result.Period.String(),
		result.Subtotal(domain.CategoryEnergy),
		result.Subtotal(domain.CategoryTransportation),
		result.Subtotal(domain.CategoryDiet),
		result.TotalKg, result.PerCapitaKg, result.EffectiveMembers,
		string(warnings), string(unresolved), string(invalid),
		deltas, string(reference), result.FactorVersion,
		result.CalculatedAt.Format(timeLayout),
	); err != nil {
		return fmt.Errorf("inserting footprint result: %w", err)
	}

	return tx.Commit()
}

// GetResult fetches the stored result for a household and period.
func (s *Store) GetResult(ctx context.Context, householdID string, period domain.Period) (*engine.FootprintResult, error) {
	row := s.conn.QueryRowContext(ctx, resultColumns+
		` FROM footprint_results WHERE household_id = ? AND period = ?`,
		householdID, period.String())
	return scanResult(row)
}

// ListResults returns a household's most recent results, newest period
// first, up to limit (0 means all).
func (s *Store) ListResults(ctx context.Context, householdID string, limit int) ([]*engine.FootprintResult, error) {
	query := resultColumns + ` FROM footprint_results WHERE household_id = ? ORDER BY period DESC`
	args := []any{householdID}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing footprint results: %w", err)
	}
	defer rows.Close()

	var out []*engine.FootprintResult
	for rows.Next() {
		r, err := scanResult(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

const resultColumns = `
	SELECT id, household_id, period, energy_kg, transportation_kg, diet_kg,
	       total_kg, per_capita_kg, members, warnings, unresolved, invalid,
	       deltas, reference, factor_version, calculated_at`

// deltasRow is the JSON shape deltas are stored as; categories are stored by
// name so the rows stay readable and survive enum reordering.
type deltasRow struct {
	// TotalPct stays nil when the prior total was zero.
	TotalPct      *float64           `json:"total_pct,omitempty"`
	ByCategoryPct map[string]float64 `json:"by_category_pct"`
}

func categoryMapToNames(in map[domain.Category]float64) map[string]float64 {
	out := make(map[string]float64, len(in))
	for cat, v := range in {
		out[cat.String()] = v
	}
	return out
}

func scanResult(row rowScanner) (*engine.FootprintResult, error) {
	var r engine.FootprintResult
	var period, warnings, unresolved, invalid, reference, calculatedAt string
	var deltas sql.NullString
	var energy, transportation, diet float64

	err := row.Scan(
		&r.ID, &r.HouseholdID, &period, &energy, &transportation, &diet,
		&r.TotalKg, &r.PerCapitaKg, &r.EffectiveMembers,
		&warnings, &unresolved, &invalid, &deltas, &reference,
		&r.FactorVersion, &calculatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scanning footprint result: %w", err)
	}

	if r.Period, err = domain.ParsePeriod(period); err != nil {
		return nil, err
	}
	r.Subtotals = map[domain.Category]float64{
		domain.CategoryEnergy:         energy,
		domain.CategoryTransportation: transportation,
		domain.CategoryDiet:           diet,
	}
	if err = json.Unmarshal([]byte(warnings), &r.Warnings); err != nil {
		return nil, fmt.Errorf("decoding warnings: %w", err)
	}
	if err = json.Unmarshal([]byte(unresolved), &r.Unresolved); err != nil {
		return nil, fmt.Errorf("decoding unresolved records: %w", err)
	}
	if err = json.Unmarshal([]byte(invalid), &r.Invalid); err != nil {
		return nil, fmt.Errorf("decoding invalid records: %w", err)
	}
	if err = json.Unmarshal([]byte(reference), &r.Reference); err != nil {
		return nil, fmt.Errorf("decoding reference comparison: %w", err)
	}
	if deltas.Valid {
		var dr deltasRow
		if err = json.Unmarshal([]byte(deltas.String), &dr); err != nil {
			return nil, fmt.Errorf("decoding deltas: %w", err)
		}
		d := &engine.Deltas{TotalPct: dr.TotalPct, ByCategoryPct: make(map[domain.Category]float64, len(dr.ByCategoryPct))}
		for name, v := range dr.ByCategoryPct {
			cat, cerr := domain.ParseCategory(name)
			if cerr != nil {
				return nil, fmt.Errorf("decoding deltas: %w", cerr)
			}
			d.ByCategoryPct[cat] = v
		}
		r.Deltas = d
	}
	if r.CalculatedAt, err = time.Parse(timeLayout, calculatedAt); err != nil {
		return nil, fmt.Errorf("parsing result timestamp: %w", err)
	}

	// Keep empty slices nil so a stored-then-loaded result compares equal
	// to a freshly computed one.
	if len(r.Warnings) == 0 {
		r.Warnings = nil
	}
	if len(r.Unresolved) == 0 {
		r.Unresolved = nil
	}
	if len(r.Invalid) == 0 {
		r.Invalid = nil
	}

	return &r, nil
}
