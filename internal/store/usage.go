package store

import (
	"context"
	"fmt"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/rgoulet/carbonledger/internal/domain"
)

const dateLayout = "2006-01-02"

// InsertUsageRecord appends a usage record and returns it with its generated
// id. Records are never updated or deleted; corrections are new records.
func (s *Store) InsertUsageRecord(ctx context.Context, rec domain.UsageRecord) (domain.UsageRecord, error) {
	rec.ID = ulid.Make().String()
	rec.CreatedAt = time.Now().UTC()

	_, err := s.conn.ExecContext(ctx, `
		INSERT INTO usage_records
			(id, household_id, category, subtype, quantity, unit, frequency,
			 efficiency_km_per_l, local_sourced_pct, organic_pct, recorded_at, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.HouseholdID, rec.Category.String(), string(rec.Subtype),
		rec.Quantity, rec.Unit, string(rec.Frequency),
		rec.EfficiencyKmPerL, rec.LocalSourcedPct, rec.OrganicPct,
		rec.RecordedAt.UTC().Format(dateLayout), rec.CreatedAt.Format(timeLayout),
	)
	if err != nil {
		return domain.UsageRecord{}, fmt.Errorf("inserting usage record: %w", err)
	}
	return rec, nil
}

// ListUsageRecords returns a household's records for one period, oldest
// first with the record id as a tiebreaker so the order is stable.
func (s *Store) ListUsageRecords(ctx context.Context, householdID string, period domain.Period) ([]domain.UsageRecord, error) {
	start := time.Date(period.Year, period.Month, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, 0)

	rows, err := s.conn.QueryContext(ctx, `
		SELECT id, household_id, category, subtype, quantity, unit, frequency,
		       efficiency_km_per_l, local_sourced_pct, organic_pct, recorded_at, created_at
		FROM usage_records
		WHERE household_id = ? AND recorded_at >= ? AND recorded_at < ?
		ORDER BY recorded_at, id`,
		householdID, start.Format(dateLayout), end.Format(dateLayout),
	)
	if err != nil {
		return nil, fmt.Errorf("listing usage records: %w", err)
	}
	defer rows.Close()

	var out []domain.UsageRecord
	for rows.Next() {
		var rec domain.UsageRecord
		var category, subtype, frequency, recordedAt, createdAt string
		if err := rows.Scan(
			&rec.ID, &rec.HouseholdID, &category, &subtype, &rec.Quantity, &rec.Unit, &frequency,
			&rec.EfficiencyKmPerL, &rec.LocalSourcedPct, &rec.OrganicPct, &recordedAt, &createdAt,
		); err != nil {
			return nil, fmt.Errorf("scanning usage record: %w", err)
		}

		cat, err := domain.ParseCategory(category)
		if err != nil {
			return nil, fmt.Errorf("usage record %s: %w", rec.ID, err)
		}
		rec.Category = cat
		// The subtype is kept as stored even if unknown to this build; the
		// aggregator flags it rather than the store hiding the row.
		rec.Subtype = domain.Subtype(subtype)
		rec.Frequency = domain.Frequency(frequency)
		if rec.RecordedAt, err = time.Parse(dateLayout, recordedAt); err != nil {
			return nil, fmt.Errorf("usage record %s: %w", rec.ID, err)
		}
		if rec.CreatedAt, err = time.Parse(timeLayout, createdAt); err != nil {
			return nil, fmt.Errorf("usage record %s: %w", rec.ID, err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}
