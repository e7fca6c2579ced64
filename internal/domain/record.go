package domain

import (
	"fmt"
	"time"
)

// Frequency describes how often a transportation activity recurs. Recorded
// distances are annualized by the frequency multiplier before factors apply.
type Frequency string

const (
	FrequencyDaily   Frequency = "daily"
	FrequencyWeekly  Frequency = "weekly"
	FrequencyMonthly Frequency = "monthly"
	FrequencyYearly  Frequency = "yearly"
	// FrequencyOnce marks a one-off activity such as a single flight.
	FrequencyOnce Frequency = "once"
)

// AnnualMultiplier returns the number of occurrences per year, and false for
// an unrecognized frequency.
func (f Frequency) AnnualMultiplier() (float64, bool) {
	switch f {
	case FrequencyDaily:
		return 365, true
	case FrequencyWeekly:
		return 52, true
	case FrequencyMonthly:
		return 12, true
	case FrequencyYearly, FrequencyOnce, "":
		return 1, true
	default:
		return 0, false
	}
}

// Period is a calendar-month marker. Usage records belong to the period
// containing their record date; footprint results are keyed by period.
type Period struct {
	Year  int
	Month time.Month
}

// PeriodOf returns the period containing t.
func PeriodOf(t time.Time) Period {
	return Period{Year: t.Year(), Month: t.Month()}
}

// ParsePeriod parses a "YYYY-MM" marker.
func ParsePeriod(s string) (Period, error) {
	t, err := time.Parse("2006-01", s)
	if err != nil {
		return Period{}, fmt.Errorf("invalid period %q (want YYYY-MM): %w", s, err)
	}
	return PeriodOf(t), nil
}

// String renders the "YYYY-MM" marker.
func (p Period) String() string {
	return fmt.Sprintf("%04d-%02d", p.Year, int(p.Month))
}

// Prev returns the preceding calendar month.
func (p Period) Prev() Period {
	t := time.Date(p.Year, p.Month, 1, 0, 0, 0, 0, time.UTC).AddDate(0, -1, 0)
	return PeriodOf(t)
}

// Contains reports whether t falls inside the period.
func (p Period) Contains(t time.Time) bool {
	return t.Year() == p.Year && t.Month() == p.Month
}

// IsZero reports whether the period is unset.
func (p Period) IsZero() bool {
	return p.Year == 0 && p.Month == 0
}

// Household is the unit of ownership for usage records and results.
type Household struct {
	ID   string
	Name string
	// Region selects region-specific emission factors (e.g. grid intensity);
	// empty means the default factor set.
	Region string
	// Members is the household size. Zero is tolerated at calculation time
	// and treated as one, with a warning on the result.
	Members   int
	CreatedAt time.Time
}

// UsageRecord is one entered activity. Records are append-only: a correction
// is a new record, never an edit, so past results stay reproducible.
type UsageRecord struct {
	ID          string
	HouseholdID string
	Category    Category
	Subtype     Subtype

	// Quantity in the entered Unit (kWh, km, mi, liters, servings, ...).
	Quantity float64
	Unit     string

	// Frequency applies to transportation records; empty means once.
	Frequency Frequency

	// EfficiencyKmPerL converts fuel-volume records to distance. Zero means
	// not recorded.
	EfficiencyKmPerL float64

	// LocalSourcedPct and OrganicPct (0-100) adjust diet factors.
	LocalSourcedPct int
	OrganicPct      int

	RecordedAt time.Time
	CreatedAt  time.Time
}
