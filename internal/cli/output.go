package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/rgoulet/carbonledger/internal/aggregate"
	"github.com/rgoulet/carbonledger/internal/domain"
	"github.com/rgoulet/carbonledger/internal/engine"
)

// printer formats kg values with thousands separators for human output.
var printer = message.NewPrinter(language.English) //nolint:gochecknoglobals // shared formatter

// formatKg renders a kg CO2e amount for table output.
func formatKg(v float64) string {
	return printer.Sprintf("%.1f", v)
}

// formatPct renders a signed percentage delta, or "n/a" when unavailable.
func formatPct(v float64, available bool) string {
	if !available {
		return "n/a"
	}
	return printer.Sprintf("%+.1f%%", v)
}

// writeJSON renders v as indented JSON.
func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// resultJSON mirrors engine.FootprintResult for --output json, with
// category maps keyed by name instead of enum value.
type resultJSON struct {
	ID               string                     `json:"id"`
	HouseholdID      string                     `json:"household_id"`
	Period           string                     `json:"period"`
	Subtotals        map[string]float64         `json:"subtotals"`
	TotalKg          float64                    `json:"total_kg"`
	PerCapitaKg      float64                    `json:"per_capita_kg"`
	EffectiveMembers int                        `json:"effective_members"`
	Warnings         []engine.Warning           `json:"warnings,omitempty"`
	Unresolved       []aggregate.Unresolved     `json:"unresolved,omitempty"`
	Invalid          []aggregate.Invalid        `json:"invalid,omitempty"`
	Deltas           *deltasJSON                `json:"deltas,omitempty"`
	Reference        engine.ReferenceComparison `json:"reference"`
	FactorVersion    string                     `json:"factor_version"`
	CalculatedAt     time.Time                  `json:"calculated_at"`
}

type deltasJSON struct {
	// TotalPct is omitted when the prior total was zero.
	TotalPct      *float64           `json:"total_pct,omitempty"`
	ByCategoryPct map[string]float64 `json:"by_category_pct"`
}

func resultForJSON(r *engine.FootprintResult) resultJSON {
	out := resultJSON{
		ID:               r.ID,
		HouseholdID:      r.HouseholdID,
		Period:           r.Period.String(),
		Subtotals:        categoryNames(r.Subtotals),
		TotalKg:          r.TotalKg,
		PerCapitaKg:      r.PerCapitaKg,
		EffectiveMembers: r.EffectiveMembers,
		Warnings:         r.Warnings,
		Unresolved:       r.Unresolved,
		Invalid:          r.Invalid,
		Reference:        r.Reference,
		FactorVersion:    r.FactorVersion,
		CalculatedAt:     r.CalculatedAt,
	}
	if r.Deltas != nil {
		out.Deltas = &deltasJSON{
			TotalPct:      r.Deltas.TotalPct,
			ByCategoryPct: categoryNames(r.Deltas.ByCategoryPct),
		}
	}
	return out
}

func resultsForJSON(results []*engine.FootprintResult) []resultJSON {
	out := make([]resultJSON, 0, len(results))
	for _, r := range results {
		out = append(out, resultForJSON(r))
	}
	return out
}

func categoryNames(in map[domain.Category]float64) map[string]float64 {
	out := make(map[string]float64, len(in))
	for cat, v := range in {
		out[cat.String()] = v
	}
	return out
}

// outputFormat reads the --output flag and rejects unknown formats.
func outputFormat(cmd *cobra.Command) (string, error) {
	format, _ := cmd.Flags().GetString("output")
	switch format {
	case "table", "json":
		return format, nil
	default:
		return "", fmt.Errorf("unsupported output format %q (want table or json)", format)
	}
}
