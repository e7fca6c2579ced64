package cli

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/rgoulet/carbonledger/internal/domain"
	"github.com/rgoulet/carbonledger/internal/units"
)

func newUsageCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "usage",
		Short: "Log and inspect usage records",
	}
	cmd.AddCommand(newUsageAddCmd(), newUsageListCmd())
	return cmd
}

func newUsageAddCmd() *cobra.Command {
	var (
		subtype    string
		quantity   float64
		unit       string
		frequency  string
		date       string
		efficiency float64
		localPct   int
		organicPct int
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Append a usage record",
		Long: `Append a usage record to a household.

Records are append-only: to correct a mistake, add a new record rather than
editing, so past footprint calculations stay reproducible.`,
		Example: `  # 300 kWh of electricity this month
  carbonledger usage add --household maple --subtype electricity --quantity 300 --unit kWh

  # A 15 km daily car commute
  carbonledger usage add --household maple --subtype car_gasoline --quantity 15 --unit km --frequency daily

  # Three beef servings a week, half locally sourced
  carbonledger usage add --household maple --subtype meat_beef --quantity 3 --local-pct 50`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			st, err := openStore()
			if err != nil {
				return err
			}
			defer st.Close()

			household, err := resolveHousehold(cmd.Context(), st, cmd)
			if err != nil {
				return err
			}

			sub, category, err := domain.ParseSubtype(subtype)
			if err != nil {
				return err
			}
			if quantity < 0 {
				return fmt.Errorf("--quantity must be >= 0, got %v", quantity)
			}

			recordedAt := time.Now().UTC()
			if date != "" {
				if recordedAt, err = time.Parse("2006-01-02", date); err != nil {
					return fmt.Errorf("invalid --date %q (want YYYY-MM-DD): %w", date, err)
				}
			}

			rec, err := st.InsertUsageRecord(cmd.Context(), domain.UsageRecord{
				HouseholdID:      household.ID,
				Category:         category,
				Subtype:          sub,
				Quantity:         quantity,
				Unit:             unit,
				Frequency:        domain.Frequency(frequency),
				EfficiencyKmPerL: efficiency,
				LocalSourcedPct:  localPct,
				OrganicPct:       organicPct,
				RecordedAt:       recordedAt,
			})
			if err != nil {
				return err
			}

			logger.Info().
				Str("household", household.ID).
				Str("subtype", subtype).
				Float64("quantity", quantity).
				Msg("usage record added")
			shownUnit := rec.Unit
			if shownUnit == "" {
				shownUnit = units.CanonicalUnit(sub)
			}
			cmd.Printf("Recorded %v %s of %s for %q (%s)\n", quantity, shownUnit, subtype, household.Name, rec.ID)
			return nil
		},
	}

	cmd.Flags().String("household", "", "household id or name")
	cmd.Flags().StringVar(&subtype, "subtype", "", "activity subtype (electricity, car_gasoline, meat_beef, ...)")
	cmd.Flags().Float64Var(&quantity, "quantity", 0, "amount of activity")
	cmd.Flags().StringVar(&unit, "unit", "", "unit of the quantity (defaults to the subtype's canonical unit)")
	cmd.Flags().StringVar(&frequency, "frequency", "", "recurrence for transportation (daily, weekly, monthly, yearly, once)")
	cmd.Flags().StringVar(&date, "date", "", "record date, YYYY-MM-DD (default today)")
	cmd.Flags().Float64Var(&efficiency, "efficiency", 0, "vehicle efficiency in km per liter, for fuel-volume records")
	cmd.Flags().IntVar(&localPct, "local-pct", 0, "percentage of locally sourced food (diet records)")
	cmd.Flags().IntVar(&organicPct, "organic-pct", 0, "percentage of organic food (diet records)")
	return cmd
}

func newUsageListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List a household's usage records for a period",
		RunE: func(cmd *cobra.Command, _ []string) error {
			st, err := openStore()
			if err != nil {
				return err
			}
			defer st.Close()

			household, err := resolveHousehold(cmd.Context(), st, cmd)
			if err != nil {
				return err
			}
			period, err := periodFlag(cmd)
			if err != nil {
				return err
			}

			records, err := st.ListUsageRecords(cmd.Context(), household.ID, period)
			if err != nil {
				return err
			}

			format, err := outputFormat(cmd)
			if err != nil {
				return err
			}
			if format == "json" {
				return writeJSON(cmd.OutOrStdout(), records)
			}

			if len(records) == 0 {
				cmd.Printf("No usage recorded for %q in %s.\n", household.Name, period)
				return nil
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "DATE\tCATEGORY\tSUBTYPE\tQUANTITY\tUNIT\tFREQUENCY")
			for _, rec := range records {
				unit := rec.Unit
				if unit == "" {
					unit = "-"
				}
				freq := string(rec.Frequency)
				if freq == "" {
					freq = "-"
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%v\t%s\t%s\n",
					rec.RecordedAt.Format("2006-01-02"), rec.Category, rec.Subtype, rec.Quantity, unit, freq)
			}
			return w.Flush()
		},
	}

	cmd.Flags().String("household", "", "household id or name")
	cmd.Flags().String("period", "", "period as YYYY-MM (default current month)")
	return cmd
}
