package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/rgoulet/carbonledger/internal/domain"
)

func newTrendCmd() *cobra.Command {
	var months int

	cmd := &cobra.Command{
		Use:   "trend",
		Short: "Show a household's footprint over recent months",
		Long: `Show stored footprint results for recent months, newest first. Only
months that have been calculated appear; gaps mean no calculation was run for
that period.`,
		Example: `  carbonledger trend --household maple
  carbonledger trend --household maple --months 12`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if months <= 0 {
				return fmt.Errorf("--months must be > 0, got %d", months)
			}

			st, err := openStore()
			if err != nil {
				return err
			}
			defer st.Close()

			household, err := resolveHousehold(cmd.Context(), st, cmd)
			if err != nil {
				return err
			}

			results, err := st.ListResults(cmd.Context(), household.ID, months)
			if err != nil {
				return err
			}

			format, err := outputFormat(cmd)
			if err != nil {
				return err
			}
			if format == "json" {
				return writeJSON(cmd.OutOrStdout(), resultsForJSON(results))
			}

			if len(results) == 0 {
				cmd.Printf("No stored results for %q. Run 'carbonledger calculate' first.\n", household.Name)
				return nil
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "PERIOD\tTOTAL KG\tPER PERSON\tENERGY\tTRANSPORTATION\tDIET\tVS PRIOR")
			for _, r := range results {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
					r.Period, formatKg(r.TotalKg), formatKg(r.PerCapitaKg),
					formatKg(r.Subtotal(domain.CategoryEnergy)),
					formatKg(r.Subtotal(domain.CategoryTransportation)),
					formatKg(r.Subtotal(domain.CategoryDiet)),
					totalDelta(r))
			}
			return w.Flush()
		},
	}

	cmd.Flags().String("household", "", "household id or name")
	cmd.Flags().IntVar(&months, "months", 6, "number of recent months to show")
	return cmd
}
