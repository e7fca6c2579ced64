package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newCalculateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "calculate",
		Short: "Calculate a household's footprint for a period",
		Long: `Calculate a household's carbon footprint for a calendar month.

The result is stored, replacing any earlier result for the same household and
period, so re-running after logging more usage always reflects the full month.`,
		Example: `  carbonledger calculate --household maple
  carbonledger calculate --household maple --period 2026-07`,
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

			result, err := runCalculation(cmd.Context(), st, household, period)
			if err != nil {
				return err
			}

			format, err := outputFormat(cmd)
			if err != nil {
				return err
			}
			if format == "json" {
				return writeJSON(cmd.OutOrStdout(), resultForJSON(result))
			}

			cmd.Printf("Footprint for %q, %s: %s kg CO2e (%s kg per person)\n",
				household.Name, period, formatKg(result.TotalKg), formatKg(result.PerCapitaKg))
			for _, issue := range result.Invalid {
				cmd.Printf("  skipped record %s: %s\n", issue.RecordID, issue.Reason)
			}
			for _, u := range result.Unresolved {
				cmd.Printf("  unresolved record %s (%s): %s\n", u.RecordID, u.Subtype, u.Reason)
			}
			for _, w := range result.Warnings {
				cmd.Printf("  warning: %s\n", w)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Run %q for the full breakdown.\n", "carbonledger summary --household "+household.Name)
			return nil
		},
	}

	cmd.Flags().String("household", "", "household id or name")
	cmd.Flags().String("period", "", "period as YYYY-MM (default current month)")
	return cmd
}
