package cli

import (
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/rgoulet/carbonledger/internal/recommend"
	"github.com/rgoulet/carbonledger/internal/tui"
)

func newSummaryCmd() *cobra.Command {
	var interactive bool

	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Show a household's footprint breakdown",
		Long: `Show the footprint breakdown for a household and period: per-category
subtotals, the total, per-capita emissions, changes against the prior month,
and how the household compares to national and global averages.

If no result is stored for the period yet, one is calculated first.`,
		Example: `  carbonledger summary --household maple
  carbonledger summary --household maple --period 2026-07 --output json
  carbonledger summary --household maple --interactive`,
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

			result, err := latestResult(cmd.Context(), st, household, period)
			if err != nil {
				return err
			}

			if interactive {
				catalog, err := loadCatalog()
				if err != nil {
					return err
				}
				dismissed, err := st.DismissedTips(cmd.Context(), household.ID)
				if err != nil {
					return err
				}
				tips := recommend.Select(result, catalog, recommend.Options{
					MaxCount:  maxRecommendations(),
					Dismissed: dismissed,
				})
				model := tui.NewSummaryModel(household, result, tips).
					WithDismiss(func(tipID string) error {
						return st.DismissTip(cmd.Context(), household.ID, tipID)
					})
				_, err = tea.NewProgram(model, tea.WithContext(cmd.Context())).Run()
				return err
			}

			format, err := outputFormat(cmd)
			if err != nil {
				return err
			}
			if format == "json" {
				return writeJSON(cmd.OutOrStdout(), resultForJSON(result))
			}

			if isTerminal(os.Stdout) {
				cmd.Print(renderSummaryStyled(household, result))
				return nil
			}
			return renderSummaryPlain(cmd.OutOrStdout(), household, result)
		},
	}

	cmd.Flags().String("household", "", "household id or name")
	cmd.Flags().String("period", "", "period as YYYY-MM (default current month)")
	cmd.Flags().BoolVar(&interactive, "interactive", false, "browse the summary and tips in an interactive view")
	return cmd
}
