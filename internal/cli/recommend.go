package cli

import (
	"errors"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/rgoulet/carbonledger/internal/recommend"
	"github.com/rgoulet/carbonledger/internal/store"
)

func newRecommendCmd() *cobra.Command {
	var (
		maxCount         int
		includeDismissed bool
		personalized     bool
	)

	cmd := &cobra.Command{
		Use:   "recommend",
		Short: "Show reduction tips that apply to a household",
		Long: `Show reduction tips whose thresholds the household's latest footprint
meets, ordered by weight. Each tip carries an estimated annual impact, capped
so no single tip claims more than its category plausibly allows.

With --personalized, tips are instead grouped under the household's two
highest-emitting categories and ranked by potential savings.`,
		Example: `  carbonledger recommend --household maple
  carbonledger recommend --household maple --personalized
  carbonledger recommend dismiss --household maple --tip transport-public`,
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
			catalog, err := loadCatalog()
			if err != nil {
				return err
			}

			dismissed := map[string]bool{}
			if !includeDismissed {
				if dismissed, err = st.DismissedTips(cmd.Context(), household.ID); err != nil {
					return err
				}
			}

			var tips []recommend.Tip
			if personalized {
				tips = recommend.Personalized(result, catalog, dismissed)
			} else {
				if maxCount <= 0 {
					maxCount = maxRecommendations()
				}
				tips = recommend.Select(result, catalog, recommend.Options{
					MaxCount:         maxCount,
					Dismissed:        dismissed,
					IncludeDismissed: includeDismissed,
				})
			}

			format, err := outputFormat(cmd)
			if err != nil {
				return err
			}
			if format == "json" {
				type tipWithImpact struct {
					recommend.Tip
					Impact recommend.Impact `json:"impact"`
				}
				out := make([]tipWithImpact, 0, len(tips))
				for _, tip := range tips {
					out = append(out, tipWithImpact{Tip: tip, Impact: recommend.EstimateImpact(result, tip)})
				}
				return writeJSON(cmd.OutOrStdout(), out)
			}

			if len(tips) == 0 {
				cmd.Printf("No tips apply to %q for %s. Nice work.\n", household.Name, period)
				return nil
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "TIP\tCATEGORY\tDIFFICULTY\tEST. SAVINGS\tNEW TOTAL")
			for _, tip := range tips {
				impact := recommend.EstimateImpact(result, tip)
				fmt.Fprintf(w, "%s\t%s\t%s\t%s kg (%.0f%%)\t%s kg\n",
					tip.Title, tip.Category, tip.Difficulty,
					formatKg(impact.PotentialReductionKg), impact.PctOfTotal, formatKg(impact.NewTotalKg))
			}
			if err := w.Flush(); err != nil {
				return err
			}
			cmd.Println("\nUse 'carbonledger recommend dismiss --tip <id>' to hide a tip you have already acted on.")
			return nil
		},
	}

	cmd.Flags().String("household", "", "household id or name")
	cmd.Flags().String("period", "", "period as YYYY-MM (default current month)")
	cmd.Flags().IntVar(&maxCount, "max", 0, "maximum number of tips (defaults from config)")
	cmd.Flags().BoolVar(&includeDismissed, "include-dismissed", false, "also show tips the household has dismissed")
	cmd.Flags().BoolVar(&personalized, "personalized", false, "group tips under the top two emitting categories")

	cmd.AddCommand(newRecommendDismissCmd(), newRecommendUndismissCmd())
	return cmd
}

func newRecommendDismissCmd() *cobra.Command {
	var tipID string

	cmd := &cobra.Command{
		Use:   "dismiss",
		Short: "Hide a tip for a household",
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
			catalog, err := loadCatalog()
			if err != nil {
				return err
			}
			if _, ok := catalog.Get(tipID); !ok {
				return fmt.Errorf("unknown tip %q", tipID)
			}

			if err := st.DismissTip(cmd.Context(), household.ID, tipID); err != nil {
				return err
			}
			cmd.Printf("Dismissed tip %q for %q\n", tipID, household.Name)
			return nil
		},
	}

	cmd.Flags().String("household", "", "household id or name")
	cmd.Flags().StringVar(&tipID, "tip", "", "tip id to dismiss")
	return cmd
}

func newRecommendUndismissCmd() *cobra.Command {
	var tipID string

	cmd := &cobra.Command{
		Use:   "undismiss",
		Short: "Restore a dismissed tip",
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

			err = st.UndismissTip(cmd.Context(), household.ID, tipID)
			if errors.Is(err, store.ErrNotFound) {
				return fmt.Errorf("tip %q was not dismissed for %q", tipID, household.Name)
			}
			if err != nil {
				return err
			}
			cmd.Printf("Restored tip %q for %q\n", tipID, household.Name)
			return nil
		},
	}

	cmd.Flags().String("household", "", "household id or name")
	cmd.Flags().StringVar(&tipID, "tip", "", "tip id to restore")
	return cmd
}
