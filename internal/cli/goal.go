package cli

import (
	"errors"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/rgoulet/carbonledger/internal/store"
)

func newGoalCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "goal",
		Short: "Track reduction goals",
		Long: `Track reduction goals: a household's commitment to act on a tip by a
target date. Goals are advisory; they never change footprint calculations.`,
	}
	cmd.AddCommand(newGoalAddCmd(), newGoalListCmd(), newGoalCompleteCmd())
	return cmd
}

func newGoalAddCmd() *cobra.Command {
	var (
		tipID      string
		targetDate string
		notes      string
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Commit to acting on a tip",
		Example: `  carbonledger goal add --household maple --tip transport-public --target 2026-12-31
  carbonledger goal add --household maple --tip diet-less-beef --target 2026-10-01 --notes "meatless Mondays"`,
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

			target, err := time.Parse("2006-01-02", targetDate)
			if err != nil {
				return fmt.Errorf("invalid --target %q (want YYYY-MM-DD): %w", targetDate, err)
			}

			goal, err := st.AddGoal(cmd.Context(), household.ID, tipID, target, notes)
			if err != nil {
				return err
			}

			logger.Info().Str("household", household.ID).Str("tip", tipID).Msg("reduction goal added")
			cmd.Printf("Goal %s: act on %q by %s\n", goal.ID, tipID, target.Format("2006-01-02"))
			return nil
		},
	}

	cmd.Flags().String("household", "", "household id or name")
	cmd.Flags().StringVar(&tipID, "tip", "", "tip id to commit to")
	cmd.Flags().StringVar(&targetDate, "target", "", "target date, YYYY-MM-DD")
	cmd.Flags().StringVar(&notes, "notes", "", "free-form notes")
	return cmd
}

func newGoalListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List a household's goals",
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

			goals, err := st.ListGoals(cmd.Context(), household.ID)
			if err != nil {
				return err
			}

			format, err := outputFormat(cmd)
			if err != nil {
				return err
			}
			if format == "json" {
				return writeJSON(cmd.OutOrStdout(), goals)
			}

			if len(goals) == 0 {
				cmd.Printf("No goals for %q yet. Add one with 'carbonledger goal add'.\n", household.Name)
				return nil
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tTIP\tTARGET\tSTATUS\tNOTES")
			for _, g := range goals {
				status := "open"
				if g.Completed {
					status = "done " + humanize.Time(g.CompletedAt)
				}
				notes := g.Notes
				if notes == "" {
					notes = "-"
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
					g.ID, g.TipID, g.TargetDate.Format("2006-01-02"), status, notes)
			}
			return w.Flush()
		},
	}

	cmd.Flags().String("household", "", "household id or name")
	return cmd
}

func newGoalCompleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "complete <goal-id>",
		Short: "Mark a goal done",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := openStore()
			if err != nil {
				return err
			}
			defer st.Close()

			err = st.CompleteGoal(cmd.Context(), args[0])
			if errors.Is(err, store.ErrNotFound) {
				return fmt.Errorf("no open goal %q", args[0])
			}
			if err != nil {
				return err
			}
			cmd.Printf("Goal %s completed\n", args[0])
			return nil
		},
	}
}
