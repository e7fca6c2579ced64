package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

func newHouseholdCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "household",
		Short: "Manage households",
	}
	cmd.AddCommand(newHouseholdAddCmd(), newHouseholdListCmd())
	return cmd
}

func newHouseholdAddCmd() *cobra.Command {
	var (
		name    string
		region  string
		members int
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a household",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if name == "" {
				return fmt.Errorf("--name is required")
			}
			if members < 0 {
				return fmt.Errorf("--members must be >= 0, got %d", members)
			}
			if region == "" {
				region = cfg.Region
			}

			st, err := openStore()
			if err != nil {
				return err
			}
			defer st.Close()

			h, err := st.CreateHousehold(cmd.Context(), name, region, members)
			if err != nil {
				return err
			}

			logger.Info().Str("household", h.ID).Str("name", h.Name).Msg("household created")
			cmd.Printf("Created household %q (%s)\n", h.Name, h.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "household name")
	cmd.Flags().StringVar(&region, "region", "", "region for emission factors (defaults from config)")
	cmd.Flags().IntVar(&members, "members", 1, "number of household members")
	return cmd
}

func newHouseholdListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List households",
		RunE: func(cmd *cobra.Command, _ []string) error {
			st, err := openStore()
			if err != nil {
				return err
			}
			defer st.Close()

			households, err := st.ListHouseholds(cmd.Context())
			if err != nil {
				return err
			}

			format, err := outputFormat(cmd)
			if err != nil {
				return err
			}
			if format == "json" {
				return writeJSON(cmd.OutOrStdout(), households)
			}

			if len(households) == 0 {
				cmd.Println("No households yet. Create one with 'carbonledger household add'.")
				return nil
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tREGION\tMEMBERS\tCREATED")
			for _, h := range households {
				region := h.Region
				if region == "" {
					region = "-"
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\n", h.ID, h.Name, region, h.Members, humanize.Time(h.CreatedAt))
			}
			return w.Flush()
		},
	}
}
