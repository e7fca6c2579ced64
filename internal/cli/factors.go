package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/rgoulet/carbonledger/internal/factor"
)

func newFactorsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "factors",
		Short: "Inspect the emission factor table",
	}
	cmd.AddCommand(newFactorsListCmd(), newFactorsValidateCmd())
	return cmd
}

func newFactorsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List emission factors in effect",
		RunE: func(cmd *cobra.Command, _ []string) error {
			snapshot, err := loadSnapshot()
			if err != nil {
				return err
			}

			format, err := outputFormat(cmd)
			if err != nil {
				return err
			}
			if format == "json" {
				return writeJSON(cmd.OutOrStdout(), struct {
					Version   string           `json:"version"`
					Reference factor.Reference `json:"reference"`
					Factors   []factor.Factor  `json:"factors"`
				}{snapshot.Version(), snapshot.Reference(), snapshot.Factors()})
			}

			cmd.Printf("Factor table %s (%d entries)\n\n", snapshot.Version(), snapshot.Len())
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "CATEGORY\tSUBTYPE\tREGION\tKG CO2E PER UNIT\tUNIT\tSOURCE")
			for _, f := range snapshot.Factors() {
				region := f.Region
				if region == "" {
					region = "default"
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%v\t%s\t%s\n", f.Category, f.Subtype, region, f.Value, f.Unit, f.Source)
			}
			return w.Flush()
		},
	}
}

func newFactorsValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate [file]",
		Short: "Validate a factor table file",
		Long: `Validate a factor table file: schema version, subtype names, category
membership, and duplicate entries. With no argument the configured table (or
the embedded default) is checked.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := cfg.FactorsFile
			if len(args) == 1 {
				path = args[0]
			}

			snapshot, err := factor.Load(path)
			if err != nil {
				return err
			}

			name := path
			if name == "" {
				name = "embedded default table"
			}
			cmd.Printf("%s is valid: version %s, %d entries\n", name, snapshot.Version(), snapshot.Len())
			return nil
		},
	}
}
