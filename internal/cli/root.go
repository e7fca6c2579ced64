// Package cli implements the carbonledger command tree.
package cli

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/rgoulet/carbonledger/internal/config"
	"github.com/rgoulet/carbonledger/internal/logging"
)

// cfg and logger are populated by the root command's PersistentPreRunE and
// shared by every subcommand.
var (
	cfg    *config.Config //nolint:gochecknoglobals // set once per invocation in PersistentPreRunE
	logger zerolog.Logger //nolint:gochecknoglobals // root logger for CLI operations
)

// isTerminal checks if the given file is a terminal.
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// NewRootCmd creates the root cobra command for the carbonledger CLI.
// It wires configuration loading, logging, and the subcommands (household,
// usage, calculate, summary, trend, recommend, goal, factors, config).
func NewRootCmd(ver string) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "carbonledger",
		Short:   "Household carbon footprint tracker",
		Long:    "carbonledger: log household energy, transportation, and diet usage and compute carbon footprint estimates, trends, and reduction tips",
		Version: ver,
		Example: rootCmdExample,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			configPath, _ := cmd.Flags().GetString("config")
			if configPath == "" {
				var err error
				if configPath, err = config.DefaultPath(); err != nil {
					return err
				}
			}

			var err error
			cfg, err = config.Load(configPath)
			if err != nil {
				return err
			}

			loggingCfg := cfg.Logging
			if debug, _ := cmd.Flags().GetBool("debug"); debug {
				loggingCfg.Level = "debug"
				loggingCfg.Format = "console"
				loggingCfg.File = ""
			}

			root, err := logging.NewLogger(logging.Config{
				Level:  loggingCfg.Level,
				Format: loggingCfg.Format,
				File:   loggingCfg.File,
			})
			if err != nil {
				return fmt.Errorf("initializing logging: %w", err)
			}
			logger = logging.ComponentLogger(root, "cli")

			cmd.SetContext(logging.WithContext(cmd.Context(), logger))
			logger.Debug().Str("command", cmd.Name()).Str("config", configPath).Msg("command started")
			return nil
		},
	}

	cmd.PersistentFlags().String("config", "", "config file path (default ~/.carbonledger/config.yaml)")
	cmd.PersistentFlags().Bool("debug", false, "enable debug logging")
	cmd.PersistentFlags().StringP("output", "o", "table", "output format (table, json)")

	cmd.AddCommand(
		newHouseholdCmd(),
		newUsageCmd(),
		newCalculateCmd(),
		newSummaryCmd(),
		newTrendCmd(),
		newRecommendCmd(),
		newGoalCmd(),
		newFactorsCmd(),
		newConfigCmd(),
	)

	return cmd
}

const rootCmdExample = `  # Create a household and log some usage
  carbonledger household add --name "maple street" --members 3
  carbonledger usage add --household "maple street" --subtype electricity --quantity 300 --unit kWh

  # Compute and inspect this month's footprint
  carbonledger calculate --household "maple street"
  carbonledger summary --household "maple street"

  # See which reduction tips apply
  carbonledger recommend --household "maple street"`
