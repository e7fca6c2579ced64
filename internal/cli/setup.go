package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/rgoulet/carbonledger/internal/aggregate"
	"github.com/rgoulet/carbonledger/internal/domain"
	"github.com/rgoulet/carbonledger/internal/engine"
	"github.com/rgoulet/carbonledger/internal/factor"
	"github.com/rgoulet/carbonledger/internal/recommend"
	"github.com/rgoulet/carbonledger/internal/store"
)

// openStore opens the configured database, creating its directory on first use.
func openStore() (*store.Store, error) {
	if err := os.MkdirAll(filepath.Dir(cfg.Database), 0755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}
	return store.Open(cfg.Database)
}

// loadSnapshot loads the emission factor table named by the config, or the
// embedded default table.
func loadSnapshot() (*factor.Snapshot, error) {
	return factor.Load(cfg.FactorsFile)
}

// loadCatalog loads the tip catalog named by the config, or the embedded
// default catalog.
func loadCatalog() (*recommend.Catalog, error) {
	return recommend.LoadCatalog(cfg.TipsFile)
}

// resolveHousehold resolves the --household flag (id or name).
func resolveHousehold(ctx context.Context, st *store.Store, cmd *cobra.Command) (domain.Household, error) {
	idOrName, _ := cmd.Flags().GetString("household")
	if idOrName == "" {
		return domain.Household{}, errors.New("--household is required")
	}
	h, err := st.FindHousehold(ctx, idOrName)
	if errors.Is(err, store.ErrNotFound) {
		return domain.Household{}, fmt.Errorf("household %q not found", idOrName)
	}
	return h, err
}

// periodFlag parses --period, defaulting to the current month.
func periodFlag(cmd *cobra.Command) (domain.Period, error) {
	raw, _ := cmd.Flags().GetString("period")
	if raw == "" {
		return domain.PeriodOf(time.Now()), nil
	}
	return domain.ParsePeriod(raw)
}

// runCalculation executes the full pipeline for one household and period:
// load records, aggregate, calculate against the factor snapshot with the
// prior period's stored result for deltas, and store the outcome atomically.
func runCalculation(ctx context.Context, st *store.Store, household domain.Household, period domain.Period) (*engine.FootprintResult, error) {
	records, err := st.ListUsageRecords(ctx, household.ID, period)
	if err != nil {
		return nil, err
	}

	snapshot, err := loadSnapshot()
	if err != nil {
		return nil, err
	}

	usage := aggregate.Aggregate(ctx, household.ID, period, records)

	prior, err := st.GetResult(ctx, household.ID, period.Prev())
	if errors.Is(err, store.ErrNotFound) {
		prior = nil
	} else if err != nil {
		return nil, err
	}

	result, err := engine.Calculate(ctx, engine.Request{
		Usage:     usage,
		Factors:   snapshot,
		Household: household,
		Prior:     prior,
		Now:       time.Now().UTC(),
	})
	if err != nil {
		return nil, err
	}

	if err := st.SaveResult(ctx, result); err != nil {
		return nil, err
	}
	return result, nil
}

// latestResult returns the stored result for the period, computing and
// storing one first if none exists yet.
func latestResult(ctx context.Context, st *store.Store, household domain.Household, period domain.Period) (*engine.FootprintResult, error) {
	result, err := st.GetResult(ctx, household.ID, period)
	if errors.Is(err, store.ErrNotFound) {
		return runCalculation(ctx, st, household, period)
	}
	return result, err
}

// maxRecommendations returns the configured cap.
func maxRecommendations() int {
	if cfg != nil && cfg.MaxRecommendations > 0 {
		return cfg.MaxRecommendations
	}
	return recommend.DefaultMaxCount
}
