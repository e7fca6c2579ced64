package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rgoulet/carbonledger/internal/domain"
)

// cliEnv runs commands against an isolated config and database so tests
// never touch the real data directory.
type cliEnv struct {
	configPath string
}

func newEnv(t *testing.T) cliEnv {
	t.Helper()
	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.yaml")
	content := fmt.Sprintf("database: %s\nlogging:\n  level: error\n", filepath.Join(dir, "test.db"))
	require.NoError(t, os.WriteFile(configPath, []byte(content), 0600))
	return cliEnv{configPath: configPath}
}

func (e cliEnv) run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd("test")
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(append([]string{"--config", e.configPath}, args...))
	err := root.Execute()
	return out.String(), err
}

func (e cliEnv) mustRun(t *testing.T, args ...string) string {
	t.Helper()
	out, err := e.run(t, args...)
	require.NoError(t, err, "command %v failed: %s", args, out)
	return out
}

func TestHouseholdAddAndList(t *testing.T) {
	env := newEnv(t)

	out := env.mustRun(t, "household", "add", "--name", "maple", "--members", "3", "--region", "us")
	assert.Contains(t, out, `Created household "maple"`)

	out = env.mustRun(t, "household", "list")
	assert.Contains(t, out, "maple")
	assert.Contains(t, out, "us")
}

func TestHouseholdAddRequiresName(t *testing.T) {
	env := newEnv(t)
	_, err := env.run(t, "household", "add")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--name is required")
}

func TestUsageAddAndList(t *testing.T) {
	env := newEnv(t)
	env.mustRun(t, "household", "add", "--name", "maple", "--members", "2")

	out := env.mustRun(t, "usage", "add",
		"--household", "maple", "--subtype", "electricity", "--quantity", "300", "--unit", "kWh")
	assert.Contains(t, out, "Recorded 300 kWh of electricity")

	env.mustRun(t, "usage", "add",
		"--household", "maple", "--subtype", "car_gasoline", "--quantity", "15",
		"--unit", "km", "--frequency", "daily")

	out = env.mustRun(t, "usage", "list", "--household", "maple")
	assert.Contains(t, out, "electricity")
	assert.Contains(t, out, "car_gasoline")
	assert.Contains(t, out, "daily")
}

func TestUsageAddRejectsUnknownSubtype(t *testing.T) {
	env := newEnv(t)
	env.mustRun(t, "household", "add", "--name", "maple")

	_, err := env.run(t, "usage", "add", "--household", "maple", "--subtype", "biodiesel", "--quantity", "1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "biodiesel")
}

func TestUsageAddRejectsNegativeQuantity(t *testing.T) {
	env := newEnv(t)
	env.mustRun(t, "household", "add", "--name", "maple")

	_, err := env.run(t, "usage", "add", "--household", "maple", "--subtype", "electricity", "--quantity", "-5")
	require.Error(t, err)
}

func TestUsageUnknownHousehold(t *testing.T) {
	env := newEnv(t)
	_, err := env.run(t, "usage", "add", "--household", "nobody", "--subtype", "electricity", "--quantity", "1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestCalculateAndSummary(t *testing.T) {
	env := newEnv(t)
	env.mustRun(t, "household", "add", "--name", "maple", "--members", "2")
	env.mustRun(t, "usage", "add",
		"--household", "maple", "--subtype", "electricity", "--quantity", "300", "--unit", "kWh")

	out := env.mustRun(t, "calculate", "--household", "maple")
	assert.Contains(t, out, "Footprint for \"maple\"")

	out = env.mustRun(t, "summary", "--household", "maple", "--output", "json")
	var result resultJSON
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.InDelta(t, 120.0, result.TotalKg, 1e-6)
	assert.InDelta(t, 60.0, result.PerCapitaKg, 1e-6)
	assert.Equal(t, 2, result.EffectiveMembers)

	// Category maps are keyed by name, never by enum value.
	assert.InDelta(t, 120.0, result.Subtotals["energy"], 1e-6)
	assert.Contains(t, out, `"energy"`)
	assert.NotContains(t, out, `"0":`)
}

func TestSummaryComputesWhenNoStoredResult(t *testing.T) {
	env := newEnv(t)
	env.mustRun(t, "household", "add", "--name", "maple", "--members", "1")

	out := env.mustRun(t, "summary", "--household", "maple", "--output", "json")
	var result resultJSON
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.Zero(t, result.TotalKg)
}

func TestSummaryOmitsDeltaAgainstEmptyPriorMonth(t *testing.T) {
	env := newEnv(t)
	env.mustRun(t, "household", "add", "--name", "maple", "--members", "1")

	// Store an empty prior month, then a current month with usage: the
	// change against a zero total is undefined and must stay absent.
	prior := domain.PeriodOf(time.Now()).Prev().String()
	env.mustRun(t, "calculate", "--household", "maple", "--period", prior)
	env.mustRun(t, "usage", "add", "--household", "maple", "--subtype", "electricity", "--quantity", "300")
	env.mustRun(t, "calculate", "--household", "maple")

	out := env.mustRun(t, "summary", "--household", "maple", "--output", "json")
	var result resultJSON
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	require.NotNil(t, result.Deltas)
	assert.Nil(t, result.Deltas.TotalPct)

	out = env.mustRun(t, "trend", "--household", "maple")
	assert.Contains(t, out, "n/a")
	assert.NotContains(t, out, "+0.0%")
}

func TestTrendListsStoredResults(t *testing.T) {
	env := newEnv(t)
	env.mustRun(t, "household", "add", "--name", "maple", "--members", "1")
	env.mustRun(t, "usage", "add", "--household", "maple", "--subtype", "electricity", "--quantity", "100")
	env.mustRun(t, "calculate", "--household", "maple")

	out := env.mustRun(t, "trend", "--household", "maple")
	assert.Contains(t, out, "PERIOD")

	out = env.mustRun(t, "trend", "--household", "maple", "--output", "json")
	var results []resultJSON
	require.NoError(t, json.Unmarshal([]byte(out), &results))
	require.Len(t, results, 1)
	assert.Contains(t, results[0].Subtotals, "energy")
}

func TestRecommendAndDismiss(t *testing.T) {
	env := newEnv(t)
	env.mustRun(t, "household", "add", "--name", "maple", "--members", "1")
	// A heavy daily car commute crosses the transportation tip thresholds.
	env.mustRun(t, "usage", "add",
		"--household", "maple", "--subtype", "car_gasoline", "--quantity", "60",
		"--unit", "km", "--frequency", "daily")
	env.mustRun(t, "calculate", "--household", "maple")

	out := env.mustRun(t, "recommend", "--household", "maple")
	assert.Contains(t, out, "TIP")

	env.mustRun(t, "recommend", "dismiss", "--household", "maple", "--tip", "transport-public")
	env.mustRun(t, "recommend", "undismiss", "--household", "maple", "--tip", "transport-public")

	_, err := env.run(t, "recommend", "dismiss", "--household", "maple", "--tip", "no-such-tip")
	require.Error(t, err)
}

func TestGoalLifecycle(t *testing.T) {
	env := newEnv(t)
	env.mustRun(t, "household", "add", "--name", "maple")

	out := env.mustRun(t, "goal", "add",
		"--household", "maple", "--tip", "transport-public", "--target", "2026-12-31")
	assert.Contains(t, out, "transport-public")

	out = env.mustRun(t, "goal", "list", "--household", "maple")
	assert.Contains(t, out, "open")

	_, err := env.run(t, "goal", "complete", "no-such-goal")
	require.Error(t, err)
}

func TestFactorsListAndValidate(t *testing.T) {
	env := newEnv(t)

	out := env.mustRun(t, "factors", "list")
	assert.Contains(t, out, "electricity")
	assert.Contains(t, out, "car_gasoline")

	out = env.mustRun(t, "factors", "validate")
	assert.Contains(t, out, "is valid")
}

func TestConfigInitAndValidate(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.yaml")
	env := cliEnv{configPath: configPath}

	out := env.mustRun(t, "config", "init")
	assert.Contains(t, out, "Wrote default config")

	out = env.mustRun(t, "config", "validate")
	assert.Contains(t, out, "valid")

	_, err := env.run(t, "config", "init")
	require.Error(t, err)
}

func TestUnknownOutputFormat(t *testing.T) {
	env := newEnv(t)
	env.mustRun(t, "household", "add", "--name", "maple")
	_, err := env.run(t, "household", "list", "--output", "yaml")
	require.Error(t, err)
}
