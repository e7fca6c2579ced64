package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rgoulet/carbonledger/internal/domain"
	"github.com/rgoulet/carbonledger/internal/engine"
	"github.com/rgoulet/carbonledger/internal/recommend"
)

func testModel() SummaryModel {
	household := domain.Household{ID: "h1", Name: "maple", Members: 2}
	result := &engine.FootprintResult{
		HouseholdID: "h1",
		Period:      domain.Period{Year: 2026, Month: 7},
		Subtotals: map[domain.Category]float64{
			domain.CategoryEnergy:         150,
			domain.CategoryTransportation: 200,
		},
		TotalKg:          350,
		PerCapitaKg:      175,
		EffectiveMembers: 2,
	}
	tips := []recommend.Tip{
		{
			ID:                 "transport-public",
			Title:              "Use public transportation more often",
			Guidance:           "Bus and rail emit less per passenger-km.",
			Category:           domain.CategoryTransportation,
			PotentialSavingsKg: 1200,
		},
	}
	return NewSummaryModel(household, result, tips)
}

func TestViewShowsBreakdown(t *testing.T) {
	view := testModel().View()
	assert.Contains(t, view, "maple")
	assert.Contains(t, view, "2026-07")
	assert.Contains(t, view, "energy")
	assert.Contains(t, view, "transportation")
	assert.Contains(t, view, "Use public transportation")
}

func TestQuitKey(t *testing.T) {
	m := testModel()
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestTabSwitchesPaneAndShowsGuidance(t *testing.T) {
	m := testModel()
	assert.Empty(t, m.selectedGuidance())

	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyTab})
	switched, ok := updated.(SummaryModel)
	require.True(t, ok)
	assert.Equal(t, "Bus and rail emit less per passenger-km.", switched.selectedGuidance())
}

func TestDismissRemovesTipAndPersists(t *testing.T) {
	var dismissed []string
	m := testModel().WithDismiss(func(tipID string) error {
		dismissed = append(dismissed, tipID)
		return nil
	})

	// Dismiss in the breakdown pane is a no-op.
	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'d'}})
	assert.Empty(t, dismissed)

	updated, _ = updated.(SummaryModel).Update(tea.KeyMsg{Type: tea.KeyTab})
	updated, _ = updated.(SummaryModel).Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'d'}})
	after, ok := updated.(SummaryModel)
	require.True(t, ok)

	assert.Equal(t, []string{"transport-public"}, dismissed)
	assert.Empty(t, after.tips)
	assert.Contains(t, after.View(), "No tips apply")
}

func TestEmptyTipsRenderPlaceholder(t *testing.T) {
	household := domain.Household{ID: "h1", Name: "maple"}
	result := &engine.FootprintResult{
		Period:           domain.Period{Year: 2026, Month: 7},
		Subtotals:        map[domain.Category]float64{},
		EffectiveMembers: 1,
	}
	m := NewSummaryModel(household, result, nil)
	assert.Contains(t, m.View(), "No tips apply")
}
