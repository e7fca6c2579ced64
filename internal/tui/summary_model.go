// Package tui provides the interactive summary view: a navigable breakdown
// of a household's footprint and the reduction tips that apply to it.
package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/rgoulet/carbonledger/internal/domain"
	"github.com/rgoulet/carbonledger/internal/engine"
	"github.com/rgoulet/carbonledger/internal/recommend"
)

var (
	tuiTitleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10")).Padding(0, 1) //nolint:gochecknoglobals
	tuiBorderStyle = lipgloss.NewStyle().BorderStyle(lipgloss.NormalBorder()).                     //nolint:gochecknoglobals
			BorderForeground(lipgloss.Color("240"))
	tuiDetailStyle = lipgloss.NewStyle().Padding(0, 1).Foreground(lipgloss.Color("252")) //nolint:gochecknoglobals
	tuiFootStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Padding(0, 1)   //nolint:gochecknoglobals
)

var tuiPrinter = message.NewPrinter(language.English) //nolint:gochecknoglobals

type keyMap struct {
	Tab     key.Binding
	Up      key.Binding
	Down    key.Binding
	Dismiss key.Binding
	Quit    key.Binding
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Tab, k.Up, k.Down, k.Dismiss, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Tab, k.Up, k.Down, k.Dismiss, k.Quit}}
}

func defaultKeyMap() keyMap {
	return keyMap{
		Tab: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "switch pane"),
		),
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Dismiss: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "dismiss tip"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "esc", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

type pane int

const (
	paneBreakdown pane = iota
	paneTips
)

// DismissFunc persists a tip dismissal for the household being viewed.
type DismissFunc func(tipID string) error

// SummaryModel is the bubbletea model behind "summary --interactive".
type SummaryModel struct {
	household domain.Household
	result    *engine.FootprintResult
	tips      []recommend.Tip
	onDismiss DismissFunc

	breakdown table.Model
	tipTable  table.Model
	active    pane
	keys      keyMap
	help      help.Model
	status    string
}

// NewSummaryModel builds the interactive view for one computed result and
// the tips selected against it.
func NewSummaryModel(household domain.Household, result *engine.FootprintResult, tips []recommend.Tip) SummaryModel {
	breakdown := table.New(
		table.WithColumns([]table.Column{
			{Title: "Category", Width: 16},
			{Title: "kg CO2e", Width: 12},
			{Title: "Share", Width: 7},
		}),
		table.WithRows(breakdownRows(result)),
		table.WithHeight(len(domain.Categories())+1),
		table.WithFocused(true),
	)

	tipTable := table.New(
		table.WithColumns([]table.Column{
			{Title: "Tip", Width: 34},
			{Title: "Category", Width: 16},
			{Title: "Est. savings", Width: 14},
		}),
		table.WithRows(tipRows(result, tips)),
		table.WithHeight(max(len(tips), 1)),
	)

	return SummaryModel{
		household: household,
		result:    result,
		tips:      tips,
		breakdown: breakdown,
		tipTable:  tipTable,
		keys:      defaultKeyMap(),
		help:      help.New(),
	}
}

// WithDismiss wires the dismiss keybinding to a persistence callback.
func (m SummaryModel) WithDismiss(fn DismissFunc) SummaryModel {
	m.onDismiss = fn
	return m
}

func breakdownRows(result *engine.FootprintResult) []table.Row {
	rows := make([]table.Row, 0, len(domain.Categories())+1)
	for _, cat := range domain.Categories() {
		share := "-"
		if result.TotalKg > 0 {
			share = fmt.Sprintf("%.0f%%", result.Subtotal(cat)/result.TotalKg*100)
		}
		rows = append(rows, table.Row{cat.String(), tuiPrinter.Sprintf("%.1f", result.Subtotal(cat)), share})
	}
	rows = append(rows, table.Row{"total", tuiPrinter.Sprintf("%.1f", result.TotalKg), ""})
	return rows
}

func tipRows(result *engine.FootprintResult, tips []recommend.Tip) []table.Row {
	if len(tips) == 0 {
		return []table.Row{{"No tips apply to this footprint", "", ""}}
	}
	rows := make([]table.Row, 0, len(tips))
	for _, tip := range tips {
		impact := recommend.EstimateImpact(result, tip)
		rows = append(rows, table.Row{
			tip.Title,
			tip.Category.String(),
			tuiPrinter.Sprintf("%.1f kg", impact.PotentialReductionKg),
		})
	}
	return rows
}

// Init implements tea.Model.
func (m SummaryModel) Init() tea.Cmd { return nil }

// Update implements tea.Model.
func (m SummaryModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Tab):
			if m.active == paneBreakdown {
				m.active = paneTips
				m.breakdown.Blur()
				m.tipTable.Focus()
			} else {
				m.active = paneBreakdown
				m.tipTable.Blur()
				m.breakdown.Focus()
			}
			return m, nil
		case key.Matches(msg, m.keys.Dismiss):
			return m.dismissSelected(), nil
		}
	case tea.WindowSizeMsg:
		m.help.Width = msg.Width
	}

	var cmd tea.Cmd
	if m.active == paneBreakdown {
		m.breakdown, cmd = m.breakdown.Update(msg)
	} else {
		m.tipTable, cmd = m.tipTable.Update(msg)
	}
	return m, cmd
}

// View implements tea.Model.
func (m SummaryModel) View() string {
	title := tuiTitleStyle.Render(fmt.Sprintf("Footprint for %q, %s", m.household.Name, m.result.Period))

	detail := tuiDetailStyle.Render(fmt.Sprintf(
		"Per person: %s kg across %d member(s)  ·  %.0f%% of national, %.0f%% of global average",
		tuiPrinter.Sprintf("%.1f", m.result.PerCapitaKg), m.result.EffectiveMembers,
		m.result.Reference.PctOfNational, m.result.Reference.PctOfGlobal,
	))

	panes := lipgloss.JoinHorizontal(lipgloss.Top,
		tuiBorderStyle.Render(m.breakdown.View()),
		tuiBorderStyle.Render(m.tipTable.View()),
	)

	foot := m.help.View(m.keys)
	if guidance := m.selectedGuidance(); guidance != "" {
		foot = tuiFootStyle.Render(guidance) + "\n" + foot
	}
	if m.status != "" {
		foot = tuiFootStyle.Render(m.status) + "\n" + foot
	}

	return lipgloss.JoinVertical(lipgloss.Left, title, detail, panes, foot)
}

// dismissSelected dismisses the highlighted tip and drops it from the pane.
func (m SummaryModel) dismissSelected() SummaryModel {
	if m.active != paneTips || len(m.tips) == 0 {
		return m
	}
	idx := m.tipTable.Cursor()
	if idx < 0 || idx >= len(m.tips) {
		return m
	}
	tip := m.tips[idx]
	if m.onDismiss != nil {
		if err := m.onDismiss(tip.ID); err != nil {
			m.status = "dismiss failed: " + err.Error()
			return m
		}
	}
	m.tips = append(m.tips[:idx:idx], m.tips[idx+1:]...)
	m.tipTable.SetRows(tipRows(m.result, m.tips))
	if idx >= len(m.tips) && idx > 0 {
		m.tipTable.SetCursor(idx - 1)
	}
	m.status = fmt.Sprintf("dismissed %q", tip.ID)
	return m
}

// selectedGuidance returns the guidance text of the highlighted tip when the
// tips pane is active.
func (m SummaryModel) selectedGuidance() string {
	if m.active != paneTips || len(m.tips) == 0 {
		return ""
	}
	idx := m.tipTable.Cursor()
	if idx < 0 || idx >= len(m.tips) {
		return ""
	}
	return m.tips[idx].Guidance
}
