package cli

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/charmbracelet/lipgloss"

	"github.com/rgoulet/carbonledger/internal/domain"
	"github.com/rgoulet/carbonledger/internal/engine"
)

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10"))  //nolint:gochecknoglobals
	headerStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("14"))  //nolint:gochecknoglobals
	dimStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))              //nolint:gochecknoglobals
	increaseStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))              //nolint:gochecknoglobals
	decreaseStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))             //nolint:gochecknoglobals
	warnStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true)  //nolint:gochecknoglobals
	barStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))             //nolint:gochecknoglobals
)

const barWidth = 24

// renderSummaryPlain writes the footprint breakdown as a plain table for
// non-terminal output.
func renderSummaryPlain(out io.Writer, household domain.Household, result *engine.FootprintResult) error {
	fmt.Fprintf(out, "Footprint for %q, %s (factor table %s)\n\n", household.Name, result.Period, result.FactorVersion)

	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "CATEGORY\tKG CO2E\tSHARE\tVS PRIOR")
	for _, cat := range domain.Categories() {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
			cat, formatKg(result.Subtotal(cat)), formatShare(result, cat), categoryDelta(result, cat))
	}
	fmt.Fprintf(w, "total\t%s\t\t%s\n", formatKg(result.TotalKg), totalDelta(result))
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Fprintf(out, "\nPer person: %s kg CO2e across %d member(s)\n", formatKg(result.PerCapitaKg), result.EffectiveMembers)
	fmt.Fprintf(out, "Versus averages: %.0f%% of national, %.0f%% of global\n",
		result.Reference.PctOfNational, result.Reference.PctOfGlobal)

	for _, issue := range result.Invalid {
		fmt.Fprintf(out, "skipped record %s: %s\n", issue.RecordID, issue.Reason)
	}
	for _, u := range result.Unresolved {
		fmt.Fprintf(out, "unresolved record %s (%s): %s\n", u.RecordID, u.Subtype, u.Reason)
	}
	if result.HasWarning(engine.WarningMemberCountDefaulted) {
		fmt.Fprintln(out, "warning: household has no members recorded; per-person figures assume one")
	}
	return nil
}

// renderSummaryStyled renders the breakdown with color and share bars for
// terminal output.
func renderSummaryStyled(household domain.Household, result *engine.FootprintResult) string {
	var b strings.Builder

	b.WriteString(titleStyle.Render(fmt.Sprintf("Footprint for %q, %s", household.Name, result.Period)))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("factor table "+result.FactorVersion) + "\n\n")

	b.WriteString(headerStyle.Render(fmt.Sprintf("%-16s %12s  %-*s %9s", "CATEGORY", "KG CO2E", barWidth, "SHARE", "VS PRIOR")))
	b.WriteString("\n")
	for _, cat := range domain.Categories() {
		b.WriteString(fmt.Sprintf("%-16s %12s  %-*s %9s\n",
			cat.String(), formatKg(result.Subtotal(cat)),
			barWidth, barStyle.Render(shareBar(result, cat)),
			styledDelta(categoryDelta(result, cat))))
	}
	b.WriteString(fmt.Sprintf("%-16s %12s  %-*s %9s\n",
		"total", formatKg(result.TotalKg), barWidth, "", styledDelta(totalDelta(result))))

	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("Per person: %s kg CO2e across %d member(s)\n", formatKg(result.PerCapitaKg), result.EffectiveMembers))
	b.WriteString(fmt.Sprintf("Versus averages: %.0f%% of national, %.0f%% of global\n",
		result.Reference.PctOfNational, result.Reference.PctOfGlobal))

	for _, issue := range result.Invalid {
		b.WriteString(warnStyle.Render(fmt.Sprintf("skipped record %s: %s", issue.RecordID, issue.Reason)) + "\n")
	}
	for _, u := range result.Unresolved {
		b.WriteString(warnStyle.Render(fmt.Sprintf("unresolved record %s (%s): %s", u.RecordID, u.Subtype, u.Reason)) + "\n")
	}
	if result.HasWarning(engine.WarningMemberCountDefaulted) {
		b.WriteString(warnStyle.Render("warning: household has no members recorded; per-person figures assume one") + "\n")
	}
	return b.String()
}

// formatShare renders a category's share of the total, or "-" when the total
// is zero.
func formatShare(result *engine.FootprintResult, cat domain.Category) string {
	if result.TotalKg <= 0 {
		return "-"
	}
	return fmt.Sprintf("%.0f%%", result.Subtotal(cat)/result.TotalKg*100)
}

// shareBar draws a proportional bar for the category's share of the total.
func shareBar(result *engine.FootprintResult, cat domain.Category) string {
	if result.TotalKg <= 0 {
		return ""
	}
	filled := int(result.Subtotal(cat) / result.TotalKg * barWidth)
	if filled > barWidth {
		filled = barWidth
	}
	return strings.Repeat("█", filled)
}

// categoryDelta renders the prior-period change for a category, or "n/a"
// when no prior result or prior subtotal exists.
func categoryDelta(result *engine.FootprintResult, cat domain.Category) string {
	if result.Deltas == nil {
		return "n/a"
	}
	pct, ok := result.Deltas.ByCategoryPct[cat]
	return formatPct(pct, ok)
}

func totalDelta(result *engine.FootprintResult) string {
	if result.Deltas == nil || result.Deltas.TotalPct == nil {
		return "n/a"
	}
	return formatPct(*result.Deltas.TotalPct, true)
}

// styledDelta colors a formatted delta: red for increases, green for
// reductions, dim for "n/a".
func styledDelta(delta string) string {
	switch {
	case delta == "n/a":
		return dimStyle.Render(delta)
	case strings.HasPrefix(delta, "+"):
		return increaseStyle.Render(delta)
	default:
		return decreaseStyle.Render(delta)
	}
}
