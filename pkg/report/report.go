// Package report renders a ranked candidate list as a colorized terminal
// report.
package report

import (
	"fmt"
	"strings"

	"github.com/fatih/color"

	"github.com/slotsmith/slotsmith/pkg/schedule"
	"github.com/slotsmith/slotsmith/pkg/slotsmith"
)

// scoreColor maps a score band to a terminal color.
func scoreColor(score float64) *color.Color {
	switch {
	case score >= 85:
		return color.New(color.FgGreen)
	case score >= 70:
		return color.New(color.FgCyan)
	case score >= 55:
		return color.New(color.FgYellow)
	case score >= 40:
		return color.New(color.FgMagenta)
	default:
		return color.New(color.FgRed)
	}
}

// Render formats the response as a terminal report. With verbose set, each
// candidate's factor breakdown is included.
func Render(resp *slotsmith.Response, verbose bool) string {
	var sb strings.Builder

	sb.WriteString("\n📅 Proposed meeting times\n")
	sb.WriteString(strings.Repeat("─", 50) + "\n")

	if len(resp.Candidates) == 0 {
		sb.WriteString("No feasible slots found.\n")
		if resp.Message != "" {
			sb.WriteString(resp.Message + "\n")
		}
		return sb.String()
	}

	for i, cand := range resp.Candidates {
		c := scoreColor(cand.Score)
		fmt.Fprintf(&sb, "%2d. %s  %s\n",
			i+1,
			formatSlot(cand.Slot),
			c.Sprintf("%.1f", cand.Score))
		fmt.Fprintf(&sb, "    %s\n", cand.Reasoning)
		if len(cand.Conflicts) > 0 {
			fmt.Fprintf(&sb, "    Conflicts: %s\n", strings.Join(cand.Conflicts, ", "))
		}
		if verbose {
			writeBreakdown(&sb, &cand.Breakdown)
		}
	}

	fmt.Fprintf(&sb, "\nNegotiation rounds: %d  Generated slots: %d\n",
		resp.NegotiationRounds, resp.GeneratedSlots)
	if resp.Analytics.TimeSavings.SavedMinutes > 0 {
		fmt.Fprintf(&sb, "Estimated coordination time saved: %.0f minutes\n",
			resp.Analytics.TimeSavings.SavedMinutes)
	}
	if resp.Degraded {
		sb.WriteString("Note: partial result, the deadline expired before negotiation.\n")
	}
	return sb.String()
}

func formatSlot(slot schedule.TimeInterval) string {
	return fmt.Sprintf("%s - %s",
		slot.Start.UTC().Format("Mon Jan 02 15:04"),
		slot.End.UTC().Format("15:04 MST"))
}

func writeBreakdown(sb *strings.Builder, b *schedule.ScoreBreakdown) {
	fmt.Fprintf(sb, "    availability=%.2f preference=%.2f proximity=%.2f fragmentation=%.2f optimization=%.2f\n",
		b.Availability, b.Preference, b.ConflictProximity, b.Fragmentation, b.Optimization)
	fmt.Fprintf(sb, "    required %d/%d available, optional %d/%d",
		b.AvailabilityInfo.RequiredAvailable, b.AvailabilityInfo.RequiredTotal,
		b.AvailabilityInfo.OptionalAvailable, b.AvailabilityInfo.OptionalTotal)
	if b.ProximityInfo.MinGapMinutes >= 0 {
		fmt.Fprintf(sb, ", min gap %.0fmin", b.ProximityInfo.MinGapMinutes)
	}
	if b.FragmentationInfo.GapBonus > 0 {
		fmt.Fprintf(sb, ", gap bonus +%.1f", b.FragmentationInfo.GapBonus)
	}
	sb.WriteString("\n")
}
