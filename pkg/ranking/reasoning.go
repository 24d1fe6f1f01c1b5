package ranking

import (
	"fmt"
	"strings"

	"github.com/slotsmith/slotsmith/pkg/schedule"
)

// overallBand maps a final score to a qualitative label.
func overallBand(score float64) string {
	switch {
	case score >= 85:
		return "Excellent"
	case score >= 70:
		return "Strong"
	case score >= 55:
		return "Good"
	case score >= 40:
		return "Acceptable"
	default:
		return "Suboptimal"
	}
}

// reasoning builds the human-readable explanation for a candidate. It is
// informational only; nothing downstream parses it.
func reasoning(score float64, b *schedule.ScoreBreakdown) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s time slot.", overallBand(score))

	if b.AvailabilityInfo.AllRequiredAvailable {
		sb.WriteString(" All required participants are available.")
	} else {
		fmt.Fprintf(&sb, " Only %d of %d required participants are available.",
			b.AvailabilityInfo.RequiredAvailable, b.AvailabilityInfo.RequiredTotal)
	}

	switch {
	case b.Preference >= 0.70:
		sb.WriteString(" Aligns well with participant preferences.")
	case b.Preference < 0.45:
		sb.WriteString(" Conflicts with some participant preferences.")
	}

	switch {
	case b.ConflictProximity >= 0.95:
		sb.WriteString(" Clear of nearby meetings.")
	case b.ConflictProximity <= 0.35:
		sb.WriteString(" Tightly packed against existing meetings.")
	}

	if b.Fragmentation >= 0.75 {
		sb.WriteString(" Groups nicely with existing meetings.")
	}
	if b.FragmentationInfo.GapBonus > 0 {
		sb.WriteString(" Fills a gap in the day.")
	}
	return sb.String()
}
