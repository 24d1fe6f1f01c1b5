package gemini

import (
	"fmt"
	"strings"

	"github.com/slotsmith/slotsmith/pkg/schedule"
)

// BriefingPrompt renders a finished ranking into the prompt sent to the
// model. Only the top few candidates are included; the model sees scores and
// reasoning, never raw calendars.
func BriefingPrompt(candidates []schedule.Candidate, negotiationRounds, participantCount int) string {
	var sb strings.Builder
	sb.WriteString("You are briefing a team assistant on proposed meeting times.\n")
	fmt.Fprintf(&sb, "Participants: %d. Negotiation rounds used: %d.\n\n", participantCount, negotiationRounds)
	sb.WriteString("Ranked candidates:\n")

	limit := len(candidates)
	if limit > 5 {
		limit = 5
	}
	for i := 0; i < limit; i++ {
		cand := candidates[i]
		fmt.Fprintf(&sb, "%d. %s - %s (score %.1f): %s\n",
			i+1,
			cand.Slot.Start.UTC().Format("Mon Jan 2 15:04"),
			cand.Slot.End.UTC().Format("15:04 MST"),
			cand.Score,
			cand.Reasoning)
	}
	if len(candidates) == 0 {
		sb.WriteString("(none - no feasible slot was found)\n")
	}

	sb.WriteString("\nWrite a concise briefing: which slot to book, why, and any risks.")
	return sb.String()
}
