package gemini

import (
	"strings"
	"testing"
	"time"

	"github.com/slotsmith/slotsmith/pkg/schedule"
)

func TestBriefingPrompt(t *testing.T) {
	start := time.Date(2026, 9, 7, 10, 0, 0, 0, time.UTC)
	candidates := []schedule.Candidate{
		{
			Slot:      schedule.TimeInterval{Start: start, End: start.Add(time.Hour), Timezone: "UTC"},
			Score:     87.5,
			Reasoning: "Excellent time slot.",
		},
	}
	prompt := BriefingPrompt(candidates, 2, 3)
	for _, want := range []string{"Participants: 3", "rounds used: 2", "score 87.5", "Mon Sep 7 10:00"} {
		if !strings.Contains(prompt, want) {
			t.Errorf("BriefingPrompt() missing %q in:\n%s", want, prompt)
		}
	}
}

func TestBriefingPromptEmpty(t *testing.T) {
	prompt := BriefingPrompt(nil, 3, 2)
	if !strings.Contains(prompt, "no feasible slot") {
		t.Errorf("BriefingPrompt() for empty ranking:\n%s", prompt)
	}
}

func TestBriefingPromptLimitsCandidates(t *testing.T) {
	start := time.Date(2026, 9, 7, 9, 0, 0, 0, time.UTC)
	var candidates []schedule.Candidate
	for i := 0; i < 8; i++ {
		s := start.Add(time.Duration(i) * time.Hour)
		candidates = append(candidates, schedule.Candidate{
			Slot:  schedule.TimeInterval{Start: s, End: s.Add(time.Hour)},
			Score: 90 - float64(i),
		})
	}
	prompt := BriefingPrompt(candidates, 0, 1)
	if strings.Contains(prompt, "\n6. ") {
		t.Error("BriefingPrompt() included more than five candidates")
	}
}
