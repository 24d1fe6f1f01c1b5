package report

import (
	"strings"
	"testing"
	"time"

	"github.com/slotsmith/slotsmith/pkg/schedule"
	"github.com/slotsmith/slotsmith/pkg/slotsmith"
)

func sampleResponse() *slotsmith.Response {
	start := time.Date(2026, 9, 7, 10, 0, 0, 0, time.UTC)
	return &slotsmith.Response{
		Candidates: []schedule.Candidate{
			{
				Slot:      schedule.TimeInterval{Start: start, End: start.Add(time.Hour), Timezone: "UTC"},
				Score:     87.5,
				Reasoning: "Excellent time slot. All required participants are available.",
			},
		},
		NegotiationRounds: 2,
		GeneratedSlots:    24,
	}
}

func TestRender(t *testing.T) {
	out := Render(sampleResponse(), false)
	for _, want := range []string{"87.5", "Mon Sep 07 10:00", "Negotiation rounds: 2"} {
		if !strings.Contains(out, want) {
			t.Errorf("Render() missing %q in:\n%s", want, out)
		}
	}
}

func TestRenderVerboseIncludesBreakdown(t *testing.T) {
	out := Render(sampleResponse(), true)
	if !strings.Contains(out, "availability=") {
		t.Errorf("verbose Render() missing factor breakdown:\n%s", out)
	}
}

func TestRenderEmpty(t *testing.T) {
	resp := &slotsmith.Response{Message: "no feasible time slots found"}
	out := Render(resp, false)
	if !strings.Contains(out, "No feasible slots") {
		t.Errorf("Render() of empty response = %s", out)
	}
}
