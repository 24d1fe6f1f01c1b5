package slotsmith

import (
	"log/slog"
	"time"

	"github.com/slotsmith/slotsmith/pkg/negotiate"
	"github.com/slotsmith/slotsmith/pkg/preference"
	"github.com/slotsmith/slotsmith/pkg/ranking"
	"github.com/slotsmith/slotsmith/pkg/schedule"
)

// Option configures a Scheduler.
type Option func(*OptionHolder)

// OptionHolder holds configuration options.
type OptionHolder struct {
	logger *slog.Logger
	now    func() time.Time
}

// WithLogger sets the logger used by the scheduler and every engine it runs.
func WithLogger(logger *slog.Logger) Option {
	return func(o *OptionHolder) {
		o.logger = logger
	}
}

// WithClock overrides the scheduler's time source. Tests use this to pin
// the recency signal.
func WithClock(now func() time.Time) Option {
	return func(o *OptionHolder) {
		o.now = now
	}
}

// Request is one scheduling request: who must meet, under what constraints.
// RequestedAt anchors the recency scoring signal; when zero it is filled
// from the scheduler's clock.
type Request struct {
	Participants []schedule.Participant `json:"participants"`
	Constraints  schedule.Constraints   `json:"constraints"`
	RequestedAt  time.Time              `json:"requested_at,omitempty"`
	Description  string                 `json:"description,omitempty"`
}

// Analytics aggregates reporting computed over the final candidate list.
type Analytics struct {
	TimeSavings      ranking.TimeSavings        `json:"time_savings"`
	Conflicts        negotiate.ConflictAnalysis `json:"conflicts"`
	GroupPreferences preference.GroupSummary    `json:"group_preferences"`
}

// Response is the outcome of one scheduling request.
type Response struct {
	Candidates        []schedule.Candidate `json:"candidates"`
	NegotiationRounds int                  `json:"negotiation_rounds"`
	GeneratedSlots    int                  `json:"generated_slots"`
	Analytics         Analytics            `json:"analytics"`
	Degraded          bool                 `json:"degraded,omitempty"`
	Message           string               `json:"message,omitempty"`
}
