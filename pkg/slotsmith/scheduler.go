// Package slotsmith proposes ranked meeting times for a group of
// participants. It wires the candidate generator, availability evaluator,
// preference scorer, ranking engine, and negotiation engine into one
// pipeline behind a single Scheduler type.
package slotsmith

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/slotsmith/slotsmith/pkg/availability"
	"github.com/slotsmith/slotsmith/pkg/generator"
	"github.com/slotsmith/slotsmith/pkg/negotiate"
	"github.com/slotsmith/slotsmith/pkg/preference"
	"github.com/slotsmith/slotsmith/pkg/ranking"
	"github.com/slotsmith/slotsmith/pkg/schedule"
)

// Scheduler runs scheduling requests. It holds no per-request state and is
// safe for concurrent use.
type Scheduler struct {
	logger *slog.Logger
	now    func() time.Time
}

// New creates a Scheduler.
func New(opts ...Option) *Scheduler {
	holder := &OptionHolder{}
	for _, opt := range opts {
		opt(holder)
	}
	if holder.logger == nil {
		holder.logger = slog.New(slog.DiscardHandler)
	}
	if holder.now == nil {
		holder.now = time.Now
	}
	return &Scheduler{logger: holder.logger, now: holder.now}
}

// Schedule runs the full pipeline for one request. Validation failures are
// the only error case; an empty candidate list is a valid response. When the
// context deadline expires after ranking has completed, whatever has been
// ranked so far is returned as a degraded response.
func (s *Scheduler) Schedule(ctx context.Context, req *Request) (*Response, error) {
	now := req.RequestedAt
	if now.IsZero() {
		now = s.now()
	}
	now = now.UTC()

	c := req.Constraints
	c.ApplyDefaults()
	for i := range req.Participants {
		req.Participants[i].Normalize()
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("invalid constraints: %w", err)
	}

	s.logger.Info("scheduling request",
		"participants", len(req.Participants),
		"category", c.Category,
		"duration_minutes", c.DurationMinutes,
		"window", fmt.Sprintf("%s..%s", c.EarliestDate.Format("2006-01-02"), c.LatestDate.Format("2006-01-02")))

	slots := generator.Generate(&c, s.logger)
	open := availability.Filter(req.Participants, slots, c.BufferMinutes, s.logger)
	ranked := ranking.Rank(open, req.Participants, &c, now, s.logger)

	if err := ctx.Err(); err != nil {
		s.logger.Warn("deadline hit after ranking, returning partial result", "error", err)
		return s.respond(ranked, 0, len(slots), req.Participants, true), nil
	}

	final, rounds := negotiate.Negotiate(ranked, req.Participants, &c, now, s.logger)
	return s.respond(final, rounds, len(slots), req.Participants, false), nil
}

func (s *Scheduler) respond(candidates []schedule.Candidate, rounds, generated int, participants []schedule.Participant, degraded bool) *Response {
	resp := &Response{
		Candidates:        candidates,
		NegotiationRounds: rounds,
		GeneratedSlots:    generated,
		Degraded:          degraded,
		Analytics: Analytics{
			TimeSavings:      ranking.EstimateTimeSavings(candidates, len(participants)),
			Conflicts:        negotiate.AnalyzeConflicts(candidates, participants),
			GroupPreferences: preference.AnalyzeGroup(participants),
		},
	}
	if len(candidates) == 0 {
		resp.Message = "no feasible time slots found, even after relaxing constraints"
	}
	return resp
}
