// Package scheduling resolves recurring lesson patterns, one-off postponed
// lessons and session reports into upcoming occurrences and bookable
// free-time windows.
package scheduling

import (
	"time"

	"go.uber.org/zap"
)

const (
	dateLayout = "2006-01-02"
	week       = 7 * 24 * time.Hour
)

// Options tune an Engine. Zero values fall back to the defaults below.
type Options struct {
	Location       *time.Location
	LookaheadWeeks int
	MinSlotMinutes int
}

// Engine performs the resolution passes for a single civil timezone. It holds
// no mutable state and is safe for concurrent use.
type Engine struct {
	loc            *time.Location
	lookaheadWeeks int
	minSlotMinutes int
	logger         *zap.Logger
}

// NewEngine constructs an Engine.
func NewEngine(opts Options, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	loc := opts.Location
	if loc == nil {
		loc = time.UTC
	}
	weeks := opts.LookaheadWeeks
	if weeks <= 0 {
		weeks = 4
	}
	minSlot := opts.MinSlotMinutes
	if minSlot <= 0 {
		minSlot = 15
	}
	return &Engine{loc: loc, lookaheadWeeks: weeks, minSlotMinutes: minSlot, logger: logger}
}

// Location returns the civil timezone every comparison is made in.
func (e *Engine) Location() *time.Location { return e.loc }

// Horizon returns the lookahead window of the expander.
func (e *Engine) Horizon() time.Duration {
	return time.Duration(e.lookaheadWeeks) * week
}

// StartOfWeek returns Monday 00:00 of the week containing t, in loc.
func StartOfWeek(t time.Time, loc *time.Location) time.Time {
	local := t.In(loc)
	offset := (int(local.Weekday()) + 6) % 7
	return time.Date(local.Year(), local.Month(), local.Day()-offset, 0, 0, 0, 0, loc)
}

func (e *Engine) parseDate(raw string) (time.Time, error) {
	return time.ParseInLocation(dateLayout, raw, e.loc)
}
