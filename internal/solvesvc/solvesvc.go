// Package solvesvc wires the reverser pipeline to persistence and
// notifications: Service.Solve runs a transcript through
// reverser.Reverser, records the run and its surviving candidates in
// a store.Database, and fires a notification depending on whether
// anything survived.
package solvesvc

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"regen/internal/lcg"
	"regen/internal/logger"
	"regen/internal/notify"
	"regen/internal/rational"
	"regen/internal/reverser"
	"regen/internal/store"
)

// Service coordinates a solve request end to end.
type Service struct {
	db      store.Database
	notify  *notify.Notifier
	log     *logger.Logger
	workers int
	delta   rational.Value
}

// New constructs a Service. workers bounds the enumerator's
// concurrency for every Solve call; deltaNum/deltaDen form the LLL
// quality parameter every lattice is reduced with, as an exact
// integer ratio (the conventional choice is 99/100).
func New(db store.Database, n *notify.Notifier, log *logger.Logger, workers int, deltaNum, deltaDen int64) *Service {
	if workers < 1 {
		workers = 1
	}
	delta := reverser.DefaultDelta
	if deltaNum > 0 && deltaDen > 0 {
		delta = rational.New(deltaNum, deltaDen)
	}
	return &Service{db: db, notify: n, log: log, workers: workers, delta: delta}
}

// Request describes one transcript to solve.
type Request struct {
	Label string
	LCG   lcg.LCG
	Build func(*reverser.Reverser)
}

// Result is the outcome of a Solve call.
type Result struct {
	RunID      int64
	Candidates []int64
	Duration   time.Duration
}

// Solve runs req's transcript through the reverser pipeline, persists
// the outcome, and notifies according to whether any candidate
// survived validation.
func (s *Service) Solve(ctx context.Context, req Request) (*Result, error) {
	rv := reverser.New().SetDelta(s.delta)
	req.Build(rv)

	start := time.Now()
	candidates, err := rv.Solve(ctx, req.LCG, s.workers)
	duration := time.Since(start)
	if err != nil {
		s.log.Error("solve %q failed: %v", req.Label, err)
		return nil, fmt.Errorf("solvesvc: %w", err)
	}

	seeds := make([]string, len(candidates))
	for i, c := range candidates {
		seeds[i] = strconv.FormatInt(c, 10)
	}

	run := &store.Run{
		Label:      req.Label,
		Multiplier: req.LCG.Multiplier.String(),
		Increment:  req.LCG.Increment.String(),
		Modulus:    req.LCG.Modulus.String(),
		DurationMs: duration.Milliseconds(),
	}

	id, err := s.db.SaveRun(ctx, run, seeds)
	if err != nil {
		s.log.Warn("failed to persist solve run %q: %v", req.Label, err)
	}

	if len(seeds) > 0 {
		s.log.Info("solve %q recovered %d candidate(s) in %s", req.Label, len(seeds), duration)
		if err := s.notify.NotifySeedsFound(req.Label, seeds); err != nil {
			s.log.Warn("notification failed: %v", err)
		}
	} else {
		s.log.Info("solve %q found no surviving candidates in %s", req.Label, duration)
		if err := s.notify.NotifySolveExhausted(req.Label, 0); err != nil {
			s.log.Warn("notification failed: %v", err)
		}
	}

	return &Result{RunID: id, Candidates: candidates, Duration: duration}, nil
}
