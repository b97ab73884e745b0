// StarSync - Automatic Plex Track Rating
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/starsync

// Package scheduler runs the periodic batch trigger.
//
// The scheduler waits N minutes, fires the tick function, waits for that
// attempt to finish, and starts waiting again. The interval can be changed
// at any time; changing it stops and joins the current loop before a new one
// is started, so there is never more than one loop.
package scheduler

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"

	"github.com/tomtom215/starsync/internal/eventlog"
	"github.com/tomtom215/starsync/internal/logging"
	"github.com/tomtom215/starsync/internal/metrics"
)

// ErrNegativeInterval is returned by Start for intervals below zero.
var ErrNegativeInterval = errors.New("batch interval must be >= 0")

// TickFunc starts one periodic attempt and returns a channel closed when the
// attempt is over.
type TickFunc func() <-chan struct{}

// Journal receives the human-readable scheduler lines.
type Journal interface {
	Appendf(format string, args ...interface{}) eventlog.Entry
}

// Config holds scheduler configuration.
type Config struct {
	// Clock drives the interval timer. Default: real clock.
	Clock clockwork.Clock

	// Unit is the length of one interval step. Default: time.Minute.
	Unit time.Duration
}

// State is a point-in-time view of the scheduler.
type State struct {
	IntervalMinutes int  `json:"interval_minutes"`
	Running         bool `json:"running"`
	StopRequested   bool `json:"stop_requested"`
}

// Scheduler owns the single periodic loop.
type Scheduler struct {
	clock   clockwork.Clock
	unit    time.Duration
	tick    TickFunc
	journal Journal
	logger  zerolog.Logger

	mu            sync.Mutex
	ctx           context.Context // nil until Activate
	interval      int
	stopRequested bool
	stopCh        chan struct{}
	doneCh        chan struct{}
}

// New creates a scheduler. It does nothing until Activate is called.
func New(cfg Config, tick TickFunc, journal Journal) *Scheduler {
	if cfg.Clock == nil {
		cfg.Clock = clockwork.NewRealClock()
	}
	if cfg.Unit <= 0 {
		cfg.Unit = time.Minute
	}
	return &Scheduler{
		clock:   cfg.Clock,
		unit:    cfg.Unit,
		tick:    tick,
		journal: journal,
		logger:  logging.WithComponent("scheduler"),
	}
}

// Activate binds the scheduler to ctx and starts the loop with the interval
// last passed to Start. When ctx is canceled the loop exits.
func (s *Scheduler) Activate(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.stopLocked()
	s.ctx = ctx
	s.startLocked()
}

// Start (re)starts the loop with a new interval. An interval of 0 disables
// the periodic trigger. Before Activate the interval is only recorded.
func (s *Scheduler) Start(intervalMinutes int) error {
	if intervalMinutes < 0 {
		return ErrNegativeInterval
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.stopLocked()
	s.interval = intervalMinutes
	metrics.SchedulerIntervalMinutes.Set(float64(intervalMinutes))
	if s.ctx == nil {
		return nil
	}
	s.startLocked()
	return nil
}

// Stop requests the loop to exit and waits for it.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopLocked()
}

// State reports the current scheduler state.
func (s *Scheduler) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()

	return State{
		IntervalMinutes: s.interval,
		Running:         s.runningLocked(),
		StopRequested:   s.stopRequested,
	}
}

func (s *Scheduler) runningLocked() bool {
	if s.doneCh == nil {
		return false
	}
	select {
	case <-s.doneCh:
		return false
	default:
		return true
	}
}

// startLocked must be called with mu held and no loop running.
func (s *Scheduler) startLocked() {
	if s.interval == 0 {
		s.journal.Appendf("Periodic batch trigger disabled (interval is 0 minutes)")
		s.logger.Info().Msg("Periodic trigger disabled")
		return
	}

	s.stopRequested = false
	s.stopCh = make(chan struct{})
	s.doneCh = make(chan struct{})
	go s.loop(s.ctx, s.stopCh, s.doneCh, time.Duration(s.interval)*s.unit)

	s.journal.Appendf("Periodic batch trigger started, interval: %d minutes", s.interval)
	s.logger.Info().Int("interval_minutes", s.interval).Msg("Periodic trigger started")
}

// stopLocked must be called with mu held. The loop never takes mu, so
// joining here cannot deadlock.
func (s *Scheduler) stopLocked() {
	if s.stopCh == nil {
		return
	}
	s.stopRequested = true
	close(s.stopCh)
	<-s.doneCh
	s.stopCh = nil
	s.doneCh = nil
}

func (s *Scheduler) loop(ctx context.Context, stop <-chan struct{}, done chan<- struct{}, interval time.Duration) {
	defer close(done)

	for {
		timer := s.clock.NewTimer(interval)
		select {
		case <-stop:
			timer.Stop()
			return
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.Chan():
		}

		metrics.SchedulerTicks.Inc()
		s.journal.Appendf("Periodic batch trigger started")

		select {
		case <-s.tick():
		case <-stop:
			return
		case <-ctx.Done():
			return
		}

		s.journal.Appendf("Periodic batch trigger finished")
	}
}
