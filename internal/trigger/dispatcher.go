// StarSync - Automatic Plex Track Rating
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/starsync

// Package trigger turns external stimuli (console buttons, webhooks, the
// periodic timer) into sweep attempts.
//
// Dispatch never blocks its caller. Every attempt runs on its own goroutine
// and must win the Gate; an attempt that finds a sweep already running is
// logged and dropped, not queued.
package trigger

import (
	"context"
	"sync"
	"time"

	"github.com/tomtom215/starsync/internal/eventlog"
	"github.com/tomtom215/starsync/internal/logging"
	"github.com/tomtom215/starsync/internal/metrics"
	"github.com/tomtom215/starsync/internal/rating"
	"github.com/tomtom215/starsync/internal/settings"
	"github.com/tomtom215/starsync/internal/sweep"
)

// Reason identifies what caused a dispatch.
type Reason string

const (
	ReasonManualAll   Reason = "manual_all"
	ReasonManualBatch Reason = "manual_batch"
	ReasonWebhook     Reason = "webhook"
	ReasonPeriodic    Reason = "periodic"
	ReasonReset       Reason = "reset"
)

// rejectedMessage is logged when a trigger finds the gate held.
const rejectedMessage = "Batch already running, skipping this trigger."

// Runner performs sweeps and resets. *sweep.Runner satisfies it.
type Runner interface {
	Run(ctx context.Context, libraries []string, cfg rating.Config, limit *int) []sweep.LibraryResult
	Reset(ctx context.Context, libraries []string) []sweep.ResetResult
}

// SettingsSource provides the settings snapshot taken at dispatch time.
type SettingsSource interface {
	Current() settings.Settings
}

// Dispatcher launches sweeps behind a shared Gate.
type Dispatcher struct {
	gate      *Gate
	runner    Runner
	settings  SettingsSource
	events    *eventlog.Log
	batchSize int

	// ctx is the lifetime of dispatched work. Sweeps are never tied to the
	// context of the request that triggered them.
	ctx context.Context
	wg  sync.WaitGroup
}

// NewDispatcher creates a Dispatcher. batchSize bounds batch-style triggers
// (0 = unbounded).
func NewDispatcher(gate *Gate, runner Runner, source SettingsSource, events *eventlog.Log, batchSize int) *Dispatcher {
	return &Dispatcher{
		gate:      gate,
		runner:    runner,
		settings:  source,
		events:    events,
		batchSize: batchSize,
		ctx:       context.Background(),
	}
}

// Gate returns the dispatcher's gate.
func (d *Dispatcher) Gate() *Gate {
	return d.gate
}

// BatchSize returns the configured batch size (0 = unbounded).
func (d *Dispatcher) BatchSize() int {
	return d.batchSize
}

// BatchLimit returns the limit used by batch-style triggers.
func (d *Dispatcher) BatchLimit() *int {
	if d.batchSize <= 0 {
		return nil
	}
	limit := d.batchSize
	return &limit
}

// Dispatch starts a sweep attempt in the background and returns a channel
// that is closed when the attempt finishes, whether it ran or was rejected.
// Settings are captured now, so a settings change after Dispatch returns
// does not affect this attempt.
func (d *Dispatcher) Dispatch(reason Reason, limit *int) <-chan struct{} {
	snapshot := d.settings.Current()
	cfg := snapshot.RatingConfig()
	libraries := snapshot.Libraries

	return d.spawn(reason, func(ctx context.Context) {
		start := time.Now()
		results := d.runner.Run(ctx, libraries, cfg, limit)
		metrics.RecordSweep(string(reason), time.Since(start))

		total := sweep.Totals(results)
		logging.Ctx(ctx).Info().
			Str("trigger", string(reason)).
			Int("rated", total.Rated).
			Int("updated", total.Updated).
			Int("skipped", total.Skipped).
			Int("failed", total.Failed).
			Dur("duration", time.Since(start)).
			Msg("Sweep finished")
	})
}

// PeriodicTick dispatches a batch-limited periodic sweep. It has the shape
// of scheduler.TickFunc.
func (d *Dispatcher) PeriodicTick() <-chan struct{} {
	return d.Dispatch(ReasonPeriodic, d.BatchLimit())
}

// DispatchReset clears ratings on the selected libraries in the background,
// behind the same gate as sweeps.
func (d *Dispatcher) DispatchReset() <-chan struct{} {
	libraries := d.settings.Current().Libraries

	return d.spawn(ReasonReset, func(ctx context.Context) {
		start := time.Now()
		results := d.runner.Reset(ctx, libraries)
		metrics.RecordSweep(string(ReasonReset), time.Since(start))

		cleared := 0
		for _, r := range results {
			cleared += r.Cleared
		}
		logging.Ctx(ctx).Info().Int("cleared", cleared).Msg("Reset finished")
	})
}

func (d *Dispatcher) spawn(reason Reason, work func(ctx context.Context)) <-chan struct{} {
	done := make(chan struct{})
	ctx := logging.ContextWithNewCorrelationID(d.ctx)

	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		defer close(done)

		ran := d.gate.Do(func() {
			metrics.SetSweepInProgress(true)
			defer metrics.SetSweepInProgress(false)

			logging.Ctx(ctx).Info().Str("trigger", string(reason)).Msg("Sweep started")
			work(ctx)
		})
		if !ran {
			metrics.RecordSweepRejected(string(reason))
			d.events.Append(rejectedMessage)
			logging.Ctx(ctx).Debug().Str("trigger", string(reason)).Msg("Trigger rejected, sweep in progress")
		}
	}()
	return done
}

// Wait blocks until every dispatched attempt has finished or ctx is done.
func (d *Dispatcher) Wait(ctx context.Context) error {
	finished := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(finished)
	}()

	select {
	case <-finished:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
