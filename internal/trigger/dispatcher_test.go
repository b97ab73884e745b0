// StarSync - Automatic Plex Track Rating
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/starsync

package trigger

import (
	"context"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/tomtom215/starsync/internal/eventlog"
	"github.com/tomtom215/starsync/internal/logging"
	"github.com/tomtom215/starsync/internal/rating"
	"github.com/tomtom215/starsync/internal/settings"
	"github.com/tomtom215/starsync/internal/sweep"
)

func init() {
	logging.Init(logging.Config{Level: "error", Output: io.Discard})
}

type runCall struct {
	libraries []string
	cfg       rating.Config
	limit     *int
}

// blockingRunner records calls and blocks each run until released.
type blockingRunner struct {
	mu      sync.Mutex
	calls   []runCall
	resets  int
	started chan struct{}
	release chan struct{}
}

func newBlockingRunner() *blockingRunner {
	return &blockingRunner{
		started: make(chan struct{}, 16),
		release: make(chan struct{}),
	}
}

func (r *blockingRunner) Run(_ context.Context, libraries []string, cfg rating.Config, limit *int) []sweep.LibraryResult {
	r.mu.Lock()
	r.calls = append(r.calls, runCall{libraries: libraries, cfg: cfg, limit: limit})
	r.mu.Unlock()
	r.started <- struct{}{}
	<-r.release
	return []sweep.LibraryResult{{Library: "Music", Rated: 1}}
}

func (r *blockingRunner) Reset(_ context.Context, _ []string) []sweep.ResetResult {
	r.mu.Lock()
	r.resets++
	r.mu.Unlock()
	r.started <- struct{}{}
	<-r.release
	return []sweep.ResetResult{{Library: "Music", Cleared: 2}}
}

func (r *blockingRunner) callCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.calls)
}

type staticSettings struct {
	mu sync.Mutex
	s  settings.Settings
}

func (s *staticSettings) Current() settings.Settings {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.s.Clone()
}

func (s *staticSettings) set(v settings.Settings) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.s = v
}

func newTestDispatcher(batchSize int) (*Dispatcher, *blockingRunner, *staticSettings, *eventlog.Log) {
	runner := newBlockingRunner()
	source := &staticSettings{s: settings.Settings{
		Libraries:   []string{"Music"},
		RatingStyle: "5stars",
		RatingValue: 4,
	}}
	events := eventlog.New(eventlog.Config{})
	return NewDispatcher(&Gate{}, runner, source, events, batchSize), runner, source, events
}

func waitStarted(t *testing.T, r *blockingRunner) {
	t.Helper()
	select {
	case <-r.started:
	case <-time.After(2 * time.Second):
		t.Fatal("runner did not start")
	}
}

func waitDone(t *testing.T, done <-chan struct{}) {
	t.Helper()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("dispatch did not finish")
	}
}

func TestDispatch_DoesNotBlockCaller(t *testing.T) {
	t.Parallel()

	d, runner, _, _ := newTestDispatcher(0)

	returned := make(chan struct{})
	var done <-chan struct{}
	go func() {
		done = d.Dispatch(ReasonManualAll, nil)
		close(returned)
	}()

	select {
	case <-returned:
	case <-time.After(time.Second):
		t.Fatal("Dispatch blocked while sweep was running")
	}

	waitStarted(t, runner)
	if !d.Gate().Held() {
		t.Error("Expected gate held during sweep")
	}
	close(runner.release)
	waitDone(t, done)

	if d.Gate().Held() {
		t.Error("Expected gate released after sweep")
	}
}

func TestDispatch_RejectsWhileRunning(t *testing.T) {
	t.Parallel()

	d, runner, _, events := newTestDispatcher(0)

	first := d.Dispatch(ReasonManualAll, nil)
	waitStarted(t, runner)

	second := d.Dispatch(ReasonWebhook, nil)
	waitDone(t, second)

	lines := events.Snapshot()
	if len(lines) != 1 || !strings.HasSuffix(lines[0], " - Batch already running, skipping this trigger.") {
		t.Errorf("Expected rejection line, got %v", lines)
	}

	close(runner.release)
	waitDone(t, first)

	if runner.callCount() != 1 {
		t.Errorf("Expected exactly one sweep, got %d", runner.callCount())
	}
}

func TestDispatch_SnapshotsSettingsAtDispatch(t *testing.T) {
	t.Parallel()

	d, runner, source, _ := newTestDispatcher(0)
	close(runner.release)

	done := d.Dispatch(ReasonManualAll, nil)
	source.set(settings.Settings{Libraries: []string{"Jazz"}, RatingStyle: "1star", RatingValue: 1})
	waitDone(t, done)

	runner.mu.Lock()
	call := runner.calls[0]
	runner.mu.Unlock()
	if call.libraries[0] != "Music" || call.cfg.Style != rating.StyleFiveStars || call.cfg.Value != 4 {
		t.Errorf("Expected settings captured at dispatch, got %+v", call)
	}
}

func TestDispatch_PassesLimit(t *testing.T) {
	t.Parallel()

	d, runner, _, _ := newTestDispatcher(25)
	close(runner.release)

	waitDone(t, d.Dispatch(ReasonManualBatch, d.BatchLimit()))
	waitDone(t, d.Dispatch(ReasonManualAll, nil))

	runner.mu.Lock()
	defer runner.mu.Unlock()
	if runner.calls[0].limit == nil || *runner.calls[0].limit != 25 {
		t.Errorf("Expected batch limit 25, got %v", runner.calls[0].limit)
	}
	if runner.calls[1].limit != nil {
		t.Errorf("Expected unbounded limit, got %d", *runner.calls[1].limit)
	}
}

func TestBatchLimit(t *testing.T) {
	t.Parallel()

	d, _, _, _ := newTestDispatcher(0)
	if d.BatchLimit() != nil {
		t.Error("Expected nil limit for batch size 0")
	}

	d, _, _, _ = newTestDispatcher(10)
	if l := d.BatchLimit(); l == nil || *l != 10 {
		t.Errorf("Expected limit 10, got %v", l)
	}
	if d.BatchSize() != 10 {
		t.Errorf("Expected batch size 10, got %d", d.BatchSize())
	}
}

func TestDispatchReset_SharesGate(t *testing.T) {
	t.Parallel()

	d, runner, _, events := newTestDispatcher(0)

	reset := d.DispatchReset()
	waitStarted(t, runner)

	sweepAttempt := d.Dispatch(ReasonPeriodic, nil)
	waitDone(t, sweepAttempt)

	close(runner.release)
	waitDone(t, reset)

	if runner.callCount() != 0 {
		t.Errorf("Expected sweep to be rejected during reset, got %d runs", runner.callCount())
	}
	if !strings.HasSuffix(events.Snapshot()[0], rejectedMessage) {
		t.Errorf("Expected rejection line, got %v", events.Snapshot())
	}
}

func TestWait(t *testing.T) {
	t.Parallel()

	d, runner, _, _ := newTestDispatcher(0)
	d.Dispatch(ReasonManualAll, nil)
	waitStarted(t, runner)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if err := d.Wait(ctx); err == nil {
		t.Error("Expected Wait to time out while sweep runs")
	}

	close(runner.release)
	if err := d.Wait(context.Background()); err != nil {
		t.Errorf("Expected Wait to succeed, got %v", err)
	}
}

func TestPeriodicTick_UsesBatchLimit(t *testing.T) {
	t.Parallel()

	d, runner, _, _ := newTestDispatcher(7)
	close(runner.release)
	waitDone(t, d.PeriodicTick())

	runner.mu.Lock()
	defer runner.mu.Unlock()
	if len(runner.calls) != 1 || runner.calls[0].limit == nil || *runner.calls[0].limit != 7 {
		t.Errorf("Expected one periodic sweep with limit 7, got %+v", runner.calls)
	}
}
