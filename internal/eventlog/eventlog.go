// StarSync - Automatic Plex Track Rating
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/starsync

// Package eventlog holds the human-readable activity log shown in the
// console: a bounded ring of recent lines plus live fan-out to any number of
// subscribers (SSE and WebSocket clients).
//
// Each subscriber owns a bounded queue. A subscriber that falls behind loses
// its oldest pending lines rather than slowing down Append or other
// subscribers; the loss is counted per subscription and in
// starsync_eventlog_dropped_lines_total.
package eventlog

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"

	"github.com/tomtom215/starsync/internal/logging"
	"github.com/tomtom215/starsync/internal/metrics"
)

const (
	// DefaultCapacity is the number of lines kept for snapshots.
	DefaultCapacity = 500

	// DefaultSubscriberBuffer is the pending-line bound per subscriber.
	DefaultSubscriberBuffer = 256

	// lineTimeFormat is the timestamp prefix of every rendered line.
	lineTimeFormat = "2006-01-02 15:04:05"
)

// Entry is a single immutable log line.
type Entry struct {
	Seq  uint64    `json:"seq"`
	Time time.Time `json:"time"`
	Text string    `json:"text"`
}

// Line renders the entry as "YYYY-MM-DD HH:MM:SS - text".
func (e Entry) Line() string {
	return e.Time.Format(lineTimeFormat) + " - " + e.Text
}

// Archive persists entries so the ring survives restarts.
type Archive interface {
	Store(e Entry) error
	Recent(n int) ([]Entry, error)
}

// Config configures a Log. Zero values select defaults.
type Config struct {
	Capacity         int
	SubscriberBuffer int

	// Clock stamps entries. Defaults to the real clock.
	Clock clockwork.Clock

	// Archive, when set, receives every appended entry.
	Archive Archive
}

// Log is the append-only event log.
type Log struct {
	mu sync.Mutex

	ring  []Entry
	head  int // index of the oldest entry
	count int
	seq   uint64

	subs      map[uint64]*Subscription
	nextSubID uint64
	closed    bool

	subBuffer int
	clock     clockwork.Clock
	archive   Archive
	logger    zerolog.Logger
}

// New creates an empty Log.
func New(cfg Config) *Log {
	if cfg.Capacity <= 0 {
		cfg.Capacity = DefaultCapacity
	}
	if cfg.SubscriberBuffer <= 0 {
		cfg.SubscriberBuffer = DefaultSubscriberBuffer
	}
	if cfg.Clock == nil {
		cfg.Clock = clockwork.NewRealClock()
	}
	return &Log{
		ring:      make([]Entry, cfg.Capacity),
		subs:      make(map[uint64]*Subscription),
		subBuffer: cfg.SubscriberBuffer,
		clock:     cfg.Clock,
		archive:   cfg.Archive,
		logger:    logging.WithComponent("eventlog"),
	}
}

// Append records text, fans the rendered line out to every subscriber and
// mirrors it to the structured logger.
func (l *Log) Append(text string) Entry {
	l.mu.Lock()
	l.seq++
	e := Entry{Seq: l.seq, Time: l.clock.Now(), Text: text}
	l.push(e)
	line := e.Line()
	for _, s := range l.subs {
		s.deliver(line)
	}
	l.mu.Unlock()

	metrics.EventLogLines.Inc()
	l.logger.Info().Uint64("seq", e.Seq).Msg(text)

	if l.archive != nil {
		if err := l.archive.Store(e); err != nil {
			metrics.EventLogArchiveErrors.Inc()
			l.logger.Warn().Err(err).Uint64("seq", e.Seq).Msg("Failed to archive event log entry")
		}
	}
	return e
}

// Appendf formats according to a format specifier and appends the result.
func (l *Log) Appendf(format string, args ...interface{}) Entry {
	return l.Append(fmt.Sprintf(format, args...))
}

// push stores e in the ring, evicting the oldest entry when full (l.mu held).
func (l *Log) push(e Entry) {
	capacity := len(l.ring)
	if l.count < capacity {
		l.ring[(l.head+l.count)%capacity] = e
		l.count++
		return
	}
	l.ring[l.head] = e
	l.head = (l.head + 1) % capacity
}

// snapshot returns the rendered lines oldest-first (l.mu held).
func (l *Log) snapshot() []string {
	lines := make([]string, 0, l.count)
	for i := 0; i < l.count; i++ {
		lines = append(lines, l.ring[(l.head+i)%len(l.ring)].Line())
	}
	return lines
}

// Snapshot returns the retained lines, oldest first.
func (l *Log) Snapshot() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.snapshot()
}

// retained returns the retained entries, oldest first.
func (l *Log) retained() []Entry {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]Entry, 0, l.count)
	for i := 0; i < l.count; i++ {
		out = append(out, l.ring[(l.head+i)%len(l.ring)])
	}
	return out
}

// Subscribe registers a live subscriber. Lines appended after Subscribe
// returns are delivered in order.
func (l *Log) Subscribe() *Subscription {
	_, s := l.subscribe(false)
	return s
}

// SubscribeWithSnapshot returns the current snapshot and a subscription
// registered atomically with it: no line is missing or duplicated between
// the two.
func (l *Log) SubscribeWithSnapshot() ([]string, *Subscription) {
	return l.subscribe(true)
}

func (l *Log) subscribe(withSnapshot bool) ([]string, *Subscription) {
	l.mu.Lock()
	defer l.mu.Unlock()

	var lines []string
	if withSnapshot {
		lines = l.snapshot()
	}

	l.nextSubID++
	s := newSubscription(l, l.nextSubID, l.subBuffer)
	if l.closed {
		s.markClosed()
		return lines, s
	}
	l.subs[s.id] = s
	metrics.EventLogSubscribers.Set(float64(len(l.subs)))
	return lines, s
}

// SubscriberCount returns the number of registered subscribers.
func (l *Log) SubscriberCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.subs)
}

func (l *Log) unsubscribe(id uint64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.subs[id]; ok {
		delete(l.subs, id)
		metrics.EventLogSubscribers.Set(float64(len(l.subs)))
	}
}

// Restore loads the most recent archived entries into the ring. It is meant
// to run once at startup, before anything is appended.
func (l *Log) Restore(ctx context.Context) (int, error) {
	if l.archive == nil {
		return 0, nil
	}
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	entries, err := l.archive.Recent(len(l.ring))
	if err != nil {
		return 0, fmt.Errorf("read event log archive: %w", err)
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	for _, e := range entries {
		l.push(e)
		if e.Seq > l.seq {
			l.seq = e.Seq
		}
	}
	return len(entries), nil
}

// Close terminates every subscription. Appends after Close still reach the
// ring and the archive.
func (l *Log) Close() {
	l.mu.Lock()
	subs := make([]*Subscription, 0, len(l.subs))
	for id, s := range l.subs {
		subs = append(subs, s)
		delete(l.subs, id)
	}
	l.closed = true
	metrics.EventLogSubscribers.Set(0)
	l.mu.Unlock()

	for _, s := range subs {
		s.markClosed()
	}
}
