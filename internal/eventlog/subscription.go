// StarSync - Automatic Plex Track Rating
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/starsync

package eventlog

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"github.com/tomtom215/starsync/internal/metrics"
)

// ErrSubscriptionClosed is returned by Next once the subscription is closed
// and its queue is drained.
var ErrSubscriptionClosed = errors.New("eventlog: subscription closed")

// Subscription is one live consumer of the log.
type Subscription struct {
	id  uint64
	log *Log

	mu    sync.Mutex
	queue []string
	head  int
	count int

	notify    chan struct{}
	done      chan struct{}
	closeOnce sync.Once
	dropped   atomic.Uint64
}

func newSubscription(l *Log, id uint64, buffer int) *Subscription {
	return &Subscription{
		id:     id,
		log:    l,
		queue:  make([]string, buffer),
		notify: make(chan struct{}, 1),
		done:   make(chan struct{}),
	}
}

// deliver enqueues line, discarding the oldest pending line when full.
// Never blocks.
func (s *Subscription) deliver(line string) {
	s.mu.Lock()
	capacity := len(s.queue)
	if s.count == capacity {
		s.head = (s.head + 1) % capacity
		s.count--
		s.dropped.Add(1)
		metrics.EventLogDroppedLines.Inc()
	}
	s.queue[(s.head+s.count)%capacity] = line
	s.count++
	s.mu.Unlock()

	select {
	case s.notify <- struct{}{}:
	default:
	}
}

func (s *Subscription) pop() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.count == 0 {
		return "", false
	}
	line := s.queue[s.head]
	s.queue[s.head] = ""
	s.head = (s.head + 1) % len(s.queue)
	s.count--
	return line, true
}

// Next blocks until a line is available, ctx is done or the subscription is
// closed. Lines already queued are still returned after Close.
func (s *Subscription) Next(ctx context.Context) (string, error) {
	for {
		if line, ok := s.pop(); ok {
			return line, nil
		}
		select {
		case <-s.notify:
		case <-s.done:
			if line, ok := s.pop(); ok {
				return line, nil
			}
			return "", ErrSubscriptionClosed
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
}

// queued returns the number of pending lines.
func (s *Subscription) queued() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.count
}

// Dropped returns how many lines this subscriber lost to overflow.
func (s *Subscription) Dropped() uint64 {
	return s.dropped.Load()
}

// Close unregisters the subscription. Safe to call more than once.
func (s *Subscription) Close() {
	s.log.unsubscribe(s.id)
	s.markClosed()
}

func (s *Subscription) markClosed() {
	s.closeOnce.Do(func() { close(s.done) })
}
