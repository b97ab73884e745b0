// StarSync - Automatic Plex Track Rating
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/starsync

package services

import (
	"context"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/tomtom215/starsync/internal/logging"
)

// DefaultGCDiscardRatio is the badger value-log rewrite threshold.
const DefaultGCDiscardRatio = 0.5

// GarbageCollector is satisfied by *eventlog.BadgerArchive.
type GarbageCollector interface {
	RunGC(discardRatio float64) error
}

// ArchiveGCService periodically reclaims event log archive space.
// A failed GC pass is logged and retried on the next tick.
type ArchiveGCService struct {
	archive  GarbageCollector
	interval time.Duration
	clock    clockwork.Clock
	name     string
}

// NewArchiveGCService creates a GC service. A nil clock selects the real clock.
func NewArchiveGCService(archive GarbageCollector, interval time.Duration, clock clockwork.Clock) *ArchiveGCService {
	if interval <= 0 {
		interval = 10 * time.Minute
	}
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &ArchiveGCService{
		archive:  archive,
		interval: interval,
		clock:    clock,
		name:     "eventlog-archive-gc",
	}
}

// Serve implements suture.Service.
func (s *ArchiveGCService) Serve(ctx context.Context) error {
	logger := logging.WithComponent("archive-gc")
	ticker := s.clock.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.Chan():
			start := s.clock.Now()
			if err := s.archive.RunGC(DefaultGCDiscardRatio); err != nil {
				logger.Warn().Err(err).Msg("Event log archive GC failed")
				continue
			}
			logger.Debug().Dur("duration", s.clock.Since(start)).Msg("Event log archive GC complete")
		}
	}
}

// String implements fmt.Stringer for supervisor logs.
func (s *ArchiveGCService) String() string {
	return s.name
}
