// StarSync - Automatic Plex Track Rating
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/starsync

package control

import "github.com/tomtom215/starsync/internal/scheduler"

// Status is a point-in-time view of the service.
type Status struct {
	SweepRunning bool            `json:"sweep_running"`
	Scheduler    scheduler.State `json:"scheduler"`
	Subscribers  int             `json:"subscribers"`
	BatchSize    int             `json:"batch_size"`
	LogLines     int             `json:"log_lines"`
	PlexBreaker  string          `json:"plex_breaker,omitempty"`
}

// Status reports the gate, scheduler and log state.
func (s *Service) Status() Status {
	st := Status{
		SweepRunning: s.dispatcher.Gate().Held(),
		Scheduler:    s.scheduler.State(),
		Subscribers:  s.events.SubscriberCount(),
		BatchSize:    s.dispatcher.BatchSize(),
		LogLines:     len(s.events.Snapshot()),
	}
	if s.breaker != nil {
		st.PlexBreaker = s.breaker.State()
	}
	return st
}

// Ready reports whether the Plex client is accepting calls.
func (s *Service) Ready() bool {
	return s.breaker == nil || !s.breaker.IsOpen()
}
