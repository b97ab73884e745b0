// StarSync - Automatic Plex Track Rating
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/starsync

package services

import (
	"context"
)

// PeriodicScheduler is satisfied by *scheduler.Scheduler.
type PeriodicScheduler interface {
	Activate(ctx context.Context)
	Stop()
}

// SchedulerService binds the periodic scheduler to the supervisor context.
//
// Settings updates call Start on the scheduler directly; the interval they
// record survives a restart of this service because Activate reuses it.
type SchedulerService struct {
	scheduler PeriodicScheduler
	name      string
}

// NewSchedulerService creates a new scheduler service wrapper.
func NewSchedulerService(s PeriodicScheduler) *SchedulerService {
	return &SchedulerService{
		scheduler: s,
		name:      "batch-scheduler",
	}
}

// Serve implements suture.Service. It blocks until ctx is done, then joins
// the scheduler loop.
func (s *SchedulerService) Serve(ctx context.Context) error {
	s.scheduler.Activate(ctx)
	<-ctx.Done()
	s.scheduler.Stop()
	return ctx.Err()
}

// String implements fmt.Stringer for supervisor logs.
func (s *SchedulerService) String() string {
	return s.name
}
