// StarSync - Automatic Plex Track Rating
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/starsync

package eventlog

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
)

func newTestArchive(t *testing.T, capacity int) *BadgerArchive {
	t.Helper()
	a, err := OpenBadgerArchive("", capacity)
	if err != nil {
		t.Fatalf("OpenBadgerArchive failed: %v", err)
	}
	t.Cleanup(func() {
		if err := a.Close(); err != nil {
			t.Errorf("close archive: %v", err)
		}
	})
	return a
}

func TestBadgerArchive_StoreAndRecent(t *testing.T) {
	t.Parallel()

	a := newTestArchive(t, 10)
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := uint64(1); i <= 5; i++ {
		if err := a.Store(Entry{Seq: i, Time: base.Add(time.Duration(i) * time.Second), Text: "entry"}); err != nil {
			t.Fatalf("Store failed: %v", err)
		}
	}

	entries, err := a.Recent(3)
	if err != nil {
		t.Fatalf("Recent failed: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("Expected 3 entries, got %d", len(entries))
	}
	for i, want := range []uint64{3, 4, 5} {
		if entries[i].Seq != want {
			t.Errorf("Expected seq %d at %d, got %d", want, i, entries[i].Seq)
		}
	}
	if !entries[2].Time.Equal(base.Add(5 * time.Second)) {
		t.Errorf("Expected timestamp to round-trip, got %v", entries[2].Time)
	}
}

func TestBadgerArchive_TrimsToCapacity(t *testing.T) {
	t.Parallel()

	a := newTestArchive(t, 5)
	for i := uint64(1); i <= 12; i++ {
		if err := a.Store(Entry{Seq: i, Time: time.Now(), Text: "entry"}); err != nil {
			t.Fatalf("Store failed: %v", err)
		}
	}

	n, err := a.size()
	if err != nil {
		t.Fatalf("Len failed: %v", err)
	}
	if n != 5 {
		t.Errorf("Expected 5 archived entries, got %d", n)
	}

	entries, err := a.Recent(100)
	if err != nil {
		t.Fatalf("Recent failed: %v", err)
	}
	if len(entries) != 5 || entries[0].Seq != 8 || entries[4].Seq != 12 {
		t.Errorf("Expected seqs 8..12, got %+v", entries)
	}
}

func TestBadgerArchive_RunGCInMemory(t *testing.T) {
	t.Parallel()

	a := newTestArchive(t, 5)
	if err := a.RunGC(0.5); err != nil {
		t.Errorf("Expected GC to be a no-op in memory, got %v", err)
	}
}

func TestLogRestoreFromArchive(t *testing.T) {
	t.Parallel()

	a := newTestArchive(t, 4)
	clock := clockwork.NewFakeClockAt(time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC))

	first := New(Config{Capacity: 4, Clock: clock, Archive: a})
	for _, text := range []string{"one", "two", "three", "four", "five"} {
		first.Append(text)
	}

	second := New(Config{Capacity: 4, Clock: clock, Archive: a})
	n, err := second.Restore(context.Background())
	if err != nil {
		t.Fatalf("Restore failed: %v", err)
	}
	if n != 4 {
		t.Errorf("Expected 4 restored entries, got %d", n)
	}

	second.Append("six")
	lines := second.Snapshot()
	if len(lines) != 4 {
		t.Fatalf("Expected 4 lines, got %d", len(lines))
	}
	if !strings.HasSuffix(lines[0], " - three") || !strings.HasSuffix(lines[3], " - six") {
		t.Errorf("Unexpected restored ring: %v", lines)
	}

	entries := second.retained()
	if entries[3].Seq != 6 {
		t.Errorf("Expected sequence to continue at 6, got %d", entries[3].Seq)
	}
}

func TestRestoreWithoutArchive(t *testing.T) {
	t.Parallel()

	l := New(Config{})
	n, err := l.Restore(context.Background())
	if err != nil || n != 0 {
		t.Errorf("Expected no-op restore, got %d (%v)", n, err)
	}
}
