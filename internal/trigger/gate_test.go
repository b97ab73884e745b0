// StarSync - Automatic Plex Track Rating
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/starsync

package trigger

import (
	"sync"
	"sync/atomic"
	"testing"
)

func TestGate_TryAcquireRelease(t *testing.T) {
	t.Parallel()

	var g Gate
	if g.Held() {
		t.Fatal("Expected new gate to be free")
	}
	if !g.TryAcquire() {
		t.Fatal("Expected first acquire to succeed")
	}
	if !g.Held() {
		t.Error("Expected gate to report held")
	}
	if g.TryAcquire() {
		t.Error("Expected second acquire to fail while held")
	}

	g.Release()
	if g.Held() {
		t.Error("Expected gate to be free after release")
	}
	if !g.TryAcquire() {
		t.Error("Expected acquire to succeed after release")
	}
	g.Release()
}

func TestGate_ConcurrentAcquireExactlyOne(t *testing.T) {
	t.Parallel()

	var g Gate
	var winners atomic.Int32
	start := make(chan struct{})

	var wg sync.WaitGroup
	for i := 0; i < 64; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			if g.TryAcquire() {
				winners.Add(1)
			}
		}()
	}
	close(start)
	wg.Wait()

	if winners.Load() != 1 {
		t.Errorf("Expected exactly one winner, got %d", winners.Load())
	}
}

func TestGate_DoReleasesOnPanic(t *testing.T) {
	t.Parallel()

	var g Gate
	func() {
		defer func() { _ = recover() }()
		g.Do(func() { panic("boom") })
	}()

	if g.Held() {
		t.Fatal("Expected gate to be released after panic")
	}
	ran := false
	if !g.Do(func() { ran = true }) || !ran {
		t.Error("Expected Do to run after panic released the gate")
	}
}

func TestGate_DoRejectsWhenHeld(t *testing.T) {
	t.Parallel()

	var g Gate
	g.TryAcquire()
	defer g.Release()

	ran := false
	if g.Do(func() { ran = true }) {
		t.Error("Expected Do to report rejection")
	}
	if ran {
		t.Error("Expected fn not to run while gate held")
	}
}
