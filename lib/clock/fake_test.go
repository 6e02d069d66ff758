// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package clock

import (
	"testing"
	"time"
)

func testStart() time.Time {
	return time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
}

func TestFakeNow(t *testing.T) {
	clock := Fake(testStart())
	if !clock.Now().Equal(testStart()) {
		t.Errorf("Now = %v, expected %v", clock.Now(), testStart())
	}

	clock.Advance(time.Hour)
	expected := testStart().Add(time.Hour)
	if !clock.Now().Equal(expected) {
		t.Errorf("Now after Advance = %v, expected %v", clock.Now(), expected)
	}
}

func TestFakeAfter(t *testing.T) {
	clock := Fake(testStart())
	channel := clock.After(10 * time.Second)

	select {
	case <-channel:
		t.Fatal("After fired before Advance")
	default:
	}

	clock.Advance(9 * time.Second)
	select {
	case <-channel:
		t.Fatal("After fired before its deadline")
	default:
	}

	clock.Advance(time.Second)
	select {
	case fired := <-channel:
		expected := testStart().Add(10 * time.Second)
		if !fired.Equal(expected) {
			t.Errorf("fire time = %v, expected %v", fired, expected)
		}
	default:
		t.Fatal("After did not fire at its deadline")
	}
}

func TestFakeAfterNonPositive(t *testing.T) {
	clock := Fake(testStart())
	select {
	case <-clock.After(0):
	default:
		t.Fatal("After(0) did not fire immediately")
	}
}

func TestFakeTicker(t *testing.T) {
	clock := Fake(testStart())
	ticker := clock.NewTicker(time.Second)
	defer ticker.Stop()

	clock.Advance(time.Second)
	select {
	case <-ticker.C:
	default:
		t.Fatal("ticker did not fire after one interval")
	}

	// An Advance spanning several intervals fires repeatedly, but the
	// capacity-1 channel holds only the earliest undelivered tick.
	clock.Advance(3 * time.Second)
	select {
	case <-ticker.C:
	default:
		t.Fatal("ticker did not fire after multi-interval Advance")
	}
}

func TestFakeTickerStop(t *testing.T) {
	clock := Fake(testStart())
	ticker := clock.NewTicker(time.Second)
	ticker.Stop()

	clock.Advance(5 * time.Second)
	select {
	case <-ticker.C:
		t.Fatal("stopped ticker fired")
	default:
	}
}

func TestFakeAwaitWaiters(t *testing.T) {
	clock := Fake(testStart())

	registered := make(chan struct{})
	go func() {
		clock.After(time.Minute)
		close(registered)
	}()

	clock.AwaitWaiters(1)
	select {
	case <-registered:
	case <-time.After(5 * time.Second):
		t.Fatal("AwaitWaiters returned without a registered waiter")
	}
}

func TestFakeSleep(t *testing.T) {
	clock := Fake(testStart())

	woke := make(chan struct{})
	go func() {
		clock.Sleep(time.Minute)
		close(woke)
	}()

	clock.AwaitWaiters(1)
	clock.Advance(time.Minute)

	select {
	case <-woke:
	case <-time.After(5 * time.Second):
		t.Fatal("Sleep did not return after Advance past its deadline")
	}
}
