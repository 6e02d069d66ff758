// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package runtime

import (
	"fmt"
	"time"

	"github.com/bureau-foundation/tide/lib/clock"
)

// haltPollInterval bounds how long a Tick worker waits between halt
// flag checks while its tick interval has not elapsed.
const haltPollInterval = 100 * time.Millisecond

// Tick is a stock subscription delivering the current time on a fixed
// interval. Two Ticks with the same Interval are the same
// subscription regardless of their Make functions or clocks — Tick
// implements [Equaler] by interval, so returning a fresh Tick value
// (with a fresh closure) every cycle keeps one worker running.
type Tick[M any] struct {
	// Interval is the tick period and the subscription's identity.
	Interval time.Duration

	// Make wraps a tick timestamp into an application message.
	Make func(now time.Time) M

	// Clock overrides the time source. Nil means the real clock.
	Clock clock.Clock
}

// Run emits one message per elapsed interval until halted.
func (t Tick[M]) Run(send Sender[M], halt *Flag) {
	clk := t.Clock
	if clk == nil {
		clk = clock.Real()
	}

	ticker := clk.NewTicker(t.Interval)
	defer ticker.Stop()

	// A second ticker keeps halt latency bounded when Interval is
	// long: the worker wakes at least every haltPollInterval.
	haltPoll := clk.NewTicker(haltPollInterval)
	defer haltPoll.Stop()

	for {
		select {
		case now := <-ticker.C:
			if halt.Raised() {
				return
			}
			if !send.Send(t.Make(now)) {
				return
			}
		case <-haltPoll.C:
			if halt.Raised() {
				return
			}
		}
	}
}

// EqualSubscription identifies Ticks by interval alone.
func (t Tick[M]) EqualSubscription(other any) bool {
	otherTick, ok := other.(Tick[M])
	return ok && otherTick.Interval == t.Interval
}

// String names the subscription in log records.
func (t Tick[M]) String() string {
	return fmt.Sprintf("tick(%s)", t.Interval)
}
