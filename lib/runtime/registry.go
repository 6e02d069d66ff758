// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package runtime

import (
	"fmt"
	"log/slog"
	"slices"
)

// handle pairs a running subscription descriptor with the halt flag
// controlling its worker goroutine.
type handle[M any] struct {
	sub  Subscription[M]
	halt *Flag
}

// registry owns the worker goroutines backing the active subscription
// set. All methods run on the loop goroutine; workers themselves only
// ever see their Sender and halt flag.
type registry[M any] struct {
	logger  *slog.Logger
	running []*handle[M]
}

// reconcile diffs the running set against the newly desired
// descriptors. Matching runs first over the whole desired set, so a
// descriptor equal to a running one is never stopped-and-restarted:
//
//  1. Every running handle whose descriptor has an equal in the
//     desired set is kept untouched, consuming the match.
//  2. Unmatched running handles have their halt flag raised and are
//     dropped from the running set. The worker is not joined — it is
//     "stopping", not "stopped".
//  3. Every desired descriptor left unmatched gets a fresh worker
//     with its own halt flag.
func (r *registry[M]) reconcile(desired []Subscription[M], send Sender[M]) {
	remaining := slices.Clone(desired)

	var kept, unmatched []*handle[M]
	for _, h := range r.running {
		matchIndex := -1
		for index, descriptor := range remaining {
			if sameDescriptor(h.sub, descriptor) {
				matchIndex = index
				break
			}
		}
		if matchIndex >= 0 {
			remaining = slices.Delete(remaining, matchIndex, matchIndex+1)
			kept = append(kept, h)
		} else {
			unmatched = append(unmatched, h)
		}
	}

	for _, h := range unmatched {
		h.halt.Raise()
		r.logger.Debug("subscription stopped", "descriptor", describeSub(h.sub))
	}

	r.running = kept
	for _, descriptor := range remaining {
		r.start(descriptor, send)
	}
}

// start spawns a worker goroutine for one descriptor with a fresh halt
// flag. A panicking worker is logged and lost — no restart — while the
// loop keeps running.
func (r *registry[M]) start(sub Subscription[M], send Sender[M]) {
	h := &handle[M]{sub: sub, halt: NewFlag()}
	r.running = append(r.running, h)
	r.logger.Debug("subscription started", "descriptor", describeSub(sub))

	logger := r.logger
	go func() {
		defer func() {
			if value := recover(); value != nil {
				logger.Error("subscription panicked", "descriptor", describeSub(sub), "panic", value)
			}
		}()
		sub.Run(send, h.halt)
	}()
}

// stopAll raises every remaining halt flag. Called once on loop
// termination; like reconcile, it does not wait for workers to finish.
func (r *registry[M]) stopAll() {
	for _, h := range r.running {
		h.halt.Raise()
	}
	r.running = nil
}

// describeSub renders a descriptor for log records.
func describeSub[M any](sub Subscription[M]) string {
	type stringer interface{ String() string }
	if s, ok := sub.(stringer); ok {
		return s.String()
	}
	return fmt.Sprintf("%T", sub)
}
