// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package runtime

import "sync/atomic"

// Flag is a monotonic, one-shot stop signal shared across goroutines.
// Raise is idempotent; once raised the flag never lowers. The runtime
// uses two kinds of Flag that are never the same instance: the
// program-level quit flag handed to Update, and a per-subscription
// halt flag handed to each worker.
//
// A Flag guards no other state, so relaxed visibility is enough:
// workers poll Raised at their iteration boundaries and are expected
// to wind down within a bounded number of polls.
type Flag struct {
	raised atomic.Bool
}

// NewFlag returns an unraised flag.
func NewFlag() *Flag {
	return &Flag{}
}

// Raise marks the flag. Safe to call from any goroutine, any number
// of times.
func (f *Flag) Raise() {
	f.raised.Store(true)
}

// Raised reports whether Raise has ever been called.
func (f *Flag) Raised() bool {
	return f.raised.Load()
}
