// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package runtime

import "github.com/bureau-foundation/tide/lib/input"

// envelope is the internal message union flowing through the program
// channel: either an application message or a raw external event
// awaiting translation by the application's MapEvent.
type envelope[M any] struct {
	external bool
	event    input.Event
	msg      M
}

// Sender delivers application messages into a program's loop. Senders
// are freely copyable and safe for concurrent use; every subscription
// worker and command goroutine gets one.
//
// Send after the program has terminated is a no-op returning false —
// a late emission from a detached worker has nowhere to go, which is
// the accepted fate of post-stop messages.
type Sender[M any] struct {
	ch   chan<- envelope[M]
	done <-chan struct{}
}

// Send enqueues msg for the update function. It returns false once
// the program has terminated; workers can use the result as an
// additional stop signal, though polling their halt flag remains the
// primary mechanism.
func (s Sender[M]) Send(msg M) bool {
	// Fast path: already terminated.
	select {
	case <-s.done:
		return false
	default:
	}
	select {
	case s.ch <- envelope[M]{msg: msg}:
		return true
	case <-s.done:
		return false
	}
}
