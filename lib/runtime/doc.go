// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package runtime is the scheduler at the core of tide's
// model-update-view architecture. An application supplies a model, a
// pure-ish update function, a view function, and a description of the
// background work it wants running ([Subscription] values and [Cmd]
// one-shots); the runtime owns everything else: the message channel,
// the render/update cycle, command dispatch, and the lifecycle of
// subscription worker goroutines.
//
// The contract an application implements is [App] (plus [EventMapper]
// when the runtime should own raw input polling). [Program.Run] drives
// the loop:
//
//	render → receive one message → update → dispatch command →
//	reconcile subscriptions → (quit raised? stop : render again)
//
// Subscriptions are identified by value equality of their descriptors,
// not by instance identity. Returning an equal descriptor on
// consecutive cycles keeps the same worker goroutine running;
// descriptors that disappear have their halt [Flag] raised (the worker
// is not joined — it winds down on its next poll); new descriptors get
// a fresh worker. This reconciliation is incremental: unchanged
// subscriptions are never restarted.
//
// Concurrency model: the loop goroutine is the only reader of the
// message channel and the only code that touches the model. Workers
// receive a [Sender] and their halt flag, never the model. A worker
// that panics is logged and lost; the loop keeps running.
package runtime
