// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package clock abstracts time operations for testability. Production
// code injects Real(); tests inject Fake() and advance time explicitly
// with Advance, so ticker-driven code (the input poller, the stock Tick
// subscription) runs deterministically under test.
//
// Every tide function that would call time.Now, time.After,
// time.NewTicker, or time.Sleep accepts a Clock instead of calling the
// time package directly.
package clock
