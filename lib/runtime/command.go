// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package runtime

import "log/slog"

// Cmd is a one-shot background effect returned by Init or Update. A
// nil Cmd means "no effect". The function runs on its own goroutine,
// may use send to emit messages (conventionally at most one), and
// must terminate on its own — commands receive no halt flag because
// they are finite by contract.
type Cmd[M any] func(send Sender[M])

// dispatch starts cmd on a fresh goroutine. A panicking command is
// logged and abandoned; it never takes the loop down with it.
func dispatch[M any](logger *slog.Logger, cmd Cmd[M], send Sender[M]) {
	if cmd == nil {
		return
	}
	go func() {
		defer func() {
			if value := recover(); value != nil {
				logger.Error("command panicked", "panic", value)
			}
		}()
		cmd(send)
	}()
}
