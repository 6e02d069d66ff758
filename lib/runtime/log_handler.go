// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package runtime

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync/atomic"
	"time"
)

// LogRecord is the payload a [LogHandler] delivers into the loop. The
// application wraps it into its own message type and typically shows
// Summary in a status line.
type LogRecord struct {
	// Summary is a one-line rendering: "message (key=value, ...)".
	Summary string

	// Level is the slog level, for styling (warn vs error).
	Level slog.Level

	// Time is the record's timestamp.
	Time time.Time
}

// LogHandler is a slog.Handler that routes log records into a running
// program as messages, so background goroutines can log without
// writing to stderr and corrupting the alternate screen. Records below
// the configured level are dropped, as are records arriving before
// SetSender is called.
//
// All handlers derived via WithAttrs/WithGroup share the same sender
// slot, so a single SetSender call propagates to every derived
// handler.
type LogHandler[M any] struct {
	level  slog.Level
	wrap   func(LogRecord) M
	sender *atomic.Pointer[Sender[M]]
	attrs  []slog.Attr
	groups []string
}

// NewLogHandler creates a handler delivering records at or above
// level, wrapped into application messages by wrap. Call SetSender
// once the program exists.
func NewLogHandler[M any](level slog.Level, wrap func(LogRecord) M) *LogHandler[M] {
	return &LogHandler[M]{
		level:  level,
		wrap:   wrap,
		sender: &atomic.Pointer[Sender[M]]{},
	}
}

// SetSender connects the handler to a program. Safe to call from any
// goroutine; propagates to all derived handlers.
func (h *LogHandler[M]) SetSender(send Sender[M]) {
	h.sender.Store(&send)
}

// Enabled reports whether the handler is interested in records at the
// given level.
func (h *LogHandler[M]) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level
}

// Handle formats the record and sends it into the loop. Records
// arriving before SetSender, or after the program terminated, are
// silently dropped.
func (h *LogHandler[M]) Handle(_ context.Context, record slog.Record) error {
	sender := h.sender.Load()
	if sender == nil {
		return nil
	}

	summary := record.Message
	var attrParts []string
	for _, attr := range h.attrs {
		attrParts = append(attrParts, fmt.Sprintf("%s=%s", attr.Key, attr.Value))
	}
	record.Attrs(func(attr slog.Attr) bool {
		attrParts = append(attrParts, fmt.Sprintf("%s=%s", attr.Key, attr.Value))
		return true
	})
	if len(attrParts) > 0 {
		summary += " ("
		for index, part := range attrParts {
			if index > 0 {
				summary += ", "
			}
			summary += part
		}
		summary += ")"
	}

	sender.Send(h.wrap(LogRecord{
		Summary: summary,
		Level:   record.Level,
		Time:    record.Time,
	}))
	return nil
}

// WithAttrs returns a derived handler with the given attributes
// appended. Shares the sender slot with its parent.
func (h *LogHandler[M]) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &LogHandler[M]{
		level:  h.level,
		wrap:   h.wrap,
		sender: h.sender,
		attrs:  append(slices.Clone(h.attrs), attrs...),
		groups: slices.Clone(h.groups),
	}
}

// WithGroup returns a derived handler with the given group name
// appended. Shares the sender slot with its parent.
func (h *LogHandler[M]) WithGroup(name string) slog.Handler {
	return &LogHandler[M]{
		level:  h.level,
		wrap:   h.wrap,
		sender: h.sender,
		attrs:  slices.Clone(h.attrs),
		groups: append(slices.Clone(h.groups), name),
	}
}
