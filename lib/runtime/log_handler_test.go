// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package runtime

import (
	"log/slog"
	"testing"
	"time"

	"github.com/bureau-foundation/tide/lib/testutil"
)

// logMsg wraps a LogRecord the way an application message type would.
type logMsg struct {
	record LogRecord
}

func newLogFixture() (*LogHandler[logMsg], *slog.Logger, chan envelope[logMsg], chan struct{}) {
	handler := NewLogHandler(slog.LevelWarn, func(record LogRecord) logMsg {
		return logMsg{record: record}
	})
	logger := slog.New(handler)
	ch := make(chan envelope[logMsg], 8)
	done := make(chan struct{})
	return handler, logger, ch, done
}

func TestLogHandlerDeliversRecords(t *testing.T) {
	handler, logger, ch, done := newLogFixture()
	defer close(done)
	handler.SetSender(Sender[logMsg]{ch: ch, done: done})

	logger.Warn("disk low", "free_mb", 12)

	env := testutil.RequireReceive(t, ch, 5*time.Second, "waiting for log record")
	record := env.msg.record
	if record.Summary != "disk low (free_mb=12)" {
		t.Errorf("summary = %q, expected %q", record.Summary, "disk low (free_mb=12)")
	}
	if record.Level != slog.LevelWarn {
		t.Errorf("level = %v, expected warn", record.Level)
	}
}

func TestLogHandlerDropsBelowLevel(t *testing.T) {
	handler, logger, ch, done := newLogFixture()
	defer close(done)
	handler.SetSender(Sender[logMsg]{ch: ch, done: done})

	logger.Info("routine chatter")

	if len(ch) != 0 {
		t.Error("record below the configured level was delivered")
	}
}

func TestLogHandlerDropsBeforeSetSender(t *testing.T) {
	_, logger, ch, done := newLogFixture()
	defer close(done)

	logger.Error("too early")

	if len(ch) != 0 {
		t.Error("record delivered before SetSender")
	}
}

func TestLogHandlerWithAttrsSharesSender(t *testing.T) {
	handler, _, ch, done := newLogFixture()
	defer close(done)

	derived := slog.New(handler.WithAttrs([]slog.Attr{slog.String("component", "poller")}))

	// SetSender on the root propagates to the derived handler.
	handler.SetSender(Sender[logMsg]{ch: ch, done: done})
	derived.Error("poll failed", "attempt", 3)

	env := testutil.RequireReceive(t, ch, 5*time.Second, "waiting for derived handler record")
	expected := "poll failed (component=poller, attempt=3)"
	if env.msg.record.Summary != expected {
		t.Errorf("summary = %q, expected %q", env.msg.record.Summary, expected)
	}
}
