// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package terminal

import (
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/creack/pty"
)

// ptySession opens a pseudo-terminal, builds a Terminal on its slave
// side, and captures everything written to it. Gives terminal tests a
// real TTY without touching the developer's screen.
type ptySession struct {
	terminal *Terminal

	mu       sync.Mutex
	captured strings.Builder
}

func newPTYSession(t *testing.T) *ptySession {
	t.Helper()

	master, slave, err := pty.Open()
	if err != nil {
		t.Fatalf("opening pty: %v", err)
	}
	if err := pty.Setsize(master, &pty.Winsize{Rows: 24, Cols: 80}); err != nil {
		t.Fatalf("sizing pty: %v", err)
	}

	terminal, err := New(slave, slave)
	if err != nil {
		t.Fatalf("terminal.New: %v", err)
	}

	session := &ptySession{terminal: terminal}
	go func() {
		buf := make([]byte, 4096)
		for {
			n, readErr := master.Read(buf)
			if n > 0 {
				session.mu.Lock()
				session.captured.Write(buf[:n])
				session.mu.Unlock()
			}
			if readErr != nil {
				return
			}
		}
	}()

	t.Cleanup(func() {
		terminal.Restore()
		slave.Close()
		master.Close()
	})
	return session
}

// awaitOutput polls the captured stream until it contains want.
func (s *ptySession) awaitOutput(t *testing.T, want string) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for {
		s.mu.Lock()
		captured := s.captured.String()
		s.mu.Unlock()
		if strings.Contains(captured, want) {
			return
		}
		if time.Now().After(deadline) {
			t.Fatalf("output never contained %q; captured: %q", want, captured)
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestTerminalDrawPaintsContent(t *testing.T) {
	session := newPTYSession(t)

	err := session.terminal.Draw(func(frame *Frame) {
		width, height := frame.Size()
		if width != 80 || height != 24 {
			t.Errorf("frame size = %dx%d, expected 80x24", width, height)
		}
		frame.SetContent("hello\nworld")
	})
	if err != nil {
		t.Fatalf("Draw: %v", err)
	}

	session.awaitOutput(t, "hello")
	session.awaitOutput(t, "world")
}

func TestTerminalSkipsIdenticalFrame(t *testing.T) {
	session := newPTYSession(t)

	render := func(frame *Frame) { frame.SetContent("static") }
	if err := session.terminal.Draw(render); err != nil {
		t.Fatalf("first Draw: %v", err)
	}
	session.awaitOutput(t, "static")

	session.mu.Lock()
	before := session.captured.Len()
	session.mu.Unlock()

	if err := session.terminal.Draw(render); err != nil {
		t.Fatalf("second Draw: %v", err)
	}

	// The second draw must not write anything: give any stray output
	// a moment to arrive, then compare.
	time.Sleep(50 * time.Millisecond)
	session.mu.Lock()
	after := session.captured.Len()
	session.mu.Unlock()
	if after != before {
		t.Errorf("identical frame was repainted (%d new bytes)", after-before)
	}
}

func TestTerminalRestoreIdempotent(t *testing.T) {
	session := newPTYSession(t)

	if err := session.terminal.Restore(); err != nil {
		t.Fatalf("Restore: %v", err)
	}
	if err := session.terminal.Restore(); err != nil {
		t.Errorf("second Restore: %v", err)
	}
}

func TestFrameContentLastCallWins(t *testing.T) {
	frame := NewFrame(10, 4)
	frame.SetContent("first")
	frame.SetContent("second")
	if frame.Content() != "second" {
		t.Errorf("Content = %q, expected second", frame.Content())
	}
}
