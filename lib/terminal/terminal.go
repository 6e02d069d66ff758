// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package terminal

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/charmbracelet/x/ansi"
	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"
	"golang.org/x/term"
)

// Terminal is a live terminal session in raw mode on the alternate
// screen. Create with New, draw frames with Draw, and always call
// Restore before the process exits — a terminal left in raw mode is
// unusable for the next shell prompt.
//
// Draw is called from the runtime loop goroutine only. Restore is
// idempotent and safe to call from a deferred cleanup path.
type Terminal struct {
	in       *os.File
	out      *os.File
	output   *termenv.Output
	rawState *term.State
	sizeFD   int

	// lastContent and lastRows let Draw skip identical frames and
	// clear rows left behind when the frame shrinks.
	lastContent string
	lastWidth   int
	lastRows    int

	restoreOnce sync.Once
	restoreErr  error
}

// New puts the terminal into raw mode, switches to the alternate
// screen, and hides the cursor. in carries keyboard input (raw mode
// applies to it), out receives the rendered frames; both are normally
// os.Stdin and os.Stdout.
func New(in, out *os.File) (*Terminal, error) {
	if !isatty.IsTerminal(out.Fd()) {
		return nil, errors.New("terminal: output is not a terminal")
	}

	rawState, err := term.MakeRaw(int(in.Fd()))
	if err != nil {
		return nil, fmt.Errorf("entering raw mode: %w", err)
	}

	output := termenv.NewOutput(out)
	output.AltScreen()
	output.HideCursor()

	return &Terminal{
		in:       in,
		out:      out,
		output:   output,
		rawState: rawState,
		sizeFD:   int(out.Fd()),
	}, nil
}

// Draw queries the current terminal size, runs render against a fresh
// frame, and paints the result. A frame identical to the previous one
// at the same size is not repainted.
func (t *Terminal) Draw(render func(frame *Frame)) error {
	width, height, err := term.GetSize(t.sizeFD)
	if err != nil {
		return fmt.Errorf("querying terminal size: %w", err)
	}

	frame := NewFrame(width, height)
	render(frame)

	if frame.content == t.lastContent && width == t.lastWidth {
		return nil
	}

	lines := strings.Split(frame.content, "\n")
	if len(lines) > height {
		lines = lines[:height]
	}

	// Build the whole repaint in one buffer so the terminal sees a
	// single write per frame.
	var buffer bytes.Buffer
	screen := termenv.NewOutput(&buffer, termenv.WithProfile(t.output.Profile))
	screen.MoveCursor(1, 1)
	for index, line := range lines {
		if index > 0 {
			buffer.WriteString("\r\n")
		}
		buffer.WriteString(ansi.Truncate(line, width, ""))
		screen.ClearLineRight()
	}
	for row := len(lines); row < t.lastRows; row++ {
		buffer.WriteString("\r\n")
		screen.ClearLine()
	}

	t.lastContent = frame.content
	t.lastWidth = width
	t.lastRows = len(lines)

	if _, err := t.out.Write(buffer.Bytes()); err != nil {
		return fmt.Errorf("writing frame: %w", err)
	}
	return nil
}

// Restore leaves the alternate screen, shows the cursor, and returns
// the terminal to its pre-New mode. Later calls return the first
// call's result.
func (t *Terminal) Restore() error {
	t.restoreOnce.Do(func() {
		t.output.ExitAltScreen()
		t.output.ShowCursor()
		if err := term.Restore(int(t.in.Fd()), t.rawState); err != nil {
			t.restoreErr = fmt.Errorf("restoring terminal mode: %w", err)
		}
	})
	return t.restoreErr
}
