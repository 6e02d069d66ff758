// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package input

import "fmt"

// Event is a raw terminal input event: a [KeyEvent] or a [ResizeEvent].
// The runtime forwards events to the application's MapEvent function
// without inspecting them.
type Event interface {
	event()
}

// KeyCode identifies a key that is not an ordinary printable rune.
type KeyCode int

const (
	// KeyRune is a printable rune (possibly with the control
	// modifier). The rune is in KeyEvent.Rune.
	KeyRune KeyCode = iota
	// KeyEnter is carriage return or line feed.
	KeyEnter
	// KeyTab is horizontal tab.
	KeyTab
	// KeyBackspace is DEL (0x7f) or BS (0x08).
	KeyBackspace
	// KeyEscape is a lone ESC byte.
	KeyEscape
	// KeyUp is the up arrow.
	KeyUp
	// KeyDown is the down arrow.
	KeyDown
	// KeyLeft is the left arrow.
	KeyLeft
	// KeyRight is the right arrow.
	KeyRight
	// KeyHome is the home key.
	KeyHome
	// KeyEnd is the end key.
	KeyEnd
	// KeyPageUp is the page-up key.
	KeyPageUp
	// KeyPageDown is the page-down key.
	KeyPageDown
	// KeyDelete is the forward-delete key.
	KeyDelete
	// KeyInsert is the insert key.
	KeyInsert
)

var keyCodeNames = map[KeyCode]string{
	KeyEnter:     "enter",
	KeyTab:       "tab",
	KeyBackspace: "backspace",
	KeyEscape:    "esc",
	KeyUp:        "up",
	KeyDown:      "down",
	KeyLeft:      "left",
	KeyRight:     "right",
	KeyHome:      "home",
	KeyEnd:       "end",
	KeyPageUp:    "pgup",
	KeyPageDown:  "pgdown",
	KeyDelete:    "delete",
	KeyInsert:    "insert",
}

// KeyEvent is a single decoded keystroke.
type KeyEvent struct {
	// Code classifies the key. KeyRune means an ordinary rune.
	Code KeyCode

	// Rune holds the printable rune when Code is KeyRune.
	Rune rune

	// Ctrl is set for control-modified runes (ctrl+a .. ctrl+z).
	Ctrl bool
}

func (KeyEvent) event() {}

// String renders the keystroke in the conventional help-line notation:
// "q", "ctrl+c", "up", "enter".
func (k KeyEvent) String() string {
	if k.Code == KeyRune {
		if k.Ctrl {
			return fmt.Sprintf("ctrl+%c", k.Rune)
		}
		return string(k.Rune)
	}
	if name, known := keyCodeNames[k.Code]; known {
		return name
	}
	return fmt.Sprintf("key(%d)", int(k.Code))
}

// ResizeEvent reports the new terminal dimensions after a SIGWINCH.
type ResizeEvent struct {
	// Width is the terminal width in columns.
	Width int

	// Height is the terminal height in rows.
	Height int
}

func (ResizeEvent) event() {}
