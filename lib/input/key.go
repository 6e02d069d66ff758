// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package input

import "unicode/utf8"

// escapeSequences maps the bytes following ESC to the key they encode.
// Covers the CSI ("[") and SS3 ("O") encodings emitted by the
// terminals tide targets. Modifier-carrying variants (e.g. "[1;5A")
// are recognized as escape sequences but not decoded into keys; the
// parser drops them whole so their bytes never surface as runes.
var escapeSequences = map[string]KeyCode{
	"[A": KeyUp,
	"[B": KeyDown,
	"[C": KeyRight,
	"[D": KeyLeft,
	"[H": KeyHome,
	"[F": KeyEnd,
	"OA": KeyUp,
	"OB": KeyDown,
	"OC": KeyRight,
	"OD": KeyLeft,
	"OH": KeyHome,
	"OF": KeyEnd,

	"[1~": KeyHome,
	"[2~": KeyInsert,
	"[3~": KeyDelete,
	"[4~": KeyEnd,
	"[5~": KeyPageUp,
	"[6~": KeyPageDown,
}

// maxCSILength bounds how long the parser waits for a CSI final byte
// before giving up on the sequence. Real sequences are far shorter;
// this only guards against a corrupt stream stalling the parser.
const maxCSILength = 16

// parseEvents decodes raw terminal bytes into key events. It returns
// the decoded events and any trailing bytes that may be the prefix of
// an incomplete escape sequence or a partial UTF-8 rune; the caller
// prepends the leftover to the next read.
func parseEvents(buf []byte) ([]Event, []byte) {
	var events []Event
	for len(buf) > 0 {
		event, consumed, incomplete := parseOne(buf)
		if incomplete {
			break
		}
		buf = buf[consumed:]
		if event != nil {
			events = append(events, event)
		}
	}
	return events, buf
}

// parseOne decodes the first event in buf. A nil event with consumed
// > 0 means the bytes were recognized but deliberately dropped (an
// escape sequence with no key mapping). incomplete means buf may hold
// the prefix of a longer encoding and parsing should wait for more
// bytes.
func parseOne(buf []byte) (event Event, consumed int, incomplete bool) {
	b := buf[0]

	if b == 0x1b {
		return parseEscape(buf)
	}

	switch b {
	case '\r', '\n':
		return KeyEvent{Code: KeyEnter}, 1, false
	case '\t':
		return KeyEvent{Code: KeyTab}, 1, false
	case 0x7f, 0x08:
		return KeyEvent{Code: KeyBackspace}, 1, false
	}

	// Remaining control bytes are ctrl+letter chords.
	if b < 0x20 {
		if b == 0 {
			return nil, 1, false
		}
		return KeyEvent{Code: KeyRune, Rune: rune('a' + b - 1), Ctrl: true}, 1, false
	}

	r, size := utf8.DecodeRune(buf)
	if r == utf8.RuneError && !utf8.FullRune(buf) {
		return nil, 0, true
	}
	if r == utf8.RuneError {
		// Invalid byte, not a partial rune. Drop it.
		return nil, size, false
	}
	return KeyEvent{Code: KeyRune, Rune: r}, size, false
}

// parseEscape decodes a byte sequence starting with ESC. A lone ESC in
// the buffer is reported as the escape key rather than held back: the
// reader delivers whole chunks per read, so a sequence split across
// reads is rare and a held-back ESC would delay the keypress
// indefinitely.
func parseEscape(buf []byte) (event Event, consumed int, incomplete bool) {
	if len(buf) == 1 {
		return KeyEvent{Code: KeyEscape}, 1, false
	}

	rest := buf[1:]
	switch rest[0] {
	case '[':
		// CSI: parameter and intermediate bytes, then a final byte in
		// 0x40–0x7e. Scan for the final byte, then look the whole
		// sequence up.
		for i := 1; i < len(rest); i++ {
			final := rest[i]
			if final >= 0x40 && final <= 0x7e {
				if code, known := escapeSequences[string(rest[:i+1])]; known {
					return KeyEvent{Code: code}, 1 + i + 1, false
				}
				// Well-formed CSI with no key mapping: drop it whole.
				return nil, 1 + i + 1, false
			}
		}
		if len(rest) < maxCSILength {
			return nil, 0, true
		}
		return KeyEvent{Code: KeyEscape}, 1, false
	case 'O':
		// SS3 encoding used by application-mode cursor keys.
		if len(rest) < 2 {
			return nil, 0, true
		}
		if code, known := escapeSequences[string(rest[:2])]; known {
			return KeyEvent{Code: code}, 3, false
		}
		return KeyEvent{Code: KeyEscape}, 1, false
	default:
		return KeyEvent{Code: KeyEscape}, 1, false
	}
}
