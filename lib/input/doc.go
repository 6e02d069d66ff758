// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package input reads raw terminal events for tide's active input
// shape. A [Reader] decodes keyboard bytes from a terminal (or any
// file-like source) into [KeyEvent] values and SIGWINCH signals into
// [ResizeEvent] values, exposing them through the Poll/Read pair the
// runtime's event poller consumes.
//
// The byte stream is read through a cancelable reader so Close can
// interrupt a blocked read without leaking the reading goroutine.
// Escape-sequence decoding covers the common cursor, navigation, and
// editing keys; unrecognized sequences are dropped rather than
// delivered as garbage runes.
//
// Events are translated into application messages by the application's
// MapEvent function, not here. This package has no knowledge of the
// model or message types.
package input
