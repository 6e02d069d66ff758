// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package terminal owns the screen half of tide's terminal session:
// raw-mode setup and restore, the alternate screen, cursor visibility,
// and frame drawing. The runtime calls it through a two-method
// surface (Draw, Restore), so applications and tests can substitute
// their own screen without touching a real terminal.
//
// Rendering is whole-frame: the application's view function fills a
// [Frame] with its complete output and Draw repaints it, clearing each
// line's tail and any rows left over from a taller previous frame.
// Identical consecutive frames are skipped. There is no cell-level
// diffing; views are expected to be small enough that line repaints
// are cheap.
package terminal
