// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package terminal

// Frame is the drawing surface handed to the application's view
// function once per render. The view inspects the dimensions and
// stores its complete output with SetContent; the terminal clips
// lines that exceed the frame width when painting.
type Frame struct {
	width   int
	height  int
	content string
}

// NewFrame returns a frame with the given dimensions. The runtime
// creates frames from the live terminal size; tests create them
// directly.
func NewFrame(width, height int) *Frame {
	return &Frame{width: width, height: height}
}

// Size returns the frame dimensions in columns and rows.
func (f *Frame) Size() (width, height int) {
	return f.width, f.height
}

// SetContent replaces the frame's output with s. Lines are separated
// by \n. The last call before the view function returns wins.
func (f *Frame) SetContent(s string) {
	f.content = s
}

// Content returns the output stored by the view function.
func (f *Frame) Content() string {
	return f.content
}
