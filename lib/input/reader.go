// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package input

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/muesli/cancelreader"
	"golang.org/x/sys/unix"
	"golang.org/x/term"

	"github.com/bureau-foundation/tide/lib/clock"
)

// ErrClosed is returned by Poll and Read after Close has been called.
var ErrClosed = errors.New("input: reader closed")

// Reader decodes raw terminal input into events. One goroutine reads
// and parses the byte stream; a second translates SIGWINCH into resize
// events when the source is a terminal. Both feed a single internal
// event channel drained by Poll/Read.
//
// Poll and Read must be called from a single goroutine (the runtime's
// event poller). Close may be called from any goroutine and
// interrupts a blocked read.
type Reader struct {
	clock     clock.Clock
	cancel    cancelreader.CancelReader
	sizeFD    int
	events    chan Event
	winch     chan os.Signal
	done      chan struct{}
	closeOnce sync.Once

	// pending holds an event observed by Poll and not yet consumed by
	// Read. Single-consumer, so no locking.
	pending Event
}

// NewReader starts reading events from in, typically os.Stdin. When in
// is a terminal, window size changes are delivered as [ResizeEvent]
// values, and one initial resize event reporting the current size is
// queued so applications learn their dimensions before the first
// keystroke.
func NewReader(in *os.File) (*Reader, error) {
	return newReader(in, clock.Real())
}

func newReader(in *os.File, clk clock.Clock) (*Reader, error) {
	cancel, err := cancelreader.NewReader(in)
	if err != nil {
		return nil, fmt.Errorf("creating cancelable input reader: %w", err)
	}

	reader := &Reader{
		clock:  clk,
		cancel: cancel,
		sizeFD: -1,
		events: make(chan Event, 32),
		winch:  make(chan os.Signal, 1),
		done:   make(chan struct{}),
	}

	if isatty.IsTerminal(in.Fd()) {
		reader.sizeFD = int(in.Fd())
		if width, height, sizeErr := term.GetSize(reader.sizeFD); sizeErr == nil {
			reader.events <- ResizeEvent{Width: width, Height: height}
		}
		signal.Notify(reader.winch, unix.SIGWINCH)
		go reader.resizeLoop()
	}

	go reader.readLoop()
	return reader, nil
}

// Poll waits up to timeout for an event to become available. It
// returns true when a subsequent Read will not block, false when the
// timeout elapsed with no event. After Close, Poll returns ErrClosed.
func (r *Reader) Poll(timeout time.Duration) (bool, error) {
	if r.pending != nil {
		return true, nil
	}
	select {
	case event := <-r.events:
		r.pending = event
		return true, nil
	case <-r.done:
		return false, ErrClosed
	case <-r.clock.After(timeout):
		return false, nil
	}
}

// Read returns the next event, blocking until one arrives. After
// Close, Read returns ErrClosed.
func (r *Reader) Read() (Event, error) {
	if r.pending != nil {
		event := r.pending
		r.pending = nil
		return event, nil
	}
	select {
	case event := <-r.events:
		return event, nil
	case <-r.done:
		return nil, ErrClosed
	}
}

// Close stops both reader goroutines and interrupts any in-flight
// read. Idempotent.
func (r *Reader) Close() error {
	r.closeOnce.Do(func() {
		signal.Stop(r.winch)
		close(r.done)
		r.cancel.Cancel()
	})
	return nil
}

// readLoop reads raw bytes and parses them into events until the
// source fails or the reader is closed. Bytes that form an incomplete
// escape sequence or partial rune are carried over to the next read.
func (r *Reader) readLoop() {
	buf := make([]byte, 256)
	var carry []byte
	for {
		n, err := r.cancel.Read(buf)
		if n > 0 {
			carry = append(carry, buf[:n]...)
			var events []Event
			events, carry = parseEvents(carry)
			for _, event := range events {
				select {
				case r.events <- event:
				case <-r.done:
					return
				}
			}
		}
		if err != nil {
			// Canceled by Close, or the input source went away.
			return
		}
	}
}

// resizeLoop translates SIGWINCH into resize events.
func (r *Reader) resizeLoop() {
	for {
		select {
		case <-r.winch:
		case <-r.done:
			return
		}
		width, height, err := term.GetSize(r.sizeFD)
		if err != nil {
			continue
		}
		select {
		case r.events <- ResizeEvent{Width: width, Height: height}:
		case <-r.done:
			return
		}
	}
}
