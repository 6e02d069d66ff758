// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package runtime

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/bureau-foundation/tide/lib/input"
	"github.com/bureau-foundation/tide/lib/terminal"
)

// App is the contract an application implements to host itself in the
// runtime. T is the model type, M the message type. The runtime calls
// every method from the loop goroutine; none of them may block on the
// message channel (that would deadlock the loop they feed).
type App[T, M any] interface {
	// Init returns the initial model and an optional startup command.
	Init() (T, Cmd[M])

	// Update applies one message to the model, mutating it in place,
	// and returns an optional follow-up command. Raising quit is the
	// only way to terminate the program.
	Update(model *T, msg M, quit *Flag) Cmd[M]

	// Subscriptions returns the background producers the application
	// wants running for the current model. Called after every update;
	// the runtime reconciles the result against the running set.
	Subscriptions(model *T) []Subscription[M]

	// View renders the model into the frame.
	View(frame *terminal.Frame, model *T)
}

// EventMapper translates raw input events into application messages.
// Applications using the active input shape (WithEvents) implement
// this in addition to App. Returning ok=false ignores the event: no
// update cycle runs and the loop re-renders and resumes waiting.
type EventMapper[T, M any] interface {
	MapEvent(model *T, event input.Event) (msg M, ok bool)
}

// Screen is the rendering collaborator. The production implementation
// is [terminal.Terminal]; tests substitute their own.
type Screen interface {
	Draw(render func(frame *terminal.Frame)) error
	Restore() error
}

// EventSource is the raw input collaborator for the active shape. The
// production implementation is [input.Reader].
type EventSource interface {
	Poll(timeout time.Duration) (bool, error)
	Read() (input.Event, error)
	Close() error
}

// defaultPollInterval is how often the event poller wakes to check its
// halt flag while no input arrives.
const defaultPollInterval = 100 * time.Millisecond

// settings collects the option-configurable collaborators.
type settings struct {
	logger       *slog.Logger
	screen       Screen
	events       EventSource
	pollInterval time.Duration
	queueSize    int
}

// Option configures a Program at construction.
type Option func(*settings)

// WithLogger routes runtime diagnostics through logger. The default
// discards them. Applications running on a real terminal should log
// to a file or an in-loop handler (see [NewLogHandler]) — stderr
// writes would corrupt the alternate screen.
func WithLogger(logger *slog.Logger) Option {
	return func(s *settings) { s.logger = logger }
}

// WithScreen substitutes the rendering collaborator. Without this
// option, Run opens a real terminal on stdin/stdout.
func WithScreen(screen Screen) Option {
	return func(s *settings) { s.screen = screen }
}

// WithEvents selects the active input shape: the runtime runs a
// dedicated poller against source and feeds observed events through
// the application's MapEvent. The application must implement
// [EventMapper]. Without this option the shape is passive — the
// application owns all message producers.
func WithEvents(source EventSource) Option {
	return func(s *settings) { s.events = source }
}

// WithPollInterval overrides the poller's halt-check interval.
func WithPollInterval(interval time.Duration) Option {
	return func(s *settings) { s.pollInterval = interval }
}

// Program hosts one application run. Create with New, start with Run.
// A Program is single-use: Run may be called once.
type Program[T, M any] struct {
	app      App[T, M]
	settings settings
	ch       chan envelope[M]
	done     chan struct{}
}

// New builds a program for app. The zero configuration is the passive
// shape on a real terminal with diagnostics discarded.
func New[T, M any](app App[T, M], options ...Option) *Program[T, M] {
	s := settings{
		logger:       slog.New(slog.DiscardHandler),
		pollInterval: defaultPollInterval,
		queueSize:    64,
	}
	for _, option := range options {
		option(&s)
	}
	return &Program[T, M]{
		app:      app,
		settings: s,
		ch:       make(chan envelope[M], s.queueSize),
		done:     make(chan struct{}),
	}
}

// Sender returns a handle for pushing messages into the program's
// loop. Passive-shape applications hand copies to the producers they
// manage themselves; it is also how external goroutines (for example
// a log handler) reach the loop.
func (p *Program[T, M]) Sender() Sender[M] {
	return Sender[M]{ch: p.ch, done: p.done}
}

// Run drives the loop until an update raises the quit flag or
// rendering fails. On return the terminal is restored, the event
// poller (if any) is halted, and every subscription worker has had
// its halt flag raised; workers are not joined.
func (p *Program[T, M]) Run() error {
	logger := p.settings.logger

	// done unblocks senders held by detached workers; closing it is
	// the program-wide "no more deliveries" signal. Registered before
	// any early return so a Sender obtained before Run can never block
	// forever against a program that failed to start.
	defer close(p.done)

	screen := p.settings.screen
	if screen == nil {
		realTerminal, err := terminal.New(os.Stdin, os.Stdout)
		if err != nil {
			return fmt.Errorf("initializing terminal: %w", err)
		}
		screen = realTerminal
	}

	var mapper EventMapper[T, M]
	if p.settings.events != nil {
		appMapper, ok := p.app.(EventMapper[T, M])
		if !ok {
			screen.Restore()
			return errors.New("runtime: WithEvents requires the application to implement EventMapper")
		}
		mapper = appMapper
		pollerHalt := NewFlag()
		defer pollerHalt.Raise()
		go p.pollEvents(p.settings.events, pollerHalt)
	}

	send := p.Sender()
	quit := NewFlag()
	reg := &registry[M]{logger: logger}
	defer reg.stopAll()
	defer screen.Restore()

	model, initialCmd := p.app.Init()
	for _, descriptor := range p.app.Subscriptions(&model) {
		reg.start(descriptor, send)
	}
	dispatch(logger, initialCmd, send)
	logger.Debug("program initialized", "subscriptions", len(reg.running))

	for {
		if err := screen.Draw(func(frame *terminal.Frame) {
			p.app.View(frame, &model)
		}); err != nil {
			return fmt.Errorf("drawing frame: %w", err)
		}

		env, ok := <-p.ch
		if !ok {
			// Unreachable under correct sequencing: the program never
			// closes its own channel. Treated as fatal rather than
			// masked.
			return errors.New("runtime: message channel closed")
		}

		var msg M
		if env.external {
			mapped, deliver := mapper.MapEvent(&model, env.event)
			if !deliver {
				continue
			}
			msg = mapped
		} else {
			msg = env.msg
		}

		cmd := p.app.Update(&model, msg, quit)
		dispatch(logger, cmd, send)

		reg.reconcile(p.app.Subscriptions(&model), send)
		logger.Debug("cycle complete", "subscriptions", len(reg.running), "quit", quit.Raised())

		if quit.Raised() {
			return nil
		}
	}
}

// pollEvents is the active shape's input pump: one goroutine polling
// the external source and forwarding raw events into the message
// channel as external envelopes. The poll timeout doubles as the halt
// flag's check interval.
func (p *Program[T, M]) pollEvents(source EventSource, halt *Flag) {
	logger := p.settings.logger
	for !halt.Raised() {
		ready, err := source.Poll(p.settings.pollInterval)
		if err != nil {
			if !errors.Is(err, input.ErrClosed) {
				logger.Warn("event poll failed", "error", err)
			}
			return
		}
		if !ready {
			continue
		}
		event, err := source.Read()
		if err != nil {
			if !errors.Is(err, input.ErrClosed) {
				logger.Warn("event read failed", "error", err)
			}
			return
		}
		select {
		case p.ch <- envelope[M]{external: true, event: event}:
		case <-p.done:
			return
		}
	}
}
