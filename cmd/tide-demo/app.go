// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/bureau-foundation/tide/lib/clock"
	"github.com/bureau-foundation/tide/lib/input"
	"github.com/bureau-foundation/tide/lib/runtime"
	"github.com/bureau-foundation/tide/lib/terminal"
)

// model is the complete stopwatch state between messages.
type model struct {
	width  int
	height int

	running  bool
	elapsed  time.Duration
	lastTick time.Time
	laps     []time.Duration

	status      string
	statusLevel slog.Level
}

// msg is the stopwatch message type. One variant per event the update
// function reacts to.
type msg any

type (
	// tickMsg advances the running stopwatch.
	tickMsg struct{ now time.Time }

	// toggleMsg starts or stops the stopwatch.
	toggleMsg struct{}

	// lapMsg records the current elapsed time as a lap.
	lapMsg struct{}

	// saveMsg asks for the laps to be written to the lap file.
	saveMsg struct{}

	// resetMsg clears elapsed time and laps.
	resetMsg struct{}

	// quitMsg terminates the program.
	quitMsg struct{}

	// resizeMsg records new terminal dimensions.
	resizeMsg struct{ width, height int }

	// lapsSavedMsg reports the outcome of the save command.
	lapsSavedMsg struct {
		path string
		err  error
	}

	// logMsg surfaces a background log record in the status line.
	logMsg struct{ record runtime.LogRecord }
)

// stopwatchApp implements runtime.App and runtime.EventMapper.
type stopwatchApp struct {
	config Config
	clock  clock.Clock
	logger *slog.Logger

	accentStyle lipgloss.Style
	dimStyle    lipgloss.Style
	statusWarn  lipgloss.Style
}

func newStopwatchApp(config Config, clk clock.Clock, logger *slog.Logger) *stopwatchApp {
	return &stopwatchApp{
		config:      config,
		clock:       clk,
		logger:      logger,
		accentStyle: lipgloss.NewStyle().Foreground(lipgloss.Color(config.Theme.Accent)).Bold(true),
		dimStyle:    lipgloss.NewStyle().Foreground(lipgloss.Color(config.Theme.Dim)),
		statusWarn:  lipgloss.NewStyle().Foreground(lipgloss.Color("11")),
	}
}

func (a *stopwatchApp) Init() (model, runtime.Cmd[msg]) {
	return model{status: "ready"}, nil
}

// MapEvent translates raw input into stopwatch messages. Keys outside
// the keymap return ok=false: the event is ignored without an update
// cycle.
func (a *stopwatchApp) MapEvent(m *model, event input.Event) (msg, bool) {
	switch event := event.(type) {
	case input.ResizeEvent:
		return resizeMsg{width: event.Width, height: event.Height}, true
	case input.KeyEvent:
		if event.Ctrl && event.Rune == 'c' {
			return quitMsg{}, true
		}
		if event.Code != input.KeyRune || event.Ctrl {
			return nil, false
		}
		switch event.Rune {
		case ' ':
			return toggleMsg{}, true
		case 'l':
			return lapMsg{}, true
		case 's':
			return saveMsg{}, true
		case 'r':
			return resetMsg{}, true
		case 'q':
			return quitMsg{}, true
		}
	}
	return nil, false
}

func (a *stopwatchApp) Update(m *model, message msg, quit *runtime.Flag) runtime.Cmd[msg] {
	switch message := message.(type) {
	case tickMsg:
		if m.running {
			m.elapsed += message.now.Sub(m.lastTick)
			m.lastTick = message.now
		}

	case toggleMsg:
		m.running = !m.running
		if m.running {
			m.lastTick = a.clock.Now()
			m.status = "running"
		} else {
			m.status = "stopped"
		}
		m.statusLevel = slog.LevelInfo

	case lapMsg:
		m.laps = append(m.laps, m.elapsed)
		m.status = fmt.Sprintf("lap %d recorded", len(m.laps))
		m.statusLevel = slog.LevelInfo

	case saveMsg:
		if len(m.laps) == 0 {
			m.status = "no laps to save"
			m.statusLevel = slog.LevelWarn
			break
		}
		return a.saveLapsCmd(m.laps)

	case resetMsg:
		m.elapsed = 0
		m.laps = nil
		m.lastTick = a.clock.Now()
		m.status = "reset"
		m.statusLevel = slog.LevelInfo

	case quitMsg:
		quit.Raise()

	case resizeMsg:
		m.width = message.width
		m.height = message.height

	case lapsSavedMsg:
		if message.err != nil {
			m.status = fmt.Sprintf("save failed: %v", message.err)
			m.statusLevel = slog.LevelError
		} else {
			m.status = "laps saved to " + message.path
			m.statusLevel = slog.LevelInfo
		}

	case logMsg:
		m.status = message.record.Summary
		m.statusLevel = message.record.Level
	}
	return nil
}

// Subscriptions desires a tick only while the stopwatch runs, so
// toggling start/stop starts and stops the worker through
// reconciliation rather than explicit lifecycle calls.
func (a *stopwatchApp) Subscriptions(m *model) []runtime.Subscription[msg] {
	if !m.running {
		return nil
	}
	return []runtime.Subscription[msg]{
		runtime.Tick[msg]{
			Interval: a.config.TickInterval(),
			Make:     func(now time.Time) msg { return tickMsg{now: now} },
			Clock:    a.clock,
		},
	}
}

// saveLapsCmd writes the laps on a background goroutine and reports
// back with a lapsSavedMsg. The slice is copied first: the command
// must not share memory with the model it left behind.
func (a *stopwatchApp) saveLapsCmd(laps []time.Duration) runtime.Cmd[msg] {
	snapshot := make([]time.Duration, len(laps))
	copy(snapshot, laps)
	path := a.config.LapFile
	logger := a.logger

	return func(send runtime.Sender[msg]) {
		err := writeLapFile(path, snapshot)
		if err != nil {
			logger.Error("writing lap file failed", "path", path, "error", err)
		}
		send.Send(lapsSavedMsg{path: path, err: err})
	}
}

func writeLapFile(path string, laps []time.Duration) error {
	var builder strings.Builder
	for index, lap := range laps {
		fmt.Fprintf(&builder, "lap %d\t%s\n", index+1, formatElapsed(lap))
	}
	return os.WriteFile(path, []byte(builder.String()), 0644)
}

func (a *stopwatchApp) View(frame *terminal.Frame, m *model) {
	var lines []string

	lines = append(lines, a.dimStyle.Render("tide stopwatch"))
	lines = append(lines, "")
	lines = append(lines, a.accentStyle.Render(formatElapsed(m.elapsed)))

	if len(m.laps) > 0 {
		lines = append(lines, "")
		for index, lap := range m.laps {
			lines = append(lines, a.dimStyle.Render(fmt.Sprintf("lap %d", index+1))+"  "+formatElapsed(lap))
		}
	}

	lines = append(lines, "")
	status := m.status
	if m.statusLevel >= slog.LevelWarn {
		status = a.statusWarn.Render(status)
	}
	lines = append(lines, status)
	lines = append(lines, a.dimStyle.Render("space start/stop · l lap · s save · r reset · q quit"))

	frame.SetContent(strings.Join(lines, "\n"))
}

// formatElapsed renders a duration as m:ss.t.
func formatElapsed(elapsed time.Duration) string {
	minutes := int(elapsed.Minutes())
	seconds := int(elapsed.Seconds()) % 60
	tenths := int(elapsed.Milliseconds()/100) % 10
	return fmt.Sprintf("%d:%02d.%d", minutes, seconds, tenths)
}
