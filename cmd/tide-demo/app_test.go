// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/bureau-foundation/tide/lib/clock"
	"github.com/bureau-foundation/tide/lib/input"
	"github.com/bureau-foundation/tide/lib/runtime"
	"github.com/bureau-foundation/tide/lib/terminal"
)

func newTestApp(t *testing.T, config Config, clk clock.Clock) *stopwatchApp {
	t.Helper()
	return newStopwatchApp(config, clk, slog.New(slog.DiscardHandler))
}

func TestMapEventKeymap(t *testing.T) {
	app := newTestApp(t, defaultConfig(), clock.Fake(time.Unix(0, 0)))
	model := model{}

	tests := []struct {
		name    string
		event   input.Event
		want    msg
		deliver bool
	}{
		{"space toggles", input.KeyEvent{Code: input.KeyRune, Rune: ' '}, toggleMsg{}, true},
		{"l laps", input.KeyEvent{Code: input.KeyRune, Rune: 'l'}, lapMsg{}, true},
		{"s saves", input.KeyEvent{Code: input.KeyRune, Rune: 's'}, saveMsg{}, true},
		{"r resets", input.KeyEvent{Code: input.KeyRune, Rune: 'r'}, resetMsg{}, true},
		{"q quits", input.KeyEvent{Code: input.KeyRune, Rune: 'q'}, quitMsg{}, true},
		{"ctrl+c quits", input.KeyEvent{Code: input.KeyRune, Rune: 'c', Ctrl: true}, quitMsg{}, true},
		{"resize", input.ResizeEvent{Width: 40, Height: 10}, resizeMsg{width: 40, height: 10}, true},
		{"unmapped rune ignored", input.KeyEvent{Code: input.KeyRune, Rune: 'x'}, nil, false},
		{"arrow key ignored", input.KeyEvent{Code: input.KeyUp}, nil, false},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			got, deliver := app.MapEvent(&model, test.event)
			if deliver != test.deliver {
				t.Fatalf("deliver = %v, expected %v", deliver, test.deliver)
			}
			if deliver && got != test.want {
				t.Errorf("msg = %#v, expected %#v", got, test.want)
			}
		})
	}
}

func TestUpdateToggleAndTick(t *testing.T) {
	fake := clock.Fake(time.Unix(100, 0))
	app := newTestApp(t, defaultConfig(), fake)
	model := model{}
	var quit runtime.Flag

	app.Update(&model, toggleMsg{}, &quit)
	if !model.running {
		t.Fatal("stopwatch not running after toggle")
	}

	// A tick one second later advances elapsed by one second.
	app.Update(&model, tickMsg{now: time.Unix(101, 0)}, &quit)
	if model.elapsed != time.Second {
		t.Errorf("elapsed = %v, expected 1s", model.elapsed)
	}

	// Ticks while stopped are ignored.
	app.Update(&model, toggleMsg{}, &quit)
	app.Update(&model, tickMsg{now: time.Unix(105, 0)}, &quit)
	if model.elapsed != time.Second {
		t.Errorf("elapsed after stopped tick = %v, expected 1s", model.elapsed)
	}
	if quit.Raised() {
		t.Error("quit raised without a quit message")
	}
}

func TestUpdateQuitRaisesFlag(t *testing.T) {
	app := newTestApp(t, defaultConfig(), clock.Fake(time.Unix(0, 0)))
	model := model{}
	var quit runtime.Flag

	app.Update(&model, quitMsg{}, &quit)
	if !quit.Raised() {
		t.Error("quit flag not raised")
	}
}

func TestUpdateResetClearsState(t *testing.T) {
	app := newTestApp(t, defaultConfig(), clock.Fake(time.Unix(0, 0)))
	model := model{elapsed: 5 * time.Second, laps: []time.Duration{time.Second}}
	var quit runtime.Flag

	app.Update(&model, resetMsg{}, &quit)
	if model.elapsed != 0 {
		t.Errorf("elapsed = %v, expected 0", model.elapsed)
	}
	if len(model.laps) != 0 {
		t.Errorf("laps = %v, expected none", model.laps)
	}
}

func TestSubscriptionsFollowRunningState(t *testing.T) {
	app := newTestApp(t, defaultConfig(), clock.Fake(time.Unix(0, 0)))

	stopped := model{}
	if subs := app.Subscriptions(&stopped); len(subs) != 0 {
		t.Errorf("subscriptions while stopped = %d, expected 0", len(subs))
	}

	running := model{running: true}
	subs := app.Subscriptions(&running)
	if len(subs) != 1 {
		t.Fatalf("subscriptions while running = %d, expected 1", len(subs))
	}
	tick, ok := subs[0].(runtime.Tick[msg])
	if !ok {
		t.Fatalf("subscription is %T, expected runtime.Tick", subs[0])
	}
	if tick.Interval != defaultConfig().TickInterval() {
		t.Errorf("tick interval = %v, expected %v", tick.Interval, defaultConfig().TickInterval())
	}
}

func TestWriteLapFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "laps.txt")
	laps := []time.Duration{61_300 * time.Millisecond, 90 * time.Second}

	if err := writeLapFile(path, laps); err != nil {
		t.Fatalf("writeLapFile: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading lap file: %v", err)
	}
	content := string(data)
	if !strings.Contains(content, "lap 1\t1:01.3") {
		t.Errorf("lap file missing first lap, got:\n%s", content)
	}
	if !strings.Contains(content, "lap 2\t1:30.0") {
		t.Errorf("lap file missing second lap, got:\n%s", content)
	}
}

func TestUpdateSaveWithNoLapsWarns(t *testing.T) {
	app := newTestApp(t, defaultConfig(), clock.Fake(time.Unix(0, 0)))
	model := model{}
	var quit runtime.Flag

	if cmd := app.Update(&model, saveMsg{}, &quit); cmd != nil {
		t.Error("expected no save command without laps")
	}
	if model.statusLevel < slog.LevelWarn {
		t.Errorf("statusLevel = %v, expected warning", model.statusLevel)
	}
}

func TestViewRendersElapsedAndHelp(t *testing.T) {
	app := newTestApp(t, defaultConfig(), clock.Fake(time.Unix(0, 0)))
	model := model{elapsed: 61_300 * time.Millisecond, status: "running"}

	frame := terminal.NewFrame(80, 24)
	app.View(frame, &model)

	content := frame.Content()
	if !strings.Contains(content, "1:01.3") {
		t.Errorf("view missing elapsed time, got:\n%s", content)
	}
	if !strings.Contains(content, "running") {
		t.Errorf("view missing status line, got:\n%s", content)
	}
	if !strings.Contains(content, "q quit") {
		t.Errorf("view missing help line, got:\n%s", content)
	}
}
