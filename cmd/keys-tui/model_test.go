package main

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/cwbudde/algo-keys/keyboard"
)

type stoppedTimer struct{}

func (stoppedTimer) Stop() bool { return true }

// frozenClock never fires, so highlights stay put during a test.
type frozenClock struct{}

func (frozenClock) AfterFunc(time.Duration, func()) keyboard.Timer { return stoppedTimer{} }

func press(t *testing.T, m model, key string) model {
	t.Helper()
	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)})
	return next.(model)
}

func newTestModel(t *testing.T) model {
	t.Helper()
	ctrl := keyboard.NewController(keyboard.Options{Clock: frozenClock{}})
	if err := ctrl.Mount(); err != nil {
		t.Fatalf("Mount: %v", err)
	}
	t.Cleanup(func() { _ = ctrl.Unmount() })
	return newModel(ctrl)
}

func TestNoteForKey(t *testing.T) {
	cases := []struct {
		key    string
		octave int
		want   string
	}{
		{"a", 4, "C4"},
		{"j", 4, "B4"},
		{"k", 4, "C5"},
		{"w", 4, "C#4"},
		{"u", 5, "A#5"},
	}
	for _, tc := range cases {
		got, ok := noteForKey(tc.key, tc.octave)
		if !ok || got != tc.want {
			t.Fatalf("noteForKey(%q, %d) = %q, %v; want %q", tc.key, tc.octave, got, ok, tc.want)
		}
	}
	for _, tc := range []struct {
		key    string
		octave int
	}{{"m", 4}, {"k", 5}, {"a", 6}} {
		if id, ok := noteForKey(tc.key, tc.octave); ok {
			t.Fatalf("noteForKey(%q, %d) = %q, want no note", tc.key, tc.octave, id)
		}
	}
}

func TestKeyPressHighlightsNote(t *testing.T) {
	m := press(t, newTestModel(t), "e")
	if m.state.ActiveID != "D#4" {
		t.Fatalf("active = %q, want D#4", m.state.ActiveID)
	}
	if !m.state.Degraded {
		t.Fatalf("controller without opener should be degraded")
	}
	view := m.View()
	if !strings.Contains(view, "D#4") || !strings.Contains(view, "silent mode") {
		t.Fatalf("view missing expected content:\n%s", view)
	}
}

func TestOctaveShiftAndOffKeyboard(t *testing.T) {
	m := newTestModel(t)
	m = press(t, m, "x")
	m = press(t, m, "x")
	if m.octave != highestOctave {
		t.Fatalf("octave = %d", m.octave)
	}
	m = press(t, m, "g")
	if m.state.ActiveID != "G5" {
		t.Fatalf("active = %q, want G5", m.state.ActiveID)
	}
	m = press(t, m, "k")
	if m.lastErr != "" || m.state.ActiveID != "G5" {
		t.Fatalf("key above the keyboard should be ignored: err=%q active=%q", m.lastErr, m.state.ActiveID)
	}
	m = press(t, m, "z")
	m = press(t, m, "z")
	if m.octave != lowestOctave {
		t.Fatalf("octave = %d", m.octave)
	}
}

type heldTimer struct{ stopped bool }

func (h *heldTimer) Stop() bool {
	was := !h.stopped
	h.stopped = true
	return was
}

// heldClock queues timer callbacks until fire is called.
type heldClock struct {
	funcs  []func()
	timers []*heldTimer
}

func (c *heldClock) AfterFunc(_ time.Duration, f func()) keyboard.Timer {
	tm := &heldTimer{}
	c.funcs = append(c.funcs, f)
	c.timers = append(c.timers, tm)
	return tm
}

func (c *heldClock) fire(i int) {
	if !c.timers[i].stopped {
		c.timers[i].stopped = true
		c.funcs[i]()
	}
}

func TestRefreshReadsControllerState(t *testing.T) {
	clock := &heldClock{}
	ctrl := keyboard.NewController(keyboard.Options{Clock: clock})
	if err := ctrl.Mount(); err != nil {
		t.Fatalf("Mount: %v", err)
	}
	t.Cleanup(func() { _ = ctrl.Unmount() })
	m := newModel(ctrl)

	m = press(t, m, "a")
	m = press(t, m, "d")
	if m.state.ActiveID != "E4" {
		t.Fatalf("active = %q, want E4", m.state.ActiveID)
	}

	// C4's timer clears the highlight. The notifications for E4 and for idle
	// may be delivered in either order; both must leave the view idle.
	clock.fire(0)
	for i := 0; i < 2; i++ {
		next, _ := m.Update(refreshMsg{})
		m = next.(model)
		if m.state.ActiveID != "" {
			t.Fatalf("refresh %d: active = %q, want idle", i, m.state.ActiveID)
		}
	}

	m = press(t, m, "g")
	next, _ := m.Update(refreshMsg{})
	if got := next.(model).state.ActiveID; got != "G4" {
		t.Fatalf("late refresh rolled back state: active = %q, want G4", got)
	}
}

func TestQuitKeys(t *testing.T) {
	m := newTestModel(t)
	for _, k := range []tea.KeyMsg{{Type: tea.KeyCtrlC}, {Type: tea.KeyRunes, Runes: []rune("q")}} {
		if _, cmd := m.Update(k); cmd == nil {
			t.Fatalf("%v should quit", k)
		}
	}
}

func TestBlackRowAlignment(t *testing.T) {
	row := renderBlackRow("")
	if !strings.Contains(row, "C#4") || !strings.Contains(row, "A#5") {
		t.Fatalf("black row missing keys: %q", row)
	}
	if got := pad("C4", 5); got != " C4  " {
		t.Fatalf("pad = %q", got)
	}
}
