package logging

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"strings"
	"testing"
	"time"
)

func resetOutput(t *testing.T) {
	t.Helper()
	if err := Init(os.Stderr, "info"); err != nil {
		t.Fatal(err)
	}
}

func captureEvents(t *testing.T, lvl string, fn func()) []Event {
	t.Helper()

	var buf bytes.Buffer
	if err := Init(&buf, lvl); err != nil {
		t.Fatalf("init: %v", err)
	}
	defer resetOutput(t)

	fn()

	var events []Event
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var e Event
		if err := json.Unmarshal([]byte(line), &e); err != nil {
			t.Fatalf("failed to parse output as JSON: %v (line: %s)", err, line)
		}
		events = append(events, e)
	}
	return events
}

func TestLoggerCreation(t *testing.T) {
	logger := New("test-component")

	if logger.component != "test-component" {
		t.Errorf("expected component 'test-component', got '%s'", logger.component)
	}
}

func TestLoggerWithSession(t *testing.T) {
	logger := New("component").WithSession("2026-10-15").WithRequest("req-1")

	if logger.session != "2026-10-15" {
		t.Errorf("expected session '2026-10-15', got '%s'", logger.session)
	}
	if logger.requestID != "req-1" {
		t.Errorf("expected request 'req-1', got '%s'", logger.requestID)
	}
}

func TestInfoEvent(t *testing.T) {
	events := captureEvents(t, "info", func() {
		New("game").WithSession("s1").Info("attempt", map[string]interface{}{
			"input":   "builtins.map",
			"success": false,
		})
	})

	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}
	e := events[0]
	if e.Level != LevelInfo {
		t.Errorf("expected level 'info', got '%s'", e.Level)
	}
	if e.Component != "game" {
		t.Errorf("expected component 'game', got '%s'", e.Component)
	}
	if e.Event != "attempt" {
		t.Errorf("expected event 'attempt', got '%s'", e.Event)
	}
	if e.Session != "s1" {
		t.Errorf("expected session 's1', got '%s'", e.Session)
	}
	if e.Extra["input"] != "builtins.map" {
		t.Errorf("expected extra input, got %v", e.Extra)
	}
	if _, err := time.Parse(time.RFC3339, e.Timestamp); err != nil {
		t.Errorf("timestamp not RFC3339: %q", e.Timestamp)
	}
}

func TestErrorEvent(t *testing.T) {
	events := captureEvents(t, "info", func() {
		New("lockfile").Error("save_failed", nil, errors.New("disk full"))
	})

	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}
	if events[0].Level != LevelError {
		t.Errorf("expected level 'error', got '%s'", events[0].Level)
	}
	if events[0].Error != "disk full" {
		t.Errorf("expected error 'disk full', got '%s'", events[0].Error)
	}
}

func TestLevelFiltering(t *testing.T) {
	events := captureEvents(t, "warn", func() {
		l := New("x")
		l.Debug("hidden", nil)
		l.Info("hidden", nil)
		l.Warn("shown", nil, nil)
	})

	if len(events) != 1 || events[0].Event != "shown" {
		t.Errorf("expected only the warn event, got %+v", events)
	}
}

func TestTimedEvent(t *testing.T) {
	events := captureEvents(t, "info", func() {
		New("server").TimedEvent("request", time.Now().Add(-1500*time.Millisecond), nil)
	})

	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}
	if events[0].Duration < 1500 {
		t.Errorf("expected duration >= 1500ms, got %d", events[0].Duration)
	}
}

func TestSetLevelInvalid(t *testing.T) {
	if err := SetLevel("loud"); err == nil {
		t.Error("expected error for invalid level")
	}
}
