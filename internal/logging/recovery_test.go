package logging

import (
	"bytes"
	"strings"
	"testing"
)

func TestRecoveryHandler_Wrap(t *testing.T) {
	handler := NewRecoveryHandler("test-component")

	executed := false
	handler.Wrap(func() {
		executed = true
	})

	if !executed {
		t.Error("function was not executed")
	}
}

func TestRecoveryHandler_WrapPanic(t *testing.T) {
	var buf bytes.Buffer
	if err := Init(&buf, "info"); err != nil {
		t.Fatal(err)
	}
	defer resetOutput(t)

	handler := NewRecoveryHandler("test-component")

	var capturedErr interface{}
	var capturedStack string

	handler.OnPanic = func(err interface{}, stack string) {
		capturedErr = err
		capturedStack = stack
	}

	handler.Wrap(func() {
		panic("test panic")
	})

	if capturedErr != "test panic" {
		t.Errorf("expected 'test panic', got %v", capturedErr)
	}
	if !strings.Contains(capturedStack, "TestRecoveryHandler_WrapPanic") {
		t.Error("stack trace should contain test function name")
	}
	if !strings.Contains(buf.String(), `"event":"panic_recovered"`) {
		t.Errorf("expected panic_recovered event, got: %s", buf.String())
	}
}

func TestRecoveryHandler_WrapError(t *testing.T) {
	var buf bytes.Buffer
	if err := Init(&buf, "info"); err != nil {
		t.Fatal(err)
	}
	defer resetOutput(t)

	handler := NewRecoveryHandler("test-component")

	err := handler.WrapError(func() error {
		return nil
	})
	if err != nil {
		t.Errorf("expected nil, got %v", err)
	}

	err = handler.WrapError(func() error {
		panic("wrapped panic")
	})
	if err == nil {
		t.Fatal("expected error from panic")
	}
	if !strings.Contains(err.Error(), "wrapped panic") {
		t.Errorf("error should contain panic message, got: %v", err)
	}
}

func TestMust(t *testing.T) {
	val := Must(42, nil)
	if val != 42 {
		t.Errorf("expected 42, got %d", val)
	}

	defer func() {
		if r := recover(); r == nil {
			t.Error("Must should panic on error")
		}
	}()

	Must(0, &testError{"test error"})
}

type testError struct {
	msg string
}

func (e *testError) Error() string {
	return e.msg
}
