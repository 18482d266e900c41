package logging

import (
	"bytes"
	"strings"
	"testing"
)

func TestLogLevelString(t *testing.T) {
	tests := []struct {
		level LogLevel
		want  string
	}{
		{LevelDebug, "DEBUG"},
		{LevelInfo, "INFO"},
		{LevelWarn, "WARN"},
		{LevelError, "ERROR"},
		{LogLevel(42), "UNKNOWN"},
	}

	for _, tt := range tests {
		if got := tt.level.String(); got != tt.want {
			t.Errorf("LogLevel(%d).String() = %q, want %q", tt.level, got, tt.want)
		}
	}
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	InitForCLI(LevelInfo, &buf)

	Debug("Test", "should be filtered")
	Info("Test", "should appear %d", 1)

	out := buf.String()
	if strings.Contains(out, "should be filtered") {
		t.Error("Debug message appeared despite Info filter level")
	}
	if !strings.Contains(out, "should appear 1") {
		t.Errorf("Info message missing from output: %q", out)
	}
	if !strings.Contains(out, "subsystem=Test") {
		t.Errorf("Subsystem attribute missing from output: %q", out)
	}
}

func TestErrorIncludesErrAttribute(t *testing.T) {
	var buf bytes.Buffer
	InitForCLI(LevelDebug, &buf)

	Error("Test", errTest, "operation failed")

	if !strings.Contains(buf.String(), "error=boom") {
		t.Errorf("error attribute missing from output: %q", buf.String())
	}
}

var errTest = errBoom{}

type errBoom struct{}

func (errBoom) Error() string { return "boom" }

func TestTruncateSessionID(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"short", "short"},
		{"12345678", "12345678"},
		{"123456789", "12345678..."},
		{"0c27d1a4-8f63-4a72-9a01-7c2f6f9bb301", "0c27d1a4..."},
	}

	for _, tt := range tests {
		if got := TruncateSessionID(tt.in); got != tt.want {
			t.Errorf("TruncateSessionID(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
