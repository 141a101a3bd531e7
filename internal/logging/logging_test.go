package logging

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"
)

func TestParseLevel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      string
		want    slog.Level
		wantErr bool
	}{
		{"", slog.LevelInfo, false},
		{"debug", slog.LevelDebug, false},
		{" WARNING ", slog.LevelWarn, false},
		{"warn", slog.LevelWarn, false},
		{"err", slog.LevelError, false},
		{"verbose", slog.LevelInfo, true},
	}

	for _, tt := range tests {
		got, err := ParseLevel(tt.in)
		if (err != nil) != tt.wantErr {
			t.Fatalf("ParseLevel(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
		}
		if got != tt.want {
			t.Fatalf("ParseLevel(%q) = %s, want %s", tt.in, got, tt.want)
		}
	}
}

func TestParseFormat(t *testing.T) {
	t.Parallel()

	if f, err := ParseFormat("JSON"); err != nil || f != FormatJSON {
		t.Fatalf("ParseFormat(JSON) = %s, %v", f, err)
	}
	if f, err := ParseFormat(""); err != nil || f != FormatText {
		t.Fatalf("ParseFormat(\"\") = %s, %v", f, err)
	}
	if _, err := ParseFormat("xml"); err == nil {
		t.Fatal("ParseFormat(xml) error = nil")
	}
}

func TestTextHandlerLine(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := New(FormatText, &buf, slog.LevelDebug).
		With("component", "lifecycle").
		WithGroup("vm").
		With("name", "termina")

	logger.Debug("bus call finished",
		"elapsed", 1500*time.Millisecond,
		"error", errors.New("no reply"),
		"owner", "",
	)

	line := buf.String()
	if !strings.HasPrefix(line, "DEBUG ") || !strings.HasSuffix(line, "\n") {
		t.Fatalf("line = %q", line)
	}
	for _, want := range []string{
		"| bus call finished",
		" component=lifecycle",
		" vm.name=termina",
		" vm.elapsed=1.5s",
		` vm.error="no reply"`,
		` vm.owner=""`,
	} {
		if !strings.Contains(line, want) {
			t.Fatalf("line %q missing %q", line, want)
		}
	}
}

func TestTextHandlerRespectsLevel(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	var level slog.LevelVar
	level.Set(slog.LevelWarn)
	logger := New(FormatText, &buf, &level)

	logger.Info("hidden")
	if buf.Len() != 0 {
		t.Fatalf("info record written at warn level: %q", buf.String())
	}

	level.Set(slog.LevelInfo)
	logger.Info("shown")
	if !strings.Contains(buf.String(), "shown") {
		t.Fatalf("info record missing after level change: %q", buf.String())
	}
}

func TestJSONFormat(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	New(FormatJSON, &buf, nil).Info("vm started", "vm", "termina")

	var record map[string]any
	if err := json.Unmarshal(buf.Bytes(), &record); err != nil {
		t.Fatalf("output is not JSON: %v: %q", err, buf.String())
	}
	if record["msg"] != "vm started" || record["vm"] != "termina" {
		t.Fatalf("record = %v", record)
	}
}

func TestEnsure(t *testing.T) {
	t.Parallel()

	if Ensure(nil) != slog.Default() {
		t.Fatal("Ensure(nil) did not return the default logger")
	}
	logger := Discard()
	if Ensure(logger) != logger {
		t.Fatal("Ensure(logger) replaced a non-nil logger")
	}
}
