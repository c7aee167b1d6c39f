package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"testing"
)

func TestParseLogLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"INFO":    slog.LevelInfo,
		"Warn":    slog.LevelWarn,
		"ERROR":   slog.LevelError,
		"verbose": slog.LevelInfo,
	}
	for in, want := range cases {
		if got := parseLogLevel(in); got != want {
			t.Errorf("parseLogLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestInfoWritesJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := InitWithConfig(LogConfig{Level: "INFO", Format: "json", Output: &buf}); err != nil {
		t.Fatalf("InitWithConfig: %v", err)
	}

	Info(context.Background(), "Fetched source", "source", "investing", "posts", 3)

	var rec map[string]any
	if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
		t.Fatalf("expected one JSON record, got %q: %v", buf.String(), err)
	}
	if rec["msg"] != "Fetched source" {
		t.Errorf("unexpected msg: %v", rec["msg"])
	}
	if rec["source"] != "investing" {
		t.Errorf("unexpected source: %v", rec["source"])
	}
}

func TestDebugRequiresDetailedLogging(t *testing.T) {
	var buf bytes.Buffer
	_ = InitWithConfig(LogConfig{Level: "DEBUG", Format: "text", Output: &buf})

	Debug(context.Background(), "hidden")
	if buf.Len() != 0 {
		t.Fatalf("expected no output without detailed logging, got %q", buf.String())
	}

	_ = InitWithConfig(LogConfig{Level: "DEBUG", Format: "text", DetailedLogging: true, Output: &buf})
	Debug(context.Background(), "shown")
	if !strings.Contains(buf.String(), "shown") {
		t.Fatalf("expected debug output, got %q", buf.String())
	}
	if !strings.Contains(buf.String(), "source.function") {
		t.Errorf("expected caller source in detailed mode, got %q", buf.String())
	}
}

func TestErrorWithErr(t *testing.T) {
	var buf bytes.Buffer
	_ = InitWithConfig(LogConfig{Level: "INFO", Format: "json", Output: &buf})

	ErrorWithErr(context.Background(), "Classification failed", errors.New("model overloaded"), "url", "u1")

	if !strings.Contains(buf.String(), "model overloaded") {
		t.Errorf("expected error text in output, got %q", buf.String())
	}
	if !strings.Contains(buf.String(), `"level":"ERROR"`) {
		t.Errorf("expected ERROR level, got %q", buf.String())
	}
}
