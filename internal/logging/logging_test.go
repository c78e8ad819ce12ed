package logging

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestNew(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		cfg  Config
	}{
		{"production", Config{Level: "info"}},
		{"development", Config{Level: "debug", Development: true}},
		{"file output", Config{OutputPaths: []string{filepath.Join(t.TempDir(), "app.log")}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			log, err := New(tt.cfg)
			if err != nil {
				t.Fatalf("New() error = %v", err)
			}
			log.Info("test message", String("k", "v"))
			_ = log.Sync()
		})
	}
}

func TestNew_BadOutputPath(t *testing.T) {
	t.Parallel()

	_, err := New(Config{OutputPaths: []string{filepath.Join(t.TempDir(), "missing", "dir", "app.log")}})
	if err == nil {
		t.Fatal("New() with unwritable output should fail")
	}
}

func TestParseLevel(t *testing.T) {
	t.Parallel()

	tests := map[string]zapcore.Level{
		"debug":   zapcore.DebugLevel,
		"INFO":    zapcore.InfoLevel,
		"warn":    zapcore.WarnLevel,
		"warning": zapcore.WarnLevel,
		" error ": zapcore.ErrorLevel,
		"":        zapcore.InfoLevel,
		"verbose": zapcore.InfoLevel,
	}
	for in, want := range tests {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestNewFromCore(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zapcore.DebugLevel)
	log := NewFromCore(core).With(String("component", "test"))

	log.Debug("d")
	log.Info("i", Int("n", 1))
	log.Warn("w", Bool("b", true))
	log.Error("e", Err(errors.New("boom")), Duration("took", time.Second), Int64("size", 2))

	if logs.Len() != 4 {
		t.Fatalf("logged %d entries, want 4", logs.Len())
	}
	entry := logs.All()[3]
	if entry.Level != zapcore.ErrorLevel || entry.Message != "e" {
		t.Errorf("last entry = %v %q", entry.Level, entry.Message)
	}
	fields := entry.ContextMap()
	if fields["component"] != "test" || fields["error"] != "boom" {
		t.Errorf("fields = %v", fields)
	}
}

func TestNewNop(t *testing.T) {
	t.Parallel()

	log := NewNop()
	log.Debug("debug")
	log.Info("info")
	log.Warn("warn")
	log.Error("error")
	if log.With(String("k", "v")) == nil {
		t.Fatal("With() returned nil")
	}
	_ = log.Sync()
}
