package logging

import (
	"bytes"
	"io"
	"strings"
	"testing"

	mslog "github.com/msto63/microscheme/pkg/core/log"
)

func TestNewLogger(t *testing.T) {
	tests := []struct {
		name      string
		cfg       LoggerConfig
		wantLevel mslog.Level
	}{
		{"defaults", DefaultLoggerConfig("mscheme"), mslog.LevelWarn},
		{"debug", LoggerConfig{Name: "x", Level: "debug", Format: "text"}, mslog.LevelDebug},
		{"bad level falls back", LoggerConfig{Name: "x", Level: "shout"}, mslog.LevelWarn},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger := NewLogger(tt.cfg)
			if got := logger.GetLevel(); got != tt.wantLevel {
				t.Errorf("GetLevel() = %v, want %v", got, tt.wantLevel)
			}
		})
	}
}

func TestNewLogger_AdditionalOutputs(t *testing.T) {
	var primary, extra bytes.Buffer
	logger := NewLogger(LoggerConfig{
		Name:              "mscheme",
		Level:             "info",
		Format:            "text",
		Output:            &primary,
		AdditionalOutputs: []io.Writer{&extra},
	})

	logger.Info("hello")

	for name, buf := range map[string]*bytes.Buffer{"primary": &primary, "extra": &extra} {
		if !strings.Contains(buf.String(), "hello") {
			t.Errorf("%s output = %q, want it to contain hello", name, buf.String())
		}
	}
}

func TestLogger_KeyValues(t *testing.T) {
	var buf bytes.Buffer
	base := NewLogger(LoggerConfig{Level: "debug", Format: "logfmt", Output: &buf})
	logger := Wrap(base, "grpc")

	logger.Info("request", "method", "/microscheme.v1.Compiler/Compile", "status", "OK", "dangling")

	out := buf.String()
	for _, want := range []string{
		"logger=grpc",
		`method="/microscheme.v1.Compiler/Compile"`,
		`status="OK"`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "dangling") {
		t.Errorf("odd trailing key should be dropped:\n%s", out)
	}
	if logger.Name() != "grpc" {
		t.Errorf("Name() = %q, want grpc", logger.Name())
	}
}

func TestToFields(t *testing.T) {
	tests := []struct {
		name string
		in   []interface{}
		want int
	}{
		{"empty", nil, 0},
		{"pairs", []interface{}{"a", 1, "b", 2}, 2},
		{"non-string key skipped", []interface{}{1, "x", "b", 2}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := len(toFields(tt.in...)); got != tt.want {
				t.Errorf("len(toFields()) = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestNew_UsesDefaultLogger(t *testing.T) {
	var buf bytes.Buffer
	prev := mslog.GetDefault()
	mslog.SetDefault(mslog.NewWithConfig(mslog.Config{Level: mslog.LevelDebug, Format: mslog.FormatText, Output: &buf}))
	defer mslog.SetDefault(prev)

	New("watch").Debug("tick", "path", "a.scm")

	if !strings.Contains(buf.String(), "{watch} tick") {
		t.Errorf("output = %q, want named entry", buf.String())
	}
}
