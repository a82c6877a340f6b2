package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	mserror "github.com/msto63/microscheme/pkg/core/error"
)

func TestDuration_UnmarshalText(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected time.Duration
		wantErr  bool
	}{
		{"seconds", "30s", 30 * time.Second, false},
		{"milliseconds", "250ms", 250 * time.Millisecond, false},
		{"complex", "1m30s", 90 * time.Second, false},
		{"invalid", "soon", 0, true},
		{"empty", "", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var d Duration
			err := d.UnmarshalText([]byte(tt.input))

			if (err != nil) != tt.wantErr {
				t.Errorf("UnmarshalText() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if !tt.wantErr && d.Duration != tt.expected {
				t.Errorf("UnmarshalText() = %v, want %v", d.Duration, tt.expected)
			}
		})
	}
}

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.REPL.Prompt != ">> " {
		t.Errorf("REPL.Prompt = %q, want %q", cfg.REPL.Prompt, ">> ")
	}
	if cfg.REPL.ExitCommand != "exit" {
		t.Errorf("REPL.ExitCommand = %q, want exit", cfg.REPL.ExitCommand)
	}
	if cfg.REPL.HistoryLimit != 500 {
		t.Errorf("REPL.HistoryLimit = %d, want 500", cfg.REPL.HistoryLimit)
	}
	if !*cfg.Output.Color || !*cfg.Output.ShowTree || !*cfg.Output.ShowIR {
		t.Error("output flags should default to true")
	}
	if cfg.Server.GRPCPort != 9300 || cfg.Server.HTTPPort != 9380 {
		t.Errorf("ports = %d/%d, want 9300/9380", cfg.Server.GRPCPort, cfg.Server.HTTPPort)
	}
	if cfg.Server.CacheSize != 256 || cfg.Server.CacheTTL.Duration != 5*time.Minute {
		t.Errorf("cache = %d/%v, want 256/5m", cfg.Server.CacheSize, cfg.Server.CacheTTL.Duration)
	}
	if cfg.Watch.Debounce.Duration != 300*time.Millisecond {
		t.Errorf("Watch.Debounce = %v, want 300ms", cfg.Watch.Debounce.Duration)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() error = %v", err)
	}
}

func TestLoad_TOML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "mscheme.toml")
	content := `
[general]
log_level = "debug"

[repl]
prompt = "scheme> "
history_limit = 50

[output]
color = false

[server]
grpc_port = 7000
http_port = 7001
read_timeout = "2s"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.General.LogLevel != "debug" {
		t.Errorf("General.LogLevel = %q, want debug", cfg.General.LogLevel)
	}
	if cfg.REPL.Prompt != "scheme> " {
		t.Errorf("REPL.Prompt = %q, want %q", cfg.REPL.Prompt, "scheme> ")
	}
	if cfg.REPL.HistoryLimit != 50 {
		t.Errorf("REPL.HistoryLimit = %d, want 50", cfg.REPL.HistoryLimit)
	}
	if *cfg.Output.Color {
		t.Error("Output.Color = true, want explicit false kept")
	}
	if !*cfg.Output.ShowIR {
		t.Error("Output.ShowIR should default to true")
	}
	if cfg.Server.ReadTimeout.Duration != 2*time.Second {
		t.Errorf("Server.ReadTimeout = %v, want 2s", cfg.Server.ReadTimeout.Duration)
	}
	if cfg.GRPCAddress() != "127.0.0.1:7000" {
		t.Errorf("GRPCAddress() = %q, want 127.0.0.1:7000", cfg.GRPCAddress())
	}
	if cfg.Path() != path {
		t.Errorf("Path() = %q, want %q", cfg.Path(), path)
	}
}

func TestLoad_YAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "mscheme.yaml")
	content := `
general:
  log_format: json
watch:
  debounce: 50ms
output:
  show_tree: false
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.General.LogFormat != "json" {
		t.Errorf("General.LogFormat = %q, want json", cfg.General.LogFormat)
	}
	if cfg.Watch.Debounce.Duration != 50*time.Millisecond {
		t.Errorf("Watch.Debounce = %v, want 50ms", cfg.Watch.Debounce.Duration)
	}
	if *cfg.Output.ShowTree {
		t.Error("Output.ShowTree = true, want false")
	}
}

func TestLoad_Errors(t *testing.T) {
	dir := t.TempDir()

	broken := filepath.Join(dir, "broken.toml")
	if err := os.WriteFile(broken, []byte("[general\nlog_level="), 0o644); err != nil {
		t.Fatal(err)
	}
	badLevel := filepath.Join(dir, "level.toml")
	if err := os.WriteFile(badLevel, []byte("[general]\nlog_level = \"loud\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name     string
		path     string
		wantCode mserror.Code
	}{
		{"missing file", filepath.Join(dir, "nope.toml"), mserror.CodeNotFound},
		{"syntax error", broken, mserror.CodeConfigError},
		{"invalid value", badLevel, mserror.CodeInvalidConfig},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(tt.path)
			if err == nil {
				t.Fatal("Load() error = nil, want error")
			}
			if !mserror.HasCode(err, tt.wantCode) {
				t.Errorf("Load() error code = %v, want %v", mserror.GetCode(err), tt.wantCode)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults", func(*Config) {}, false},
		{"bad format", func(c *Config) { c.General.LogFormat = "xml" }, true},
		{"negative history", func(c *Config) { c.REPL.HistoryLimit = -1 }, true},
		{"blank exit", func(c *Config) { c.REPL.ExitCommand = "  " }, true},
		{"port range", func(c *Config) { c.Server.GRPCPort = 70000 }, true},
		{"same ports", func(c *Config) { c.Server.HTTPPort = c.Server.GRPCPort }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			if err := cfg.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestLoadFromEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "custom.toml")
	if err := os.WriteFile(path, []byte("[repl]\nexit_command = \"quit\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	t.Setenv(EnvConfigPath, path)
	t.Setenv("MSCHEME_LOG_LEVEL", "error")

	cfg, err := LoadFromEnv()
	if err != nil {
		t.Fatalf("LoadFromEnv() error = %v", err)
	}
	if cfg.REPL.ExitCommand != "quit" {
		t.Errorf("REPL.ExitCommand = %q, want quit", cfg.REPL.ExitCommand)
	}
	if cfg.General.LogLevel != "error" {
		t.Errorf("General.LogLevel = %q, want error from env", cfg.General.LogLevel)
	}
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}
	t.Setenv("MSCHEME_TEST_DIR", "/srv/data")

	tests := []struct {
		in   string
		want string
	}{
		{"~/.mscheme/history.db", filepath.Join(home, ".mscheme/history.db")},
		{"$MSCHEME_TEST_DIR/h.db", "/srv/data/h.db"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := expandPath(tt.in); got != tt.want {
				t.Errorf("expandPath(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
