package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	mserror "github.com/msto63/microscheme/pkg/core/error"
	mslog "github.com/msto63/microscheme/pkg/core/log"
)

// EnvConfigPath names the variable LoadFromEnv reads first
const EnvConfigPath = "MSCHEME_CONFIG"

// Config holds the complete application configuration
type Config struct {
	General GeneralConfig `toml:"general" yaml:"general"`
	REPL    REPLConfig    `toml:"repl" yaml:"repl"`
	Output  OutputConfig  `toml:"output" yaml:"output"`
	Server  ServerConfig  `toml:"server" yaml:"server"`
	Watch   WatchConfig   `toml:"watch" yaml:"watch"`

	path string
}

// GeneralConfig holds logging settings
type GeneralConfig struct {
	LogLevel  string `toml:"log_level" yaml:"log_level"`
	LogFormat string `toml:"log_format" yaml:"log_format"`
}

// REPLConfig holds interactive loop settings
type REPLConfig struct {
	Prompt       string `toml:"prompt" yaml:"prompt"`
	ExitCommand  string `toml:"exit_command" yaml:"exit_command"`
	HistoryPath  string `toml:"history_path" yaml:"history_path"`
	HistoryLimit int    `toml:"history_limit" yaml:"history_limit"`
	Plain        bool   `toml:"plain" yaml:"plain"`
}

// OutputConfig controls what the compiler report prints. Pointers tell an
// explicit false apart from a missing key.
type OutputConfig struct {
	Color    *bool `toml:"color" yaml:"color"`
	ShowTree *bool `toml:"show_tree" yaml:"show_tree"`
	ShowIR   *bool `toml:"show_ir" yaml:"show_ir"`
}

// ServerConfig holds compile service settings
type ServerConfig struct {
	Host             string   `toml:"host" yaml:"host"`
	GRPCPort         int      `toml:"grpc_port" yaml:"grpc_port"`
	HTTPPort         int      `toml:"http_port" yaml:"http_port"`
	EnableReflection bool     `toml:"enable_reflection" yaml:"enable_reflection"`
	ReadTimeout      Duration `toml:"read_timeout" yaml:"read_timeout"`
	WriteTimeout     Duration `toml:"write_timeout" yaml:"write_timeout"`
	MaxSourceBytes   int      `toml:"max_source_bytes" yaml:"max_source_bytes"`

	// CacheSize caps cached compile responses; negative disables the cache
	CacheSize int      `toml:"cache_size" yaml:"cache_size"`
	CacheTTL  Duration `toml:"cache_ttl" yaml:"cache_ttl"`
}

// WatchConfig holds file watch settings
type WatchConfig struct {
	Debounce Duration `toml:"debounce" yaml:"debounce"`
}

// Duration wraps time.Duration for TOML and YAML parsing
type Duration struct {
	time.Duration
}

// UnmarshalText parses a duration string
func (d *Duration) UnmarshalText(text []byte) error {
	var err error
	d.Duration, err = time.ParseDuration(string(text))
	return err
}

// MarshalText formats the duration as a string
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// UnmarshalYAML parses a duration scalar
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	return d.UnmarshalText([]byte(value.Value))
}

// Default returns a configuration with every default applied
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// Load loads configuration from a TOML or YAML file, chosen by extension
func Load(path string) (*Config, error) {
	path = expandPath(path)

	data, err := os.ReadFile(path)
	if err != nil {
		code := mserror.CodeConfigError
		if os.IsNotExist(err) {
			code = mserror.CodeNotFound
		}
		return nil, mserror.Wrap(err, "cannot read config file").
			WithCode(code).
			WithOperation("config.Load").
			WithDetail("path", path)
	}

	var cfg Config
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &cfg)
	default:
		_, err = toml.Decode(string(data), &cfg)
	}
	if err != nil {
		return nil, mserror.Wrap(err, "failed to parse config").
			WithCode(mserror.CodeConfigError).
			WithOperation("config.Load").
			WithDetail("path", path)
	}

	cfg.path = path
	cfg.applyDefaults()
	cfg.applyEnv()
	cfg.expandPaths()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	mslog.GetDefault().Debug("config loaded", mslog.Fields{"path": path})
	return &cfg, nil
}

// LoadFromEnv loads the file named by MSCHEME_CONFIG or the first default
// location that exists. With no file at all the defaults are returned.
func LoadFromEnv() (*Config, error) {
	if path := os.Getenv(EnvConfigPath); path != "" {
		return Load(path)
	}

	for _, p := range DefaultPaths() {
		if _, err := os.Stat(p); err == nil {
			return Load(p)
		}
	}

	cfg := Default()
	cfg.applyEnv()
	cfg.expandPaths()
	return cfg, nil
}

// DefaultPaths lists the locations LoadFromEnv searches, in order
func DefaultPaths() []string {
	paths := []string{
		"./configs/mscheme.toml",
		"./mscheme.toml",
	}
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", "mscheme", "config.toml"))
	}
	return paths
}

// Path returns the file the configuration was loaded from, if any
func (c *Config) Path() string {
	return c.path
}

// applyDefaults sets default values for missing configuration
func (c *Config) applyDefaults() {
	// General
	if c.General.LogLevel == "" {
		c.General.LogLevel = "warn"
	}
	if c.General.LogFormat == "" {
		c.General.LogFormat = "console"
	}

	// REPL
	if c.REPL.Prompt == "" {
		c.REPL.Prompt = ">> "
	}
	if c.REPL.ExitCommand == "" {
		c.REPL.ExitCommand = "exit"
	}
	if c.REPL.HistoryPath == "" {
		c.REPL.HistoryPath = "~/.mscheme/history.db"
	}
	if c.REPL.HistoryLimit == 0 {
		c.REPL.HistoryLimit = 500
	}

	// Output
	if c.Output.Color == nil {
		c.Output.Color = boolPtr(true)
	}
	if c.Output.ShowTree == nil {
		c.Output.ShowTree = boolPtr(true)
	}
	if c.Output.ShowIR == nil {
		c.Output.ShowIR = boolPtr(true)
	}

	// Server
	if c.Server.Host == "" {
		c.Server.Host = "127.0.0.1"
	}
	if c.Server.GRPCPort == 0 {
		c.Server.GRPCPort = 9300
	}
	if c.Server.HTTPPort == 0 {
		c.Server.HTTPPort = 9380
	}
	if c.Server.ReadTimeout.Duration == 0 {
		c.Server.ReadTimeout.Duration = 10 * time.Second
	}
	if c.Server.WriteTimeout.Duration == 0 {
		c.Server.WriteTimeout.Duration = 30 * time.Second
	}
	if c.Server.MaxSourceBytes == 0 {
		c.Server.MaxSourceBytes = 1 << 20
	}
	if c.Server.CacheSize == 0 {
		c.Server.CacheSize = 256
	}
	if c.Server.CacheTTL.Duration == 0 {
		c.Server.CacheTTL.Duration = 5 * time.Minute
	}

	// Watch
	if c.Watch.Debounce.Duration == 0 {
		c.Watch.Debounce.Duration = 300 * time.Millisecond
	}
}

// applyEnv lets MSCHEME_* variables override a few file settings
func (c *Config) applyEnv() {
	if v := os.Getenv("MSCHEME_LOG_LEVEL"); v != "" {
		c.General.LogLevel = v
	}
	if v := os.Getenv("MSCHEME_LOG_FORMAT"); v != "" {
		c.General.LogFormat = v
	}
	if v := os.Getenv("MSCHEME_HISTORY_PATH"); v != "" {
		c.REPL.HistoryPath = v
	}
	if v := os.Getenv("MSCHEME_GRPC_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			c.Server.GRPCPort = port
		}
	}
	if v := os.Getenv("MSCHEME_HTTP_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			c.Server.HTTPPort = port
		}
	}
}

func (c *Config) expandPaths() {
	c.REPL.HistoryPath = expandPath(c.REPL.HistoryPath)
}

// Validate checks values that defaults cannot repair
func (c *Config) Validate() error {
	invalid := func(field string, value interface{}, msg string) error {
		return mserror.New(msg).
			WithCode(mserror.CodeInvalidConfig).
			WithOperation("config.Validate").
			WithDetail("field", field).
			WithDetail("value", value)
	}

	if _, err := mslog.ParseLevel(c.General.LogLevel); err != nil {
		return invalid("general.log_level", c.General.LogLevel, "unknown log level")
	}
	if _, err := mslog.ParseFormat(c.General.LogFormat); err != nil {
		return invalid("general.log_format", c.General.LogFormat, "unknown log format")
	}
	if c.REPL.HistoryLimit < 0 {
		return invalid("repl.history_limit", c.REPL.HistoryLimit, "history limit must not be negative")
	}
	if strings.TrimSpace(c.REPL.ExitCommand) == "" {
		return invalid("repl.exit_command", c.REPL.ExitCommand, "exit command must not be blank")
	}
	for field, port := range map[string]int{"server.grpc_port": c.Server.GRPCPort, "server.http_port": c.Server.HTTPPort} {
		if port < 1 || port > 65535 {
			return invalid(field, port, "port out of range")
		}
	}
	if c.Server.GRPCPort == c.Server.HTTPPort {
		return invalid("server.http_port", c.Server.HTTPPort, "grpc and http ports must differ")
	}
	if c.Server.MaxSourceBytes < 0 {
		return invalid("server.max_source_bytes", c.Server.MaxSourceBytes, "max source bytes must not be negative")
	}
	return nil
}

// GRPCAddress returns host:port of the gRPC listener
func (c *Config) GRPCAddress() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.GRPCPort)
}

// HTTPAddress returns host:port of the HTTP gateway
func (c *Config) HTTPAddress() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.HTTPPort)
}

// expandPath expands environment variables and a leading ~/
func expandPath(path string) string {
	path = os.ExpandEnv(path)
	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			path = filepath.Join(home, strings.TrimPrefix(path, "~"))
		}
	}
	return path
}

func boolPtr(b bool) *bool { return &b }
