package config

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/vango-dev/keyed/internal/errors"
)

const (
	// JSONFileName is the JSON configuration file name.
	JSONFileName = "keyed.json"

	// YAMLFileName is the YAML configuration file name.
	YAMLFileName = "keyed.yaml"

	// DefaultPort is the default server port.
	DefaultPort = 3000

	// DefaultHost is the default server host.
	DefaultHost = "localhost"

	// DefaultNamespace is the default Prometheus namespace.
	DefaultNamespace = "keyed"

	// DefaultMetricsPath is where metrics are served.
	DefaultMetricsPath = "/metrics"

	// DefaultShutdownTimeout bounds graceful shutdown.
	DefaultShutdownTimeout = "5s"

	// DefaultMaxRows caps the number of rows on a board.
	DefaultMaxRows = 1000
)

// Config represents the complete keyed configuration.
type Config struct {
	// Name labels the board in logs, metrics and traces.
	Name string `json:"name,omitempty" yaml:"name,omitempty"`

	// Server contains listener settings.
	Server ServerConfig `json:"server" yaml:"server"`

	// Board contains the demo board settings.
	Board BoardConfig `json:"board" yaml:"board"`

	// Metrics contains Prometheus settings.
	Metrics MetricsConfig `json:"metrics" yaml:"metrics"`

	// Tracing contains OpenTelemetry settings.
	Tracing TracingConfig `json:"tracing" yaml:"tracing"`

	// Log contains logging settings.
	Log LogConfig `json:"log" yaml:"log"`

	// configPath stores the path where the config was loaded from.
	configPath string
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Host string `json:"host,omitempty" yaml:"host,omitempty" validate:"required"`
	Port int    `json:"port,omitempty" yaml:"port,omitempty" validate:"gte=0,lte=65535"`

	// ShutdownTimeout is a duration string such as "5s".
	ShutdownTimeout string `json:"shutdownTimeout,omitempty" yaml:"shutdownTimeout,omitempty" validate:"required"`
}

// BoardConfig contains the initial rows and limits of the demo board.
type BoardConfig struct {
	// Seed lists the labels of the rows present at startup.
	Seed []string `json:"seed,omitempty" yaml:"seed,omitempty" validate:"dive,required"`

	// MaxRows caps the board size. Inserts beyond it are rejected.
	MaxRows int `json:"maxRows,omitempty" yaml:"maxRows,omitempty" validate:"gte=1"`

	// ShuffleSeed seeds the shuffle operation; 0 picks a random seed.
	ShuffleSeed uint64 `json:"shuffleSeed,omitempty" yaml:"shuffleSeed,omitempty"`
}

// MetricsConfig contains Prometheus settings.
type MetricsConfig struct {
	Enabled   bool   `json:"enabled" yaml:"enabled"`
	Namespace string `json:"namespace,omitempty" yaml:"namespace,omitempty" validate:"required_if=Enabled true"`
	Path      string `json:"path,omitempty" yaml:"path,omitempty" validate:"omitempty,startswith=/"`
}

// TracingConfig contains OpenTelemetry settings.
type TracingConfig struct {
	Enabled    bool   `json:"enabled" yaml:"enabled"`
	TracerName string `json:"tracerName,omitempty" yaml:"tracerName,omitempty"`
}

// LogConfig contains logging settings.
type LogConfig struct {
	Level  string `json:"level,omitempty" yaml:"level,omitempty" validate:"oneof=debug info warn error"`
	Format string `json:"format,omitempty" yaml:"format,omitempty" validate:"oneof=text json"`
}

// New creates a new Config with default values.
func New() *Config {
	return &Config{
		Name: "keyed",
		Server: ServerConfig{
			Host:            DefaultHost,
			Port:            DefaultPort,
			ShutdownTimeout: DefaultShutdownTimeout,
		},
		Board: BoardConfig{
			MaxRows: DefaultMaxRows,
		},
		Metrics: MetricsConfig{
			Enabled:   true,
			Namespace: DefaultNamespace,
			Path:      DefaultMetricsPath,
		},
		Tracing: TracingConfig{
			TracerName: "keyed",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load reads configuration from dir, trying keyed.json then keyed.yaml.
func Load(dir string) (*Config, error) {
	for _, name := range []string{JSONFileName, YAMLFileName} {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			return LoadFile(path)
		}
	}
	return nil, errors.New("E302").
		WithDetail("No " + JSONFileName + " or " + YAMLFileName + " found in " + dir).
		WithSuggestion("Run 'keyed init' to write a default configuration")
}

// LoadFile reads configuration from path. The format follows the file
// extension: .yaml and .yml are YAML, everything else is JSON.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New("E302").WithDetail("No configuration at " + path)
		}
		return nil, errors.New("E303").Wrap(err)
	}

	cfg := New()
	if isYAML(path) {
		err = yaml.Unmarshal(data, cfg)
	} else {
		err = json.Unmarshal(data, cfg)
	}
	if err != nil {
		return nil, errors.New("E303").
			WithDetail("Failed to parse " + filepath.Base(path) + ": " + err.Error()).
			WithSuggestion("Check the file syntax")
	}

	cfg.configPath = path
	cfg.applyDefaults()

	return cfg, nil
}

// SaveTo writes the configuration to path, as YAML or JSON by extension.
func (c *Config) SaveTo(path string) error {
	var (
		data []byte
		err  error
	)
	if isYAML(path) {
		data, err = yaml.Marshal(c)
	} else {
		data, err = json.MarshalIndent(c, "", "  ")
		data = append(data, '\n')
	}
	if err != nil {
		return errors.New("E303").Wrap(err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.New("E303").Wrap(err)
	}

	c.configPath = path
	return nil
}

// Path returns the path where the config was loaded from.
func (c *Config) Path() string {
	return c.configPath
}

// applyDefaults fills in default values for empty fields.
func (c *Config) applyDefaults() {
	if c.Name == "" {
		c.Name = "keyed"
	}
	if c.Server.Host == "" {
		c.Server.Host = DefaultHost
	}
	if c.Server.Port == 0 {
		c.Server.Port = DefaultPort
	}
	if c.Server.ShutdownTimeout == "" {
		c.Server.ShutdownTimeout = DefaultShutdownTimeout
	}
	if c.Board.MaxRows == 0 {
		c.Board.MaxRows = DefaultMaxRows
	}
	if c.Metrics.Namespace == "" {
		c.Metrics.Namespace = DefaultNamespace
	}
	if c.Metrics.Path == "" {
		c.Metrics.Path = DefaultMetricsPath
	}
	if c.Tracing.TracerName == "" {
		c.Tracing.TracerName = c.Name
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
}

// ApplyEnv overrides fields from the environment. getenv is usually
// os.Getenv.
func (c *Config) ApplyEnv(getenv func(string) string) error {
	if v := getenv("KEYED_HOST"); v != "" {
		c.Server.Host = v
	}
	if v := getenv("KEYED_PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return errors.New("E301").
				WithDetailf("KEYED_PORT=%q is not a number", v).
				Wrap(err)
		}
		c.Server.Port = port
	}
	if v := getenv("KEYED_LOG_LEVEL"); v != "" {
		c.Log.Level = strings.ToLower(v)
	}
	return nil
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var detail []string
		if fields, ok := err.(validator.ValidationErrors); ok {
			for _, fe := range fields {
				detail = append(detail, describe(fe))
			}
		} else {
			detail = append(detail, err.Error())
		}
		return errors.New("E301").WithDetail(strings.Join(detail, "; "))
	}

	if _, err := time.ParseDuration(c.Server.ShutdownTimeout); err != nil {
		return errors.New("E301").
			WithDetailf("server.shutdownTimeout %q is not a duration", c.Server.ShutdownTimeout)
	}
	return nil
}

func describe(fe validator.FieldError) string {
	if fe.Param() != "" {
		return fmt.Sprintf("%s failed %s=%s", fe.Namespace(), fe.Tag(), fe.Param())
	}
	return fmt.Sprintf("%s failed %s", fe.Namespace(), fe.Tag())
}

// Address returns the listen address.
func (c *Config) Address() string {
	return c.Server.Host + ":" + strconv.Itoa(c.Server.Port)
}

// ShutdownTimeout returns the parsed shutdown timeout, falling back to the
// default on a malformed value.
func (c *Config) ShutdownTimeout() time.Duration {
	d, err := time.ParseDuration(c.Server.ShutdownTimeout)
	if err != nil {
		d, _ = time.ParseDuration(DefaultShutdownTimeout)
	}
	return d
}

// Logger builds the slog logger described by the log settings.
func (c *Config) Logger(w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: c.level()}

	var handler slog.Handler
	if c.Log.Format == "json" {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}
	return slog.New(handler).With("app", c.Name)
}

func (c *Config) level() slog.Level {
	switch c.Log.Level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func isYAML(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}
