package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config represents the top-level funterm.yaml configuration.
type Config struct {
	// Constants lists extra named constants added to the registry at
	// startup, on top of DefaultConstants.
	Constants []string `yaml:"constants,omitempty"`

	// Aliases maps a name as written (pname) to the canonical constant
	// name it stands for, e.g. "==": "=".
	Aliases map[string]string `yaml:"aliases,omitempty"`

	// Operators declares extra infix operators with their binding power.
	// Higher binds tighter. Values must be between 1 and 99.
	Operators map[string]int `yaml:"operators,omitempty"`

	// Server configures the gRPC term service.
	Server ServerConfig `yaml:"server"`

	// Store configures the SQLite registry store.
	Store StoreConfig `yaml:"store"`

	// Log configures the slog handler used by the CLI and server.
	Log LogConfig `yaml:"log"`

	// Display sets default options for rendering terms.
	Display DisplayConfig `yaml:"display"`
}

// ServerConfig holds the gRPC listener settings.
type ServerConfig struct {
	// Address is the listen address. Defaults to ":7411".
	Address string `yaml:"address,omitempty"`

	// Reflection registers the gRPC reflection service so tools such as
	// grpcurl can discover TermService.
	Reflection bool `yaml:"reflection,omitempty"`

	// MetricsAddress, when set, serves Prometheus metrics over HTTP at
	// /metrics on this address.
	MetricsAddress string `yaml:"metrics_address,omitempty"`

	// MaxTermSize bounds the size (node count) of terms accepted over RPC.
	// Zero means the default of 100000.
	MaxTermSize int `yaml:"max_term_size,omitempty"`
}

// StoreConfig holds the registry database settings.
type StoreConfig struct {
	// Path is the SQLite database file. ":memory:" keeps it in memory.
	// Defaults to "funterm.db".
	Path string `yaml:"path,omitempty"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	// Level is one of debug, info, warn, error. Defaults to info.
	Level string `yaml:"level,omitempty"`
}

// DisplayConfig holds rendering defaults.
type DisplayConfig struct {
	// Unicode renders operators with their unicode names (∧, ⇒, ...).
	Unicode bool `yaml:"unicode,omitempty"`

	// ShowTypes appends type handles to variables and constants.
	ShowTypes bool `yaml:"show_types,omitempty"`
}

const (
	DefaultAddress     = ":7411"
	DefaultMaxTermSize = 100000
	DefaultStorePath   = "funterm.db"
	DefaultLogLevel    = "info"
)

var (
	identPattern    = regexp.MustCompile(`^[_$a-zA-Z][_a-zA-Z0-9]*[?]?$`)
	operatorPattern = regexp.MustCompile(`^[-+*/=<>!&|^%~?@#\\:]+$`)
)

// Default returns a configuration with all defaults applied.
func Default() *Config {
	cfg := &Config{}
	cfg.setDefaults()
	return cfg
}

// LoadConfig reads and parses a funterm.yaml file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}
	return ParseConfig(data, path)
}

// ParseConfig parses funterm.yaml content from bytes.
// The path argument is used only for error messages.
func ParseConfig(data []byte, path string) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if err := cfg.validate(path); err != nil {
		return nil, err
	}
	cfg.setDefaults()
	return &cfg, nil
}

// FindConfig searches for funterm.yaml starting from dir and walking up
// to parent directories. Returns an empty path and nil error if none is found.
func FindConfig(dir string) (string, error) {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolving directory: %w", err)
	}

	for {
		for _, name := range ConfigFileNames {
			candidate := filepath.Join(dir, name)
			if _, err := os.Stat(candidate); err == nil {
				return candidate, nil
			}
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", nil
		}
		dir = parent
	}
}

// validate checks the configuration for semantic errors.
func (c *Config) validate(path string) error {
	for i, name := range c.Constants {
		if !isConstantSpelling(name) {
			return fmt.Errorf("%s: constants[%d]: %q is not a valid constant name", path, i, name)
		}
	}

	for pname, name := range c.Aliases {
		if !isConstantSpelling(pname) {
			return fmt.Errorf("%s: aliases: %q is not a valid name", path, pname)
		}
		if !isConstantSpelling(name) {
			return fmt.Errorf("%s: aliases[%s]: %q is not a valid constant name", path, pname, name)
		}
		if pname == name {
			return fmt.Errorf("%s: aliases[%s]: alias of itself", path, pname)
		}
	}

	for op, power := range c.Operators {
		if !isConstantSpelling(op) {
			return fmt.Errorf("%s: operators: %q is not a valid operator name", path, op)
		}
		if power < 1 || power >= NamePower {
			return fmt.Errorf("%s: operators[%s]: precedence %d out of range 1..%d", path, op, power, NamePower-1)
		}
	}

	if c.Server.MaxTermSize < 0 {
		return fmt.Errorf("%s: server.max_term_size must not be negative", path)
	}

	switch strings.ToLower(c.Log.Level) {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("%s: log.level: unknown level %q", path, c.Log.Level)
	}

	return nil
}

// setDefaults fills in default values for optional fields.
func (c *Config) setDefaults() {
	if c.Server.Address == "" {
		c.Server.Address = DefaultAddress
	}
	if c.Server.MaxTermSize == 0 {
		c.Server.MaxTermSize = DefaultMaxTermSize
	}
	if c.Store.Path == "" {
		c.Store.Path = DefaultStorePath
	}
	if c.Log.Level == "" {
		c.Log.Level = DefaultLogLevel
	}
	c.Log.Level = strings.ToLower(c.Log.Level)
}

func isConstantSpelling(name string) bool {
	return identPattern.MatchString(name) || operatorPattern.MatchString(name)
}
