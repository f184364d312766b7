// Package config loads flowcanvas settings from YAML, JSON or TOML files.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/aretw0/flowcanvas/internal/logging"
	"github.com/aretw0/flowcanvas/pkg/domain"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// DefaultPath is the file looked up when no --config flag is given.
const DefaultPath = "flowcanvas.yaml"

// Canvas is the minimum drawing viewport.
type Canvas struct {
	Width  float64 `yaml:"width" json:"width" toml:"width" validate:"gte=0"`
	Height float64 `yaml:"height" json:"height" toml:"height" validate:"gte=0"`
}

// Server configures the HTTP adapter.
type Server struct {
	Port           int      `yaml:"port" json:"port" toml:"port" validate:"gte=0,lte=65535"`
	AllowedOrigins []string `yaml:"allowed_origins" json:"allowed_origins" toml:"allowed_origins"`
}

// Log configures the application logger.
type Log struct {
	Level  string `yaml:"level" json:"level" toml:"level" validate:"omitempty,oneof=debug info warn error DEBUG INFO WARN ERROR"`
	Format string `yaml:"format" json:"format" toml:"format" validate:"omitempty,oneof=text json"`
}

// Config is the whole settings file.
type Config struct {
	Canvas Canvas `yaml:"canvas" json:"canvas" toml:"canvas"`
	Server Server `yaml:"server" json:"server" toml:"server"`
	Log    Log    `yaml:"log" json:"log" toml:"log"`
	// Defaults overrides the initial message of new nodes, keyed by type.
	Defaults map[string]string `yaml:"defaults" json:"defaults" toml:"defaults"`
}

var validate = validator.New()

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Canvas: Canvas{Width: 800, Height: 600},
		Server: Server{Port: 8080, AllowedOrigins: []string{"*"}},
		Log:    Log{Level: "info", Format: string(logging.FormatText)},
	}
}

// Load reads path on top of Default. The format follows the extension:
// .json, .toml, anything else is YAML. A missing file at DefaultPath is not
// an error; a missing explicit path is.
func Load(path string) (Config, error) {
	cfg := Default()
	explicit := path != ""
	if !explicit {
		path = DefaultPath
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && !explicit {
			return cfg, nil
		}
		return cfg, fmt.Errorf("failed to read config: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		if err := json.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse %s: %w", filepath.Base(path), err)
		}
	case ".toml":
		if _, err := toml.Decode(string(data), &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse %s: %w", filepath.Base(path), err)
		}
	default:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse %s: %w", filepath.Base(path), err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate checks ranges and enumerations, including that every Defaults
// key names a node type.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	for k := range c.Defaults {
		if !domain.NodeType(k).Valid() {
			return fmt.Errorf("invalid config: unknown node type %q in defaults", k)
		}
	}
	return nil
}

// DefaultMessages converts Defaults into the form graph.WithDefaultMessages takes.
func (c Config) DefaultMessages() map[domain.NodeType]string {
	if len(c.Defaults) == 0 {
		return nil
	}
	out := make(map[domain.NodeType]string, len(c.Defaults))
	for k, v := range c.Defaults {
		out[domain.NodeType(k)] = v
	}
	return out
}

// Viewport is the canvas size as a point.
func (c Config) Viewport() domain.Point {
	return domain.Point{X: c.Canvas.Width, Y: c.Canvas.Height}
}

// Addr is the listen address for the HTTP server.
func (c Config) Addr() string {
	return fmt.Sprintf(":%d", c.Server.Port)
}
