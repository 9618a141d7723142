// Package config provides configuration management.
//
// Configuration files may be written in JSON, YAML or HCL; the format is
// chosen by file extension. HCL files can reference the variables home and
// cwd and call env("NAME") to read the environment.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/multierr"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"

	"tollgrid/core/source"
	"tollgrid/internal/errors"
	"tollgrid/internal/logging"
)

// Environment variables overriding file settings
const (
	EnvPricesDir = "TOLLGRID_PRICES_DIR"
	EnvLogLevel  = "TOLLGRID_LOG_LEVEL"
)

// DefaultYear is the year assumed for price files whose name has none
const DefaultYear = 2019

// Config is the main application configuration
type Config struct {
	// Version is the configuration version
	Version string `json:"version" yaml:"version"`

	// Prices locates the price lists and the alias table
	Prices PricesConfig `json:"prices" yaml:"prices"`

	// Output contains output configuration
	Output OutputConfig `json:"output" yaml:"output"`

	// Server contains HTTP server configuration
	Server ServerConfig `json:"server" yaml:"server"`

	// Logging contains logging configuration
	Logging logging.Config `json:"logging" yaml:"logging"`
}

// PricesConfig contains price list locations
type PricesConfig struct {
	// FlatDir holds flat price files
	FlatDir string `json:"flat_dir" yaml:"flat_dir" hcl:"flat_dir,optional"`

	// MatrixDir holds car/ and motorcycle/ matrix files
	MatrixDir string `json:"matrix_dir" yaml:"matrix_dir" hcl:"matrix_dir,optional"`

	// TriangleDir holds car/ and motorcycle/ triangle files
	TriangleDir string `json:"triangle_dir" yaml:"triangle_dir" hcl:"triangle_dir,optional"`

	// AliasFile is the station alias table
	AliasFile string `json:"alias_file" yaml:"alias_file" hcl:"alias_file,optional"`

	// Encoding is the character set of text price files
	Encoding string `json:"encoding" yaml:"encoding" hcl:"encoding,optional"`

	// DefaultYear applies to files whose name does not start with a year
	DefaultYear int `json:"default_year" yaml:"default_year" hcl:"default_year,optional"`
}

// OutputConfig contains output-related settings
type OutputConfig struct {
	// File is where build-matrix writes the rebuilt toll document
	File string `json:"file" yaml:"file" hcl:"file,optional"`

	// Format is the report format (text, json)
	Format string `json:"format" yaml:"format" hcl:"format,optional"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	// Addr is the listen address
	Addr string `json:"addr" yaml:"addr" hcl:"addr,optional"`

	// ShutdownTimeoutSeconds bounds graceful shutdown
	ShutdownTimeoutSeconds int `json:"shutdown_timeout_seconds" yaml:"shutdown_timeout_seconds" hcl:"shutdown_timeout_seconds,optional"`
}

// Default returns a default configuration
func Default() *Config {
	return &Config{
		Version: "1.0",
		Prices: PricesConfig{
			FlatDir:     filepath.Join("prices", "flat"),
			MatrixDir:   filepath.Join("prices", "matrix"),
			TriangleDir: filepath.Join("prices", "triangle"),
			AliasFile:   filepath.Join("prices", "alias.csv"),
			Encoding:    "utf-8",
			DefaultYear: DefaultYear,
		},
		Output: OutputConfig{
			File:   "out.json",
			Format: "text",
		},
		Server: ServerConfig{
			Addr:                   ":8080",
			ShutdownTimeoutSeconds: 10,
		},
		Logging: logging.DefaultConfig(),
	}
}

// Load loads configuration from a file. A missing file yields the defaults.
// Environment overrides are applied in both cases.
func Load(path string) (*Config, error) {
	config := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := decode(path, data, config); err != nil {
				return nil, err
			}
		case os.IsNotExist(err):
			logging.Debug("config file not found, using defaults")
		default:
			return nil, errors.IO("cannot read config "+path, err)
		}
	}

	config.ApplyEnv()
	return config, nil
}

func decode(path string, data []byte, config *Config) error {
	var err error
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, config)
	case ".hcl":
		err = decodeHCL(path, data, config)
	default:
		err = json.Unmarshal(data, config)
	}
	if err != nil {
		return errors.Wrap(errors.TypeConfig, "cannot parse config "+path, err)
	}
	return nil
}

// ApplyEnv applies environment variable overrides
func (c *Config) ApplyEnv() {
	if dir := os.Getenv(EnvPricesDir); dir != "" {
		c.SetPricesDir(dir)
	}
	if level := os.Getenv(EnvLogLevel); level != "" {
		c.Logging.Level = level
	}
}

// SetPricesDir points every price location at the standard layout under dir
func (c *Config) SetPricesDir(dir string) {
	c.Prices.FlatDir = filepath.Join(dir, "flat")
	c.Prices.MatrixDir = filepath.Join(dir, "matrix")
	c.Prices.TriangleDir = filepath.Join(dir, "triangle")
	c.Prices.AliasFile = filepath.Join(dir, "alias.csv")
}

// Validate reports every invalid setting at once
func (c *Config) Validate() error {
	var err error
	required := []struct{ name, value string }{
		{"prices.flat_dir", c.Prices.FlatDir},
		{"prices.matrix_dir", c.Prices.MatrixDir},
		{"prices.triangle_dir", c.Prices.TriangleDir},
		{"prices.alias_file", c.Prices.AliasFile},
		{"server.addr", c.Server.Addr},
	}
	for _, field := range required {
		if strings.TrimSpace(field.value) == "" {
			err = multierr.Append(err, fmt.Errorf("%s must be set", field.name))
		}
	}

	if _, decErr := (source.Options{Encoding: c.Prices.Encoding}).Decoder(); decErr != nil {
		err = multierr.Append(err, fmt.Errorf("prices.encoding: %w", decErr))
	}
	if c.Prices.DefaultYear < 1900 || c.Prices.DefaultYear > 9999 {
		err = multierr.Append(err, fmt.Errorf("prices.default_year %d out of range", c.Prices.DefaultYear))
	}
	switch c.Output.Format {
	case "text", "json":
	default:
		err = multierr.Append(err, fmt.Errorf("output.format %q must be text or json", c.Output.Format))
	}
	if _, levelErr := zapcore.ParseLevel(c.Logging.Level); levelErr != nil {
		err = multierr.Append(err, fmt.Errorf("logging.level: %w", levelErr))
	}

	if err != nil {
		return errors.Wrap(errors.TypeConfig, "invalid configuration", err)
	}
	return nil
}

// Save saves configuration to a file in the format implied by its extension
func (c *Config) Save(path string) error {
	// Ensure directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return errors.IO("cannot create "+dir, err)
	}

	var data []byte
	var err error
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		data, err = yaml.Marshal(c)
	case ".hcl":
		data = encodeHCL(c)
	default:
		data, err = json.MarshalIndent(c, "", "  ")
	}
	if err != nil {
		return errors.Internal("cannot encode config", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.IO("cannot write "+path, err)
	}
	return nil
}

// Global configuration instance
var globalConfig = Default()

// Get returns the global configuration
func Get() *Config {
	return globalConfig
}

// Set sets the global configuration
func Set(config *Config) {
	globalConfig = config
}
