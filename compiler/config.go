package compiler

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// Config selects and tunes a Compiler.
type Config struct {
	// Dialect names the target database; see Dialects.
	Dialect string `yaml:"dialect"`
	// PlaceholderOffset is the number of parameters already bound ahead of
	// the compiled SQL. The first placeholder is numbered offset+1.
	PlaceholderOffset int `yaml:"placeholder_offset"`
	// Debug enables the debug logger.
	Debug bool `yaml:"debug"`
}

// ParseConfig decodes a YAML config. Unknown keys are an error.
func ParseConfig(data []byte) (Config, error) {
	var cfg Config
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadConfig reads and decodes the YAML config at path.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("load config: %w", err)
	}
	return ParseConfig(data)
}

// Validate checks that the dialect is registered and the offset is usable.
func (c Config) Validate() error {
	if c.Dialect == "" {
		return fmt.Errorf("config: dialect is required")
	}
	if _, err := Lookup(c.Dialect); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if c.PlaceholderOffset < 0 {
		return fmt.Errorf("config: placeholder_offset must be non-negative, got %d", c.PlaceholderOffset)
	}
	return nil
}
