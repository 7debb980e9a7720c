// Package config handles objtool configuration loading and management.
package config

import (
	"fmt"

	"github.com/Faultbox/objmesh/internal/model"
	"github.com/Faultbox/objmesh/pkg/encoding"
	"github.com/Faultbox/objmesh/pkg/obj"
)

// Config holds all objtool settings.
type Config struct {
	Parse   ParseConfig   `yaml:"parse"`
	Emit    EmitConfig    `yaml:"emit"`
	Logging LoggingConfig `yaml:"logging"`
}

// ParseConfig holds OBJ parsing settings.
type ParseConfig struct {
	Policy   string `yaml:"policy"`   // strict | lenient
	Encoding string `yaml:"encoding"` // source charset, utf-8 by default
}

// EmitConfig holds buffer emission settings.
type EmitConfig struct {
	Mode              string            `yaml:"mode"` // indexed | expanded
	Barycentric       bool              `yaml:"barycentric"`
	MaterialID        uint32            `yaml:"material_id"`
	MaterialAttribute bool              `yaml:"material_attribute"`
	Materials         map[string]uint32 `yaml:"materials"` // usemtl name -> id
	Workers           int               `yaml:"workers"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Parse: ParseConfig{
			Policy:   "strict",
			Encoding: "utf-8",
		},
		Emit: EmitConfig{
			Mode:    "indexed",
			Workers: 1,
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}

// Validate checks enum values and combinations.
func (c *Config) Validate() error {
	if _, err := obj.ParsePolicy(c.Parse.Policy); err != nil {
		return err
	}
	if _, err := encoding.Lookup(c.Parse.Encoding); err != nil {
		return err
	}
	mode, err := model.ParseMode(c.Emit.Mode)
	if err != nil {
		return err
	}
	if c.Emit.Barycentric && mode != model.Expanded {
		return fmt.Errorf("emit.barycentric needs emit.mode expanded, got %q", c.Emit.Mode)
	}
	if c.Emit.Workers < 0 {
		return fmt.Errorf("emit.workers must not be negative, got %d", c.Emit.Workers)
	}
	return nil
}

// ParseOptions converts the parse section to obj options. Call Validate first.
func (c *Config) ParseOptions() obj.Options {
	policy, _ := obj.ParsePolicy(c.Parse.Policy)
	return obj.Options{
		Policy:   policy,
		Encoding: c.Parse.Encoding,
	}
}

// EmitOptions converts the emit section to model options. Call Validate first.
func (c *Config) EmitOptions() model.EmitOptions {
	mode, _ := model.ParseMode(c.Emit.Mode)
	return model.EmitOptions{
		Mode:              mode,
		Barycentric:       c.Emit.Barycentric,
		MaterialID:        c.Emit.MaterialID,
		Materials:         c.Emit.Materials,
		MaterialAttribute: c.Emit.MaterialAttribute,
		Workers:           c.Emit.Workers,
	}
}
