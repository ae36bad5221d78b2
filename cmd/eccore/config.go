package main

import (
	"fmt"
	"os"

	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"
)

// Config holds the settings shared by every command.  Values come from
// DefaultConfig, then the YAML file named by --config, then flags.
type Config struct {
	// Curve is the preset curve name.
	Curve string `yaml:"curve"`

	// Hash overrides the preset's message hash (sha256, sha384, sha512).
	Hash string `yaml:"hash"`

	// Compressed selects compressed SEC1 output for public keys.
	Compressed bool `yaml:"compressed"`

	// LogLevel is the minimum log level.
	LogLevel string `yaml:"log_level"`

	// Pretty enables human-readable console logs.
	Pretty bool `yaml:"pretty"`
}

// DefaultConfig returns the built in defaults.
func DefaultConfig() *Config {
	return &Config{
		Curve:      "secp256k1",
		Compressed: true,
		LogLevel:   "warn",
	}
}

// loadConfig overlays the YAML file at path onto cfg.  Keys missing from
// the file keep their current values.
func loadConfig(cfg *Config, path string) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config: %w", err)
	}
	if err := yaml.Unmarshal(b, cfg); err != nil {
		return fmt.Errorf("parsing config %s: %w", path, err)
	}
	return nil
}

// applyFlags copies the flags the user actually set onto cfg.
func applyFlags(cfg *Config, fs *pflag.FlagSet) error {
	var err error
	fs.Visit(func(f *pflag.Flag) {
		if err != nil {
			return
		}
		switch f.Name {
		case "curve":
			cfg.Curve = f.Value.String()
		case "hash":
			cfg.Hash = f.Value.String()
		case "compressed":
			cfg.Compressed, err = fs.GetBool("compressed")
		case "log-level":
			cfg.LogLevel = f.Value.String()
		case "pretty":
			cfg.Pretty, err = fs.GetBool("pretty")
		}
	})
	return err
}
