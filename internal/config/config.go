package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/faanross/nebula_stego/internal/seed"
	"github.com/faanross/nebula_stego/internal/spec"
)

// LogConfig controls diagnostic output.
type LogConfig struct {
	Level string `yaml:"level"`
	JSON  bool   `yaml:"json"`
}

// CarrierConfig sizes procedurally generated carriers.
type CarrierConfig struct {
	Width      int `yaml:"width"`       // generated image width (px)
	SampleRate int `yaml:"sample_rate"` // generated audio sample rate (Hz)
}

// Config is the on-disk configuration of the encoder and decoder tools.
type Config struct {
	Log           LogConfig     `yaml:"log"`
	KDFIterations int           `yaml:"kdf_iterations"`
	MinPassword   int           `yaml:"min_password_length"`
	Carrier       CarrierConfig `yaml:"carrier"`
	Lexicon       seed.Lexicon  `yaml:"lexicon"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Log:           LogConfig{Level: "warn"},
		KDFIterations: spec.PBKDF2_ITERS,
		MinPassword:   8,
		Carrier: CarrierConfig{
			Width:      spec.DEFAULT_WIDTH,
			SampleRate: spec.SAMPLE_RATE,
		},
		Lexicon: seed.DefaultLexicon,
	}
}

// Load reads a YAML file on top of the defaults. An empty filename yields the
// defaults. NEBULA_LOG_LEVEL overrides the file's log level.
func Load(filename string) (*Config, error) {
	conf := Default()

	if filename != "" {
		data, err := os.ReadFile(filename)
		if err != nil {
			return nil, fmt.Errorf("reading config: %w", err)
		}
		if err := yaml.Unmarshal(data, conf); err != nil {
			return nil, fmt.Errorf("parsing config %s: %w", filename, err)
		}
	}

	if level := os.Getenv("NEBULA_LOG_LEVEL"); level != "" {
		conf.Log.Level = level
	}

	if err := conf.Validate(); err != nil {
		return nil, err
	}
	return conf, nil
}

// Save writes the configuration as YAML.
func Save(filename string, c *Config) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(filename, data, 0600)
}

// Validate checks ranges and the lexicon.
func (c *Config) Validate() error {
	if c.KDFIterations < spec.MIN_ITERS || c.KDFIterations > spec.MAX_ITERS {
		return fmt.Errorf("kdf_iterations %d outside [%d, %d]", c.KDFIterations, spec.MIN_ITERS, spec.MAX_ITERS)
	}
	if c.MinPassword < 1 {
		return fmt.Errorf("min_password_length must be positive")
	}
	if c.Carrier.Width <= 0 {
		return fmt.Errorf("carrier width must be positive")
	}
	if c.Carrier.SampleRate <= 0 {
		return fmt.Errorf("carrier sample_rate must be positive")
	}
	return c.Lexicon.Validate()
}
