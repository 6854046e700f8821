// Package config holds the settings for the guessing-game program, which can come from a JSON
// or YAML file as well as from the command line.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	yaml "gopkg.in/yaml.v3"
)

// Config is the full set of program settings.
type Config struct {
	// SelfTest runs the registered self-tests before the game.
	SelfTest bool `yaml:"selfTest"`

	// StopOnFailure ends the self-test run at the first failing test.
	StopOnFailure bool `yaml:"stopOnFailure"`

	// Backend names the self-test backend: "section", "padded", or empty for the platform
	// default.
	Backend string `yaml:"backend"`

	// Seed for the random numbers; zero means seed from the clock.
	Seed int64 `yaml:"seed"`

	// Numbers is how many values the program picks.
	Numbers int `yaml:"numbers"`

	// MaxValue bounds the picked values to [0, MaxValue).
	MaxValue int `yaml:"maxValue"`

	// MaxTries is how many guesses the player gets.
	MaxTries int `yaml:"maxTries"`
}

var ErrInvalid = errors.New("invalid configuration")

// Default returns the settings used when nothing else is given.
func Default() Config {
	return Config{
		Numbers:  10,
		MaxValue: 25,
		MaxTries: 10,
	}
}

// Load reads a JSON or YAML file over the defaults and validates the result.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %q: %w", path, err)
	}
	return Parse(data)
}

// Parse reads JSON or YAML data over the defaults and validates the result. Since JSON is a
// subset of YAML, both go through the YAML decoder. Unknown keys are an error, and empty data
// gives the defaults.
func Parse(data []byte) (Config, error) {
	c := Default()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&c); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("error parsing config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// Validate checks that the game settings make sense.
func (c Config) Validate() error {
	switch {
	case c.Numbers < 1:
		return fmt.Errorf("%w: numbers must be at least 1, got %d", ErrInvalid, c.Numbers)
	case c.MaxValue < 1:
		return fmt.Errorf("%w: maxValue must be at least 1, got %d", ErrInvalid, c.MaxValue)
	case c.MaxTries < 1:
		return fmt.Errorf("%w: maxTries must be at least 1, got %d", ErrInvalid, c.MaxTries)
	}
	return nil
}
