package cli

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gonum.org/v1/plot/vg"
	"gopkg.in/yaml.v3"

	"github.com/rmera/gopic/picplot"
)

// Config holds the plot defaults read from the --config file. Command
// line flags override them.
type Config struct {
	Project string  `yaml:"project"`
	OutDir  string  `yaml:"outdir"`
	Width   float64 `yaml:"width"`  // inches
	Height  float64 `yaml:"height"` // inches
	Log10   bool    `yaml:"log10"`
	MaxLen  int     `yaml:"maxlen"`
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() *Config {
	return &Config{
		OutDir: ".",
		Width:  9,
		Height: 7,
		Log10:  true,
		MaxLen: picplot.DefaultMaxLen,
	}
}

// LoadConfig reads the YAML file at path over the defaults. An empty path
// gives the defaults. Unknown keys are an error.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks that the configuration can be used.
func (c *Config) Validate() error {
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("plot size must be positive, got %gx%g", c.Width, c.Height)
	}
	if c.MaxLen < 0 {
		return fmt.Errorf("maxlen must not be negative, got %d", c.MaxLen)
	}
	return nil
}

// PlotOptions returns the picplot options for the configuration.
func (c *Config) PlotOptions() []picplot.Option {
	return []picplot.Option{
		picplot.Project(c.Project),
		picplot.OutDir(c.OutDir),
		picplot.Size(vg.Length(c.Width)*vg.Inch, vg.Length(c.Height)*vg.Inch),
		picplot.Log10(c.Log10),
		picplot.MaxLen(c.MaxLen),
	}
}
