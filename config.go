package main

import (
	"errors"
	"fmt"
	"math/bits"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	"fourier-lowpass/lowpass"
)

// Config is the driver configuration, read from an optional YAML file and
// overridden by command line flags.
type Config struct {
	Input           string  `yaml:"input"`
	Output          string  `yaml:"output"`
	WindowSize      int     `yaml:"window_size"`
	Cutoff          int     `yaml:"cutoff"`
	CutoffHz        float64 `yaml:"cutoff_hz"` // takes precedence over cutoff when > 0
	Strategy        string  `yaml:"strategy"`
	SmoothingPeriod int     `yaml:"smoothing_period"`
	Mask            string  `yaml:"mask"`
	Backend         string  `yaml:"backend"`
	Workers         int     `yaml:"workers"`
	Trim            bool    `yaml:"trim"`
	ReportDir       string  `yaml:"report_dir"`
	Verbose         bool    `yaml:"verbose"`
}

// DefaultConfig mirrors lowpass.DefaultConfig and trims the padding tail.
func DefaultConfig() Config {
	d := lowpass.DefaultConfig()
	return Config{
		WindowSize:      d.WindowSize,
		Cutoff:          d.Cutoff,
		Strategy:        d.Strategy.String(),
		SmoothingPeriod: d.SmoothingPeriod,
		Mask:            d.Mask.String(),
		Backend:         d.Backend.String(),
		Workers:         d.Workers,
		Trim:            true,
	}
}

// LoadConfig reads a YAML configuration file on top of the defaults.
func LoadConfig(filename string) (*Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	return &config, nil
}

// Validate checks the settings that do not depend on the input file.
func (c *Config) Validate() error {
	if c.Input == "" {
		return errors.New("input file not specified")
	}
	if c.WindowSize <= 0 || bits.OnesCount(uint(c.WindowSize)) != 1 {
		return fmt.Errorf("window size must be a power of two, got %d", c.WindowSize)
	}
	if c.CutoffHz < 0 {
		return fmt.Errorf("cutoff frequency must not be negative, got %.1f", c.CutoffHz)
	}
	if _, err := c.FilterConfig(0); err != nil {
		return err
	}
	return nil
}

// FilterConfig resolves the pipeline configuration for a file at
// sampleRate. A cutoff in Hz is converted to the first discarded bin.
func (c *Config) FilterConfig(sampleRate int) (lowpass.Config, error) {
	strategy, err := lowpass.ParseStrategy(c.Strategy)
	if err != nil {
		return lowpass.Config{}, err
	}
	mask, err := lowpass.ParseMaskMode(c.Mask)
	if err != nil {
		return lowpass.Config{}, err
	}
	backend, err := lowpass.ParseBackend(c.Backend)
	if err != nil {
		return lowpass.Config{}, err
	}

	cutoff := c.Cutoff
	if c.CutoffHz > 0 {
		// Unresolved until the sample rate is known.
		cutoff = 0
		if sampleRate > 0 {
			cutoff = lowpass.BinForFrequency(c.CutoffHz, sampleRate, c.WindowSize)
		}
	}

	cfg := lowpass.Config{
		WindowSize:      c.WindowSize,
		Cutoff:          cutoff,
		Strategy:        strategy,
		SmoothingPeriod: c.SmoothingPeriod,
		Mask:            mask,
		Backend:         backend,
		Workers:         c.Workers,
		Trim:            c.Trim,
	}
	return cfg, cfg.Validate()
}

// parseCommandLine handles command line arguments. Values from --config are
// loaded first; flags given explicitly win over the file.
func parseCommandLine(args []string) (*Config, error) {
	cfg := DefaultConfig()
	var configFile string

	fs := pflag.NewFlagSet("fourier-lowpass", pflag.ContinueOnError)
	fs.StringVarP(&cfg.Input, "input", "i", cfg.Input, "Input audio file (mono WAV)")
	fs.StringVarP(&cfg.Output, "output", "o", cfg.Output, "Output audio file (filtered)")
	fs.IntVarP(&cfg.WindowSize, "window", "w", cfg.WindowSize, "Window size in samples (power of two)")
	fs.IntVarP(&cfg.Cutoff, "cutoff", "c", cfg.Cutoff, "Cutoff bin index; bins at and above it are discarded")
	fs.Float64Var(&cfg.CutoffHz, "cutoff-hz", cfg.CutoffHz, "Cutoff frequency in Hz (overrides --cutoff)")
	fs.StringVarP(&cfg.Strategy, "strategy", "s", cfg.Strategy, "Seam reconstruction (overlap-add, smooth, none)")
	fs.IntVar(&cfg.SmoothingPeriod, "smooth-period", cfg.SmoothingPeriod, "Moving average period in samples for --strategy=smooth")
	fs.StringVar(&cfg.Mask, "mask", cfg.Mask, "Bin mask (above-cutoff, symmetric)")
	fs.StringVar(&cfg.Backend, "backend", cfg.Backend, "FFT backend (gonum, godsp)")
	fs.IntVar(&cfg.Workers, "workers", cfg.Workers, "Number of goroutines filtering windows")
	fs.BoolVar(&cfg.Trim, "trim", cfg.Trim, "Trim the zero padding so output length equals input length")
	fs.StringVar(&cfg.ReportDir, "report", cfg.ReportDir, "Directory for the before/after analysis report (empty = none)")
	fs.BoolVarP(&cfg.Verbose, "verbose", "v", cfg.Verbose, "Show detailed process information")
	fs.StringVar(&configFile, "config", "", "YAML configuration file")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	if configFile != "" {
		data, err := os.ReadFile(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
		// Re-apply the explicit flags on top of the file.
		if err := fs.Parse(args); err != nil {
			return nil, err
		}
	}

	cfg.resolvePaths()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// resolvePaths puts bare file names under ./data and derives the output
// name from the input when none is given.
func (c *Config) resolvePaths() {
	if c.Input == "" {
		return
	}
	if isBareName(c.Input) {
		c.Input = filepath.Join("./data", c.Input)
	}

	if c.Output == "" {
		ext := filepath.Ext(c.Input)
		base := filepath.Base(c.Input[:len(c.Input)-len(ext)])
		c.Output = filepath.Join(filepath.Dir(c.Input), base+"_lowpass"+ext)
	} else if isBareName(c.Output) {
		c.Output = filepath.Join("./data", c.Output)
	}
}

func isBareName(path string) bool {
	return !filepath.IsAbs(path) && !strings.HasPrefix(path, "./") && !strings.HasPrefix(path, "../")
}
