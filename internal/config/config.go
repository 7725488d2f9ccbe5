// Package config loads the settings of a training run.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"os"

	"gopkg.in/yaml.v3"
)

// Config captures the runtime knobs for a training run.
// An empty Dataset trains on XOR. A zero TargetLoss trains for all epochs.
type Config struct {
	HiddenSize         int     `yaml:"hidden_size"`
	LearningRate       float64 `yaml:"learning_rate"`
	Epochs             int     `yaml:"epochs"`
	LogEvery           int     `yaml:"log_every"`
	Seed               int64   `yaml:"seed"`
	Dataset            string  `yaml:"dataset"`
	NumInputs          int     `yaml:"num_inputs"`
	HasHeader          bool    `yaml:"has_header"`
	Normalize          bool    `yaml:"normalize"`
	TargetLoss         float64 `yaml:"target_loss"`
	CSVLog             string  `yaml:"csv_log"`
	BoundaryPNG        string  `yaml:"boundary_png"`
	BoundaryResolution int     `yaml:"boundary_resolution"`
}

// Default returns the XOR demo settings: 4 hidden units, rate 0.5 and
// 10000 epochs logged every 1000.
func Default() *Config {
	return &Config{
		HiddenSize:         4,
		LearningRate:       0.5,
		Epochs:             10000,
		LogEvery:           1000,
		BoundaryResolution: 50,
	}
}

// Overrides captures CLI supplied values.
type Overrides struct {
	HiddenSize   int
	LearningRate float64
	Epochs       int
	LogEvery     int
	Seed         int64
	Dataset      string
	NumInputs    int
	CSVLog       string
	BoundaryPNG  string
}

// Load reads a Config from YAML on top of Default. It does not validate, so
// CLI overrides can fill in missing values; call Validate once they are applied.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}
	defer f.Close()

	cfg, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}

// Parse decodes YAML from r on top of Default. Unknown keys are rejected.
func Parse(r io.Reader) (*Config, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	cfg := Default()
	if len(bytes.TrimSpace(data)) == 0 {
		return cfg, nil
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyOverrides updates c using any non-zero override.
func (c *Config) ApplyOverrides(o Overrides) {
	if o.HiddenSize > 0 {
		c.HiddenSize = o.HiddenSize
	}
	if o.LearningRate > 0 {
		c.LearningRate = o.LearningRate
	}
	if o.Epochs > 0 {
		c.Epochs = o.Epochs
	}
	if o.LogEvery > 0 {
		c.LogEvery = o.LogEvery
	}
	if o.Seed != 0 {
		c.Seed = o.Seed
	}
	if o.Dataset != "" {
		c.Dataset = o.Dataset
	}
	if o.NumInputs > 0 {
		c.NumInputs = o.NumInputs
	}
	if o.CSVLog != "" {
		c.CSVLog = o.CSVLog
	}
	if o.BoundaryPNG != "" {
		c.BoundaryPNG = o.BoundaryPNG
	}
}

// Validate verifies the config is runnable.
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}
	if c.HiddenSize <= 0 {
		return fmt.Errorf("hidden_size must be > 0 (got %d)", c.HiddenSize)
	}
	if !(c.LearningRate > 0) || math.IsInf(c.LearningRate, 0) {
		return fmt.Errorf("learning_rate must be a positive finite number (got %v)", c.LearningRate)
	}
	if c.Epochs <= 0 {
		return fmt.Errorf("epochs must be > 0 (got %d)", c.Epochs)
	}
	if c.LogEvery < 0 {
		return fmt.Errorf("log_every must be >= 0 (got %d)", c.LogEvery)
	}
	if c.Dataset != "" && c.NumInputs <= 0 {
		return fmt.Errorf("num_inputs must be > 0 when dataset is set (got %d)", c.NumInputs)
	}
	if c.TargetLoss < 0 {
		return fmt.Errorf("target_loss must be >= 0 (got %v)", c.TargetLoss)
	}
	if c.BoundaryPNG != "" && c.BoundaryResolution <= 0 {
		return fmt.Errorf("boundary_resolution must be > 0 (got %d)", c.BoundaryResolution)
	}
	return nil
}
