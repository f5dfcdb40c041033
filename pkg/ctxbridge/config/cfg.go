// Package config loads and validates ctxbridge configuration.
package config

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"
	"time"

	yaml "gopkg.in/yaml.v3"

	"github.com/rupor-github/gencfg"
)

//go:embed config.yaml.tmpl
var ConfigTmpl []byte

type (
	AttachConfig struct {
		Attempts int           `yaml:"attempts" validate:"min=1,max=20"`
		Delay    time.Duration `yaml:"delay" validate:"gte=0"`
	}

	// RangeConfig is an accepted numeric range plus the value used when a
	// declaration is absent or unparsable.
	RangeConfig struct {
		Min     float64 `yaml:"min"`
		Max     float64 `yaml:"max" validate:"gtefield=Min"`
		Default float64 `yaml:"default"`
	}

	GeometryConfig struct {
		Left   RangeConfig `yaml:"left"`
		Top    RangeConfig `yaml:"top"`
		Width  RangeConfig `yaml:"width"`
		Height RangeConfig `yaml:"height"`
	}

	FontConfig struct {
		Size RangeConfig `yaml:"size"`
	}

	HighlightConfig struct {
		AlphaThreshold float64 `yaml:"alpha_threshold" validate:"gte=0,lte=1"`
	}

	ProcessesConfig struct {
		Word       []string `yaml:"word" validate:"dive,required"`
		Excel      []string `yaml:"excel" validate:"dive,required"`
		PowerPoint []string `yaml:"powerpoint" validate:"dive,required"`
		Hwp        []string `yaml:"hwp" validate:"dive,required"`
	}

	Config struct {
		Version   int             `yaml:"version" validate:"eq=1"`
		Attach    AttachConfig    `yaml:"attach"`
		Geometry  GeometryConfig  `yaml:"geometry"`
		Font      FontConfig      `yaml:"font"`
		Highlight HighlightConfig `yaml:"highlight"`
		Browsers  []string        `yaml:"browsers" validate:"dive,required"`
		Processes ProcessesConfig `yaml:"processes"`
		Logging   LoggingConfig   `yaml:"logging"`
	}
)

func unmarshalConfig(data []byte, cfg *Config, process bool) (*Config, error) {
	// Only fields defined above are accepted
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode configuration data: %w", err)
	}
	if process {
		if err := gencfg.Sanitize(cfg); err != nil {
			return nil, err
		}
		if err := gencfg.Validate(cfg); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

// LoadConfiguration reads the configuration from the file at the given path,
// superimposes its values on top of the expanded configuration template and
// validates the result. An empty path yields the defaults.
func LoadConfiguration(path string, options ...func(*gencfg.ProcessingOptions)) (*Config, error) {
	haveFile := len(path) > 0

	data, err := gencfg.Process(ConfigTmpl, options...)
	if err != nil {
		return nil, fmt.Errorf("failed to process configuration template: %w", err)
	}
	cfg, err := unmarshalConfig(data, &Config{}, !haveFile)
	if err != nil {
		return nil, fmt.Errorf("failed to process configuration template: %w", err)
	}
	if !haveFile {
		return cfg, nil
	}

	data, err = os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	cfg, err = unmarshalConfig(data, cfg, haveFile)
	if err != nil {
		return nil, fmt.Errorf("failed to process configuration file: %w", err)
	}
	return cfg, nil
}

// Default returns the template defaults. It panics if the embedded
// template is broken, which is a build defect.
func Default() *Config {
	cfg, err := LoadConfiguration("")
	if err != nil {
		panic(fmt.Sprintf("embedded configuration is invalid: %v", err))
	}
	return cfg
}

// Dump serialises cfg as yaml.
func Dump(cfg *Config) ([]byte, error) {
	data, err := yaml.Marshal(*cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config to yaml: %v", err)
	}
	return data, nil
}

// Contains reports whether r accepts v.
func (r RangeConfig) Contains(v float64) bool {
	return v >= r.Min && v <= r.Max
}
