package app

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	yaml "gopkg.in/yaml.v3"
)

// FileConfig represents the single-file configuration schema. Nested
// sections map naturally to the flag and env names.
type FileConfig struct {
	Destination string `yaml:"destination" json:"destination"`
	Output      string `yaml:"output" json:"output"`
	OutputPDF   string `yaml:"outputPDF" json:"outputPDF"`

	Wiki struct {
		Base string `yaml:"base" json:"base"`
		UA   string `yaml:"ua" json:"ua"`
	} `yaml:"wiki" json:"wiki"`

	LLM struct {
		BaseURL     string  `yaml:"base" json:"base"`
		Model       string  `yaml:"model" json:"model"`
		APIKey      string  `yaml:"key" json:"key"`
		Temperature float32 `yaml:"temperature" json:"temperature"`
	} `yaml:"llm" json:"llm"`

	Fetch struct {
		// Timeout is a duration string like "20s"; yaml has no native
		// duration scalar.
		Timeout string `yaml:"timeout" json:"timeout"`
	} `yaml:"fetch" json:"fetch"`

	Max struct {
		SectionChars int `yaml:"sectionChars" json:"sectionChars"`
	} `yaml:"max" json:"max"`

	Verbose bool `yaml:"verbose" json:"verbose"`
}

// LoadConfigFile reads YAML or JSON into FileConfig.
func LoadConfigFile(path string) (FileConfig, error) {
	var fc FileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return fc, err
	}
	switch ext := filepath.Ext(path); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(b, &fc); err != nil {
			return fc, fmt.Errorf("parse yaml: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(b, &fc); err != nil {
			return fc, fmt.Errorf("parse json: %w", err)
		}
	default:
		// Try YAML then JSON
		if err := yaml.Unmarshal(b, &fc); err != nil {
			if jerr := json.Unmarshal(b, &fc); jerr != nil {
				return fc, fmt.Errorf("parse config: %v (yaml) / %v (json)", err, jerr)
			}
		}
	}
	return fc, nil
}

// ApplyFileConfig overlays values from FileConfig into cfg for any fields
// still unset or at their flag defaults. Flags should already have been
// parsed; file config supplies defaults without overriding explicit flags.
func ApplyFileConfig(cfg *Config, fc FileConfig) {
	if cfg == nil {
		return
	}
	const (
		outputDefault = "guide.md"
	)

	if cfg.Destination == "" && fc.Destination != "" {
		cfg.Destination = fc.Destination
	}
	if (cfg.OutputPath == "" || cfg.OutputPath == outputDefault) && fc.Output != "" {
		cfg.OutputPath = fc.Output
	}
	if cfg.OutputPDFPath == "" && fc.OutputPDF != "" {
		cfg.OutputPDFPath = fc.OutputPDF
	}

	if cfg.WikiBaseURL == "" && fc.Wiki.Base != "" {
		cfg.WikiBaseURL = fc.Wiki.Base
	}
	if cfg.UserAgent == "" && fc.Wiki.UA != "" {
		cfg.UserAgent = fc.Wiki.UA
	}

	if cfg.LLMBaseURL == "" && fc.LLM.BaseURL != "" {
		cfg.LLMBaseURL = fc.LLM.BaseURL
	}
	if cfg.LLMModel == "" && fc.LLM.Model != "" {
		cfg.LLMModel = fc.LLM.Model
	}
	if cfg.LLMAPIKey == "" && fc.LLM.APIKey != "" {
		cfg.LLMAPIKey = fc.LLM.APIKey
	}
	if cfg.Temperature == 0 && fc.LLM.Temperature > 0 {
		cfg.Temperature = fc.LLM.Temperature
	}

	if cfg.FetchTimeout == 0 && fc.Fetch.Timeout != "" {
		if d, err := time.ParseDuration(fc.Fetch.Timeout); err == nil {
			cfg.FetchTimeout = d
		}
	}
	if cfg.MaxSectionChars == 0 && fc.Max.SectionChars > 0 {
		cfg.MaxSectionChars = fc.Max.SectionChars
	}
	if !cfg.Verbose && fc.Verbose {
		cfg.Verbose = true
	}
}
