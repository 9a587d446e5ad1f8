package playground

import (
	"fmt"
	"os"

	"github.com/germanamz/steerlab/pkg/goodfire"
	"gopkg.in/yaml.v3"
)

// Config is the optional run configuration. Every field has a default, so a
// missing config file is not an error.
type Config struct {
	BaseURL   string `yaml:"base_url"`
	BaseModel string `yaml:"base_model"`
	OutputDir string `yaml:"output_dir"`
	LogDir    string `yaml:"log_dir"`
	TopK      int    `yaml:"top_k"`
}

// DefaultConfig returns the configuration used when no file is present.
func DefaultConfig() Config {
	return Config{
		BaseURL:   goodfire.DefaultBaseURL,
		BaseModel: "meta-llama/Llama-3.3-70B-Instruct",
		OutputDir: "output",
		LogDir:    "logs",
		TopK:      defaultTopK,
	}
}

// LoadConfig reads a YAML file over the defaults. A missing file (or empty
// path) yields the defaults. Environment variables referenced as ${VAR} or
// $VAR in the YAML are expanded before parsing.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path) //nolint:gosec // path is caller-provided configuration, not user input
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("playground: load config: %w", err)
	}

	expanded := os.ExpandEnv(string(data))

	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return Config{}, fmt.Errorf("playground: parse config: %w", err)
	}

	return cfg, nil
}
