package config

import (
	_ "embed"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

//go:embed default.yml
var defaultYAML []byte

// DefaultYAML returns the configuration written on first run.
func DefaultYAML() []byte {
	return append([]byte(nil), defaultYAML...)
}

type Config struct {
	App struct {
		Addr    string `yaml:"addr"`
		DataDir string `yaml:"data_dir"`
	} `yaml:"app"`

	API struct {
		BaseURL string  `yaml:"base_url"`
		MaxRPS  float64 `yaml:"max_rps"`
		Burst   int     `yaml:"burst"`
	} `yaml:"api"`

	Bootstrap struct {
		StepPauseMS  int `yaml:"step_pause_ms"`
		FinalPauseMS int `yaml:"final_pause_ms"`
	} `yaml:"bootstrap"`

	Dashboard struct {
		MessageTTLSeconds int `yaml:"message_ttl_seconds"`
	} `yaml:"dashboard"`

	Log struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
	} `yaml:"log"`
}

func (c Config) StepPause() time.Duration {
	return time.Duration(c.Bootstrap.StepPauseMS) * time.Millisecond
}

func (c Config) FinalPause() time.Duration {
	return time.Duration(c.Bootstrap.FinalPauseMS) * time.Millisecond
}

func (c Config) MessageTTL() time.Duration {
	return time.Duration(c.Dashboard.MessageTTLSeconds) * time.Second
}

// Default parses the embedded defaults.
func Default() Config {
	var cfg Config
	if err := yaml.Unmarshal(defaultYAML, &cfg); err != nil {
		panic("config: embedded default.yml: " + err.Error())
	}
	return cfg
}

// Load reads path on top of the defaults, so keys missing from the user
// file keep their default values.
func Load(path string) (Config, error) {
	cfg := Default()
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	err = yaml.Unmarshal(b, &cfg)
	return cfg, err
}
