package config

import (
	"os"

	"gopkg.in/yaml.v3"

	"github.com/lmarek/carbonbox/internal/boxmodel"
)

const (
	DefaultReleaseRate = 0.01
	DefaultBurialRate  = 0.005
	DefaultTempFactor  = 0.02
	DefaultInitRock    = 1000.0
	DefaultInitAtmo    = 300.0
	DefaultSteps       = 500
)

type Config struct {
	ReleaseRate float64 `yaml:"release_rate"`
	BurialRate  float64 `yaml:"burial_rate"`
	TempFactor  float64 `yaml:"temp_factor"`
	InitRock    float64 `yaml:"init_rock"`
	InitAtmo    float64 `yaml:"init_atmo"`
	Steps       int     `yaml:"steps"`
	DataDir     string  `yaml:"data_dir"`
}

func DefaultConfig() *Config {
	return &Config{
		ReleaseRate: DefaultReleaseRate,
		BurialRate:  DefaultBurialRate,
		TempFactor:  DefaultTempFactor,
		InitRock:    DefaultInitRock,
		InitAtmo:    DefaultInitAtmo,
		Steps:       DefaultSteps,
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Params converts the file representation into the model's value object.
func (c *Config) Params() boxmodel.Params {
	return boxmodel.Params{
		ReleaseRate: c.ReleaseRate,
		BurialRate:  c.BurialRate,
		TempFactor:  c.TempFactor,
		InitRock:    c.InitRock,
		InitAtmo:    c.InitAtmo,
		Steps:       c.Steps,
	}
}
