package config

import (
	"errors"
	"fmt"

	"github.com/ilyakaznacheev/cleanenv"
)

type Reader interface {
	Read() (*Config, error)
}

type EnvReader struct{}

func NewEnvReader() EnvReader {
	return EnvReader{}
}

func (EnvReader) Read() (*Config, error) {
	cfg := new(Config)
	err := cleanenv.ReadEnv(cfg)
	if err != nil {
		return nil, err
	}

	err = cfg.Validate()
	if err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	switch c.Env {
	case EnvDev, EnvProd, EnvLocal:
	default:
		return fmt.Errorf("unknown env: %s", c.Env)
	}

	if c.Analytics.TrendWindowDays <= 0 {
		return errors.New("analytics trend window must be positive")
	}
	if c.Analytics.StreamInterval <= 0 {
		return errors.New("analytics stream interval must be positive")
	}
	if _, err := c.Analytics.Location(); err != nil {
		return err
	}
	return nil
}
