package e2e

import (
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	// E2E_COMMAND_TIMEOUT bounds each command round trip in scenarios
	CommandTimeout time.Duration `envconfig:"E2E_COMMAND_TIMEOUT" default:"3s"`
	// E2E_WAIT bounds every eventually-style assertion
	Wait time.Duration `envconfig:"E2E_WAIT" default:"2s"`
}

func LoadConfig() (Config, error) {
	var cfg Config
	err := envconfig.Process("", &cfg)
	return cfg, err
}
