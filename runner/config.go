package runner

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config describes one distributed test run. It can be loaded from a YAML
// file; command line flags override individual fields afterward.
type Config struct {
	WorldSize      int    `yaml:"worldSize"`
	Backend        string `yaml:"backend"`
	RendezvousDir  string `yaml:"rendezvousDir"`
	TimeoutSeconds int    `yaml:"timeoutSeconds"`
	Debug          bool   `yaml:"debug"`
}

// DefaultConfig leaves Backend empty, which means each worker falls back to
// the process-wide RPC_BACKEND resolution instead of an explicit override.
func DefaultConfig() Config {
	return Config{
		WorldSize:      2,
		TimeoutSeconds: 30,
	}
}

// LoadConfig reads a YAML run configuration, applying file values on top of
// the defaults.
func LoadConfig(path string) (Config, error) {
	c := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	if err := yaml.Unmarshal(data, &c); err != nil {
		return Config{}, fmt.Errorf("malformed config file %s: %w", path, err)
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

func (c Config) Validate() error {
	if c.WorldSize < 1 {
		return fmt.Errorf("worldSize must be at least 1, got %d", c.WorldSize)
	}
	if c.TimeoutSeconds < 1 {
		return fmt.Errorf("timeoutSeconds must be at least 1, got %d", c.TimeoutSeconds)
	}
	return nil
}

func (c Config) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}
