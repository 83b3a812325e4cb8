package config

import (
	"errors"
	"fmt"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateRebrickable(); err != nil {
		return err
	}
	if err := c.validateConverter(); err != nil {
		return err
	}
	if err := c.validatePipeline(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateRebrickable() error {
	if c.Rebrickable.APIKey == "" {
		defaultPath, err := DefaultConfigPath()
		if err != nil {
			defaultPath = "~/.config/brickforge/config.toml"
		}
		return fmt.Errorf("rebrickable.api_key is required. Set REBRICKABLE_API_KEY env var or edit %s (create with 'brickforge config init')", defaultPath)
	}
	if c.Rebrickable.PageSize <= 0 {
		return errors.New("rebrickable.page_size must be positive")
	}
	return nil
}

func (c *Config) validateConverter() error {
	if c.Converter.Script == "" {
		return errors.New("converter.script must be set")
	}
	if c.Converter.TimeoutSeconds <= 0 {
		return errors.New("converter.timeout_seconds must be positive")
	}
	return nil
}

func (c *Config) validatePipeline() error {
	if c.Pipeline.Workers <= 0 {
		return errors.New("pipeline.workers must be positive")
	}
	if c.Pipeline.QueueCapacity <= 0 {
		return errors.New("pipeline.queue_capacity must be positive")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
		return nil
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
}
