package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	if err := c.normalizeRebrickable(); err != nil {
		return err
	}
	if err := c.normalizeConverter(); err != nil {
		return err
	}
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.SetsDir) == "" {
		c.Paths.SetsDir = defaultSetsDir
	}
	if c.Paths.SetsDir, err = expandPath(c.Paths.SetsDir); err != nil {
		return fmt.Errorf("paths.sets_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LDrawDir) == "" {
		c.Paths.LDrawDir = defaultLDrawDir
	}
	if c.Paths.LDrawDir, err = expandPath(c.Paths.LDrawDir); err != nil {
		return fmt.Errorf("paths.ldraw_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.ColorsCSV) == "" {
		c.Paths.ColorsCSV = defaultColorsCSV
	}
	if c.Paths.ColorsCSV, err = expandPath(c.Paths.ColorsCSV); err != nil {
		return fmt.Errorf("paths.colors_csv: %w", err)
	}
	c.Paths.APIBind = strings.TrimSpace(c.Paths.APIBind)
	if c.Paths.APIBind == "" {
		c.Paths.APIBind = defaultAPIBind
	}
	return nil
}

func (c *Config) normalizeRebrickable() error {
	if c.Rebrickable.APIKey == "" {
		if value, ok := os.LookupEnv("REBRICKABLE_API_KEY"); ok {
			c.Rebrickable.APIKey = strings.TrimSpace(value)
		}
	}
	c.Rebrickable.BaseURL = strings.TrimRight(strings.TrimSpace(c.Rebrickable.BaseURL), "/")
	if c.Rebrickable.BaseURL == "" {
		c.Rebrickable.BaseURL = defaultRebrickableBaseURL
	}
	if c.Rebrickable.PageSize <= 0 {
		c.Rebrickable.PageSize = defaultRebrickablePageSize
	}
	return nil
}

func (c *Config) normalizeConverter() error {
	var err error
	c.Converter.PerlBinary = strings.TrimSpace(c.Converter.PerlBinary)
	if c.Converter.PerlBinary == "" {
		c.Converter.PerlBinary = defaultPerlBinary
	}
	if strings.TrimSpace(c.Converter.Script) == "" {
		c.Converter.Script = defaultConverterScript
	}
	if c.Converter.Script, err = expandPath(c.Converter.Script); err != nil {
		return fmt.Errorf("converter.script: %w", err)
	}
	return nil
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
