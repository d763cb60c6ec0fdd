package config

import (
	"errors"
	"fmt"
	"path/filepath"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateScan(); err != nil {
		return err
	}
	if err := c.validateReport(); err != nil {
		return err
	}
	if err := c.validateHistory(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateScan() error {
	if len(c.Scan.Roots) == 0 {
		return errors.New("scan.roots must list at least one directory")
	}
	if len(c.Scan.MetadataFiles) == 0 {
		return errors.New("scan.metadata_files must list at least one file name")
	}
	for _, name := range c.Scan.MetadataFiles {
		if filepath.Base(name) != name {
			return fmt.Errorf("scan.metadata_files: %q must be a bare file name", name)
		}
	}
	return nil
}

func (c *Config) validateReport() error {
	switch c.Report.Color {
	case ColorAuto, ColorAlways, ColorNever:
		return nil
	default:
		return fmt.Errorf("report.color: unsupported value %q (want auto, always, or never)", c.Report.Color)
	}
}

func (c *Config) validateHistory() error {
	if c.History.Enabled && c.History.KeepRuns < 1 {
		return errors.New("history.keep_runs must be at least 1 when history is enabled")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
	return nil
}
