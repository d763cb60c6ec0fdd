package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizeScan(); err != nil {
		return err
	}
	if err := c.normalizeExport(); err != nil {
		return err
	}
	if err := c.normalizeHistory(); err != nil {
		return err
	}
	c.normalizeReport()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizeScan() error {
	roots := make([]string, 0, len(c.Scan.Roots))
	seen := make(map[string]struct{}, len(c.Scan.Roots))
	for _, root := range c.Scan.Roots {
		root = strings.TrimSpace(root)
		if root == "" {
			continue
		}
		expanded, err := expandPath(root)
		if err != nil {
			return fmt.Errorf("scan.roots: %w", err)
		}
		if _, ok := seen[expanded]; ok {
			continue
		}
		seen[expanded] = struct{}{}
		roots = append(roots, expanded)
	}
	c.Scan.Roots = roots

	files := make([]string, 0, len(c.Scan.MetadataFiles))
	for _, name := range c.Scan.MetadataFiles {
		if name = strings.TrimSpace(name); name != "" {
			files = append(files, name)
		}
	}
	c.Scan.MetadataFiles = files

	c.Scan.HomeDir = strings.TrimSpace(c.Scan.HomeDir)
	if c.Scan.HomeDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("scan.home_dir: resolve home directory: %w", err)
		}
		c.Scan.HomeDir = home
		return nil
	}
	var err error
	if c.Scan.HomeDir, err = expandPath(c.Scan.HomeDir); err != nil {
		return fmt.Errorf("scan.home_dir: %w", err)
	}
	return nil
}

// normalizeExport applies the environment override. A present variable selects
// silent mode even when empty; an empty value keeps the configured path.
func (c *Config) normalizeExport() error {
	if value, ok := os.LookupEnv(EnvExportPath); ok {
		c.Export.Silent = true
		if strings.TrimSpace(value) != "" {
			c.Export.Path = value
		}
	}
	if strings.TrimSpace(c.Export.Path) == "" {
		c.Export.Path = defaultExportPath
	}
	var err error
	if c.Export.Path, err = expandPath(strings.TrimSpace(c.Export.Path)); err != nil {
		return fmt.Errorf("export.path: %w", err)
	}
	return nil
}

func (c *Config) normalizeHistory() error {
	if strings.TrimSpace(c.History.Path) == "" {
		c.History.Path = defaultHistoryPath
	}
	var err error
	if c.History.Path, err = expandPath(strings.TrimSpace(c.History.Path)); err != nil {
		return fmt.Errorf("history.path: %w", err)
	}
	return nil
}

func (c *Config) normalizeReport() {
	c.Report.Color = strings.ToLower(strings.TrimSpace(c.Report.Color))
	if c.Report.Color == "" {
		c.Report.Color = defaultReportColor
	}
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
