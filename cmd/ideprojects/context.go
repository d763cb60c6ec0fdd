package main

import (
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"ideprojects/internal/config"
	"ideprojects/internal/logging"
)

type commandContext struct {
	configFlag *string
	rootFlags  *[]string

	configOnce sync.Once
	config     *config.Config
	configPath string
	configErr  error
}

func newCommandContext(configFlag *string, rootFlags *[]string) *commandContext {
	return &commandContext{
		configFlag: configFlag,
		rootFlags:  rootFlags,
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		cfg, path, _, err := config.Load(c.configFlagValue())
		if err != nil {
			c.configErr = fmt.Errorf("load config: %w", err)
			return
		}
		if err := c.applyRootOverride(cfg); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
		c.configPath = path
	})
	return c.config, c.configErr
}

func (c *commandContext) configFlagValue() string {
	if c.configFlag == nil {
		return ""
	}
	return strings.TrimSpace(*c.configFlag)
}

func (c *commandContext) applyRootOverride(cfg *config.Config) error {
	if c.rootFlags == nil || len(*c.rootFlags) == 0 {
		return nil
	}
	roots := make([]string, 0, len(*c.rootFlags))
	for _, raw := range *c.rootFlags {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		expanded, err := config.ExpandPath(raw)
		if err != nil {
			return fmt.Errorf("resolve --root %q: %w", raw, err)
		}
		roots = append(roots, expanded)
	}
	if len(roots) == 0 {
		return fmt.Errorf("--root: at least one non-empty path is required")
	}
	cfg.Scan.Roots = roots
	return nil
}

// runLogger builds the per-invocation logger writing to the command's
// stderr, tagged with a fresh run id.
func (c *commandContext) runLogger(cmd *cobra.Command) (*slog.Logger, string, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, "", err
	}
	opts := logging.ConfigOptions(cfg)
	opts.Writer = cmd.ErrOrStderr()
	logger, err := logging.New(opts)
	if err != nil {
		return nil, "", fmt.Errorf("init logger: %w", err)
	}
	runID := uuid.NewString()
	return logger.With(logging.String(logging.FieldRunID, runID)), runID, nil
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}
