package main

import (
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/spf13/cobra"

	"mediaup/internal/config"
	"mediaup/internal/journal"
	"mediaup/internal/logging"
	"mediaup/internal/services/cms"
	"mediaup/internal/services/mediaapi"
	"mediaup/internal/upload"
)

type commandContext struct {
	configFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error

	loggerOnce sync.Once
	logger     *slog.Logger
	loggerErr  error
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) ensureLogger() (*slog.Logger, error) {
	c.loggerOnce.Do(func() {
		cfg, err := c.ensureConfig()
		if err != nil {
			c.loggerErr = err
			return
		}
		c.logger, c.loggerErr = logging.NewFromConfig(cfg)
	})
	return c.logger, c.loggerErr
}

func (c *commandContext) requestTimeout() time.Duration {
	cfg, err := c.ensureConfig()
	if err != nil || cfg == nil {
		return 0
	}
	return time.Duration(cfg.Server.RequestTimeout) * time.Second
}

func (c *commandContext) mediaClient() (*mediaapi.Client, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	return mediaapi.New(cfg.Server.BaseURL, cfg.Server.APIToken, c.requestTimeout()), nil
}

func (c *commandContext) cmsClient() (*cms.Client, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	return cms.New(cfg.Server.BaseURL, cfg.Server.APIToken, c.requestTimeout()), nil
}

func (c *commandContext) orchestrator() (*upload.Orchestrator, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	logger, err := c.ensureLogger()
	if err != nil {
		return nil, err
	}
	client, err := c.mediaClient()
	if err != nil {
		return nil, err
	}
	return upload.New(client, upload.Policies(cfg), upload.Options{
		Logger:   logger,
		Deadline: time.Duration(cfg.Polling.DeadlineSeconds) * time.Second,
		Interval: time.Duration(cfg.Polling.IntervalMS) * time.Millisecond,
	}), nil
}

func (c *commandContext) withJournal(fn func(*journal.Store) error) error {
	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}
	store, err := journal.Open(cfg)
	if err != nil {
		return err
	}
	defer store.Close()
	return fn(store)
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}
