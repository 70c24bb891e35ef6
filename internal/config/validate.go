package config

import (
	"errors"
	"fmt"
	"net/url"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateServer(); err != nil {
		return err
	}
	if err := c.validateUploads(); err != nil {
		return err
	}
	if err := c.validatePolling(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateServer() error {
	parsed, err := url.Parse(c.Server.BaseURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return fmt.Errorf("server.base_url must be an absolute URL, got %q", c.Server.BaseURL)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("server.base_url must use http or https, got %q", parsed.Scheme)
	}
	return nil
}

func (c *Config) validateUploads() error {
	if c.Uploads.ReelVideo.MaxSizeMB <= 0 {
		return errors.New("uploads.reel_video.max_size_mb must be positive")
	}
	if c.Uploads.PostVideo.MaxSizeMB <= 0 {
		return errors.New("uploads.post_video.max_size_mb must be positive")
	}
	if c.Uploads.Image.MaxSizeMB <= 0 {
		return errors.New("uploads.image.max_size_mb must be positive")
	}
	return nil
}

func (c *Config) validatePolling() error {
	if c.Polling.IntervalMS > c.Polling.DeadlineSeconds*1000 {
		return errors.New("polling.interval_ms must not exceed polling.deadline_seconds")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be debug, info, warn, or error, got %q", c.Logging.Level)
	}
	return nil
}
