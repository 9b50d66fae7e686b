package main

import (
	"log/slog"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"moviebuff/internal/config"
	"moviebuff/internal/discovery"
	"moviebuff/internal/logging"
	"moviebuff/internal/textutil"
	"moviebuff/internal/watchlist"
)

type commandContext struct {
	configFlag *string
	jsonFlag   *bool

	configOnce sync.Once
	config     *config.Config
	configErr  error

	serviceOnce sync.Once
	service     *discovery.Service
	store       *watchlist.Store
	serviceErr  error
}

func newCommandContext(configFlag *string, jsonFlag *bool) *commandContext {
	return &commandContext{
		configFlag: configFlag,
		jsonFlag:   jsonFlag,
	}
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

// ensureService builds the discovery service on first use. The watchlist
// store stays open until close is called.
func (c *commandContext) ensureService() (*discovery.Service, error) {
	c.serviceOnce.Do(func() {
		cfg, err := c.ensureConfig()
		if err != nil {
			c.serviceErr = err
			return
		}
		logger, err := c.logger(cfg)
		if err != nil {
			c.serviceErr = err
			return
		}
		store, err := watchlist.Open(cfg.Watchlist.Path)
		if err != nil {
			c.serviceErr = err
			return
		}
		svc, err := discovery.FromConfig(cfg, logger, store)
		if err != nil {
			_ = store.Close()
			c.serviceErr = err
			return
		}
		c.store = store
		c.service = svc
	})
	return c.service, c.serviceErr
}

func (c *commandContext) logger(cfg *config.Config) (*slog.Logger, error) {
	return logging.NewFromConfig(cfg, false)
}

func (c *commandContext) jsonOutput() bool {
	return c.jsonFlag != nil && *c.jsonFlag
}

func (c *commandContext) close() error {
	if c.store == nil {
		return nil
	}
	err := c.store.Close()
	c.store = nil
	return err
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}

func yesNo(value bool) string {
	return textutil.Ternary(value, "yes", "no")
}
