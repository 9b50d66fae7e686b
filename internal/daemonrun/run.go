package daemonrun

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"

	"moviebuff/internal/api"
	"moviebuff/internal/config"
	"moviebuff/internal/daemon"
	"moviebuff/internal/discovery"
	"moviebuff/internal/logging"
	"moviebuff/internal/watchlist"
)

// Options configures daemon process runtime behavior.
type Options struct {
	LogLevel string
	Bind     string
}

// Run starts the moviebuff API daemon and blocks until a signal arrives or
// the server fails.
func Run(cmdCtx context.Context, cfg *config.Config, opts Options) error {
	if cfg == nil {
		return fmt.Errorf("config is required")
	}
	if level := strings.TrimSpace(opts.LogLevel); level != "" {
		cfg.Logging.Level = level
	}
	if bind := strings.TrimSpace(opts.Bind); bind != "" {
		cfg.Paths.APIBind = bind
	}

	signalCtx, cancel := signal.NotifyContext(cmdCtx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := cfg.EnsureDirectories(); err != nil {
		return err
	}

	logger, err := logging.NewFromConfig(cfg, true)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}

	logConfigSnapshot(logger, cfg)
	pidPath := filepath.Join(cfg.Paths.DataDir, "moviebuffd.pid")
	if err := writePIDFile(pidPath); err != nil {
		return fmt.Errorf("write pid file: %w", err)
	}
	defer os.Remove(pidPath)

	store, err := watchlist.Open(cfg.Watchlist.Path)
	if err != nil {
		logger.Error("open watchlist store", logging.Error(err))
		return err
	}
	defer store.Close()

	svc, err := discovery.FromConfig(cfg, logger, store)
	if err != nil {
		return fmt.Errorf("build discovery service: %w", err)
	}

	handler := api.NewHandler(svc, api.OptionsFromConfig(cfg, logger))
	d, err := daemon.New(cfg, handler, logger)
	if err != nil {
		return fmt.Errorf("create daemon: %w", err)
	}

	if err := d.Start(signalCtx); err != nil {
		logging.ErrorWithContext(logger, "daemon start failed", "daemon_start_failed",
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "check paths.api_bind and that no other moviebuffd is running"),
		)
		return err
	}

	if err := d.Wait(); err != nil {
		return fmt.Errorf("api server: %w", err)
	}
	logger.Info("moviebuff daemon shutting down")
	return nil
}

func writePIDFile(path string) error {
	if path == "" {
		return nil
	}
	value := strconv.Itoa(os.Getpid()) + "\n"
	return os.WriteFile(path, []byte(value), 0o644)
}

func logConfigSnapshot(logger *slog.Logger, cfg *config.Config) {
	if logger == nil || cfg == nil {
		return
	}
	logger.Info("configuration snapshot",
		logging.String(logging.FieldEventType, "config_snapshot"),
		logging.Bool("tmdb_key_present", strings.TrimSpace(cfg.TMDB.APIKey) != ""),
		logging.String("tmdb_base_url", cfg.TMDB.BaseURL),
		logging.Bool("spotify_enabled", cfg.Spotify.Enabled),
		logging.Bool("api_token_present", strings.TrimSpace(cfg.Paths.APIToken) != ""),
		logging.String("api_bind", cfg.Paths.APIBind),
		logging.String("watchlist_path", cfg.Watchlist.Path),
		logging.Int("rate_limit_per_minute", cfg.Server.RateLimitPerMinute),
	)
}
