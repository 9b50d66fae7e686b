package daemon

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gofrs/flock"

	"moviebuff/internal/config"
	"moviebuff/internal/logging"
)

const shutdownTimeout = 5 * time.Second

// ErrAlreadyRunning is returned by Start when another daemon holds the lock.
var ErrAlreadyRunning = errors.New("another moviebuff daemon instance is already running")

// Daemon serves the HTTP API and enforces single-instance execution.
type Daemon struct {
	bind     string
	handler  http.Handler
	logger   *slog.Logger
	lockPath string
	lock     *flock.Flock

	running atomic.Bool

	mu        sync.Mutex
	server    *http.Server
	listener  net.Listener
	serveErr  chan error
	stopWatch func() bool
}

// Status represents daemon runtime information.
type Status struct {
	Running      bool   `json:"running"`
	Address      string `json:"address,omitempty"`
	LockFilePath string `json:"lock_file_path"`
}

// New constructs a daemon serving handler on the configured bind address.
func New(cfg *config.Config, handler http.Handler, logger *slog.Logger) (*Daemon, error) {
	if cfg == nil || handler == nil {
		return nil, errors.New("daemon requires config and handler")
	}
	bind := strings.TrimSpace(cfg.Paths.APIBind)
	if bind == "" {
		return nil, errors.New("daemon requires paths.api_bind")
	}
	lockPath := cfg.LockPath()
	return &Daemon{
		bind:     bind,
		handler:  handler,
		logger:   logging.NewComponentLogger(logger, "daemon"),
		lockPath: lockPath,
		lock:     flock.New(lockPath),
	}, nil
}

// Start acquires the daemon lock and begins serving. The server shuts down
// when ctx is cancelled or Stop is called.
func (d *Daemon) Start(ctx context.Context) error {
	if d.running.Load() {
		return errors.New("daemon already running")
	}

	ok, err := d.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return ErrAlreadyRunning
	}

	listener, err := net.Listen("tcp", d.bind)
	if err != nil {
		_ = d.lock.Unlock()
		return fmt.Errorf("api listen: %w", err)
	}

	server := &http.Server{
		Handler:           d.handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}
	serveErr := make(chan error, 1)

	d.running.Store(true)
	d.mu.Lock()
	d.server = server
	d.listener = listener
	d.serveErr = serveErr
	d.stopWatch = context.AfterFunc(ctx, d.Stop)
	d.mu.Unlock()

	go func() {
		err := server.Serve(listener)
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			d.logger.Error("api server error", logging.Error(err))
			serveErr <- err
		}
		close(serveErr)
	}()

	d.logger.Info("moviebuff daemon started",
		logging.String("address", listener.Addr().String()),
		logging.String("lock", d.lockPath),
	)
	return nil
}

// Wait blocks until the server stops and returns any serve error.
func (d *Daemon) Wait() error {
	d.mu.Lock()
	serveErr := d.serveErr
	d.mu.Unlock()
	if serveErr == nil {
		return nil
	}
	return <-serveErr
}

// Stop shuts the server down gracefully and releases the daemon lock.
func (d *Daemon) Stop() {
	if !d.running.CompareAndSwap(true, false) {
		return
	}

	d.mu.Lock()
	server := d.server
	stopWatch := d.stopWatch
	d.server = nil
	d.listener = nil
	d.stopWatch = nil
	d.mu.Unlock()

	if stopWatch != nil {
		stopWatch()
	}

	if server != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			d.logger.Warn("api server shutdown incomplete", logging.Error(err))
		}
	}
	if err := d.lock.Unlock(); err != nil {
		d.logger.Warn("failed to release daemon lock", logging.Error(err))
	}
	d.logger.Info("moviebuff daemon stopped")
}

// Addr returns the listening address, or "" when stopped.
func (d *Daemon) Addr() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.listener == nil {
		return ""
	}
	return d.listener.Addr().String()
}

// Status returns the current daemon status.
func (d *Daemon) Status() Status {
	return Status{
		Running:      d.running.Load(),
		Address:      d.Addr(),
		LockFilePath: d.lockPath,
	}
}
