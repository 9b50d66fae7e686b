package daemon_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"testing"
	"time"

	"moviebuff/internal/config"
	"moviebuff/internal/daemon"
	"moviebuff/internal/testsupport"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := testsupport.NewConfig(t)
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories: %v", err)
	}
	return cfg
}

func pingHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, "pong")
	})
}

func TestNewRequiresHandler(t *testing.T) {
	cfg := testConfig(t)
	if _, err := daemon.New(cfg, nil, nil); err == nil {
		t.Fatal("expected error without handler")
	}
	cfg.Paths.APIBind = " "
	if _, err := daemon.New(cfg, pingHandler(), nil); err == nil {
		t.Fatal("expected error without bind address")
	}
}

func TestDaemonStartStop(t *testing.T) {
	cfg := testConfig(t)
	d, err := daemon.New(cfg, pingHandler(), nil)
	if err != nil {
		t.Fatalf("daemon.New: %v", err)
	}
	t.Cleanup(d.Stop)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := d.Start(ctx); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	status := d.Status()
	if !status.Running || status.Address == "" {
		t.Fatalf("expected daemon to report running with an address, got %#v", status)
	}
	if status.LockFilePath != cfg.LockPath() {
		t.Fatalf("unexpected lock path %q", status.LockFilePath)
	}

	resp, err := http.Get("http://" + status.Address + "/")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	if string(body) != "pong" {
		t.Fatalf("unexpected body %q", body)
	}

	if err := d.Start(ctx); err == nil {
		t.Fatal("expected second start to fail")
	}

	d.Stop()
	if err := d.Wait(); err != nil {
		t.Fatalf("Wait returned error: %v", err)
	}
	if status := d.Status(); status.Running || status.Address != "" {
		t.Fatalf("expected daemon to be stopped, got %#v", status)
	}
}

func TestSecondInstanceIsRejected(t *testing.T) {
	cfg := testConfig(t)
	first, err := daemon.New(cfg, pingHandler(), nil)
	if err != nil {
		t.Fatalf("daemon.New: %v", err)
	}
	second, err := daemon.New(cfg, pingHandler(), nil)
	if err != nil {
		t.Fatalf("daemon.New: %v", err)
	}
	t.Cleanup(first.Stop)
	t.Cleanup(second.Stop)

	ctx := context.Background()
	if err := first.Start(ctx); err != nil {
		t.Fatalf("first Start: %v", err)
	}
	if err := second.Start(ctx); !errors.Is(err, daemon.ErrAlreadyRunning) {
		t.Fatalf("expected ErrAlreadyRunning, got %v", err)
	}

	first.Stop()
	if err := second.Start(ctx); err != nil {
		t.Fatalf("expected start after release, got %v", err)
	}
}

func TestContextCancellationStopsDaemon(t *testing.T) {
	cfg := testConfig(t)
	d, err := daemon.New(cfg, pingHandler(), nil)
	if err != nil {
		t.Fatalf("daemon.New: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	if err := d.Start(ctx); err != nil {
		t.Fatalf("Start: %v", err)
	}
	cancel()

	if err := d.Wait(); err != nil {
		t.Fatalf("Wait returned error: %v", err)
	}
	if d.Status().Running {
		t.Fatal("expected daemon to stop after cancellation")
	}
}

func TestStoppedRunIgnoresItsOldContext(t *testing.T) {
	cfg := testConfig(t)
	d, err := daemon.New(cfg, pingHandler(), nil)
	if err != nil {
		t.Fatalf("daemon.New: %v", err)
	}
	t.Cleanup(d.Stop)

	firstCtx, cancelFirst := context.WithCancel(context.Background())
	defer cancelFirst()
	if err := d.Start(firstCtx); err != nil {
		t.Fatalf("first Start: %v", err)
	}
	d.Stop()
	if err := d.Wait(); err != nil {
		t.Fatalf("Wait returned error: %v", err)
	}

	if err := d.Start(context.Background()); err != nil {
		t.Fatalf("restart: %v", err)
	}
	cancelFirst()
	time.Sleep(50 * time.Millisecond)

	if !d.Status().Running {
		t.Fatal("cancelling the first run's context stopped the restarted daemon")
	}
	resp, err := http.Get("http://" + d.Addr() + "/")
	if err != nil {
		t.Fatalf("GET after restart: %v", err)
	}
	resp.Body.Close()
}
