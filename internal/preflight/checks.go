package preflight

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"time"

	"golang.org/x/sys/unix"

	"moviebuff/internal/config"
	"moviebuff/internal/discovery"
	"moviebuff/internal/services"
	"moviebuff/internal/watchlist"
)

const remoteCheckTimeout = 15 * time.Second

// CheckTMDB verifies the catalog is reachable and accepts the configured key
// by fetching the genre list.
func CheckTMDB(ctx context.Context, cfg *config.Config) Result {
	const name = "TMDB"

	client, err := discovery.NewCatalogClient(cfg, nil)
	if err != nil {
		return Result{Name: name, Detail: err.Error()}
	}

	checkCtx, cancel := context.WithTimeout(ctx, remoteCheckTimeout)
	defer cancel()

	genres, err := client.Genres(checkCtx)
	if err != nil {
		return Result{Name: name, Detail: summarizeRemoteError(err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("API reachable (%d genres)", len(genres))}
}

// CheckSpotify verifies the client credentials can be exchanged for a token.
func CheckSpotify(ctx context.Context, cfg *config.Config) Result {
	const name = "Spotify"

	client, err := discovery.NewMusicClient(cfg, nil)
	if err != nil {
		return Result{Name: name, Detail: err.Error()}
	}
	if client == nil {
		return Result{Name: name, Passed: true, Detail: "disabled"}
	}

	checkCtx, cancel := context.WithTimeout(ctx, remoteCheckTimeout)
	defer cancel()

	if _, err := client.AccessToken(checkCtx); err != nil {
		return Result{Name: name, Detail: summarizeRemoteError(err)}
	}
	return Result{Name: name, Passed: true, Detail: "token exchange ok"}
}

// CheckWatchlist opens the watchlist database and applies pending migrations.
func CheckWatchlist(ctx context.Context, path string) Result {
	const name = "Watchlist"

	store, err := watchlist.Open(path)
	if err != nil {
		return Result{Name: name, Detail: err.Error()}
	}
	defer store.Close()

	count, err := store.Count(ctx)
	if err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (%d saved)", path, count)}
}

// CheckDirectoryAccess verifies that the directory exists and is readable/writable.
func CheckDirectoryAccess(name, path string) Result {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read/write ok)", path)}
}

func summarizeRemoteError(err error) string {
	if errors.Is(err, context.DeadlineExceeded) {
		return "check timed out (API unresponsive)"
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return "check timed out (API unreachable)"
	}
	if errors.Is(err, services.ErrAuth) {
		return "credentials rejected: " + err.Error()
	}
	return err.Error()
}
