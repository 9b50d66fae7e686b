package config

const (
	defaultDataDir                 = "~/.local/share/moviebuff"
	defaultLogDirName              = "logs"
	defaultWatchlistFileName       = "watchlist.db"
	defaultAPIBind                 = "127.0.0.1:7490"
	defaultTMDBBaseURL             = "https://api.themoviedb.org/3"
	defaultTMDBImageBaseURL        = "https://image.tmdb.org/t/p/w500"
	defaultTMDBLanguage            = "en-US"
	defaultTMDBRegion              = "US"
	defaultTMDBTimeoutSeconds      = 10
	defaultTMDBRequestsPerSecond   = 40
	defaultTMDBDetailConcurrency   = 8
	defaultTMDBMaxDiscoverPages    = 500
	defaultSpotifyAccountsURL      = "https://accounts.spotify.com/api/token"
	defaultSpotifyAPIBaseURL       = "https://api.spotify.com/v1"
	defaultSpotifyTimeoutSeconds   = 10
	defaultSpotifyTokenLeewaySecs  = 60
	defaultServerRateLimitPerMin   = 120
	defaultServerRateLimitBurst    = 20
	defaultLogFormat               = "console"
	defaultLogLevel                = "info"
	defaultLogMaxSizeMB            = 20
	defaultLogMaxBackups           = 5
	defaultLogMaxAgeDays           = 30
	defaultConfigPathValue         = "~/.config/moviebuff/config.toml"
	defaultProjectConfigFileName   = "moviebuff.toml"
	maxTMDBDiscoverPagesUpperBound = 500
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir: defaultDataDir,
			APIBind: defaultAPIBind,
		},
		TMDB: TMDB{
			BaseURL:           defaultTMDBBaseURL,
			ImageBaseURL:      defaultTMDBImageBaseURL,
			Language:          defaultTMDBLanguage,
			Region:            defaultTMDBRegion,
			TimeoutSeconds:    defaultTMDBTimeoutSeconds,
			RequestsPerSecond: defaultTMDBRequestsPerSecond,
			DetailConcurrency: defaultTMDBDetailConcurrency,
			MaxDiscoverPages:  defaultTMDBMaxDiscoverPages,
		},
		Spotify: Spotify{
			Enabled:            true,
			AccountsURL:        defaultSpotifyAccountsURL,
			APIBaseURL:         defaultSpotifyAPIBaseURL,
			TimeoutSeconds:     defaultSpotifyTimeoutSeconds,
			TokenLeewaySeconds: defaultSpotifyTokenLeewaySecs,
		},
		Server: Server{
			RateLimitPerMinute: defaultServerRateLimitPerMin,
			Burst:              defaultServerRateLimitBurst,
		},
		Logging: Logging{
			Format:     defaultLogFormat,
			Level:      defaultLogLevel,
			MaxSizeMB:  defaultLogMaxSizeMB,
			MaxBackups: defaultLogMaxBackups,
			MaxAgeDays: defaultLogMaxAgeDays,
		},
	}
}
