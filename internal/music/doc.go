// Package music wraps the Spotify Web API for soundtrack lookups.
//
// Tokens come from the client-credentials flow and are cached on the Client
// until they are within the configured leeway of expiry; concurrent callers
// share a single exchange. FindSoundtrack drives the soundtrack package's
// ordered query list and matching rules.
package music
