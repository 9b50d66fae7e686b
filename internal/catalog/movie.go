package catalog

import (
	"strconv"
	"strings"
)

// UnknownGenre is the display name used for genre ids missing from a GenreMap.
const UnknownGenre = "Unknown"

// Genre is a TMDB genre reference.
type Genre struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// GenreMap maps genre ids to display names.
type GenreMap map[int]string

// Provider is a single streaming/rental provider entry.
type Provider struct {
	ID       int    `json:"provider_id,omitempty"`
	Name     string `json:"provider_name"`
	LogoPath string `json:"logo_path,omitempty"`
}

// RegionProviders lists where a movie can be watched in one country.
type RegionProviders struct {
	Link     string     `json:"link,omitempty"`
	Flatrate []Provider `json:"flatrate,omitempty"`
	Rent     []Provider `json:"rent,omitempty"`
	Buy      []Provider `json:"buy,omitempty"`
}

// WatchProviders is the appended watch/providers sub-resource keyed by country code.
type WatchProviders struct {
	Results map[string]RegionProviders `json:"results,omitempty"`
}

// CastMember is a single billed performer.
type CastMember struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Character string `json:"character,omitempty"`
	Order     int    `json:"order"`
}

// CrewMember is a single crew credit.
type CrewMember struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Job  string `json:"job"`
}

// Credits is the appended credits sub-resource.
type Credits struct {
	Cast []CastMember `json:"cast,omitempty"`
	Crew []CrewMember `json:"crew,omitempty"`
}

// Video is a trailer, teaser, or clip hosted on an external site.
type Video struct {
	Key      string `json:"key"`
	Name     string `json:"name"`
	Site     string `json:"site"`
	Type     string `json:"type"`
	Official bool   `json:"official"`
}

// Videos is the appended videos sub-resource.
type Videos struct {
	Results []Video `json:"results,omitempty"`
}

// Image is a backdrop or poster variant.
type Image struct {
	FilePath string  `json:"file_path"`
	Width    int     `json:"width"`
	Height   int     `json:"height"`
	Language string  `json:"iso_639_1,omitempty"`
	Vote     float64 `json:"vote_average,omitempty"`
}

// Images is the appended images sub-resource.
type Images struct {
	Backdrops []Image `json:"backdrops,omitempty"`
	Posters   []Image `json:"posters,omitempty"`
}

// Movie is a catalog movie as returned by list or detail endpoints. Summary
// results carry GenreIDs; detail results carry Genres and the appended
// sub-resources.
type Movie struct {
	ID             int64           `json:"id"`
	Title          string          `json:"title"`
	OriginalTitle  string          `json:"original_title,omitempty"`
	ReleaseDate    string          `json:"release_date,omitempty"`
	Genres         []Genre         `json:"genres,omitempty"`
	GenreIDs       []int           `json:"genre_ids,omitempty"`
	VoteAverage    float64         `json:"vote_average"`
	VoteCount      int64           `json:"vote_count"`
	Popularity     float64         `json:"popularity,omitempty"`
	Runtime        int             `json:"runtime,omitempty"`
	Overview       string          `json:"overview"`
	Tagline        string          `json:"tagline,omitempty"`
	PosterPath     string          `json:"poster_path,omitempty"`
	BackdropPath   string          `json:"backdrop_path,omitempty"`
	IMDBID         string          `json:"imdb_id,omitempty"`
	WatchProviders *WatchProviders `json:"watch/providers,omitempty"`
	Credits        *Credits        `json:"credits,omitempty"`
	Videos         *Videos         `json:"videos,omitempty"`
	Images         *Images         `json:"images,omitempty"`
}

// Year returns the four-digit release year, or "" when the release date is unknown.
func (m Movie) Year() string {
	if len(m.ReleaseDate) < 4 {
		return ""
	}
	return m.ReleaseDate[:4]
}

// YearInt returns the release year as an integer, or 0 when unknown.
func (m Movie) YearInt() int {
	year, err := strconv.Atoi(m.Year())
	if err != nil {
		return 0
	}
	return year
}

// GenreNames resolves display names. Inline genre objects win; otherwise
// genre ids are mapped through genres with UnknownGenre for missing ids.
func (m Movie) GenreNames(genres GenreMap) []string {
	if len(m.Genres) > 0 {
		names := make([]string, 0, len(m.Genres))
		for _, g := range m.Genres {
			names = append(names, g.Name)
		}
		return names
	}
	names := make([]string, 0, len(m.GenreIDs))
	for _, id := range m.GenreIDs {
		name, ok := genres[id]
		if !ok || name == "" {
			name = UnknownGenre
		}
		names = append(names, name)
	}
	return names
}

// HasGenre reports whether the movie is tagged with id, checking both genre
// representations.
func (m Movie) HasGenre(id int) bool {
	for _, gid := range m.GenreIDs {
		if gid == id {
			return true
		}
	}
	for _, g := range m.Genres {
		if g.ID == id {
			return true
		}
	}
	return false
}

// PosterURL joins imageBaseURL and the poster path, or returns "" without a poster.
func (m Movie) PosterURL(imageBaseURL string) string {
	if m.PosterPath == "" {
		return ""
	}
	return strings.TrimRight(imageBaseURL, "/") + "/" + strings.TrimLeft(m.PosterPath, "/")
}

// Providers returns watch-provider data for a country code.
func (m Movie) Providers(region string) (RegionProviders, bool) {
	if m.WatchProviders == nil {
		return RegionProviders{}, false
	}
	providers, ok := m.WatchProviders.Results[strings.ToUpper(region)]
	return providers, ok
}

// Director returns the first crew member credited as Director.
func (m Movie) Director() string {
	if m.Credits == nil {
		return ""
	}
	for _, member := range m.Credits.Crew {
		if member.Job == "Director" {
			return member.Name
		}
	}
	return ""
}

// TopCast returns up to n billed cast members in billing order.
func (m Movie) TopCast(n int) []CastMember {
	if m.Credits == nil || n <= 0 {
		return nil
	}
	if len(m.Credits.Cast) <= n {
		return m.Credits.Cast
	}
	return m.Credits.Cast[:n]
}

// TrailerKey returns the YouTube key of the first trailer, preferring
// official uploads.
func (m Movie) TrailerKey() string {
	if m.Videos == nil {
		return ""
	}
	fallback := ""
	for _, v := range m.Videos.Results {
		if v.Site != "YouTube" || v.Type != "Trailer" || v.Key == "" {
			continue
		}
		if v.Official {
			return v.Key
		}
		if fallback == "" {
			fallback = v.Key
		}
	}
	return fallback
}

// Page is a single page of catalog results.
type Page struct {
	Page         int     `json:"page"`
	Results      []Movie `json:"results"`
	TotalPages   int     `json:"total_pages"`
	TotalResults int     `json:"total_results"`
}

// DiscoverOptions are the optional filters for the discover endpoint.
// Zero values are not sent upstream.
type DiscoverOptions struct {
	GenreID      int
	Year         int
	SortBy       string
	MinVoteCount int
	// ReleasedFrom and ReleasedTo are YYYY-MM-DD bounds on the primary release date.
	ReleasedFrom string
	ReleasedTo   string
	ExcludeVideo bool
	Page         int
}
