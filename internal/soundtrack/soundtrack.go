package soundtrack

import (
	"strings"

	"moviebuff/internal/textutil"
)

// Keywords mark an album name as a film soundtrack release.
var Keywords = []string{"soundtrack", "original score", "music from", "motion picture score"}

// queryQualifiers are appended to the quoted title, most specific first.
var queryQualifiers = []string{
	"original motion picture soundtrack",
	"soundtrack",
	"original score",
	"music from the motion picture",
}

// Confidence describes which rule produced a Match.
type Confidence string

const (
	// ConfidenceKeyword means the album carried a soundtrack keyword (and the
	// requested year, when one was given).
	ConfidenceKeyword Confidence = "keyword"
	// ConfidenceTitle means only the movie title matched.
	ConfidenceTitle Confidence = "title"
)

// Album is the subset of a music-catalog album the heuristic inspects.
type Album struct {
	ID          string   `json:"id,omitempty"`
	Name        string   `json:"name"`
	ReleaseDate string   `json:"release_date,omitempty"`
	URL         string   `json:"url,omitempty"`
	Artists     []string `json:"artists,omitempty"`
	ImageURL    string   `json:"image_url,omitempty"`
}

// Match is the selected soundtrack album.
type Match struct {
	Name       string     `json:"name"`
	URL        string     `json:"url"`
	Artist     string     `json:"artist,omitempty"`
	CoverURL   string     `json:"cover_url,omitempty"`
	Confidence Confidence `json:"confidence"`
	Query      string     `json:"query,omitempty"`
}

// Rule accepts or rejects a single album for a movie title and optional year.
type Rule struct {
	Name       string
	Confidence Confidence
	Accept     func(album Album, title, year string) bool
}

// Rules is the fixed evaluation order: a keyword match beats a bare title
// match anywhere in the same result set.
var Rules = []Rule{
	{Name: "keyword", Confidence: ConfidenceKeyword, Accept: keywordMatch},
	{Name: "title", Confidence: ConfidenceTitle, Accept: titleMatch},
}

func titleMatch(album Album, title, _ string) bool {
	return textutil.ContainsFold(album.Name, title)
}

func keywordMatch(album Album, title, year string) bool {
	if !titleMatch(album, title, year) {
		return false
	}
	if !textutil.ContainsAnyFold(album.Name, Keywords...) {
		return false
	}
	if year == "" {
		return true
	}
	return album.ReleaseDate != "" && strings.HasPrefix(album.ReleaseDate, year)
}

// Queries builds the ordered search list for a title. With a year, every
// qualified query is first tried with a year filter, then without; the bare
// quoted title is always last.
func Queries(title, year string) []string {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil
	}
	year = strings.TrimSpace(year)
	quoted := `"` + title + `"`

	base := make([]string, 0, len(queryQualifiers))
	for _, qualifier := range queryQualifiers {
		base = append(base, quoted+` "`+qualifier+`"`)
	}

	queries := make([]string, 0, 2*len(base)+1)
	if year != "" {
		for _, q := range base {
			queries = append(queries, q+" year:"+year)
		}
	}
	queries = append(queries, base...)
	return append(queries, quoted)
}

// Select applies Rules in order to one result set and returns the first
// accepted album.
func Select(albums []Album, title, year string) (Match, bool) {
	title = strings.TrimSpace(title)
	if title == "" {
		return Match{}, false
	}
	year = strings.TrimSpace(year)
	for _, rule := range Rules {
		for _, album := range albums {
			if rule.Accept(album, title, year) {
				return newMatch(album, rule.Confidence), true
			}
		}
	}
	return Match{}, false
}

func newMatch(album Album, confidence Confidence) Match {
	match := Match{
		Name:       album.Name,
		URL:        album.URL,
		CoverURL:   album.ImageURL,
		Confidence: confidence,
	}
	if len(album.Artists) > 0 {
		match.Artist = album.Artists[0]
	}
	return match
}
