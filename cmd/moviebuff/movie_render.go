package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"moviebuff/internal/catalog"
	"moviebuff/internal/discovery"
	"moviebuff/internal/soundtrack"
	"moviebuff/internal/textutil"
)

const (
	topCastCount     = 5
	overviewColWidth = 40
)

func renderBundle(out io.Writer, bundle *discovery.Bundle, region string) {
	movie := bundle.Movie
	heading := movie.Title
	if year := movie.Year(); year != "" {
		heading = fmt.Sprintf("%s (%s)", heading, year)
	}
	fmt.Fprintln(out, heading)
	fmt.Fprintln(out, strings.Repeat("=", len([]rune(heading))))
	if movie.Tagline != "" {
		fmt.Fprintf(out, "%q\n", movie.Tagline)
	}
	fmt.Fprintln(out)

	printField(out, "ID", strconv.FormatInt(movie.ID, 10))
	printField(out, "Genres", strings.Join(bundle.Genres, ", "))
	if movie.Runtime > 0 {
		printField(out, "Runtime", fmt.Sprintf("%d min", movie.Runtime))
	}
	printField(out, "Rating", formatRating(movie))
	printField(out, "Director", movie.Director())
	if cast := movie.TopCast(topCastCount); len(cast) > 0 {
		names := make([]string, 0, len(cast))
		for _, member := range cast {
			names = append(names, member.Name)
		}
		printField(out, "Cast", strings.Join(names, ", "))
	}
	if providers, ok := movie.Providers(region); ok && len(providers.Flatrate) > 0 {
		names := make([]string, 0, len(providers.Flatrate))
		for _, p := range providers.Flatrate {
			names = append(names, p.Name)
		}
		printField(out, "Streaming", strings.Join(names, ", "))
	}
	if key := movie.TrailerKey(); key != "" {
		printField(out, "Trailer", "https://www.youtube.com/watch?v="+key)
	}
	printField(out, "Poster", bundle.PosterURL)
	printField(out, "Soundtrack", formatSoundtrack(bundle.Soundtrack))
	printField(out, "Watchlist", yesNo(bundle.InWatchlist))

	if overview := strings.TrimSpace(movie.Overview); overview != "" {
		fmt.Fprintln(out)
		fmt.Fprintln(out, overview)
	}
}

func printField(out io.Writer, label, value string) {
	if strings.TrimSpace(value) == "" {
		return
	}
	fmt.Fprintf(out, "%-11s %s\n", label+":", value)
}

func formatRating(movie *catalog.Movie) string {
	if movie.VoteCount == 0 {
		return ""
	}
	return fmt.Sprintf("%.1f/10 (%d votes)", movie.VoteAverage, movie.VoteCount)
}

func formatSoundtrack(match *soundtrack.Match) string {
	if match == nil {
		return ""
	}
	label := match.Name
	if match.Artist != "" {
		label += " by " + match.Artist
	}
	if match.URL != "" {
		label += " <" + match.URL + ">"
	}
	return label
}

func renderMoviePage(out io.Writer, page *catalog.Page, genres catalog.GenreMap) {
	if page == nil || len(page.Results) == 0 {
		fmt.Fprintln(out, "No movies found")
		return
	}
	rows := make([][]string, 0, len(page.Results))
	for _, movie := range page.Results {
		rows = append(rows, []string{
			strconv.FormatInt(movie.ID, 10),
			movie.Title,
			movie.Year(),
			fmt.Sprintf("%.1f", movie.VoteAverage),
			strings.Join(movie.GenreNames(genres), ", "),
			textutil.Truncate(movie.Overview, overviewColWidth),
		})
	}
	fmt.Fprintln(out, renderTable(
		[]string{"ID", "Title", "Year", "Rating", "Genres", "Overview"},
		rows,
		[]columnAlignment{alignRight, alignLeft, alignLeft, alignRight, alignLeft},
	))
	if page.TotalPages > 0 {
		fmt.Fprintf(out, "Page %d of %d (%d results)\n", max(page.Page, 1), page.TotalPages, page.TotalResults)
	}
}
