package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"moviebuff/internal/catalog"
	"moviebuff/internal/discovery"
	"moviebuff/internal/services"
)

func newRandomCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "random",
		Short: "Pick a random well-reviewed movie",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := ctx.ensureService()
			if err != nil {
				return err
			}
			bundle, err := svc.RandomBundle(cmd.Context())
			if err != nil {
				return err
			}
			return printBundle(cmd, ctx, bundle)
		},
	}
}

func newShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show a movie with its genres, soundtrack, and watchlist state",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseMovieID(args[0])
			if err != nil {
				return err
			}
			svc, err := ctx.ensureService()
			if err != nil {
				return err
			}
			bundle, err := svc.MovieBundle(services.WithMovieID(cmd.Context(), id), id)
			if err != nil {
				return err
			}
			return printBundle(cmd, ctx, bundle)
		},
	}
}

func newSearchCommand(ctx *commandContext) *cobra.Command {
	var year, genre, page int

	cmd := &cobra.Command{
		Use:   "search [query]",
		Short: "Search movies by title, optionally narrowed by year and genre",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := ctx.ensureService()
			if err != nil {
				return err
			}
			result, err := svc.Search(cmd.Context(), discovery.SearchRequest{
				Query:   strings.Join(args, " "),
				Year:    year,
				GenreID: genre,
				Page:    page,
			})
			if err != nil {
				return err
			}
			return printPage(cmd, ctx, svc, result)
		},
	}

	cmd.Flags().IntVar(&year, "year", 0, "Release year")
	cmd.Flags().IntVar(&genre, "genre", 0, "Genre id (see `moviebuff genres`)")
	cmd.Flags().IntVar(&page, "page", 1, "Result page")
	return cmd
}

func newDiscoverCommand(ctx *commandContext) *cobra.Command {
	var opts catalog.DiscoverOptions

	cmd := &cobra.Command{
		Use:   "discover",
		Short: "Browse movies by genre, year, and sort order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := ctx.ensureService()
			if err != nil {
				return err
			}
			result, err := svc.Discover(cmd.Context(), opts)
			if err != nil {
				return err
			}
			return printPage(cmd, ctx, svc, result)
		},
	}

	cmd.Flags().IntVar(&opts.GenreID, "genre", 0, "Genre id (see `moviebuff genres`)")
	cmd.Flags().IntVar(&opts.Year, "year", 0, "Release year")
	cmd.Flags().StringVar(&opts.SortBy, "sort", "", "Sort order, e.g. popularity.desc or vote_average.desc")
	cmd.Flags().IntVar(&opts.Page, "page", 1, "Result page")
	return cmd
}

func newGenresCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "genres",
		Short: "List movie genres and their ids",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := ctx.ensureService()
			if err != nil {
				return err
			}
			genres := discovery.SortedGenres(svc.Genres(cmd.Context()))
			return emit(cmd, ctx, discovery.GenreList{Genres: genres}, func() error {
				rows := make([][]string, 0, len(genres))
				for _, g := range genres {
					rows = append(rows, []string{strconv.Itoa(g.ID), g.Name})
				}
				fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"ID", "Genre"}, rows, []columnAlignment{alignRight, alignLeft}))
				return nil
			})
		},
	}
}

func newSoundtrackCommand(ctx *commandContext) *cobra.Command {
	var year string

	cmd := &cobra.Command{
		Use:   "soundtrack <title>",
		Short: "Find the soundtrack album for a movie title",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := ctx.ensureService()
			if err != nil {
				return err
			}
			title := strings.Join(args, " ")
			match, err := svc.Soundtrack(cmd.Context(), title, year)
			if err != nil {
				return err
			}
			return emit(cmd, ctx, discovery.SoundtrackResult{Title: title, Year: year, Soundtrack: match}, func() error {
				out := cmd.OutOrStdout()
				if match == nil {
					fmt.Fprintf(out, "No soundtrack found for %q\n", title)
					return nil
				}
				printField(out, "Album", match.Name)
				printField(out, "Artist", match.Artist)
				printField(out, "Link", match.URL)
				printField(out, "Matched by", string(match.Confidence))
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&year, "year", "", "Release year used to narrow the search")
	return cmd
}

func printBundle(cmd *cobra.Command, ctx *commandContext, bundle *discovery.Bundle) error {
	return emit(cmd, ctx, bundle, func() error {
		region := ""
		if cfg, err := ctx.ensureConfig(); err == nil {
			region = cfg.TMDB.Region
		}
		renderBundle(cmd.OutOrStdout(), bundle, region)
		return nil
	})
}

func printPage(cmd *cobra.Command, ctx *commandContext, svc *discovery.Service, page *catalog.Page) error {
	return emit(cmd, ctx, page, func() error {
		renderMoviePage(cmd.OutOrStdout(), page, svc.Genres(cmd.Context()))
		return nil
	})
}

func parseMovieID(raw string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || id <= 0 {
		return 0, services.Wrap(services.ErrInvalidInput, "cli", "parse id", fmt.Sprintf("invalid movie id %q", raw), nil)
	}
	return id, nil
}
