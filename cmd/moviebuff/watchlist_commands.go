package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"moviebuff/internal/discovery"
	"moviebuff/internal/services"
)

func newWatchlistCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "watchlist",
		Aliases: []string{"wl"},
		Short:   "Manage saved movies",
	}

	cmd.AddCommand(newWatchlistListCommand(ctx))
	cmd.AddCommand(newWatchlistAddCommand(ctx))
	cmd.AddCommand(newWatchlistRemoveCommand(ctx))
	cmd.AddCommand(newWatchlistHasCommand(ctx))
	return cmd
}

func newWatchlistListCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List saved movies in the order they were added",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := ctx.ensureService()
			if err != nil {
				return err
			}
			entries, err := svc.Watchlist(cmd.Context())
			if err != nil {
				return err
			}
			return emit(cmd, ctx, discovery.WatchlistListing{Items: entries, Count: len(entries)}, func() error {
				out := cmd.OutOrStdout()
				if len(entries) == 0 {
					fmt.Fprintln(out, "Watchlist is empty")
					return nil
				}
				rows := make([][]string, 0, len(entries))
				for _, entry := range entries {
					rows = append(rows, []string{
						strconv.FormatInt(entry.Movie.ID, 10),
						entry.Movie.Title,
						entry.Movie.Year(),
						entry.AddedAt.Local().Format("2006-01-02 15:04"),
					})
				}
				fmt.Fprintln(out, renderTable(
					[]string{"ID", "Title", "Year", "Added"},
					rows,
					[]columnAlignment{alignRight, alignLeft, alignLeft, alignLeft},
				))
				return nil
			})
		},
	}
}

func newWatchlistAddCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "add <id>",
		Short: "Save a movie to the watchlist",
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
			movie, added, err := svc.SaveMovieByID(services.WithMovieID(cmd.Context(), id), id)
			if err != nil {
				return err
			}
			return emit(cmd, ctx, discovery.WatchlistAddResult{Movie: *movie, Added: added}, func() error {
				if added {
					fmt.Fprintf(cmd.OutOrStdout(), "Added %s (%d) to the watchlist\n", movie.Title, movie.ID)
				} else {
					fmt.Fprintf(cmd.OutOrStdout(), "%s (%d) is already in the watchlist\n", movie.Title, movie.ID)
				}
				return nil
			})
		},
	}
}

func newWatchlistRemoveCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:     "remove <id>",
		Aliases: []string{"rm"},
		Short:   "Remove a movie from the watchlist",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseMovieID(args[0])
			if err != nil {
				return err
			}
			svc, err := ctx.ensureService()
			if err != nil {
				return err
			}
			removed, err := svc.ForgetMovie(services.WithMovieID(cmd.Context(), id), id)
			if err != nil {
				return err
			}
			return emit(cmd, ctx, discovery.Membership{ID: id, Removed: &removed}, func() error {
				if removed {
					fmt.Fprintf(cmd.OutOrStdout(), "Removed movie %d from the watchlist\n", id)
				} else {
					fmt.Fprintf(cmd.OutOrStdout(), "Movie %d was not in the watchlist\n", id)
				}
				return nil
			})
		},
	}
}

func newWatchlistHasCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "has <id>",
		Short: "Report whether a movie is in the watchlist",
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
			has, err := svc.InWatchlist(cmd.Context(), id)
			if err != nil {
				return err
			}
			return emit(cmd, ctx, discovery.Membership{ID: id, InWatchlist: has}, func() error {
				fmt.Fprintf(cmd.OutOrStdout(), "Movie %d in watchlist: %s\n", id, yesNo(has))
				return nil
			})
		},
	}
}
