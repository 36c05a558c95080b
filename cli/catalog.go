package cli

import (
	"fmt"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"bookmymovie-cli/catalog"
	"bookmymovie-cli/model"
)

func newMoviesCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "movies",
		Short: "List movies now showing",
		RunE: func(cmd *cobra.Command, args []string) error {
			movies, err := a.client.ListMovies(cmd.Context())
			if err != nil {
				return err
			}
			city, _ := cmd.Flags().GetString("city")
			if city != "" && city != catalog.AllCities {
				theaters, err := a.client.ListTheaters(cmd.Context())
				if err != nil {
					return err
				}
				shows, err := a.client.ListShows(cmd.Context())
				if err != nil {
					return err
				}
				cat := catalog.Catalog{Movies: movies, Theaters: theaters, Shows: shows}
				movies = cat.VisibleMovies(city)
			}

			t := table.NewWriter()
			t.SetOutputMirror(os.Stdout)
			t.AppendHeader(table.Row{"ID", "Title", "Genre", "Language", "Duration"})
			for _, movie := range movies {
				t.AppendRow(table.Row{movie.ID, movie.Title, movie.Genre, movie.Language, fmt.Sprintf("%d min", movie.Duration)})
			}
			t.Render()
			return nil
		},
	}
	cmd.Flags().String("city", "", "only movies with a show in this city")
	return cmd
}

func newTheatersCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "theaters",
		Short: "List theaters",
		RunE: func(cmd *cobra.Command, args []string) error {
			theaters, err := a.client.ListTheaters(cmd.Context())
			if err != nil {
				return err
			}
			city, _ := cmd.Flags().GetString("city")

			t := table.NewWriter()
			t.SetOutputMirror(os.Stdout)
			t.AppendHeader(table.Row{"ID", "Name", "City"})
			for _, theater := range theaters {
				if city != "" && city != catalog.AllCities && theater.City != city {
					continue
				}
				t.AppendRow(table.Row{theater.ID, theater.Name, theater.City})
			}
			t.Render()
			return nil
		},
	}
	cmd.Flags().String("city", "", "only theaters in this city")
	return cmd
}

func newShowsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "shows",
		Short: "List shows, optionally for one movie or city",
		RunE: func(cmd *cobra.Command, args []string) error {
			movieID, _ := cmd.Flags().GetInt("movie")
			city, _ := cmd.Flags().GetString("city")

			var (
				shows []model.Show
				err   error
			)
			if movieID > 0 {
				shows, err = a.client.ListShowsByMovie(cmd.Context(), movieID)
			} else {
				shows, err = a.client.ListShows(cmd.Context())
			}
			if err != nil {
				return err
			}
			if city != "" {
				shows = catalog.FilterShows(shows, city)
			}

			rowConfigAutoMerge := table.RowConfig{AutoMerge: true}
			t := table.NewWriter()
			t.SetOutputMirror(os.Stdout)
			t.AppendHeader(table.Row{"ID", "Movie", "Theater", "City", "Timing", "Seats"})
			t.SetColumnConfigs([]table.ColumnConfig{
				{Number: 2, AutoMerge: true, WidthMax: 24},
				{Number: 3, AutoMerge: true},
				{Number: 4, AutoMerge: true},
			})
			t.Style().Options.SeparateRows = true
			for _, show := range shows {
				t.AppendRow(table.Row{
					show.ID,
					show.Movie.Title,
					show.Theater.Name,
					show.Theater.City,
					show.Timing,
					show.AvailableSeats,
				}, rowConfigAutoMerge)
			}
			t.Render()
			return nil
		},
	}
	cmd.Flags().Int("movie", 0, "movie id")
	cmd.Flags().String("city", "", "only shows in this city")
	return cmd
}
