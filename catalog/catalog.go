// Package catalog holds the read-only projections over the movie, theater
// and show listings: city derivation and per-city filtering.
package catalog

import "bookmymovie-cli/model"

// AllCities is the city filter value that disables filtering.
const AllCities = "All"

// Catalog is one fetch of the three listings. It is loaded once per
// activation and only projected afterwards; changing the selected city never
// triggers a refetch.
type Catalog struct {
	Movies   []model.Movie
	Theaters []model.Theater
	Shows    []model.Show
}

// Cities returns AllCities followed by each distinct theater city in
// first-seen order.
func (c Catalog) Cities() []string {
	cities := []string{AllCities}
	seen := map[string]bool{}
	for _, theater := range c.Theaters {
		if theater.City == "" || seen[theater.City] {
			continue
		}
		seen[theater.City] = true
		cities = append(cities, theater.City)
	}
	return cities
}

// VisibleMovies projects the movie list for a city: every movie for
// AllCities, otherwise the movies that have at least one show in a theater
// of that city. Fetched order is preserved.
func (c Catalog) VisibleMovies(city string) []model.Movie {
	if city == "" || city == AllCities {
		return append([]model.Movie(nil), c.Movies...)
	}

	inCity := map[int]bool{}
	for _, show := range c.Shows {
		if show.Theater.City == city {
			inCity[show.Movie.ID] = true
		}
	}

	visible := make([]model.Movie, 0, len(inCity))
	for _, movie := range c.Movies {
		if inCity[movie.ID] {
			visible = append(visible, movie)
		}
	}
	return visible
}

// FilterShows narrows a show list to one city. An empty result is valid.
func FilterShows(shows []model.Show, city string) []model.Show {
	if city == "" || city == AllCities {
		return append([]model.Show(nil), shows...)
	}
	filtered := make([]model.Show, 0, len(shows))
	for _, show := range shows {
		if show.Theater.City == city {
			filtered = append(filtered, show)
		}
	}
	return filtered
}
