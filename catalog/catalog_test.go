package catalog

import (
	"testing"

	"bookmymovie-cli/model"
)

func testCatalog() Catalog {
	return Catalog{
		Movies: []model.Movie{
			{ID: 1, Title: "Movie One"},
			{ID: 2, Title: "Movie Two"},
			{ID: 3, Title: "Movie Three"},
		},
		Theaters: []model.Theater{
			{ID: 10, Name: "Galaxy", City: "Pune"},
			{ID: 11, Name: "Regal", City: "Mumbai"},
			{ID: 12, Name: "Plaza", City: "Pune"},
		},
		Shows: []model.Show{
			{ID: 100, Movie: model.Movie{ID: 1}, Theater: model.Theater{ID: 10, City: "Pune"}},
			{ID: 101, Movie: model.Movie{ID: 2}, Theater: model.Theater{ID: 11, City: "Mumbai"}},
			{ID: 102, Movie: model.Movie{ID: 1}, Theater: model.Theater{ID: 12, City: "Pune"}},
		},
	}
}

func TestCities_DistinctWithAllFirst(t *testing.T) {
	cities := testCatalog().Cities()
	want := []string{"All", "Pune", "Mumbai"}
	if len(cities) != len(want) {
		t.Fatalf("expected %v, got %v", want, cities)
	}
	for i := range want {
		if cities[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, cities)
		}
	}
}

func TestVisibleMovies_AllReturnsEverything(t *testing.T) {
	c := testCatalog()
	movies := c.VisibleMovies(AllCities)
	if len(movies) != len(c.Movies) {
		t.Fatalf("expected all %d movies, got %d", len(c.Movies), len(movies))
	}
}

func TestVisibleMovies_FiltersByCity(t *testing.T) {
	c := testCatalog()

	pune := c.VisibleMovies("Pune")
	if len(pune) != 1 || pune[0].ID != 1 {
		t.Fatalf("expected only movie 1 in Pune, got %+v", pune)
	}

	mumbai := c.VisibleMovies("Mumbai")
	if len(mumbai) != 1 || mumbai[0].ID != 2 {
		t.Fatalf("expected only movie 2 in Mumbai, got %+v", mumbai)
	}

	delhi := c.VisibleMovies("Delhi")
	if len(delhi) != 0 {
		t.Fatalf("expected no movies in Delhi, got %+v", delhi)
	}
}

func TestVisibleMovies_SubsetOfAllMovies(t *testing.T) {
	c := testCatalog()
	all := map[int]bool{}
	for _, movie := range c.Movies {
		all[movie.ID] = true
	}
	for _, city := range c.Cities() {
		for _, movie := range c.VisibleMovies(city) {
			if !all[movie.ID] {
				t.Fatalf("city %q surfaced unknown movie %d", city, movie.ID)
			}
		}
	}
}

func TestFilterShows(t *testing.T) {
	shows := testCatalog().Shows

	if got := FilterShows(shows, AllCities); len(got) != 3 {
		t.Fatalf("expected 3 shows for All, got %d", len(got))
	}
	if got := FilterShows(shows, "Pune"); len(got) != 2 {
		t.Fatalf("expected 2 shows for Pune, got %d", len(got))
	}
	if got := FilterShows(shows, "Delhi"); len(got) != 0 {
		t.Fatalf("expected empty result for Delhi, got %d", len(got))
	}
}
