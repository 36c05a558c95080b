package server

import (
	"fmt"

	"bookmymovie-cli/model"
)

// seedData builds the demo catalog: a handful of movies across three
// cities, each show with rows A-E of 8 seats and a few already booked so
// conflicts are reproducible offline.
func seedData() (movies []model.Movie, theaters []model.Theater, shows []*model.Show, seats map[int][]*model.Seat) {
	movies = []model.Movie{
		{ID: 1, Title: "Midnight Express", Genre: "Thriller", Language: "English", Duration: 132},
		{ID: 2, Title: "Monsoon Wedding Season", Genre: "Drama", Language: "Hindi", Duration: 148},
		{ID: 3, Title: "The Last Stand", Genre: "Action", Language: "English", Duration: 117},
		{ID: 4, Title: "Chembarathi", Genre: "Romance", Language: "Malayalam", Duration: 155},
		{ID: 5, Title: "Galactic Drift", Genre: "Sci-Fi", Language: "English", Duration: 141},
	}

	theaters = []model.Theater{
		{ID: 1, Name: "Galaxy Cinema", City: "Pune"},
		{ID: 2, Name: "Regal Talkies", City: "Mumbai"},
		{ID: 3, Name: "City Pride", City: "Pune"},
		{ID: 4, Name: "PVR Plaza", City: "Delhi"},
	}

	timings := []string{"10:30 AM", "2:00 PM", "6:15 PM", "9:45 PM"}

	showID := 0
	type slot struct {
		movie   int
		theater int
		timing  int
	}
	slots := []slot{
		{1, 1, 0}, {1, 2, 2}, {2, 1, 1}, {2, 4, 3},
		{3, 2, 0}, {3, 3, 2}, {4, 3, 1}, {4, 4, 0},
		{5, 1, 3}, {5, 2, 1}, {5, 4, 2},
	}

	seats = map[int][]*model.Seat{}
	seatID := 0
	for _, s := range slots {
		showID++
		show := &model.Show{
			ID:      showID,
			Movie:   movies[s.movie-1],
			Theater: theaters[s.theater-1],
			Timing:  timings[s.timing],
		}

		var chart []*model.Seat
		for _, row := range []string{"A", "B", "C", "D", "E"} {
			for col := 1; col <= 8; col++ {
				seatID++
				chart = append(chart, &model.Seat{
					ID:         seatID,
					SeatNumber: fmt.Sprintf("%s%d", row, col),
					// pre-book a diagonal so every chart has conflicts
					Booked: (seatID % 13) == 0,
				})
			}
		}
		available := 0
		for _, seat := range chart {
			if !seat.Booked {
				available++
			}
		}
		show.AvailableSeats = available

		shows = append(shows, show)
		seats[show.ID] = chart
	}
	return movies, theaters, shows, seats
}
