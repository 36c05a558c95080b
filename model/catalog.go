package model

type Movie struct {
	ID       int    `json:"id"`
	Title    string `json:"title"`
	Genre    string `json:"genre"`
	Language string `json:"language"`
	Duration int    `json:"duration"`
}

type Theater struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
	City string `json:"city"`
}

// Show carries its movie and theater as embedded objects, matching the
// API payload shape.
type Show struct {
	ID             int     `json:"id"`
	Movie          Movie   `json:"movie"`
	Theater        Theater `json:"theater"`
	Timing         string  `json:"timing"`
	AvailableSeats int     `json:"availableSeats"`
}
