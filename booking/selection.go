package booking

import "bookmymovie-cli/model"

// Selection is the set of seats picked inside one workflow instance. It
// keeps insertion order for display and payloads, never admits a booked
// seat, and is bounded by MaxSeats.
type Selection struct {
	limit int
	seats []model.Seat
	byID  map[int]bool
}

func NewSelection(limit int) *Selection {
	if limit <= 0 {
		limit = MaxSeats
	}
	return &Selection{
		limit: limit,
		byID:  map[int]bool{},
	}
}

// Toggle adds or removes a seat. Deselecting is always allowed; selecting a
// seat the server already marked booked, or an over-limit seat, is rejected
// without mutation.
func (s *Selection) Toggle(seat model.Seat) error {
	if s.byID[seat.ID] {
		s.remove(seat.ID)
		return nil
	}
	if seat.Booked {
		return ErrSeatBooked
	}
	if len(s.seats) >= s.limit {
		return ErrSelectionFull
	}
	s.seats = append(s.seats, seat)
	s.byID[seat.ID] = true
	return nil
}

func (s *Selection) remove(id int) {
	delete(s.byID, id)
	for i, seat := range s.seats {
		if seat.ID == id {
			s.seats = append(s.seats[:i], s.seats[i+1:]...)
			return
		}
	}
}

func (s *Selection) Contains(id int) bool {
	return s.byID[id]
}

func (s *Selection) Count() int {
	return len(s.seats)
}

// Seats returns the selected seats in the order they were picked.
func (s *Selection) Seats() []model.Seat {
	return append([]model.Seat(nil), s.seats...)
}

func (s *Selection) IDs() []int {
	ids := make([]int, 0, len(s.seats))
	for _, seat := range s.seats {
		ids = append(ids, seat.ID)
	}
	return ids
}

// SeatNumbers returns the display labels of the selected seats, in pick
// order.
func (s *Selection) SeatNumbers() []string {
	numbers := make([]string, 0, len(s.seats))
	for _, seat := range s.seats {
		numbers = append(numbers, seat.SeatNumber)
	}
	return numbers
}
