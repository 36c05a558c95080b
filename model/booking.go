package model

// Seat availability is authoritative at booking time: the Booked flag is
// the only truth the client acts on, AvailableSeats on Show is cosmetic.
type Seat struct {
	ID         int    `json:"id"`
	SeatNumber string `json:"seatNumber"`
	Booked     bool   `json:"booked"`
}

type UserDetails struct {
	Name  string `json:"name" validate:"required"`
	Email string `json:"email" validate:"required,email"`
	Phone string `json:"phone" validate:"required"`
}

// ShowRef is how the bookings endpoint wants the show identified.
type ShowRef struct {
	ID int `json:"id"`
}

type BookingRequest struct {
	User        UserDetails `json:"user"`
	Show        ShowRef     `json:"show"`
	SeatIDs     []int       `json:"seatIds"`
	SeatsBooked int         `json:"seatsBooked"`
	TotalPrice  int         `json:"totalPrice"`
}

// BookingConfirmation is opaque to the booking workflow; the fields below
// are what the backend happens to echo back.
type BookingConfirmation struct {
	ID          int    `json:"id"`
	Reference   string `json:"reference,omitempty"`
	SeatsBooked string `json:"seatsBooked,omitempty"`
	TotalPrice  int    `json:"totalPrice,omitempty"`
}
