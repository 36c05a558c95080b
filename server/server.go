// Package server is an in-memory stand-in for the BookMyMovie backend,
// serving the same routes and payloads. It exists for offline demos and
// for integration tests of the client; nothing survives a restart.
package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"bookmymovie-cli/model"
)

var validate = validator.New()

type bookingRecord struct {
	ID          int               `json:"id"`
	Reference   string            `json:"reference"`
	User        model.UserDetails `json:"user"`
	Show        model.ShowRef     `json:"show"`
	SeatsBooked string            `json:"seatsBooked"`
	TotalPrice  int               `json:"totalPrice"`
}

// Server holds the seeded catalog. Seat state is authoritative here: a
// booking for an already-booked seat is rejected, which is exactly the
// conflict the client has to surface as a submission failure.
type Server struct {
	mu sync.Mutex

	movies   []model.Movie
	theaters []model.Theater
	shows    []*model.Show
	seats    map[int][]*model.Seat

	bookings      []bookingRecord
	nextBookingID int

	log *zap.Logger
}

func New(log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	movies, theaters, shows, seats := seedData()
	return &Server{
		movies:        movies,
		theaters:      theaters,
		shows:         shows,
		seats:         seats,
		nextBookingID: 1,
		log:           log,
	}
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.requestLogger)

	r.Route("/api", func(r chi.Router) {
		r.Get("/movies", s.handleMovies)
		r.Get("/theaters", s.handleTheaters)
		r.Get("/shows", s.handleShows)
		r.Get("/shows/{showID}/seats", s.handleSeats)
		r.Get("/bookings", s.handleBookings)
		r.Post("/bookings", s.handleCreateBooking)
	})
	return r
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.log.Info("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Duration("took", time.Since(start)),
		)
	})
}

func (s *Server) handleMovies(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	writeJSON(w, http.StatusOK, s.movies)
}

func (s *Server) handleTheaters(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	writeJSON(w, http.StatusOK, s.theaters)
}

func (s *Server) handleShows(w http.ResponseWriter, r *http.Request) {
	movieID, _ := strconv.Atoi(r.URL.Query().Get("movieId"))
	theaterID, _ := strconv.Atoi(r.URL.Query().Get("theaterId"))

	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]model.Show, 0, len(s.shows))
	for _, show := range s.shows {
		if movieID > 0 && show.Movie.ID != movieID {
			continue
		}
		if theaterID > 0 && show.Theater.ID != theaterID {
			continue
		}
		out = append(out, *show)
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleSeats(w http.ResponseWriter, r *http.Request) {
	showID, err := strconv.Atoi(chi.URLParam(r, "showID"))
	if err != nil {
		http.Error(w, "invalid show id", http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	chart, ok := s.seats[showID]
	if !ok {
		http.Error(w, fmt.Sprintf("Show not found: %d", showID), http.StatusNotFound)
		return
	}
	out := make([]model.Seat, 0, len(chart))
	for _, seat := range chart {
		out = append(out, *seat)
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleBookings(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	writeJSON(w, http.StatusOK, s.bookings)
}

func (s *Server) handleCreateBooking(w http.ResponseWriter, r *http.Request) {
	var req model.BookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid booking payload", http.StatusBadRequest)
		return
	}
	if err := validate.Struct(req.User); err != nil {
		http.Error(w, "invalid user details", http.StatusBadRequest)
		return
	}
	if len(req.SeatIDs) == 0 {
		http.Error(w, "no seats requested", http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	show := s.findShow(req.Show.ID)
	if show == nil {
		http.Error(w, fmt.Sprintf("Show not found: %d", req.Show.ID), http.StatusBadRequest)
		return
	}
	chart := s.seats[show.ID]

	// First pass validates every seat so a conflict leaves nothing booked.
	requested := make([]*model.Seat, 0, len(req.SeatIDs))
	for _, seatID := range req.SeatIDs {
		seat := findSeat(chart, seatID)
		if seat == nil {
			http.Error(w, fmt.Sprintf("Seat not found: %d", seatID), http.StatusBadRequest)
			return
		}
		if seat.Booked {
			http.Error(w, fmt.Sprintf("Seat %s is already booked", seat.SeatNumber), http.StatusBadRequest)
			return
		}
		requested = append(requested, seat)
	}

	seatNumbers := ""
	for _, seat := range requested {
		seat.Booked = true
		if seatNumbers != "" {
			seatNumbers += ", "
		}
		seatNumbers += seat.SeatNumber
	}
	show.AvailableSeats -= len(requested)

	record := bookingRecord{
		ID:          s.nextBookingID,
		Reference:   uuid.NewString(),
		User:        req.User,
		Show:        req.Show,
		SeatsBooked: seatNumbers,
		TotalPrice:  req.TotalPrice,
	}
	s.nextBookingID++
	s.bookings = append(s.bookings, record)

	s.log.Info("booking created",
		zap.Int("id", record.ID),
		zap.Int("show", show.ID),
		zap.String("seats", seatNumbers),
		zap.Int("total", record.TotalPrice),
	)
	writeJSON(w, http.StatusCreated, record)
}

func (s *Server) findShow(id int) *model.Show {
	for _, show := range s.shows {
		if show.ID == id {
			return show
		}
	}
	return nil
}

func findSeat(chart []*model.Seat, id int) *model.Seat {
	for _, seat := range chart {
		if seat.ID == id {
			return seat
		}
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
