package booking

import (
	"testing"

	"bookmymovie-cli/model"
)

var (
	testMovie  = model.Movie{ID: 5, Title: "Movie Five", Genre: "Drama", Language: "Hindi", Duration: 150}
	puneShow   = model.Show{ID: 1, Movie: model.Movie{ID: 5}, Theater: model.Theater{ID: 10, Name: "Galaxy", City: "Pune"}, Timing: "6:00 PM"}
	mumbaiShow = model.Show{ID: 2, Movie: model.Movie{ID: 5}, Theater: model.Theater{ID: 11, Name: "Regal", City: "Mumbai"}, Timing: "9:00 PM"}

	validDetails = model.UserDetails{Name: "Asha", Email: "asha@example.com", Phone: "9999999999"}
)

func testSeats() []model.Seat {
	return []model.Seat{
		{ID: 70, SeatNumber: "A1"},
		{ID: 71, SeatNumber: "A2"},
		{ID: 72, SeatNumber: "A3", Booked: true},
		{ID: 73, SeatNumber: "B1"},
	}
}

// Drives a workflow to the seat selection step.
func workflowAtSeats(t *testing.T) *Workflow {
	t.Helper()
	w := New(testMovie, "All")
	w.SetShows([]model.Show{puneShow, mumbaiShow})
	if err := w.SelectShow(mumbaiShow); err != nil {
		t.Fatalf("select show: %v", err)
	}
	if err := w.SubmitDetails(validDetails); err != nil {
		t.Fatalf("submit details: %v", err)
	}
	if err := w.SeatsLoaded(testSeats()); err != nil {
		t.Fatalf("seats loaded: %v", err)
	}
	return w
}

func TestSetShows_AllCityKeepsBoth(t *testing.T) {
	w := New(testMovie, "All")
	w.SetShows([]model.Show{puneShow, mumbaiShow})
	if len(w.Shows()) != 2 {
		t.Fatalf("expected 2 shows, got %d", len(w.Shows()))
	}

	if err := w.SelectShow(mumbaiShow); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if w.State() != EnteringDetails {
		t.Fatalf("expected EnteringDetails, got %v", w.State())
	}
	if w.Show().Theater.City != "Mumbai" {
		t.Fatalf("expected Mumbai show, got %+v", w.Show())
	}
}

func TestSetShows_FiltersToCity(t *testing.T) {
	w := New(testMovie, "Pune")
	w.SetShows([]model.Show{puneShow, mumbaiShow})
	shows := w.Shows()
	if len(shows) != 1 || shows[0].ID != puneShow.ID {
		t.Fatalf("expected only the Pune show, got %+v", shows)
	}
}

func TestSetShows_EmptyFilteredListIsValid(t *testing.T) {
	w := New(testMovie, "Delhi")
	w.SetShows([]model.Show{puneShow, mumbaiShow})
	if len(w.Shows()) != 0 {
		t.Fatalf("expected no shows, got %+v", w.Shows())
	}
	if w.State() != SelectingShow {
		t.Fatalf("expected to remain in SelectingShow, got %v", w.State())
	}
}

func TestSubmitDetails_RejectsMissingFields(t *testing.T) {
	w := New(testMovie, "All")
	w.SetShows([]model.Show{mumbaiShow})
	if err := w.SelectShow(mumbaiShow); err != nil {
		t.Fatalf("select show: %v", err)
	}

	err := w.SubmitDetails(model.UserDetails{Name: "", Email: "a@b.com", Phone: "123"})
	if err == nil {
		t.Fatal("expected validation error")
	}
	if w.State() != EnteringDetails {
		t.Fatalf("expected to remain in EnteringDetails, got %v", w.State())
	}
	// No seat chart was installed: the rejection happens before any fetch.
	if len(w.Seats()) != 0 {
		t.Fatalf("expected no seats, got %d", len(w.Seats()))
	}
}

func TestSubmitDetails_RejectsBadEmail(t *testing.T) {
	w := New(testMovie, "All")
	w.SetShows([]model.Show{mumbaiShow})
	_ = w.SelectShow(mumbaiShow)

	if err := w.SubmitDetails(model.UserDetails{Name: "Asha", Email: "not-an-email", Phone: "123"}); err == nil {
		t.Fatal("expected validation error for malformed email")
	}
}

func TestSeatsLoaded_AdvancesToSelectingSeats(t *testing.T) {
	w := workflowAtSeats(t)
	if w.State() != SelectingSeats {
		t.Fatalf("expected SelectingSeats, got %v", w.State())
	}
	if len(w.Seats()) != 4 {
		t.Fatalf("expected 4 seats, got %d", len(w.Seats()))
	}
}

func TestToggleSeat_BookedSeatRejected(t *testing.T) {
	w := workflowAtSeats(t)
	if err := w.ToggleSeat(w.Seats()[2]); err != ErrSeatBooked {
		t.Fatalf("expected ErrSeatBooked, got %v", err)
	}
	if w.Selection().Count() != 0 {
		t.Fatalf("expected empty selection, got %d", w.Selection().Count())
	}
}

func TestProceedToPayment_RequiresSelection(t *testing.T) {
	w := workflowAtSeats(t)
	if err := w.ProceedToPayment(); err != ErrNoSeatsSelected {
		t.Fatalf("expected ErrNoSeatsSelected, got %v", err)
	}
	if w.State() != SelectingSeats {
		t.Fatalf("expected to remain in SelectingSeats, got %v", w.State())
	}
}

func TestCardPayment_ThreeSeatsTotal600(t *testing.T) {
	w := workflowAtSeats(t)
	seats := w.Seats()
	for _, seat := range []model.Seat{seats[0], seats[1], seats[3]} {
		if err := w.ToggleSeat(seat); err != nil {
			t.Fatalf("toggle %s: %v", seat.SeatNumber, err)
		}
	}
	if err := w.ProceedToPayment(); err != nil {
		t.Fatalf("proceed: %v", err)
	}
	if w.TotalPrice() != 600 {
		t.Fatalf("expected total 600, got %d", w.TotalPrice())
	}

	submit, err := w.StartPayment(PaymentCard)
	if err != nil {
		t.Fatalf("start payment: %v", err)
	}
	if !submit {
		t.Fatal("expected card payment to submit immediately")
	}

	req, err := w.Request()
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if req.TotalPrice != 600 || req.SeatsBooked != 3 || len(req.SeatIDs) != 3 {
		t.Fatalf("unexpected request: %+v", req)
	}
	if req.Show.ID != mumbaiShow.ID {
		t.Fatalf("expected show %d, got %d", mumbaiShow.ID, req.Show.ID)
	}

	if err := w.Completed(); err != nil {
		t.Fatalf("completed: %v", err)
	}
	if w.State() != Confirmed {
		t.Fatalf("expected Confirmed, got %v", w.State())
	}
}

func TestUPIPayment_ScansThenSubmits(t *testing.T) {
	w := workflowAtSeats(t)
	_ = w.ToggleSeat(w.Seats()[0])
	_ = w.ProceedToPayment()

	submit, err := w.StartPayment(PaymentUPI)
	if err != nil {
		t.Fatalf("start payment: %v", err)
	}
	if submit {
		t.Fatal("UPI must not submit before scanning confirms")
	}
	if !w.Scanning() {
		t.Fatal("expected scanning sub-state")
	}

	// Back from scanning exits the scanner, not the payment step.
	if err := w.Back(); err != nil {
		t.Fatalf("back: %v", err)
	}
	if w.Scanning() || w.State() != Paying {
		t.Fatalf("expected Paying without scanner, got %v scanning=%v", w.State(), w.Scanning())
	}

	if _, err := w.StartPayment(PaymentUPI); err != nil {
		t.Fatalf("start payment again: %v", err)
	}
	if err := w.ConfirmScan(); err != nil {
		t.Fatalf("confirm scan: %v", err)
	}
	if err := w.Completed(); err != nil {
		t.Fatalf("completed: %v", err)
	}
}

func TestSubmissionFailure_StaysInPaying(t *testing.T) {
	w := workflowAtSeats(t)
	_ = w.ToggleSeat(w.Seats()[0])
	_ = w.ProceedToPayment()
	if _, err := w.StartPayment(PaymentWallet); err != nil {
		t.Fatalf("start payment: %v", err)
	}

	// The caller saw a rejection and did not call Completed: the machine
	// stays in Paying and the request can be rebuilt for a retry.
	if w.State() != Paying {
		t.Fatalf("expected Paying, got %v", w.State())
	}
	if _, err := w.Request(); err != nil {
		t.Fatalf("request after failure: %v", err)
	}
	if _, err := w.StartPayment(PaymentCard); err != nil {
		t.Fatalf("retry payment: %v", err)
	}
}

func TestBack_PreservesEnteredData(t *testing.T) {
	w := workflowAtSeats(t)
	_ = w.ToggleSeat(w.Seats()[0])
	_ = w.ToggleSeat(w.Seats()[1])
	_ = w.ProceedToPayment()

	if err := w.Back(); err != nil {
		t.Fatalf("back from paying: %v", err)
	}
	if w.State() != SelectingSeats {
		t.Fatalf("expected SelectingSeats, got %v", w.State())
	}
	if w.Selection().Count() != 2 {
		t.Fatalf("expected selection preserved, got %d", w.Selection().Count())
	}

	if err := w.Back(); err != nil {
		t.Fatalf("back from seats: %v", err)
	}
	if w.State() != EnteringDetails {
		t.Fatalf("expected EnteringDetails, got %v", w.State())
	}
	if w.Details() != validDetails {
		t.Fatalf("expected details preserved, got %+v", w.Details())
	}

	if err := w.Back(); err != nil {
		t.Fatalf("back from details: %v", err)
	}
	if w.State() != SelectingShow {
		t.Fatalf("expected SelectingShow, got %v", w.State())
	}

	if err := w.Back(); err != ErrInvalidTransition {
		t.Fatalf("expected ErrInvalidTransition at the first step, got %v", err)
	}
}

func TestGuards_RejectOutOfStepActions(t *testing.T) {
	w := New(testMovie, "All")
	w.SetShows([]model.Show{mumbaiShow})

	if err := w.ToggleSeat(model.Seat{ID: 1}); err != ErrInvalidTransition {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}
	if err := w.ProceedToPayment(); err != ErrInvalidTransition {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}
	if _, err := w.StartPayment(PaymentCard); err != ErrInvalidTransition {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}
	if err := w.SeatsLoaded(nil); err != ErrInvalidTransition {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}
	if _, err := w.Request(); err != ErrInvalidTransition {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}

	_ = w.SelectShow(mumbaiShow)
	_ = w.SubmitDetails(validDetails)
	_ = w.SeatsLoaded(testSeats())
	_ = w.ToggleSeat(testSeats()[0])
	_ = w.ProceedToPayment()
	_, _ = w.StartPayment(PaymentCard)
	_ = w.Completed()

	// Terminal: nothing moves anymore.
	if err := w.Back(); err != ErrInvalidTransition {
		t.Fatalf("expected ErrInvalidTransition after Confirmed, got %v", err)
	}
	if err := w.Completed(); err != ErrInvalidTransition {
		t.Fatalf("expected ErrInvalidTransition after Confirmed, got %v", err)
	}
}

func TestTotalPrice_TracksSelection(t *testing.T) {
	w := workflowAtSeats(t)
	if w.TotalPrice() != 0 {
		t.Fatalf("expected 0, got %d", w.TotalPrice())
	}
	_ = w.ToggleSeat(w.Seats()[0])
	if w.TotalPrice() != SeatPrice {
		t.Fatalf("expected %d, got %d", SeatPrice, w.TotalPrice())
	}
	_ = w.ToggleSeat(w.Seats()[1])
	if w.TotalPrice() != 2*SeatPrice {
		t.Fatalf("expected %d, got %d", 2*SeatPrice, w.TotalPrice())
	}
	_ = w.ToggleSeat(w.Seats()[0])
	if w.TotalPrice() != SeatPrice {
		t.Fatalf("expected %d, got %d", SeatPrice, w.TotalPrice())
	}
}
