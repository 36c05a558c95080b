package tui

import (
	"net/http"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"bookmymovie-cli/booking"
	"bookmymovie-cli/catalog"
	"bookmymovie-cli/model"
	"bookmymovie-cli/service"
)

var testMovie = model.Movie{ID: 5, Title: "Interstellar", Genre: "Sci-Fi", Language: "English", Duration: 169}

var testShow = model.Show{
	ID:             21,
	Movie:          testMovie,
	Theater:        model.Theater{ID: 3, Name: "Galaxy Cinema", City: "Pune"},
	Timing:         "6:30 PM",
	AvailableSeats: 40,
}

func testSeats() []model.Seat {
	return []model.Seat{
		{ID: 1, SeatNumber: "A1"},
		{ID: 2, SeatNumber: "A2"},
		{ID: 3, SeatNumber: "A3"},
		{ID: 4, SeatNumber: "B1", Booked: true},
		{ID: 5, SeatNumber: "B2"},
	}
}

func newTestModel() *appModel {
	m := New(service.NewClient(nil, "http://127.0.0.1:0/api")).(appModel)
	return &m
}

// flowAtSeats builds a model mid-workflow with seats loaded.
func flowAtSeats(t *testing.T) *appModel {
	t.Helper()
	m := newTestModel()
	m.flow = booking.New(testMovie, catalog.AllCities)
	m.flow.SetShows([]model.Show{testShow})
	if err := m.flow.SelectShow(testShow); err != nil {
		t.Fatalf("select show: %v", err)
	}
	details := model.UserDetails{Name: "Asha", Email: "asha@example.com", Phone: "9999999999"}
	if err := m.flow.SubmitDetails(details); err != nil {
		t.Fatalf("submit details: %v", err)
	}
	if err := m.flow.SeatsLoaded(testSeats()); err != nil {
		t.Fatalf("seats loaded: %v", err)
	}
	m.state = stateSelectSeats
	return m
}

func TestHandleFilterInput_AppendsRunes(t *testing.T) {
	m := newTestModel()
	m.state = stateSelectMovie
	m.movieList.SetItems(buildMovieItems([]model.Movie{testMovie}))

	if !m.handleFilterInput(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("i")}) {
		t.Fatal("expected filter input to be handled")
	}
	if !m.handleFilterInput(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("n")}) {
		t.Fatal("expected filter input to be handled")
	}
	if got := m.movieList.FilterValue(); got != "in" {
		t.Fatalf("expected filter value to be %q, got %q", "in", got)
	}
}

func TestHandleFilterInput_Backspace(t *testing.T) {
	m := newTestModel()
	m.state = stateSelectMovie
	m.movieList.SetItems(buildMovieItems([]model.Movie{testMovie}))

	_ = m.handleFilterInput(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("i")})
	_ = m.handleFilterInput(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("n")})

	if !m.handleFilterInput(tea.KeyMsg{Type: tea.KeyBackspace}) {
		t.Fatal("expected backspace to be handled")
	}
	if got := m.movieList.FilterValue(); got != "i" {
		t.Fatalf("expected filter value to be %q, got %q", "i", got)
	}
}

func TestHandleFilterInput_IgnoredOutsideListStates(t *testing.T) {
	m := flowAtSeats(t)
	if m.handleFilterInput(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("a")}) {
		t.Fatal("seat selection must not capture runes as filter input")
	}
}

func TestSeatGrid_GroupsByRowPrefix(t *testing.T) {
	grid := seatGrid(testSeats())
	if len(grid) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(grid))
	}
	if len(grid[0]) != 3 || len(grid[1]) != 2 {
		t.Fatalf("unexpected row widths: %d, %d", len(grid[0]), len(grid[1]))
	}
	if grid[0][0] != 0 || grid[1][0] != 3 {
		t.Fatalf("rows lost backend order: %v", grid)
	}
}

func TestSeatRowLabel(t *testing.T) {
	cases := map[string]string{
		"A1":   "A",
		"AB12": "AB",
		"7":    "•",
		"":     "•",
		"VIP":  "VIP",
	}
	for input, want := range cases {
		if got := seatRowLabel(input); got != want {
			t.Fatalf("seatRowLabel(%q) = %q, want %q", input, got, want)
		}
	}
}

func TestMoveSeatCursor_ClampsToShorterRow(t *testing.T) {
	m := flowAtSeats(t)
	m.seatCursor = 2 // A3

	m.moveSeatCursor(0, 1)
	if m.seatCursor != 4 {
		t.Fatalf("expected cursor to clamp to B2 (index 4), got %d", m.seatCursor)
	}

	m.moveSeatCursor(0, 1)
	if m.seatCursor != 4 {
		t.Fatalf("expected cursor to stay on last row, got %d", m.seatCursor)
	}

	m.moveSeatCursor(-1, 0)
	if m.seatCursor != 3 {
		t.Fatalf("expected cursor on B1 (index 3), got %d", m.seatCursor)
	}
}

func TestToggleBookedSeatShowsNotice(t *testing.T) {
	m := flowAtSeats(t)
	m.seatCursor = 3 // B1 is booked

	next, _, handled := m.handleKey(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("x")})
	if !handled {
		t.Fatal("expected toggle key to be handled")
	}
	if next.notice == "" {
		t.Fatal("expected a notice for a booked seat")
	}
	if next.flow.Selection().Count() != 0 {
		t.Fatal("booked seat must never enter the selection")
	}
}

func TestStaleShowsMessageDropped(t *testing.T) {
	m := newTestModel()
	m.state = stateSelectMovie
	m.gen = 3

	updated, _ := m.Update(showsMsg{gen: 2, shows: []model.Show{testShow}})
	got := updated.(appModel)
	if got.state != stateSelectMovie {
		t.Fatalf("stale shows response must be dropped, state moved to %d", got.state)
	}
}

func TestBookingRejectionReturnsToPayment(t *testing.T) {
	m := flowAtSeats(t)
	if err := m.flow.ToggleSeat(testSeats()[0]); err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if err := m.flow.ProceedToPayment(); err != nil {
		t.Fatalf("proceed: %v", err)
	}
	if _, err := m.flow.StartPayment(booking.PaymentCard); err != nil {
		t.Fatalf("start payment: %v", err)
	}
	m.state = stateSubmitting

	rejection := &service.APIError{
		StatusCode: http.StatusBadRequest,
		Status:     "400 Bad Request",
		Body:       "Seat A1 is already booked",
	}
	updated, _ := m.Update(bookingMsg{gen: m.gen, err: rejection})
	got := updated.(appModel)

	if got.state != stateSelectPayment {
		t.Fatalf("expected rejected booking to return to payment, got state %d", got.state)
	}
	if !strings.Contains(got.notice, "Seat A1 is already booked") {
		t.Fatalf("expected the backend message in the notice, got %q", got.notice)
	}
	if got.flow.State() != booking.Paying {
		t.Fatalf("workflow must stay in Paying, got %v", got.flow.State())
	}
}

func TestBookingSuccessConfirmsAndSchedulesRedirect(t *testing.T) {
	m := flowAtSeats(t)
	if err := m.flow.ToggleSeat(testSeats()[0]); err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if err := m.flow.ProceedToPayment(); err != nil {
		t.Fatalf("proceed: %v", err)
	}
	if _, err := m.flow.StartPayment(booking.PaymentCard); err != nil {
		t.Fatalf("start payment: %v", err)
	}
	m.state = stateSubmitting

	updated, cmd := m.Update(bookingMsg{gen: m.gen, confirmation: model.BookingConfirmation{ID: 1}})
	got := updated.(appModel)

	if got.state != stateConfirmed {
		t.Fatalf("expected confirmed state, got %d", got.state)
	}
	if got.flow.State() != booking.Confirmed {
		t.Fatalf("expected workflow confirmed, got %v", got.flow.State())
	}
	if cmd == nil {
		t.Fatal("expected a scheduled redirect back to the catalog")
	}
}

func TestRedirectExitsWorkflowAndRefreshes(t *testing.T) {
	m := flowAtSeats(t)
	m.state = stateConfirmed

	updated, cmd := m.Update(redirectMsg{gen: m.gen})
	got := updated.(appModel)

	if got.flow != nil {
		t.Fatal("expected the workflow to be dropped")
	}
	if got.state != stateLoadingCatalog {
		t.Fatalf("expected a catalog reload, got state %d", got.state)
	}
	if cmd == nil {
		t.Fatal("expected a refetch command")
	}
}

func TestGoBackFromSeatsRepopulatesDetails(t *testing.T) {
	m := flowAtSeats(t)

	next, _ := m.goBack()
	if next.state != stateEnterDetails {
		t.Fatalf("expected details step, got state %d", next.state)
	}
	if got := next.inputs[0].Value(); got != "Asha" {
		t.Fatalf("expected name to be repopulated, got %q", got)
	}
	if got := next.inputs[1].Value(); got != "asha@example.com" {
		t.Fatalf("expected email to be repopulated, got %q", got)
	}
}

func TestBuildCityItems_RecentsFloatUp(t *testing.T) {
	cities := []string{catalog.AllCities, "Pune", "Mumbai", "Delhi"}
	items := buildCityItems(cities, []string{"Delhi"})

	first, ok := items[0].(cityItem)
	if !ok || first.city != catalog.AllCities {
		t.Fatalf("expected %q first, got %v", catalog.AllCities, items[0])
	}
	second, ok := items[1].(cityItem)
	if !ok || second.city != "Delhi" || !second.recent {
		t.Fatalf("expected recent Delhi second, got %v", items[1])
	}
	if len(items) != len(cities) {
		t.Fatalf("expected %d items, got %d", len(cities), len(items))
	}
}

func TestWizardStep(t *testing.T) {
	if got := wizardStep(stateSelectShow); got != 1 {
		t.Fatalf("show selection should be step 1, got %d", got)
	}
	if got := wizardStep(stateSelectSeats); got != 3 {
		t.Fatalf("seat selection should be step 3, got %d", got)
	}
	if got := wizardStep(stateSelectMovie); got != 0 {
		t.Fatalf("catalog browsing is outside the wizard, got %d", got)
	}
}
