// Package booking implements the four-step ticket booking workflow as a
// plain state machine. It does no I/O of its own: callers fetch shows and
// seats, feed them in, and submit the built request; the machine enforces
// the guards and keeps entered data across back-navigation.
package booking

import (
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"

	"bookmymovie-cli/catalog"
	"bookmymovie-cli/model"
)

// State is the wizard step. Confirmed is terminal.
type State int

const (
	SelectingShow State = iota
	EnteringDetails
	SelectingSeats
	Paying
	Confirmed
)

func (s State) String() string {
	switch s {
	case SelectingShow:
		return "selecting show"
	case EnteringDetails:
		return "entering details"
	case SelectingSeats:
		return "selecting seats"
	case Paying:
		return "paying"
	case Confirmed:
		return "confirmed"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

type PaymentMethod string

const (
	PaymentUPI        PaymentMethod = "UPI"
	PaymentCard       PaymentMethod = "Card"
	PaymentWallet     PaymentMethod = "Wallet"
	PaymentNetBanking PaymentMethod = "Net Banking"
)

// PaymentMethods in display order.
func PaymentMethods() []PaymentMethod {
	return []PaymentMethod{PaymentUPI, PaymentCard, PaymentWallet, PaymentNetBanking}
}

const (
	// SeatPrice is the fixed price per seat in rupees. The total is always
	// derived from the selection count, never entered.
	SeatPrice = 200

	// MaxSeats caps one booking's selection.
	MaxSeats = 10

	// RedirectDelay is how long the confirmation stays on screen before the
	// front end returns to the catalog.
	RedirectDelay = 4 * time.Second
)

var (
	ErrInvalidTransition = errors.New("action not available in this step")
	ErrSeatBooked        = errors.New("that seat is already booked")
	ErrSelectionFull     = fmt.Errorf("you can book at most %d seats", MaxSeats)
	ErrNoSeatsSelected   = errors.New("select at least one seat")
	ErrNoShowSelected    = errors.New("select a show first")
)

var validate = validator.New()

// Workflow is one user's traversal of the booking state machine. It is not
// safe for concurrent use; each instance belongs to a single front end.
type Workflow struct {
	movie model.Movie
	city  string

	state    State
	scanning bool

	shows     []model.Show
	show      model.Show
	showSet   bool
	details   model.UserDetails
	seats     []model.Seat
	selection *Selection
}

// New starts a workflow for a movie, filtered to a city ("" means All).
func New(movie model.Movie, city string) *Workflow {
	if city == "" {
		city = catalog.AllCities
	}
	return &Workflow{
		movie:     movie,
		city:      city,
		state:     SelectingShow,
		selection: NewSelection(MaxSeats),
	}
}

func (w *Workflow) State() State          { return w.state }
func (w *Workflow) Scanning() bool        { return w.scanning }
func (w *Workflow) Movie() model.Movie    { return w.movie }
func (w *Workflow) City() string          { return w.city }
func (w *Workflow) Shows() []model.Show   { return w.shows }
func (w *Workflow) Seats() []model.Seat   { return w.seats }
func (w *Workflow) Selection() *Selection { return w.selection }

// SetShows installs the fetched show list, filtered to the workflow's city.
// An empty filtered list is valid: the workflow simply has no forward
// transition until shows exist.
func (w *Workflow) SetShows(shows []model.Show) {
	w.shows = catalog.FilterShows(shows, w.city)
}

// Show returns the selected show.
func (w *Workflow) Show() model.Show { return w.show }

// SelectShow advances to details entry. Available-seat counts on the show
// are informational only and not a guard.
func (w *Workflow) SelectShow(show model.Show) error {
	if w.state != SelectingShow {
		return ErrInvalidTransition
	}
	w.show = show
	w.showSet = true
	w.state = EnteringDetails
	return nil
}

// Details returns whatever the user has entered so far, so a front end can
// re-populate its form after back-navigation.
func (w *Workflow) Details() model.UserDetails { return w.details }

// SubmitDetails validates and stores the user's details. A nil return means
// the caller should fetch the seat chart and call SeatsLoaded; on a fetch
// failure the workflow simply stays here. No network is touched on a
// validation failure.
func (w *Workflow) SubmitDetails(details model.UserDetails) error {
	if w.state != EnteringDetails {
		return ErrInvalidTransition
	}
	if err := validate.Struct(details); err != nil {
		return detailsError(err)
	}
	w.details = details
	return nil
}

// SeatsLoaded installs the fetched seat chart and advances to seat
// selection.
func (w *Workflow) SeatsLoaded(seats []model.Seat) error {
	if w.state != EnteringDetails {
		return ErrInvalidTransition
	}
	if !w.showSet {
		return ErrNoShowSelected
	}
	w.seats = seats
	w.state = SelectingSeats
	return nil
}

// ToggleSeat selects or deselects a seat.
func (w *Workflow) ToggleSeat(seat model.Seat) error {
	if w.state != SelectingSeats {
		return ErrInvalidTransition
	}
	return w.selection.Toggle(seat)
}

// ProceedToPayment requires at least one selected seat.
func (w *Workflow) ProceedToPayment() error {
	if w.state != SelectingSeats {
		return ErrInvalidTransition
	}
	if w.selection.Count() == 0 {
		return ErrNoSeatsSelected
	}
	w.state = Paying
	return nil
}

// TotalPrice is always selection count times SeatPrice.
func (w *Workflow) TotalPrice() int {
	return w.selection.Count() * SeatPrice
}

// StartPayment picks a payment method. UPI enters the scanning sub-state
// and submit is false; any other method asks the caller to submit the
// booking right away.
func (w *Workflow) StartPayment(method PaymentMethod) (submit bool, err error) {
	if w.state != Paying || w.scanning {
		return false, ErrInvalidTransition
	}
	if method == PaymentUPI {
		w.scanning = true
		return false, nil
	}
	return true, nil
}

// ConfirmScan completes the UPI scanning sub-state; a nil return means the
// caller should submit the booking.
func (w *Workflow) ConfirmScan() error {
	if w.state != Paying || !w.scanning {
		return ErrInvalidTransition
	}
	return nil
}

// Request builds the booking payload from the current state.
func (w *Workflow) Request() (model.BookingRequest, error) {
	if w.state != Paying {
		return model.BookingRequest{}, ErrInvalidTransition
	}
	return model.BookingRequest{
		User:        w.details,
		Show:        model.ShowRef{ID: w.show.ID},
		SeatIDs:     w.selection.IDs(),
		SeatsBooked: w.selection.Count(),
		TotalPrice:  w.TotalPrice(),
	}, nil
}

// Completed marks the booking confirmed. The workflow is terminal from
// here; on submission failure callers simply do not call this and the
// machine stays in Paying for a retry.
func (w *Workflow) Completed() error {
	if w.state != Paying {
		return ErrInvalidTransition
	}
	w.state = Confirmed
	w.scanning = false
	return nil
}

// Back regresses one step without losing entered data. From the scanning
// sub-state it returns to the payment method choice; from SelectingShow
// there is nowhere to go and the front end should leave the workflow.
func (w *Workflow) Back() error {
	switch {
	case w.state == Paying && w.scanning:
		w.scanning = false
	case w.state == Paying:
		w.state = SelectingSeats
	case w.state == SelectingSeats:
		w.state = EnteringDetails
	case w.state == EnteringDetails:
		w.state = SelectingShow
	default:
		return ErrInvalidTransition
	}
	return nil
}

// detailsError turns the first validator failure into a message fit for the
// notice line.
func detailsError(err error) error {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return err
	}
	first := fieldErrs[0]
	switch first.Tag() {
	case "required":
		return fmt.Errorf("%s is required", fieldLabel(first.Field()))
	case "email":
		return errors.New("email must be a valid email address")
	default:
		return fmt.Errorf("%s is invalid", fieldLabel(first.Field()))
	}
}

func fieldLabel(field string) string {
	switch field {
	case "Name":
		return "name"
	case "Email":
		return "email"
	case "Phone":
		return "phone"
	default:
		return field
	}
}
