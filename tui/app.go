package tui

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"bookmymovie-cli/booking"
	"bookmymovie-cli/catalog"
	"bookmymovie-cli/model"
	"bookmymovie-cli/service"
	"bookmymovie-cli/store"
)

type appState int

const (
	stateLoadingCatalog appState = iota
	stateSelectCity
	stateSelectMovie
	stateLoadingShows
	stateSelectShow
	stateEnterDetails
	stateLoadingSeats
	stateSelectSeats
	stateSelectPayment
	stateScanUPI
	stateSubmitting
	stateConfirmed
	stateError
)

type appModel struct {
	client *service.Client

	state     appState
	lastState appState
	err       error
	notice    string

	width  int
	height int

	catalog catalog.Catalog
	city    string

	cityList    list.Model
	movieList   list.Model
	showList    list.Model
	paymentList list.Model

	inputs     []textinput.Model
	focusIndex int

	flow       *booking.Workflow
	seatCursor int

	spinner spinner.Model

	// gen tags every in-flight request; responses from an abandoned
	// workflow or catalog load carry a stale gen and are dropped.
	gen int
}

type errMsg struct {
	err            error
	returnState    appState
	returnStateSet bool
}

type catalogMsg struct {
	gen      int
	snapshot store.CatalogSnapshot
	err      error
}

type showsMsg struct {
	gen   int
	shows []model.Show
	err   error
}

type seatsMsg struct {
	gen   int
	seats []model.Seat
	err   error
}

type bookingMsg struct {
	gen          int
	confirmation model.BookingConfirmation
	err          error
}

type redirectMsg struct {
	gen int
}

func New(client *service.Client) tea.Model {
	m := appModel{
		client: client,
		state:  stateLoadingCatalog,
		city:   catalog.AllCities,
	}

	m.cityList = newList("Select City")
	m.movieList = newList("Select Movie")
	m.showList = newList("Select Show")
	m.paymentList = newList("Select Payment Method")
	m.paymentList.SetFilteringEnabled(false)
	m.paymentList.SetItems(buildPaymentItems())

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("5"))
	m.spinner = sp

	return m
}

func (m appModel) Init() tea.Cmd {
	return tea.Batch(m.fetchCatalogCmd(m.gen, false), m.spinner.Tick)
}

func (m appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resizeLists()
		return m, nil

	case tea.KeyMsg:
		m.notice = ""
		if m.state == stateEnterDetails {
			return m.updateDetails(msg)
		}
		if m.handleFilterInput(msg) {
			return m, nil
		}
		next, cmd, handled := m.handleKey(msg)
		if handled {
			return next, cmd
		}
		m = next

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		if m.isLoadingState() {
			return m, cmd
		}
		return m, nil

	case errMsg:
		m.err = msg.err
		if msg.returnStateSet {
			m.lastState = msg.returnState
		} else {
			m.lastState = recoverStateFrom(m.state)
		}
		m.state = stateError
		return m, nil

	case catalogMsg:
		if msg.gen != m.gen {
			return m, nil
		}
		if msg.err != nil {
			return m, errWithReturnCmd(msg.err, stateLoadingCatalog)
		}
		m.catalog = catalog.Catalog{
			Movies:   msg.snapshot.Movies,
			Theaters: msg.snapshot.Theaters,
			Shows:    msg.snapshot.Shows,
		}
		recents, _ := store.LoadRecentCities()
		m.cityList.SetItems(buildCityItems(m.catalog.Cities(), recents))
		m.rebuildMovieList()
		m.state = stateSelectMovie
		return m, nil

	case showsMsg:
		if msg.gen != m.gen || m.flow == nil {
			return m, nil
		}
		if msg.err != nil {
			return m, errWithReturnCmd(msg.err, stateSelectMovie)
		}
		m.flow.SetShows(msg.shows)
		m.showList.SetItems(buildShowItems(m.flow.Shows()))
		m.showList.Select(0)
		m.state = stateSelectShow
		return m, nil

	case seatsMsg:
		if msg.gen != m.gen || m.flow == nil {
			return m, nil
		}
		if msg.err != nil {
			m.notice = "Could not load seats: " + msg.err.Error()
			m.state = stateEnterDetails
			return m, nil
		}
		if err := m.flow.SeatsLoaded(msg.seats); err != nil {
			m.notice = err.Error()
			m.state = stateEnterDetails
			return m, nil
		}
		m.seatCursor = 0
		m.state = stateSelectSeats
		return m, nil

	case bookingMsg:
		if msg.gen != m.gen || m.flow == nil {
			return m, nil
		}
		if msg.err != nil {
			if service.IsRejected(msg.err) {
				m.notice = "Booking rejected: " + rejectionDetail(msg.err)
			} else {
				m.notice = "Booking failed. Please try again."
			}
			if m.flow.Scanning() {
				m.state = stateScanUPI
			} else {
				m.state = stateSelectPayment
			}
			return m, nil
		}
		if err := m.flow.Completed(); err != nil {
			return m, errCmd(err)
		}
		m.state = stateConfirmed
		return m, m.redirectCmd(m.gen)

	case redirectMsg:
		if msg.gen != m.gen {
			return m, nil
		}
		return m.exitWorkflow(true)
	}

	var cmd tea.Cmd
	switch m.state {
	case stateSelectCity:
		m.cityList, cmd = m.cityList.Update(msg)
	case stateSelectMovie:
		m.movieList, cmd = m.movieList.Update(msg)
	case stateSelectShow:
		m.showList, cmd = m.showList.Update(msg)
	case stateSelectPayment:
		m.paymentList, cmd = m.paymentList.Update(msg)
	}
	return m, cmd
}

func (m appModel) handleKey(msg tea.KeyMsg) (appModel, tea.Cmd, bool) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit, true
	case "q":
		// lists swallow runes while filtering, so this only fires outside
		// filter input
		return m, tea.Quit, true
	case "esc":
		if listPtr := m.activeList(); listPtr != nil {
			if listPtr.SettingFilter() || listPtr.IsFiltered() {
				listPtr.ResetFilter()
				return m, nil, true
			}
		}
		next, cmd := m.goBack()
		return next, cmd, true
	case "left", "h":
		if m.state == stateSelectSeats {
			m.moveSeatCursor(-1, 0)
			return m, nil, true
		}
	case "right", "l":
		if m.state == stateSelectSeats {
			m.moveSeatCursor(1, 0)
			return m, nil, true
		}
	case "up", "k":
		if m.state == stateSelectSeats {
			m.moveSeatCursor(0, -1)
			return m, nil, true
		}
	case "down", "j":
		if m.state == stateSelectSeats {
			m.moveSeatCursor(0, 1)
			return m, nil, true
		}
	case " ", "x":
		if m.state == stateSelectSeats {
			return m.toggleSeatUnderCursor()
		}
	case "r":
		if m.state == stateError {
			return m.retryAfterError()
		}
	}

	if msg.Type == tea.KeyEnter {
		switch m.state {
		case stateSelectCity:
			item, ok := m.cityList.SelectedItem().(cityItem)
			if !ok {
				return m, nil, true
			}
			m.city = item.city
			if m.city != catalog.AllCities {
				_ = store.RememberCity(m.city)
			}
			m.rebuildMovieList()
			m.state = stateSelectMovie
			return m, nil, true

		case stateSelectMovie:
			item, ok := m.movieList.SelectedItem().(movieItem)
			if !ok {
				return m, nil, true
			}
			m.gen++
			m.flow = booking.New(item.movie, m.city)
			m.state = stateLoadingShows
			return m, tea.Batch(m.fetchShowsCmd(m.gen, item.movie.ID), m.spinner.Tick), true

		case stateSelectShow:
			item, ok := m.showList.SelectedItem().(showItem)
			if !ok {
				return m, nil, true
			}
			if err := m.flow.SelectShow(item.show); err != nil {
				m.notice = err.Error()
				return m, nil, true
			}
			m.initDetailsInputs()
			m.state = stateEnterDetails
			return m, nil, true

		case stateSelectSeats:
			if err := m.flow.ProceedToPayment(); err != nil {
				m.notice = err.Error()
				return m, nil, true
			}
			m.paymentList.Select(0)
			m.state = stateSelectPayment
			return m, nil, true

		case stateSelectPayment:
			item, ok := m.paymentList.SelectedItem().(paymentItem)
			if !ok {
				return m, nil, true
			}
			submit, err := m.flow.StartPayment(item.method)
			if err != nil {
				m.notice = err.Error()
				return m, nil, true
			}
			if !submit {
				m.state = stateScanUPI
				return m, nil, true
			}
			return m.submitBooking()

		case stateScanUPI:
			if err := m.flow.ConfirmScan(); err != nil {
				m.notice = err.Error()
				return m, nil, true
			}
			return m.submitBooking()

		case stateError:
			return m.retryAfterError()
		}
	}
	return m, nil, false
}

func (m appModel) updateDetails(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "esc":
		return m.goBack()
	case "tab", "down":
		m.focusInput(m.focusIndex + 1)
		return m, nil
	case "shift+tab", "up":
		m.focusInput(m.focusIndex - 1)
		return m, nil
	case "enter":
		if m.focusIndex < len(m.inputs)-1 {
			m.focusInput(m.focusIndex + 1)
			return m, nil
		}
		details := model.UserDetails{
			Name:  strings.TrimSpace(m.inputs[0].Value()),
			Email: strings.TrimSpace(m.inputs[1].Value()),
			Phone: strings.TrimSpace(m.inputs[2].Value()),
		}
		if err := m.flow.SubmitDetails(details); err != nil {
			m.notice = err.Error()
			return m, nil
		}
		m.state = stateLoadingSeats
		return m, tea.Batch(m.fetchSeatsCmd(m.gen, m.flow.Show().ID), m.spinner.Tick)
	}

	var cmd tea.Cmd
	m.inputs[m.focusIndex], cmd = m.inputs[m.focusIndex].Update(msg)
	return m, cmd
}

func (m *appModel) focusInput(index int) {
	if index < 0 {
		index = len(m.inputs) - 1
	}
	if index >= len(m.inputs) {
		index = 0
	}
	for i := range m.inputs {
		if i == index {
			m.inputs[i].Focus()
		} else {
			m.inputs[i].Blur()
		}
	}
	m.focusIndex = index
}

func (m *appModel) initDetailsInputs() {
	details := m.flow.Details()

	name := textinput.New()
	name.Placeholder = "Your full name"
	name.CharLimit = 60
	name.SetValue(details.Name)

	email := textinput.New()
	email.Placeholder = "you@example.com"
	email.CharLimit = 80
	email.SetValue(details.Email)

	phone := textinput.New()
	phone.Placeholder = "Phone number"
	phone.CharLimit = 15
	phone.SetValue(details.Phone)

	m.inputs = []textinput.Model{name, email, phone}
	m.focusIndex = 0
	m.inputs[0].Focus()
}

func (m appModel) toggleSeatUnderCursor() (appModel, tea.Cmd, bool) {
	seats := m.flow.Seats()
	if m.seatCursor < 0 || m.seatCursor >= len(seats) {
		return m, nil, true
	}
	if err := m.flow.ToggleSeat(seats[m.seatCursor]); err != nil {
		m.notice = err.Error()
	}
	return m, nil, true
}

func (m *appModel) moveSeatCursor(dx int, dy int) {
	grid := seatGrid(m.flow.Seats())
	if len(grid) == 0 {
		return
	}
	row, col := locateSeat(grid, m.seatCursor)
	if row < 0 {
		m.seatCursor = grid[0][0]
		return
	}
	if dy != 0 {
		row += dy
		if row < 0 {
			row = 0
		}
		if row >= len(grid) {
			row = len(grid) - 1
		}
		if col >= len(grid[row]) {
			col = len(grid[row]) - 1
		}
	}
	if dx != 0 {
		col += dx
		if col < 0 {
			col = 0
		}
		if col >= len(grid[row]) {
			col = len(grid[row]) - 1
		}
	}
	m.seatCursor = grid[row][col]
}

func (m appModel) submitBooking() (appModel, tea.Cmd, bool) {
	req, err := m.flow.Request()
	if err != nil {
		m.notice = err.Error()
		return m, nil, true
	}
	m.state = stateSubmitting
	return m, tea.Batch(m.submitBookingCmd(m.gen, req), m.spinner.Tick), true
}

func (m appModel) goBack() (appModel, tea.Cmd) {
	switch m.state {
	case stateSelectCity:
		m.state = stateSelectMovie
	case stateSelectMovie:
		m.state = stateSelectCity
	case stateLoadingShows, stateSelectShow:
		// abandoning the workflow discards any in-flight response
		return m.exitWorkflow(false)
	case stateEnterDetails:
		if err := m.flow.Back(); err != nil {
			return m.exitWorkflow(false)
		}
		m.state = stateSelectShow
	case stateLoadingSeats:
		// seat fetch still in flight; drop its result when it lands
		m.gen++
		m.state = stateEnterDetails
	case stateSelectSeats:
		if err := m.flow.Back(); err == nil {
			m.initDetailsInputs()
			m.state = stateEnterDetails
		}
	case stateSelectPayment:
		if err := m.flow.Back(); err == nil {
			m.state = stateSelectSeats
		}
	case stateScanUPI:
		if err := m.flow.Back(); err == nil {
			m.state = stateSelectPayment
		}
	case stateError:
		m.state = m.lastState
		if m.state == stateLoadingCatalog {
			return m, tea.Batch(m.fetchCatalogCmd(m.gen, false), m.spinner.Tick)
		}
	}
	return m, nil
}

// exitWorkflow drops the current workflow instance and returns to the
// catalog. refresh forces a refetch so seat availability is current after a
// confirmed booking.
func (m appModel) exitWorkflow(refresh bool) (appModel, tea.Cmd) {
	m.flow = nil
	m.gen++
	m.notice = ""
	if refresh {
		m.state = stateLoadingCatalog
		return m, tea.Batch(m.fetchCatalogCmd(m.gen, true), m.spinner.Tick)
	}
	m.state = stateSelectMovie
	return m, nil
}

func (m appModel) retryAfterError() (appModel, tea.Cmd, bool) {
	switch m.lastState {
	case stateLoadingCatalog:
		m.state = stateLoadingCatalog
		return m, tea.Batch(m.fetchCatalogCmd(m.gen, true), m.spinner.Tick), true
	case stateSelectMovie:
		if m.flow != nil {
			m.state = stateLoadingShows
			return m, tea.Batch(m.fetchShowsCmd(m.gen, m.flow.Movie().ID), m.spinner.Tick), true
		}
	}
	m.state = m.lastState
	return m, nil, true
}

func (m *appModel) rebuildMovieList() {
	m.movieList.Title = "Select Movie • " + m.city
	m.movieList.SetItems(buildMovieItems(m.catalog.VisibleMovies(m.city)))
	m.movieList.Select(0)
}

func (m *appModel) handleFilterInput(msg tea.KeyMsg) bool {
	listPtr := m.activeList()
	if listPtr == nil {
		return false
	}
	if !listPtr.FilteringEnabled() {
		return false
	}
	switch msg.Type {
	case tea.KeyRunes:
		if len(msg.Runes) == 0 {
			return false
		}
		m.appendFilter(listPtr, string(msg.Runes))
		return true
	case tea.KeySpace:
		m.appendFilter(listPtr, " ")
		return true
	case tea.KeyBackspace, tea.KeyDelete:
		if listPtr.FilterValue() == "" {
			return false
		}
		m.popFilter(listPtr)
		return true
	default:
		return false
	}
}

func (m *appModel) appendFilter(listPtr *list.Model, value string) {
	if value == "" {
		return
	}
	current := listPtr.FilterValue()
	listPtr.SetFilterText(current + value)
}

func (m *appModel) popFilter(listPtr *list.Model) {
	value := listPtr.FilterValue()
	if value == "" {
		return
	}
	value = trimLastRune(value)
	if value == "" {
		listPtr.ResetFilter()
		return
	}
	listPtr.SetFilterText(value)
}

func trimLastRune(value string) string {
	runes := []rune(value)
	if len(runes) <= 1 {
		return ""
	}
	return string(runes[:len(runes)-1])
}

func (m *appModel) activeList() *list.Model {
	switch m.state {
	case stateSelectCity:
		return &m.cityList
	case stateSelectMovie:
		return &m.movieList
	case stateSelectShow:
		return &m.showList
	case stateSelectPayment:
		return &m.paymentList
	default:
		return nil
	}
}

func (m appModel) isLoadingState() bool {
	return m.state == stateLoadingCatalog ||
		m.state == stateLoadingShows ||
		m.state == stateLoadingSeats ||
		m.state == stateSubmitting
}

func (m *appModel) resizeLists() {
	if m.width == 0 || m.height == 0 {
		return
	}
	h := m.height - 6
	if h < 6 {
		h = 6
	}
	m.cityList.SetSize(m.width, h)
	m.movieList.SetSize(m.width, h)
	m.showList.SetSize(m.width, h)
	m.paymentList.SetSize(m.width, h)
}

func newList(title string) list.Model {
	delegate := list.NewDefaultDelegate()
	delegate.ShowDescription = true
	l := list.New([]list.Item{}, delegate, 0, 0)
	l.Title = title
	l.Filter = caseInsensitiveFilter
	l.SetFilteringEnabled(true)
	l.SetShowFilter(true)
	l.SetShowStatusBar(false)
	l.SetShowHelp(false)
	return l
}

func caseInsensitiveFilter(term string, targets []string) []list.Rank {
	term = strings.ToLower(term)
	lower := make([]string, len(targets))
	for i, t := range targets {
		lower[i] = strings.ToLower(t)
	}
	return list.DefaultFilter(term, lower)
}

func errCmd(err error) tea.Cmd {
	return func() tea.Msg {
		return errMsg{err: err}
	}
}

func errWithReturnCmd(err error, returnState appState) tea.Cmd {
	return func() tea.Msg {
		return errMsg{err: err, returnState: returnState, returnStateSet: true}
	}
}

func recoverStateFrom(state appState) appState {
	switch state {
	case stateLoadingCatalog:
		return stateLoadingCatalog
	case stateLoadingShows:
		return stateSelectMovie
	case stateLoadingSeats:
		return stateEnterDetails
	case stateSubmitting:
		return stateSelectPayment
	default:
		return state
	}
}

func rejectionDetail(err error) string {
	var apiErr *service.APIError
	if errors.As(err, &apiErr) && apiErr.Body != "" {
		return apiErr.Body
	}
	return err.Error()
}

func (m appModel) fetchCatalogCmd(gen int, force bool) tea.Cmd {
	return func() tea.Msg {
		if !force {
			if cached, fresh, err := store.LoadCatalogCache(); err == nil && fresh && len(cached.Movies) > 0 {
				return catalogMsg{gen: gen, snapshot: cached}
			}
		}

		ctx := context.Background()
		var (
			wg       sync.WaitGroup
			movies   []model.Movie
			theaters []model.Theater
			shows    []model.Show

			movieErr, theaterErr, showErr error
		)
		wg.Add(3)
		go func() {
			defer wg.Done()
			movies, movieErr = m.client.ListMovies(ctx)
		}()
		go func() {
			defer wg.Done()
			theaters, theaterErr = m.client.ListTheaters(ctx)
		}()
		go func() {
			defer wg.Done()
			shows, showErr = m.client.ListShows(ctx)
		}()
		wg.Wait()

		for _, err := range []error{movieErr, theaterErr, showErr} {
			if err != nil {
				return catalogMsg{gen: gen, err: err}
			}
		}

		snapshot := store.CatalogSnapshot{Movies: movies, Theaters: theaters, Shows: shows}
		_ = store.SaveCatalogCache(snapshot)
		return catalogMsg{gen: gen, snapshot: snapshot}
	}
}

func (m appModel) fetchShowsCmd(gen int, movieID int) tea.Cmd {
	return func() tea.Msg {
		if cached, fresh, err := store.LoadShowCache(movieID); err == nil && fresh && len(cached) > 0 {
			return showsMsg{gen: gen, shows: cached}
		}
		ctx := context.Background()
		shows, err := m.client.ListShowsByMovie(ctx, movieID)
		if err != nil {
			if service.IsNotFound(err) {
				return showsMsg{gen: gen}
			}
			return showsMsg{gen: gen, err: err}
		}
		if len(shows) > 0 {
			_ = store.SaveShowCache(movieID, shows)
		}
		return showsMsg{gen: gen, shows: shows}
	}
}

func (m appModel) fetchSeatsCmd(gen int, showID int) tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		seats, err := m.client.ListSeats(ctx, showID)
		return seatsMsg{gen: gen, seats: seats, err: err}
	}
}

func (m appModel) submitBookingCmd(gen int, req model.BookingRequest) tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		confirmation, err := m.client.CreateBooking(ctx, req)
		return bookingMsg{gen: gen, confirmation: confirmation, err: err}
	}
}

func (m appModel) redirectCmd(gen int) tea.Cmd {
	return tea.Tick(booking.RedirectDelay, func(time.Time) tea.Msg {
		return redirectMsg{gen: gen}
	})
}
