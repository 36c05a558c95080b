package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/lipgloss"

	"bookmymovie-cli/booking"
	"bookmymovie-cli/catalog"
	"bookmymovie-cli/model"
)

func (m appModel) View() string {
	header := m.headerView()
	switch m.state {
	case stateLoadingCatalog, stateLoadingShows, stateLoadingSeats, stateSubmitting:
		return header + "\n\n" + m.loadingView()
	case stateSelectCity:
		return header + "\n\n" + m.cityList.View()
	case stateSelectMovie:
		return header + "\n\n" + m.movieList.View() + m.noticeView()
	case stateSelectShow:
		if len(m.showList.Items()) == 0 {
			return header + "\n\n" + m.emptyShowsView()
		}
		return header + "\n\n" + m.showList.View() + m.noticeView()
	case stateEnterDetails:
		return header + "\n\n" + m.detailsView() + m.noticeView()
	case stateSelectSeats:
		return header + "\n\n" + m.seatView() + m.noticeView()
	case stateSelectPayment:
		return header + "\n\n" + m.paymentView() + m.noticeView()
	case stateScanUPI:
		return header + "\n\n" + m.scanView() + m.noticeView()
	case stateConfirmed:
		return header + "\n\n" + m.confirmedView()
	case stateError:
		return header + "\n\n" + lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Render(m.err.Error()) + "\n\n" + hint("Press enter or r to retry, esc to go back, ctrl+c to quit.")
	default:
		return header
	}
}

func (m appModel) headerView() string {
	title := lipgloss.NewStyle().Bold(true).Render("BookMyMovie")
	sub := []string{}
	if m.city != "" {
		sub = append(sub, fmt.Sprintf("City: %s", m.city))
	}
	if m.flow != nil {
		sub = append(sub, fmt.Sprintf("Movie: %s", m.flow.Movie().Title))
		if m.state != stateLoadingShows && m.state != stateSelectShow {
			show := m.flow.Show()
			sub = append(sub, fmt.Sprintf("Show: %s at %s", show.Timing, show.Theater.Name))
		}
		if step := wizardStep(m.state); step > 0 {
			sub = append(sub, fmt.Sprintf("Step %d/4", step))
		}
	}
	meta := strings.Join(sub, " • ")
	if meta != "" {
		meta = "\n" + lipgloss.NewStyle().Faint(true).Render(meta)
	}
	hints := "ctrl+c quit • esc back • type to filter • enter select"
	switch m.state {
	case stateSelectMovie:
		hints = "ctrl+c quit • esc change city • type to filter • enter book"
	case stateEnterDetails:
		hints = "ctrl+c quit • esc back • tab next field • enter continue"
	case stateSelectSeats:
		hints = "ctrl+c quit • esc back • arrows move • space/x toggle seat • enter continue"
	case stateSelectPayment:
		hints = "ctrl+c quit • esc back • enter pay"
	case stateScanUPI:
		hints = "ctrl+c quit • esc change method • enter after scanning"
	case stateConfirmed:
		hints = "returning to movies shortly"
	}
	filterLine := ""
	if listPtr := m.activeList(); listPtr != nil {
		if filter := listPtr.FilterValue(); filter != "" {
			filterLine = "\n" + hint(fmt.Sprintf("Filter: %s", filter))
		}
	}
	return title + meta + filterLine + "\n" + hint(hints)
}

func wizardStep(state appState) int {
	switch state {
	case stateLoadingShows, stateSelectShow:
		return 1
	case stateEnterDetails, stateLoadingSeats:
		return 2
	case stateSelectSeats:
		return 3
	case stateSelectPayment, stateScanUPI, stateSubmitting, stateConfirmed:
		return 4
	default:
		return 0
	}
}

func (m appModel) loadingView() string {
	title := "Loading"
	switch m.state {
	case stateLoadingCatalog:
		title = "Loading movies"
	case stateLoadingShows:
		title = "Loading shows"
	case stateLoadingSeats:
		title = "Loading seats"
	case stateSubmitting:
		title = "Confirming your booking"
	}

	return fmt.Sprintf("%s %s\n\n%s", m.spinner.View(), title, hint("Fetching data..."))
}

func (m appModel) noticeView() string {
	if m.notice == "" {
		return ""
	}
	return "\n" + lipgloss.NewStyle().Foreground(lipgloss.Color("3")).Render(m.notice)
}

func (m appModel) emptyShowsView() string {
	where := m.city
	if where == catalog.AllCities {
		where = "any city"
	}
	msg := fmt.Sprintf("No shows found for %s in %s.", m.flow.Movie().Title, where)
	return msg + "\n\n" + hint("Press esc to pick another movie.")
}

func (m appModel) detailsView() string {
	labels := []string{"Name", "Email", "Phone"}
	var b strings.Builder
	b.WriteString("Your details\n\n")
	for i, input := range m.inputs {
		label := labels[i]
		if i == m.focusIndex {
			label = lipgloss.NewStyle().Bold(true).Render(label)
		}
		b.WriteString(fmt.Sprintf("%s\n%s\n\n", label, input.View()))
	}
	b.WriteString(hint("Seats are fetched after your details check out."))
	return b.String()
}

func (m appModel) seatView() string {
	seats := m.flow.Seats()
	grid := seatGrid(seats)
	if len(grid) == 0 {
		return "No seats published for this show.\n\n" + hint("Press esc to go back.")
	}

	cellWidth := 2
	for _, seat := range seats {
		if l := len(seat.SeatNumber); l > cellWidth {
			cellWidth = l
		}
	}
	rowWidth := 1
	for _, row := range grid {
		if l := len(seatRowLabel(seats[row[0]].SeatNumber)); l > rowWidth {
			rowWidth = l
		}
	}

	seatStyleFree := lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	seatStyleBooked := lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Strikethrough(true)
	seatStyleSelected := lipgloss.NewStyle().Foreground(lipgloss.Color("0")).Background(lipgloss.Color("2")).Bold(true)
	seatStyleCursor := lipgloss.NewStyle().Reverse(true).Bold(true)

	gridWidth := 0
	if len(grid) > 0 {
		widest := 0
		for _, row := range grid {
			if len(row) > widest {
				widest = len(row)
			}
		}
		gridWidth = widest*(cellWidth+1) - 1
	}

	screenStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("0")).
		Background(lipgloss.Color("214"))
	screenBorderStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("214")).
		Background(lipgloss.Color("236"))

	screenBar := screenBarBlock(gridWidth, "SCREEN")

	var b strings.Builder
	b.WriteString(strings.Repeat(" ", rowWidth+1))
	b.WriteString(screenBorderStyle.Render(screenBar.top))
	b.WriteString("\n")
	b.WriteString(strings.Repeat(" ", rowWidth+1))
	b.WriteString(screenStyle.Render(screenBar.mid))
	b.WriteString("\n")
	b.WriteString(strings.Repeat(" ", rowWidth+1))
	b.WriteString(screenBorderStyle.Render(screenBar.bot))
	b.WriteString("\n\n")

	for _, row := range grid {
		label := seatRowLabel(seats[row[0]].SeatNumber)
		b.WriteString(fmt.Sprintf("%*s ", rowWidth, label))
		for i, idx := range row {
			seat := seats[idx]
			rendered := padCell(seat.SeatNumber, cellWidth)
			switch {
			case idx == m.seatCursor:
				rendered = seatStyleCursor.Render(rendered)
			case seat.Booked:
				rendered = seatStyleBooked.Render(rendered)
			case m.flow.Selection().Contains(seat.ID):
				rendered = seatStyleSelected.Render(rendered)
			default:
				rendered = seatStyleFree.Render(rendered)
			}
			b.WriteString(rendered)
			if i < len(row)-1 {
				b.WriteString(" ")
			}
		}
		b.WriteString("\n")
	}

	legend := "Legend: green free • inverted cursor • highlighted selected • struck booked"
	summary := fmt.Sprintf("Selected: %s • Total: ₹%d", selectionLabel(m.flow.Selection()), m.flow.TotalPrice())
	return b.String() + "\n" + hint(legend) + "\n" + summary
}

func selectionLabel(sel *booking.Selection) string {
	numbers := sel.SeatNumbers()
	if len(numbers) == 0 {
		return "none"
	}
	return strings.Join(numbers, ", ")
}

func (m appModel) paymentView() string {
	summary := fmt.Sprintf("%d seat(s) • %s • Total ₹%d",
		m.flow.Selection().Count(), selectionLabel(m.flow.Selection()), m.flow.TotalPrice())
	return hint(summary) + "\n\n" + m.paymentList.View()
}

func (m appModel) scanView() string {
	qr := []string{
		"█▀▀▀▀▀█ ▄█▄ █▀▀▀▀▀█",
		"█ ███ █ ▀▄▀ █ ███ █",
		"█ ▀▀▀ █ █▄█ █ ▀▀▀ █",
		"▀▀▀▀▀▀▀ ▀ ▀ ▀▀▀▀▀▀▀",
		"▄▀█▄▀▄▀▄█▀▄▀▄█▄▀▄██",
		"█▀▀▀▀▀█ ▄▀█▄ ▀▄ ▄▀▄",
		"█ ███ █ █▄▀▄▀██▄▀▄█",
		"█ ▀▀▀ █ ▀▄█▀▄ ▀█▄▀▄",
		"▀▀▀▀▀▀▀ ▀▀ ▀▀▀ ▀▀▀▀",
	}
	panel := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		Padding(1, 3).
		Render(strings.Join(qr, "\n"))
	amount := fmt.Sprintf("Pay ₹%d with any UPI app", m.flow.TotalPrice())
	return panel + "\n\n" + amount + "\n" + hint("Press enter once you have scanned the code.")
}

func (m appModel) confirmedView() string {
	show := m.flow.Show()
	lines := []string{
		lipgloss.NewStyle().Bold(true).Render("Booking confirmed!"),
		"",
		fmt.Sprintf("Movie:   %s", m.flow.Movie().Title),
		fmt.Sprintf("Show:    %s", show.Timing),
		fmt.Sprintf("Theater: %s, %s", show.Theater.Name, show.Theater.City),
		fmt.Sprintf("Seats:   %s", selectionLabel(m.flow.Selection())),
		fmt.Sprintf("Total:   ₹%d", m.flow.TotalPrice()),
	}
	panel := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("2")).
		Padding(1, 3).
		Render(strings.Join(lines, "\n"))
	return panel + "\n\n" + hint("Taking you back to movies...")
}

func hint(text string) string {
	return lipgloss.NewStyle().Faint(true).Render(text)
}

func padCell(text string, width int) string {
	if width <= 0 {
		return ""
	}
	if text == "" {
		return strings.Repeat(" ", width)
	}
	if len(text) >= width {
		return text[:width]
	}
	padding := width - len(text)
	left := padding / 2
	right := padding - left
	return strings.Repeat(" ", left) + text + strings.Repeat(" ", right)
}

type screenBlock struct {
	top string
	mid string
	bot string
}

func screenBarBlock(width int, label string) screenBlock {
	if width < len(label)+4 {
		width = len(label) + 4
	}
	if width < 10 {
		width = 10
	}

	border := "╭" + strings.Repeat("─", width-2) + "╮"
	bottom := "╰" + strings.Repeat("─", width-2) + "╯"

	labelText := " " + label + " "
	padding := width - len(labelText) - 2
	left := padding / 2
	right := padding - left
	mid := "│" + strings.Repeat(" ", left) + labelText + strings.Repeat(" ", right) + "│"
	return screenBlock{top: border, mid: mid, bot: bottom}
}

// seatGrid groups seat indexes into display rows keyed by the letter prefix
// of the seat number ("A1" rows under "A"). Row order and in-row order follow
// the order the backend returned.
func seatGrid(seats []model.Seat) [][]int {
	var rows [][]int
	rowIndex := map[string]int{}
	for i, seat := range seats {
		label := seatRowLabel(seat.SeatNumber)
		at, ok := rowIndex[label]
		if !ok {
			at = len(rows)
			rowIndex[label] = at
			rows = append(rows, nil)
		}
		rows[at] = append(rows[at], i)
	}
	return rows
}

func seatRowLabel(seatNumber string) string {
	for i, r := range seatNumber {
		if r >= '0' && r <= '9' {
			if i == 0 {
				return "•"
			}
			return seatNumber[:i]
		}
	}
	if seatNumber == "" {
		return "•"
	}
	return seatNumber
}

func locateSeat(grid [][]int, target int) (row int, col int) {
	for r, indexes := range grid {
		for c, idx := range indexes {
			if idx == target {
				return r, c
			}
		}
	}
	return -1, -1
}

type cityItem struct {
	city   string
	recent bool
}

func (i cityItem) Title() string { return i.city }
func (i cityItem) Description() string {
	if i.city == catalog.AllCities {
		return "Shows in every city"
	}
	if i.recent {
		return "Recently browsed"
	}
	return " "
}
func (i cityItem) FilterValue() string { return strings.ToLower(i.city) }

func buildCityItems(cities []string, recents []string) []list.Item {
	recentSet := map[string]bool{}
	for _, city := range recents {
		recentSet[city] = true
	}

	items := []list.Item{}
	seen := map[string]bool{}
	for _, city := range cities {
		if city == catalog.AllCities {
			items = append(items, cityItem{city: city})
			seen[city] = true
			break
		}
	}
	// recently browsed cities float to the top, newest first
	for _, city := range recents {
		for _, known := range cities {
			if known == city && !seen[city] {
				items = append(items, cityItem{city: city, recent: true})
				seen[city] = true
			}
		}
	}
	for _, city := range cities {
		if !seen[city] {
			items = append(items, cityItem{city: city, recent: recentSet[city]})
			seen[city] = true
		}
	}
	return items
}

type movieItem struct {
	movie model.Movie
}

func (i movieItem) Title() string { return i.movie.Title }
func (i movieItem) Description() string {
	parts := []string{}
	if i.movie.Genre != "" {
		parts = append(parts, i.movie.Genre)
	}
	if i.movie.Language != "" {
		parts = append(parts, i.movie.Language)
	}
	if i.movie.Duration > 0 {
		parts = append(parts, fmt.Sprintf("%d min", i.movie.Duration))
	}
	if len(parts) == 0 {
		return " "
	}
	return strings.Join(parts, " • ")
}
func (i movieItem) FilterValue() string {
	return strings.ToLower(i.movie.Title + " " + i.movie.Genre + " " + i.movie.Language)
}

func buildMovieItems(movies []model.Movie) []list.Item {
	items := make([]list.Item, 0, len(movies))
	for _, movie := range movies {
		items = append(items, movieItem{movie: movie})
	}
	return items
}

type showItem struct {
	show model.Show
}

func (i showItem) Title() string {
	return fmt.Sprintf("%s, %s", i.show.Theater.Name, i.show.Theater.City)
}
func (i showItem) Description() string {
	return fmt.Sprintf("%s • %d seats available", i.show.Timing, i.show.AvailableSeats)
}
func (i showItem) FilterValue() string {
	return strings.ToLower(i.show.Theater.Name + " " + i.show.Theater.City + " " + i.show.Timing)
}

func buildShowItems(shows []model.Show) []list.Item {
	items := make([]list.Item, 0, len(shows))
	for _, show := range shows {
		items = append(items, showItem{show: show})
	}
	return items
}

type paymentItem struct {
	method booking.PaymentMethod
}

func (i paymentItem) Title() string { return string(i.method) }
func (i paymentItem) Description() string {
	switch i.method {
	case booking.PaymentUPI:
		return "Scan a QR code with any UPI app"
	case booking.PaymentCard:
		return "Credit or debit card"
	case booking.PaymentWallet:
		return "Paytm, PhonePe and friends"
	case booking.PaymentNetBanking:
		return "Pay through your bank"
	default:
		return " "
	}
}
func (i paymentItem) FilterValue() string { return strings.ToLower(string(i.method)) }

func buildPaymentItems() []list.Item {
	methods := booking.PaymentMethods()
	items := make([]list.Item, 0, len(methods))
	for _, method := range methods {
		items = append(items, paymentItem{method: method})
	}
	return items
}
