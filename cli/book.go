package cli

import (
	"fmt"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"bookmymovie-cli/booking"
	"bookmymovie-cli/catalog"
	"bookmymovie-cli/model"
	"bookmymovie-cli/service"
)

func newBookCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "book",
		Short: "Book tickets through guided prompts",
		RunE: func(cmd *cobra.Command, args []string) error {
			city, _ := cmd.Flags().GetString("city")
			return a.runBook(cmd, city)
		},
	}
	cmd.Flags().String("city", "", "skip the city prompt")
	return cmd
}

func (a *app) runBook(cmd *cobra.Command, city string) error {
	ctx := cmd.Context()

	movies, err := a.client.ListMovies(ctx)
	if err != nil {
		return err
	}
	theaters, err := a.client.ListTheaters(ctx)
	if err != nil {
		return err
	}
	allShows, err := a.client.ListShows(ctx)
	if err != nil {
		return err
	}
	cat := catalog.Catalog{Movies: movies, Theaters: theaters, Shows: allShows}

	if city == "" {
		city, err = promptSelect("Select City", cat.Cities())
		if err != nil {
			return err
		}
	}

	visible := cat.VisibleMovies(city)
	if len(visible) == 0 {
		return fmt.Errorf("no movies playing in %s", city)
	}
	movie, err := promptMovie(visible)
	if err != nil {
		return err
	}

	flow := booking.New(movie, city)
	shows, err := a.client.ListShowsByMovie(ctx, movie.ID)
	if err != nil && !service.IsNotFound(err) {
		return err
	}
	flow.SetShows(shows)
	if len(flow.Shows()) == 0 {
		return fmt.Errorf("no shows for %s in %s", movie.Title, city)
	}

	show, err := promptShow(flow.Shows())
	if err != nil {
		return err
	}
	if err := flow.SelectShow(show); err != nil {
		return err
	}

	if err := promptDetails(flow); err != nil {
		return err
	}

	seats, err := a.client.ListSeats(ctx, show.ID)
	if err != nil {
		return err
	}
	if err := flow.SeatsLoaded(seats); err != nil {
		return err
	}
	if err := promptSeats(flow); err != nil {
		return err
	}

	method, err := promptSelect("Payment Method", paymentLabels())
	if err != nil {
		return err
	}
	submit, err := flow.StartPayment(booking.PaymentMethod(method))
	if err != nil {
		return err
	}
	if !submit {
		fmt.Printf("Scan the QR code with any UPI app to pay ₹%d.\n", flow.TotalPrice())
		if _, err := (&promptui.Prompt{Label: "Press enter once you have scanned the code"}).Run(); err != nil {
			return err
		}
		if err := flow.ConfirmScan(); err != nil {
			return err
		}
	}

	req, err := flow.Request()
	if err != nil {
		return err
	}
	confirmation, err := a.client.CreateBooking(ctx, req)
	if err != nil {
		if service.IsRejected(err) {
			return fmt.Errorf("booking rejected by the backend, pick different seats and try again: %w", err)
		}
		return err
	}
	if err := flow.Completed(); err != nil {
		return err
	}
	a.log.Info("booking confirmed",
		zap.Int("show", show.ID),
		zap.Ints("seats", flow.Selection().IDs()),
		zap.String("reference", confirmation.Reference))

	printConfirmation(flow, confirmation)
	return nil
}

func promptSelect(label string, items []string) (string, error) {
	searcher := func(input string, index int) bool {
		return true
	}
	sel := promptui.Select{
		Label:    label,
		Items:    items,
		Size:     10,
		Searcher: searcher,
	}
	_, value, err := sel.Run()
	return value, err
}

func promptMovie(movies []model.Movie) (model.Movie, error) {
	labels := make([]string, 0, len(movies))
	byLabel := make(map[string]model.Movie, len(movies))
	for _, movie := range movies {
		label := fmt.Sprintf("%s (%s, %s)", movie.Title, movie.Genre, movie.Language)
		labels = append(labels, label)
		byLabel[label] = movie
	}
	value, err := promptSelect("Select Movie", labels)
	if err != nil {
		return model.Movie{}, err
	}
	return byLabel[value], nil
}

func promptShow(shows []model.Show) (model.Show, error) {
	labels := make([]string, 0, len(shows))
	byLabel := make(map[string]model.Show, len(shows))
	for _, show := range shows {
		label := fmt.Sprintf("%s at %s, %s (%d seats)", show.Timing, show.Theater.Name, show.Theater.City, show.AvailableSeats)
		labels = append(labels, label)
		byLabel[label] = show
	}
	value, err := promptSelect("Select Show", labels)
	if err != nil {
		return model.Show{}, err
	}
	return byLabel[value], nil
}

// promptDetails re-asks until validation passes, keeping previous answers as
// defaults.
func promptDetails(flow *booking.Workflow) error {
	for {
		previous := flow.Details()
		name, err := promptLine("Name", previous.Name)
		if err != nil {
			return err
		}
		email, err := promptLine("Email", previous.Email)
		if err != nil {
			return err
		}
		phone, err := promptLine("Phone", previous.Phone)
		if err != nil {
			return err
		}
		submitErr := flow.SubmitDetails(model.UserDetails{Name: name, Email: email, Phone: phone})
		if submitErr == nil {
			return nil
		}
		fmt.Println(submitErr)
	}
}

func promptLine(label string, defaultValue string) (string, error) {
	prompt := promptui.Prompt{
		Label:   label,
		Default: defaultValue,
	}
	return prompt.Run()
}

func promptSeats(flow *booking.Workflow) error {
	free := make([]model.Seat, 0, len(flow.Seats()))
	for _, seat := range flow.Seats() {
		if !seat.Booked {
			free = append(free, seat)
		}
	}
	if len(free) == 0 {
		return fmt.Errorf("no free seats left for this show")
	}

	for {
		labels := make([]string, 0, len(free)+1)
		labels = append(labels, fmt.Sprintf("Done (%d seats, ₹%d)", flow.Selection().Count(), flow.TotalPrice()))
		for _, seat := range free {
			mark := "[ ]"
			if flow.Selection().Contains(seat.ID) {
				mark = "[x]"
			}
			labels = append(labels, fmt.Sprintf("%s %s", mark, seat.SeatNumber))
		}

		sel := promptui.Select{
			Label: "Toggle seats, pick Done to continue",
			Items: labels,
			Size:  12,
		}
		idx, _, err := sel.Run()
		if err != nil {
			return err
		}
		if idx == 0 {
			if err := flow.ProceedToPayment(); err != nil {
				fmt.Println(err)
				continue
			}
			return nil
		}
		if err := flow.ToggleSeat(free[idx-1]); err != nil {
			fmt.Println(err)
		}
	}
}

func paymentLabels() []string {
	methods := booking.PaymentMethods()
	labels := make([]string, 0, len(methods))
	for _, method := range methods {
		labels = append(labels, string(method))
	}
	return labels
}

func printConfirmation(flow *booking.Workflow, confirmation model.BookingConfirmation) {
	show := flow.Show()

	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.AppendRow(table.Row{"Reference", confirmation.Reference})
	t.AppendRow(table.Row{"Movie", flow.Movie().Title})
	t.AppendRow(table.Row{"Show", show.Timing})
	t.AppendRow(table.Row{"Theater", fmt.Sprintf("%s, %s", show.Theater.Name, show.Theater.City)})
	t.AppendRow(table.Row{"Seats", fmt.Sprintf("%v", flow.Selection().SeatNumbers())})
	t.AppendRow(table.Row{"Total", fmt.Sprintf("₹%d", flow.TotalPrice())})
	t.Render()
	fmt.Println("Enjoy the movie!")
}
