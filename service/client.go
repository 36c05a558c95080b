package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"bookmymovie-cli/model"
)

const (
	defaultBaseURL     = "http://localhost:8080/api"
	defaultMaxAttempts = 3
	defaultRetryBase   = 200 * time.Millisecond
	defaultRetryCap    = 1200 * time.Millisecond
	defaultTimeout     = 12 * time.Second
)

// Client wraps HTTP access to the BookMyMovie API.
type Client struct {
	httpClient  *http.Client
	baseURL     string
	maxAttempts int
	retryBase   time.Duration
	retryCap    time.Duration
}

// APIError is returned when the API responds with a non-2xx status.
type APIError struct {
	StatusCode int
	Status     string
	Endpoint   string
	Body       string
}

func (e *APIError) Error() string {
	if e == nil {
		return "bookmymovie api error"
	}
	return fmt.Sprintf("bookmymovie api error: %s: %s", e.Status, e.Body)
}

// IsNotFound reports whether the error represents a 404 from the API.
func IsNotFound(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == http.StatusNotFound
	}
	return false
}

// IsRejected reports whether the error is a 4xx rejection, which is how the
// backend signals a booking it refuses (already-booked seats included).
func IsRejected(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode >= http.StatusBadRequest && apiErr.StatusCode < http.StatusInternalServerError
	}
	return false
}

// NewClient creates a new API client. A nil httpClient gets a default with a
// bounded timeout; an empty baseURL falls back to the local backend.
func NewClient(httpClient *http.Client, baseURL string) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultTimeout}
	}
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		httpClient:  httpClient,
		baseURL:     baseURL,
		maxAttempts: defaultMaxAttempts,
		retryBase:   defaultRetryBase,
		retryCap:    defaultRetryCap,
	}
}

// ListMovies returns the movie catalog.
func (c *Client) ListMovies(ctx context.Context) ([]model.Movie, error) {
	var movies []model.Movie
	if err := c.getJSON(ctx, c.baseURL+"/movies", &movies); err != nil {
		return nil, err
	}
	return movies, nil
}

// ListTheaters returns all theaters.
func (c *Client) ListTheaters(ctx context.Context) ([]model.Theater, error) {
	var theaters []model.Theater
	if err := c.getJSON(ctx, c.baseURL+"/theaters", &theaters); err != nil {
		return nil, err
	}
	return theaters, nil
}

// ListShows returns every scheduled show.
func (c *Client) ListShows(ctx context.Context) ([]model.Show, error) {
	var shows []model.Show
	if err := c.getJSON(ctx, c.baseURL+"/shows", &shows); err != nil {
		return nil, err
	}
	return shows, nil
}

// ListShowsByMovie returns the shows scheduled for one movie.
func (c *Client) ListShowsByMovie(ctx context.Context, movieID int) ([]model.Show, error) {
	if movieID <= 0 {
		return nil, errors.New("movie id is required")
	}
	endpoint := c.baseURL + "/shows?movieId=" + strconv.Itoa(movieID)
	var shows []model.Show
	if err := c.getJSON(ctx, endpoint, &shows); err != nil {
		return nil, err
	}
	return shows, nil
}

// ListSeats returns the seating chart for a show.
func (c *Client) ListSeats(ctx context.Context, showID int) ([]model.Seat, error) {
	if showID <= 0 {
		return nil, errors.New("show id is required")
	}
	endpoint := fmt.Sprintf("%s/shows/%d/seats", c.baseURL, showID)
	var seats []model.Seat
	if err := c.getJSON(ctx, endpoint, &seats); err != nil {
		return nil, err
	}
	return seats, nil
}

// CreateBooking submits a booking. It is never retried: the backend is
// authoritative for seat state and a repeated POST could double-book.
func (c *Client) CreateBooking(ctx context.Context, req model.BookingRequest) (model.BookingConfirmation, error) {
	if req.Show.ID <= 0 {
		return model.BookingConfirmation{}, errors.New("show id is required")
	}
	if len(req.SeatIDs) == 0 {
		return model.BookingConfirmation{}, errors.New("at least one seat id is required")
	}

	payload, err := json.Marshal(req)
	if err != nil {
		return model.BookingConfirmation{}, fmt.Errorf("encode booking: %w", err)
	}

	endpoint := c.baseURL + "/bookings"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return model.BookingConfirmation{}, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")

	res, err := c.httpClient.Do(httpReq)
	if err != nil {
		return model.BookingConfirmation{}, fmt.Errorf("request failed: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode < http.StatusOK || res.StatusCode >= http.StatusMultipleChoices {
		snippet, _ := io.ReadAll(io.LimitReader(res.Body, 8<<10))
		return model.BookingConfirmation{}, &APIError{
			StatusCode: res.StatusCode,
			Status:     res.Status,
			Endpoint:   endpoint,
			Body:       trimSnippet(snippet),
		}
	}

	var confirmation model.BookingConfirmation
	if err := json.NewDecoder(res.Body).Decode(&confirmation); err != nil && !errors.Is(err, io.EOF) {
		return model.BookingConfirmation{}, fmt.Errorf("decode response from %s: %w", endpoint, err)
	}
	return confirmation, nil
}

func (c *Client) getJSON(ctx context.Context, endpoint string, out any) error {
	maxAttempts := c.maxAttempts
	if maxAttempts < 1 {
		maxAttempts = 1
	}

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return fmt.Errorf("create request: %w", err)
		}
		req.Header.Set("Accept", "application/json")

		res, err := c.httpClient.Do(req)
		if err != nil {
			if c.shouldRetryNetworkError(err) && attempt < maxAttempts {
				if waitErr := c.waitRetry(ctx, attempt); waitErr != nil {
					return waitErr
				}
				continue
			}
			return fmt.Errorf("request failed: %w", err)
		}

		if res.StatusCode < http.StatusOK || res.StatusCode >= http.StatusMultipleChoices {
			snippet, _ := io.ReadAll(io.LimitReader(res.Body, 8<<10))
			_ = res.Body.Close()

			apiErr := &APIError{
				StatusCode: res.StatusCode,
				Status:     res.Status,
				Endpoint:   endpoint,
				Body:       trimSnippet(snippet),
			}
			if c.shouldRetryStatus(res.StatusCode) && attempt < maxAttempts {
				if waitErr := c.waitRetry(ctx, attempt); waitErr != nil {
					return waitErr
				}
				continue
			}
			return apiErr
		}

		dec := json.NewDecoder(res.Body)
		err = dec.Decode(out)
		_ = res.Body.Close()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return fmt.Errorf("decode response from %s: %w", endpoint, err)
		}
		return nil
	}

	return errors.New("request failed after retries")
}

func (c *Client) shouldRetryStatus(code int) bool {
	return code == http.StatusTooManyRequests || code >= http.StatusInternalServerError
}

func (c *Client) shouldRetryNetworkError(err error) bool {
	if err == nil {
		return false
	}
	return !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded)
}

func (c *Client) waitRetry(ctx context.Context, attempt int) error {
	delay := c.retryDelay(attempt)
	timer := time.NewTimer(delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func (c *Client) retryDelay(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	base := c.retryBase
	if base <= 0 {
		base = defaultRetryBase
	}
	cap := c.retryCap
	if cap <= 0 {
		cap = defaultRetryCap
	}

	delay := base
	for i := 1; i < attempt; i++ {
		if delay >= cap/2 {
			return cap
		}
		delay *= 2
	}
	if delay > cap {
		return cap
	}
	return delay
}

func trimSnippet(b []byte) string {
	return string(bytes.TrimSpace(b))
}
