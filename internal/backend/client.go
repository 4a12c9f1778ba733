// Package backend talks to the booking backend of record: hotel settings, customer wallets,
// room availability, reservation creation and coupon use.
package backend

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"github.com/sony/gobreaker"
	"github.com/valyala/fasthttp"

	"github.com/fairyhunter13/hotel-pricing-engine/internal/model"
)

// ErrUnexpectedStatus is returned when the backend answers with a non-2xx status.
var ErrUnexpectedStatus = errors.New("unexpected backend status")

// Circuit breaker defaults: open after this many consecutive failures, retry once after openFor.
const (
	defaultBreakerFailures = 5
	defaultBreakerOpenFor  = 30 * time.Second
)

// Client is an HTTP client for the booking backend.
//
// Every call goes through one circuit breaker. Transport errors and 5xx answers count as
// failures; 4xx answers do not. While the breaker is open calls fail fast with an error
// matching gobreaker.ErrOpenState.
type Client struct {
	baseURL string
	timeout time.Duration
	http    *fiber.Client
	dial    fasthttp.DialFunc
	breaker *gobreaker.CircuitBreaker

	breakerFailures uint32
	breakerOpenFor  time.Duration
}

// Option customizes a Client.
type Option func(*Client)

// WithDialer overrides how connections are opened. Primarily used for testing.
func WithDialer(dial fasthttp.DialFunc) Option {
	return func(c *Client) { c.dial = dial }
}

// WithBreaker sets how many consecutive failures open the circuit and how long it stays open.
func WithBreaker(failures uint32, openFor time.Duration) Option {
	return func(c *Client) {
		if failures > 0 {
			c.breakerFailures = failures
		}
		if openFor > 0 {
			c.breakerOpenFor = openFor
		}
	}
}

// NewClient creates a Client for baseURL.
func NewClient(baseURL string, timeout time.Duration, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		timeout: timeout,
		http: &fiber.Client{
			UserAgent:   "hotel-pricing-engine",
			JSONEncoder: json.Marshal,
			JSONDecoder: json.Unmarshal,
		},
		breakerFailures: defaultBreakerFailures,
		breakerOpenFor:  defaultBreakerOpenFor,
	}
	for _, opt := range opts {
		opt(c)
	}

	failures := c.breakerFailures
	c.breaker = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "booking-backend",
		MaxRequests: 1,
		Timeout:     c.breakerOpenFor,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= failures
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			log.Warn().
				Str("breaker", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("circuit breaker state changed")
		},
	})
	return c
}

// FetchHotelSettings returns the hotel's room types, events and coupon pool.
func (c *Client) FetchHotelSettings(ctx context.Context, hotelID string) (*model.HotelSettings, error) {
	var settings model.HotelSettings
	if err := c.getJSON(ctx, "/hotels/"+url.PathEscape(hotelID)+"/settings", &settings); err != nil {
		return nil, fmt.Errorf("fetch hotel settings %s: %w", hotelID, err)
	}
	return &settings, nil
}

// FetchWallet returns the customer's coupons.
func (c *Client) FetchWallet(ctx context.Context, customerID string) ([]model.Coupon, error) {
	var coupons []model.Coupon
	if err := c.getJSON(ctx, "/customers/"+url.PathEscape(customerID)+"/coupons", &coupons); err != nil {
		return nil, fmt.Errorf("fetch wallet %s: %w", customerID, err)
	}
	if coupons == nil {
		coupons = []model.Coupon{}
	}
	return coupons, nil
}

// FetchAvailability returns priced room availability for the stay.
func (c *Client) FetchAvailability(ctx context.Context, hotelID string, stay model.Stay) ([]model.RoomAvailability, error) {
	q := url.Values{}
	q.Set("checkIn", stay.CheckIn.String())
	q.Set("checkOut", stay.CheckOut.String())

	var rooms []model.RoomAvailability
	path := "/hotels/" + url.PathEscape(hotelID) + "/availability?" + q.Encode()
	if err := c.getJSON(ctx, path, &rooms); err != nil {
		return nil, fmt.Errorf("fetch availability %s: %w", hotelID, err)
	}
	return rooms, nil
}

// CreateReservation posts the reservation and returns the backend's reservation ID.
func (c *Client) CreateReservation(ctx context.Context, payload model.ReservationPayload) (string, error) {
	var created model.ReservationCreated
	if err := c.postJSON(ctx, "/reservations", payload, &created); err != nil {
		return "", fmt.Errorf("create reservation: %w", err)
	}
	if created.ReservationID == "" {
		return "", errors.New("create reservation: empty reservation id")
	}
	return created.ReservationID, nil
}

// ConsumeCoupon tells the backend the coupon was spent on a reservation.
func (c *Client) ConsumeCoupon(ctx context.Context, req model.ConsumeCouponRequest) error {
	if err := c.postJSON(ctx, "/coupons/use", req, nil); err != nil {
		return fmt.Errorf("consume coupon %s: %w", req.CouponUUID, err)
	}
	return nil
}

func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	return c.do(ctx, func() *fiber.Agent { return c.http.Get(c.baseURL + path) }, out)
}

func (c *Client) postJSON(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, func() *fiber.Agent { return c.http.Post(c.baseURL + path).JSON(body) }, out)
}

type response struct {
	code int
	body []byte
}

// do runs one request through the breaker. The agent is only built once the breaker admits
// the call, and the request timeout never outlives ctx's deadline.
func (c *Client) do(ctx context.Context, newAgent func() *fiber.Agent, out any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	timeout := c.timeout
	if deadline, ok := ctx.Deadline(); ok {
		remaining := time.Until(deadline)
		if remaining <= 0 {
			return context.DeadlineExceeded
		}
		if timeout <= 0 || remaining < timeout {
			timeout = remaining
		}
	}

	res, err := c.breaker.Execute(func() (interface{}, error) {
		a := newAgent()
		if c.dial != nil && a.HostClient != nil {
			a.HostClient.Dial = c.dial
		}
		a.Timeout(timeout)

		code, body, errs := a.Bytes()
		if len(errs) > 0 {
			err := errors.Join(errs...)
			if ctxErr := ctx.Err(); ctxErr != nil {
				err = fmt.Errorf("%w: %w", ctxErr, err)
			}
			return nil, err
		}
		if code >= fiber.StatusInternalServerError {
			return nil, fmt.Errorf("%w: %d", ErrUnexpectedStatus, code)
		}
		return response{code: code, body: body}, nil
	})
	if err != nil {
		return err
	}

	resp := res.(response)
	if resp.code < fiber.StatusOK || resp.code >= fiber.StatusMultipleChoices {
		return fmt.Errorf("%w: %d", ErrUnexpectedStatus, resp.code)
	}
	if out == nil || len(resp.body) == 0 {
		return nil
	}
	if err := json.Unmarshal(resp.body, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
