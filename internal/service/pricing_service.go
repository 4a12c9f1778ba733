package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/fairyhunter13/hotel-pricing-engine/internal/model"
	"github.com/fairyhunter13/hotel-pricing-engine/internal/pricing"
)

// BackendInterface defines the booking backend operations used for pricing and booking.
type BackendInterface interface {
	FetchHotelSettings(ctx context.Context, hotelID string) (*model.HotelSettings, error)
	FetchWallet(ctx context.Context, customerID string) ([]model.Coupon, error)
	FetchAvailability(ctx context.Context, hotelID string, stay model.Stay) ([]model.RoomAvailability, error)
	CreateReservation(ctx context.Context, payload model.ReservationPayload) (string, error)
}

// ConsumerInterface defines the coupon consumption step run after booking.
type ConsumerInterface interface {
	Consume(ctx context.Context, c model.Consumption) error
}

// PricingService loads pricing inputs from the backend and runs the pricing engine.
type PricingService struct {
	backend  BackendInterface
	wallets  WalletStore
	consumer ConsumerInterface
	loc      *time.Location
	now      func() time.Time
}

// NewPricingService creates a new PricingService. loc decides which calendar day "today" is.
func NewPricingService(backend BackendInterface, wallets WalletStore, consumer ConsumerInterface, loc *time.Location) *PricingService {
	return NewPricingServiceWithClock(backend, wallets, consumer, loc, time.Now)
}

// NewPricingServiceWithClock creates a PricingService with a custom clock.
// Primarily used for testing.
func NewPricingServiceWithClock(backend BackendInterface, wallets WalletStore, consumer ConsumerInterface, loc *time.Location, now func() time.Time) *PricingService {
	if loc == nil {
		loc = time.UTC
	}
	return &PricingService{
		backend:  backend,
		wallets:  wallets,
		consumer: consumer,
		loc:      loc,
		now:      now,
	}
}

// inputs is everything fetched from the backend for one hotel, customer and stay.
type inputs struct {
	hotelID  string
	stay     model.Stay
	settings *model.HotelSettings
	wallet   []model.Coupon
	rooms    []model.RoomAvailability
	today    model.Date
}

func (in inputs) engineInput(room model.RoomOffer, selected string) pricing.Input {
	return pricing.Input{
		Room:             room,
		Stay:             in.stay,
		Events:           in.settings.Events,
		HotelCoupons:     in.settings.Coupons,
		WalletCoupons:    in.wallet,
		Today:            in.today,
		SelectedCouponID: selected,
	}
}

func (in inputs) findRoom(roomType string) (model.RoomOffer, bool) {
	key := pricing.NormalizeRoomType(roomType)
	for _, r := range in.rooms {
		if pricing.NormalizeRoomType(r.RoomInfo.RoomType) == key {
			return r.Offer(in.hotelID), true
		}
	}
	return model.RoomOffer{}, false
}

// Quote prices every available room type of the hotel for the stay.
// Rooms the engine cannot price (missing data) are skipped and logged.
func (s *PricingService) Quote(ctx context.Context, req *model.QuoteRequest) (*model.QuoteResponse, error) {
	if req == nil {
		return nil, ErrInvalidRequest
	}
	stay, err := parseStay(req.CheckIn, req.CheckOut)
	if err != nil {
		return nil, err
	}

	in, err := s.load(ctx, req.HotelID, req.CustomerID, stay)
	if err != nil {
		return nil, err
	}

	resp := &model.QuoteResponse{
		HotelID:  req.HotelID,
		CheckIn:  stay.CheckIn,
		CheckOut: stay.CheckOut,
		Nights:   stay.Nights(),
		Rooms:    make([]model.RoomQuote, 0, len(in.rooms)),
	}
	for _, r := range in.rooms {
		offer := r.Offer(req.HotelID)
		q, err := pricing.Evaluate(in.engineInput(offer, ""))
		if err != nil {
			log.Warn().
				Err(err).
				Str("hotel_id", req.HotelID).
				Str("room_type", offer.RoomType).
				Msg("skipping room that cannot be priced")
			continue
		}
		resp.Rooms = append(resp.Rooms, model.RoomQuote{
			Room:    offer,
			Pricing: q.Result,
			Coupons: views(q.Representatives),
		})
	}
	return resp, nil
}

// SelectCoupon prices one room with a manually selected coupon.
//
// The returned result is always usable. With pricing.ErrDiscountConflict it carries the event
// price and no coupon; with pricing.ErrCouponNotEligible it carries the automatic choice.
func (s *PricingService) SelectCoupon(ctx context.Context, req *model.SelectCouponRequest) (*model.PricingResult, error) {
	if req == nil {
		return nil, ErrInvalidRequest
	}
	stay, err := parseStay(req.CheckIn, req.CheckOut)
	if err != nil {
		return nil, err
	}

	in, err := s.load(ctx, req.HotelID, req.CustomerID, stay)
	if err != nil {
		return nil, err
	}
	room, ok := in.findRoom(req.RoomType)
	if !ok {
		return nil, ErrRoomNotFound
	}

	q, err := pricing.Evaluate(in.engineInput(room, req.CouponID))
	if errors.Is(err, pricing.ErrMissingInput) {
		return nil, fmt.Errorf("%w: %w", ErrInvalidRequest, err)
	}
	return &q.Result, err
}

// ConfirmReservation re-prices the room from fresh backend data, creates the reservation and,
// when a coupon was applied, consumes it.
//
// A coupon that conflicts with an event or is not eligible aborts the booking with the pricing
// error and the re-computed result. A failed consumption does not: the reservation stands and
// the response carries a warning.
func (s *PricingService) ConfirmReservation(ctx context.Context, req *model.ConfirmReservationRequest) (*model.ReservationResponse, error) {
	if req == nil {
		return nil, ErrInvalidRequest
	}
	stay, err := parseStay(req.CheckIn, req.CheckOut)
	if err != nil {
		return nil, err
	}

	in, err := s.load(ctx, req.HotelID, req.CustomerID, stay)
	if err != nil {
		return nil, err
	}
	room, ok := in.findRoom(req.RoomType)
	if !ok {
		return nil, ErrRoomNotFound
	}
	if room.AvailableUnits <= 0 {
		return nil, ErrRoomUnavailable
	}

	q, err := pricing.Evaluate(in.engineInput(room, req.CouponID))
	if err != nil {
		if errors.Is(err, pricing.ErrMissingInput) {
			return nil, fmt.Errorf("%w: %w", ErrInvalidRequest, err)
		}
		return &model.ReservationResponse{Pricing: q.Result}, err
	}

	payload := model.NewReservationPayload(req.HotelID, req.CustomerID, room.RoomType, stay, q.Result)
	reservationID, err := s.backend.CreateReservation(ctx, payload)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUpstream, err)
	}

	resp := &model.ReservationResponse{ReservationID: reservationID, Pricing: q.Result}
	if q.Result.CouponUUID == "" {
		return resp, nil
	}

	err = s.consumer.Consume(ctx, model.Consumption{
		CouponID:      q.Result.CouponUUID,
		CustomerID:    req.CustomerID,
		HotelID:       req.HotelID,
		ReservationID: reservationID,
		Source:        couponSource(q.Eligible, q.Result.CouponUUID),
	})
	if err != nil {
		log.Warn().
			Err(err).
			Str("reservation_id", reservationID).
			Str("coupon_id", q.Result.CouponUUID).
			Msg("reservation created but coupon consumption failed")
		resp.Warning = "reservation confirmed, coupon use could not be confirmed"
	}
	return resp, nil
}

// load fetches settings, wallet and availability. A failed wallet fetch degrades to the last
// known wallet snapshot instead of failing the request.
func (s *PricingService) load(ctx context.Context, hotelID, customerID string, stay model.Stay) (inputs, error) {
	settings, err := s.backend.FetchHotelSettings(ctx, hotelID)
	if err != nil {
		return inputs{}, fmt.Errorf("%w: %w", ErrUpstream, err)
	}
	if settings == nil {
		settings = &model.HotelSettings{}
	}

	rooms, err := s.backend.FetchAvailability(ctx, hotelID, stay)
	if err != nil {
		return inputs{}, fmt.Errorf("%w: %w", ErrUpstream, err)
	}

	fetched, err := s.backend.FetchWallet(ctx, customerID)
	if err != nil {
		log.Warn().
			Err(err).
			Str("customer_id", customerID).
			Msg("wallet fetch failed, using last known wallet")
	} else {
		s.wallets.Replace(customerID, fetched)
	}
	coupons, _ := s.wallets.Snapshot(customerID)

	return inputs{
		hotelID:  hotelID,
		stay:     stay,
		settings: settings,
		wallet:   coupons,
		rooms:    rooms,
		today:    model.DateOf(s.now().In(s.loc)),
	}, nil
}

func parseStay(checkIn, checkOut string) (model.Stay, error) {
	in, err := model.ParseDate(checkIn)
	if err != nil {
		return model.Stay{}, fmt.Errorf("%w: check_in: %w", ErrInvalidRequest, err)
	}
	out, err := model.ParseDate(checkOut)
	if err != nil {
		return model.Stay{}, fmt.Errorf("%w: check_out: %w", ErrInvalidRequest, err)
	}
	stay := model.Stay{CheckIn: in, CheckOut: out}
	if !stay.Valid() {
		return model.Stay{}, fmt.Errorf("%w: check_out must not be before check_in", ErrInvalidRequest)
	}
	if stay.TooLong() {
		return model.Stay{}, fmt.Errorf("%w: stay must not exceed %d nights", ErrInvalidRequest, model.MaxNights)
	}
	return stay, nil
}

func couponSource(coupons []model.Coupon, id string) model.CouponSource {
	for _, c := range coupons {
		if c.Key() == id {
			return c.Source
		}
	}
	return model.SourceHotel
}

func views(coupons []model.Coupon) []model.CouponView {
	out := make([]model.CouponView, 0, len(coupons))
	for _, c := range coupons {
		out = append(out, c.View())
	}
	return out
}
