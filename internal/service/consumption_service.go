package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/fairyhunter13/hotel-pricing-engine/internal/model"
	"github.com/fairyhunter13/hotel-pricing-engine/internal/wallet"
)

// ConsumptionRepositoryInterface defines the interface for consumption ledger access.
type ConsumptionRepositoryInterface interface {
	Insert(ctx context.Context, c *model.Consumption) error
	UpdateStatus(ctx context.Context, id string, status model.ConsumptionStatus, lastError string) error
	ListByReservation(ctx context.Context, reservationID string) ([]model.Consumption, error)
}

// CouponConsumer sends coupon use requests to the backend of record.
type CouponConsumer interface {
	ConsumeCoupon(ctx context.Context, req model.ConsumeCouponRequest) error
}

// WalletStore is the customer wallet store. MarkUsed is only called from ConsumptionService.
type WalletStore interface {
	Snapshot(customerID string) ([]model.Coupon, bool)
	Replace(customerID string, coupons []model.Coupon)
	MarkUsed(customerID, couponID string) (bool, error)
}

// ConsumptionService marks coupons spent after a confirmed reservation.
type ConsumptionService struct {
	repo    ConsumptionRepositoryInterface
	backend CouponConsumer
	wallets WalletStore
	newID   func() string
}

// NewConsumptionService creates a new ConsumptionService.
func NewConsumptionService(repo ConsumptionRepositoryInterface, backend CouponConsumer, wallets WalletStore) *ConsumptionService {
	return &ConsumptionService{
		repo:    repo,
		backend: backend,
		wallets: wallets,
		newID:   uuid.NewString,
	}
}

// Consume records the coupon use, flips a wallet coupon to used and notifies the backend.
//
// Call it only after the reservation was created. Returns:
//   - ErrInvalidRequest if coupon or reservation identity is missing
//   - ErrCouponAlreadyConsumed if the ledger already holds this use (no request is sent)
//   - ErrConsumptionFailed if the backend call failed; the wallet is not rolled back
//
// A ledger outage is logged and does not stop the use request.
func (s *ConsumptionService) Consume(ctx context.Context, c model.Consumption) error {
	if c.CouponID == "" || c.ReservationID == "" || c.CustomerID == "" {
		return ErrInvalidRequest
	}

	c.ID = s.newID()
	c.Status = model.ConsumptionPending

	recorded := true
	if err := s.repo.Insert(ctx, &c); err != nil {
		if errors.Is(err, ErrCouponAlreadyConsumed) {
			return ErrCouponAlreadyConsumed
		}
		recorded = false
		log.Error().
			Err(err).
			Str("coupon_id", c.CouponID).
			Str("reservation_id", c.ReservationID).
			Msg("failed to record coupon consumption")
	}

	if c.Source == model.SourceWallet {
		if _, err := s.wallets.MarkUsed(c.CustomerID, c.CouponID); err != nil && !errors.Is(err, wallet.ErrCouponNotInWallet) {
			log.Warn().Err(err).Str("coupon_id", c.CouponID).Msg("failed to mark wallet coupon used")
		}
	}

	sendErr := s.backend.ConsumeCoupon(ctx, c.Request())

	if recorded {
		status, lastError := model.ConsumptionSent, ""
		if sendErr != nil {
			status, lastError = model.ConsumptionFailed, sendErr.Error()
		}
		if err := s.repo.UpdateStatus(ctx, c.ID, status, lastError); err != nil {
			log.Error().Err(err).Str("consumption_id", c.ID).Msg("failed to update consumption status")
		}
	}

	if sendErr != nil {
		log.Warn().
			Err(sendErr).
			Str("coupon_id", c.CouponID).
			Str("reservation_id", c.ReservationID).
			Str("customer_id", c.CustomerID).
			Msg("coupon consumption not acknowledged")
		return fmt.Errorf("%w: %w", ErrConsumptionFailed, sendErr)
	}

	log.Info().
		Str("coupon_id", c.CouponID).
		Str("reservation_id", c.ReservationID).
		Msg("coupon consumed")
	return nil
}

// ListByReservation returns the coupon uses recorded for a reservation.
func (s *ConsumptionService) ListByReservation(ctx context.Context, reservationID string) ([]model.Consumption, error) {
	if reservationID == "" {
		return nil, ErrInvalidRequest
	}
	consumptions, err := s.repo.ListByReservation(ctx, reservationID)
	if err != nil {
		return nil, fmt.Errorf("list consumptions: %w", err)
	}
	return consumptions, nil
}
