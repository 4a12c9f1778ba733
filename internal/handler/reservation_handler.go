package handler

import (
	"context"
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/fairyhunter13/hotel-pricing-engine/internal/model"
	"github.com/fairyhunter13/hotel-pricing-engine/internal/service"
)

// ConsumptionServiceInterface defines the read side of the coupon consumption ledger.
type ConsumptionServiceInterface interface {
	ListByReservation(ctx context.Context, reservationID string) ([]model.Consumption, error)
}

// ReservationHandler handles HTTP requests for reservations.
type ReservationHandler struct {
	pricing     PricingServiceInterface
	consumption ConsumptionServiceInterface
	validator   *validator.Validate
}

// NewReservationHandler creates a new ReservationHandler.
func NewReservationHandler(pricing PricingServiceInterface, consumption ConsumptionServiceInterface, v *validator.Validate) *ReservationHandler {
	return &ReservationHandler{pricing: pricing, consumption: consumption, validator: v}
}

// Confirm handles POST /api/reservations requests.
// Returns 201 with the reservation and the price it was booked at. A coupon that could not be
// marked as used does not fail the request; the response carries a warning instead.
func (h *ReservationHandler) Confirm(c *fiber.Ctx) error {
	var req model.ConfirmReservationRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	if err := h.validator.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": formatValidationError(err)})
	}

	resp, err := h.pricing.ConfirmReservation(c.Context(), &req)
	if err != nil {
		var result *model.PricingResult
		if resp != nil {
			result = &resp.Pricing
		}
		return pricingError(c, err, result, req.HotelID)
	}

	log.Info().
		Str("reservation_id", resp.ReservationID).
		Str("hotel_id", req.HotelID).
		Str("room_type", req.RoomType).
		Int64("final_price", resp.Pricing.FinalPrice).
		Str("discount_source", string(resp.Pricing.DiscountSource)).
		Msg("reservation confirmed")

	return c.Status(fiber.StatusCreated).JSON(resp)
}

// ListConsumptions handles GET /api/reservations/:id/coupons requests.
func (h *ReservationHandler) ListConsumptions(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request: reservation id is required",
		})
	}

	consumptions, err := h.consumption.ListByReservation(c.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrInvalidRequest) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request"})
		}
		log.Error().Err(err).Str("reservation_id", id).Msg("failed to list coupon consumptions")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "internal server error",
		})
	}

	return c.JSON(fiber.Map{
		"reservation_id": id,
		"consumptions":   consumptions,
	})
}
