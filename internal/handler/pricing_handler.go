package handler

import (
	"context"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/fairyhunter13/hotel-pricing-engine/internal/model"
)

// PricingServiceInterface defines the pricing operations exposed over HTTP.
type PricingServiceInterface interface {
	Quote(ctx context.Context, req *model.QuoteRequest) (*model.QuoteResponse, error)
	SelectCoupon(ctx context.Context, req *model.SelectCouponRequest) (*model.PricingResult, error)
	ConfirmReservation(ctx context.Context, req *model.ConfirmReservationRequest) (*model.ReservationResponse, error)
}

// PricingHandler handles HTTP requests for room pricing.
type PricingHandler struct {
	service   PricingServiceInterface
	validator *validator.Validate
}

// NewPricingHandler creates a new PricingHandler with the given service and validator.
func NewPricingHandler(svc PricingServiceInterface, v *validator.Validate) *PricingHandler {
	return &PricingHandler{service: svc, validator: v}
}

// Quote handles POST /api/pricing/quote requests.
func (h *PricingHandler) Quote(c *fiber.Ctx) error {
	var req model.QuoteRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	if err := h.validator.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": formatValidationError(err)})
	}

	resp, err := h.service.Quote(c.Context(), &req)
	if err != nil {
		return pricingError(c, err, nil, req.HotelID)
	}

	log.Debug().
		Str("hotel_id", req.HotelID).
		Int("nights", resp.Nights).
		Int("rooms", len(resp.Rooms)).
		Msg("quote computed")

	return c.JSON(resp)
}

// SelectCoupon handles POST /api/pricing/coupon requests to apply a coupon manually.
func (h *PricingHandler) SelectCoupon(c *fiber.Ctx) error {
	var req model.SelectCouponRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	if err := h.validator.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": formatValidationError(err)})
	}

	result, err := h.service.SelectCoupon(c.Context(), &req)
	if err != nil {
		return pricingError(c, err, result, req.HotelID)
	}
	return c.JSON(result)
}
