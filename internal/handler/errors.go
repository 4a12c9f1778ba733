package handler

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/fairyhunter13/hotel-pricing-engine/internal/model"
	"github.com/fairyhunter13/hotel-pricing-engine/internal/pricing"
	"github.com/fairyhunter13/hotel-pricing-engine/internal/service"
)

// fieldNames maps request struct fields to their JSON names.
var fieldNames = map[string]string{
	"HotelID":    "hotel_id",
	"CustomerID": "customer_id",
	"RoomType":   "room_type",
	"CheckIn":    "check_in",
	"CheckOut":   "check_out",
	"CouponID":   "coupon_id",
}

// formatValidationError converts validator errors to client-facing messages.
// Only the first failing field is reported.
func formatValidationError(err error) string {
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) || len(ve) == 0 {
		return "invalid request"
	}

	fe := ve[0]
	field, ok := fieldNames[fe.Field()]
	if !ok {
		field = strings.ToLower(fe.Field())
	}

	switch fe.Tag() {
	case "required":
		return "invalid request: " + field + " is required"
	case "notblank":
		return "invalid request: " + field + " cannot be whitespace only"
	case "max":
		return "invalid request: " + field + " exceeds maximum length of " + fe.Param()
	case "isodate":
		return "invalid request: " + field + " must be a date in YYYY-MM-DD format"
	default:
		return "invalid request: " + field + " is invalid"
	}
}

// pricingError writes the response for an error returned while pricing a room.
// A rejected coupon still carries the price the customer will pay, so it is returned with the error.
func pricingError(c *fiber.Ctx, err error, result *model.PricingResult, hotelID string) error {
	switch {
	case errors.Is(err, pricing.ErrDiscountConflict):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": pricing.WarningDiscountConflict, "pricing": result})
	case errors.Is(err, pricing.ErrCouponNotEligible):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": pricing.WarningCouponNotEligible, "pricing": result})
	case errors.Is(err, service.ErrInvalidRequest):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, service.ErrRoomNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "room not found"})
	case errors.Is(err, service.ErrRoomUnavailable):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "room unavailable"})
	case errors.Is(err, service.ErrUpstream):
		log.Error().Err(err).Str("hotel_id", hotelID).Msg("booking backend request failed")
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": "booking backend unavailable"})
	default:
		log.Error().Err(err).Str("hotel_id", hotelID).Msg("pricing request failed")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
	}
}
