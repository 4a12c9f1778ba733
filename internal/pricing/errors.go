package pricing

import "errors"

var (
	// ErrMissingInput is returned when room or stay data is absent or inconsistent.
	ErrMissingInput = errors.New("pricing input incomplete")

	// ErrDiscountConflict is returned when a coupon is selected while an event discount applies.
	ErrDiscountConflict = errors.New("discount cannot be combined")

	// ErrCouponNotEligible is returned when the selected coupon is not usable for the room.
	ErrCouponNotEligible = errors.New("coupon not eligible")
)

// User-visible warnings attached to rejected results.
const (
	WarningDiscountConflict  = "discount cannot be combined"
	WarningCouponNotEligible = "coupon cannot be applied to this room"
)
