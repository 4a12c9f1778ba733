package pricing

import (
	"strconv"

	"github.com/fairyhunter13/hotel-pricing-engine/internal/model"
)

// RepresentativeKey groups coupons that look identical to the customer.
func RepresentativeKey(c model.Coupon) string {
	return string(c.DiscountType) + "-" +
		strconv.FormatFloat(c.DiscountValue, 'f', -1, 64) + "-" +
		NormalizeRoomType(c.ApplicableRoomType)
}

// Representatives keeps the first coupon per RepresentativeKey, preserving order.
// It is a display aid; pricing always runs on the full eligible set.
func Representatives(coupons []model.Coupon) []model.Coupon {
	seen := make(map[string]struct{}, len(coupons))
	reps := make([]model.Coupon, 0, len(coupons))
	for _, c := range coupons {
		k := RepresentativeKey(c)
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		reps = append(reps, c)
	}
	return reps
}
