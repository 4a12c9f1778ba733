package pricing

import (
	"strings"
	"unicode"

	"github.com/fairyhunter13/hotel-pricing-engine/internal/model"
)

// AllRoomTypes is the wildcard room-type scope.
const AllRoomTypes = "all"

// NormalizeRoomType lower-cases a room-type key and strips whitespace and hyphens,
// so "Deluxe Twin", "deluxe-twin" and "DELUXETWIN" compare equal.
func NormalizeRoomType(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) || r == '-' {
			return -1
		}
		return unicode.ToLower(r)
	}, s)
}

// RoomScopeMatches reports whether a coupon scoped to scope can be used for roomType.
func RoomScopeMatches(scope, roomType string) bool {
	key := NormalizeRoomType(scope)
	return key == "" || key == AllRoomTypes || key == NormalizeRoomType(roomType)
}

// HotelCouponEligible reports whether a hotel-pool coupon can be used today for roomType.
func HotelCouponEligible(c model.Coupon, roomType string, today model.Date) bool {
	return c.IsActive &&
		c.Remaining() > 0 &&
		couponDiscount(c).Redeemable() &&
		c.ValidOn(today) &&
		RoomScopeMatches(c.ApplicableRoomType, roomType)
}

// WalletCouponEligible reports whether a customer wallet coupon can be used today for roomType at hotelID.
func WalletCouponEligible(c model.Coupon, roomType, hotelID string, today model.Date) bool {
	return !c.Used &&
		c.HotelID == hotelID &&
		couponDiscount(c).Redeemable() &&
		c.ValidOn(today) &&
		RoomScopeMatches(c.ApplicableRoomType, roomType)
}

// EligibleCoupons returns the coupons usable for roomType right now: eligible hotel-pool coupons
// followed by eligible wallet coupons, each in input order. Coupons of an unknown discount type
// or with a non-positive value are never eligible, so they can be neither auto-applied nor
// selected by hand.
//
// Validity is checked against today, not the stay dates. When a hotel-pool coupon and a wallet
// coupon share an identifier, the wallet record shadows the hotel record, even when the wallet
// record itself is not eligible (for example already used).
func EligibleCoupons(hotelPool, wallet []model.Coupon, roomType, hotelID string, today model.Date) []model.Coupon {
	inWallet := make(map[string]struct{}, len(wallet))
	for _, c := range wallet {
		if k := c.Key(); k != "" {
			inWallet[k] = struct{}{}
		}
	}

	eligible := make([]model.Coupon, 0, len(hotelPool)+len(wallet))
	for _, c := range hotelPool {
		if _, shadowed := inWallet[c.Key()]; shadowed {
			continue
		}
		if HotelCouponEligible(c, roomType, today) {
			c.Source = model.SourceHotel
			eligible = append(eligible, c)
		}
	}
	for _, c := range wallet {
		if WalletCouponEligible(c, roomType, hotelID, today) {
			c.Source = model.SourceWallet
			eligible = append(eligible, c)
		}
	}
	return eligible
}
