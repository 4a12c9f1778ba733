package pricing

import (
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/fairyhunter13/hotel-pricing-engine/internal/model"
)

// Input is everything needed to price one room offer.
type Input struct {
	Room          model.RoomOffer
	Stay          model.Stay
	Events        []model.PromotionEvent
	HotelCoupons  []model.Coupon
	WalletCoupons []model.Coupon
	Today         model.Date

	// SelectedCouponID is a manual override of the automatic coupon choice. Empty means none.
	SelectedCouponID string
}

// Quote is the engine output for one room offer.
type Quote struct {
	Result          model.PricingResult
	Event           EventMatch
	Eligible        []model.Coupon
	Representatives []model.Coupon
}

func (in Input) validate() error {
	switch {
	case strings.TrimSpace(in.Room.RoomType) == "":
		return fmt.Errorf("%w: room type is required", ErrMissingInput)
	case in.Room.NightlyBasePrice < 0:
		return fmt.Errorf("%w: nightly price must not be negative", ErrMissingInput)
	case !in.Stay.Valid():
		return fmt.Errorf("%w: check-in and check-out are required and ordered", ErrMissingInput)
	case in.Stay.TooLong():
		return fmt.Errorf("%w: stay exceeds %d nights", ErrMissingInput, model.MaxNights)
	case in.Room.NightlyBasePrice > math.MaxInt64/int64(in.Stay.Nights()):
		return fmt.Errorf("%w: stay price overflows", ErrMissingInput)
	case in.Today.IsZero():
		return fmt.Errorf("%w: evaluation date is required", ErrMissingInput)
	}
	return nil
}

// Evaluate prices one room offer.
//
// An active event always prices the offer and coupons are never auto-applied on top of it.
// Without an event, the eligible coupon with the largest effective discount is applied, or the
// manually selected one when SelectedCouponID is set.
//
// Two errors come back together with a usable Quote: ErrDiscountConflict when a coupon was
// selected while an event applies (the event price stands and the selection is dropped), and
// ErrCouponNotEligible when the selected coupon is unknown or unusable (the automatic choice
// stands). In both cases Result.State is StateRejected and Result.Warning is set.
//
// Evaluate never mutates its input.
func Evaluate(in Input) (Quote, error) {
	if err := in.validate(); err != nil {
		return Quote{}, err
	}

	nights := in.Stay.Nights()
	original := in.Room.NightlyBasePrice * int64(nights)
	eligible := EligibleCoupons(in.HotelCoupons, in.WalletCoupons, in.Room.RoomType, in.Room.HotelID, in.Today)

	q := Quote{
		Event:           ResolveEvent(in.Room.RoomType, in.Stay, in.Events),
		Eligible:        eligible,
		Representatives: Representatives(eligible),
	}
	base := model.PricingResult{
		OriginalPrice:  original,
		FinalPrice:     original,
		DiscountSource: model.SourceNone,
		State:          model.StateNoDiscount,
		Nights:         nights,
	}

	if q.Event.Active() {
		q.Result = withEvent(base, q.Event, nights)
		if in.SelectedCouponID != "" {
			q.Result.State = model.StateRejected
			q.Result.Warning = WarningDiscountConflict
			return q, ErrDiscountConflict
		}
		return q, nil
	}

	auto := base
	if c, ok := BestCoupon(eligible, original, nights); ok {
		auto = withCoupon(base, c, nights)
		auto.State = model.StateAutoCoupon
	}

	if in.SelectedCouponID == "" {
		q.Result = auto
		return q, nil
	}

	c, ok := findCoupon(eligible, in.SelectedCouponID)
	if !ok {
		q.Result = auto
		q.Result.State = model.StateRejected
		q.Result.Warning = WarningCouponNotEligible
		return q, fmt.Errorf("%w: %s", ErrCouponNotEligible, in.SelectedCouponID)
	}
	q.Result = withCoupon(base, c, nights)
	q.Result.State = model.StateManualCoupon
	return q, nil
}

// EffectiveDiscount is the amount c would remove from original for a stay of nights.
// Fixed coupons are multiplied by the full stay length.
func EffectiveDiscount(c model.Coupon, original int64, nights int) decimal.Decimal {
	return couponDiscount(c).Amount(original, nights)
}

// BestCoupon returns the coupon with the largest effective discount. Ties keep the first in
// list order. Coupons worth nothing are never selected.
func BestCoupon(coupons []model.Coupon, original int64, nights int) (model.Coupon, bool) {
	var (
		best    model.Coupon
		bestAmt = decimal.Zero
		found   bool
	)
	for _, c := range coupons {
		amt := EffectiveDiscount(c, original, nights)
		if amt.GreaterThan(bestAmt) {
			best, bestAmt, found = c, amt, true
		}
	}
	return best, found
}

func couponDiscount(c model.Coupon) Discount {
	return Discount{Type: c.DiscountType, Value: c.DiscountValue}
}

func findCoupon(coupons []model.Coupon, id string) (model.Coupon, bool) {
	for _, c := range coupons {
		if c.Key() == id || (c.Code != "" && c.Code == id) {
			return c, true
		}
	}
	return model.Coupon{}, false
}

// withEvent prices r with the selected event. Only the selected type's magnitude is carried so
// a result never reports both a percentage and a fixed discount.
func withEvent(r model.PricingResult, ev EventMatch, nights int) model.PricingResult {
	r.DiscountSource = model.SourceEvent
	r.State = model.StateEventDiscount
	r.DiscountType = ev.DiscountType
	r.EventName = ev.EventName
	r.EventUUID = ev.EventUUID

	switch ev.DiscountType {
	case model.DiscountPercentage:
		r.Discount = ev.Discount
		r.FinalPrice = Percentage(ev.Discount).Apply(r.OriginalPrice, nights)
	case model.DiscountFixed:
		r.FixedDiscount = ev.FixedDiscount
		r.TotalFixedDiscount = ev.TotalFixedDiscount
		r.FinalPrice = FinalPrice(r.OriginalPrice, ev.TotalFixedDiscount)
	}
	return finish(r)
}

func withCoupon(r model.PricingResult, c model.Coupon, nights int) model.PricingResult {
	d := couponDiscount(c)
	r.DiscountSource = model.SourceCoupon
	r.DiscountType = c.DiscountType
	r.CouponCode = c.Code
	r.CouponUUID = c.Key()

	switch c.DiscountType {
	case model.DiscountPercentage:
		r.CouponDiscount = ClampPercent(c.DiscountValue)
	case model.DiscountFixed:
		r.CouponFixedDiscount = c.DiscountValue
	}
	r.FinalPrice = d.Apply(r.OriginalPrice, nights)
	return finish(r)
}

func finish(r model.PricingResult) model.PricingResult {
	r.DiscountAmount = r.OriginalPrice - r.FinalPrice
	r.ShowOriginalPrice = r.Discount > 0 || r.FixedDiscount > 0 ||
		r.CouponDiscount > 0 || r.CouponFixedDiscount > 0
	return r
}
