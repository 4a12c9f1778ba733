package pricing

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fairyhunter13/hotel-pricing-engine/internal/model"
)

var (
	today   = model.MustParseDate("2026-10-19")
	twoDays = model.Stay{
		CheckIn:  model.MustParseDate("2026-11-01"),
		CheckOut: model.MustParseDate("2026-11-03"),
	}
)

func standardRoom() model.RoomOffer {
	return model.RoomOffer{
		HotelID:          "hotel-1",
		RoomType:         "Standard",
		NightlyBasePrice: 100_000,
		AvailableUnits:   3,
	}
}

func hotelCoupon(id string, typ model.DiscountType, value float64) model.Coupon {
	return model.Coupon{
		UUID:               id,
		Code:               "CODE-" + id,
		DiscountType:       typ,
		DiscountValue:      value,
		ApplicableRoomType: "all",
		StartDate:          model.MustParseDate("2026-10-01"),
		EndDate:            model.MustParseDate("2026-12-31"),
		IsActive:           true,
		MaxUses:            10,
	}
}

func walletCoupon(id string, typ model.DiscountType, value float64) model.Coupon {
	return model.Coupon{
		UUID:               id,
		Code:               "W-" + id,
		DiscountType:       typ,
		DiscountValue:      value,
		ApplicableRoomType: "all",
		StartDate:          model.MustParseDate("2026-10-01"),
		EndDate:            model.MustParseDate("2026-12-31"),
		HotelID:            "hotel-1",
	}
}

func event(id string, typ model.DiscountType, value float64, start, end string) model.PromotionEvent {
	return model.PromotionEvent{
		UUID:                id,
		Name:                "Event " + id,
		DiscountType:        typ,
		DiscountValue:       value,
		ApplicableRoomTypes: []string{"standard"},
		StartDate:           model.MustParseDate(start),
		EndDate:             model.MustParseDate(end),
		IsActive:            true,
	}
}

func TestEvaluate_ScenarioA_FixedCouponNoEvent(t *testing.T) {
	q, err := Evaluate(Input{
		Room:         standardRoom(),
		Stay:         twoDays,
		HotelCoupons: []model.Coupon{hotelCoupon("c1", model.DiscountFixed, 10_000)},
		Today:        today,
	})

	require.NoError(t, err)
	assert.Equal(t, int64(200_000), q.Result.OriginalPrice)
	assert.Equal(t, int64(180_000), q.Result.FinalPrice)
	assert.Equal(t, model.SourceCoupon, q.Result.DiscountSource)
	assert.Equal(t, model.StateAutoCoupon, q.Result.State)
	assert.Equal(t, "c1", q.Result.CouponUUID)
	assert.Equal(t, float64(10_000), q.Result.CouponFixedDiscount)
	assert.Equal(t, int64(20_000), q.Result.DiscountAmount)
	assert.True(t, q.Result.ShowOriginalPrice)
}

func TestEvaluate_ScenarioB_EventBeatsCoupon(t *testing.T) {
	in := Input{
		Room:         standardRoom(),
		Stay:         twoDays,
		Events:       []model.PromotionEvent{event("e1", model.DiscountPercentage, 20, "2026-11-01", "2026-11-02")},
		HotelCoupons: []model.Coupon{hotelCoupon("c1", model.DiscountPercentage, 30)},
		Today:        today,
	}

	q, err := Evaluate(in)
	require.NoError(t, err)
	assert.Equal(t, int64(160_000), q.Result.FinalPrice)
	assert.Equal(t, model.SourceEvent, q.Result.DiscountSource)
	assert.Equal(t, model.StateEventDiscount, q.Result.State)
	assert.Equal(t, float64(20), q.Result.Discount)
	assert.Equal(t, "e1", q.Result.EventUUID)
	assert.Empty(t, q.Result.CouponUUID)
	assert.Len(t, q.Eligible, 1, "coupon stays eligible, it is just not applied")

	in.SelectedCouponID = "c1"
	q, err = Evaluate(in)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrDiscountConflict))
	assert.Equal(t, model.StateRejected, q.Result.State)
	assert.Equal(t, WarningDiscountConflict, q.Result.Warning)
	assert.Equal(t, int64(160_000), q.Result.FinalPrice, "event price stands")
	assert.Empty(t, q.Result.CouponUUID, "selection cleared")
	assert.Zero(t, q.Result.CouponDiscount)
}

func TestEvaluate_ScenarioC_FixedEventProratedByOverlap(t *testing.T) {
	q, err := Evaluate(Input{
		Room:   standardRoom(),
		Stay:   twoDays,
		Events: []model.PromotionEvent{event("e1", model.DiscountFixed, 5_000, "2026-10-25", "2026-11-01")},
		Today:  today,
	})

	require.NoError(t, err)
	assert.Equal(t, 1, q.Event.OverlapNights)
	assert.Equal(t, int64(5_000), q.Result.TotalFixedDiscount)
	assert.Equal(t, int64(195_000), q.Result.FinalPrice)
	assert.Equal(t, model.DiscountFixed, q.Result.DiscountType)
	assert.Equal(t, float64(5_000), q.Result.FixedDiscount)
}

func TestEvaluate_ScenarioD_LargestEffectiveCouponWins(t *testing.T) {
	q, err := Evaluate(Input{
		Room: standardRoom(),
		Stay: twoDays,
		HotelCoupons: []model.Coupon{
			hotelCoupon("pct10", model.DiscountPercentage, 10),
			hotelCoupon("fixed15k", model.DiscountFixed, 15_000),
		},
		Today: today,
	})

	require.NoError(t, err)
	assert.Equal(t, "fixed15k", q.Result.CouponUUID)
	assert.Equal(t, int64(170_000), q.Result.FinalPrice)
}

func TestEvaluate_ScenarioE_ValidityCheckedAgainstToday(t *testing.T) {
	farStay := model.Stay{CheckIn: today.AddDays(60), CheckOut: today.AddDays(62)}
	validToday := hotelCoupon("valid", model.DiscountFixed, 1_000)
	validToday.EndDate = today.AddDays(10)

	q, err := Evaluate(Input{Room: standardRoom(), Stay: farStay, HotelCoupons: []model.Coupon{validToday}, Today: today})
	require.NoError(t, err)
	assert.Equal(t, "valid", q.Result.CouponUUID, "stay 60 days out does not matter")

	soonStay := model.Stay{CheckIn: today.AddDays(3), CheckOut: today.AddDays(5)}
	expiresTomorrow := walletCoupon("tomorrow", model.DiscountFixed, 1_000)
	expiresTomorrow.EndDate = today.AddDays(1)
	in := Input{Room: standardRoom(), Stay: soonStay, WalletCoupons: []model.Coupon{expiresTomorrow}, Today: today}

	q, err = Evaluate(in)
	require.NoError(t, err)
	assert.Equal(t, "tomorrow", q.Result.CouponUUID)

	in.Today = today.AddDays(2)
	q, err = Evaluate(in)
	require.NoError(t, err)
	assert.Empty(t, q.Eligible, "revisit after expiry drops the coupon")
	assert.Equal(t, model.SourceNone, q.Result.DiscountSource)
	assert.Equal(t, int64(200_000), q.Result.FinalPrice)
}

func TestEvaluate_ManualCouponOverridesAuto(t *testing.T) {
	in := Input{
		Room: standardRoom(),
		Stay: twoDays,
		HotelCoupons: []model.Coupon{
			hotelCoupon("small", model.DiscountPercentage, 5),
			hotelCoupon("big", model.DiscountPercentage, 25),
		},
		Today: today,
	}

	q, err := Evaluate(in)
	require.NoError(t, err)
	assert.Equal(t, "big", q.Result.CouponUUID)

	in.SelectedCouponID = "small"
	q, err = Evaluate(in)
	require.NoError(t, err)
	assert.Equal(t, model.StateManualCoupon, q.Result.State)
	assert.Equal(t, "small", q.Result.CouponUUID)
	assert.Equal(t, int64(190_000), q.Result.FinalPrice)
	assert.Equal(t, float64(5), q.Result.CouponDiscount)
}

func TestEvaluate_ManualCouponByCode(t *testing.T) {
	c := hotelCoupon("", model.DiscountFixed, 1_000)
	c.Code = "WELCOME"

	q, err := Evaluate(Input{
		Room:             standardRoom(),
		Stay:             twoDays,
		HotelCoupons:     []model.Coupon{c},
		Today:            today,
		SelectedCouponID: "WELCOME",
	})

	require.NoError(t, err)
	assert.Equal(t, "WELCOME", q.Result.CouponUUID)
	assert.Equal(t, "WELCOME", q.Result.CouponCode)
	assert.Equal(t, int64(198_000), q.Result.FinalPrice)
}

func TestEvaluate_ManualCouponNotEligible(t *testing.T) {
	q, err := Evaluate(Input{
		Room:             standardRoom(),
		Stay:             twoDays,
		HotelCoupons:     []model.Coupon{hotelCoupon("c1", model.DiscountFixed, 10_000)},
		Today:            today,
		SelectedCouponID: "unknown",
	})

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrCouponNotEligible))
	assert.Equal(t, model.StateRejected, q.Result.State)
	assert.Equal(t, WarningCouponNotEligible, q.Result.Warning)
	assert.Equal(t, "c1", q.Result.CouponUUID, "automatic choice stands")
	assert.Equal(t, int64(180_000), q.Result.FinalPrice)
}

func TestEvaluate_ManualCouponWithoutBenefit(t *testing.T) {
	testCases := []struct {
		name   string
		hotel  []model.Coupon
		wallet []model.Coupon
	}{
		{name: "unknown_type", hotel: []model.Coupon{hotelCoupon("c1", "amount", 5_000)}},
		{name: "zero_percentage", hotel: []model.Coupon{hotelCoupon("c1", model.DiscountPercentage, 0)}},
		{name: "zero_fixed_wallet", wallet: []model.Coupon{walletCoupon("c1", model.DiscountFixed, 0)}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			q, err := Evaluate(Input{
				Room:             standardRoom(),
				Stay:             twoDays,
				HotelCoupons:     tc.hotel,
				WalletCoupons:    tc.wallet,
				Today:            today,
				SelectedCouponID: "c1",
			})

			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrCouponNotEligible))
			assert.Equal(t, model.StateRejected, q.Result.State)
			assert.Equal(t, WarningCouponNotEligible, q.Result.Warning)
			assert.Empty(t, q.Result.CouponUUID)
			assert.Equal(t, int64(200_000), q.Result.FinalPrice)
			assert.Empty(t, q.Eligible)
		})
	}
}

func TestEvaluate_NoDiscount(t *testing.T) {
	q, err := Evaluate(Input{Room: standardRoom(), Stay: twoDays, Today: today})

	require.NoError(t, err)
	assert.Equal(t, model.StateNoDiscount, q.Result.State)
	assert.Equal(t, model.SourceNone, q.Result.DiscountSource)
	assert.Equal(t, int64(200_000), q.Result.FinalPrice)
	assert.Zero(t, q.Result.DiscountAmount)
	assert.False(t, q.Result.ShowOriginalPrice)
}

func TestEvaluate_SameDayStayPricedAsOneNight(t *testing.T) {
	day := model.MustParseDate("2026-11-01")
	q, err := Evaluate(Input{
		Room:   standardRoom(),
		Stay:   model.Stay{CheckIn: day, CheckOut: day},
		Events: []model.PromotionEvent{event("e1", model.DiscountFixed, 5_000, "2026-11-01", "2026-11-01")},
		Today:  today,
	})

	require.NoError(t, err)
	assert.Equal(t, 1, q.Result.Nights)
	assert.Equal(t, int64(100_000), q.Result.OriginalPrice)
	assert.Equal(t, int64(95_000), q.Result.FinalPrice)
}

func TestEvaluate_MissingInput(t *testing.T) {
	testCases := []struct {
		name string
		in   Input
	}{
		{"no_room_type", Input{Room: model.RoomOffer{NightlyBasePrice: 1}, Stay: twoDays, Today: today}},
		{"blank_room_type", Input{Room: model.RoomOffer{RoomType: "  "}, Stay: twoDays, Today: today}},
		{"negative_price", Input{Room: model.RoomOffer{RoomType: "x", NightlyBasePrice: -1}, Stay: twoDays, Today: today}},
		{"no_check_in", Input{Room: standardRoom(), Stay: model.Stay{CheckOut: twoDays.CheckOut}, Today: today}},
		{"no_check_out", Input{Room: standardRoom(), Stay: model.Stay{CheckIn: twoDays.CheckIn}, Today: today}},
		{"reversed_stay", Input{Room: standardRoom(), Stay: model.Stay{CheckIn: twoDays.CheckOut, CheckOut: twoDays.CheckIn}, Today: today}},
		{"no_today", Input{Room: standardRoom(), Stay: twoDays}},
		{"centuries_long", Input{Room: standardRoom(), Stay: model.Stay{CheckIn: model.MustParseDate("2026-01-01"), CheckOut: model.MustParseDate("2400-01-01")}, Today: today}},
		{"just_over_max", Input{Room: standardRoom(), Stay: model.Stay{CheckIn: twoDays.CheckIn, CheckOut: twoDays.CheckIn.AddDays(model.MaxNights + 1)}, Today: today}},
		{"price_overflow", Input{Room: model.RoomOffer{RoomType: "x", NightlyBasePrice: math.MaxInt64 / 100}, Stay: model.Stay{CheckIn: twoDays.CheckIn, CheckOut: twoDays.CheckIn.AddDays(model.MaxNights)}, Today: today}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Evaluate(tc.in)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrMissingInput))
		})
	}
}

func TestEvaluate_LongestStay(t *testing.T) {
	stay := model.Stay{CheckIn: twoDays.CheckIn, CheckOut: twoDays.CheckIn.AddDays(model.MaxNights)}

	q, err := Evaluate(Input{Room: standardRoom(), Stay: stay, Today: today})

	require.NoError(t, err)
	assert.Equal(t, model.MaxNights, q.Result.Nights)
	assert.Equal(t, int64(100_000*model.MaxNights), q.Result.OriginalPrice)
}

func TestEvaluate_ExclusivityInvariant(t *testing.T) {
	eventsets := [][]model.PromotionEvent{
		nil,
		{event("p", model.DiscountPercentage, 15, "2026-10-01", "2026-12-31")},
		{event("f", model.DiscountFixed, 3_000, "2026-10-01", "2026-12-31")},
		{event("inactive", model.DiscountFixed, 3_000, "2026-10-01", "2026-12-31")},
	}
	eventsets[3][0].IsActive = false
	couponsets := [][]model.Coupon{
		nil,
		{hotelCoupon("p", model.DiscountPercentage, 40)},
		{hotelCoupon("f", model.DiscountFixed, 50_000)},
	}

	for _, events := range eventsets {
		for _, coupons := range couponsets {
			for _, selected := range []string{"", "p", "f"} {
				q, _ := Evaluate(Input{
					Room:             standardRoom(),
					Stay:             twoDays,
					Events:           events,
					HotelCoupons:     coupons,
					Today:            today,
					SelectedCouponID: selected,
				})
				r := q.Result
				eventPart := r.Discount > 0 || r.FixedDiscount > 0
				couponPart := r.CouponDiscount > 0 || r.CouponFixedDiscount > 0
				assert.False(t, eventPart && couponPart, "event and coupon both contributed: %+v", r)
				assert.False(t, r.Discount > 0 && r.FixedDiscount > 0, "percentage and fixed both set: %+v", r)
				assert.GreaterOrEqual(t, r.FinalPrice, int64(0))
			}
		}
	}
}

func TestEvaluate_NonNegativeWhenFixedExceedsPrice(t *testing.T) {
	q, err := Evaluate(Input{
		Room:         standardRoom(),
		Stay:         twoDays,
		HotelCoupons: []model.Coupon{hotelCoupon("huge", model.DiscountFixed, 1_000_000)},
		Today:        today,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(0), q.Result.FinalPrice)
	assert.Equal(t, int64(200_000), q.Result.DiscountAmount)

	q, err = Evaluate(Input{
		Room:   standardRoom(),
		Stay:   twoDays,
		Events: []model.PromotionEvent{event("huge", model.DiscountFixed, 1_000_000, "2026-11-01", "2026-11-02")},
		Today:  today,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(0), q.Result.FinalPrice)
}

func TestEvaluate_PercentageClampedTo100(t *testing.T) {
	q, err := Evaluate(Input{
		Room:         standardRoom(),
		Stay:         twoDays,
		HotelCoupons: []model.Coupon{hotelCoupon("c", model.DiscountPercentage, 150)},
		Today:        today,
	})
	require.NoError(t, err)
	assert.Equal(t, float64(100), q.Result.CouponDiscount)
	assert.Equal(t, int64(0), q.Result.FinalPrice)

	q, err = Evaluate(Input{
		Room:   standardRoom(),
		Stay:   twoDays,
		Events: []model.PromotionEvent{event("e", model.DiscountPercentage, 120, "2026-11-01", "2026-11-02")},
		Today:  today,
	})
	require.NoError(t, err)
	assert.Equal(t, float64(100), q.Result.Discount)
	assert.Equal(t, int64(0), q.Result.FinalPrice)
}

func TestEvaluate_Idempotent(t *testing.T) {
	wallet := []model.Coupon{
		walletCoupon("w1", model.DiscountFixed, 7_000),
		walletCoupon("w2", model.DiscountPercentage, 5),
	}
	walletBefore := append([]model.Coupon(nil), wallet...)
	in := Input{
		Room:          standardRoom(),
		Stay:          twoDays,
		HotelCoupons:  []model.Coupon{hotelCoupon("h1", model.DiscountFixed, 2_000)},
		WalletCoupons: wallet,
		Today:         today,
	}

	first, err := Evaluate(in)
	require.NoError(t, err)
	second, err := Evaluate(in)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, walletBefore, wallet, "wallet must not be mutated")
	for _, c := range wallet {
		assert.False(t, c.Used)
		assert.Empty(t, c.Source)
	}
}

func TestBestCoupon_TieKeepsFirst(t *testing.T) {
	coupons := []model.Coupon{
		hotelCoupon("first", model.DiscountFixed, 10_000),
		hotelCoupon("second", model.DiscountPercentage, 10),
	}

	c, ok := BestCoupon(coupons, 200_000, 2)

	require.True(t, ok)
	assert.Equal(t, "first", c.UUID)
}

func TestBestCoupon_FixedUsesFullStayNights(t *testing.T) {
	coupons := []model.Coupon{
		hotelCoupon("pct", model.DiscountPercentage, 10),
		hotelCoupon("fixed", model.DiscountFixed, 8_000),
	}

	c, ok := BestCoupon(coupons, 300_000, 3)
	require.True(t, ok)
	assert.Equal(t, "pct", c.UUID, "30000 beats 24000")

	c, ok = BestCoupon(coupons, 300_000, 4)
	require.True(t, ok)
	assert.Equal(t, "fixed", c.UUID, "32000 beats 30000")
}

func TestBestCoupon_NothingWorthApplying(t *testing.T) {
	_, ok := BestCoupon([]model.Coupon{hotelCoupon("zero", model.DiscountFixed, 0)}, 100_000, 1)
	assert.False(t, ok)

	_, ok = BestCoupon(nil, 100_000, 1)
	assert.False(t, ok)
}
