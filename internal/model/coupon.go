package model

// DiscountType is the kind of a discount instrument.
type DiscountType string

const (
	DiscountPercentage DiscountType = "percentage"
	DiscountFixed      DiscountType = "fixed"
)

// CouponSource tells which pool a coupon came from.
type CouponSource string

const (
	SourceHotel  CouponSource = "hotel"
	SourceWallet CouponSource = "wallet"
)

// Coupon is either a hotel-pool coupon (shared, usage-capped) or a customer wallet coupon (single use).
type Coupon struct {
	UUID               string       `json:"uuid"`
	Code               string       `json:"code"`
	DiscountType       DiscountType `json:"discountType"`
	DiscountValue      float64      `json:"discountValue"`
	ApplicableRoomType string       `json:"applicableRoomType"`
	StartDate          Date         `json:"startDate"`
	EndDate            Date         `json:"endDate"`
	IsActive           bool         `json:"isActive"`
	Source             CouponSource `json:"source,omitempty"`

	// Hotel pool
	MaxUses   int `json:"maxUses,omitempty"`
	UsedCount int `json:"usedCount,omitempty"`

	// Customer wallet
	HotelID string `json:"hotelId,omitempty"`
	Used    bool   `json:"used,omitempty"`
}

// Key identifies the coupon: its UUID, or its code for hotel entries without one.
func (c Coupon) Key() string {
	if c.UUID != "" {
		return c.UUID
	}
	return c.Code
}

// Remaining returns the number of uses left on a hotel-pool coupon.
func (c Coupon) Remaining() int {
	return c.MaxUses - c.UsedCount
}

// ValidOn reports whether day falls inside the validity window. Unset bounds are open.
func (c Coupon) ValidOn(day Date) bool {
	if !c.StartDate.IsZero() && day.Before(c.StartDate) {
		return false
	}
	if !c.EndDate.IsZero() && day.After(c.EndDate) {
		return false
	}
	return true
}

// CouponView is the API representation of a selectable coupon.
type CouponView struct {
	ID                 string       `json:"id"`
	Code               string       `json:"code"`
	DiscountType       DiscountType `json:"discount_type"`
	DiscountValue      float64      `json:"discount_value"`
	ApplicableRoomType string       `json:"applicable_room_type"`
	Source             CouponSource `json:"source"`
	EndDate            Date         `json:"end_date"`
}

// View returns the API representation of c.
func (c Coupon) View() CouponView {
	return CouponView{
		ID:                 c.Key(),
		Code:               c.Code,
		DiscountType:       c.DiscountType,
		DiscountValue:      c.DiscountValue,
		ApplicableRoomType: c.ApplicableRoomType,
		Source:             c.Source,
		EndDate:            c.EndDate,
	}
}

// ConsumeCouponRequest is sent to the backend after a reservation that used a coupon.
type ConsumeCouponRequest struct {
	HotelID       string `json:"hotelId"`
	CouponUUID    string `json:"couponUuid"`
	ReservationID string `json:"reservationId"`
	CustomerID    string `json:"customerId"`
}
