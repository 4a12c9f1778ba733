package model

// DiscountSource is the single mechanism contributing to the final price.
type DiscountSource string

const (
	SourceNone   DiscountSource = "none"
	SourceEvent  DiscountSource = "event"
	SourceCoupon DiscountSource = "coupon"
)

// PricingState is the selector state a PricingResult was produced in.
type PricingState string

const (
	StateNoDiscount    PricingState = "no_discount"
	StateEventDiscount PricingState = "event_discount"
	StateAutoCoupon    PricingState = "auto_coupon"
	StateManualCoupon  PricingState = "manual_coupon"
	StateRejected      PricingState = "rejected"
)

// PricingResult is the authoritative price decision for one room offer.
// It is derived data and is recomputed whenever stay, room or coupon selection changes.
type PricingResult struct {
	OriginalPrice  int64          `json:"original_price"`
	FinalPrice     int64          `json:"final_price"`
	DiscountAmount int64          `json:"discount_amount"`
	DiscountSource DiscountSource `json:"discount_source"`
	State          PricingState   `json:"state"`
	Nights         int            `json:"nights"`

	DiscountType       DiscountType `json:"discount_type,omitempty"`
	Discount           float64      `json:"discount"`
	FixedDiscount      float64      `json:"fixed_discount"`
	TotalFixedDiscount int64        `json:"total_fixed_discount"`
	EventName          string       `json:"event_name,omitempty"`
	EventUUID          string       `json:"event_uuid,omitempty"`

	CouponCode          string  `json:"coupon_code,omitempty"`
	CouponUUID          string  `json:"coupon_uuid,omitempty"`
	CouponDiscount      float64 `json:"coupon_discount"`
	CouponFixedDiscount float64 `json:"coupon_fixed_discount"`

	ShowOriginalPrice bool   `json:"show_original_price"`
	Warning           string `json:"warning,omitempty"`
}

// ReservationPayload is the reservation body posted to the backend.
type ReservationPayload struct {
	HotelID    string `json:"hotelId"`
	CustomerID string `json:"customerId"`
	RoomType   string `json:"roomType"`
	CheckIn    Date   `json:"checkIn"`
	CheckOut   Date   `json:"checkOut"`

	Price               int64        `json:"price"`
	OriginalPrice       int64        `json:"originalPrice"`
	Discount            float64      `json:"discount"`
	FixedDiscount       float64      `json:"fixedDiscount"`
	DiscountType        DiscountType `json:"discountType,omitempty"`
	EventName           string       `json:"eventName,omitempty"`
	EventUUID           string       `json:"eventUuid,omitempty"`
	CouponCode          string       `json:"couponCode,omitempty"`
	CouponUUID          string       `json:"couponUuid,omitempty"`
	CouponDiscount      float64      `json:"couponDiscount"`
	CouponFixedDiscount float64      `json:"couponFixedDiscount"`
}

// NewReservationPayload builds the backend payload from a pricing decision.
func NewReservationPayload(hotelID, customerID, roomType string, stay Stay, p PricingResult) ReservationPayload {
	return ReservationPayload{
		HotelID:             hotelID,
		CustomerID:          customerID,
		RoomType:            roomType,
		CheckIn:             stay.CheckIn,
		CheckOut:            stay.CheckOut,
		Price:               p.FinalPrice,
		OriginalPrice:       p.OriginalPrice,
		Discount:            p.Discount,
		FixedDiscount:       p.FixedDiscount,
		DiscountType:        p.DiscountType,
		EventName:           p.EventName,
		EventUUID:           p.EventUUID,
		CouponCode:          p.CouponCode,
		CouponUUID:          p.CouponUUID,
		CouponDiscount:      p.CouponDiscount,
		CouponFixedDiscount: p.CouponFixedDiscount,
	}
}

// ReservationCreated is the backend response to a reservation create.
type ReservationCreated struct {
	ReservationID string `json:"reservationId"`
}
