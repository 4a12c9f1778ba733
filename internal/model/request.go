package model

// QuoteRequest is the DTO for pricing every available room of a hotel.
type QuoteRequest struct {
	HotelID    string `json:"hotel_id" validate:"required,notblank,max=255"`
	CustomerID string `json:"customer_id" validate:"required,notblank,max=255"`
	CheckIn    string `json:"check_in" validate:"required,isodate"`
	CheckOut   string `json:"check_out" validate:"required,isodate"`
}

// SelectCouponRequest is the DTO for manually applying a coupon to one room.
type SelectCouponRequest struct {
	HotelID    string `json:"hotel_id" validate:"required,notblank,max=255"`
	CustomerID string `json:"customer_id" validate:"required,notblank,max=255"`
	RoomType   string `json:"room_type" validate:"required,notblank,max=255"`
	CheckIn    string `json:"check_in" validate:"required,isodate"`
	CheckOut   string `json:"check_out" validate:"required,isodate"`
	CouponID   string `json:"coupon_id" validate:"required,notblank,max=255"`
}

// ConfirmReservationRequest is the DTO for confirming a reservation.
// CouponID is optional; when empty the default (event or auto coupon) pricing is used.
type ConfirmReservationRequest struct {
	HotelID    string `json:"hotel_id" validate:"required,notblank,max=255"`
	CustomerID string `json:"customer_id" validate:"required,notblank,max=255"`
	RoomType   string `json:"room_type" validate:"required,notblank,max=255"`
	CheckIn    string `json:"check_in" validate:"required,isodate"`
	CheckOut   string `json:"check_out" validate:"required,isodate"`
	CouponID   string `json:"coupon_id" validate:"omitempty,max=255"`
}

// RoomQuote is the priced view of one room offer.
type RoomQuote struct {
	Room    RoomOffer     `json:"room"`
	Pricing PricingResult `json:"pricing"`
	Coupons []CouponView  `json:"coupons"`
}

// QuoteResponse is the API response for a quote.
type QuoteResponse struct {
	HotelID  string      `json:"hotel_id"`
	CheckIn  Date        `json:"check_in"`
	CheckOut Date        `json:"check_out"`
	Nights   int         `json:"nights"`
	Rooms    []RoomQuote `json:"rooms"`
}

// ReservationResponse is the API response for a confirmed reservation.
type ReservationResponse struct {
	ReservationID string        `json:"reservation_id"`
	Pricing       PricingResult `json:"pricing"`
	Warning       string        `json:"warning,omitempty"`
}
