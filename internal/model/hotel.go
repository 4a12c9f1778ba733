package model

// MinNights is the canonical floor applied to every stay length.
// Same-day stays are priced as one night.
const MinNights = 1

// MaxNights is the longest stay that can be priced or booked.
const MaxNights = 365

// RoomOffer is a priced room type snapshot for one search.
type RoomOffer struct {
	HotelID          string `json:"hotel_id"`
	RoomType         string `json:"room_type"`
	RoomName         string `json:"room_name,omitempty"`
	NightlyBasePrice int64  `json:"nightly_base_price"`
	AvailableUnits   int    `json:"available_units"`
}

// Stay is the requested check-in/check-out interval.
type Stay struct {
	CheckIn  Date `json:"check_in"`
	CheckOut Date `json:"check_out"`
}

// Nights returns the number of nights between check-in and check-out, floored at MinNights.
func (s Stay) Nights() int {
	n := s.CheckIn.DaysUntil(s.CheckOut)
	if n < MinNights {
		return MinNights
	}
	return n
}

// TooLong reports whether the stay runs past MaxNights.
func (s Stay) TooLong() bool {
	return s.CheckIn.DaysUntil(s.CheckOut) > MaxNights
}

// Valid reports whether both dates are set and check-out is not before check-in.
func (s Stay) Valid() bool {
	return !s.CheckIn.IsZero() && !s.CheckOut.IsZero() && !s.CheckOut.Before(s.CheckIn)
}

// PromotionEvent is a hotel-defined, date-bounded discount applied automatically.
type PromotionEvent struct {
	UUID                string       `json:"uuid"`
	Name                string       `json:"name"`
	DiscountType        DiscountType `json:"discountType"`
	DiscountValue       float64      `json:"discountValue"`
	ApplicableRoomTypes []string     `json:"applicableRoomTypes"`
	StartDate           Date         `json:"startDate"`
	EndDate             Date         `json:"endDate"`
	IsActive            bool         `json:"isActive"`
}

// RoomTypeInfo describes a room type configured by the hotel.
type RoomTypeInfo struct {
	RoomType string `json:"roomType"`
	Name     string `json:"name"`
}

// HotelSettings is the hotel-settings payload fetched from the backend.
type HotelSettings struct {
	RoomTypes    []RoomTypeInfo   `json:"roomTypes"`
	Events       []PromotionEvent `json:"events"`
	Coupons      []Coupon         `json:"coupons"`
	CheckInTime  string           `json:"checkInTime"`
	CheckOutTime string           `json:"checkOutTime"`
}

// RoomAvailability is one entry of the backend availability response.
type RoomAvailability struct {
	RoomInfo       RoomTypeInfo `json:"roomInfo"`
	Price          int64        `json:"price"`
	AvailableRooms int          `json:"availableRooms"`
}

// Offer converts an availability entry into a RoomOffer for hotelID.
func (a RoomAvailability) Offer(hotelID string) RoomOffer {
	return RoomOffer{
		HotelID:          hotelID,
		RoomType:         a.RoomInfo.RoomType,
		RoomName:         a.RoomInfo.Name,
		NightlyBasePrice: a.Price,
		AvailableUnits:   a.AvailableRooms,
	}
}
