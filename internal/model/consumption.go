package model

import "time"

// ConsumptionStatus tracks a coupon use request sent to the backend.
type ConsumptionStatus string

const (
	ConsumptionPending ConsumptionStatus = "pending"
	ConsumptionSent    ConsumptionStatus = "sent"
	ConsumptionFailed  ConsumptionStatus = "failed"
)

// Consumption is one ledger row: a coupon spent on a reservation.
type Consumption struct {
	ID            string            `json:"id"`
	CouponID      string            `json:"coupon_id"`
	CustomerID    string            `json:"customer_id"`
	HotelID       string            `json:"hotel_id"`
	ReservationID string            `json:"reservation_id"`
	Source        CouponSource      `json:"source"`
	Status        ConsumptionStatus `json:"status"`
	LastError     string            `json:"last_error,omitempty"`
	CreatedAt     time.Time         `json:"created_at"`
	UpdatedAt     time.Time         `json:"updated_at"`
}

// Request returns the backend use request for this consumption.
func (c Consumption) Request() ConsumeCouponRequest {
	return ConsumeCouponRequest{
		HotelID:       c.HotelID,
		CouponUUID:    c.CouponID,
		ReservationID: c.ReservationID,
		CustomerID:    c.CustomerID,
	}
}
