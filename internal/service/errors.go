package service

import "errors"

var (
	// ErrInvalidRequest is returned when request data is invalid or incomplete
	ErrInvalidRequest = errors.New("invalid request")

	// ErrRoomNotFound is returned when the requested room type is not offered for the stay
	ErrRoomNotFound = errors.New("room not found")

	// ErrRoomUnavailable is returned when the room type has no units left for the stay
	ErrRoomUnavailable = errors.New("room unavailable")

	// ErrUpstream is returned when the booking backend cannot supply pricing inputs
	ErrUpstream = errors.New("booking backend unavailable")
)

var (
	// ErrCouponAlreadyConsumed is returned when the coupon use was already recorded
	ErrCouponAlreadyConsumed = errors.New("coupon already consumed")

	// ErrConsumptionFailed is returned when the backend did not acknowledge the coupon use.
	// The reservation stands; the wallet keeps its optimistic state until the next refresh.
	ErrConsumptionFailed = errors.New("coupon consumption failed")
)
