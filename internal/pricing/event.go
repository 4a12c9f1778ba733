package pricing

import (
	"github.com/fairyhunter13/hotel-pricing-engine/internal/model"
)

// EventMatch is the outcome of event resolution for one room and stay.
// Discount and FixedDiscount are the per-type maxima seen; DiscountType, EventName and
// EventUUID belong to the event standing in the selected slot after the scan.
type EventMatch struct {
	Discount           float64
	FixedDiscount      float64
	DiscountType       model.DiscountType
	EventName          string
	EventUUID          string
	TotalFixedDiscount int64
	OverlapNights      int
}

// Active reports whether an event discount applies.
func (m EventMatch) Active() bool {
	return m.Discount > 0 || m.FixedDiscount > 0
}

// ResolveEvent finds the promotional event that applies to roomType for stay.
//
// Events are scanned in order. An event replaces the selected one when its value exceeds the
// highest value seen so far for its own discount type; percentage and fixed events are never
// compared by monetary effect. A later fixed event can therefore displace an earlier, larger
// percentage event.
//
// TotalFixedDiscount prorates the winning fixed value by the nights the event actually overlaps
// the stay, not by the full stay length.
func ResolveEvent(roomType string, stay model.Stay, events []model.PromotionEvent) EventMatch {
	key := NormalizeRoomType(roomType)

	var (
		match        EventMatch
		fixedOverlap int
	)
	for _, ev := range events {
		if !ev.IsActive || !eventCoversRoom(ev, key) || !eventOverlapsStay(ev, stay) {
			continue
		}
		nights := OverlapNights(stay, ev.StartDate, ev.EndDate)

		switch ev.DiscountType {
		case model.DiscountPercentage:
			v := ClampPercent(ev.DiscountValue)
			if v > match.Discount {
				match.Discount = v
				match.selectEvent(ev, nights)
			}
		case model.DiscountFixed:
			if ev.DiscountValue > match.FixedDiscount {
				match.FixedDiscount = ev.DiscountValue
				fixedOverlap = nights
				match.selectEvent(ev, nights)
			}
		}
	}

	if match.FixedDiscount > 0 {
		match.TotalFixedDiscount = Fixed(match.FixedDiscount).Amount(0, fixedOverlap).Round(0).IntPart()
	}
	return match
}

func (m *EventMatch) selectEvent(ev model.PromotionEvent, nights int) {
	m.DiscountType = ev.DiscountType
	m.EventName = ev.Name
	m.EventUUID = ev.UUID
	m.OverlapNights = nights
}

// OverlapNights counts the nights of stay that fall inside the event window [start, end].
// The end date is inclusive. Unset bounds are open.
func OverlapNights(stay model.Stay, start, end model.Date) int {
	lo := stay.CheckIn
	hi := lastNightExclusive(stay)
	if !start.IsZero() {
		lo = model.MaxDate(lo, start)
	}
	if !end.IsZero() {
		hi = model.MinDate(hi, end.AddDays(1))
	}
	if n := lo.DaysUntil(hi); n > 0 {
		return n
	}
	return 0
}

func eventCoversRoom(ev model.PromotionEvent, key string) bool {
	for _, rt := range ev.ApplicableRoomTypes {
		if NormalizeRoomType(rt) == key {
			return true
		}
	}
	return false
}

// eventOverlapsStay compares the closed event window with the half-open stay [check-in, check-out).
func eventOverlapsStay(ev model.PromotionEvent, stay model.Stay) bool {
	if !ev.StartDate.IsZero() && !ev.StartDate.Before(lastNightExclusive(stay)) {
		return false
	}
	if !ev.EndDate.IsZero() && ev.EndDate.Before(stay.CheckIn) {
		return false
	}
	return true
}

// lastNightExclusive is check-in plus the floored night count, so a same-day stay
// still occupies one night.
func lastNightExclusive(stay model.Stay) model.Date {
	return stay.CheckIn.AddDays(stay.Nights())
}
