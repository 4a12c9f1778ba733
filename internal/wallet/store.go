// Package wallet holds the customers' coupon wallets between authoritative backend fetches.
package wallet

import (
	"errors"
	"sync"

	"github.com/fairyhunter13/hotel-pricing-engine/internal/model"
)

// ErrCouponNotInWallet is returned when marking a coupon the customer does not hold.
var ErrCouponNotInWallet = errors.New("coupon not in wallet")

// Store keeps the last known wallet of each customer.
//
// Replace (authoritative refresh) and MarkUsed (consumption) are the only writers. Everything
// else reads through Snapshot, which returns a copy.
type Store struct {
	mu      sync.RWMutex
	wallets map[string][]model.Coupon
}

// NewStore creates an empty Store.
func NewStore() *Store {
	return &Store{wallets: make(map[string][]model.Coupon)}
}

// Snapshot returns a copy of the customer's wallet and whether one has been loaded.
func (s *Store) Snapshot(customerID string) ([]model.Coupon, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	coupons, ok := s.wallets[customerID]
	if !ok {
		return nil, false
	}
	return clone(coupons), true
}

// Replace stores the wallet fetched from the backend, discarding any optimistic state.
func (s *Store) Replace(customerID string, coupons []model.Coupon) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.wallets[customerID] = clone(coupons)
}

// MarkUsed flips the coupon identified by couponID to used.
// It reports whether the flag changed; marking an already used coupon is a no-op.
func (s *Store) MarkUsed(customerID, couponID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	coupons := s.wallets[customerID]
	for i := range coupons {
		if coupons[i].Key() != couponID {
			continue
		}
		if coupons[i].Used {
			return false, nil
		}
		coupons[i].Used = true
		return true, nil
	}
	return false, ErrCouponNotInWallet
}

func clone(coupons []model.Coupon) []model.Coupon {
	if coupons == nil {
		return []model.Coupon{}
	}
	out := make([]model.Coupon, len(coupons))
	copy(out, coupons)
	return out
}
