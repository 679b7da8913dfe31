package domain

import "time"

// ReferredUser is one redemption of a referral code.
type ReferredUser struct {
	UserID         string
	BookingID      string
	DiscountAmount float64
	ReferredAt     time.Time
}

// Referral holds a referrer's unique code and its redemption history.
//
// Invariants: a given user appears at most once in ReferredUsers,
// TotalReferrals == len(ReferredUsers), TotalRewards == sum of the
// referrer rewards credited per redemption.
type Referral struct {
	ID             string
	ReferrerID     string
	ReferralCode   string // stored uppercase, unique
	ReferredUsers  []ReferredUser
	TotalRewards   float64
	TotalReferrals int
	IsActive       bool
	CreatedAt      time.Time
}

// HasReferredUser reports whether the user already redeemed this code.
func (r *Referral) HasReferredUser(userID string) bool {
	for _, ru := range r.ReferredUsers {
		if ru.UserID == userID {
			return true
		}
	}
	return false
}

// HasRedeemedBooking reports whether a redemption was already recorded for
// the booking. Used as the idempotency check for reward application.
func (r *Referral) HasRedeemedBooking(bookingID string) bool {
	for _, ru := range r.ReferredUsers {
		if ru.BookingID == bookingID {
			return true
		}
	}
	return false
}
