package domain

import "time"

// UserRole represents the role claim on a user record.
type UserRole string

const (
	UserRoleMember UserRole = "MEMBER"
	UserRoleAdmin  UserRole = "ADMIN"
)

// ReferralStats is the per-user referral bookkeeping.
type ReferralStats struct {
	TotalRewards   float64
	TotalReferrals int
	TotalSavings   float64
}

// User represents a customer or space owner in the system.
type User struct {
	ID               string
	Name             string
	Email            string
	Phone            string
	Role             UserRole
	HasBookedParking bool // gates referral code issuance
	ReferralStats    ReferralStats
	CreatedAt        time.Time
}
