// Package pricing implements the booking pricing engine: duration,
// peak-hour surcharge, referral discount and their composition.
// All functions are pure. Surcharge and discount round half-up to whole
// currency units; composed totals and referrer rewards keep 2 decimal
// places.
package pricing

import (
	"errors"
	"math"
	"time"
)

// ErrInvalidRange is returned when the end time is not after the start time.
var ErrInvalidRange = errors.New("end time must be after start time")

const (
	peakHourStart = 8  // inclusive
	peakHourEnd   = 10 // exclusive

	surchargeRate = 0.10
	discountRate  = 0.05
	rewardRate    = 0.05
)

// Round2 rounds to 2 decimal places, half up.
func Round2(amount float64) float64 {
	return math.Round(amount*100) / 100
}

// Duration returns the billable duration in hours: the ceiling of the
// elapsed time. A 90-minute booking bills 2 hours.
func Duration(start, end time.Time) (int, error) {
	if !end.After(start) {
		return 0, ErrInvalidRange
	}
	return int(math.Ceil(end.Sub(start).Hours())), nil
}

// IsPeakHour reports whether the start time falls in the surcharge window
// [08:00, 10:00) local time.
func IsPeakHour(start time.Time) bool {
	h := start.Hour()
	return h >= peakHourStart && h < peakHourEnd
}

// Surcharge returns the peak-hour surcharge for the base amount, zero
// outside peak hours.
func Surcharge(baseAmount float64, isPeak bool) float64 {
	if !isPeak {
		return 0
	}
	return math.Round(baseAmount * surchargeRate)
}

// SurchargePercentage returns the surcharge rate as a percentage for the
// booking snapshot.
func SurchargePercentage(isPeak bool) float64 {
	if !isPeak {
		return 0
	}
	return surchargeRate * 100
}

// ReferralDiscount returns the discount granted to a referred user.
// The input is the post-surcharge amount: the discount is based on what
// the user would actually pay, so 110 yields 6, not 5.
func ReferralDiscount(amountBeforeDiscount float64) float64 {
	return math.Round(amountBeforeDiscount * discountRate)
}

// ReferrerReward returns the reward credited to the code's owner: 5% of
// the pre-surcharge base amount. Intentionally asymmetric with
// ReferralDiscount, which is based on the surcharged amount.
func ReferrerReward(baseAmount float64) float64 {
	return Round2(baseAmount * rewardRate)
}

// TotalAmount composes the final charge. The discount is computed on the
// post-surcharge amount, never the base alone.
func TotalAmount(durationHours int, pricePerHour float64, isPeak, hasReferral bool) float64 {
	base := float64(durationHours) * pricePerHour
	total := base + Surcharge(base, isPeak)
	if hasReferral {
		total -= ReferralDiscount(total)
	}
	return Round2(total)
}
