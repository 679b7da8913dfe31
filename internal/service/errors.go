package service

import "errors"

var (
	// ErrInvalidUserID is returned when the user ID is empty.
	ErrInvalidUserID = errors.New("invalid user id")

	// ErrInvalidSpaceID is returned when the parking space ID is empty.
	ErrInvalidSpaceID = errors.New("invalid parking space id")

	// ErrInvalidBookingID is returned when the booking ID is empty.
	ErrInvalidBookingID = errors.New("invalid booking id")

	// ErrInvalidPaymentID is returned when the payment ID is empty.
	ErrInvalidPaymentID = errors.New("invalid payment id")

	// ErrMissingVehicleNumber is returned when no vehicle number is supplied.
	ErrMissingVehicleNumber = errors.New("vehicle number is required")

	// ErrInvalidTimeRange is returned when the end time is not after the start time.
	ErrInvalidTimeRange = errors.New("end time must be after start time")

	// ErrPastStartTime is returned when the start time is before the current time.
	ErrPastStartTime = errors.New("start time cannot be in the past")

	// ErrInvalidLocation is returned when coordinates are out of range.
	ErrInvalidLocation = errors.New("invalid location")

	// ErrInvalidCapacity is returned when a space is created with negative capacity.
	ErrInvalidCapacity = errors.New("capacity must not be negative")

	// ErrInvalidPrice is returned when the hourly price is negative.
	ErrInvalidPrice = errors.New("price per hour must not be negative")

	// ErrInvalidStatus is returned when a status transition names an unknown status.
	ErrInvalidStatus = errors.New("invalid booking status")

	// ErrInvalidPaymentMethod is returned when the payment method is unknown.
	ErrInvalidPaymentMethod = errors.New("invalid payment method")

	// ErrInvalidRefundAmount is returned when a refund exceeds the paid amount.
	ErrInvalidRefundAmount = errors.New("refund amount cannot exceed payment amount")

	// ErrNoCapacity is returned when the space has no available spots.
	ErrNoCapacity = errors.New("no available spots")

	// ErrSlotConflict is returned when the requested range overlaps an
	// existing confirmed or active booking on the space.
	ErrSlotConflict = errors.New("parking space is already booked for this time slot")

	// ErrSpaceBusy is returned when another booking attempt holds the
	// space lock; the caller may retry.
	ErrSpaceBusy = errors.New("parking space is busy, retry shortly")

	// ErrBookingNotModifiable is returned when updating a completed or
	// cancelled booking.
	ErrBookingNotModifiable = errors.New("cannot modify completed or cancelled booking")

	// ErrBookingCompleted is returned when cancelling a completed booking.
	ErrBookingCompleted = errors.New("cannot cancel completed booking")

	// ErrBookingAlreadyCancelled is returned when cancelling twice.
	ErrBookingAlreadyCancelled = errors.New("booking is already cancelled")

	// ErrBookingNotCancelled is returned when deleting a booking that is
	// not cancelled.
	ErrBookingNotCancelled = errors.New("only cancelled bookings can be deleted")

	// ErrBookingCancelled is returned when paying for a cancelled booking.
	ErrBookingCancelled = errors.New("cannot process payment for cancelled booking")

	// ErrAlreadyPaid is returned when a paid booking is paid again.
	ErrAlreadyPaid = errors.New("booking is already paid")

	// ErrPaymentNotRefundable is returned when refunding a payment that
	// did not complete.
	ErrPaymentNotRefundable = errors.New("can only refund completed payments")

	// ErrNotEligibleForReferral is returned when a user without a
	// completed booking requests a referral code.
	ErrNotEligibleForReferral = errors.New("at least one parking booking is required to get a referral code")

	// ErrReferralNotFound is returned when no active referral matches the code.
	ErrReferralNotFound = errors.New("invalid referral code")

	// ErrSelfReferral is returned when a user redeems their own code.
	ErrSelfReferral = errors.New("cannot use your own referral code")

	// ErrReferralAlreadyUsed is returned when a user redeems the same code twice.
	ErrReferralAlreadyUsed = errors.New("referral code already used")

	// ErrAdminRequired is returned when a non-admin calls an admin operation.
	ErrAdminRequired = errors.New("admin access required")

	// ErrNotSpaceOwner is returned when a non-owner updates a space.
	ErrNotSpaceOwner = errors.New("not authorized to update this parking space")

	// ErrPaymentDeclined is returned when the payment gateway declines a charge.
	ErrPaymentDeclined = errors.New("payment declined")

	// ErrRefundFailed is returned when the refund gateway rejects a refund.
	ErrRefundFailed = errors.New("refund failed")
)
