package repository

import "errors"

var (
	// ErrNotFound is returned when a requested entity does not exist.
	ErrNotFound = errors.New("entity not found")

	// ErrNoCapacity is returned when a conditional spot decrement finds no
	// available spots to reserve.
	ErrNoCapacity = errors.New("no available spots")

	// ErrDuplicate is returned when an insert violates a uniqueness
	// constraint (referral code, redemption per booking).
	ErrDuplicate = errors.New("duplicate entity")
)
