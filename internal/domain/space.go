package domain

import "time"

// ParkingSpace represents a bookable parking location with a fixed capacity.
type ParkingSpace struct {
	ID             string
	Name           string
	Address        string
	Lat            float64
	Lng            float64
	Capacity       int
	AvailableSpots int
	PricePerHour   float64
	IsAvailable    bool // derived: AvailableSpots > 0
	OwnerID        string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
