package models

import (
	"time"

	"github.com/google/uuid"
)

// FareClass enumerates flight cabin classes
type FareClass string

const (
	FareClassEconomy        FareClass = "ECONOMY"
	FareClassPremiumEconomy FareClass = "PREMIUM_ECONOMY"
	FareClassBusiness       FareClass = "BUSINESS"
	FareClassFirstClass     FareClass = "FIRST_CLASS"
)

// Valid reports whether the value is a known fare class
func (f FareClass) Valid() bool {
	switch f {
	case FareClassEconomy, FareClassPremiumEconomy, FareClassBusiness, FareClassFirstClass:
		return true
	}
	return false
}

// Flight is a bookable flight offering with per-class fares
type Flight struct {
	ID            uuid.UUID `json:"id" db:"id"`
	FlightNumber  string    `json:"flightNumber" db:"flight_number"`
	Airline       string    `json:"airline" db:"airline"`
	FromCity      string    `json:"fromCity" db:"from_city"`
	ToCity        string    `json:"toCity" db:"to_city"`
	DepartureTime time.Time `json:"departureTime" db:"departure_time"`
	ArrivalTime   time.Time `json:"arrivalTime" db:"arrival_time"`
	Stops         int       `json:"stops" db:"stops"`
	Aircraft      *string   `json:"aircraft,omitempty" db:"aircraft"`
	IsActive      bool      `json:"isActive" db:"is_active"`
	CreatedAt     time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt     time.Time `json:"updatedAt" db:"updated_at"`

	Fares []FlightFare `json:"fares,omitempty" db:"-"`
}

// FlightFare is the current price/capacity snapshot for one cabin class
type FlightFare struct {
	ID             uuid.UUID `json:"id" db:"id"`
	FlightID       uuid.UUID `json:"flightId" db:"flight_id"`
	FareClass      FareClass `json:"fareClass" db:"fare_class"`
	Price          float64   `json:"price" db:"price"`
	SeatsAvailable int       `json:"seatsAvailable" db:"seats_available"`
	IsActive       bool      `json:"isActive" db:"is_active"`
	CreatedAt      time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt      time.Time `json:"updatedAt" db:"updated_at"`
}

// FlightSearchFilters narrow the flight catalog
type FlightSearchFilters struct {
	FromCity      string
	ToCity        string
	DepartureDate time.Time
	FareClass     *FareClass
	Airline       *string
	MaxPrice      *float64
	MaxStops      *int
	SortBy        string
	SortOrder     string
}

// FlightSearchResult is one search hit with its cheapest fare annotated
type FlightSearchResult struct {
	Flight         Flight       `json:"flight"`
	AvailableFares []FlightFare `json:"availableFares"`
	LowestPrice    float64      `json:"lowestPrice"`
}

// SeatQuote is the verifier's answer for a single fare/class snapshot
type SeatQuote struct {
	Available      bool    `json:"available"`
	PricePerPerson float64 `json:"pricePerPerson"`
	TotalPrice     float64 `json:"totalPrice"`
}

// CreateFlightBookingRequest is the booking payload for flights
type CreateFlightBookingRequest struct {
	FlightID         string  `json:"flightId" binding:"required,uuid"`
	FareClass        string  `json:"fareClass" binding:"required,fareclass"`
	Passengers       int     `json:"passengers" binding:"required,min=1,max=10"`
	PassengerDetails JSONMap `json:"passengerDetails,omitempty"`
}
