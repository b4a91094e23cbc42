package models

import (
	"time"

	"github.com/google/uuid"
)

// TrainClassType enumerates train travel classes
type TrainClassType string

const (
	TrainClassSleeper TrainClassType = "SL"
	TrainClassAC3     TrainClassType = "AC3"
	TrainClassAC2     TrainClassType = "AC2"
	TrainClassAC1     TrainClassType = "AC1"
	TrainClassChair   TrainClassType = "CC"
	TrainClassExec    TrainClassType = "EC"
	TrainClassGeneral TrainClassType = "GENERAL"
)

// Valid reports whether the value is a known train class type
func (t TrainClassType) Valid() bool {
	switch t {
	case TrainClassSleeper, TrainClassAC3, TrainClassAC2, TrainClassAC1,
		TrainClassChair, TrainClassExec, TrainClassGeneral:
		return true
	}
	return false
}

// Train is a bookable train offering running on fixed days of the week.
// DaysOfWeek uses 0=Sunday through 6=Saturday.
type Train struct {
	ID            uuid.UUID `json:"id" db:"id"`
	TrainNumber   string    `json:"trainNumber" db:"train_number"`
	TrainName     string    `json:"trainName" db:"train_name"`
	FromCity      string    `json:"fromCity" db:"from_city"`
	ToCity        string    `json:"toCity" db:"to_city"`
	DepartureTime time.Time `json:"departureTime" db:"departure_time"`
	ArrivalTime   time.Time `json:"arrivalTime" db:"arrival_time"`
	DaysOfWeek    IntArray  `json:"daysOfWeek" db:"days_of_week"`
	IsActive      bool      `json:"isActive" db:"is_active"`
	CreatedAt     time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt     time.Time `json:"updatedAt" db:"updated_at"`

	Classes []TrainClass `json:"classes,omitempty" db:"-"`
}

// TrainClass is the current price/capacity snapshot for one travel class
type TrainClass struct {
	ID             uuid.UUID      `json:"id" db:"id"`
	TrainID        uuid.UUID      `json:"trainId" db:"train_id"`
	ClassType      TrainClassType `json:"classType" db:"class_type"`
	Price          float64        `json:"price" db:"price"`
	SeatsAvailable int            `json:"seatsAvailable" db:"seats_available"`
	IsActive       bool           `json:"isActive" db:"is_active"`
	CreatedAt      time.Time      `json:"createdAt" db:"created_at"`
	UpdatedAt      time.Time      `json:"updatedAt" db:"updated_at"`
}

// TrainSearchFilters narrow the train catalog. The departure date is
// resolved to a day-of-week against the train's running days.
type TrainSearchFilters struct {
	FromCity      string
	ToCity        string
	DepartureDate time.Time
	ClassType     *TrainClassType
	SortBy        string
	SortOrder     string
}

// TrainSearchResult is one search hit with its cheapest class annotated
type TrainSearchResult struct {
	Train            Train        `json:"train"`
	AvailableClasses []TrainClass `json:"availableClasses"`
	LowestPrice      float64      `json:"lowestPrice"`
}

// CreateTrainBookingRequest is the booking payload for trains
type CreateTrainBookingRequest struct {
	TrainID          string  `json:"trainId" binding:"required,uuid"`
	ClassType        string  `json:"classType" binding:"required,trainclass"`
	Passengers       int     `json:"passengers" binding:"required,min=1,max=10"`
	PassengerDetails JSONMap `json:"passengerDetails,omitempty"`
}
