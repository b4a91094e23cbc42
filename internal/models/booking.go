package models

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// BookingStatus represents the lifecycle status of a booking.
// Transitions are one-directional: PENDING/CONFIRMED -> CANCELLED,
// and CANCELLED is terminal.
type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "PENDING"
	BookingStatusConfirmed BookingStatus = "CONFIRMED"
	BookingStatusCancelled BookingStatus = "CANCELLED"
)

// PaymentStatus represents the payment status of a booking
type PaymentStatus string

const (
	PaymentStatusPending  PaymentStatus = "PENDING"
	PaymentStatusPaid     PaymentStatus = "PAID"
	PaymentStatusRefunded PaymentStatus = "REFUNDED"
	PaymentStatusFailed   PaymentStatus = "FAILED"
)

// HotelBooking is a reservation of one room across a stay window.
// TotalPrice is a creation-time snapshot and never recomputed.
type HotelBooking struct {
	ID              uuid.UUID     `json:"id" db:"id"`
	Type            BookingType   `json:"type" db:"-"`
	UserID          uuid.UUID     `json:"userId" db:"user_id"`
	HotelID         uuid.UUID     `json:"hotelId" db:"hotel_id"`
	RoomID          uuid.UUID     `json:"roomId" db:"room_id"`
	CheckInDate     time.Time     `json:"checkInDate" db:"check_in_date"`
	CheckOutDate    time.Time     `json:"checkOutDate" db:"check_out_date"`
	Guests          int           `json:"guests" db:"guests"`
	GuestDetails    JSONMap       `json:"guestDetails,omitempty" db:"guest_details"`
	TotalPrice      float64       `json:"totalPrice" db:"total_price"`
	SpecialRequests *string       `json:"specialRequests,omitempty" db:"special_requests"`
	Status          BookingStatus `json:"status" db:"status"`
	PaymentStatus   PaymentStatus `json:"paymentStatus" db:"payment_status"`
	CreatedAt       time.Time     `json:"createdAt" db:"created_at"`
	UpdatedAt       time.Time     `json:"updatedAt" db:"updated_at"`
}

// FlightBooking is a reservation of passenger seats in one fare class
type FlightBooking struct {
	ID               uuid.UUID     `json:"id" db:"id"`
	Type             BookingType   `json:"type" db:"-"`
	UserID           uuid.UUID     `json:"userId" db:"user_id"`
	FlightID         uuid.UUID     `json:"flightId" db:"flight_id"`
	FareClass        FareClass     `json:"fareClass" db:"fare_class"`
	Passengers       int           `json:"passengers" db:"passengers"`
	PassengerDetails JSONMap       `json:"passengerDetails,omitempty" db:"passenger_details"`
	TotalPrice       float64       `json:"totalPrice" db:"total_price"`
	Status           BookingStatus `json:"status" db:"status"`
	PaymentStatus    PaymentStatus `json:"paymentStatus" db:"payment_status"`
	CreatedAt        time.Time     `json:"createdAt" db:"created_at"`
	UpdatedAt        time.Time     `json:"updatedAt" db:"updated_at"`
}

// TrainBooking is a reservation of passenger seats in one travel class.
// PNRNumber is assigned post-creation; train bookings are confirmed
// immediately after assignment.
type TrainBooking struct {
	ID               uuid.UUID      `json:"id" db:"id"`
	Type             BookingType    `json:"type" db:"-"`
	UserID           uuid.UUID      `json:"userId" db:"user_id"`
	TrainID          uuid.UUID      `json:"trainId" db:"train_id"`
	ClassType        TrainClassType `json:"classType" db:"class_type"`
	Passengers       int            `json:"passengers" db:"passengers"`
	PassengerDetails JSONMap        `json:"passengerDetails,omitempty" db:"passenger_details"`
	PNRNumber        *string        `json:"pnrNumber,omitempty" db:"pnr_number"`
	TotalPrice       float64        `json:"totalPrice" db:"total_price"`
	Status           BookingStatus  `json:"status" db:"status"`
	PaymentStatus    PaymentStatus  `json:"paymentStatus" db:"payment_status"`
	CreatedAt        time.Time      `json:"createdAt" db:"created_at"`
	UpdatedAt        time.Time      `json:"updatedAt" db:"updated_at"`
}

// AnyBooking is the tagged union over the three booking tables. Exactly
// one variant pointer is set, matching Type.
type AnyBooking struct {
	Type   BookingType
	Hotel  *HotelBooking
	Flight *FlightBooking
	Train  *TrainBooking
}

// ID returns the booking id of the set variant
func (b AnyBooking) ID() uuid.UUID {
	switch b.Type {
	case BookingTypeHotel:
		return b.Hotel.ID
	case BookingTypeFlight:
		return b.Flight.ID
	case BookingTypeTrain:
		return b.Train.ID
	}
	return uuid.Nil
}

// UserID returns the owning user of the set variant
func (b AnyBooking) UserID() uuid.UUID {
	switch b.Type {
	case BookingTypeHotel:
		return b.Hotel.UserID
	case BookingTypeFlight:
		return b.Flight.UserID
	case BookingTypeTrain:
		return b.Train.UserID
	}
	return uuid.Nil
}

// Status returns the lifecycle status of the set variant
func (b AnyBooking) Status() BookingStatus {
	switch b.Type {
	case BookingTypeHotel:
		return b.Hotel.Status
	case BookingTypeFlight:
		return b.Flight.Status
	case BookingTypeTrain:
		return b.Train.Status
	}
	return ""
}

// TotalPrice returns the price snapshot of the set variant
func (b AnyBooking) TotalPrice() float64 {
	switch b.Type {
	case BookingTypeHotel:
		return b.Hotel.TotalPrice
	case BookingTypeFlight:
		return b.Flight.TotalPrice
	case BookingTypeTrain:
		return b.Train.TotalPrice
	}
	return 0
}

// CreatedAt returns the creation timestamp of the set variant
func (b AnyBooking) CreatedAt() time.Time {
	switch b.Type {
	case BookingTypeHotel:
		return b.Hotel.CreatedAt
	case BookingTypeFlight:
		return b.Flight.CreatedAt
	case BookingTypeTrain:
		return b.Train.CreatedAt
	}
	return time.Time{}
}

// MarshalJSON renders the set variant directly; the variant structs
// carry their own type tag.
func (b AnyBooking) MarshalJSON() ([]byte, error) {
	switch b.Type {
	case BookingTypeHotel:
		return json.Marshal(b.Hotel)
	case BookingTypeFlight:
		return json.Marshal(b.Flight)
	case BookingTypeTrain:
		return json.Marshal(b.Train)
	}
	return nil, fmt.Errorf("unknown booking type %q", b.Type)
}

// BookingStatsEntry holds count and spend for one product type
type BookingStatsEntry struct {
	Count int     `json:"count"`
	Spent float64 `json:"spent"`
}

// BookingStats aggregates a user's spend across product types.
// Spend excludes cancelled bookings.
type BookingStats struct {
	Total   BookingStatsEntry `json:"total"`
	Hotels  BookingStatsEntry `json:"hotels"`
	Flights BookingStatsEntry `json:"flights"`
	Trains  BookingStatsEntry `json:"trains"`
}
