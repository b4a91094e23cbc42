package models

import (
	"time"

	"github.com/google/uuid"
)

// Hotel is a bookable property with one-to-many rooms
type Hotel struct {
	ID          uuid.UUID   `json:"id" db:"id"`
	Name        string      `json:"name" db:"name"`
	Description *string     `json:"description,omitempty" db:"description"`
	City        string      `json:"city" db:"city"`
	Address     string      `json:"address" db:"address"`
	StarRating  int         `json:"starRating" db:"star_rating"`
	Amenities   StringArray `json:"amenities" db:"amenities"`
	Images      StringArray `json:"images" db:"images"`
	IsActive    bool        `json:"isActive" db:"is_active"`
	CreatedAt   time.Time   `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time   `json:"updatedAt" db:"updated_at"`

	Rooms []Room `json:"rooms,omitempty" db:"-"`
}

// Room is a priced, capacity-bounded sub-resource of a hotel
type Room struct {
	ID          uuid.UUID `json:"id" db:"id"`
	HotelID     uuid.UUID `json:"hotelId" db:"hotel_id"`
	RoomType    string    `json:"roomType" db:"room_type"`
	Description *string   `json:"description,omitempty" db:"description"`
	MaxGuests   int       `json:"maxGuests" db:"max_guests"`
	IsActive    bool      `json:"isActive" db:"is_active"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time `json:"updatedAt" db:"updated_at"`

	Rates []RoomRate `json:"rates,omitempty" db:"-"`
}

// RoomRate is a per-night price and availability record for a room.
// Available is the room-count capacity counter for that night.
type RoomRate struct {
	ID        uuid.UUID `json:"id" db:"id"`
	RoomID    uuid.UUID `json:"roomId" db:"room_id"`
	Date      time.Time `json:"date" db:"date"`
	Price     float64   `json:"price" db:"price"`
	Available int       `json:"available" db:"available"`
	IsActive  bool      `json:"isActive" db:"is_active"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}

// HotelSearchFilters narrow the hotel catalog
type HotelSearchFilters struct {
	City         string
	CheckInDate  time.Time
	CheckOutDate time.Time
	Guests       int
	MinPrice     *float64
	MaxPrice     *float64
	StarRating   *int
	Amenities    []string
	SortBy       string
	SortOrder    string
}

// RoomAvailability annotates a room with its stay pricing
type RoomAvailability struct {
	Room         Room    `json:"room"`
	RatePerNight float64 `json:"ratePerNight"`
	TotalPrice   float64 `json:"totalPrice"`
	Available    bool    `json:"available"`
}

// HotelSearchResult is one search hit. LowestPrice is nil when no
// qualifying rate exists (hotels surface null, flights/trains surface 0).
type HotelSearchResult struct {
	Hotel       Hotel              `json:"hotel"`
	Rooms       []RoomAvailability `json:"rooms"`
	LowestPrice *float64           `json:"lowestPrice"`
}

// RoomStayQuote is the verifier's answer for a hotel stay
type RoomStayQuote struct {
	Available  bool    `json:"available"`
	TotalPrice float64 `json:"totalPrice"`
	Nights     int     `json:"nights"`
}

// CreateHotelBookingRequest is the booking payload for hotels.
// Dates arrive as strings and are parsed by the handler.
type CreateHotelBookingRequest struct {
	HotelID         string  `json:"hotelId" binding:"required,uuid"`
	RoomID          string  `json:"roomId" binding:"required,uuid"`
	CheckInDate     string  `json:"checkInDate" binding:"required"`
	CheckOutDate    string  `json:"checkOutDate" binding:"required"`
	Guests          int     `json:"guests" binding:"required,min=1,max=20"`
	GuestDetails    JSONMap `json:"guestDetails,omitempty"`
	SpecialRequests *string `json:"specialRequests,omitempty" binding:"omitempty,max=500"`
}
