package services

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/tripbound/travel-booking-backend/internal/apperrors"
	"github.com/tripbound/travel-booking-backend/internal/cache"
	"github.com/tripbound/travel-booking-backend/internal/database"
	"github.com/tripbound/travel-booking-backend/internal/metrics"
	"github.com/tripbound/travel-booking-backend/internal/models"
)

// HotelStore is the catalog access the hotel service needs
type HotelStore interface {
	FindByID(id string) (*models.Hotel, error)
	GetRoom(hotelID, roomID string) (*models.Room, error)
	RoomRatesForStay(roomID string, checkIn, checkOut time.Time) ([]models.RoomRate, error)
	Search(filters models.HotelSearchFilters, p models.PaginationParams) ([]models.Hotel, int, error)
}

// HotelBookingStore is the reservation access the hotel service needs
type HotelBookingStore interface {
	CreateHotelBooking(booking *models.HotelBooking) error
}

// HotelService implements hotel search, availability checks and booking
type HotelService struct {
	hotels   HotelStore
	bookings HotelBookingStore
	cache    *cache.SearchCache
}

// NewHotelService creates a new HotelService
func NewHotelService(hotels HotelStore, bookings HotelBookingStore, searchCache *cache.SearchCache) *HotelService {
	return &HotelService{hotels: hotels, bookings: bookings, cache: searchCache}
}

// HotelSearchPage is a page of annotated hotel search results
type HotelSearchPage struct {
	Results    []models.HotelSearchResult `json:"results"`
	Pagination models.Pagination          `json:"pagination"`
}

// Search runs a paginated hotel search and annotates every hit with
// per-room stay pricing and the cheapest nightly rate. Responses are
// served from the cache when available; cached capacity is advisory
// only since bookings re-verify inside their own transaction.
func (s *HotelService) Search(ctx context.Context, filters models.HotelSearchFilters, p models.PaginationParams) (*HotelSearchPage, error) {
	metrics.SearchesTotal.WithLabelValues("hotel").Inc()

	key := cache.Key("search:hotels", filters, p)
	page := &HotelSearchPage{}
	if s.cache.Get(ctx, key, page) {
		return page, nil
	}

	hotels, total, err := s.hotels.Search(filters, p)
	if err != nil {
		return nil, err
	}

	nights := database.NightsBetween(filters.CheckInDate, filters.CheckOutDate)
	results := make([]models.HotelSearchResult, 0, len(hotels))
	for _, hotel := range hotels {
		result := models.HotelSearchResult{Hotel: hotel}
		result.Hotel.Rooms = nil

		for _, room := range hotel.Rooms {
			if filters.Guests > 0 && room.MaxGuests < filters.Guests {
				continue
			}
			quote, ok := quoteStay(room.Rates, filters.CheckInDate, filters.CheckOutDate, nights)
			if !ok {
				continue
			}
			room.Rates = nil
			result.Rooms = append(result.Rooms, models.RoomAvailability{
				Room:         room,
				RatePerNight: quote.TotalPrice / float64(quote.Nights),
				TotalPrice:   quote.TotalPrice,
				Available:    true,
			})
		}

		for _, ra := range result.Rooms {
			if ra.RatePerNight <= 0 {
				continue
			}
			if result.LowestPrice == nil || ra.RatePerNight < *result.LowestPrice {
				rate := ra.RatePerNight
				result.LowestPrice = &rate
			}
		}

		results = append(results, result)
	}

	sortHotelResults(results, filters.SortBy, filters.SortOrder)

	page = &HotelSearchPage{
		Results:    results,
		Pagination: models.NewPagination(total, p),
	}
	s.cache.Set(ctx, key, page)

	return page, nil
}

// quoteStay prices a stay from bookable rates. ok is false when the
// rate calendar does not cover every night of the window.
func quoteStay(rates []models.RoomRate, checkIn, checkOut time.Time, nights int) (models.RoomStayQuote, bool) {
	if nights <= 0 {
		return models.RoomStayQuote{}, false
	}

	var total float64
	covered := 0
	for _, rate := range rates {
		if rate.Date.Before(checkIn) || !rate.Date.Before(checkOut) {
			continue
		}
		if rate.Available < 1 {
			return models.RoomStayQuote{}, false
		}
		total += rate.Price
		covered++
	}
	if covered < nights {
		return models.RoomStayQuote{}, false
	}

	return models.RoomStayQuote{Available: true, TotalPrice: total, Nights: nights}, true
}

// sortHotelResults reorders the annotated page by lowest price; hits
// without a price sort last
func sortHotelResults(results []models.HotelSearchResult, sortBy, sortOrder string) {
	if sortBy != "price" {
		return
	}
	sort.SliceStable(results, func(i, j int) bool {
		a, b := results[i].LowestPrice, results[j].LowestPrice
		if a == nil {
			return false
		}
		if b == nil {
			return true
		}
		if sortOrder == models.SortDesc {
			return *a > *b
		}
		return *a < *b
	})
}

// GetHotel retrieves an active hotel with its rooms and rates
func (s *HotelService) GetHotel(id string) (*models.Hotel, error) {
	hotel, err := s.hotels.FindByID(id)
	if err != nil {
		return nil, err
	}
	if hotel == nil {
		return nil, apperrors.NotFound("Hotel", id)
	}
	return hotel, nil
}

// CheckRoomAvailability verifies a room can host the stay and quotes
// its total price. The answer is advisory: the booking transaction
// re-verifies against locked rows.
func (s *HotelService) CheckRoomAvailability(hotelID, roomID string, checkIn, checkOut time.Time, guests int) (*models.RoomStayQuote, error) {
	if !checkOut.After(checkIn) {
		return nil, apperrors.BadRequest("Check-out date must be after check-in date")
	}

	room, err := s.hotels.GetRoom(hotelID, roomID)
	if err != nil {
		return nil, err
	}
	if room == nil {
		return nil, apperrors.NotFound("Room", roomID)
	}
	if guests > room.MaxGuests {
		return nil, apperrors.BadRequest(fmt.Sprintf("Room maximum capacity is %d guests", room.MaxGuests))
	}

	rates, err := s.hotels.RoomRatesForStay(roomID, checkIn, checkOut)
	if err != nil {
		return nil, err
	}

	nights := database.NightsBetween(checkIn, checkOut)
	if len(rates) < nights {
		return nil, apperrors.BadRequest("Room rates not available for the selected dates")
	}

	var total float64
	for _, rate := range rates {
		if rate.Available < 1 {
			return nil, apperrors.Conflict("Room not available for selected dates")
		}
		total += rate.Price
	}

	return &models.RoomStayQuote{Available: true, TotalPrice: total, Nights: nights}, nil
}

// CreateBooking validates the stay and reserves the room for every
// night in one transaction
func (s *HotelService) CreateBooking(user models.Principal, req models.CreateHotelBookingRequest, checkIn, checkOut time.Time) (*models.HotelBooking, error) {
	hotel, err := s.hotels.FindByID(req.HotelID)
	if err != nil {
		return nil, err
	}
	if hotel == nil {
		return nil, apperrors.NotFound("Hotel", req.HotelID)
	}

	room, err := s.hotels.GetRoom(req.HotelID, req.RoomID)
	if err != nil {
		return nil, err
	}
	if room == nil {
		return nil, apperrors.NotFound("Room", req.RoomID)
	}

	if !checkOut.After(checkIn) {
		return nil, apperrors.BadRequest("Check-out date must be after check-in date")
	}
	if req.Guests > room.MaxGuests {
		return nil, apperrors.BadRequest(fmt.Sprintf("Room maximum capacity is %d guests", room.MaxGuests))
	}

	booking := &models.HotelBooking{
		UserID:          user.ID,
		HotelID:         hotel.ID,
		RoomID:          room.ID,
		CheckInDate:     checkIn,
		CheckOutDate:    checkOut,
		Guests:          req.Guests,
		GuestDetails:    req.GuestDetails,
		SpecialRequests: req.SpecialRequests,
	}

	if err := s.bookings.CreateHotelBooking(booking); err != nil {
		switch err {
		case database.ErrRateCalendarGap:
			return nil, apperrors.BadRequest("Room rates not available for the selected dates")
		case database.ErrNightUnavailable:
			metrics.BookingConflictsTotal.WithLabelValues("hotel").Inc()
			return nil, apperrors.Conflict("Room not available for selected dates")
		}
		return nil, err
	}

	metrics.BookingsCreatedTotal.WithLabelValues("hotel").Inc()
	logrus.WithFields(logrus.Fields{
		"booking_id": booking.ID,
		"user_id":    user.ID,
		"hotel_id":   hotel.ID,
		"room_id":    room.ID,
		"nights":     database.NightsBetween(checkIn, checkOut),
	}).Info("Hotel booking created")

	return booking, nil
}
