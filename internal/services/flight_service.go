package services

import (
	"context"
	"errors"
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

// FlightStore is the catalog access the flight service needs
type FlightStore interface {
	FindByID(id string) (*models.Flight, error)
	GetFare(flightID string, fareClass models.FareClass) (*models.FlightFare, error)
	Search(filters models.FlightSearchFilters, p models.PaginationParams) ([]models.Flight, int, error)
}

// FlightBookingStore is the reservation access the flight service needs
type FlightBookingStore interface {
	CreateFlightBooking(booking *models.FlightBooking) error
}

// FlightService implements flight search, availability checks and booking
type FlightService struct {
	flights  FlightStore
	bookings FlightBookingStore
	cache    *cache.SearchCache
}

// NewFlightService creates a new FlightService
func NewFlightService(flights FlightStore, bookings FlightBookingStore, searchCache *cache.SearchCache) *FlightService {
	return &FlightService{flights: flights, bookings: bookings, cache: searchCache}
}

// FlightSearchPage is a page of annotated flight search results
type FlightSearchPage struct {
	Results    []models.FlightSearchResult `json:"results"`
	Pagination models.Pagination           `json:"pagination"`
}

// Search runs a paginated flight search and annotates every hit with
// its bookable fares and cheapest price. A flight with no bookable
// fares stays in the page with lowestPrice 0.
func (s *FlightService) Search(ctx context.Context, filters models.FlightSearchFilters, p models.PaginationParams) (*FlightSearchPage, error) {
	metrics.SearchesTotal.WithLabelValues("flight").Inc()

	key := cache.Key("search:flights", filters, p)
	page := &FlightSearchPage{}
	if s.cache.Get(ctx, key, page) {
		return page, nil
	}

	flights, total, err := s.flights.Search(filters, p)
	if err != nil {
		return nil, err
	}

	results := make([]models.FlightSearchResult, 0, len(flights))
	for _, flight := range flights {
		fares := flight.Fares
		flight.Fares = nil

		var lowest float64
		for _, fare := range fares {
			if lowest == 0 || fare.Price < lowest {
				lowest = fare.Price
			}
		}

		results = append(results, models.FlightSearchResult{
			Flight:         flight,
			AvailableFares: fares,
			LowestPrice:    lowest,
		})
	}

	if filters.SortBy == "price" {
		sort.SliceStable(results, func(i, j int) bool {
			if filters.SortOrder == models.SortDesc {
				return results[i].LowestPrice > results[j].LowestPrice
			}
			return results[i].LowestPrice < results[j].LowestPrice
		})
	}

	page = &FlightSearchPage{
		Results:    results,
		Pagination: models.NewPagination(total, p),
	}
	s.cache.Set(ctx, key, page)

	return page, nil
}

// GetFlight retrieves an active flight with its fares
func (s *FlightService) GetFlight(id string) (*models.Flight, error) {
	flight, err := s.flights.FindByID(id)
	if err != nil {
		return nil, err
	}
	if flight == nil {
		return nil, apperrors.NotFound("Flight", id)
	}
	return flight, nil
}

// CheckAvailability quotes seats in one fare class. Advisory: the
// booking transaction re-verifies the counter under the conditional
// decrement.
func (s *FlightService) CheckAvailability(flightID string, fareClass models.FareClass, passengers int) (*models.SeatQuote, error) {
	if !fareClass.Valid() {
		return nil, apperrors.BadRequest("Invalid fare class")
	}
	if passengers < 1 {
		return nil, apperrors.BadRequest("Passenger count must be at least 1")
	}

	flight, err := s.flights.FindByID(flightID)
	if err != nil {
		return nil, err
	}
	if flight == nil {
		return nil, apperrors.NotFound("Flight", flightID)
	}

	fare, err := s.flights.GetFare(flightID, fareClass)
	if err != nil {
		return nil, err
	}
	if fare == nil {
		return nil, apperrors.NotFound("Fare class", string(fareClass))
	}

	if fare.SeatsAvailable < passengers {
		return nil, apperrors.Conflict(fmt.Sprintf("Only %d seats available in %s", fare.SeatsAvailable, fareClass))
	}

	return &models.SeatQuote{
		Available:      true,
		PricePerPerson: fare.Price,
		TotalPrice:     fare.Price * float64(passengers),
	}, nil
}

// CreateBooking validates the flight and reserves seats in one
// transaction
func (s *FlightService) CreateBooking(user models.Principal, req models.CreateFlightBookingRequest) (*models.FlightBooking, error) {
	flight, err := s.flights.FindByID(req.FlightID)
	if err != nil {
		return nil, err
	}
	if flight == nil {
		return nil, apperrors.NotFound("Flight", req.FlightID)
	}
	if flight.DepartureTime.Before(time.Now()) {
		return nil, apperrors.BadRequest("Flight has already departed")
	}

	booking := &models.FlightBooking{
		UserID:           user.ID,
		FlightID:         flight.ID,
		FareClass:        models.FareClass(req.FareClass),
		Passengers:       req.Passengers,
		PassengerDetails: req.PassengerDetails,
	}

	if err := s.bookings.CreateFlightBooking(booking); err != nil {
		var capErr *database.CapacityError
		switch {
		case errors.Is(err, database.ErrUnitNotFound):
			return nil, apperrors.NotFound("Fare class", req.FareClass)
		case errors.As(err, &capErr):
			metrics.BookingConflictsTotal.WithLabelValues("flight").Inc()
			return nil, apperrors.Conflict(fmt.Sprintf("Only %d seats available in %s", capErr.Available, capErr.Unit))
		}
		return nil, err
	}

	metrics.BookingsCreatedTotal.WithLabelValues("flight").Inc()
	logrus.WithFields(logrus.Fields{
		"booking_id": booking.ID,
		"user_id":    user.ID,
		"flight_id":  flight.ID,
		"fare_class": booking.FareClass,
		"passengers": booking.Passengers,
	}).Info("Flight booking created")

	return booking, nil
}
