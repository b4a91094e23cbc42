package services

import (
	"errors"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/tripbound/travel-booking-backend/internal/apperrors"
	"github.com/tripbound/travel-booking-backend/internal/database"
	"github.com/tripbound/travel-booking-backend/internal/metrics"
	"github.com/tripbound/travel-booking-backend/internal/models"
)

// BookingStore is the query and lifecycle access the booking service needs
type BookingStore interface {
	FindBookingByID(id string) (*models.AnyBooking, error)
	ListHotelBookingsByUser(userID string, p models.PaginationParams) ([]models.HotelBooking, int, error)
	ListFlightBookingsByUser(userID string, p models.PaginationParams) ([]models.FlightBooking, int, error)
	ListTrainBookingsByUser(userID string, p models.PaginationParams) ([]models.TrainBooking, int, error)
	ActiveHotelBookingTotals(userID string, limit int) ([]float64, error)
	ActiveFlightBookingTotals(userID string, limit int) ([]float64, error)
	ActiveTrainBookingTotals(userID string, limit int) ([]float64, error)
	CancelBooking(booking *models.AnyBooking) error
}

// BookingService implements the cross-product booking queries and the
// cancel transition
type BookingService struct {
	bookings      BookingStore
	statsFetchCap int
}

// NewBookingService creates a new BookingService
func NewBookingService(bookings BookingStore, statsFetchCap int) *BookingService {
	if statsFetchCap <= 0 {
		statsFetchCap = 1000
	}
	return &BookingService{bookings: bookings, statsFetchCap: statsFetchCap}
}

// BookingPage is a page of type-tagged bookings
type BookingPage struct {
	Bookings   []models.AnyBooking `json:"bookings"`
	Pagination models.Pagination   `json:"pagination"`
}

// List returns a user's bookings, newest first. With a type filter one
// table is paginated directly. Without one, each table contributes its
// own page and the pages are merged by creation time; the pagination
// total is the sum of the per-type totals, so a merged page can hold up
// to three times the limit.
func (s *BookingService) List(user models.Principal, typeFilter *models.BookingType, p models.PaginationParams) (*BookingPage, error) {
	userID := user.ID.String()
	var merged []models.AnyBooking
	total := 0

	wantType := func(t models.BookingType) bool {
		return typeFilter == nil || *typeFilter == t
	}

	if wantType(models.BookingTypeHotel) {
		hotels, n, err := s.bookings.ListHotelBookingsByUser(userID, p)
		if err != nil {
			return nil, err
		}
		total += n
		for i := range hotels {
			merged = append(merged, models.AnyBooking{Type: models.BookingTypeHotel, Hotel: &hotels[i]})
		}
	}

	if wantType(models.BookingTypeFlight) {
		flights, n, err := s.bookings.ListFlightBookingsByUser(userID, p)
		if err != nil {
			return nil, err
		}
		total += n
		for i := range flights {
			merged = append(merged, models.AnyBooking{Type: models.BookingTypeFlight, Flight: &flights[i]})
		}
	}

	if wantType(models.BookingTypeTrain) {
		trains, n, err := s.bookings.ListTrainBookingsByUser(userID, p)
		if err != nil {
			return nil, err
		}
		total += n
		for i := range trains {
			merged = append(merged, models.AnyBooking{Type: models.BookingTypeTrain, Train: &trains[i]})
		}
	}

	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].CreatedAt().After(merged[j].CreatedAt())
	})

	return &BookingPage{
		Bookings:   merged,
		Pagination: models.NewPagination(total, p),
	}, nil
}

// GetByID resolves an opaque booking id across the three tables.
// Bookings belonging to other users read as not found.
func (s *BookingService) GetByID(user models.Principal, id string) (*models.AnyBooking, error) {
	booking, err := s.bookings.FindBookingByID(id)
	if err != nil {
		return nil, err
	}
	if booking == nil || booking.UserID() != user.ID {
		return nil, apperrors.NotFound("Booking", id)
	}
	return booking, nil
}

// Cancel moves a booking to CANCELLED, marks the payment refunded and
// releases its capacity. Cancelling twice is rejected: the early check
// covers the common case, and the store's guarded transition catches
// the race where two cancels both read a live status.
func (s *BookingService) Cancel(user models.Principal, id string) (*models.AnyBooking, error) {
	booking, err := s.GetByID(user, id)
	if err != nil {
		return nil, err
	}
	if booking.Status() == models.BookingStatusCancelled {
		return nil, apperrors.BadRequest("Booking is already cancelled")
	}

	if err := s.bookings.CancelBooking(booking); err != nil {
		if errors.Is(err, database.ErrAlreadyCancelled) {
			return nil, apperrors.BadRequest("Booking is already cancelled")
		}
		return nil, err
	}

	switch booking.Type {
	case models.BookingTypeHotel:
		booking.Hotel.Status = models.BookingStatusCancelled
		booking.Hotel.PaymentStatus = models.PaymentStatusRefunded
	case models.BookingTypeFlight:
		booking.Flight.Status = models.BookingStatusCancelled
		booking.Flight.PaymentStatus = models.PaymentStatusRefunded
	case models.BookingTypeTrain:
		booking.Train.Status = models.BookingStatusCancelled
		booking.Train.PaymentStatus = models.PaymentStatusRefunded
	}

	metrics.BookingsCancelledTotal.WithLabelValues(strings.ToLower(string(booking.Type))).Inc()
	logrus.WithFields(logrus.Fields{
		"booking_id": booking.ID(),
		"user_id":    user.ID,
		"type":       booking.Type,
	}).Info("Booking cancelled")

	return booking, nil
}

// Stats aggregates a user's booking counts and spend per product type.
// Each type contributes at most statsFetchCap recent non-cancelled
// bookings, so the figures are approximate for very heavy users.
func (s *BookingService) Stats(user models.Principal) (*models.BookingStats, error) {
	userID := user.ID.String()

	hotelTotals, err := s.bookings.ActiveHotelBookingTotals(userID, s.statsFetchCap)
	if err != nil {
		return nil, err
	}
	flightTotals, err := s.bookings.ActiveFlightBookingTotals(userID, s.statsFetchCap)
	if err != nil {
		return nil, err
	}
	trainTotals, err := s.bookings.ActiveTrainBookingTotals(userID, s.statsFetchCap)
	if err != nil {
		return nil, err
	}

	stats := &models.BookingStats{
		Hotels:  sumEntry(hotelTotals),
		Flights: sumEntry(flightTotals),
		Trains:  sumEntry(trainTotals),
	}
	stats.Total = models.BookingStatsEntry{
		Count: stats.Hotels.Count + stats.Flights.Count + stats.Trains.Count,
		Spent: stats.Hotels.Spent + stats.Flights.Spent + stats.Trains.Spent,
	}
	return stats, nil
}

func sumEntry(totals []float64) models.BookingStatsEntry {
	entry := models.BookingStatsEntry{Count: len(totals)}
	for _, t := range totals {
		entry.Spent += t
	}
	return entry
}
