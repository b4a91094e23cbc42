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

// TrainStore is the catalog access the train service needs
type TrainStore interface {
	FindByID(id string) (*models.Train, error)
	GetClass(trainID string, classType models.TrainClassType) (*models.TrainClass, error)
	Search(filters models.TrainSearchFilters, p models.PaginationParams) ([]models.Train, int, error)
}

// TrainBookingStore is the reservation access the train service needs
type TrainBookingStore interface {
	CreateTrainBooking(booking *models.TrainBooking) error
}

// TrainService implements train search, availability checks and booking
type TrainService struct {
	trains   TrainStore
	bookings TrainBookingStore
	cache    *cache.SearchCache
}

// NewTrainService creates a new TrainService
func NewTrainService(trains TrainStore, bookings TrainBookingStore, searchCache *cache.SearchCache) *TrainService {
	return &TrainService{trains: trains, bookings: bookings, cache: searchCache}
}

// TrainSearchPage is a page of annotated train search results
type TrainSearchPage struct {
	Results    []models.TrainSearchResult `json:"results"`
	Pagination models.Pagination          `json:"pagination"`
}

// Search runs a paginated train search for trains running on the
// requested date's weekday and annotates every hit with its bookable
// classes and cheapest price
func (s *TrainService) Search(ctx context.Context, filters models.TrainSearchFilters, p models.PaginationParams) (*TrainSearchPage, error) {
	metrics.SearchesTotal.WithLabelValues("train").Inc()

	key := cache.Key("search:trains", filters, p)
	page := &TrainSearchPage{}
	if s.cache.Get(ctx, key, page) {
		return page, nil
	}

	trains, total, err := s.trains.Search(filters, p)
	if err != nil {
		return nil, err
	}

	results := make([]models.TrainSearchResult, 0, len(trains))
	for _, train := range trains {
		classes := train.Classes
		train.Classes = nil

		var lowest float64
		for _, class := range classes {
			if lowest == 0 || class.Price < lowest {
				lowest = class.Price
			}
		}

		results = append(results, models.TrainSearchResult{
			Train:            train,
			AvailableClasses: classes,
			LowestPrice:      lowest,
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

	page = &TrainSearchPage{
		Results:    results,
		Pagination: models.NewPagination(total, p),
	}
	s.cache.Set(ctx, key, page)

	return page, nil
}

// GetTrain retrieves an active train with its classes
func (s *TrainService) GetTrain(id string) (*models.Train, error) {
	train, err := s.trains.FindByID(id)
	if err != nil {
		return nil, err
	}
	if train == nil {
		return nil, apperrors.NotFound("Train", id)
	}
	return train, nil
}

// CheckAvailability quotes seats in one travel class. Advisory: the
// booking transaction re-verifies the counter under the conditional
// decrement.
func (s *TrainService) CheckAvailability(trainID string, classType models.TrainClassType, passengers int) (*models.SeatQuote, error) {
	if !classType.Valid() {
		return nil, apperrors.BadRequest("Invalid train class")
	}
	if passengers < 1 {
		return nil, apperrors.BadRequest("Passenger count must be at least 1")
	}

	train, err := s.trains.FindByID(trainID)
	if err != nil {
		return nil, err
	}
	if train == nil {
		return nil, apperrors.NotFound("Train", trainID)
	}

	class, err := s.trains.GetClass(trainID, classType)
	if err != nil {
		return nil, err
	}
	if class == nil {
		return nil, apperrors.NotFound("Train class", string(classType))
	}

	if class.SeatsAvailable < passengers {
		return nil, apperrors.Conflict(fmt.Sprintf("Only %d seats available in %s", class.SeatsAvailable, classType))
	}

	return &models.SeatQuote{
		Available:      true,
		PricePerPerson: class.Price,
		TotalPrice:     class.Price * float64(passengers),
	}, nil
}

// CreateBooking validates the train, reserves seats and assigns a PNR
// in one transaction; train bookings confirm immediately
func (s *TrainService) CreateBooking(user models.Principal, req models.CreateTrainBookingRequest) (*models.TrainBooking, error) {
	train, err := s.trains.FindByID(req.TrainID)
	if err != nil {
		return nil, err
	}
	if train == nil {
		return nil, apperrors.NotFound("Train", req.TrainID)
	}
	if train.DepartureTime.Before(time.Now()) {
		return nil, apperrors.BadRequest("Train has already departed")
	}

	booking := &models.TrainBooking{
		UserID:           user.ID,
		TrainID:          train.ID,
		ClassType:        models.TrainClassType(req.ClassType),
		Passengers:       req.Passengers,
		PassengerDetails: req.PassengerDetails,
	}

	if err := s.bookings.CreateTrainBooking(booking); err != nil {
		var capErr *database.CapacityError
		switch {
		case errors.Is(err, database.ErrUnitNotFound):
			return nil, apperrors.NotFound("Train class", req.ClassType)
		case errors.As(err, &capErr):
			metrics.BookingConflictsTotal.WithLabelValues("train").Inc()
			return nil, apperrors.Conflict(fmt.Sprintf("Only %d seats available in %s", capErr.Available, capErr.Unit))
		}
		return nil, err
	}

	metrics.BookingsCreatedTotal.WithLabelValues("train").Inc()
	logrus.WithFields(logrus.Fields{
		"booking_id": booking.ID,
		"user_id":    user.ID,
		"train_id":   train.ID,
		"class_type": booking.ClassType,
		"passengers": booking.Passengers,
		"pnr":        booking.PNRNumber,
	}).Info("Train booking created")

	return booking, nil
}
