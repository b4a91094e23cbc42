package services

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tripbound/travel-booking-backend/internal/apperrors"
	"github.com/tripbound/travel-booking-backend/internal/database"
	"github.com/tripbound/travel-booking-backend/internal/models"
)

type stubBookingStore struct {
	byID         map[string]*models.AnyBooking
	hotels       []models.HotelBooking
	flights      []models.FlightBooking
	trains       []models.TrainBooking
	hotelTotals  []float64
	flightTotals []float64
	trainTotals  []float64
	cancelled    []uuid.UUID
	statsCap     int
}

// FindBookingByID hands out a fresh copy per call, the way a real read
// returns a new row snapshot
func (s *stubBookingStore) FindBookingByID(id string) (*models.AnyBooking, error) {
	b := s.byID[id]
	if b == nil {
		return nil, nil
	}
	clone := *b
	switch b.Type {
	case models.BookingTypeHotel:
		hotel := *b.Hotel
		clone.Hotel = &hotel
	case models.BookingTypeFlight:
		flight := *b.Flight
		clone.Flight = &flight
	case models.BookingTypeTrain:
		train := *b.Train
		clone.Train = &train
	}
	return &clone, nil
}

func (s *stubBookingStore) ListHotelBookingsByUser(userID string, p models.PaginationParams) ([]models.HotelBooking, int, error) {
	return s.hotels, len(s.hotels), nil
}

func (s *stubBookingStore) ListFlightBookingsByUser(userID string, p models.PaginationParams) ([]models.FlightBooking, int, error) {
	return s.flights, len(s.flights), nil
}

func (s *stubBookingStore) ListTrainBookingsByUser(userID string, p models.PaginationParams) ([]models.TrainBooking, int, error) {
	return s.trains, len(s.trains), nil
}

func (s *stubBookingStore) ActiveHotelBookingTotals(userID string, limit int) ([]float64, error) {
	s.statsCap = limit
	return s.hotelTotals, nil
}

func (s *stubBookingStore) ActiveFlightBookingTotals(userID string, limit int) ([]float64, error) {
	return s.flightTotals, nil
}

func (s *stubBookingStore) ActiveTrainBookingTotals(userID string, limit int) ([]float64, error) {
	return s.trainTotals, nil
}

// CancelBooking enforces the guarded transition: a repeat cancel of
// the same booking loses like it would against the database guard
func (s *stubBookingStore) CancelBooking(booking *models.AnyBooking) error {
	for _, id := range s.cancelled {
		if id == booking.ID() {
			return database.ErrAlreadyCancelled
		}
	}
	s.cancelled = append(s.cancelled, booking.ID())
	return nil
}

func TestBookingList(t *testing.T) {
	user := models.Principal{ID: uuid.New()}
	base := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)

	store := &stubBookingStore{
		hotels: []models.HotelBooking{
			{ID: uuid.New(), Type: models.BookingTypeHotel, UserID: user.ID, CreatedAt: base.Add(1 * time.Hour)},
		},
		flights: []models.FlightBooking{
			{ID: uuid.New(), Type: models.BookingTypeFlight, UserID: user.ID, CreatedAt: base.Add(3 * time.Hour)},
		},
		trains: []models.TrainBooking{
			{ID: uuid.New(), Type: models.BookingTypeTrain, UserID: user.ID, CreatedAt: base.Add(2 * time.Hour)},
		},
	}
	svc := NewBookingService(store, 1000)

	t.Run("Merged Newest First", func(t *testing.T) {
		page, err := svc.List(user, nil, models.NewPaginationParams(1, 20))
		require.NoError(t, err)

		require.Len(t, page.Bookings, 3)
		assert.Equal(t, models.BookingTypeFlight, page.Bookings[0].Type)
		assert.Equal(t, models.BookingTypeTrain, page.Bookings[1].Type)
		assert.Equal(t, models.BookingTypeHotel, page.Bookings[2].Type)
		assert.Equal(t, 3, page.Pagination.Total)
	})

	t.Run("Typed", func(t *testing.T) {
		hotelType := models.BookingTypeHotel
		page, err := svc.List(user, &hotelType, models.NewPaginationParams(1, 20))
		require.NoError(t, err)

		require.Len(t, page.Bookings, 1)
		assert.Equal(t, models.BookingTypeHotel, page.Bookings[0].Type)
		assert.Equal(t, 1, page.Pagination.Total)
	})
}

func TestBookingGetByID(t *testing.T) {
	owner := models.Principal{ID: uuid.New()}
	stranger := models.Principal{ID: uuid.New()}
	bookingID := uuid.New()

	store := &stubBookingStore{byID: map[string]*models.AnyBooking{
		bookingID.String(): {
			Type:  models.BookingTypeHotel,
			Hotel: &models.HotelBooking{ID: bookingID, UserID: owner.ID},
		},
	}}
	svc := NewBookingService(store, 1000)

	t.Run("Owner Sees It", func(t *testing.T) {
		booking, err := svc.GetByID(owner, bookingID.String())
		require.NoError(t, err)
		assert.Equal(t, bookingID, booking.ID())
	})

	t.Run("Stranger Gets NotFound", func(t *testing.T) {
		_, err := svc.GetByID(stranger, bookingID.String())
		assert.True(t, apperrors.IsCode(err, apperrors.CodeNotFound))
	})

	t.Run("Missing", func(t *testing.T) {
		_, err := svc.GetByID(owner, uuid.New().String())
		assert.True(t, apperrors.IsCode(err, apperrors.CodeNotFound))
	})
}

func TestBookingCancel(t *testing.T) {
	user := models.Principal{ID: uuid.New()}
	bookingID := uuid.New()

	newStore := func(status models.BookingStatus) *stubBookingStore {
		return &stubBookingStore{byID: map[string]*models.AnyBooking{
			bookingID.String(): {
				Type: models.BookingTypeFlight,
				Flight: &models.FlightBooking{
					ID:            bookingID,
					UserID:        user.ID,
					Status:        status,
					PaymentStatus: models.PaymentStatusPaid,
				},
			},
		}}
	}

	t.Run("Cancels And Refunds", func(t *testing.T) {
		store := newStore(models.BookingStatusConfirmed)
		svc := NewBookingService(store, 1000)

		booking, err := svc.Cancel(user, bookingID.String())
		require.NoError(t, err)
		assert.Equal(t, models.BookingStatusCancelled, booking.Status())
		assert.Equal(t, models.PaymentStatusRefunded, booking.Flight.PaymentStatus)
		assert.Equal(t, []uuid.UUID{bookingID}, store.cancelled)
	})

	t.Run("Racing Cancel Releases Once", func(t *testing.T) {
		store := newStore(models.BookingStatusPending)
		svc := NewBookingService(store, 1000)

		first, err := svc.Cancel(user, bookingID.String())
		require.NoError(t, err)
		assert.Equal(t, models.BookingStatusCancelled, first.Status())

		// The second caller read the booking before the first commit,
		// so its copy still says PENDING. The store guard must reject
		// it instead of releasing capacity a second time.
		_, err = svc.Cancel(user, bookingID.String())
		require.Error(t, err)
		assert.True(t, apperrors.IsCode(err, apperrors.CodeBadRequest))
		assert.Equal(t, "Booking is already cancelled", err.Error())
		assert.Equal(t, []uuid.UUID{bookingID}, store.cancelled)
	})

	t.Run("Already Cancelled", func(t *testing.T) {
		store := newStore(models.BookingStatusCancelled)
		svc := NewBookingService(store, 1000)

		_, err := svc.Cancel(user, bookingID.String())
		require.Error(t, err)
		assert.True(t, apperrors.IsCode(err, apperrors.CodeBadRequest))
		assert.Equal(t, "Booking is already cancelled", err.Error())
		assert.Empty(t, store.cancelled)
	})
}

func TestBookingStats(t *testing.T) {
	user := models.Principal{ID: uuid.New()}
	store := &stubBookingStore{
		hotelTotals:  []float64{200, 350},
		flightTotals: []float64{450},
		trainTotals:  nil,
	}
	svc := NewBookingService(store, 500)

	stats, err := svc.Stats(user)
	require.NoError(t, err)

	assert.Equal(t, 2, stats.Hotels.Count)
	assert.Equal(t, 550.0, stats.Hotels.Spent)
	assert.Equal(t, 1, stats.Flights.Count)
	assert.Equal(t, 450.0, stats.Flights.Spent)
	assert.Equal(t, 0, stats.Trains.Count)
	assert.Equal(t, 0.0, stats.Trains.Spent)
	assert.Equal(t, 3, stats.Total.Count)
	assert.Equal(t, 1000.0, stats.Total.Spent)
	assert.Equal(t, 500, store.statsCap)
}
