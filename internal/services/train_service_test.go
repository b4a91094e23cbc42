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

type stubTrainStore struct {
	trains  map[string]*models.Train
	classes map[models.TrainClassType]*models.TrainClass
}

func (s *stubTrainStore) FindByID(id string) (*models.Train, error) {
	return s.trains[id], nil
}

func (s *stubTrainStore) GetClass(trainID string, classType models.TrainClassType) (*models.TrainClass, error) {
	return s.classes[classType], nil
}

func (s *stubTrainStore) Search(filters models.TrainSearchFilters, p models.PaginationParams) ([]models.Train, int, error) {
	return nil, 0, nil
}

type stubTrainBookingStore struct {
	err error
}

func (s *stubTrainBookingStore) CreateTrainBooking(booking *models.TrainBooking) error {
	if s.err != nil {
		return s.err
	}
	pnr := "K7Q2M9XA4B"
	booking.ID = uuid.New()
	booking.TotalPrice = 80 * float64(booking.Passengers)
	booking.PNRNumber = &pnr
	booking.Status = models.BookingStatusConfirmed
	booking.PaymentStatus = models.PaymentStatusPending
	booking.Type = models.BookingTypeTrain
	return nil
}

func futureTrain(id uuid.UUID) *models.Train {
	return &models.Train{
		ID:            id,
		TrainNumber:   "12951",
		TrainName:     "Rajdhani Express",
		DepartureTime: time.Now().Add(72 * time.Hour),
		DaysOfWeek:    models.IntArray{0, 2, 4},
	}
}

func TestTrainCheckAvailability(t *testing.T) {
	trainID := uuid.New()
	store := &stubTrainStore{
		trains: map[string]*models.Train{trainID.String(): futureTrain(trainID)},
		classes: map[models.TrainClassType]*models.TrainClass{
			models.TrainClassAC2: {ClassType: models.TrainClassAC2, Price: 95, SeatsAvailable: 4},
		},
	}
	svc := NewTrainService(store, &stubTrainBookingStore{}, nil)

	t.Run("Invalid Class", func(t *testing.T) {
		_, err := svc.CheckAvailability(trainID.String(), "AC9", 1)
		assert.True(t, apperrors.IsCode(err, apperrors.CodeBadRequest))
	})

	t.Run("Class Not Offered", func(t *testing.T) {
		_, err := svc.CheckAvailability(trainID.String(), models.TrainClassExec, 1)
		assert.True(t, apperrors.IsCode(err, apperrors.CodeNotFound))
	})

	t.Run("Insufficient Seats", func(t *testing.T) {
		_, err := svc.CheckAvailability(trainID.String(), models.TrainClassAC2, 6)
		require.Error(t, err)
		assert.True(t, apperrors.IsCode(err, apperrors.CodeConflict))
		assert.Equal(t, "Only 4 seats available in AC2", err.Error())
	})

	t.Run("Quote", func(t *testing.T) {
		quote, err := svc.CheckAvailability(trainID.String(), models.TrainClassAC2, 2)
		require.NoError(t, err)
		assert.Equal(t, 190.0, quote.TotalPrice)
	})
}

func TestTrainCreateBooking(t *testing.T) {
	trainID := uuid.New()
	user := models.Principal{ID: uuid.New()}
	req := models.CreateTrainBookingRequest{
		TrainID:    trainID.String(),
		ClassType:  string(models.TrainClassAC3),
		Passengers: 2,
	}

	t.Run("Train Not Found", func(t *testing.T) {
		svc := NewTrainService(&stubTrainStore{trains: map[string]*models.Train{}}, &stubTrainBookingStore{}, nil)
		_, err := svc.CreateBooking(user, req)
		assert.True(t, apperrors.IsCode(err, apperrors.CodeNotFound))
	})

	t.Run("Departed", func(t *testing.T) {
		departed := futureTrain(trainID)
		departed.DepartureTime = time.Now().Add(-time.Minute)
		store := &stubTrainStore{trains: map[string]*models.Train{trainID.String(): departed}}
		svc := NewTrainService(store, &stubTrainBookingStore{}, nil)

		_, err := svc.CreateBooking(user, req)
		require.Error(t, err)
		assert.Equal(t, "Train has already departed", err.Error())
	})

	t.Run("Class Missing Maps To NotFound", func(t *testing.T) {
		store := &stubTrainStore{trains: map[string]*models.Train{trainID.String(): futureTrain(trainID)}}
		svc := NewTrainService(store, &stubTrainBookingStore{err: database.ErrUnitNotFound}, nil)

		_, err := svc.CreateBooking(user, req)
		assert.True(t, apperrors.IsCode(err, apperrors.CodeNotFound))
	})

	t.Run("Capacity Maps To Conflict", func(t *testing.T) {
		store := &stubTrainStore{trains: map[string]*models.Train{trainID.String(): futureTrain(trainID)}}
		svc := NewTrainService(store, &stubTrainBookingStore{err: &database.CapacityError{Available: 1, Unit: "AC3"}}, nil)

		_, err := svc.CreateBooking(user, req)
		require.Error(t, err)
		assert.True(t, apperrors.IsCode(err, apperrors.CodeConflict))
		assert.Equal(t, "Only 1 seats available in AC3", err.Error())
	})

	t.Run("Success Confirms With PNR", func(t *testing.T) {
		store := &stubTrainStore{trains: map[string]*models.Train{trainID.String(): futureTrain(trainID)}}
		svc := NewTrainService(store, &stubTrainBookingStore{}, nil)

		booking, err := svc.CreateBooking(user, req)
		require.NoError(t, err)
		assert.Equal(t, models.BookingStatusConfirmed, booking.Status)
		require.NotNil(t, booking.PNRNumber)
		assert.Len(t, *booking.PNRNumber, 10)
		assert.Equal(t, 160.0, booking.TotalPrice)
	})
}
