package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnyBookingAccessors(t *testing.T) {
	created := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	userID := uuid.New()
	flight := &FlightBooking{
		ID:         uuid.New(),
		Type:       BookingTypeFlight,
		UserID:     userID,
		TotalPrice: 450.50,
		Status:     BookingStatusPending,
		CreatedAt:  created,
	}

	b := AnyBooking{Type: BookingTypeFlight, Flight: flight}
	assert.Equal(t, flight.ID, b.ID())
	assert.Equal(t, userID, b.UserID())
	assert.Equal(t, BookingStatusPending, b.Status())
	assert.Equal(t, 450.50, b.TotalPrice())
	assert.Equal(t, created, b.CreatedAt())
}

func TestAnyBookingMarshalJSON(t *testing.T) {
	pnr := "AB12CD34EF"
	train := &TrainBooking{
		ID:        uuid.New(),
		Type:      BookingTypeTrain,
		UserID:    uuid.New(),
		ClassType: TrainClassAC2,
		PNRNumber: &pnr,
		Status:    BookingStatusConfirmed,
	}

	data, err := json.Marshal(AnyBooking{Type: BookingTypeTrain, Train: train})
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "TRAIN", decoded["type"])
	assert.Equal(t, "AB12CD34EF", decoded["pnrNumber"])
	assert.Equal(t, "CONFIRMED", decoded["status"])
}

func TestAnyBookingMarshalUnknownType(t *testing.T) {
	_, err := json.Marshal(AnyBooking{Type: "CRUISE"})
	assert.Error(t, err)
}
