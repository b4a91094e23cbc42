package database

import (
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tripbound/travel-booking-backend/internal/models"
)

func TestTrainSearch(t *testing.T) {
	// 2026-09-13 is a Sunday, weekday 0
	departure := time.Date(2026, 9, 13, 0, 0, 0, 0, time.UTC)

	t.Run("Class Prequery Short Circuit", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewTrainRepository(db)

		classType := models.TrainClassAC1
		mock.ExpectQuery(`SELECT DISTINCT train_id`).
			WillReturnRows(sqlmock.NewRows([]string{"train_id"}))

		trains, total, err := repo.Search(models.TrainSearchFilters{
			FromCity:      "Mumbai",
			ToCity:        "Delhi",
			DepartureDate: departure,
			ClassType:     &classType,
		}, models.NewPaginationParams(1, 20))

		require.NoError(t, err)
		assert.Nil(t, trains)
		assert.Equal(t, 0, total)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Weekday Filter Applied", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewTrainRepository(db)

		trainID := uuid.New()
		now := time.Now()

		mock.ExpectQuery(`SELECT COUNT\(\*\) FROM trains`).
			WithArgs("%Mumbai%", "%Delhi%", 0).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

		mock.ExpectQuery(`SELECT id, train_number, train_name`).
			WithArgs("%Mumbai%", "%Delhi%", 0, 20, 0).
			WillReturnRows(sqlmock.NewRows([]string{
				"id", "train_number", "train_name", "from_city", "to_city",
				"departure_time", "arrival_time", "days_of_week", "is_active",
				"created_at", "updated_at",
			}).AddRow(
				trainID, "12951", "Rajdhani Express", "Mumbai", "Delhi",
				now.Add(24*time.Hour), now.Add(40*time.Hour), "{0,3,5}", true,
				now, now,
			))

		mock.ExpectQuery(`SELECT id, train_id, class_type`).
			WillReturnRows(sqlmock.NewRows([]string{
				"id", "train_id", "class_type", "price", "seats_available",
				"is_active", "created_at", "updated_at",
			}).AddRow(uuid.New(), trainID, "AC2", 95.0, 12, true, now, now))

		trains, total, err := repo.Search(models.TrainSearchFilters{
			FromCity:      "Mumbai",
			ToCity:        "Delhi",
			DepartureDate: departure,
		}, models.NewPaginationParams(1, 20))

		require.NoError(t, err)
		assert.Equal(t, 1, total)
		require.Len(t, trains, 1)
		assert.Equal(t, models.IntArray{0, 3, 5}, trains[0].DaysOfWeek)
		require.Len(t, trains[0].Classes, 1)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
