package database

import (
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tripbound/travel-booking-backend/internal/models"
)

var hotelRows = []string{
	"id", "name", "description", "city", "address", "star_rating",
	"amenities", "images", "is_active", "created_at", "updated_at",
}

func TestHotelFindByID(t *testing.T) {
	t.Run("Found With Rooms", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewHotelRepository(db)

		hotelID := uuid.New()
		roomID := uuid.New()
		now := time.Now()

		mock.ExpectQuery(`SELECT (.+) FROM hotels WHERE id = \$1`).
			WithArgs(hotelID.String()).
			WillReturnRows(sqlmock.NewRows(hotelRows).AddRow(
				hotelID, "Seaside Resort", nil, "Goa", "1 Beach Rd", 4,
				"{wifi,pool}", "{}", true, now, now,
			))

		mock.ExpectQuery(`SELECT (.+) FROM rooms`).
			WillReturnRows(sqlmock.NewRows([]string{
				"id", "hotel_id", "room_type", "description", "max_guests",
				"is_active", "created_at", "updated_at",
			}).AddRow(roomID, hotelID, "Deluxe", nil, 2, true, now, now))

		mock.ExpectQuery(`SELECT (.+) FROM room_rates`).
			WillReturnRows(sqlmock.NewRows([]string{
				"id", "room_id", "date", "price", "available",
				"is_active", "created_at", "updated_at",
			}).AddRow(uuid.New(), roomID, now, 120.0, 0, true, now, now))

		hotel, err := repo.FindByID(hotelID.String())
		require.NoError(t, err)
		require.NotNil(t, hotel)
		assert.Equal(t, models.StringArray{"wifi", "pool"}, hotel.Amenities)
		require.Len(t, hotel.Rooms, 1)
		// Detail lookups keep sold-out nights visible
		require.Len(t, hotel.Rooms[0].Rates, 1)
		assert.Equal(t, 0, hotel.Rooms[0].Rates[0].Available)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Not Found", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewHotelRepository(db)

		mock.ExpectQuery(`SELECT (.+) FROM hotels`).
			WillReturnError(sql.ErrNoRows)

		hotel, err := repo.FindByID(uuid.New().String())
		require.NoError(t, err)
		assert.Nil(t, hotel)
	})
}

func TestHotelSearchPriceShortCircuit(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewHotelRepository(db)

	maxPrice := 50.0
	mock.ExpectQuery(`SELECT DISTINCT r.hotel_id`).
		WillReturnRows(sqlmock.NewRows([]string{"hotel_id"}))

	hotels, total, err := repo.Search(models.HotelSearchFilters{
		City:     "Goa",
		MaxPrice: &maxPrice,
	}, models.NewPaginationParams(1, 20))

	require.NoError(t, err)
	assert.Nil(t, hotels)
	assert.Equal(t, 0, total)
	assert.NoError(t, mock.ExpectationsWereMet())
}
