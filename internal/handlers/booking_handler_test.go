package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tripbound/travel-booking-backend/internal/middleware"
	"github.com/tripbound/travel-booking-backend/internal/models"
	"github.com/tripbound/travel-booking-backend/internal/services"
)

type fakeBookingStore struct {
	byID    map[string]*models.AnyBooking
	flights []models.FlightBooking
}

func (s *fakeBookingStore) FindBookingByID(id string) (*models.AnyBooking, error) {
	return s.byID[id], nil
}

func (s *fakeBookingStore) ListHotelBookingsByUser(userID string, p models.PaginationParams) ([]models.HotelBooking, int, error) {
	return nil, 0, nil
}

func (s *fakeBookingStore) ListFlightBookingsByUser(userID string, p models.PaginationParams) ([]models.FlightBooking, int, error) {
	return s.flights, len(s.flights), nil
}

func (s *fakeBookingStore) ListTrainBookingsByUser(userID string, p models.PaginationParams) ([]models.TrainBooking, int, error) {
	return nil, 0, nil
}

func (s *fakeBookingStore) ActiveHotelBookingTotals(userID string, limit int) ([]float64, error) {
	return []float64{300}, nil
}

func (s *fakeBookingStore) ActiveFlightBookingTotals(userID string, limit int) ([]float64, error) {
	return []float64{120, 80}, nil
}

func (s *fakeBookingStore) ActiveTrainBookingTotals(userID string, limit int) ([]float64, error) {
	return nil, nil
}

func (s *fakeBookingStore) CancelBooking(booking *models.AnyBooking) error {
	return nil
}

func setupBookingRouter(store *fakeBookingStore, user models.Principal) *gin.Engine {
	gin.SetMode(gin.TestMode)

	handler := NewBookingHandler(services.NewBookingService(store, 1000))
	router := gin.New()
	authed := router.Group("/api/bookings", func(c *gin.Context) {
		c.Set(middleware.UserContextKey, user)
	})
	authed.GET("", handler.List)
	authed.GET("/stats", handler.Stats)
	authed.GET("/:id", handler.GetByID)
	authed.POST("/:id/cancel", handler.Cancel)
	return router
}

func TestBookingHandlerList(t *testing.T) {
	user := models.Principal{ID: uuid.New()}
	store := &fakeBookingStore{
		flights: []models.FlightBooking{{
			ID:        uuid.New(),
			Type:      models.BookingTypeFlight,
			UserID:    user.ID,
			CreatedAt: time.Now(),
		}},
	}
	router := setupBookingRouter(store, user)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/bookings?type=FLIGHT", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Success    bool               `json:"success"`
		Data       []json.RawMessage  `json:"data"`
		Pagination *models.Pagination `json:"pagination"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.True(t, body.Success)
	assert.Len(t, body.Data, 1)
	require.NotNil(t, body.Pagination)
	assert.Equal(t, 1, body.Pagination.Total)
}

func TestBookingHandlerListBadType(t *testing.T) {
	router := setupBookingRouter(&fakeBookingStore{}, models.Principal{ID: uuid.New()})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/bookings?type=CRUISE", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "BAD_REQUEST")
}

func TestBookingHandlerStats(t *testing.T) {
	router := setupBookingRouter(&fakeBookingStore{}, models.Principal{ID: uuid.New()})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/bookings/stats", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Data models.BookingStats `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, 3, body.Data.Total.Count)
	assert.Equal(t, 500.0, body.Data.Total.Spent)
}

func TestBookingHandlerGetAndCancel(t *testing.T) {
	user := models.Principal{ID: uuid.New()}
	bookingID := uuid.New()
	store := &fakeBookingStore{byID: map[string]*models.AnyBooking{
		bookingID.String(): {
			Type: models.BookingTypeHotel,
			Hotel: &models.HotelBooking{
				ID:     bookingID,
				Type:   models.BookingTypeHotel,
				UserID: user.ID,
				Status: models.BookingStatusConfirmed,
			},
		},
	}}
	router := setupBookingRouter(store, user)

	t.Run("Get", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/bookings/"+bookingID.String(), nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), bookingID.String())
	})

	t.Run("Get Missing", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/bookings/"+uuid.New().String(), nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Contains(t, w.Body.String(), "NOT_FOUND")
	})

	t.Run("Cancel", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/bookings/"+bookingID.String()+"/cancel", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "CANCELLED")
	})

	t.Run("Cancel Again", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/bookings/"+bookingID.String()+"/cancel", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "already cancelled")
	})
}
