package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/tripbound/travel-booking-backend/internal/middleware"
	"github.com/tripbound/travel-booking-backend/internal/models"
	"github.com/tripbound/travel-booking-backend/internal/services"
)

// TrainHandler handles train catalog and booking endpoints
type TrainHandler struct {
	service *services.TrainService
}

// NewTrainHandler creates a new TrainHandler
func NewTrainHandler(service *services.TrainService) *TrainHandler {
	return &TrainHandler{service: service}
}

// Search searches trains by route and travel date
// @Summary Search trains
// @Description Search active trains running on the requested date
// @Tags Trains
// @Produce json
// @Param fromCity query string true "Origin city"
// @Param toCity query string true "Destination city"
// @Param departureDate query string true "Travel date (YYYY-MM-DD)"
// @Param classType query string false "Travel class filter"
// @Success 200 {object} Response
// @Failure 400 {object} ErrorResponse
// @Router /api/trains/search [get]
func (h *TrainHandler) Search(c *gin.Context) {
	fromCity := c.Query("fromCity")
	toCity := c.Query("toCity")
	if fromCity == "" || toCity == "" {
		respondBadRequest(c, "fromCity and toCity are required")
		return
	}

	departureDate, err := parseDate(c.Query("departureDate"))
	if err != nil {
		respondBadRequest(c, "departureDate must be a valid date (YYYY-MM-DD)")
		return
	}

	filters := models.TrainSearchFilters{
		FromCity:      fromCity,
		ToCity:        toCity,
		DepartureDate: departureDate,
		SortBy:        c.Query("sortBy"),
		SortOrder:     c.DefaultQuery("sortOrder", models.SortAsc),
	}
	if raw := c.Query("classType"); raw != "" {
		classType := models.TrainClassType(raw)
		if !classType.Valid() {
			respondBadRequest(c, "Invalid train class")
			return
		}
		filters.ClassType = &classType
	}

	page, err := h.service.Search(c.Request.Context(), filters, parsePagination(c))
	if err != nil {
		respondError(c, err)
		return
	}

	respondPage(c, page.Results, page.Pagination)
}

// GetTrain returns one train with its classes
// @Summary Get train details
// @Tags Trains
// @Produce json
// @Param id path string true "Train ID"
// @Success 200 {object} Response
// @Failure 404 {object} ErrorResponse
// @Router /api/trains/{id} [get]
func (h *TrainHandler) GetTrain(c *gin.Context) {
	train, err := h.service.GetTrain(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, train)
}

// CheckAvailability quotes seats in one travel class
// @Summary Check train seat availability
// @Tags Trains
// @Produce json
// @Param id path string true "Train ID"
// @Param classType query string true "Travel class"
// @Param passengers query int false "Passenger count"
// @Success 200 {object} Response
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /api/trains/{id}/availability [get]
func (h *TrainHandler) CheckAvailability(c *gin.Context) {
	classType := models.TrainClassType(c.Query("classType"))
	passengers := queryInt(c, "passengers", 1)

	quote, err := h.service.CheckAvailability(c.Param("id"), classType, passengers)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, quote)
}

// CreateBooking books train seats for the authenticated user
// @Summary Create train booking
// @Tags Trains
// @Accept json
// @Produce json
// @Param request body models.CreateTrainBookingRequest true "Booking request"
// @Success 201 {object} Response
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Security BearerAuth
// @Router /api/trains/bookings [post]
func (h *TrainHandler) CreateBooking(c *gin.Context) {
	user, exists := middleware.GetUser(c)
	if !exists {
		respondUnauthorized(c)
		return
	}

	var req models.CreateTrainBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	booking, err := h.service.CreateBooking(user, req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondCreated(c, booking)
}
