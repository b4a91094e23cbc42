package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/tripbound/travel-booking-backend/internal/middleware"
	"github.com/tripbound/travel-booking-backend/internal/models"
	"github.com/tripbound/travel-booking-backend/internal/services"
)

// FlightHandler handles flight catalog and booking endpoints
type FlightHandler struct {
	service *services.FlightService
}

// NewFlightHandler creates a new FlightHandler
func NewFlightHandler(service *services.FlightService) *FlightHandler {
	return &FlightHandler{service: service}
}

// Search searches flights by route and departure date
// @Summary Search flights
// @Description Search active flights with fare annotations
// @Tags Flights
// @Produce json
// @Param fromCity query string true "Origin city"
// @Param toCity query string true "Destination city"
// @Param departureDate query string true "Departure date (YYYY-MM-DD)"
// @Param fareClass query string false "Fare class filter"
// @Success 200 {object} Response
// @Failure 400 {object} ErrorResponse
// @Router /api/flights/search [get]
func (h *FlightHandler) Search(c *gin.Context) {
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

	filters := models.FlightSearchFilters{
		FromCity:      fromCity,
		ToCity:        toCity,
		DepartureDate: departureDate,
		Airline:       queryStringPtr(c, "airline"),
		MaxPrice:      queryFloatPtr(c, "maxPrice"),
		MaxStops:      queryIntPtr(c, "maxStops"),
		SortBy:        c.Query("sortBy"),
		SortOrder:     c.DefaultQuery("sortOrder", models.SortAsc),
	}
	if raw := c.Query("fareClass"); raw != "" {
		fareClass := models.FareClass(raw)
		if !fareClass.Valid() {
			respondBadRequest(c, "Invalid fare class")
			return
		}
		filters.FareClass = &fareClass
	}

	page, err := h.service.Search(c.Request.Context(), filters, parsePagination(c))
	if err != nil {
		respondError(c, err)
		return
	}

	respondPage(c, page.Results, page.Pagination)
}

// GetFlight returns one flight with its fares
// @Summary Get flight details
// @Tags Flights
// @Produce json
// @Param id path string true "Flight ID"
// @Success 200 {object} Response
// @Failure 404 {object} ErrorResponse
// @Router /api/flights/{id} [get]
func (h *FlightHandler) GetFlight(c *gin.Context) {
	flight, err := h.service.GetFlight(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, flight)
}

// CheckAvailability quotes seats in one fare class
// @Summary Check flight seat availability
// @Tags Flights
// @Produce json
// @Param id path string true "Flight ID"
// @Param fareClass query string true "Fare class"
// @Param passengers query int false "Passenger count"
// @Success 200 {object} Response
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /api/flights/{id}/availability [get]
func (h *FlightHandler) CheckAvailability(c *gin.Context) {
	fareClass := models.FareClass(c.Query("fareClass"))
	passengers := queryInt(c, "passengers", 1)

	quote, err := h.service.CheckAvailability(c.Param("id"), fareClass, passengers)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, quote)
}

// CreateBooking books flight seats for the authenticated user
// @Summary Create flight booking
// @Tags Flights
// @Accept json
// @Produce json
// @Param request body models.CreateFlightBookingRequest true "Booking request"
// @Success 201 {object} Response
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Security BearerAuth
// @Router /api/flights/bookings [post]
func (h *FlightHandler) CreateBooking(c *gin.Context) {
	user, exists := middleware.GetUser(c)
	if !exists {
		respondUnauthorized(c)
		return
	}

	var req models.CreateFlightBookingRequest
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
