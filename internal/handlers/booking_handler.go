package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/tripbound/travel-booking-backend/internal/middleware"
	"github.com/tripbound/travel-booking-backend/internal/models"
	"github.com/tripbound/travel-booking-backend/internal/services"
)

// BookingHandler handles cross-product booking endpoints
type BookingHandler struct {
	service *services.BookingService
}

// NewBookingHandler creates a new BookingHandler
func NewBookingHandler(service *services.BookingService) *BookingHandler {
	return &BookingHandler{service: service}
}

// List returns the authenticated user's bookings, newest first
// @Summary List bookings
// @Tags Bookings
// @Produce json
// @Param type query string false "Booking type (HOTEL, FLIGHT, TRAIN)"
// @Param page query int false "Page number"
// @Param limit query int false "Page size"
// @Success 200 {object} Response
// @Security BearerAuth
// @Router /api/bookings [get]
func (h *BookingHandler) List(c *gin.Context) {
	user, exists := middleware.GetUser(c)
	if !exists {
		respondUnauthorized(c)
		return
	}

	var typeFilter *models.BookingType
	if raw := c.Query("type"); raw != "" {
		bookingType := models.BookingType(raw)
		if !bookingType.Valid() {
			respondBadRequest(c, "type must be one of HOTEL, FLIGHT, TRAIN")
			return
		}
		typeFilter = &bookingType
	}

	page, err := h.service.List(user, typeFilter, parsePagination(c))
	if err != nil {
		respondError(c, err)
		return
	}

	respondPage(c, page.Bookings, page.Pagination)
}

// Stats returns the authenticated user's booking counts and spend
// @Summary Booking statistics
// @Tags Bookings
// @Produce json
// @Success 200 {object} Response
// @Security BearerAuth
// @Router /api/bookings/stats [get]
func (h *BookingHandler) Stats(c *gin.Context) {
	user, exists := middleware.GetUser(c)
	if !exists {
		respondUnauthorized(c)
		return
	}

	stats, err := h.service.Stats(user)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, stats)
}

// GetByID returns one booking owned by the authenticated user
// @Summary Get booking
// @Tags Bookings
// @Produce json
// @Param id path string true "Booking ID"
// @Success 200 {object} Response
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /api/bookings/{id} [get]
func (h *BookingHandler) GetByID(c *gin.Context) {
	user, exists := middleware.GetUser(c)
	if !exists {
		respondUnauthorized(c)
		return
	}

	booking, err := h.service.GetByID(user, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, booking)
}

// Cancel cancels a booking and releases its capacity
// @Summary Cancel booking
// @Tags Bookings
// @Produce json
// @Param id path string true "Booking ID"
// @Success 200 {object} Response
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /api/bookings/{id}/cancel [post]
func (h *BookingHandler) Cancel(c *gin.Context) {
	user, exists := middleware.GetUser(c)
	if !exists {
		respondUnauthorized(c)
		return
	}

	booking, err := h.service.Cancel(user, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, booking)
}
