package handlers

import (
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/tripbound/travel-booking-backend/internal/middleware"
	"github.com/tripbound/travel-booking-backend/internal/models"
	"github.com/tripbound/travel-booking-backend/internal/services"
)

const dateLayout = "2006-01-02"

// HotelHandler handles hotel catalog and booking endpoints
type HotelHandler struct {
	service *services.HotelService
}

// NewHotelHandler creates a new HotelHandler
func NewHotelHandler(service *services.HotelService) *HotelHandler {
	return &HotelHandler{service: service}
}

// Search searches hotels by city and stay window
// @Summary Search hotels
// @Description Search active hotels with per-room stay pricing
// @Tags Hotels
// @Produce json
// @Param city query string true "Destination city"
// @Param checkInDate query string true "Check-in date (YYYY-MM-DD)"
// @Param checkOutDate query string true "Check-out date (YYYY-MM-DD)"
// @Param guests query int false "Guest count"
// @Success 200 {object} Response
// @Failure 400 {object} ErrorResponse
// @Router /api/hotels/search [get]
func (h *HotelHandler) Search(c *gin.Context) {
	city := c.Query("city")
	if city == "" {
		respondBadRequest(c, "city is required")
		return
	}

	checkIn, err := parseDate(c.Query("checkInDate"))
	if err != nil {
		respondBadRequest(c, "checkInDate must be a valid date (YYYY-MM-DD)")
		return
	}
	checkOut, err := parseDate(c.Query("checkOutDate"))
	if err != nil {
		respondBadRequest(c, "checkOutDate must be a valid date (YYYY-MM-DD)")
		return
	}
	if !checkOut.After(checkIn) {
		respondBadRequest(c, "Check-out date must be after check-in date")
		return
	}

	filters := models.HotelSearchFilters{
		City:         city,
		CheckInDate:  checkIn,
		CheckOutDate: checkOut,
		Guests:       queryInt(c, "guests", 1),
		MinPrice:     queryFloatPtr(c, "minPrice"),
		MaxPrice:     queryFloatPtr(c, "maxPrice"),
		StarRating:   queryIntPtr(c, "starRating"),
		SortBy:       c.Query("sortBy"),
		SortOrder:    c.DefaultQuery("sortOrder", models.SortAsc),
	}
	if amenities := c.Query("amenities"); amenities != "" {
		for _, a := range strings.Split(amenities, ",") {
			if trimmed := strings.TrimSpace(a); trimmed != "" {
				filters.Amenities = append(filters.Amenities, trimmed)
			}
		}
	}

	page, err := h.service.Search(c.Request.Context(), filters, parsePagination(c))
	if err != nil {
		respondError(c, err)
		return
	}

	respondPage(c, page.Results, page.Pagination)
}

// GetHotel returns one hotel with its rooms and rates
// @Summary Get hotel details
// @Tags Hotels
// @Produce json
// @Param id path string true "Hotel ID"
// @Success 200 {object} Response
// @Failure 404 {object} ErrorResponse
// @Router /api/hotels/{id} [get]
func (h *HotelHandler) GetHotel(c *gin.Context) {
	hotel, err := h.service.GetHotel(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, hotel)
}

// CheckAvailability quotes a room for a stay window
// @Summary Check room availability
// @Tags Hotels
// @Produce json
// @Param id path string true "Hotel ID"
// @Param roomId query string true "Room ID"
// @Param checkInDate query string true "Check-in date (YYYY-MM-DD)"
// @Param checkOutDate query string true "Check-out date (YYYY-MM-DD)"
// @Param guests query int false "Guest count"
// @Success 200 {object} Response
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /api/hotels/{id}/availability [get]
func (h *HotelHandler) CheckAvailability(c *gin.Context) {
	roomID := c.Query("roomId")
	if roomID == "" {
		respondBadRequest(c, "roomId is required")
		return
	}
	checkIn, err := parseDate(c.Query("checkInDate"))
	if err != nil {
		respondBadRequest(c, "checkInDate must be a valid date (YYYY-MM-DD)")
		return
	}
	checkOut, err := parseDate(c.Query("checkOutDate"))
	if err != nil {
		respondBadRequest(c, "checkOutDate must be a valid date (YYYY-MM-DD)")
		return
	}

	quote, err := h.service.CheckRoomAvailability(c.Param("id"), roomID, checkIn, checkOut, queryInt(c, "guests", 1))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, quote)
}

// CreateBooking books a room for the authenticated user
// @Summary Create hotel booking
// @Tags Hotels
// @Accept json
// @Produce json
// @Param request body models.CreateHotelBookingRequest true "Booking request"
// @Success 201 {object} Response
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Security BearerAuth
// @Router /api/hotels/bookings [post]
func (h *HotelHandler) CreateBooking(c *gin.Context) {
	user, exists := middleware.GetUser(c)
	if !exists {
		respondUnauthorized(c)
		return
	}

	var req models.CreateHotelBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	checkIn, err := parseDate(req.CheckInDate)
	if err != nil {
		respondBadRequest(c, "checkInDate must be a valid date (YYYY-MM-DD)")
		return
	}
	checkOut, err := parseDate(req.CheckOutDate)
	if err != nil {
		respondBadRequest(c, "checkOutDate must be a valid date (YYYY-MM-DD)")
		return
	}

	booking, err := h.service.CreateBooking(user, req, checkIn, checkOut)
	if err != nil {
		respondError(c, err)
		return
	}
	respondCreated(c, booking)
}

// Shared query helpers

func parseDate(value string) (time.Time, error) {
	return time.Parse(dateLayout, value)
}

func parsePagination(c *gin.Context) models.PaginationParams {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(models.DefaultPageLimit)))
	return models.NewPaginationParams(page, limit)
}

func queryInt(c *gin.Context, key string, fallback int) int {
	value, err := strconv.Atoi(c.Query(key))
	if err != nil {
		return fallback
	}
	return value
}

func queryIntPtr(c *gin.Context, key string) *int {
	raw := c.Query(key)
	if raw == "" {
		return nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return nil
	}
	return &value
}

func queryFloatPtr(c *gin.Context, key string) *float64 {
	raw := c.Query(key)
	if raw == "" {
		return nil
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil
	}
	return &value
}

func queryStringPtr(c *gin.Context, key string) *string {
	raw := c.Query(key)
	if raw == "" {
		return nil
	}
	return &raw
}
