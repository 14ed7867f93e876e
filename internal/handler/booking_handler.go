package handler

import (
	"net/http"

	"github.com/WIN24-GruppProjekt/BookingService/internal/application"
	"github.com/WIN24-GruppProjekt/BookingService/internal/domain"
	"github.com/gin-gonic/gin"
)

// BookingHandler maps HTTP requests onto the booking service. It holds no
// business logic; every outcome is the service's result envelope translated
// to a status code.
type BookingHandler struct {
	service application.BookingService
}

// NewBookingHandler creates a new BookingHandler.
func NewBookingHandler(service application.BookingService) *BookingHandler {
	return &BookingHandler{service: service}
}

// RegisterRoutes registers all booking routes on the given router group.
func (h *BookingHandler) RegisterRoutes(r *gin.RouterGroup) {
	bookings := r.Group("/api/bookings")
	{
		bookings.POST("", h.CreateBooking)
		bookings.GET("/user/:userId", h.GetBookingsByUser)
		bookings.GET("/event/:eventId/participants", h.GetActiveParticipants)
		bookings.DELETE("/:bookingId", h.DeleteBooking)
		bookings.DELETE("/user/:userId", h.DeleteBookingsForUser)
		bookings.DELETE("/event/:eventId", h.DeleteBookingsForEvent)
	}
}

// CreateBooking handles POST /api/bookings.
func (h *BookingHandler) CreateBooking(c *gin.Context) {
	var req application.CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, domain.Fail(err.Error()))
		return
	}

	result := h.service.CreateBooking(c.Request.Context(), req)
	if !result.Success {
		c.JSON(http.StatusBadRequest, result)
		return
	}
	c.JSON(http.StatusOK, result)
}

// GetBookingsByUser handles GET /api/bookings/user/:userId.
func (h *BookingHandler) GetBookingsByUser(c *gin.Context) {
	result := h.service.BookingsByUser(c.Request.Context(), c.Param("userId"))
	if !result.Success {
		c.JSON(http.StatusInternalServerError, result.Result)
		return
	}
	c.JSON(http.StatusOK, result.Data)
}

// GetActiveParticipants handles GET /api/bookings/event/:eventId/participants.
func (h *BookingHandler) GetActiveParticipants(c *gin.Context) {
	result := h.service.ActiveParticipantsForEvent(c.Request.Context(), c.Param("eventId"))
	if !result.Success {
		c.JSON(http.StatusInternalServerError, result.Result)
		return
	}
	c.JSON(http.StatusOK, result.Data)
}

// DeleteBooking handles DELETE /api/bookings/:bookingId.
func (h *BookingHandler) DeleteBooking(c *gin.Context) {
	result := h.service.DeleteBooking(c.Request.Context(), c.Param("bookingId"))
	if !result.Success {
		c.JSON(http.StatusNotFound, result)
		return
	}
	c.JSON(http.StatusOK, result)
}

// DeleteBookingsForUser handles DELETE /api/bookings/user/:userId.
func (h *BookingHandler) DeleteBookingsForUser(c *gin.Context) {
	result := h.service.DeleteBookingsForUser(c.Request.Context(), c.Param("userId"))
	if !result.Success {
		c.JSON(http.StatusNotFound, result)
		return
	}
	c.JSON(http.StatusOK, result)
}

// DeleteBookingsForEvent handles DELETE /api/bookings/event/:eventId.
func (h *BookingHandler) DeleteBookingsForEvent(c *gin.Context) {
	result := h.service.DeleteBookingsForEvent(c.Request.Context(), c.Param("eventId"))
	if !result.Success {
		c.JSON(http.StatusNotFound, result)
		return
	}
	c.JSON(http.StatusOK, result)
}
