package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	bookingRepo "fitbook/database/repository/booking"
	"fitbook/models"
	"fitbook/services/booking"
	"fitbook/utils"
)

// BookingHandler exposes confirmed bookings over HTTP.
type BookingHandler struct {
	Workflow *booking.Workflow
	Bookings bookingRepo.Repository
}

func NewBookingHandler(workflow *booking.Workflow, bookings bookingRepo.Repository) *BookingHandler {
	return &BookingHandler{Workflow: workflow, Bookings: bookings}
}

// List returns bookings, optionally filtered by trainer, client, or status.
func (h *BookingHandler) List(c *gin.Context) {
	logger := getLogger(c)

	filter := models.BookingFilter{
		TrainerID: c.Query("trainerId"),
		ClientID:  c.Query("clientId"),
		Status:    models.BookingStatus(c.Query("status")),
	}
	bookings, err := h.Bookings.List(c.Request.Context(), filter)
	if err != nil {
		respondError(c, logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"bookings": bookings})
}

// Get returns a booking and its session.
func (h *BookingHandler) Get(c *gin.Context) {
	logger := getLogger(c)

	bkg, err := h.Bookings.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, logger, err)
		return
	}
	session, err := h.Bookings.GetSessionByBookingID(c.Request.Context(), bkg.ID)
	if err != nil {
		respondError(c, logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"booking": bkg, "session": session})
}

// Cancel releases a booking's slots and cancels its session.
func (h *BookingHandler) Cancel(c *gin.Context) {
	logger := getLogger(c)

	if err := h.Workflow.CancelBooking(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, logger, err)
		return
	}

	logger.Info("booking cancelled", zap.String("bookingId", c.Param("id")))
	c.JSON(http.StatusOK, gin.H{"status": "cancelled"})
}

// Reschedule moves a confirmed booking to a new date and start time.
func (h *BookingHandler) Reschedule(c *gin.Context) {
	logger := getLogger(c)

	var input models.RescheduleInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	bkg, err := h.Workflow.Reschedule(c.Request.Context(), c.Param("id"), input)
	if err != nil {
		respondError(c, logger, err)
		return
	}
	c.JSON(http.StatusOK, bkg)
}
