package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"fitbook/models"
	"fitbook/services"
	"fitbook/utils"
)

// SlotHandler exposes a trainer's slot inventory over HTTP.
type SlotHandler struct {
	Availability services.AvailabilityService
	Slots        services.SlotService
	Granularity  int
}

func NewSlotHandler(availability services.AvailabilityService, slots services.SlotService, granularity int) *SlotHandler {
	return &SlotHandler{Availability: availability, Slots: slots, Granularity: granularity}
}

// ListAvailable returns the bookable slots for a trainer on a date. An
// optional duration narrows the listing to slots that can anchor a session
// of that length.
func (h *SlotHandler) ListAvailable(c *gin.Context) {
	logger := getLogger(c)

	date := c.Query("date")
	if _, err := utils.ParseDate(date); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid or missing date", date)
		return
	}

	duration := h.Granularity
	if raw := c.Query("duration"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			utils.JSONError(c, http.StatusBadRequest, "invalid duration", raw)
			return
		}
		duration = parsed
	}

	slots, err := h.Availability.ListAvailableSlots(c.Request.Context(), c.Param("id"), date, duration)
	if err != nil {
		respondError(c, logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"slots": slots})
}

// BulkCreate sets up a trainer's slots from a daily template over a date range.
func (h *SlotHandler) BulkCreate(c *gin.Context) {
	logger := getLogger(c)

	var input models.BulkCreateSlotsRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	ids, err := h.Slots.BulkCreate(c.Request.Context(), c.Param("id"), input)
	if err != nil {
		respondError(c, logger, err)
		return
	}

	logger.Info("slots created",
		zap.String("trainerId", c.Param("id")),
		zap.Int("count", len(ids)),
	)
	c.JSON(http.StatusCreated, gin.H{"slotIds": ids, "count": len(ids)})
}
