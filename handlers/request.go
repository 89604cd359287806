package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	requestRepo "fitbook/database/repository/request"
	"fitbook/models"
	"fitbook/services/booking"
	"fitbook/utils"
)

// RequestHandler exposes the booking request lifecycle over HTTP.
type RequestHandler struct {
	Workflow *booking.Workflow
	Requests requestRepo.Repository
}

func NewRequestHandler(workflow *booking.Workflow, requests requestRepo.Repository) *RequestHandler {
	return &RequestHandler{Workflow: workflow, Requests: requests}
}

// Create submits a new booking request.
func (h *RequestHandler) Create(c *gin.Context) {
	logger := getLogger(c)

	var input models.CreateRequestInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	req, err := h.Workflow.Submit(c.Request.Context(), input)
	if err != nil {
		respondError(c, logger, err)
		return
	}
	c.JSON(http.StatusCreated, req)
}

// List returns requests, optionally filtered by trainer, client, or status.
func (h *RequestHandler) List(c *gin.Context) {
	logger := getLogger(c)

	filter := models.RequestFilter{
		TrainerID: c.Query("trainerId"),
		ClientID:  c.Query("clientId"),
		Status:    models.RequestStatus(c.Query("status")),
	}
	requests, err := h.Requests.List(c.Request.Context(), filter)
	if err != nil {
		respondError(c, logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"requests": requests})
}

// Get returns a single request by id.
func (h *RequestHandler) Get(c *gin.Context) {
	logger := getLogger(c)

	req, err := h.Requests.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, logger, err)
		return
	}
	c.JSON(http.StatusOK, req)
}

// Candidates returns ranked slot candidates for a pending request.
func (h *RequestHandler) Candidates(c *gin.Context) {
	logger := getLogger(c)

	limit := 0
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			utils.JSONError(c, http.StatusBadRequest, "invalid limit", raw)
			return
		}
		limit = parsed
	}

	candidates, err := h.Workflow.Candidates(c.Request.Context(), c.Param("id"), limit)
	if err != nil {
		respondError(c, logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"candidates": candidates})
}

// Approve commits a request to a booking. The body may name an explicit slot
// sequence; otherwise the best candidate is used.
func (h *RequestHandler) Approve(c *gin.Context) {
	logger := getLogger(c)

	var input struct {
		SlotIDs []string `json:"slotIds"`
	}
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&input); err != nil {
			utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
			return
		}
	}

	bkg, session, err := h.Workflow.Approve(c.Request.Context(), c.Param("id"), input.SlotIDs)
	if err != nil {
		respondError(c, logger, err)
		return
	}

	logger.Info("booking request approved",
		zap.String("requestId", c.Param("id")),
		zap.String("bookingId", bkg.ID),
	)
	c.JSON(http.StatusOK, gin.H{"booking": bkg, "session": session})
}

// Reject declines a pending request.
func (h *RequestHandler) Reject(c *gin.Context) {
	logger := getLogger(c)

	var input struct {
		Reason string `json:"reason"`
	}
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&input); err != nil {
			utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
			return
		}
	}

	req, err := h.Workflow.Reject(c.Request.Context(), c.Param("id"), input.Reason)
	if err != nil {
		respondError(c, logger, err)
		return
	}
	c.JSON(http.StatusOK, req)
}
