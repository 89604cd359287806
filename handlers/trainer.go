package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	trainerRepo "fitbook/database/repository/trainer"
	"fitbook/models"
	"fitbook/utils"
)

// TrainerHandler exposes trainer records over HTTP.
type TrainerHandler struct {
	Trainers trainerRepo.Repository
}

func NewTrainerHandler(trainers trainerRepo.Repository) *TrainerHandler {
	return &TrainerHandler{Trainers: trainers}
}

// Create registers a new trainer.
func (h *TrainerHandler) Create(c *gin.Context) {
	logger := getLogger(c)

	var input models.CreateTrainerInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	trainer := &models.Trainer{
		ID:         uuid.New().String(),
		Name:       input.Name,
		Email:      input.Email,
		Specialty:  input.Specialty,
		HourlyRate: input.HourlyRate,
		CreatedAt:  time.Now(),
	}
	if err := h.Trainers.Create(c.Request.Context(), trainer); err != nil {
		respondError(c, logger, err)
		return
	}
	c.JSON(http.StatusCreated, trainer)
}

// Get returns a trainer by id.
func (h *TrainerHandler) Get(c *gin.Context) {
	logger := getLogger(c)

	trainer, err := h.Trainers.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, logger, err)
		return
	}
	c.JSON(http.StatusOK, trainer)
}

// List returns all trainers.
func (h *TrainerHandler) List(c *gin.Context) {
	logger := getLogger(c)

	trainers, err := h.Trainers.List(c.Request.Context())
	if err != nil {
		respondError(c, logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"trainers": trainers})
}
