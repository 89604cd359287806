package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	clientRepo "fitbook/database/repository/client"
	"fitbook/models"
	"fitbook/utils"
)

// ClientHandler exposes client records over HTTP.
type ClientHandler struct {
	Clients clientRepo.Repository
}

func NewClientHandler(clients clientRepo.Repository) *ClientHandler {
	return &ClientHandler{Clients: clients}
}

// Create registers a new client.
func (h *ClientHandler) Create(c *gin.Context) {
	logger := getLogger(c)

	var input models.CreateClientInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	client := &models.Client{
		ID:        uuid.New().String(),
		Name:      input.Name,
		Email:     input.Email,
		Goal:      input.Goal,
		CreatedAt: time.Now(),
	}
	if err := h.Clients.Create(c.Request.Context(), client); err != nil {
		respondError(c, logger, err)
		return
	}
	c.JSON(http.StatusCreated, client)
}

// Get returns a client by id.
func (h *ClientHandler) Get(c *gin.Context) {
	logger := getLogger(c)

	client, err := h.Clients.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, logger, err)
		return
	}
	c.JSON(http.StatusOK, client)
}

// List returns all clients.
func (h *ClientHandler) List(c *gin.Context) {
	logger := getLogger(c)

	clients, err := h.Clients.List(c.Request.Context())
	if err != nil {
		respondError(c, logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"clients": clients})
}
