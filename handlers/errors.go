package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"fitbook/services/booking"
	"fitbook/utils"
)

// respondError maps booking-core errors to HTTP statuses. Conflicts from the
// reservation protocol are 409 so clients know to re-fetch candidates.
func respondError(c *gin.Context, logger *zap.Logger, err error) {
	var (
		unavailable booking.SlotUnavailableError
		conflict    booking.ConcurrencyConflictError
		infeasible  booking.InfeasibleDurationError
		badState    booking.InvalidStateTransitionError
	)

	switch {
	case errors.As(err, &unavailable):
		utils.JSONError(c, http.StatusConflict, "slot unavailable", err.Error())
	case errors.As(err, &conflict):
		utils.JSONError(c, http.StatusConflict, "concurrent booking detected", err.Error())
	case errors.As(err, &infeasible):
		utils.JSONError(c, http.StatusUnprocessableEntity, "no feasible slot sequence", err.Error())
	case errors.As(err, &badState):
		utils.JSONError(c, http.StatusConflict, "invalid state transition", err.Error())
	case errors.Is(err, mongo.ErrNoDocuments):
		utils.JSONError(c, http.StatusNotFound, "not found", err.Error())
	default:
		logger.Error("request failed", zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "internal error", err.Error())
	}
}
