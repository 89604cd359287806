package routes

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"fitbook/handlers"
	"fitbook/utils"
)

// RegisterRequestRoutes sets up the booking request lifecycle endpoints.
func RegisterRequestRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/requests")
	{
		api.POST("", hb.Requests.Create)
		api.GET("", hb.Requests.List)
		api.GET("/:id", hb.Requests.Get)
		api.GET("/:id/candidates", hb.Requests.Candidates)
		api.POST("/:id/approve", hb.Requests.Approve)
		api.POST("/:id/reject", hb.Requests.Reject)
	}
}

// RegisterBookingRoutes sets up endpoints for confirmed bookings.
func RegisterBookingRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/bookings")
	{
		api.GET("", hb.Bookings.List)
		api.GET("/:id", hb.Bookings.Get)
		api.POST("/:id/cancel", hb.Bookings.Cancel)
		api.POST("/:id/reschedule", hb.Bookings.Reschedule)
	}
}

// RegisterTrainerRoutes sets up trainer and slot inventory endpoints.
func RegisterTrainerRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/trainers")
	{
		api.POST("", hb.Trainers.Create)
		api.GET("", hb.Trainers.List)
		api.GET("/:id", hb.Trainers.Get)
		api.GET("/:id/slots", hb.Slots.ListAvailable)
		api.POST("/:id/slots/bulk", hb.Slots.BulkCreate)
	}
}

// RegisterClientRoutes sets up client record endpoints.
func RegisterClientRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/clients")
	{
		api.POST("", hb.Clients.Create)
		api.GET("", hb.Clients.List)
		api.GET("/:id", hb.Clients.Get)
	}
}

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, utils.GetHealthStatus())
	})
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	RegisterRequestRoutes(r, hb)
	RegisterBookingRoutes(r, hb)
	RegisterTrainerRoutes(r, hb)
	RegisterClientRoutes(r, hb)
	RegisterHealthRoute(r)
}
