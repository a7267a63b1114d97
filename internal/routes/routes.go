package routes

import (
	"time"

	"appointment-booking-server/internal/config"
	"appointment-booking-server/internal/events"
	"appointment-booking-server/internal/handlers"
	"appointment-booking-server/internal/middleware"
	"appointment-booking-server/internal/service"
	"appointment-booking-server/internal/store"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// Dependencies are the shared components the handlers are built from.
type Dependencies struct {
	Config      *config.Config
	Store       *store.AppointmentStore
	Service     *service.AppointmentService
	Broadcaster *events.Broadcaster
	Log         zerolog.Logger
}

// SetupRoutes configures the application routes.
func SetupRoutes(router *gin.Engine, deps Dependencies) {
	cfg := deps.Config

	// Initialize handlers
	sessionHandler := handlers.NewSessionHandler(deps.Store, cfg.JWTSecret, time.Duration(cfg.JWTExpirationMinutes)*time.Minute, deps.Log)
	profileHandler := handlers.NewProfileHandler(deps.Store, deps.Log)
	doctorHandler := handlers.NewDoctorHandler(deps.Store, deps.Service, deps.Log)
	appointmentHandler := handlers.NewAppointmentHandler(deps.Store, deps.Service, deps.Log)
	eventHandler := handlers.NewEventHandler(deps.Broadcaster)

	// Public routes (no authentication required)
	public := router.Group("/api/v1")
	{
		public.POST("/session", sessionHandler.CreateSession)
	}

	// Authenticated routes
	private := router.Group("/api/v1")
	private.Use(middleware.AuthMiddleware(cfg.JWTSecret))
	{
		profileRoutes := private.Group("/profile")
		{
			profileRoutes.GET("", profileHandler.GetProfile)
			profileRoutes.PUT("", profileHandler.UpdateProfile)
			profileRoutes.PUT("/basic-info", profileHandler.UpdateBasicInfo)
		}

		doctorRoutes := private.Group("/doctors")
		{
			doctorRoutes.GET("", doctorHandler.GetDoctors)
			doctorRoutes.GET("/:id/slots", doctorHandler.GetAvailableSlots)
		}

		reasonRoutes := private.Group("/reasons")
		{
			reasonRoutes.GET("/reschedule", handlers.GetRescheduleReasons)
			reasonRoutes.GET("/cancel", handlers.GetCancelReasons)
		}

		appointmentRoutes := private.Group("/appointments")
		{
			appointmentRoutes.GET("", appointmentHandler.GetAppointments)
			appointmentRoutes.POST("", appointmentHandler.CreateAppointment)
			appointmentRoutes.GET("/:id", appointmentHandler.GetAppointmentByID)
			appointmentRoutes.PATCH("/:id", appointmentHandler.UpdateAppointment)
			appointmentRoutes.PUT("/:id/concern", appointmentHandler.UpdateConcern)

			// Reason first, then the new slot
			appointmentRoutes.POST("/:id/reschedule/reason", appointmentHandler.SubmitRescheduleReason)
			appointmentRoutes.POST("/:id/reschedule", appointmentHandler.RescheduleAppointment)

			appointmentRoutes.POST("/:id/cancel", appointmentHandler.CancelAppointment)
			appointmentRoutes.POST("/:id/complete", appointmentHandler.CompleteAppointment)
			appointmentRoutes.GET("/:id/refund", appointmentHandler.GetRefund)
			appointmentRoutes.POST("/:id/refund/process", appointmentHandler.ProcessRefund)
		}

		private.GET("/events", eventHandler.Stream)
	}

	// Simple health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "UP"})
	})
}
