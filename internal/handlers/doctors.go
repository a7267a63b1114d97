package handlers

import (
	"time"

	"appointment-booking-server/internal/models"
	"appointment-booking-server/internal/seed"
	"appointment-booking-server/internal/service"
	"appointment-booking-server/internal/store"
	"appointment-booking-server/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// DoctorHandler handles the doctor directory and slot lookups.
type DoctorHandler struct {
	Store   *store.AppointmentStore
	Service *service.AppointmentService
	Log     zerolog.Logger
}

// NewDoctorHandler creates a new DoctorHandler.
func NewDoctorHandler(st *store.AppointmentStore, svc *service.AppointmentService, log zerolog.Logger) *DoctorHandler {
	return &DoctorHandler{Store: st, Service: svc, Log: log}
}

// GetDoctors lists every doctor.
func (h *DoctorHandler) GetDoctors(c *gin.Context) {
	utils.Success(c, "Doctors retrieved successfully", h.Store.Doctors())
}

// GetAvailableSlots lists the free slots of a doctor on the requested date.
func (h *DoctorHandler) GetAvailableSlots(c *gin.Context) {
	doctorID := c.Param("id")
	date := c.Query("date")
	if date == "" {
		utils.BadRequest(c, "date query parameter is required")
		return
	}
	if _, err := models.ParseSchedule(date, "00:00", time.Local); err != nil {
		utils.BadRequest(c, err.Error())
		return
	}
	if _, err := h.Store.Doctor(doctorID); err != nil {
		respondError(c, h.Log, err)
		return
	}

	slots, err := h.Service.GetAvailableSlots(c.Request.Context(), doctorID, date)
	if err != nil {
		respondError(c, h.Log, err)
		return
	}
	utils.Success(c, "Available slots retrieved successfully", gin.H{
		"doctorId": doctorID,
		"date":     date,
		"slots":    slots,
	})
}

// GetRescheduleReasons lists the reasons offered when rescheduling.
func GetRescheduleReasons(c *gin.Context) {
	utils.Success(c, "Reschedule reasons retrieved successfully", seed.RescheduleReasons)
}

// GetCancelReasons lists the reasons offered when cancelling.
func GetCancelReasons(c *gin.Context) {
	utils.Success(c, "Cancellation reasons retrieved successfully", seed.CancelReasons)
}
