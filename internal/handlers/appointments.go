package handlers

import (
	"fmt"
	"strings"
	"time"

	"appointment-booking-server/internal/models"
	"appointment-booking-server/internal/seed"
	"appointment-booking-server/internal/service"
	"appointment-booking-server/internal/store"
	"appointment-booking-server/internal/utils"
	"appointment-booking-server/internal/validation"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// AppointmentHandler handles appointment related requests.
type AppointmentHandler struct {
	Store   *store.AppointmentStore
	Service *service.AppointmentService
	Log     zerolog.Logger
}

// NewAppointmentHandler creates a new AppointmentHandler.
func NewAppointmentHandler(st *store.AppointmentStore, svc *service.AppointmentService, log zerolog.Logger) *AppointmentHandler {
	return &AppointmentHandler{Store: st, Service: svc, Log: log}
}

// ReasonRequest picks a catalog reason, with free text when the "other"
// entry is chosen.
type ReasonRequest struct {
	ReasonID     string `json:"reasonId" binding:"required"`
	CustomReason string `json:"customReason"`
}

// RescheduleRequest represents the request body for confirming a reschedule.
type RescheduleRequest struct {
	Date   string `json:"date" binding:"required"`
	Time   string `json:"time" binding:"required"`
	Reason string `json:"reason"`
}

// GetAppointments lists the patient's appointments, optionally filtered by status.
func (h *AppointmentHandler) GetAppointments(c *gin.Context) {
	appointments := h.Store.Appointments()

	if status := c.Query("status"); status != "" {
		want := models.AppointmentStatus(status)
		if !want.Valid() {
			utils.BadRequest(c, "Invalid status filter")
			return
		}
		filtered := make([]models.Appointment, 0, len(appointments))
		for _, a := range appointments {
			if a.Status == want {
				filtered = append(filtered, a)
			}
		}
		appointments = filtered
	}

	utils.Success(c, "Appointments retrieved successfully", appointments)
}

// GetAppointmentByID returns a single appointment.
func (h *AppointmentHandler) GetAppointmentByID(c *gin.Context) {
	apt, err := h.Store.Appointment(c.Param("id"))
	if err != nil {
		respondError(c, h.Log, err)
		return
	}
	utils.Success(c, "Appointment retrieved successfully", apt)
}

// CreateAppointment books a consultation and adds it to the store.
func (h *AppointmentHandler) CreateAppointment(c *gin.Context) {
	var req service.BookingRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	fields := map[string]string{}
	if _, err := models.ParseSchedule(req.Date, req.Time, time.Local); err != nil {
		fields["schedule"] = "Please select a valid date and time"
	}
	if req.Concern != nil {
		res := validation.ValidateConcern(validation.NewConcernForm(*req.Concern))
		for k, v := range res.Errors {
			fields[k] = v
		}
	}
	if len(fields) > 0 {
		utils.ValidationFailed(c, fields)
		return
	}

	if _, err := h.Store.Doctor(req.DoctorID); err != nil {
		respondError(c, h.Log, err)
		return
	}

	apt, err := h.Service.BookAppointment(c.Request.Context(), req)
	if err != nil {
		respondError(c, h.Log, err)
		return
	}
	if err := h.Store.AddAppointment(apt); err != nil {
		respondError(c, h.Log, err)
		return
	}

	h.Log.Info().Str("appointment_id", apt.ID).Str("booking_id", apt.BookingID).Str("doctor_id", apt.Doctor.ID).Msg("appointment booked")
	utils.Created(c, "Appointment booked successfully", apt)
}

// UpdateAppointment applies a partial update. Refunds are managed through
// cancellation and the refund endpoints only.
func (h *AppointmentHandler) UpdateAppointment(c *gin.Context) {
	var patch models.AppointmentPatch
	if !utils.BindAndValidate(c, &patch) {
		return
	}
	if patch.Refund != nil {
		utils.BadRequest(c, "Refunds cannot be changed through an appointment update")
		return
	}
	if patch.Concern != nil {
		if err := validation.ValidateConcern(validation.NewConcernForm(*patch.Concern)).Err(); err != nil {
			respondError(c, h.Log, err)
			return
		}
	}
	if patch.Status != nil && !patch.Status.Valid() {
		utils.BadRequest(c, "Invalid status")
		return
	}
	if patch.Type != nil && !patch.Type.Valid() {
		utils.BadRequest(c, "Invalid consultation type")
		return
	}

	apt, err := h.Store.UpdateAppointment(c.Param("id"), patch)
	if err != nil {
		respondError(c, h.Log, err)
		return
	}
	utils.Success(c, "Appointment updated successfully", apt)
}

// UpdateConcern replaces the concern after validating the edit-concern form.
func (h *AppointmentHandler) UpdateConcern(c *gin.Context) {
	var form validation.ConcernForm
	if !utils.BindAndValidate(c, &form) {
		return
	}
	if err := validation.ValidateConcern(form).Err(); err != nil {
		respondError(c, h.Log, err)
		return
	}

	concern := form.ToConcern()
	apt, err := h.Store.UpdateAppointment(c.Param("id"), models.AppointmentPatch{Concern: &concern})
	if err != nil {
		respondError(c, h.Log, err)
		return
	}
	utils.Success(c, "Concern updated successfully", apt)
}

// SubmitRescheduleReason records why the patient wants to move the
// appointment and marks it as being rescheduled.
func (h *AppointmentHandler) SubmitRescheduleReason(c *gin.Context) {
	var req ReasonRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	reason, err := resolveReason(seed.RescheduleReasons, req)
	if err == nil {
		err = validation.ValidateRescheduleReason(reason).Err()
	}
	if err != nil {
		respondError(c, h.Log, err)
		return
	}

	apt, err := h.Store.BeginReschedule(c.Param("id"))
	if err != nil {
		respondError(c, h.Log, err)
		return
	}
	utils.Success(c, "Reschedule reason recorded", gin.H{
		"appointment": apt,
		"reason":      reason,
	})
}

// RescheduleAppointment moves the appointment to a new date and time.
func (h *AppointmentHandler) RescheduleAppointment(c *gin.Context) {
	var req RescheduleRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}
	if _, err := models.ParseSchedule(req.Date, req.Time, time.Local); err != nil {
		utils.ValidationFailed(c, map[string]string{"schedule": "Please select a valid date and time"})
		return
	}

	id := c.Param("id")
	current, err := h.Store.Appointment(id)
	if err != nil {
		respondError(c, h.Log, err)
		return
	}
	if current.Status != models.StatusUpcoming && current.Status != models.StatusRescheduled {
		respondError(c, h.Log, fmt.Errorf("appointment %q: cannot reschedule a %s appointment: %w", id, current.Status, store.ErrInvalidStateTransition))
		return
	}

	if err := h.Service.RescheduleAppointment(c.Request.Context(), id, req.Date, req.Time, req.Reason); err != nil {
		respondError(c, h.Log, err)
		return
	}
	apt, err := h.Store.ConfirmReschedule(id, req.Date, req.Time)
	if err != nil {
		respondError(c, h.Log, err)
		return
	}

	h.Log.Info().Str("appointment_id", id).Str("date", req.Date).Str("time", req.Time).Msg("appointment rescheduled")
	utils.Success(c, "Appointment rescheduled successfully", apt)
}

// CancelAppointment cancels the appointment and opens a refund for its fee.
func (h *AppointmentHandler) CancelAppointment(c *gin.Context) {
	var req ReasonRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}
	reason, err := resolveReason(seed.CancelReasons, req)
	if err != nil {
		respondError(c, h.Log, err)
		return
	}

	id := c.Param("id")
	current, err := h.Store.Appointment(id)
	if err != nil {
		respondError(c, h.Log, err)
		return
	}
	if !current.Status.CanTransitionTo(models.StatusCancelled) {
		respondError(c, h.Log, fmt.Errorf("appointment %q: cannot cancel a %s appointment: %w", id, current.Status, store.ErrInvalidStateTransition))
		return
	}

	if err := h.Service.CancelAppointment(c.Request.Context(), id, reason); err != nil {
		respondError(c, h.Log, err)
		return
	}
	apt, err := h.Store.CancelAppointment(id, reason)
	if err != nil {
		respondError(c, h.Log, err)
		return
	}

	h.Log.Info().Str("appointment_id", id).Str("reason", reason).Msg("appointment cancelled")
	utils.Success(c, "Appointment cancelled successfully", apt)
}

// CompleteAppointment marks an upcoming appointment as completed.
func (h *AppointmentHandler) CompleteAppointment(c *gin.Context) {
	apt, err := h.Store.CompleteAppointment(c.Param("id"))
	if err != nil {
		respondError(c, h.Log, err)
		return
	}
	utils.Success(c, "Appointment completed successfully", apt)
}

// GetRefund returns the refund attached to a cancelled appointment.
func (h *AppointmentHandler) GetRefund(c *gin.Context) {
	apt, err := h.Store.Appointment(c.Param("id"))
	if err != nil {
		respondError(c, h.Log, err)
		return
	}
	if apt.Refund == nil {
		utils.NotFound(c, "No refund for this appointment")
		return
	}
	utils.Success(c, "Refund retrieved successfully", apt.Refund)
}

// ProcessRefund settles the refund of a cancelled appointment. The amount
// and reason recorded at cancellation are kept.
func (h *AppointmentHandler) ProcessRefund(c *gin.Context) {
	id := c.Param("id")
	apt, err := h.Store.Appointment(id)
	if err != nil {
		respondError(c, h.Log, err)
		return
	}
	if apt.Refund == nil {
		utils.NotFound(c, "No refund for this appointment")
		return
	}

	refund, err := h.Service.ProcessRefund(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.Log, err)
		return
	}
	refund.Amount = apt.Refund.Amount
	if apt.Refund.Reason != "" {
		refund.Reason = apt.Refund.Reason
	}

	updated, err := h.Store.AttachRefund(id, refund)
	if err != nil {
		respondError(c, h.Log, err)
		return
	}

	h.Log.Info().Str("appointment_id", id).Float64("amount", refund.Amount).Str("status", string(refund.Status)).Msg("refund processed")
	utils.Success(c, "Refund processed successfully", updated.Refund)
}

// resolveReason turns a catalog pick into the reason text to record.
func resolveReason(catalog []seed.Reason, req ReasonRequest) (string, error) {
	r, ok := seed.FindReason(catalog, req.ReasonID)
	if !ok {
		return "", &validation.Error{Fields: map[string]string{"reasonId": "Please select a valid reason"}}
	}
	if r.ID != seed.OtherReasonID {
		return r.Title, nil
	}
	if err := validation.ValidateCustomReason(req.CustomReason).Err(); err != nil {
		return "", err
	}
	return strings.TrimSpace(req.CustomReason), nil
}
