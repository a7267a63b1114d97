package handlers

import (
	"appointment-booking-server/internal/middleware"
	"appointment-booking-server/internal/models"
	"appointment-booking-server/internal/store"
	"appointment-booking-server/internal/utils"
	"appointment-booking-server/internal/validation"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// ProfileHandler handles the patient profile.
type ProfileHandler struct {
	Store *store.AppointmentStore
	Log   zerolog.Logger
}

// NewProfileHandler creates a new ProfileHandler.
func NewProfileHandler(st *store.AppointmentStore, log zerolog.Logger) *ProfileHandler {
	return &ProfileHandler{Store: st, Log: log}
}

// activeUser returns the current user. A session issued to a different user
// is refused.
func (h *ProfileHandler) activeUser(c *gin.Context) (models.User, bool) {
	user, err := h.Store.User()
	if err != nil {
		respondError(c, h.Log, err)
		return models.User{}, false
	}
	if id, ok := middleware.GetUserIDFromContext(c); ok && id != user.ID {
		h.Log.Warn().Str("session_user", id).Str("active_user", user.ID).Msg("session does not match active user")
		utils.Unauthorized(c, "Session does not belong to the active user")
		return models.User{}, false
	}
	return user, true
}

// GetProfile returns the current user.
func (h *ProfileHandler) GetProfile(c *gin.Context) {
	user, ok := h.activeUser(c)
	if !ok {
		return
	}
	utils.Success(c, "Profile retrieved successfully", user)
}

// UpdateProfile merges the supplied fields into the current user. Basic-info
// fields follow the same rules as UpdateBasicInfo.
func (h *ProfileHandler) UpdateProfile(c *gin.Context) {
	var patch models.UserPatch
	if !utils.BindAndValidate(c, &patch) {
		return
	}
	if _, ok := h.activeUser(c); !ok {
		return
	}

	var email, phone string
	if patch.Email != nil {
		email = *patch.Email
	}
	if patch.Phone != nil {
		phone = *patch.Phone
	}
	res := validation.ValidateContact(email, phone)
	for field, msg := range validation.ValidateProfilePatch(patch).Errors {
		res.Errors[field] = msg
	}
	if err := res.Err(); err != nil {
		respondError(c, h.Log, err)
		return
	}

	user, err := h.Store.UpdateUser(patch)
	if err != nil {
		respondError(c, h.Log, err)
		return
	}
	utils.Success(c, "Profile updated successfully", user)
}

// UpdateBasicInfo saves the basic-info form after validating it.
func (h *ProfileHandler) UpdateBasicInfo(c *gin.Context) {
	var form validation.BasicInfo
	if !utils.BindAndValidate(c, &form) {
		return
	}
	if err := validation.ValidateBasicInfo(form).Err(); err != nil {
		respondError(c, h.Log, err)
		return
	}
	if _, ok := h.activeUser(c); !ok {
		return
	}

	user, err := h.Store.UpdateUser(form.Patch())
	if err != nil {
		respondError(c, h.Log, err)
		return
	}
	utils.Success(c, "Basic information updated successfully", user)
}
