package handlers

import (
	"time"

	"appointment-booking-server/internal/store"
	"appointment-booking-server/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// SessionHandler issues session tokens for the signed-in patient.
type SessionHandler struct {
	Store  *store.AppointmentStore
	Secret string
	TTL    time.Duration
	Log    zerolog.Logger
}

// NewSessionHandler creates a new SessionHandler.
func NewSessionHandler(st *store.AppointmentStore, secret string, ttl time.Duration, log zerolog.Logger) *SessionHandler {
	return &SessionHandler{Store: st, Secret: secret, TTL: ttl, Log: log}
}

// CreateSession returns a bearer token for the store's current user.
func (h *SessionHandler) CreateSession(c *gin.Context) {
	user, err := h.Store.User()
	if err != nil {
		respondError(c, h.Log, err)
		return
	}

	token, expiresAt, err := utils.GenerateSessionToken(user.ID, h.Secret, h.TTL, time.Now())
	if err != nil {
		h.Log.Error().Err(err).Msg("failed to issue session token")
		utils.InternalServerError(c, "Failed to create session")
		return
	}

	utils.Created(c, "Session created successfully", gin.H{
		"token":     token,
		"expiresAt": expiresAt,
		"user":      user,
	})
}
