package handlers

import (
	"context"
	"errors"
	"net/http"

	"appointment-booking-server/internal/service"
	"appointment-booking-server/internal/store"
	"appointment-booking-server/internal/utils"
	"appointment-booking-server/internal/validation"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// respondError maps domain errors onto HTTP responses.
func respondError(c *gin.Context, log zerolog.Logger, err error) {
	var verr *validation.Error
	var ferr *service.FailureError

	switch {
	case errors.As(err, &verr):
		utils.ValidationFailed(c, verr.Fields)
	case errors.As(err, &ferr):
		log.Warn().Err(err).Str("path", c.FullPath()).Str("appointment_id", c.Param("id")).Msg("backend call failed")
		utils.ServiceUnavailable(c, ferr.Message)
	case errors.Is(err, store.ErrNotFound), errors.Is(err, store.ErrNoActiveUser):
		utils.NotFound(c, err.Error())
	case errors.Is(err, store.ErrInvalidRecord):
		utils.BadRequest(c, err.Error())
	case errors.Is(err, store.ErrDuplicateID), errors.Is(err, store.ErrInvalidStateTransition):
		log.Warn().Err(err).Str("appointment_id", c.Param("id")).Msg("store rejected change")
		utils.Conflict(c, err.Error())
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		utils.Error(c, http.StatusRequestTimeout, "Request was cancelled")
	default:
		log.Error().Err(err).Str("path", c.FullPath()).Msg("unexpected error")
		utils.InternalServerError(c, "Something went wrong. Please try again.")
	}
}
