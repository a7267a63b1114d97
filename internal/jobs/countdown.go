// Package jobs holds the background work scheduled next to the HTTP server.
package jobs

import (
	"errors"
	"fmt"
	"time"

	"appointment-booking-server/internal/models"
	"appointment-booking-server/internal/store"

	"github.com/go-co-op/gocron"
	"github.com/rs/zerolog"
)

// CountdownRefresher keeps the countdown label and join flag of upcoming
// appointments current.
type CountdownRefresher struct {
	Store      *store.AppointmentStore
	JoinWindow time.Duration
	Location   *time.Location
	Log        zerolog.Logger
}

// NewCountdownRefresher creates a refresher that opens the join window
// joinWindow before each appointment starts.
func NewCountdownRefresher(st *store.AppointmentStore, joinWindow time.Duration, log zerolog.Logger) *CountdownRefresher {
	return &CountdownRefresher{
		Store:      st,
		JoinWindow: joinWindow,
		Location:   time.Local,
		Log:        log,
	}
}

// Start runs RefreshOnce immediately and then every interval.
func (r *CountdownRefresher) Start(interval time.Duration) (*gocron.Scheduler, error) {
	scheduler := gocron.NewScheduler(r.Location)

	_, err := scheduler.Every(interval).Do(func() {
		updated := r.RefreshOnce(time.Now())
		r.Log.Debug().Int("updated", updated).Msg("countdown refresh")
	})
	if err != nil {
		return nil, fmt.Errorf("schedule countdown refresh: %w", err)
	}

	scheduler.StartAsync()
	r.Log.Info().Dur("interval", interval).Msg("countdown refresh job started")
	return scheduler, nil
}

// RefreshOnce recomputes every upcoming appointment as of now and returns how
// many were changed.
func (r *CountdownRefresher) RefreshOnce(now time.Time) int {
	updated := 0
	for _, apt := range r.Store.Appointments() {
		if apt.Status != models.StatusUpcoming {
			continue
		}
		start, err := models.ParseSchedule(apt.Date, apt.Time, r.Location)
		if err != nil {
			r.Log.Debug().Err(err).Str("appointment_id", apt.ID).Msg("skipping unparseable schedule")
			continue
		}

		countdown := models.CountdownLabel(now, start)
		canJoin := models.JoinWindowOpen(now, start, time.Duration(apt.Duration)*time.Minute, r.JoinWindow)
		if countdown == apt.Countdown && canJoin == apt.CanJoin {
			continue
		}

		changed, err := r.Store.RefreshCountdown(apt.ID, apt.Date, apt.Time, countdown, canJoin)
		switch {
		case err == nil:
			if changed {
				updated++
			}
		case errors.Is(err, store.ErrNotFound):
			// Replaced since the snapshot was taken.
		default:
			r.Log.Error().Err(err).Str("appointment_id", apt.ID).Msg("failed to refresh countdown")
		}
	}
	return updated
}
