package jobs

import (
	"testing"
	"time"

	"appointment-booking-server/internal/models"
	"appointment-booking-server/internal/store"

	"github.com/rs/zerolog"
)

func newRefresher(t *testing.T, list ...models.Appointment) (*CountdownRefresher, *store.AppointmentStore) {
	t.Helper()
	st := store.New()
	if err := st.SetAppointments(list); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	r := NewCountdownRefresher(st, 10*time.Minute, zerolog.Nop())
	r.Location = time.UTC
	return r, st
}

func TestRefreshOnce(t *testing.T) {
	r, st := newRefresher(t,
		models.Appointment{ID: "soon", Date: "2025-01-10", Time: "10:30 AM", Duration: 30, Status: models.StatusUpcoming},
		models.Appointment{ID: "later", Date: "2025-01-13", Time: "09:00 AM", Duration: 30, Status: models.StatusUpcoming},
		models.Appointment{ID: "done", Date: "2025-01-10", Time: "10:30 AM", Duration: 30, Status: models.StatusCompleted},
		models.Appointment{ID: "bad", Date: "someday", Time: "10:30 AM", Duration: 30, Status: models.StatusUpcoming},
	)
	now := time.Date(2025, 1, 10, 10, 25, 0, 0, time.UTC)

	if got := r.RefreshOnce(now); got != 2 {
		t.Fatalf("expected 2 updates, got %d", got)
	}

	soon, _ := st.Appointment("soon")
	if !soon.CanJoin || soon.Countdown != "5 minutes remaining" {
		t.Errorf("unexpected soon appointment: canJoin=%v countdown=%q", soon.CanJoin, soon.Countdown)
	}
	later, _ := st.Appointment("later")
	if later.CanJoin || later.Countdown != "2 days remaining" {
		t.Errorf("unexpected later appointment: canJoin=%v countdown=%q", later.CanJoin, later.Countdown)
	}
	done, _ := st.Appointment("done")
	if done.Countdown != "" {
		t.Errorf("expected completed appointment untouched, got %q", done.Countdown)
	}

	if got := r.RefreshOnce(now); got != 0 {
		t.Errorf("expected no changes on second run, got %d", got)
	}
}

func TestRefreshOnce_ClosesJoinWindow(t *testing.T) {
	r, st := newRefresher(t,
		models.Appointment{ID: "a", Date: "2025-01-10", Time: "10:30", Duration: 30, Status: models.StatusUpcoming, CanJoin: true},
	)
	r.RefreshOnce(time.Date(2025, 1, 10, 11, 5, 0, 0, time.UTC))

	a, _ := st.Appointment("a")
	if a.CanJoin {
		t.Error("expected join window to be closed after the consultation ended")
	}
	if a.Countdown != "Appointment time has passed" {
		t.Errorf("unexpected countdown %q", a.Countdown)
	}
}

func TestStart(t *testing.T) {
	r, _ := newRefresher(t)
	s, err := r.Start(time.Minute)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer s.Stop()
	if !s.IsRunning() {
		t.Error("expected scheduler to be running")
	}
}

func TestRefreshOnce_SkipsAppointmentsChangedMidRun(t *testing.T) {
	r, st := newRefresher(t,
		models.Appointment{ID: "a", Date: "2025-01-10", Time: "10:30 AM", Duration: 30, Status: models.StatusUpcoming},
		models.Appointment{ID: "b", Date: "2025-01-10", Time: "10:30 AM", Duration: 30, Status: models.StatusUpcoming},
		models.Appointment{ID: "c", Date: "2025-01-10", Time: "10:30 AM", Duration: 30, Status: models.StatusUpcoming},
	)

	fired := false
	st.Subscribe(store.ObserverFunc(func(e store.Event) {
		if fired || e.AppointmentID != "a" {
			return
		}
		fired = true
		if _, err := st.CompleteAppointment("b"); err != nil {
			t.Errorf("unexpected error: %v", err)
		}
		if _, err := st.ConfirmReschedule("c", "2025-01-20", "04:00 PM"); err != nil {
			t.Errorf("unexpected error: %v", err)
		}
	}))

	if got := r.RefreshOnce(time.Date(2025, 1, 10, 10, 25, 0, 0, time.UTC)); got != 1 {
		t.Errorf("expected 1 update, got %d", got)
	}

	b, _ := st.Appointment("b")
	if b.Status != models.StatusCompleted || b.CanJoin || b.Countdown != "" {
		t.Errorf("unexpected b: status=%s canJoin=%v countdown=%q", b.Status, b.CanJoin, b.Countdown)
	}
	c, _ := st.Appointment("c")
	if c.Time != "04:00 PM" || c.CanJoin || c.Countdown != "" {
		t.Errorf("unexpected c: time=%s canJoin=%v countdown=%q", c.Time, c.CanJoin, c.Countdown)
	}
}
