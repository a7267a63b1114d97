package seed

import (
	"testing"

	"appointment-booking-server/internal/models"
	"appointment-booking-server/internal/store"
)

func TestSnapshot_Restores(t *testing.T) {
	s := store.New()
	if err := s.Restore(Snapshot()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if u, err := s.User(); err != nil || u.Name != "Mayank Singh" {
		t.Errorf("expected seeded user, got %+v (%v)", u, err)
	}
	if n := len(s.Appointments()); n != 2 {
		t.Errorf("expected 2 appointments, got %d", n)
	}
	for _, a := range s.Appointments() {
		if _, err := s.Doctor(a.Doctor.ID); err != nil {
			t.Errorf("appointment %s references unknown doctor %s", a.ID, a.Doctor.ID)
		}
		if a.Status != models.StatusUpcoming {
			t.Errorf("expected seeded appointment %s to be upcoming, got %s", a.ID, a.Status)
		}
	}
}

func TestFindReason(t *testing.T) {
	for _, catalog := range [][]Reason{RescheduleReasons, CancelReasons} {
		if _, ok := FindReason(catalog, OtherReasonID); !ok {
			t.Error("expected every catalog to offer the other reason")
		}
	}
	r, ok := FindReason(CancelReasons, "internet")
	if !ok || r.Title != "Internet issues" {
		t.Errorf("unexpected reason %+v", r)
	}
	if _, ok := FindReason(RescheduleReasons, "internet"); ok {
		t.Error("expected internet to be a cancel-only reason")
	}
}
