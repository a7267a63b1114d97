package events

import (
	"encoding/json"
	"testing"
	"time"

	"appointment-booking-server/internal/models"
	"appointment-booking-server/internal/store"

	"github.com/rs/zerolog"
)

func TestBroadcast_DeliversToAllClients(t *testing.T) {
	b := NewBroadcaster(zerolog.Nop())
	c1 := b.Register()
	c2 := b.Register()
	defer b.Unregister(c1)
	defer b.Unregister(c2)

	b.Broadcast("refresh")

	for i, c := range []chan string{c1, c2} {
		select {
		case msg := <-c:
			if msg != "refresh" {
				t.Errorf("client %d: expected refresh, got %q", i, msg)
			}
		case <-time.After(time.Second):
			t.Fatalf("client %d: expected a message", i)
		}
	}
}

func TestBroadcast_DropsStalledClient(t *testing.T) {
	b := NewBroadcaster(zerolog.Nop())
	b.timeout = 10 * time.Millisecond
	stalled := b.Register()

	for i := 0; i < clientBuffer+1; i++ {
		b.Broadcast("x")
	}
	if b.Clients() != 0 {
		t.Fatalf("expected stalled client to be dropped, got %d clients", b.Clients())
	}

	// Drain; the channel must be closed.
	for range stalled {
	}
	b.Unregister(stalled)
}

func TestUnregister_Idempotent(t *testing.T) {
	b := NewBroadcaster(zerolog.Nop())
	c := b.Register()
	b.Unregister(c)
	b.Unregister(c)
	if b.Clients() != 0 {
		t.Errorf("expected no clients, got %d", b.Clients())
	}
}

func TestNotify_FromStore(t *testing.T) {
	b := NewBroadcaster(zerolog.Nop())
	c := b.Register()
	defer b.Unregister(c)

	st := store.New()
	st.Subscribe(b)
	if err := st.AddAppointment(models.Appointment{ID: "a1", Status: models.StatusUpcoming}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	select {
	case msg := <-c:
		var e store.Event
		if err := json.Unmarshal([]byte(msg), &e); err != nil {
			t.Fatalf("expected JSON event, got %q", msg)
		}
		if e.Kind != store.EventAppointmentAdded || e.AppointmentID != "a1" {
			t.Errorf("unexpected event %+v", e)
		}
	case <-time.After(time.Second):
		t.Fatal("expected an event")
	}
}
