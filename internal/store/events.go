package store

import "appointment-booking-server/internal/models"

// EventKind names the mutation that produced an Event.
type EventKind string

const (
	EventUserSet              EventKind = "user.set"
	EventUserUpdated          EventKind = "user.updated"
	EventDoctorsSet           EventKind = "doctors.set"
	EventAppointmentsSet      EventKind = "appointments.set"
	EventAppointmentAdded     EventKind = "appointment.added"
	EventAppointmentUpdated   EventKind = "appointment.updated"
	EventAppointmentCancelled EventKind = "appointment.cancelled"
	EventRefundAttached       EventKind = "refund.attached"
)

// Event describes a committed mutation. Appointment and User are snapshots
// and are only set for events about a single record. Seq increases with
// every committed mutation.
type Event struct {
	Seq           uint64              `json:"seq"`
	Kind          EventKind           `json:"kind"`
	AppointmentID string              `json:"appointmentId,omitempty"`
	Appointment   *models.Appointment `json:"appointment,omitempty"`
	User          *models.User        `json:"user,omitempty"`
}

// Observer is notified after every successful mutation.
type Observer interface {
	Notify(Event)
}

// ObserverFunc adapts a function to the Observer interface.
type ObserverFunc func(Event)

// Notify calls f(e).
func (f ObserverFunc) Notify(e Event) { f(e) }
