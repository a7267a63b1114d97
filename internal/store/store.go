// Package store holds the session-scoped booking state: the current user,
// the doctor directory and the appointment collection.
//
// An AppointmentStore is the single owner of that state. Consumers receive
// deep copies and change state only through the mutation methods, each of
// which is applied atomically and then announced to the subscribed observers.
package store

import (
	"fmt"
	"sync"
	"time"

	"appointment-booking-server/internal/models"
)

// AppointmentStore is safe for concurrent use.
type AppointmentStore struct {
	mu           sync.RWMutex
	user         *models.User
	doctors      []models.Doctor
	appointments []models.Appointment
	index        map[string]int
	seq          uint64

	obsMu     sync.RWMutex
	observers []Observer

	// Events are queued under mu and delivered by a single drainer so
	// observers see them in commit order.
	dispatchMu  sync.Mutex
	pending     []Event
	dispatching bool

	now func() time.Time
}

// Option configures an AppointmentStore.
type Option func(*AppointmentStore)

// WithClock overrides the clock used to stamp refund requests.
func WithClock(now func() time.Time) Option {
	return func(s *AppointmentStore) {
		s.now = now
	}
}

// New creates an empty AppointmentStore.
func New(opts ...Option) *AppointmentStore {
	s := &AppointmentStore{
		index: make(map[string]int),
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Subscribe registers o to be notified after every successful mutation.
// Observers are called outside the store lock, one event at a time and in
// commit order, and must not modify the snapshots they receive. An observer
// may mutate the store; the resulting event is delivered after the current
// one.
func (s *AppointmentStore) Subscribe(o Observer) {
	s.obsMu.Lock()
	defer s.obsMu.Unlock()
	s.observers = append(s.observers, o)
}

// enqueue stamps e and queues it for delivery. The caller must hold mu.
func (s *AppointmentStore) enqueue(e Event) {
	s.seq++
	e.Seq = s.seq
	s.dispatchMu.Lock()
	s.pending = append(s.pending, e)
	s.dispatchMu.Unlock()
}

// drain delivers queued events unless another goroutine is already doing so.
func (s *AppointmentStore) drain() {
	s.dispatchMu.Lock()
	if s.dispatching {
		s.dispatchMu.Unlock()
		return
	}
	s.dispatching = true
	s.dispatchMu.Unlock()

	done := false
	defer func() {
		if !done {
			// An observer panicked; let the next mutation resume delivery.
			s.dispatchMu.Lock()
			s.dispatching = false
			s.dispatchMu.Unlock()
		}
	}()

	for {
		s.dispatchMu.Lock()
		if len(s.pending) == 0 {
			s.dispatching = false
			s.dispatchMu.Unlock()
			done = true
			return
		}
		e := s.pending[0]
		s.pending = s.pending[1:]
		s.dispatchMu.Unlock()

		s.notify(e)
	}
}

func (s *AppointmentStore) notify(e Event) {
	s.obsMu.RLock()
	observers := append([]Observer(nil), s.observers...)
	s.obsMu.RUnlock()

	for _, o := range observers {
		o.Notify(e)
	}
}

// -- User --

// User returns the current user, or ErrNoActiveUser if none is set.
func (s *AppointmentStore) User() (models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return models.User{}, ErrNoActiveUser
	}
	return s.user.Clone(), nil
}

// SetUser replaces the user record wholesale.
func (s *AppointmentStore) SetUser(u models.User) {
	s.mu.Lock()
	stored := u.Clone()
	s.user = &stored
	snapshot := u.Clone()
	s.enqueue(Event{Kind: EventUserSet, User: &snapshot})
	s.mu.Unlock()

	s.drain()
}

// UpdateUser merges patch into the current user.
func (s *AppointmentStore) UpdateUser(patch models.UserPatch) (models.User, error) {
	s.mu.Lock()
	if s.user == nil {
		s.mu.Unlock()
		return models.User{}, ErrNoActiveUser
	}
	s.user.Apply(patch)
	updated := s.user.Clone()
	snapshot := updated.Clone()
	s.enqueue(Event{Kind: EventUserUpdated, User: &snapshot})
	s.mu.Unlock()

	s.drain()
	return updated, nil
}

// -- Doctors --

// SetDoctors replaces the doctor directory.
func (s *AppointmentStore) SetDoctors(doctors []models.Doctor) {
	s.mu.Lock()
	s.doctors = make([]models.Doctor, len(doctors))
	for i, d := range doctors {
		s.doctors[i] = d.Clone()
	}
	s.enqueue(Event{Kind: EventDoctorsSet})
	s.mu.Unlock()

	s.drain()
}

// Doctors returns the doctor directory.
func (s *AppointmentStore) Doctors() []models.Doctor {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Doctor, len(s.doctors))
	for i, d := range s.doctors {
		out[i] = d.Clone()
	}
	return out
}

// Doctor looks a doctor up by id.
func (s *AppointmentStore) Doctor(id string) (models.Doctor, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, d := range s.doctors {
		if d.ID == id {
			return d.Clone(), nil
		}
	}
	return models.Doctor{}, fmt.Errorf("doctor %q: %w", id, ErrNotFound)
}

// -- Appointments --

// Appointments returns every appointment in insertion order.
func (s *AppointmentStore) Appointments() []models.Appointment {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Appointment, len(s.appointments))
	for i, a := range s.appointments {
		out[i] = a.Clone()
	}
	return out
}

// Appointment looks an appointment up by id.
func (s *AppointmentStore) Appointment(id string) (models.Appointment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i, ok := s.index[id]
	if !ok {
		return models.Appointment{}, fmt.Errorf("appointment %q: %w", id, ErrNotFound)
	}
	return s.appointments[i].Clone(), nil
}

// SetAppointments replaces the whole collection. A list that repeats an id
// is rejected with ErrDuplicateID, and one holding a malformed record with
// ErrInvalidRecord. In both cases the collection is left unchanged.
func (s *AppointmentStore) SetAppointments(list []models.Appointment) error {
	index := make(map[string]int, len(list))
	appointments := make([]models.Appointment, len(list))
	for i, a := range list {
		if _, dup := index[a.ID]; dup {
			return fmt.Errorf("appointment %q: %w", a.ID, ErrDuplicateID)
		}
		if err := checkRecord(a); err != nil {
			return err
		}
		index[a.ID] = i
		appointments[i] = a.Clone()
	}

	s.mu.Lock()
	s.appointments = appointments
	s.index = index
	s.enqueue(Event{Kind: EventAppointmentsSet})
	s.mu.Unlock()

	s.drain()
	return nil
}

// AddAppointment appends a, failing with ErrDuplicateID if its id is taken
// and with ErrInvalidRecord if a is malformed.
func (s *AppointmentStore) AddAppointment(a models.Appointment) error {
	if err := checkRecord(a); err != nil {
		return err
	}

	s.mu.Lock()
	if _, ok := s.index[a.ID]; ok {
		s.mu.Unlock()
		return fmt.Errorf("appointment %q: %w", a.ID, ErrDuplicateID)
	}
	s.index[a.ID] = len(s.appointments)
	s.appointments = append(s.appointments, a.Clone())
	snapshot := a.Clone()
	s.enqueue(Event{Kind: EventAppointmentAdded, AppointmentID: a.ID, Appointment: &snapshot})
	s.mu.Unlock()

	s.drain()
	return nil
}

// UpdateAppointment merges patch into the appointment with the given id.
// Cancelled appointments refuse updates and a status change must be a valid
// transition. Cancellation and refunds go through CancelAppointment and
// AttachRefund.
func (s *AppointmentStore) UpdateAppointment(id string, patch models.AppointmentPatch) (models.Appointment, error) {
	return s.mutate(id, EventAppointmentUpdated, func(a *models.Appointment) error {
		if a.Status == models.StatusCancelled {
			return transitionError(id, "update a cancelled appointment")
		}
		if patch.Status != nil && *patch.Status != a.Status {
			if *patch.Status == models.StatusCancelled || !a.Status.CanTransitionTo(*patch.Status) {
				return transitionError(id, fmt.Sprintf("move from %s to %s", a.Status, *patch.Status))
			}
		}
		if patch.Refund != nil {
			return transitionError(id, "attach a refund outside cancellation")
		}
		a.Apply(patch)
		return nil
	})
}

// CancelAppointment moves the appointment to cancelled and attaches a
// requested refund for its fee (0 when no fee was charged).
func (s *AppointmentStore) CancelAppointment(id, reason string) (models.Appointment, error) {
	return s.mutate(id, EventAppointmentCancelled, func(a *models.Appointment) error {
		if !a.Status.CanTransitionTo(models.StatusCancelled) {
			return transitionError(id, fmt.Sprintf("cancel a %s appointment", a.Status))
		}
		a.Status = models.StatusCancelled
		a.CanJoin = false
		a.Refund = &models.RefundInfo{
			ID:            models.RefundID(id),
			AppointmentID: id,
			Amount:        a.FeeOrZero(),
			Status:        models.RefundRequested,
			Reason:        reason,
			RequestedAt:   s.now(),
		}
		return nil
	})
}

// AttachRefund overwrites the refund record of an appointment. The refund
// may not move behind the status it already has.
func (s *AppointmentStore) AttachRefund(appointmentID string, refund models.RefundInfo) (models.Appointment, error) {
	return s.mutate(appointmentID, EventRefundAttached, func(a *models.Appointment) error {
		if err := checkRefund(appointmentID, a.Refund, refund); err != nil {
			return err
		}
		r := refund.Clone()
		r.AppointmentID = appointmentID
		a.Refund = &r
		return nil
	})
}

// CompleteAppointment marks an upcoming appointment as completed.
func (s *AppointmentStore) CompleteAppointment(id string) (models.Appointment, error) {
	return s.mutate(id, EventAppointmentUpdated, func(a *models.Appointment) error {
		if !a.Status.CanTransitionTo(models.StatusCompleted) {
			return transitionError(id, fmt.Sprintf("complete a %s appointment", a.Status))
		}
		a.Status = models.StatusCompleted
		a.CanJoin = false
		a.Countdown = ""
		return nil
	})
}

// BeginReschedule marks an upcoming appointment as rescheduled while a new
// date and time are being chosen.
func (s *AppointmentStore) BeginReschedule(id string) (models.Appointment, error) {
	return s.mutate(id, EventAppointmentUpdated, func(a *models.Appointment) error {
		if a.Status == models.StatusRescheduled {
			return nil
		}
		if !a.Status.CanTransitionTo(models.StatusRescheduled) {
			return transitionError(id, fmt.Sprintf("reschedule a %s appointment", a.Status))
		}
		a.Status = models.StatusRescheduled
		return nil
	})
}

// ConfirmReschedule writes the new date and time and returns the appointment
// to upcoming. It accepts appointments that are upcoming or rescheduled.
func (s *AppointmentStore) ConfirmReschedule(id, date, clock string) (models.Appointment, error) {
	return s.mutate(id, EventAppointmentUpdated, func(a *models.Appointment) error {
		if a.Status != models.StatusUpcoming && a.Status != models.StatusRescheduled {
			return transitionError(id, fmt.Sprintf("reschedule a %s appointment", a.Status))
		}
		a.Date = date
		a.Time = clock
		a.Status = models.StatusUpcoming
		a.CanJoin = false
		a.Countdown = ""
		return nil
	})
}

// RefreshCountdown writes the countdown label and join flag computed for the
// schedule date and clock. Nothing is written unless the appointment is
// still upcoming at that schedule. It reports whether the appointment changed.
func (s *AppointmentStore) RefreshCountdown(id, date, clock, countdown string, canJoin bool) (bool, error) {
	_, changed, err := s.commit(id, EventAppointmentUpdated, func(a *models.Appointment) (bool, error) {
		if a.Status != models.StatusUpcoming || a.Date != date || a.Time != clock {
			return false, nil
		}
		if a.Countdown == countdown && a.CanJoin == canJoin {
			return false, nil
		}
		a.Countdown = countdown
		a.CanJoin = canJoin
		return true, nil
	})
	return changed, err
}

// mutate applies fn to a copy of the appointment and commits it only if fn succeeds.
func (s *AppointmentStore) mutate(id string, kind EventKind, fn func(*models.Appointment) error) (models.Appointment, error) {
	updated, _, err := s.commit(id, kind, func(a *models.Appointment) (bool, error) {
		return true, fn(a)
	})
	return updated, err
}

// commit runs fn on a copy of the appointment under the lock. The copy is
// stored and announced only when fn reports a change without error.
func (s *AppointmentStore) commit(id string, kind EventKind, fn func(*models.Appointment) (bool, error)) (models.Appointment, bool, error) {
	s.mu.Lock()
	i, ok := s.index[id]
	if !ok {
		s.mu.Unlock()
		return models.Appointment{}, false, fmt.Errorf("appointment %q: %w", id, ErrNotFound)
	}
	working := s.appointments[i].Clone()
	changed, err := fn(&working)
	if err != nil {
		s.mu.Unlock()
		return models.Appointment{}, false, err
	}
	if !changed {
		current := s.appointments[i].Clone()
		s.mu.Unlock()
		return current, false, nil
	}
	s.appointments[i] = working
	snapshot := working.Clone()
	s.enqueue(Event{Kind: kind, AppointmentID: id, Appointment: &snapshot})
	s.mu.Unlock()

	s.drain()
	return working.Clone(), true, nil
}

// checkRecord rejects appointments that could not have been produced by the
// lifecycle: an unknown status, or a cancellation without its refund.
func checkRecord(a models.Appointment) error {
	if !a.Status.Valid() {
		return fmt.Errorf("appointment %q: unknown status %q: %w", a.ID, a.Status, ErrInvalidRecord)
	}
	if a.Status == models.StatusCancelled && a.Refund == nil {
		return fmt.Errorf("appointment %q: cancelled without a refund: %w", a.ID, ErrInvalidRecord)
	}
	if a.Refund != nil && a.Refund.Status.Rank() < 0 {
		return fmt.Errorf("appointment %q: unknown refund status %q: %w", a.ID, a.Refund.Status, ErrInvalidRecord)
	}
	return nil
}

func checkRefund(id string, current *models.RefundInfo, next models.RefundInfo) error {
	if next.Status.Rank() < 0 {
		return transitionError(id, fmt.Sprintf("set unknown refund status %q", next.Status))
	}
	if current != nil && next.Status.Rank() < current.Status.Rank() {
		return transitionError(id, fmt.Sprintf("move refund from %s back to %s", current.Status, next.Status))
	}
	return nil
}

func transitionError(id, what string) error {
	return fmt.Errorf("appointment %q: cannot %s: %w", id, what, ErrInvalidStateTransition)
}
