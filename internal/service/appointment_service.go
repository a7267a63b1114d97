// Package service simulates the booking backend. Each call waits a
// configured delay and may fail with a configured probability so that
// clients can exercise their loading and error paths. Calls share no state
// and nothing is persisted.
package service

import (
	"context"
	"fmt"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"appointment-booking-server/internal/models"
)

// Config controls latency and failure injection. Zero delays and rates make
// every call immediate and deterministic.
type Config struct {
	BookDelay       time.Duration
	RescheduleDelay time.Duration
	CancelDelay     time.Duration
	RefundDelay     time.Duration
	SlotsDelay      time.Duration

	BookFailureRate       float64
	RescheduleFailureRate float64
	CancelFailureRate     float64

	// SlotAvailability is the probability that each catalog slot is offered.
	SlotAvailability float64

	DefaultFee      float64
	DefaultDuration int
}

// DefaultConfig returns the demo settings.
func DefaultConfig() Config {
	return Config{
		BookDelay:             2000 * time.Millisecond,
		RescheduleDelay:       1500 * time.Millisecond,
		CancelDelay:           1000 * time.Millisecond,
		RefundDelay:           3000 * time.Millisecond,
		SlotsDelay:            800 * time.Millisecond,
		BookFailureRate:       0.10,
		RescheduleFailureRate: 0.05,
		CancelFailureRate:     0.02,
		SlotAvailability:      0.7,
		DefaultFee:            500,
		DefaultDuration:       30,
	}
}

// Rand is the random source used for failure draws, slot availability and
// booking ids.
type Rand interface {
	Float64() float64
	IntN(n int) int
}

// DoctorDirectory resolves the doctor copied into a new booking.
type DoctorDirectory interface {
	Doctor(id string) (models.Doctor, error)
}

// AppointmentService is safe for concurrent use.
type AppointmentService struct {
	cfg     Config
	doctors DoctorDirectory
	log     zerolog.Logger
	now     func() time.Time

	mu   sync.Mutex
	rand Rand
}

// Option configures an AppointmentService.
type Option func(*AppointmentService)

// WithRand replaces the random source.
func WithRand(r Rand) Option {
	return func(s *AppointmentService) { s.rand = r }
}

// WithSeed uses a deterministic PCG source seeded with seed.
func WithSeed(seed uint64) Option {
	return func(s *AppointmentService) { s.rand = rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)) }
}

// WithClock overrides the clock used for refund timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *AppointmentService) { s.now = now }
}

// WithLogger sets the logger used to report injected failures.
func WithLogger(log zerolog.Logger) Option {
	return func(s *AppointmentService) { s.log = log }
}

// New creates an AppointmentService.
func New(cfg Config, doctors DoctorDirectory, opts ...Option) *AppointmentService {
	s := &AppointmentService{
		cfg:     cfg,
		doctors: doctors,
		log:     zerolog.Nop(),
		now:     time.Now,
		rand:    rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// BookingRequest carries what the patient chose while booking.
type BookingRequest struct {
	DoctorID string                  `json:"doctorId" binding:"required"`
	Date     string                  `json:"date" binding:"required"`
	Time     string                  `json:"time" binding:"required"`
	Type     models.ConsultationType `json:"type" binding:"required,oneof=video phone in-person"`
	Concern  *models.Concern         `json:"concern,omitempty"`
	Symptoms []string                `json:"symptoms,omitempty"`
	Notes    string                  `json:"notes,omitempty"`
}

// BookAppointment books a consultation and returns the new appointment.
// The caller is responsible for adding it to the store.
func (s *AppointmentService) BookAppointment(ctx context.Context, req BookingRequest) (models.Appointment, error) {
	if err := s.wait(ctx, s.cfg.BookDelay); err != nil {
		return models.Appointment{}, err
	}
	if s.draw(s.cfg.BookFailureRate) {
		return models.Appointment{}, s.fail(ErrBookingFailed, "Booking failed. Please try again.")
	}

	doctor, err := s.doctors.Doctor(req.DoctorID)
	if err != nil {
		return models.Appointment{}, fmt.Errorf("book appointment: %w", err)
	}

	fee := s.cfg.DefaultFee
	if doctor.Fee != nil {
		fee = *doctor.Fee
	}

	apt := models.Appointment{
		ID:        uuid.New().String(),
		Doctor:    doctor,
		Date:      req.Date,
		Time:      req.Time,
		Status:    models.StatusUpcoming,
		Type:      req.Type,
		CanJoin:   false,
		Duration:  s.cfg.DefaultDuration,
		Notes:     req.Notes,
		BookingID: s.bookingID(),
		Fee:       &fee,
	}
	if req.Concern != nil {
		c := *req.Concern
		apt.Concern = &c
	}
	if len(req.Symptoms) > 0 {
		apt.Symptoms = append([]string(nil), req.Symptoms...)
	}
	return apt, nil
}

// RescheduleAppointment asks the backend to move an appointment. On success
// the caller updates the store.
func (s *AppointmentService) RescheduleAppointment(ctx context.Context, appointmentID, date, clock, reason string) error {
	if err := s.wait(ctx, s.cfg.RescheduleDelay); err != nil {
		return err
	}
	if s.draw(s.cfg.RescheduleFailureRate) {
		return s.fail(ErrRescheduleFailed, "Reschedule failed. Please try again.")
	}
	s.log.Debug().Str("appointment_id", appointmentID).Str("date", date).Str("time", clock).Str("reason", reason).Msg("reschedule accepted")
	return nil
}

// CancelAppointment asks the backend to cancel an appointment. On success
// the caller updates the store.
func (s *AppointmentService) CancelAppointment(ctx context.Context, appointmentID, reason string) error {
	if err := s.wait(ctx, s.cfg.CancelDelay); err != nil {
		return err
	}
	if s.draw(s.cfg.CancelFailureRate) {
		return s.fail(ErrCancellationFailed, "Cancellation failed. Please try again.")
	}
	s.log.Debug().Str("appointment_id", appointmentID).Str("reason", reason).Msg("cancellation accepted")
	return nil
}

// ProcessRefund settles the refund of a cancelled appointment. It always
// succeeds, reporting a completed refund requested a day ago.
func (s *AppointmentService) ProcessRefund(ctx context.Context, appointmentID string) (models.RefundInfo, error) {
	if err := s.wait(ctx, s.cfg.RefundDelay); err != nil {
		return models.RefundInfo{}, err
	}

	now := s.now()
	processedAt := now.Add(-12 * time.Hour)
	completedAt := now
	return models.RefundInfo{
		ID:            models.RefundID(appointmentID),
		AppointmentID: appointmentID,
		Amount:        s.cfg.DefaultFee,
		Status:        models.RefundCompleted,
		Reason:        "Appointment cancelled by doctor",
		RequestedAt:   now.Add(-24 * time.Hour),
		ProcessedAt:   &processedAt,
		CompletedAt:   &completedAt,
	}, nil
}

// GetAvailableSlots returns the catalog slots that are free for a doctor on
// a date, in catalog order.
func (s *AppointmentService) GetAvailableSlots(ctx context.Context, doctorID, date string) ([]models.Slot, error) {
	if err := s.wait(ctx, s.cfg.SlotsDelay); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	slots := make([]models.Slot, 0, len(slotCatalog))
	for _, slot := range slotCatalog {
		if s.rand.Float64() < s.cfg.SlotAvailability {
			slots = append(slots, slot)
		}
	}
	return slots, nil
}

func (s *AppointmentService) wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func (s *AppointmentService) draw(rate float64) bool {
	if rate <= 0 {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rand.Float64() < rate
}

func (s *AppointmentService) fail(kind error, message string) error {
	s.log.Warn().Err(kind).Msg("injected failure")
	return &FailureError{Err: kind, Message: message}
}

const bookingAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"

func (s *AppointmentService) bookingID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	b := make([]byte, 8)
	for i := range b {
		b[i] = bookingAlphabet[s.rand.IntN(len(bookingAlphabet))]
	}
	return "APPL#" + string(b)
}
