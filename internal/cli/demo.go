package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"appointment-booking-server/internal/config"
	"appointment-booking-server/internal/models"
	"appointment-booking-server/internal/seed"
	"appointment-booking-server/internal/service"
	"appointment-booking-server/internal/store"
	"appointment-booking-server/internal/validation"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

func demoCmd() *cobra.Command {
	var fast bool
	var doctorID string

	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Run a scripted book, reschedule, cancel and refund flow",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if fast {
				cfg.Simulation = instant(cfg.Simulation)
			}
			logger := newLogger(cfg, os.Stdout)
			return runDemo(cmd.Context(), cfg, doctorID, logger)
		},
	}
	cmd.Flags().BoolVar(&fast, "fast", false, "skip simulated delays and failures")
	cmd.Flags().StringVar(&doctorID, "doctor", "1", "doctor to book with")
	return cmd
}

// instant drops delays and failures but keeps fees and availability.
func instant(c service.Config) service.Config {
	return service.Config{
		SlotAvailability: c.SlotAvailability,
		DefaultFee:       c.DefaultFee,
		DefaultDuration:  c.DefaultDuration,
	}
}

func runDemo(ctx context.Context, cfg *config.Config, doctorID string, logger zerolog.Logger) error {
	if ctx == nil {
		ctx = context.Background()
	}

	st := store.New()
	if err := st.Restore(seed.Snapshot()); err != nil {
		return err
	}
	st.Subscribe(store.ObserverFunc(func(e store.Event) {
		logger.Debug().Str("event", string(e.Kind)).Str("appointment_id", e.AppointmentID).Msg("store changed")
	}))
	svc := newService(cfg, st, logger)

	date := time.Now().AddDate(0, 0, 1).Format("2006-01-02")
	slots, err := svc.GetAvailableSlots(ctx, doctorID, date)
	if err != nil {
		return fmt.Errorf("load slots: %w", err)
	}
	if len(slots) < 2 {
		return fmt.Errorf("doctor %s has %d free slots on %s, need 2", doctorID, len(slots), date)
	}
	logger.Info().Str("date", models.FormatDate(date)).Int("free", len(slots)).Msg("slots loaded")

	concern := validation.ConcernForm{Concern: "Toothache", Severity: "moderate", Duration: "3", DurationUnit: "days"}
	if err := validation.ValidateConcern(concern).Err(); err != nil {
		return err
	}
	c := concern.ToConcern()
	apt, err := svc.BookAppointment(ctx, service.BookingRequest{
		DoctorID: doctorID,
		Date:     date,
		Time:     slots[0].Time,
		Type:     models.ConsultationVideo,
		Concern:  &c,
	})
	if err != nil {
		return fmt.Errorf("book: %w", err)
	}
	if err := st.AddAppointment(apt); err != nil {
		return err
	}
	logger.Info().Str("appointment_id", apt.ID).Str("booking_id", apt.BookingID).Str("time", models.FormatTime(apt.Time)).Msg("booked")

	reason, _ := seed.FindReason(seed.RescheduleReasons, "scheduling")
	if err := validation.ValidateRescheduleReason(reason.Title).Err(); err != nil {
		return err
	}
	if _, err := st.BeginReschedule(apt.ID); err != nil {
		return err
	}
	if err := svc.RescheduleAppointment(ctx, apt.ID, date, slots[1].Time, reason.Title); err != nil {
		return fmt.Errorf("reschedule: %w", err)
	}
	if apt, err = st.ConfirmReschedule(apt.ID, date, slots[1].Time); err != nil {
		return err
	}
	logger.Info().Str("appointment_id", apt.ID).Str("time", models.FormatTime(apt.Time)).Msg("rescheduled")

	custom := "Travelling out of town that week"
	if err := validation.ValidateCustomReason(custom).Err(); err != nil {
		return err
	}
	if err := svc.CancelAppointment(ctx, apt.ID, custom); err != nil {
		return fmt.Errorf("cancel: %w", err)
	}
	if apt, err = st.CancelAppointment(apt.ID, custom); err != nil {
		return err
	}
	logger.Info().Str("appointment_id", apt.ID).Float64("refund", apt.Refund.Amount).Msg("cancelled")

	refund, err := svc.ProcessRefund(ctx, apt.ID)
	if err != nil {
		return fmt.Errorf("refund: %w", err)
	}
	refund.Amount = apt.Refund.Amount
	refund.Reason = apt.Refund.Reason
	if apt, err = st.AttachRefund(apt.ID, refund); err != nil {
		return err
	}
	logger.Info().Str("appointment_id", apt.ID).Str("status", string(apt.Refund.Status)).Float64("amount", apt.Refund.Amount).Msg("refund processed")
	return nil
}
