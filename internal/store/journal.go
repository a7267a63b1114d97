package store

import (
	"errors"

	"github.com/rs/zerolog"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"appointment-booking-server/internal/models"
)

// Snapshot is the full booking state as persisted by the Journal.
type Snapshot struct {
	User         *models.User
	Doctors      []models.Doctor
	Appointments []models.Appointment
}

// Restore replaces the store contents with snap.
func (s *AppointmentStore) Restore(snap Snapshot) error {
	if snap.User != nil {
		s.SetUser(*snap.User)
	}
	s.SetDoctors(snap.Doctors)
	return s.SetAppointments(snap.Appointments)
}

// Journal mirrors committed store mutations into a gorm database so that a
// restarted server resumes from the same state.
type Journal struct {
	db    *gorm.DB
	store *AppointmentStore
	log   zerolog.Logger
}

// NewJournal creates a Journal that reads collection-wide changes back from st.
func NewJournal(db *gorm.DB, st *AppointmentStore, log zerolog.Logger) *Journal {
	return &Journal{db: db, store: st, log: log.With().Str("component", "journal").Logger()}
}

// Notify implements Observer.
func (j *Journal) Notify(e Event) {
	var err error
	switch e.Kind {
	case EventUserSet, EventUserUpdated:
		err = j.upsert(e.User)
	case EventAppointmentAdded, EventAppointmentUpdated, EventAppointmentCancelled, EventRefundAttached:
		err = j.upsert(e.Appointment)
	case EventDoctorsSet:
		err = j.replaceDoctors(j.store.Doctors())
	case EventAppointmentsSet:
		err = j.replaceAppointments(j.store.Appointments())
	}
	if err != nil {
		j.log.Error().Err(err).Str("event", string(e.Kind)).Str("appointment_id", e.AppointmentID).Msg("failed to persist change")
	}
}

func (j *Journal) upsert(value interface{}) error {
	return j.db.Clauses(clause.OnConflict{UpdateAll: true}).Create(value).Error
}

func (j *Journal) replaceDoctors(doctors []models.Doctor) error {
	return j.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&models.Doctor{}).Error; err != nil {
			return err
		}
		if len(doctors) == 0 {
			return nil
		}
		return tx.Create(&doctors).Error
	})
}

func (j *Journal) replaceAppointments(appointments []models.Appointment) error {
	return j.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&models.Appointment{}).Error; err != nil {
			return err
		}
		if len(appointments) == 0 {
			return nil
		}
		return tx.Create(&appointments).Error
	})
}

// LoadSnapshot reads the persisted state. It returns nil when nothing has
// been persisted yet.
func LoadSnapshot(db *gorm.DB) (*Snapshot, error) {
	var user models.User
	if err := db.First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	snap := &Snapshot{User: &user}
	if err := db.Order("id asc").Find(&snap.Doctors).Error; err != nil {
		return nil, err
	}
	if err := db.Order("id asc").Find(&snap.Appointments).Error; err != nil {
		return nil, err
	}
	return snap, nil
}
