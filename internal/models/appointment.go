package models

// AppointmentStatus represents the status of an appointment
type AppointmentStatus string

const (
	StatusUpcoming    AppointmentStatus = "upcoming"
	StatusCompleted   AppointmentStatus = "completed"
	StatusCancelled   AppointmentStatus = "cancelled"
	StatusRescheduled AppointmentStatus = "rescheduled"
)

var statusTransitions = map[AppointmentStatus][]AppointmentStatus{
	StatusUpcoming:    {StatusCompleted, StatusCancelled, StatusRescheduled},
	StatusRescheduled: {StatusUpcoming, StatusCancelled},
}

// Valid reports whether s is one of the known statuses.
func (s AppointmentStatus) Valid() bool {
	switch s {
	case StatusUpcoming, StatusCompleted, StatusCancelled, StatusRescheduled:
		return true
	}
	return false
}

// CanTransitionTo reports whether an appointment in status s may move to next.
// Completed and cancelled are terminal.
func (s AppointmentStatus) CanTransitionTo(next AppointmentStatus) bool {
	for _, allowed := range statusTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// ConsultationType is how the consultation takes place
type ConsultationType string

const (
	ConsultationVideo    ConsultationType = "video"
	ConsultationPhone    ConsultationType = "phone"
	ConsultationInPerson ConsultationType = "in-person"
)

// Valid reports whether t is one of the known consultation types.
func (t ConsultationType) Valid() bool {
	switch t {
	case ConsultationVideo, ConsultationPhone, ConsultationInPerson:
		return true
	}
	return false
}

// Concern is the medical issue the patient described while booking
type Concern struct {
	Type         string `json:"type"`
	Severity     string `json:"severity"`
	Duration     string `json:"duration"`
	DurationUnit string `json:"durationUnit"`
}

// Appointment is a scheduled consultation between the user and a doctor.
// The doctor is copied into the appointment when it is booked.
type Appointment struct {
	ID        string            `gorm:"primaryKey;size:64" json:"id"`
	Doctor    Doctor            `gorm:"serializer:json" json:"doctor"`
	Date      string            `gorm:"size:20" json:"date"`
	Time      string            `gorm:"size:20" json:"time"`
	Status    AppointmentStatus `gorm:"size:20;default:'upcoming'" json:"status"`
	Type      ConsultationType  `gorm:"size:20" json:"type"`
	CanJoin   bool              `gorm:"default:false" json:"canJoin"`
	Countdown string            `gorm:"size:100" json:"countdown,omitempty"`
	Duration  int               `json:"duration,omitempty"`
	Notes     string            `gorm:"type:text" json:"notes,omitempty"`
	Concern   *Concern          `gorm:"serializer:json" json:"concern,omitempty"`
	Symptoms  []string          `gorm:"serializer:json" json:"symptoms,omitempty"`
	BookingID string            `gorm:"size:32" json:"bookingId,omitempty"`
	Fee       *float64          `json:"fee,omitempty"`
	Refund    *RefundInfo       `gorm:"serializer:json" json:"refund,omitempty"`
}

// AppointmentPatch holds the fields of a partial appointment update.
// There is no ID field: an appointment id never changes once created.
type AppointmentPatch struct {
	Doctor    *Doctor            `json:"doctor,omitempty"`
	Date      *string            `json:"date,omitempty"`
	Time      *string            `json:"time,omitempty"`
	Status    *AppointmentStatus `json:"status,omitempty"`
	Type      *ConsultationType  `json:"type,omitempty"`
	CanJoin   *bool              `json:"canJoin,omitempty"`
	Countdown *string            `json:"countdown,omitempty"`
	Duration  *int               `json:"duration,omitempty"`
	Notes     *string            `json:"notes,omitempty"`
	Concern   *Concern           `json:"concern,omitempty"`
	Symptoms  *[]string          `json:"symptoms,omitempty"`
	BookingID *string            `json:"bookingId,omitempty"`
	Fee       *float64           `json:"fee,omitempty"`
	Refund    *RefundInfo        `json:"refund,omitempty"`
}

// Apply merges the non-nil fields of p into a.
func (a *Appointment) Apply(p AppointmentPatch) {
	if p.Doctor != nil {
		a.Doctor = p.Doctor.Clone()
	}
	if p.Date != nil {
		a.Date = *p.Date
	}
	if p.Time != nil {
		a.Time = *p.Time
	}
	if p.Status != nil {
		a.Status = *p.Status
	}
	if p.Type != nil {
		a.Type = *p.Type
	}
	if p.CanJoin != nil {
		a.CanJoin = *p.CanJoin
	}
	if p.Countdown != nil {
		a.Countdown = *p.Countdown
	}
	if p.Duration != nil {
		a.Duration = *p.Duration
	}
	if p.Notes != nil {
		a.Notes = *p.Notes
	}
	if p.Concern != nil {
		a.Concern = cloneValue(p.Concern)
	}
	if p.Symptoms != nil {
		a.Symptoms = append([]string(nil), (*p.Symptoms)...)
	}
	if p.BookingID != nil {
		a.BookingID = *p.BookingID
	}
	if p.Fee != nil {
		a.Fee = cloneValue(p.Fee)
	}
	if p.Refund != nil {
		r := p.Refund.Clone()
		a.Refund = &r
	}
}

// Clone returns a deep copy of a.
func (a Appointment) Clone() Appointment {
	a.Doctor = a.Doctor.Clone()
	a.Concern = cloneValue(a.Concern)
	if a.Symptoms != nil {
		a.Symptoms = append([]string(nil), a.Symptoms...)
	}
	a.Fee = cloneValue(a.Fee)
	if a.Refund != nil {
		r := a.Refund.Clone()
		a.Refund = &r
	}
	return a
}

// FeeOrZero returns the consultation fee, or 0 when none was charged.
func (a Appointment) FeeOrZero() float64 {
	if a.Fee == nil {
		return 0
	}
	return *a.Fee
}
