// Package seed provides the demo data loaded at startup and the reason
// catalogs offered by the reschedule and cancel flows.
package seed

import (
	"appointment-booking-server/internal/models"
	"appointment-booking-server/internal/store"
)

const placeholderAvatar = "/placeholder.svg?height=100&width=100"

// OtherReasonID is the catalog entry that requires a free-text reason.
const OtherReasonID = "other"

// Reason is a selectable reschedule or cancellation reason
type Reason struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Icon        string `json:"icon"`
	Description string `json:"description,omitempty"`
}

// RescheduleReasons is the catalog shown when moving an appointment.
var RescheduleReasons = []Reason{
	{ID: "emergency", Title: "Emergency work", Icon: "work", Description: "Urgent work commitment"},
	{ID: "financial", Title: "Financial issues", Icon: "attach-money", Description: "Payment related concerns"},
	{ID: "scheduling", Title: "Scheduling conflict", Icon: "schedule", Description: "Time slot conflict"},
	{ID: OtherReasonID, Title: "Other", Icon: "more-horiz", Description: "Other reasons"},
}

// CancelReasons is the catalog shown when cancelling an appointment.
var CancelReasons = []Reason{
	{ID: "emergency", Title: "Emergency work", Icon: "work"},
	{ID: "internet", Title: "Internet issues", Icon: "wifi-off"},
	{ID: "scheduling", Title: "Scheduling conflict", Icon: "schedule"},
	{ID: OtherReasonID, Title: "Other", Icon: "more-horiz"},
}

// FindReason looks id up in catalog.
func FindReason(catalog []Reason, id string) (Reason, bool) {
	for _, r := range catalog {
		if r.ID == id {
			return r, true
		}
	}
	return Reason{}, false
}

func float(v float64) *float64 { return &v }
func str(v string) *string     { return &v }
func num(v int) *int           { return &v }

// Doctors returns the doctor directory.
func Doctors() []models.Doctor {
	return []models.Doctor{
		{
			ID:             "1",
			Name:           "Dr. Deepa Godara",
			Specialization: "Orthodontist",
			Avatar:         placeholderAvatar,
			Rating:         float(4.8),
			Experience:     "8+ years",
			Fee:            float(500),
		},
		{
			ID:             "2",
			Name:           "Dr. Rajesh Kumar",
			Specialization: "Cardiologist",
			Avatar:         placeholderAvatar,
			Rating:         float(4.9),
			Experience:     "12+ years",
			Fee:            float(800),
		},
		{
			ID:             "3",
			Name:           "Dr. Prerna",
			Specialization: "Male-Female Infertility",
			Avatar:         placeholderAvatar,
			Rating:         float(4.9),
			Experience:     "12+ years",
			Fee:            float(500),
		},
	}
}

// User returns the signed-in demo patient.
func User() models.User {
	return models.User{
		ID:                "1",
		Name:              "Mayank Singh",
		Phone:             "81782-49347",
		Email:             "mayank@example.com",
		Avatar:            placeholderAvatar,
		ProfileCompletion: 60,
		Gender:            str("male"),
		Age:               num(28),
		Height:            num(171),
		Weight:            num(63),
	}
}

// Appointments returns the appointments the demo patient starts with.
func Appointments() []models.Appointment {
	doctors := Doctors()
	return []models.Appointment{
		{
			ID:        "1",
			Doctor:    doctors[0],
			Date:      "2024-11-19",
			Time:      "10:30 AM",
			Status:    models.StatusUpcoming,
			Type:      models.ConsultationVideo,
			CanJoin:   true,
			Duration:  30,
			BookingID: "APPL#10247816",
			Fee:       float(500),
		},
		{
			ID:        "2",
			Doctor:    doctors[1],
			Date:      "2025-09-13",
			Time:      "10:30 AM",
			Status:    models.StatusUpcoming,
			Type:      models.ConsultationVideo,
			Countdown: "Your video consultation starts in 3:52 hour",
			Duration:  30,
			BookingID: "APPL#10247817",
			Fee:       float(800),
		},
	}
}

// Snapshot bundles the whole seed for store.Restore.
func Snapshot() store.Snapshot {
	u := User()
	return store.Snapshot{
		User:         &u,
		Doctors:      Doctors(),
		Appointments: Appointments(),
	}
}
