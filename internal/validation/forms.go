package validation

import (
	"strconv"
	"strings"

	"appointment-booking-server/internal/models"
)

// BasicInfo is the edit-basic-info form. Numeric fields arrive as typed text.
type BasicInfo struct {
	Gender string `json:"gender" validate:"required"`
	Age    string `json:"age" validate:"intrange=1 120"`
	Height string `json:"height" validate:"intrange=50 250"`
	Weight string `json:"weight" validate:"intrange=20 300"`
}

var basicInfoMessages = map[string]string{
	"gender": "Please select a gender",
	"age":    "Please enter a valid age (1-120)",
	"height": "Please enter a valid height (50-250 cm)",
	"weight": "Please enter a valid weight (20-300 kg)",
}

// ValidateBasicInfo checks gender, age, height and weight.
func ValidateBasicInfo(form BasicInfo) Result {
	return check(form, basicInfoMessages)
}

// Patch converts a valid form into a profile update.
func (b BasicInfo) Patch() models.UserPatch {
	gender := b.Gender
	return models.UserPatch{
		Gender: &gender,
		Age:    atoi(b.Age),
		Height: atoi(b.Height),
		Weight: atoi(b.Weight),
	}
}

// ValidateProfilePatch applies the basic-info rules to the gender, age,
// height and weight a profile update supplies. Omitted fields are not checked.
func ValidateProfilePatch(p models.UserPatch) Result {
	var form BasicInfo
	supplied := map[string]bool{}
	if p.Gender != nil {
		form.Gender = *p.Gender
		supplied["gender"] = true
	}
	if p.Age != nil {
		form.Age = strconv.Itoa(*p.Age)
		supplied["age"] = true
	}
	if p.Height != nil {
		form.Height = strconv.Itoa(*p.Height)
		supplied["height"] = true
	}
	if p.Weight != nil {
		form.Weight = strconv.Itoa(*p.Weight)
		supplied["weight"] = true
	}

	res := ValidateBasicInfo(form)
	for field := range res.Errors {
		if !supplied[field] {
			delete(res.Errors, field)
		}
	}
	return res
}

// ConcernForm is the edit-concern form.
type ConcernForm struct {
	Concern      string `json:"concern" validate:"required"`
	Severity     string `json:"severity" validate:"required"`
	Duration     string `json:"duration" validate:"intmin=1"`
	DurationUnit string `json:"durationUnit" validate:"required"`
}

var concernMessages = map[string]string{
	"concern":      "Please select a concern",
	"severity":     "Please select severity level",
	"duration":     "Please enter a valid duration",
	"durationUnit": "Please select duration unit",
}

// ValidateConcern checks the concern, its severity and how long it has lasted.
func ValidateConcern(form ConcernForm) Result {
	return check(form, concernMessages)
}

// NewConcernForm fills the edit-concern form from a stored concern.
func NewConcernForm(c models.Concern) ConcernForm {
	return ConcernForm{
		Concern:      c.Type,
		Severity:     c.Severity,
		Duration:     c.Duration,
		DurationUnit: c.DurationUnit,
	}
}

// ToConcern converts the form into the appointment sub-record.
func (c ConcernForm) ToConcern() models.Concern {
	return models.Concern{
		Type:         c.Concern,
		Severity:     c.Severity,
		Duration:     strings.TrimSpace(c.Duration),
		DurationUnit: c.DurationUnit,
	}
}

type rescheduleReason struct {
	Reason string `json:"reason" validate:"notblank"`
}

// ValidateRescheduleReason requires a non-blank reason.
func ValidateRescheduleReason(reason string) Result {
	return check(rescheduleReason{Reason: reason}, map[string]string{
		"reason": "Please select a reason for rescheduling",
	})
}

type customReason struct {
	Reason string `json:"reason" validate:"notblank,trimmin=10,trimmax=200"`
}

var customReasonMessages = map[string]string{
	"reason.notblank": "Please enter a reason",
	"reason.trimmin":  "Reason must be at least 10 characters long",
	"reason.trimmax":  "Reason must be less than 200 characters",
}

// ValidateCustomReason requires a free-text reason of 10 to 200 characters
// once surrounding whitespace is removed.
func ValidateCustomReason(reason string) Result {
	return check(customReason{Reason: reason}, customReasonMessages)
}

type contact struct {
	Email string `json:"email" validate:"omitempty,email"`
	Phone string `json:"phone" validate:"omitempty,phone"`
}

// ValidateContact checks the optional email address and phone number of a
// profile update.
func ValidateContact(email, phone string) Result {
	return check(contact{Email: email, Phone: phone}, map[string]string{
		"email": "Please enter a valid email address",
		"phone": "Please enter a valid phone number",
	})
}

func atoi(s string) *int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return nil
	}
	return &n
}
