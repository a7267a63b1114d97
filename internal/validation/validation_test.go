package validation

import (
	"errors"
	"strings"
	"sync"
	"testing"

	"appointment-booking-server/internal/models"
)

func validBasicInfo() BasicInfo {
	return BasicInfo{Gender: "male", Age: "28", Height: "171", Weight: "63"}
}

func TestValidateBasicInfo_ValidRanges(t *testing.T) {
	cases := []BasicInfo{
		validBasicInfo(),
		{Gender: "female", Age: "1", Height: "50", Weight: "20"},
		{Gender: "other", Age: "120", Height: "250", Weight: "300"},
	}
	for _, c := range cases {
		res := ValidateBasicInfo(c)
		if !res.Valid() {
			t.Errorf("expected %+v to be valid, got %v", c, res.Errors)
		}
		if res.Err() != nil {
			t.Errorf("expected nil error for valid input, got %v", res.Err())
		}
	}
}

func TestValidateBasicInfo_SingleFieldOutOfRange(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*BasicInfo)
		field  string
		msg    string
	}{
		{"missing gender", func(b *BasicInfo) { b.Gender = "" }, "gender", "Please select a gender"},
		{"age zero", func(b *BasicInfo) { b.Age = "0" }, "age", "Please enter a valid age (1-120)"},
		{"age too high", func(b *BasicInfo) { b.Age = "121" }, "age", "Please enter a valid age (1-120)"},
		{"age not a number", func(b *BasicInfo) { b.Age = "abc" }, "age", "Please enter a valid age (1-120)"},
		{"age empty", func(b *BasicInfo) { b.Age = "" }, "age", "Please enter a valid age (1-120)"},
		{"height too low", func(b *BasicInfo) { b.Height = "49" }, "height", "Please enter a valid height (50-250 cm)"},
		{"height too high", func(b *BasicInfo) { b.Height = "251" }, "height", "Please enter a valid height (50-250 cm)"},
		{"weight too low", func(b *BasicInfo) { b.Weight = "19" }, "weight", "Please enter a valid weight (20-300 kg)"},
		{"weight too high", func(b *BasicInfo) { b.Weight = "301" }, "weight", "Please enter a valid weight (20-300 kg)"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			form := validBasicInfo()
			tt.mutate(&form)
			res := ValidateBasicInfo(form)
			if len(res.Errors) != 1 {
				t.Fatalf("expected exactly one error, got %v", res.Errors)
			}
			if got := res.Errors[tt.field]; got != tt.msg {
				t.Errorf("expected %s error %q, got %q", tt.field, tt.msg, got)
			}
		})
	}
}

func TestValidateBasicInfo_AllFieldsInvalid(t *testing.T) {
	res := ValidateBasicInfo(BasicInfo{})
	for _, f := range []string{"gender", "age", "height", "weight"} {
		if _, ok := res.Errors[f]; !ok {
			t.Errorf("expected error for %s", f)
		}
	}
}

func TestBasicInfo_Patch(t *testing.T) {
	p := validBasicInfo().Patch()
	if *p.Gender != "male" || *p.Age != 28 || *p.Height != 171 || *p.Weight != 63 {
		t.Errorf("unexpected patch: gender=%v age=%v height=%v weight=%v", *p.Gender, *p.Age, *p.Height, *p.Weight)
	}
}

func TestValidateConcern(t *testing.T) {
	valid := ConcernForm{Concern: "Toothache", Severity: "moderate", Duration: "3", DurationUnit: "days"}
	if res := ValidateConcern(valid); !res.Valid() {
		t.Fatalf("expected valid concern, got %v", res.Errors)
	}

	res := ValidateConcern(ConcernForm{Duration: "0"})
	want := map[string]string{
		"concern":      "Please select a concern",
		"severity":     "Please select severity level",
		"duration":     "Please enter a valid duration",
		"durationUnit": "Please select duration unit",
	}
	for k, v := range want {
		if res.Errors[k] != v {
			t.Errorf("expected %s error %q, got %q", k, v, res.Errors[k])
		}
	}

	valid.Duration = "-2"
	if res := ValidateConcern(valid); res.Errors["duration"] == "" {
		t.Error("expected negative duration to be rejected")
	}
}

func TestConcernForm_ToConcern(t *testing.T) {
	form := ConcernForm{Concern: "Toothache", Severity: "moderate", Duration: " 3 ", DurationUnit: "days"}
	c := form.ToConcern()
	if c.Type != "Toothache" || c.Duration != "3" {
		t.Errorf("unexpected concern %+v", c)
	}
	if back := NewConcernForm(c); back.Concern != "Toothache" || back.DurationUnit != "days" {
		t.Errorf("unexpected form %+v", back)
	}
}

func TestValidateProfilePatch(t *testing.T) {
	age, height, weight, gender := 500, 5, 9999, ""
	res := ValidateProfilePatch(models.UserPatch{Age: &age, Height: &height, Weight: &weight, Gender: &gender})
	for _, field := range []string{"age", "height", "weight", "gender"} {
		if res.Errors[field] == "" {
			t.Errorf("expected %s error, got %v", field, res.Errors)
		}
	}

	age = 30
	if res := ValidateProfilePatch(models.UserPatch{Age: &age}); !res.Valid() {
		t.Errorf("expected omitted fields to be ignored, got %v", res.Errors)
	}
	name := "Mayank"
	if res := ValidateProfilePatch(models.UserPatch{Name: &name}); !res.Valid() {
		t.Errorf("expected patch without basic info to pass, got %v", res.Errors)
	}
}

func TestValidateRescheduleReason(t *testing.T) {
	if res := ValidateRescheduleReason("Emergency work"); !res.Valid() {
		t.Errorf("expected valid, got %v", res.Errors)
	}
	for _, r := range []string{"", "   ", "\t\n"} {
		res := ValidateRescheduleReason(r)
		if res.Errors["reason"] != "Please select a reason for rescheduling" {
			t.Errorf("expected %q to be rejected, got %v", r, res.Errors)
		}
	}
}

func TestValidateCustomReason(t *testing.T) {
	tests := []struct {
		reason string
		want   string
	}{
		{"", "Please enter a reason"},
		{"    ", "Please enter a reason"},
		{"short", "Reason must be at least 10 characters long"},
		{"   nine char   ", "Reason must be at least 10 characters long"},
		{"a valid reason", ""},
		{strings.Repeat("a", 10), ""},
		{strings.Repeat("a", 200), ""},
		{"  " + strings.Repeat("a", 200) + "  ", ""},
		{strings.Repeat("a", 201), "Reason must be less than 200 characters"},
	}
	for _, tt := range tests {
		res := ValidateCustomReason(tt.reason)
		if got := res.Errors["reason"]; got != tt.want {
			t.Errorf("ValidateCustomReason(len %d): expected %q, got %q", len(tt.reason), tt.want, got)
		}
	}
}

func TestValidateContact(t *testing.T) {
	if res := ValidateContact("", ""); !res.Valid() {
		t.Errorf("expected empty contact to be valid, got %v", res.Errors)
	}
	if res := ValidateContact("mayank@example.com", "+91 81782-49347"); !res.Valid() {
		t.Errorf("expected valid contact, got %v", res.Errors)
	}
	res := ValidateContact("not-an-email", "12345")
	if res.Errors["email"] == "" || res.Errors["phone"] == "" {
		t.Errorf("expected email and phone errors, got %v", res.Errors)
	}
}

func TestResultErr(t *testing.T) {
	err := ValidateCustomReason("short").Err()
	if !errors.Is(err, ErrValidationFailed) {
		t.Fatalf("expected ErrValidationFailed, got %v", err)
	}
	var verr *Error
	if !errors.As(err, &verr) || verr.Fields["reason"] == "" {
		t.Errorf("expected field map on error, got %v", err)
	}
	if !strings.Contains(err.Error(), "reason:") {
		t.Errorf("expected field name in message, got %q", err.Error())
	}
}

func TestValidatorsArePure(t *testing.T) {
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			a := ValidateBasicInfo(BasicInfo{Gender: "", Age: "0", Height: "171", Weight: "63"})
			b := ValidateBasicInfo(BasicInfo{Gender: "", Age: "0", Height: "171", Weight: "63"})
			if len(a.Errors) != 2 || len(b.Errors) != 2 || a.Errors["age"] != b.Errors["age"] {
				t.Errorf("expected identical results, got %v and %v", a.Errors, b.Errors)
			}
		}()
	}
	wg.Wait()
}
