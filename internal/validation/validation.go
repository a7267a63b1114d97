// Package validation holds the pure form checks that gate every mutation.
//
// Each Validate function returns a Result mapping the json name of every
// failing field to a message fit for display. Validators keep no state and
// are safe to call concurrently.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
)

// ErrValidationFailed matches every *Error.
var ErrValidationFailed = errors.New("validation failed")

// Error carries the field→message map of a failed validation.
type Error struct {
	Fields map[string]string
}

func (e *Error) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = fmt.Sprintf("%s: %s", k, e.Fields[k])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (e *Error) Is(target error) bool { return target == ErrValidationFailed }

// Result is the outcome of a validation.
type Result struct {
	Errors map[string]string `json:"errors"`
}

// Valid reports whether no rule was violated.
func (r Result) Valid() bool { return len(r.Errors) == 0 }

// Err returns nil for a valid result and an *Error otherwise.
func (r Result) Err() error {
	if r.Valid() {
		return nil
	}
	return &Error{Fields: r.Errors}
}

var phonePattern = regexp.MustCompile(`^\+?[\d\s\-()]{10,}$`)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})
	mustRegister(v, "notblank", validators.NotBlank)
	mustRegister(v, "intrange", intRange)
	mustRegister(v, "intmin", intMin)
	mustRegister(v, "trimmin", trimMin)
	mustRegister(v, "trimmax", trimMax)
	mustRegister(v, "phone", func(fl validator.FieldLevel) bool {
		return phonePattern.MatchString(fl.Field().String())
	})
	return v
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(err)
	}
}

// intRange accepts a decimal integer within the inclusive bounds "lo hi".
func intRange(fl validator.FieldLevel) bool {
	bounds := strings.Fields(fl.Param())
	if len(bounds) != 2 {
		return false
	}
	lo, err1 := strconv.Atoi(bounds[0])
	hi, err2 := strconv.Atoi(bounds[1])
	n, err3 := strconv.Atoi(strings.TrimSpace(fl.Field().String()))
	if err1 != nil || err2 != nil || err3 != nil {
		return false
	}
	return n >= lo && n <= hi
}

func intMin(fl validator.FieldLevel) bool {
	lo, err := strconv.Atoi(fl.Param())
	if err != nil {
		return false
	}
	n, err := strconv.Atoi(strings.TrimSpace(fl.Field().String()))
	return err == nil && n >= lo
}

func trimmedLen(fl validator.FieldLevel) int {
	return utf8.RuneCountInString(strings.TrimSpace(fl.Field().String()))
}

func trimMin(fl validator.FieldLevel) bool {
	lo, err := strconv.Atoi(fl.Param())
	return err == nil && trimmedLen(fl) >= lo
}

func trimMax(fl validator.FieldLevel) bool {
	hi, err := strconv.Atoi(fl.Param())
	return err == nil && trimmedLen(fl) <= hi
}

// check runs the struct rules of form. messages is keyed by "field.tag" for
// tag specific text, falling back to "field".
func check(form interface{}, messages map[string]string) Result {
	res := Result{Errors: map[string]string{}}

	var verrs validator.ValidationErrors
	if err := validate.Struct(form); errors.As(err, &verrs) {
		for _, fe := range verrs {
			if _, seen := res.Errors[fe.Field()]; seen {
				continue
			}
			msg, ok := messages[fe.Field()+"."+fe.Tag()]
			if !ok {
				msg = messages[fe.Field()]
			}
			if msg == "" {
				msg = fmt.Sprintf("%s is invalid", fe.Field())
			}
			res.Errors[fe.Field()] = msg
		}
	}
	return res
}
