package service

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Error kinds. Every error returned by a service for a client mistake wraps
// exactly one of these, so handlers can map them to status codes with
// errors.Is.
var (
	ErrValidation   = errors.New("validation failed")
	ErrConflict     = errors.New("conflict")
	ErrNotFound     = errors.New("not found")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
)

var (
	ErrInvalidDates    = newError(ErrValidation, "check-out date must be after check-in date")
	ErrMissingDates    = newError(ErrValidation, "check-in and check-out dates are required")
	ErrRoomUnavailable = newError(ErrConflict, "sorry, this room is not available for the selected dates")
	ErrRoomNotFound    = newError(ErrNotFound, "room not found")
	ErrPhotoNotFound   = newError(ErrNotFound, "room photo not found")
	ErrBookingNotFound = newError(ErrNotFound, "booking not found")
	ErrUserNotFound    = newError(ErrNotFound, "user not found")
	ErrEmailTaken      = newError(ErrConflict, "an account with this email already exists")
	ErrBadCredentials  = newError(ErrUnauthorized, "invalid email or password")
	ErrRoleNotFound    = newError(ErrNotFound, "role not found")
	ErrRoleExists      = newError(ErrConflict, "role already exists")
	ErrRoleAssigned    = newError(ErrConflict, "user is already assigned to this role")
	ErrRoleNotAssigned = newError(ErrNotFound, "user is not assigned to this role")
)

// kindError carries a client-facing message and unwraps to its kind.
type kindError struct {
	kind error
	msg  string
}

func newError(kind error, msg string) error {
	return &kindError{kind: kind, msg: msg}
}

func (e *kindError) Error() string { return e.msg }

func (e *kindError) Unwrap() error { return e.kind }

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	if err := v.RegisterValidation("cents", validCents); err != nil {
		panic(err)
	}
	return v
}

// validCents reports whether a float amount has at most two decimal places.
func validCents(fl validator.FieldLevel) bool {
	f := fl.Field()
	if f.Kind() != reflect.Float32 && f.Kind() != reflect.Float64 {
		return false
	}
	c := f.Float() * 100
	return math.Abs(c-math.Round(c)) < 1e-4
}

// invalid turns a validator error into an ErrValidation with one message per
// failing field.
func invalid(err error) error {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return newError(ErrValidation, err.Error())
	}
	msgs := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		switch fe.Tag() {
		case "required":
			msgs = append(msgs, fe.Field()+" is required")
		case "email":
			msgs = append(msgs, fe.Field()+" must be a valid email address")
		case "min", "gte":
			msgs = append(msgs, fmt.Sprintf("%s must be at least %s", fe.Field(), fe.Param()))
		case "max", "lte":
			msgs = append(msgs, fmt.Sprintf("%s must be at most %s", fe.Field(), fe.Param()))
		case "gt":
			msgs = append(msgs, fmt.Sprintf("%s must be greater than %s", fe.Field(), fe.Param()))
		case "cents":
			msgs = append(msgs, fe.Field()+" must have at most two decimal places")
		default:
			msgs = append(msgs, fmt.Sprintf("%s is invalid (%s)", fe.Field(), fe.Tag()))
		}
	}
	return newError(ErrValidation, strings.Join(msgs, "; "))
}
