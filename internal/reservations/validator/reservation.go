package validator

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"deskly/internal/interval"
	"deskly/pkg/logger"
	"deskly/pkg/model"
)

const dateLayout = "2006-01-02"

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (v ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", v.Field, v.Message)
}

type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	if len(v) == 0 {
		return ""
	}
	var messages []string
	for _, err := range v {
		messages = append(messages, err.Error())
	}
	return fmt.Sprintf("validation failed: %d error(s): [%s]", len(v), strings.Join(messages, "; "))
}

// IntervalError marks a reservation whose times parse but do not form a
// usable interval, as opposed to plain field-format failures.
type IntervalError struct {
	Message string
}

func (e *IntervalError) Error() string {
	return e.Message
}

type ReservationValidator struct {
	validate *validator.Validate
	logger   *logger.Logger
}

func NewReservationValidator(log *logger.Logger) *ReservationValidator {
	v := validator.New()

	if err := v.RegisterValidation("dateonly", validateDateOnly); err != nil {
		log.Fatal("Failed to register 'dateonly' validator", "error", err)
	}
	if err := v.RegisterValidation("clocktime", validateClockTime); err != nil {
		log.Fatal("Failed to register 'clocktime' validator", "error", err)
	}

	return &ReservationValidator{
		validate: v,
		logger:   log,
	}
}

func validateDateOnly(fl validator.FieldLevel) bool {
	_, err := time.Parse(dateLayout, fl.Field().String())
	return err == nil
}

func validateClockTime(fl validator.FieldLevel) bool {
	_, err := interval.ParseClock(fl.Field().String())
	return err == nil
}

// Validate checks field formats first, then the interval ordering rule:
// start must be strictly before end, so zero-length and inverted intervals
// are both rejected.
func (v *ReservationValidator) Validate(reservation *model.Reservation) error {
	if err := v.validate.Struct(reservation); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return v.translateValidationErrors(validationErrs)
		}
		return err
	}

	iv, err := interval.Parse(reservation.StartTime, reservation.EndTime)
	if err != nil {
		return &IntervalError{Message: err.Error()}
	}
	if !iv.Valid() {
		return &IntervalError{Message: "end_time must be after start_time"}
	}

	return nil
}

func (v *ReservationValidator) ValidateUpdate(update *model.ReservationUpdate) error {
	if err := v.validate.Struct(update); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return v.translateValidationErrors(validationErrs)
		}
		return err
	}

	return nil
}

func (v *ReservationValidator) translateValidationErrors(errs validator.ValidationErrors) ValidationErrors {
	var validationErrors ValidationErrors

	for _, err := range errs {
		message := err.Error()

		switch err.Tag() {
		case "required":
			message = fmt.Sprintf("%s is required", err.Field())
		case "mongodb":
			message = fmt.Sprintf("%s must be a valid MongoDB ObjectID", err.Field())
		case "dateonly":
			message = fmt.Sprintf("%s must be a date in YYYY-MM-DD format", err.Field())
		case "clocktime":
			message = fmt.Sprintf("%s must be a time in HH:MM format", err.Field())
		case "oneof":
			message = fmt.Sprintf("%s must be one of: %s", err.Field(), err.Param())
		}

		validationErrors = append(validationErrors, ValidationError{
			Field:   err.Field(),
			Message: message,
		})
	}

	return validationErrors
}
