package domain

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

type SessionID string

// Color is a palette token. It carries no behaviour in the core.
type Color string

// ClassSession is one scheduled weekly period.
type ClassSession struct {
	ID      SessionID `json:"id"`
	Subject string    `json:"subject"`
	Teacher string    `json:"teacher"`
	Room    string    `json:"room"`
	Day     Weekday   `json:"day"`
	Start   TimeOfDay `json:"start"`
	End     TimeOfDay `json:"end"`
	Color   Color     `json:"color,omitempty"`
	// Seq is the insertion-order marker used to break sort ties.
	Seq int64 `json:"seq"`
}

func (s ClassSession) Fields() SessionFields {
	return SessionFields{
		Subject: s.Subject,
		Teacher: s.Teacher,
		Room:    s.Room,
		Day:     s.Day,
		Start:   s.Start,
		End:     s.End,
		Color:   s.Color,
	}
}

func (s ClassSession) DurationMinutes() int {
	return Duration(s.Start, s.End)
}

// SessionFields is everything a caller supplies on create or update.
type SessionFields struct {
	Subject string    `json:"subject" validate:"required"`
	Teacher string    `json:"teacher" validate:"required"`
	Room    string    `json:"room" validate:"required"`
	Day     Weekday   `json:"day" validate:"required"`
	Start   TimeOfDay `json:"start" validate:"min=0,max=1439"`
	End     TimeOfDay `json:"end" validate:"min=0,max=1439"`
	Color   Color     `json:"color"`
}

var fieldValidator = newFieldValidator()

func newFieldValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			return field.Name
		}
		return name
	})
	return v
}

func (f SessionFields) normalized() SessionFields {
	f.Subject = strings.TrimSpace(f.Subject)
	f.Teacher = strings.TrimSpace(f.Teacher)
	f.Room = strings.TrimSpace(f.Room)
	f.Day = Weekday(strings.TrimSpace(string(f.Day)))
	f.Color = Color(strings.TrimSpace(string(f.Color)))
	return f
}

// Validate checks the fields against days. Every problem is reported, joined.
func (f SessionFields) Validate(days WeekdaySet) error {
	var errs []error

	if err := fieldValidator.Struct(f); err != nil {
		var fieldErrs validator.ValidationErrors
		if !errors.As(err, &fieldErrs) {
			return fmt.Errorf("validate session fields: %w", err)
		}
		for _, fe := range fieldErrs {
			errs = append(errs, &ValidationError{Field: fe.Field(), Reason: validationReason(fe)})
		}
	}

	if f.Day != "" && !days.Contains(f.Day) {
		errs = append(errs, &ValidationError{Field: "day", Reason: fmt.Sprintf("%q is not a scheduled day", f.Day)})
	}

	if f.End <= f.Start {
		errs = append(errs, &ValidationError{Field: "end", Reason: "must be later than start"})
	}

	return errors.Join(errs...)
}

func validationReason(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min", "max":
		return "is not a valid time of day"
	default:
		return fmt.Sprintf("failed %q check", fe.Tag())
	}
}
