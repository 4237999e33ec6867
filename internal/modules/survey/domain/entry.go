package domain

import (
	"fmt"
	"strings"
)

// Entry is one daily check-in. Zero is a meaningful value for sleep,
// appetite, and concentration; absence is rejected by Validate, never
// coerced.
type Entry struct {
	Mood          int
	SleepHours    float64
	Appetite      int
	Concentration int
	Notes         string
}

// FieldError pins a validation failure to the field the user must fix.
type FieldError struct {
	Field   string
	Message string
}

func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationError aggregates every failing field so the form can mark
// them all at once.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		msgs = append(msgs, f.Error())
	}
	return "invalid survey: " + strings.Join(msgs, "; ")
}

// Validate checks every field against its scoring range and reports all
// violations together.
func (e Entry) Validate() error {
	var fields []FieldError
	if e.Mood < 1 || e.Mood > 10 {
		fields = append(fields, FieldError{Field: "mood", Message: "must be between 1 and 10"})
	}
	if e.SleepHours < 0 || e.SleepHours > 24 {
		fields = append(fields, FieldError{Field: "sleep_hours", Message: "must be between 0 and 24"})
	}
	if e.Appetite < 0 || e.Appetite > 10 {
		fields = append(fields, FieldError{Field: "appetite", Message: "must be between 0 and 10"})
	}
	if e.Concentration < 0 || e.Concentration > 10 {
		fields = append(fields, FieldError{Field: "concentration", Message: "must be between 0 and 10"})
	}
	if len(fields) == 0 {
		return nil
	}
	return &ValidationError{Fields: fields}
}

// Descriptor is the live feedback shown next to a field while editing.
type Descriptor struct {
	Emoji string
	Text  string
}

func MoodDescriptor(v int) Descriptor {
	switch {
	case v <= 2:
		return Descriptor{"😭", "Muy triste"}
	case v <= 4:
		return Descriptor{"☹️", "Triste"}
	case v <= 6:
		return Descriptor{"😐", "Neutral"}
	case v <= 8:
		return Descriptor{"🙂", "Contento"}
	default:
		return Descriptor{"😄", "Muy feliz"}
	}
}

func SleepDescriptor(v float64) Descriptor {
	switch {
	case v < 4:
		return Descriptor{"😴", "Muy poco sueño"}
	case v < 6:
		return Descriptor{"😐", "Poco sueño"}
	case v <= 8:
		return Descriptor{"🛌", "Descanso adecuado"}
	default:
		return Descriptor{"😌", "Buen descanso"}
	}
}

func AppetiteDescriptor(v int) Descriptor {
	switch {
	case v <= 2:
		return Descriptor{"🥺", "Muy bajo"}
	case v <= 4:
		return Descriptor{"😕", "Bajo"}
	case v <= 6:
		return Descriptor{"😐", "Normal"}
	case v <= 8:
		return Descriptor{"😊", "Bueno"}
	default:
		return Descriptor{"🤩", "Excelente"}
	}
}

func ConcentrationDescriptor(v int) Descriptor {
	switch {
	case v <= 2:
		return Descriptor{"😵", "Muy baja"}
	case v <= 4:
		return Descriptor{"😕", "Baja"}
	case v <= 6:
		return Descriptor{"😐", "Normal"}
	case v <= 8:
		return Descriptor{"🧐", "Buena"}
	default:
		return Descriptor{"💡", "Excelente"}
	}
}
