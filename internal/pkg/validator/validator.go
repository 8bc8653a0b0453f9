package validator

import (
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"fieldbook/internal/domain"
	"fieldbook/internal/pkg/bearing"
)

var validate *validator.Validate

func init() {
	validate = validator.New()
	// bearing_dms accepts a blank or well-formed DMS/quadrant bearing string.
	validate.RegisterValidation("bearing_dms", func(fl validator.FieldLevel) bool {
		return bearing.Validate(fl.Field().String(), bearing.FormatDMS)
	})
}

// Validate checks struct fields against their tags and returns a
// field -> failed-tag map, or nil when everything passes.
func Validate(v interface{}) map[string]string {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	errors := make(map[string]string)
	for _, err := range err.(validator.ValidationErrors) {
		errors[err.Field()] = err.Tag()
	}
	return errors
}

// NonBlank reports whether s has any non-whitespace content.
func NonBlank(s string) bool {
	return strings.TrimSpace(s) != ""
}

// ValidBearing reports whether text is an acceptable bearing in the given
// format. Blank input counts as valid ("no value yet").
func ValidBearing(text string, format bearing.Format) bool {
	return bearing.Validate(text, format)
}

// ValidBearings checks every entry of a bearing list as DMS text.
func ValidBearings(texts []string) bool {
	for _, t := range texts {
		if !bearing.Validate(t, bearing.FormatDMS) {
			return false
		}
	}
	return true
}

// ValidPhase and ValidStatus wrap the domain enum checks for form code.
func ValidPhase(s string) bool  { return domain.ProjectPhase(s).Valid() }
func ValidStatus(s string) bool { return domain.ProjectStatus(s).Valid() }

// DatesOrdered reports whether due is unset or not earlier than start.
func DatesOrdered(start, due *time.Time) bool {
	if start == nil || due == nil {
		return true
	}
	return !due.Before(*start)
}
