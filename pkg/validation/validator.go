package validation

import (
	"html"
	"reflect"
	"strings"

	"github.com/Aidin1998/qrmenu/common/errors"
	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
)

// Validator validates request structs and strips markup from free text.
type Validator struct {
	validator *validator.Validate
	sanitizer *bluemonday.Policy
}

// NewValidator creates a validator reporting fields by their json names.
func NewValidator() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	return &Validator{
		validator: v,
		sanitizer: bluemonday.StrictPolicy(),
	}
}

// Validate checks s against its validate tags. Failures are reported as an
// errors.Invalid carrying one field error per violated rule.
func (v *Validator) Validate(s any) error {
	err := v.validator.Struct(s)
	if err == nil {
		return nil
	}

	var fieldsErr validator.ValidationErrors
	if !errors.As(err, &fieldsErr) {
		return errors.Invalid.Wrap(err)
	}

	first := fieldsErr[0]
	validationErr := errors.Invalid.Explain("%s", message(first))
	for _, fieldErr := range fieldsErr {
		validationErr = validationErr.WithField(fieldErr.Tag(), fieldErr.Field(), message(fieldErr))
	}
	return validationErr
}

func message(err validator.FieldError) string {
	switch err.Tag() {
	case "required":
		return err.Field() + " is required"
	case "max":
		return err.Field() + " must be at most " + err.Param() + " characters"
	case "min":
		if err.Kind() == reflect.String {
			return err.Field() + " must be at least " + err.Param() + " characters"
		}
		return err.Field() + " must be at least " + err.Param()
	default:
		return err.Field() + " is invalid"
	}
}

// Text strips any markup from s and trims surrounding whitespace.
func (v *Validator) Text(s string) string {
	if s == "" {
		return s
	}
	return strings.TrimSpace(html.UnescapeString(v.sanitizer.Sanitize(s)))
}

// OptionalText is Text for nullable columns: blank input becomes nil.
func (v *Validator) OptionalText(s *string) *string {
	if s == nil {
		return nil
	}
	cleaned := v.Text(*s)
	if cleaned == "" {
		return nil
	}
	return &cleaned
}
