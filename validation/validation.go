// Package validation checks request payloads before any store access.
//
// Each schema is a struct carrying validator tags. Validate strips markup from
// fields tagged `sanitize`, trims fields tagged `trim`, then runs the rules on
// the values that will be stored, and reports only the first failure as a
// human readable message such as
// `"title" length must be at least 2 characters long`.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/blogforge/blogd/models"
)

// Error is a validation failure whose message is safe to show to clients.
type Error struct {
	Message string
}

func (e *Error) Error() string { return e.Message }

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// Messages name the field by its label, falling back to the json key.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		if label := f.Tag.Get("label"); label != "" {
			return label
		}
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
	_ = v.RegisterValidation("objectid", func(fl validator.FieldLevel) bool {
		return models.IsValidID(fl.Field().String())
	})
	return v
}

// Validate normalizes and checks a schema value. s must be a pointer.
func Validate(s interface{}) error {
	normalizeFields(reflect.ValueOf(s))
	err := validate.Struct(s)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		return &Error{Message: message(fieldErrs[0])}
	}
	return &Error{Message: err.Error()}
}

// normalizeFields rewrites string and *string fields in place: first through
// the sanitizer named by the `sanitize` tag, then trimmed when `trim:"true"`.
func normalizeFields(v reflect.Value) {
	if v.Kind() != reflect.Ptr || v.IsNil() {
		return
	}
	v = v.Elem()
	if v.Kind() != reflect.Struct {
		return
	}
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		tag := t.Field(i).Tag
		sanitize := sanitizers[tag.Get("sanitize")]
		trim := tag.Get("trim") == "true"
		if sanitize == nil && !trim {
			continue
		}
		f := v.Field(i)
		if f.Kind() == reflect.Ptr && !f.IsNil() {
			f = f.Elem()
		}
		if f.Kind() != reflect.String {
			continue
		}
		s := f.String()
		if sanitize != nil {
			s = sanitize(s)
		}
		if trim {
			s = strings.TrimSpace(s)
		}
		f.SetString(s)
	}
}

func message(fe validator.FieldError) string {
	name := fe.Field()
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%q is required", name)
	case "min":
		return fmt.Sprintf("%q length must be at least %s characters long", name, fe.Param())
	case "max":
		return fmt.Sprintf("%q length must be less than or equal to %s characters long", name, fe.Param())
	case "email":
		return fmt.Sprintf("%q must be a valid email", name)
	case "objectid":
		return fmt.Sprintf("%q must be a valid id", name)
	default:
		return fmt.Sprintf("%q is invalid", name)
	}
}
