package handlers

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

type FieldError struct {
	Field   string
	Message string
}

var formValidator = newFormValidator()

func newFormValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// report errors under the form field name, not the Go field name
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("form"), ",")

		if name == "" || name == "-" {
			return fld.Name
		}

		return name
	})

	return v
}

// BindForm binds urlencoded form values into out and trims every string
// field, so validation always sees the sanitized values.
func BindForm(ctx *gin.Context, out interface{}) error {
	err := ctx.ShouldBind(out)

	if err != nil {
		return err
	}

	trimStringFields(out)

	return nil
}

func trimStringFields(out interface{}) {
	v := reflect.ValueOf(out)

	for v.Kind() == reflect.Pointer {
		v = v.Elem()
	}

	if v.Kind() != reflect.Struct {
		return
	}

	for i := 0; i < v.NumField(); i++ {
		f := v.Field(i)

		if f.Kind() == reflect.String && f.CanSet() {
			f.SetString(strings.TrimSpace(f.String()))
		}
	}
}

// ValidateForm runs tag validation and maps failures to display messages.
// messages is keyed by "<field>.<rule>" with a "<field>" fallback; anything
// unmapped falls through to a generic rule message.
func ValidateForm(out interface{}, messages map[string]string) []FieldError {
	err := formValidator.Struct(out)

	if err == nil {
		return nil
	}

	var validatorErrors validator.ValidationErrors

	if !errors.As(err, &validatorErrors) {
		return []FieldError{{Message: "Invalid form submission"}}
	}

	fields := make([]FieldError, 0, len(validatorErrors))

	for _, fieldError := range validatorErrors {
		field := fieldError.Field()

		msg, ok := messages[field+"."+fieldError.Tag()]

		if !ok {
			msg, ok = messages[field]
		}

		if !ok {
			msg = field + " " + validationMessage(fieldError.Tag(), fieldError.Param())
		}

		fields = append(fields, FieldError{Field: field, Message: msg})
	}

	return fields
}

func validationMessage(rule, param string) string {
	switch rule {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "min":
		return "must be at least " + param
	case "max":
		return "must be at most " + param
	case "eqfield":
		return "must match " + param
	default:
		if param != "" {
			return fmt.Sprintf("failed %s validation (%s)", rule, param)
		}
		return "failed " + rule + " validation"
	}
}
