package service

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/phrazzld/tasktrack-api/internal/domain"
)

// dateTag is the custom validator tag for task due dates.
const dateTag = "task_date"

// inputValidator turns struct tag validation failures into per-field messages
// keyed by the JSON field name.
type inputValidator struct {
	validate *validator.Validate
}

func newInputValidator() *inputValidator {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Report fields by their JSON name so messages line up with the request body.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})

	// The registration can only fail for an empty tag or nil func.
	_ = v.RegisterValidation(dateTag, func(fl validator.FieldLevel) bool {
		_, err := domain.ParseDate(fl.Field().String())
		return err == nil
	})

	return &inputValidator{validate: v}
}

// Struct validates s and records every failure in verr.
// Errors other than validation failures are returned as is.
func (v *inputValidator) Struct(verr *domain.ValidationError, s any) error {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}
	for _, fe := range fieldErrs {
		verr.Add(fe.Field(), fieldMessage(fe.Field(), fe.Tag(), fe.Param()))
	}
	return nil
}

// Var validates a single value under the given field name and records the
// first failing rule in verr. It reports whether the value passed.
func (v *inputValidator) Var(verr *domain.ValidationError, field string, value any, tag string) bool {
	err := v.validate.Var(value, tag)
	if err == nil {
		return true
	}

	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		fe := fieldErrs[0]
		verr.Add(field, fieldMessage(field, fe.Tag(), fe.Param()))
		return false
	}
	verr.Add(field, fieldMessage(field, "", ""))
	return false
}

// fieldMessage renders the client-facing message for a failed rule.
func fieldMessage(field, tag, param string) string {
	attr := strings.ReplaceAll(field, "_", " ")
	switch tag {
	case "required":
		return fmt.Sprintf("The %s field is required.", attr)
	case "max":
		return fmt.Sprintf("The %s field must not be greater than %s characters.", attr, param)
	case "min":
		return fmt.Sprintf("The %s field must be at least %s characters.", attr, param)
	case "email":
		return fmt.Sprintf("The %s field must be a valid email address.", attr)
	case dateTag:
		return fmt.Sprintf("The %s field must be a valid date.", attr)
	case "oneof", "exists":
		return fmt.Sprintf("The selected %s is invalid.", attr)
	default:
		return fmt.Sprintf("The %s field is invalid.", attr)
	}
}
