package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/yigit/campusportal/internal/app/models"
	"github.com/yigit/campusportal/internal/app/models/dto"
)

// Register installs the domain tags ("role", "enrollment_status") and
// json field naming on gin's validator. Safe to call more than once.
func Register() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return errors.New("gin validator engine is not go-playground/validator")
	}
	return RegisterOn(v)
}

// RegisterOn installs the domain tags on v.
func RegisterOn(v *validator.Validate) error {
	v.RegisterTagNameFunc(jsonFieldName)

	if err := v.RegisterValidation("role", func(fl validator.FieldLevel) bool {
		return models.RoleType(fl.Field().String()).Valid()
	}); err != nil {
		return fmt.Errorf("register role validation: %w", err)
	}

	if err := v.RegisterValidation("enrollment_status", func(fl validator.FieldLevel) bool {
		return models.EnrollmentStatus(fl.Field().String()).Valid()
	}); err != nil {
		return fmt.Errorf("register enrollment_status validation: %w", err)
	}

	return nil
}

// Describe converts a binding error into a summary message and per-field
// details. Non-validation errors (malformed JSON, wrong types) yield a single
// message and no fields.
func Describe(err error) (string, []dto.FieldError) {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return "invalid request body", nil
	}

	fields := make([]dto.FieldError, 0, len(verrs))
	names := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, dto.FieldError{Field: fe.Field(), Message: formatFieldError(fe)})
		names = append(names, fe.Field())
	}
	return "invalid fields: " + strings.Join(names, ", "), fields
}

func formatFieldError(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return e.Field() + " is required"
	case "gt":
		return e.Field() + " must be greater than " + e.Param()
	case "min":
		return e.Field() + " must be at least " + e.Param() + " characters"
	case "max":
		return e.Field() + " must be at most " + e.Param() + " characters"
	case "email":
		return e.Field() + " must be a valid email address"
	case "role":
		return e.Field() + " must be one of: STUDENT, INSTRUCTOR, ADMIN"
	case "enrollment_status":
		return e.Field() + " must be one of: ENROLLED, WAITLISTED, DROPPED"
	default:
		return e.Field() + " validation failed: " + e.Tag()
	}
}

func jsonFieldName(f reflect.StructField) string {
	name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
	if name == "-" || name == "" {
		return f.Name
	}
	return name
}
