package service

import (
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/saravana-agencies/billing-sync/internal/domain"
)

var validate = validator.New()

// validateStruct runs validator tags over a request struct and converts
// failures into the domain's ValidationError shape so every caller (the
// HTTP adapter included) sees one error taxonomy.
func validateStruct(s interface{}) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	fields := make(map[string]string)
	if ve, ok := err.(validator.ValidationErrors); ok {
		for _, fe := range ve {
			fields[jsonFieldName(fe.Field())] = validationMessage(fe)
		}
	}
	return domain.NewFieldValidationError("one or more fields failed validation", fields)
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required"
	case "len":
		return "Must be exactly " + fe.Param() + " characters"
	case "numeric":
		return "Must contain only digits"
	case "max":
		return "Must be at most " + fe.Param() + " characters"
	case "gte":
		return "Must be greater than or equal to " + fe.Param()
	default:
		return "Validation failed: " + fe.Tag()
	}
}

func jsonFieldName(field string) string {
	if len(field) == 0 {
		return field
	}
	return strings.ToLower(field[:1]) + field[1:]
}
