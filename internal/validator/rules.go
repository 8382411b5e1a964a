package validator

import (
	"log"

	"smartattend_backend/internal/models"

	"github.com/go-playground/validator/v10"
)

// registerCustomRules registers domain-specific validation tags.
func registerCustomRules(v *validator.Validate) {
	mustRegister := func(tag string, fn validator.Func) {
		if err := v.RegisterValidation(tag, fn); err != nil {
			// A rule that fails to register is a startup error.
			log.Fatalf("failed to register custom validation tag '%s': %v", tag, err)
		}
	}

	// 'is-user-role': the role must be one of the known roles
	mustRegister("is-user-role", validateUserRole)
}

func validateUserRole(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true // 'required' handles empty values
	}

	switch models.UserRole(value) {
	case models.UserRoleAdmin, models.UserRoleUser:
		return true
	default:
		return false
	}
}
