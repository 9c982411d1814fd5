// Package validator provides custom validation functions for Gin's binding engine.
package validator

import (
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"argentbank/internal/auth"
	"argentbank/internal/models"
)

// Register registers all custom validators with the Gin binding engine.
func Register() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		RegisterOn(v)
	}
}

// RegisterOn adds the custom tags to v.
func RegisterOn(v *validator.Validate) {
	_ = v.RegisterValidation("transaction_id", validateTransactionID)
	_ = v.RegisterValidation("notblank", validateNotBlank)
	_ = v.RegisterValidation("bcryptmax", validateBcryptMax)
}

func validateTransactionID(fl validator.FieldLevel) bool {
	return models.IsValidTransactionID(fl.Field().String())
}

func validateNotBlank(fl validator.FieldLevel) bool {
	return strings.TrimSpace(fl.Field().String()) != ""
}

// validateBcryptMax counts bytes, not runes.
func validateBcryptMax(fl validator.FieldLevel) bool {
	return len(fl.Field().String()) <= auth.MaxPasswordBytes
}
