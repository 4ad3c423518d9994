// Package validator provides custom validation functions for Gin's binding engine.
package validator

import (
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// Register registers all custom validators with the Gin binding engine.
func Register() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("proposal_status", validateProposalStatus)
		_ = v.RegisterValidation("user_role", validateUserRole)
	}
}

func validateProposalStatus(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "submitted", "under_review", "approved_for_voting", "rejected", "selected", "in_progress", "completed":
		return true
	}
	return false
}

func validateUserRole(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "citizen", "admin":
		return true
	}
	return false
}
