package config

import (
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/agencykit/assistant/src/agent"
)

// Validator validates configuration values using go-playground/validator
type Validator struct {
	validate *validator.Validate
}

// NewValidator creates a new configuration validator
func NewValidator() *Validator {
	v := validator.New()

	v.RegisterValidation("loglevel", validateLogLevel)
	v.RegisterValidation("agentid", validateAgentID)

	return &Validator{validate: v}
}

// Validate validates a complete configuration
func (v *Validator) Validate(cfg *Config) error {
	if err := v.validate.Struct(cfg); err != nil {
		if validationErrors, ok := err.(validator.ValidationErrors); ok {
			for _, e := range validationErrors {
				return fmt.Errorf("invalid configuration: field %s failed on %q with value %v", e.Field(), e.Tag(), e.Value())
			}
		}
		return err
	}
	return nil
}

// validateLogLevel validates log level values
func validateLogLevel(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "", "debug", "info", "warn", "warning", "error":
		return true
	}
	return false
}

// validateAgentID validates that a configured default agent is registered
func validateAgentID(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true // Allow empty, will be filled by defaults
	}
	return agent.Known(value)
}
