package handlers

import (
	"fmt"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/tripbound/travel-booking-backend/internal/models"
)

// RegisterValidations installs the custom binding validators used by
// the booking payloads
func RegisterValidations() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return fmt.Errorf("unexpected binding validator engine")
	}

	if err := v.RegisterValidation("fareclass", func(fl validator.FieldLevel) bool {
		return models.FareClass(fl.Field().String()).Valid()
	}); err != nil {
		return fmt.Errorf("failed to register fareclass validation: %w", err)
	}

	if err := v.RegisterValidation("trainclass", func(fl validator.FieldLevel) bool {
		return models.TrainClassType(fl.Field().String()).Valid()
	}); err != nil {
		return fmt.Errorf("failed to register trainclass validation: %w", err)
	}

	return nil
}
