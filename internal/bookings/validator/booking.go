package validator

import (
	"bookcom/pkg/model"
	"bookcom/pkg/validation"

	"github.com/go-playground/validator/v10"
)

type BookingValidator struct {
	validate *validator.Validate
}

func NewBookingValidator() *BookingValidator {
	return &BookingValidator{
		validate: validation.New(),
	}
}

func (v *BookingValidator) ValidateTimeUpdate(update *model.BookingTimeUpdate) error {
	return validation.Struct(v.validate, update)
}
