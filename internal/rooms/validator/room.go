package validator

import (
	"bookcom/pkg/model"
	"bookcom/pkg/validation"

	"github.com/go-playground/validator/v10"
)

type RoomValidator struct {
	validate *validator.Validate
}

func NewRoomValidator() *RoomValidator {
	return &RoomValidator{
		validate: validation.New(),
	}
}

// ValidateBooking keeps booked rooms attributable: a booked room always has
// an email and a time.
func (v *RoomValidator) ValidateBooking(booking *model.RoomBooking) error {
	return validation.Struct(v.validate, booking)
}
