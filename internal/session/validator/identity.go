package validator

import (
	"bookcom/pkg/model"
	"bookcom/pkg/validation"

	"github.com/go-playground/validator/v10"
)

type IdentityValidator struct {
	validate *validator.Validate
}

func NewIdentityValidator() *IdentityValidator {
	return &IdentityValidator{
		validate: validation.New(),
	}
}

func (v *IdentityValidator) Validate(identity *model.Identity) error {
	return validation.Struct(v.validate, identity)
}
