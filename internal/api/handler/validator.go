package handler

import (
	"github.com/hotelbooking/reservation-client/internal/core/domain"
	"github.com/hotelbooking/reservation-client/internal/pkg/validate"
)

// echoValidator wraps go-playground/validator so Echo can call c.Validate(req).
type echoValidator struct {
	v *validate.Validator
}

// NewValidator returns an echoValidator ready to be assigned to echo.Echo.Validator.
func NewValidator() *echoValidator {
	return &echoValidator{v: validate.New()}
}

// Validate satisfies the echo.Validator interface. The first failed field is
// reported as a *domain.ValidationError so the error handler renders a 422.
func (ev *echoValidator) Validate(i any) error {
	fields, err := ev.v.Fields(i)
	if err != nil {
		return err
	}
	if len(fields) == 0 {
		return nil
	}
	return &domain.ValidationError{Field: fields[0].Field, Message: fields[0].Message, Err: domain.ErrMissingField}
}
