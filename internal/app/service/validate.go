package service

import (
	"errors"
	"fmt"

	"codecrux/internal/common"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// validateInput runs struct-tag validation and translates the first failure
// into a user-readable bad-request error.
func validateInput(inp any) error {
	err := validate.Struct(inp)
	if err == nil {
		return nil
	}
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) && len(validationErrors) > 0 {
		e := validationErrors[0]
		return fmt.Errorf("%w: %s failed on the %q rule", common.ErrValidation, e.Field(), e.Tag())
	}
	return fmt.Errorf("%w: %v", common.ErrValidation, err)
}
