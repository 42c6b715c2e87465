package services

import (
	"errors"
	"fmt"

	"github.com/dmitrijs2005/venus/internal/common"
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
)

// maxPasswordBytes is bcrypt's input limit.
const maxPasswordBytes = 72

type registerInput struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Validate checks the registration fields. Length counts bytes, which is
// what bcrypt cares about.
func (r registerInput) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Username, validation.Required, validation.Length(1, 100)),
		validation.Field(&r.Email, validation.Required, validation.Length(3, 254), is.Email),
		validation.Field(&r.Password, validation.Required, validation.Length(1, maxPasswordBytes)),
	)
}

type projectInput struct {
	Name string `json:"name"`
}

func (r projectInput) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required, validation.Length(1, 200)),
	)
}

// validationError wraps rule failures in common.ErrorValidation so the
// transport answers 400. Misconfigured rules stay internal errors.
func validationError(err error) error {
	if err == nil {
		return nil
	}
	var internal validation.InternalError
	if errors.As(err, &internal) {
		return err
	}
	return fmt.Errorf("%w: %v", common.ErrorValidation, err)
}
