package services

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/dmitrijs2005/watchstore/internal/common"
)

var (
	ErrInvalidQuantity  = errors.New("quantity must be at least 1")
	ErrInvalidProduct   = errors.New("product id is required")
	ErrNotAuthenticated = errors.New("not signed in")
	ErrEmptyCart        = errors.New("cart is empty")
	ErrNoAccessToken    = errors.New("login response carried no access token")
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// validateStruct runs the struct's validate tags and wraps failures in
// common.ErrorValidation.
func validateStruct(v any) error {
	if err := validate.Struct(v); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return fmt.Errorf("%w: %s failed on %q", common.ErrorValidation, fe.Field(), fe.Tag())
		}
		return fmt.Errorf("%w: %v", common.ErrorValidation, err)
	}
	return nil
}

func validateQuantity(q int) error {
	if err := validate.Var(q, "gte=1"); err != nil {
		return fmt.Errorf("%w: got %d", ErrInvalidQuantity, q)
	}
	return nil
}

func validateProductID(id string) error {
	if err := validate.Var(id, "required"); err != nil {
		return ErrInvalidProduct
	}
	return nil
}
