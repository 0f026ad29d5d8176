package common

import "errors"

var (
	// ErrorNotFound is what a missing remote resource unwraps to.
	ErrorNotFound = errors.New("not found")

	// ErrorValidation marks input rejected locally or by a backend (400/422).
	ErrorValidation = errors.New("validation error")
)
