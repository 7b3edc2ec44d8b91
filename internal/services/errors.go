package services

import "errors"

var (
	ErrBadCreds        = errors.New("invalid email or password")
	ErrEmptyCart       = errors.New("cart is empty")
	ErrProductInactive = errors.New("product is not available")
)
