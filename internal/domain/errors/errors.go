package errors

import "errors"

var (
	ErrAlreadyExists      = errors.New("already exists")
	ErrNotFound           = errors.New("not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidQuantity    = errors.New("invalid quantity")
	ErrInvalidProduct     = errors.New("invalid product")
	ErrCartEmpty          = errors.New("cart is empty")
	ErrOutOfStock         = errors.New("insufficient stock")
	ErrIllegalTransition  = errors.New("illegal status transition")
)
