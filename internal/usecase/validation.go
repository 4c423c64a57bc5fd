package usecase

import "strings"

const (
	minPasswordLength = 8
	maxLineQuantity   = 999
)

// ValidateCredentials checks login/password shape before hitting storage.
func ValidateCredentials(login, password string) bool {
	return strings.TrimSpace(login) != "" && len(password) >= minPasswordLength
}

// ValidateQuantity bounds a single cart line quantity.
func ValidateQuantity(quantity int) bool {
	return quantity > 0 && quantity <= maxLineQuantity
}
