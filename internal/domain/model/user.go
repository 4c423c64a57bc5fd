package model

import "time"

// User represents a registered customer or administrator of the storefront.
type User struct {
	ID           int64
	Login        string
	PasswordHash string
	IsAdmin      bool
	CreatedAt    time.Time
}
