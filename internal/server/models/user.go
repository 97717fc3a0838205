// Package models defines server-side data models persisted in the database.
package models

import "time"

// User is an account of the vault. Biometric templates reference it by ID.
type User struct {
	ID           string
	Email        string
	PasswordHash []byte
	CreatedAt    time.Time
}
