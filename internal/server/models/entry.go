package models

import "time"

// Entry is a sealed password vault record as stored. Payload is the
// AES-GCM ciphertext of a Credential's secret fields.
type Entry struct {
	ID        string
	UserID    string
	Payload   []byte
	Nonce     []byte
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Credential is the decrypted view of an Entry.
type Credential struct {
	ID        string    `json:"-"`
	UserID    string    `json:"-"`
	Site      string    `json:"site"`
	Email     string    `json:"email"`
	Password  string    `json:"password"`
	URL       string    `json:"url,omitempty"`
	Category  string    `json:"category,omitempty"`
	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}
