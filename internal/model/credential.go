package model

import "time"

// Credential is the persisted record for one account. The email is the
// storage key and is case-sensitive: "A@b.com" and "a@b.com" are two
// different accounts.
type Credential struct {
	Email        string    `json:"email"`
	PasswordHash string    `json:"password_hash"`
	CreatedAt    time.Time `json:"created_at"`
}
