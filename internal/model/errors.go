package model

import "errors"

var (
	// Credential errors
	ErrUserNotFound      = errors.New("user not found")
	ErrUserAlreadyExists = errors.New("user already exists")

	// Token errors
	ErrInvalidToken = errors.New("invalid or expired token")
)
