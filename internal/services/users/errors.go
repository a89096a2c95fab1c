package users

import "errors"

var (
	// ErrEmailTaken is returned when trying to create a user with an email that already exists
	ErrEmailTaken = errors.New("email already registered")

	// ErrUserNotFound - user not found in DB
	ErrUserNotFound = errors.New("user not found")

	// ErrInvalidCredentials masks both unknown-email and wrong-password login
	// failures so the API does not leak which emails are registered.
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrGenAccessToken is returned when we cannot create a JWT.
	ErrGenAccessToken = errors.New("failed to generate access token")
)
