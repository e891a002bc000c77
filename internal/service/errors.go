package service

import "errors"

var (
	// ErrValidation wraps all input validation failures; the message carries
	// the field-level detail.
	ErrValidation = errors.New("invalid input")

	// ErrInvalidCredentials covers every login failure mode: unknown email,
	// wrong password, and undecodable stored hash. Callers cannot tell which.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrAlreadyInitialized is returned by Setup once any user exists.
	ErrAlreadyInitialized = errors.New("system already initialized")

	// ErrMissingBootstrapRefs means the configured bootstrap role or area is
	// absent; the operator must run the seeder before setup.
	ErrMissingBootstrapRefs = errors.New("bootstrap role or area not found; run the seeder first")

	ErrEmailTaken = errors.New("email already registered")

	// ErrIdentityTaken is the storage-level conflict backstop: the failing
	// unique index may be the email or the rut, so the message names both.
	ErrIdentityTaken = errors.New("email or rut already registered")

	ErrDuplicate    = errors.New("resource already exists")
	ErrBadReference = errors.New("referenced resource does not exist")
)
