package iam

import "errors"

var (
	// ErrInvalidCredentials covers both an unknown username and a wrong
	// password so callers cannot tell which one it was.
	ErrInvalidCredentials = errors.New("wrong credentials")

	// ErrUnauthenticated means the request carried no usable session token.
	ErrUnauthenticated = errors.New("unauthenticated")

	// ErrForbidden means the caller is authenticated but holds none of the
	// required roles.
	ErrForbidden = errors.New("forbidden")

	// ErrInvalidInput rejects provisioning requests before any store access.
	ErrInvalidInput = errors.New("invalid input")

	// ErrInternal wraps store, cache, and hash-format failures. Details are
	// logged, never returned to HTTP callers.
	ErrInternal = errors.New("internal error")
)
