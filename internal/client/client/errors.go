package client

import "errors"

var (
	ErrUnavailable   = errors.New("server unavailable")
	ErrUnauthorized  = errors.New("unauthorized")
	ErrNotLoggedIn   = errors.New("not logged in")
	ErrNotFound      = errors.New("not found")
	ErrInvalid       = errors.New("rejected by server")
	ErrAlreadyExists = errors.New("already exists")
)
