package domain

import "errors"

var (
	ErrUnauthenticated    = errors.New("not authenticated")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserExists         = errors.New("user already exists")
	ErrUserNotFound       = errors.New("user not found")
	ErrListNotFound       = errors.New("list not found")
	ErrItemNotFound       = errors.New("item not found")
	ErrInvalidInput       = errors.New("invalid input")
	ErrForbidden          = errors.New("permission denied")
	ErrBackend            = errors.New("backend request failed")
	ErrUnexpected         = errors.New("unexpected error")
)
