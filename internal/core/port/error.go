package port

import "errors"

var (
	ErrNotFound        = errors.New("not found")
	ErrCanceled        = errors.New("canceled")
	ErrNotSupported    = errors.New("not supported")
	ErrUnauthenticated = errors.New("unauthenticated")
)
