package view

import "errors"

var (
	// ErrUnavailable is returned by observations of a required view that is
	// empty. It is not retried: callers decide what to do.
	ErrUnavailable = errors.New("service unavailable")

	ErrUnknownKind = errors.New("unknown view kind")
	ErrAlreadyOpen = errors.New("view already open")
	ErrClosed      = errors.New("view closed")
)
