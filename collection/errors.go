package collection

import "errors"

var (
	// ErrExhausted is returned by Next/Previous when there is no element left
	// in that direction.
	ErrExhausted = errors.New("iterator exhausted")

	// ErrIllegalState is returned by Remove/Set on an iterator without a
	// fresh Next/Previous call.
	ErrIllegalState = errors.New("illegal iterator state")

	// ErrUnsupported is returned by operations a collection shape does not
	// offer: positional mutation on sorted variants, range views, mutation
	// through read-only views.
	ErrUnsupported = errors.New("unsupported operation")

	// ErrTypeMismatch is returned when a sorted collection has no comparator
	// and the item has no natural ordering.
	ErrTypeMismatch = errors.New("type mismatch")

	ErrNoSuchElement   = errors.New("no such element")
	ErrIndexOutOfRange = errors.New("index out of range")
)
