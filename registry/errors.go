package registry

import "errors"

var (
	ErrServiceNotFound   = errors.New("service not found")
	ErrInvalidFilter     = errors.New("invalid filter")
	ErrInvalidProperties = errors.New("invalid properties")
)
