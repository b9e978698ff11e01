package utils

import "errors"

var (
	ErrInvalidArgument = errors.New("invalid argument")
	ErrUnsupported     = errors.New("unsupported feature")
	ErrNotConverged    = errors.New("pull-back did not converge")
)
