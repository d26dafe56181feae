package backend

import "errors"

// errors
var (
	ErrNotExistDriver     = errors.New("not exist driver")
	ErrNotExistKey        = errors.New("not exist key")
	ErrMemoryNotSupported = errors.New("driver does not support in-memory mode")
)
