package bin

import "errors"

// errors
var (
	ErrInvalidLength  = errors.New("invalid length")
	ErrNegativeAmount = errors.New("negative amount")
)
