package types

import "errors"

// context errors
var (
	ErrLoaderFailed = errors.New("loader failed")
)
