package token

import "errors"

// token errors
var (
	ErrInvalidTransferAmount = errors.New("invalid transfer amount")
	ErrInsufficientBalance   = errors.New("insufficient balance")
	ErrUnauthorized          = errors.New("unauthorized transfer")
	ErrTransferToZero        = errors.New("transfer to zero address")
	ErrCustodyExists         = errors.New("custodial account already exists")
)
