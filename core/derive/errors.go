package derive

import "errors"

// errors
var (
	ErrAddressDerivationExhausted = errors.New("address derivation exhausted")
	ErrInvalidProof               = errors.New("invalid derivation proof")
	ErrInvalidSeed                = errors.New("invalid seed")
)
