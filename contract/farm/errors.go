package farm

import (
	"errors"

	"github.com/meverselabs/farms/core/derive"
)

// identity errors
var (
	ErrAlreadyAppointed  = errors.New("already appointed")
	ErrCropAlreadyExists = errors.New("crop already exists")
	ErrPlotAlreadyExists = errors.New("plot already exists")
	ErrRewarderNotFound  = errors.New("rewarder not found")
	ErrCropNotFound      = errors.New("crop not found")
	ErrPlotNotFound      = errors.New("plot not found")
	ErrInvalidProof      = derive.ErrInvalidProof
	ErrImmutableIdentity = errors.New("immutable identity field changed")
	ErrUnauthorized      = errors.New("unauthorized")
)

// validation errors
var (
	ErrInvalidAmount     = errors.New("invalid amount")
	ErrInsufficientStake = errors.New("insufficient stake")
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrInvalidFee        = errors.New("invalid fee")
	ErrNumericalOverflow = errors.New("numerical overflow")
)

// ErrAddressDerivationExhausted is fatal for the given inputs
var ErrAddressDerivationExhausted = derive.ErrAddressDerivationExhausted

// ErrRewardTreasuryUnderfunded is reported in a Receipt, the transition still commits
var ErrRewardTreasuryUnderfunded = errors.New("reward treasury underfunded")

var identityErrors = []error{
	ErrAlreadyAppointed,
	ErrCropAlreadyExists,
	ErrPlotAlreadyExists,
	ErrRewarderNotFound,
	ErrCropNotFound,
	ErrPlotNotFound,
	ErrInvalidProof,
	ErrImmutableIdentity,
	ErrUnauthorized,
}

var validationErrors = []error{
	ErrInvalidAmount,
	ErrInsufficientStake,
	ErrInsufficientFunds,
	ErrInvalidFee,
	ErrNumericalOverflow,
}

func isOneOf(err error, list []error) bool {
	for _, target := range list {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// IsIdentityError reports whether err rejects a transition because of a missing or duplicated entity
func IsIdentityError(err error) bool {
	return isOneOf(err, identityErrors)
}

// IsValidationError reports whether err rejects a transition because of its arguments
func IsValidationError(err error) bool {
	return isOneOf(err, validationErrors)
}

// IsFatal reports whether retrying with the same inputs can never succeed
func IsFatal(err error) bool {
	return errors.Is(err, ErrAddressDerivationExhausted)
}
