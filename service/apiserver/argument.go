package apiserver

import (
	"fmt"
	"strconv"

	"github.com/pkg/errors"

	"github.com/meverselabs/farms/common"
	"github.com/meverselabs/farms/common/amount"
)

// Argument parses rpc arguments
type Argument struct {
	args []interface{}
}

// NewArgument returns a Argument
func NewArgument(args []interface{}) *Argument {
	arg := &Argument{
		args: args,
	}
	return arg
}

// Len returns length of arguments
func (arg *Argument) Len() int {
	return len(arg.args)
}

func (arg *Argument) raw(index int) (string, error) {
	if index < 0 || index >= len(arg.args) {
		return "", errors.WithStack(ErrInvalidArgumentIndex)
	}
	a := arg.args[index]
	if a == nil {
		return "", errors.WithStack(ErrInvalidArgumentType)
	}
	return fmt.Sprintf("%v", a), nil
}

// Uint8 returns a uint8 value of the index
func (arg *Argument) Uint8(index int) (uint8, error) {
	s, err := arg.raw(index)
	if err != nil {
		return 0, err
	}
	n, err := strconv.ParseUint(s, 10, 8)
	if err != nil {
		return 0, errors.Wrapf(ErrInvalidArgumentType, "argument %d: %v", index, err)
	}
	return uint8(n), nil
}

// Uint64 returns a uint64 value of the index
func (arg *Argument) Uint64(index int) (uint64, error) {
	s, err := arg.raw(index)
	if err != nil {
		return 0, err
	}
	n, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, errors.Wrapf(ErrInvalidArgumentType, "argument %d: %v", index, err)
	}
	return n, nil
}

// String returns a string value of the index
func (arg *Argument) String(index int) (string, error) {
	return arg.raw(index)
}

// Address returns a base58 address value of the index
func (arg *Argument) Address(index int) (common.Address, error) {
	s, err := arg.raw(index)
	if err != nil {
		return common.ZeroAddr, err
	}
	addr, err := common.ParseAddress(s)
	if err != nil {
		return common.ZeroAddr, errors.Wrapf(ErrInvalidArgumentType, "argument %d: %v", index, err)
	}
	return addr, nil
}

// Amount returns a base unit amount value of the index
func (arg *Argument) Amount(index int) (*amount.Amount, error) {
	s, err := arg.raw(index)
	if err != nil {
		return nil, err
	}
	am, err := amount.ParseAmount(s)
	if err != nil {
		return nil, errors.Wrapf(ErrInvalidArgumentType, "argument %d: %v", index, err)
	}
	return am, nil
}
