package common

import (
	"bytes"

	"github.com/mr-tron/base58/base58"
)

// AddressSize is 32 bytes
const AddressSize = 32

// Address is the [AddressSize]byte with methods
type Address [AddressSize]byte

// ZeroAddr is the empty address
var ZeroAddr = Address{}

// NewAddress returns a Address copied from the byte slice
func NewAddress(bs []byte) (Address, error) {
	if len(bs) != AddressSize {
		return Address{}, ErrInvalidAddressFormat
	}
	var addr Address
	copy(addr[:], bs)
	return addr, nil
}

// MarshalJSON is a marshaler function
func (addr Address) MarshalJSON() ([]byte, error) {
	return []byte(`"` + addr.String() + `"`), nil
}

// UnmarshalJSON is a unmarshaler function
func (addr *Address) UnmarshalJSON(bs []byte) error {
	if len(bs) < 3 {
		return ErrInvalidAddressFormat
	}
	if bs[0] != '"' || bs[len(bs)-1] != '"' {
		return ErrInvalidAddressFormat
	}
	v, err := ParseAddress(string(bs[1 : len(bs)-1]))
	if err != nil {
		return err
	}
	copy(addr[:], v[:])
	return nil
}

// MarshalText is used by config decoders
func (addr Address) MarshalText() ([]byte, error) {
	return []byte(addr.String()), nil
}

// UnmarshalText is used by config decoders
func (addr *Address) UnmarshalText(bs []byte) error {
	v, err := ParseAddress(string(bs))
	if err != nil {
		return err
	}
	copy(addr[:], v[:])
	return nil
}

// String returns a base58 value of the address
func (addr Address) String() string {
	return base58.Encode(addr[:])
}

// Bytes returns a copy of the address bytes
func (addr Address) Bytes() []byte {
	bs := make([]byte, AddressSize)
	copy(bs, addr[:])
	return bs
}

// Clone returns the clonend value of it
func (addr Address) Clone() Address {
	var cp Address
	copy(cp[:], addr[:])
	return cp
}

// IsZero returns the address is empty or not
func (addr Address) IsZero() bool {
	return addr == ZeroAddr
}

// Compare orders two addresses bytewise
func (addr Address) Compare(b Address) int {
	return bytes.Compare(addr[:], b[:])
}

// ParseAddress parse the address from the string
func ParseAddress(str string) (Address, error) {
	bs, err := base58.Decode(str)
	if err != nil {
		return Address{}, ErrInvalidAddressFormat
	}
	if len(bs) != AddressSize {
		return Address{}, ErrInvalidAddressFormat
	}
	var addr Address
	copy(addr[:], bs)
	return addr, nil
}

// MustParseAddress panic when error occurred
func MustParseAddress(str string) Address {
	addr, err := ParseAddress(str)
	if err != nil {
		panic(err)
	}
	return addr
}
