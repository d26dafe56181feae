package amount

import (
	"math/big"
	"strings"
)

var zeroInt = big.NewInt(0)

// ZeroCoin is the zero amount, never mutate it
var ZeroCoin = NewAmount(0)

// Amount is a token quantity in integer base units based on the big.Int
type Amount struct {
	*big.Int
}

func newAmount(value int64) *Amount {
	return &Amount{
		Int: big.NewInt(value),
	}
}

// NewAmount returns the amount of the base units
func NewAmount(v uint64) *Amount {
	return &Amount{
		Int: new(big.Int).SetUint64(v),
	}
}

// NewAmountFromBytes parse the amount from the byte array
func NewAmountFromBytes(bs []byte) *Amount {
	b := newAmount(0)
	b.Int.SetBytes(bs)
	return b
}

// NewAmountFromBig returns a copy of the big.Int as an amount
func NewAmountFromBig(bi *big.Int) *Amount {
	c := newAmount(0)
	c.Int.Set(bi)
	return c
}

// MarshalJSON is a marshaler function
func (am *Amount) MarshalJSON() ([]byte, error) {
	return []byte(`"` + am.String() + `"`), nil
}

// UnmarshalJSON is a unmarshaler function
func (am *Amount) UnmarshalJSON(bs []byte) error {
	str := string(bs)
	if len(str) >= 2 && str[0] == '"' && str[len(str)-1] == '"' {
		str = str[1 : len(str)-1]
	}
	v, err := ParseAmount(str)
	if err != nil {
		return err
	}
	am.Int = v.Int
	return nil
}

// Clone returns the clonend value of it
func (am *Amount) Clone() *Amount {
	c := newAmount(0)
	c.Int.Add(am.Int, zeroInt)
	return c
}

// Add returns a + b (*immutable)
func (am *Amount) Add(b *Amount) *Amount {
	c := newAmount(0)
	c.Int.Add(am.Int, b.Int)
	return c
}

// Sub returns a - b (*immutable)
func (am *Amount) Sub(b *Amount) *Amount {
	c := newAmount(0)
	c.Int.Sub(am.Int, b.Int)
	return c
}

// Div returns a / b (*immutable)
func (am *Amount) Div(b *Amount) *Amount {
	c := newAmount(0)
	c.Int.Div(am.Int, b.Int)
	return c
}

// DivC returns a / b (*immutable)
func (am *Amount) DivC(b int64) *Amount {
	c := newAmount(0)
	c.Int.Div(am.Int, big.NewInt(b))
	return c
}

// Mul returns a * b (*immutable)
func (am *Amount) Mul(b *Amount) *Amount {
	c := newAmount(0)
	c.Int.Mul(am.Int, b.Int)
	return c
}

// MulC returns a * b (*immutable)
func (am *Amount) MulC(b int64) *Amount {
	c := newAmount(0)
	c.Int.Mul(am.Int, big.NewInt(b))
	return c
}

// Min returns the smaller of a and b
func (am *Amount) Min(b *Amount) *Amount {
	if am.Int.Cmp(b.Int) <= 0 {
		return am.Clone()
	}
	return b.Clone()
}

// IsZero returns a == 0
func (am *Amount) IsZero() bool {
	return am.Int.Cmp(zeroInt) == 0
}

// IsPlus returns a > 0
func (am *Amount) IsPlus() bool {
	return am.Int.Cmp(zeroInt) > 0
}

// IsMinus returns a < 0
func (am *Amount) IsMinus() bool {
	return am.Int.Cmp(zeroInt) < 0
}

// Less returns a < b
func (am *Amount) Less(b *Amount) bool {
	return am.Int.Cmp(b.Int) < 0
}

// Equal checks that two values is same or not
func (am *Amount) Equal(b *Amount) bool {
	return am.Int.Cmp(b.Int) == 0
}

// String returns the decimal string of the amount
func (am *Amount) String() string {
	if am == nil || am.Int == nil {
		return "0"
	}
	return am.Int.String()
}

// ParseAmount parse the amount from the decimal string
func ParseAmount(str string) (*Amount, error) {
	str = strings.TrimSpace(str)
	if len(str) == 0 {
		return nil, ErrInvalidAmountFormat
	}
	bi, ok := new(big.Int).SetString(str, 10)
	if !ok {
		return nil, ErrInvalidAmountFormat
	}
	if bi.Sign() < 0 {
		return nil, ErrInvalidAmountFormat
	}
	return &Amount{Int: bi}, nil
}

// MustParseAmount parse the amount from the decimal string
func MustParseAmount(str string) *Amount {
	am, err := ParseAmount(str)
	if err != nil {
		panic(err)
	}
	return am
}
