package amount

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_Amount(t *testing.T) {
	a := NewAmount(1000)
	b := NewAmount(10000)
	assert.Equal(t, "11000", a.Add(b).String())
	assert.Equal(t, "-9000", a.Sub(b).String())
	assert.Equal(t, "0", a.DivC(10000).String())
	assert.Equal(t, "90000000", a.MulC(90000).String())
	assert.Equal(t, "10", b.Div(a).String())
	assert.True(t, a.Less(b))
	assert.True(t, a.Min(b).Equal(a))
	assert.True(t, a.Sub(b).IsMinus())
	assert.True(t, ZeroCoin.IsZero())
	assert.False(t, ZeroCoin.IsPlus())

	// operands are never mutated
	assert.Equal(t, "1000", a.String())
}

func TestParseAmount(t *testing.T) {
	c, err := ParseAmount("340282366920938463463374607431768211456")
	require.NoError(t, err)
	assert.Equal(t, "340282366920938463463374607431768211456", c.String())

	for _, s := range []string{"", "-1", "1.5", "abc"} {
		_, err := ParseAmount(s)
		assert.ErrorIs(t, err, ErrInvalidAmountFormat, s)
	}
}

func TestAmountBytesAndJSON(t *testing.T) {
	a := MustParseAmount("123456789012345678901234567890")
	assert.True(t, NewAmountFromBytes(a.Bytes()).Equal(a))

	bs, err := json.Marshal(a)
	require.NoError(t, err)
	assert.Equal(t, `"123456789012345678901234567890"`, string(bs))

	var b Amount
	require.NoError(t, json.Unmarshal(bs, &b))
	assert.True(t, b.Equal(a))
}
