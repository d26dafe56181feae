package token

import (
	"github.com/meverselabs/farms/common"
)

var (
	tagTokenTotalSupply = byte(0x04)
	tagTokenAmount      = byte(0x10)
	tagCustody          = byte(0x20)
)

func makeTokenKey(owner common.Address, key byte) []byte {
	bs := make([]byte, 1+len(owner))
	bs[0] = key
	copy(bs[1:], owner[:])
	return bs
}
