package farm

import (
	"github.com/meverselabs/farms/common"
)

var (
	tagRewarder = byte(0x01)
	tagCrop     = byte(0x02)
	tagPlot     = byte(0x03)
)

func makeFarmKey(key byte, body []byte) []byte {
	bs := make([]byte, 1+len(body))
	bs[0] = key
	copy(bs[1:], body[:])
	return bs
}

func makeRewarderKey(addr common.Address) []byte {
	return makeFarmKey(tagRewarder, addr[:])
}

func makeCropKey(addr common.Address) []byte {
	return makeFarmKey(tagCrop, addr[:])
}

func makePlotKey(addr common.Address) []byte {
	return makeFarmKey(tagPlot, addr[:])
}

var (
	labelDeposit = []byte("deposit")
	labelReward  = []byte("reward")
)
