package bin

import (
	"encoding/binary"
	"io"

	"github.com/pkg/errors"

	"github.com/meverselabs/farms/common"
	"github.com/meverselabs/farms/common/amount"
)

// SumWriter writes fields in order and counts the written bytes for WriteTo
type SumWriter struct {
	sum int64
}

func NewSumWriter() *SumWriter {
	return &SumWriter{}
}

func (sw *SumWriter) add(n int64, err error) (int64, error) {
	sw.sum += n
	return sw.sum, err
}

func (sw *SumWriter) Uint8(w io.Writer, v uint8) (int64, error) {
	return sw.add(writeFull(w, []byte{v}))
}

func (sw *SumWriter) Uint64(w io.Writer, v uint64) (int64, error) {
	bs := make([]byte, 8)
	binary.LittleEndian.PutUint64(bs, v)
	return sw.add(writeFull(w, bs))
}

func (sw *SumWriter) Bytes(w io.Writer, v []byte) (int64, error) {
	return sw.add(writeBytes(w, v))
}

func (sw *SumWriter) Bool(w io.Writer, v bool) (int64, error) {
	if v {
		return sw.Uint8(w, 1)
	}
	return sw.Uint8(w, 0)
}

// Address writes the fixed size address without a length prefix
func (sw *SumWriter) Address(w io.Writer, v common.Address) (int64, error) {
	return sw.add(writeFull(w, v[:]))
}

// Amount writes a non-negative amount, nil is written as zero
func (sw *SumWriter) Amount(w io.Writer, v *amount.Amount) (int64, error) {
	bs := []byte{}
	if v != nil && v.Int != nil {
		if v.IsMinus() {
			return sw.sum, errors.WithStack(ErrNegativeAmount)
		}
		bs = v.Bytes()
	}
	return sw.add(writeBytes(w, bs))
}

func (sw *SumWriter) Sum() int64 {
	return sw.sum
}
