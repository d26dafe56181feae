package bin

import (
	"encoding/binary"
	"io"

	"github.com/meverselabs/farms/common"
	"github.com/meverselabs/farms/common/amount"
)

// SumReader reads the fields of a SumWriter in the same order
type SumReader struct {
	sum int64
}

func NewSumReader() *SumReader {
	return &SumReader{}
}

func (sr *SumReader) fill(r io.Reader, bs []byte) (int64, error) {
	n, err := readFull(r, bs)
	sr.sum += n
	return sr.sum, err
}

func (sr *SumReader) Uint8(r io.Reader, p *uint8) (int64, error) {
	bs := make([]byte, 1)
	if _, err := sr.fill(r, bs); err != nil {
		return sr.sum, err
	}
	*p = bs[0]
	return sr.sum, nil
}

func (sr *SumReader) Uint64(r io.Reader, p *uint64) (int64, error) {
	bs := make([]byte, 8)
	if _, err := sr.fill(r, bs); err != nil {
		return sr.sum, err
	}
	*p = binary.LittleEndian.Uint64(bs)
	return sr.sum, nil
}

func (sr *SumReader) Bytes(r io.Reader, p *[]byte) (int64, error) {
	bs, n, err := readBytes(r)
	sr.sum += n
	if err != nil {
		return sr.sum, err
	}
	*p = bs
	return sr.sum, nil
}

func (sr *SumReader) Bool(r io.Reader, p *bool) (int64, error) {
	var v uint8
	if _, err := sr.Uint8(r, &v); err != nil {
		return sr.sum, err
	}
	*p = v == 1
	return sr.sum, nil
}

func (sr *SumReader) Address(r io.Reader, p *common.Address) (int64, error) {
	return sr.fill(r, p[:])
}

func (sr *SumReader) Amount(r io.Reader, p **amount.Amount) (int64, error) {
	var bs []byte
	if _, err := sr.Bytes(r, &bs); err != nil {
		return sr.sum, err
	}
	*p = amount.NewAmountFromBytes(bs)
	return sr.sum, nil
}

func (sr *SumReader) Sum() int64 {
	return sr.sum
}
