package bin

import (
	"encoding/binary"
	"io"

	"github.com/pkg/errors"
)

// MaxBytesLength bounds a length prefixed field
const MaxBytesLength = 1 << 20

func writeFull(w io.Writer, bs []byte) (int64, error) {
	n, err := w.Write(bs)
	if err != nil {
		return int64(n), errors.WithStack(err)
	}
	if n != len(bs) {
		return int64(n), errors.WithStack(ErrInvalidLength)
	}
	return int64(n), nil
}

// writeBytes writes a uvarint length followed by the bytes
func writeBytes(w io.Writer, bs []byte) (int64, error) {
	if len(bs) > MaxBytesLength {
		return 0, errors.Wrapf(ErrInvalidLength, "%d bytes", len(bs))
	}
	prefix := make([]byte, binary.MaxVarintLen64)
	l := binary.PutUvarint(prefix, uint64(len(bs)))
	wrote, err := writeFull(w, prefix[:l])
	if err != nil {
		return wrote, err
	}
	n, err := writeFull(w, bs)
	return wrote + n, err
}

func readFull(r io.Reader, bs []byte) (int64, error) {
	n, err := io.ReadFull(r, bs)
	if err != nil {
		if err == io.ErrUnexpectedEOF {
			return int64(n), errors.WithStack(ErrInvalidLength)
		}
		return int64(n), errors.WithStack(err)
	}
	return int64(n), nil
}

// readBytes reads a field written by writeBytes
func readBytes(r io.Reader) ([]byte, int64, error) {
	var read int64
	var l uint64
	var shift uint
	b := make([]byte, 1)
	for i := 0; ; i++ {
		if i == binary.MaxVarintLen64 {
			return nil, read, errors.WithStack(ErrInvalidLength)
		}
		n, err := readFull(r, b)
		read += n
		if err != nil {
			return nil, read, err
		}
		l |= uint64(b[0]&0x7f) << shift
		if b[0] < 0x80 {
			break
		}
		shift += 7
	}
	if l > MaxBytesLength {
		return nil, read, errors.Wrapf(ErrInvalidLength, "%d bytes", l)
	}
	bs := make([]byte, l)
	n, err := readFull(r, bs)
	read += n
	if err != nil {
		return nil, read, err
	}
	return bs, read, nil
}
