package backend

import (
	"sort"

	"github.com/pkg/errors"
)

// MemoryPath opens a driver without touching the disk when the driver supports it
const MemoryPath = ":memory:"

type StoreBackend interface {
	Shrink()
	Close()
	View(fn func(txn StoreReader) error) error
	Update(fn func(txn StoreWriter) error) error
}

type StoreReader interface {
	Get(key []byte) ([]byte, error)
	Iterate(prefix []byte, fn func(key []byte, value []byte) error) error
}

type StoreWriter interface {
	StoreReader
	Set(key []byte, value []byte) error
	Delete(key []byte) error
}

type CreateBackend func(Path string) (StoreBackend, error)

var gDriverMap = map[string]CreateBackend{}

func RegisterDriver(Name string, fn CreateBackend) {
	gDriverMap[Name] = fn
}

// Drivers returns the registered driver names in order
func Drivers() []string {
	names := make([]string, 0, len(gDriverMap))
	for k := range gDriverMap {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

func Create(Name string, Path string) (StoreBackend, error) {
	fn, has := gDriverMap[Name]
	if !has {
		return nil, errors.Wrapf(ErrNotExistDriver, "%s", Name)
	}
	return fn(Path)
}
