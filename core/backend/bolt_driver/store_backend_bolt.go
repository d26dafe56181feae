package bolt_driver

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/boltdb/bolt"

	"github.com/meverselabs/farms/core/backend"
)

func init() {
	backend.RegisterDriver("bolt", NewStoreBackendBolt)
}

var bucketName = []byte{0}

type StoreBackendBolt struct {
	db *bolt.DB
}

func NewStoreBackendBolt(path string) (backend.StoreBackend, error) {
	if path == backend.MemoryPath {
		return nil, backend.ErrMemoryNotSupported
	}
	start := time.Now()
	if err := os.MkdirAll(path, os.ModePerm); err != nil {
		return nil, err
	}
	db, err := bolt.Open(filepath.Join(path, "farms.bolt"), 0600, &bolt.Options{Timeout: 5 * time.Second})
	if err != nil {
		return nil, err
	}
	if err := db.Update(func(txn *bolt.Tx) error {
		_, err := txn.CreateBucketIfNotExists(bucketName)
		return err
	}); err != nil {
		db.Close()
		return nil, err
	}
	slog.Info("Bolt is opened", "path", path, "elapsed", time.Since(start))
	st := &StoreBackendBolt{
		db: db,
	}
	return st, nil
}

func (st *StoreBackendBolt) Shrink() {
}

func (st *StoreBackendBolt) Close() {
	start := time.Now()
	st.db.Close()
	slog.Info("Bolt is closed", "elapsed", time.Since(start))
}

func (st *StoreBackendBolt) View(fn func(txn backend.StoreReader) error) error {
	return st.db.View(func(txn *bolt.Tx) error {
		return fn(&storeBackendBoltTx{bucket: txn.Bucket(bucketName)})
	})
}

func (st *StoreBackendBolt) Update(fn func(txn backend.StoreWriter) error) error {
	return st.db.Update(func(txn *bolt.Tx) error {
		return fn(&storeBackendBoltTx{bucket: txn.Bucket(bucketName)})
	})
}

type storeBackendBoltTx struct {
	bucket *bolt.Bucket
}

func (r *storeBackendBoltTx) Get(key []byte) ([]byte, error) {
	value := r.bucket.Get(key)
	if value == nil {
		return nil, backend.ErrNotExistKey
	}
	return copyBytes(value), nil
}

func (r *storeBackendBoltTx) Iterate(prefix []byte, fn func(key []byte, value []byte) error) error {
	c := r.bucket.Cursor()
	for k, v := c.Seek(prefix); k != nil && bytes.HasPrefix(k, prefix); k, v = c.Next() {
		if err := fn(copyBytes(k), copyBytes(v)); err != nil {
			return err
		}
	}
	return nil
}

func (r *storeBackendBoltTx) Set(key []byte, value []byte) error {
	return r.bucket.Put(key, value)
}

func (r *storeBackendBoltTx) Delete(key []byte) error {
	return r.bucket.Delete(key)
}

func copyBytes(bs []byte) []byte {
	cp := make([]byte, len(bs))
	copy(cp, bs)
	return cp
}
