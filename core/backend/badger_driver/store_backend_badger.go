package badger_driver

import (
	"log/slog"
	"os"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/meverselabs/farms/core/backend"
)

func init() {
	backend.RegisterDriver("badger", NewStoreBackendBadger)
}

type StoreBackendBadger struct {
	db *badger.DB
}

func NewStoreBackendBadger(path string) (backend.StoreBackend, error) {
	start := time.Now()
	var opts badger.Options
	if path == backend.MemoryPath {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		if err := os.MkdirAll(path, os.ModePerm); err != nil {
			return nil, err
		}
		opts = badger.DefaultOptions(path)
	}
	opts = opts.WithLogger(nil)

	db, err := badger.Open(opts)
	if err != nil {
		return nil, err
	}
	slog.Info("Badger is opened", "path", path, "elapsed", time.Since(start))
	st := &StoreBackendBadger{
		db: db,
	}
	return st, nil
}

func (st *StoreBackendBadger) Shrink() {
	st.db.RunValueLogGC(0.7)
}

func (st *StoreBackendBadger) Close() {
	start := time.Now()
	st.db.Close()
	slog.Info("Badger is closed", "elapsed", time.Since(start))
}

func (st *StoreBackendBadger) View(fn func(txn backend.StoreReader) error) error {
	return st.db.View(func(txn *badger.Txn) error {
		return fn(&storeBackendBadgerTx{txn: txn})
	})
}

func (st *StoreBackendBadger) Update(fn func(txn backend.StoreWriter) error) error {
	return st.db.Update(func(txn *badger.Txn) error {
		return fn(&storeBackendBadgerTx{txn: txn})
	})
}

type storeBackendBadgerTx struct {
	txn *badger.Txn
}

func (r *storeBackendBadgerTx) Get(key []byte) ([]byte, error) {
	item, err := r.txn.Get(key)
	if err != nil {
		if err == badger.ErrKeyNotFound {
			return nil, backend.ErrNotExistKey
		}
		return nil, err
	}
	return item.ValueCopy(nil)
}

func (r *storeBackendBadgerTx) Iterate(prefix []byte, fn func(key []byte, value []byte) error) error {
	opts := badger.DefaultIteratorOptions
	opts.Prefix = prefix
	it := r.txn.NewIterator(opts)
	defer it.Close()
	for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
		item := it.Item()
		if item.IsDeletedOrExpired() {
			continue
		}
		value, err := item.ValueCopy(nil)
		if err != nil {
			return err
		}
		if err := fn(item.KeyCopy(nil), value); err != nil {
			return err
		}
	}
	return nil
}

func (r *storeBackendBadgerTx) Set(key []byte, value []byte) error {
	return r.txn.Set(key, value)
}

func (r *storeBackendBadgerTx) Delete(key []byte) error {
	return r.txn.Delete(key)
}
