package buntdb_driver

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/tidwall/buntdb"

	"github.com/meverselabs/farms/core/backend"
)

func init() {
	backend.RegisterDriver("buntdb", NewStoreBackendBuntDB)
}

type StoreBackendBuntDB struct {
	db *buntdb.DB
}

func NewStoreBackendBuntDB(path string) (backend.StoreBackend, error) {
	start := time.Now()
	file := path
	if path != backend.MemoryPath {
		if err := os.MkdirAll(path, os.ModePerm); err != nil {
			return nil, err
		}
		file = filepath.Join(path, "farms.buntdb")
	}
	db, err := buntdb.Open(file)
	if err != nil {
		return nil, err
	}
	slog.Info("BuntDB is opened", "path", path, "elapsed", time.Since(start))
	st := &StoreBackendBuntDB{
		db: db,
	}
	return st, nil
}

func (st *StoreBackendBuntDB) Shrink() {
	if err := st.db.Shrink(); err != nil && err != buntdb.ErrPersistenceActive {
		slog.Warn("BuntDB shrink failed", "err", err)
	}
}

func (st *StoreBackendBuntDB) Close() {
	start := time.Now()
	st.db.Close()
	slog.Info("BuntDB is closed", "elapsed", time.Since(start))
}

func (st *StoreBackendBuntDB) View(fn func(txn backend.StoreReader) error) error {
	return st.db.View(func(txn *buntdb.Tx) error {
		return fn(&storeBackendBuntDBTx{txn: txn})
	})
}

func (st *StoreBackendBuntDB) Update(fn func(txn backend.StoreWriter) error) error {
	return st.db.Update(func(txn *buntdb.Tx) error {
		return fn(&storeBackendBuntDBTx{txn: txn})
	})
}

type storeBackendBuntDBTx struct {
	txn *buntdb.Tx
}

func (r *storeBackendBuntDBTx) Get(key []byte) ([]byte, error) {
	value, err := r.txn.Get(string(key))
	if err != nil {
		if err == buntdb.ErrNotFound {
			return nil, backend.ErrNotExistKey
		}
		return nil, err
	}
	return []byte(value), nil
}

func (r *storeBackendBuntDBTx) Iterate(prefix []byte, fn func(key []byte, value []byte) error) error {
	p := string(prefix)
	var inErr error
	if err := r.txn.AscendGreaterOrEqual("", p, func(key, value string) bool {
		if !strings.HasPrefix(key, p) {
			return false
		}
		if err := fn([]byte(key), []byte(value)); err != nil {
			inErr = err
			return false
		}
		return true
	}); err != nil {
		return err
	}
	return inErr
}

func (r *storeBackendBuntDBTx) Set(key []byte, value []byte) error {
	_, _, err := r.txn.Set(string(key), string(value), nil)
	return err
}

func (r *storeBackendBuntDBTx) Delete(key []byte) error {
	_, err := r.txn.Delete(string(key))
	if err == buntdb.ErrNotFound {
		return nil
	}
	return err
}
