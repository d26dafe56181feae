package leveldb_driver

import (
	"log/slog"
	"time"

	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/storage"
	"github.com/syndtr/goleveldb/leveldb/util"

	"github.com/meverselabs/farms/core/backend"
)

func init() {
	backend.RegisterDriver("leveldb", NewStoreBackendLevelDB)
}

type StoreBackendLevelDB struct {
	db *leveldb.DB
}

func NewStoreBackendLevelDB(path string) (backend.StoreBackend, error) {
	start := time.Now()
	var db *leveldb.DB
	var err error
	if path == backend.MemoryPath {
		db, err = leveldb.Open(storage.NewMemStorage(), nil)
	} else {
		db, err = leveldb.OpenFile(path, nil)
	}
	if err != nil {
		return nil, err
	}
	slog.Info("LevelDB is opened", "path", path, "elapsed", time.Since(start))
	back := &StoreBackendLevelDB{
		db: db,
	}
	return back, nil
}

func (st *StoreBackendLevelDB) Shrink() {
	st.db.CompactRange(util.Range{})
}

func (st *StoreBackendLevelDB) Close() {
	start := time.Now()
	st.db.Close()
	slog.Info("LevelDB is closed", "elapsed", time.Since(start))
}

func (st *StoreBackendLevelDB) View(fn func(txn backend.StoreReader) error) error {
	snap, err := st.db.GetSnapshot()
	if err != nil {
		return err
	}
	defer snap.Release()
	return fn(&storeBackendLevelDBSnapshot{snap: snap})
}

func (st *StoreBackendLevelDB) Update(fn func(txn backend.StoreWriter) error) error {
	txn, err := st.db.OpenTransaction()
	if err != nil {
		return err
	}
	r := &storeBackendLevelDBTx{
		txn: txn,
	}
	if err := fn(r); err != nil {
		txn.Discard()
		return err
	}
	if err := txn.Commit(); err != nil {
		txn.Discard()
		return err
	}
	return nil
}

type storeBackendLevelDBSnapshot struct {
	snap *leveldb.Snapshot
}

func (r *storeBackendLevelDBSnapshot) Get(key []byte) ([]byte, error) {
	value, err := r.snap.Get(key, nil)
	if err != nil {
		if err == leveldb.ErrNotFound {
			return nil, backend.ErrNotExistKey
		}
		return nil, err
	}
	return value, nil
}

func (r *storeBackendLevelDBSnapshot) Iterate(prefix []byte, fn func(key []byte, value []byte) error) error {
	var rg *util.Range
	if len(prefix) > 0 {
		rg = util.BytesPrefix(prefix)
	}
	it := r.snap.NewIterator(rg, nil)
	defer it.Release()
	for it.Next() {
		if err := fn(copyBytes(it.Key()), copyBytes(it.Value())); err != nil {
			return err
		}
	}
	return it.Error()
}

type storeBackendLevelDBTx struct {
	txn *leveldb.Transaction
}

func (r *storeBackendLevelDBTx) Get(key []byte) ([]byte, error) {
	value, err := r.txn.Get(key, nil)
	if err != nil {
		if err == leveldb.ErrNotFound {
			return nil, backend.ErrNotExistKey
		}
		return nil, err
	}
	return value, nil
}

func (r *storeBackendLevelDBTx) Iterate(prefix []byte, fn func(key []byte, value []byte) error) error {
	var rg *util.Range
	if len(prefix) > 0 {
		rg = util.BytesPrefix(prefix)
	}
	it := r.txn.NewIterator(rg, nil)
	defer it.Release()
	for it.Next() {
		if err := fn(copyBytes(it.Key()), copyBytes(it.Value())); err != nil {
			return err
		}
	}
	return it.Error()
}

func (r *storeBackendLevelDBTx) Set(key []byte, value []byte) error {
	return r.txn.Put(key, value, nil)
}

func (r *storeBackendLevelDBTx) Delete(key []byte) error {
	return r.txn.Delete(key, nil)
}

func copyBytes(bs []byte) []byte {
	cp := make([]byte, len(bs))
	copy(cp, bs)
	return cp
}
