package store

import (
	"log/slog"
	"sync"
	"time"

	"github.com/bluele/gcache"
	"github.com/jonboulle/clockwork"
	"github.com/pkg/errors"

	"github.com/meverselabs/farms/core/backend"
	"github.com/meverselabs/farms/core/types"
)

// Store saves the ledger state
// Every transition is applied in one backend transaction while holding the store lock
type Store struct {
	lock    sync.RWMutex
	back    backend.StoreBackend
	cache   gcache.Cache
	clock   clockwork.Clock
	log     *slog.Logger
	closing chan struct{}
	closed  bool
}

// NewStore returns a Store
func NewStore(back backend.StoreBackend, CacheSize int, clock clockwork.Clock, log *slog.Logger) *Store {
	if CacheSize <= 0 {
		CacheSize = 1024
	}
	st := &Store{
		back:    back,
		cache:   gcache.New(CacheSize).LRU().Build(),
		clock:   clock,
		log:     log,
		closing: make(chan struct{}),
	}
	go st.shrinkLoop()
	return st
}

func (st *Store) shrinkLoop() {
	ticker := st.clock.NewTicker(5 * time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-st.closing:
			return
		case <-ticker.Chan():
			st.lock.RLock()
			if !st.closed {
				st.back.Shrink()
			}
			st.lock.RUnlock()
		}
	}
}

// Close terminates the store and the backend
func (st *Store) Close() {
	st.lock.Lock()
	defer st.lock.Unlock()
	if st.closed {
		return
	}
	st.closed = true
	close(st.closing)
	st.back.Close()
}

// Now returns the unix time in seconds of the store clock
func (st *Store) Now() uint64 {
	return uint64(st.clock.Now().Unix())
}

// Data returns the persisted value of the key, nil when absent
func (st *Store) Data(key []byte) ([]byte, error) {
	if v, err := st.cache.Get(string(key)); err == nil {
		bs := v.([]byte)
		if len(bs) == 0 {
			return nil, nil
		}
		return bs, nil
	}
	var value []byte
	if err := st.back.View(func(txn backend.StoreReader) error {
		bs, err := txn.Get(key)
		if err != nil {
			if errors.Is(err, backend.ErrNotExistKey) {
				return nil
			}
			return err
		}
		value = bs
		return nil
	}); err != nil {
		return nil, errors.WithStack(err)
	}
	if value == nil {
		st.cache.Set(string(key), []byte{})
	} else {
		st.cache.Set(string(key), value)
	}
	return value, nil
}

// Execute runs fn on a fresh context and persists the changes only when fn succeeds
func (st *Store) Execute(fn func(ctx *types.Context) error) error {
	st.lock.Lock()
	defer st.lock.Unlock()
	if st.closed {
		return errors.WithStack(ErrStoreClosed)
	}

	ctx := types.NewContext(st, st.Now())
	sn := ctx.Snapshot()
	err := fn(ctx)
	if err == nil {
		err = ctx.Err()
	}
	if err != nil {
		ctx.Revert(sn)
		return err
	}
	ctx.Commit(sn)

	type change struct {
		value   []byte
		deleted bool
	}
	changes := map[string]change{}
	if err := st.back.Update(func(txn backend.StoreWriter) error {
		return ctx.EachChange(func(key []byte, value []byte, deleted bool) error {
			changes[string(key)] = change{value: value, deleted: deleted}
			if deleted {
				return txn.Delete(key)
			}
			return txn.Set(key, value)
		})
	}); err != nil {
		st.log.Error("store flush failed", "err", err)
		return errors.Wrap(ErrStoreFlush, err.Error())
	}
	for k, c := range changes {
		if c.deleted {
			st.cache.Set(k, []byte{})
		} else {
			st.cache.Set(k, c.value)
		}
	}
	return nil
}

// View runs fn on a context that is discarded afterwards
func (st *Store) View(fn func(ctx *types.Context) error) error {
	st.lock.RLock()
	defer st.lock.RUnlock()
	if st.closed {
		return errors.WithStack(ErrStoreClosed)
	}

	ctx := types.NewContext(st, st.Now())
	if err := fn(ctx); err != nil {
		return err
	}
	return ctx.Err()
}
