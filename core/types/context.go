package types

import (
	"sort"

	"github.com/meverselabs/farms/common"
)

// Context is an intermediate in-memory state using the context data stack between commits
type Context struct {
	loader    Loader
	timestamp uint64
	cache     *contextCache
	stack     []*ContextData
	err       error
}

// NewContext returns a Context
func NewContext(loader Loader, Timestamp uint64) *Context {
	ctx := &Context{
		loader:    loader,
		timestamp: Timestamp,
	}
	ctx.cache = newContextCache(ctx)
	ctx.stack = []*ContextData{NewContextData(ctx.cache, nil)}
	return ctx
}

// NewEmptyContext returns a Context without persistent state
func NewEmptyContext(Timestamp uint64) *Context {
	return NewContext(newEmptyLoader(), Timestamp)
}

// LastTimestamp returns the unix time in seconds the context was generated at
func (ctx *Context) LastTimestamp() uint64 {
	return ctx.timestamp
}

// Err returns the first loader failure observed by the context
func (ctx *Context) Err() error {
	return ctx.err
}

// Top returns the top snapshot
func (ctx *Context) Top() *ContextData {
	return ctx.stack[len(ctx.stack)-1]
}

// ContractContext returns a ContractContext scoped to the contract address
func (ctx *Context) ContractContext(cont common.Address, from common.Address) *ContractContext {
	return &ContractContext{
		cont: cont,
		from: from,
		ctx:  ctx,
	}
}

// Snapshot push a snapshot and returns the snapshot number of it
func (ctx *Context) Snapshot() int {
	ctd := NewContextData(ctx.cache, ctx.Top())
	ctx.stack[len(ctx.stack)-1].isTop = false
	ctx.stack = append(ctx.stack, ctd)
	return len(ctx.stack)
}

// Revert removes snapshots after the snapshot number
func (ctx *Context) Revert(sn int) {
	if sn < 2 {
		sn = 2
	}
	if len(ctx.stack) >= sn {
		ctx.stack = ctx.stack[:sn-1]
	}
	ctx.stack[len(ctx.stack)-1].isTop = true
}

// Commit apply snapshots to the top after the snapshot number
func (ctx *Context) Commit(sn int) {
	if sn < 2 {
		sn = 2
	}
	for len(ctx.stack) >= sn {
		ctd := ctx.Top()
		ctx.stack = ctx.stack[:len(ctx.stack)-1]
		top := ctx.Top()
		for key, value := range ctd.DataMap {
			delete(top.DeletedDataMap, key)
			top.DataMap[key] = value
		}
		for key := range ctd.DeletedDataMap {
			delete(top.DataMap, key)
			top.DeletedDataMap[key] = true
		}
		top.size += ctd.size
		top.isTop = true
	}
}

// StackSize returns the size of the context data stack
func (ctx *Context) StackSize() int {
	return len(ctx.stack)
}

// EachChange calls fn for every key changed in the base snapshot in key order
func (ctx *Context) EachChange(fn func(key []byte, value []byte, deleted bool) error) error {
	base := ctx.stack[0]
	keys := make([]string, 0, len(base.DataMap)+len(base.DeletedDataMap))
	for k := range base.DataMap {
		keys = append(keys, k)
	}
	for k := range base.DeletedDataMap {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if value, has := base.DataMap[k]; has {
			if err := fn([]byte(k), value, false); err != nil {
				return err
			}
		} else {
			if err := fn([]byte(k), nil, true); err != nil {
				return err
			}
		}
	}
	return nil
}
