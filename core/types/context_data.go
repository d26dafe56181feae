package types

import (
	"github.com/meverselabs/farms/common"
)

// ContextData is a state data of the context
type ContextData struct {
	cache          *contextCache
	Parent         *ContextData
	DataMap        map[string][]byte
	DeletedDataMap map[string]bool
	isTop          bool
	size           uint64
}

// NewContextData returns a ContextData
func NewContextData(cache *contextCache, Parent *ContextData) *ContextData {
	ctd := &ContextData{
		cache:          cache,
		Parent:         Parent,
		DataMap:        map[string][]byte{},
		DeletedDataMap: map[string]bool{},
		isTop:          true,
	}
	return ctd
}

// Size returns the approximate number of bytes touched by the snapshot
func (ctd *ContextData) Size() uint64 {
	return ctd.size
}

// DataKey returns the flat key of the data owned by the contract
func DataKey(cont common.Address, addr common.Address, name []byte) string {
	return string(cont[:]) + string(addr[:]) + string(name)
}

// Data returns the data
func (ctd *ContextData) Data(cont common.Address, addr common.Address, name []byte) []byte {
	return ctd.data(DataKey(cont, addr, name))
}

func (ctd *ContextData) data(key string) []byte {
	if _, has := ctd.DeletedDataMap[key]; has {
		return nil
	}
	if value, has := ctd.DataMap[key]; has {
		return value
	}
	var value []byte
	if ctd.Parent != nil {
		value = ctd.Parent.data(key)
	} else {
		value = ctd.cache.Data(key)
	}
	ctd.size += uint64(len(key)) + uint64(len(value))
	if len(value) == 0 {
		return nil
	}
	if ctd.isTop {
		nvalue := make([]byte, len(value))
		copy(nvalue, value)
		return nvalue
	}
	return value
}

// SetData inserts the data, an empty value deletes it
func (ctd *ContextData) SetData(cont common.Address, addr common.Address, name []byte, value []byte) {
	key := DataKey(cont, addr, name)
	ctd.size += uint64(len(key))
	if len(value) == 0 {
		delete(ctd.DataMap, key)
		ctd.DeletedDataMap[key] = true
		ctd.size += 1 // bool
	} else {
		delete(ctd.DeletedDataMap, key)
		ctd.DataMap[key] = value
		ctd.size += uint64(len(value))
	}
}
