package types

import "github.com/pkg/errors"

type contextCache struct {
	ctx     *Context
	DataMap map[string][]byte
}

func newContextCache(ctx *Context) *contextCache {
	return &contextCache{
		ctx:     ctx,
		DataMap: map[string][]byte{},
	}
}

// Data returns the data from the loader and keeps it for the next lookup
func (cc *contextCache) Data(key string) []byte {
	if value, has := cc.DataMap[key]; has {
		return value
	}
	value, err := cc.ctx.loader.Data([]byte(key))
	if err != nil {
		if cc.ctx.err == nil {
			cc.ctx.err = errors.Wrapf(ErrLoaderFailed, "%v", err)
		}
		return nil
	}
	cc.DataMap[key] = value
	return value
}
