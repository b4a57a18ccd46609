package httpcache

import (
	"errors"

	"agora.network/agora/lib/common"
)

func NewAdapter(cfg common.Config) (Adapter, error) {
	switch cfg.HTTPCacheAdapter {
	case common.HTTPCacheMemoryAdapterName:
		size := cfg.HTTPCachePoolSize
		adapter := NewMemCacheAdapter(size)
		return adapter, nil
	case common.HTTPCacheRedisAdapterName:
		opt := &RedisRingOptions{
			Addrs: cfg.HTTPCacheRedisAddrs,
		}
		adapter := NewRedisCacheAdapter(opt)
		return adapter, nil
	default:
		return nil, errors.New("adapter not found")
	}
}
