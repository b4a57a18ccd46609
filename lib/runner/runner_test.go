package runner

import (
	"testing"

	"github.com/stretchr/testify/require"

	"agora.network/agora/lib/common"
	"agora.network/agora/lib/network"
	"agora.network/agora/lib/network/httpcache"
	"agora.network/agora/lib/storage"
)

func newTestRunner(t *testing.T, conf common.Config) *Runner {
	endpoint, err := common.ParseEndpoint("http://localhost:12345")
	require.NoError(t, err)

	networkConfig, err := network.NewServerConfigFromEndpoint(endpoint)
	require.NoError(t, err)

	st, err := storage.NewTestMemoryLevelDBBackend()
	require.NoError(t, err)

	r, err := NewRunner(networkConfig, st, nil, conf)
	require.NoError(t, err)

	return r
}

func TestRunnerReady(t *testing.T) {
	r := newTestRunner(t, common.NewConfig())
	r.Ready()

	require.NotNil(t, r.Engine())
	require.NotNil(t, r.Storage())
	require.NotNil(t, r.Network())
}

func TestRunnerCachingClient(t *testing.T) {
	{ // without adapter, caching is disabled
		r := newTestRunner(t, common.NewConfig())
		_, ok := r.newCachingClient().(*httpcache.NopClient)
		require.True(t, ok)
	}

	{ // memory adapter
		conf := common.NewConfig()
		conf.HTTPCacheAdapter = common.HTTPCacheMemoryAdapterName
		r := newTestRunner(t, conf)
		_, ok := r.newCachingClient().(*httpcache.Client)
		require.True(t, ok)
	}
}
