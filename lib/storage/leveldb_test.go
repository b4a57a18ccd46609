package storage

import (
	"fmt"
	"sort"
	"testing"

	"github.com/stretchr/testify/require"

	"agora.network/agora/lib/errors"
)

func TestLevelDBBackendInitMemStorage(t *testing.T) {
	st := &LevelDBBackend{}
	defer st.Close()

	config, _ := NewConfigFromString("memory://")
	if err := st.Init(config); err != nil {
		t.Errorf("failed to initialize mem db: %v", err)
	}
}

func TestStorageConfigFromString(t *testing.T) {
	config, err := NewConfigFromString("file:///var/lib/agora/db")
	require.Nil(t, err)
	require.Equal(t, "file", config.Scheme)
	require.Equal(t, "/var/lib/agora/db", config.Path)

	_, err = NewConfigFromString("redis://localhost")
	require.NotNil(t, err)
}

func TestLevelDBBackendNew(t *testing.T) {
	st, _ := NewTestMemoryLevelDBBackend()
	defer st.Close()

	key := "showme"
	input := map[int]string{
		90: "99",
		91: "91",
		92: "92",
	}
	require.Nil(t, st.New(key, input))

	fetched := map[int]string{}
	require.Nil(t, st.Get(key, &fetched))
	require.Equal(t, input, fetched)

	err := st.New(key, input)
	require.True(t, errors.StorageRecordAlreadyExists.Equal(err), "'New' only for new key")
}

func TestLevelDBBackendSetRemove(t *testing.T) {
	st, _ := NewTestMemoryLevelDBBackend()
	defer st.Close()

	key := "showme"

	err := st.Set(key, "findme")
	require.True(t, errors.StorageRecordDoesNotExist.Equal(err), "'Set' only for existing key")

	require.Nil(t, st.New(key, "findme"))
	require.Nil(t, st.Set(key, "killme"))

	var fetched string
	require.Nil(t, st.Get(key, &fetched))
	require.Equal(t, "killme", fetched)

	require.Nil(t, st.Remove(key))
	exists, err := st.Has(key)
	require.Nil(t, err)
	require.False(t, exists)
}

func TestLevelDBBackendTransaction(t *testing.T) {
	st, _ := NewTestMemoryLevelDBBackend()
	defer st.Close()

	key0 := "showme"
	value0 := "findme"

	{
		ts, err := st.OpenTransaction()
		require.Nil(t, err)

		require.Nil(t, ts.New(key0, value0))
		require.Nil(t, ts.Commit())

		var returned string
		require.Nil(t, st.Get(key0, &returned))
		require.Equal(t, value0, returned)
	}

	{
		ts, err := st.OpenTransaction()
		require.Nil(t, err)

		require.Nil(t, ts.Set(key0, "killme"))
		require.Nil(t, ts.Discard())

		var returned string
		require.Nil(t, st.Get(key0, &returned))
		require.Equal(t, value0, returned, "value is stored after 'Discard()'")
	}
}

func TestLevelDBBackendGetIterator(t *testing.T) {
	st, _ := NewTestMemoryLevelDBBackend()
	defer st.Close()

	total := 30
	var keys []string
	for i := 0; i < total; i++ {
		key := fmt.Sprintf("item-%03d", i)
		require.Nil(t, st.New(key, i))
		keys = append(keys, key)
	}

	var collected []string
	iterFunc, closeFunc := st.GetIterator("item-", NewDefaultListOptions(false, nil, 0))
	for {
		item, hasNext := iterFunc()
		if !hasNext {
			break
		}
		collected = append(collected, string(item.Key))
	}
	closeFunc()

	require.Equal(t, keys, collected)
}

func TestLevelDBWalk(t *testing.T) {
	st, _ := NewTestMemoryLevelDBBackend()
	defer st.Close()

	kv := map[string]string{
		"test-1": "1",
		"test-2": "2",
		"test-3": "3",
		"test-4": "4",
		"test-5": "5",
	}
	for k, v := range kv {
		require.Nil(t, st.New(k, v))
	}
	require.Nil(t, st.New("notest-1", "notest-1"))

	var keys []string
	for k := range kv {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	{
		var walkedKeys []string
		err := st.Walk("test-", NewWalkOption("test-1", 10, false), func(k, v []byte) (bool, error) {
			walkedKeys = append(walkedKeys, string(k))
			return true, nil
		})
		require.Nil(t, err)
		require.Equal(t, keys, walkedKeys)
	}

	{ // limit
		var walkedKeys []string
		err := st.Walk("test-", NewWalkOption("", 2, false), func(k, v []byte) (bool, error) {
			walkedKeys = append(walkedKeys, string(k))
			return true, nil
		})
		require.Nil(t, err)
		require.Equal(t, keys[:2], walkedKeys)
	}

	{ // reverse
		var walkedKeys []string
		err := st.Walk("test-", NewWalkOption("", 10, true), func(k, v []byte) (bool, error) {
			walkedKeys = append(walkedKeys, string(k))
			return true, nil
		})
		require.Nil(t, err)

		var reversed []string
		for i := len(keys) - 1; i >= 0; i-- {
			reversed = append(reversed, keys[i])
		}
		require.Equal(t, reversed, walkedKeys)
	}
}
