package store

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShardedMap_GetSet(t *testing.T) {
	m := newShardedMap[int](16)

	_, ok := m.get("missing")
	assert.False(t, ok)

	m.set("a", 1)
	v, ok := m.get("a")
	assert.True(t, ok)
	assert.Equal(t, 1, v)

	m.set("a", 2)
	v, _ = m.get("a")
	assert.Equal(t, 2, v)
}

func TestShardedMap_ShardCountFallback(t *testing.T) {
	// Non-power-of-two counts fall back to the default.
	for _, n := range []int{0, -1, 3, 100} {
		m := newShardedMap[int](n)
		assert.Len(t, m.shards, DefaultShardCount, "count %d", n)
	}

	m := newShardedMap[int](64)
	assert.Len(t, m.shards, 64)
}

func TestShardedMap_Update_CreatesOnFirstWrite(t *testing.T) {
	m := newShardedMap[[]string](16)

	m.update("k", func(v []string, ok bool) []string {
		assert.False(t, ok)
		return append(v, "first")
	})
	m.update("k", func(v []string, ok bool) []string {
		assert.True(t, ok)
		return append(v, "second")
	})

	v, ok := m.get("k")
	require.True(t, ok)
	assert.Equal(t, []string{"first", "second"}, v)
}

func TestShardedMap_View_MissingKey(t *testing.T) {
	m := newShardedMap[int](16)
	called := false
	m.view("nope", func(v int, ok bool) {
		called = true
		assert.False(t, ok)
		assert.Zero(t, v)
	})
	assert.True(t, called)
}

func TestShardedMap_Size(t *testing.T) {
	m := newShardedMap[int](16)
	for i := 0; i < 100; i++ {
		m.set(fmt.Sprintf("key:%d", i), i)
	}
	assert.Equal(t, 100, m.size())
}

func TestShardedMap_ConcurrentAccess(t *testing.T) {
	m := newShardedMap[int64](32)
	const workers = 16
	const perWorker = 500

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				key := fmt.Sprintf("w%d:k%d", id, i)
				m.set(key, int64(i))
				m.update("shared", func(v int64, ok bool) int64 {
					return v + 1
				})
			}
		}(w)
	}
	wg.Wait()

	assert.Equal(t, workers*perWorker+1, m.size())
	v, ok := m.get("shared")
	require.True(t, ok)
	assert.Equal(t, int64(workers*perWorker), v)
}
