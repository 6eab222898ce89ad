package store

import (
	"fmt"
	"sort"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emberdb/emberdb/internal/resp"
)

func TestStore_GetSet(t *testing.T) {
	st := New(0)

	_, ok := st.Get("missing")
	assert.False(t, ok)

	st.Set("k", resp.BulkString("v1"))
	v, ok := st.Get("k")
	require.True(t, ok)
	assert.Equal(t, resp.BulkString("v1"), v)

	// Overwrite, not merge.
	st.Set("k", resp.BulkString("v2"))
	v, _ = st.Get("k")
	assert.Equal(t, resp.BulkString("v2"), v)
}

func TestStore_SetStoresAnyFrame(t *testing.T) {
	st := New(0)
	st.Set("n", resp.Integer(42))

	v, ok := st.Get("n")
	require.True(t, ok)
	assert.Equal(t, resp.Integer(42), v)
}

func TestStore_NamespacesAreIndependent(t *testing.T) {
	st := New(0)
	st.Set("same", resp.BulkString("scalar"))
	st.HSet("same", "f", resp.BulkString("hash"))
	st.SAdd("same", "member")

	v, ok := st.Get("same")
	require.True(t, ok)
	assert.Equal(t, resp.BulkString("scalar"), v)

	hv, ok := st.HGet("same", "f")
	require.True(t, ok)
	assert.Equal(t, resp.BulkString("hash"), hv)

	assert.True(t, st.SIsMember("same", "member"))
}

func TestStore_HGet(t *testing.T) {
	st := New(0)

	_, ok := st.HGet("h", "f")
	assert.False(t, ok)

	st.HSet("h", "f1", resp.BulkString("v1"))
	v, ok := st.HGet("h", "f1")
	require.True(t, ok)
	assert.Equal(t, resp.BulkString("v1"), v)

	_, ok = st.HGet("h", "f2")
	assert.False(t, ok)
}

func TestStore_HMGet_AlwaysFullLength(t *testing.T) {
	st := New(0)

	// Absent key: same length, every entry absent.
	result := st.HMGet("missing", []string{"a", "b", "c"})
	require.Len(t, result, 3)
	for _, r := range result {
		assert.False(t, r.Present)
	}

	st.HSet("h", "f1", resp.BulkString("v1"))
	result = st.HMGet("h", []string{"f1", "f2"})
	require.Len(t, result, 2)
	assert.True(t, result[0].Present)
	assert.Equal(t, resp.BulkString("v1"), result[0].Frame)
	assert.False(t, result[1].Present)
}

func TestStore_HGetAll_Snapshot(t *testing.T) {
	st := New(0)

	_, ok := st.HGetAll("missing")
	assert.False(t, ok)

	st.HSet("h", "f1", resp.BulkString("v1"))
	st.HSet("h", "f2", resp.BulkString("v2"))

	snapshot, ok := st.HGetAll("h")
	require.True(t, ok)
	require.Len(t, snapshot, 2)

	// Later writes must not affect an already-returned snapshot.
	st.HSet("h", "f3", resp.BulkString("v3"))
	assert.Len(t, snapshot, 2)
}

func TestStore_SAdd_CountsOnlyNewMembers(t *testing.T) {
	st := New(0)

	assert.Equal(t, 2, st.SAdd("s", "hello", "world"))
	// Second identical call is a no-op.
	assert.Equal(t, 0, st.SAdd("s", "hello", "world"))
	// Duplicates within the input count once.
	assert.Equal(t, 1, st.SAdd("s", "new", "new"))
}

func TestStore_SMembers_Snapshot(t *testing.T) {
	st := New(0)

	_, ok := st.SMembers("missing")
	assert.False(t, ok)

	st.SAdd("s", "a", "b")
	members, ok := st.SMembers("s")
	require.True(t, ok)
	sort.Strings(members)
	assert.Equal(t, []string{"a", "b"}, members)

	st.SAdd("s", "c")
	assert.Len(t, members, 2)
}

func TestStore_SIsMember(t *testing.T) {
	st := New(0)

	assert.False(t, st.SIsMember("missing", "whatever"))

	st.SAdd("s", "hello")
	assert.True(t, st.SIsMember("s", "hello"))
	assert.False(t, st.SIsMember("s", "nope"))
}

func TestStore_Sizes(t *testing.T) {
	st := New(0)
	st.Set("a", resp.BulkString("1"))
	st.Set("b", resp.BulkString("2"))
	st.HSet("h", "f", resp.BulkString("v"))
	st.SAdd("s1", "m")
	st.SAdd("s2", "m")
	st.SAdd("s3", "m")

	scalars, hashes, sets := st.Sizes()
	assert.Equal(t, 2, scalars)
	assert.Equal(t, 1, hashes)
	assert.Equal(t, 3, sets)
}

func TestStore_ConcurrentMixedOps(t *testing.T) {
	st := New(32)
	const workers = 8
	const perWorker = 200

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				key := fmt.Sprintf("k%d", i%17)
				st.Set(key, resp.BulkString(fmt.Sprintf("%d:%d", id, i)))
				st.Get(key)
				st.HSet(key, fmt.Sprintf("f%d", id), resp.BulkString("v"))
				st.HGetAll(key)
				st.SAdd(key, fmt.Sprintf("m%d", i))
				st.SMembers(key)
			}
		}(w)
	}
	wg.Wait()

	scalars, hashes, sets := st.Sizes()
	assert.Equal(t, 17, scalars)
	assert.Equal(t, 17, hashes)
	assert.Equal(t, 17, sets)

	for i := 0; i < 17; i++ {
		key := fmt.Sprintf("k%d", i)
		members, ok := st.SMembers(key)
		require.True(t, ok)
		assert.NotEmpty(t, members)
	}
}
