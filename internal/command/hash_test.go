package command

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emberdb/emberdb/internal/resp"
	"github.com/emberdb/emberdb/internal/store"
)

func TestHGet_Parse(t *testing.T) {
	cmd, err := Parse(req("hget", "map", "hello"))
	require.NoError(t, err)

	hget, ok := cmd.(*HGet)
	require.True(t, ok)
	assert.Equal(t, "map", hget.Key())
	assert.Equal(t, "hello", hget.Field())
}

func TestHSet_Parse(t *testing.T) {
	cmd, err := Parse(req("hset", "map", "hello", "world"))
	require.NoError(t, err)

	hset, ok := cmd.(*HSet)
	require.True(t, ok)
	assert.Equal(t, "map", hset.Key())
	assert.Equal(t, "hello", hset.Field())
	assert.Equal(t, resp.BulkString("world"), hset.Value())
}

func TestHGetAll_Parse(t *testing.T) {
	cmd, err := Parse(req("hgetall", "map"))
	require.NoError(t, err)

	hgetall, ok := cmd.(*HGetAll)
	require.True(t, ok)
	assert.Equal(t, "map", hgetall.Key())
}

func TestHMGet_Parse(t *testing.T) {
	cmd, err := Parse(req("hmget", "map", "f1", "f2", "f3"))
	require.NoError(t, err)

	hmget, ok := cmd.(*HMGet)
	require.True(t, ok)
	assert.Equal(t, "map", hmget.Key())
	assert.Equal(t, []string{"f1", "f2", "f3"}, hmget.Fields())
}

func TestHSetHGet_Execute(t *testing.T) {
	st := store.New(0)

	reply := (&HSet{key: "h", field: "f1", value: resp.BulkString("v1")}).Execute(st)
	assert.Equal(t, resp.SimpleString("OK"), reply)

	reply = (&HGet{key: "h", field: "f1"}).Execute(st)
	assert.Equal(t, resp.BulkString("v1"), reply)

	reply = (&HGet{key: "h", field: "f2"}).Execute(st)
	assert.Equal(t, resp.NullBulk(), reply)
}

func TestHMGet_Execute_PreservesOrderAndLength(t *testing.T) {
	st := store.New(0)
	st.HSet("h", "f1", resp.BulkString("v1"))

	reply := (&HMGet{key: "h", fields: []string{"f1", "f2"}}).Execute(st)
	require.Equal(t, byte(resp.TypeArray), reply.Type)
	require.Len(t, reply.Array, 2)
	assert.Equal(t, resp.BulkString("v1"), reply.Array[0])
	assert.Equal(t, resp.NullBulk(), reply.Array[1])
}

func TestHMGet_Execute_MissingKey(t *testing.T) {
	st := store.New(0)

	reply := (&HMGet{key: "missing", fields: []string{"a", "b"}}).Execute(st)
	require.Len(t, reply.Array, 2)
	assert.Equal(t, resp.NullBulk(), reply.Array[0])
	assert.Equal(t, resp.NullBulk(), reply.Array[1])
}

func TestHGetAll_Execute(t *testing.T) {
	st := store.New(0)
	st.HSet("h", "f1", resp.BulkString("v1"))
	st.HSet("h", "f2", resp.BulkString("v2"))

	reply := (&HGetAll{key: "h"}).Execute(st)
	require.Equal(t, byte(resp.TypeArray), reply.Type)
	require.Len(t, reply.Array, 4)

	// Alternating field/value entries, in no particular order.
	got := map[string]resp.Frame{}
	for i := 0; i < len(reply.Array); i += 2 {
		got[reply.Array[i].Str] = reply.Array[i+1]
	}
	assert.Equal(t, resp.BulkString("v1"), got["f1"])
	assert.Equal(t, resp.BulkString("v2"), got["f2"])
}

func TestHGetAll_Execute_MissingKeyIsEmptyArray(t *testing.T) {
	st := store.New(0)

	reply := (&HGetAll{key: "missing"}).Execute(st)
	assert.Equal(t, byte(resp.TypeArray), reply.Type)
	assert.Empty(t, reply.Array)
	assert.False(t, reply.Null)
}
